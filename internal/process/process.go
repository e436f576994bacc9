package process

import (
	"obsprocess/internal/fieldmapping"
	"obsprocess/internal/provider"
	"obsprocess/internal/runinfo"
)

const (
	// TaxonHarvestID is the harvest record of the taxon reference data.
	TaxonHarvestID = "Taxon"
	// AreaHarvestID is the harvest record of the administrative areas.
	AreaHarvestID = "Area"
)

// mappingSystems are the vocabularies resolved once per run.
var mappingSystems = []fieldmapping.ExternalSystemID{
	fieldmapping.ExternalArtportalen,
	fieldmapping.ExternalDarwinCore,
}

// providerInfoStub builds the provenance half of a provider's info from the
// harvest records known before processing starts.
func providerInfoStub(p provider.DataProvider, harvests map[string]runinfo.HarvestInfo) runinfo.ProviderInfo {
	info := runinfo.ProviderInfo{
		Provider:     p,
		Harvest:      harvestOrZero(harvests, p.HarvestInfoID(), p),
		Dependencies: []runinfo.HarvestInfo{harvestOrZero(harvests, TaxonHarvestID, 0)},
	}
	if p.RequiresAreaHarvest() {
		info.Dependencies = append(info.Dependencies, harvestOrZero(harvests, AreaHarvestID, 0))
	}
	return info
}

func harvestOrZero(harvests map[string]runinfo.HarvestInfo, id string, p provider.DataProvider) runinfo.HarvestInfo {
	if h, ok := harvests[id]; ok {
		return h
	}
	return runinfo.HarvestInfo{ID: id, Provider: p}
}

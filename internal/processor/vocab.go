package processor

import (
	"strconv"

	"obsprocess/internal/fieldmapping"
	"obsprocess/internal/observation"
	"obsprocess/internal/taxon"
)

const issueTaxonNotFound = "taxon_not_found"

// vocab resolves taxa and vocabulary values for one provider during a run.
// Unknown values are recorded as issues on the observation, never as errors.
type vocab struct {
	taxa     map[int]*taxon.Taxon
	mappings fieldmapping.Mappings
}

func (v vocab) applyTaxon(o *observation.Observation, id int) {
	o.TaxonID = id
	t, ok := v.taxa[id]
	if !ok {
		o.AddIssue(issueTaxonNotFound)
		return
	}
	o.ScientificName = t.ScientificName
	o.VernacularName = t.VernacularName
}

// mapValue translates a raw string. Blank values and fields the provider has
// no mapping for give nil.
func (v vocab) mapValue(o *observation.Observation, field fieldmapping.FieldID, raw string) *int {
	if raw == "" {
		return nil
	}
	if _, ok := v.mappings[field]; !ok {
		return nil
	}
	id, ok := v.mappings.Lookup(field, raw)
	if !ok {
		o.AddIssue("unmapped_value:" + field.String() + ":" + raw)
		return nil
	}
	return &id
}

func (v vocab) mapID(o *observation.Observation, field fieldmapping.FieldID, raw *int) *int {
	if raw == nil {
		return nil
	}
	return v.mapValue(o, field, strconv.Itoa(*raw))
}

func (v vocab) mapArea(o *observation.Observation, field fieldmapping.FieldID, raw *int) string {
	id := v.mapID(o, field, raw)
	if id == nil {
		return ""
	}
	return strconv.Itoa(*id)
}

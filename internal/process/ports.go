package process

import (
	"context"

	"obsprocess/internal/fieldmapping"
	"obsprocess/internal/observation"
	"obsprocess/internal/provider"
	"obsprocess/internal/taxon"
)

type TaxonLoader interface {
	LoadAll(ctx context.Context) (map[int]*taxon.Taxon, error)
}

type MappingSource interface {
	GetAll(ctx context.Context) ([]fieldmapping.FieldMapping, error)
}

type InstanceManager interface {
	Active(ctx context.Context) (observation.Instance, error)
	Activate(ctx context.Context, instance observation.Instance) bool
	CopyProviderData(ctx context.Context, p provider.DataProvider) bool
}

// AreaCache is the area enrichment cache flushed at the end of every run.
type AreaCache interface {
	PersistCache(ctx context.Context) error
}

package processor

import (
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"obsprocess/internal/fieldmapping"
	"obsprocess/internal/provider"
	"obsprocess/internal/verbatim"
)

// artportalenRequired are the fields an Artportalen run cannot do without.
var artportalenRequired = []fieldmapping.FieldID{
	fieldmapping.Activity,
	fieldmapping.Gender,
	fieldmapping.LifeStage,
	fieldmapping.ValidationStatus,
	fieldmapping.County,
	fieldmapping.Municipality,
	fieldmapping.Parish,
	fieldmapping.Province,
}

func NewArtportalen(source verbatim.Repository[verbatim.ArtportalenSighting], deps Deps, cfg Config) Processor {
	s := newService(provider.Artportalen, source, transformArtportalen, deps, cfg)
	s.system = fieldmapping.ExternalArtportalen
	s.required = artportalenRequired
	return s
}

func NewClamPortal(source verbatim.Repository[verbatim.ClamObservation], deps Deps, cfg Config) Processor {
	return newService(provider.ClamPortal, source, transformClam, deps, cfg)
}

func NewKUL(source verbatim.Repository[verbatim.KulObservation], deps Deps, cfg Config) Processor {
	return newService(provider.KUL, source, transformKul, deps, cfg)
}

// NewSurvey returns the processor of a darwin-core shaped provider: MVM, NORS,
// SERS, SHARK or VirtualHerbarium.
func NewSurvey(p provider.DataProvider, source verbatim.Repository[verbatim.SurveyObservation], deps Deps, cfg Config) Processor {
	return newService(p, source, transformSurvey(p), deps, cfg)
}

// WithStrategy overrides the provider's default strategy.
func WithStrategy(p Processor, strategy provider.Strategy) Processor {
	switch s := p.(type) {
	case *service[verbatim.ArtportalenSighting]:
		s.strategy = strategy
	case *service[verbatim.ClamObservation]:
		s.strategy = strategy
	case *service[verbatim.KulObservation]:
		s.strategy = strategy
	case *service[verbatim.SurveyObservation]:
		s.strategy = strategy
	}
	return p
}

// NewPostgres builds the processor of p reading its verbatim table from db.
// Providers in bulk are walked with the bulk strategy.
func NewPostgres(p provider.DataProvider, db *pgxpool.Pool, deps Deps, cfg Config, bulk provider.Mask) (Processor, error) {
	var proc Processor
	switch p {
	case provider.Artportalen:
		proc = NewArtportalen(verbatim.NewPostgresRepo[verbatim.ArtportalenSighting](db, p), deps, cfg)
	case provider.ClamPortal:
		proc = NewClamPortal(verbatim.NewPostgresRepo[verbatim.ClamObservation](db, p), deps, cfg)
	case provider.KUL:
		proc = NewKUL(verbatim.NewPostgresRepo[verbatim.KulObservation](db, p), deps, cfg)
	case provider.MVM, provider.NORS, provider.SERS, provider.SHARK, provider.VirtualHerbarium:
		proc = NewSurvey(p, verbatim.NewPostgresRepo[verbatim.SurveyObservation](db, p), deps, cfg)
	default:
		return nil, fmt.Errorf("no processor for data provider %s", p)
	}
	if bulk.Has(p) {
		proc = WithStrategy(proc, provider.StrategyBulk)
	}
	return proc, nil
}

// NewPostgresAll builds processors for every known provider.
func NewPostgresAll(db *pgxpool.Pool, deps Deps, cfg Config, bulk provider.Mask) (map[provider.DataProvider]Processor, error) {
	out := make(map[provider.DataProvider]Processor, len(provider.All()))
	for _, p := range provider.All() {
		proc, err := NewPostgres(p, db, deps, cfg, bulk)
		if err != nil {
			return nil, err
		}
		out[p] = proc
	}
	return out, nil
}

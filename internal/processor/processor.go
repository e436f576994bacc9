package processor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/time/rate"

	"obsprocess/internal/fieldmapping"
	"obsprocess/internal/metrics"
	"obsprocess/internal/observation"
	"obsprocess/internal/runinfo"
	"obsprocess/internal/taxon"
)

var (
	// ErrCanceled marks a provider run stopped by cancellation.
	ErrCanceled = errors.New("processing canceled")
	// ErrEmptySource is returned when a provider has no verbatim records.
	ErrEmptySource = errors.New("verbatim source is empty")
)

// Job is the read-only input shared by every provider processor of one run.
type Job struct {
	Instance observation.Instance
	Taxa     map[int]*taxon.Taxon
	Mappings map[fieldmapping.ExternalSystemID]fieldmapping.Mappings
}

// Processor turns one provider's verbatim collection into processed
// observations in the job's instance. The returned RunInfo is always finished.
type Processor interface {
	Process(ctx context.Context, job Job) *runinfo.RunInfo
}

// AreaEnricher places observations in administrative areas.
type AreaEnricher interface {
	AddAreaData(ctx context.Context, obs []*observation.Observation) error
}

type Config struct {
	BatchSize   int
	Concurrency int
	// Limiter throttles verbatim fetches. Nil means unlimited.
	Limiter *rate.Limiter
}

type Deps struct {
	Store   observation.Store
	Areas   AreaEnricher
	Metrics *metrics.Metrics
	Logger  *slog.Logger
}

func canceled(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrCanceled, err)
	}
	return nil
}

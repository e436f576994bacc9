package processor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"obsprocess/internal/batch"
	"obsprocess/internal/fieldmapping"
	"obsprocess/internal/observation"
	"obsprocess/internal/provider"
	"obsprocess/internal/runinfo"
	"obsprocess/internal/verbatim"
)

// service processes one provider whose verbatim records decode into T.
type service[T any] struct {
	provider  provider.DataProvider
	strategy  provider.Strategy
	source    verbatim.Repository[T]
	transform transformFunc[T]
	system    fieldmapping.ExternalSystemID
	required  []fieldmapping.FieldID
	deps      Deps
	cfg       Config
	logger    *slog.Logger
}

func newService[T any](p provider.DataProvider, source verbatim.Repository[T], transform transformFunc[T], deps Deps, cfg Config) *service[T] {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 5000
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &service[T]{
		provider:  p,
		strategy:  p.Strategy(),
		source:    source,
		transform: transform,
		system:    fieldmapping.ExternalDarwinCore,
		deps:      deps,
		cfg:       cfg,
		logger:    logger.With("provider", p.String()),
	}
}

func (s *service[T]) Process(ctx context.Context, job Job) *runinfo.RunInfo {
	run := runinfo.New(s.provider, time.Now())
	s.logger.Info("processing started", "instance", job.Instance.String(), "strategy", int(s.strategy))

	count, err := s.process(ctx, job)

	status := runinfo.StatusSuccess
	switch {
	case err == nil:
		s.logger.Info("processing finished", "count", count, "duration", time.Since(run.Start))
	case errors.Is(err, ErrCanceled) || ctx.Err() != nil:
		status = runinfo.StatusCanceled
		s.logger.Warn("processing canceled", "count", count)
	default:
		status = runinfo.StatusFailed
		s.logger.Error("processing failed", "count", count, "error", err)
	}
	run.Finish(status, count, time.Now())
	s.deps.Metrics.ProviderFinished(s.provider, string(status), run.End.Sub(run.Start))
	return run
}

func (s *service[T]) process(ctx context.Context, job Job) (int, error) {
	if err := canceled(ctx); err != nil {
		return 0, err
	}
	m := job.Mappings[s.system]
	if err := fieldmapping.Require(m, s.system, s.required...); err != nil {
		return 0, err
	}
	v := vocab{taxa: job.Taxa, mappings: m}

	if err := s.deps.Store.DeleteProviderData(ctx, job.Instance, s.provider); err != nil {
		return 0, fmt.Errorf("delete provider data: %w", err)
	}

	switch s.strategy {
	case provider.StrategyPartitioned:
		return s.processPartitioned(ctx, job.Instance, v)
	case provider.StrategyBulk:
		return s.processBulk(ctx, job.Instance, v)
	default:
		return s.processSequential(ctx, job.Instance, v)
	}
}

func (s *service[T]) processSequential(ctx context.Context, instance observation.Instance, v vocab) (int, error) {
	var (
		lastID int64 = math.MinInt64
		total  int
	)
	for first := true; ; first = false {
		if err := canceled(ctx); err != nil {
			return total, err
		}
		if err := s.throttle(ctx); err != nil {
			return total, err
		}
		recs, err := s.source.GetBatchAfter(ctx, lastID, s.cfg.BatchSize)
		if err != nil {
			return total, fmt.Errorf("fetch batch after id %d: %w", lastID, err)
		}
		if len(recs) == 0 {
			if first {
				return 0, ErrEmptySource
			}
			return total, nil
		}

		n, err := s.commit(ctx, instance, v, recs)
		if err != nil {
			s.deps.Metrics.BatchFailed(s.provider)
			return total, fmt.Errorf("commit batch after id %d: %w", lastID, err)
		}
		total += n
		lastID = recs[len(recs)-1].ID
		s.logger.Debug("batch committed", "last_id", lastID, "count", n, "total", total)
	}
}

func (s *service[T]) processPartitioned(ctx context.Context, instance observation.Instance, v vocab) (int, error) {
	minID, maxID, ok, err := s.source.GetIDSpan(ctx)
	if err != nil {
		return 0, fmt.Errorf("get id span: %w", err)
	}
	if !ok {
		return 0, ErrEmptySource
	}

	ranges := batch.Partition(minID, maxID, s.cfg.BatchSize)
	s.logger.Info("partitioned source", "min_id", minID, "max_id", maxID, "ranges", len(ranges))

	ctrl := batch.NewController(s.cfg.Concurrency, s.cfg.Limiter, s.logger)
	res, err := ctrl.Run(ctx, ranges, func(ctx context.Context, r batch.Range) (int, error) {
		recs, err := s.source.GetBatch(ctx, r.Start, r.End)
		if err != nil {
			return 0, fmt.Errorf("fetch: %w", err)
		}
		return s.commit(ctx, instance, v, recs)
	})
	for range res.Failures {
		s.deps.Metrics.BatchFailed(s.provider)
	}
	if err != nil {
		if ctx.Err() != nil {
			return res.Accepted, fmt.Errorf("%w: %w", ErrCanceled, err)
		}
		return res.Accepted, fmt.Errorf("run ranges: %w", err)
	}
	if len(res.Failures) > 0 {
		return res.Accepted, fmt.Errorf("%d of %d ranges failed, first: %w", len(res.Failures), len(ranges), res.Failures[0])
	}
	return res.Accepted, nil
}

func (s *service[T]) processBulk(ctx context.Context, instance observation.Instance, v vocab) (int, error) {
	var (
		buf   = make([]verbatim.Record[T], 0, s.cfg.BatchSize)
		seen  bool
		total int
	)
	flush := func() error {
		if len(buf) == 0 {
			return nil
		}
		n, err := s.commit(ctx, instance, v, buf)
		if err != nil {
			s.deps.Metrics.BatchFailed(s.provider)
			return fmt.Errorf("commit batch: %w", err)
		}
		total += n
		buf = buf[:0]
		return nil
	}

	if err := s.throttle(ctx); err != nil {
		return 0, err
	}
	err := s.source.GetAll(ctx, func(rec verbatim.Record[T]) error {
		seen = true
		buf = append(buf, rec)
		if len(buf) < s.cfg.BatchSize {
			return nil
		}
		if err := canceled(ctx); err != nil {
			return err
		}
		return flush()
	})
	if err == nil {
		err = flush()
	}
	if err != nil {
		return total, err
	}
	if !seen {
		return 0, ErrEmptySource
	}
	return total, nil
}

// commit transforms recs, places them in areas when the provider needs it and
// writes them in one batch.
func (s *service[T]) commit(ctx context.Context, instance observation.Instance, v vocab, recs []verbatim.Record[T]) (int, error) {
	if len(recs) == 0 {
		return 0, nil
	}
	obs := make([]*observation.Observation, 0, len(recs))
	for _, rec := range recs {
		obs = append(obs, s.transform(rec, v))
	}
	if s.provider.RequiresAreaHarvest() && s.deps.Areas != nil {
		if err := s.deps.Areas.AddAreaData(ctx, obs); err != nil {
			return 0, fmt.Errorf("add area data: %w", err)
		}
	}
	n, err := s.deps.Store.AddMany(ctx, instance, obs)
	if err != nil {
		return 0, fmt.Errorf("add observations: %w", err)
	}
	s.deps.Metrics.ObservationsProcessed(s.provider, n)
	return n, nil
}

func (s *service[T]) throttle(ctx context.Context) error {
	if s.cfg.Limiter == nil {
		return nil
	}
	if err := s.cfg.Limiter.Wait(ctx); err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("%w: %w", ErrCanceled, ctx.Err())
		}
		return err
	}
	return nil
}

package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"

	"obsprocess/internal/area"
	"obsprocess/internal/config"
	"obsprocess/internal/fieldmapping"
	"obsprocess/internal/instance"
	"obsprocess/internal/metrics"
	"obsprocess/internal/observation"
	"obsprocess/internal/process"
	"obsprocess/internal/processor"
	"obsprocess/internal/runinfo"
	"obsprocess/internal/taxon"
)

// app holds the wired services of one command invocation.
type app struct {
	db        *pgxpool.Pool
	instances *instance.Manager
	process   *process.Service
}

func newApp(ctx context.Context, cfg config.Config, logger *slog.Logger, reg prometheus.Registerer) (*app, error) {
	db, err := openDB(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	m := metrics.New(reg)
	store := observation.NewPostgresRepo(db)
	runs := runinfo.NewPostgresRepo(db)

	areaRepo := area.NewPostgresRepo(db)
	enricher := area.NewEnricher(areaRepo, areaRepo, cfg.AreaCacheTTL, logger.With("component", "area"))
	if err := enricher.LoadCache(ctx); err != nil {
		logger.Warn("load area cache failed, starting cold", "error", err)
	}

	var limiter *rate.Limiter
	if cfg.SourceFetchRPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.SourceFetchRPS), max(1, int(cfg.SourceFetchRPS)))
	}
	processors, err := processor.NewPostgresAll(db, processor.Deps{
		Store:   store,
		Areas:   enricher,
		Metrics: m,
		Logger:  logger.With("component", "processor"),
	}, processor.Config{
		BatchSize:   cfg.BatchSize,
		Concurrency: cfg.NoOfThreads,
		Limiter:     limiter,
	}, cfg.BulkProviders)
	if err != nil {
		db.Close()
		return nil, err
	}

	instances := instance.NewManager(store, runs, m, logger.With("component", "instance"))
	if active, err := instances.Active(ctx); err == nil {
		m.ActiveInstance(byte(active))
	}

	svc := process.NewService(process.Deps{
		Taxa:       taxon.NewLoader(taxon.NewPostgresRepo(db), cfg.TaxonPageSize, logger.With("component", "taxon")),
		Mappings:   fieldmapping.NewPostgresRepo(db),
		Store:      store,
		Runs:       runs,
		Instances:  instances,
		Areas:      enricher,
		Processors: processors,
		Metrics:    m,
		Logger:     logger.With("component", "process"),
	})

	return &app{db: db, instances: instances, process: svc}, nil
}

func (a *app) Close() {
	a.db.Close()
}

func openDB(ctx context.Context, cfg config.Config, logger *slog.Logger) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("create db pool: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database (%s): %w", cfg.RedactedDSN(), err)
	}
	logger.Info("database connection OK", "dsn", cfg.RedactedDSN())
	return pool, nil
}

package process

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"obsprocess/internal/fieldmapping"
	"obsprocess/internal/metrics"
	"obsprocess/internal/observation"
	"obsprocess/internal/processor"
	"obsprocess/internal/provider"
	"obsprocess/internal/runinfo"
)

var ErrRunInProgress = errors.New("a process run is already in progress")

const persistCacheTimeout = 2 * time.Minute

type Deps struct {
	Taxa       TaxonLoader
	Mappings   MappingSource
	Store      observation.Store
	Runs       runinfo.Repository
	Instances  InstanceManager
	Areas      AreaCache
	Processors map[provider.DataProvider]processor.Processor
	Metrics    *metrics.Metrics
	Logger     *slog.Logger
}

// Service runs the selected provider processors against the inactive
// instance and records the outcome.
type Service struct {
	deps    Deps
	running atomic.Bool
}

func NewService(deps Deps) *Service {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &Service{deps: deps}
}

// Running reports whether a run is in progress.
func (s *Service) Running() bool {
	return s.running.Load()
}

// Run processes every provider selected by mask and reports whether all of
// them succeeded and the outcome was recorded. With activate set, a
// successful run makes the processed instance active. Run never panics; every
// failure is logged and folded into the result.
func (s *Service) Run(ctx context.Context, mask provider.Mask, activate bool) bool {
	ok, err := s.TryRun(ctx, mask, activate)
	if err != nil {
		s.deps.Logger.Warn("process run rejected", "error", err)
	}
	return ok
}

// TryRun is Run that reports ErrRunInProgress when another run or copy holds
// the service.
func (s *Service) TryRun(ctx context.Context, mask provider.Mask, activate bool) (success bool, err error) {
	if !s.running.CompareAndSwap(false, true) {
		return false, ErrRunInProgress
	}
	defer s.running.Store(false)

	runID := uuid.New().String()
	logger := s.deps.Logger.With("run_id", runID)

	defer func() {
		if r := recover(); r != nil {
			logger.Error("process run panicked", "panic", r, "stack", string(debug.Stack()))
			success = false
		}
		s.persistAreaCache(ctx, logger)
		s.deps.Metrics.RunFinished(success)
	}()

	logger.Info("process run started", "providers", mask.String(), "activate", activate)
	success = s.run(ctx, runID, mask, activate, logger)
	logger.Info("process run finished", "success", success)
	return success, nil
}

func (s *Service) run(ctx context.Context, runID string, mask provider.Mask, activate bool, logger *slog.Logger) bool {
	start := time.Now()

	taxa, err := s.deps.Taxa.LoadAll(ctx)
	if err != nil {
		logger.Error("load taxa failed", "error", err)
		return false
	}
	if len(taxa) == 0 {
		logger.Error("load taxa failed", "error", "no taxa found")
		return false
	}
	if ctx.Err() != nil {
		logger.Warn("process run canceled", "after", "taxon load")
		return false
	}

	mappings, err := s.resolveMappings(ctx)
	if err != nil {
		logger.Error("resolve field mappings failed", "error", err)
		return false
	}

	if err := s.deps.Store.VerifyCollectionExists(ctx); err != nil {
		logger.Error("verify collection failed", "error", err)
		return false
	}
	if ctx.Err() != nil {
		logger.Warn("process run canceled", "after", "collection verification")
		return false
	}

	active, err := s.deps.Instances.Active(ctx)
	if err != nil {
		logger.Error("get active instance failed", "error", err)
		return false
	}
	target := active.Other()
	logger = logger.With("instance", target.String())

	harvests := s.harvestInfos(ctx, logger)

	job := processor.Job{Instance: target, Taxa: taxa, Mappings: mappings}
	selected := mask.Providers()
	runs := make([]*runinfo.RunInfo, len(selected))
	infos := make([]runinfo.ProviderInfo, len(selected))

	var g errgroup.Group
	for i, p := range selected {
		proc, ok := s.deps.Processors[p]
		if !ok {
			logger.Error("no processor configured", "provider", p.String())
			r := runinfo.New(p, time.Now())
			r.Finish(runinfo.StatusFailed, 0, time.Now())
			runs[i] = r
		} else {
			g.Go(func() error {
				runs[i] = s.processProvider(ctx, proc, p, job, logger)
				return nil
			})
		}
		infos[i] = providerInfoStub(p, harvests)
	}
	_ = g.Wait()

	success := true
	for i, r := range runs {
		if r.Status != runinfo.StatusSuccess {
			success = false
		}
		infos[i].ApplyRun(r)
	}

	if success {
		success = s.finalizeInstance(ctx, target, activate, logger)
	}

	return s.saveProcessInfo(ctx, runID, target, start, success, infos, logger)
}

// processProvider runs one processor, turning a panic into a failed run.
func (s *Service) processProvider(ctx context.Context, proc processor.Processor, p provider.DataProvider, job processor.Job, logger *slog.Logger) (run *runinfo.RunInfo) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			logger.Error("processor panicked", "provider", p.String(), "panic", r)
			run = runinfo.New(p, start)
			run.Finish(runinfo.StatusFailed, 0, time.Now())
		}
	}()
	run = proc.Process(ctx, job)
	if run == nil {
		run = runinfo.New(p, start)
	}
	// An unfinished run counts as failed.
	run.Finish(runinfo.StatusFailed, 0, time.Now())
	return run
}

func (s *Service) resolveMappings(ctx context.Context) (map[fieldmapping.ExternalSystemID]fieldmapping.Mappings, error) {
	all, err := s.deps.Mappings.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("get field mappings: %w", err)
	}
	out := make(map[fieldmapping.ExternalSystemID]fieldmapping.Mappings, len(mappingSystems))
	for _, system := range mappingSystems {
		m, err := fieldmapping.Resolve(system, all)
		if err != nil {
			return nil, err
		}
		out[system] = m
	}
	return out, nil
}

func (s *Service) harvestInfos(ctx context.Context, logger *slog.Logger) map[string]runinfo.HarvestInfo {
	all, err := s.deps.Runs.GetAllHarvestInfo(ctx)
	if err != nil {
		logger.Warn("get harvest info failed, continuing without", "error", err)
		return nil
	}
	out := make(map[string]runinfo.HarvestInfo, len(all))
	for _, h := range all {
		out[h.ID] = h
	}
	return out
}

func (s *Service) finalizeInstance(ctx context.Context, target observation.Instance, activate bool, logger *slog.Logger) bool {
	if err := s.deps.Store.CreateIndexes(ctx, target); err != nil {
		logger.Error("create indexes failed", "error", err)
		return false
	}
	if !activate {
		return true
	}
	return s.deps.Instances.Activate(ctx, target)
}

func (s *Service) saveProcessInfo(ctx context.Context, runID string, target observation.Instance, start time.Time, success bool, touched []runinfo.ProviderInfo, logger *slog.Logger) bool {
	// The run's outcome is recorded even when ctx was canceled.
	ctx = context.WithoutCancel(ctx)

	var prior []runinfo.ProviderInfo
	existing, err := s.deps.Runs.GetProcessInfo(ctx, byte(target))
	switch {
	case err == nil:
		prior = existing.ProviderInfo
	case errors.Is(err, runinfo.ErrNotFound):
	default:
		logger.Error("get process info failed", "error", err)
		return false
	}

	info := &runinfo.ProcessInfo{
		InstanceID:   byte(target),
		RunID:        runID,
		Start:        start,
		End:          time.Now(),
		Success:      success,
		ProviderInfo: runinfo.Merge(prior, touched),
	}
	if err := s.deps.Runs.AddOrUpdateProcessInfo(ctx, info); err != nil {
		logger.Error("save process info failed", "error", err)
		return false
	}
	return success
}

func (s *Service) persistAreaCache(ctx context.Context, logger *slog.Logger) {
	if s.deps.Areas == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), persistCacheTimeout)
	defer cancel()
	if err := s.deps.Areas.PersistCache(ctx); err != nil {
		logger.Warn("persist area cache failed", "error", err)
	}
}

// CopyProviderData brings p's data in the inactive instance in line with the
// active one. It refuses to run while a process run is writing the inactive
// instance.
func (s *Service) CopyProviderData(ctx context.Context, p provider.DataProvider) bool {
	ok, err := s.TryCopyProviderData(ctx, p)
	if err != nil {
		s.deps.Logger.Warn("copy provider data rejected", "provider", p.String(), "error", err)
	}
	return ok
}

// TryCopyProviderData is CopyProviderData that reports ErrRunInProgress. The
// copy holds the service like a run does.
func (s *Service) TryCopyProviderData(ctx context.Context, p provider.DataProvider) (bool, error) {
	if !s.running.CompareAndSwap(false, true) {
		return false, ErrRunInProgress
	}
	defer s.running.Store(false)
	return s.deps.Instances.CopyProviderData(ctx, p), nil
}

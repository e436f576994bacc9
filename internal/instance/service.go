package instance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"obsprocess/internal/metrics"
	"obsprocess/internal/observation"
	"obsprocess/internal/provider"
	"obsprocess/internal/runinfo"
)

// Manager owns the choice of active instance and moves provider data between
// the two slots.
type Manager struct {
	store   observation.Store
	runs    runinfo.Repository
	metrics *metrics.Metrics
	logger  *slog.Logger
}

func NewManager(store observation.Store, runs runinfo.Repository, m *metrics.Metrics, logger *slog.Logger) *Manager {
	return &Manager{store: store, runs: runs, metrics: m, logger: logger}
}

// Active returns the slot currently serving reads.
func (m *Manager) Active(ctx context.Context) (observation.Instance, error) {
	return m.store.GetActiveInstance(ctx)
}

// Inactive returns the slot a run should write into.
func (m *Manager) Inactive(ctx context.Context) (observation.Instance, error) {
	active, err := m.Active(ctx)
	if err != nil {
		return 0, err
	}
	return active.Other(), nil
}

// CopyProviderData replaces p's rows and process metadata in the inactive
// slot with those of the active slot. A failed step stops the copy and
// nothing already written is rolled back; running the copy again converges.
func (m *Manager) CopyProviderData(ctx context.Context, p provider.DataProvider) bool {
	logger := m.logger.With("provider", p.String())
	if err := m.copyProviderData(ctx, p, logger); err != nil {
		logger.Error("copy provider data failed", "error", err)
		return false
	}
	return true
}

func (m *Manager) copyProviderData(ctx context.Context, p provider.DataProvider, logger *slog.Logger) error {
	active, err := m.store.GetActiveInstance(ctx)
	if err != nil {
		return fmt.Errorf("get active instance: %w", err)
	}
	inactive := active.Other()

	if err := m.store.DeleteProviderData(ctx, inactive, p); err != nil {
		return fmt.Errorf("delete from instance %s: %w", inactive, err)
	}
	n, err := m.store.CopyProviderData(ctx, active, inactive, p)
	if err != nil {
		return fmt.Errorf("copy instance %s to %s: %w", active, inactive, err)
	}
	if err := m.copyProviderInfo(ctx, active, inactive, p); err != nil {
		return err
	}
	logger.Info("provider data copied", "from", active.String(), "to", inactive.String(), "rows", n)
	return nil
}

func (m *Manager) copyProviderInfo(ctx context.Context, from, to observation.Instance, p provider.DataProvider) error {
	src, err := m.runs.GetProcessInfo(ctx, byte(from))
	if errors.Is(err, runinfo.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("get process info of instance %s: %w", from, err)
	}
	info, ok := src.Provider(p)
	if !ok {
		return nil
	}

	dst, err := m.runs.GetProcessInfo(ctx, byte(to))
	switch {
	case errors.Is(err, runinfo.ErrNotFound):
		dst = &runinfo.ProcessInfo{InstanceID: byte(to), RunID: src.RunID, Start: src.Start, End: src.End}
	case err != nil:
		return fmt.Errorf("get process info of instance %s: %w", to, err)
	}
	dst.SetProvider(info)
	if err := m.runs.AddOrUpdateProcessInfo(ctx, dst); err != nil {
		return fmt.Errorf("save process info of instance %s: %w", to, err)
	}
	return nil
}

// Activate makes instance the slot serving reads.
func (m *Manager) Activate(ctx context.Context, instance observation.Instance) bool {
	if !instance.Valid() {
		m.logger.Error("activate instance failed", "instance", byte(instance), "error", "invalid instance")
		return false
	}
	if err := m.store.SetActiveInstance(ctx, instance); err != nil {
		m.logger.Error("activate instance failed", "instance", instance.String(), "error", err)
		return false
	}
	m.metrics.ActiveInstance(byte(instance))
	m.logger.Info("instance activated", "instance", instance.String())
	return true
}

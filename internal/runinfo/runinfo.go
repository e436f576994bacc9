package runinfo

import (
	"sync"
	"time"

	"obsprocess/internal/provider"
)

// RunStatus is the terminal outcome of processing one provider.
type RunStatus string

const (
	StatusSuccess  RunStatus = "SUCCESS"
	StatusFailed   RunStatus = "FAILED"
	StatusCanceled RunStatus = "CANCELED"
)

// RunInfo describes one provider processor execution. It is owned by that
// processor until Finish is called; Finish applies only once.
type RunInfo struct {
	Provider provider.DataProvider
	Start    time.Time
	End      time.Time
	Count    int
	Status   RunStatus

	once sync.Once
}

func New(p provider.DataProvider, start time.Time) *RunInfo {
	return &RunInfo{Provider: p, Start: start}
}

// Finish sets the terminal status, count and end time. Later calls are ignored.
func (r *RunInfo) Finish(status RunStatus, count int, end time.Time) {
	r.once.Do(func() {
		r.Status = status
		r.Count = count
		r.End = end
	})
}

// Finished reports whether a status has been set.
func (r *RunInfo) Finished() bool {
	return r.Status != ""
}

// HarvestInfo is the last known outcome of harvesting a verbatim collection.
type HarvestInfo struct {
	ID       string                `json:"id"`
	Provider provider.DataProvider `json:"provider"`
	Start    time.Time             `json:"start"`
	End      *time.Time            `json:"end,omitempty"`
	Count    int                   `json:"count"`
	Status   string                `json:"status"`
}

// ProviderInfo merges a provider's harvest provenance with its processing outcome.
type ProviderInfo struct {
	Provider      provider.DataProvider `json:"provider"`
	Harvest       HarvestInfo           `json:"harvest"`
	Dependencies  []HarvestInfo         `json:"dependencies,omitempty"`
	ProcessCount  int                   `json:"processCount"`
	ProcessStart  time.Time             `json:"processStart"`
	ProcessEnd    *time.Time            `json:"processEnd,omitempty"`
	ProcessStatus RunStatus             `json:"processStatus"`
}

// ApplyRun copies the final run fields into the provider info.
func (pi *ProviderInfo) ApplyRun(r *RunInfo) {
	pi.ProcessCount = r.Count
	pi.ProcessStart = r.Start
	pi.ProcessStatus = r.Status
	if !r.End.IsZero() {
		end := r.End
		pi.ProcessEnd = &end
	}
}

// ProcessInfo is the durable record of one pipeline run against an instance.
type ProcessInfo struct {
	InstanceID   byte           `json:"instanceId"`
	RunID        string         `json:"runId"`
	Start        time.Time      `json:"start"`
	End          time.Time      `json:"end"`
	Success      bool           `json:"success"`
	ProviderInfo []ProviderInfo `json:"providerInfo"`
}

// Provider returns the entry for p, if any.
func (pi *ProcessInfo) Provider(p provider.DataProvider) (ProviderInfo, bool) {
	for _, info := range pi.ProviderInfo {
		if info.Provider == p {
			return info, true
		}
	}
	return ProviderInfo{}, false
}

// SetProvider replaces or appends the entry for info.Provider.
func (pi *ProcessInfo) SetProvider(info ProviderInfo) {
	for i := range pi.ProviderInfo {
		if pi.ProviderInfo[i].Provider == info.Provider {
			pi.ProviderInfo[i] = info
			return
		}
	}
	pi.ProviderInfo = append(pi.ProviderInfo, info)
}

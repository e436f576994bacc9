package instance

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"obsprocess/internal/observation"
	"obsprocess/internal/provider"
	"obsprocess/internal/runinfo"
	"obsprocess/internal/testutil"
)

type fakeStore struct {
	mu      sync.Mutex
	rows    map[observation.Instance][]*observation.Observation
	active  observation.Instance
	copyErr error
	setErr  error
}

func newFakeStore() *fakeStore {
	return &fakeStore{rows: map[observation.Instance][]*observation.Observation{}}
}

func (s *fakeStore) VerifyCollectionExists(ctx context.Context) error { return nil }

func (s *fakeStore) DeleteProviderData(ctx context.Context, instance observation.Instance, p provider.DataProvider) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.rows[instance][:0]
	for _, o := range s.rows[instance] {
		if o.Provider != p {
			kept = append(kept, o)
		}
	}
	s.rows[instance] = kept
	return nil
}

func (s *fakeStore) CopyProviderData(ctx context.Context, from, to observation.Instance, p provider.DataProvider) (int64, error) {
	if s.copyErr != nil {
		return 0, s.copyErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, o := range s.rows[from] {
		if o.Provider == p {
			c := *o
			s.rows[to] = append(s.rows[to], &c)
			n++
		}
	}
	return n, nil
}

func (s *fakeStore) AddMany(ctx context.Context, instance observation.Instance, obs []*observation.Observation) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[instance] = append(s.rows[instance], obs...)
	return len(obs), nil
}

func (s *fakeStore) CreateIndexes(ctx context.Context, instance observation.Instance) error {
	return nil
}

func (s *fakeStore) GetActiveInstance(ctx context.Context) (observation.Instance, error) {
	return s.active, nil
}

func (s *fakeStore) SetActiveInstance(ctx context.Context, instance observation.Instance) error {
	if s.setErr != nil {
		return s.setErr
	}
	s.active = instance
	return nil
}

func (s *fakeStore) occurrenceIDs(instance observation.Instance) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []string
	for _, o := range s.rows[instance] {
		out = append(out, o.Provider.String()+"/"+o.OccurrenceID)
	}
	sort.Strings(out)
	return out
}

type fakeRuns struct {
	infos map[byte]*runinfo.ProcessInfo
}

func (r *fakeRuns) GetAllHarvestInfo(ctx context.Context) ([]runinfo.HarvestInfo, error) {
	return nil, nil
}

func (r *fakeRuns) GetProcessInfo(ctx context.Context, instance byte) (*runinfo.ProcessInfo, error) {
	info, ok := r.infos[instance]
	if !ok {
		return nil, runinfo.ErrNotFound
	}
	c := *info
	c.ProviderInfo = append([]runinfo.ProviderInfo(nil), info.ProviderInfo...)
	return &c, nil
}

func (r *fakeRuns) AddOrUpdateProcessInfo(ctx context.Context, info *runinfo.ProcessInfo) error {
	r.infos[info.InstanceID] = info
	return nil
}

func seed(t *testing.T, s *fakeStore) {
	t.Helper()
	_, err := s.AddMany(context.Background(), observation.Instance0, []*observation.Observation{
		{OccurrenceID: "a", Provider: provider.KUL},
		{OccurrenceID: "b", Provider: provider.KUL},
		{OccurrenceID: "c", Provider: provider.SHARK},
	})
	require.NoError(t, err)
	_, err = s.AddMany(context.Background(), observation.Instance1, []*observation.Observation{
		{OccurrenceID: "stale", Provider: provider.KUL},
		{OccurrenceID: "d", Provider: provider.MVM},
	})
	require.NoError(t, err)
}

func TestManager_CopyProviderData(t *testing.T) {
	t.Run("replaces inactive rows and is idempotent", func(t *testing.T) {
		store := newFakeStore()
		seed(t, store)
		runs := &fakeRuns{infos: map[byte]*runinfo.ProcessInfo{
			0: {InstanceID: 0, RunID: "r0", ProviderInfo: []runinfo.ProviderInfo{
				{Provider: provider.KUL, ProcessCount: 2, ProcessStatus: runinfo.StatusSuccess},
				{Provider: provider.SHARK, ProcessCount: 1},
			}},
		}}
		m := NewManager(store, runs, nil, testutil.DiscardLogger())

		require.True(t, m.CopyProviderData(context.Background(), provider.KUL))
		once := store.occurrenceIDs(observation.Instance1)
		require.True(t, m.CopyProviderData(context.Background(), provider.KUL))
		twice := store.occurrenceIDs(observation.Instance1)

		assert.Equal(t, []string{"KUL/a", "KUL/b", "MVM/d"}, once)
		assert.Equal(t, once, twice)

		dst := runs.infos[1]
		require.NotNil(t, dst)
		require.Len(t, dst.ProviderInfo, 1)
		assert.Equal(t, provider.KUL, dst.ProviderInfo[0].Provider)
		assert.Equal(t, 2, dst.ProviderInfo[0].ProcessCount)
	})

	t.Run("copy failure reports false", func(t *testing.T) {
		store := newFakeStore()
		seed(t, store)
		store.copyErr = errors.New("connection reset")
		m := NewManager(store, &fakeRuns{infos: map[byte]*runinfo.ProcessInfo{}}, nil, testutil.DiscardLogger())

		assert.False(t, m.CopyProviderData(context.Background(), provider.KUL))
		assert.Equal(t, []string{"MVM/d"}, store.occurrenceIDs(observation.Instance1))
	})
}

func TestManager_Activate(t *testing.T) {
	t.Run("exclusive regardless of prior state", func(t *testing.T) {
		for _, prior := range []observation.Instance{observation.Instance0, observation.Instance1} {
			store := newFakeStore()
			store.active = prior
			m := NewManager(store, &fakeRuns{}, nil, testutil.DiscardLogger())

			require.True(t, m.Activate(context.Background(), observation.Instance1))
			require.True(t, m.Activate(context.Background(), observation.Instance1))

			active, err := m.Active(context.Background())
			require.NoError(t, err)
			assert.Equal(t, observation.Instance1, active)
			inactive, err := m.Inactive(context.Background())
			require.NoError(t, err)
			assert.Equal(t, observation.Instance0, inactive)
		}
	})

	t.Run("invalid instance", func(t *testing.T) {
		m := NewManager(newFakeStore(), &fakeRuns{}, nil, testutil.DiscardLogger())
		assert.False(t, m.Activate(context.Background(), observation.Instance(2)))
	})

	t.Run("store failure", func(t *testing.T) {
		store := newFakeStore()
		store.setErr = errors.New("read only")
		m := NewManager(store, &fakeRuns{}, nil, testutil.DiscardLogger())
		assert.False(t, m.Activate(context.Background(), observation.Instance1))
		assert.Equal(t, observation.Instance0, store.active)
	})
}

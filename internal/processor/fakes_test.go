package processor

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/stretchr/testify/mock"

	"obsprocess/internal/observation"
	"obsprocess/internal/provider"
	"obsprocess/internal/verbatim"
)

// memSource serves records held in memory. Batches covering an id in failAt
// fail, and onFetch runs before every fetch.
type memSource[T any] struct {
	records []verbatim.Record[T]
	failAt  map[int64]bool
	onFetch func()
}

func newMemSource[T any](ids []int64, mk func(id int64) T) *memSource[T] {
	s := &memSource[T]{failAt: map[int64]bool{}}
	for _, id := range ids {
		s.records = append(s.records, verbatim.Record[T]{ID: id, Data: mk(id)})
	}
	sort.Slice(s.records, func(i, j int) bool { return s.records[i].ID < s.records[j].ID })
	return s
}

func (s *memSource[T]) fetched() {
	if s.onFetch != nil {
		s.onFetch()
	}
}

func (s *memSource[T]) GetIDSpan(ctx context.Context) (int64, int64, bool, error) {
	if len(s.records) == 0 {
		return 0, 0, false, nil
	}
	return s.records[0].ID, s.records[len(s.records)-1].ID, true, nil
}

func (s *memSource[T]) GetBatch(ctx context.Context, startID, endID int64) ([]verbatim.Record[T], error) {
	s.fetched()
	var out []verbatim.Record[T]
	for _, r := range s.records {
		if r.ID < startID || r.ID > endID {
			continue
		}
		if s.failAt[r.ID] {
			return nil, errors.New("source read failed")
		}
		out = append(out, r)
	}
	return out, nil
}

func (s *memSource[T]) GetBatchAfter(ctx context.Context, lastID int64, limit int) ([]verbatim.Record[T], error) {
	s.fetched()
	var out []verbatim.Record[T]
	for _, r := range s.records {
		if r.ID <= lastID {
			continue
		}
		if s.failAt[r.ID] {
			return nil, errors.New("source read failed")
		}
		out = append(out, r)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *memSource[T]) GetAll(ctx context.Context, fn func(verbatim.Record[T]) error) error {
	s.fetched()
	for _, r := range s.records {
		if err := fn(r); err != nil {
			return err
		}
	}
	return nil
}

type storeKey struct {
	instance observation.Instance
	provider provider.DataProvider
}

// memStore keeps processed observations per instance and provider.
type memStore struct {
	mu        sync.Mutex
	rows      map[storeKey][]*observation.Observation
	deleteErr error
	addErr    error
	active    observation.Instance
}

func newMemStore() *memStore {
	return &memStore{rows: map[storeKey][]*observation.Observation{}}
}

func (s *memStore) VerifyCollectionExists(ctx context.Context) error { return nil }

func (s *memStore) DeleteProviderData(ctx context.Context, instance observation.Instance, p provider.DataProvider) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rows, storeKey{instance, p})
	return nil
}

func (s *memStore) CopyProviderData(ctx context.Context, from, to observation.Instance, p provider.DataProvider) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	src := s.rows[storeKey{from, p}]
	s.rows[storeKey{to, p}] = append(s.rows[storeKey{to, p}], src...)
	return int64(len(src)), nil
}

func (s *memStore) AddMany(ctx context.Context, instance observation.Instance, obs []*observation.Observation) (int, error) {
	if s.addErr != nil {
		return 0, s.addErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range obs {
		k := storeKey{instance, o.Provider}
		s.rows[k] = append(s.rows[k], o)
	}
	return len(obs), nil
}

func (s *memStore) CreateIndexes(ctx context.Context, instance observation.Instance) error {
	return nil
}

func (s *memStore) GetActiveInstance(ctx context.Context) (observation.Instance, error) {
	return s.active, nil
}

func (s *memStore) SetActiveInstance(ctx context.Context, instance observation.Instance) error {
	s.active = instance
	return nil
}

func (s *memStore) count(instance observation.Instance, p provider.DataProvider) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rows[storeKey{instance, p}])
}

type mockAreas struct {
	mock.Mock
}

func (m *mockAreas) AddAreaData(ctx context.Context, obs []*observation.Observation) error {
	args := m.Called(ctx, obs)
	return args.Error(0)
}

func ids(from, to int64) []int64 {
	out := make([]int64, 0, to-from+1)
	for id := from; id <= to; id++ {
		out = append(out, id)
	}
	return out
}

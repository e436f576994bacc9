package taxon

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"obsprocess/internal/testutil"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) GetChunk(ctx context.Context, skip, take int) ([]Taxon, error) {
	args := m.Called(ctx, skip, take)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Taxon), args.Error(1)
}

func TestLoader_LoadAll(t *testing.T) {
	ctx := context.Background()

	t.Run("pages until empty", func(t *testing.T) {
		repo := new(mockRepo)
		repo.On("GetChunk", ctx, 0, 2).Return([]Taxon{{ID: 1, ScientificName: "Parus major"}, {ID: 2}}, nil)
		repo.On("GetChunk", ctx, 2, 2).Return([]Taxon{{ID: 3}}, nil)
		repo.On("GetChunk", ctx, 3, 2).Return([]Taxon{}, nil)

		taxa, err := NewLoader(repo, 2, testutil.DiscardLogger()).LoadAll(ctx)
		require.NoError(t, err)
		assert.Len(t, taxa, 3)
		assert.Equal(t, "Parus major", taxa[1].ScientificName)
		repo.AssertExpectations(t)
	})

	t.Run("empty dictionary", func(t *testing.T) {
		repo := new(mockRepo)
		repo.On("GetChunk", ctx, 0, 10).Return([]Taxon{}, nil)

		taxa, err := NewLoader(repo, 10, testutil.DiscardLogger()).LoadAll(ctx)
		require.NoError(t, err)
		assert.Empty(t, taxa)
	})

	t.Run("repository error", func(t *testing.T) {
		repo := new(mockRepo)
		repo.On("GetChunk", ctx, 0, 10).Return(nil, errors.New("db down"))

		_, err := NewLoader(repo, 10, testutil.DiscardLogger()).LoadAll(ctx)
		assert.Error(t, err)
	})

	t.Run("canceled context", func(t *testing.T) {
		repo := new(mockRepo)
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		_, err := NewLoader(repo, 10, testutil.DiscardLogger()).LoadAll(cctx)
		assert.ErrorIs(t, err, context.Canceled)
		repo.AssertNotCalled(t, "GetChunk", mock.Anything, mock.Anything, mock.Anything)
	})
}

package verbatim

import (
	"context"
)

// Record is a raw provider record with its id in the verbatim collection.
type Record[T any] struct {
	ID   int64
	Data T
}

// Repository reads one provider's verbatim collection.
type Repository[T any] interface {
	// GetIDSpan returns the smallest and largest id. ok is false for an empty collection.
	GetIDSpan(ctx context.Context) (minID, maxID int64, ok bool, err error)
	// GetBatch returns the records with ids in [startID, endID].
	GetBatch(ctx context.Context, startID, endID int64) ([]Record[T], error)
	// GetBatchAfter returns up to limit records with ids greater than lastID,
	// ordered by id. An empty result marks the end of the collection.
	GetBatchAfter(ctx context.Context, lastID int64, limit int) ([]Record[T], error)
	// GetAll streams every record to fn in no particular order, stopping at the
	// first error fn returns.
	GetAll(ctx context.Context, fn func(Record[T]) error) error
}

package taxon

import (
	"context"
)

type Repository interface {
	// GetChunk returns up to take taxa ordered by id, skipping the first skip.
	GetChunk(ctx context.Context, skip, take int) ([]Taxon, error)
}

package area

import (
	"context"
)

// Locator finds the areas containing a coordinate.
type Locator interface {
	Locate(ctx context.Context, lat, lon float64) (Set, error)
}

// CacheStore persists the coordinate cell -> area cache between runs.
type CacheStore interface {
	LoadCache(ctx context.Context) (map[string]Set, error)
	SaveCache(ctx context.Context, entries map[string]Set) error
}

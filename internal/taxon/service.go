package taxon

import (
	"context"
	"fmt"
	"log/slog"
)

const defaultPageSize = 10000

// Loader reads the whole taxon dictionary page by page.
type Loader struct {
	repo     Repository
	pageSize int
	logger   *slog.Logger
}

func NewLoader(repo Repository, pageSize int, logger *slog.Logger) *Loader {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	return &Loader{repo: repo, pageSize: pageSize, logger: logger}
}

// LoadAll fetches pages until an empty one is returned and indexes the taxa by
// id. The returned map is shared read-only by every processor of a run.
func (l *Loader) LoadAll(ctx context.Context) (map[int]*Taxon, error) {
	taxa := make(map[int]*Taxon)
	skip := 0
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page, err := l.repo.GetChunk(ctx, skip, l.pageSize)
		if err != nil {
			return nil, fmt.Errorf("get taxa chunk at %d: %w", skip, err)
		}
		if len(page) == 0 {
			break
		}
		for i := range page {
			t := page[i]
			taxa[t.ID] = &t
		}
		skip += len(page)
	}
	l.logger.Debug("taxa loaded", "count", len(taxa))
	return taxa, nil
}

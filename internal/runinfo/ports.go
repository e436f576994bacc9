package runinfo

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("not found")

type Repository interface {
	GetAllHarvestInfo(ctx context.Context) ([]HarvestInfo, error)
	// GetProcessInfo returns ErrNotFound when the instance has no record yet.
	GetProcessInfo(ctx context.Context, instance byte) (*ProcessInfo, error)
	AddOrUpdateProcessInfo(ctx context.Context, info *ProcessInfo) error
}

package observation

import (
	"context"

	"obsprocess/internal/provider"
)

// Store is the destination of processed observations. Every data operation
// names the instance it targets; nothing holds an implicit current instance.
type Store interface {
	VerifyCollectionExists(ctx context.Context) error
	DeleteProviderData(ctx context.Context, instance Instance, p provider.DataProvider) error
	// CopyProviderData copies the provider's rows from one instance into the other.
	CopyProviderData(ctx context.Context, from, to Instance, p provider.DataProvider) (int64, error)
	// AddMany writes the batch in one round trip and returns the accepted row count.
	AddMany(ctx context.Context, instance Instance, obs []*Observation) (int, error)
	CreateIndexes(ctx context.Context, instance Instance) error
	GetActiveInstance(ctx context.Context) (Instance, error)
	SetActiveInstance(ctx context.Context, instance Instance) error
}

package fieldmapping

import (
	"context"
)

type Repository interface {
	GetAll(ctx context.Context) ([]FieldMapping, error)
}

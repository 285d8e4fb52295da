package catalog

import (
	"context"

	"github.com/sells-group/shopassist-cli/internal/model"
)

// Store defines persistence for the product catalog.
type Store interface {
	Migrate(ctx context.Context) error
	UpsertProducts(ctx context.Context, products []model.Product) (int, error)
	ListProducts(ctx context.Context) ([]model.Product, error)
	Close() error
}

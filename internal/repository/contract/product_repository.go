package contract

import (
	"context"

	"ai-shopping-agent-be/internal/repository/specification"
	"ai-shopping-agent-be/pkg/catalog"
)

type ProductRepository interface {
	// FindAll returns products in catalog order unless specs reorder them.
	FindAll(ctx context.Context, specs ...specification.Specification) ([]catalog.Product, error)
	// ReplaceAll swaps the stored catalog for products in one transaction.
	ReplaceAll(ctx context.Context, products []catalog.Product) error
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}

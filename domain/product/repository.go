package product

import (
	"context"

	"pos/domain/shared"
)

const (
	DefaultPageSize = 100
	MaxPageSize     = 1000
)

// Repository Product repository interface
// Absent products are reported as (nil, nil): callers decide whether absence is an error.
type Repository interface {
	// Save inserts a new product (assigning its id) or updates name and price of an existing one
	Save(ctx context.Context, p *Product) error

	FindByID(ctx context.Context, id int64) (*Product, error)

	// FindByCode looks a product up by its external code (barcode scan)
	FindByCode(ctx context.Context, code string) (*Product, error)

	// List returns products ordered by id
	List(ctx context.Context, offset, limit int) ([]*Product, error)

	FindBySpecification(ctx context.Context, spec shared.Specification[*Product], offset, limit int) ([]*Product, error)

	// Remove physically deletes a product. Products referenced by transaction
	// details cannot be removed and yield ErrProductInUse.
	Remove(ctx context.Context, id int64) error
}

package purchase

import (
	"context"

	"pos/domain/shared"
)

const (
	DefaultPageSize = 100
	MaxPageSize     = 1000
)

// Repository Transaction repository interface
// The write methods mirror the recording steps and must run inside one unit of work:
// InsertHeader -> InsertLine (1..N) -> UpdateTotals.
type Repository interface {
	// InsertHeader writes the header with its current (provisional) totals and assigns the generated id
	InsertHeader(ctx context.Context, t *Transaction) error

	// InsertLine writes one detail row owned by transactionID
	InsertLine(ctx context.Context, transactionID int64, line Line) error

	// UpdateTotals writes the settled totals back to the header
	UpdateTotals(ctx context.Context, t *Transaction) error

	// FindByID returns the header with its lines ordered by sequence; (nil, nil) when absent
	FindByID(ctx context.Context, id int64) (*Transaction, error)

	// List returns transactions with their lines, newest first
	List(ctx context.Context, offset, limit int) ([]*Transaction, error)

	FindBySpecification(ctx context.Context, spec shared.Specification[*Transaction], offset, limit int) ([]*Transaction, error)
}

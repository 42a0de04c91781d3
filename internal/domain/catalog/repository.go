package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// Repository defines product catalog persistence operations
type Repository interface {
	Create(ctx context.Context, product *Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindByName returns (nil, nil) when no product carries the name
	FindByName(ctx context.Context, name string) (*Product, error)

	// CreateIfAbsent inserts the product unless an entry with the same
	// name already exists, and returns the persisted entry either way.
	// Safe under concurrent first-deposits of the same name.
	CreateIfAbsent(ctx context.Context, product *Product) (*Product, error)

	// IncreaseStock adds qty kg to the house inventory counter
	IncreaseStock(ctx context.Context, id uuid.UUID, qty decimal.Decimal) error

	List(ctx context.Context) ([]*Product, error)
	Update(ctx context.Context, product *Product) error
	WithTx(tx pgx.Tx) Repository
}

// ErrProductNotFound indicates missing catalog entry
type ErrProductNotFound struct {
	ProductID uuid.UUID
}

func (e ErrProductNotFound) Error() string {
	return "product not found: " + e.ProductID.String()
}

// Is matches any ErrProductNotFound, or one for the same product
func (e ErrProductNotFound) Is(target error) bool {
	t, ok := target.(ErrProductNotFound)
	if !ok {
		return false
	}
	if t.ProductID == uuid.Nil {
		return true
	}
	return e.ProductID == t.ProductID
}

// ErrDuplicateProductName indicates name uniqueness violation
type ErrDuplicateProductName struct {
	Name string
}

func (e ErrDuplicateProductName) Error() string {
	return "product with name already exists: " + e.Name
}

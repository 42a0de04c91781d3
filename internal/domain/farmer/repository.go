package farmer

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Repository defines farmer persistence operations. Get and lock
// operations load the full aggregate including stock batches; Update
// persists balance, version and the batch list together.
type Repository interface {
	Create(ctx context.Context, farmer *Farmer) error
	GetByID(ctx context.Context, id uuid.UUID) (*Farmer, error)
	GetByNationalID(ctx context.Context, nationalID string) (*Farmer, error)
	List(ctx context.Context, agentID uuid.UUID) ([]*Farmer, error)
	Update(ctx context.Context, farmer *Farmer) error

	// LockForUpdate acquires a pessimistic row lock for transaction
	// processing, serializing concurrent operations per farmer
	LockForUpdate(ctx context.Context, id uuid.UUID) (*Farmer, error)
	WithTx(tx pgx.Tx) Repository
}

// ErrConcurrentModification indicates optimistic lock failure
type ErrConcurrentModification struct {
	FarmerID uuid.UUID
}

func (e ErrConcurrentModification) Error() string {
	return "concurrent modification detected for farmer: " + e.FarmerID.String()
}

// Is matches any ErrConcurrentModification, or one for the same farmer
func (e ErrConcurrentModification) Is(target error) bool {
	t, ok := target.(ErrConcurrentModification)
	if !ok {
		return false
	}
	if t.FarmerID == uuid.Nil {
		return true
	}
	return e.FarmerID == t.FarmerID
}

// ErrFarmerNotFound indicates missing farmer
type ErrFarmerNotFound struct {
	FarmerID uuid.UUID
}

func (e ErrFarmerNotFound) Error() string {
	return "farmer not found: " + e.FarmerID.String()
}

// Is matches any ErrFarmerNotFound, or one for the same farmer
func (e ErrFarmerNotFound) Is(target error) bool {
	t, ok := target.(ErrFarmerNotFound)
	if !ok {
		return false
	}
	if t.FarmerID == uuid.Nil {
		return true
	}
	return e.FarmerID == t.FarmerID
}

// ErrDuplicateNationalID indicates BI uniqueness violation
type ErrDuplicateNationalID struct {
	NationalID string
}

func (e ErrDuplicateNationalID) Error() string {
	return "farmer with national ID already exists: " + e.NationalID
}

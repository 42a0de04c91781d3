package transaction

import (
	"context"
	"time"

	"github.com/bmii/farmer-ledger/internal/domain/shared"
	"github.com/google/uuid"
)

// Repository manages transaction record persistence with pagination support
type Repository interface {
	Create(ctx context.Context, record *Record) error
	GetByTransactionID(ctx context.Context, transactionID uuid.UUID) (*Record, error)
	GetByIdempotencyKey(ctx context.Context, idempotencyKey string) (*Record, error)
	GetByFarmerID(ctx context.Context, farmerID uuid.UUID, limit, offset int) ([]*Record, error)
	CountByFarmerID(ctx context.Context, farmerID uuid.UUID) (int64, error)
	UpdateStatus(ctx context.Context, transactionID uuid.UUID, status shared.TransactionStatus, reason string) error
	GetByTimeRange(ctx context.Context, startTime, endTime time.Time, limit, offset int) ([]*Record, error)
}

// ErrRecordNotFound indicates missing transaction record
type ErrRecordNotFound struct {
	TransactionID uuid.UUID
}

func (e ErrRecordNotFound) Error() string {
	return "transaction record not found: " + e.TransactionID.String()
}

// Is implements the errors.Is interface for ErrRecordNotFound
func (e ErrRecordNotFound) Is(target error) bool {
	t, ok := target.(ErrRecordNotFound)
	if !ok {
		return false
	}
	if t.TransactionID == uuid.Nil {
		return true
	}
	return e.TransactionID == t.TransactionID
}

// ErrDuplicateRecord indicates transaction uniqueness violation
type ErrDuplicateRecord struct {
	TransactionID uuid.UUID
}

func (e ErrDuplicateRecord) Error() string {
	return "duplicate transaction record: " + e.TransactionID.String()
}

// Is implements the errors.Is interface for ErrDuplicateRecord
func (e ErrDuplicateRecord) Is(target error) bool {
	t, ok := target.(ErrDuplicateRecord)
	if !ok {
		return false
	}
	if t.TransactionID == uuid.Nil {
		return true
	}
	return e.TransactionID == t.TransactionID
}

package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/bmii/farmer-ledger/internal/domain/catalog"
	"github.com/bmii/farmer-ledger/internal/domain/farmer"
	"github.com/bmii/farmer-ledger/internal/domain/shared"
)

// ProcessingService defines the interface for processing transaction requests.
type ProcessingService interface {
	ProcessTransaction(ctx context.Context, request *shared.TransactionRequest) error
}

// TransactionValidator validates transaction requests before processing
type TransactionValidator interface {
	Validate(ctx context.Context, request *shared.TransactionRequest) error
	CheckIdempotency(ctx context.Context, request *shared.TransactionRequest) (bool, error)
}

// Application captures the monetary outcome of a transaction applied to a
// farmer account. Prices are cêntimos per kg, TotalAmount is the rounded
// cêntimos credited or debited against the balance.
type Application struct {
	Farmer       *farmer.Farmer
	AppliedPrice decimal.Decimal
	TotalAmount  int64
}

// CatalogManager resolves the product a transaction refers to, provisioning
// catalog entries for unseen names, and records house inventory gains
type CatalogManager interface {
	// Resolve returns the catalog entry for the request's product reference.
	// Deposits and sales by name auto-provision a missing entry; a dangling
	// catalog ID yields ErrProductNotFound. Withdrawals by unseen name
	// resolve to nil.
	Resolve(ctx context.Context, tx pgx.Tx, request *shared.TransactionRequest) (*catalog.Product, error)

	// RecordSale adds the sold quantity to the house inventory counter
	RecordSale(ctx context.Context, tx pgx.Tx, productID uuid.UUID, qty decimal.Decimal) error
}

// FarmerManager handles farmer account mutations during transaction processing
type FarmerManager interface {
	LockAndApply(ctx context.Context, tx pgx.Tx, request *shared.TransactionRequest, product *catalog.Product) (*Application, error)
}

// OutboxManager handles the creation of outbox entries for processed transactions
type OutboxManager interface {
	CreateOutboxEntry(ctx context.Context, tx pgx.Tx, request *shared.TransactionRequest, product *catalog.Product, application *Application) error
}

// FailureRecorder handles recording failed transactions
type FailureRecorder interface {
	RecordFailure(ctx context.Context, request *shared.TransactionRequest, failureReason string) error
}

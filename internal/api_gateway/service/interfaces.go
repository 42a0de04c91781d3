package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/bmii/farmer-ledger/internal/domain/catalog"
	"github.com/bmii/farmer-ledger/internal/domain/farmer"
	"github.com/bmii/farmer-ledger/internal/domain/shared"
	"github.com/bmii/farmer-ledger/internal/domain/transaction"
)

// FarmerService defines the interface for farmer account operations
type FarmerService interface {
	// RegisterFarmer creates a new farmer account with zero balance and empty stock
	// Returns ErrDuplicateNationalID if a farmer with the same BI exists
	RegisterFarmer(ctx context.Context, name, nationalID, phone, address string, agentID uuid.UUID) (*farmer.Farmer, error)

	// GetFarmerByID retrieves a farmer account including its stock batches
	// Returns ErrFarmerNotFound if the farmer doesn't exist
	GetFarmerByID(ctx context.Context, id uuid.UUID) (*farmer.Farmer, error)

	// ListFarmers retrieves all farmers, optionally filtered by registering agent
	ListFarmers(ctx context.Context, agentID uuid.UUID) ([]*farmer.Farmer, error)
}

// ProductService defines the interface for product catalog operations
type ProductService interface {
	// CreateProduct registers a new catalog entry
	// Returns ErrDuplicateProductName if the name is taken
	CreateProduct(ctx context.Context, name, category string, referencePrice int64, imageURL string) (*catalog.Product, error)

	// GetProductByID retrieves a catalog entry by its ID
	GetProductByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error)

	// UpdateProduct applies a partial update (price, status, category, image)
	// Returns ErrProductNotFound if the product doesn't exist
	UpdateProduct(ctx context.Context, id uuid.UUID, update catalog.ProductUpdate) (*catalog.Product, error)

	// ListProducts retrieves all catalog entries
	ListProducts(ctx context.Context) ([]*catalog.Product, error)
}

// TransactionService defines the interface for transaction operations
type TransactionService interface {
	// CreateTransaction initiates a new transaction with idempotency support
	// Returns transaction ID, existing record (if found via idempotencyKey), and any error
	CreateTransaction(ctx context.Context, transactionRequest *shared.TransactionRequest) (string, *transaction.Record, error)

	// GetTransactionByID retrieves a transaction record by its ID
	// Returns nil if the transaction is not found
	GetTransactionByID(ctx context.Context, transactionID uuid.UUID) (*transaction.Record, error)

	// GetTransactionsByFarmerID retrieves paginated list of transactions for a farmer
	// Returns records, total count of all transactions, and any error
	GetTransactionsByFarmerID(ctx context.Context, farmerID uuid.UUID, page, perPage int) ([]*transaction.Record, int64, error)
}

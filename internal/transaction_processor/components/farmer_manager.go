package components

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/bmii/farmer-ledger/internal/domain/catalog"
	"github.com/bmii/farmer-ledger/internal/domain/farmer"
	"github.com/bmii/farmer-ledger/internal/domain/shared"
	"github.com/bmii/farmer-ledger/internal/transaction_processor/service"
)

// FarmerManagerImpl implements the FarmerManager interface
type FarmerManagerImpl struct {
	farmerRepo farmer.Repository
	logger     *slog.Logger
}

// NewFarmerManager creates a new FarmerManagerImpl
func NewFarmerManager(farmerRepo farmer.Repository, logger *slog.Logger) service.FarmerManager {
	return &FarmerManagerImpl{
		farmerRepo: farmerRepo,
		logger:     logger,
	}
}

// LockAndApply locks the farmer row, applies the transaction to balance and
// stock, and persists the aggregate. The row lock serializes concurrent
// transactions against the same farmer.
func (m *FarmerManagerImpl) LockAndApply(ctx context.Context, tx pgx.Tx, request *shared.TransactionRequest, product *catalog.Product) (*service.Application, error) {
	logger := m.logger
	if request.CorrelationID != "" {
		logger = m.logger.With("correlation_id", request.CorrelationID)
	}

	// Use the repository with the transaction
	farmerRepoTx := m.farmerRepo.WithTx(tx)

	// Lock the farmer for update
	lockedFarmer, err := farmerRepoTx.LockForUpdate(ctx, request.FarmerID)
	if err != nil {
		if errors.Is(err, farmer.ErrFarmerNotFound{FarmerID: request.FarmerID}) {
			logger.Warn("Farmer not found for lock", "req_id", request.TransactionID.String(), "farmer_id", request.FarmerID.String(), "original_error", err)
			return nil, err
		}
		logger.Error("Failed to lock farmer", "req_id", request.TransactionID.String(), "farmer_id", request.FarmerID.String(), "error", err)
		return nil, fmt.Errorf("failed to lock farmer %s: %w", request.FarmerID.String(), err)
	}
	logger.Info("Farmer locked", "req_id", request.TransactionID.String(), "farmer_id", lockedFarmer.ID.String(), "bal", lockedFarmer.Balance, "ver", lockedFarmer.Version)

	productName := request.Product.Name
	if product != nil {
		productName = product.Name
	}

	var application *service.Application
	switch request.Kind {
	case shared.TransactionKindDeposit:
		application, err = m.applyDeposit(lockedFarmer, request, productName)
	case shared.TransactionKindWithdrawal:
		application, err = m.applyWithdrawal(lockedFarmer, request, product, productName)
	case shared.TransactionKindSale:
		application, err = m.applySale(lockedFarmer, request, productName)
	default:
		err = shared.ErrInvalidTransactionKind
	}
	if err != nil {
		logger.Warn("Failed to apply transaction to farmer model", "req_id", request.TransactionID.String(), "kind", string(request.Kind), "error", err)
		return nil, err
	}
	logger.Info("Farmer balance and stock updated in memory", "req_id", request.TransactionID.String(), "new_bal", lockedFarmer.Balance, "new_ver", lockedFarmer.Version)

	// Persist farmer changes
	if err = farmerRepoTx.Update(ctx, lockedFarmer); err != nil {
		if errors.Is(err, farmer.ErrConcurrentModification{FarmerID: lockedFarmer.ID}) {
			logger.Warn("Concurrent modification on farmer update", "req_id", request.TransactionID.String(), "farmer_id", lockedFarmer.ID.String())
		} else {
			logger.Error("Failed to update farmer in DB", "req_id", request.TransactionID.String(), "farmer_id", lockedFarmer.ID.String(), "error", err)
		}
		return nil, err
	}
	logger.Info("Farmer updated in DB", "req_id", request.TransactionID.String(), "farmer_id", lockedFarmer.ID.String())

	return application, nil
}

// applyDeposit grades the base price, credits the rounded total and appends
// a new stock batch carrying the full-precision graded price
func (m *FarmerManagerImpl) applyDeposit(f *farmer.Farmer, request *shared.TransactionRequest, productName string) (*service.Application, error) {
	if request.BasePrice <= 0 {
		return nil, shared.ErrInvalidPrice
	}

	appliedPrice := shared.ApplyQualityPrice(request.BasePrice, request.Quality)
	total := shared.RoundCents(appliedPrice.Mul(request.Quantity))

	if err := f.Credit(total); err != nil {
		return nil, err
	}

	f.Stock.Add(farmer.Batch{
		ProductName: productName,
		Quantity:    request.Quantity,
		Quality:     request.Quality,
		UnitPrice:   appliedPrice,
		EnteredAt:   time.Now(),
	})

	return &service.Application{
		Farmer:       f,
		AppliedPrice: appliedPrice,
		TotalAmount:  total,
	}, nil
}

// applyWithdrawal resolves the buy-back price, drains the stock FIFO and
// debits the rounded total. Without a request price or a catalog reference
// price the withdrawal fails rather than handing goods out for free.
func (m *FarmerManagerImpl) applyWithdrawal(f *farmer.Farmer, request *shared.TransactionRequest, product *catalog.Product, productName string) (*service.Application, error) {
	price := request.ReferencePrice
	if price <= 0 && product != nil {
		price = product.ReferencePrice
	}
	if price <= 0 {
		return nil, shared.ErrMissingPrice
	}

	appliedPrice := decimal.NewFromInt(price)
	total := shared.RoundCents(appliedPrice.Mul(request.Quantity))

	if err := f.Stock.Consume(productName, request.Quantity); err != nil {
		return nil, err
	}
	if err := f.Debit(total); err != nil {
		return nil, err
	}

	return &service.Application{
		Farmer:       f,
		AppliedPrice: appliedPrice,
		TotalAmount:  total,
	}, nil
}

// applySale drains the stock FIFO at the negotiated unit price and credits
// the proceeds. The matching house inventory gain is booked by the caller.
func (m *FarmerManagerImpl) applySale(f *farmer.Farmer, request *shared.TransactionRequest, productName string) (*service.Application, error) {
	if request.UnitPrice <= 0 {
		return nil, shared.ErrInvalidPrice
	}

	appliedPrice := decimal.NewFromInt(request.UnitPrice)
	total := shared.RoundCents(appliedPrice.Mul(request.Quantity))

	if err := f.Stock.Consume(productName, request.Quantity); err != nil {
		return nil, err
	}
	if err := f.Credit(total); err != nil {
		return nil, err
	}

	return &service.Application{
		Farmer:       f,
		AppliedPrice: appliedPrice,
		TotalAmount:  total,
	}, nil
}

package components

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bmii/farmer-ledger/internal/domain/farmer"
	"github.com/bmii/farmer-ledger/internal/domain/shared"
	"github.com/bmii/farmer-ledger/internal/domain/transaction"
	"github.com/bmii/farmer-ledger/internal/transaction_processor/service"
)

type TransactionValidatorImpl struct {
	transactionRepo transaction.Repository
	logger          *slog.Logger
}

func NewTransactionValidator(transactionRepo transaction.Repository, logger *slog.Logger) service.TransactionValidator {
	return &TransactionValidatorImpl{
		transactionRepo: transactionRepo,
		logger:          logger,
	}
}

// Validate checks transaction request validity before any account is touched
func (v *TransactionValidatorImpl) Validate(ctx context.Context, request *shared.TransactionRequest) error {
	logger := v.logger
	if request.CorrelationID != "" {
		logger = v.logger.With("correlation_id", request.CorrelationID)
	}

	switch request.Kind {
	case shared.TransactionKindDeposit, shared.TransactionKindWithdrawal, shared.TransactionKindSale:
	default:
		logger.Error("Unknown transaction kind", "req_id", request.TransactionID.String(), "kind", request.Kind)
		return shared.ErrInvalidTransactionKind
	}

	if !request.Quantity.IsPositive() {
		logger.Error("Invalid quantity", "req_id", request.TransactionID.String(), "quantity_kg", request.Quantity)
		return farmer.ErrInvalidQuantity{Quantity: request.Quantity}
	}

	if err := request.Product.Validate(); err != nil {
		logger.Error("Missing product reference", "req_id", request.TransactionID.String())
		return err
	}

	if request.Kind == shared.TransactionKindDeposit {
		if _, err := shared.ParseQuality(string(request.Quality)); err != nil {
			logger.Error("Invalid quality grade", "req_id", request.TransactionID.String(), "quality", request.Quality)
			return err
		}
		if request.BasePrice <= 0 {
			logger.Error("Invalid base price", "req_id", request.TransactionID.String(), "base_price", request.BasePrice)
			return shared.ErrInvalidPrice
		}
	}

	if request.Kind == shared.TransactionKindSale && request.UnitPrice <= 0 {
		logger.Error("Invalid unit price", "req_id", request.TransactionID.String(), "unit_price", request.UnitPrice)
		return shared.ErrInvalidPrice
	}

	if request.Kind == shared.TransactionKindWithdrawal && request.ReferencePrice < 0 {
		logger.Error("Negative reference price", "req_id", request.TransactionID.String(), "reference_price", request.ReferencePrice)
		return shared.ErrInvalidPrice
	}

	return nil
}

// CheckIdempotency checks if transaction was already processed
func (v *TransactionValidatorImpl) CheckIdempotency(ctx context.Context, request *shared.TransactionRequest) (bool, error) {
	logger := v.logger
	if request.CorrelationID != "" {
		logger = v.logger.With("correlation_id", request.CorrelationID)
	}

	existingRecord, err := v.transactionRepo.GetByTransactionID(ctx, request.TransactionID)
	if err != nil && !errors.Is(err, transaction.ErrRecordNotFound{}) {
		logger.Error("Failed to check transaction log for idempotency", "transaction_id", request.TransactionID.String(), "error", err)
		return false, fmt.Errorf("idempotency check failed for transaction %s: %w", request.TransactionID.String(), err)
	}

	if existingRecord != nil {
		if existingRecord.Status == shared.TransactionStatusCompleted || existingRecord.Status == shared.TransactionStatusFailed {
			logger.Info("Transaction already processed (idempotency)", "transaction_id", request.TransactionID.String(), "status", existingRecord.Status)
			return true, nil // Skip processing
		}
		logger.Info("Transaction found in log with non-terminal status, proceeding", "transaction_id", request.TransactionID.String(), "status", existingRecord.Status)
	}

	return false, nil // Continue processing
}

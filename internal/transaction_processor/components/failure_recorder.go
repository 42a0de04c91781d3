package components

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/bmii/farmer-ledger/internal/domain/shared"
	"github.com/bmii/farmer-ledger/internal/domain/transaction"
	"github.com/bmii/farmer-ledger/internal/transaction_processor/service"
)

type FailureRecorderImpl struct {
	transactionRepo transaction.Repository
	logger          *slog.Logger
}

func NewFailureRecorder(transactionRepo transaction.Repository, logger *slog.Logger) service.FailureRecorder {
	return &FailureRecorderImpl{
		transactionRepo: transactionRepo,
		logger:          logger,
	}
}

// RecordFailure records a failed transaction in the transaction log
func (r *FailureRecorderImpl) RecordFailure(ctx context.Context, request *shared.TransactionRequest, failureReason string) error {
	logger := r.logger
	if request.CorrelationID != "" {
		logger = r.logger.With("correlation_id", request.CorrelationID)
	}

	logger.Info("Recording failed transaction", "transaction_id", request.TransactionID.String(), "reason", failureReason)

	now := time.Now()
	record := &transaction.Record{
		TransactionID:  request.TransactionID,
		Kind:           request.Kind,
		FarmerID:       request.FarmerID,
		AgentID:        request.AgentID,
		ProductName:    request.Product.Name,
		QuantityKg:     request.Quantity.InexactFloat64(),
		Quality:        request.Quality,
		BasePrice:      request.BasePrice,
		UnitPrice:      request.UnitPrice,
		IdempotencyKey: request.IdempotencyKey,
		CorrelationID:  request.CorrelationID,
		Status:         shared.TransactionStatusFailed,
		FailureReason:  failureReason,
		CreatedAt:      request.Timestamp,
		ProcessedAt:    &now,
	}

	existingRecord, err := r.transactionRepo.GetByTransactionID(ctx, request.TransactionID)
	if err != nil && !errors.Is(err, transaction.ErrRecordNotFound{}) {
		logger.Error("Failed to get existing transaction record for failed transaction", "transaction_id", request.TransactionID.String(), "error", err)
	}

	if existingRecord != nil {
		if existingRecord.Status != shared.TransactionStatusFailed {
			logger.Info("Updating existing transaction record to FAILED", "transaction_id", request.TransactionID.String())
			updateErr := r.transactionRepo.UpdateStatus(ctx, request.TransactionID, shared.TransactionStatusFailed, failureReason)
			if updateErr != nil {
				logger.Error("Failed to update transaction record to FAILED", "transaction_id", request.TransactionID.String(), "error", updateErr)
				return updateErr
			}
			logger.Info("Successfully updated transaction record to FAILED", "transaction_id", request.TransactionID.String())
			return nil
		}
		logger.Info("Transaction record already marked as FAILED", "transaction_id", request.TransactionID.String())
		return nil
	}

	logger.Info("Creating new FAILED transaction record", "transaction_id", request.TransactionID.String())
	createErr := r.transactionRepo.Create(ctx, record)
	if createErr != nil {
		logger.Error("Failed to create FAILED transaction record", "transaction_id", request.TransactionID.String(), "error", createErr)
		return createErr
	}
	logger.Info("Successfully created FAILED transaction record", "transaction_id", request.TransactionID.String())
	return nil
}

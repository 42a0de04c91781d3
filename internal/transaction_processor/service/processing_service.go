package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"github.com/bmii/farmer-ledger/internal/domain/catalog"
	"github.com/bmii/farmer-ledger/internal/domain/farmer"
	"github.com/bmii/farmer-ledger/internal/domain/shared"
	"github.com/bmii/farmer-ledger/internal/platform/persistence"
)

type ProcessingServiceImpl struct {
	pgDB            *persistence.PostgresDB
	validator       TransactionValidator
	catalogManager  CatalogManager
	farmerManager   FarmerManager
	outboxManager   OutboxManager
	failureRecorder FailureRecorder
	logger          *slog.Logger
}

func NewProcessingService(
	pgDB *persistence.PostgresDB,
	validator TransactionValidator,
	catalogManager CatalogManager,
	farmerManager FarmerManager,
	outboxManager OutboxManager,
	failureRecorder FailureRecorder,
	logger *slog.Logger,
) ProcessingService {
	return &ProcessingServiceImpl{
		pgDB:            pgDB,
		validator:       validator,
		catalogManager:  catalogManager,
		farmerManager:   farmerManager,
		outboxManager:   outboxManager,
		failureRecorder: failureRecorder,
		logger:          logger,
	}
}

// ProcessTransaction handles the core logic for processing a transaction.
// Business failures are recorded as FAILED transaction records and the
// message is acknowledged; infrastructure errors propagate so Kafka retries.
func (s *ProcessingServiceImpl) ProcessTransaction(ctx context.Context, request *shared.TransactionRequest) error {
	logger := s.logger
	if request.CorrelationID != "" {
		logger = s.logger.With("correlation_id", request.CorrelationID)
	}

	logger.Info("Processing transaction", "transaction_id", request.TransactionID.String(), "farmer_id", request.FarmerID.String())

	// 1. Validate the transaction
	if err := s.validator.Validate(ctx, request); err != nil {
		logger.Error("Transaction validation failed", "transaction_id", request.TransactionID.String(), "error", err)

		if recordErr := s.failureRecorder.RecordFailure(ctx, request, string(failureReasonFor(err))); recordErr != nil {
			logger.Error("Failed to record transaction failure", "transaction_id", request.TransactionID.String(), "error", recordErr)
		}

		return nil // Return nil to Kafka consumer to acknowledge the message
	}

	// 2. Check idempotency
	skip, err := s.validator.CheckIdempotency(ctx, request)
	if err != nil {
		return err // Let Kafka retry
	}
	if skip {
		return nil // Already processed, return success
	}

	// 3. Begin database transaction
	var tx pgx.Tx
	tx, err = s.pgDB.Pool().Begin(ctx)
	if err != nil {
		logger.Error("Failed to begin database transaction", "transaction_id", request.TransactionID.String(), "error", err)
		return fmt.Errorf("failed to begin DB transaction for %s: %w", request.TransactionID.String(), err)
	}
	defer func() {
		if p := recover(); p != nil {
			logger.Error("Panic recovered, rolling back transaction", "panic", p, "transaction_id", request.TransactionID.String())
			_ = tx.Rollback(ctx)
			panic(p) // Re-panic
		} else if err != nil {
			logger.Error("Error occurred, rolling back transaction", "error", err, "transaction_id", request.TransactionID.String())
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				logger.Error("Failed to rollback transaction after error", "rollback_error", rbErr, "original_error", err, "transaction_id", request.TransactionID.String())
			}
		}
	}()

	// 4. Resolve (and possibly auto-provision) the product
	product, err := s.catalogManager.Resolve(ctx, tx, request)
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound{}) {
			if recordErr := s.failureRecorder.RecordFailure(ctx, request, string(shared.FailureReasonProductNotFound)); recordErr != nil {
				logger.Error("Failed to record product not found failure", "transaction_id", request.TransactionID.String(), "error", recordErr)
			}
			return nil // Return nil to Kafka consumer; the defer rolls back
		}
		return err
	}

	// 5. Lock the farmer row and apply balance and stock mutations
	application, err := s.farmerManager.LockAndApply(ctx, tx, request, product)
	if err != nil {
		if reason, business := businessFailure(err); business {
			if recordErr := s.failureRecorder.RecordFailure(ctx, request, string(reason)); recordErr != nil {
				logger.Error("Failed to record business failure", "transaction_id", request.TransactionID.String(), "reason", string(reason), "error", recordErr)
			}
			return nil // Return nil to Kafka consumer; the defer rolls back
		}

		// For other errors, let them propagate for retry
		return err
	}

	// 6. Sales move goods from farmer custody into house inventory
	if request.Kind == shared.TransactionKindSale && product != nil {
		if err = s.catalogManager.RecordSale(ctx, tx, product.ID, request.Quantity); err != nil {
			return err // Let the defer handle rollback
		}
	}

	// 7. Create outbox entry
	if err = s.outboxManager.CreateOutboxEntry(ctx, tx, request, product, application); err != nil {
		return err // Let the defer handle rollback
	}

	// 8. Commit transaction
	if err = tx.Commit(ctx); err != nil {
		logger.Error("Failed to commit database transaction",
			"req_id", request.TransactionID.String(),
			"farmer_id", request.FarmerID.String(),
			"error", err,
		)
		return fmt.Errorf("failed to commit DB transaction for tx %s: %w", request.TransactionID.String(), err)
	}

	logger.Info("Database transaction committed successfully", "req_id", request.TransactionID.String(), "farmer_id", request.FarmerID.String())
	return nil // SUCCESS!
}

// businessFailure maps domain errors to failure reasons. The second return
// is false for infrastructure errors, which must be retried rather than
// recorded as FAILED.
func businessFailure(err error) (shared.FailureReason, bool) {
	switch {
	case errors.Is(err, farmer.ErrFarmerNotFound{}):
		return shared.FailureReasonFarmerNotFound, true
	case errors.Is(err, catalog.ErrProductNotFound{}):
		return shared.FailureReasonProductNotFound, true
	case errors.Is(err, farmer.ErrInsufficientStock{}):
		return shared.FailureReasonInsufficientStock, true
	case errors.Is(err, farmer.ErrInsufficientBalance):
		return shared.FailureReasonInsufficientBalance, true
	case errors.Is(err, farmer.ErrInvalidQuantity{}):
		return shared.FailureReasonInvalidQuantity, true
	case errors.Is(err, farmer.ErrInvalidAmount), errors.Is(err, shared.ErrInvalidPrice):
		return shared.FailureReasonInvalidPrice, true
	case errors.Is(err, shared.ErrMissingPrice):
		return shared.FailureReasonMissingPrice, true
	case errors.Is(err, shared.ErrInvalidQuality):
		return shared.FailureReasonInvalidQuality, true
	default:
		return "", false
	}
}

// failureReasonFor maps validation errors to failure reasons, falling back
// to UNKNOWN_ERROR for anything unclassified
func failureReasonFor(err error) shared.FailureReason {
	if reason, ok := businessFailure(err); ok {
		return reason
	}
	return shared.FailureReasonUnknownError
}

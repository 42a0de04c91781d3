package outbox_poller

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bmii/farmer-ledger/internal/domain/outbox"
	"github.com/bmii/farmer-ledger/internal/domain/shared"
	"github.com/bmii/farmer-ledger/internal/domain/transaction"
)

// RecordPublisher publishes outbox messages to the transaction log
type RecordPublisher interface {
	PublishRecord(ctx context.Context, message *outbox.Message) error
}

// RecordPublisherImpl implements RecordPublisher
type RecordPublisherImpl struct {
	outboxRepo      outbox.Repository
	transactionRepo transaction.Repository
	logger          *slog.Logger
}

// NewRecordPublisher creates a new publisher
func NewRecordPublisher(
	outboxRepo outbox.Repository,
	transactionRepo transaction.Repository,
	logger *slog.Logger,
) RecordPublisher {
	return &RecordPublisherImpl{
		outboxRepo:      outboxRepo,
		transactionRepo: transactionRepo,
		logger:          logger,
	}
}

// PublishRecord writes the transaction record carried by an outbox message
// to the transaction log and marks the message as processed
func (p *RecordPublisherImpl) PublishRecord(ctx context.Context, message *outbox.Message) error {
	var recordToPublish transaction.Record
	if err := json.Unmarshal(message.Payload, &recordToPublish); err != nil {
		p.logger.Error("Failed to unmarshal transaction record from outbox payload",
			"outbox_id", message.ID, "transaction_id", message.TransactionID, "error", err,
		)
		if updateErr := p.outboxRepo.UpdateStatus(ctx, message.ID, shared.OutboxStatusFailedToPublish); updateErr != nil {
			p.logger.Error("Also failed to update outbox status to FAILED_TO_PUBLISH after unmarshal error", "outbox_id", message.ID, "update_error", updateErr)
		}
		return fmt.Errorf("unmarshal payload for outbox %d failed: %w", message.ID, err)
	}

	// Add correlation ID to logger
	logger := p.logger
	if recordToPublish.CorrelationID != "" {
		logger = p.logger.With("correlation_id", recordToPublish.CorrelationID)
	}

	logger.Info("Attempting to publish outbox message to transaction log", "outbox_id", message.ID, "transaction_id", message.TransactionID)

	recordToPublish.Status = shared.TransactionStatusCompleted
	now := time.Now().UTC()
	recordToPublish.ProcessedAt = &now

	existingRecord, err := p.transactionRepo.GetByTransactionID(ctx, recordToPublish.TransactionID)
	if err != nil && !errors.Is(err, transaction.ErrRecordNotFound{}) {
		logger.Error("Failed to check existing transaction record before publishing", "transaction_id", recordToPublish.TransactionID, "error", err)
		return fmt.Errorf("failed to check existing transaction record %s: %w", recordToPublish.TransactionID, err)
	}

	if existingRecord != nil {
		if existingRecord.Status == shared.TransactionStatusCompleted {
			logger.Info("Transaction record already COMPLETED", "transaction_id", recordToPublish.TransactionID)
		} else {
			// Update existing record status
			err = p.transactionRepo.UpdateStatus(ctx, recordToPublish.TransactionID, shared.TransactionStatusCompleted, "") // Empty reason for success
			if err != nil {
				logger.Error("Failed to update existing transaction record to COMPLETED", "transaction_id", recordToPublish.TransactionID, "error", err)
				return fmt.Errorf("failed to update transaction record %s to COMPLETED: %w", recordToPublish.TransactionID, err)
			}
			logger.Info("Updated existing transaction record to COMPLETED", "transaction_id", recordToPublish.TransactionID)
		}
	} else {
		// Create new transaction record
		err = p.transactionRepo.Create(ctx, &recordToPublish) // already has status=COMPLETED and ProcessedAt set
		if err != nil {
			logger.Error("Failed to create transaction record in MongoDB", "transaction_id", recordToPublish.TransactionID, "error", err)
			return fmt.Errorf("failed to create transaction record %s: %w", recordToPublish.TransactionID, err)
		}
		logger.Info("Successfully created transaction record in MongoDB", "transaction_id", recordToPublish.TransactionID)
	}

	// Mark outbox message as processed
	if err := p.outboxRepo.UpdateStatus(ctx, message.ID, shared.OutboxStatusProcessed); err != nil {
		logger.Error("Failed to update outbox message status to PROCESSED",
			"outbox_id", message.ID, "transaction_id", message.TransactionID, "error", err,
		)
		return fmt.Errorf("record write for %s OK, but failed to mark outbox %d as PROCESSED: %w", message.TransactionID, message.ID, err)
	}

	logger.Info("Outbox message successfully processed and marked as PROCESSED", "outbox_id", message.ID, "transaction_id", message.TransactionID)
	return nil
}

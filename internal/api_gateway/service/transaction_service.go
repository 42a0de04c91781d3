package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/bmii/farmer-ledger/internal/domain/shared"
	"github.com/bmii/farmer-ledger/internal/domain/transaction"
	"github.com/bmii/farmer-ledger/internal/platform/messaging/producers"
)

// TransactionServiceImpl implements the TransactionService interface
type TransactionServiceImpl struct {
	transactionRepo transaction.Repository
	producer        producers.MessagePublisher
	logger          *slog.Logger
}

// NewTransactionService creates a new transaction service
func NewTransactionService(logger *slog.Logger, transactionRepo transaction.Repository, producer producers.MessagePublisher) TransactionService {
	return &TransactionServiceImpl{
		transactionRepo: transactionRepo,
		producer:        producer,
		logger:          logger,
	}
}

// CreateTransaction initiates a new transaction, supporting idempotency via idempotencyKey.
// Returns transaction ID, existing record (if found via idempotencyKey), and any error
func (s *TransactionServiceImpl) CreateTransaction(ctx context.Context, transactionRequest *shared.TransactionRequest) (string, *transaction.Record, error) {
	idempotencyKey := transactionRequest.IdempotencyKey

	if idempotencyKey != "" {
		existingRecord, err := s.transactionRepo.GetByIdempotencyKey(ctx, idempotencyKey)
		if err != nil {
			s.logger.Error("Failed to check for existing transaction with idempotency key",
				"idempotency_key", idempotencyKey,
				"error", err,
			)
			return "", nil, err
		}

		if existingRecord != nil {
			s.logger.Info("Found existing transaction with idempotency key",
				"idempotency_key", idempotencyKey,
				"transaction_id", existingRecord.TransactionID,
				"status", string(existingRecord.Status),
			)
			return existingRecord.TransactionID.String(), existingRecord, nil
		}
	}

	key := transactionRequest.TransactionID.String()
	if err := s.producer.Publish(ctx, key, transactionRequest); err != nil {
		s.logger.Error("Failed to publish transaction request",
			"farmer_id", transactionRequest.FarmerID,
			"kind", string(transactionRequest.Kind),
			"quantity_kg", transactionRequest.Quantity,
			"error", err,
		)
		return "", nil, err
	}

	s.logger.Info("Transaction request published",
		"transaction_id", transactionRequest.TransactionID,
		"farmer_id", transactionRequest.FarmerID,
		"kind", string(transactionRequest.Kind),
		"quantity_kg", transactionRequest.Quantity,
	)

	return transactionRequest.TransactionID.String(), nil, nil
}

// GetTransactionByID retrieves a transaction record by its ID. Returns nil if not found
func (s *TransactionServiceImpl) GetTransactionByID(ctx context.Context, transactionID uuid.UUID) (*transaction.Record, error) {
	res, err := s.transactionRepo.GetByTransactionID(ctx, transactionID)
	if err != nil {
		var errRecordNotFound transaction.ErrRecordNotFound
		if errors.As(err, &errRecordNotFound) {
			s.logger.Info("Transaction not found", "transaction_id", transactionID.String())
			return nil, nil
		}
		s.logger.Error("Failed to get transaction by ID", "transaction_id", transactionID.String(), "error", err)
		return nil, err
	}
	return res, nil
}

// GetTransactionsByFarmerID retrieves paginated list of transactions for a farmer
// Returns records, total count, and any error
func (s *TransactionServiceImpl) GetTransactionsByFarmerID(ctx context.Context, farmerID uuid.UUID, page, perPage int) ([]*transaction.Record, int64, error) {
	offset := (page - 1) * perPage

	records, err := s.transactionRepo.GetByFarmerID(ctx, farmerID, perPage, offset)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.transactionRepo.CountByFarmerID(ctx, farmerID)
	if err != nil {
		return nil, 0, err
	}

	return records, total, nil
}

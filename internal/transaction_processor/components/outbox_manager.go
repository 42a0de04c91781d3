package components

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"github.com/bmii/farmer-ledger/internal/domain/catalog"
	"github.com/bmii/farmer-ledger/internal/domain/outbox"
	"github.com/bmii/farmer-ledger/internal/domain/shared"
	"github.com/bmii/farmer-ledger/internal/domain/transaction"
	"github.com/bmii/farmer-ledger/internal/transaction_processor/service"
)

type OutboxManagerImpl struct {
	outboxRepo outbox.Repository
	logger     *slog.Logger
}

func NewOutboxManager(outboxRepo outbox.Repository, logger *slog.Logger) service.OutboxManager {
	return &OutboxManagerImpl{
		outboxRepo: outboxRepo,
		logger:     logger,
	}
}

// CreateOutboxEntry creates an outbox entry carrying the transaction record
// of a successfully applied transaction
func (m *OutboxManagerImpl) CreateOutboxEntry(ctx context.Context, tx pgx.Tx, request *shared.TransactionRequest, product *catalog.Product, application *service.Application) error {
	logger := m.logger
	if request.CorrelationID != "" {
		logger = m.logger.With("correlation_id", request.CorrelationID)
	}

	outboxRepoTx := m.outboxRepo.WithTx(tx)

	record := &transaction.Record{
		TransactionID:  request.TransactionID,
		Kind:           request.Kind,
		FarmerID:       request.FarmerID,
		AgentID:        request.AgentID,
		ProductName:    request.Product.Name,
		QuantityKg:     request.Quantity.InexactFloat64(),
		TotalAmount:    application.TotalAmount,
		BalanceAfter:   application.Farmer.Balance,
		IdempotencyKey: request.IdempotencyKey,
		CorrelationID:  request.CorrelationID,
		Status:         shared.TransactionStatusProcessing,
		CreatedAt:      request.Timestamp,
		// ProcessedAt is set by the poller
	}
	if product != nil {
		record.ProductName = product.Name
		record.ProductCategory = product.Category
	}

	switch request.Kind {
	case shared.TransactionKindDeposit:
		record.Quality = request.Quality
		record.BasePrice = request.BasePrice
		record.AppliedPrice = application.AppliedPrice.InexactFloat64()
	default:
		// Withdrawals and sales apply a whole-cêntimo unit price
		record.UnitPrice = application.AppliedPrice.IntPart()
	}

	outboxMessage, err := outbox.NewMessage(record)
	if err != nil {
		logger.Error("Failed to create new outbox message (marshal payload)",
			"req_id", request.TransactionID.String(),
			"error", err,
		)
		return fmt.Errorf("failed to create outbox message payload for tx %s: %w", request.TransactionID.String(), err)
	}

	if err = outboxRepoTx.Create(ctx, outboxMessage); err != nil {
		logger.Error("Failed to create outbox message",
			"req_id", request.TransactionID.String(),
			"farmer_id", request.FarmerID.String(),
			"error", err,
		)
		return fmt.Errorf("failed to create outbox message for tx %s: %w", request.TransactionID.String(), err)
	}
	logger.Info("Outbox message created successfully",
		"req_id", request.TransactionID.String(),
		"outbox_id", outboxMessage.ID,
	)

	return nil
}

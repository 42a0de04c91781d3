package components

import (
	"log/slog"

	"github.com/bmii/farmer-ledger/internal/config"
	"github.com/bmii/farmer-ledger/internal/domain/catalog"
	"github.com/bmii/farmer-ledger/internal/domain/farmer"
	"github.com/bmii/farmer-ledger/internal/domain/outbox"
	"github.com/bmii/farmer-ledger/internal/domain/transaction"
	"github.com/bmii/farmer-ledger/internal/platform/persistence"
	"github.com/bmii/farmer-ledger/internal/transaction_processor/service"
)

// CreateProcessingService creates a new ProcessingService with all its dependencies.
func CreateProcessingService(
	pgDB *persistence.PostgresDB,
	farmerRepo farmer.Repository,
	productRepo catalog.Repository,
	outboxRepo outbox.Repository,
	transactionRepo transaction.Repository,
	logger *slog.Logger,
	cfg *config.Config,
) service.ProcessingService {
	validator := NewTransactionValidator(transactionRepo, logger)
	catalogManager := NewCatalogManager(productRepo, logger)
	farmerManager := NewFarmerManager(farmerRepo, logger)
	outboxManager := NewOutboxManager(outboxRepo, logger)
	failureRecorder := NewFailureRecorder(transactionRepo, logger)

	baseService := service.NewProcessingService(
		pgDB,
		validator,
		catalogManager,
		farmerManager,
		outboxManager,
		failureRecorder,
		logger,
	)

	workerPoolService, err := service.NewWorkerPoolProcessingService(
		baseService,
		service.WorkerPoolConfig{
			Size: cfg.WorkerPool.Size,
		},
		logger.With("component", "worker_pool"),
	)

	if err != nil {
		logger.Error("Failed to create worker pool service, falling back to base service", "error", err)
		return baseService
	}

	logger.Info("Created worker pool processing service", "pool_size", cfg.WorkerPool.Size)
	return workerPoolService
}

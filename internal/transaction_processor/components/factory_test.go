package components

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bmii/farmer-ledger/internal/config"
	"github.com/bmii/farmer-ledger/internal/platform/persistence"
	"github.com/bmii/farmer-ledger/internal/transaction_processor/service"
)

// We're reusing the mocks from other test files:
// MockFarmerRepo from farmer_manager_test.go
// MockProductRepo from catalog_manager_test.go
// MockOutboxRepo from outbox_manager_test.go
// MockTransactionRepo from transaction_validator_test.go

func TestCreateProcessingService(t *testing.T) {
	mockPgDB := &persistence.PostgresDB{}
	mockFarmerRepo := &MockFarmerRepo{}
	mockProductRepo := &MockProductRepo{}
	mockOutboxRepo := &MockOutboxRepo{}
	mockTransactionRepo := &MockTransactionRepo{}
	logger := slog.Default()

	cfg := &config.Config{
		WorkerPool: config.WorkerPoolConfig{
			Size: 5,
		},
	}

	t.Run("creates worker pool service with valid config", func(t *testing.T) {
		processingService := CreateProcessingService(
			mockPgDB,
			mockFarmerRepo,
			mockProductRepo,
			mockOutboxRepo,
			mockTransactionRepo,
			logger,
			cfg,
		)

		assert.NotNil(t, processingService)

		_, ok := processingService.(service.ProcessingService)
		assert.True(t, ok)
	})

	t.Run("falls back to base service with invalid config", func(t *testing.T) {
		invalidCfg := &config.Config{
			WorkerPool: config.WorkerPoolConfig{
				Size: 0, // Invalid size
			},
		}

		processingService := CreateProcessingService(
			mockPgDB,
			mockFarmerRepo,
			mockProductRepo,
			mockOutboxRepo,
			mockTransactionRepo,
			logger,
			invalidCfg,
		)

		assert.NotNil(t, processingService)

		_, ok := processingService.(service.ProcessingService)
		assert.True(t, ok)
	})
}

package mongo

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/bmii/farmer-ledger/internal/domain/shared"
	"github.com/bmii/farmer-ledger/internal/domain/transaction"
)

type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) Create(ctx context.Context, record *transaction.Record) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockTransactionRepository) GetByTransactionID(ctx context.Context, transactionID uuid.UUID) (*transaction.Record, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transaction.Record), args.Error(1)
}

func (m *MockTransactionRepository) GetByIdempotencyKey(ctx context.Context, idempotencyKey string) (*transaction.Record, error) {
	args := m.Called(ctx, idempotencyKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transaction.Record), args.Error(1)
}

func (m *MockTransactionRepository) GetByFarmerID(ctx context.Context, farmerID uuid.UUID, limit, offset int) ([]*transaction.Record, error) {
	args := m.Called(ctx, farmerID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*transaction.Record), args.Error(1)
}

func (m *MockTransactionRepository) CountByFarmerID(ctx context.Context, farmerID uuid.UUID) (int64, error) {
	args := m.Called(ctx, farmerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTransactionRepository) UpdateStatus(ctx context.Context, transactionID uuid.UUID, status shared.TransactionStatus, reason string) error {
	args := m.Called(ctx, transactionID, status, reason)
	return args.Error(0)
}

func (m *MockTransactionRepository) GetByTimeRange(ctx context.Context, startTime, endTime time.Time, limit, offset int) ([]*transaction.Record, error) {
	args := m.Called(ctx, startTime, endTime, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*transaction.Record), args.Error(1)
}

var _ transaction.Repository = (*MockTransactionRepository)(nil)

func TestNewTransactionRepository(t *testing.T) {
	db := &mongo.Database{}
	logger := slog.Default()

	repo := NewTransactionRepository(logger, db)

	assert.NotNil(t, repo)
	assert.IsType(t, &TransactionRepository{}, repo)
}

func TestTransactionRepository_Create(t *testing.T) {
	mockRepo := &MockTransactionRepository{}

	txID := uuid.New()
	farmerID := uuid.New()
	record := &transaction.Record{
		TransactionID:  txID,
		FarmerID:       farmerID,
		Kind:           shared.TransactionKindDeposit,
		ProductName:    "Milho",
		QuantityKg:     100,
		Quality:        shared.QualityB,
		BasePrice:      20000,
		AppliedPrice:   18000,
		TotalAmount:    1_800_000,
		IdempotencyKey: "key1",
		CorrelationID:  "corr1",
		Status:         shared.TransactionStatusProcessing,
		CreatedAt:      time.Now(),
	}

	tests := []struct {
		name          string
		setupMocks    func()
		expectedError error
	}{
		{
			name: "successful creation",
			setupMocks: func() {
				mockRepo.On("Create", mock.Anything, record).Return(nil)
			},
			expectedError: nil,
		},
		{
			name: "duplicate record",
			setupMocks: func() {
				mockRepo.On("Create", mock.Anything, record).Return(transaction.ErrDuplicateRecord{TransactionID: txID})
			},
			expectedError: transaction.ErrDuplicateRecord{TransactionID: txID},
		},
		{
			name: "database error",
			setupMocks: func() {
				mockRepo.On("Create", mock.Anything, record).Return(errors.New("db error"))
			},
			expectedError: errors.New("db error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo = &MockTransactionRepository{}
			tt.setupMocks()

			ctx := context.Background()
			err := mockRepo.Create(ctx, record)

			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedError.Error())
			} else {
				assert.NoError(t, err)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestTransactionRepository_GetByTransactionID(t *testing.T) {
	mockRepo := &MockTransactionRepository{}

	txID := uuid.New()
	farmerID := uuid.New()
	record := &transaction.Record{
		TransactionID:  txID,
		FarmerID:       farmerID,
		Kind:           shared.TransactionKindSale,
		ProductName:    "Ginguba",
		QuantityKg:     40,
		UnitPrice:      35000,
		TotalAmount:    1_400_000,
		IdempotencyKey: "key1",
		CorrelationID:  "corr1",
		Status:         shared.TransactionStatusCompleted,
		CreatedAt:      time.Now(),
	}

	tests := []struct {
		name           string
		setupMocks     func()
		expectedRecord *transaction.Record
		expectedError  error
	}{
		{
			name: "record found",
			setupMocks: func() {
				mockRepo.On("GetByTransactionID", mock.Anything, txID).Return(record, nil)
			},
			expectedRecord: record,
			expectedError:  nil,
		},
		{
			name: "record not found",
			setupMocks: func() {
				mockRepo.On("GetByTransactionID", mock.Anything, txID).Return(nil, transaction.ErrRecordNotFound{TransactionID: txID})
			},
			expectedRecord: nil,
			expectedError:  transaction.ErrRecordNotFound{TransactionID: txID},
		},
		{
			name: "database error",
			setupMocks: func() {
				mockRepo.On("GetByTransactionID", mock.Anything, txID).Return(nil, errors.New("db error"))
			},
			expectedRecord: nil,
			expectedError:  errors.New("db error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo = &MockTransactionRepository{}
			tt.setupMocks()

			ctx := context.Background()
			result, err := mockRepo.GetByTransactionID(ctx, txID)

			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedError.Error())
				assert.Nil(t, result)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedRecord, result)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestTransactionRepository_UpdateStatus(t *testing.T) {
	mockRepo := &MockTransactionRepository{}

	txID := uuid.New()
	status := shared.TransactionStatusFailed
	reason := string(shared.FailureReasonInsufficientBalance)

	tests := []struct {
		name          string
		setupMocks    func()
		expectedError error
	}{
		{
			name: "successful update",
			setupMocks: func() {
				mockRepo.On("UpdateStatus", mock.Anything, txID, status, reason).Return(nil)
			},
			expectedError: nil,
		},
		{
			name: "record not found",
			setupMocks: func() {
				mockRepo.On("UpdateStatus", mock.Anything, txID, status, reason).Return(transaction.ErrRecordNotFound{TransactionID: txID})
			},
			expectedError: transaction.ErrRecordNotFound{TransactionID: txID},
		},
		{
			name: "database error",
			setupMocks: func() {
				mockRepo.On("UpdateStatus", mock.Anything, txID, status, reason).Return(errors.New("db error"))
			},
			expectedError: errors.New("db error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo = &MockTransactionRepository{}
			tt.setupMocks()

			ctx := context.Background()
			err := mockRepo.UpdateStatus(ctx, txID, status, reason)

			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedError.Error())
			} else {
				assert.NoError(t, err)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

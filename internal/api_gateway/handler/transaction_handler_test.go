package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bmii/farmer-ledger/internal/domain/shared"
	"github.com/bmii/farmer-ledger/internal/domain/transaction"
)

type MockTransactionService struct {
	mock.Mock
}

func (m *MockTransactionService) CreateTransaction(ctx context.Context, transactionRequest *shared.TransactionRequest) (string, *transaction.Record, error) {
	args := m.Called(ctx, transactionRequest)
	if args.Get(1) == nil {
		return args.String(0), nil, args.Error(2)
	}
	return args.String(0), args.Get(1).(*transaction.Record), args.Error(2)
}

func (m *MockTransactionService) GetTransactionByID(ctx context.Context, transactionID uuid.UUID) (*transaction.Record, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transaction.Record), args.Error(1)
}

func (m *MockTransactionService) GetTransactionsByFarmerID(ctx context.Context, farmerID uuid.UUID, page, perPage int) ([]*transaction.Record, int64, error) {
	args := m.Called(ctx, farmerID, page, perPage)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*transaction.Record), args.Get(1).(int64), args.Error(2)
}

func depositBody(farmerID uuid.UUID) CreateTransactionRequest {
	return CreateTransactionRequest{
		FarmerID:    farmerID.String(),
		Kind:        "DEPOSIT",
		ProductName: "Milho",
		Quantity:    decimal.NewFromInt(100),
		Quality:     "B",
		BasePrice:   20000,
	}
}

func postTransaction(router http.Handler, body interface{}) *httptest.ResponseRecorder {
	jsonBody, _ := json.Marshal(body)
	req, _ := http.NewRequest(http.MethodPost, "/transactions", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestTransactionHandler_Create(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	agentID := uuid.New()
	farmerID := uuid.New()

	newRouter := func(handler *TransactionHandler) http.Handler {
		router := setupTestRouter()
		router.POST("/transactions", asAgent(agentID), handler.Create)
		return router
	}

	t.Run("AcceptedDeposit", func(t *testing.T) {
		mockService := new(MockTransactionService)
		handler := NewTransactionHandler(logger, mockService)

		transactionID := uuid.New().String()
		mockService.On("CreateTransaction", mock.Anything, mock.MatchedBy(func(r *shared.TransactionRequest) bool {
			return r.FarmerID == farmerID &&
				r.AgentID == agentID &&
				r.Kind == shared.TransactionKindDeposit &&
				r.Product.Name == "Milho" &&
				r.Quantity.Equal(decimal.NewFromInt(100)) &&
				r.Quality == shared.QualityB &&
				r.BasePrice == 20000 &&
				r.IdempotencyKey != ""
		})).Return(transactionID, nil, nil)

		rr := postTransaction(newRouter(handler), depositBody(farmerID))

		assert.Equal(t, http.StatusAccepted, rr.Code)

		var topLevelResponse Response
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &topLevelResponse))
		data := topLevelResponse.Data.(map[string]interface{})
		assert.Equal(t, transactionID, data["transaction_id"])
		assert.Equal(t, "PENDING", data["status"])

		mockService.AssertExpectations(t)
	})

	t.Run("IdempotencyHitReturnsExistingRecord", func(t *testing.T) {
		mockService := new(MockTransactionService)
		handler := NewTransactionHandler(logger, mockService)

		transactionID := uuid.New()
		processedAt := time.Now().UTC()
		existing := &transaction.Record{
			TransactionID: transactionID,
			Kind:          shared.TransactionKindDeposit,
			FarmerID:      farmerID,
			AgentID:       agentID,
			ProductName:   "Milho",
			QuantityKg:    100,
			Quality:       shared.QualityB,
			BasePrice:     20000,
			AppliedPrice:  18000,
			TotalAmount:   1_800_000,
			BalanceAfter:  1_800_000,
			Status:        shared.TransactionStatusCompleted,
			CreatedAt:     time.Now(),
			ProcessedAt:   &processedAt,
		}
		mockService.On("CreateTransaction", mock.Anything, mock.Anything).
			Return(transactionID.String(), existing, nil)

		body := depositBody(farmerID)
		body.IdempotencyKey = "agent-7-slip-1138"
		rr := postTransaction(newRouter(handler), body)

		assert.Equal(t, http.StatusOK, rr.Code)

		var topLevelResponse Response
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &topLevelResponse))
		var responseBody TransactionResponse
		dataBytes, _ := json.Marshal(topLevelResponse.Data)
		require.NoError(t, json.Unmarshal(dataBytes, &responseBody))

		assert.Equal(t, transactionID.String(), responseBody.TransactionID)
		assert.Equal(t, "COMPLETED", responseBody.Status)
		assert.Equal(t, int64(1_800_000), responseBody.TotalAmount)
		assert.NotEmpty(t, responseBody.ProcessedAt)

		mockService.AssertExpectations(t)
	})

	t.Run("InvalidRequestBody", func(t *testing.T) {
		mockService := new(MockTransactionService)
		handler := NewTransactionHandler(logger, mockService)

		router := setupTestRouter()
		router.POST("/transactions", asAgent(agentID), handler.Create)

		req, _ := http.NewRequest(http.MethodPost, "/transactions", bytes.NewBufferString(`{"farmer_id":`))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockService.AssertNotCalled(t, "CreateTransaction", mock.Anything, mock.Anything)
	})

	t.Run("InvalidKind", func(t *testing.T) {
		mockService := new(MockTransactionService)
		handler := NewTransactionHandler(logger, mockService)

		body := depositBody(farmerID)
		body.Kind = "TRANSFER"
		rr := postTransaction(newRouter(handler), body)

		// rejected by the oneof binding before the kind switch runs
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockService.AssertNotCalled(t, "CreateTransaction", mock.Anything, mock.Anything)
	})

	t.Run("NonPositiveQuantity", func(t *testing.T) {
		mockService := new(MockTransactionService)
		handler := NewTransactionHandler(logger, mockService)

		body := depositBody(farmerID)
		body.Quantity = decimal.NewFromInt(-5)
		rr := postTransaction(newRouter(handler), body)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockService.AssertNotCalled(t, "CreateTransaction", mock.Anything, mock.Anything)
	})

	t.Run("MissingProductReference", func(t *testing.T) {
		mockService := new(MockTransactionService)
		handler := NewTransactionHandler(logger, mockService)

		body := depositBody(farmerID)
		body.ProductName = ""
		rr := postTransaction(newRouter(handler), body)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockService.AssertNotCalled(t, "CreateTransaction", mock.Anything, mock.Anything)
	})

	t.Run("ProductIDTakesPrecedence", func(t *testing.T) {
		mockService := new(MockTransactionService)
		handler := NewTransactionHandler(logger, mockService)

		productID := uuid.New()
		mockService.On("CreateTransaction", mock.Anything, mock.MatchedBy(func(r *shared.TransactionRequest) bool {
			return r.Product.ByCatalog() && r.Product.CatalogID == productID
		})).Return(uuid.New().String(), nil, nil)

		body := depositBody(farmerID)
		body.ProductID = productID.String()
		rr := postTransaction(newRouter(handler), body)

		assert.Equal(t, http.StatusAccepted, rr.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("DepositInvalidQuality", func(t *testing.T) {
		mockService := new(MockTransactionService)
		handler := NewTransactionHandler(logger, mockService)

		body := depositBody(farmerID)
		body.Quality = "D"
		rr := postTransaction(newRouter(handler), body)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockService.AssertNotCalled(t, "CreateTransaction", mock.Anything, mock.Anything)
	})

	t.Run("DepositMissingBasePrice", func(t *testing.T) {
		mockService := new(MockTransactionService)
		handler := NewTransactionHandler(logger, mockService)

		body := depositBody(farmerID)
		body.BasePrice = 0
		rr := postTransaction(newRouter(handler), body)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockService.AssertNotCalled(t, "CreateTransaction", mock.Anything, mock.Anything)
	})

	t.Run("SaleMissingUnitPrice", func(t *testing.T) {
		mockService := new(MockTransactionService)
		handler := NewTransactionHandler(logger, mockService)

		body := CreateTransactionRequest{
			FarmerID:    farmerID.String(),
			Kind:        "SALE",
			ProductName: "Milho",
			Quantity:    decimal.NewFromInt(40),
		}
		rr := postTransaction(newRouter(handler), body)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockService.AssertNotCalled(t, "CreateTransaction", mock.Anything, mock.Anything)
	})

	t.Run("ServiceError", func(t *testing.T) {
		mockService := new(MockTransactionService)
		handler := NewTransactionHandler(logger, mockService)

		mockService.On("CreateTransaction", mock.Anything, mock.Anything).
			Return("", nil, errors.New("broker unavailable"))

		rr := postTransaction(newRouter(handler), depositBody(farmerID))

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		mockService.AssertExpectations(t)
	})
}

func TestTransactionHandler_GetByID(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	t.Run("Success", func(t *testing.T) {
		mockService := new(MockTransactionService)
		handler := NewTransactionHandler(logger, mockService)

		transactionID := uuid.New()
		record := &transaction.Record{
			TransactionID: transactionID,
			Kind:          shared.TransactionKindWithdrawal,
			FarmerID:      uuid.New(),
			ProductName:   "Feijão",
			QuantityKg:    25,
			UnitPrice:     30000,
			TotalAmount:   750_000,
			Status:        shared.TransactionStatusCompleted,
			CreatedAt:     time.Now(),
		}
		mockService.On("GetTransactionByID", mock.Anything, transactionID).Return(record, nil)

		router := setupTestRouter()
		router.GET("/transactions/:id", handler.GetByID)

		req, _ := http.NewRequest(http.MethodGet, "/transactions/"+transactionID.String(), nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var topLevelResponse Response
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &topLevelResponse))
		var responseBody TransactionResponse
		dataBytes, _ := json.Marshal(topLevelResponse.Data)
		require.NoError(t, json.Unmarshal(dataBytes, &responseBody))
		assert.Equal(t, "WITHDRAWAL", responseBody.Kind)
		assert.Equal(t, int64(750_000), responseBody.TotalAmount)

		mockService.AssertExpectations(t)
	})

	t.Run("NotFound", func(t *testing.T) {
		mockService := new(MockTransactionService)
		handler := NewTransactionHandler(logger, mockService)

		transactionID := uuid.New()
		mockService.On("GetTransactionByID", mock.Anything, transactionID).Return(nil, nil)

		router := setupTestRouter()
		router.GET("/transactions/:id", handler.GetByID)

		req, _ := http.NewRequest(http.MethodGet, "/transactions/"+transactionID.String(), nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("InvalidID", func(t *testing.T) {
		mockService := new(MockTransactionService)
		handler := NewTransactionHandler(logger, mockService)

		router := setupTestRouter()
		router.GET("/transactions/:id", handler.GetByID)

		req, _ := http.NewRequest(http.MethodGet, "/transactions/not-a-uuid", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockService.AssertNotCalled(t, "GetTransactionByID", mock.Anything, mock.Anything)
	})
}

func TestTransactionHandler_GetByFarmerID(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	farmerID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		mockService := new(MockTransactionService)
		handler := NewTransactionHandler(logger, mockService)

		records := []*transaction.Record{
			{TransactionID: uuid.New(), FarmerID: farmerID, Kind: shared.TransactionKindDeposit, ProductName: "Milho", Status: shared.TransactionStatusCompleted, CreatedAt: time.Now()},
			{TransactionID: uuid.New(), FarmerID: farmerID, Kind: shared.TransactionKindSale, ProductName: "Ginguba", Status: shared.TransactionStatusCompleted, CreatedAt: time.Now()},
		}
		mockService.On("GetTransactionsByFarmerID", mock.Anything, farmerID, 2, 5).
			Return(records, int64(12), nil)

		router := setupTestRouter()
		router.GET("/farmers/:id/transactions", handler.GetByFarmerID)

		req, _ := http.NewRequest(http.MethodGet, "/farmers/"+farmerID.String()+"/transactions?page=2&per_page=5", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var topLevelResponse Response
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &topLevelResponse))
		require.NotNil(t, topLevelResponse.Meta)
		assert.Equal(t, 2, topLevelResponse.Meta.Page)
		assert.Equal(t, 5, topLevelResponse.Meta.PerPage)
		assert.Equal(t, 12, topLevelResponse.Meta.TotalItems)
		assert.Equal(t, 3, topLevelResponse.Meta.TotalPages)

		var responseBody []TransactionResponse
		dataBytes, _ := json.Marshal(topLevelResponse.Data)
		require.NoError(t, json.Unmarshal(dataBytes, &responseBody))
		assert.Len(t, responseBody, 2)

		mockService.AssertExpectations(t)
	})

	t.Run("DefaultPagination", func(t *testing.T) {
		mockService := new(MockTransactionService)
		handler := NewTransactionHandler(logger, mockService)

		mockService.On("GetTransactionsByFarmerID", mock.Anything, farmerID, 1, 10).
			Return([]*transaction.Record{}, int64(0), nil)

		router := setupTestRouter()
		router.GET("/farmers/:id/transactions", handler.GetByFarmerID)

		req, _ := http.NewRequest(http.MethodGet, "/farmers/"+farmerID.String()+"/transactions", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("InvalidFarmerID", func(t *testing.T) {
		mockService := new(MockTransactionService)
		handler := NewTransactionHandler(logger, mockService)

		router := setupTestRouter()
		router.GET("/farmers/:id/transactions", handler.GetByFarmerID)

		req, _ := http.NewRequest(http.MethodGet, "/farmers/not-a-uuid/transactions", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockService.AssertNotCalled(t, "GetTransactionsByFarmerID", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("ServiceError", func(t *testing.T) {
		mockService := new(MockTransactionService)
		handler := NewTransactionHandler(logger, mockService)

		mockService.On("GetTransactionsByFarmerID", mock.Anything, farmerID, 1, 10).
			Return(nil, int64(0), errors.New("store unavailable"))

		router := setupTestRouter()
		router.GET("/farmers/:id/transactions", handler.GetByFarmerID)

		req, _ := http.NewRequest(http.MethodGet, "/farmers/"+farmerID.String()+"/transactions", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		mockService.AssertExpectations(t)
	})
}

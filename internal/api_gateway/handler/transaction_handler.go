package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/bmii/farmer-ledger/internal/api_gateway/middleware"
	"github.com/bmii/farmer-ledger/internal/api_gateway/service"
	"github.com/bmii/farmer-ledger/internal/domain/shared"
	"github.com/bmii/farmer-ledger/internal/domain/transaction"
)

// TransactionHandler handles HTTP requests for transaction operations
type TransactionHandler struct {
	transactionService service.TransactionService
	logger             *slog.Logger
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(logger *slog.Logger, transactionService service.TransactionService) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
		logger:             logger,
	}
}

// Create initiates a new transaction (deposit, withdrawal or sale) with
// idempotency support. Accepted requests are processed asynchronously.
func (h *TransactionHandler) Create(c *gin.Context) {
	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	farmerID, err := uuid.Parse(req.FarmerID)
	if err != nil {
		h.logger.Error("Invalid farmer ID", "farmer_id", req.FarmerID, "error", err)
		RespondBadRequest(c, "Invalid farmer ID")
		return
	}

	var kind shared.TransactionKind
	switch req.Kind {
	case "DEPOSIT":
		kind = shared.TransactionKindDeposit
	case "WITHDRAWAL":
		kind = shared.TransactionKindWithdrawal
	case "SALE":
		kind = shared.TransactionKindSale
	default:
		h.logger.Error("Invalid transaction kind", "kind", req.Kind)
		RespondBadRequest(c, "Invalid transaction kind")
		return
	}

	if !req.Quantity.IsPositive() {
		h.logger.Error("Invalid quantity", "quantity", req.Quantity)
		RespondBadRequest(c, "Quantity must be positive")
		return
	}

	product := shared.NameRef(req.ProductName)
	if req.ProductID != "" {
		productID, err := uuid.Parse(req.ProductID)
		if err != nil {
			h.logger.Error("Invalid product ID", "product_id", req.ProductID, "error", err)
			RespondBadRequest(c, "Invalid product ID")
			return
		}
		product = shared.CatalogRef(productID)
	}
	if err := product.Validate(); err != nil {
		h.logger.Error("Missing product reference", "error", err)
		RespondBadRequest(c, "A product ID or a product name is required")
		return
	}

	var quality shared.Quality
	if kind == shared.TransactionKindDeposit {
		quality, err = shared.ParseQuality(req.Quality)
		if err != nil {
			h.logger.Error("Invalid quality grade", "quality", req.Quality)
			RespondBadRequest(c, "Quality grade must be A, B or C")
			return
		}
		if req.BasePrice <= 0 {
			h.logger.Error("Invalid base price", "base_price", req.BasePrice)
			RespondBadRequest(c, "Base price must be positive for deposits")
			return
		}
	}

	if kind == shared.TransactionKindSale && req.UnitPrice <= 0 {
		h.logger.Error("Invalid unit price", "unit_price", req.UnitPrice)
		RespondBadRequest(c, "Unit price must be positive for sales")
		return
	}

	if req.IdempotencyKey == "" {
		req.IdempotencyKey = uuid.New().String()
	}

	transactionRequest := &shared.TransactionRequest{
		TransactionID:  uuid.New(),
		FarmerID:       farmerID,
		AgentID:        middleware.GetAgentID(c),
		Kind:           kind,
		Product:        product,
		Quantity:       req.Quantity,
		Quality:        quality,
		BasePrice:      req.BasePrice,
		ReferencePrice: req.ReferencePrice,
		UnitPrice:      req.UnitPrice,
		IdempotencyKey: req.IdempotencyKey,
		CorrelationID:  middleware.GetCorrelationID(c),
		Timestamp:      time.Now(),
	}

	transactionID, record, err := h.transactionService.CreateTransaction(c.Request.Context(), transactionRequest)
	if err != nil {
		h.logger.Error("Failed to create transaction", "error", err)
		RespondInternalError(c)
		return
	}
	if record != nil {
		RespondOK(c, mapRecordToResponse(record))
		return
	}

	RespondAccepted(c, gin.H{
		"transaction_id": transactionID,
		"status":         "PENDING",
	})
}

// GetByID retrieves transaction details by its ID, returns 404 if not found
func (h *TransactionHandler) GetByID(c *gin.Context) {
	idParam := c.Param("id")
	id, err := uuid.Parse(idParam)
	if err != nil {
		h.logger.Error("Invalid transaction ID", "id", idParam, "error", err)
		RespondBadRequest(c, "Invalid transaction ID")
		return
	}

	record, err := h.transactionService.GetTransactionByID(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("Failed to get transaction", "id", idParam, "error", err)
		RespondInternalError(c)
		return
	}

	if record == nil {
		RespondNotFound(c, "Transaction not found")
		return
	}

	response := mapRecordToResponse(record)
	RespondOK(c, response)
}

// GetByFarmerID retrieves paginated transaction history for a farmer
func (h *TransactionHandler) GetByFarmerID(c *gin.Context) {
	farmerIDParam := c.Param("id")
	farmerID, err := uuid.Parse(farmerIDParam)
	if err != nil {
		h.logger.Error("Invalid farmer ID", "farmer_id", farmerIDParam, "error", err)
		RespondBadRequest(c, "Invalid farmer ID")
		return
	}

	var pagination PaginationParams
	if err := c.ShouldBindQuery(&pagination); err != nil {
		h.logger.Error("Invalid pagination parameters", "error", err)
		RespondBadRequest(c, "Invalid pagination parameters")
		return
	}

	records, total, err := h.transactionService.GetTransactionsByFarmerID(
		c.Request.Context(),
		farmerID,
		pagination.Page,
		pagination.PerPage,
	)
	if err != nil {
		h.logger.Error("Failed to get transactions", "farmer_id", farmerIDParam, "error", err)
		RespondInternalError(c)
		return
	}

	var transactions []TransactionResponse
	for _, record := range records {
		transactions = append(transactions, mapRecordToResponse(record))
	}

	RespondWithPaginatedData(c, http.StatusOK, transactions, pagination.Page, pagination.PerPage, int(total))
}

// mapRecordToResponse maps a transaction record to a transaction response DTO
func mapRecordToResponse(record *transaction.Record) TransactionResponse {
	response := TransactionResponse{
		TransactionID:   record.TransactionID.String(),
		Kind:            string(record.Kind),
		FarmerID:        record.FarmerID.String(),
		ProductName:     record.ProductName,
		ProductCategory: record.ProductCategory,
		QuantityKg:      record.QuantityKg,
		Quality:         string(record.Quality),
		BasePrice:       record.BasePrice,
		AppliedPrice:    record.AppliedPrice,
		UnitPrice:       record.UnitPrice,
		TotalAmount:     record.TotalAmount,
		BalanceAfter:    record.BalanceAfter,
		Status:          string(record.Status),
		FailureReason:   record.FailureReason,
		CreatedAt:       record.CreatedAt.Format(time.RFC3339),
	}

	if record.AgentID != uuid.Nil {
		response.AgentID = record.AgentID.String()
	}
	if record.ProcessedAt != nil {
		response.ProcessedAt = record.ProcessedAt.Format(time.RFC3339)
	}

	return response
}

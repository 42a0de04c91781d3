package handler

import (
	"errors"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/bmii/farmer-ledger/internal/api_gateway/middleware"
	"github.com/bmii/farmer-ledger/internal/api_gateway/service"
	"github.com/bmii/farmer-ledger/internal/domain/farmer"
)

// FarmerHandler handles HTTP requests for farmer account operations
type FarmerHandler struct {
	farmerService service.FarmerService
	logger        *slog.Logger
}

// NewFarmerHandler creates a new farmer handler
func NewFarmerHandler(logger *slog.Logger, farmerService service.FarmerService) *FarmerHandler {
	return &FarmerHandler{
		farmerService: farmerService,
		logger:        logger,
	}
}

// Register handles registration of a new farmer, validating the request and
// checking for duplicate BI numbers. The registering agent is taken from the
// authenticated principal.
func (h *FarmerHandler) Register(c *gin.Context) {
	var req RegisterFarmerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	agentID := middleware.GetAgentID(c)

	f, err := h.farmerService.RegisterFarmer(c.Request.Context(), req.Name, req.NationalID, req.Phone, req.Address, agentID)
	if err != nil {
		var duplicateNationalIDErr farmer.ErrDuplicateNationalID
		if errors.As(err, &duplicateNationalIDErr) {
			h.logger.Warn("Attempt to register farmer with duplicate BI", "national_id", duplicateNationalIDErr.NationalID)
			RespondConflict(c, "Farmer with this national ID already exists")
			return
		}
		h.logger.Error("Failed to register farmer", "error", err)
		RespondInternalError(c)
		return
	}

	response := mapFarmerToResponse(f)
	RespondCreated(c, response)
}

// GetByID retrieves a farmer account including stock, returning 404 if not found
func (h *FarmerHandler) GetByID(c *gin.Context) {
	idParam := c.Param("id")
	id, err := uuid.Parse(idParam)
	if err != nil {
		h.logger.Error("Invalid farmer ID", "id", idParam, "error", err)
		RespondBadRequest(c, "Invalid farmer ID")
		return
	}

	f, err := h.farmerService.GetFarmerByID(c.Request.Context(), id)
	if err != nil {
		var farmerNotFound farmer.ErrFarmerNotFound
		if errors.As(err, &farmerNotFound) {
			RespondNotFound(c, "Farmer not found")
			return
		}
		h.logger.Error("Failed to get farmer", "id", idParam, "error", err)
		RespondInternalError(c)
		return
	}

	response := mapFarmerToResponse(f)
	RespondOK(c, response)
}

// List retrieves the farmers registered by the authenticated agent, or all
// farmers when the "all" query flag is set
func (h *FarmerHandler) List(c *gin.Context) {
	agentID := middleware.GetAgentID(c)
	if c.Query("all") == "true" {
		agentID = uuid.Nil
	}

	farmers, err := h.farmerService.ListFarmers(c.Request.Context(), agentID)
	if err != nil {
		h.logger.Error("Failed to list farmers", "error", err)
		RespondInternalError(c)
		return
	}

	responses := make([]FarmerResponse, 0, len(farmers))
	for _, f := range farmers {
		responses = append(responses, mapFarmerToResponse(f))
	}

	RespondOK(c, responses)
}

// mapFarmerToResponse maps a farmer aggregate to a farmer response DTO
func mapFarmerToResponse(f *farmer.Farmer) FarmerResponse {
	stock := make([]BatchResponse, 0, len(f.Stock))
	for _, b := range f.Stock {
		stock = append(stock, BatchResponse{
			ProductName: b.ProductName,
			Quantity:    b.Quantity.String(),
			Quality:     string(b.Quality),
			UnitPrice:   b.UnitPrice.String(),
			EnteredAt:   b.EnteredAt.Format(time.RFC3339),
		})
	}

	return FarmerResponse{
		ID:         f.ID.String(),
		Name:       f.Name,
		NationalID: f.NationalID,
		Phone:      f.Phone,
		Address:    f.Address,
		AgentID:    f.AgentID.String(),
		Balance:    f.Balance,
		Stock:      stock,
		CreatedAt:  f.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  f.UpdatedAt.Format(time.RFC3339),
	}
}

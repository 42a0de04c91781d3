package handler

import (
	"errors"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/bmii/farmer-ledger/internal/api_gateway/service"
	"github.com/bmii/farmer-ledger/internal/domain/catalog"
)

// ProductHandler handles HTTP requests for product catalog operations
type ProductHandler struct {
	productService service.ProductService
	logger         *slog.Logger
}

// NewProductHandler creates a new product handler
func NewProductHandler(logger *slog.Logger, productService service.ProductService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		logger:         logger,
	}
}

// Create handles creation of a new catalog entry
func (h *ProductHandler) Create(c *gin.Context) {
	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	p, err := h.productService.CreateProduct(c.Request.Context(), req.Name, req.Category, req.ReferencePrice, req.ImageURL)
	if err != nil {
		var duplicateNameErr catalog.ErrDuplicateProductName
		if errors.As(err, &duplicateNameErr) {
			h.logger.Warn("Attempt to create product with duplicate name", "name", duplicateNameErr.Name)
			RespondConflict(c, "Product with this name already exists")
			return
		}
		h.logger.Error("Failed to create product", "error", err)
		RespondInternalError(c)
		return
	}

	response := mapProductToResponse(p)
	RespondCreated(c, response)
}

// GetByID retrieves a catalog entry by its ID, returning 404 if not found
func (h *ProductHandler) GetByID(c *gin.Context) {
	idParam := c.Param("id")
	id, err := uuid.Parse(idParam)
	if err != nil {
		h.logger.Error("Invalid product ID", "id", idParam, "error", err)
		RespondBadRequest(c, "Invalid product ID")
		return
	}

	p, err := h.productService.GetProductByID(c.Request.Context(), id)
	if err != nil {
		var productNotFound catalog.ErrProductNotFound
		if errors.As(err, &productNotFound) {
			RespondNotFound(c, "Product not found")
			return
		}
		h.logger.Error("Failed to get product", "id", idParam, "error", err)
		RespondInternalError(c)
		return
	}

	response := mapProductToResponse(p)
	RespondOK(c, response)
}

// Update applies a partial update to a catalog entry
func (h *ProductHandler) Update(c *gin.Context) {
	idParam := c.Param("id")
	id, err := uuid.Parse(idParam)
	if err != nil {
		h.logger.Error("Invalid product ID", "id", idParam, "error", err)
		RespondBadRequest(c, "Invalid product ID")
		return
	}

	var req UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	update := catalog.ProductUpdate{
		Category:       req.Category,
		ReferencePrice: req.ReferencePrice,
		ImageURL:       req.ImageURL,
	}
	if req.Status != nil {
		status := catalog.Status(*req.Status)
		update.Status = &status
	}

	p, err := h.productService.UpdateProduct(c.Request.Context(), id, update)
	if err != nil {
		var productNotFound catalog.ErrProductNotFound
		switch {
		case errors.As(err, &productNotFound):
			RespondNotFound(c, "Product not found")
		case errors.Is(err, catalog.ErrInvalidPrice), errors.Is(err, catalog.ErrInvalidStatus):
			RespondBadRequest(c, err.Error())
		default:
			h.logger.Error("Failed to update product", "id", idParam, "error", err)
			RespondInternalError(c)
		}
		return
	}

	response := mapProductToResponse(p)
	RespondOK(c, response)
}

// List retrieves all catalog entries
func (h *ProductHandler) List(c *gin.Context) {
	products, err := h.productService.ListProducts(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list products", "error", err)
		RespondInternalError(c)
		return
	}

	responses := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		responses = append(responses, mapProductToResponse(p))
	}

	RespondOK(c, responses)
}

// mapProductToResponse maps a catalog entry to a product response DTO
func mapProductToResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:             p.ID.String(),
		Name:           p.Name,
		Category:       p.Category,
		Unit:           p.Unit,
		Quantity:       p.Quantity.String(),
		ReferencePrice: p.ReferencePrice,
		ImageURL:       p.ImageURL,
		Status:         string(p.Status),
		CreatedAt:      p.CreatedAt.Format(time.RFC3339),
	}
}

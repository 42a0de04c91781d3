package api_gateway

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bmii/farmer-ledger/internal/api_gateway/handler"
	"github.com/bmii/farmer-ledger/internal/api_gateway/middleware"
)

// setupRouter configures API routes and middleware for the application
func setupRouter(
	logger *slog.Logger,
	r *gin.Engine,
	jwtSecret string,
	farmerHandler *handler.FarmerHandler,
	productHandler *handler.ProductHandler,
	transactionHandler *handler.TransactionHandler,
) {
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CorrelationID())

	// API v1 endpoints, all behind agent authentication
	v1 := r.Group("/api/v1")
	v1.Use(middleware.AgentAuth(jwtSecret))
	{
		// Farmer account operations
		farmers := v1.Group("/farmers")
		{
			farmers.POST("", farmerHandler.Register)
			farmers.GET("", farmerHandler.List)
			farmers.GET("/:id", farmerHandler.GetByID)
			farmers.GET("/:id/transactions", transactionHandler.GetByFarmerID)
		}

		// Product catalog operations
		products := v1.Group("/products")
		{
			products.POST("", productHandler.Create)
			products.GET("", productHandler.List)
			products.GET("/:id", productHandler.GetByID)
			products.PATCH("/:id", productHandler.Update)
		}

		// Transaction operations
		transactions := v1.Group("/transactions")
		{
			transactions.POST("", transactionHandler.Create)
			transactions.GET("/:id", transactionHandler.GetByID)
		}
	}

	// Health check endpoint for monitoring
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC()})
	})
}

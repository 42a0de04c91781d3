package components

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/bmii/farmer-ledger/internal/domain/catalog"
	"github.com/bmii/farmer-ledger/internal/domain/shared"
	"github.com/bmii/farmer-ledger/internal/transaction_processor/service"
)

// CatalogManagerImpl implements the CatalogManager interface
type CatalogManagerImpl struct {
	productRepo catalog.Repository
	logger      *slog.Logger
}

// NewCatalogManager creates a new CatalogManagerImpl
func NewCatalogManager(productRepo catalog.Repository, logger *slog.Logger) service.CatalogManager {
	return &CatalogManagerImpl{
		productRepo: productRepo,
		logger:      logger,
	}
}

// Resolve finds the catalog entry a transaction refers to. References by
// catalog ID must exist. References by unseen name are auto-provisioned
// for deposits only, so that agents in the field can book new commodities
// without a prior catalog step; withdrawals and sales by unseen name
// resolve to nil and rely on the price carried in the request.
func (m *CatalogManagerImpl) Resolve(ctx context.Context, tx pgx.Tx, request *shared.TransactionRequest) (*catalog.Product, error) {
	logger := m.logger
	if request.CorrelationID != "" {
		logger = m.logger.With("correlation_id", request.CorrelationID)
	}

	productRepoTx := m.productRepo.WithTx(tx)

	if request.Product.ByCatalog() {
		product, err := productRepoTx.GetByID(ctx, request.Product.CatalogID)
		if err != nil {
			return nil, err
		}
		return product, nil
	}

	product, err := productRepoTx.FindByName(ctx, request.Product.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve product by name %q: %w", request.Product.Name, err)
	}
	if product != nil {
		return product, nil
	}

	// Unseen name. Only deposits bring new commodities into the catalog;
	// withdrawals and sales consume farmer stock and leave the catalog
	// untouched.
	if request.Kind != shared.TransactionKindDeposit {
		logger.Info("No catalog entry for product", "req_id", request.TransactionID.String(), "kind", string(request.Kind), "product_name", request.Product.Name)
		return nil, nil
	}

	newProduct, err := catalog.NewProduct(request.Product.Name, catalog.DefaultCategory, request.BasePrice)
	if err != nil {
		return nil, err
	}

	provisioned, err := productRepoTx.CreateIfAbsent(ctx, newProduct)
	if err != nil {
		return nil, fmt.Errorf("failed to provision catalog entry for %q: %w", request.Product.Name, err)
	}

	logger.Info("Auto-provisioned catalog entry",
		"req_id", request.TransactionID.String(),
		"product_id", provisioned.ID.String(),
		"product_name", provisioned.Name,
	)
	return provisioned, nil
}

// RecordSale adds the sold quantity to the product's house inventory counter
func (m *CatalogManagerImpl) RecordSale(ctx context.Context, tx pgx.Tx, productID uuid.UUID, qty decimal.Decimal) error {
	productRepoTx := m.productRepo.WithTx(tx)

	if err := productRepoTx.IncreaseStock(ctx, productID, qty); err != nil {
		m.logger.Error("Failed to increase house inventory", "product_id", productID.String(), "quantity_kg", qty, "error", err)
		return fmt.Errorf("failed to increase house inventory for product %s: %w", productID.String(), err)
	}

	return nil
}

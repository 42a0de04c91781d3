package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bmii/farmer-ledger/internal/domain/catalog"
	"github.com/bmii/farmer-ledger/internal/platform/persistence"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

const productColumns = "id, name, category, unit, quantity, reference_price, image_url, status, created_at"

// ProductRepository implements the catalog.Repository interface for PostgreSQL
type ProductRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewProductRepository creates a new PostgreSQL product catalog repository
func NewProductRepository(logger *slog.Logger, db *persistence.PostgresDB) catalog.Repository {
	return &ProductRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx wraps the repository with a transaction
func (r *ProductRepository) WithTx(tx pgx.Tx) catalog.Repository {
	return &ProductRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// Create stores a new catalog entry
func (r *ProductRepository) Create(ctx context.Context, p *catalog.Product) error {
	query := `
		INSERT INTO products (id, name, category, unit, quantity, reference_price, image_url, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.querier.Exec(ctx, query,
		p.ID, p.Name, p.Category, p.Unit, p.Quantity, p.ReferencePrice, p.ImageURL, string(p.Status), p.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return catalog.ErrDuplicateProductName{Name: p.Name}
		}
		r.logger.Error("Failed to create product", "name", p.Name, "error", err)
		return fmt.Errorf("failed to create product: %w", err)
	}

	return nil
}

// GetByID retrieves a catalog entry by its ID
func (r *ProductRepository) GetByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	p, err := r.scanProduct(r.querier.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalog.ErrProductNotFound{ProductID: id}
		}
		r.logger.Error("Failed to get product", "id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return p, nil
}

// FindByName retrieves a catalog entry by name, (nil, nil) when absent
func (r *ProductRepository) FindByName(ctx context.Context, name string) (*catalog.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE name = $1`

	p, err := r.scanProduct(r.querier.QueryRow(ctx, query, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("Failed to find product by name", "name", name, "error", err)
		return nil, fmt.Errorf("failed to find product by name: %w", err)
	}
	return p, nil
}

// CreateIfAbsent inserts the product unless the name is taken, then returns
// the persisted entry. ON CONFLICT DO NOTHING keeps auto-provisioning
// at-most-once per name under concurrent first deposits.
func (r *ProductRepository) CreateIfAbsent(ctx context.Context, p *catalog.Product) (*catalog.Product, error) {
	query := `
		INSERT INTO products (id, name, category, unit, quantity, reference_price, image_url, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (name) DO NOTHING
	`

	_, err := r.querier.Exec(ctx, query,
		p.ID, p.Name, p.Category, p.Unit, p.Quantity, p.ReferencePrice, p.ImageURL, string(p.Status), p.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create product if absent", "name", p.Name, "error", err)
		return nil, fmt.Errorf("failed to create product if absent: %w", err)
	}

	existing, err := r.FindByName(ctx, p.Name)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		// Insert raced with a delete; treat as a storage fault
		return nil, fmt.Errorf("product %q vanished after create-if-absent", p.Name)
	}
	return existing, nil
}

// IncreaseStock adds qty kg to the house inventory counter
func (r *ProductRepository) IncreaseStock(ctx context.Context, id uuid.UUID, qty decimal.Decimal) error {
	query := `UPDATE products SET quantity = quantity + $1 WHERE id = $2`

	result, err := r.querier.Exec(ctx, query, qty, id)
	if err != nil {
		r.logger.Error("Failed to increase product stock", "id", id.String(), "error", err)
		return fmt.Errorf("failed to increase product stock: %w", err)
	}
	if result.RowsAffected() == 0 {
		return catalog.ErrProductNotFound{ProductID: id}
	}

	return nil
}

// List retrieves all catalog entries, newest first
func (r *ProductRepository) List(ctx context.Context) ([]*catalog.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY created_at DESC`

	rows, err := r.querier.Query(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list products", "error", err)
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	var products []*catalog.Product
	for rows.Next() {
		p, err := r.scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// Update rewrites the mutable catalog fields
func (r *ProductRepository) Update(ctx context.Context, p *catalog.Product) error {
	query := `
		UPDATE products
		SET category = $1, unit = $2, quantity = $3, reference_price = $4, image_url = $5, status = $6
		WHERE id = $7
	`

	result, err := r.querier.Exec(ctx, query,
		p.Category, p.Unit, p.Quantity, p.ReferencePrice, p.ImageURL, string(p.Status), p.ID,
	)
	if err != nil {
		r.logger.Error("Failed to update product", "id", p.ID.String(), "error", err)
		return fmt.Errorf("failed to update product: %w", err)
	}
	if result.RowsAffected() == 0 {
		return catalog.ErrProductNotFound{ProductID: p.ID}
	}

	return nil
}

func (r *ProductRepository) scanProduct(row pgx.Row) (*catalog.Product, error) {
	var p catalog.Product
	var status string
	err := row.Scan(
		&p.ID, &p.Name, &p.Category, &p.Unit, &p.Quantity, &p.ReferencePrice, &p.ImageURL, &status, &p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Status = catalog.Status(status)
	return &p, nil
}

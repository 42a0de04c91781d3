// Package postgres provides PostgreSQL implementations of the domain repositories.
// It handles all database operations while maintaining transaction safety and
// proper error handling for the farmer ledger system.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bmii/farmer-ledger/internal/domain/farmer"
	"github.com/bmii/farmer-ledger/internal/domain/shared"
	"github.com/bmii/farmer-ledger/internal/platform/persistence"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// FarmerRepository implements the farmer.Repository interface for PostgreSQL.
// A farmer aggregate spans two tables: the farmers row (identity, balance,
// version) and its ordered stock_batches rows (FIFO order = position).
type FarmerRepository struct {
	querier persistence.Querier // Can be *pgxpool.Pool or pgx.Tx
	logger  *slog.Logger
}

// NewFarmerRepository creates a new PostgreSQL farmer repository.
// It expects db.Pool() to satisfy persistence.Querier.
func NewFarmerRepository(logger *slog.Logger, db *persistence.PostgresDB) farmer.Repository {
	return &FarmerRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx wraps the repository with a transaction, allowing for atomic operations
// across multiple repository calls. The returned repository will use the provided
// transaction for all database operations.
func (r *FarmerRepository) WithTx(tx pgx.Tx) farmer.Repository {
	return &FarmerRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// Create stores a new farmer. Registration starts with zero balance and
// empty stock, so only the farmers row is written.
func (r *FarmerRepository) Create(ctx context.Context, f *farmer.Farmer) error {
	query := `
		INSERT INTO farmers (id, name, national_id, phone, address, agent_id, balance, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.querier.Exec(ctx, query,
		f.ID,
		f.Name,
		f.NationalID,
		f.Phone,
		f.Address,
		f.AgentID,
		f.Balance,
		f.Version,
		f.CreatedAt,
		f.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return farmer.ErrDuplicateNationalID{NationalID: f.NationalID}
		}
		r.logger.Error("Failed to create farmer", "error", err)
		return fmt.Errorf("failed to create farmer: %w", err)
	}

	return nil
}

// GetByID retrieves a farmer with its stock batches
func (r *FarmerRepository) GetByID(ctx context.Context, id uuid.UUID) (*farmer.Farmer, error) {
	query := `
		SELECT id, name, national_id, phone, address, agent_id, balance, version, created_at, updated_at
		FROM farmers
		WHERE id = $1
	`

	f, err := r.scanFarmer(r.querier.QueryRow(ctx, query, id), id)
	if err != nil {
		return nil, err
	}

	if err := r.loadStock(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

// GetByNationalID retrieves a farmer by its BI document number.
// Returns (nil, nil) when no farmer carries the national ID.
func (r *FarmerRepository) GetByNationalID(ctx context.Context, nationalID string) (*farmer.Farmer, error) {
	query := `
		SELECT id, name, national_id, phone, address, agent_id, balance, version, created_at, updated_at
		FROM farmers
		WHERE national_id = $1
	`

	f, err := r.scanFarmer(r.querier.QueryRow(ctx, query, nationalID), uuid.Nil)
	if err != nil {
		if errors.Is(err, farmer.ErrFarmerNotFound{}) {
			return nil, nil
		}
		return nil, err
	}

	if err := r.loadStock(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

// List retrieves farmers, optionally filtered by registering agent,
// newest registrations first. Stock batches are loaded per farmer.
func (r *FarmerRepository) List(ctx context.Context, agentID uuid.UUID) ([]*farmer.Farmer, error) {
	query := `
		SELECT id, name, national_id, phone, address, agent_id, balance, version, created_at, updated_at
		FROM farmers
		WHERE $1::uuid IS NULL OR agent_id = $1
		ORDER BY created_at DESC
	`

	var filter *uuid.UUID
	if agentID != uuid.Nil {
		filter = &agentID
	}

	rows, err := r.querier.Query(ctx, query, filter)
	if err != nil {
		r.logger.Error("Failed to list farmers", "error", err)
		return nil, fmt.Errorf("failed to list farmers: %w", err)
	}
	defer rows.Close()

	var farmers []*farmer.Farmer
	for rows.Next() {
		f, err := r.scanFarmer(rows, uuid.Nil)
		if err != nil {
			return nil, err
		}
		farmers = append(farmers, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list farmers: %w", err)
	}

	for _, f := range farmers {
		if err := r.loadStock(ctx, f); err != nil {
			return nil, err
		}
	}

	return farmers, nil
}

// Update persists balance, version and the full batch list using optimistic
// locking on the farmers row. The batch rows are rewritten so that the
// in-memory FIFO order (including prunes and reductions) is the stored one.
func (r *FarmerRepository) Update(ctx context.Context, f *farmer.Farmer) error {
	query := `
		UPDATE farmers
		SET name = $1, phone = $2, address = $3, balance = $4, version = $5, updated_at = $6
		WHERE id = $7 AND version = $8
	`

	result, err := r.querier.Exec(ctx, query,
		f.Name,
		f.Phone,
		f.Address,
		f.Balance,
		f.Version,
		f.UpdatedAt,
		f.ID,
		f.Version-1, // Check previous version for optimistic locking
	)
	if err != nil {
		r.logger.Error("Failed to update farmer", "id", f.ID.String(), "error", err)
		return fmt.Errorf("failed to update farmer: %w", err)
	}

	if result.RowsAffected() == 0 {
		return farmer.ErrConcurrentModification{FarmerID: f.ID}
	}

	if _, err := r.querier.Exec(ctx, `DELETE FROM stock_batches WHERE farmer_id = $1`, f.ID); err != nil {
		r.logger.Error("Failed to clear stock batches", "id", f.ID.String(), "error", err)
		return fmt.Errorf("failed to clear stock batches: %w", err)
	}

	insert := `
		INSERT INTO stock_batches (farmer_id, position, product_name, quantity, quality, unit_price, entered_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	for i, b := range f.Stock {
		if _, err := r.querier.Exec(ctx, insert,
			f.ID, i, b.ProductName, b.Quantity, string(b.Quality), b.UnitPrice, b.EnteredAt,
		); err != nil {
			r.logger.Error("Failed to insert stock batch", "id", f.ID.String(), "position", i, "error", err)
			return fmt.Errorf("failed to insert stock batch: %w", err)
		}
	}

	return nil
}

// LockForUpdate obtains a pessimistic lock on the farmer row and returns the
// aggregate's current state. This must be used within a transaction; it is
// the per-farmer serialization point for deposit/withdrawal/sale processing.
func (r *FarmerRepository) LockForUpdate(ctx context.Context, id uuid.UUID) (*farmer.Farmer, error) {
	query := `
		SELECT id, name, national_id, phone, address, agent_id, balance, version, created_at, updated_at
		FROM farmers
		WHERE id = $1
		FOR UPDATE
	`

	f, err := r.scanFarmer(r.querier.QueryRow(ctx, query, id), id)
	if err != nil {
		return nil, err
	}

	if err := r.loadStock(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

// scanFarmer scans a farmers row; id is only used for the not-found error
func (r *FarmerRepository) scanFarmer(row pgx.Row, id uuid.UUID) (*farmer.Farmer, error) {
	var f farmer.Farmer
	err := row.Scan(
		&f.ID,
		&f.Name,
		&f.NationalID,
		&f.Phone,
		&f.Address,
		&f.AgentID,
		&f.Balance,
		&f.Version,
		&f.CreatedAt,
		&f.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, farmer.ErrFarmerNotFound{FarmerID: id}
		}
		r.logger.Error("Failed to scan farmer", "error", err)
		return nil, fmt.Errorf("failed to get farmer: %w", err)
	}
	f.Stock = farmer.Stock{}
	return &f, nil
}

// loadStock fills the aggregate's batch list in FIFO (position) order
func (r *FarmerRepository) loadStock(ctx context.Context, f *farmer.Farmer) error {
	query := `
		SELECT product_name, quantity, quality, unit_price, entered_at
		FROM stock_batches
		WHERE farmer_id = $1
		ORDER BY position
	`

	rows, err := r.querier.Query(ctx, query, f.ID)
	if err != nil {
		r.logger.Error("Failed to load stock batches", "id", f.ID.String(), "error", err)
		return fmt.Errorf("failed to load stock batches: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var b farmer.Batch
		var quality string
		if err := rows.Scan(&b.ProductName, &b.Quantity, &quality, &b.UnitPrice, &b.EnteredAt); err != nil {
			return fmt.Errorf("failed to scan stock batch: %w", err)
		}
		b.Quality = shared.Quality(quality)
		f.Stock = append(f.Stock, b)
	}
	return rows.Err()
}

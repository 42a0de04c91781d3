package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/bmii/farmer-ledger/internal/domain/shared"
	"github.com/bmii/farmer-ledger/internal/domain/transaction"
)

const (
	// TransactionCollectionName is the name of the transaction records collection in MongoDB
	TransactionCollectionName = "transaction_records"
)

// TransactionRepository implements the transaction.Repository interface for MongoDB
type TransactionRepository struct {
	db     *mongo.Database
	logger *slog.Logger
}

// NewTransactionRepository creates a new MongoDB transaction record repository
func NewTransactionRepository(logger *slog.Logger, db *mongo.Database) transaction.Repository {
	return &TransactionRepository{
		db:     db,
		logger: logger,
	}
}

// Create stores a new transaction record after checking for duplicates.
// Returns ErrDuplicateRecord if a record with the same transaction ID exists.
func (r *TransactionRepository) Create(ctx context.Context, record *transaction.Record) error {
	collection := r.db.Collection(TransactionCollectionName)

	existingRecord, err := r.GetByTransactionID(ctx, record.TransactionID)
	if err != nil && !errors.Is(err, transaction.ErrRecordNotFound{}) {
		r.logger.Error("Failed to check for existing transaction record",
			"transaction_id", record.TransactionID.String(),
			"error", err)
		return fmt.Errorf("failed to check for existing transaction record: %w", err)
	}

	if existingRecord != nil {
		return transaction.ErrDuplicateRecord{TransactionID: record.TransactionID}
	}

	_, err = collection.InsertOne(ctx, record)
	if err != nil {
		r.logger.Error("Failed to create transaction record",
			"transaction_id", record.TransactionID.String(),
			"error", err)
		return fmt.Errorf("failed to create transaction record: %w", err)
	}

	return nil
}

// GetByTransactionID retrieves a transaction record by its transaction ID.
// Returns ErrRecordNotFound if no record exists for the given transaction.
func (r *TransactionRepository) GetByTransactionID(ctx context.Context, transactionID uuid.UUID) (*transaction.Record, error) {
	collection := r.db.Collection(TransactionCollectionName)

	filter := bson.M{"transaction_id": transactionID}
	var record transaction.Record
	err := collection.FindOne(ctx, filter).Decode(&record)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, transaction.ErrRecordNotFound{TransactionID: transactionID}
		}
		r.logger.Error("Failed to get transaction record",
			"transaction_id", transactionID.String(),
			"error", err)
		return nil, fmt.Errorf("failed to get transaction record: %w", err)
	}

	return &record, nil
}

// GetByIdempotencyKey retrieves a transaction record using its idempotency key.
// Returns nil if no record exists, enabling idempotent transaction processing.
func (r *TransactionRepository) GetByIdempotencyKey(ctx context.Context, idempotencyKey string) (*transaction.Record, error) {
	if idempotencyKey == "" {
		return nil, errors.New("idempotency key cannot be empty")
	}

	collection := r.db.Collection(TransactionCollectionName)

	filter := bson.M{"idempotency_key": idempotencyKey}
	var record transaction.Record
	err := collection.FindOne(ctx, filter).Decode(&record)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil // No record found with this idempotency key
		}
		r.logger.Error("Failed to get transaction record by idempotency key",
			"idempotency_key", idempotencyKey,
			"error", err)
		return nil, fmt.Errorf("failed to get transaction record by idempotency key: %w", err)
	}

	return &record, nil
}

// GetByFarmerID retrieves paginated transaction records for a farmer.
// Results are sorted by creation time in descending order (newest first).
func (r *TransactionRepository) GetByFarmerID(ctx context.Context, farmerID uuid.UUID, limit, offset int) ([]*transaction.Record, error) {
	collection := r.db.Collection(TransactionCollectionName)

	filter := bson.M{"farmer_id": farmerID}
	opts := options.Find().
		SetSort(bson.M{"created_at": -1}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		r.logger.Error("Failed to get transaction records",
			"farmer_id", farmerID.String(),
			"error", err)
		return nil, fmt.Errorf("failed to get transaction records: %w", err)
	}
	defer cursor.Close(ctx)

	var records []*transaction.Record
	if err := cursor.All(ctx, &records); err != nil {
		r.logger.Error("Failed to decode transaction records",
			"farmer_id", farmerID.String(),
			"error", err)
		return nil, fmt.Errorf("failed to decode transaction records: %w", err)
	}

	return records, nil
}

// CountByFarmerID counts the total number of transaction records for a farmer
func (r *TransactionRepository) CountByFarmerID(ctx context.Context, farmerID uuid.UUID) (int64, error) {
	collection := r.db.Collection(TransactionCollectionName)

	filter := bson.M{"farmer_id": farmerID}
	count, err := collection.CountDocuments(ctx, filter)
	if err != nil {
		r.logger.Error("Failed to count transaction records",
			"farmer_id", farmerID.String(),
			"error", err)
		return 0, fmt.Errorf("failed to count transaction records: %w", err)
	}

	return count, nil
}

// UpdateStatus updates the record's status, failure reason, and processed timestamp.
// Returns ErrRecordNotFound if the record doesn't exist.
func (r *TransactionRepository) UpdateStatus(ctx context.Context, transactionID uuid.UUID, status shared.TransactionStatus, reason string) error {
	collection := r.db.Collection(TransactionCollectionName)

	filter := bson.M{"transaction_id": transactionID}
	update := bson.M{
		"$set": bson.M{
			"status":         status,
			"failure_reason": reason,
			"processed_at":   time.Now(),
		},
	}

	result, err := collection.UpdateOne(ctx, filter, update)
	if err != nil {
		r.logger.Error("Failed to update transaction record status",
			"transaction_id", transactionID.String(),
			"status", string(status),
			"error", err)
		return fmt.Errorf("failed to update transaction record status: %w", err)
	}

	if result.MatchedCount == 0 {
		return transaction.ErrRecordNotFound{TransactionID: transactionID}
	}

	return nil
}

// GetByTimeRange retrieves paginated transaction records within the specified time window.
// Results are sorted by creation time in descending order for recent-first access.
func (r *TransactionRepository) GetByTimeRange(ctx context.Context, startTime, endTime time.Time, limit, offset int) ([]*transaction.Record, error) {
	collection := r.db.Collection(TransactionCollectionName)

	filter := bson.M{
		"created_at": bson.M{
			"$gte": startTime,
			"$lte": endTime,
		},
	}
	opts := options.Find().
		SetSort(bson.M{"created_at": -1}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		r.logger.Error("Failed to get transaction records by time range",
			"start_time", startTime,
			"end_time", endTime,
			"error", err)
		return nil, fmt.Errorf("failed to get transaction records by time range: %w", err)
	}
	defer cursor.Close(ctx)

	var records []*transaction.Record
	if err := cursor.All(ctx, &records); err != nil {
		r.logger.Error("Failed to decode transaction records",
			"start_time", startTime,
			"end_time", endTime,
			"error", err)
		return nil, fmt.Errorf("failed to decode transaction records: %w", err)
	}

	return records, nil
}

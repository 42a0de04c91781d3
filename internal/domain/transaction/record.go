package transaction

import (
	"time"

	"github.com/bmii/farmer-ledger/internal/domain/shared"
	"github.com/google/uuid"
)

// Record is an immutable deposit/withdrawal/sale fact in the transaction
// log. Records are appended once and never mutated apart from the status
// transition driven by the outbox poller; they exist for history, audit
// and statement generation.
type Record struct {
	TransactionID   uuid.UUID                `json:"transaction_id" bson:"transaction_id"`
	Kind            shared.TransactionKind   `json:"kind" bson:"kind"`
	FarmerID        uuid.UUID                `json:"farmer_id" bson:"farmer_id"`
	AgentID         uuid.UUID                `json:"agent_id" bson:"agent_id"`
	ProductName     string                   `json:"product_name" bson:"product_name"`
	ProductCategory string                   `json:"product_category,omitempty" bson:"product_category,omitempty"`
	QuantityKg      float64                  `json:"quantity_kg" bson:"quantity_kg"`
	Quality         shared.Quality           `json:"quality,omitempty" bson:"quality,omitempty"`
	BasePrice       int64                    `json:"base_price,omitempty" bson:"base_price,omitempty"`       // cêntimos/kg, deposits
	AppliedPrice    float64                  `json:"applied_price,omitempty" bson:"applied_price,omitempty"` // graded cêntimos/kg, deposits
	UnitPrice       int64                    `json:"unit_price,omitempty" bson:"unit_price,omitempty"`       // cêntimos/kg, withdrawals and sales
	TotalAmount     int64                    `json:"total_amount" bson:"total_amount"`                       // cêntimos credited or debited
	BalanceAfter    int64                    `json:"balance_after,omitempty" bson:"balance_after,omitempty"` // cêntimos
	IdempotencyKey  string                   `json:"idempotency_key,omitempty" bson:"idempotency_key,omitempty"`
	CorrelationID   string                   `json:"correlation_id,omitempty" bson:"correlation_id,omitempty"`
	Status          shared.TransactionStatus `json:"status" bson:"status"`
	FailureReason   string                   `json:"failure_reason,omitempty" bson:"failure_reason,omitempty"`
	CreatedAt       time.Time                `json:"created_at" bson:"created_at"`
	ProcessedAt     *time.Time               `json:"processed_at,omitempty" bson:"processed_at,omitempty"`
}

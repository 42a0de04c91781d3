package shared

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionRequest defines a Kafka message for ledger transaction
// processing. Monetary fields are cêntimos of Kwanza per kg; Quantity is
// kilograms.
type TransactionRequest struct {
	TransactionID uuid.UUID       `json:"transaction_id"`
	FarmerID      uuid.UUID       `json:"farmer_id"`
	AgentID       uuid.UUID       `json:"agent_id"`
	Kind          TransactionKind `json:"kind"`
	Product       ProductRef      `json:"product"`
	Quantity      decimal.Decimal `json:"quantity"`

	// Quality and BasePrice apply to deposits only.
	Quality   Quality `json:"quality,omitempty"`
	BasePrice int64   `json:"base_price,omitempty"`

	// ReferencePrice is the optional buy-back price of a withdrawal.
	ReferencePrice int64 `json:"reference_price,omitempty"`

	// UnitPrice is the negotiated price of a sale.
	UnitPrice int64 `json:"unit_price,omitempty"`

	IdempotencyKey string    `json:"idempotency_key,omitempty"`
	CorrelationID  string    `json:"correlation_id"`
	Timestamp      time.Time `json:"timestamp"`
}

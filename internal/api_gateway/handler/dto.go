package handler

import "github.com/shopspring/decimal"

// RegisterFarmerRequest represents a request to register a new farmer account
type RegisterFarmerRequest struct {
	Name       string `json:"name" binding:"required"`
	NationalID string `json:"national_id" binding:"required"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
}

// BatchResponse represents one stock batch in API responses
type BatchResponse struct {
	ProductName string `json:"product_name"`
	Quantity    string `json:"quantity"`
	Quality     string `json:"quality"`
	UnitPrice   string `json:"unit_price"`
	EnteredAt   string `json:"entered_at"`
}

// FarmerResponse represents a farmer account in API responses
type FarmerResponse struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	NationalID string          `json:"national_id"`
	Phone      string          `json:"phone,omitempty"`
	Address    string          `json:"address,omitempty"`
	AgentID    string          `json:"agent_id"`
	Balance    int64           `json:"balance"`
	Stock      []BatchResponse `json:"stock"`
	CreatedAt  string          `json:"created_at"`
	UpdatedAt  string          `json:"updated_at"`
}

// CreateProductRequest represents a request to create a catalog entry
type CreateProductRequest struct {
	Name           string `json:"name" binding:"required"`
	Category       string `json:"category"`
	ReferencePrice int64  `json:"reference_price" binding:"required,gt=0"`
	ImageURL       string `json:"image_url"`
}

// UpdateProductRequest represents a partial update to a catalog entry.
// Absent fields are left unchanged.
type UpdateProductRequest struct {
	Category       *string `json:"category"`
	ReferencePrice *int64  `json:"reference_price" binding:"omitempty,gt=0"`
	ImageURL       *string `json:"image_url"`
	Status         *string `json:"status" binding:"omitempty,oneof=ACTIVE INACTIVE"`
}

// ProductResponse represents a catalog entry in API responses
type ProductResponse struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Category       string `json:"category"`
	Unit           string `json:"unit"`
	Quantity       string `json:"quantity"`
	ReferencePrice int64  `json:"reference_price"`
	ImageURL       string `json:"image_url,omitempty"`
	Status         string `json:"status"`
	CreatedAt      string `json:"created_at"`
}

// CreateTransactionRequest represents a request to create a new transaction.
// Product is identified by catalog ID or by name; quantity is kilograms and
// prices are cêntimos of Kwanza per kg.
type CreateTransactionRequest struct {
	FarmerID       string          `json:"farmer_id" binding:"required,uuid"`
	Kind           string          `json:"kind" binding:"required,oneof=DEPOSIT WITHDRAWAL SALE"`
	ProductID      string          `json:"product_id,omitempty" binding:"omitempty,uuid"`
	ProductName    string          `json:"product_name,omitempty"`
	Quantity       decimal.Decimal `json:"quantity" binding:"required"`
	Quality        string          `json:"quality,omitempty"`
	BasePrice      int64           `json:"base_price,omitempty"`
	ReferencePrice int64           `json:"reference_price,omitempty"`
	UnitPrice      int64           `json:"unit_price,omitempty"`
	IdempotencyKey string          `json:"idempotency_key,omitempty"`
}

// TransactionResponse represents a transaction record in API responses
type TransactionResponse struct {
	TransactionID   string  `json:"transaction_id"`
	Kind            string  `json:"kind"`
	FarmerID        string  `json:"farmer_id"`
	AgentID         string  `json:"agent_id,omitempty"`
	ProductName     string  `json:"product_name"`
	ProductCategory string  `json:"product_category,omitempty"`
	QuantityKg      float64 `json:"quantity_kg"`
	Quality         string  `json:"quality,omitempty"`
	BasePrice       int64   `json:"base_price,omitempty"`
	AppliedPrice    float64 `json:"applied_price,omitempty"`
	UnitPrice       int64   `json:"unit_price,omitempty"`
	TotalAmount     int64   `json:"total_amount"`
	BalanceAfter    int64   `json:"balance_after,omitempty"`
	Status          string  `json:"status"`
	FailureReason   string  `json:"failure_reason,omitempty"`
	CreatedAt       string  `json:"created_at"`
	ProcessedAt     string  `json:"processed_at,omitempty"`
}

// TransactionListResponse represents a list of transactions in API responses
type TransactionListResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
}

// PaginationParams represents pagination parameters for list endpoints
type PaginationParams struct {
	Page    int `form:"page,default=1" binding:"min=1"`
	PerPage int `form:"per_page,default=10" binding:"min=1,max=100"`
}

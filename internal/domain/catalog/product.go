package catalog

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Common errors
var (
	ErrEmptyProductName = errors.New("product name cannot be empty")
	ErrInvalidPrice     = errors.New("reference price must be positive")
	ErrInvalidStatus    = errors.New("status must be ACTIVE or INACTIVE")
)

// DefaultCategory is assigned to catalog entries auto-provisioned by a
// deposit of a previously unseen commodity
const DefaultCategory = "Grão"

// Status marks whether a product is offered in the storefront
type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusInactive Status = "INACTIVE"
)

// Product is a catalog entry for a named commodity: a reference price in
// cêntimos per kg and the house inventory counter fed by sales.
type Product struct {
	ID             uuid.UUID       `json:"id"`
	Name           string          `json:"name"`
	Category       string          `json:"category"`
	Unit           string          `json:"unit"`
	Quantity       decimal.Decimal `json:"quantity"`        // house stock, kg
	ReferencePrice int64           `json:"reference_price"` // cêntimos per kg
	ImageURL       string          `json:"image_url,omitempty"`
	Status         Status          `json:"status"`
	CreatedAt      time.Time       `json:"created_at"`
}

// NewProduct creates an active catalog entry with zero house stock
func NewProduct(name, category string, referencePrice int64) (*Product, error) {
	if name == "" {
		return nil, ErrEmptyProductName
	}
	if referencePrice <= 0 {
		return nil, ErrInvalidPrice
	}
	if category == "" {
		category = DefaultCategory
	}

	return &Product{
		ID:             uuid.New(),
		Name:           name,
		Category:       category,
		Unit:           "kg",
		Quantity:       decimal.Zero,
		ReferencePrice: referencePrice,
		Status:         StatusActive,
		CreatedAt:      time.Now(),
	}, nil
}

// ProductUpdate carries a partial change to the mutable catalog fields.
// Nil fields are left untouched.
type ProductUpdate struct {
	Category       *string
	ReferencePrice *int64
	ImageURL       *string
	Status         *Status
}

// Apply copies the set fields onto the product, validating each
func (u ProductUpdate) Apply(p *Product) error {
	if u.ReferencePrice != nil {
		if *u.ReferencePrice <= 0 {
			return ErrInvalidPrice
		}
		p.ReferencePrice = *u.ReferencePrice
	}
	if u.Status != nil {
		if *u.Status != StatusActive && *u.Status != StatusInactive {
			return ErrInvalidStatus
		}
		p.Status = *u.Status
	}
	if u.Category != nil && *u.Category != "" {
		p.Category = *u.Category
	}
	if u.ImageURL != nil {
		p.ImageURL = *u.ImageURL
	}
	return nil
}

package farmer

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common errors
var (
	ErrInsufficientBalance = errors.New("insufficient balance to cover the withdrawal debit")
	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrEmptyName           = errors.New("farmer name cannot be empty")
	ErrEmptyNationalID     = errors.New("national ID (BI) cannot be empty")
)

// Farmer represents a registered producer account: a monetary balance in
// cêntimos of Kwanza plus the ordered stock batches held in custody.
// Balance and stock are mutated exclusively by deposit, withdrawal and
// sale transactions.
type Farmer struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	NationalID string    `json:"national_id"` // BI document number
	Phone      string    `json:"phone"`
	Address    string    `json:"address"`
	AgentID    uuid.UUID `json:"agent_id"` // registering agent
	Balance    int64     `json:"balance"`  // cêntimos of Kwanza
	Stock      Stock     `json:"stock"`
	Version    int       `json:"version"` // For optimistic locking
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// NewFarmer creates a farmer account with zero balance and empty stock
func NewFarmer(name, nationalID, phone, address string, agentID uuid.UUID) (*Farmer, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	if nationalID == "" {
		return nil, ErrEmptyNationalID
	}

	return &Farmer{
		ID:         uuid.New(),
		Name:       name,
		NationalID: nationalID,
		Phone:      phone,
		Address:    address,
		AgentID:    agentID,
		Balance:    0,
		Stock:      Stock{},
		Version:    1,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}, nil
}

// Credit adds the specified amount (cêntimos) to the balance
func (f *Farmer) Credit(amount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}

	f.Balance += amount
	f.UpdatedAt = time.Now()
	f.Version++
	return nil
}

// Debit subtracts the specified amount (cêntimos) from the balance.
// The balance never goes negative: goods are bought back against
// previously credited value.
func (f *Farmer) Debit(amount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}

	if f.Balance < amount {
		return ErrInsufficientBalance
	}

	f.Balance -= amount
	f.UpdatedAt = time.Now()
	f.Version++
	return nil
}

// CanDebit checks if the balance covers the given amount
func (f *Farmer) CanDebit(amount int64) bool {
	return f.Balance >= amount
}

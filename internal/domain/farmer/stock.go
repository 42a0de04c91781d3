package farmer

import (
	"time"

	"github.com/bmii/farmer-ledger/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ErrInsufficientStock indicates the requested quantity exceeds the
// summed batches available for the product
type ErrInsufficientStock struct {
	ProductName string
	Requested   decimal.Decimal
	Available   decimal.Decimal
}

func (e ErrInsufficientStock) Error() string {
	return "insufficient stock of " + e.ProductName +
		": requested " + e.Requested.String() + " kg, available " + e.Available.String() + " kg"
}

// Is matches any ErrInsufficientStock regardless of product and quantities
func (e ErrInsufficientStock) Is(target error) bool {
	_, ok := target.(ErrInsufficientStock)
	return ok
}

// ErrInvalidQuantity indicates a non-positive quantity
type ErrInvalidQuantity struct {
	Quantity decimal.Decimal
}

func (e ErrInvalidQuantity) Error() string {
	return "quantity must be positive, got " + e.Quantity.String() + " kg"
}

// Is matches any ErrInvalidQuantity
func (e ErrInvalidQuantity) Is(target error) bool {
	_, ok := target.(ErrInvalidQuantity)
	return ok
}

// Batch is one lot of deposited goods. Batches for the same product name
// coexist with different quality, price and entry time; consumption is
// FIFO by insertion order.
type Batch struct {
	ProductName string          `json:"product_name"`
	Quantity    decimal.Decimal `json:"quantity"` // kg, always > 0 once persisted
	Quality     shared.Quality  `json:"quality"`
	UnitPrice   decimal.Decimal `json:"unit_price"` // cêntimos per kg at acquisition
	EnteredAt   time.Time       `json:"entered_at"`
}

// Stock is the ordered list of batches a farmer holds. Order is
// insertion order and defines FIFO consumption.
type Stock []Batch

// Available sums the batch quantities for the named product
func (s Stock) Available(productName string) decimal.Decimal {
	total := decimal.Zero
	for _, b := range s {
		if b.ProductName == productName {
			total = total.Add(b.Quantity)
		}
	}
	return total
}

// Add appends a new batch to the end of the list
func (s *Stock) Add(b Batch) {
	*s = append(*s, b)
}

// Consume drains quantity kg of the named product in FIFO order.
// Batches are reduced front to back; batches that reach zero are pruned.
// Returns ErrInsufficientStock without mutating anything when the summed
// availability does not cover the request.
func (s *Stock) Consume(productName string, quantity decimal.Decimal) error {
	if quantity.Sign() <= 0 {
		return ErrInvalidQuantity{Quantity: quantity}
	}

	available := s.Available(productName)
	if available.LessThan(quantity) {
		return ErrInsufficientStock{
			ProductName: productName,
			Requested:   quantity,
			Available:   available,
		}
	}

	remaining := quantity
	kept := (*s)[:0]
	for _, b := range *s {
		if remaining.Sign() > 0 && b.ProductName == productName {
			if b.Quantity.GreaterThan(remaining) {
				b.Quantity = b.Quantity.Sub(remaining)
				remaining = decimal.Zero
			} else {
				remaining = remaining.Sub(b.Quantity)
				continue // batch fully consumed, prune it
			}
		}
		kept = append(kept, b)
	}
	*s = kept

	return nil
}

package shared

import (
	"errors"

	"github.com/shopspring/decimal"
)

// ErrInvalidQuality indicates a quality grade outside A/B/C
var ErrInvalidQuality = errors.New("quality grade must be A, B or C")

// Quality is the grade assigned to deposited goods. The grade discounts
// the base price: A pays 100%, B 90%, C 80%.
type Quality string

const (
	QualityA Quality = "A"
	QualityB Quality = "B"
	QualityC Quality = "C"
)

var qualityMultipliers = map[Quality]decimal.Decimal{
	QualityA: decimal.RequireFromString("1.00"),
	QualityB: decimal.RequireFromString("0.90"),
	QualityC: decimal.RequireFromString("0.80"),
}

// ParseQuality validates and converts a raw grade string
func ParseQuality(raw string) (Quality, error) {
	q := Quality(raw)
	if _, ok := qualityMultipliers[q]; !ok {
		return "", ErrInvalidQuality
	}
	return q, nil
}

// Multiplier returns the price discount factor for the grade.
// Unknown grades fall back to 1.00 so callers must validate first.
func (q Quality) Multiplier() decimal.Decimal {
	if m, ok := qualityMultipliers[q]; ok {
		return m
	}
	return qualityMultipliers[QualityA]
}

// ApplyQualityPrice computes the graded unit price from a base price in
// cêntimos per kg, keeping full precision. Rounding happens only when a
// total is credited or debited against a balance.
func ApplyQualityPrice(basePriceCents int64, q Quality) decimal.Decimal {
	return decimal.NewFromInt(basePriceCents).Mul(q.Multiplier())
}

// RoundCents rounds a monetary amount (cêntimos) half away from zero to
// the nearest whole cêntimo.
func RoundCents(amount decimal.Decimal) int64 {
	return amount.Round(0).IntPart()
}

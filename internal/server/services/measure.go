package services

import (
	"fmt"
	"math"

	"github.com/dmitrijs2005/fittrack/internal/common"
)

// Largest values the NUMERIC(12, 2) goal and activity columns and the
// NUMERIC(6, 2) profile columns can hold.
const (
	MaxMeasurement     = 9_999_999_999.99
	MaxBodyMeasurement = 9_999.99
)

// roundCents rounds v to the two decimals the database keeps.
func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

// checkPositive rejects v unless it stays above zero once rounded to cents
// and fits under limit.
func checkPositive(field string, v, limit float64) error {
	r := roundCents(v)
	switch {
	case math.IsNaN(v) || r <= 0:
		return fmt.Errorf("%w: %s must be at least 0.01", common.ErrValidation, field)
	case r > limit:
		return fmt.Errorf("%w: %s must not exceed %.2f", common.ErrValidation, field, limit)
	}
	return nil
}

func checkNonNegative(field string, v, limit float64) error {
	switch {
	case math.IsNaN(v) || v < 0:
		return fmt.Errorf("%w: %s must not be negative", common.ErrValidation, field)
	case roundCents(v) > limit:
		return fmt.Errorf("%w: %s must not exceed %.2f", common.ErrValidation, field, limit)
	}
	return nil
}

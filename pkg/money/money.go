// Package money converts catalog prices (major units, at most two decimals)
// into the integer minor units payment providers charge in.
package money

import (
	"errors"
	"fmt"
	"math"
)

var ErrInvalidAmount = errors.New("invalid amount")

// MinorUnits returns round(price*100). The price must be positive, finite
// and carry no more than two decimal places.
func MinorUnits(price float64) (int64, error) {
	if math.IsNaN(price) || math.IsInf(price, 0) || price <= 0 {
		return 0, fmt.Errorf("%w: price must be greater than zero", ErrInvalidAmount)
	}
	scaled := price * 100
	cents := math.Round(scaled)
	if math.Abs(scaled-cents) > 1e-6 {
		return 0, fmt.Errorf("%w: price %v has more than two decimals", ErrInvalidAmount, price)
	}
	if cents > math.MaxInt64/2 {
		return 0, fmt.Errorf("%w: price %v is too large", ErrInvalidAmount, price)
	}
	return int64(cents), nil
}

// ValidPrice reports whether price can be charged.
func ValidPrice(price float64) error {
	_, err := MinorUnits(price)
	return err
}

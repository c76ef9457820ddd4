// Package mathutil provides decimal currency helpers.
package mathutil

import (
	"github.com/iwvelando/loan-engine/pkg/constants"
	"github.com/shopspring/decimal"
)

// Tolerance is one cent, the smallest amount the engine bills.
var Tolerance = decimal.RequireFromString(constants.CurrencyTolerance)

// Round rounds a value to two decimals, i.e. to represent real currency.
// Halves round away from zero, so positive amounts round half up.
func Round(val decimal.Decimal) decimal.Decimal {
	return val.Round(constants.CurrencyPlaces)
}

// FromFloat converts a configuration or flag float into a decimal using the
// shortest representation of the float, so 0.1 becomes exactly 0.1.
func FromFloat(val float64) decimal.Decimal {
	return decimal.NewFromFloat(val)
}

// BelowCent reports whether the magnitude of val is strictly less than one cent.
func BelowCent(val decimal.Decimal) bool {
	return val.Abs().LessThan(Tolerance)
}

// WithinTolerance checks if two values are within a specified tolerance
func WithinTolerance(val1, val2, tolerance decimal.Decimal) bool {
	return val1.Sub(val2).Abs().LessThanOrEqual(tolerance)
}

// Max returns the larger of two values
func Max(a, b decimal.Decimal) decimal.Decimal {
	if a.GreaterThan(b) {
		return a
	}
	return b
}

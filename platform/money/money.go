// Package money renders stored floating point amounts for humans.
// Stored values are never rounded; only their presentation is.
package money

import "github.com/shopspring/decimal"

// Format renders amount rounded half away from zero to two decimals.
func Format(amount float64) string {
	return decimal.NewFromFloat(amount).StringFixed(2)
}

// Percent renders a percentage with up to two decimals and a trailing sign.
func Percent(p float64) string {
	return decimal.NewFromFloat(p).Round(2).String() + "%"
}

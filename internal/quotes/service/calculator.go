package service

import (
	"fmt"
	"math"

	"quote_order_backend/platform/apperr"
)

// LineInput is the priced part of a line item.
type LineInput struct {
	UnitPrice float64
	Quantity  int
}

// Totals is the outcome of pricing a set of lines.
// Lines[i] is the line total of the i-th input.
type Totals struct {
	Lines          []float64
	Subtotal       float64
	DiscountAmount float64
	Total          float64
}

// CalculateQuote prices line items and applies a percentage discount to the
// subtotal. Arithmetic is plain float64 with no rounding; an empty list
// yields zero totals.
func CalculateQuote(items []LineInput, discountPercent float64) (Totals, error) {
	totals := Totals{Lines: make([]float64, 0, len(items))}

	for i, item := range items {
		if err := validateLine(i, item); err != nil {
			return Totals{}, err
		}
		line := item.UnitPrice * float64(item.Quantity)
		totals.Lines = append(totals.Lines, line)
		totals.Subtotal += line
	}

	discountAmount, total, err := ApplyDiscount(totals.Subtotal, discountPercent)
	if err != nil {
		return Totals{}, err
	}
	totals.DiscountAmount = discountAmount
	totals.Total = total
	return totals, nil
}

// ApplyDiscount derives discount_amount and total from a subtotal.
func ApplyDiscount(subtotal, discountPercent float64) (float64, float64, error) {
	if !isFinite(discountPercent) || discountPercent < 0 || discountPercent > 100 {
		return 0, 0, apperr.Validation("discount_percent must be between 0 and 100")
	}
	discountAmount := subtotal * discountPercent / 100
	return discountAmount, subtotal - discountAmount, nil
}

func validateLine(index int, item LineInput) error {
	if item.Quantity < 1 {
		return apperr.Validation(fmt.Sprintf("items[%d]: quantity must be at least 1", index))
	}
	if !isFinite(item.UnitPrice) || item.UnitPrice < 0 {
		return apperr.Validation(fmt.Sprintf("items[%d]: unit_price must be a non-negative number", index))
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Package shared holds the pure pricing arithmetic used across the CRM.
package shared

import (
	"math"
	"strconv"
	"strings"
)

// Totals is the derived money snapshot of a quote. It is never stored as a
// source of truth; it is recomputed from line items on every relevant change.
type Totals struct {
	Subtotal   float64 `json:"subtotal"`
	TaxAmount  float64 `json:"taxAmount"`
	GrandTotal float64 `json:"grandTotal"`
}

// Round2 rounds to 2 decimal places, half away from zero.
func Round2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return math.Round(v*100) / 100
}

// Amount coerces an invalid numeric input to 0.
func Amount(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// ParseAmount parses a form value as a float, falling back to 0.
func ParseAmount(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return Amount(f)
}

// LineTotal derives a line's total from quantity and unit price.
func LineTotal(quantity, unitPrice float64) float64 {
	return Round2(Amount(quantity) * Amount(unitPrice))
}

// CalculateTotals maps line totals, a tax percent and a discount amount to
// the quote's totals snapshot. The line totals are trusted as supplied.
// Pure: identical inputs always yield identical outputs, and nothing ever
// fails; the grand total may go negative when the discount exceeds
// subtotal plus tax.
func CalculateTotals(lineTotals []float64, taxPercent, discounts float64) Totals {
	var sum float64
	for _, lt := range lineTotals {
		sum += Amount(lt)
	}
	subtotal := Round2(sum)
	taxAmount := Round2(sum * Amount(taxPercent) / 100)
	return Totals{
		Subtotal:   subtotal,
		TaxAmount:  taxAmount,
		GrandTotal: Round2(subtotal + taxAmount - Amount(discounts)),
	}
}

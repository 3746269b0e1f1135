package model

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

type Summary struct {
	Subtotal   decimal.Decimal
	TaxPercent decimal.Decimal
	TaxAmount  decimal.Decimal
	GrandTotal decimal.Decimal
}

// NewSummary clamps negative inputs to zero and always derives GrandTotal as
// Subtotal + TaxAmount.
func NewSummary(subtotal, taxPercent, taxAmount decimal.Decimal) Summary {
	subtotal = nonNegative(subtotal)
	taxPercent = nonNegative(taxPercent)
	taxAmount = nonNegative(taxAmount)
	return Summary{
		Subtotal:   subtotal,
		TaxPercent: taxPercent,
		TaxAmount:  taxAmount,
		GrandTotal: subtotal.Add(taxAmount),
	}
}

func TaxFor(subtotal, percent decimal.Decimal) decimal.Decimal {
	return subtotal.Mul(percent).Div(hundred).Round(2)
}

func nonNegative(value decimal.Decimal) decimal.Decimal {
	if value.IsNegative() {
		return decimal.Zero
	}
	return value
}

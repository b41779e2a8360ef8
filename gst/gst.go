// Package gst computes line amounts, the domestic GST split and document
// totals. All arithmetic is exact decimal; rounding happens only for display.
package gst

import (
	"strings"

	"github.com/shopspring/decimal"

	"cableerp/models"
)

var (
	// DefaultRate is applied when a line arrives without a GST rate.
	DefaultRate = decimal.NewFromInt(18)

	hundred = decimal.NewFromInt(100)
	two     = decimal.NewFromInt(2)
)

// RateOrDefault returns *r, or DefaultRate when r is nil.
func RateOrDefault(r *decimal.Decimal) decimal.Decimal {
	if r == nil {
		return DefaultRate
	}
	return *r
}

// Percent returns base*rate/100.
func Percent(base, rate decimal.Decimal) decimal.Decimal {
	return base.Mul(rate).Div(hundred)
}

// ItemAmounts is the plain order computation: amount = quantity*rate and
// gstAmount = amount*gstRate/100.
func ItemAmounts(quantity, rate, gstRate decimal.Decimal) (amount, gstAmount decimal.Decimal) {
	amount = quantity.Mul(rate)
	return amount, Percent(amount, gstRate)
}

// Split is the jurisdiction-aware breakdown of one invoice line.
type Split struct {
	TotalValue   decimal.Decimal
	TaxableValue decimal.Decimal
	CGSTRate     decimal.Decimal
	CGSTAmount   decimal.Decimal
	SGSTRate     decimal.Decimal
	SGSTAmount   decimal.Decimal
	IGSTRate     decimal.Decimal
	IGSTAmount   decimal.Decimal
}

// Tax is CGST+SGST+IGST.
func (s Split) Tax() decimal.Decimal {
	return s.CGSTAmount.Add(s.SGSTAmount).Add(s.IGSTAmount)
}

// Line splits a line's tax into CGST+SGST (withinHomeState) or IGST.
func Line(quantity, rate, discount, gstRate decimal.Decimal, withinHomeState bool) Split {
	s := Split{TotalValue: quantity.Mul(rate)}
	s.TaxableValue = s.TotalValue.Sub(discount)
	if withinHomeState {
		half := gstRate.Div(two)
		s.CGSTRate, s.SGSTRate = half, half
		s.CGSTAmount = Percent(s.TaxableValue, half)
		s.SGSTAmount = Percent(s.TaxableValue, half)
	} else {
		s.IGSTRate = gstRate
		s.IGSTAmount = Percent(s.TaxableValue, gstRate)
	}
	return s
}

// ApplyToInvoiceItem recomputes every derived field of it from its raw
// quantity, rate, discount and gstRate.
func ApplyToInvoiceItem(it *models.InvoiceItem, withinHomeState bool) {
	s := Line(it.Quantity, it.Rate, it.Discount, it.GSTRate, withinHomeState)
	it.TotalValue = s.TotalValue
	it.TaxableValue = s.TaxableValue
	it.CGSTRate, it.CGSTAmount = s.CGSTRate, s.CGSTAmount
	it.SGSTRate, it.SGSTAmount = s.SGSTRate, s.SGSTAmount
	it.IGSTRate, it.IGSTAmount = s.IGSTRate, s.IGSTAmount
}

type Totals struct {
	Subtotal    decimal.Decimal
	TotalGST    decimal.Decimal
	TotalAmount decimal.Decimal
}

// OrderTotals sums item amount and gstAmount. Unset values count as zero.
func OrderTotals(items []models.LineItem) Totals {
	var t Totals
	for _, it := range items {
		if it.Amount.Valid {
			t.Subtotal = t.Subtotal.Add(it.Amount.Decimal)
		}
		if it.GSTAmount.Valid {
			t.TotalGST = t.TotalGST.Add(it.GSTAmount.Decimal)
		}
	}
	t.TotalAmount = t.Subtotal.Add(t.TotalGST)
	return t
}

// InvoiceTotals sums taxableValue and the tax split over all lines.
func InvoiceTotals(items []models.InvoiceItem) Totals {
	var t Totals
	for _, it := range items {
		t.Subtotal = t.Subtotal.Add(it.TaxableValue)
		t.TotalGST = t.TotalGST.Add(it.TaxAmount())
	}
	t.TotalAmount = t.Subtotal.Add(t.TotalGST)
	return t
}

// Outstanding is max(0, total-paid).
func Outstanding(total, paid decimal.Decimal) decimal.Decimal {
	return decimal.Max(decimal.Zero, total.Sub(paid))
}

// PaymentStatusOf derives the payment state from total and paid.
func PaymentStatusOf(total, paid decimal.Decimal) models.PaymentStatus {
	switch {
	case total.IsPositive() && paid.GreaterThanOrEqual(total):
		return models.PaymentPaid
	case paid.IsPositive() && paid.LessThan(total):
		return models.PaymentPartial
	default:
		return models.PaymentPending
	}
}

// WithinHomeState reports whether a billing state names Maharashtra.
func WithinHomeState(state string) bool {
	s := strings.ToLower(strings.TrimSpace(state))
	return strings.Contains(s, "maharashtra") || s == "mh"
}

// Round2 rounds for display.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

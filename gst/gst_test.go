package gst

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"cableerp/models"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestLineSplit(t *testing.T) {
	tests := []struct {
		name             string
		within           bool
		cgst, sgst, igst string
	}{
		{"intra-state", true, "90", "90", "0"},
		{"inter-state", false, "0", "0", "180"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Line(d("10"), d("100"), decimal.Zero, d("18"), tt.within)
			assert.True(t, s.TaxableValue.Equal(d("1000")))
			assert.True(t, s.CGSTAmount.Equal(d(tt.cgst)), "cgst %s", s.CGSTAmount)
			assert.True(t, s.SGSTAmount.Equal(d(tt.sgst)), "sgst %s", s.SGSTAmount)
			assert.True(t, s.IGSTAmount.Equal(d(tt.igst)), "igst %s", s.IGSTAmount)
			assert.True(t, s.Tax().Equal(d("180")))
		})
	}
}

func TestLineDiscountReducesTaxableValue(t *testing.T) {
	s := Line(d("4"), d("250"), d("100"), d("12"), true)
	assert.True(t, s.TotalValue.Equal(d("1000")))
	assert.True(t, s.TaxableValue.Equal(d("900")))
	assert.True(t, s.CGSTRate.Equal(d("6")))
	assert.True(t, s.CGSTAmount.Equal(d("54")))
}

func TestOrderTotalsExact(t *testing.T) {
	items := make([]models.LineItem, 0, 100)
	for i := 0; i < 100; i++ {
		amt, tax := ItemAmounts(d("3"), d("0.1"), DefaultRate)
		items = append(items, models.LineItem{
			Amount:    decimal.NewNullDecimal(amt),
			GSTAmount: decimal.NewNullDecimal(tax),
		})
	}
	tot := OrderTotals(items)
	assert.True(t, tot.Subtotal.Equal(d("30")), tot.Subtotal.String())
	assert.True(t, tot.TotalGST.Equal(d("5.4")), tot.TotalGST.String())
	assert.True(t, tot.TotalAmount.Equal(d("35.4")), tot.TotalAmount.String())
}

func TestPaymentStatusOf(t *testing.T) {
	tests := []struct {
		total, paid string
		want        models.PaymentStatus
	}{
		{"100", "0", models.PaymentPending},
		{"100", "40", models.PaymentPartial},
		{"100", "100", models.PaymentPaid},
		{"100", "120", models.PaymentPaid},
		{"0", "0", models.PaymentPending},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, PaymentStatusOf(d(tt.total), d(tt.paid)), "%s/%s", tt.total, tt.paid)
	}
}

func TestOutstandingFloorsAtZero(t *testing.T) {
	assert.True(t, Outstanding(d("100"), d("30")).Equal(d("70")))
	assert.True(t, Outstanding(d("100"), d("130")).IsZero())
}

func TestWithinHomeState(t *testing.T) {
	assert.True(t, WithinHomeState("Maharashtra"))
	assert.True(t, WithinHomeState(" MH "))
	assert.True(t, WithinHomeState("maharashtra state"))
	assert.False(t, WithinHomeState("Gujarat"))
	assert.False(t, WithinHomeState("mhow"))
	assert.False(t, WithinHomeState(""))
}

func TestRateOrDefault(t *testing.T) {
	zero := decimal.Zero
	assert.True(t, RateOrDefault(nil).Equal(d("18")))
	assert.True(t, RateOrDefault(&zero).IsZero())
}

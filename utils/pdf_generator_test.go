package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cableerp/models"
)

func TestRenderInvoiceHTML(t *testing.T) {
	inv := &models.Invoice{
		ID:                    "inv1",
		InvoiceNumber:         "INV202604010001",
		InvoiceDate:           time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		SaleWithinMaharashtra: true,
		BilledTo:              models.BilledTo{Name: "Acme <Cables>"},
		Items: []models.InvoiceItem{{
			Description: "3 core cable", UOM: "METER",
			Quantity: decimal.NewFromInt(10), Rate: decimal.NewFromInt(100),
			TotalValue: decimal.NewFromInt(1000), TaxableValue: decimal.NewFromInt(1000),
			CGSTRate: decimal.NewFromInt(9), CGSTAmount: decimal.NewFromInt(90),
			SGSTRate: decimal.NewFromInt(9), SGSTAmount: decimal.NewFromInt(90),
		}},
		Subtotal: decimal.NewFromInt(1000), TotalGST: decimal.NewFromInt(180), TotalAmount: decimal.NewFromInt(1180),
	}
	company := &models.CompanyProfile{CompanyName: "Shree Cables", Mobile: []models.MobileEntry{{Number: "9800000000", Label: "Office"}}}

	data := NewInvoicePDFData(company, inv)
	assert.Equal(t, "9800000000(Office)", data.Contacts)
	assert.Equal(t, "01-Apr-2026", data.Date)

	html, err := RenderInvoiceHTML(data)
	require.NoError(t, err)
	assert.Equal(t, 3, strings.Count(html, "class='invoice-copy'"))
	assert.Contains(t, html, "Triplicate for Supplier")
	assert.Contains(t, html, "1180.00")
	assert.Contains(t, html, "One Thousand One Hundred Eighty Rupees Only")
	assert.Contains(t, html, "Acme &lt;Cables&gt;")
	assert.Contains(t, html, "<th>CGST</th>")
	assert.NotContains(t, html, "<th>IGST</th>")
}

func TestRenderInvoiceHTMLNeedsInvoice(t *testing.T) {
	_, err := RenderInvoiceHTML(models.InvoicePDFData{})
	assert.Error(t, err)
}

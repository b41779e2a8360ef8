package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"cableerp/gst"
	"cableerp/models"
	"cableerp/repository"
)

// Synchronizer keeps a sales order and its latest invoice in step. The
// invoice lines are the order's delivered lines; edits made on the invoice
// flow back into those lines.
type Synchronizer struct {
	Orders   repository.OrderRepository
	Invoices repository.InvoiceRepository
	Ledger   *BalanceLedger
	Now      func() time.Time
	Log      zerolog.Logger
}

// OrderToInvoice rebuilds the latest invoice of o from its delivered items.
// It returns nil when the order has no invoice and writes nothing when the
// invoice already matches.
func (s *Synchronizer) OrderToInvoice(ctx context.Context, o *models.Order) (*models.Invoice, error) {
	inv, err := s.Invoices.LatestInvoiceForOrder(ctx, o.ID)
	if err != nil {
		return nil, fmt.Errorf("load invoice of %s: %w", o.OrderNumber, err)
	}
	if inv == nil {
		return nil, nil
	}

	items := projectDelivered(o, inv.SaleWithinMaharashtra)
	t := gst.InvoiceTotals(items)
	if invoiceItemsEqual(inv.Items, items) && inv.Subtotal.Equal(t.Subtotal) &&
		inv.TotalGST.Equal(t.TotalGST) && inv.TotalAmount.Equal(t.TotalAmount) {
		return inv, nil
	}

	inv.Items = items
	inv.Subtotal, inv.TotalGST, inv.TotalAmount = t.Subtotal, t.TotalGST, t.TotalAmount
	inv.UpdatedAt = s.Now()
	if err := s.Invoices.UpdateInvoice(ctx, inv); err != nil {
		return nil, fmt.Errorf("update invoice %s: %w", inv.InvoiceNumber, err)
	}
	s.Log.Debug().Str("invoice", inv.InvoiceNumber).Str("order", o.OrderNumber).
		Int("lines", len(items)).Msg("invoice synced from order")
	return inv, nil
}

// InvoiceToOrder copies the invoice's figures onto the order's delivered
// lines, back-fills unset amounts on the rest and moves the customer balance
// by the change in outstanding. An invoice whose order is gone is logged and
// otherwise ignored.
func (s *Synchronizer) InvoiceToOrder(ctx context.Context, inv *models.Invoice) (*models.Order, error) {
	o, err := s.Orders.GetOrder(ctx, models.SalesOrderKind, inv.SalesOrder)
	if err != nil {
		return nil, fmt.Errorf("load order of invoice %s: %w", inv.InvoiceNumber, err)
	}
	if o == nil {
		s.Log.Warn().Err(ErrConsistency).Str("invoice", inv.InvoiceNumber).
			Str("sales_order", inv.SalesOrder).Msg("invoice references a missing sales order")
		return nil, nil
	}
	before := o.Clone()

	lines := make(map[string]models.InvoiceItem, len(inv.Items))
	for _, line := range inv.Items {
		if line.SOItemID != "" {
			lines[line.SOItemID] = line
		}
	}

	for i := range o.Items {
		it := &o.Items[i]
		line, ok := lines[it.ID]
		if !ok || !it.IsDelivered {
			backfillAmounts(it)
			continue
		}
		it.Rate = line.Rate
		it.Quantity = line.Quantity
		it.GSTRate = line.GSTRate
		it.DeliveredQuantity = line.Quantity
		it.Amount = decimal.NewNullDecimal(line.TaxableValue)
		it.GSTAmount = decimal.NewNullDecimal(line.TaxAmount())
	}
	recomputeOrder(o)

	if ledgerEqual(before, o) {
		return o, nil
	}
	o.UpdatedAt = s.Now()
	if err := s.Orders.UpdateOrder(ctx, o); err != nil {
		return nil, fmt.Errorf("update sales order %s: %w", o.OrderNumber, err)
	}
	s.Log.Debug().Str("invoice", inv.InvoiceNumber).Str("order", o.OrderNumber).Msg("order synced from invoice")

	delta := o.OutstandingAmount.Sub(before.OutstandingAmount)
	if _, err := s.Ledger.Apply(ctx, models.PartyCustomer, o.PartyID, delta); err != nil {
		return o, err
	}
	return o, nil
}

// backfillAmounts fills amount and gstAmount only where they are unset. A
// stored zero is a value and stays.
func backfillAmounts(it *models.LineItem) {
	amount, tax := gst.ItemAmounts(it.Quantity, it.Rate, it.GSTRate)
	if !it.Amount.Valid {
		it.Amount = decimal.NewNullDecimal(amount)
	}
	if !it.GSTAmount.Valid {
		it.GSTAmount = decimal.NewNullDecimal(tax)
	}
}

// projectDelivered returns one invoice line per delivered order item, in
// order item order.
func projectDelivered(o *models.Order, within bool) []models.InvoiceItem {
	out := make([]models.InvoiceItem, 0, len(o.Items))
	for _, it := range o.Items {
		if !it.IsDelivered {
			continue
		}
		out = append(out, invoiceLine(it, within))
	}
	return out
}

// invoiceLine builds the invoice line for a delivered item. The discount is
// whatever the stored amount sits below quantity*rate, so the line's taxable
// value always equals the order amount.
func invoiceLine(it models.LineItem, within bool) models.InvoiceItem {
	line := models.InvoiceItem{
		SOItemID:    it.ID,
		Description: it.Description,
		HSNCode:     it.HSNCode,
		UOM:         uomFor(it.Unit),
		Quantity:    it.Quantity,
		Rate:        it.Rate,
		GSTRate:     it.GSTRate,
	}
	line.Discount = lineDiscount(it)
	gst.ApplyToInvoiceItem(&line, within)
	return line
}

func lineDiscount(it models.LineItem) decimal.Decimal {
	if !it.Amount.Valid {
		return decimal.Zero
	}
	value := it.Quantity.Mul(it.Rate)
	discount := value.Sub(it.Amount.Decimal)
	switch {
	case discount.IsNegative():
		return decimal.Zero
	case discount.GreaterThan(value):
		return value
	}
	return discount
}

func uomFor(unit string) string {
	u := strings.TrimSpace(unit)
	switch {
	case u == "":
		return "METER"
	case strings.EqualFold(u, "mtr"):
		return "METER"
	default:
		return strings.ToUpper(u)
	}
}

func invoiceItemsEqual(a, b []models.InvoiceItem) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		x, y := a[i], b[i]
		if x.SOItemID != y.SOItemID || x.Description != y.Description || x.HSNCode != y.HSNCode || x.UOM != y.UOM {
			return false
		}
		for _, pair := range [][2]decimal.Decimal{
			{x.Quantity, y.Quantity}, {x.Rate, y.Rate}, {x.TotalValue, y.TotalValue},
			{x.Discount, y.Discount}, {x.TaxableValue, y.TaxableValue}, {x.GSTRate, y.GSTRate},
			{x.CGSTRate, y.CGSTRate}, {x.CGSTAmount, y.CGSTAmount},
			{x.SGSTRate, y.SGSTRate}, {x.SGSTAmount, y.SGSTAmount},
			{x.IGSTRate, y.IGSTRate}, {x.IGSTAmount, y.IGSTAmount},
		} {
			if !pair[0].Equal(pair[1]) {
				return false
			}
		}
	}
	return true
}

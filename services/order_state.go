package services

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"cableerp/gst"
	"cableerp/models"
)

// ItemInput is one submitted order line. ID is set when editing an existing line.
type ItemInput struct {
	ID          string           `json:"_id"`
	Description string           `json:"description"`
	HSNCode     string           `json:"hsnCode"`
	Quantity    decimal.Decimal  `json:"quantity"`
	Unit        string           `json:"unit"`
	Rate        decimal.Decimal  `json:"rate"`
	GSTRate     *decimal.Decimal `json:"gstRate"`
}

func (in ItemInput) check(i int) error {
	field := func(name string) string { return "items[" + strconv.Itoa(i) + "]." + name }
	if strings.TrimSpace(in.Description) == "" {
		return invalid(field("description"), "is required")
	}
	if err := requireNonNegative(field("quantity"), in.Quantity); err != nil {
		return err
	}
	if err := requireNonNegative(field("rate"), in.Rate); err != nil {
		return err
	}
	if in.GSTRate != nil && (in.GSTRate.IsNegative() || in.GSTRate.GreaterThan(decimal.NewFromInt(100))) {
		return invalid(field("gstRate"), "must be between 0 and 100")
	}
	return nil
}

func checkItems(inputs []ItemInput) error {
	if len(inputs) == 0 {
		return invalid("items", "at least one item is required")
	}
	for i, in := range inputs {
		if err := in.check(i); err != nil {
			return err
		}
	}
	return nil
}

// buildItems turns inputs into stored lines. Inputs whose ID matches a line in
// existing keep that identity and its delivery state; the rest are new and
// undelivered.
func buildItems(kind models.OrderKind, inputs []ItemInput, existing []models.LineItem) []models.LineItem {
	prev := make(map[string]models.LineItem, len(existing))
	for _, it := range existing {
		prev[it.ID] = it
	}

	used := map[string]bool{}
	out := make([]models.LineItem, 0, len(inputs))
	for _, in := range inputs {
		it := models.LineItem{
			Description: strings.TrimSpace(in.Description),
			HSNCode:     strings.TrimSpace(in.HSNCode),
			Quantity:    in.Quantity,
			Unit:        strings.TrimSpace(in.Unit),
			Rate:        in.Rate,
			GSTRate:     gst.RateOrDefault(in.GSTRate),
		}
		applyItemDefaults(kind, &it)

		if old, ok := prev[in.ID]; ok && in.ID != "" && !used[in.ID] {
			it.ID = old.ID
			it.IsDelivered = old.IsDelivered
			it.DeliveredDate = old.DeliveredDate
			if it.IsDelivered {
				it.DeliveredQuantity = it.Quantity
			}
		} else {
			it.ID = models.NewID()
		}
		used[it.ID] = true

		amount, tax := gst.ItemAmounts(it.Quantity, it.Rate, it.GSTRate)
		it.Amount = decimal.NewNullDecimal(amount)
		it.GSTAmount = decimal.NewNullDecimal(tax)
		out = append(out, it)
	}
	return out
}

func applyItemDefaults(kind models.OrderKind, it *models.LineItem) {
	if kind == models.PurchaseOrderKind {
		if it.Unit == "" {
			it.Unit = "Kg"
		}
		return
	}
	if it.HSNCode == "" {
		it.HSNCode = "8544"
	}
	if it.Unit == "" {
		it.Unit = "Mtr"
	}
}

// recomputeOrder re-derives every computed field from items and paidAmount.
func recomputeOrder(o *models.Order) {
	t := gst.OrderTotals(o.Items)
	o.Subtotal = t.Subtotal
	o.TotalGST = t.TotalGST
	o.TotalAmount = t.TotalAmount
	o.OutstandingAmount = gst.Outstanding(o.TotalAmount, o.PaidAmount)
	o.PaymentStatus = gst.PaymentStatusOf(o.TotalAmount, o.PaidAmount)
	if o.Kind == models.SalesOrderKind {
		o.DeliveryStatus = deliveryStatusFor(o.DeliveryStatus, o.Items)
	}
}

// deliveryStatusFor advances the status from the item flags. It never moves
// backwards: un-delivering items leaves the current status in place.
func deliveryStatusFor(current models.DeliveryStatus, items []models.LineItem) models.DeliveryStatus {
	delivered := 0
	for _, it := range items {
		if it.IsDelivered {
			delivered++
		}
	}
	switch {
	case len(items) > 0 && delivered == len(items):
		return models.DeliveryDelivered
	case delivered > 0 && current != models.DeliveryDelivered:
		return models.DeliveryDispatched
	case current == "":
		return models.DeliveryPending
	default:
		return current
	}
}

// toggleDelivery flips one line's delivered flag.
func toggleDelivery(it *models.LineItem, now time.Time) {
	it.IsDelivered = !it.IsDelivered
	if it.IsDelivered {
		t := now
		it.DeliveredDate = &t
		it.DeliveredQuantity = it.Quantity
		return
	}
	it.DeliveredDate = nil
	it.DeliveredQuantity = decimal.Zero
}

func nullEqual(a, b decimal.NullDecimal) bool {
	if a.Valid != b.Valid {
		return false
	}
	return !a.Valid || a.Decimal.Equal(b.Decimal)
}

// ledgerEqual compares the fields the synchronizer may change.
func ledgerEqual(a, b *models.Order) bool {
	if len(a.Items) != len(b.Items) {
		return false
	}
	for i := range a.Items {
		x, y := a.Items[i], b.Items[i]
		if !x.Rate.Equal(y.Rate) || !x.Quantity.Equal(y.Quantity) || !x.DeliveredQuantity.Equal(y.DeliveredQuantity) ||
			!nullEqual(x.Amount, y.Amount) || !nullEqual(x.GSTAmount, y.GSTAmount) {
			return false
		}
	}
	return a.Subtotal.Equal(b.Subtotal) && a.TotalGST.Equal(b.TotalGST) && a.TotalAmount.Equal(b.TotalAmount) &&
		a.OutstandingAmount.Equal(b.OutstandingAmount) && a.PaymentStatus == b.PaymentStatus &&
		a.DeliveryStatus == b.DeliveryStatus
}

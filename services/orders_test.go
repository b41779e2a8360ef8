package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cableerp/gst"
	"cableerp/models"
)

func TestCreateThenDeleteRestoresBalance(t *testing.T) {
	f := newFixture(t)
	c := f.party(t, models.PartyCustomer, "Maharashtra")

	o, p, err := f.svc.Orders.Create(f.ctx, models.SalesOrderKind, OrderInput{
		Customer: c.ID,
		Items:    []ItemInput{item("4 core armoured", "10", "100")},
	}, "user-1")
	require.NoError(t, err)

	assert.Equal(t, "SO202403150001", o.OrderNumber)
	assert.Equal(t, c.Name, o.PartyName)
	assert.Equal(t, "8544", o.Items[0].HSNCode)
	assert.Equal(t, "Mtr", o.Items[0].Unit)
	requireDecimal(t, "18", o.Items[0].GSTRate)
	requireDecimal(t, "1180", o.TotalAmount)
	requireDecimal(t, "1180", o.OutstandingAmount)
	assert.Equal(t, models.PaymentPending, o.PaymentStatus)
	assert.Equal(t, models.DeliveryPending, o.DeliveryStatus)
	requireDecimal(t, "1180", p.OutstandingBalance)

	p, err = f.svc.Orders.Delete(f.ctx, models.SalesOrderKind, o.ID)
	require.NoError(t, err)
	requireDecimal(t, "0", p.OutstandingBalance)
}

func TestCreatePurchaseOrderDefaults(t *testing.T) {
	f := newFixture(t)
	v := f.party(t, models.PartyVendor, "Gujarat")

	o := f.order(t, models.PurchaseOrderKind, v.ID, item("Copper rod", "2", "500"))

	assert.Equal(t, "PO202403150001", o.OrderNumber)
	assert.Equal(t, "Kg", o.Items[0].Unit)
	assert.Equal(t, models.OrderPending, o.Status)
	assert.Empty(t, o.DeliveryStatus)
	requireDecimal(t, "1180", f.balance(t, models.PartyVendor, v.ID))
}

func TestCreateRejectsBadInput(t *testing.T) {
	f := newFixture(t)
	c := f.party(t, models.PartyCustomer, "Maharashtra")

	tests := []struct {
		name  string
		in    OrderInput
		field string
	}{
		{"no party", OrderInput{Items: []ItemInput{item("x", "1", "1")}}, "partyId"},
		{"no items", OrderInput{PartyID: c.ID}, "items"},
		{"blank description", OrderInput{PartyID: c.ID, Items: []ItemInput{item(" ", "1", "1")}}, "items[0].description"},
		{"negative rate", OrderInput{PartyID: c.ID, Items: []ItemInput{item("x", "1", "-1")}}, "items[0].rate"},
		{"bad status", OrderInput{PartyID: c.ID, Status: "shipped", Items: []ItemInput{item("x", "1", "1")}}, "Status"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := f.svc.Orders.Create(f.ctx, models.SalesOrderKind, tt.in, "user-1")
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
	requireDecimal(t, "0", f.balance(t, models.PartyCustomer, c.ID))
}

func TestCreateForMissingParty(t *testing.T) {
	f := newFixture(t)

	_, _, err := f.svc.Orders.Create(f.ctx, models.SalesOrderKind, OrderInput{
		PartyID: "nope",
		Items:   []ItemInput{item("x", "1", "1")},
	}, "user-1")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestEditAppliesOnlyOutstandingDelta(t *testing.T) {
	f := newFixture(t)
	c := f.party(t, models.PartyCustomer, "Maharashtra")
	o := f.order(t, models.SalesOrderKind, c.ID, item("Cable", "10", "100"))

	_, _, _, err := f.svc.Orders.ApplyPayment(f.ctx, models.SalesOrderKind, o.ID, PaymentInput{Amount: d("180")}, "user-1")
	require.NoError(t, err)
	requireDecimal(t, "1000", f.balance(t, models.PartyCustomer, c.ID))

	in := item("Cable", "20", "100")
	in.ID = o.Items[0].ID
	edited, p, err := f.svc.Orders.Edit(f.ctx, models.SalesOrderKind, o.ID, OrderPatch{Items: []ItemInput{in}})
	require.NoError(t, err)

	assert.Equal(t, o.Items[0].ID, edited.Items[0].ID)
	requireDecimal(t, "2360", edited.TotalAmount)
	requireDecimal(t, "180", edited.PaidAmount)
	requireDecimal(t, "2180", edited.OutstandingAmount)
	assert.Equal(t, models.PaymentPartial, edited.PaymentStatus)
	requireDecimal(t, "2180", p.OutstandingBalance)
}

func TestEditKeepsDeliveryStateOfExistingItems(t *testing.T) {
	f := newFixture(t)
	c := f.party(t, models.PartyCustomer, "Maharashtra")
	o := f.order(t, models.SalesOrderKind, c.ID, item("A", "1", "10"))
	_, err := f.svc.Orders.ToggleItemDelivery(f.ctx, o.ID, o.Items[0].ID)
	require.NoError(t, err)

	kept := item("A", "3", "10")
	kept.ID = o.Items[0].ID
	edited, _, err := f.svc.Orders.Edit(f.ctx, models.SalesOrderKind, o.ID, OrderPatch{
		Items: []ItemInput{kept, item("B", "1", "5")},
	})
	require.NoError(t, err)

	require.Len(t, edited.Items, 2)
	assert.True(t, edited.Items[0].IsDelivered)
	requireDecimal(t, "3", edited.Items[0].DeliveredQuantity)
	assert.False(t, edited.Items[1].IsDelivered)
	assert.NotEqual(t, kept.ID, edited.Items[1].ID)
	// Adding an undelivered line does not move the status back.
	assert.Equal(t, models.DeliveryDelivered, edited.DeliveryStatus)
}

func TestEditMissingOrder(t *testing.T) {
	f := newFixture(t)
	_, _, err := f.svc.Orders.Edit(f.ctx, models.SalesOrderKind, "nope", OrderPatch{})
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "Sales order", nf.Entity)
}

func TestOrderInvariantsHoldAfterEverySave(t *testing.T) {
	f := newFixture(t)
	c := f.party(t, models.PartyCustomer, "Maharashtra")
	o := f.order(t, models.SalesOrderKind, c.ID,
		item("A", "3", "33.33"), item("B", "7", "12.10"), ItemInput{Description: "C", Quantity: d("1"), Rate: d("99.99"), GSTRate: rate("12")})

	check := func(o *models.Order) {
		t.Helper()
		requireDecimal(t, gst.Outstanding(o.TotalAmount, o.PaidAmount).String(), o.OutstandingAmount)
		assert.Equal(t, gst.PaymentStatusOf(o.TotalAmount, o.PaidAmount), o.PaymentStatus)
		requireDecimal(t, o.Subtotal.Add(o.TotalGST).String(), o.TotalAmount)
		sum, tax := d("0"), d("0")
		for _, it := range o.Items {
			sum = sum.Add(it.Amount.Decimal)
			tax = tax.Add(it.GSTAmount.Decimal)
		}
		requireDecimal(t, sum.String(), o.Subtotal)
		requireDecimal(t, tax.String(), o.TotalGST)
	}
	check(o)

	paid, _, _, err := f.svc.Orders.ApplyPayment(f.ctx, models.SalesOrderKind, o.ID, PaymentInput{Amount: d("50")}, "user-1")
	require.NoError(t, err)
	check(paid)
	assert.Equal(t, models.PaymentPartial, paid.PaymentStatus)

	toggled, err := f.svc.Orders.ToggleItemDelivery(f.ctx, o.ID, o.Items[1].ID)
	require.NoError(t, err)
	check(toggled)

	paid, _, _, err = f.svc.Orders.ApplyPayment(f.ctx, models.SalesOrderKind, o.ID, PaymentInput{Amount: toggled.OutstandingAmount}, "user-1")
	require.NoError(t, err)
	check(paid)
	assert.Equal(t, models.PaymentPaid, paid.PaymentStatus)
	requireDecimal(t, "0", f.balance(t, models.PartyCustomer, c.ID))
}

func TestApplyPaymentValidation(t *testing.T) {
	f := newFixture(t)
	c := f.party(t, models.PartyCustomer, "Maharashtra")
	o := f.order(t, models.SalesOrderKind, c.ID, untaxed("Cable", "100"))

	for _, amount := range []string{"0", "-5", "100.01"} {
		_, _, _, err := f.svc.Orders.ApplyPayment(f.ctx, models.SalesOrderKind, o.ID, PaymentInput{Amount: d(amount)}, "user-1")
		assert.Truef(t, errors.Is(err, ErrValidation), "amount %s", amount)
	}
	_, _, _, err := f.svc.Orders.ApplyPayment(f.ctx, models.SalesOrderKind, o.ID,
		PaymentInput{Amount: d("10"), PaymentMethod: "barter"}, "user-1")
	assert.True(t, errors.Is(err, ErrValidation))

	requireDecimal(t, "100", f.balance(t, models.PartyCustomer, c.ID))
	payments, err := f.store.Payments.ListPayments(f.ctx, paymentFilterAll)
	require.NoError(t, err)
	assert.Empty(t, payments)
}

func TestApplyPaymentRecordsOnePayment(t *testing.T) {
	f := newFixture(t)
	v := f.party(t, models.PartyVendor, "Gujarat")
	o := f.order(t, models.PurchaseOrderKind, v.ID, untaxed("Copper", "100"))

	updated, p, pay, err := f.svc.Orders.ApplyPayment(f.ctx, models.PurchaseOrderKind, o.ID,
		PaymentInput{Amount: d("100"), PaymentMethod: models.MethodUPI, TransactionID: "UTR1"}, "user-1")
	require.NoError(t, err)

	assert.Equal(t, models.PaymentPaid, updated.PaymentStatus)
	requireDecimal(t, "0", p.OutstandingBalance)
	assert.Equal(t, models.PaymentMade, pay.Type)
	assert.Equal(t, models.OrderRef{ID: o.ID, Kind: models.PurchaseOrderKind}, pay.Reference)
	assert.Equal(t, models.PartyRef{ID: v.ID, Kind: models.PartyVendor}, pay.Party)
	assert.Equal(t, o.OrderNumber, pay.ReferenceNumber)
	assert.Equal(t, models.MethodUPI, pay.PaymentMethod)
	assert.Equal(t, f.now, pay.PaymentDate)
}

func TestDeleteSubtractsOnlyUnpaidRemainder(t *testing.T) {
	f := newFixture(t)
	c := f.party(t, models.PartyCustomer, "Maharashtra")
	o := f.order(t, models.SalesOrderKind, c.ID, untaxed("Cable", "100"))
	f.order(t, models.SalesOrderKind, c.ID, untaxed("Cable", "50"))

	_, _, _, err := f.svc.Orders.ApplyPayment(f.ctx, models.SalesOrderKind, o.ID, PaymentInput{Amount: d("30")}, "user-1")
	require.NoError(t, err)
	requireDecimal(t, "120", f.balance(t, models.PartyCustomer, c.ID))

	p, err := f.svc.Orders.Delete(f.ctx, models.SalesOrderKind, o.ID)
	require.NoError(t, err)
	requireDecimal(t, "50", p.OutstandingBalance)
}

func TestToggleUnknownItem(t *testing.T) {
	f := newFixture(t)
	c := f.party(t, models.PartyCustomer, "Maharashtra")
	o := f.order(t, models.SalesOrderKind, c.ID, untaxed("Cable", "100"))

	_, err := f.svc.Orders.ToggleItemDelivery(f.ctx, o.ID, "nope")
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "Item", nf.Entity)
}

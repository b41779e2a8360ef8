package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cableerp/models"
)

func TestPartyValidation(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name  string
		in    PartyInput
		field string
	}{
		{"missing name", PartyInput{Name: "  "}, "Name"},
		{"bad email", PartyInput{Name: "A", Email: "not-an-email"}, "email"},
		{"bad phone", PartyInput{Name: "A", Phone: "12345"}, "phone"},
		{"bad status", PartyInput{Name: "A", Status: "closed"}, "Status"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Parties.Create(f.ctx, models.PartyCustomer, tt.in)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestPartyUpdateNeverTouchesBalance(t *testing.T) {
	f := newFixture(t)
	c := f.party(t, models.PartyCustomer, "Maharashtra")
	f.order(t, models.SalesOrderKind, c.ID, untaxed("Cable", "250"))

	updated, err := f.svc.Parties.Update(f.ctx, models.PartyCustomer, c.ID, PartyInput{
		Name:      "Shree Traders Pvt Ltd",
		Email:     "Accounts@Shree.in",
		GSTNumber: "27aaacs1234a1z5",
	})
	require.NoError(t, err)
	assert.Equal(t, "accounts@shree.in", updated.Email)
	assert.Equal(t, "27AAACS1234A1Z5", updated.GSTNumber)
	assert.Equal(t, models.PartyActive, updated.Status)
	requireDecimal(t, "250", f.balance(t, models.PartyCustomer, c.ID))

	found, err := f.svc.Parties.List(f.ctx, models.PartyCustomer, "pvt")
	require.NoError(t, err)
	require.Len(t, found, 1)

	_, err = f.svc.Parties.Get(f.ctx, models.PartyVendor, c.ID)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestPartyHistoryAndOpenOrders(t *testing.T) {
	f := newFixture(t)
	v := f.party(t, models.PartyVendor, "Gujarat")
	first := f.order(t, models.PurchaseOrderKind, v.ID, untaxed("Copper", "10"))
	f.tick()
	second := f.order(t, models.PurchaseOrderKind, v.ID, untaxed("PVC", "20"))
	f.tick()
	paid := f.order(t, models.PurchaseOrderKind, v.ID, untaxed("Steel", "5"))
	_, _, _, err := f.svc.Orders.ApplyPayment(f.ctx, models.PurchaseOrderKind, paid.ID, PaymentInput{Amount: d("5")}, "user-1")
	require.NoError(t, err)

	open, err := f.svc.Parties.OpenOrders(f.ctx, models.PartyVendor, v.ID)
	require.NoError(t, err)
	require.Len(t, open, 2)
	assert.Equal(t, first.ID, open[0].ID)
	assert.Equal(t, second.ID, open[1].ID)

	history, err := f.svc.Parties.History(f.ctx, models.PartyVendor, v.ID)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, paid.ID, history[0].ID)

	require.NoError(t, f.svc.Parties.Delete(f.ctx, models.PartyVendor, v.ID))
	_, err = f.svc.Parties.History(f.ctx, models.PartyVendor, v.ID)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestNumbererFormat(t *testing.T) {
	f := newFixture(t)
	for _, want := range []string{"INV202403150001", "INV202403150002"} {
		got, err := f.svc.Numberer.Next(f.ctx, InvoiceSeries)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	got, err := f.svc.Numberer.Next(f.ctx, "SO")
	require.NoError(t, err)
	assert.Equal(t, "SO202403150001", got)
}

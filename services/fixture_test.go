package services

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"cableerp/models"
	"cableerp/repository"
)

type fixture struct {
	ctx   context.Context
	store *repository.Store
	svc   *Services
	now   time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		ctx:   context.Background(),
		store: repository.NewMemoryStore(),
		now:   time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC),
	}
	f.svc = New(f.store, Options{
		Now: func() time.Time { return f.now },
		Log: zerolog.Nop(),
	})
	return f
}

func (f *fixture) tick() {
	f.now = f.now.Add(time.Minute)
}

func (f *fixture) party(t *testing.T, kind models.PartyKind, state string) *models.Party {
	t.Helper()
	p, err := f.svc.Parties.Create(f.ctx, kind, PartyInput{
		Name:           "Shree Traders",
		Phone:          "+91 98220 12345",
		BillingAddress: models.Address{Street: "12 MG Road", City: "Pune", State: state, Pincode: "411001"},
	})
	require.NoError(t, err)
	return p
}

func (f *fixture) order(t *testing.T, kind models.OrderKind, partyID string, items ...ItemInput) *models.Order {
	t.Helper()
	o, _, err := f.svc.Orders.Create(f.ctx, kind, OrderInput{PartyID: partyID, Items: items}, "user-1")
	require.NoError(t, err)
	return o
}

func (f *fixture) balance(t *testing.T, kind models.PartyKind, id string) decimal.Decimal {
	t.Helper()
	p, err := f.store.Parties.GetParty(f.ctx, kind, id)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p.OutstandingBalance
}

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func rate(s string) *decimal.Decimal {
	v := d(s)
	return &v
}

func item(desc, qty, price string) ItemInput {
	return ItemInput{Description: desc, Quantity: d(qty), Rate: d(price)}
}

func untaxed(desc, price string) ItemInput {
	return ItemInput{Description: desc, Quantity: d("1"), Rate: d(price), GSTRate: rate("0")}
}

func requireDecimal(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	require.Truef(t, d(want).Equal(got), "want %s, got %s %v", want, got, msgAndArgs)
}

package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cableerp/models"
)

func TestLedgerApplyFloorsAtZero(t *testing.T) {
	f := newFixture(t)
	c := f.party(t, models.PartyCustomer, "Maharashtra")

	p, err := f.svc.Ledger.Apply(f.ctx, models.PartyCustomer, c.ID, d("150"))
	require.NoError(t, err)
	requireDecimal(t, "150", p.OutstandingBalance)

	p, err = f.svc.Ledger.Apply(f.ctx, models.PartyCustomer, c.ID, d("-400"))
	require.NoError(t, err)
	requireDecimal(t, "0", p.OutstandingBalance)
}

func TestLedgerApplyMissingPartyIsNoop(t *testing.T) {
	f := newFixture(t)

	p, err := f.svc.Ledger.Apply(f.ctx, models.PartyVendor, "missing", d("10"))
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestResyncAllHealsDrift(t *testing.T) {
	f := newFixture(t)
	c := f.party(t, models.PartyCustomer, "Maharashtra")
	v := f.party(t, models.PartyVendor, "Gujarat")
	f.order(t, models.SalesOrderKind, c.ID, untaxed("Cable", "100"))
	f.order(t, models.SalesOrderKind, c.ID, untaxed("Cable", "40"))
	f.order(t, models.PurchaseOrderKind, v.ID, untaxed("Copper", "75"))

	require.NoError(t, f.store.Parties.SetBalance(f.ctx, models.PartyCustomer, c.ID, d("999")))

	reports, err := f.svc.Ledger.ResyncAll(f.ctx)
	require.NoError(t, err)
	require.Len(t, reports, 2)
	assert.Equal(t, ResyncReport{Kind: models.PartyCustomer, Parties: 1, Drifted: 1}, reports[0])
	assert.Equal(t, ResyncReport{Kind: models.PartyVendor, Parties: 1, Drifted: 0}, reports[1])

	requireDecimal(t, "140", f.balance(t, models.PartyCustomer, c.ID))
	requireDecimal(t, "75", f.balance(t, models.PartyVendor, v.ID))
}

package services

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cableerp/models"
	"cableerp/repository"
)

var paymentFilterAll = repository.PaymentFilter{}

func TestAllocateOldestFirst(t *testing.T) {
	f := newFixture(t)
	c := f.party(t, models.PartyCustomer, "Maharashtra")
	o1 := f.order(t, models.SalesOrderKind, c.ID, untaxed("A", "100"))
	f.tick()
	o2 := f.order(t, models.SalesOrderKind, c.ID, untaxed("B", "50"))
	f.tick()
	o3 := f.order(t, models.SalesOrderKind, c.ID, untaxed("C", "30"))
	requireDecimal(t, "180", f.balance(t, models.PartyCustomer, c.ID))

	res, err := f.svc.Allocator.Allocate(f.ctx, models.PartyCustomer, c.ID,
		PaymentInput{Amount: d("120"), PaymentMethod: models.MethodCheque}, "user-1")
	require.NoError(t, err)

	requireDecimal(t, "120", res.Applied)
	requireDecimal(t, "60", res.Party.OutstandingBalance)
	require.Len(t, res.UpdatedOrders, 2)
	require.Len(t, res.Payments, 2)

	assert.Equal(t, o1.OrderNumber, res.Payments[0].ReferenceNumber)
	requireDecimal(t, "100", res.Payments[0].Amount)
	assert.Equal(t, o2.OrderNumber, res.Payments[1].ReferenceNumber)
	requireDecimal(t, "20", res.Payments[1].Amount)
	for _, p := range res.Payments {
		assert.Equal(t, models.PaymentReceived, p.Type)
		assert.Equal(t, c.Name, p.PartyName)
		assert.Equal(t, models.MethodCheque, p.PaymentMethod)
	}

	want := map[string]struct {
		status      models.PaymentStatus
		outstanding string
	}{
		o1.ID: {models.PaymentPaid, "0"},
		o2.ID: {models.PaymentPartial, "30"},
		o3.ID: {models.PaymentPending, "30"},
	}
	for id, w := range want {
		o, err := f.store.Orders.GetOrder(f.ctx, models.SalesOrderKind, id)
		require.NoError(t, err)
		assert.Equal(t, w.status, o.PaymentStatus, o.OrderNumber)
		requireDecimal(t, w.outstanding, o.OutstandingAmount, o.OrderNumber)
	}

	stored, err := f.store.Payments.ListPayments(f.ctx, repository.PaymentFilter{PartyID: c.ID})
	require.NoError(t, err)
	assert.Len(t, stored, 2)
}

func TestAllocateRejectsAmountAboveBalance(t *testing.T) {
	f := newFixture(t)
	v := f.party(t, models.PartyVendor, "Gujarat")
	f.order(t, models.PurchaseOrderKind, v.ID, untaxed("Copper", "80"))

	_, err := f.svc.Allocator.Allocate(f.ctx, models.PartyVendor, v.ID, PaymentInput{Amount: d("80.5")}, "user-1")
	assert.True(t, errors.Is(err, ErrValidation))

	_, err = f.svc.Allocator.Allocate(f.ctx, models.PartyVendor, "missing", PaymentInput{Amount: d("1")}, "user-1")
	assert.True(t, errors.Is(err, ErrNotFound))

	requireDecimal(t, "80", f.balance(t, models.PartyVendor, v.ID))
}

func TestAllocateReducesBalanceByAppliedAmountOnly(t *testing.T) {
	f := newFixture(t)
	c := f.party(t, models.PartyCustomer, "Maharashtra")
	f.order(t, models.SalesOrderKind, c.ID, untaxed("A", "40"))
	// Balance carries more than the open orders add up to.
	_, err := f.svc.Ledger.Apply(f.ctx, models.PartyCustomer, c.ID, d("60"))
	require.NoError(t, err)

	res, err := f.svc.Allocator.Allocate(f.ctx, models.PartyCustomer, c.ID, PaymentInput{Amount: d("70")}, "user-1")
	require.NoError(t, err)

	requireDecimal(t, "40", res.Applied)
	require.Len(t, res.Payments, 1)
	requireDecimal(t, "60", res.Party.OutstandingBalance)
}

func TestAllocateDefaultsMethodAndDate(t *testing.T) {
	f := newFixture(t)
	v := f.party(t, models.PartyVendor, "Gujarat")
	f.order(t, models.PurchaseOrderKind, v.ID, untaxed("Copper", "80"))

	res, err := f.svc.Allocator.Allocate(f.ctx, models.PartyVendor, v.ID, PaymentInput{Amount: d("80")}, "user-9")
	require.NoError(t, err)
	require.Len(t, res.Payments, 1)

	p := res.Payments[0]
	assert.Equal(t, models.PaymentMade, p.Type)
	assert.Equal(t, models.MethodBankTransfer, p.PaymentMethod)
	assert.Equal(t, f.now, p.PaymentDate)
	assert.Equal(t, "user-9", p.CreatedBy)
	assert.Equal(t, models.PartyRef{ID: v.ID, Kind: models.PartyVendor}, p.Party)
}

// failingPayments stores payments until failAt records have been attempted.
type failingPayments struct {
	repository.PaymentRepository
	calls  int
	failAt int
}

func (p *failingPayments) CreatePayment(ctx context.Context, pay *models.Payment) error {
	p.calls++
	if p.calls == p.failAt {
		return errors.New("write timeout")
	}
	return p.PaymentRepository.CreatePayment(ctx, pay)
}

func TestAllocateLogsPartialApplication(t *testing.T) {
	f := newFixture(t)
	c := f.party(t, models.PartyCustomer, "Maharashtra")
	f.order(t, models.SalesOrderKind, c.ID, untaxed("A", "100"))
	f.tick()
	f.order(t, models.SalesOrderKind, c.ID, untaxed("B", "50"))

	var buf bytes.Buffer
	f.svc.Allocator.Payments = &failingPayments{PaymentRepository: f.store.Payments, failAt: 2}
	f.svc.Allocator.Log = zerolog.New(&buf)

	_, err := f.svc.Allocator.Allocate(f.ctx, models.PartyCustomer, c.ID, PaymentInput{Amount: d("150")}, "user-1")
	require.Error(t, err)

	assert.Contains(t, buf.String(), `"party_id":"`+c.ID+`"`)
	assert.Contains(t, buf.String(), `"applied":"150"`)
	requireDecimal(t, "150", f.balance(t, models.PartyCustomer, c.ID))

	report, err := f.svc.Ledger.ResyncKind(f.ctx, models.PartyCustomer)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Drifted)
	requireDecimal(t, "0", f.balance(t, models.PartyCustomer, c.ID))
}

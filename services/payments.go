package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"cableerp/models"
	"cableerp/repository"
)

type PaymentInput struct {
	Amount        decimal.Decimal      `json:"amount"`
	PaymentMethod models.PaymentMethod `json:"paymentMethod" validate:"omitempty,oneof=cash bank_transfer cheque upi"`
	TransactionID string               `json:"transactionId"`
	Notes         string               `json:"notes"`
	PaymentDate   *time.Time           `json:"paymentDate"`
}

func (in *PaymentInput) normalize() error {
	if err := validateStruct(in); err != nil {
		return err
	}
	if !in.Amount.IsPositive() {
		return invalid("amount", "payment amount must be greater than 0")
	}
	if in.PaymentMethod == "" {
		in.PaymentMethod = models.MethodBankTransfer
	}
	return nil
}

func newPayment(o *models.Order, partyName string, in PaymentInput, amount decimal.Decimal, userID string, now time.Time) *models.Payment {
	p := &models.Payment{
		ID:              models.NewID(),
		Type:            o.Kind.PaymentType(),
		Reference:       models.OrderRef{ID: o.ID, Kind: o.Kind},
		ReferenceNumber: o.OrderNumber,
		Party:           models.PartyRef{ID: o.PartyID, Kind: o.Kind.PartyKind()},
		PartyName:       partyName,
		Amount:          amount,
		PaymentDate:     now,
		PaymentMethod:   in.PaymentMethod,
		TransactionID:   in.TransactionID,
		Notes:           in.Notes,
		CreatedBy:       userID,
		CreatedAt:       now,
	}
	if in.PaymentDate != nil {
		p.PaymentDate = *in.PaymentDate
	}
	return p
}

// AllocationResult is what a party-level payment touched.
type AllocationResult struct {
	Party         *models.Party
	UpdatedOrders []*models.Order
	Payments      []*models.Payment
	Applied       decimal.Decimal
}

// PaymentAllocator spreads one party payment over its open orders, oldest first.
type PaymentAllocator struct {
	Orders   repository.OrderRepository
	Parties  repository.PartyRepository
	Payments repository.PaymentRepository
	Ledger   *BalanceLedger
	Locker   Locker
	Now      func() time.Time
	Log      zerolog.Logger
}

// Allocate applies in.Amount to the party's pending and partial orders in
// creation order, writing one payment record per order it touched. The party
// balance drops by the amount actually applied.
func (a *PaymentAllocator) Allocate(ctx context.Context, kind models.PartyKind, partyID string, in PaymentInput, userID string) (*AllocationResult, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}

	unlock, err := a.Locker.Lock(ctx, partyLockKey(partyID))
	if err != nil {
		return nil, err
	}
	defer unlock()

	party, err := a.Parties.GetParty(ctx, kind, partyID)
	if err != nil {
		return nil, err
	}
	if party == nil {
		return nil, notFound(string(kind), partyID)
	}
	if in.Amount.GreaterThan(party.OutstandingBalance) {
		return nil, invalid("amount", "payment amount %s exceeds outstanding balance %s",
			in.Amount.StringFixed(2), party.OutstandingBalance.StringFixed(2))
	}

	orders, err := a.Orders.ListOrders(ctx, repository.OrderFilter{
		Kind:            models.OrderKindFor(kind),
		PartyID:         partyID,
		PaymentStatuses: []models.PaymentStatus{models.PaymentPending, models.PaymentPartial},
		Sort:            repository.OldestCreatedFirst,
	})
	if err != nil {
		return nil, fmt.Errorf("list open orders: %w", err)
	}

	now := a.Now()
	res := &AllocationResult{}
	remaining := in.Amount
	for _, o := range orders {
		if !remaining.IsPositive() {
			break
		}
		apply := decimal.Min(remaining, o.OutstandingAmount)
		if !apply.IsPositive() {
			continue
		}

		p := newPayment(o, party.Name, in, apply, userID, now)

		o.PaidAmount = o.PaidAmount.Add(apply)
		recomputeOrder(o)
		o.UpdatedAt = now
		if err := a.Orders.UpdateOrder(ctx, o); err != nil {
			a.logPartial(partyID, in.Amount.Sub(remaining), err)
			return nil, fmt.Errorf("update order %s: %w", o.OrderNumber, err)
		}
		if err := a.Payments.CreatePayment(ctx, p); err != nil {
			a.logPartial(partyID, in.Amount.Sub(remaining).Add(apply), err)
			return nil, fmt.Errorf("record payment for %s: %w", o.OrderNumber, err)
		}

		remaining = remaining.Sub(apply)
		res.UpdatedOrders = append(res.UpdatedOrders, o)
		res.Payments = append(res.Payments, p)
	}
	res.Applied = in.Amount.Sub(remaining)

	if remaining.IsPositive() {
		a.Log.Warn().Str("party_id", partyID).Str("unapplied", remaining.String()).
			Msg("payment exceeds open order outstanding")
	}

	updated, err := a.Ledger.Apply(ctx, kind, partyID, res.Applied.Neg())
	if err != nil {
		return nil, err
	}
	if updated == nil {
		updated = party
	}
	res.Party = updated

	a.Log.Info().Str("party_id", partyID).Str("applied", res.Applied.String()).
		Int("orders", len(res.UpdatedOrders)).Msg("payment allocated")
	return res, nil
}

// logPartial records an allocation that stopped after orders were already
// paid. The party balance has not moved for them until a resync.
func (a *PaymentAllocator) logPartial(partyID string, applied decimal.Decimal, err error) {
	a.Log.Warn().Err(ErrConsistency).Str("party_id", partyID).Str("applied", applied.String()).
		AnErr("cause", err).Msg("payment allocation stopped part way; balance not reduced")
}

func (a *PaymentAllocator) List(ctx context.Context, f repository.PaymentFilter) ([]*models.Payment, error) {
	return a.Payments.ListPayments(ctx, f)
}

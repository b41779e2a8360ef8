package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"cableerp/models"
	"cableerp/repository"
)

// OrderInput creates a sales or purchase order. Customer and Vendor are
// accepted as aliases of PartyID.
type OrderInput struct {
	PartyID      string             `json:"partyId"`
	Customer     string             `json:"customer"`
	Vendor       string             `json:"vendor"`
	OrderDate    *time.Time         `json:"orderDate"`
	DeliveryDate *time.Time         `json:"deliveryDate"`
	ExpectedDate *time.Time         `json:"expectedDate"`
	Items        []ItemInput        `json:"items"`
	Status       models.OrderStatus `json:"status" validate:"omitempty,oneof=pending confirmed received cancelled"`
	Notes        string             `json:"notes"`
}

func (in OrderInput) partyID() string {
	for _, id := range []string{in.PartyID, in.Customer, in.Vendor} {
		if id = strings.TrimSpace(id); id != "" {
			return id
		}
	}
	return ""
}

// OrderPatch edits an order. Nil fields are left unchanged; a nil Items keeps
// the current lines.
type OrderPatch struct {
	Items        []ItemInput         `json:"items"`
	OrderDate    *time.Time          `json:"orderDate"`
	DeliveryDate *time.Time          `json:"deliveryDate"`
	ExpectedDate *time.Time          `json:"expectedDate"`
	Status       *models.OrderStatus `json:"status" validate:"omitempty,oneof=pending confirmed received cancelled"`
	Notes        *string             `json:"notes"`
}

// OrderService is the order ledger. Every mutation recomputes the derived
// money fields and pushes the outstanding change to the party balance.
type OrderService struct {
	Orders   repository.OrderRepository
	Parties  repository.PartyRepository
	Payments repository.PaymentRepository
	Ledger   *BalanceLedger
	Sync     *Synchronizer
	Numberer *Numberer
	Locker   Locker
	Now      func() time.Time
	Log      zerolog.Logger
}

func (s *OrderService) Get(ctx context.Context, kind models.OrderKind, id string) (*models.Order, error) {
	o, err := s.Orders.GetOrder(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, notFound(orderEntity(kind), id)
	}
	return o, nil
}

func (s *OrderService) List(ctx context.Context, f repository.OrderFilter) ([]*models.Order, error) {
	return s.Orders.ListOrders(ctx, f)
}

// Create stores a new order at zero paid and adds its total to the party balance.
func (s *OrderService) Create(ctx context.Context, kind models.OrderKind, in OrderInput, userID string) (*models.Order, *models.Party, error) {
	partyID := in.partyID()
	if partyID == "" {
		return nil, nil, invalid("partyId", "is required")
	}
	if err := validateStruct(in); err != nil {
		return nil, nil, err
	}
	if err := checkItems(in.Items); err != nil {
		return nil, nil, err
	}

	party, err := s.Parties.GetParty(ctx, kind.PartyKind(), partyID)
	if err != nil {
		return nil, nil, err
	}
	if party == nil {
		return nil, nil, notFound(string(kind.PartyKind()), partyID)
	}

	number, err := s.Numberer.Next(ctx, kind.NumberPrefix())
	if err != nil {
		return nil, nil, err
	}

	now := s.Now()
	o := &models.Order{
		ID:           models.NewID(),
		Kind:         kind,
		OrderNumber:  number,
		PartyID:      party.ID,
		PartyName:    party.Name,
		OrderDate:    now,
		DeliveryDate: in.DeliveryDate,
		Items:        buildItems(kind, in.Items, nil),
		PaidAmount:   decimal.Zero,
		Notes:        in.Notes,
		CreatedBy:    userID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if in.OrderDate != nil {
		o.OrderDate = *in.OrderDate
	}
	if kind == models.PurchaseOrderKind {
		o.ExpectedDate = in.ExpectedDate
		o.Status = in.Status
		if o.Status == "" {
			o.Status = models.OrderPending
		}
	}
	recomputeOrder(o)

	if err := s.Orders.CreateOrder(ctx, o); err != nil {
		return nil, nil, fmt.Errorf("create %s: %w", kind, err)
	}
	s.Log.Info().Str("order", o.OrderNumber).Str("party_id", o.PartyID).
		Str("total", o.TotalAmount.String()).Msg("order created")

	party, err = s.Ledger.Apply(ctx, kind.PartyKind(), o.PartyID, o.TotalAmount)
	if err != nil {
		return o, nil, err
	}
	return o, party, nil
}

// Edit recomputes totals from the new items against the existing paidAmount
// and applies only the outstanding difference to the party balance.
func (s *OrderService) Edit(ctx context.Context, kind models.OrderKind, id string, patch OrderPatch) (*models.Order, *models.Party, error) {
	if err := validateStruct(patch); err != nil {
		return nil, nil, err
	}
	if patch.Items != nil {
		if err := checkItems(patch.Items); err != nil {
			return nil, nil, err
		}
	}

	o, err := s.Get(ctx, kind, id)
	if err != nil {
		return nil, nil, err
	}
	before := o.Clone()

	if patch.Items != nil {
		o.Items = buildItems(kind, patch.Items, before.Items)
	}
	if patch.OrderDate != nil {
		o.OrderDate = *patch.OrderDate
	}
	if patch.DeliveryDate != nil {
		o.DeliveryDate = patch.DeliveryDate
	}
	if patch.Notes != nil {
		o.Notes = *patch.Notes
	}
	if kind == models.PurchaseOrderKind {
		if patch.ExpectedDate != nil {
			o.ExpectedDate = patch.ExpectedDate
		}
		if patch.Status != nil {
			o.Status = *patch.Status
		}
	}
	recomputeOrder(o)
	o.UpdatedAt = s.Now()

	if err := s.Orders.UpdateOrder(ctx, o); err != nil {
		return nil, nil, fmt.Errorf("update %s %s: %w", kind, id, err)
	}

	delta := o.OutstandingAmount.Sub(before.OutstandingAmount)
	party, err := s.Ledger.Apply(ctx, kind.PartyKind(), o.PartyID, delta)
	if err != nil {
		return o, nil, err
	}

	if kind == models.SalesOrderKind && patch.Items != nil {
		if _, err := s.Sync.OrderToInvoice(ctx, o); err != nil {
			return o, party, err
		}
	}
	return o, party, nil
}

// ToggleItemDelivery flips one sales order line between delivered and not,
// then pushes the change into the linked invoice.
func (s *OrderService) ToggleItemDelivery(ctx context.Context, orderID, itemID string) (*models.Order, error) {
	o, err := s.Get(ctx, models.SalesOrderKind, orderID)
	if err != nil {
		return nil, err
	}
	it := o.FindItem(itemID)
	if it == nil {
		return nil, notFound("Item", itemID)
	}

	now := s.Now()
	toggleDelivery(it, now)
	recomputeOrder(o)
	o.UpdatedAt = now

	if err := s.Orders.UpdateOrder(ctx, o); err != nil {
		return nil, fmt.Errorf("update sales order %s: %w", orderID, err)
	}
	s.Log.Debug().Str("order", o.OrderNumber).Str("item", itemID).Bool("delivered", it.IsDelivered).
		Str("delivery_status", string(o.DeliveryStatus)).Msg("item delivery toggled")

	if _, err := s.Sync.OrderToInvoice(ctx, o); err != nil {
		return o, err
	}
	return o, nil
}

// Delete removes an order and takes its unpaid remainder off the party balance.
func (s *OrderService) Delete(ctx context.Context, kind models.OrderKind, id string) (*models.Party, error) {
	o, err := s.Get(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	if err := s.Orders.DeleteOrder(ctx, kind, id); err != nil {
		return nil, fmt.Errorf("delete %s %s: %w", kind, id, err)
	}
	if !o.OutstandingAmount.IsPositive() {
		return nil, nil
	}
	return s.Ledger.Apply(ctx, kind.PartyKind(), o.PartyID, o.OutstandingAmount.Neg())
}

// ApplyPayment settles part or all of one order and records a single payment.
func (s *OrderService) ApplyPayment(ctx context.Context, kind models.OrderKind, id string, in PaymentInput, userID string) (*models.Order, *models.Party, *models.Payment, error) {
	if err := in.normalize(); err != nil {
		return nil, nil, nil, err
	}

	o, err := s.Get(ctx, kind, id)
	if err != nil {
		return nil, nil, nil, err
	}
	unlock, err := s.Locker.Lock(ctx, partyLockKey(o.PartyID))
	if err != nil {
		return nil, nil, nil, err
	}
	defer unlock()

	// Re-read under the lock.
	if o, err = s.Get(ctx, kind, id); err != nil {
		return nil, nil, nil, err
	}
	if in.Amount.GreaterThan(o.OutstandingAmount) {
		return nil, nil, nil, invalid("amount", "payment amount %s exceeds outstanding amount %s",
			in.Amount.StringFixed(2), o.OutstandingAmount.StringFixed(2))
	}

	now := s.Now()
	o.PaidAmount = o.PaidAmount.Add(in.Amount)
	recomputeOrder(o)
	o.UpdatedAt = now
	if err := s.Orders.UpdateOrder(ctx, o); err != nil {
		return nil, nil, nil, fmt.Errorf("update %s %s: %w", kind, id, err)
	}

	p := newPayment(o, o.PartyName, in, in.Amount, userID, now)
	if err := s.Payments.CreatePayment(ctx, p); err != nil {
		return o, nil, nil, fmt.Errorf("record payment: %w", err)
	}

	party, err := s.Ledger.Apply(ctx, kind.PartyKind(), o.PartyID, in.Amount.Neg())
	if err != nil {
		return o, nil, p, err
	}
	return o, party, p, nil
}

func orderEntity(kind models.OrderKind) string {
	if kind == models.PurchaseOrderKind {
		return "Purchase order"
	}
	return "Sales order"
}

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

// PartyInput is the editable profile of a customer or vendor.
type PartyInput struct {
	Name            string          `json:"name" validate:"required"`
	Email           string          `json:"email"`
	Phone           string          `json:"phone"`
	ContactPerson   string          `json:"contactPerson"`
	BillingAddress  models.Address  `json:"billingAddress"`
	DeliveryAddress *models.Address `json:"deliveryAddress"`
	GSTNumber       string          `json:"gstNumber"`
	Status          string          `json:"status" validate:"omitempty,oneof=active inactive"`
}

func (in *PartyInput) check() error {
	in.Name = strings.TrimSpace(in.Name)
	if err := validateStruct(in); err != nil {
		return err
	}
	if err := validateEmail("email", in.Email); err != nil {
		return err
	}
	return validatePhone("phone", in.Phone)
}

func (in *PartyInput) applyTo(p *models.Party) {
	p.Name = in.Name
	p.Email = strings.ToLower(strings.TrimSpace(in.Email))
	p.Phone = strings.TrimSpace(in.Phone)
	p.ContactPerson = in.ContactPerson
	p.BillingAddress = in.BillingAddress
	p.GSTNumber = strings.ToUpper(strings.TrimSpace(in.GSTNumber))
	if p.Kind == models.PartyCustomer {
		p.DeliveryAddress = in.DeliveryAddress
	}
	if in.Status != "" {
		p.Status = in.Status
	}
}

type PartyService struct {
	Parties repository.PartyRepository
	Orders  repository.OrderRepository
	Ledger  *BalanceLedger
	Now     func() time.Time
	Log     zerolog.Logger
}

func (s *PartyService) Create(ctx context.Context, kind models.PartyKind, in PartyInput) (*models.Party, error) {
	if err := in.check(); err != nil {
		return nil, err
	}
	p := &models.Party{
		ID:                 models.NewID(),
		Kind:               kind,
		Status:             models.PartyActive,
		OutstandingBalance: decimal.Zero,
		CreatedAt:          s.Now(),
	}
	in.applyTo(p)
	if err := s.Parties.CreateParty(ctx, p); err != nil {
		return nil, fmt.Errorf("create %s: %w", kind, err)
	}
	return p, nil
}

func (s *PartyService) Get(ctx context.Context, kind models.PartyKind, id string) (*models.Party, error) {
	p, err := s.Parties.GetParty(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, notFound(string(kind), id)
	}
	return p, nil
}

func (s *PartyService) List(ctx context.Context, kind models.PartyKind, search string) ([]*models.Party, error) {
	return s.Parties.ListParties(ctx, kind, strings.TrimSpace(search))
}

// Update replaces the profile. The outstanding balance is not editable here.
func (s *PartyService) Update(ctx context.Context, kind models.PartyKind, id string, in PartyInput) (*models.Party, error) {
	if err := in.check(); err != nil {
		return nil, err
	}
	p, err := s.Get(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	in.applyTo(p)
	if err := s.Parties.UpdateParty(ctx, p); err != nil {
		return nil, fmt.Errorf("update %s %s: %w", kind, id, err)
	}
	return p, nil
}

func (s *PartyService) Delete(ctx context.Context, kind models.PartyKind, id string) error {
	if _, err := s.Get(ctx, kind, id); err != nil {
		return err
	}
	return s.Parties.DeleteParty(ctx, kind, id)
}

// History lists every order of the party, newest order date first.
func (s *PartyService) History(ctx context.Context, kind models.PartyKind, id string) ([]*models.Order, error) {
	if _, err := s.Get(ctx, kind, id); err != nil {
		return nil, err
	}
	return s.Orders.ListOrders(ctx, repository.OrderFilter{
		Kind:    models.OrderKindFor(kind),
		PartyID: id,
		Sort:    repository.NewestOrderDateFirst,
	})
}

// OpenOrders lists the party's unpaid and part-paid orders, oldest first.
func (s *PartyService) OpenOrders(ctx context.Context, kind models.PartyKind, id string) ([]*models.Order, error) {
	if _, err := s.Get(ctx, kind, id); err != nil {
		return nil, err
	}
	return s.Orders.ListOrders(ctx, repository.OrderFilter{
		Kind:            models.OrderKindFor(kind),
		PartyID:         id,
		PaymentStatuses: []models.PaymentStatus{models.PaymentPending, models.PaymentPartial},
		Sort:            repository.OldestCreatedFirst,
	})
}

func (s *PartyService) Resync(ctx context.Context, kind models.PartyKind) (ResyncReport, error) {
	return s.Ledger.ResyncKind(ctx, kind)
}

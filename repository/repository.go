package repository

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"cableerp/models"
)

// ErrNoDocument is returned by update and delete calls that matched nothing.
// Getters return (nil, nil) for a missing document instead.
var ErrNoDocument = errors.New("document not found")

// ErrEmailTaken is returned when registering an email that already exists.
var ErrEmailTaken = errors.New("email already exists")

type PartyRepository interface {
	CreateParty(ctx context.Context, p *models.Party) error
	GetParty(ctx context.Context, kind models.PartyKind, id string) (*models.Party, error)
	ListParties(ctx context.Context, kind models.PartyKind, search string) ([]*models.Party, error)
	// UpdateParty writes profile fields only; the balance is never touched.
	UpdateParty(ctx context.Context, p *models.Party) error
	DeleteParty(ctx context.Context, kind models.PartyKind, id string) error
	// IncrementBalance adds delta to the balance in one atomic store operation,
	// floored at zero, and returns the updated party (nil if missing).
	IncrementBalance(ctx context.Context, kind models.PartyKind, id string, delta decimal.Decimal) (*models.Party, error)
	SetBalance(ctx context.Context, kind models.PartyKind, id string, balance decimal.Decimal) error
}

type OrderSort int

const (
	NewestCreatedFirst OrderSort = iota
	OldestCreatedFirst
	NewestOrderDateFirst
)

type OrderFilter struct {
	Kind            models.OrderKind
	PartyID         string
	PaymentStatuses []models.PaymentStatus
	// Search matches order number or party name, case-insensitive.
	Search string
	Sort   OrderSort
}

type OrderRepository interface {
	CreateOrder(ctx context.Context, o *models.Order) error
	GetOrder(ctx context.Context, kind models.OrderKind, id string) (*models.Order, error)
	ListOrders(ctx context.Context, f OrderFilter) ([]*models.Order, error)
	UpdateOrder(ctx context.Context, o *models.Order) error
	DeleteOrder(ctx context.Context, kind models.OrderKind, id string) error
}

type InvoiceRepository interface {
	CreateInvoice(ctx context.Context, inv *models.Invoice) error
	GetInvoice(ctx context.Context, id string) (*models.Invoice, error)
	// LatestInvoiceForOrder returns the most recently created invoice of a sales order.
	LatestInvoiceForOrder(ctx context.Context, orderID string) (*models.Invoice, error)
	ListInvoices(ctx context.Context) ([]*models.Invoice, error)
	UpdateInvoice(ctx context.Context, inv *models.Invoice) error
	DeleteInvoice(ctx context.Context, id string) error
}

type PaymentFilter struct {
	Type    models.PaymentType
	PartyID string
	From    *time.Time
	To      *time.Time
}

// PaymentRepository is append-only.
type PaymentRepository interface {
	CreatePayment(ctx context.Context, p *models.Payment) error
	ListPayments(ctx context.Context, f PaymentFilter) ([]*models.Payment, error)
}

// CounterRepository hands out document-number sequences.
type CounterRepository interface {
	NextSequence(ctx context.Context, series string) (int64, error)
}

type UserRepository interface {
	CreateUser(ctx context.Context, user *models.AppUser) error
	GetUserByEmail(ctx context.Context, email string) (*models.AppUser, error)
	GetUserByID(ctx context.Context, id string) (*models.AppUser, error)
}

type CompanyRepository interface {
	SaveCompany(ctx context.Context, c *models.CompanyProfile) error
	GetCompany(ctx context.Context) (*models.CompanyProfile, error)
}

// Store bundles one backend's repositories.
type Store struct {
	Parties  PartyRepository
	Orders   OrderRepository
	Invoices InvoiceRepository
	Payments PaymentRepository
	Counters CounterRepository
	Users    UserRepository
	Company  CompanyRepository
}

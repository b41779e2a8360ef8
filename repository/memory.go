package repository

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"cableerp/models"
)

// MemoryRepo keeps every collection in process. Documents are copied on the
// way in and out so callers never share state with the store.
type MemoryRepo struct {
	mu       sync.Mutex
	parties  map[string]*models.Party
	orders   map[string]*models.Order
	invoices map[string]*models.Invoice
	payments []*models.Payment
	counters map[string]int64
	users    map[string]*models.AppUser
	company  *models.CompanyProfile
	// insertion sequence breaks createdAt ties
	seq   int64
	seqOf map[string]int64
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		parties:  map[string]*models.Party{},
		orders:   map[string]*models.Order{},
		invoices: map[string]*models.Invoice{},
		counters: map[string]int64{},
		users:    map[string]*models.AppUser{},
		seqOf:    map[string]int64{},
	}
}

// NewMemoryStore returns a Store whose repositories share one MemoryRepo.
func NewMemoryStore() *Store {
	m := NewMemoryRepo()
	return &Store{
		Parties:  m,
		Orders:   m,
		Invoices: m,
		Payments: m,
		Counters: m,
		Users:    m,
		Company:  m,
	}
}

func (m *MemoryRepo) track(id string) {
	m.seq++
	m.seqOf[id] = m.seq
}

func copyParty(p *models.Party) *models.Party {
	c := *p
	if p.DeliveryAddress != nil {
		a := *p.DeliveryAddress
		c.DeliveryAddress = &a
	}
	return &c
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

// ---------------------------- parties ----------------------------

func (m *MemoryRepo) CreateParty(_ context.Context, p *models.Party) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.parties[p.ID] = copyParty(p)
	m.track(p.ID)
	return nil
}

func (m *MemoryRepo) GetParty(_ context.Context, kind models.PartyKind, id string) (*models.Party, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.parties[id]
	if !ok || p.Kind != kind {
		return nil, nil
	}
	return copyParty(p), nil
}

func (m *MemoryRepo) ListParties(_ context.Context, kind models.PartyKind, search string) ([]*models.Party, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*models.Party{}
	for _, p := range m.parties {
		if p.Kind != kind || (search != "" && !containsFold(p.Name, search)) {
			continue
		}
		out = append(out, copyParty(p))
	}
	sort.Slice(out, func(i, j int) bool { return m.seqOf[out[i].ID] > m.seqOf[out[j].ID] })
	return out, nil
}

func (m *MemoryRepo) UpdateParty(_ context.Context, p *models.Party) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.parties[p.ID]
	if !ok || cur.Kind != p.Kind {
		return ErrNoDocument
	}
	next := copyParty(p)
	next.OutstandingBalance = cur.OutstandingBalance
	next.CreatedAt = cur.CreatedAt
	m.parties[p.ID] = next
	return nil
}

func (m *MemoryRepo) DeleteParty(_ context.Context, kind models.PartyKind, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.parties[id]
	if !ok || p.Kind != kind {
		return ErrNoDocument
	}
	delete(m.parties, id)
	return nil
}

func (m *MemoryRepo) IncrementBalance(_ context.Context, kind models.PartyKind, id string, delta decimal.Decimal) (*models.Party, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.parties[id]
	if !ok || p.Kind != kind {
		return nil, nil
	}
	p.OutstandingBalance = decimal.Max(decimal.Zero, p.OutstandingBalance.Add(delta))
	return copyParty(p), nil
}

func (m *MemoryRepo) SetBalance(_ context.Context, kind models.PartyKind, id string, balance decimal.Decimal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.parties[id]
	if !ok || p.Kind != kind {
		return ErrNoDocument
	}
	p.OutstandingBalance = decimal.Max(decimal.Zero, balance)
	return nil
}

// ---------------------------- orders ----------------------------

func (m *MemoryRepo) CreateOrder(_ context.Context, o *models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders[o.ID] = o.Clone()
	m.track(o.ID)
	return nil
}

func (m *MemoryRepo) GetOrder(_ context.Context, kind models.OrderKind, id string) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok || o.Kind != kind {
		return nil, nil
	}
	return o.Clone(), nil
}

func (m *MemoryRepo) ListOrders(_ context.Context, f OrderFilter) ([]*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*models.Order{}
	for _, o := range m.orders {
		if f.Kind != "" && o.Kind != f.Kind {
			continue
		}
		if f.PartyID != "" && o.PartyID != f.PartyID {
			continue
		}
		if len(f.PaymentStatuses) > 0 && !hasStatus(f.PaymentStatuses, o.PaymentStatus) {
			continue
		}
		if f.Search != "" && !containsFold(o.OrderNumber, f.Search) && !containsFold(o.PartyName, f.Search) {
			continue
		}
		out = append(out, o.Clone())
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		switch f.Sort {
		case OldestCreatedFirst:
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.Before(b.CreatedAt)
			}
			return m.seqOf[a.ID] < m.seqOf[b.ID]
		case NewestOrderDateFirst:
			if !a.OrderDate.Equal(b.OrderDate) {
				return a.OrderDate.After(b.OrderDate)
			}
		default:
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.After(b.CreatedAt)
			}
		}
		return m.seqOf[a.ID] > m.seqOf[b.ID]
	})
	return out, nil
}

func hasStatus(list []models.PaymentStatus, s models.PaymentStatus) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func (m *MemoryRepo) UpdateOrder(_ context.Context, o *models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.orders[o.ID]
	if !ok || cur.Kind != o.Kind {
		return ErrNoDocument
	}
	m.orders[o.ID] = o.Clone()
	return nil
}

func (m *MemoryRepo) DeleteOrder(_ context.Context, kind models.OrderKind, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok || o.Kind != kind {
		return ErrNoDocument
	}
	delete(m.orders, id)
	return nil
}

// ---------------------------- invoices ----------------------------

func (m *MemoryRepo) CreateInvoice(_ context.Context, inv *models.Invoice) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.invoices[inv.ID] = inv.Clone()
	m.track(inv.ID)
	return nil
}

func (m *MemoryRepo) GetInvoice(_ context.Context, id string) (*models.Invoice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.invoices[id].Clone(), nil
}

func (m *MemoryRepo) LatestInvoiceForOrder(_ context.Context, orderID string) (*models.Invoice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var latest *models.Invoice
	for _, inv := range m.invoices {
		if inv.SalesOrder != orderID {
			continue
		}
		if latest == nil || m.newerInvoice(inv, latest) {
			latest = inv
		}
	}
	return latest.Clone(), nil
}

func (m *MemoryRepo) newerInvoice(a, b *models.Invoice) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return m.seqOf[a.ID] > m.seqOf[b.ID]
}

func (m *MemoryRepo) ListInvoices(_ context.Context) ([]*models.Invoice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*models.Invoice, 0, len(m.invoices))
	for _, inv := range m.invoices {
		out = append(out, inv.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return m.newerInvoice(out[i], out[j]) })
	return out, nil
}

func (m *MemoryRepo) UpdateInvoice(_ context.Context, inv *models.Invoice) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.invoices[inv.ID]; !ok {
		return ErrNoDocument
	}
	m.invoices[inv.ID] = inv.Clone()
	return nil
}

func (m *MemoryRepo) DeleteInvoice(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.invoices[id]; !ok {
		return ErrNoDocument
	}
	delete(m.invoices, id)
	return nil
}

// ---------------------------- payments ----------------------------

func (m *MemoryRepo) CreatePayment(_ context.Context, p *models.Payment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := *p
	m.payments = append(m.payments, &c)
	m.track(p.ID)
	return nil
}

func (m *MemoryRepo) ListPayments(_ context.Context, f PaymentFilter) ([]*models.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*models.Payment{}
	for _, p := range m.payments {
		if f.Type != "" && p.Type != f.Type {
			continue
		}
		if f.PartyID != "" && p.Party.ID != f.PartyID {
			continue
		}
		if f.From != nil && p.PaymentDate.Before(*f.From) {
			continue
		}
		if f.To != nil && p.PaymentDate.After(*f.To) {
			continue
		}
		c := *p
		out = append(out, &c)
	}
	// newest first; later inserts win ties
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if !a.PaymentDate.Equal(b.PaymentDate) {
			return a.PaymentDate.After(b.PaymentDate)
		}
		return m.seqOf[a.ID] > m.seqOf[b.ID]
	})
	return out, nil
}

// ---------------------------- counters ----------------------------

func (m *MemoryRepo) NextSequence(_ context.Context, series string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters[series]++
	return m.counters[series], nil
}

// ---------------------------- users & company ----------------------------

func (m *MemoryRepo) CreateUser(_ context.Context, user *models.AppUser) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	email := strings.ToLower(strings.TrimSpace(user.Email))
	for _, u := range m.users {
		if u.Email == email {
			return ErrEmailTaken
		}
	}
	if err := prepareUser(user); err != nil {
		return err
	}
	c := *user
	m.users[user.ID] = &c
	return nil
}

func (m *MemoryRepo) GetUserByEmail(_ context.Context, email string) (*models.AppUser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range m.users {
		if u.Email == email {
			c := *u
			return &c, nil
		}
	}
	return nil, nil
}

func (m *MemoryRepo) GetUserByID(_ context.Context, id string) (*models.AppUser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	c := *u
	return &c, nil
}

func (m *MemoryRepo) SaveCompany(_ context.Context, c *models.CompanyProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c.ID == 0 {
		c.ID = 1
	}
	cp := *c
	cp.Mobile = append([]models.MobileEntry(nil), c.Mobile...)
	m.company = &cp
	return nil
}

func (m *MemoryRepo) GetCompany(_ context.Context) (*models.CompanyProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.company == nil {
		return nil, nil
	}
	cp := *m.company
	cp.Mobile = append([]models.MobileEntry(nil), m.company.Mobile...)
	return &cp, nil
}

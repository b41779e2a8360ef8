package repository

import (
	"context"
	"database/sql"
	"encoding/json"

	"cableerp/models"
)

type PostgresPaymentRepo struct {
	DB *sql.DB
}

func NewPostgresPaymentRepo(db *sql.DB) *PostgresPaymentRepo {
	return &PostgresPaymentRepo{DB: db}
}

func (r *PostgresPaymentRepo) CreatePayment(ctx context.Context, p *models.Payment) error {
	doc, err := json.Marshal(p)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx, `
		INSERT INTO payments (id, type, party_id, payment_date, created_at, doc)
		VALUES ($1,$2,$3,$4,$5,$6)
	`, p.ID, p.Type, p.Party.ID, p.PaymentDate, p.CreatedAt, doc)
	return err
}

func (r *PostgresPaymentRepo) ListPayments(ctx context.Context, f PaymentFilter) ([]*models.Payment, error) {
	w := &whereBuilder{}
	if f.Type != "" {
		w.add("type = ?", f.Type)
	}
	if f.PartyID != "" {
		w.add("party_id = ?", f.PartyID)
	}
	if f.From != nil {
		w.add("payment_date >= ?", *f.From)
	}
	if f.To != nil {
		w.add("payment_date <= ?", *f.To)
	}
	return queryDocs[models.Payment](ctx, r.DB,
		`SELECT doc FROM payments`+w.String()+` ORDER BY payment_date DESC, id DESC`, w.args...)
}

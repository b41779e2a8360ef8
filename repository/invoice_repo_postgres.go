package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"cableerp/models"
)

type PostgresInvoiceRepo struct {
	DB *sql.DB
}

func NewPostgresInvoiceRepo(db *sql.DB) *PostgresInvoiceRepo {
	return &PostgresInvoiceRepo{DB: db}
}

func (r *PostgresInvoiceRepo) CreateInvoice(ctx context.Context, inv *models.Invoice) error {
	doc, err := json.Marshal(inv)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx, `
		INSERT INTO invoices (id, invoice_number, sales_order, created_at, doc)
		VALUES ($1,$2,$3,$4,$5)
	`, inv.ID, inv.InvoiceNumber, inv.SalesOrder, inv.CreatedAt, doc)
	return err
}

func (r *PostgresInvoiceRepo) one(ctx context.Context, query string, args ...interface{}) (*models.Invoice, error) {
	inv, err := scanDoc[models.Invoice](r.DB.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return inv, err
}

func (r *PostgresInvoiceRepo) GetInvoice(ctx context.Context, id string) (*models.Invoice, error) {
	return r.one(ctx, `SELECT doc FROM invoices WHERE id=$1`, id)
}

func (r *PostgresInvoiceRepo) LatestInvoiceForOrder(ctx context.Context, orderID string) (*models.Invoice, error) {
	return r.one(ctx, `SELECT doc FROM invoices WHERE sales_order=$1 ORDER BY created_at DESC, id DESC LIMIT 1`, orderID)
}

func (r *PostgresInvoiceRepo) ListInvoices(ctx context.Context) ([]*models.Invoice, error) {
	return queryDocs[models.Invoice](ctx, r.DB, `SELECT doc FROM invoices ORDER BY created_at DESC, id DESC`)
}

func (r *PostgresInvoiceRepo) UpdateInvoice(ctx context.Context, inv *models.Invoice) error {
	doc, err := json.Marshal(inv)
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx, `UPDATE invoices SET sales_order=$2, doc=$3 WHERE id=$1`, inv.ID, inv.SalesOrder, doc)
	if err != nil {
		return err
	}
	return affected(res)
}

func (r *PostgresInvoiceRepo) DeleteInvoice(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM invoices WHERE id=$1`, id)
	if err != nil {
		return err
	}
	return affected(res)
}

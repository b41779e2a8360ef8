package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/lib/pq"

	"cableerp/models"
)

// PostgresOrderRepo stores the full order as JSONB next to the columns
// that list queries filter and sort on.
type PostgresOrderRepo struct {
	DB *sql.DB
}

func NewPostgresOrderRepo(db *sql.DB) *PostgresOrderRepo {
	return &PostgresOrderRepo{DB: db}
}

func scanDoc[T any](row rowScanner) (*T, error) {
	var raw []byte
	if err := row.Scan(&raw); err != nil {
		return nil, err
	}
	v := new(T)
	if err := json.Unmarshal(raw, v); err != nil {
		return nil, err
	}
	return v, nil
}

func queryDocs[T any](ctx context.Context, db *sql.DB, query string, args ...interface{}) ([]*T, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*T{}
	for rows.Next() {
		v, err := scanDoc[T](rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r *PostgresOrderRepo) CreateOrder(ctx context.Context, o *models.Order) error {
	doc, err := json.Marshal(o)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx, `
		INSERT INTO orders (id, kind, order_number, party_id, party_name, payment_status,
			outstanding_amount, order_date, created_at, doc)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`, o.ID, o.Kind, o.OrderNumber, o.PartyID, o.PartyName, o.PaymentStatus,
		o.OutstandingAmount, o.OrderDate, o.CreatedAt, doc)
	return err
}

func (r *PostgresOrderRepo) GetOrder(ctx context.Context, kind models.OrderKind, id string) (*models.Order, error) {
	o, err := scanDoc[models.Order](r.DB.QueryRowContext(ctx,
		`SELECT doc FROM orders WHERE id=$1 AND kind=$2`, id, kind))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return o, err
}

func (r *PostgresOrderRepo) ListOrders(ctx context.Context, f OrderFilter) ([]*models.Order, error) {
	w := &whereBuilder{}
	if f.Kind != "" {
		w.add("kind = ?", f.Kind)
	}
	if f.PartyID != "" {
		w.add("party_id = ?", f.PartyID)
	}
	if len(f.PaymentStatuses) > 0 {
		statuses := make([]string, len(f.PaymentStatuses))
		for i, s := range f.PaymentStatuses {
			statuses[i] = string(s)
		}
		w.add("payment_status = ANY(?)", pq.Array(statuses))
	}
	if f.Search != "" {
		pattern := likePattern(f.Search)
		w.add("(order_number ILIKE ? OR party_name ILIKE ?)", pattern, pattern)
	}

	order := " ORDER BY created_at DESC, id DESC"
	switch f.Sort {
	case OldestCreatedFirst:
		order = " ORDER BY created_at ASC, id ASC"
	case NewestOrderDateFirst:
		order = " ORDER BY order_date DESC, id DESC"
	}

	return queryDocs[models.Order](ctx, r.DB, `SELECT doc FROM orders`+w.String()+order, w.args...)
}

func (r *PostgresOrderRepo) UpdateOrder(ctx context.Context, o *models.Order) error {
	doc, err := json.Marshal(o)
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx, `
		UPDATE orders
		SET party_id=$3, party_name=$4, payment_status=$5, outstanding_amount=$6, order_date=$7, doc=$8
		WHERE id=$1 AND kind=$2
	`, o.ID, o.Kind, o.PartyID, o.PartyName, o.PaymentStatus, o.OutstandingAmount, o.OrderDate, doc)
	if err != nil {
		return err
	}
	return affected(res)
}

func (r *PostgresOrderRepo) DeleteOrder(ctx context.Context, kind models.OrderKind, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM orders WHERE id=$1 AND kind=$2`, id, kind)
	if err != nil {
		return err
	}
	return affected(res)
}

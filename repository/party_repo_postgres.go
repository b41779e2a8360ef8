package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/shopspring/decimal"

	"cableerp/models"
)

type PostgresPartyRepo struct {
	DB *sql.DB
}

func NewPostgresPartyRepo(db *sql.DB) *PostgresPartyRepo {
	return &PostgresPartyRepo{DB: db}
}

const partyColumns = `id, kind, name, email, phone, contact_person, billing_address, delivery_address,
	gst_number, outstanding_balance, status, created_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanParty(row rowScanner) (*models.Party, error) {
	p := &models.Party{}
	var billing []byte
	var delivery []byte
	err := row.Scan(&p.ID, &p.Kind, &p.Name, &p.Email, &p.Phone, &p.ContactPerson, &billing, &delivery,
		&p.GSTNumber, &p.OutstandingBalance, &p.Status, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	if len(billing) > 0 {
		if err := json.Unmarshal(billing, &p.BillingAddress); err != nil {
			return nil, err
		}
	}
	if len(delivery) > 0 && string(delivery) != "null" {
		p.DeliveryAddress = &models.Address{}
		if err := json.Unmarshal(delivery, p.DeliveryAddress); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// partyAddresses encodes the JSONB address columns. delivery stays an untyped
// nil when absent so the driver writes NULL.
func partyAddresses(p *models.Party) (billing []byte, delivery interface{}, err error) {
	if billing, err = json.Marshal(p.BillingAddress); err != nil {
		return nil, nil, err
	}
	if p.DeliveryAddress != nil {
		raw, err := json.Marshal(p.DeliveryAddress)
		if err != nil {
			return nil, nil, err
		}
		delivery = raw
	}
	return billing, delivery, nil
}

func (r *PostgresPartyRepo) CreateParty(ctx context.Context, p *models.Party) error {
	billing, delivery, err := partyAddresses(p)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx, `
		INSERT INTO parties (`+partyColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
	`, p.ID, p.Kind, p.Name, p.Email, p.Phone, p.ContactPerson, billing, delivery,
		p.GSTNumber, p.OutstandingBalance, p.Status, p.CreatedAt)
	return err
}

func (r *PostgresPartyRepo) GetParty(ctx context.Context, kind models.PartyKind, id string) (*models.Party, error) {
	p, err := scanParty(r.DB.QueryRowContext(ctx,
		`SELECT `+partyColumns+` FROM parties WHERE id=$1 AND kind=$2`, id, kind))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return p, err
}

func (r *PostgresPartyRepo) ListParties(ctx context.Context, kind models.PartyKind, search string) ([]*models.Party, error) {
	w := &whereBuilder{}
	w.add("kind = ?", kind)
	if search != "" {
		w.add("name ILIKE ?", likePattern(search))
	}
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+partyColumns+` FROM parties`+w.String()+` ORDER BY created_at DESC, id DESC`, w.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*models.Party{}
	for rows.Next() {
		p, err := scanParty(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PostgresPartyRepo) UpdateParty(ctx context.Context, p *models.Party) error {
	billing, delivery, err := partyAddresses(p)
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx, `
		UPDATE parties
		SET name=$3, email=$4, phone=$5, contact_person=$6, billing_address=$7,
			delivery_address=$8, gst_number=$9, status=$10
		WHERE id=$1 AND kind=$2
	`, p.ID, p.Kind, p.Name, p.Email, p.Phone, p.ContactPerson, billing, delivery, p.GSTNumber, p.Status)
	if err != nil {
		return err
	}
	return affected(res)
}

func (r *PostgresPartyRepo) DeleteParty(ctx context.Context, kind models.PartyKind, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM parties WHERE id=$1 AND kind=$2`, id, kind)
	if err != nil {
		return err
	}
	return affected(res)
}

func (r *PostgresPartyRepo) IncrementBalance(ctx context.Context, kind models.PartyKind, id string, delta decimal.Decimal) (*models.Party, error) {
	p, err := scanParty(r.DB.QueryRowContext(ctx, `
		UPDATE parties
		SET outstanding_balance = GREATEST(0, outstanding_balance + $3)
		WHERE id=$1 AND kind=$2
		RETURNING `+partyColumns, id, kind, delta))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return p, err
}

func (r *PostgresPartyRepo) SetBalance(ctx context.Context, kind models.PartyKind, id string, balance decimal.Decimal) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE parties SET outstanding_balance = GREATEST(0, $3::numeric) WHERE id=$1 AND kind=$2`, id, kind, balance)
	if err != nil {
		return err
	}
	return affected(res)
}

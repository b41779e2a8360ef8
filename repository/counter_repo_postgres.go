package repository

import (
	"context"
	"database/sql"
)

type PostgresCounterRepo struct {
	DB *sql.DB
}

func NewPostgresCounterRepo(db *sql.DB) *PostgresCounterRepo {
	return &PostgresCounterRepo{DB: db}
}

func (r *PostgresCounterRepo) NextSequence(ctx context.Context, series string) (int64, error) {
	var seq int64
	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO counters (series, seq) VALUES ($1, 1)
		ON CONFLICT (series) DO UPDATE SET seq = counters.seq + 1
		RETURNING seq
	`, series).Scan(&seq)
	return seq, err
}

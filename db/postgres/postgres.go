package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// Pool sizes for the ledger workload: short single-row updates, a few
// listing queries, and one counter upsert per document.
const (
	maxOpenConns    = 10
	maxIdleConns    = 2
	connMaxLifetime = 30 * time.Minute
	connMaxIdleTime = 5 * time.Minute
	connectTimeout  = 5 * time.Second
)

type PostgresDB struct {
	Conn   *sql.DB
	Ctx    context.Context
	Cancel context.CancelFunc
	URL    string
}

func NewPostgresDB(url string) *PostgresDB {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	return &PostgresDB{
		Ctx:    ctx,
		Cancel: cancel,
		URL:    url,
	}
}

// Connect opens the pool and checks the server answers before the store is
// built on top of it.
func (p *PostgresDB) Connect() error {
	conn, err := sql.Open("postgres", p.URL)
	if err != nil {
		return fmt.Errorf("open postgres: %w", err)
	}
	conn.SetMaxOpenConns(maxOpenConns)
	conn.SetMaxIdleConns(maxIdleConns)
	conn.SetConnMaxLifetime(connMaxLifetime)
	conn.SetConnMaxIdleTime(connMaxIdleTime)

	if err := conn.PingContext(p.Ctx); err != nil {
		conn.Close()
		return fmt.Errorf("ping postgres: %w", err)
	}
	p.Conn = conn
	return nil
}

func (p *PostgresDB) Disconnect() error {
	p.Cancel()
	if p.Conn == nil {
		return nil
	}
	if err := p.Conn.Close(); err != nil {
		return fmt.Errorf("close postgres: %w", err)
	}
	return nil
}

func (p *PostgresDB) GetContext() context.Context {
	return p.Ctx
}

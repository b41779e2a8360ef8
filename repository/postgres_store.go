package repository

import (
	"database/sql"
	"fmt"
	"strings"
)

// NewPostgresStore wires every repository to one connection pool. The schema
// comes from db/migrations.
func NewPostgresStore(db *sql.DB) *Store {
	return &Store{
		Parties:  NewPostgresPartyRepo(db),
		Orders:   NewPostgresOrderRepo(db),
		Invoices: NewPostgresInvoiceRepo(db),
		Payments: NewPostgresPaymentRepo(db),
		Counters: NewPostgresCounterRepo(db),
		Users:    NewPostgresUserRepo(db),
		Company:  NewPostgresCompanyRepo(db),
	}
}

// whereBuilder collects AND-ed conditions with numbered placeholders.
type whereBuilder struct {
	conds []string
	args  []interface{}
}

// add appends cond, replacing each ? with the next $n.
func (w *whereBuilder) add(cond string, args ...interface{}) {
	for _, a := range args {
		w.args = append(w.args, a)
		cond = strings.Replace(cond, "?", fmt.Sprintf("$%d", len(w.args)), 1)
	}
	w.conds = append(w.conds, cond)
}

func (w *whereBuilder) String() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}

func affected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNoDocument
	}
	return nil
}

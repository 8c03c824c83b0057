// Package repository is the hand-written query layer over PostgreSQL.
//
// Queries follow a narrow contract: callers receive row types with database
// null semantics intact; the service layer converts them to domain types.
// All methods run against the DBTX they were constructed with, so a *sql.Tx
// can be substituted via WithTx for transactional sequences.
package repository

import (
	"context"
	"database/sql"
)

// DBTX is the subset of database/sql used by the query layer. Satisfied by
// both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// Queries holds the prepared query methods.
type Queries struct {
	db DBTX
}

// New creates a Queries bound to the given database handle.
func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// WithTx returns a Queries bound to the given transaction.
func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

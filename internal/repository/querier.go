// Package repository provides data access layer implementations for the
// account service.
package repository

import (
	"context"
	"database/sql"
)

// Querier is the subset of database/sql shared by *db.DB and *sql.Tx.
// Services build tx-scoped repositories over an open transaction so that a
// whole operation commits or rolls back as one unit.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

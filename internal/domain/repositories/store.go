package repositories

import (
	"context"
	"errors"
)

var (
	// ErrNoRows is returned by Row.Scan when the query matched nothing.
	ErrNoRows = errors.New("no rows in result set")
	// ErrDuplicate wraps unique constraint violations reported by the database.
	ErrDuplicate = errors.New("duplicate key")
)

// Row is a single-row query result.
type Row interface {
	Scan(dest ...any) error
}

// Rows is a multi-row query result. Callers must Close it.
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
}

// Result describes the outcome of Execute. LastInsertID is only populated by
// drivers that report it; inserts that need the new id use RETURNING.
type Result struct {
	LastInsertID int64
	RowsAffected int64
}

// TxFn is the unit of work passed to ExecTx.
type TxFn func(ctx context.Context) error

// TransactionManager runs a unit of work atomically. Nested calls join the
// outer transaction.
type TransactionManager interface {
	ExecTx(ctx context.Context, fn TxFn) error
}

// Store is the capability interface over the relational database.
// Statements use "?" placeholders regardless of the backing dialect.
// When ctx carries a transaction started by ExecTx, every call joins it.
type Store interface {
	Query(ctx context.Context, query string, args ...any) (Rows, error)
	QueryOne(ctx context.Context, query string, args ...any) Row
	Execute(ctx context.Context, query string, args ...any) (Result, error)
	TransactionManager
}

package postgres

import (
	"context"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"marketplace/internal/domain/repositories"
)

// Store implements repositories.Store on a pgx pool.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore wraps an open pool. The caller owns the pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) Query(ctx context.Context, query string, args ...any) (repositories.Rows, error) {
	rows, err := s.conn(ctx).Query(ctx, Rebind(query), args...)
	if err != nil {
		return nil, translateError(err)
	}
	return &pgRows{rows: rows}, nil
}

func (s *Store) QueryOne(ctx context.Context, query string, args ...any) repositories.Row {
	return &pgRow{row: s.conn(ctx).QueryRow(ctx, Rebind(query), args...)}
}

// Execute runs a statement. Postgres does not report a last insert id, so
// Result.LastInsertID is always zero here.
func (s *Store) Execute(ctx context.Context, query string, args ...any) (repositories.Result, error) {
	tag, err := s.conn(ctx).Exec(ctx, Rebind(query), args...)
	if err != nil {
		return repositories.Result{}, translateError(err)
	}
	return repositories.Result{RowsAffected: tag.RowsAffected()}, nil
}

type pgRow struct {
	row pgx.Row
}

func (r *pgRow) Scan(dest ...any) error {
	return translateError(r.row.Scan(dest...))
}

type pgRows struct {
	rows pgx.Rows
}

func (r *pgRows) Next() bool             { return r.rows.Next() }
func (r *pgRows) Scan(dest ...any) error { return r.rows.Scan(dest...) }
func (r *pgRows) Err() error             { return translateError(r.rows.Err()) }

func (r *pgRows) Close() error {
	r.rows.Close()
	return nil
}

// Rebind rewrites "?" placeholders to Postgres "$n" placeholders, leaving
// question marks inside quoted literals alone.
func Rebind(query string) string {
	if !strings.Contains(query, "?") {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)

	n := 0
	var quote rune
	for _, c := range query {
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
			b.WriteRune(c)
		case c == '\'' || c == '"':
			quote = c
			b.WriteRune(c)
		case c == '?':
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
		default:
			b.WriteRune(c)
		}
	}
	return b.String()
}

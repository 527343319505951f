// Package testutil provides a migrated SQLite store and row fixtures for
// tests that exercise the SQL paths.
package testutil

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"marketplace/internal/domain/models"
	"marketplace/internal/repository/migrations"
	"marketplace/internal/repository/sqlite"
)

// NewStore opens a fresh database file under t.TempDir and migrates it.
func NewStore(t testing.TB) *sqlite.Store {
	t.Helper()

	db, err := sqlite.OpenConnection(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := migrations.MigrateUp(db, migrations.DialectSQLite); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return sqlite.NewStore(db)
}

// InsertUser adds an account and returns its principal.
func InsertUser(t testing.TB, store *sqlite.Store, email string, role models.Role) models.Principal {
	t.Helper()

	var id int64
	err := store.QueryOne(context.Background(),
		`INSERT INTO users (email, password_hash, full_name, role, created_at) VALUES (?, ?, ?, ?, ?) RETURNING id`,
		email, "x", email, role, time.Now().UTC(),
	).Scan(&id)
	if err != nil {
		t.Fatalf("insert user %s: %v", email, err)
	}
	return models.Principal{ID: id, Role: role}
}

// InsertGig adds a gig owned by freelancerID.
func InsertGig(t testing.TB, store *sqlite.Store, freelancerID int64) int64 {
	t.Helper()

	var id int64
	err := store.QueryOne(context.Background(),
		`INSERT INTO gigs (freelancer_id, title) VALUES (?, ?) RETURNING id`,
		freelancerID, "gig",
	).Scan(&id)
	if err != nil {
		t.Fatalf("insert gig: %v", err)
	}
	return id
}

// InsertOrder adds an order on gigID between clientID and freelancerID.
func InsertOrder(t testing.TB, store *sqlite.Store, gigID, clientID, freelancerID int64) int64 {
	t.Helper()

	var id int64
	err := store.QueryOne(context.Background(),
		`INSERT INTO orders (gig_id, client_id, freelancer_id) VALUES (?, ?, ?) RETURNING id`,
		gigID, clientID, freelancerID,
	).Scan(&id)
	if err != nil {
		t.Fatalf("insert order: %v", err)
	}
	return id
}

package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"marketplace/internal/config"
	"marketplace/internal/domain/services"
	"marketplace/internal/repository/migrations"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestOpenDatabase_SQLite(t *testing.T) {
	cfg := &config.Config{
		DatabaseDriver: "sqlite",
		DatabaseURL:    filepath.Join(t.TempDir(), "app.db"),
	}

	db, err := OpenDatabase(context.Background(), cfg, discardLogger())
	if err != nil {
		t.Fatalf("OpenDatabase() error = %v", err)
	}
	defer db.Close()

	if db.Dialect != migrations.DialectSQLite {
		t.Errorf("Dialect = %q", db.Dialect)
	}
	if err := db.Ping(context.Background()); err != nil {
		t.Errorf("Ping() error = %v", err)
	}
	if err := migrations.MigrateUp(db.SQL, db.Dialect); err != nil {
		t.Fatalf("MigrateUp() error = %v", err)
	}
}

func TestOpenDatabase_UnknownDriver(t *testing.T) {
	_, err := OpenDatabase(context.Background(), &config.Config{DatabaseDriver: "oracle"}, discardLogger())
	if err == nil || !strings.Contains(err.Error(), "oracle") {
		t.Errorf("OpenDatabase() error = %v, want unsupported driver", err)
	}
}

func TestOpenBlobStore(t *testing.T) {
	store, closeFn, err := OpenBlobStore(context.Background(), &config.Config{
		BlobBackend: "local",
		UploadDir:   filepath.Join(t.TempDir(), "uploads"),
	}, discardLogger())
	if err != nil {
		t.Fatalf("OpenBlobStore() error = %v", err)
	}
	defer closeFn()

	if ok, err := store.Exists(context.Background(), "missing.txt"); err != nil || ok {
		t.Errorf("Exists(missing) = %v, %v", ok, err)
	}

	if _, _, err := OpenBlobStore(context.Background(), &config.Config{BlobBackend: "ftp"}, discardLogger()); err == nil {
		t.Error("expected error for unknown backend")
	}
}

func TestNewTokenAuth(t *testing.T) {
	t.Run("ephemeral secret in dev", func(t *testing.T) {
		issuer, verifier, err := NewTokenAuth(context.Background(), &config.Config{Environment: "dev"}, discardLogger())
		if err != nil {
			t.Fatalf("NewTokenAuth() error = %v", err)
		}
		if verifier != issuer {
			t.Error("without JWKS the issuer should verify its own tokens")
		}
	})

	t.Run("secret required in prod", func(t *testing.T) {
		if _, _, err := NewTokenAuth(context.Background(), &config.Config{Environment: "prod"}, discardLogger()); err == nil {
			t.Error("expected error without JWT_SECRET in prod")
		}
	})
}

type reconcileStub struct {
	services.FileService
	calls int
	err   error
}

func (s *reconcileStub) ReconcilePendingDeletes(context.Context) (services.ReconcileResult, error) {
	s.calls++
	return services.ReconcileResult{Completed: 2}, s.err
}

func TestFileReconcileJob(t *testing.T) {
	stub := &reconcileStub{}
	job := FileReconcileJob(stub)

	if err := job(context.Background()); err != nil {
		t.Fatalf("job() error = %v", err)
	}

	stub.err = errors.New("list pending: db closed")
	if err := job(context.Background()); !errors.Is(err, stub.err) {
		t.Errorf("job() error = %v, want %v", err, stub.err)
	}
	if stub.calls != 2 {
		t.Errorf("calls = %d, want 2", stub.calls)
	}
}

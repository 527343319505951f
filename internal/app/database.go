// Package app assembles the database and blob storage shared by the server
// and the admin CLI.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"marketplace/internal/config"
	"marketplace/internal/domain/repositories"
	"marketplace/internal/repository/migrations"
	"marketplace/internal/repository/postgres"
	"marketplace/internal/repository/sqlite"
)

// Database is an open store plus the handle migrations run against
type Database struct {
	Store   repositories.Store
	Dialect migrations.Dialect

	// SQL is the database/sql handle used by golang-migrate. For SQLite it
	// is also the handle behind Store.
	SQL *sql.DB

	Ping func(ctx context.Context) error

	closers []func()
}

// OpenDatabase connects using DATABASE_DRIVER and DATABASE_URL
func OpenDatabase(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Database, error) {
	switch cfg.DatabaseDriver {
	case "sqlite":
		db, err := sqlite.OpenConnection(cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		logger.Info("database connected", "driver", "sqlite", "path", cfg.DatabaseURL)
		return &Database{
			Store:   sqlite.NewStore(db),
			Dialect: migrations.DialectSQLite,
			SQL:     db,
			Ping:    db.PingContext,
			closers: []func(){func() { db.Close() }},
		}, nil

	case "postgres", "postgresql":
		pool, err := postgres.OpenPool(ctx, cfg.DatabaseURL, postgres.PoolOptions{
			MaxConns: int32(cfg.DBMaxConns),
			MinConns: int32(cfg.DBMinConns),
		}, logger)
		if err != nil {
			return nil, err
		}
		db, err := migrations.OpenPostgres(cfg.DatabaseURL)
		if err != nil {
			pool.Close()
			return nil, err
		}
		logger.Info("database connected",
			"driver", "postgres",
			"max_conns", pool.Config().MaxConns,
			"min_conns", pool.Config().MinConns,
		)
		return &Database{
			Store:   postgres.NewStore(pool),
			Dialect: migrations.DialectPostgres,
			SQL:     db,
			Ping:    pool.Ping,
			closers: []func(){func() { db.Close() }, pool.Close},
		}, nil

	default:
		return nil, fmt.Errorf("unsupported DATABASE_DRIVER %q (want sqlite or postgres)", cfg.DatabaseDriver)
	}
}

// Close releases every connection
func (d *Database) Close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		d.closers[i]()
	}
}

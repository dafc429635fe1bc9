package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"whisp/internal/config"
	"whisp/internal/logger"
	"whisp/migrations"
)

// DB wraps the sql.DB connection together with the driver-specific error
// classifier and the goose dialect used for migrations.
type DB struct {
	*sql.DB
	errorClassificator ErrorClassificator
	dialect            string
	logger             *logger.Logger
}

// Migrate applies all pending schema migrations for this connection's dialect.
func (db *DB) Migrate() error {
	return migrations.Migrate(db.DB, db.dialect)
}

// NewConnect opens the record-store database described by cfg. A
// "postgres://" (or "postgresql://") DSN selects the pgx driver; any other
// DSN is treated as an SQLite database path.
func NewConnect(ctx context.Context, cfg config.DB, log *logger.Logger) (*DB, error) {
	if isPostgresDSN(cfg.DSN) {
		return NewConnectPostgres(ctx, cfg, log)
	}

	return NewConnectSQLite(ctx, cfg, log)
}

func isPostgresDSN(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

// ping verifies the freshly opened connection before it is handed out.
func ping(ctx context.Context, conn *sql.DB, driver string) error {
	if err := conn.PingContext(ctx); err != nil {
		return fmt.Errorf("error pinging %s database: %w", driver, err)
	}

	return nil
}

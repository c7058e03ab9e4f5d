package ledger

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL driver

	infraconfig "github.com/jonesrussell/north-cloud/verifier/infrastructure/config"
	infracontext "github.com/jonesrussell/north-cloud/verifier/infrastructure/context"
)

var postgresDialect = dialect{
	schema: `
		CREATE TABLE IF NOT EXISTS news_sources (
			domain     TEXT PRIMARY KEY,
			data       JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
	upsert: `
		INSERT INTO news_sources (domain, data, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (domain) DO UPDATE
		SET data = EXCLUDED.data, updated_at = NOW()`,
}

// NewPostgresStore wraps an open PostgreSQL handle.
func NewPostgresStore(db *sqlx.DB) *SQLStore {
	return &SQLStore{db: db, dialect: postgresDialect}
}

// OpenPostgres connects with the pool settings from cfg and verifies the
// connection.
func OpenPostgres(ctx context.Context, cfg infraconfig.DatabaseConfig) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxConnections)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	pingCtx, cancel := infracontext.WithPingTimeout(ctx)
	defer cancel()

	if pingErr := db.PingContext(pingCtx); pingErr != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", pingErr)
	}
	return db, nil
}

package ledger

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

var sqliteDialect = dialect{
	schema: `
		CREATE TABLE IF NOT EXISTS news_sources (
			domain     TEXT PRIMARY KEY,
			data       TEXT NOT NULL,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
	upsert: `
		INSERT INTO news_sources (domain, data, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (domain) DO UPDATE
		SET data = excluded.data, updated_at = CURRENT_TIMESTAMP`,
}

// NewSQLiteStore wraps an open SQLite handle.
func NewSQLiteStore(db *sqlx.DB) *SQLStore {
	return &SQLStore{db: db, dialect: sqliteDialect}
}

// OpenSQLite opens the database file at path. SQLite serializes writers,
// so the pool is limited to one connection.
func OpenSQLite(path string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	db.SetMaxOpenConns(1)
	return db, nil
}

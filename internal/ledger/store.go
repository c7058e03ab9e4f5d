package ledger

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"

	infraerrors "github.com/jonesrussell/north-cloud/verifier/infrastructure/errors"
	"github.com/jonesrussell/north-cloud/verifier/internal/domain"
)

// SQLStore keeps one JSON document per domain in a news_sources table.
// The dialect decides the column types and placeholder style.
type SQLStore struct {
	db      *sqlx.DB
	dialect dialect
}

type dialect struct {
	schema string
	upsert string
}

type sourceRow struct {
	Domain string `db:"domain"`
	Data   []byte `db:"data"`
}

const selectSources = `SELECT domain, data FROM news_sources ORDER BY domain`

// Migrate creates the news_sources table if it does not exist.
func (s *SQLStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, s.dialect.schema); err != nil {
		return infraerrors.WrapWithContext(err, "failed to create news_sources table")
	}
	return nil
}

// LoadAll reads every stored source.
func (s *SQLStore) LoadAll(ctx context.Context) ([]*domain.NewsSource, error) {
	var rows []sourceRow
	if err := s.db.SelectContext(ctx, &rows, selectSources); err != nil {
		return nil, infraerrors.WrapWithContext(err, "failed to load news sources")
	}

	sources := make([]*domain.NewsSource, 0, len(rows))
	for _, row := range rows {
		var src domain.NewsSource
		if err := json.Unmarshal(row.Data, &src); err != nil {
			return nil, fmt.Errorf("decode source %s: %w", row.Domain, err)
		}
		src.Domain = row.Domain
		sources = append(sources, &src)
	}
	return sources, nil
}

// Save upserts source.
func (s *SQLStore) Save(ctx context.Context, source *domain.NewsSource) error {
	data, err := json.Marshal(source)
	if err != nil {
		return fmt.Errorf("encode source %s: %w", source.Domain, err)
	}
	if _, execErr := s.db.ExecContext(ctx, s.dialect.upsert, source.Domain, data); execErr != nil {
		return infraerrors.WrapWithContextf(execErr, "failed to save source %s", source.Domain)
	}
	return nil
}

// Close closes the database handle.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

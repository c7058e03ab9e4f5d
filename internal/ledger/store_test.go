package ledger_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/north-cloud/verifier/internal/domain"
	"github.com/jonesrussell/north-cloud/verifier/internal/ledger"
)

func newMockStore(t *testing.T) (*ledger.SQLStore, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return ledger.NewPostgresStore(sqlx.NewDb(db, "postgres")), mock
}

func TestPostgresStore_Migrate(t *testing.T) {
	t.Parallel()

	store, mock := newMockStore(t)
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS news_sources")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, store.Migrate(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Save(t *testing.T) {
	t.Parallel()

	store, mock := newMockStore(t)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO news_sources")).
		WithArgs("bbc.co.uk", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := store.Save(context.Background(), &domain.NewsSource{Domain: "bbc.co.uk", TotalVerifications: 3})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_SaveError(t *testing.T) {
	t.Parallel()

	store, mock := newMockStore(t)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO news_sources")).
		WillReturnError(sql.ErrConnDone)

	err := store.Save(context.Background(), &domain.NewsSource{Domain: "bbc.co.uk"})
	require.ErrorIs(t, err, sql.ErrConnDone)
}

func TestPostgresStore_LoadAll(t *testing.T) {
	t.Parallel()

	store, mock := newMockStore(t)
	data, err := json.Marshal(&domain.NewsSource{
		DisplayName:        "BBC Sport",
		KnownAuthors:       []string{"Simon Stone"},
		TotalVerifications: 7,
		RiskProfile:        domain.RiskProfileLow,
	})
	require.NoError(t, err)

	rows := sqlmock.NewRows([]string{"domain", "data"}).AddRow("bbc.co.uk", data)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT domain, data FROM news_sources")).WillReturnRows(rows)

	sources, err := store.LoadAll(context.Background())
	require.NoError(t, err)
	require.Len(t, sources, 1)
	assert.Equal(t, "bbc.co.uk", sources[0].Domain)
	assert.Equal(t, "BBC Sport", sources[0].DisplayName)
	assert.Equal(t, 7, sources[0].TotalVerifications)
}

func TestPostgresStore_LoadAllCorruptRow(t *testing.T) {
	t.Parallel()

	store, mock := newMockStore(t)
	rows := sqlmock.NewRows([]string{"domain", "data"}).AddRow("bbc.co.uk", []byte("{"))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT domain, data FROM news_sources")).WillReturnRows(rows)

	_, err := store.LoadAll(context.Background())
	require.Error(t, err)
}

func TestSQLiteStore_RoundTrip(t *testing.T) {
	t.Parallel()

	db, err := ledger.OpenSQLite(filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	store := ledger.NewSQLiteStore(db)
	t.Cleanup(func() { _ = store.Close() })

	ctx := context.Background()
	require.NoError(t, store.Migrate(ctx))
	require.NoError(t, store.Migrate(ctx))

	first := &domain.NewsSource{Domain: "bbc.co.uk", TotalVerifications: 1, RiskProfile: domain.RiskProfileLow}
	require.NoError(t, store.Save(ctx, first))
	first.TotalVerifications = 2
	first.KnownAuthors = []string{"Simon Stone"}
	require.NoError(t, store.Save(ctx, first))
	require.NoError(t, store.Save(ctx, &domain.NewsSource{Domain: "example.com", RiskProfile: domain.RiskProfileHigh}))

	sources, err := store.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, sources, 2)
	assert.Equal(t, "bbc.co.uk", sources[0].Domain)
	assert.Equal(t, 2, sources[0].TotalVerifications)
	assert.Equal(t, []string{"Simon Stone"}, sources[0].KnownAuthors)
	assert.Equal(t, domain.RiskProfileHigh, sources[1].RiskProfile)
}

func TestSQLiteStore_BacksLedger(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "ledger.db")
	ctx := context.Background()

	db, err := ledger.OpenSQLite(path)
	require.NoError(t, err)
	store := ledger.NewSQLiteStore(db)
	require.NoError(t, store.Migrate(ctx))

	l := newLedger(t, store)
	require.NoError(t, l.Record(ctx, "skysports.com", "Kaveh Solhekol", scored(85, 0, epoch)))
	require.NoError(t, l.Close())

	db, err = ledger.OpenSQLite(path)
	require.NoError(t, err)
	reopened := ledger.NewSQLiteStore(db)
	t.Cleanup(func() { _ = reopened.Close() })

	src, ok := newLedger(t, reopened).Get("skysports.com")
	require.True(t, ok)
	assert.Equal(t, []string{"Kaveh Solhekol"}, src.KnownAuthors)
	require.Len(t, src.VerificationHistory, 1)
	assert.Equal(t, 85, src.VerificationHistory[0].VerificationScore)
}

package ledger_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/north-cloud/verifier/internal/domain"
	"github.com/jonesrussell/north-cloud/verifier/internal/ledger"
	"github.com/jonesrussell/north-cloud/verifier/internal/testhelpers"
)

var epoch = time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)

func scored(score, flags int, at time.Time) *domain.VerificationResult {
	r := &domain.VerificationResult{
		VerificationID:    fmt.Sprintf("id-%d-%d", score, at.Unix()),
		VerificationScore: score,
		CredibilityLevel:  domain.LevelForScore(score),
		Timestamp:         at,
	}
	for range flags {
		r.RiskFlags = append(r.RiskFlags, domain.RiskFlag{Type: domain.RiskTimingAnomaly, Severity: domain.SeverityMedium})
	}
	return r
}

func newLedger(t *testing.T, store ledger.Store) *ledger.Ledger {
	t.Helper()
	domains, _ := testhelpers.Registries()
	return ledger.New(context.Background(), ledger.Config{}, domains, store, nil)
}

func TestRecord_CreatesRegisteredSource(t *testing.T) {
	t.Parallel()

	l := newLedger(t, nil)
	require.NoError(t, l.Record(context.Background(), "bbc.co.uk", "David Ornstein", scored(80, 0, epoch)))

	src, ok := l.Get("bbc.co.uk")
	require.True(t, ok)
	assert.True(t, src.IsWhitelisted)
	assert.NotEqual(t, "bbc.co.uk", src.DisplayName)
	assert.InDelta(t, (95.0+80.0)/2, src.BaselineReliability, 0.001)
	assert.Equal(t, []string{"David Ornstein"}, src.KnownAuthors)
	assert.Equal(t, 1, src.TotalVerifications)
	assert.Equal(t, epoch, src.LastVerified)
	assert.Equal(t, domain.RiskProfileLow, src.RiskProfile)
}

func TestRecord_CreatesUnknownSource(t *testing.T) {
	t.Parallel()

	l := newLedger(t, nil)
	ctx := context.Background()
	require.NoError(t, l.Record(ctx, "rumour-mill.net", "", scored(30, 3, epoch)))
	require.NoError(t, l.Record(ctx, "rumour-mill.net", "", scored(50, 1, epoch.Add(time.Hour))))

	src, ok := l.Get("rumour-mill.net")
	require.True(t, ok)
	assert.False(t, src.IsWhitelisted)
	assert.Equal(t, "rumour-mill.net", src.DisplayName)
	assert.InDelta(t, 40.0, src.BaselineReliability, 0.001)
	assert.Empty(t, src.KnownAuthors)
	assert.Equal(t, domain.RiskProfileMedium, src.RiskProfile)
	assert.Equal(t, epoch.Add(time.Hour), src.LastVerified)
}

func TestRecord_RiskProfileFollowsLatestResult(t *testing.T) {
	t.Parallel()

	l := newLedger(t, nil)
	ctx := context.Background()

	require.NoError(t, l.Record(ctx, "example.com", "", scored(10, 4, epoch)))
	src, _ := l.Get("example.com")
	assert.Equal(t, domain.RiskProfileHigh, src.RiskProfile)

	require.NoError(t, l.Record(ctx, "example.com", "", scored(90, 0, epoch)))
	src, _ = l.Get("example.com")
	assert.Equal(t, domain.RiskProfileLow, src.RiskProfile)
}

func TestRecord_DeduplicatesAuthors(t *testing.T) {
	t.Parallel()

	l := newLedger(t, nil)
	ctx := context.Background()
	for _, a := range []string{"Simon Stone", " simon stone ", "Sami Mokbel", "Simon Stone"} {
		require.NoError(t, l.Record(ctx, "bbc.co.uk", a, scored(80, 0, epoch)))
	}

	src, _ := l.Get("bbc.co.uk")
	assert.Equal(t, []string{"Simon Stone", "Sami Mokbel"}, src.KnownAuthors)
}

func TestRecord_HistoryIsCapped(t *testing.T) {
	t.Parallel()

	l := newLedger(t, nil)
	ctx := context.Background()
	for i := range domain.MaxHistory + 5 {
		require.NoError(t, l.Record(ctx, "example.com", "", scored(i, 0, epoch.Add(time.Duration(i)*time.Minute))))
	}

	src, _ := l.Get("example.com")
	require.Len(t, src.VerificationHistory, domain.MaxHistory)
	assert.Equal(t, 5, src.VerificationHistory[0].VerificationScore)
	assert.Equal(t, domain.MaxHistory+4, src.VerificationHistory[domain.MaxHistory-1].VerificationScore)
	assert.Equal(t, domain.MaxHistory+5, src.TotalVerifications)
}

func TestRecord_EmptyDomain(t *testing.T) {
	t.Parallel()

	l := newLedger(t, nil)
	err := l.Record(context.Background(), " ", "", scored(50, 0, epoch))
	require.ErrorIs(t, err, ledger.ErrEmptyDomain)
	assert.Equal(t, 0, l.Len())
}

func TestGet_ReturnsCopy(t *testing.T) {
	t.Parallel()

	l := newLedger(t, nil)
	require.NoError(t, l.Record(context.Background(), "bbc.co.uk", "Simon Stone", scored(80, 0, epoch)))

	src, _ := l.Get("bbc.co.uk")
	src.KnownAuthors[0] = "tampered"
	src.VerificationHistory = nil

	again, _ := l.Get("www.BBC.co.uk")
	assert.Equal(t, []string{"Simon Stone"}, again.KnownAuthors)
	assert.Len(t, again.VerificationHistory, 1)
}

func TestList_SortedByDomain(t *testing.T) {
	t.Parallel()

	l := newLedger(t, nil)
	ctx := context.Background()
	for _, d := range []string{"skysports.com", "bbc.co.uk", "example.com"} {
		require.NoError(t, l.Record(ctx, d, "", scored(50, 0, epoch)))
	}

	list := l.List()
	require.Len(t, list, 3)
	assert.Equal(t, "bbc.co.uk", list[0].Domain)
	assert.Equal(t, "example.com", list[1].Domain)
	assert.Equal(t, "skysports.com", list[2].Domain)
}

func TestLedger_PersistsAndReloads(t *testing.T) {
	t.Parallel()

	store := testhelpers.NewMockSourceStore()
	l := newLedger(t, store)
	require.NoError(t, l.Record(context.Background(), "bbc.co.uk", "Simon Stone", scored(80, 0, epoch)))
	assert.Equal(t, 1, store.Saves)

	reloaded := newLedger(t, store)
	src, ok := reloaded.Get("bbc.co.uk")
	require.True(t, ok)
	assert.Equal(t, 1, src.TotalVerifications)
	assert.Equal(t, []string{"Simon Stone"}, src.KnownAuthors)
}

func TestLedger_StoreErrorKeepsMemoryState(t *testing.T) {
	t.Parallel()

	store := testhelpers.NewMockSourceStore()
	store.SaveErr = errors.New("disk full")
	l := newLedger(t, store)

	err := l.Record(context.Background(), "bbc.co.uk", "", scored(80, 0, epoch))
	require.Error(t, err)

	src, ok := l.Get("bbc.co.uk")
	require.True(t, ok)
	assert.Equal(t, 1, src.TotalVerifications)
}

func TestLedger_ConcurrentRecords(t *testing.T) {
	t.Parallel()

	store := testhelpers.NewMockSourceStore()
	l := newLedger(t, store)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = l.Record(ctx, "bbc.co.uk", fmt.Sprintf("author-%d", i%4), scored(70, 0, epoch))
			_, _ = l.Get("bbc.co.uk")
		}()
	}
	wg.Wait()

	src, _ := l.Get("bbc.co.uk")
	assert.Equal(t, 20, src.TotalVerifications)
	assert.Len(t, src.KnownAuthors, 4)

	stored, ok := store.Get("bbc.co.uk")
	require.True(t, ok)
	assert.Equal(t, 20, stored.TotalVerifications)
}

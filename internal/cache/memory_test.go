package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/north-cloud/verifier/internal/cache"
	"github.com/jonesrussell/north-cloud/verifier/internal/domain"
	"github.com/jonesrussell/north-cloud/verifier/internal/testhelpers"
)

var epoch = time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)

func result(id string, at time.Time) *domain.VerificationResult {
	return &domain.VerificationResult{
		VerificationID:    id,
		URL:               "https://www.bbc.co.uk/sport/football/1",
		IsVerified:        true,
		VerificationScore: 82,
		CredibilityLevel:  domain.CredibilityGood,
		Factors: []domain.VerificationFactor{{
			Category: domain.CategoryDomain,
			Name:     domain.FactorTrustedDomain,
			Impact:   38,
			Weight:   0.4,
			Evidence: "BBC Sport",
		}},
		RiskFlags: []domain.RiskFlag{},
		Authenticity: domain.AuthenticityCheck{
			DomainVerified: true,
			ContentQuality: 44,
		},
		Timestamp: at,
	}
}

func TestMemory_HitWithinTTL(t *testing.T) {
	t.Parallel()

	clk := testhelpers.NewFakeClock(epoch)
	c := cache.NewMemory(30*time.Minute, clk, 0)
	ctx := context.Background()

	want := result("a", epoch)
	require.NoError(t, c.Set(ctx, want))

	clk.Advance(29 * time.Minute)
	got, ok, err := c.Get(ctx, "a")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Same(t, want, got)
}

func TestMemory_ExpiredEntryIsNeverReturned(t *testing.T) {
	t.Parallel()

	clk := testhelpers.NewFakeClock(epoch)
	c := cache.NewMemory(30*time.Minute, clk, 0)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, result("a", epoch)))

	clk.Advance(30 * time.Minute)
	got, ok, err := c.Get(ctx, "a")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestMemory_SetPurgesExpired(t *testing.T) {
	t.Parallel()

	clk := testhelpers.NewFakeClock(epoch)
	c := cache.NewMemory(time.Minute, clk, 0)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, result("old-1", epoch)))
	require.NoError(t, c.Set(ctx, result("old-2", epoch)))
	assert.Equal(t, 2, c.Len())

	clk.Advance(2 * time.Minute)
	require.NoError(t, c.Set(ctx, result("fresh", clk.Now())))
	assert.Equal(t, 1, c.Len())
}

func TestMemory_EvictsOldestWhenFull(t *testing.T) {
	t.Parallel()

	clk := testhelpers.NewFakeClock(epoch)
	c := cache.NewMemory(time.Hour, clk, 2)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, result("first", epoch)))
	require.NoError(t, c.Set(ctx, result("second", epoch.Add(time.Second))))
	require.NoError(t, c.Set(ctx, result("third", epoch.Add(2*time.Second))))

	assert.Equal(t, 2, c.Len())
	_, ok, _ := c.Get(ctx, "first")
	assert.False(t, ok)
	_, ok, _ = c.Get(ctx, "third")
	assert.True(t, ok)
}

func TestMemory_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	c := cache.NewMemory(time.Hour, nil, 0)
	ctx := context.Background()
	now := time.Now().UTC()

	done := make(chan struct{})
	for i := range 8 {
		go func() {
			defer func() { done <- struct{}{} }()
			for j := range 100 {
				id := string(rune('a' + (i+j)%26))
				_ = c.Set(ctx, result(id, now))
				_, _, _ = c.Get(ctx, id)
			}
		}()
	}
	for range 8 {
		<-done
	}
	assert.LessOrEqual(t, c.Len(), 26)
}

package entity_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/north-cloud/verifier/infrastructure/circuitbreaker"
	"github.com/jonesrussell/north-cloud/verifier/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/verifier/infrastructure/retry"
	"github.com/jonesrussell/north-cloud/verifier/internal/entity"
)

func TestStaticProvider(t *testing.T) {
	t.Parallel()

	p := entity.NewStaticProvider("Erling Haaland", "Atlético Madrid")
	ctx := context.Background()

	ok, err := p.Exists(ctx, "erling  haaland")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = p.Exists(ctx, "Atletico Madrid")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = p.Exists(ctx, "Nobody FC")
	require.NoError(t, err)
	assert.False(t, ok)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = p.Exists(cancelled, "Erling Haaland")
	require.ErrorIs(t, err, context.Canceled)
}

func TestLoadStaticProvider(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "entities.yml")
	require.NoError(t, os.WriteFile(path, []byte("players: [Bukayo Saka]\nteams: [Arsenal]\n"), 0o600))

	p, err := entity.LoadStaticProvider(path)
	require.NoError(t, err)

	ok, err := p.Exists(context.Background(), "Arsenal")
	require.NoError(t, err)
	assert.True(t, ok)
}

func newHTTPProvider(t *testing.T, url string) *entity.HTTPProvider {
	t.Helper()
	p, err := entity.NewHTTPProvider(entity.HTTPConfig{
		BaseURL:           url,
		RequestsPerSecond: 1000,
		Timeout:           time.Second,
		Retry:             retry.Config{MaxAttempts: 3, InitialDelay: time.Millisecond, MaxDelay: time.Millisecond},
		Breaker:           circuitbreaker.Config{FailureThreshold: 2, Timeout: time.Hour},
	}, logger.NewNop())
	require.NoError(t, err)
	return p
}

func TestHTTPProvider_Exists(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/entities/exists", r.URL.Path)
		switch r.URL.Query().Get("name") {
		case "Declan Rice":
			_, _ = w.Write([]byte(`{"exists":true}`))
		case "Ghost":
			w.WriteHeader(http.StatusNotFound)
		default:
			_, _ = w.Write([]byte(`{"exists":false}`))
		}
	}))
	defer srv.Close()

	p := newHTTPProvider(t, srv.URL)
	ctx := context.Background()

	ok, err := p.Exists(ctx, "Declan Rice")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = p.Exists(ctx, "Ghost")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHTTPProvider_RetriesServerErrors(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"exists":true}`))
	}))
	defer srv.Close()

	ok, err := newHTTPProvider(t, srv.URL).Exists(context.Background(), "Arsenal")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int32(3), calls.Load())
}

func TestHTTPProvider_CircuitOpensAfterFailures(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	p := newHTTPProvider(t, srv.URL)
	ctx := context.Background()

	for range 2 {
		_, err := p.Exists(ctx, "x")
		require.Error(t, err)
	}
	_, err := p.Exists(ctx, "x")
	require.ErrorIs(t, err, circuitbreaker.ErrCircuitOpen)
	assert.Equal(t, int32(2), calls.Load())
}

func TestHTTPProvider_RespectsDeadline(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := newHTTPProvider(t, srv.URL).Exists(ctx, "slow")
	require.Error(t, err)
}

func TestNewHTTPProvider_RequiresBaseURL(t *testing.T) {
	t.Parallel()

	_, err := entity.NewHTTPProvider(entity.HTTPConfig{}, nil)
	require.Error(t, err)
}

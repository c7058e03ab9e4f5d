package telemetry_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/north-cloud/verifier/internal/domain"
	"github.com/jonesrussell/north-cloud/verifier/internal/telemetry"
)

func TestProvider_ObserveVerification(t *testing.T) {
	t.Parallel()

	p := telemetry.NewProvider(prometheus.NewRegistry())
	p.ObserveVerification(&domain.VerificationResult{
		VerificationScore: 12,
		CredibilityLevel:  domain.CredibilityUnreliable,
		RiskFlags: []domain.RiskFlag{
			{Type: domain.RiskTimingAnomaly, Severity: domain.SeverityHigh},
			{Type: domain.RiskTimingAnomaly, Severity: domain.SeverityHigh},
			{Type: domain.RiskDomainMismatch, Severity: domain.SeverityMedium},
		},
	}, 3*time.Millisecond)

	assert.InDelta(t, 1.0, testutil.ToFloat64(p.Metrics.Verifications.WithLabelValues("unreliable")), 0)
	assert.InDelta(t, 2.0, testutil.ToFloat64(p.Metrics.RiskFlags.WithLabelValues("timing_anomaly", "high")), 0)
	assert.InDelta(t, 1.0, testutil.ToFloat64(p.Metrics.RiskFlags.WithLabelValues("domain_mismatch", "medium")), 0)
	assert.Equal(t, 1, testutil.CollectAndCount(p.Metrics.Duration))
}

func TestProvider_Counters(t *testing.T) {
	t.Parallel()

	p := telemetry.NewProvider(prometheus.NewRegistry())
	p.CacheHit()
	p.CacheHit()
	p.CacheMiss()
	p.CrossRefTimeout()

	assert.InDelta(t, 2.0, testutil.ToFloat64(p.Metrics.CacheHits), 0)
	assert.InDelta(t, 1.0, testutil.ToFloat64(p.Metrics.CacheMisses), 0)
	assert.InDelta(t, 1.0, testutil.ToFloat64(p.Metrics.CrossRefTimeouts), 0)
}

func TestProvider_IndependentRegistries(t *testing.T) {
	t.Parallel()

	assert.NotPanics(t, func() {
		telemetry.NewProvider(nil)
		telemetry.NewProvider(nil)
	})
}

func TestProvider_Handler(t *testing.T) {
	t.Parallel()

	p := telemetry.NewProvider(nil)
	p.CacheMiss()

	srv := httptest.NewServer(p.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "verifier_cache_misses_total 1")
	assert.Contains(t, string(body), "go_goroutines")
}

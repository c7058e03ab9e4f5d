// Package telemetry provides Prometheus metrics and OpenTelemetry tracing
// for the verifier service.
package telemetry

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/jonesrussell/north-cloud/verifier/internal/domain"
)

const (
	serviceName = "verifier"
	namespace   = "verifier"
)

// Metrics holds all verifier Prometheus metrics.
type Metrics struct {
	Verifications *prometheus.CounterVec
	Duration      prometheus.Histogram
	Scores        prometheus.Histogram
	RiskFlags     *prometheus.CounterVec

	CacheHits   prometheus.Counter
	CacheMisses prometheus.Counter

	CrossRefTimeouts prometheus.Counter
}

// Provider wraps the tracer, metrics and the registry they live in.
type Provider struct {
	Tracer   trace.Tracer
	Metrics  *Metrics
	Registry *prometheus.Registry
}

// NewProvider registers the verifier metrics on reg. A nil reg gets a fresh
// registry carrying the Go runtime and process collectors.
func NewProvider(reg *prometheus.Registry) *Provider {
	if reg == nil {
		reg = prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	return &Provider{
		Tracer:   otel.Tracer(serviceName),
		Metrics:  initMetrics(reg),
		Registry: reg,
	}
}

// Handler serves the registry for the /metrics endpoint.
func (p *Provider) Handler() http.Handler {
	return promhttp.HandlerFor(p.Registry, promhttp.HandlerOpts{Registry: p.Registry})
}

func initMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Verifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "verifications_total",
			Help:      "Fresh verifications by credibility level",
		}, []string{"tier"}),
		Duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "verification_duration_seconds",
			Help:      "Time to compute a verification, excluding cache hits",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),
		Scores: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "verification_score",
			Help:      "Distribution of verification scores",
			Buckets:   []float64{10, 20, 30, 40, 50, 60, 70, 75, 80, 90, 100},
		}),
		RiskFlags: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "risk_flags_total",
			Help:      "Risk flags raised by type and severity",
		}, []string{"type", "severity"}),
		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_hits_total",
			Help:      "Verifications served from the result cache",
		}),
		CacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_misses_total",
			Help:      "Verifications that missed the result cache",
		}),
		CrossRefTimeouts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "crossref_timeouts_total",
			Help:      "Entity lookups abandoned at the cross-reference deadline",
		}),
	}

	reg.MustRegister(
		m.Verifications, m.Duration, m.Scores, m.RiskFlags,
		m.CacheHits, m.CacheMisses, m.CrossRefTimeouts,
	)
	return m
}

// CacheHit counts a cache hit.
func (p *Provider) CacheHit() { p.Metrics.CacheHits.Inc() }

// CacheMiss counts a cache miss.
func (p *Provider) CacheMiss() { p.Metrics.CacheMisses.Inc() }

// CrossRefTimeout counts an abandoned entity lookup.
func (p *Provider) CrossRefTimeout() { p.Metrics.CrossRefTimeouts.Inc() }

// ObserveVerification records a freshly computed result.
func (p *Provider) ObserveVerification(result *domain.VerificationResult, elapsed time.Duration) {
	p.Metrics.Verifications.WithLabelValues(string(result.CredibilityLevel)).Inc()
	p.Metrics.Duration.Observe(elapsed.Seconds())
	p.Metrics.Scores.Observe(float64(result.VerificationScore))
	for _, f := range result.RiskFlags {
		p.Metrics.RiskFlags.WithLabelValues(string(f.Type), string(f.Severity)).Inc()
	}
}

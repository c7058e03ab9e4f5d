// Package verifier scores reported content for source reliability. A
// Verifier fans a request out to independent analyzers, aggregates their
// factors into a bounded score and records the outcome in the source ledger.
package verifier

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	infralogger "github.com/jonesrussell/north-cloud/verifier/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/verifier/internal/cache"
	"github.com/jonesrussell/north-cloud/verifier/internal/clock"
	"github.com/jonesrussell/north-cloud/verifier/internal/domain"
	"github.com/jonesrussell/north-cloud/verifier/internal/entity"
	"github.com/jonesrussell/north-cloud/verifier/internal/ledger"
)

const tracerName = "verifier"

var (
	// ErrNoDomainRegistry is returned by New without a domain registry.
	ErrNoDomainRegistry = errors.New("domain registry is required")
	// ErrNoAuthorRegistry is returned by New without an author registry.
	ErrNoAuthorRegistry = errors.New("author registry is required")
)

// Cache stores results by verification ID. Implementations must never
// return entries older than their TTL.
type Cache interface {
	Get(ctx context.Context, id string) (*domain.VerificationResult, bool, error)
	Set(ctx context.Context, result *domain.VerificationResult) error
}

// Ledger tracks per-domain history.
type Ledger interface {
	// Get returns a copy of the entry for a bare domain.
	Get(domainName string) (*domain.NewsSource, bool)
	Record(ctx context.Context, domainName, author string, result *domain.VerificationResult) error
}

// Indexer receives every freshly computed result.
type Indexer interface {
	Index(ctx context.Context, result *domain.VerificationResult) error
}

// Metrics observes verifier activity.
type Metrics interface {
	CacheHit()
	CacheMiss()
	CrossRefTimeout()
	ObserveVerification(result *domain.VerificationResult, elapsed time.Duration)
}

// Config tunes a Verifier.
type Config struct {
	CacheTTL        time.Duration
	CrossRefTimeout time.Duration
}

// Deps are the Verifier's collaborators. Only the registries are required.
type Deps struct {
	Domains  DomainRegistry
	Authors  AuthorRegistry
	Entities entity.Provider
	Cache    Cache
	Ledger   Ledger
	Indexer  Indexer
	Metrics  Metrics
	Tracer   trace.Tracer
	Clock    clock.Clock
	Logger   infralogger.Logger
}

// Verifier is safe for concurrent use.
type Verifier struct {
	domains   DomainRegistry
	analyzers []Analyzer
	cache     Cache
	ledger    Ledger
	indexer   Indexer
	metrics   Metrics
	tracer    trace.Tracer
	clock     clock.Clock
	log       infralogger.Logger
	owned     []io.Closer
}

// New wires a Verifier, filling unset dependencies with in-memory defaults.
func New(cfg Config, deps Deps) (*Verifier, error) {
	if deps.Domains == nil {
		return nil, ErrNoDomainRegistry
	}
	if deps.Authors == nil {
		return nil, ErrNoAuthorRegistry
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = cache.DefaultTTL
	}

	v := &Verifier{
		domains: deps.Domains,
		cache:   deps.Cache,
		ledger:  deps.Ledger,
		indexer: deps.Indexer,
		metrics: deps.Metrics,
		tracer:  deps.Tracer,
		clock:   clock.OrSystem(deps.Clock),
		log:     infralogger.OrNop(deps.Logger),
	}
	if v.metrics == nil {
		v.metrics = nopMetrics{}
	}
	if v.tracer == nil {
		v.tracer = otel.Tracer(tracerName)
	}
	if v.cache == nil {
		v.cache = cache.NewMemory(cfg.CacheTTL, v.clock, 0)
	}
	if v.ledger == nil {
		v.ledger = ledger.New(context.Background(), ledger.Config{}, deps.Domains, nil, v.log)
	}
	for _, c := range []any{v.cache, v.ledger, v.indexer} {
		if closer, ok := c.(io.Closer); ok {
			v.owned = append(v.owned, closer)
		}
	}

	v.analyzers = []Analyzer{
		NewDomainAnalyzer(deps.Domains),
		NewContentAnalyzer(),
		NewAuthorAnalyzer(deps.Authors),
		NewTimingAnalyzer(),
		NewCrossRefAnalyzer(deps.Entities, cfg.CrossRefTimeout, v.log, v.metrics.CrossRefTimeout),
		NewMetadataAnalyzer(),
	}

	return v, nil
}

// Verify scores req. It never fails: dependency errors degrade the result
// and a pipeline failure yields the fixed fallback result.
func (v *Verifier) Verify(ctx context.Context, req *domain.VerificationRequest) (result *domain.VerificationResult) {
	start := v.clock.Now()

	ctx, span := v.tracer.Start(ctx, "verifier.Verify")
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			v.log.Error("Verification panicked",
				infralogger.Any("panic", r),
				infralogger.String("url", requestURL(req)),
			)
			span.SetStatus(codes.Error, "panic")
			result = fallbackResult(req, v.clock.Now())
		}
	}()

	if req == nil {
		span.SetStatus(codes.Error, "nil request")
		return fallbackResult(nil, start)
	}
	span.SetAttributes(attribute.String("verification.url", req.URL))

	id := VerificationID(req)
	if cached := v.lookupCache(ctx, id); cached != nil {
		span.SetAttributes(attribute.Bool("verification.cache_hit", true))
		return cached
	}

	ledgerKey := v.ledgerKey(req.URL)
	var source *domain.NewsSource
	if ledgerKey != "" {
		source, _ = v.ledger.Get(ledgerKey)
	}

	analyses, err := v.analyze(ctx, &Input{Request: req, Now: start, Source: source})
	if err != nil {
		v.log.Error("Verification pipeline failed",
			infralogger.String("url", req.URL),
			infralogger.Error(err),
		)
		span.RecordError(err)
		span.SetStatus(codes.Error, "pipeline failed")
		return fallbackResult(req, v.clock.Now())
	}

	result = aggregate(req, analyses, v.clock.Now())
	span.SetAttributes(
		attribute.Int("verification.score", result.VerificationScore),
		attribute.String("verification.level", string(result.CredibilityLevel)),
	)

	v.persist(ctx, ledgerKey, req, result)
	v.metrics.ObserveVerification(result, v.clock.Now().Sub(start))

	return result
}

// Close releases dependencies the Verifier was handed that hold resources.
func (v *Verifier) Close() error {
	var errs []error
	for _, c := range v.owned {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (v *Verifier) lookupCache(ctx context.Context, id string) *domain.VerificationResult {
	cached, ok, err := v.cache.Get(ctx, id)
	if err != nil {
		v.log.Warn("Result cache lookup failed",
			infralogger.String("verification_id", id),
			infralogger.Error(err),
		)
	}
	if !ok || cached == nil {
		v.metrics.CacheMiss()
		return nil
	}
	v.metrics.CacheHit()
	return cached
}

// analyze runs every analyzer concurrently. Results keep analyzer order.
func (v *Verifier) analyze(ctx context.Context, in *Input) ([]Analysis, error) {
	analyses := make([]Analysis, len(v.analyzers))

	g, gctx := errgroup.WithContext(ctx)
	for i, a := range v.analyzers {
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("%s analyzer panicked: %v", a.Name(), r)
				}
			}()
			analyses[i] = a.Analyze(gctx, in)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return analyses, nil
}

// persist caches, records and indexes a fresh result. Failures are logged.
func (v *Verifier) persist(ctx context.Context, ledgerKey string, req *domain.VerificationRequest, result *domain.VerificationResult) {
	if err := v.cache.Set(ctx, result); err != nil {
		v.log.Warn("Result cache write failed",
			infralogger.String("verification_id", result.VerificationID),
			infralogger.Error(err),
		)
	}

	if ledgerKey != "" {
		author := strings.TrimSpace(req.Content.SourceName)
		if err := v.ledger.Record(ctx, ledgerKey, author, result); err != nil {
			v.log.Warn("Source ledger update failed",
				infralogger.String("domain", ledgerKey),
				infralogger.Error(err),
			)
		}
	}

	if v.indexer != nil {
		if err := v.indexer.Index(ctx, result); err != nil {
			v.log.Warn("Result indexing failed",
				infralogger.String("verification_id", result.VerificationID),
				infralogger.Error(err),
			)
		}
	}
}

// ledgerKey is the registry domain for the URL's host, its bare host when
// unregistered, or empty when the URL is malformed.
func (v *Verifier) ledgerKey(rawURL string) string {
	_, host, err := parseArticleURL(rawURL)
	if err != nil {
		return ""
	}
	return resolveDomain(v.domains, host).Key
}

func requestURL(req *domain.VerificationRequest) string {
	if req == nil {
		return ""
	}
	return req.URL
}

type nopMetrics struct{}

func (nopMetrics) CacheHit()                                                     {}
func (nopMetrics) CacheMiss()                                                    {}
func (nopMetrics) CrossRefTimeout()                                              {}
func (nopMetrics) ObserveVerification(*domain.VerificationResult, time.Duration) {}

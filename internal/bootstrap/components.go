package bootstrap

import (
	"context"
	"fmt"

	infragin "github.com/jonesrussell/north-cloud/verifier/infrastructure/gin"
	infralogger "github.com/jonesrussell/north-cloud/verifier/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/verifier/internal/clock"
	"github.com/jonesrussell/north-cloud/verifier/internal/config"
	"github.com/jonesrussell/north-cloud/verifier/internal/ledger"
	"github.com/jonesrussell/north-cloud/verifier/internal/processor"
	"github.com/jonesrussell/north-cloud/verifier/internal/registry"
	"github.com/jonesrussell/north-cloud/verifier/internal/telemetry"
	"github.com/jonesrussell/north-cloud/verifier/internal/verifier"
)

// Components is a fully wired verifier and everything that serves it.
type Components struct {
	Config    *config.Config
	Logger    infralogger.Logger
	Verifier  *verifier.Verifier
	Ledger    *ledger.Ledger
	Batch     *processor.BatchProcessor
	Telemetry *telemetry.Provider

	healthChecks map[string]infragin.HealthChecker
}

// NewComponents builds every component named in cfg. Optional sinks that
// cannot be reached are skipped; required stores fail the call.
func NewComponents(ctx context.Context, cfg *config.Config, logger infralogger.Logger) (*Components, error) {
	domains, authors, err := registry.LoadOrDefaults(cfg.Verification.RegistryFile)
	if err != nil {
		return nil, fmt.Errorf("load registry: %w", err)
	}
	logger.Info("Registries loaded",
		infralogger.Int("domains", domains.Len()),
		infralogger.Int("authors", authors.Len()),
	)

	entities, err := SetupEntities(cfg, logger)
	if err != nil {
		return nil, err
	}

	clk := clock.OrSystem(nil)
	checks := make(map[string]infragin.HealthChecker)

	resultCache, cacheCheck, err := SetupCache(ctx, cfg, clk, logger)
	if err != nil {
		return nil, err
	}
	if cacheCheck != nil {
		checks["cache"] = cacheCheck
	}

	store, storeCheck, err := SetupLedgerStore(ctx, cfg, logger)
	if err != nil {
		closeQuietly(resultCache)
		return nil, err
	}

	var ledgerStore ledger.Store
	if store != nil {
		ledgerStore = store
		checks["ledger"] = storeCheck
	}
	sourceLedger := ledger.New(ctx, ledger.Config{MaxHistory: cfg.Verification.HistoryCap}, domains, ledgerStore, logger)
	logger.Info("Source ledger ready", infralogger.Int("sources", sourceLedger.Len()))

	tel := telemetry.NewProvider(nil)

	deps := verifier.Deps{
		Domains:  domains,
		Authors:  authors,
		Entities: entities,
		Cache:    resultCache,
		Ledger:   sourceLedger,
		Metrics:  tel,
		Tracer:   tel.Tracer,
		Clock:    clk,
		Logger:   logger,
	}
	if indexer, indexCheck := SetupIndexer(ctx, cfg, logger); indexer != nil {
		deps.Indexer = indexer
		checks["elasticsearch"] = indexCheck
	}

	v, err := verifier.New(verifier.Config{
		CacheTTL:        cfg.Verification.CacheTTL,
		CrossRefTimeout: cfg.Verification.CrossRefTimeout,
	}, deps)
	if err != nil {
		closeQuietly(resultCache)
		_ = sourceLedger.Close()
		return nil, fmt.Errorf("create verifier: %w", err)
	}

	batch := processor.NewBatchProcessor(v, cfg.Service.BatchConcurrency, logger)
	logger.Info("Verifier initialized",
		infralogger.String("cache", cfg.Cache.Backend),
		infralogger.String("ledger", cfg.Ledger.Backend),
		infralogger.String("entities", cfg.EntityRegistry.Mode),
		infralogger.Int("batch_concurrency", cfg.Service.BatchConcurrency),
	)

	return &Components{
		Config:       cfg,
		Logger:       logger,
		Verifier:     v,
		Ledger:       sourceLedger,
		Batch:        batch,
		Telemetry:    tel,
		healthChecks: checks,
	}, nil
}

// Close releases the cache client and ledger store.
func (c *Components) Close() error {
	if err := c.Verifier.Close(); err != nil {
		return fmt.Errorf("close verifier: %w", err)
	}
	return nil
}

func closeQuietly(v any) {
	if closer, ok := v.(interface{ Close() error }); ok {
		_ = closer.Close()
	}
}

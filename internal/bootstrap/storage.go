package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	infraerrors "github.com/jonesrussell/north-cloud/verifier/infrastructure/errors"
	esclient "github.com/jonesrussell/north-cloud/verifier/infrastructure/elasticsearch"
	infragin "github.com/jonesrussell/north-cloud/verifier/infrastructure/gin"
	infralogger "github.com/jonesrussell/north-cloud/verifier/infrastructure/logger"
	infraredis "github.com/jonesrussell/north-cloud/verifier/infrastructure/redis"
	"github.com/jonesrussell/north-cloud/verifier/infrastructure/retry"
	"github.com/jonesrussell/north-cloud/verifier/internal/cache"
	"github.com/jonesrussell/north-cloud/verifier/internal/clock"
	"github.com/jonesrussell/north-cloud/verifier/internal/config"
	"github.com/jonesrussell/north-cloud/verifier/internal/ledger"
	"github.com/jonesrussell/north-cloud/verifier/internal/storage"
	"github.com/jonesrussell/north-cloud/verifier/internal/verifier"
)

// Retry budget for the optional Elasticsearch sink. It is shorter than the
// client default so a missing cluster does not hold up startup.
const (
	optionalESMaxAttempts  = 3
	optionalESInitialDelay = 1 * time.Second
	optionalESMaxDelay     = 5 * time.Second
	optionalESMultiplier   = 2.0
)

// SetupCache builds the configured result cache. The Redis backend also
// returns a health check.
func SetupCache(
	ctx context.Context, cfg *config.Config, clk clock.Clock, logger infralogger.Logger,
) (verifier.Cache, infragin.HealthChecker, error) {
	ttl := cfg.Verification.CacheTTL

	if cfg.Cache.Backend != config.BackendRedis {
		logger.Info("Using in-memory result cache",
			infralogger.Duration("ttl", ttl),
			infralogger.Int("max_entries", cfg.Cache.MaxEntries),
		)
		return cache.NewMemory(ttl, clk, cfg.Cache.MaxEntries), nil, nil
	}

	client, err := infraredis.NewClient(ctx, cfg.Redis)
	if err != nil {
		return nil, nil, fmt.Errorf("connect redis cache: %w", err)
	}
	logger.Info("Using Redis result cache",
		infralogger.String("address", cfg.Redis.Address),
		infralogger.Duration("ttl", ttl),
	)

	check := infragin.PingChecker("redis", infragin.HealthStatusDegraded, func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	})
	return cache.NewRedis(client, ttl, clk), check, nil
}

// SetupLedgerStore opens and migrates the configured snapshot store. The
// memory backend has no store and returns nil.
func SetupLedgerStore(
	ctx context.Context, cfg *config.Config, logger infralogger.Logger,
) (*ledger.SQLStore, infragin.HealthChecker, error) {
	var (
		db    *sqlx.DB
		store *ledger.SQLStore
		err   error
	)

	switch cfg.Ledger.Backend {
	case config.BackendPostgres:
		logger.Info("Connecting to PostgreSQL ledger store",
			infralogger.String("host", cfg.Database.Host),
			infralogger.Int("port", cfg.Database.Port),
			infralogger.String("database", cfg.Database.Database),
		)
		if db, err = ledger.OpenPostgres(ctx, cfg.Database); err != nil {
			return nil, nil, infraerrors.WrapWithContext(err, "open postgres ledger")
		}
		store = ledger.NewPostgresStore(db)
	case config.BackendSQLite:
		logger.Info("Opening SQLite ledger store", infralogger.String("path", cfg.SQLite.Path))
		if db, err = ledger.OpenSQLite(cfg.SQLite.Path); err != nil {
			return nil, nil, infraerrors.WrapWithContext(err, "open sqlite ledger")
		}
		store = ledger.NewSQLiteStore(db)
	default:
		logger.Info("Source ledger is in memory only")
		return nil, nil, nil
	}

	if err = store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, nil, err
	}

	check := infragin.PingChecker("ledger", infragin.HealthStatusUnhealthy, db.PingContext)
	return store, check, nil
}

// SetupIndexer creates the optional Elasticsearch result sink. It returns
// nil when indexing is disabled or the cluster is unavailable; the service
// runs without it.
func SetupIndexer(
	ctx context.Context, cfg *config.Config, logger infralogger.Logger,
) (*storage.ResultIndexer, infragin.HealthChecker) {
	if !cfg.Elasticsearch.Enabled {
		return nil, nil
	}

	esCfg := cfg.Elasticsearch.Client
	esCfg.RetryConfig = &retry.Config{
		MaxAttempts:  optionalESMaxAttempts,
		InitialDelay: optionalESInitialDelay,
		MaxDelay:     optionalESMaxDelay,
		Multiplier:   optionalESMultiplier,
	}

	client, err := esclient.NewClient(ctx, esCfg, logger)
	if err != nil {
		logger.Warn("Failed to connect to Elasticsearch", infralogger.Error(err))
		logger.Info("Verification results will not be indexed")
		return nil, nil
	}

	indexer := storage.NewResultIndexer(client, cfg.Elasticsearch.Index)
	if err = indexer.EnsureIndex(ctx); err != nil {
		logger.Warn("Failed to prepare results index",
			infralogger.String("index", cfg.Elasticsearch.Index),
			infralogger.Error(err),
		)
		return nil, nil
	}

	logger.Info("Indexing verification results", infralogger.String("index", cfg.Elasticsearch.Index))
	return indexer, infragin.PingChecker("elasticsearch", infragin.HealthStatusDegraded, indexer.Ping)
}

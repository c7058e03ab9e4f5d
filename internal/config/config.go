// Package config holds the verifier service configuration.
package config

import (
	"errors"
	"time"

	infraconfig "github.com/jonesrussell/north-cloud/verifier/infrastructure/config"
	infraes "github.com/jonesrussell/north-cloud/verifier/infrastructure/elasticsearch"
	"github.com/jonesrussell/north-cloud/verifier/infrastructure/profiling"
	infraredis "github.com/jonesrussell/north-cloud/verifier/infrastructure/redis"
)

// Default configuration values.
const (
	defaultServiceName      = "verifier"
	defaultServiceVersion   = "1.0.0"
	defaultServicePort      = 8095
	defaultBatchConcurrency = 8
	defaultMaxBatchSize     = 100
	defaultCacheTTL         = 30 * time.Minute
	defaultCrossRefTimeout  = 2 * time.Second
	defaultHistoryCap       = 50
	defaultCacheMaxEntries  = 10_000
	defaultRedisAddress     = "localhost:6379"
	defaultDBUser           = "postgres"
	defaultDBName           = "verifier"
	defaultSQLitePath       = "verifier.db"
	defaultESIndex          = "verification_results"
	defaultEntityRPS        = 20
	defaultEntityTimeout    = 5 * time.Second
)

// Backend names.
const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"

	EntityModeNone   = "none"
	EntityModeStatic = "static"
	EntityModeHTTP   = "http"
)

// Config holds all configuration for the verifier service.
type Config struct {
	Service        ServiceConfig              `yaml:"service"`
	Verification   VerificationConfig         `yaml:"verification"`
	Cache          CacheConfig                `yaml:"cache"`
	Redis          infraredis.Config          `yaml:"redis"`
	Ledger         LedgerConfig               `yaml:"ledger"`
	Database       infraconfig.DatabaseConfig `yaml:"database"`
	SQLite         SQLiteConfig               `yaml:"sqlite"`
	Elasticsearch  ElasticsearchConfig        `yaml:"elasticsearch"`
	EntityRegistry EntityRegistryConfig       `yaml:"entity_registry"`
	Logging        infraconfig.LoggingConfig  `yaml:"logging"`
	Auth           AuthConfig                 `yaml:"auth"`
	Profiling      profiling.Config           `yaml:"profiling"`
}

// ServiceConfig holds service-level configuration.
type ServiceConfig struct {
	Name             string   `yaml:"name"`
	Version          string   `yaml:"version"`
	Port             int      `env:"VERIFIER_PORT"              yaml:"port"`
	Debug            bool     `env:"APP_DEBUG"                  yaml:"debug"`
	BatchConcurrency int      `env:"VERIFIER_BATCH_CONCURRENCY" yaml:"batch_concurrency"`
	MaxBatchSize     int      `yaml:"max_batch_size"`
	CORSOrigins      []string `env:"CORS_ORIGINS"               yaml:"cors_origins"`
}

// VerificationConfig tunes scoring.
type VerificationConfig struct {
	CacheTTL        time.Duration `env:"VERIFIER_CACHE_TTL"         yaml:"cache_ttl"`
	CrossRefTimeout time.Duration `env:"VERIFIER_CROSSREF_TIMEOUT"  yaml:"crossref_timeout"`
	HistoryCap      int           `yaml:"history_cap"`
	RegistryFile    string        `env:"VERIFIER_REGISTRY_FILE"     yaml:"registry_file"`
}

// CacheConfig selects the result cache.
type CacheConfig struct {
	Backend    string `env:"VERIFIER_CACHE_BACKEND" yaml:"backend"`
	MaxEntries int    `yaml:"max_entries"`
}

// LedgerConfig selects where source history is persisted.
type LedgerConfig struct {
	Backend string `env:"VERIFIER_LEDGER_BACKEND" yaml:"backend"`
}

// SQLiteConfig locates the SQLite ledger database.
type SQLiteConfig struct {
	Path string `env:"VERIFIER_SQLITE_PATH" yaml:"path"`
}

// ElasticsearchConfig enables result indexing.
type ElasticsearchConfig struct {
	Enabled bool           `env:"VERIFIER_INDEX_RESULTS" yaml:"enabled"`
	Index   string         `yaml:"index"`
	Client  infraes.Config `yaml:",inline"`
}

// EntityRegistryConfig selects how player and team names are confirmed.
type EntityRegistryConfig struct {
	Mode              string        `env:"ENTITY_REGISTRY_MODE"    yaml:"mode"`
	File              string        `env:"ENTITY_REGISTRY_FILE"    yaml:"file"`
	BaseURL           string        `env:"ENTITY_REGISTRY_URL"     yaml:"base_url"`
	APIKey            string        `env:"ENTITY_REGISTRY_API_KEY" yaml:"api_key"` //nolint:gosec // client credential
	RequestsPerSecond float64       `yaml:"requests_per_second"`
	Timeout           time.Duration `yaml:"timeout"`
}

// AuthConfig holds authentication configuration. An empty secret leaves
// the API open.
type AuthConfig struct {
	JWTSecret string `env:"AUTH_JWT_SECRET" yaml:"jwt_secret"` //nolint:gosec // signing key
}

// Load loads configuration from path, applying defaults.
func Load(path string) (*Config, error) {
	return infraconfig.LoadWithDefaults[Config](path, setDefaults)
}

// LoadOptional is Load that tolerates a missing file.
func LoadOptional(path string) (*Config, error) {
	return infraconfig.LoadOptional[Config](path, setDefaults)
}

func setDefaults(cfg *Config) {
	setServiceDefaults(&cfg.Service)
	setVerificationDefaults(&cfg.Verification)
	setCacheDefaults(&cfg.Cache)
	if cfg.Redis.Address == "" {
		cfg.Redis.Address = defaultRedisAddress
	}
	if cfg.Ledger.Backend == "" {
		cfg.Ledger.Backend = BackendMemory
	}
	if cfg.Database.User == "" {
		cfg.Database.User = defaultDBUser
	}
	if cfg.Database.Database == "" {
		cfg.Database.Database = defaultDBName
	}
	cfg.Database.SetDefaults()
	if cfg.SQLite.Path == "" {
		cfg.SQLite.Path = defaultSQLitePath
	}
	if cfg.Elasticsearch.Index == "" {
		cfg.Elasticsearch.Index = defaultESIndex
	}
	cfg.Elasticsearch.Client.SetDefaults()
	setEntityDefaults(&cfg.EntityRegistry)
	cfg.Logging.SetDefaults()
	cfg.Profiling.SetDefaults()
}

func setServiceDefaults(s *ServiceConfig) {
	if s.Name == "" {
		s.Name = defaultServiceName
	}
	if s.Version == "" {
		s.Version = defaultServiceVersion
	}
	if s.Port == 0 {
		s.Port = defaultServicePort
	}
	if s.BatchConcurrency == 0 {
		s.BatchConcurrency = defaultBatchConcurrency
	}
	if s.MaxBatchSize == 0 {
		s.MaxBatchSize = defaultMaxBatchSize
	}
}

func setVerificationDefaults(v *VerificationConfig) {
	if v.CacheTTL == 0 {
		v.CacheTTL = defaultCacheTTL
	}
	if v.CrossRefTimeout == 0 {
		v.CrossRefTimeout = defaultCrossRefTimeout
	}
	if v.HistoryCap == 0 {
		v.HistoryCap = defaultHistoryCap
	}
}

func setCacheDefaults(c *CacheConfig) {
	if c.Backend == "" {
		c.Backend = BackendMemory
	}
	if c.MaxEntries == 0 {
		c.MaxEntries = defaultCacheMaxEntries
	}
}

func setEntityDefaults(e *EntityRegistryConfig) {
	if e.Mode == "" {
		switch {
		case e.BaseURL != "":
			e.Mode = EntityModeHTTP
		case e.File != "":
			e.Mode = EntityModeStatic
		default:
			e.Mode = EntityModeNone
		}
	}
	if e.RequestsPerSecond == 0 {
		e.RequestsPerSecond = defaultEntityRPS
	}
	if e.Timeout == 0 {
		e.Timeout = defaultEntityTimeout
	}
}

// Validate checks the configuration for values the service cannot run with.
func (c *Config) Validate() error {
	var errs []error

	errs = append(errs, infraconfig.ValidatePort("service.port", c.Service.Port))
	if c.Service.MaxBatchSize < 1 || c.Service.MaxBatchSize > defaultMaxBatchSize {
		errs = append(errs, &infraconfig.ValidationError{Field: "service.max_batch_size", Message: "must be between 1 and 100"})
	}
	if c.Verification.CacheTTL < 0 {
		errs = append(errs, &infraconfig.ValidationError{Field: "verification.cache_ttl", Message: "must not be negative"})
	}
	if c.Verification.CrossRefTimeout < 0 {
		errs = append(errs, &infraconfig.ValidationError{Field: "verification.crossref_timeout", Message: "must not be negative"})
	}
	if c.Verification.HistoryCap < 1 || c.Verification.HistoryCap > defaultHistoryCap {
		errs = append(errs, &infraconfig.ValidationError{Field: "verification.history_cap", Message: "must be between 1 and 50"})
	}

	errs = append(errs,
		infraconfig.ValidateOneOf("cache.backend", c.Cache.Backend, BackendMemory, BackendRedis),
		infraconfig.ValidateOneOf("ledger.backend", c.Ledger.Backend, BackendMemory, BackendPostgres, BackendSQLite),
		infraconfig.ValidateOneOf("entity_registry.mode", c.EntityRegistry.Mode, EntityModeNone, EntityModeStatic, EntityModeHTTP),
		c.Logging.Validate(),
	)

	if c.Cache.Backend == BackendRedis {
		errs = append(errs, infraconfig.ValidateRequired("redis.address", c.Redis.Address))
	}
	if c.Ledger.Backend == BackendPostgres {
		errs = append(errs, c.Database.Validate())
	}
	if c.Ledger.Backend == BackendSQLite {
		errs = append(errs, infraconfig.ValidateRequired("sqlite.path", c.SQLite.Path))
	}
	switch c.EntityRegistry.Mode {
	case EntityModeStatic:
		errs = append(errs, infraconfig.ValidateRequired("entity_registry.file", c.EntityRegistry.File))
	case EntityModeHTTP:
		errs = append(errs, infraconfig.ValidateRequired("entity_registry.base_url", c.EntityRegistry.BaseURL))
	}

	return errors.Join(errs...)
}

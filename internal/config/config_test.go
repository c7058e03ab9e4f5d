package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/north-cloud/verifier/internal/config"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadOptional_Defaults(t *testing.T) {
	cfg, err := config.LoadOptional(filepath.Join(t.TempDir(), "absent.yml"))
	require.NoError(t, err)

	assert.Equal(t, "verifier", cfg.Service.Name)
	assert.Equal(t, 8095, cfg.Service.Port)
	assert.Equal(t, 100, cfg.Service.MaxBatchSize)
	assert.Equal(t, 30*time.Minute, cfg.Verification.CacheTTL)
	assert.Equal(t, 2*time.Second, cfg.Verification.CrossRefTimeout)
	assert.Equal(t, 50, cfg.Verification.HistoryCap)
	assert.Equal(t, config.BackendMemory, cfg.Cache.Backend)
	assert.Equal(t, config.BackendMemory, cfg.Ledger.Backend)
	assert.Equal(t, config.EntityModeNone, cfg.EntityRegistry.Mode)
	assert.Equal(t, "verification_results", cfg.Elasticsearch.Index)
	assert.NotNil(t, cfg.Elasticsearch.Client.RetryConfig)
	assert.Equal(t, "info", cfg.Logging.Level)

	require.NoError(t, cfg.Validate())
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := writeConfig(t, `
service:
  port: 9000
verification:
  cache_ttl: 10m
  history_cap: 20
cache:
  backend: redis
redis:
  address: redis:6379
ledger:
  backend: sqlite
sqlite:
  path: /tmp/ledger.db
elasticsearch:
  enabled: true
  url: http://es:9200
entity_registry:
  base_url: http://entities:8080
`)
	t.Setenv("VERIFIER_PORT", "9100")
	t.Setenv("VERIFIER_CROSSREF_TIMEOUT", "500ms")

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.Service.Port)
	assert.Equal(t, 10*time.Minute, cfg.Verification.CacheTTL)
	assert.Equal(t, 500*time.Millisecond, cfg.Verification.CrossRefTimeout)
	assert.Equal(t, 20, cfg.Verification.HistoryCap)
	assert.Equal(t, config.BackendRedis, cfg.Cache.Backend)
	assert.Equal(t, "redis:6379", cfg.Redis.Address)
	assert.Equal(t, "/tmp/ledger.db", cfg.SQLite.Path)
	assert.True(t, cfg.Elasticsearch.Enabled)
	assert.Equal(t, "http://es:9200", cfg.Elasticsearch.Client.URL)
	assert.Equal(t, config.EntityModeHTTP, cfg.EntityRegistry.Mode)

	require.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*config.Config) {}},
		{name: "bad port", mutate: func(c *config.Config) { c.Service.Port = 70000 }, wantErr: "service.port"},
		{name: "batch too large", mutate: func(c *config.Config) { c.Service.MaxBatchSize = 500 }, wantErr: "service.max_batch_size"},
		{name: "history cap too large", mutate: func(c *config.Config) { c.Verification.HistoryCap = 51 }, wantErr: "verification.history_cap"},
		{name: "negative ttl", mutate: func(c *config.Config) { c.Verification.CacheTTL = -time.Second }, wantErr: "verification.cache_ttl"},
		{name: "unknown cache backend", mutate: func(c *config.Config) { c.Cache.Backend = "memcached" }, wantErr: "cache.backend"},
		{name: "unknown ledger backend", mutate: func(c *config.Config) { c.Ledger.Backend = "mongo" }, wantErr: "ledger.backend"},
		{name: "static entities without file", mutate: func(c *config.Config) { c.EntityRegistry.Mode = config.EntityModeStatic }, wantErr: "entity_registry.file"},
		{name: "http entities without url", mutate: func(c *config.Config) { c.EntityRegistry.Mode = config.EntityModeHTTP }, wantErr: "entity_registry.base_url"},
		{name: "bad log level", mutate: func(c *config.Config) { c.Logging.Level = "loud" }, wantErr: "logging.level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := config.LoadOptional(filepath.Join(t.TempDir(), "absent.yml"))
			require.NoError(t, err)
			tt.mutate(cfg)

			err = cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

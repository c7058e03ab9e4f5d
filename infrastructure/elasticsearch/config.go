package elasticsearch

import (
	"time"

	"github.com/jonesrussell/north-cloud/verifier/infrastructure/retry"
)

// Config holds Elasticsearch client settings.
type Config struct {
	URL      string `env:"ELASTICSEARCH_URL"      yaml:"url"`
	Username string `env:"ELASTICSEARCH_USERNAME" yaml:"username"`
	Password string `env:"ELASTICSEARCH_PASSWORD" yaml:"password"` //nolint:gosec // connection config
	APIKey   string `env:"ELASTICSEARCH_API_KEY"  yaml:"api_key"`

	// InsecureSkipVerify disables certificate checks for https URLs.
	InsecureSkipVerify bool `yaml:"insecure_skip_verify"`

	MaxRetries  int           `yaml:"max_retries"`
	PingTimeout time.Duration `yaml:"ping_timeout"`

	// RetryConfig controls the startup ping loop.
	RetryConfig *retry.Config `yaml:"-"`
}

// SetDefaults fills unset fields.
func (c *Config) SetDefaults() {
	if c.URL == "" {
		c.URL = "http://localhost:9200"
	}
	if c.MaxRetries == 0 {
		c.MaxRetries = 3
	}
	if c.PingTimeout == 0 {
		c.PingTimeout = 5 * time.Second
	}
	if c.RetryConfig == nil {
		c.RetryConfig = &retry.Config{
			MaxAttempts:  5,
			InitialDelay: 2 * time.Second,
			MaxDelay:     10 * time.Second,
			Multiplier:   2.0,
		}
	}
}

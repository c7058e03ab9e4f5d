package entity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/jonesrussell/north-cloud/verifier/infrastructure/circuitbreaker"
	infraerrors "github.com/jonesrussell/north-cloud/verifier/infrastructure/errors"
	infrahttp "github.com/jonesrussell/north-cloud/verifier/infrastructure/http"
	"github.com/jonesrussell/north-cloud/verifier/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/verifier/infrastructure/retry"
)

const existsPath = "/api/v1/entities/exists"

// HTTPConfig configures the remote entity registry client.
type HTTPConfig struct {
	BaseURL string
	APIKey  string
	// RequestsPerSecond and Burst bound outbound lookups.
	RequestsPerSecond float64
	Burst             int
	Timeout           time.Duration
	Retry             retry.Config
	Breaker           circuitbreaker.Config
}

// HTTPProvider queries a remote entity registry.
type HTTPProvider struct {
	baseURL string
	apiKey  string
	client  *http.Client
	limiter *rate.Limiter
	retry   retry.Config
	breaker *circuitbreaker.Breaker
	logger  logger.Logger
}

// NewHTTPProvider builds a provider. BaseURL is required.
func NewHTTPProvider(cfg HTTPConfig, log logger.Logger) (*HTTPProvider, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("entity registry base URL is required")
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = 20
	}
	if cfg.Burst <= 0 {
		cfg.Burst = int(cfg.RequestsPerSecond)
	}
	if cfg.Retry.IsRetryable == nil {
		cfg.Retry.IsRetryable = isRetryable
	}
	log = logger.OrNop(log)

	breakerCfg := cfg.Breaker
	breakerCfg.OnStateChange = func(from, to circuitbreaker.State) {
		log.Warn("Entity registry circuit changed state",
			logger.String("from", from.String()),
			logger.String("to", to.String()),
		)
	}

	return &HTTPProvider{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		client:  infrahttp.NewClient(infrahttp.ClientConfig{Timeout: cfg.Timeout}),
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		retry:   cfg.Retry,
		breaker: circuitbreaker.New(breakerCfg),
		logger:  log,
	}, nil
}

type existsResponse struct {
	Exists bool `json:"exists"`
}

// Exists asks the registry about name. Transient failures are retried
// within ctx; an open circuit fails fast.
func (p *HTTPProvider) Exists(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := p.breaker.Execute(ctx, func() error {
		return retry.Retry(ctx, p.retry, func() error {
			if err := p.limiter.Wait(ctx); err != nil {
				return fmt.Errorf("rate limit wait: %w", err)
			}
			var callErr error
			exists, callErr = p.lookup(ctx, name)
			return callErr
		})
	})
	if err != nil {
		return false, fmt.Errorf("entity lookup %q: %w", name, err)
	}
	return exists, nil
}

func (p *HTTPProvider) lookup(ctx context.Context, name string) (bool, error) {
	endpoint := p.baseURL + existsPath + "?" + url.Values{"name": {name}}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return false, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if p.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.apiKey)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return false, nil
	}
	if err := infraerrors.ParseHTTPError(resp); err != nil {
		return false, err
	}

	var body existsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return false, fmt.Errorf("decode response: %w", err)
	}
	return body.Exists, nil
}

func isRetryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var httpErr *infraerrors.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Temporary()
	}
	return retry.DefaultIsRetryable(err)
}

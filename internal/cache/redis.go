package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jonesrussell/north-cloud/verifier/internal/clock"
	"github.com/jonesrussell/north-cloud/verifier/internal/domain"
)

const keyPrefix = "verifier:result:"

// Redis shares results across instances. Keys expire with the remaining
// TTL and reads re-check age against the injected clock.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
	clock  clock.Clock
}

// NewRedis creates a Redis cache on an existing client.
func NewRedis(client *redis.Client, ttl time.Duration, clk clock.Clock) *Redis {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Redis{client: client, ttl: ttl, clock: clock.OrSystem(clk)}
}

func (c *Redis) key(id string) string {
	return keyPrefix + id
}

// Get returns a live entry. A missing key is a miss, not an error.
func (c *Redis) Get(ctx context.Context, id string) (*domain.VerificationResult, bool, error) {
	data, err := c.client.Get(ctx, c.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get cached result: %w", err)
	}

	var result domain.VerificationResult
	if unmarshalErr := json.Unmarshal(data, &result); unmarshalErr != nil {
		return nil, false, fmt.Errorf("unmarshal cached result: %w", unmarshalErr)
	}
	if result.Expired(c.clock.Now(), c.ttl) {
		return nil, false, nil
	}
	return &result, true, nil
}

// Set stores result until its TTL runs out. Already expired results are
// not written.
func (c *Redis) Set(ctx context.Context, result *domain.VerificationResult) error {
	remaining := c.ttl - c.clock.Now().Sub(result.Timestamp)
	if remaining <= 0 {
		return nil
	}

	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	if setErr := c.client.Set(ctx, c.key(result.VerificationID), data, remaining).Err(); setErr != nil {
		return fmt.Errorf("set cached result: %w", setErr)
	}
	return nil
}

// Close closes the underlying client.
func (c *Redis) Close() error {
	return c.client.Close()
}

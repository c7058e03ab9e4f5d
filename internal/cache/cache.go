// Package cache stores verification results by ID for a bounded time.
package cache

import "time"

const (
	// DefaultTTL is how long a result stays servable after it was computed.
	DefaultTTL = 30 * time.Minute
	// DefaultMaxEntries bounds the in-process cache.
	DefaultMaxEntries = 10_000
)

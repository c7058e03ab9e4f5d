// Package context holds timeout helpers shared by startup and shutdown code.
package context

import (
	"context"
	"time"
)

const (
	// DefaultShutdownTimeout bounds graceful shutdown of stores and servers.
	DefaultShutdownTimeout = 10 * time.Second
	// DefaultPingTimeout bounds connectivity checks against backing services.
	DefaultPingTimeout = 5 * time.Second
)

// WithPingTimeout derives a context bounded by DefaultPingTimeout.
func WithPingTimeout(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, DefaultPingTimeout)
}

// WithShutdownTimeout returns a fresh context bounded by DefaultShutdownTimeout.
// It deliberately does not derive from a caller context, which is usually
// already cancelled when shutdown begins.
func WithShutdownTimeout() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), DefaultShutdownTimeout)
}

package logger_test

import (
	"context"
	"testing"

	"github.com/jonesrussell/north-cloud/verifier/infrastructure/logger"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestWithContext_FromContext_RoundTrip(t *testing.T) {
	t.Parallel()

	nop := logger.NewNop()
	ctx := logger.WithContext(context.Background(), nop)

	if got := logger.FromContext(ctx); got != nop {
		t.Errorf("FromContext returned %v, want %v", got, nop)
	}
}

func TestFromContext_FallbackIsSingleton(t *testing.T) {
	t.Parallel()

	a := logger.FromContext(context.Background())
	b := logger.FromContext(context.Background())

	if a == nil || b == nil {
		t.Fatal("expected non-nil fallback logger")
	}
	if a != b {
		t.Error("FromContext returned different fallback instances")
	}

	a.Warn("fallback usable", logger.String("key", "value"))
}

func TestFromZap_WithCarriesFields(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.DebugLevel)
	log := logger.FromZap(zap.New(core)).With(logger.String("service", "verifier"))

	log.Info("verified", logger.Int("score", 88))

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["service"] != "verifier" {
		t.Errorf("service field = %v", fields["service"])
	}
	if fields["score"] != int64(88) {
		t.Errorf("score field = %v", fields["score"])
	}
}

func TestOrNop(t *testing.T) {
	t.Parallel()

	if logger.OrNop(nil) == nil {
		t.Fatal("OrNop(nil) returned nil")
	}
	nop := logger.NewNop()
	if logger.OrNop(nop) != nop {
		t.Error("OrNop should return the given logger")
	}
}

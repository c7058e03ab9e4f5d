package bootstrap

import (
	"context"
	"errors"

	infracontext "github.com/jonesrussell/north-cloud/verifier/infrastructure/context"
	infralogger "github.com/jonesrussell/north-cloud/verifier/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/verifier/infrastructure/profiling"
	"github.com/jonesrussell/north-cloud/verifier/internal/config"
)

// StartProfiling starts the configured profilers and returns a function
// that stops them. Profiler failures are logged, never fatal.
func StartProfiling(cfg *config.Config, logger infralogger.Logger) func() {
	profiler, err := profiling.StartPyroscope(cfg.Service.Name, cfg.Service.Version, cfg.Profiling)
	if err != nil {
		logger.Warn("Continuous profiling unavailable", infralogger.Error(err))
	} else if profiler != nil {
		logger.Info("Continuous profiling started", infralogger.String("server", cfg.Profiling.ServerURL))
	}

	pprofServer := profiling.StartPprofServer(cfg.Profiling, logger)

	return func() {
		if stopErr := profiler.Stop(); stopErr != nil {
			logger.Warn("Failed to stop profiler", infralogger.Error(stopErr))
		}
		if pprofServer == nil {
			return
		}
		ctx, cancel := infracontext.WithShutdownTimeout()
		defer cancel()
		if shutErr := pprofServer.Shutdown(ctx); shutErr != nil && !errors.Is(shutErr, context.Canceled) {
			logger.Warn("Failed to stop pprof server", infralogger.Error(shutErr))
		}
	}
}

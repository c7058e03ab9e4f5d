package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	infralogger "github.com/jonesrussell/north-cloud/verifier/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/verifier/internal/bootstrap"
	"github.com/jonesrussell/north-cloud/verifier/internal/config"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the verification HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			stopProfiling := bootstrap.StartProfiling(cfg, logger)
			defer stopProfiling()

			comps, err := bootstrap.NewComponents(cmd.Context(), cfg, logger)
			if err != nil {
				return fmt.Errorf("initialize components: %w", err)
			}
			defer func() {
				if closeErr := comps.Close(); closeErr != nil {
					logger.Error("Failed to close components", infralogger.Error(closeErr))
				}
			}()

			server, err := bootstrap.NewServer(comps)
			if err != nil {
				return err
			}

			logger.Info("Starting verifier",
				infralogger.String("version", cfg.Service.Version),
				infralogger.Int("port", cfg.Service.Port),
			)
			return server.RunWithGracefulShutdown(cmd.Context())
		},
	}
}

// setup loads configuration and the logger shared by every command.
func setup() (*config.Config, infralogger.Logger, error) {
	cfg, err := bootstrap.LoadConfig(cfgFile)
	if err != nil {
		return nil, nil, err
	}
	if debug {
		cfg.Service.Debug = true
		cfg.Logging.Level = "debug"
	}
	if Version != "dev" {
		cfg.Service.Version = Version
	}

	logger, err := bootstrap.CreateLogger(cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

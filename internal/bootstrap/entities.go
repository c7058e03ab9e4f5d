package bootstrap

import (
	"fmt"

	"github.com/jonesrussell/north-cloud/verifier/infrastructure/circuitbreaker"
	infralogger "github.com/jonesrussell/north-cloud/verifier/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/verifier/infrastructure/retry"
	"github.com/jonesrussell/north-cloud/verifier/internal/config"
	"github.com/jonesrussell/north-cloud/verifier/internal/entity"
)

// SetupEntities builds the player and team provider. Mode none returns
// nil, which confirms every name.
func SetupEntities(cfg *config.Config, logger infralogger.Logger) (entity.Provider, error) {
	ec := cfg.EntityRegistry

	switch ec.Mode {
	case config.EntityModeStatic:
		p, err := entity.LoadStaticProvider(ec.File)
		if err != nil {
			return nil, fmt.Errorf("load entity list: %w", err)
		}
		logger.Info("Using static entity list", infralogger.String("file", ec.File))
		return p, nil
	case config.EntityModeHTTP:
		p, err := entity.NewHTTPProvider(entity.HTTPConfig{
			BaseURL:           ec.BaseURL,
			APIKey:            ec.APIKey,
			RequestsPerSecond: ec.RequestsPerSecond,
			Timeout:           ec.Timeout,
			Retry:             retry.DefaultConfig(),
			Breaker:           circuitbreaker.DefaultConfig(),
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("create entity registry client: %w", err)
		}
		logger.Info("Using remote entity registry", infralogger.String("base_url", ec.BaseURL))
		return p, nil
	default:
		logger.Info("Entity cross-referencing disabled; names are accepted as given")
		return nil, nil //nolint:nilnil // nil provider is a valid setting
	}
}

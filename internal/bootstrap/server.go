package bootstrap

import (
	"errors"

	"github.com/gin-gonic/gin"

	infragin "github.com/jonesrussell/north-cloud/verifier/infrastructure/gin"
	"github.com/jonesrussell/north-cloud/verifier/infrastructure/metrics"
	"github.com/jonesrussell/north-cloud/verifier/internal/api"
)

const metricsNamespace = "verifier"

var errNoComponents = errors.New("components are required")

// NewServer builds the HTTP server around c.
func NewServer(c *Components) (*infragin.Server, error) {
	if c == nil {
		return nil, errNoComponents
	}
	cfg := c.Config

	handler := api.NewHandler(c.Verifier, c.Batch, c.Ledger, cfg.Service.MaxBatchSize, c.Logger)
	httpMetrics := metrics.NewHTTPMetrics(metricsNamespace, c.Telemetry.Registry)

	builder := infragin.NewServerBuilder(cfg.Service.Name, cfg.Service.Port).
		WithLogger(c.Logger).
		WithDebug(cfg.Service.Debug).
		WithVersion(cfg.Service.Version).
		WithCORSOrigins(cfg.Service.CORSOrigins).
		WithRoutes(func(router *gin.Engine) {
			api.SetupRoutes(router, handler, api.RouteOptions{
				JWTSecret:  cfg.Auth.JWTSecret,
				Metrics:    c.Telemetry.Handler(),
				Middleware: []gin.HandlerFunc{httpMetrics.Middleware()},
			})
		})
	for name, check := range c.healthChecks {
		builder = builder.WithHealthCheck(name, check)
	}

	return builder.Build(), nil
}

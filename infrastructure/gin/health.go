package gin

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthStatus is the overall or per-check status.
type HealthStatus string

const (
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusDegraded  HealthStatus = "degraded"
	HealthStatusUnhealthy HealthStatus = "unhealthy"
)

const checkTimeout = 3 * time.Second

// HealthResponse is the /health payload.
type HealthResponse struct {
	Status  HealthStatus           `json:"status"`
	Service string                 `json:"service"`
	Version string                 `json:"version"`
	Uptime  string                 `json:"uptime,omitempty"`
	Checks  map[string]CheckResult `json:"checks,omitempty"`
}

// CheckResult is one dependency check.
type CheckResult struct {
	Status  HealthStatus `json:"status"`
	Message string       `json:"message,omitempty"`
	Latency string       `json:"latency,omitempty"`
}

// HealthChecker runs a single dependency check.
type HealthChecker func(ctx context.Context) CheckResult

// HealthOptions configures RegisterHealthRoutes.
type HealthOptions struct {
	ServiceName    string
	ServiceVersion string
	Checks         map[string]HealthChecker
}

var startTime = sync.OnceValue(time.Now)

// RegisterHealthRoutes adds GET/HEAD /health and GET /ready.
// /health always answers 200 unless a check is unhealthy; /ready answers
// 503 when any check is not healthy.
func RegisterHealthRoutes(router *gin.Engine, opts HealthOptions) {
	started := startTime()

	router.GET("/health", func(c *gin.Context) {
		resp := runChecks(c.Request.Context(), opts, started)
		code := http.StatusOK
		if resp.Status == HealthStatusUnhealthy {
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, resp)
	})
	router.HEAD("/health", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	router.GET("/ready", func(c *gin.Context) {
		resp := runChecks(c.Request.Context(), opts, started)
		code := http.StatusOK
		if resp.Status != HealthStatusHealthy {
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, resp)
	})
}

func runChecks(ctx context.Context, opts HealthOptions, started time.Time) HealthResponse {
	resp := HealthResponse{
		Status:  HealthStatusHealthy,
		Service: opts.ServiceName,
		Version: opts.ServiceVersion,
		Uptime:  time.Since(started).Truncate(time.Second).String(),
	}
	if len(opts.Checks) == 0 {
		return resp
	}

	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	resp.Checks = make(map[string]CheckResult, len(opts.Checks))
	for name, check := range opts.Checks {
		result := check(ctx)
		resp.Checks[name] = result

		switch {
		case result.Status == HealthStatusUnhealthy:
			resp.Status = HealthStatusUnhealthy
		case result.Status == HealthStatusDegraded && resp.Status == HealthStatusHealthy:
			resp.Status = HealthStatusDegraded
		}
	}
	return resp
}

// PingChecker adapts a ping function. Failures report failStatus, so
// optional dependencies can degrade instead of failing the service.
func PingChecker(name string, failStatus HealthStatus, ping func(ctx context.Context) error) HealthChecker {
	return func(ctx context.Context) CheckResult {
		start := time.Now()
		err := ping(ctx)
		latency := time.Since(start).String()
		if err != nil {
			return CheckResult{Status: failStatus, Message: name + " check failed: " + err.Error(), Latency: latency}
		}
		return CheckResult{Status: HealthStatusHealthy, Message: name + " OK", Latency: latency}
	}
}

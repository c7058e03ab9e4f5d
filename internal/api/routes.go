package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	infragin "github.com/jonesrussell/north-cloud/verifier/infrastructure/gin"
)

// RouteOptions configures SetupRoutes.
type RouteOptions struct {
	// JWTSecret guards /api/v1 when non-empty.
	JWTSecret string
	// Metrics serves /metrics when set.
	Metrics http.Handler
	// Middleware runs on every route registered here.
	Middleware []gin.HandlerFunc
}

// SetupRoutes configures all API routes. Health routes are registered by
// the server builder.
func SetupRoutes(router *gin.Engine, handler *Handler, opts RouteOptions) {
	router.Use(opts.Middleware...)

	if opts.Metrics != nil {
		router.GET("/metrics", gin.WrapH(opts.Metrics))
	}

	v1 := infragin.ProtectedGroup(router, "/api/v1", opts.JWTSecret)
	{
		verify := v1.Group("/verify")
		{
			verify.POST("", handler.Verify)
			verify.POST("/batch", handler.VerifyBatch)
		}

		sources := v1.Group("/sources")
		{
			sources.GET("", handler.ListSources)
			sources.GET("/:domain", handler.GetSource)
		}
	}
}

// Package api exposes the verifier over HTTP.
package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	infralogger "github.com/jonesrussell/north-cloud/verifier/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/verifier/internal/domain"
)

// Verifier scores a single request.
type Verifier interface {
	Verify(ctx context.Context, req *domain.VerificationRequest) *domain.VerificationResult
}

// BatchProcessor scores many requests, preserving order.
type BatchProcessor interface {
	Process(ctx context.Context, reqs []*domain.VerificationRequest) ([]*domain.VerificationResult, error)
}

// Sources reads the source history ledger.
type Sources interface {
	Get(domainName string) (*domain.NewsSource, bool)
	List() []*domain.NewsSource
}

// Handler handles HTTP requests for the verifier API.
type Handler struct {
	verifier     Verifier
	batch        BatchProcessor
	sources      Sources
	maxBatchSize int
	logger       infralogger.Logger
}

// NewHandler creates a new API handler. maxBatchSize caps batch requests
// below the hard limit of MaxBatchSize.
func NewHandler(v Verifier, batch BatchProcessor, sources Sources, maxBatchSize int, log infralogger.Logger) *Handler {
	if maxBatchSize <= 0 || maxBatchSize > MaxBatchSize {
		maxBatchSize = MaxBatchSize
	}
	return &Handler{
		verifier:     v,
		batch:        batch,
		sources:      sources,
		maxBatchSize: maxBatchSize,
		logger:       infralogger.OrNop(log),
	}
}

// requestLogger returns the request-scoped logger set by the server's
// request ID middleware, or the handler logger.
func (h *Handler) requestLogger(c *gin.Context) infralogger.Logger {
	if _, ok := c.Get("request_id"); ok {
		return infralogger.FromContext(c.Request.Context())
	}
	return h.logger
}

// Verify handles POST /api/v1/verify
func (h *Handler) Verify(c *gin.Context) {
	log := h.requestLogger(c)

	var req domain.VerificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid verification request", infralogger.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	result := h.verifier.Verify(c.Request.Context(), &req)

	log.Debug("Content verified",
		infralogger.String("verification_id", result.VerificationID),
		infralogger.String("url", req.URL),
		infralogger.Int("score", result.VerificationScore),
		infralogger.String("credibility_level", string(result.CredibilityLevel)),
	)

	c.JSON(http.StatusOK, result)
}

// VerifyBatch handles POST /api/v1/verify/batch
func (h *Handler) VerifyBatch(c *gin.Context) {
	log := h.requestLogger(c)
	var req BatchVerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid batch verification request", infralogger.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	if len(req.Requests) > h.maxBatchSize {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: errBatchTooLarge.Error()})
		return
	}

	results, err := h.batch.Process(c.Request.Context(), req.Requests)
	if err != nil {
		log.Error("Batch verification failed",
			infralogger.Int("batch_size", len(req.Requests)),
			infralogger.Error(err),
		)
		status := http.StatusInternalServerError
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, ErrorResponse{Error: err.Error()})
		return
	}

	verified := 0
	for _, r := range results {
		if r.IsVerified {
			verified++
		}
	}

	c.JSON(http.StatusOK, BatchVerifyResponse{
		Results:  results,
		Total:    len(results),
		Verified: verified,
	})
}

// ListSources handles GET /api/v1/sources
func (h *Handler) ListSources(c *gin.Context) {
	list := h.sources.List()
	out := make([]SourceSummary, 0, len(list))
	for _, s := range list {
		out = append(out, summarize(s))
	}
	c.JSON(http.StatusOK, SourcesListResponse{Sources: out, Total: len(out)})
}

// GetSource handles GET /api/v1/sources/:domain
func (h *Handler) GetSource(c *gin.Context) {
	name := c.Param("domain")
	source, ok := h.sources.Get(name)
	if !ok {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "source not found: " + name})
		return
	}
	c.JSON(http.StatusOK, source)
}

package api

import (
	"errors"
	"time"

	"github.com/jonesrussell/north-cloud/verifier/internal/domain"
)

// MaxBatchSize is the hard limit on requests per batch call.
const MaxBatchSize = 100

var errBatchTooLarge = errors.New("batch exceeds the configured maximum size")

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// BatchVerifyRequest represents a batch verification request
type BatchVerifyRequest struct {
	Requests []*domain.VerificationRequest `binding:"required,min=1,max=100,dive,required" json:"requests"`
}

// BatchVerifyResponse represents a batch verification response
type BatchVerifyResponse struct {
	Results  []*domain.VerificationResult `json:"results"`
	Total    int                          `json:"total"`
	Verified int                          `json:"verified"`
}

// SourceSummary is the list view of a ledger entry, without history.
type SourceSummary struct {
	Domain              string             `json:"domain"`
	DisplayName         string             `json:"display_name"`
	BaselineReliability float64            `json:"baseline_reliability"`
	AverageScore        float64            `json:"average_score"`
	TotalVerifications  int                `json:"total_verifications"`
	LastVerified        time.Time          `json:"last_verified"`
	IsWhitelisted       bool               `json:"is_whitelisted"`
	RiskProfile         domain.RiskProfile `json:"risk_profile"`
}

// SourcesListResponse represents the ledger listing.
type SourcesListResponse struct {
	Sources []SourceSummary `json:"sources"`
	Total   int             `json:"total"`
}

func summarize(s *domain.NewsSource) SourceSummary {
	return SourceSummary{
		Domain:              s.Domain,
		DisplayName:         s.DisplayName,
		BaselineReliability: s.BaselineReliability,
		AverageScore:        s.AverageScore(),
		TotalVerifications:  s.TotalVerifications,
		LastVerified:        s.LastVerified,
		IsWhitelisted:       s.IsWhitelisted,
		RiskProfile:         s.RiskProfile,
	}
}

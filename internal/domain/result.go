package domain

import "time"

// CredibilityLevel is the discrete tier derived from the score.
type CredibilityLevel string

const (
	CredibilityExcellent  CredibilityLevel = "excellent"
	CredibilityGood       CredibilityLevel = "good"
	CredibilityModerate   CredibilityLevel = "moderate"
	CredibilityPoor       CredibilityLevel = "poor"
	CredibilityUnreliable CredibilityLevel = "unreliable"
)

// Score band lower bounds and the verification threshold.
const (
	ExcellentThreshold = 90
	GoodThreshold      = 75
	ModerateThreshold  = 60
	PoorThreshold      = 40
	VerifiedThreshold  = 70
	MaxScore           = 100
)

// LevelForScore maps a clamped score to its tier.
func LevelForScore(score int) CredibilityLevel {
	switch {
	case score >= ExcellentThreshold:
		return CredibilityExcellent
	case score >= GoodThreshold:
		return CredibilityGood
	case score >= ModerateThreshold:
		return CredibilityModerate
	case score >= PoorThreshold:
		return CredibilityPoor
	default:
		return CredibilityUnreliable
	}
}

// AuthenticityCheck summarises the factor list.
type AuthenticityCheck struct {
	DomainVerified     bool `json:"domain_verified"`
	SSLVerified        bool `json:"ssl_verified"`
	ContentQuality     int  `json:"content_quality"`
	SourceAttribution  bool `json:"source_attribution"`
	PublicationDate    bool `json:"publication_date"`
	AuthorVerified     bool `json:"author_verified"`
	CrossReferenceable bool `json:"cross_referenceable"`
}

// VerificationResult is the engine's output. It is never mutated after it
// is built; caches and the ledger share the same pointer.
type VerificationResult struct {
	VerificationID    string               `json:"verification_id"`
	URL               string               `json:"url"`
	IsVerified        bool                 `json:"is_verified"`
	VerificationScore int                  `json:"verification_score"`
	CredibilityLevel  CredibilityLevel     `json:"credibility_level"`
	Factors           []VerificationFactor `json:"verification_factors"`
	RiskFlags         []RiskFlag           `json:"risk_flags"`
	Authenticity      AuthenticityCheck    `json:"authenticity_check"`
	Timestamp         time.Time            `json:"timestamp"`
}

// Expired reports whether r is older than ttl at now.
func (r *VerificationResult) Expired(now time.Time, ttl time.Duration) bool {
	return now.Sub(r.Timestamp) >= ttl
}

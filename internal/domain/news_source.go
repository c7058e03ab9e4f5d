package domain

import "time"

// RiskProfile is derived from the flag count of a source's latest result.
type RiskProfile string

const (
	RiskProfileLow    RiskProfile = "low"
	RiskProfileMedium RiskProfile = "medium"
	RiskProfileHigh   RiskProfile = "high"
)

// MaxHistory bounds NewsSource.VerificationHistory.
const MaxHistory = 50

// RiskProfileForFlags maps a flag count to a profile: more than two is
// high, one or two is medium, none is low.
func RiskProfileForFlags(n int) RiskProfile {
	switch {
	case n > 2:
		return RiskProfileHigh
	case n > 0:
		return RiskProfileMedium
	default:
		return RiskProfileLow
	}
}

// NewsSource is the ledger entry for one bare domain.
type NewsSource struct {
	Domain      string `json:"domain"`
	DisplayName string `json:"display_name"`
	// BaselineReliability is a running mean of scores, seeded from the registry.
	BaselineReliability float64               `json:"baseline_reliability"`
	Specializations     []string              `json:"specializations"`
	KnownAuthors        []string              `json:"known_authors"`
	VerificationHistory []*VerificationResult `json:"verification_history"`
	// TotalVerifications counts every append, including evicted history.
	TotalVerifications int         `json:"total_verifications"`
	LastVerified       time.Time   `json:"last_verified"`
	IsWhitelisted      bool        `json:"is_whitelisted"`
	RiskProfile        RiskProfile `json:"risk_profile"`
}

// Clone returns a copy safe to hand to callers. History entries are shared
// because results are immutable.
func (s *NewsSource) Clone() *NewsSource {
	c := *s
	c.Specializations = append([]string(nil), s.Specializations...)
	c.KnownAuthors = append([]string(nil), s.KnownAuthors...)
	c.VerificationHistory = append([]*VerificationResult(nil), s.VerificationHistory...)
	return &c
}

// AverageScore is the mean score over the retained history.
func (s *NewsSource) AverageScore() float64 {
	if len(s.VerificationHistory) == 0 {
		return 0
	}
	total := 0
	for _, r := range s.VerificationHistory {
		total += r.VerificationScore
	}
	return float64(total) / float64(len(s.VerificationHistory))
}

package verifier

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jonesrussell/north-cloud/verifier/internal/domain"
)

// maxContentImpact is the sum of every positive content bonus.
const maxContentImpact = headlineBonus + summaryBonus + fullTextBonus + keywordBonus

// VerificationID derives a stable identifier from the request's identity
// fields, so repeated submissions share a cache entry.
func VerificationID(req *domain.VerificationRequest) string {
	name := strings.Join([]string{req.URL, req.Content.Headline, req.Content.PublishedAt}, "|")
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(name)).String()
}

// aggregate combines analyses in the order given into a result.
func aggregate(req *domain.VerificationRequest, analyses []Analysis, now time.Time) *domain.VerificationResult {
	var (
		factors []domain.VerificationFactor
		flags   []domain.RiskFlag
		raw     float64
	)
	for _, a := range analyses {
		factors = append(factors, a.Factors...)
		flags = append(flags, a.Flags...)
	}
	for _, f := range factors {
		raw += f.Impact
	}

	score := clampScore(raw)
	if score < domain.PoorThreshold && len(flags) == 0 {
		flags = append(flags, domain.RiskFlag{
			Type:           domain.RiskSourceUnreliable,
			Severity:       domain.SeverityHigh,
			Description:    fmt.Sprintf("Overall verification score of %d is below the reliability threshold", score),
			Recommendation: "Do not publish without independent confirmation",
		})
	}

	if factors == nil {
		factors = []domain.VerificationFactor{}
	}
	if flags == nil {
		flags = []domain.RiskFlag{}
	}

	return &domain.VerificationResult{
		VerificationID:    VerificationID(req),
		URL:               req.URL,
		IsVerified:        score >= domain.VerifiedThreshold,
		VerificationScore: score,
		CredibilityLevel:  domain.LevelForScore(score),
		Factors:           factors,
		RiskFlags:         flags,
		Authenticity:      authenticity(factors),
		Timestamp:         now.UTC(),
	}
}

func clampScore(raw float64) int {
	s := int(math.Round(raw))
	switch {
	case s < 0:
		return 0
	case s > domain.MaxScore:
		return domain.MaxScore
	default:
		return s
	}
}

func authenticity(factors []domain.VerificationFactor) domain.AuthenticityCheck {
	var (
		check   domain.AuthenticityCheck
		content float64
	)
	for _, f := range factors {
		switch f.Name {
		case domain.FactorTrustedDomain:
			check.DomainVerified = true
		case domain.FactorHTTPS:
			check.SSLVerified = true
		case domain.FactorVerifiedJournalist, domain.FactorOfficialSource:
			check.SourceAttribution = true
			check.AuthorVerified = true
		case domain.FactorAttributedAuthor:
			check.SourceAttribution = true
		case domain.FactorRecent, domain.FactorModeratelyRecent, domain.FactorOutdated, domain.FactorFutureDate:
			check.PublicationDate = true
		case domain.FactorPlayerReferences, domain.FactorTeamReferences:
			check.CrossReferenceable = true
		}
		if f.Category == domain.CategoryContent {
			content += f.Impact
		}
	}
	check.ContentQuality = clampScore(content / maxContentImpact * domain.MaxScore)
	return check
}

// fallbackResult is returned when the pipeline itself fails.
func fallbackResult(req *domain.VerificationRequest, now time.Time) *domain.VerificationResult {
	id := ""
	url := ""
	if req != nil {
		id = VerificationID(req)
		url = req.URL
	}
	return &domain.VerificationResult{
		VerificationID:    id,
		URL:               url,
		VerificationScore: 0,
		CredibilityLevel:  domain.CredibilityUnreliable,
		Factors:           []domain.VerificationFactor{},
		RiskFlags: []domain.RiskFlag{{
			Type:           domain.RiskSourceUnreliable,
			Severity:       domain.SeverityCritical,
			Description:    "Verification could not be completed",
			Recommendation: "Retry later or verify the content manually",
		}},
		Timestamp: now.UTC(),
	}
}

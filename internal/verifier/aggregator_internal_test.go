package verifier

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/north-cloud/verifier/internal/domain"
)

var aggNow = time.Date(2025, 7, 1, 12, 0, 0, 0, time.FixedZone("BST", 3600))

func TestAggregate_ClampsAndRounds(t *testing.T) {
	t.Parallel()

	req := &domain.VerificationRequest{URL: "https://example.com"}

	high := Analysis{}
	high.factor(domain.CategoryDomain, "a", 80, 0.4, "")
	high.factor(domain.CategoryContent, "b", 45, 0.1, "")
	r := aggregate(req, []Analysis{high}, aggNow)
	assert.Equal(t, 100, r.VerificationScore)
	assert.True(t, r.IsVerified)

	mid := Analysis{}
	mid.factor(domain.CategoryDomain, "a", 69.5, 0.4, "")
	r = aggregate(req, []Analysis{mid}, aggNow)
	assert.Equal(t, 70, r.VerificationScore)
	assert.True(t, r.IsVerified)
	assert.Equal(t, domain.CredibilityModerate, r.CredibilityLevel)

	low := Analysis{}
	low.factor(domain.CategoryDomain, "a", -80, 0.4, "")
	r = aggregate(req, []Analysis{low}, aggNow)
	assert.Equal(t, 0, r.VerificationScore)
	assert.Equal(t, time.UTC, r.Timestamp.Location())
}

func TestAggregate_LowScoreAlwaysFlagged(t *testing.T) {
	t.Parallel()

	req := &domain.VerificationRequest{URL: "https://example.com"}
	a := Analysis{}
	a.factor(domain.CategorySource, domain.FactorAttributedAuthor, 5, 0.05, "")

	r := aggregate(req, []Analysis{a}, aggNow)
	assert.Equal(t, 5, r.VerificationScore)
	require.Len(t, r.RiskFlags, 1)
	assert.Equal(t, domain.RiskSourceUnreliable, r.RiskFlags[0].Type)
	assert.Equal(t, domain.SeverityHigh, r.RiskFlags[0].Severity)

	flagged := Analysis{}
	flagged.flag(domain.RiskTimingAnomaly, domain.SeverityMedium, "old", "check")
	r = aggregate(req, []Analysis{a, flagged}, aggNow)
	require.Len(t, r.RiskFlags, 1)
	assert.Equal(t, domain.RiskTimingAnomaly, r.RiskFlags[0].Type)
}

func TestAggregate_EmptyAnalysesProduceEmptySlices(t *testing.T) {
	t.Parallel()

	r := aggregate(&domain.VerificationRequest{}, nil, aggNow)
	assert.NotNil(t, r.Factors)
	assert.Empty(t, r.Factors)
	assert.NotEmpty(t, r.RiskFlags)
}

func TestAuthenticity(t *testing.T) {
	t.Parallel()

	factors := []domain.VerificationFactor{
		{Category: domain.CategoryDomain, Name: domain.FactorUnknownDomain, Impact: -20},
		{Category: domain.CategoryDomain, Name: domain.FactorHTTPS, Impact: 5},
		{Category: domain.CategoryContent, Name: domain.FactorHeadlineLength, Impact: 10},
		{Category: domain.CategoryContent, Name: domain.FactorSummaryLength, Impact: 10},
		{Category: domain.CategoryContent, Name: domain.FactorSensational, Impact: -15},
		{Category: domain.CategorySource, Name: domain.FactorAttributedAuthor, Impact: 5},
		{Category: domain.CategoryTiming, Name: domain.FactorInvalidDate, Impact: -20},
		{Category: domain.CategoryConsistency, Name: domain.FactorTeamReferences, Impact: 10},
	}

	got := authenticity(factors)
	assert.Equal(t, domain.AuthenticityCheck{
		DomainVerified:     false,
		SSLVerified:        true,
		ContentQuality:     11,
		SourceAttribution:  true,
		PublicationDate:    false,
		AuthorVerified:     false,
		CrossReferenceable: true,
	}, got)
}

func TestAuthenticity_ContentQualityNeverNegative(t *testing.T) {
	t.Parallel()

	got := authenticity([]domain.VerificationFactor{
		{Category: domain.CategoryContent, Name: domain.FactorSensational, Impact: -15},
	})
	assert.Equal(t, 0, got.ContentQuality)
}

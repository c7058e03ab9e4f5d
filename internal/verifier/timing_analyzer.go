package verifier

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jonesrussell/north-cloud/verifier/internal/domain"
)

const (
	recentWindow   = 24 * time.Hour
	moderateWindow = 72 * time.Hour

	recentBonus      = 20
	moderateBonus    = 10
	outdatedPenalty  = -15
	futurePenalty    = -25
	invalidDateScore = -20
	timingWeight     = 0.2
)

// publishedLayouts are tried in order.
var publishedLayouts = []string{
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	time.RFC1123,
	time.RFC1123Z,
}

func parsePublished(raw string) (time.Time, error) {
	for _, layout := range publishedLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", raw)
}

// TimingAnalyzer scores publication freshness against the clock.
type TimingAnalyzer struct{}

// NewTimingAnalyzer creates a TimingAnalyzer.
func NewTimingAnalyzer() *TimingAnalyzer { return &TimingAnalyzer{} }

func (a *TimingAnalyzer) Name() string { return "timing" }

func (a *TimingAnalyzer) Analyze(_ context.Context, in *Input) Analysis {
	var out Analysis

	raw := strings.TrimSpace(in.Request.Content.PublishedAt)
	if raw == "" {
		return out
	}

	published, err := parsePublished(raw)
	if err != nil {
		out.factor(domain.CategoryTiming, domain.FactorInvalidDate, invalidDateScore, timingWeight,
			fmt.Sprintf("Publication date %q could not be parsed", raw))
		out.flag(domain.RiskMetadataSuspicious, domain.SeverityMedium,
			"Publication date is not a recognised timestamp",
			"Confirm when the article was actually published")
		return out
	}

	age := in.Now.Sub(published)
	hours := age.Hours()
	switch {
	case age < recentWindow:
		out.factor(domain.CategoryTiming, domain.FactorRecent, recentBonus, timingWeight,
			fmt.Sprintf("Published %.1f hours ago", hours))
	case age <= moderateWindow:
		out.factor(domain.CategoryTiming, domain.FactorModeratelyRecent, moderateBonus, timingWeight,
			fmt.Sprintf("Published %.1f hours ago", hours))
	default:
		out.factor(domain.CategoryTiming, domain.FactorOutdated, outdatedPenalty, timingWeight,
			fmt.Sprintf("Published %.0f days ago", hours/24))
		out.flag(domain.RiskTimingAnomaly, domain.SeverityMedium,
			"The report is more than three days old",
			"Check whether the story has since been confirmed or denied")
	}

	if published.After(in.Now) {
		out.factor(domain.CategoryTiming, domain.FactorFutureDate, futurePenalty, timingWeight,
			fmt.Sprintf("Publication date %s is in the future", published.UTC().Format(time.RFC3339)))
		out.flag(domain.RiskTimingAnomaly, domain.SeverityHigh,
			"The publication date lies in the future",
			"Treat the timestamp as fabricated until confirmed")
	}

	return out
}

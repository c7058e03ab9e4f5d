package verifier

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/jonesrussell/north-cloud/verifier/internal/domain"
)

const (
	headlineMinRunes = 10
	headlineMaxRunes = 200
	summaryMinRunes  = 50
	summaryMaxRunes  = 500
	fullTextMinRunes = 100

	headlineBonus        = 10
	summaryBonus         = 10
	fullTextBonus        = 15
	keywordBonus         = 10
	sensationalPenalty   = -15
	minTransferKeywords  = 2
	maxSensationalHits   = 2

	contentWeight = 0.1
)

var (
	transferKeywords = []string{
		"transfer", "signing", "deal", "agreement", "medical", "contract", "fee", "bid",
	}
	sensationalTokens = []string{
		"BREAKING", "EXCLUSIVE", "SHOCKING", "MASSIVE", "HUGE", "BOMBSHELL",
	}
)

// ContentAnalyzer scores the shape and tone of the article text.
type ContentAnalyzer struct {
	keywords    *keywordSet
	sensational *keywordSet
}

// NewContentAnalyzer builds the keyword automata once.
func NewContentAnalyzer() *ContentAnalyzer {
	return &ContentAnalyzer{
		keywords:    newKeywordSet(transferKeywords...),
		sensational: newKeywordSet(sensationalTokens...),
	}
}

func (a *ContentAnalyzer) Name() string { return "content" }

func (a *ContentAnalyzer) Analyze(_ context.Context, in *Input) Analysis {
	var out Analysis
	c := in.Request.Content

	if n := utf8.RuneCountInString(c.Headline); n >= headlineMinRunes && n <= headlineMaxRunes {
		out.factor(domain.CategoryContent, domain.FactorHeadlineLength, headlineBonus, contentWeight,
			fmt.Sprintf("Headline is %d characters", n))
	}
	if n := utf8.RuneCountInString(c.Summary); n >= summaryMinRunes && n <= summaryMaxRunes {
		out.factor(domain.CategoryContent, domain.FactorSummaryLength, summaryBonus, contentWeight,
			fmt.Sprintf("Summary is %d characters", n))
	}
	if n := utf8.RuneCountInString(c.FullText); n > fullTextMinRunes {
		out.factor(domain.CategoryContent, domain.FactorFullText, fullTextBonus, contentWeight*1.5,
			fmt.Sprintf("Full text of %d characters provided", n))
	}

	if found := a.keywords.Match(strings.ToLower(c.Headline + " " + c.Summary)); len(found) >= minTransferKeywords {
		out.factor(domain.CategoryContent, domain.FactorTransferKeywords, keywordBonus, contentWeight,
			"Transfer terminology: "+strings.Join(found, ", "))
	}

	// Repeats count: "BREAKING BREAKING BREAKING" is three hits.
	if counts := a.sensational.Count(strings.ToUpper(c.Headline)); total(counts) > maxSensationalHits {
		out.factor(domain.CategoryContent, domain.FactorSensational, sensationalPenalty, contentWeight*1.5,
			"Sensational terms in headline: "+describeCounts(counts))
		out.flag(domain.RiskContentInconsistency, domain.SeverityMedium,
			"Headline relies on sensational language",
			"Look for a sober report of the same story from a trusted outlet")
	}

	return out
}

// describeCounts renders counts as "BREAKING x3, HUGE", sorted by token.
func describeCounts(counts map[string]int) string {
	tokens := make([]string, 0, len(counts))
	for kw := range counts {
		tokens = append(tokens, kw)
	}
	sort.Strings(tokens)
	for i, kw := range tokens {
		if n := counts[kw]; n > 1 {
			tokens[i] = fmt.Sprintf("%s x%d", kw, n)
		}
	}
	return strings.Join(tokens, ", ")
}

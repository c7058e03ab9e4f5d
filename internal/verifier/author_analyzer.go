package verifier

import (
	"context"
	"fmt"
	"strings"

	"github.com/jonesrussell/north-cloud/verifier/internal/domain"
	"github.com/jonesrussell/north-cloud/verifier/internal/registry"
)

const (
	missingAuthorPenalty = -10
	missingAuthorWeight  = 0.1
	journalistWeight     = 0.2
	officialBonus        = 25
	officialWeight       = 0.25
	attributedBonus      = 5
	attributedWeight     = 0.05
)

// officialMarkers identify club and league channels. Matching is case-sensitive.
var officialMarkers = []string{"Official", "FC", "Club"}

// AuthorRegistry looks up journalist credibility.
type AuthorRegistry interface {
	Lookup(name string) (registry.AuthorCredibility, bool)
}

// AuthorAnalyzer scores the byline.
type AuthorAnalyzer struct {
	registry AuthorRegistry
}

// NewAuthorAnalyzer creates an AuthorAnalyzer.
func NewAuthorAnalyzer(reg AuthorRegistry) *AuthorAnalyzer {
	return &AuthorAnalyzer{registry: reg}
}

func (a *AuthorAnalyzer) Name() string { return "author" }

func (a *AuthorAnalyzer) Analyze(_ context.Context, in *Input) Analysis {
	var out Analysis
	author := strings.TrimSpace(in.Request.Content.SourceName)

	if author == "" {
		out.factor(domain.CategorySource, domain.FactorMissingAuthor, missingAuthorPenalty, missingAuthorWeight,
			"No author or outlet given")
		return out
	}

	if cred, ok := a.registry.Lookup(author); ok {
		out.factor(domain.CategorySource, domain.FactorVerifiedJournalist,
			float64(cred.Credibility)*journalistWeight, journalistWeight,
			fmt.Sprintf("%s is a registered journalist with credibility %d", cred.Name, cred.Credibility))
		return out
	}

	if isOfficial(author) {
		out.factor(domain.CategorySource, domain.FactorOfficialSource, officialBonus, officialWeight,
			fmt.Sprintf("%s appears to be an official channel", author))
		return out
	}

	out.factor(domain.CategorySource, domain.FactorAttributedAuthor, attributedBonus, attributedWeight,
		fmt.Sprintf("Attributed to %s", author))
	return out
}

func isOfficial(author string) bool {
	for _, m := range officialMarkers {
		if strings.Contains(author, m) {
			return true
		}
	}
	return false
}

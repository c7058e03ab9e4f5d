package verifier

import (
	"context"
	"fmt"
	"strings"

	"github.com/jonesrussell/north-cloud/verifier/internal/domain"
)

const (
	completeMetadataBonus = 15
	missingFieldPenalty   = -5
	transferMetadataBonus = 10
	metadataWeight        = 0.1
	transferTag           = "transfer"
)

// MetadataAnalyzer scores field completeness.
type MetadataAnalyzer struct{}

// NewMetadataAnalyzer creates a MetadataAnalyzer.
func NewMetadataAnalyzer() *MetadataAnalyzer { return &MetadataAnalyzer{} }

func (a *MetadataAnalyzer) Name() string { return "metadata" }

func (a *MetadataAnalyzer) Analyze(_ context.Context, in *Input) Analysis {
	var out Analysis
	c := in.Request.Content

	missing := missingFields(c)
	if len(missing) == 0 {
		out.factor(domain.CategoryMetadata, domain.FactorCompleteMetadata, completeMetadataBonus, metadataWeight,
			"Headline, summary, source and publication date present")
	} else {
		list := strings.Join(missing, ", ")
		out.factor(domain.CategoryMetadata, domain.FactorIncompleteMetadata,
			float64(missingFieldPenalty*len(missing)), metadataWeight, "Missing: "+list)
		out.flag(domain.RiskMetadataSuspicious, domain.SeverityMedium,
			fmt.Sprintf("Required metadata missing: %s", list),
			"Request the complete article record from the publisher")
	}

	if c.HasTag(transferTag) && c.Reliability != nil {
		out.factor(domain.CategoryMetadata, domain.FactorTransferMetadata, transferMetadataBonus, metadataWeight,
			fmt.Sprintf("Tagged as transfer news with publisher reliability %d", *c.Reliability))
	}

	return out
}

func missingFields(c domain.ContentDetails) []string {
	fields := []struct {
		name  string
		value string
	}{
		{"headline", c.Headline},
		{"summary", c.Summary},
		{"source_name", c.SourceName},
		{"published_at", c.PublishedAt},
	}

	var missing []string
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}

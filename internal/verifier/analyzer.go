package verifier

import (
	"context"
	"time"

	"github.com/jonesrussell/north-cloud/verifier/internal/domain"
)

// Input is the read-only snapshot every analyzer sees for one run.
type Input struct {
	Request *domain.VerificationRequest
	Now     time.Time
	// Source is a copy of the ledger entry for the request's domain, or nil.
	Source *domain.NewsSource
}

// Analysis is what one analyzer contributes.
type Analysis struct {
	Factors []domain.VerificationFactor
	Flags   []domain.RiskFlag
}

// Analyzer scores one aspect of a request. Analyzers must not mutate Input.
type Analyzer interface {
	Name() string
	Analyze(ctx context.Context, in *Input) Analysis
}

func (a *Analysis) factor(cat domain.FactorCategory, name string, impact, weight float64, evidence string) {
	a.Factors = append(a.Factors, domain.VerificationFactor{
		Category: cat,
		Name:     name,
		Impact:   impact,
		Weight:   weight,
		Evidence: evidence,
	})
}

func (a *Analysis) flag(t domain.RiskType, sev domain.Severity, description, recommendation string) {
	a.Flags = append(a.Flags, domain.RiskFlag{
		Type:           t,
		Severity:       sev,
		Description:    description,
		Recommendation: recommendation,
	})
}

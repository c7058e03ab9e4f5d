package domain

// RiskType enumerates risk flag kinds.
type RiskType string

const (
	RiskDomainMismatch       RiskType = "domain_mismatch"
	RiskContentInconsistency RiskType = "content_inconsistency"
	RiskTimingAnomaly        RiskType = "timing_anomaly"
	RiskSourceUnreliable     RiskType = "source_unreliable"
	RiskMetadataSuspicious   RiskType = "metadata_suspicious"
)

// Severity ranks how serious a risk flag is.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// RiskFlag annotates a result with a trust concern. Flags never stop scoring.
type RiskFlag struct {
	Type           RiskType `json:"type"`
	Severity       Severity `json:"severity"`
	Description    string   `json:"description"`
	Recommendation string   `json:"recommendation"`
}

package domain

// FactorCategory groups factors for display.
type FactorCategory string

const (
	CategoryDomain      FactorCategory = "domain"
	CategoryContent     FactorCategory = "content"
	CategoryTiming      FactorCategory = "timing"
	CategorySource      FactorCategory = "source"
	CategoryConsistency FactorCategory = "consistency"
	CategoryMetadata    FactorCategory = "metadata"
)

// Factor names. The aggregator derives the authenticity summary from these,
// so they double as stable identifiers.
const (
	FactorTrustedDomain      = "Trusted Domain"
	FactorUnknownDomain      = "Unknown Domain"
	FactorMalformedURL       = "Malformed URL"
	FactorHTTPS              = "HTTPS Enabled"
	FactorNoHTTPS            = "No HTTPS"
	FactorTrackRecord        = "Source Track Record"
	FactorHeadlineLength     = "Appropriate Headline Length"
	FactorSummaryLength      = "Detailed Summary"
	FactorFullText           = "Full Text Available"
	FactorTransferKeywords   = "Transfer Keywords"
	FactorSensational        = "Sensational Language"
	FactorMissingAuthor      = "Missing Author"
	FactorVerifiedJournalist = "Verified Journalist"
	FactorOfficialSource     = "Official Source"
	FactorAttributedAuthor   = "Attributed Author"
	FactorRecent             = "Recent Publication"
	FactorModeratelyRecent   = "Moderately Recent"
	FactorOutdated           = "Outdated Publication"
	FactorFutureDate         = "Future Publication Date"
	FactorInvalidDate        = "Invalid Publication Date"
	FactorPlayerReferences   = "Player References"
	FactorTeamReferences     = "Team References"
	FactorRealisticFee       = "Realistic Transfer Fee"
	FactorCompleteMetadata   = "Complete Metadata"
	FactorIncompleteMetadata = "Incomplete Metadata"
	FactorTransferMetadata   = "Transfer Metadata"
)

// VerificationFactor is one scored, explainable observation.
type VerificationFactor struct {
	Category FactorCategory `json:"category"`
	Name     string         `json:"factor"`
	// Impact is the signed score contribution, within [-100, 100].
	Impact float64 `json:"impact"`
	// Weight is the relative importance shown to readers, within [0, 1].
	Weight   float64 `json:"weight"`
	Evidence string  `json:"evidence"`
}

package verifier

import (
	"context"
	"fmt"
	"net/url"

	"golang.org/x/net/publicsuffix"

	"github.com/jonesrussell/north-cloud/verifier/internal/domain"
	"github.com/jonesrussell/north-cloud/verifier/internal/registry"
)

const (
	domainTrustWeight    = 0.4
	unknownDomainPenalty = -20
	malformedURLPenalty  = -30
	httpsBonus           = 5
	noHTTPSPenalty       = -10
	httpsWeight          = 0.05

	trackRecordMinResults = 3
	trackRecordImpact     = 5
	trackRecordWeight     = 0.05
	trackRecordStrong     = 75
	trackRecordWeak       = 40
)

// DomainRegistry looks up configured domain trust.
type DomainRegistry interface {
	Lookup(domain string) (registry.DomainTrust, bool)
}

type resolvedDomain struct {
	// Key is the ledger key: the matching registry domain when there is one,
	// otherwise the bare host.
	Key     string
	Trust   registry.DomainTrust
	Trusted bool
}

// resolveDomain maps a bare host to its registry entry, falling back to the
// registrable domain so subdomains inherit their parent's trust.
func resolveDomain(reg DomainRegistry, host string) resolvedDomain {
	if t, ok := reg.Lookup(host); ok {
		return resolvedDomain{Key: t.Domain, Trust: t, Trusted: true}
	}
	if etld1, err := publicsuffix.EffectiveTLDPlusOne(host); err == nil && etld1 != host {
		if t, ok := reg.Lookup(etld1); ok {
			return resolvedDomain{Key: t.Domain, Trust: t, Trusted: true}
		}
	}
	return resolvedDomain{Key: host}
}

// parseArticleURL returns the URL and its bare host, or an error when the
// URL is not absolute.
func parseArticleURL(raw string) (*url.URL, string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, "", err
	}
	if u.Scheme == "" || u.Hostname() == "" {
		return nil, "", fmt.Errorf("url %q is not absolute", raw)
	}
	return u, registry.NormalizeDomain(u.Hostname()), nil
}

// DomainAnalyzer scores the publishing domain and transport security.
type DomainAnalyzer struct {
	registry DomainRegistry
}

// NewDomainAnalyzer creates a DomainAnalyzer.
func NewDomainAnalyzer(reg DomainRegistry) *DomainAnalyzer {
	return &DomainAnalyzer{registry: reg}
}

func (a *DomainAnalyzer) Name() string { return "domain" }

func (a *DomainAnalyzer) Analyze(_ context.Context, in *Input) Analysis {
	var out Analysis

	u, host, err := parseArticleURL(in.Request.URL)
	if err != nil {
		out.factor(domain.CategoryDomain, domain.FactorMalformedURL, malformedURLPenalty, domainTrustWeight,
			fmt.Sprintf("URL could not be parsed: %v", err))
		out.flag(domain.RiskDomainMismatch, domain.SeverityHigh,
			"The article URL is malformed and its origin cannot be established",
			"Obtain the canonical article link before relying on this report")
		return out
	}

	resolved := resolveDomain(a.registry, host)
	if resolved.Trusted {
		out.factor(domain.CategoryDomain, domain.FactorTrustedDomain,
			float64(resolved.Trust.Reliability)*domainTrustWeight, domainTrustWeight,
			fmt.Sprintf("%s is a registered %s source with reliability %d",
				resolved.Trust.DisplayName, resolved.Trust.Category, resolved.Trust.Reliability))
	} else {
		out.factor(domain.CategoryDomain, domain.FactorUnknownDomain, unknownDomainPenalty, domainTrustWeight,
			fmt.Sprintf("%s is not in the trusted domain registry", host))
		out.flag(domain.RiskDomainMismatch, domain.SeverityMedium,
			fmt.Sprintf("Domain %s is not a recognised news source", host),
			"Cross-check the claim against an official club or league channel")
	}

	if u.Scheme == "https" {
		out.factor(domain.CategoryDomain, domain.FactorHTTPS, httpsBonus, httpsWeight, "Served over HTTPS")
	} else {
		out.factor(domain.CategoryDomain, domain.FactorNoHTTPS, noHTTPSPenalty, httpsWeight,
			fmt.Sprintf("Served over %s without TLS", u.Scheme))
		out.flag(domain.RiskMetadataSuspicious, domain.SeverityMedium,
			"The article is not served over HTTPS",
			"Treat the content as unverified until it is found on a secure page")
	}

	a.trackRecord(&out, in.Source)
	return out
}

// trackRecord rewards or penalises domains with an established history.
func (a *DomainAnalyzer) trackRecord(out *Analysis, src *domain.NewsSource) {
	if src == nil || len(src.VerificationHistory) < trackRecordMinResults {
		return
	}

	avg := src.AverageScore()
	switch {
	case avg >= trackRecordStrong:
		out.factor(domain.CategoryDomain, domain.FactorTrackRecord, trackRecordImpact, trackRecordWeight,
			fmt.Sprintf("Average score %.0f over the last %d verifications", avg, len(src.VerificationHistory)))
	case avg < trackRecordWeak:
		out.factor(domain.CategoryDomain, domain.FactorTrackRecord, -trackRecordImpact, trackRecordWeight,
			fmt.Sprintf("Average score %.0f over the last %d verifications", avg, len(src.VerificationHistory)))
	}
}

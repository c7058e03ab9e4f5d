// Package storage writes verification results to Elasticsearch for
// search and reporting.
package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	es "github.com/elastic/go-elasticsearch/v8"

	"github.com/jonesrussell/north-cloud/verifier/internal/domain"
	"github.com/jonesrussell/north-cloud/verifier/internal/registry"
)

// DefaultIndex receives every freshly computed result.
const DefaultIndex = "verification_results"

// resultsMapping keeps the factor and flag arrays queryable.
const resultsMapping = `{
  "mappings": {
    "properties": {
      "verification_id":    {"type": "keyword"},
      "url":                {"type": "keyword"},
      "domain":             {"type": "keyword"},
      "is_verified":        {"type": "boolean"},
      "verification_score": {"type": "integer"},
      "credibility_level":  {"type": "keyword"},
      "timestamp":          {"type": "date"},
      "verification_factors": {
        "type": "nested",
        "properties": {
          "category": {"type": "keyword"},
          "factor":   {"type": "keyword"},
          "impact":   {"type": "float"},
          "weight":   {"type": "float"},
          "evidence": {"type": "text"}
        }
      },
      "risk_flags": {
        "type": "nested",
        "properties": {
          "type":           {"type": "keyword"},
          "severity":       {"type": "keyword"},
          "description":    {"type": "text"},
          "recommendation": {"type": "text"}
        }
      }
    }
  }
}`

// ResultIndexer stores results in a single index. Each computation gets its
// own document so recomputations after cache expiry are kept.
type ResultIndexer struct {
	client *es.Client
	index  string
}

// NewResultIndexer creates an indexer writing to index, or DefaultIndex.
func NewResultIndexer(client *es.Client, index string) *ResultIndexer {
	if index == "" {
		index = DefaultIndex
	}
	return &ResultIndexer{client: client, index: index}
}

type resultDocument struct {
	*domain.VerificationResult
	Domain string `json:"domain,omitempty"`
}

// EnsureIndex creates the index with its mapping when it does not exist.
func (s *ResultIndexer) EnsureIndex(ctx context.Context) error {
	res, err := s.client.Indices.Exists([]string{s.index}, s.client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to check index: %w", err)
	}
	res.Body.Close()

	if res.StatusCode == http.StatusOK {
		return nil
	}
	if res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("error checking index %s: %s", s.index, res.Status())
	}

	res, err = s.client.Indices.Create(
		s.index,
		s.client.Indices.Create.WithBody(strings.NewReader(resultsMapping)),
		s.client.Indices.Create.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}
	defer res.Body.Close()

	// Another instance may have created it first.
	if res.IsError() && !strings.Contains(res.String(), "resource_already_exists_exception") {
		return fmt.Errorf("error creating index %s: %s", s.index, res.String())
	}
	return nil
}

// Index writes result as a new document.
func (s *ResultIndexer) Index(ctx context.Context, result *domain.VerificationResult) error {
	doc := resultDocument{VerificationResult: result, Domain: hostOf(result.URL)}
	docBytes, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	res, err := s.client.Index(
		s.index,
		bytes.NewReader(docBytes),
		s.client.Index.WithContext(ctx),
		s.client.Index.WithDocumentID(DocumentID(result)),
	)
	if err != nil {
		return fmt.Errorf("failed to index result: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("error indexing result: %s", res.String())
	}
	return nil
}

// Ping checks the cluster answers.
func (s *ResultIndexer) Ping(ctx context.Context) error {
	res, err := s.client.Ping(s.client.Ping.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to reach elasticsearch: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("error response from elasticsearch: %s", res.String())
	}
	return nil
}

// DocumentID combines the verification ID with the computation time.
func DocumentID(result *domain.VerificationResult) string {
	return fmt.Sprintf("%s-%d", result.VerificationID, result.Timestamp.UnixNano())
}

func hostOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return registry.NormalizeDomain(u.Hostname())
}

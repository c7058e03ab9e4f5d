// Package domain defines the verification data model shared by the
// analyzers, stores and the HTTP API.
package domain

import "strings"

// VerificationRequest is one piece of reported content plus where it came from.
type VerificationRequest struct {
	URL     string         `binding:"required" json:"url"`
	Content ContentDetails `json:"content"`
}

// ContentDetails is the structured article record.
type ContentDetails struct {
	Headline string `json:"headline"`
	Summary  string `json:"summary"`
	FullText string `json:"full_text,omitempty"`
	// SourceName is the author or publishing outlet as printed.
	SourceName string `json:"source_name"`
	// PublishedAt is kept raw; parsing it is part of the assessment.
	PublishedAt string   `json:"published_at"`
	Players     []string `json:"players,omitempty"`
	Teams       []string `json:"teams,omitempty"`
	// TransferFee is the claimed fee in the article's currency units.
	TransferFee *float64 `json:"transfer_fee,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	// Reliability is a publisher-supplied reliability rating, if any.
	Reliability *int `json:"reliability,omitempty"`
}

// HasTag reports whether tag is present, compared case-insensitively.
func (c ContentDetails) HasTag(tag string) bool {
	for _, t := range c.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

// Package registry holds the immutable domain trust and author credibility
// tables. Both are loaded once at startup from YAML or from built-in data.
package registry

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrInvalidEntry is returned for entries outside the accepted ranges.
var ErrInvalidEntry = errors.New("invalid registry entry")

// DomainTrust is the configured prior for a publishing domain.
type DomainTrust struct {
	Domain          string   `yaml:"domain"`
	DisplayName     string   `yaml:"name"`
	Reliability     int      `yaml:"reliability"`
	Category        string   `yaml:"category"`
	Specializations []string `yaml:"specializations"`
}

// AuthorCredibility is the configured prior for a journalist.
type AuthorCredibility struct {
	Name            string   `yaml:"name"`
	Credibility     int      `yaml:"credibility"`
	Specializations []string `yaml:"specializations"`
}

// File is the on-disk registry document.
type File struct {
	Domains []DomainTrust       `yaml:"domains"`
	Authors []AuthorCredibility `yaml:"authors"`
}

// DomainRegistry maps bare domains to trust entries.
type DomainRegistry struct {
	entries map[string]DomainTrust
}

// AuthorRegistry maps normalized author names to credibility entries.
type AuthorRegistry struct {
	entries map[string]AuthorCredibility
}

// Load reads a registry document from path.
func Load(path string) (*DomainRegistry, *AuthorRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read registry %s: %w", path, err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, nil, fmt.Errorf("parse registry %s: %w", path, err)
	}

	return FromFile(f)
}

// FromFile validates f and builds both registries.
func FromFile(f File) (*DomainRegistry, *AuthorRegistry, error) {
	domains, err := NewDomainRegistry(f.Domains)
	if err != nil {
		return nil, nil, err
	}
	authors, err := NewAuthorRegistry(f.Authors)
	if err != nil {
		return nil, nil, err
	}
	return domains, authors, nil
}

// NewDomainRegistry indexes entries by bare domain.
func NewDomainRegistry(entries []DomainTrust) (*DomainRegistry, error) {
	r := &DomainRegistry{entries: make(map[string]DomainTrust, len(entries))}
	for _, e := range entries {
		key := NormalizeDomain(e.Domain)
		if key == "" {
			return nil, fmt.Errorf("%w: empty domain", ErrInvalidEntry)
		}
		if e.Reliability < 0 || e.Reliability > 100 {
			return nil, fmt.Errorf("%w: %s reliability %d outside 0..100", ErrInvalidEntry, key, e.Reliability)
		}
		e.Domain = key
		e.Specializations = append([]string(nil), e.Specializations...)
		if e.DisplayName == "" {
			e.DisplayName = key
		}
		r.entries[key] = e
	}
	return r, nil
}

// NewAuthorRegistry indexes entries by normalized name.
func NewAuthorRegistry(entries []AuthorCredibility) (*AuthorRegistry, error) {
	r := &AuthorRegistry{entries: make(map[string]AuthorCredibility, len(entries))}
	for _, e := range entries {
		key := NormalizeName(e.Name)
		if key == "" {
			return nil, fmt.Errorf("%w: empty author name", ErrInvalidEntry)
		}
		if e.Credibility < 0 || e.Credibility > 100 {
			return nil, fmt.Errorf("%w: %s credibility %d outside 0..100", ErrInvalidEntry, e.Name, e.Credibility)
		}
		e.Specializations = append([]string(nil), e.Specializations...)
		r.entries[key] = e
	}
	return r, nil
}

// Lookup finds a domain. The argument is normalized first.
func (r *DomainRegistry) Lookup(domain string) (DomainTrust, bool) {
	e, ok := r.entries[NormalizeDomain(domain)]
	return e, ok
}

// Len returns the number of domains.
func (r *DomainRegistry) Len() int {
	return len(r.entries)
}

// Lookup finds an author by name, ignoring case, accents and spacing.
func (r *AuthorRegistry) Lookup(name string) (AuthorCredibility, bool) {
	e, ok := r.entries[NormalizeName(name)]
	return e, ok
}

// Len returns the number of authors.
func (r *AuthorRegistry) Len() int {
	return len(r.entries)
}

// NormalizeDomain lowercases host and strips a leading "www." and any
// trailing dot.
func NormalizeDomain(host string) string {
	h := strings.ToLower(strings.TrimSpace(host))
	h = strings.TrimSuffix(h, ".")
	return strings.TrimPrefix(h, "www.")
}

// Package entity answers whether a player or team name refers to a known
// real-world entity.
package entity

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/jonesrussell/north-cloud/verifier/internal/registry"
)

// Provider confirms entity names. Implementations must honour ctx
// cancellation; callers bound every lookup with a deadline.
type Provider interface {
	Exists(ctx context.Context, name string) (bool, error)
}

// StaticProvider answers from a fixed list.
type StaticProvider struct {
	names map[string]struct{}
}

// NewStaticProvider indexes names using the same folding as author lookups.
func NewStaticProvider(names ...string) *StaticProvider {
	p := &StaticProvider{names: make(map[string]struct{}, len(names))}
	for _, n := range names {
		if key := registry.NormalizeName(n); key != "" {
			p.names[key] = struct{}{}
		}
	}
	return p
}

// StaticFile is the YAML document read by LoadStaticProvider.
type StaticFile struct {
	Players []string `yaml:"players"`
	Teams   []string `yaml:"teams"`
}

// LoadStaticProvider reads players and teams from a YAML file.
func LoadStaticProvider(path string) (*StaticProvider, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read entity list %s: %w", path, err)
	}

	var f StaticFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse entity list %s: %w", path, err)
	}

	return NewStaticProvider(append(f.Players, f.Teams...)...), nil
}

// Exists reports membership. It fails only when ctx is already done.
func (p *StaticProvider) Exists(ctx context.Context, name string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	_, ok := p.names[registry.NormalizeName(name)]
	return ok, nil
}

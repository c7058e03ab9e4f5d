// Package ledger keeps a per-domain history of verification outcomes.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	infralogger "github.com/jonesrussell/north-cloud/verifier/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/verifier/internal/domain"
	"github.com/jonesrussell/north-cloud/verifier/internal/registry"
)

// ErrEmptyDomain is returned by Record for a blank domain.
var ErrEmptyDomain = errors.New("empty domain")

// Registry supplies the trust prior for new entries.
type Registry interface {
	Lookup(domain string) (registry.DomainTrust, bool)
}

// Store persists ledger entries across restarts.
type Store interface {
	LoadAll(ctx context.Context) ([]*domain.NewsSource, error)
	Save(ctx context.Context, source *domain.NewsSource) error
}

// Config tunes a Ledger.
type Config struct {
	// MaxHistory caps retained results per domain. Zero means domain.MaxHistory.
	MaxHistory int
}

// Ledger is safe for concurrent use. Callers only ever see copies.
type Ledger struct {
	mu      sync.RWMutex
	sources map[string]*domain.NewsSource

	// saveMu serializes store writes so the latest state always lands last.
	saveMu sync.Mutex

	registry   Registry
	store      Store
	maxHistory int
	log        infralogger.Logger
}

// New creates a Ledger and loads any snapshot held by store. A nil store
// keeps the ledger in memory only. Load failures are logged and the
// ledger starts empty.
func New(ctx context.Context, cfg Config, reg Registry, store Store, log infralogger.Logger) *Ledger {
	maxHistory := cfg.MaxHistory
	if maxHistory <= 0 || maxHistory > domain.MaxHistory {
		maxHistory = domain.MaxHistory
	}

	l := &Ledger{
		sources:    make(map[string]*domain.NewsSource),
		registry:   reg,
		store:      store,
		maxHistory: maxHistory,
		log:        infralogger.OrNop(log),
	}

	if store != nil {
		l.load(ctx)
	}
	return l
}

func (l *Ledger) load(ctx context.Context) {
	sources, err := l.store.LoadAll(ctx)
	if err != nil {
		l.log.Warn("Failed to load source ledger snapshot", infralogger.Error(err))
		return
	}
	for _, s := range sources {
		if len(s.VerificationHistory) > l.maxHistory {
			s.VerificationHistory = s.VerificationHistory[len(s.VerificationHistory)-l.maxHistory:]
		}
		l.sources[s.Domain] = s
	}
	l.log.Info("Source ledger loaded", infralogger.Int("sources", len(sources)))
}

// Get returns a copy of the entry for a bare domain.
func (l *Ledger) Get(domainName string) (*domain.NewsSource, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	s, ok := l.sources[registry.NormalizeDomain(domainName)]
	if !ok {
		return nil, false
	}
	return s.Clone(), true
}

// List returns copies of every entry ordered by domain.
func (l *Ledger) List() []*domain.NewsSource {
	l.mu.RLock()
	out := make([]*domain.NewsSource, 0, len(l.sources))
	for _, s := range l.sources {
		out = append(out, s.Clone())
	}
	l.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Domain < out[j].Domain })
	return out
}

// Len returns the number of tracked domains.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.sources)
}

// Record appends result to the domain's history, creating the entry on
// first sight. The in-memory update always happens; a store error is
// returned afterwards.
func (l *Ledger) Record(ctx context.Context, domainName, author string, result *domain.VerificationResult) error {
	key := registry.NormalizeDomain(domainName)
	if key == "" {
		return ErrEmptyDomain
	}

	l.mu.Lock()
	s, ok := l.sources[key]
	if !ok {
		s = l.newSource(key)
		l.sources[key] = s
	}
	l.apply(s, author, result)
	l.mu.Unlock()

	if l.store == nil {
		return nil
	}
	return l.save(ctx, key)
}

func (l *Ledger) newSource(key string) *domain.NewsSource {
	s := &domain.NewsSource{
		Domain:      key,
		DisplayName: key,
		RiskProfile: domain.RiskProfileLow,
	}
	if l.registry == nil {
		return s
	}
	if trust, ok := l.registry.Lookup(key); ok {
		s.DisplayName = trust.DisplayName
		s.BaselineReliability = float64(trust.Reliability)
		s.Specializations = append([]string(nil), trust.Specializations...)
		s.IsWhitelisted = true
	}
	return s
}

// apply must be called with l.mu held.
func (l *Ledger) apply(s *domain.NewsSource, author string, result *domain.VerificationResult) {
	// A registry seed counts as one prior observation.
	samples := s.TotalVerifications
	if s.IsWhitelisted {
		samples++
	}
	s.BaselineReliability = (s.BaselineReliability*float64(samples) + float64(result.VerificationScore)) /
		float64(samples+1)

	if author = strings.TrimSpace(author); author != "" && !containsFold(s.KnownAuthors, author) {
		s.KnownAuthors = append(s.KnownAuthors, author)
	}

	s.VerificationHistory = append(s.VerificationHistory, result)
	if over := len(s.VerificationHistory) - l.maxHistory; over > 0 {
		s.VerificationHistory = append([]*domain.VerificationResult(nil), s.VerificationHistory[over:]...)
	}

	s.TotalVerifications++
	s.LastVerified = result.Timestamp
	s.RiskProfile = domain.RiskProfileForFlags(len(result.RiskFlags))
}

func (l *Ledger) save(ctx context.Context, key string) error {
	l.saveMu.Lock()
	defer l.saveMu.Unlock()

	l.mu.RLock()
	snapshot := l.sources[key].Clone()
	l.mu.RUnlock()

	if err := l.store.Save(ctx, snapshot); err != nil {
		return fmt.Errorf("save source %s: %w", key, err)
	}
	return nil
}

// Close closes the store when it holds resources.
func (l *Ledger) Close() error {
	if c, ok := l.store.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}

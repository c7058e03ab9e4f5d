package cache

import (
	"context"
	"sync"
	"time"

	"github.com/jonesrussell/north-cloud/verifier/internal/clock"
	"github.com/jonesrussell/north-cloud/verifier/internal/domain"
)

// Memory is an in-process result cache. Expired entries are skipped on
// read and purged on every write.
type Memory struct {
	mu         sync.Mutex
	entries    map[string]*domain.VerificationResult
	ttl        time.Duration
	maxEntries int
	clock      clock.Clock
}

// NewMemory creates a Memory cache. Zero values select the defaults.
func NewMemory(ttl time.Duration, clk clock.Clock, maxEntries int) *Memory {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &Memory{
		entries:    make(map[string]*domain.VerificationResult),
		ttl:        ttl,
		maxEntries: maxEntries,
		clock:      clock.OrSystem(clk),
	}
}

// Get returns a live entry.
func (m *Memory) Get(_ context.Context, id string) (*domain.VerificationResult, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.entries[id]
	if !ok {
		return nil, false, nil
	}
	if r.Expired(m.clock.Now(), m.ttl) {
		delete(m.entries, id)
		return nil, false, nil
	}
	return r, true, nil
}

// Set stores result, purging expired entries first.
func (m *Memory) Set(_ context.Context, result *domain.VerificationResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.clock.Now()
	for id, r := range m.entries {
		if r.Expired(now, m.ttl) {
			delete(m.entries, id)
		}
	}

	if _, exists := m.entries[result.VerificationID]; !exists && len(m.entries) >= m.maxEntries {
		m.evictOldestLocked()
	}
	m.entries[result.VerificationID] = result
	return nil
}

// Len returns the number of stored entries, including expired ones not yet purged.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

func (m *Memory) evictOldestLocked() {
	var (
		oldestID string
		oldest   time.Time
	)
	for id, r := range m.entries {
		if oldestID == "" || r.Timestamp.Before(oldest) {
			oldestID, oldest = id, r.Timestamp
		}
	}
	delete(m.entries, oldestID)
}

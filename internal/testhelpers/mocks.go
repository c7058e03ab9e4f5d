// Package testhelpers provides fakes shared by the verifier's tests.
package testhelpers

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jonesrussell/north-cloud/verifier/internal/domain"
	"github.com/jonesrussell/north-cloud/verifier/internal/registry"
)

// FakeClock is a settable clock.
type FakeClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewFakeClock starts at now.
func NewFakeClock(now time.Time) *FakeClock {
	return &FakeClock{now: now}
}

// Now returns the current fake time.
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// ErrEntityLookup is returned by FailingEntityProvider.
var ErrEntityLookup = errors.New("entity registry unavailable")

// SlowEntityProvider blocks until ctx is done, simulating a registry that
// never answers within the deadline.
type SlowEntityProvider struct{}

// Exists waits for ctx and returns its error.
func (SlowEntityProvider) Exists(ctx context.Context, _ string) (bool, error) {
	<-ctx.Done()
	return false, ctx.Err()
}

// UnresponsiveEntityProvider sleeps for Delay without watching ctx, like a
// client with no request deadline of its own.
type UnresponsiveEntityProvider struct {
	Delay time.Duration
}

// Exists sleeps for Delay and then confirms the name.
func (p UnresponsiveEntityProvider) Exists(context.Context, string) (bool, error) {
	time.Sleep(p.Delay)
	return true, nil
}

// FailingEntityProvider always fails.
type FailingEntityProvider struct{}

// Exists returns ErrEntityLookup.
func (FailingEntityProvider) Exists(context.Context, string) (bool, error) {
	return false, ErrEntityLookup
}

// MockSourceStore is an in-memory ledger.Store.
type MockSourceStore struct {
	mu      sync.Mutex
	sources map[string]*domain.NewsSource
	SaveErr error
	Saves   int
}

// NewMockSourceStore returns an empty store.
func NewMockSourceStore(seed ...*domain.NewsSource) *MockSourceStore {
	m := &MockSourceStore{sources: make(map[string]*domain.NewsSource)}
	for _, s := range seed {
		m.sources[s.Domain] = s.Clone()
	}
	return m
}

// LoadAll returns copies of every stored source.
func (m *MockSourceStore) LoadAll(context.Context) ([]*domain.NewsSource, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.NewsSource, 0, len(m.sources))
	for _, s := range m.sources {
		out = append(out, s.Clone())
	}
	return out, nil
}

// Save stores a copy of source unless SaveErr is set.
func (m *MockSourceStore) Save(_ context.Context, source *domain.NewsSource) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Saves++
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.sources[source.Domain] = source.Clone()
	return nil
}

// Get returns the stored copy for domain.
func (m *MockSourceStore) Get(domainName string) (*domain.NewsSource, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sources[domainName]
	return s, ok
}

// Registries builds the built-in domain and author registries.
func Registries() (*registry.DomainRegistry, *registry.AuthorRegistry) {
	d, a, err := registry.FromFile(registry.Defaults())
	if err != nil {
		panic(err)
	}
	return d, a
}

// Float returns a pointer to v.
func Float(v float64) *float64 { return &v }

// Int returns a pointer to v.
func Int(v int) *int { return &v }

package registry_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/north-cloud/verifier/internal/registry"
)

func TestDomainRegistry_LookupNormalizes(t *testing.T) {
	t.Parallel()

	domains, _, err := registry.FromFile(registry.Defaults())
	require.NoError(t, err)

	entry, ok := domains.Lookup("WWW.BBC.co.uk")
	require.True(t, ok)
	assert.Equal(t, 95, entry.Reliability)
	assert.Equal(t, "broadcaster", entry.Category)

	_, ok = domains.Lookup("rumour-mill.example")
	assert.False(t, ok)
}

func TestAuthorRegistry_LookupFoldsAccentsAndSpacing(t *testing.T) {
	t.Parallel()

	_, authors, err := registry.FromFile(registry.Defaults())
	require.NoError(t, err)

	for _, name := range []string{"Gianluca Di Marzio", "gianluca  di  marzio", "Gianlúca Di Márzio"} {
		entry, ok := authors.Lookup(name)
		require.True(t, ok, name)
		assert.Equal(t, 88, entry.Credibility)
	}
}

func TestNormalizeName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "jose mourinho", registry.NormalizeName("  José   Mourinho "))
	assert.Equal(t, "", registry.NormalizeName("   "))
}

func TestLoad_FromYAML(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "registry.yml")
	doc := `
domains:
  - domain: www.example-club.com
    name: Example Club
    reliability: 99
    category: club
authors:
  - name: Jane Writer
    credibility: 70
    specializations: [transfers]
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	domains, authors, err := registry.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1, domains.Len())
	assert.Equal(t, 1, authors.Len())

	entry, ok := domains.Lookup("example-club.com")
	require.True(t, ok)
	assert.Equal(t, "Example Club", entry.DisplayName)
}

func TestNewDomainRegistry_RejectsOutOfRange(t *testing.T) {
	t.Parallel()

	_, err := registry.NewDomainRegistry([]registry.DomainTrust{{Domain: "x.com", Reliability: 101}})
	require.ErrorIs(t, err, registry.ErrInvalidEntry)

	_, err = registry.NewAuthorRegistry([]registry.AuthorCredibility{{Name: "", Credibility: 50}})
	require.ErrorIs(t, err, registry.ErrInvalidEntry)
}

func TestLoadOrDefaults_EmptyPath(t *testing.T) {
	t.Parallel()

	domains, authors, err := registry.LoadOrDefaults("")
	require.NoError(t, err)
	assert.Positive(t, domains.Len())
	assert.Positive(t, authors.Len())
}

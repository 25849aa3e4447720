package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docpack/docpack/internal/domain"
	"github.com/docpack/docpack/internal/filter"
)

func testRegistry(t *testing.T) *Registry {
	t.Helper()
	r := New()
	require.NoError(t, r.Register(&domain.Source{
		Slug:      "ruby",
		Name:      "Ruby",
		Versioned: true,
		Versions: []domain.Version{
			{Version: "3.4", Release: "3.4.1"},
			{Version: "3.3", Release: "3.3.6"},
		},
	}, filter.NewChain("ruby")))
	require.NoError(t, r.Register(&domain.Source{
		Slug: "redis",
		Name: "Redis",
	}, nil))
	return r
}

func TestFindVersioned(t *testing.T) {
	r := testRegistry(t)

	src, ver, err := r.Find("ruby", "3.4")
	require.NoError(t, err)
	assert.Equal(t, "Ruby", src.Name)
	assert.Equal(t, "3.4.1", ver.Release)
	assert.Equal(t, "ruby~3.4", ver.Path(), "registration binds the version to its source")
}

func TestFindNonVersioned(t *testing.T) {
	r := testRegistry(t)

	src, ver, err := r.Find("redis", "")
	require.NoError(t, err)
	assert.Equal(t, "redis", src.Path())
	assert.Empty(t, ver.Version)
}

func TestFindUnknownSlug(t *testing.T) {
	r := testRegistry(t)

	_, _, err := r.Find("perl", "")

	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.Contains(t, err.Error(), `"perl"`)
	assert.Contains(t, err.Error(), "docpack list", "lookup misses point at the list command")
}

func TestFindUnknownVersion(t *testing.T) {
	r := testRegistry(t)

	_, _, err := r.Find("ruby", "9.9")

	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.Contains(t, err.Error(), `"9.9"`)
}

func TestFindVersionOnNonVersionedSource(t *testing.T) {
	r := testRegistry(t)

	_, _, err := r.Find("redis", "7.4")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFindToken(t *testing.T) {
	r := testRegistry(t)

	src, ver, err := r.FindToken("ruby@3.3")
	require.NoError(t, err)
	assert.Equal(t, "ruby", src.Slug)
	assert.Equal(t, "3.3", ver.Version)
}

func TestParseToken(t *testing.T) {
	tests := []struct {
		token   string
		slug    string
		version string
	}{
		{"ruby@3.4", "ruby", "3.4"},
		{"redis", "redis", ""},
		{"a@b@1.0", "a@b", "1.0"},
		{"trailing@", "trailing", ""},
	}

	for _, tt := range tests {
		slug, version := ParseToken(tt.token)
		assert.Equal(t, tt.slug, slug, tt.token)
		assert.Equal(t, tt.version, version, tt.token)
	}
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	r := testRegistry(t)

	err := r.Register(&domain.Source{Slug: "ruby"}, nil)
	assert.ErrorContains(t, err, "duplicate source slug")

	err = r.Register(&domain.Source{
		Slug:      "crystal",
		Versioned: true,
		Versions: []domain.Version{
			{Version: "1.0"},
			{Version: "1.0"},
		},
	}, nil)
	assert.ErrorContains(t, err, "duplicate version")

	err = r.Register(&domain.Source{}, nil)
	assert.ErrorContains(t, err, "slug cannot be empty")
}

func TestAllPreservesRegistrationOrder(t *testing.T) {
	r := testRegistry(t)

	var slugs []string
	for _, src := range r.All() {
		slugs = append(slugs, src.Slug)
	}
	assert.Equal(t, []string{"ruby", "redis"}, slugs)
}

func TestChainFallsBackToEmpty(t *testing.T) {
	r := testRegistry(t)

	chain := r.Chain("unknown")
	require.NotNil(t, chain)
	assert.Equal(t, 0, chain.Len())
}

func TestBuiltinRegistersChains(t *testing.T) {
	r := Builtin()

	src, ver, err := r.Find("ruby", "3.4")
	require.NoError(t, err)
	assert.True(t, src.Versioned)
	assert.Equal(t, "ruby~3.4", ver.Path())
	assert.Greater(t, r.Chain("ruby").Len(), 0, "builtin sources carry their filter chains")
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sources.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
sources:
  - slug: crystal
    name: Crystal
    versioned: true
    base_url: https://crystal-lang.org/api
    pages:
      - index.html
    versions:
      - version: "1.14"
        release: "1.14.0"
`), 0644))

	r := New()
	require.NoError(t, r.LoadFile(path))

	src, ver, err := r.Find("crystal", "1.14")
	require.NoError(t, err)
	assert.Equal(t, "Crystal", src.Name)
	assert.Equal(t, "crystal~1.14", ver.Path())
}

func TestLoadFileRejectsEmptyAndInvalid(t *testing.T) {
	dir := t.TempDir()

	empty := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(empty, []byte("sources: []\n"), 0644))
	assert.ErrorIs(t, New().LoadFile(empty), ErrNoSources)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("{not yaml"), 0644))
	assert.ErrorIs(t, New().LoadFile(bad), ErrInvalidFormat)
}

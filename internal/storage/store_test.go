package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docpack/docpack/internal/domain"
)

func TestWritePageAndPageExists(t *testing.T) {
	s := NewStore(t.TempDir())

	require.NoError(t, s.WritePage("ruby~3.4", "String.html", "<p>String</p>"))
	require.NoError(t, s.WritePage("ruby~3.4", "Net/HTTP.html", "<p>HTTP</p>"))

	assert.True(t, s.PageExists("ruby~3.4", "String.html"))
	assert.True(t, s.PageExists("ruby~3.4", "Net/HTTP.html"))
	assert.False(t, s.PageExists("ruby~3.4", "Missing.html"))

	data, err := os.ReadFile(filepath.Join(s.DocsetDir("ruby~3.4"), "Net", "HTTP.html"))
	require.NoError(t, err)
	assert.Equal(t, "<p>HTTP</p>", string(data))
}

func TestMetaRoundtrip(t *testing.T) {
	s := NewStore(t.TempDir())

	entry := domain.ManifestEntry{
		Slug:        "ruby",
		Name:        "Ruby",
		Version:     "3.4",
		Release:     "3.4.1",
		Path:        "ruby~3.4",
		Pages:       42,
		GeneratedAt: time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, s.WriteMeta(entry))

	got, err := s.ReadMeta("ruby~3.4")
	require.NoError(t, err)
	assert.Equal(t, entry, got)
}

func TestMetasScansFirstLevelDirectories(t *testing.T) {
	s := NewStore(t.TempDir())

	require.NoError(t, s.WriteMeta(domain.ManifestEntry{Slug: "ruby", Version: "3.4", Path: "ruby~3.4"}))
	require.NoError(t, s.WriteMeta(domain.ManifestEntry{Slug: "redis", Path: "redis"}))

	// A docset directory without a summary is skipped, not an error
	require.NoError(t, os.MkdirAll(s.DocsetDir("half-built"), 0755))
	// Stray files at the top level are ignored
	require.NoError(t, os.WriteFile(filepath.Join(s.DocsDir(), "manifest.json"), []byte("{}"), 0644))

	entries, err := s.Metas()
	require.NoError(t, err)
	require.Len(t, entries, 2)

	paths := []string{entries[0].Path, entries[1].Path}
	assert.ElementsMatch(t, []string{"ruby~3.4", "redis"}, paths)
}

func TestMetasMissingDocsDir(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "never-created"))

	entries, err := s.Metas()
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestReadMetaInvalidJSON(t *testing.T) {
	s := NewStore(t.TempDir())
	dir := s.DocsetDir("broken")
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, MetaFile), []byte("nope"), 0644))

	_, err := s.ReadMeta("broken")
	assert.ErrorContains(t, err, "invalid meta.json")
}

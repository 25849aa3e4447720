// Package manifest builds and loads the aggregate docset index. The
// manifest is the union of every docset summary as of the last build;
// it is rebuilt whole, never patched.
package manifest

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/docpack/docpack/internal/domain"
)

// File is the manifest artifact name inside the docs directory
const File = "manifest.json"

// Sentinel errors
var (
	// ErrNotBuilt indicates no manifest artifact exists yet
	ErrNotBuilt = errors.New("manifest has not been built")
	// ErrInvalidFormat indicates the manifest artifact is not valid JSON
	ErrInvalidFormat = errors.New("manifest must be valid JSON")
)

// Manifest is the aggregate index of all built docsets
type Manifest struct {
	GeneratedAt time.Time              `json:"generated_at"`
	Entries     []domain.ManifestEntry `json:"entries"`
}

// MetaSource yields the docset summaries to aggregate
type MetaSource interface {
	Metas() ([]domain.ManifestEntry, error)
}

// Builder rebuilds the manifest artifact from docset summaries
type Builder struct {
	source  MetaSource
	docsDir string
}

// NewBuilder creates a builder that writes into docsDir
func NewBuilder(source MetaSource, docsDir string) *Builder {
	return &Builder{source: source, docsDir: docsDir}
}

// Path returns the manifest artifact path
func (b *Builder) Path() string {
	return filepath.Join(b.docsDir, File)
}

// Build aggregates all docset summaries into the manifest artifact,
// replacing any previous build.
func (b *Builder) Build() (*Manifest, error) {
	entries, err := b.source.Metas()
	if err != nil {
		return nil, err
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Slug != entries[j].Slug {
			return entries[i].Slug < entries[j].Slug
		}
		return entries[i].Version < entries[j].Version
	})

	m := &Manifest{
		GeneratedAt: time.Now().UTC(),
		Entries:     entries,
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(b.docsDir, 0755); err != nil {
		return nil, err
	}
	if err := os.WriteFile(b.Path(), data, 0644); err != nil {
		return nil, err
	}

	return m, nil
}

// Load reads a manifest artifact from the docs directory
func Load(docsDir string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(docsDir, File))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotBuilt
		}
		return nil, err
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, ErrInvalidFormat
	}
	return &m, nil
}

// Package storage lays out the docs directory: one directory per
// docset keyed by its derived path, normalized pages inside it, and a
// meta.json summary the manifest builder aggregates.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/docpack/docpack/internal/domain"
	"github.com/docpack/docpack/internal/utils"
)

// MetaFile is the per-docset summary file name
const MetaFile = "meta.json"

// Store persists docsets under one docs directory
type Store struct {
	docsDir string
}

// NewStore creates a store rooted at docsDir
func NewStore(docsDir string) *Store {
	return &Store{docsDir: docsDir}
}

// DocsDir returns the store root
func (s *Store) DocsDir() string {
	return s.docsDir
}

// DocsetDir returns the directory for a docset path
func (s *Store) DocsetDir(path string) string {
	return filepath.Join(s.docsDir, filepath.FromSlash(path))
}

// WritePage persists one normalized page under the docset directory
func (s *Store) WritePage(docsetPath, pagePath, content string) error {
	target := utils.PagePath(s.DocsetDir(docsetPath), pagePath)
	if err := utils.EnsureDir(target); err != nil {
		return err
	}
	return os.WriteFile(target, []byte(content), 0644)
}

// PageExists checks whether a page's normalized output is present
func (s *Store) PageExists(docsetPath, pagePath string) bool {
	_, err := os.Stat(utils.PagePath(s.DocsetDir(docsetPath), pagePath))
	return err == nil
}

// WriteMeta writes the docset summary used for manifest aggregation
func (s *Store) WriteMeta(entry domain.ManifestEntry) error {
	dir := s.DocsetDir(entry.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, MetaFile), data, 0644)
}

// ReadMeta reads one docset's summary
func (s *Store) ReadMeta(docsetPath string) (domain.ManifestEntry, error) {
	var entry domain.ManifestEntry

	data, err := os.ReadFile(filepath.Join(s.DocsetDir(docsetPath), MetaFile))
	if err != nil {
		return entry, err
	}
	if err := json.Unmarshal(data, &entry); err != nil {
		return entry, fmt.Errorf("invalid %s for %s: %w", MetaFile, docsetPath, err)
	}
	return entry, nil
}

// Metas scans the docs directory and returns every docset summary.
// Docset paths are flat (slug or slug~version), so only first-level
// directories are considered.
func (s *Store) Metas() ([]domain.ManifestEntry, error) {
	dirents, err := os.ReadDir(s.docsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var entries []domain.ManifestEntry
	for _, dirent := range dirents {
		if !dirent.IsDir() {
			continue
		}
		entry, err := s.ReadMeta(dirent.Name())
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Package registry holds the known documentation sources and the
// filter chain bound to each. Sources and chains are registered at
// construction time and read-only afterwards.
package registry

import (
	"fmt"
	"strings"

	"github.com/docpack/docpack/internal/domain"
	"github.com/docpack/docpack/internal/filter"
)

// Registry maps source slugs to definitions and filter chains
type Registry struct {
	sources map[string]*domain.Source
	chains  map[string]*filter.Chain
	order   []string
}

// New creates an empty registry
func New() *Registry {
	return &Registry{
		sources: make(map[string]*domain.Source),
		chains:  make(map[string]*filter.Chain),
	}
}

// Register adds a source and its filter chain. Slugs must be unique
// within the registry and version strings unique within the source.
func (r *Registry) Register(src *domain.Source, chain *filter.Chain) error {
	if src.Slug == "" {
		return fmt.Errorf("source slug cannot be empty")
	}
	if _, exists := r.sources[src.Slug]; exists {
		return fmt.Errorf("duplicate source slug %q", src.Slug)
	}

	seen := make(map[string]bool, len(src.Versions))
	for i := range src.Versions {
		v := src.Versions[i].Version
		if seen[v] {
			return fmt.Errorf("duplicate version %q for source %q", v, src.Slug)
		}
		seen[v] = true
		src.Versions[i].Bind(src.Slug)
	}

	if chain == nil {
		chain = filter.NewChain(src.Slug)
	}

	r.sources[src.Slug] = src
	r.chains[src.Slug] = chain
	r.order = append(r.order, src.Slug)
	return nil
}

// MustRegister registers a source and panics on definition errors.
// Intended for the builtin table, where a bad definition is a defect.
func (r *Registry) MustRegister(src *domain.Source, chain *filter.Chain) {
	if err := r.Register(src, chain); err != nil {
		panic(err)
	}
}

// Find resolves a slug and optional version string. The zero Version
// is returned for non-versioned sources looked up without a version.
func (r *Registry) Find(slug, version string) (*domain.Source, domain.Version, error) {
	src, ok := r.sources[slug]
	if !ok {
		return nil, domain.Version{}, &domain.NotFoundError{Slug: slug}
	}

	if version == "" {
		return src, domain.Version{}, nil
	}

	if !src.Versioned {
		return nil, domain.Version{}, &domain.NotFoundError{Slug: slug, Version: version}
	}
	v, ok := src.Version(version)
	if !ok {
		return nil, domain.Version{}, &domain.NotFoundError{Slug: slug, Version: version}
	}
	return src, v, nil
}

// FindToken resolves a combined "slug@version" token
func (r *Registry) FindToken(token string) (*domain.Source, domain.Version, error) {
	slug, version := ParseToken(token)
	return r.Find(slug, version)
}

// All returns every registered source in registration order
func (r *Registry) All() []*domain.Source {
	out := make([]*domain.Source, 0, len(r.order))
	for _, slug := range r.order {
		out = append(out, r.sources[slug])
	}
	return out
}

// Chain returns the filter chain for a slug, or an empty chain for
// unknown slugs.
func (r *Registry) Chain(slug string) *filter.Chain {
	if c, ok := r.chains[slug]; ok {
		return c
	}
	return filter.NewChain(slug)
}

// ParseToken splits a "slug@version" token. The version part is the
// suffix after the last separator, so slugs containing "@" still parse.
func ParseToken(token string) (slug, version string) {
	idx := strings.LastIndex(token, "@")
	if idx < 0 {
		return token, ""
	}
	return token[:idx], token[idx+1:]
}

// Package scraper generates docsets: it fetches each source page,
// runs the source's filter chain over the parsed tree, and persists
// the normalized result. Manifest rebuilds are gated on generation
// outcome so a failed batch never publishes a partial index.
package scraper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/docpack/docpack/internal/domain"
	"github.com/docpack/docpack/internal/filter"
	"github.com/docpack/docpack/internal/manifest"
	"github.com/docpack/docpack/internal/registry"
	"github.com/docpack/docpack/internal/storage"
	"github.com/docpack/docpack/internal/utils"
)

// DefaultWorkers is the page-level scrape parallelism per docset
const DefaultWorkers = 4

// Generator builds docsets from registered sources
type Generator struct {
	fetcher   domain.Fetcher
	registry  *registry.Registry
	store     *storage.Store
	builder   *manifest.Builder
	workers   int
	overwrite bool
	progress  bool
	logger    *utils.Logger
}

// Options configures a Generator
type Options struct {
	Fetcher  domain.Fetcher
	Registry *registry.Registry
	Store    *storage.Store
	Builder  *manifest.Builder
	Workers  int
	// Overwrite regenerates pages whose normalized output already exists
	Overwrite bool
	Progress  bool
	Logger    *utils.Logger
}

// New creates a Generator
func New(opts Options) *Generator {
	workers := opts.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}
	logger := opts.Logger
	if logger == nil {
		logger = utils.NewDefaultLogger()
	}
	return &Generator{
		fetcher:   opts.Fetcher,
		registry:  opts.Registry,
		store:     opts.Store,
		builder:   opts.Builder,
		workers:   workers,
		overwrite: opts.Overwrite,
		progress:  opts.Progress,
		logger:    logger.WithComponent("scraper"),
	}
}

// Generate builds one docset and rebuilds the manifest if the build
// succeeds. The version is ignored for non-versioned sources.
func (g *Generator) Generate(ctx context.Context, src *domain.Source, ver domain.Version) error {
	if err := g.generateDocset(ctx, src, ver); err != nil {
		return err
	}
	_, err := g.builder.Build()
	return err
}

// GenerateAll builds every version of a source. The manifest is
// rebuilt only when all versions succeed; a partial batch leaves the
// previous manifest in place while keeping the docsets that did build.
func (g *Generator) GenerateAll(ctx context.Context, src *domain.Source) error {
	if !src.Versioned {
		return g.Generate(ctx, src, domain.Version{})
	}

	var errs []error
	for _, ver := range src.Versions {
		if err := g.generateDocset(ctx, src, ver); err != nil {
			g.logger.Error().Err(err).
				Str("source", src.Slug).
				Str("version", ver.Version).
				Msg("Docset generation failed")
			errs = append(errs, fmt.Errorf("%s@%s: %w", src.Slug, ver.Version, err))
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	_, err := g.builder.Build()
	return err
}

// generateDocset scrapes, filters, and persists one docset, then
// writes its summary. It never touches the manifest.
func (g *Generator) generateDocset(ctx context.Context, src *domain.Source, ver domain.Version) error {
	docsetPath := src.Path()
	release := src.Release
	version := ""
	if src.Versioned {
		docsetPath = ver.Path()
		release = ver.Release
		version = ver.Version
	}

	log := g.logger.WithSource(src.Slug).WithDocset(docsetPath)
	log.Info().Int("pages", len(src.Pages)).Msg("Generating docset")

	chain := g.registry.Chain(src.Slug)

	bar := utils.NewProgressBar(len(src.Pages), utils.DescScraping)
	errs := utils.ParallelForEach(ctx, src.Pages, g.workers, func(ctx context.Context, page string) error {
		defer func() {
			if g.progress {
				_ = bar.Add(1)
			}
		}()
		return g.generatePage(ctx, src, version, docsetPath, page, chain)
	})
	if g.progress {
		_ = bar.Finish()
	}

	if failed := utils.CollectErrors(errs); len(failed) > 0 {
		return fmt.Errorf("%d of %d pages failed: %w", len(failed), len(src.Pages), errors.Join(failed...))
	}

	return g.store.WriteMeta(domain.ManifestEntry{
		Slug:        src.Slug,
		Name:        src.Name,
		Version:     version,
		Release:     release,
		Path:        docsetPath,
		Pages:       len(src.Pages),
		GeneratedAt: time.Now().UTC(),
	})
}

// generatePage fetches one page, applies the filter chain, and writes
// the normalized output.
func (g *Generator) generatePage(ctx context.Context, src *domain.Source, version, docsetPath, page string, chain *filter.Chain) error {
	if !g.overwrite && g.store.PageExists(docsetPath, page) {
		return nil
	}

	url := PageURL(src.BaseURL, version, page)

	body, err := g.fetcher.Fetch(ctx, url)
	if err != nil {
		return fmt.Errorf("page %s: %w", page, err)
	}

	body, err = ConvertToUTF8(body)
	if err != nil {
		return fmt.Errorf("page %s: decode: %w", page, err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("page %s: parse: %w", page, err)
	}

	if err := chain.Apply(doc); err != nil {
		return fmt.Errorf("page %s: %w", page, err)
	}

	html, err := doc.Html()
	if err != nil {
		return fmt.Errorf("page %s: render: %w", page, err)
	}

	if err := g.store.WritePage(docsetPath, page, html); err != nil {
		return fmt.Errorf("page %s: %w", page, err)
	}
	return nil
}

// PageURL derives the fetch URL for a page. Versioned sources publish
// under a version path segment between the base and the page.
func PageURL(baseURL, version, page string) string {
	base := strings.TrimRight(baseURL, "/")
	page = strings.TrimLeft(page, "/")
	if version == "" {
		return base + "/" + page
	}
	return base + "/" + version + "/" + page
}

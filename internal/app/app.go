// Package app wires the configuration into the concrete collaborators
// and exposes the operations the CLI runs. Commands stay thin; all
// composition lives here.
package app

import (
	"context"
	"fmt"
	"os"

	"github.com/docpack/docpack/internal/archive"
	"github.com/docpack/docpack/internal/cache"
	"github.com/docpack/docpack/internal/config"
	"github.com/docpack/docpack/internal/domain"
	"github.com/docpack/docpack/internal/downloader"
	"github.com/docpack/docpack/internal/fetcher"
	"github.com/docpack/docpack/internal/manifest"
	"github.com/docpack/docpack/internal/registry"
	"github.com/docpack/docpack/internal/scraper"
	"github.com/docpack/docpack/internal/storage"
	"github.com/docpack/docpack/internal/syncer"
	"github.com/docpack/docpack/internal/utils"
)

// App holds the wired application components
type App struct {
	cfg        *config.Config
	logger     *utils.Logger
	registry   *registry.Registry
	store      *storage.Store
	builder    *manifest.Builder
	fetcher    *fetcher.Client
	fetchCache domain.Cache
	archiver   *archive.TarGz
	generator  *scraper.Generator
	remote     domain.RemoteSync
}

// Options contains options for creating an App
type Options struct {
	Config  *config.Config
	Verbose bool
}

// New wires an App from configuration
func New(opts Options) (*App, error) {
	cfg := opts.Config
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	logLevel := cfg.Logging.Level
	if opts.Verbose {
		logLevel = "debug"
	}
	logger := utils.NewLogger(utils.LoggerOptions{
		Level:   logLevel,
		Format:  cfg.Logging.Format,
		Verbose: opts.Verbose,
	})

	reg := registry.Builtin()
	if cfg.Docs.Registry != "" {
		if err := reg.LoadFile(utils.ExpandPath(cfg.Docs.Registry)); err != nil {
			return nil, fmt.Errorf("failed to load source definitions: %w", err)
		}
	}

	var fetchCache domain.Cache
	if cfg.Cache.Enabled {
		cacheDir := cfg.Cache.Directory
		if cacheDir == "" {
			cacheDir = config.CacheDir()
		}
		var err error
		fetchCache, err = cache.NewBadgerCache(cache.Options{
			Directory: utils.ExpandPath(cacheDir),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to open fetch cache: %w", err)
		}
	}

	client, err := fetcher.NewClient(fetcher.ClientOptions{
		Timeout:     cfg.Concurrency.Timeout,
		EnableCache: cfg.Cache.Enabled,
		CacheTTL:    cfg.Cache.TTL,
		Cache:       fetchCache,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create fetch client: %w", err)
	}

	docsDir := utils.ExpandPath(cfg.Docs.Directory)
	store := storage.NewStore(docsDir)
	builder := manifest.NewBuilder(store, docsDir)

	generator := scraper.New(scraper.Options{
		Fetcher:   client,
		Registry:  reg,
		Store:     store,
		Builder:   builder,
		Workers:   cfg.Concurrency.Workers,
		Overwrite: cfg.Docs.Overwrite,
		Progress:  true,
		Logger:    logger,
	})

	return &App{
		cfg:        cfg,
		logger:     logger,
		registry:   reg,
		store:      store,
		builder:    builder,
		fetcher:    client,
		fetchCache: fetchCache,
		archiver:   archive.NewTarGz(),
		generator:  generator,
		remote:     syncer.NewS3Sync(logger),
	}, nil
}

// Registry returns the wired source registry
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Generate builds the docset a token names. For versioned sources the
// token must carry a version unless all is set, in which case every
// version is built and the manifest update requires all to succeed.
func (a *App) Generate(ctx context.Context, token string, all bool) error {
	src, ver, err := a.registry.FindToken(token)
	if err != nil {
		return err
	}

	if all {
		return a.generator.GenerateAll(ctx, src)
	}
	if src.Versioned && ver.Version == "" {
		return fmt.Errorf("source %q is versioned: use %s@<version> or --all", src.Slug, src.Slug)
	}
	return a.generator.Generate(ctx, src, ver)
}

// Download fetches and unpacks prebuilt bundles for the named tokens,
// or for every registered docset when all is set. The manifest is
// rebuilt afterwards from whatever is on disk, so jobs that did
// succeed are published even when siblings failed. Returns the number
// of failed jobs.
func (a *App) Download(ctx context.Context, tokens []string, all bool) (int, error) {
	jobs, err := a.downloadJobs(tokens, all)
	if err != nil {
		return 0, err
	}
	if len(jobs) == 0 {
		return 0, fmt.Errorf("nothing to download")
	}

	d := downloader.New(downloader.Options{
		Fetcher:  a.fetcher,
		Archiver: a.archiver,
		BaseURL:  a.cfg.Download.BaseURL,
		DocsDir:  a.store.DocsDir(),
		Workers:  a.cfg.Download.Workers,
		Logger:   a.logger,
	})

	failed := d.Run(ctx, jobs)

	if _, err := a.builder.Build(); err != nil {
		return failed, err
	}
	if failed > 0 {
		return failed, fmt.Errorf("%d of %d downloads failed", failed, len(jobs))
	}
	return 0, nil
}

// downloadJobs expands tokens into download jobs. A versioned source
// named without a version expands to one job per version.
func (a *App) downloadJobs(tokens []string, all bool) ([]*domain.DownloadJob, error) {
	var jobs []*domain.DownloadJob

	addSource := func(src *domain.Source) {
		if !src.Versioned {
			jobs = append(jobs, domain.NewDownloadJob(src))
			return
		}
		for _, v := range src.Versions {
			jobs = append(jobs, domain.NewVersionDownloadJob(src, v))
		}
	}

	if all {
		for _, src := range a.registry.All() {
			addSource(src)
		}
		return jobs, nil
	}

	for _, token := range tokens {
		src, ver, err := a.registry.FindToken(token)
		if err != nil {
			return nil, err
		}
		if src.Versioned && ver.Version != "" {
			jobs = append(jobs, domain.NewVersionDownloadJob(src, ver))
			continue
		}
		addSource(src)
	}
	return jobs, nil
}

// Package compresses a built docset into its distributable bundle and
// returns the bundle path.
func (a *App) Package(ctx context.Context, token string) (string, error) {
	src, ver, err := a.registry.FindToken(token)
	if err != nil {
		return "", err
	}
	if src.Versioned && ver.Version == "" {
		return "", fmt.Errorf("source %q is versioned: use %s@<version>", src.Slug, src.Slug)
	}

	path := src.Path()
	if src.Versioned {
		path = ver.Path()
	}

	docsetDir := a.store.DocsetDir(path)
	if _, err := os.Stat(docsetDir); err != nil {
		return "", fmt.Errorf("docset %s has not been generated: %w", path, err)
	}

	bar := utils.NewProgressBar(-1, utils.DescPackaging)
	data, err := a.archiver.Compress(docsetDir)
	_ = bar.Finish()
	if err != nil {
		return "", err
	}

	bundle := docsetDir + archive.Ext
	if err := os.WriteFile(bundle, data, 0644); err != nil {
		return "", &domain.ArchiveError{Op: "compress", Path: bundle, Err: err}
	}
	return bundle, nil
}

// Manifest loads the current manifest artifact
func (a *App) Manifest() (*manifest.Manifest, error) {
	return manifest.Load(a.store.DocsDir())
}

// BuildManifest rebuilds the manifest from the docsets on disk
func (a *App) BuildManifest() (*manifest.Manifest, error) {
	return a.builder.Build()
}

// Sync mirrors the docs directory to the configured remote
func (a *App) Sync(ctx context.Context, dryRun bool) error {
	return a.remote.Sync(ctx, a.store.DocsDir(), a.cfg.Sync.Remote, dryRun)
}

// Close releases application resources
func (a *App) Close() error {
	err := a.fetcher.Close()
	if a.fetchCache != nil {
		if cerr := a.fetchCache.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

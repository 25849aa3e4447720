// Package downloader retrieves prebuilt docset bundles with a fixed
// pool of workers draining a shared backlog. Failures are isolated per
// job: one bad bundle never aborts its siblings.
package downloader

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/docpack/docpack/internal/archive"
	"github.com/docpack/docpack/internal/domain"
	"github.com/docpack/docpack/internal/utils"
)

// DefaultWorkers is the fixed download worker count
const DefaultWorkers = 4

// Downloader drains a download backlog with a bounded worker pool
type Downloader struct {
	fetcher  domain.Fetcher
	archiver domain.Archiver
	baseURL  string
	docsDir  string
	workers  int
	out      io.Writer
	logger   *utils.Logger
}

// Options contains options for creating a Downloader
type Options struct {
	Fetcher  domain.Fetcher
	Archiver domain.Archiver
	// BaseURL is the remote root bundles are served from
	BaseURL string
	// DocsDir is the local root docsets are extracted under
	DocsDir string
	// Workers overrides the fixed pool size; defaults to DefaultWorkers
	Workers int
	// Out receives the per-job progress lines; defaults to stdout
	Out    io.Writer
	Logger *utils.Logger
}

// New creates a new Downloader
func New(opts Options) *Downloader {
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Logger == nil {
		opts.Logger = utils.NewDefaultLogger()
	}

	return &Downloader{
		fetcher:  opts.Fetcher,
		archiver: opts.Archiver,
		baseURL:  strings.TrimSuffix(opts.BaseURL, "/"),
		docsDir:  opts.DocsDir,
		workers:  opts.Workers,
		out:      opts.Out,
		logger:   opts.Logger.WithComponent("downloader"),
	}
}

// BundleURL returns the remote address of a job's bundle
func (d *Downloader) BundleURL(job *domain.DownloadJob) string {
	return d.baseURL + "/" + job.Path + archive.Ext
}

// Run processes every job exactly once and blocks until all workers
// have exited. Jobs end in a terminal status; per-job failures are
// recorded on the job and never propagated. The returned count is the
// number of failed jobs.
//
// The backlog channel is the shared claim point: a channel receive is
// the atomic claim-and-remove, so no job is taken twice or skipped.
// The completion counter and its progress line share one critical
// section so numbering stays contiguous even though finish order is
// unspecified.
func (d *Downloader) Run(ctx context.Context, jobs []*domain.DownloadJob) int {
	total := len(jobs)
	if total == 0 {
		return 0
	}

	backlog := make(chan *domain.DownloadJob, total)
	for _, job := range jobs {
		backlog <- job
	}
	close(backlog)

	var (
		mu        sync.Mutex
		completed int
		failed    int
	)

	var wg sync.WaitGroup
	for i := 0; i < d.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range backlog {
				job.Status = domain.JobRunning
				if err := d.process(ctx, job); err != nil {
					job.Fail(err)
					d.logger.Debug().Err(err).Str("job", job.Label()).Msg("Job failed")
				} else {
					job.Status = domain.JobOK
				}

				mu.Lock()
				completed++
				if job.Status == domain.JobFailed {
					failed++
				}
				d.report(completed, total, job)
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	return failed
}

// process downloads and unpacks one claimed job. A started job runs to
// completion or failure; no timeout is imposed at this layer.
func (d *Downloader) process(ctx context.Context, job *domain.DownloadJob) error {
	body, err := d.fetcher.Fetch(ctx, d.BundleURL(job))
	if err != nil {
		return err
	}

	// Stage the bundle next to the docset before unpacking; the
	// packaged form lives at the docset path plus the archive extension.
	bundlePath := filepath.Join(d.docsDir, filepath.FromSlash(job.Path)+archive.Ext)
	if err := os.MkdirAll(filepath.Dir(bundlePath), 0755); err != nil {
		return err
	}
	if err := os.WriteFile(bundlePath, body, 0644); err != nil {
		return err
	}

	targetDir := filepath.Join(d.docsDir, filepath.FromSlash(job.Path))
	return d.archiver.Extract(body, targetDir)
}

// report prints one progress line. Caller holds the counter mutex.
func (d *Downloader) report(completed, total int, job *domain.DownloadJob) {
	status := job.Status.String()
	if job.Status == domain.JobFailed && job.Reason != "" {
		status = "failed: " + job.Reason
	}
	fmt.Fprintf(d.out, "(%d/%d) %s: %s\n", completed, total, job.Label(), status)
}

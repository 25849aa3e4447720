package domain

import "time"

// Source represents one documentation set known to the registry.
// Sources are defined once at registry-construction time and never
// mutated afterwards.
type Source struct {
	// Slug is the unique short name used in paths and CLI tokens
	Slug string `yaml:"slug" json:"slug"`
	// Name is the human-readable display name
	Name string `yaml:"name" json:"name"`
	// Versioned indicates whether the source owns explicit versions.
	// A non-versioned source acts as its own single implicit version.
	Versioned bool `yaml:"versioned" json:"versioned"`
	// BaseURL is the root under which the source's pages are scraped
	BaseURL string `yaml:"base_url" json:"base_url"`
	// Pages enumerates the page paths to scrape, relative to BaseURL.
	// This is a fixed set; docpack does not discover links.
	Pages []string `yaml:"pages" json:"pages"`
	// Release is the release label for non-versioned sources
	Release string `yaml:"release,omitempty" json:"release,omitempty"`
	// Versions holds the ordered versions of a versioned source
	Versions []Version `yaml:"versions,omitempty" json:"versions,omitempty"`
}

// Version is one release-specific instance of a versioned source
type Version struct {
	// Version is the version string, unique within the source
	Version string `yaml:"version" json:"version"`
	// Release is the human-readable release label
	Release string `yaml:"release" json:"release"`

	// slug of the owning source, set during registration
	sourceSlug string
}

// Bind associates the version with its owning source. Called by the
// registry during registration; versions are immutable afterwards.
func (v *Version) Bind(slug string) {
	v.sourceSlug = slug
}

// Path returns the storage and remote-addressing path for the version,
// derived deterministically from the source slug and version string.
func (v Version) Path() string {
	if v.sourceSlug == "" {
		return v.Version
	}
	return v.sourceSlug + "~" + v.Version
}

// Path returns the storage path for the source itself. For versioned
// sources the per-version path is authoritative; this covers the
// non-versioned single-implicit-version case.
func (s *Source) Path() string {
	return s.Slug
}

// Version looks up a version by its version string
func (s *Source) Version(version string) (Version, bool) {
	for _, v := range s.Versions {
		if v.Version == version {
			return v, true
		}
	}
	return Version{}, false
}

// JobStatus is the lifecycle state of a DownloadJob
type JobStatus int

const (
	// JobPending means the job has not been claimed by a worker
	JobPending JobStatus = iota
	// JobRunning means a worker has claimed the job
	JobRunning
	// JobOK means the job finished successfully
	JobOK
	// JobFailed means the job finished with an error
	JobFailed
)

// String returns the human-readable status
func (s JobStatus) String() string {
	switch s {
	case JobPending:
		return "pending"
	case JobRunning:
		return "running"
	case JobOK:
		return "OK"
	case JobFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether the status is a terminal state
func (s JobStatus) Terminal() bool {
	return s == JobOK || s == JobFailed
}

// DownloadJob is one unit of fetch-and-unpack work for a source or one
// of its versions. A job is mutated only by the worker that claims it
// and is terminal once done.
type DownloadJob struct {
	Slug    string
	Version string // empty for non-versioned sources
	Release string
	// Path is the derived storage/remote path for the docset
	Path   string
	Status JobStatus
	// Reason carries the failure class and message when Status is JobFailed
	Reason string
}

// NewDownloadJob creates a pending job for a non-versioned source
func NewDownloadJob(s *Source) *DownloadJob {
	return &DownloadJob{
		Slug:    s.Slug,
		Release: s.Release,
		Path:    s.Path(),
		Status:  JobPending,
	}
}

// NewVersionDownloadJob creates a pending job for one version of a source
func NewVersionDownloadJob(s *Source, v Version) *DownloadJob {
	return &DownloadJob{
		Slug:    s.Slug,
		Version: v.Version,
		Release: v.Release,
		Path:    v.Path(),
		Status:  JobPending,
	}
}

// Label returns the job's human-readable identity, e.g. "ruby@3.4" or "redis"
func (j *DownloadJob) Label() string {
	if j.Version == "" {
		return j.Slug
	}
	return j.Slug + "@" + j.Version
}

// Fail marks the job failed with the given reason
func (j *DownloadJob) Fail(err error) {
	j.Status = JobFailed
	if err != nil {
		j.Reason = err.Error()
	}
}

// ManifestEntry is the denormalized summary of one generated or
// downloaded docset, written once per completed batch unit.
type ManifestEntry struct {
	Slug        string    `json:"slug"`
	Name        string    `json:"name"`
	Version     string    `json:"version,omitempty"`
	Release     string    `json:"release,omitempty"`
	Path        string    `json:"path"`
	Pages       int       `json:"pages"`
	GeneratedAt time.Time `json:"generated_at"`
}

package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors
var (
	// ErrNotFound indicates a requested source or version is absent
	// from the registry
	ErrNotFound = errors.New("not found")

	// ErrCacheMiss indicates a cache miss
	ErrCacheMiss = errors.New("cache miss")

	// ErrRateLimited indicates rate limiting was encountered
	ErrRateLimited = errors.New("rate limited")

	// ErrTimeout indicates a timeout occurred
	ErrTimeout = errors.New("timeout")
)

// NotFoundError reports a registry lookup miss. It is fatal to the
// single command invocation and never retried.
type NotFoundError struct {
	Slug    string
	Version string
}

func (e *NotFoundError) Error() string {
	if e.Version != "" {
		return fmt.Sprintf("documentation source %q has no version %q (run \"docpack list\" for available sources)", e.Slug, e.Version)
	}
	return fmt.Sprintf("documentation source %q not found (run \"docpack list\" for available sources)", e.Slug)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// FetchError represents an error during fetching. Per-job it is
// recoverable at the batch level: the failing unit records it and the
// batch continues.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("fetch error for %s: status %d: %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch error for %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// NewFetchError creates a new FetchError
func NewFetchError(url string, statusCode int, err error) *FetchError {
	return &FetchError{
		URL:        url,
		StatusCode: statusCode,
		Err:        err,
	}
}

// ArchiveError represents a failure while compressing or extracting a
// docset bundle. Recoverable at the batch level, like FetchError.
type ArchiveError struct {
	Op   string // "compress" or "extract"
	Path string
	Err  error
}

func (e *ArchiveError) Error() string {
	return fmt.Sprintf("archive %s failed for %s: %v", e.Op, e.Path, e.Err)
}

func (e *ArchiveError) Unwrap() error {
	return e.Err
}

// FilterError reports a violated structural assumption inside a filter
// (an expected node missing). This is a programming defect, not a
// recoverable condition: it aborts the enclosing page generation
// instead of silently producing malformed output.
type FilterError struct {
	Filter  string
	Message string
}

func (e *FilterError) Error() string {
	return fmt.Sprintf("filter %s: %s", e.Filter, e.Message)
}

// NewFilterError creates a new FilterError
func NewFilterError(filter, format string, args ...any) *FilterError {
	return &FilterError{
		Filter:  filter,
		Message: fmt.Sprintf(format, args...),
	}
}

// RetryableError indicates an error that can be retried
type RetryableError struct {
	Err        error
	RetryAfter int // Seconds to wait before retry, 0 if unknown
}

func (e *RetryableError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("retryable error (retry after %ds): %v", e.RetryAfter, e.Err)
	}
	return fmt.Sprintf("retryable error: %v", e.Err)
}

func (e *RetryableError) Unwrap() error {
	return e.Err
}

// IsRetryable checks if an error should be retried
func IsRetryable(err error) bool {
	var retryable *RetryableError
	if errors.As(err, &retryable) {
		return true
	}

	var fetchErr *FetchError
	if errors.As(err, &fetchErr) {
		switch fetchErr.StatusCode {
		case 429, 502, 503, 504:
			return true
		}
	}

	return errors.Is(err, ErrRateLimited) || errors.Is(err, ErrTimeout)
}

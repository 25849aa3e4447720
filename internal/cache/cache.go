// Package cache provides a BadgerDB-backed content cache keyed by
// normalized URL hashes. The scraper's fetcher sits on top of it so
// repeat generation runs do not refetch unchanged pages.
package cache

// Options contains cache construction options
type Options struct {
	// Directory is the on-disk location of the badger store
	Directory string
	// InMemory runs badger without persistence, for tests
	InMemory bool
	// Logger enables badger's own logging
	Logger bool
}

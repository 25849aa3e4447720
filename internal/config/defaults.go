package config

import (
	"os"
	"path/filepath"
	"time"
)

// Default values
const (
	DefaultDocsDir = "./docs"

	DefaultDownloadBaseURL = "https://downloads.docpack.dev"
	DefaultDownloadWorkers = 4

	DefaultScrapeWorkers = 4
	DefaultTimeout       = 30 * time.Second

	DefaultCacheEnabled = true
	DefaultCacheTTL     = 24 * time.Hour

	DefaultLogLevel  = "info"
	DefaultLogFormat = "pretty"
)

// ConfigDir returns the config directory path
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".docpack"
	}
	return filepath.Join(home, ".docpack")
}

// CacheDir returns the cache directory path
func CacheDir() string {
	return filepath.Join(ConfigDir(), "cache")
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Docs: DocsConfig{
			Directory: DefaultDocsDir,
		},
		Download: DownloadConfig{
			BaseURL: DefaultDownloadBaseURL,
			Workers: DefaultDownloadWorkers,
		},
		Concurrency: ConcurrencyConfig{
			Workers: DefaultScrapeWorkers,
			Timeout: DefaultTimeout,
		},
		Cache: CacheConfig{
			Enabled:   DefaultCacheEnabled,
			TTL:       DefaultCacheTTL,
			Directory: CacheDir(),
		},
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}

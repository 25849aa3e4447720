package config

import (
	"time"
)

// Config represents the application configuration
type Config struct {
	Docs        DocsConfig        `mapstructure:"docs" yaml:"docs"`
	Download    DownloadConfig    `mapstructure:"download" yaml:"download"`
	Concurrency ConcurrencyConfig `mapstructure:"concurrency" yaml:"concurrency"`
	Cache       CacheConfig       `mapstructure:"cache" yaml:"cache"`
	Sync        SyncConfig        `mapstructure:"sync" yaml:"sync"`
	Logging     LoggingConfig     `mapstructure:"logging" yaml:"logging"`
}

// DocsConfig contains output-related settings
type DocsConfig struct {
	// Directory is where generated and downloaded docsets live
	Directory string `mapstructure:"directory" yaml:"directory"`
	// Registry is an optional YAML file with extra source definitions
	Registry string `mapstructure:"registry" yaml:"registry"`
	// Overwrite regenerates pages even when output already exists
	Overwrite bool `mapstructure:"overwrite" yaml:"overwrite"`
}

// DownloadConfig contains bundle download settings
type DownloadConfig struct {
	// BaseURL is the remote root the prebuilt bundles are served from
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`
	// Workers is the fixed download worker count
	Workers int `mapstructure:"workers" yaml:"workers"`
}

// ConcurrencyConfig contains scrape concurrency settings
type ConcurrencyConfig struct {
	Workers int           `mapstructure:"workers" yaml:"workers"`
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// CacheConfig contains fetch cache settings
type CacheConfig struct {
	Enabled   bool          `mapstructure:"enabled" yaml:"enabled"`
	TTL       time.Duration `mapstructure:"ttl" yaml:"ttl"`
	Directory string        `mapstructure:"directory" yaml:"directory"`
}

// SyncConfig contains remote mirror settings
type SyncConfig struct {
	// Remote is the object-store destination, e.g. "s3://my-docs-bucket"
	Remote string `mapstructure:"remote" yaml:"remote"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// Validate validates the configuration and applies floors for
// out-of-range values
func (c *Config) Validate() error {
	if c.Docs.Directory == "" {
		c.Docs.Directory = DefaultDocsDir
	}
	if c.Download.Workers < 1 {
		c.Download.Workers = DefaultDownloadWorkers
	}
	if c.Concurrency.Workers < 1 {
		c.Concurrency.Workers = DefaultScrapeWorkers
	}
	if c.Concurrency.Timeout < time.Second {
		c.Concurrency.Timeout = DefaultTimeout
	}
	if c.Cache.TTL < time.Minute {
		c.Cache.TTL = DefaultCacheTTL
	}
	return nil
}

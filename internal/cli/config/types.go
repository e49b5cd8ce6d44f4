// Package config provides configuration management for the valgen CLI.
//
// This package extends the shared project configuration from
// internal/config with CLI-specific fields and functionality.
package config

import (
	sharedcfg "github.com/leapstack-labs/valgen/internal/config"
)

// ProjectConfig is an alias for the shared project configuration.
// This allows CLI code to use config.ProjectConfig without importing
// internal/config.
type ProjectConfig = sharedcfg.ProjectConfig

// Config holds all CLI configuration options.
type Config struct {
	ProjectConfig `koanf:",squash"`

	// Concurrency bounds the files converted at once (0 = GOMAXPROCS).
	Concurrency int `koanf:"concurrency"`
	// Verify re-parses TypeScript output with esbuild before writing.
	Verify          bool   `koanf:"verify"`
	Verbose         bool   `koanf:"verbose"`
	Quiet           bool   `koanf:"quiet"`
	SourceCacheSize int    `koanf:"source_cache_size"`
	OutputFormat    string `koanf:"output"`

	// ProjectRoot is the directory holding the config file, or the working
	// directory when there is none. Include and exclude patterns are
	// relative to it.
	ProjectRoot string `koanf:"-"`
}

// Default configuration values.
const (
	DefaultOutput          = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultSourceCacheSize = 512
	EnvPrefix              = "VALGEN_"
)

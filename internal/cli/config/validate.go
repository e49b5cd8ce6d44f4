package config

import (
	"fmt"
	"slices"
)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if err := c.ProjectConfig.Validate(); err != nil {
		return err
	}
	if c.Concurrency < 0 {
		return fmt.Errorf("concurrency must not be negative, got %d", c.Concurrency)
	}
	if c.SourceCacheSize < 0 {
		return fmt.Errorf("source_cache_size must not be negative, got %d", c.SourceCacheSize)
	}
	if !slices.Contains([]string{"auto", "text", "markdown", "json"}, c.OutputFormat) {
		return fmt.Errorf("output must be one of auto, text, markdown, json; got %q", c.OutputFormat)
	}
	if c.Verbose && c.Quiet {
		return fmt.Errorf("verbose and quiet cannot be combined")
	}
	return nil
}

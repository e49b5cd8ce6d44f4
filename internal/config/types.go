// Package config provides shared configuration types for valgen.
// It is decoupled from CLI concerns: the CLI layers flags and environment
// on top, while tests and other tools can load a project file directly.
package config

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/valgen/internal/convert"
	"github.com/leapstack-labs/valgen/internal/starlark"
)

// ProjectConfig is the content of a valgen.yaml file.
type ProjectConfig struct {
	// DefaultExact decides exactness of object types without an explicit
	// exact or inexact marker.
	DefaultExact *bool `koanf:"default_exact" yaml:"default_exact,omitempty"`

	Namespace     string `koanf:"namespace" yaml:"namespace,omitempty"`
	Library       string `koanf:"library" yaml:"library,omitempty"`
	Sentinel      string `koanf:"sentinel" yaml:"sentinel,omitempty"`
	MarkerType    string `koanf:"marker_type" yaml:"marker_type,omitempty"`
	LegacyRuntime string `koanf:"legacy_runtime" yaml:"legacy_runtime,omitempty"`

	// ValidatorName is a Starlark expression over `name`.
	ValidatorName string `koanf:"validator_name" yaml:"validator_name,omitempty"`

	// Include lists the patterns converted when no paths are given.
	Include []string `koanf:"include" yaml:"include,omitempty"`
	// Exclude lists patterns removed from every expansion.
	Exclude []string `koanf:"exclude" yaml:"exclude,omitempty"`
	// Extensions are tried in order when resolving imports.
	Extensions []string `koanf:"extensions" yaml:"extensions,omitempty"`
}

// Validate checks values that defaults cannot repair.
func (c *ProjectConfig) Validate() error {
	for key, v := range map[string]string{
		"namespace":   c.Namespace,
		"sentinel":    c.Sentinel,
		"marker_type": c.MarkerType,
	} {
		if v != "" && !starlark.IsIdentifier(v) {
			return fmt.Errorf("%s: %q is not a valid identifier", key, v)
		}
	}
	for _, ext := range c.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("extensions: %q must start with a dot", ext)
		}
	}
	if c.ValidatorName != "" {
		if _, err := starlark.CompileNameRule(c.ValidatorName); err != nil {
			return err
		}
	}
	return nil
}

// ConvertConfig builds the conversion settings. Parse, Resolve and Logger
// are left for the caller.
func (c *ProjectConfig) ConvertConfig() (convert.Config, error) {
	cfg := convert.DefaultConfig()
	if c.DefaultExact != nil {
		cfg.DefaultExact = *c.DefaultExact
	}
	if c.Namespace != "" {
		cfg.Namespace = c.Namespace
	}
	if c.Library != "" {
		cfg.Library = c.Library
	}
	if c.Sentinel != "" {
		cfg.Sentinel = c.Sentinel
	}
	if c.MarkerType != "" {
		cfg.MarkerType = c.MarkerType
	}
	if c.LegacyRuntime != "" {
		cfg.LegacyRuntime = c.LegacyRuntime
	}
	if c.ValidatorName != "" && c.ValidatorName != DefaultValidatorName {
		rule, err := starlark.CompileNameRule(c.ValidatorName)
		if err != nil {
			return convert.Config{}, err
		}
		cfg.ValidatorName = rule.Name
	}
	return cfg, nil
}

package config

import "github.com/leapstack-labs/valgen/internal/convert"

// Default configuration values.
const (
	DefaultNamespace     = "t"
	DefaultLibrary       = "typed-validators"
	DefaultSentinel      = "reify"
	DefaultMarkerType    = "Type"
	DefaultLegacyRuntime = "flow-runtime"
	// DefaultValidatorName is the rule equivalent of convert.DefaultValidatorName.
	DefaultValidatorName = `name + "Type"`
)

// DefaultExtensions are the resolution extensions, in the order tried.
var DefaultExtensions = []string{".tsx", ".ts", ".jsx", ".js"}

// Default returns a ProjectConfig with every value set.
func Default() *ProjectConfig {
	exact := convert.DefaultConfig().DefaultExact
	return &ProjectConfig{
		DefaultExact:  &exact,
		Namespace:     DefaultNamespace,
		Library:       DefaultLibrary,
		Sentinel:      DefaultSentinel,
		MarkerType:    DefaultMarkerType,
		LegacyRuntime: DefaultLegacyRuntime,
		ValidatorName: DefaultValidatorName,
		Extensions:    append([]string(nil), DefaultExtensions...),
	}
}

// ApplyDefaults fills unset values of c.
func (c *ProjectConfig) ApplyDefaults() {
	d := Default()
	if c.DefaultExact == nil {
		c.DefaultExact = d.DefaultExact
	}
	if c.Namespace == "" {
		c.Namespace = d.Namespace
	}
	if c.Library == "" {
		c.Library = d.Library
	}
	if c.Sentinel == "" {
		c.Sentinel = d.Sentinel
	}
	if c.MarkerType == "" {
		c.MarkerType = d.MarkerType
	}
	if c.LegacyRuntime == "" {
		c.LegacyRuntime = d.LegacyRuntime
	}
	if c.ValidatorName == "" {
		c.ValidatorName = d.ValidatorName
	}
	if len(c.Extensions) == 0 {
		c.Extensions = d.Extensions
	}
}

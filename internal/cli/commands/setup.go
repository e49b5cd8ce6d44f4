package commands

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/leapstack-labs/valgen/internal/cli/config"
	"github.com/leapstack-labs/valgen/internal/cli/output"
	intconfig "github.com/leapstack-labs/valgen/internal/config"
	"github.com/leapstack-labs/valgen/internal/convert"
	"github.com/leapstack-labs/valgen/internal/loader"
	"github.com/spf13/cobra"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
	Loader   *loader.Loader
}

// NewCommandContext creates a CommandContext with a source loader and
// renderer.
func NewCommandContext(cmd *cobra.Command) (*CommandContext, error) {
	cfg, err := getConfig(cmd)
	if err != nil {
		return nil, err
	}
	logger := config.GetLogger(cmd.Context())

	l, err := loader.New(loader.Options{
		Extensions: cfg.Extensions,
		CacheSize:  cfg.SourceCacheSize,
		Logger:     logger,
	})
	if err != nil {
		return nil, err
	}

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.OutputFormat)),
		Loader:   l,
	}, nil
}

// NewProject creates a conversion project that reads through the loader.
// Each run needs a fresh project: files are converted once per project.
func (c *CommandContext) NewProject() (*convert.Project, error) {
	cfg, err := c.Cfg.ConvertConfig()
	if err != nil {
		return nil, err
	}
	cfg.Parse = c.Loader.Parse
	cfg.Resolve = c.Loader.Resolve
	cfg.Logger = c.Logger
	return convert.NewProject(cfg)
}

// Expand turns arguments into the files to convert. Without arguments the
// include patterns of the config are used. Excluded files are dropped.
func (c *CommandContext) Expand(args []string) ([]string, error) {
	patterns := args
	if len(patterns) == 0 {
		for _, p := range c.Cfg.Include {
			if !filepath.IsAbs(p) {
				p = filepath.Join(c.Cfg.ProjectRoot, p)
			}
			patterns = append(patterns, p)
		}
	}
	if len(patterns) == 0 {
		return nil, fmt.Errorf("no files given: pass files or globs, or set include in %s", intconfig.ConfigFileName)
	}

	paths, err := c.Loader.Expand(patterns)
	if err != nil {
		return nil, err
	}
	kept := paths[:0]
	for _, p := range paths {
		if loader.Match(c.Cfg.Exclude, c.Cfg.ProjectRoot, p) {
			c.Logger.Debug("excluded file", "path", p)
			continue
		}
		kept = append(kept, p)
	}
	return kept, nil
}

// RelPath returns path relative to the project root for display.
func (c *CommandContext) RelPath(path string) string {
	if c.Cfg.ProjectRoot == "" {
		return path
	}
	rel, err := filepath.Rel(c.Cfg.ProjectRoot, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return filepath.ToSlash(rel)
}

// getConfig returns the configuration loaded by the root command, or loads
// it from the working directory and the command's flags when the command
// runs on its own.
func getConfig(cmd *cobra.Command) (*config.Config, error) {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg, nil
	}
	return config.LoadConfig("", cmd.Flags())
}

package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/leapstack-labs/valgen/internal/dag"
	"github.com/spf13/cobra"
)

// DefaultDebounce is how long watch waits for more changes before a run.
const DefaultDebounce = 100 * time.Millisecond

// NewWatchCommand creates the watch command.
func NewWatchCommand() *cobra.Command {
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "watch [files or globs...]",
		Short: "Re-check validators whenever source files change",
		Long: `Watch the directories of the given files and re-run the check whenever
a source file is written or created.

Each run prints the diff of every file whose validators are out of date.
Nothing is written; run convert --write to apply the changes.`,
		Example: `  # Watch the configured files
  valgen watch

  # Watch one directory
  valgen watch src/models/`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, args, debounce)
		},
	}

	cmd.Flags().DurationVar(&debounce, "debounce", DefaultDebounce, "Wait this long after a change before re-checking")
	cmd.Flags().BoolP("quiet", "q", false, "Only report the number of stale files")
	return cmd
}

// watchSession re-checks files as they change.
type watchSession struct {
	cmdCtx  *CommandContext
	args    []string
	pending map[string]bool
	graph   *dag.Graph
}

func runWatch(cmd *cobra.Command, args []string, debounce time.Duration) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	paths, err := cmdCtx.Expand(args)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	for _, dir := range watchDirs(cmdCtx, args, paths) {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		cmdCtx.Logger.Debug("watching directory", "dir", dir)
	}

	s := &watchSession{cmdCtx: cmdCtx, args: args, pending: make(map[string]bool)}
	s.check(ctx, nil)
	cmdCtx.Renderer.Muted("Watching for changes. Press Ctrl+C to stop.")

	ready := make(chan struct{}, 1)
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !s.relevant(event) {
				continue
			}
			s.pending[event.Name] = true

			// Debounce runs
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, func() {
				select {
				case ready <- struct{}{}:
				default:
				}
			})

		case <-ready:
			changed := make([]string, 0, len(s.pending))
			for path := range s.pending {
				changed = append(changed, path)
			}
			clear(s.pending)
			slices.Sort(changed)
			s.check(ctx, changed)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			cmdCtx.Logger.Warn("watcher error", "error", err)
		}
	}
}

// relevant reports whether event writes or creates a source file.
func (s *watchSession) relevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
		return false
	}
	if !slices.Contains(s.cmdCtx.Loader.Extensions(), filepath.Ext(event.Name)) {
		return false
	}
	dir := s.cmdCtx.RelPath(filepath.Dir(event.Name))
	for _, part := range strings.Split(dir, "/") {
		if part == "node_modules" || (len(part) > 1 && part[0] == '.' && part != "..") {
			return false
		}
	}
	return true
}

// check converts the watched files without writing and reports what is
// out of date.
func (s *watchSession) check(ctx context.Context, changed []string) {
	c := s.cmdCtx
	r := c.Renderer

	if len(changed) > 0 {
		c.Loader.Invalidate(changed...)
		display := make([]string, len(changed))
		for i, path := range changed {
			display[i] = c.RelPath(path)
		}
		if s.graph != nil {
			c.Logger.Info("change detected",
				"files", len(changed),
				"affected", len(s.graph.Affected(changed)))
		}
		r.Header(2, "Changed: "+strings.Join(display, ", "))
	}

	paths, err := c.Expand(s.args)
	if err != nil {
		r.Error(err.Error())
		return
	}
	if len(paths) == 0 {
		r.Warning("No files matched.")
		return
	}
	run, err := c.Convert(ctx, paths)
	if err != nil {
		if ctx.Err() == nil {
			r.Error(err.Error())
		}
		return
	}
	s.graph = run.Graph

	failed := run.Failed()
	for _, fc := range failed {
		reportFailure(c, fc)
	}
	stale := run.Changed()
	if !c.Cfg.Quiet {
		for _, fc := range stale {
			_ = r.Diff(c.RelPath(fc.Path), fc.Before, fc.After)
		}
	}

	switch {
	case len(stale) > 0:
		r.Warning(fmt.Sprintf("%d files need validators updated.", len(stale)))
	case len(failed) == 0:
		r.Success("All matched files are up-to-date!")
	}
}

// watchDirs returns the directories to watch: every directory argument and
// the directory of every matched file, plus the static part of each glob.
func watchDirs(c *CommandContext, args, paths []string) []string {
	seen := make(map[string]bool)
	var dirs []string
	add := func(dir string) {
		abs, err := filepath.Abs(dir)
		if err != nil || seen[abs] {
			return
		}
		seen[abs] = true
		dirs = append(dirs, abs)
	}

	for _, path := range paths {
		add(filepath.Dir(path))
	}
	patterns := args
	if len(patterns) == 0 {
		for _, p := range c.Cfg.Include {
			if !filepath.IsAbs(p) {
				p = filepath.Join(c.Cfg.ProjectRoot, p)
			}
			patterns = append(patterns, p)
		}
	}
	for _, p := range patterns {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			add(p)
			continue
		}
		if base := globBase(p); base != "" {
			add(base)
		}
	}
	slices.Sort(dirs)
	return dirs
}

// globBase returns the directory part of pattern before its first glob
// meta character, or "" when that directory does not exist.
func globBase(pattern string) string {
	i := strings.IndexAny(pattern, "*?[{")
	if i < 0 {
		return ""
	}
	dir := filepath.Dir(pattern[:i] + "x")
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return ""
	}
	return dir
}

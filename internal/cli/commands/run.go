package commands

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"time"

	"github.com/leapstack-labs/valgen/internal/cli/output"
	"github.com/leapstack-labs/valgen/internal/dag"
	"github.com/leapstack-labs/valgen/internal/verify"
	"github.com/leapstack-labs/valgen/pkg/ast"
	"github.com/leapstack-labs/valgen/pkg/format"
)

// File statuses reported by a run.
const (
	StatusChanged   = "changed"
	StatusUnchanged = "unchanged"
	StatusFailed    = "failed"
	StatusWritten   = "written"
)

// FileChange is one file of a conversion run.
type FileChange struct {
	Path   string
	Status string
	// Before and After hold the file text for changed files.
	Before string
	After  string
	Diff   string

	Added   int
	Removed int

	Err error
}

// ConvertRun is the outcome of converting a set of root files.
type ConvertRun struct {
	Roots []string
	// Files holds every root and every other file the run changed,
	// sorted by path.
	Files []*FileChange
	// Loaded counts the files parsed by the run.
	Loaded int
	Graph  *dag.Graph
}

// Changed returns the files whose text the run would change.
func (run *ConvertRun) Changed() []*FileChange {
	return run.filter(StatusChanged, StatusWritten)
}

// Failed returns the files that could not be converted.
func (run *ConvertRun) Failed() []*FileChange {
	return run.filter(StatusFailed)
}

func (run *ConvertRun) filter(statuses ...string) []*FileChange {
	var out []*FileChange
	for _, fc := range run.Files {
		for _, s := range statuses {
			if fc.Status == s {
				out = append(out, fc)
				break
			}
		}
	}
	return out
}

// Convert processes paths in a fresh project and computes the new text of
// every file the project changed. A file that fails keeps its text; the
// files it made changes to are still reported.
func (c *CommandContext) Convert(ctx context.Context, paths []string) (*ConvertRun, error) {
	project, err := c.NewProject()
	if err != nil {
		return nil, err
	}

	start := time.Now()
	results := project.ProcessFiles(ctx, paths, c.Cfg.Concurrency)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	run := &ConvertRun{Graph: project.Graph(), Loaded: len(project.Files())}
	files := make(map[string]*FileChange, len(results))
	for _, res := range results {
		run.Roots = append(run.Roots, res.FilePath)
		fc := &FileChange{Path: res.FilePath, Status: StatusUnchanged}
		if res.Err != nil {
			fc.Status = StatusFailed
			fc.Err = res.Err
		}
		files[res.FilePath] = fc
	}

	for _, res := range project.ChangedResults() {
		fc, isRoot := files[res.FilePath]
		if !isRoot {
			fc = &FileChange{Path: res.FilePath, Status: StatusUnchanged}
		}
		if fc.Status == StatusFailed {
			continue
		}
		if err := c.render(fc, res.Tree); err != nil {
			fc.Status = StatusFailed
			fc.Err = err
		}
		if !isRoot && fc.Status != StatusUnchanged {
			files[res.FilePath] = fc
		}
	}

	for _, fc := range files {
		run.Files = append(run.Files, fc)
	}
	sort.Slice(run.Files, func(i, j int) bool {
		return run.Files[i].Path < run.Files[j].Path
	})

	c.Logger.Debug("conversion finished",
		"roots", len(run.Roots),
		"loaded", run.Loaded,
		"changed", len(run.Changed()),
		"failed", len(run.Failed()),
		"duration", time.Since(start))
	return run, nil
}

// render prints the working tree of fc and diffs it against the file on
// disk.
func (c *CommandContext) render(fc *FileChange, tree *ast.File) error {
	before, err := c.Loader.Read(fc.Path)
	if err != nil {
		return err
	}
	after := format.Source(tree)
	if before == after {
		return nil
	}

	if c.Cfg.Verify && verify.Supported(fc.Path) {
		if err := verify.Source(c.RelPath(fc.Path), after); err != nil {
			return err
		}
	}

	diff, err := output.UnifiedDiff(c.RelPath(fc.Path), before, after)
	if err != nil {
		return fmt.Errorf("failed to diff %s: %w", c.RelPath(fc.Path), err)
	}
	fc.Before, fc.After, fc.Diff = before, after, diff
	fc.Added, fc.Removed = output.DiffStat(diff)
	fc.Status = StatusChanged
	return nil
}

// Write writes the new text of changed files and drops them from the
// source cache.
func (c *CommandContext) Write(changes []*FileChange) error {
	for _, fc := range changes {
		if fc.Status != StatusChanged {
			continue
		}
		perm := fs.FileMode(0644)
		if info, err := os.Stat(fc.Path); err == nil {
			perm = info.Mode().Perm()
		}
		if err := os.WriteFile(fc.Path, []byte(fc.After), perm); err != nil {
			return fmt.Errorf("failed to write %s: %w", c.RelPath(fc.Path), err)
		}
		c.Loader.Invalidate(fc.Path)
		fc.Status = StatusWritten
		c.Logger.Info("wrote file", "path", c.RelPath(fc.Path))
	}
	return nil
}

// Package convert turns TypeScript and Flow type annotations into runtime
// validators built with the typed-validators library.
//
// A Project owns one File per source path. Processing a file finds its
// reification sites, converts the types they name and rewrites the file's
// imports and exports so every generated validator is reachable from the
// files that need it. Resolution follows imports across files, so
// processing one file may also change the files it imports from.
package convert

import (
	"context"
	"log/slog"
	"path/filepath"
	"runtime"
	"sort"
	"sync"

	"github.com/cockroachdb/errors"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/leapstack-labs/valgen/internal/dag"
	"github.com/leapstack-labs/valgen/pkg/ast"
)

// ParseFunc parses the file at path into a fresh syntax tree. It is called
// twice per file: once for the pristine tree and once for the working tree.
type ParseFunc func(ctx context.Context, path string) (*ast.File, error)

// ResolveFunc maps a relative module specifier seen in baseDir to a file path.
type ResolveFunc func(ctx context.Context, specifier, baseDir string) (string, error)

// Config holds project configuration.
type Config struct {
	// DefaultExact decides exactness of object types without an explicit
	// exact or inexact marker.
	DefaultExact bool
	// ValidatorName derives a validator identifier from a type name.
	// Defaults to appending "Type".
	ValidatorName func(typeName string) (string, error)
	// Namespace is the identifier used for a new namespace import of Library.
	Namespace string
	// Library is the module generated code imports validators from.
	Library string
	// Sentinel is the function name of cast sites, as in `reify as Type<X>`.
	Sentinel string
	// MarkerType is the generic type of cast sites.
	MarkerType string
	// LegacyRuntime is the module whose imports are removed after conversion.
	LegacyRuntime string

	Parse   ParseFunc
	Resolve ResolveFunc

	// Logger is the structured logger (optional, uses discard if nil)
	Logger *slog.Logger
}

// DefaultConfig returns the configuration used when nothing is overridden.
// Parse and Resolve are left for the caller.
func DefaultConfig() Config {
	return Config{
		DefaultExact:  true,
		ValidatorName: DefaultValidatorName,
		Namespace:     "t",
		Library:       "typed-validators",
		Sentinel:      "reify",
		MarkerType:    "Type",
		LegacyRuntime: "flow-runtime",
	}
}

// DefaultValidatorName names the validator of type Foo FooType.
func DefaultValidatorName(typeName string) (string, error) {
	return typeName + "Type", nil
}

// Result is the outcome of processing one file.
type Result struct {
	FilePath string
	Tree     *ast.File
	Changed  bool
	// Err is set when the file failed to convert; Tree then holds whatever
	// mutations were committed before the failure.
	Err error
}

// Project coordinates conversion across the files of one run.
type Project struct {
	cfg    Config
	logger *slog.Logger

	// mu guards files, graph and every File's trees and caches. It is
	// released only while Parse or Resolve run.
	mu    sync.Mutex
	files map[string]*File
	loads singleflight.Group
	graph *dag.Graph
}

// NewProject creates a project. Empty string settings fall back to
// DefaultConfig.
func NewProject(cfg Config) (*Project, error) {
	if cfg.Parse == nil {
		return nil, errors.New("convert: Config.Parse is required")
	}
	if cfg.Resolve == nil {
		return nil, errors.New("convert: Config.Resolve is required")
	}
	defaults := DefaultConfig()
	if cfg.ValidatorName == nil {
		cfg.ValidatorName = defaults.ValidatorName
	}
	if cfg.Namespace == "" {
		cfg.Namespace = defaults.Namespace
	}
	if cfg.Library == "" {
		cfg.Library = defaults.Library
	}
	if cfg.Sentinel == "" {
		cfg.Sentinel = defaults.Sentinel
	}
	if cfg.MarkerType == "" {
		cfg.MarkerType = defaults.MarkerType
	}
	if cfg.LegacyRuntime == "" {
		cfg.LegacyRuntime = defaults.LegacyRuntime
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Project{
		cfg:    cfg,
		logger: logger,
		files:  make(map[string]*File),
		graph:  dag.NewGraph(),
	}, nil
}

// Config returns the effective configuration.
func (p *Project) Config() Config {
	return p.cfg
}

// ForFile returns the File for path, parsing it on first use.
func (p *Project) ForFile(ctx context.Context, path string) (*File, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.forFileLocked(ctx, path)
}

// forFileLocked is ForFile for callers holding p.mu. Concurrent requests for
// the same path share one load, so a path is parsed at most once even when
// several files import it at the same time.
func (p *Project) forFileLocked(ctx context.Context, path string) (*File, error) {
	path = normalizePath(path)
	if f, ok := p.files[path]; ok {
		return f, nil
	}

	var v any
	var err error
	p.unlocked(func() {
		v, err, _ = p.loads.Do(path, func() (any, error) {
			f, err := p.load(ctx, path)
			if err != nil {
				return nil, err
			}
			p.mu.Lock()
			defer p.mu.Unlock()
			if existing, ok := p.files[path]; ok {
				return existing, nil
			}
			p.files[path] = f
			p.graph.AddNode(path, f)
			return f, nil
		})
	})
	if err != nil {
		return nil, err
	}
	return v.(*File), nil
}

// load parses the pristine and working trees of path. Called without p.mu.
func (p *Project) load(ctx context.Context, path string) (*File, error) {
	p.logger.Debug("loading file", "path", path)
	original, err := p.cfg.Parse(ctx, path)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing %s", path)
	}
	working, err := p.cfg.Parse(ctx, path)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing %s", path)
	}
	if original == working {
		return nil, errors.Newf("parse of %s returned a shared tree", path)
	}
	return newFile(p, path, original, working), nil
}

// unlocked runs fn with p.mu released. The caller must hold p.mu.
func (p *Project) unlocked(fn func()) {
	p.mu.Unlock()
	defer p.mu.Lock()
	fn()
}

// resolve runs the Resolve collaborator with p.mu released.
func (p *Project) resolve(ctx context.Context, specifier, baseDir string) (string, error) {
	var path string
	var err error
	p.unlocked(func() {
		path, err = p.cfg.Resolve(ctx, specifier, baseDir)
	})
	return path, err
}

// ProcessFile converts every reification site of the file at path.
func (p *Project) ProcessFile(ctx context.Context, path string) (*Result, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	f, err := p.forFileLocked(ctx, path)
	if err != nil {
		return nil, err
	}
	if err := f.process(ctx); err != nil {
		return nil, err
	}
	return f.result(), nil
}

// ProcessFiles processes root files concurrently, at most limit at a time
// (GOMAXPROCS when limit <= 0). A failing file does not stop the others;
// its Result carries the error. Results are in the order of paths, with
// duplicates removed.
func (p *Project) ProcessFiles(ctx context.Context, paths []string, limit int) []*Result {
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}

	seen := make(map[string]bool, len(paths))
	var roots []string
	for _, path := range paths {
		path = normalizePath(path)
		if !seen[path] {
			seen[path] = true
			roots = append(roots, path)
		}
	}

	results := make([]*Result, len(roots))
	var g errgroup.Group
	g.SetLimit(limit)
	for i, path := range roots {
		g.Go(func() error {
			res, err := p.ProcessFile(ctx, path)
			if err != nil {
				p.logger.Debug("file failed", "path", path, "error", err)
				res = &Result{FilePath: path, Err: err}
				p.mu.Lock()
				if f, ok := p.files[path]; ok {
					res.Tree = f.Working
					res.Changed = f.changed
				}
				p.mu.Unlock()
			}
			results[i] = res
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// Files returns every file the project has loaded, sorted by path.
func (p *Project) Files() []*File {
	p.mu.Lock()
	defer p.mu.Unlock()
	files := make([]*File, 0, len(p.files))
	for _, f := range p.files {
		files = append(files, f)
	}
	sort.Slice(files, func(i, j int) bool {
		return files[i].Path < files[j].Path
	})
	return files
}

// ChangedResults returns a Result for every loaded file that changed,
// including files changed only because another file imported from them.
func (p *Project) ChangedResults() []*Result {
	var out []*Result
	for _, f := range p.Files() {
		p.mu.Lock()
		res := f.result()
		p.mu.Unlock()
		if res.Changed {
			out = append(out, res)
		}
	}
	return out
}

// Graph returns the import graph discovered so far. An edge from A to B
// means B imports types from A. It must not be read while files are being
// processed.
func (p *Project) Graph() *dag.Graph {
	return p.graph
}

// addEdge records that importer depends on source.
func (p *Project) addEdge(source, importer string) {
	if source == importer {
		return
	}
	if err := p.graph.AddEdge(source, importer); err != nil {
		p.logger.Debug("skipping graph edge", "from", source, "to", importer, "error", err)
	}
}

func normalizePath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}

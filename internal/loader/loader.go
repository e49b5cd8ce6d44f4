// Package loader reads source files for a conversion run. It parses files
// into syntax trees, resolves relative module specifiers the way bundlers
// do, and expands the glob patterns given on the command line.
package loader

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/leapstack-labs/valgen/pkg/ast"
	"github.com/leapstack-labs/valgen/pkg/parser"
)

// DefaultExtensions are tried in order when a specifier does not name a
// file as written.
var DefaultExtensions = []string{".tsx", ".ts", ".jsx", ".js"}

// DefaultCacheSize is the number of file contents kept in memory.
const DefaultCacheSize = 512

// ErrBareSpecifier is returned by Resolve for package imports.
var ErrBareSpecifier = errors.New("bare specifiers are not resolved")

// Options configures a Loader.
type Options struct {
	// Extensions overrides DefaultExtensions.
	Extensions []string
	// CacheSize bounds the source cache. Zero uses DefaultCacheSize.
	CacheSize int
	// FS reads files. Defaults to the operating system.
	FS fs.FS
	// Logger is the structured logger (optional, uses discard if nil)
	Logger *slog.Logger
}

// Loader parses and resolves source files. It is safe for concurrent use.
//
// Every file is parsed twice by a conversion run, once for the pristine
// tree and once for the working tree, so file contents are cached.
type Loader struct {
	extensions []string
	sources    *lru.Cache[string, string]
	fsys       fs.FS
	logger     *slog.Logger
}

// New creates a Loader.
func New(opts Options) (*Loader, error) {
	size := opts.CacheSize
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New[string, string](size)
	if err != nil {
		return nil, errors.Wrap(err, "creating source cache")
	}

	exts := opts.Extensions
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	for i, ext := range exts {
		if !strings.HasPrefix(ext, ".") {
			return nil, errors.Newf("extension %q at position %d must start with a dot", ext, i)
		}
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Loader{
		extensions: exts,
		sources:    cache,
		fsys:       opts.FS,
		logger:     logger,
	}, nil
}

// Extensions returns the resolution extensions in the order they are tried.
func (l *Loader) Extensions() []string {
	return l.extensions
}

// Read returns the content of the file at path.
func (l *Loader) Read(path string) (string, error) {
	if src, ok := l.sources.Get(path); ok {
		return src, nil
	}
	data, err := l.readFile(path)
	if err != nil {
		return "", errors.Wrapf(err, "reading %s", path)
	}
	src := string(data)
	l.sources.Add(path, src)
	return src, nil
}

// Parse reads and parses the file at path into a fresh tree. Each call
// returns a new tree.
func (l *Loader) Parse(ctx context.Context, path string) (*ast.File, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	src, err := l.Read(path)
	if err != nil {
		return nil, err
	}
	f, err := parser.ParseFile(path, src)
	if err != nil {
		return nil, err
	}
	l.logger.Debug("parsed file", "path", path, "statements", len(f.Body))
	return f, nil
}

// Resolve maps a relative module specifier seen in a file of baseDir to
// the file it names. The specifier is tried as written, then with each
// extension, then as a directory with an index file.
func (l *Loader) Resolve(ctx context.Context, specifier, baseDir string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if !IsRelative(specifier) {
		return "", errors.Wrapf(ErrBareSpecifier, "resolving %q", specifier)
	}

	base := filepath.Join(baseDir, filepath.FromSlash(specifier))
	candidates := make([]string, 0, 1+2*len(l.extensions))
	candidates = append(candidates, base)
	for _, ext := range l.extensions {
		candidates = append(candidates, base+ext)
	}
	for _, ext := range l.extensions {
		candidates = append(candidates, filepath.Join(base, "index"+ext))
	}

	for _, c := range candidates {
		if l.isFile(c) {
			return c, nil
		}
	}
	return "", errors.Newf("cannot resolve %q from %s", specifier, baseDir)
}

// Invalidate drops cached contents so the next read sees the disk.
func (l *Loader) Invalidate(paths ...string) {
	for _, p := range paths {
		l.sources.Remove(p)
	}
}

// Purge drops every cached content.
func (l *Loader) Purge() {
	l.sources.Purge()
}

// IsRelative reports whether specifier is a relative module path.
func IsRelative(specifier string) bool {
	return specifier == "." || specifier == ".." ||
		strings.HasPrefix(specifier, "./") || strings.HasPrefix(specifier, "../")
}

func (l *Loader) readFile(path string) ([]byte, error) {
	if l.fsys != nil {
		return fs.ReadFile(l.fsys, fsPath(path))
	}
	return os.ReadFile(path)
}

func (l *Loader) isFile(path string) bool {
	if _, ok := l.sources.Peek(path); ok {
		return true
	}
	var info fs.FileInfo
	var err error
	if l.fsys != nil {
		info, err = fs.Stat(l.fsys, fsPath(path))
	} else {
		info, err = os.Stat(path)
	}
	return err == nil && !info.IsDir()
}

// fsPath turns an absolute path into the unrooted form io/fs expects.
func fsPath(path string) string {
	return strings.TrimPrefix(filepath.ToSlash(path), "/")
}

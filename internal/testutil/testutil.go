// Package testutil provides shared helpers for tests: a logger that writes
// to the test log and an in-memory source tree for conversion projects.
package testutil

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"sort"
	"sync"
	"testing"

	"github.com/leapstack-labs/valgen/pkg/ast"
	"github.com/leapstack-labs/valgen/pkg/parser"
)

// NewTestLogger returns a logger that writes to t.Log().
// Logs only appear on test failure or when running with -v.
func NewTestLogger(t testing.TB) *slog.Logger {
	t.Helper()
	return slog.New(slog.NewTextHandler(testWriter{t}, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

type testWriter struct {
	t testing.TB
}

func (w testWriter) Write(p []byte) (n int, err error) {
	w.t.Helper()
	w.t.Log(string(p))
	return len(p), nil
}

// resolveExtensions are tried in order when a specifier has no match as
// written.
var resolveExtensions = []string{".tsx", ".ts", ".jsx", ".js"}

// Sources is an in-memory source tree keyed by absolute slash path. It
// counts parses so tests can check how often a file was read.
type Sources struct {
	mu     sync.Mutex
	files  map[string]string
	parses map[string]int
}

// NewSources creates a source tree from path → content pairs.
func NewSources(files map[string]string) *Sources {
	s := &Sources{files: make(map[string]string), parses: make(map[string]int)}
	for p, src := range files {
		s.files[p] = src
	}
	return s
}

// Parse parses the file at p.
func (s *Sources) Parse(_ context.Context, p string) (*ast.File, error) {
	s.mu.Lock()
	src, ok := s.files[p]
	s.parses[p]++
	s.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("file not found: %s", p)
	}
	return parser.ParseFile(p, src)
}

// Resolve maps a relative specifier to a file of the tree, trying the
// usual extensions and index files.
func (s *Sources) Resolve(_ context.Context, specifier, baseDir string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	base := path.Join(baseDir, specifier)
	if _, ok := s.files[base]; ok {
		return base, nil
	}
	for _, ext := range resolveExtensions {
		if _, ok := s.files[base+ext]; ok {
			return base + ext, nil
		}
	}
	for _, ext := range resolveExtensions {
		if _, ok := s.files[path.Join(base, "index"+ext)]; ok {
			return path.Join(base, "index"+ext), nil
		}
	}
	return "", fmt.Errorf("cannot resolve %q from %s", specifier, baseDir)
}

// Set replaces the content of a file.
func (s *Sources) Set(p, src string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[p] = src
}

// Parses reports how many times p was parsed.
func (s *Sources) Parses(p string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.parses[p]
}

// Paths returns every path of the tree, sorted.
func (s *Sources) Paths() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.files))
	for p := range s.files {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

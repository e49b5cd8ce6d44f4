package loader

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/valgen/internal/testutil"
	"github.com/leapstack-labs/valgen/pkg/ast"
)

func newMapLoader(t *testing.T, files map[string]string) *Loader {
	t.Helper()
	fsys := fstest.MapFS{}
	for p, src := range files {
		fsys[p] = &fstest.MapFile{Data: []byte(src)}
	}
	l, err := New(Options{FS: fsys, Logger: testutil.NewTestLogger(t)})
	require.NoError(t, err)
	return l
}

func TestNewRejectsExtensionWithoutDot(t *testing.T) {
	_, err := New(Options{Extensions: []string{"ts"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"ts"`)
}

func TestResolve(t *testing.T) {
	l := newMapLoader(t, map[string]string{
		"src/a.ts":             "",
		"src/b.js":             "",
		"src/c.tsx":            "",
		"src/c.ts":             "",
		"src/dir/index.ts":     "",
		"src/lib/util.js.flow": "",
		"src/exact.ts":         "",
		"shared/types.ts":      "",
	})
	ctx := context.Background()

	tests := []struct {
		specifier string
		want      string
	}{
		{"./a", "/src/a.ts"},
		{"./b", "/src/b.js"},
		{"./c", "/src/c.tsx"},
		{"./dir", "/src/dir/index.ts"},
		{"./exact.ts", "/src/exact.ts"},
		{"../shared/types", "/shared/types.ts"},
	}
	for _, tt := range tests {
		t.Run(tt.specifier, func(t *testing.T) {
			got, err := l.Resolve(ctx, tt.specifier, "/src")
			require.NoError(t, err)
			assert.Equal(t, tt.want, filepath.ToSlash(got))
		})
	}
}

func TestResolveErrors(t *testing.T) {
	l := newMapLoader(t, map[string]string{"src/a.ts": ""})
	ctx := context.Background()

	_, err := l.Resolve(ctx, "lodash", "/src")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrBareSpecifier))

	_, err = l.Resolve(ctx, "./missing", "/src")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `cannot resolve "./missing"`)

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = l.Resolve(canceled, "./a", "/src")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParseReturnsFreshTrees(t *testing.T) {
	l := newMapLoader(t, map[string]string{
		"src/a.ts": "type A = string\n",
		"src/b.js": "// @flow\ntype B = ?string\n",
	})
	ctx := context.Background()

	first, err := l.Parse(ctx, "/src/a.ts")
	require.NoError(t, err)
	second, err := l.Parse(ctx, "/src/a.ts")
	require.NoError(t, err)
	assert.NotSame(t, first, second)
	assert.Equal(t, ast.TypeScript, first.Dialect)
	assert.Equal(t, "/src/a.ts", first.Path)
	require.Len(t, first.Body, 1)

	flow, err := l.Parse(ctx, "/src/b.js")
	require.NoError(t, err)
	assert.Equal(t, ast.Flow, flow.Dialect)

	_, err = l.Parse(ctx, "/src/missing.ts")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading /src/missing.ts")
}

func TestReadCachesUntilInvalidated(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.ts")
	require.NoError(t, os.WriteFile(path, []byte("type A = string\n"), 0o600))

	l, err := New(Options{CacheSize: 4})
	require.NoError(t, err)

	src, err := l.Read(path)
	require.NoError(t, err)
	assert.Equal(t, "type A = string\n", src)

	require.NoError(t, os.WriteFile(path, []byte("type A = number\n"), 0o600))
	src, err = l.Read(path)
	require.NoError(t, err)
	assert.Equal(t, "type A = string\n", src, "cached content")

	l.Invalidate(path)
	src, err = l.Read(path)
	require.NoError(t, err)
	assert.Equal(t, "type A = number\n", src)
}

func TestIsRelative(t *testing.T) {
	assert.True(t, IsRelative("./a"))
	assert.True(t, IsRelative("../a"))
	assert.True(t, IsRelative("."))
	assert.True(t, IsRelative(".."))
	assert.False(t, IsRelative("a"))
	assert.False(t, IsRelative("@scope/pkg"))
	assert.False(t, IsRelative(".hidden"))
}

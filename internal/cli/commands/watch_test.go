package commands

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/leapstack-labs/valgen/internal/cli/config"
	"github.com/leapstack-labs/valgen/internal/cli/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// syncBuffer is a bytes.Buffer safe for the watch loop and the test to
// share.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestNewWatchCommand(t *testing.T) {
	cmd := NewWatchCommand()

	assert.Equal(t, "watch [files or globs...]", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
	debounce := cmd.Flags().Lookup("debounce")
	require.NotNil(t, debounce)
	assert.Equal(t, DefaultDebounce.String(), debounce.DefValue)
}

func TestWatchRechecksOnChange(t *testing.T) {
	config.ResetConfig()
	t.Cleanup(config.ResetConfig)

	dir := t.TempDir()
	testutil.WriteFiles(t, dir, map[string]string{
		"valgen.yaml":  "include:\n  - src/**/*.ts\n",
		"src/types.ts": testutil.TypesSource,
		"src/clean.ts": testutil.CleanSource,
	})
	t.Chdir(dir)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	out := &syncBuffer{}
	cmd := NewWatchCommand()
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs([]string{"--debounce", "10ms"})

	done := make(chan error, 1)
	go func() { done <- cmd.ExecuteContext(ctx) }()

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "Watching for changes")
	}, 5*time.Second, 10*time.Millisecond)
	assert.Contains(t, out.String(), "All matched files are up-to-date!")

	testutil.WriteFiles(t, dir, map[string]string{"src/app.ts": testutil.AppSource})

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "2 files need validators updated.")
	}, 5*time.Second, 20*time.Millisecond)
	assert.Contains(t, out.String(), "## Changed: src/app.ts")

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancellation")
	}

	// Watch never writes
	assert.Equal(t, testutil.TypesSource, testutil.ReadFile(t, dir, "src/types.ts"))
}

func TestWatchRelevantEvents(t *testing.T) {
	dir := setupProject(t)
	cmdCtx, err := NewCommandContext(NewWatchCommand())
	require.NoError(t, err)
	s := &watchSession{cmdCtx: cmdCtx}

	src := filepath.Join(dir, "src")
	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{"write", fsnotify.Event{Name: filepath.Join(src, "a.ts"), Op: fsnotify.Write}, true},
		{"create", fsnotify.Event{Name: filepath.Join(src, "a.tsx"), Op: fsnotify.Create}, true},
		{"remove", fsnotify.Event{Name: filepath.Join(src, "a.ts"), Op: fsnotify.Remove}, false},
		{"chmod", fsnotify.Event{Name: filepath.Join(src, "a.ts"), Op: fsnotify.Chmod}, false},
		{"other extension", fsnotify.Event{Name: filepath.Join(src, "a.css"), Op: fsnotify.Write}, false},
		{"dependency", fsnotify.Event{Name: filepath.Join(dir, "node_modules", "x", "a.ts"), Op: fsnotify.Write}, false},
		{"hidden directory", fsnotify.Event{Name: filepath.Join(dir, ".cache", "a.ts"), Op: fsnotify.Write}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.relevant(tt.event))
		})
	}
}

func TestWatchDirs(t *testing.T) {
	dir := setupProject(t)
	cmdCtx, err := NewCommandContext(NewWatchCommand())
	require.NoError(t, err)

	paths, err := cmdCtx.Expand(nil)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "src")}, watchDirs(cmdCtx, nil, paths))

	assert.Equal(t, []string{filepath.Join(dir, "src")}, watchDirs(cmdCtx, []string{"src"}, nil))
	assert.Empty(t, globBase(filepath.Join(dir, "missing", "*.ts")))
	assert.Equal(t, filepath.Join(dir, "src"), globBase(filepath.Join(dir, "src", "**", "*.ts")))
}

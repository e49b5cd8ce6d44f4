package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRenderer(mode OutputMode, isTTY bool) (*Renderer, *bytes.Buffer, *bytes.Buffer) {
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	return NewRendererWithTTY(out, errOut, isTTY, mode), out, errOut
}

func TestMode(t *testing.T) {
	assert.Equal(t, ModeText, Mode("text"))
	assert.Equal(t, ModeJSON, Mode(" JSON "))
	assert.Equal(t, ModeMarkdown, Mode("markdown"))
	assert.Equal(t, ModeAuto, Mode(""))
	assert.Equal(t, ModeAuto, Mode("yaml"))
}

func TestEffectiveMode(t *testing.T) {
	r, _, _ := newTestRenderer(ModeAuto, true)
	assert.Equal(t, ModeText, r.EffectiveMode())

	r, _, _ = newTestRenderer(ModeAuto, false)
	assert.Equal(t, ModeMarkdown, r.EffectiveMode())

	r, _, _ = newTestRenderer(ModeJSON, true)
	assert.Equal(t, ModeJSON, r.EffectiveMode())
}

func TestNewRendererDetectsBuffers(t *testing.T) {
	r := NewRenderer(&bytes.Buffer{}, &bytes.Buffer{}, ModeAuto)
	assert.False(t, r.IsTTY())
}

func TestMarkdownOutputIsPlain(t *testing.T) {
	r, out, errOut := newTestRenderer(ModeMarkdown, false)
	r.Header(1, "Conversion")
	r.StatusLine("src/a.ts", "changed", "+3 -1")
	r.Success("done")
	r.Warning("careful")

	assert.Equal(t, "# Conversion\n\n- src/a.ts: changed (+3 -1)\ndone\n", out.String())
	assert.Equal(t, "**Warning:** careful\n", errOut.String())
	assert.NotContains(t, out.String()+errOut.String(), "\x1b[")
}

func TestTextOutputWithoutTerminalHasNoColor(t *testing.T) {
	r, out, _ := newTestRenderer(ModeText, false)
	r.Success("done")
	r.StatusLine("src/a.ts", "failed", "")
	assert.Equal(t, "✓ done\n  ✗ src/a.ts\n", out.String())
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "## Summary", FormatHeader(2, "Summary"))
	assert.Equal(t, "# Top", FormatHeader(0, "Top"))
	assert.Equal(t, "- **Files:** 3", FormatKeyValue("Files", "3"))
	assert.Equal(t, "Up To Date", Title("up to date"))
}

func TestUnifiedDiff(t *testing.T) {
	before := "a\nb\nc\n"
	after := "a\nB\nc\nd"

	diff, err := UnifiedDiff("src/x.ts", before, after)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(diff, "--- src/x.ts\n+++ src/x.ts\n@@ "), diff)
	assert.Contains(t, diff, "-b\n")
	assert.Contains(t, diff, "+B\n")
	assert.Contains(t, diff, "+d\n")

	added, removed := DiffStat(diff)
	assert.Equal(t, 2, added)
	assert.Equal(t, 1, removed)

	same, err := UnifiedDiff("src/x.ts", before, before)
	require.NoError(t, err)
	assert.Empty(t, same)
}

func TestRendererDiff(t *testing.T) {
	r, out, _ := newTestRenderer(ModeMarkdown, false)
	require.NoError(t, r.Diff("a.ts", "x\n", "y\n"))
	assert.True(t, strings.HasPrefix(out.String(), "```diff\n--- a.ts\n"))
	assert.True(t, strings.HasSuffix(out.String(), "+y\n```\n"))

	r, out, _ = newTestRenderer(ModeText, false)
	require.NoError(t, r.Diff("a.ts", "x\n", "y\n"))
	assert.Contains(t, out.String(), "-x\n+y\n")

	r, out, _ = newTestRenderer(ModeJSON, false)
	require.NoError(t, r.Diff("a.ts", "x\n", "y\n"))
	assert.Empty(t, out.String())
}

func TestTable(t *testing.T) {
	r, out, _ := newTestRenderer(ModeMarkdown, false)
	r.Table([]string{"File", "Status"}, [][]string{{"a.ts", "changed"}, {"b.ts", "unchanged"}})
	assert.Contains(t, out.String(), "| a.ts | changed |")
	assert.Contains(t, out.String(), "| b.ts | unchanged |")

	r, out, _ = newTestRenderer(ModeText, true)
	r.Table([]string{"File", "Status"}, [][]string{{"a.ts", "changed"}})
	assert.Contains(t, out.String(), "a.ts")
	assert.Contains(t, out.String(), "┌")
}

func TestJSON(t *testing.T) {
	r, out, _ := newTestRenderer(ModeJSON, false)
	require.NoError(t, r.JSON(ConvertOutput{
		Files:   []FileResult{{Path: "a.ts", Status: "changed", Added: 2}},
		Changed: 1,
	}))

	var got ConvertOutput
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, 1, got.Changed)
	require.Len(t, got.Files, 1)
	assert.Equal(t, "a.ts", got.Files[0].Path)
	assert.Contains(t, out.String(), "\n  \"files\"")
}

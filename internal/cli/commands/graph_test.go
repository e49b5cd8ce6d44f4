package commands

import (
	"encoding/json"
	"testing"

	"github.com/leapstack-labs/valgen/internal/cli/output"
	"github.com/leapstack-labs/valgen/internal/cli/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGraphCommand(t *testing.T) {
	cmd := NewGraphCommand()

	assert.Equal(t, "graph [files or globs...]", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
	assert.NotNil(t, cmd.Flags().Lookup("focus"), "--focus flag should exist")
}

func TestGraphMarkdown(t *testing.T) {
	setupProject(t)

	out, err := execute(t, NewGraphCommand())
	require.NoError(t, err)

	expected := []string{
		"# Import Graph",
		"## Level 0 (Sources)",
		"- src/clean.ts",
		"- src/types.ts",
		"  - imported by: src/app.ts",
		"## Level 1",
		"- src/app.ts",
		"  - imports from: src/types.ts",
		"- **Total Files:** 3",
		"- **Total Imports:** 1",
		"- **Roots:** 2",
		"- **Leaves:** 2",
	}
	for _, want := range expected {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "## Cycle")
}

func TestGraphFocus(t *testing.T) {
	dir := setupProject(t)
	testutil.WriteFiles(t, dir, map[string]string{
		"src/other.ts": "import { Answer } from './more'\n\nconst v = reify as Type<Answer>\n",
		"src/more.ts":  "export type Answer = number\n",
	})

	out, err := execute(t, NewGraphCommand(), "--focus", "src/app.ts")
	require.NoError(t, err)
	assert.Contains(t, out, "- **Total Files:** 2")
	assert.Contains(t, out, "- src/types.ts")
	assert.NotContains(t, out, "src/other.ts")

	_, err = execute(t, NewGraphCommand(), "--focus", "src/missing.ts")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is not part of the graph")
}

func TestGraphJSON(t *testing.T) {
	setupProject(t)
	t.Setenv("VALGEN_OUTPUT", "json")

	out, err := execute(t, NewGraphCommand())
	require.NoError(t, err)

	var graph output.GraphOutput
	require.NoError(t, json.Unmarshal([]byte(out), &graph), out)
	assert.Equal(t, 3, graph.TotalFiles)
	assert.Equal(t, 1, graph.TotalEdges)
	assert.Empty(t, graph.Cycle)
	assert.Equal(t, []string{"src/types.ts", "src/app.ts", "src/clean.ts"}, graph.Order)

	require.Len(t, graph.Levels, 2)
	require.Len(t, graph.Levels[1].Files, 1)
	app := graph.Levels[1].Files[0]
	assert.Equal(t, "src/app.ts", app.Path)
	assert.Equal(t, []string{"src/types.ts"}, app.Imports)
	assert.Empty(t, app.ImportedBy)
}

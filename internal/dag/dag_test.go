package dag

import (
	"slices"
	"testing"
)

// diamond builds base <- left, right <- top.
func diamond(t *testing.T) *Graph {
	t.Helper()
	g := NewGraph()
	for _, id := range []string{"/src/base.ts", "/src/left.ts", "/src/right.ts", "/src/top.ts"} {
		g.AddNode(id, nil)
	}
	for _, e := range [][2]string{
		{"/src/base.ts", "/src/left.ts"},
		{"/src/base.ts", "/src/right.ts"},
		{"/src/left.ts", "/src/top.ts"},
		{"/src/right.ts", "/src/top.ts"},
	} {
		if err := g.AddEdge(e[0], e[1]); err != nil {
			t.Fatalf("failed to add edge %v: %v", e, err)
		}
	}
	return g
}

func TestGraph_AddNodeAndEdge(t *testing.T) {
	g := diamond(t)

	if g.Len() != 4 {
		t.Errorf("expected 4 files, got %d", g.Len())
	}
	if g.EdgeCount() != 4 {
		t.Errorf("expected 4 edges, got %d", g.EdgeCount())
	}

	// duplicate edges are ignored
	if err := g.AddEdge("/src/base.ts", "/src/left.ts"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.EdgeCount() != 4 {
		t.Errorf("expected duplicate edge to be ignored, got %d edges", g.EdgeCount())
	}
}

func TestGraph_AddNodeUpdatesData(t *testing.T) {
	g := NewGraph()
	g.AddNode("/src/a.ts", 1)
	g.AddNode("/src/a.ts", 2)

	n, ok := g.Node("/src/a.ts")
	if !ok || n.Data != 2 {
		t.Errorf("expected updated data, got %+v", n)
	}
	if g.Len() != 1 {
		t.Errorf("expected 1 file, got %d", g.Len())
	}
}

func TestGraph_AddEdgeErrors(t *testing.T) {
	g := NewGraph()
	g.AddNode("/src/a.ts", nil)

	if err := g.AddEdge("/src/a.ts", "/src/missing.ts"); err == nil {
		t.Error("expected error for unknown importer")
	}
	if err := g.AddEdge("/src/missing.ts", "/src/a.ts"); err == nil {
		t.Error("expected error for unknown source")
	}
	if err := g.AddEdge("/src/a.ts", "/src/a.ts"); err == nil {
		t.Error("expected error for self import")
	}
}

func TestGraph_ImportsAndImporters(t *testing.T) {
	g := diamond(t)

	if got := g.Imports("/src/top.ts"); !slices.Equal(got, []string{"/src/left.ts", "/src/right.ts"}) {
		t.Errorf("unexpected imports of top: %v", got)
	}
	if got := g.Importers("/src/base.ts"); !slices.Equal(got, []string{"/src/left.ts", "/src/right.ts"}) {
		t.Errorf("unexpected importers of base: %v", got)
	}
}

func TestGraph_FindCycle(t *testing.T) {
	g := diamond(t)
	if cycle := g.FindCycle(); cycle != nil {
		t.Errorf("expected no cycle, found %v", cycle)
	}

	if err := g.AddEdge("/src/top.ts", "/src/base.ts"); err != nil {
		t.Fatal(err)
	}
	cycle := g.FindCycle()
	if len(cycle) < 3 {
		t.Fatalf("expected a closed cycle path, got %v", cycle)
	}
	if cycle[0] != cycle[len(cycle)-1] {
		t.Errorf("cycle should start and end at the same file: %v", cycle)
	}
	for i := 0; i+1 < len(cycle); i++ {
		if !slices.Contains(g.Importers(cycle[i]), cycle[i+1]) {
			t.Errorf("%s does not import from %s", cycle[i+1], cycle[i])
		}
	}
}

func TestGraph_Order(t *testing.T) {
	g := diamond(t)

	pos := make(map[string]int)
	for i, n := range g.Order() {
		pos[n.ID] = i
	}
	if len(pos) != 4 {
		t.Fatalf("expected 4 files, got %d", len(pos))
	}
	if pos["/src/base.ts"] > pos["/src/left.ts"] || pos["/src/base.ts"] > pos["/src/right.ts"] {
		t.Error("base should come before left and right")
	}
	if pos["/src/left.ts"] > pos["/src/top.ts"] || pos["/src/right.ts"] > pos["/src/top.ts"] {
		t.Error("left and right should come before top")
	}
}

func TestGraph_OrderWithCycle(t *testing.T) {
	g := NewGraph()
	g.AddNode("/src/a.ts", nil)
	g.AddNode("/src/b.ts", nil)
	_ = g.AddEdge("/src/a.ts", "/src/b.ts")
	_ = g.AddEdge("/src/b.ts", "/src/a.ts")

	if got := len(g.Order()); got != 2 {
		t.Errorf("expected every file once, got %d", got)
	}
}

func TestGraph_Levels(t *testing.T) {
	g := diamond(t)

	levels, err := g.Levels()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := [][]string{
		{"/src/base.ts"},
		{"/src/left.ts", "/src/right.ts"},
		{"/src/top.ts"},
	}
	if len(levels) != len(want) {
		t.Fatalf("expected %d levels, got %v", len(want), levels)
	}
	for i := range want {
		if !slices.Equal(levels[i], want[i]) {
			t.Errorf("level %d: expected %v, got %v", i, want[i], levels[i])
		}
	}

	_ = g.AddEdge("/src/top.ts", "/src/base.ts")
	if _, err := g.Levels(); err == nil {
		t.Error("expected error for cycle")
	}
}

func TestGraph_Affected(t *testing.T) {
	g := diamond(t)

	got := g.Affected([]string{"/src/left.ts", "/src/unknown.ts"})
	if !slices.Equal(got, []string{"/src/left.ts", "/src/top.ts"}) {
		t.Errorf("unexpected affected files: %v", got)
	}

	got = g.Affected([]string{"/src/base.ts"})
	if len(got) != 4 {
		t.Errorf("expected every file to be affected, got %v", got)
	}
}

func TestGraph_Upstream(t *testing.T) {
	g := diamond(t)

	got := g.Upstream("/src/top.ts")
	if !slices.Equal(got, []string{"/src/base.ts", "/src/left.ts", "/src/right.ts"}) {
		t.Errorf("unexpected upstream files: %v", got)
	}
	if got := g.Upstream("/src/base.ts"); len(got) != 0 {
		t.Errorf("expected no upstream files, got %v", got)
	}
}

func TestGraph_RootsAndLeaves(t *testing.T) {
	g := diamond(t)

	if got := g.Roots(); !slices.Equal(got, []string{"/src/base.ts"}) {
		t.Errorf("unexpected roots: %v", got)
	}
	if got := g.Leaves(); !slices.Equal(got, []string{"/src/top.ts"}) {
		t.Errorf("unexpected leaves: %v", got)
	}
}

func TestGraph_Subgraph(t *testing.T) {
	g := diamond(t)

	sub := g.Subgraph([]string{"/src/base.ts", "/src/left.ts", "/src/missing.ts"})
	if sub.Len() != 2 {
		t.Errorf("expected 2 files, got %d", sub.Len())
	}
	if sub.EdgeCount() != 1 {
		t.Errorf("expected 1 edge, got %d", sub.EdgeCount())
	}
	if got := sub.Importers("/src/base.ts"); !slices.Equal(got, []string{"/src/left.ts"}) {
		t.Errorf("unexpected importers in subgraph: %v", got)
	}
}

// Package dag tracks the import graph between converted source files.
// An edge from A to B means B imports types from A, so A is converted
// before B can reference its validators. Import graphs may contain cycles;
// only Levels refuses them.
package dag

import (
	"maps"
	"slices"

	"github.com/cockroachdb/errors"
)

// Node is a file in the graph.
type Node struct {
	// ID is the absolute file path.
	ID string
	// Data holds the caller's per-file state.
	Data any
}

// Graph is a directed graph of files.
type Graph struct {
	nodes     map[string]*Node
	importers map[string][]string // file -> files importing from it
	imports   map[string][]string // file -> files it imports from
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{
		nodes:     make(map[string]*Node),
		importers: make(map[string][]string),
		imports:   make(map[string][]string),
	}
}

// AddNode adds a file, or updates its data when it is already present.
func (g *Graph) AddNode(id string, data any) {
	if n, ok := g.nodes[id]; ok {
		n.Data = data
		return
	}
	g.nodes[id] = &Node{ID: id, Data: data}
	g.importers[id] = []string{}
	g.imports[id] = []string{}
}

// AddEdge records that importer imports from source. Both files must
// already be nodes.
func (g *Graph) AddEdge(source, importer string) error {
	if _, ok := g.nodes[source]; !ok {
		return errors.Newf("source file %q is not in the graph", source)
	}
	if _, ok := g.nodes[importer]; !ok {
		return errors.Newf("importing file %q is not in the graph", importer)
	}
	if source == importer {
		return errors.Newf("file %s imports itself", source)
	}

	if !slices.Contains(g.importers[source], importer) {
		g.importers[source] = append(g.importers[source], importer)
	}
	if !slices.Contains(g.imports[importer], source) {
		g.imports[importer] = append(g.imports[importer], source)
	}
	return nil
}

// Node returns the node for id.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Imports returns the files id imports from, in discovery order.
func (g *Graph) Imports(id string) []string {
	return g.imports[id]
}

// Importers returns the files importing from id, in discovery order.
func (g *Graph) Importers(id string) []string {
	return g.importers[id]
}

// IDs returns every file path, sorted.
func (g *Graph) IDs() []string {
	return slices.Sorted(maps.Keys(g.nodes))
}

// Len returns the number of files.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// EdgeCount returns the number of import edges.
func (g *Graph) EdgeCount() int {
	count := 0
	for _, importers := range g.importers {
		count += len(importers)
	}
	return count
}

// FindCycle returns one import cycle as a closed path (first and last
// element are the same file), or nil when the graph is acyclic.
func (g *Graph) FindCycle() []string {
	const (
		unvisited = iota
		active
		done
	)
	state := make(map[string]int, len(g.nodes))
	parent := make(map[string]string)

	var cycle []string
	var visit func(id string) bool
	visit = func(id string) bool {
		state[id] = active
		for _, next := range g.importers[id] {
			switch state[next] {
			case unvisited:
				parent[next] = id
				if visit(next) {
					return true
				}
			case active:
				cycle = []string{next}
				for cur := id; cur != next; cur = parent[cur] {
					cycle = append(cycle, cur)
				}
				cycle = append(cycle, next)
				slices.Reverse(cycle)
				return true
			}
		}
		state[id] = done
		return false
	}

	for _, id := range g.IDs() {
		if state[id] == unvisited && visit(id) {
			return cycle
		}
	}
	return nil
}

// Order returns every file with the files it imports from placed before
// it. Files on a cycle keep the order in which the walk reached them.
func (g *Graph) Order() []*Node {
	visited := make(map[string]bool, len(g.nodes))
	out := make([]*Node, 0, len(g.nodes))

	var visit func(id string)
	visit = func(id string) {
		if visited[id] {
			return
		}
		visited[id] = true
		for _, dep := range slices.Sorted(slices.Values(g.imports[id])) {
			visit(dep)
		}
		out = append(out, g.nodes[id])
	}
	for _, id := range g.IDs() {
		visit(id)
	}
	return out
}

// Levels groups files so that every file's imports sit in an earlier
// level. Level 0 holds files that import nothing. It fails on a cycle.
func (g *Graph) Levels() ([][]string, error) {
	if cycle := g.FindCycle(); cycle != nil {
		return nil, errors.Newf("import cycle: %v", cycle)
	}

	level := make(map[string]int, len(g.nodes))
	var levelOf func(id string) int
	levelOf = func(id string) int {
		if l, ok := level[id]; ok {
			return l
		}
		l := 0
		for _, dep := range g.imports[id] {
			l = max(l, levelOf(dep)+1)
		}
		level[id] = l
		return l
	}

	var levels [][]string
	for _, id := range g.IDs() {
		l := levelOf(id)
		for len(levels) <= l {
			levels = append(levels, nil)
		}
		levels[l] = append(levels[l], id)
	}
	return levels, nil
}

// Affected returns the changed files and every file that imports from
// them, directly or transitively, sorted. Unknown ids are ignored.
func (g *Graph) Affected(changed []string) []string {
	seen := make(map[string]bool)
	var mark func(id string)
	mark = func(id string) {
		if seen[id] {
			return
		}
		seen[id] = true
		for _, importer := range g.importers[id] {
			mark(importer)
		}
	}
	for _, id := range changed {
		if _, ok := g.nodes[id]; ok {
			mark(id)
		}
	}
	return slices.Sorted(maps.Keys(seen))
}

// Upstream returns every file id imports from, directly or transitively.
func (g *Graph) Upstream(id string) []string {
	seen := make(map[string]bool)
	var mark func(id string)
	mark = func(id string) {
		for _, dep := range g.imports[id] {
			if !seen[dep] {
				seen[dep] = true
				mark(dep)
			}
		}
	}
	mark(id)
	delete(seen, id)
	return slices.Sorted(maps.Keys(seen))
}

// Roots returns the files that import nothing.
func (g *Graph) Roots() []string {
	var roots []string
	for _, id := range g.IDs() {
		if len(g.imports[id]) == 0 {
			roots = append(roots, id)
		}
	}
	return roots
}

// Leaves returns the files nothing imports from.
func (g *Graph) Leaves() []string {
	var leaves []string
	for _, id := range g.IDs() {
		if len(g.importers[id]) == 0 {
			leaves = append(leaves, id)
		}
	}
	return leaves
}

// Subgraph returns the graph restricted to ids.
func (g *Graph) Subgraph(ids []string) *Graph {
	sub := NewGraph()
	for _, id := range ids {
		if n, ok := g.nodes[id]; ok {
			sub.AddNode(id, n.Data)
		}
	}
	for _, id := range ids {
		for _, importer := range g.importers[id] {
			if _, ok := sub.nodes[importer]; ok {
				_ = sub.AddEdge(id, importer)
			}
		}
	}
	return sub
}

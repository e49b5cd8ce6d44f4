package commands

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/leapstack-labs/valgen/internal/cli/output"
	"github.com/leapstack-labs/valgen/internal/dag"
	"github.com/spf13/cobra"
)

// NewGraphCommand creates the graph command.
func NewGraphCommand() *cobra.Command {
	var focus string

	cmd := &cobra.Command{
		Use:   "graph [files or globs...]",
		Short: "Show the import graph between converted files",
		Long: `Convert the given files without writing and show which files import
validators from which.

Files are grouped by level: a file only imports from files in earlier
levels. When the imports form a cycle it is reported and files are listed
in conversion order instead.

Output adapts to environment:
  - Terminal: Styled output with colors
  - Piped/Scripted: Markdown format (agent-friendly)`,
		Example: `  # Show the graph of the configured files
  valgen graph

  # Only the files connected to one file
  valgen graph --focus src/api.ts

  # Output as JSON
  valgen graph --output json 'src/**/*.ts'`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGraph(cmd, args, focus)
		},
	}

	cmd.Flags().StringVar(&focus, "focus", "", "Only show files this file imports from or is imported by")
	return cmd
}

func runGraph(cmd *cobra.Command, args []string, focus string) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	r := cmdCtx.Renderer

	paths, err := cmdCtx.Expand(args)
	if err != nil {
		return err
	}
	run, err := cmdCtx.Convert(cmd.Context(), paths)
	if err != nil {
		return err
	}
	for _, fc := range run.Failed() {
		reportFailure(cmdCtx, fc)
	}

	graph := run.Graph
	if focus != "" {
		abs, err := filepath.Abs(focus)
		if err != nil {
			return err
		}
		if _, ok := graph.Node(abs); !ok {
			return fmt.Errorf("%s is not part of the graph", focus)
		}
		ids := append(graph.Upstream(abs), graph.Affected([]string{abs})...)
		graph = graph.Subgraph(ids)
	}

	view := newGraphView(cmdCtx, graph)
	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(view.json())
	case output.ModeMarkdown:
		view.markdown(r)
	default:
		view.text(r)
	}
	return nil
}

// graphView is a graph with display paths.
type graphView struct {
	graph  *dag.Graph
	rel    func(string) string
	levels [][]string
	order  []string
	cycle  []string
}

func newGraphView(c *CommandContext, g *dag.Graph) *graphView {
	v := &graphView{graph: g, rel: c.RelPath}
	for _, n := range g.Order() {
		v.order = append(v.order, n.ID)
	}
	if levels, err := g.Levels(); err == nil {
		v.levels = levels
	} else {
		v.cycle = g.FindCycle()
	}
	return v
}

func (v *graphView) relAll(ids []string) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = v.rel(id)
	}
	return out
}

// relSorted returns display paths of ids in sorted order.
func (v *graphView) relSorted(ids []string) []string {
	out := v.relAll(ids)
	slices.Sort(out)
	return out
}

func (v *graphView) text(r *output.Renderer) {
	styles := r.Styles()
	r.Header(1, "Import Graph")

	if v.cycle != nil {
		r.Warning("import cycle: " + strings.Join(v.relAll(v.cycle), " -> "))
		r.Println(styles.Header2.Render("Conversion order:"))
		for i, id := range v.order {
			r.Printf("  %d. %s\n", i+1, styles.FilePath.Render(v.rel(id)))
		}
		r.Println("")
	}

	for i, level := range v.levels {
		r.Println(styles.Header2.Render(fmt.Sprintf("Level %d:", i)))
		for _, id := range level {
			r.Printf("  %s\n", styles.FilePath.Render(v.rel(id)))
			if imports := v.graph.Imports(id); len(imports) > 0 {
				r.Printf("    %s %s\n", styles.Muted.Render("imports from:"), strings.Join(v.relSorted(imports), ", "))
			}
			if importers := v.graph.Importers(id); len(importers) > 0 {
				r.Printf("    %s %s\n", styles.Muted.Render("imported by:"), strings.Join(v.relSorted(importers), ", "))
			}
		}
		r.Println("")
	}

	r.Println(styles.Muted.Render(fmt.Sprintf("Total: %d files, %d imports, %d roots, %d leaves",
		v.graph.Len(), v.graph.EdgeCount(), len(v.graph.Roots()), len(v.graph.Leaves()))))
}

func (v *graphView) markdown(r *output.Renderer) {
	r.Println(output.FormatHeader(1, "Import Graph"))
	r.Println("")

	if v.cycle != nil {
		r.Println(output.FormatHeader(2, "Cycle"))
		r.Println(strings.Join(v.relAll(v.cycle), " -> "))
		r.Println("")
		r.Println(output.FormatHeader(2, "Conversion Order"))
		for i, id := range v.order {
			r.Printf("%d. %s\n", i+1, v.rel(id))
		}
		r.Println("")
	}

	for i, level := range v.levels {
		name := fmt.Sprintf("Level %d", i)
		if i == 0 {
			name = "Level 0 (Sources)"
		}
		r.Println(output.FormatHeader(2, name))
		for _, id := range level {
			r.Printf("- %s\n", v.rel(id))
			if imports := v.graph.Imports(id); len(imports) > 0 {
				r.Printf("  - imports from: %s\n", strings.Join(v.relSorted(imports), ", "))
			}
			if importers := v.graph.Importers(id); len(importers) > 0 {
				r.Printf("  - imported by: %s\n", strings.Join(v.relSorted(importers), ", "))
			}
		}
		r.Println("")
	}

	r.Println(output.FormatHeader(2, "Summary"))
	r.Println(output.FormatKeyValue("Total Files", fmt.Sprintf("%d", v.graph.Len())))
	r.Println(output.FormatKeyValue("Total Imports", fmt.Sprintf("%d", v.graph.EdgeCount())))
	r.Println(output.FormatKeyValue("Roots", fmt.Sprintf("%d", len(v.graph.Roots()))))
	r.Println(output.FormatKeyValue("Leaves", fmt.Sprintf("%d", len(v.graph.Leaves()))))
}

func (v *graphView) json() output.GraphOutput {
	out := output.GraphOutput{
		Order:      v.relAll(v.order),
		TotalFiles: v.graph.Len(),
		TotalEdges: v.graph.EdgeCount(),
	}
	if v.cycle != nil {
		out.Cycle = v.relAll(v.cycle)
	}
	for i, level := range v.levels {
		gl := output.GraphLevel{Level: i, Files: make([]output.GraphNode, 0, len(level))}
		for _, id := range level {
			gl.Files = append(gl.Files, output.GraphNode{
				Path:       v.rel(id),
				Imports:    v.relSorted(v.graph.Imports(id)),
				ImportedBy: v.relSorted(v.graph.Importers(id)),
			})
		}
		out.Levels = append(out.Levels, gl)
	}
	return out
}

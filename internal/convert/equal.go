package convert

import (
	"os"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/leapstack-labs/valgen/pkg/ast"
	"github.com/leapstack-labs/valgen/pkg/token"
)

// debugEqualEnv enables the reconciliation log that reports the first node
// where the working tree departs from the original one.
const debugEqualEnv = "VALGEN_DEBUG_AST_EQUAL"

var equalOptions = cmp.Options{
	cmpopts.IgnoreFields(ast.NodeInfo{}, "Span", "Raw", "Leading", "Trailing"),
	cmpopts.IgnoreFields(ast.StringLit{}, "Raw"),
	cmpopts.IgnoreFields(ast.File{}, "Path", "Tail", "Semicolons", "SingleQuote"),
	cmp.Comparer(func(a, b *token.Comment) bool {
		if a == nil || b == nil {
			return a == b
		}
		return a.Text == b.Text
	}),
	cmpopts.EquateEmpty(),
}

// NodesEqual reports whether two subtrees have the same structure. Source
// positions, layout text and string quoting are ignored; comments are
// compared by text.
func NodesEqual(a, b ast.Node) bool {
	return cmp.Equal(a, b, equalOptions)
}

// FirstMismatch returns the path to the first node that differs between a
// and b, or "" when they are equal.
func FirstMismatch(a, b ast.Node) string {
	r := &mismatchReporter{}
	cmp.Equal(a, b, equalOptions, cmp.Reporter(r))
	return r.first
}

type mismatchReporter struct {
	path  cmp.Path
	first string
}

func (r *mismatchReporter) PushStep(ps cmp.PathStep) {
	r.path = append(r.path, ps)
}

func (r *mismatchReporter) Report(rs cmp.Result) {
	if r.first == "" && !rs.Equal() {
		r.first = r.path.GoString()
	}
}

func (r *mismatchReporter) PopStep() {
	r.path = r.path[:len(r.path)-1]
}

func debugEqualEnabled() bool {
	return os.Getenv(debugEqualEnv) == "1"
}

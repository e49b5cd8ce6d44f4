package convert

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/valgen/pkg/ast"
	"github.com/leapstack-labs/valgen/pkg/parser"
)

func parseTS(t *testing.T, src string) *ast.File {
	t.Helper()
	f, err := parser.ParseFile("/src/a.ts", src)
	require.NoError(t, err)
	return f
}

func TestNodesEqualIgnoresLayout(t *testing.T) {
	a := parseTS(t, "const x = t.alias('A', t.object({ a: t.string() }))\n")
	b := parseTS(t, "const   x =\n  t.alias(\"A\", t.object({\n    a: t.string()\n  }));\n")

	assert.True(t, NodesEqual(a, b))
	assert.Empty(t, FirstMismatch(a, b))
}

func TestNodesEqualComparesStructure(t *testing.T) {
	a := parseTS(t, "const x = t.string()\n")
	b := parseTS(t, "const x = t.number()\n")

	assert.False(t, NodesEqual(a, b))
	assert.Contains(t, FirstMismatch(a, b), "Name")
}

func TestNodesEqualComparesComments(t *testing.T) {
	a := parseTS(t, "// one\nconst x = 1\n")
	b := parseTS(t, "// one\n\nconst x = 1\n")
	c := parseTS(t, "// two\nconst x = 1\n")

	assert.True(t, NodesEqual(a, b))
	assert.False(t, NodesEqual(a, c))
}

func TestNodesEqualSynthesizedTree(t *testing.T) {
	f := parseTS(t, "const x = t.ref(() => UserType)\n")
	parsed := f.Body[0].(*ast.VarDecl).Declarators[0].Init

	v := validators{ns: "t"}
	built := v.wrap(&ResolvedReference{Handle: ast.NewIdent("UserType"), Kind: RefAlias})
	assert.True(t, NodesEqual(parsed, built))

	other := v.wrap(&ResolvedReference{Handle: ast.NewIdent("UserType"), Kind: RefClass})
	assert.False(t, NodesEqual(parsed, other))
}

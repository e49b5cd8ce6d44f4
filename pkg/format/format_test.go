package format_test

import (
	"strings"
	"testing"

	"github.com/leapstack-labs/valgen/pkg/ast"
	"github.com/leapstack-labs/valgen/pkg/format"
	"github.com/leapstack-labs/valgen/pkg/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, path, src string) *ast.File {
	t.Helper()
	f, err := parser.ParseFile(path, src)
	require.NoError(t, err)
	return f
}

// reprint touches every statement so Source prints them from the tree.
func reprint(f *ast.File) string {
	for _, stmt := range f.Body {
		stmt.Info().Touch()
	}
	return format.Source(f)
}

func TestSourceKeepsUntouchedText(t *testing.T) {
	src := "import   {a}  from \"./a\"  // keep\n\n\ntype   A=number;\n"
	f := parse(t, "a.ts", src)
	assert.Equal(t, src, format.Source(f))
}

func TestSourceReprintsTouchedStatements(t *testing.T) {
	f := parse(t, "a.ts", "import {a} from './a'\n\ntype   A=number\n")
	f.Body[1].Info().Touch()
	assert.Equal(t, "import {a} from './a'\n\ntype A = number\n", format.Source(f))
}

func TestReprintStatements(t *testing.T) {
	tests := []struct {
		name string
		path string
		src  string
		want string
	}{
		{
			name: "imports",
			path: "a.js",
			src:  "import type {A,B as C} from './a'\nimport D, * as ns from './d'\nimport './side'\n",
			want: "import type { A, B as C } from './a'\nimport D, * as ns from './d'\nimport './side'\n",
		},
		{
			name: "exports",
			path: "a.ts",
			src:  "export {a as b,c} from './x';\nexport * as ns from './y';\nexport default  foo;\n",
			want: "export { a as b, c } from './x';\nexport * as ns from './y';\nexport default foo;\n",
		},
		{
			name: "flow object type",
			path: "a.js",
			src:  "type A = {|+a:string,b?:?number|}\ntype B = {a:string,...}\n",
			want: "type A = {| +a: string, b?: ?number |}\ntype B = { a: string, ... }\n",
		},
		{
			name: "typescript object type",
			path: "a.ts",
			src:  "interface I extends J { a: string, readonly b?: number[] }\n",
			want: "interface I extends J { a: string; readonly b?: number[] }\n",
		},
		{
			name: "operand parens",
			path: "a.ts",
			src:  "type A = (string|number)[]\n",
			want: "type A = (string | number)[]\n",
		},
		{
			name: "var decl with call",
			path: "a.ts",
			src:  "const V: T.TypeAlias<A> = t.object({a:t.string(),b:t.ref(()=>BType)})\n",
			want: "const V: T.TypeAlias<A> = t.object({ a: t.string(), b: t.ref(() => BType) })\n",
		},
		{
			name: "raw statements",
			path: "a.ts",
			src:  "function f() {   return 1 }\n",
			want: "function f() {   return 1 }\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := parse(t, tt.path, tt.src)
			assert.Equal(t, tt.want, reprint(f))
		})
	}
}

func TestLongListsBreak(t *testing.T) {
	f := parse(t, "a.ts", "const AType = t.object({ alpha: t.string(), beta: t.number(), gamma: t.boolean(), delta: t.string() })\n")
	want := `const AType = t.object({
  alpha: t.string(),
  beta: t.number(),
  gamma: t.boolean(),
  delta: t.string(),
})
`
	assert.Equal(t, want, reprint(f))
}

func TestLongCallArgsBreakWithoutTrailingComma(t *testing.T) {
	f := parse(t, "a.ts", "const AType = t.oneOf(t.string('aaaaaaaaaaaaaaaa'), t.string('bbbbbbbbbbbbbbbbbb'), t.string('cccccccc'))\n")
	want := `const AType = t.oneOf(
  t.string('aaaaaaaaaaaaaaaa'),
  t.string('bbbbbbbbbbbbbbbbbb'),
  t.string('cccccccc')
)
`
	assert.Equal(t, want, reprint(f))
}

func TestLongUnionBreaks(t *testing.T) {
	f := parse(t, "a.ts", "type A = 'aaaaaaaaaaaaaaaaaaaa' | 'bbbbbbbbbbbbbbbbbbbbbbbb' | 'cccccccccccccccccccccccccc'\n")
	want := `type A =
  | 'aaaaaaaaaaaaaaaaaaaa'
  | 'bbbbbbbbbbbbbbbbbbbbbbbb'
  | 'cccccccccccccccccccccccccc'
`
	assert.Equal(t, want, reprint(f))
}

func TestSemicolonStyle(t *testing.T) {
	f := parse(t, "a.ts", "import a from 'a';\ntype A = number;\ninterface I {}\n")
	assert.Equal(t, "import a from 'a';\ntype A = number;\ninterface I {}\n", reprint(f))
}

func TestQuoteStyleForNewStrings(t *testing.T) {
	e := &ast.ImportDecl{Source: ast.NewString("it's")}
	assert.Equal(t, `import 'it\'s'`, format.Statement(e, format.Options{SingleQuote: true}))
	assert.Equal(t, `import "it's"`, format.Statement(e, format.Options{}))
}

func TestNormalizeIgnoresLayout(t *testing.T) {
	a := parse(t, "a.ts", "// c\nimport {x} from 'x';\n\n\ntype A = {a: string};\n")
	b := parse(t, "a.ts", "// c\nimport { x } from \"x\"\ntype A = {\n  a: string,\n}\n")
	assert.Equal(t, format.Normalize(a), format.Normalize(b))
	assert.True(t, strings.HasPrefix(format.Normalize(a), "// c\n"))
}

func TestExprAndType(t *testing.T) {
	x, err := parser.ParseExpr("t.ref(() => FooType)", ast.TypeScript)
	require.NoError(t, err)
	assert.Equal(t, "t.ref(() => FooType)", format.Expr(x))

	typ, err := parser.ParseType("?Array<{| a: string |}>", ast.Flow)
	require.NoError(t, err)
	assert.Equal(t, "?Array<{| a: string |}>", format.Type(typ))
}

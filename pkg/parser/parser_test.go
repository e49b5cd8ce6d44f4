package parser_test

import (
	"strings"
	"testing"

	"github.com/leapstack-labs/valgen/pkg/ast"
	"github.com/leapstack-labs/valgen/pkg/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// reassemble concatenates the layout text of a parsed file.
func reassemble(f *ast.File) string {
	var sb strings.Builder
	for _, stmt := range f.Body {
		info := stmt.Info()
		sb.WriteString(info.Leading)
		sb.WriteString(info.Raw)
		sb.WriteString(info.Trailing)
	}
	sb.WriteString(f.Tail)
	return sb.String()
}

func parseTS(t *testing.T, src string) *ast.File {
	t.Helper()
	f, err := parser.ParseFile("test.ts", src)
	require.NoError(t, err)
	return f
}

func parseFlow(t *testing.T, src string) *ast.File {
	t.Helper()
	f, err := parser.ParseFile("test.js", src)
	require.NoError(t, err)
	return f
}

// ---------- Layout Tests ----------

func TestLayoutRoundTrip(t *testing.T) {
	sources := []string{
		"",
		"// only a comment\n",
		"import * as t from 'typed-validators'\n\ntype A = number\n",
		"/* header */\nimport {a} from './a'; // trailing\n\n\nconst x = 1;;\n",
		"function f() {\n  return <div>it's</div>\n}\nexport type B = { a: string }\n",
		"if (x)\n  y()\nelse\n  z()\n\nconsole.log(1)\r\nexport default 3\n   \n",
		"class Foo<T> extends Bar<{ a: T }> {\n  x = 1\n}\ntype C = Foo // end",
		"const a = foo(bar,\n  baz)\n  .qux()\nlet b\n",
	}
	for _, src := range sources {
		f := parseTS(t, src)
		assert.Equal(t, src, reassemble(f))
	}
}

func TestLayoutLeadingAndTrailing(t *testing.T) {
	f := parseTS(t, "// lead\ntype A = number // tail\n\ntype B = string\n")
	require.Len(t, f.Body, 2)

	a := f.Body[0].Info()
	assert.Equal(t, "// lead\n", a.Leading)
	assert.Equal(t, "type A = number", a.Raw)
	assert.Equal(t, " // tail", a.Trailing)
	require.Len(t, a.LeadingComments, 1)
	assert.Equal(t, " lead", a.LeadingComments[0].Value())
	require.Len(t, a.TrailingComments, 1)

	b := f.Body[1].Info()
	assert.Equal(t, "\n\n", b.Leading)
	assert.Equal(t, "\n", f.Tail)
}

func TestSemicolonAndQuoteStyle(t *testing.T) {
	f := parseTS(t, "import a from \"a\";\nconst x = 1;\n")
	assert.True(t, f.Semicolons)
	assert.False(t, f.SingleQuote)

	f = parseTS(t, "import a from 'a'\nconst x = 1\n")
	assert.False(t, f.Semicolons)
	assert.True(t, f.SingleQuote)
}

// ---------- Statement Tests ----------

func TestImports(t *testing.T) {
	f := parseFlow(t, `import type { A, B as C } from './a'
import D, { type E, typeof F } from './d'
import * as ns from './ns'
import typeof G from './g'
import type from './type'
import './side-effect'
`)
	require.Len(t, f.Body, 6)

	a := f.Body[0].(*ast.ImportDecl)
	assert.Equal(t, ast.ImportType, a.Kind)
	assert.Equal(t, "./a", a.Source.Value)
	require.Len(t, a.Specifiers, 2)
	spec := a.Specifiers[1].(*ast.ImportSpecifier)
	assert.Equal(t, "B", ast.ModuleName(spec.Imported))
	assert.Equal(t, "C", spec.Local.Name)

	d := f.Body[1].(*ast.ImportDecl)
	assert.Equal(t, ast.ImportValue, d.Kind)
	require.Len(t, d.Specifiers, 3)
	assert.Equal(t, "D", d.Specifiers[0].(*ast.ImportDefaultSpec).Local.Name)
	assert.Equal(t, ast.ImportType, d.Specifiers[1].(*ast.ImportSpecifier).Kind)
	assert.Equal(t, ast.ImportTypeof, d.Specifiers[2].(*ast.ImportSpecifier).Kind)

	ns := f.Body[2].(*ast.ImportDecl)
	assert.Equal(t, "ns", ns.Specifiers[0].(*ast.ImportNamespaceSpec).Local.Name)

	g := f.Body[3].(*ast.ImportDecl)
	assert.Equal(t, ast.ImportTypeof, g.Kind)

	typ := f.Body[4].(*ast.ImportDecl)
	assert.Equal(t, ast.ImportValue, typ.Kind)
	assert.Equal(t, "type", typ.Specifiers[0].(*ast.ImportDefaultSpec).Local.Name)

	side := f.Body[5].(*ast.ImportDecl)
	assert.Empty(t, side.Specifiers)
	assert.Equal(t, "./side-effect", side.Source.Value)
}

func TestExports(t *testing.T) {
	f := parseTS(t, `export type A = number
export { B, C as D } from './b'
export type { E }
export * from './all'
export default class Foo {}
export default F
export function g() { return 1 }
export const h = 1, i = 2
`)
	require.Len(t, f.Body, 8)

	a := f.Body[0].(*ast.ExportNamedDecl)
	assert.IsType(t, &ast.TypeAliasDecl{}, a.Decl)

	b := f.Body[1].(*ast.ExportNamedDecl)
	require.Len(t, b.Specifiers, 2)
	assert.Equal(t, "C", ast.ModuleName(b.Specifiers[1].Local))
	assert.Equal(t, "D", ast.ModuleName(b.Specifiers[1].Exported))
	assert.Equal(t, "./b", b.Source.Value)

	e := f.Body[2].(*ast.ExportNamedDecl)
	assert.Equal(t, ast.ImportType, e.Kind)
	assert.Nil(t, e.Source)

	assert.IsType(t, &ast.ExportAllDecl{}, f.Body[3])

	cls := f.Body[4].(*ast.ExportDefaultDecl)
	assert.Equal(t, "Foo", cls.Decl.(*ast.ClassDecl).Name.Name)

	def := f.Body[5].(*ast.ExportDefaultDecl)
	assert.Equal(t, "F", def.Expr.(*ast.Ident).Name)

	fn := f.Body[6].(*ast.ExportNamedDecl)
	assert.IsType(t, &ast.RawStmt{}, fn.Decl)

	vars := f.Body[7].(*ast.ExportNamedDecl).Decl.(*ast.VarDecl)
	assert.Len(t, vars.Declarators, 2)
}

func TestDeclarations(t *testing.T) {
	f := parseTS(t, `interface Foo<T> extends Bar, ns.Baz {
  a: string;
  b?: number
}
abstract class Qux implements Foo<string> {
  m(): void {}
}
const V: T.TypeAlias<Foo> = null as any
`)
	require.Len(t, f.Body, 3)

	iface := f.Body[0].(*ast.InterfaceDecl)
	assert.Equal(t, "Foo", iface.Name.Name)
	assert.Equal(t, "<T>", iface.TypeParams)
	require.Len(t, iface.Extends, 2)
	name, ok := ast.DottedName(iface.Extends[1].Name)
	require.True(t, ok)
	assert.Equal(t, "ns.Baz", name)
	require.Len(t, iface.Body.Members, 2)
	assert.True(t, iface.Body.Members[1].(*ast.PropertySig).Optional)

	cls := f.Body[1].(*ast.ClassDecl)
	assert.Equal(t, "Qux", cls.Name.Name)

	vd := f.Body[2].(*ast.VarDecl)
	require.Len(t, vd.Declarators, 1)
	d := vd.Declarators[0]
	ref := d.Type.(*ast.TypeRef)
	name, _ = ast.DottedName(ref.Name)
	assert.Equal(t, "T.TypeAlias", name)
	require.Len(t, ref.TypeArgs, 1)
	as := d.Init.(*ast.AsExpr)
	assert.IsType(t, &ast.NullLit{}, as.X)
}

func TestRawStatements(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		count int
	}{
		{"function declaration", "function f() {\n  return 1\n}\ntype A = number\n", 2},
		{"if else chain", "if (a) {\n} else {\n}\ntype A = number\n", 2},
		{"continued expression", "foo\n  .bar()\n  .baz()\ntype A = number\n", 2},
		{"jsx", "render(<div className=\"x\">don't</div>)\ntype A = number\n", 2},
		{"destructuring", "const { a, b } = obj\ntype A = number\n", 2},
		{"stray closer", "}\ntype A = number\n", 2},
		{"declare", "declare const x: Foo<T>\ntype A = number\n", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := parseTS(t, tt.src)
			require.Len(t, f.Body, tt.count)
			assert.IsType(t, &ast.TypeAliasDecl{}, f.Body[len(f.Body)-1])
			assert.Equal(t, tt.src, reassemble(f))
		})
	}
}

func TestUnterminatedStringIsTolerated(t *testing.T) {
	f := parseTS(t, "const el = <p>it's here</p>\ntype A = number\n")
	assert.IsType(t, &ast.TypeAliasDecl{}, f.Body[len(f.Body)-1])
}

func TestUnterminatedCommentFails(t *testing.T) {
	_, err := parser.ParseFile("bad.ts", "type A = number /* oops")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.ts")
}

// ---------- Expression Tests ----------

func TestParseExpr(t *testing.T) {
	x, err := parser.ParseExpr(`t.object<Foo>({ a: t.string(), 'b-c': [1, -2], [k]: v, d })`, ast.TypeScript)
	require.NoError(t, err)

	call := x.(*ast.CallExpr)
	name, ok := ast.DottedName(call.Fun)
	require.True(t, ok)
	assert.Equal(t, "t.object", name)
	require.Len(t, call.TypeArgs, 1)
	obj := call.Args[0].(*ast.ObjectExpr)
	require.Len(t, obj.Props, 4)
	assert.Equal(t, "b-c", obj.Props[1].(*ast.Property).Key.(*ast.StringLit).Value)
	assert.True(t, obj.Props[2].(*ast.Property).Computed)
	assert.True(t, obj.Props[3].(*ast.Property).Shorthand)
}

func TestParseExprArrowAndCast(t *testing.T) {
	x, err := parser.ParseExpr(`t.ref(() => FooType)`, ast.TypeScript)
	require.NoError(t, err)
	arrow := x.(*ast.CallExpr).Args[0].(*ast.ArrowFunc)
	assert.Empty(t, arrow.Params)
	assert.Equal(t, "FooType", arrow.Body.(*ast.Ident).Name)

	x, err = parser.ParseExpr(`(reify: Type<Foo>)`, ast.Flow)
	require.NoError(t, err)
	cast := x.(*ast.TypeCastExpr)
	assert.Equal(t, "reify", cast.X.(*ast.Ident).Name)
}

func TestRawExprFallback(t *testing.T) {
	f := parseTS(t, "const x = a ? b : c, y = 2\n")
	vd := f.Body[0].(*ast.VarDecl)
	require.Len(t, vd.Declarators, 2)
	raw := vd.Declarators[0].Init.(*ast.RawExpr)
	assert.Equal(t, "a ? b : c", raw.Text)
}

func TestUnquote(t *testing.T) {
	tests := map[string]string{
		`'plain'`:     "plain",
		`"a\nb"`:      "a\nb",
		`'it\'s'`:     "it's",
		`"\x41B"`: "AB",
		`"\u{1F600}"`: "\U0001F600",
		`'\q'`:        "q",
	}
	for raw, want := range tests {
		assert.Equal(t, want, parser.Unquote(raw), raw)
	}
}

// ---------- Type Tests ----------

func TestParseTypeShapes(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want any
	}{
		{"keyword", "mixed", &ast.KeywordType{}},
		{"void", "void", &ast.KeywordType{}},
		{"string literal", "'a'", &ast.LiteralType{}},
		{"negative number", "-1", &ast.LiteralType{}},
		{"nullable", "?string", &ast.NullableType{}},
		{"array", "string[]", &ast.ArrayType{}},
		{"readonly", "readonly string[]", &ast.OperatorType{}},
		{"tuple", "[number, string]", &ast.TupleType{}},
		{"union", "| 'a' | 'b'", &ast.UnionType{}},
		{"intersection", "A & B", &ast.IntersectionType{}},
		{"ref", "Array<string>", &ast.TypeRef{}},
		{"qualified", "ns.Foo", &ast.TypeRef{}},
		{"function", "(a: string) => void", &ast.FunctionType{}},
		{"parenthesized", "(A | B)", &ast.UnionType{}},
		{"object", "{ a: string }", &ast.ObjectType{}},
		{"exact object", "{| a: string |}", &ast.ObjectType{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			typ, err := parser.ParseType(tt.src, ast.Flow)
			require.NoError(t, err)
			assert.IsType(t, tt.want, typ)
		})
	}
}

func TestParseTypeNamedTuple(t *testing.T) {
	typ, err := parser.ParseType("[a: number, b?: string]", ast.TypeScript)
	require.NoError(t, err)
	tt := typ.(*ast.TupleType)
	require.Len(t, tt.Elems, 2)
	m := tt.Elems[1].(*ast.NamedTupleMember)
	assert.Equal(t, "b", m.Name.Name)
	assert.True(t, m.Optional)
}

func TestParseTypeEmptyTypeArgs(t *testing.T) {
	typ, err := parser.ParseType("Foo<>", ast.TypeScript)
	require.NoError(t, err)
	ref := typ.(*ast.TypeRef)
	assert.NotNil(t, ref.TypeArgs)
	assert.Empty(t, ref.TypeArgs)

	typ, err = parser.ParseType("Foo", ast.TypeScript)
	require.NoError(t, err)
	assert.Nil(t, typ.(*ast.TypeRef).TypeArgs)
}

func TestObjectTypeMembers(t *testing.T) {
	typ, err := parser.ParseType(`{
  +a: string,
  -b?: number,
  ...Base,
  [key: string]: number,
  method(): void,
  ...
}`, ast.Flow)
	require.NoError(t, err)
	ot := typ.(*ast.ObjectType)
	assert.True(t, ot.Inexact)
	require.Len(t, ot.Members, 5)

	a := ot.Members[0].(*ast.PropertySig)
	assert.Equal(t, "+", a.Variance)
	b := ot.Members[1].(*ast.PropertySig)
	assert.Equal(t, "-", b.Variance)
	assert.True(t, b.Optional)
	assert.IsType(t, &ast.SpreadMember{}, ot.Members[2])
	idx := ot.Members[3].(*ast.IndexSig)
	assert.Equal(t, "key", idx.KeyName.Name)
	method := ot.Members[4].(*ast.MethodSig)
	assert.Equal(t, "method(): void", method.Text)
}

func TestBracketMemberByDialect(t *testing.T) {
	typ, err := parser.ParseType("{ [foo]: string }", ast.TypeScript)
	require.NoError(t, err)
	prop := typ.(*ast.ObjectType).Members[0].(*ast.PropertySig)
	assert.True(t, prop.Computed)
	assert.Equal(t, "foo", prop.Key.(*ast.Ident).Name)

	typ, err = parser.ParseType("{ [string]: number }", ast.Flow)
	require.NoError(t, err)
	idx := typ.(*ast.ObjectType).Members[0].(*ast.IndexSig)
	assert.Nil(t, idx.KeyName)
	assert.Equal(t, "string", idx.Key.(*ast.KeywordType).Name)
}

func TestMissingAnnotation(t *testing.T) {
	typ, err := parser.ParseType("{ a }", ast.TypeScript)
	require.NoError(t, err)
	assert.Nil(t, typ.(*ast.ObjectType).Members[0].(*ast.PropertySig).Value)
}

func TestUnsupportedTypesFail(t *testing.T) {
	for _, src := range []string{
		"{ [K in Keys]: string }",
		"Foo['bar']",
		"A extends B ? C : D",
	} {
		_, err := parser.ParseType(src, ast.TypeScript)
		assert.Error(t, err, src)
	}
}

func TestDialectFor(t *testing.T) {
	assert.Equal(t, ast.TypeScript, parser.DialectFor("a/b.tsx"))
	assert.Equal(t, ast.TypeScript, parser.DialectFor("a/b.mts"))
	assert.Equal(t, ast.Flow, parser.DialectFor("a/b.js"))
	assert.Equal(t, ast.Flow, parser.DialectFor("a/b.jsx"))
}

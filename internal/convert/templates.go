package convert

import (
	"github.com/leapstack-labs/valgen/pkg/ast"
)

// validators builds typed-validators construction expressions that refer to
// the library through the namespace identifier ns.
type validators struct {
	ns string
}

func (v validators) call(fn string, args ...ast.Expr) *ast.CallExpr {
	return ast.Call(ast.Select(ast.NewIdent(v.ns), fn), args...)
}

// keyword builds T.name().
func (v validators) keyword(name string) ast.Expr {
	return v.call(name)
}

// literal builds T.number<2>(2), T.string<'a'>('a') or T.boolean<true>(true).
// The type argument lets the type checker compare the validator's inferred
// type with the declared literal type.
func (v validators) literal(lit ast.Expr) (ast.Expr, bool) {
	var fn string
	switch lit.(type) {
	case *ast.NumberLit:
		fn = "number"
	case *ast.StringLit:
		fn = "string"
	case *ast.BoolLit:
		fn = "boolean"
	default:
		return nil, false
	}
	c := v.call(fn, cloneLiteral(lit))
	c.TypeArgs = []ast.Type{&ast.LiteralType{Lit: cloneLiteral(lit)}}
	return c, true
}

func cloneLiteral(lit ast.Expr) ast.Expr {
	switch l := lit.(type) {
	case *ast.NumberLit:
		return &ast.NumberLit{Raw: l.Raw}
	case *ast.StringLit:
		return ast.NewString(l.Value)
	case *ast.BoolLit:
		return &ast.BoolLit{Value: l.Value}
	}
	return lit
}

// lazy builds () => handle.
func lazy(handle ast.Expr) *ast.ArrowFunc {
	return &ast.ArrowFunc{Body: cloneHandle(handle)}
}

// wrap turns a resolved reference into the expression that validates it.
func (v validators) wrap(ref *ResolvedReference) ast.Expr {
	switch ref.Kind {
	case RefClass:
		return v.call("instanceOf", lazy(ref.Handle))
	case RefAlias:
		return v.call("ref", lazy(ref.Handle))
	}
	return v.keyword("any")
}

// alias builds T.alias('Name', body).
func (v validators) alias(name string, body ast.Expr) ast.Expr {
	return v.call("alias", ast.NewString(name), body)
}

// aliasType builds the annotation T.TypeAlias<Name>.
func (v validators) aliasType(name string) ast.Type {
	return &ast.TypeRef{
		Name:     ast.Select(ast.NewIdent(v.ns), "TypeAlias"),
		TypeArgs: []ast.Type{&ast.TypeRef{Name: ast.NewIdent(name)}},
	}
}

// aliasDecl builds const ID: T.TypeAlias<Name> = T.alias('Name', body).
func (v validators) aliasDecl(id, name string, body ast.Expr) *ast.VarDecl {
	return &ast.VarDecl{
		Kind: "const",
		Declarators: []*ast.VarDeclarator{{
			Name: ast.NewIdent(id),
			Type: v.aliasType(name),
			Init: v.alias(name, body),
		}},
	}
}

// object builds T.object({...}) from an object literal.
func (v validators) object(props *ast.ObjectExpr) ast.Expr {
	return v.call("object", props)
}

// cloneHandle copies a reference handle so every use site owns its nodes.
func cloneHandle(e ast.Expr) ast.Expr {
	switch e := e.(type) {
	case *ast.Ident:
		return ast.NewIdent(e.Name)
	case *ast.MemberExpr:
		return &ast.MemberExpr{X: cloneHandle(e.X), Name: ast.NewIdent(e.Name.Name)}
	case *ast.StringLit:
		return ast.NewString(e.Value)
	}
	return e
}

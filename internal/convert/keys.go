package convert

import (
	"github.com/leapstack-labs/valgen/pkg/ast"
)

// referencesEqual reports whether two reference nodes name the same thing.
// Identifiers and string keys compare by name, qualified names compare
// segment by segment.
func referencesEqual(a, b ast.Expr) bool {
	switch a := a.(type) {
	case *ast.Ident, *ast.StringLit:
		name, ok := keyName(b)
		return ok && isPlainKey(b) && name == ast.ModuleName(a)
	case *ast.MemberExpr:
		bm, ok := b.(*ast.MemberExpr)
		return ok && a.Name.Name == bm.Name.Name && referencesEqual(a.X, bm.X)
	}
	return false
}

func isPlainKey(e ast.Expr) bool {
	switch e.(type) {
	case *ast.Ident, *ast.StringLit:
		return true
	}
	return false
}

// keyName returns the property name an identifier, string or number key
// stands for.
func keyName(e ast.Expr) (string, bool) {
	switch e := e.(type) {
	case *ast.Ident:
		return e.Name, true
	case *ast.StringLit:
		return e.Value, true
	case *ast.NumberLit:
		return e.Raw, true
	}
	return "", false
}

// convertKey copies a property key for use in a generated object literal.
// Identifiers and literals are kept as written; computed keys must be an
// identifier, a member expression or a literal.
func (f *File) convertKey(key ast.Expr, computed bool) (ast.Expr, error) {
	switch k := key.(type) {
	case *ast.Ident:
		return ast.NewIdent(k.Name), nil
	case *ast.StringLit:
		return ast.NewString(k.Value), nil
	case *ast.NumberLit:
		return &ast.NumberLit{Raw: k.Raw}, nil
	case *ast.MemberExpr:
		if computed {
			if _, ok := ast.DottedName(k); ok {
				return cloneHandle(k), nil
			}
		}
	}
	return nil, f.nodeError(key, ErrUnsupportedKey)
}

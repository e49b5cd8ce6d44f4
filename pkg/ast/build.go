package ast

import "strings"

// NewIdent returns a synthesized identifier.
func NewIdent(name string) *Ident {
	return &Ident{Name: name}
}

// NewString returns a synthesized string literal.
func NewString(value string) *StringLit {
	return &StringLit{Value: value}
}

// Select builds the member chain x.names[0].names[1]...
func Select(x Expr, names ...string) Expr {
	for _, n := range names {
		x = &MemberExpr{X: x, Name: NewIdent(n)}
	}
	return x
}

// Call builds fun(args...).
func Call(fun Expr, args ...Expr) *CallExpr {
	return &CallExpr{Fun: fun, Args: args}
}

// DottedName returns "a.b.c" for an identifier or member chain of identifiers.
func DottedName(e Expr) (string, bool) {
	switch e := e.(type) {
	case *Ident:
		return e.Name, true
	case *MemberExpr:
		left, ok := DottedName(e.X)
		if !ok {
			return "", false
		}
		return left + "." + e.Name.Name, true
	}
	return "", false
}

// FromDottedName is the inverse of DottedName.
func FromDottedName(name string) Expr {
	parts := strings.Split(name, ".")
	return Select(NewIdent(parts[0]), parts[1:]...)
}

// ModuleName returns the name an import or export specifier refers to. It
// accepts identifiers and string literals (`export { x as "a-b" }`).
func ModuleName(e Expr) string {
	switch e := e.(type) {
	case *Ident:
		return e.Name
	case *StringLit:
		return e.Value
	}
	return ""
}

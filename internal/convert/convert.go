package convert

import (
	"context"

	"github.com/leapstack-labs/valgen/pkg/ast"
)

// RefKind tells how a resolved type reference is validated.
type RefKind int

// Reference kinds.
const (
	// RefClass references are checked with instanceOf.
	RefClass RefKind = iota + 1
	// RefAlias references point at a generated validator through ref.
	RefAlias
	// RefAny references could not or should not be followed.
	RefAny
)

func (k RefKind) String() string {
	switch k {
	case RefClass:
		return "class"
	case RefAlias:
		return "alias"
	case RefAny:
		return "any"
	}
	return "unknown"
}

// ResolvedReference is the result of resolving a type reference.
type ResolvedReference struct {
	// Handle names the class or validator from the requesting file: an
	// *ast.Ident, a qualified *ast.MemberExpr or an *ast.StringLit. It is
	// nil for RefAny.
	Handle ast.Expr
	Kind   RefKind
	// Inexact is set for aliases whose object body tolerates extra keys.
	Inexact bool
}

var keywordValidators = map[string]string{
	"any":       "any",
	"unknown":   "unknown",
	"mixed":     "unknown",
	"void":      "undefined",
	"undefined": "undefined",
	"null":      "null",
	"number":    "number",
	"string":    "string",
	"boolean":   "boolean",
	"symbol":    "symbol",
}

// convert builds the validator expression for a type.
func (f *File) convert(ctx context.Context, t ast.Type) (ast.Expr, error) {
	switch t := t.(type) {
	case *ast.KeywordType:
		if name, ok := keywordValidators[t.Name]; ok {
			return f.validators().keyword(name), nil
		}
	case *ast.LiteralType:
		if e, ok := f.validators().literal(t.Lit); ok {
			return e, nil
		}
	case *ast.NullableType:
		elem, err := f.convert(ctx, t.Elem)
		if err != nil {
			return nil, err
		}
		return f.validators().call("nullishOr", elem), nil
	case *ast.ArrayType:
		elem, err := f.convert(ctx, t.Elem)
		if err != nil {
			return nil, err
		}
		return f.validators().call("array", elem), nil
	case *ast.OperatorType:
		return f.convertOperator(ctx, t)
	case *ast.TupleType:
		elems, err := f.convertAll(ctx, t.Elems)
		if err != nil {
			return nil, err
		}
		return f.validators().call("tuple", elems...), nil
	case *ast.NamedTupleMember:
		return f.convert(ctx, t.Elem)
	case *ast.UnionType:
		types, err := f.convertAll(ctx, t.Types)
		if err != nil {
			return nil, err
		}
		return f.validators().call("oneOf", types...), nil
	case *ast.IntersectionType:
		types, err := f.convertAll(ctx, t.Types)
		if err != nil {
			return nil, err
		}
		return f.validators().call("allOf", types...), nil
	case *ast.ObjectType:
		e, _, err := f.convertObject(ctx, t, nil, false)
		return e, err
	case *ast.TypeRef:
		if f.isUtility(t) {
			return f.convertUtility(ctx, t)
		}
		ref, err := f.convertTypeReference(ctx, t.Name)
		if err != nil {
			return nil, err
		}
		return f.validators().wrap(ref), nil
	}
	return nil, f.unsupported(t, ErrUnsupportedType)
}

func (f *File) convertAll(ctx context.Context, types []ast.Type) ([]ast.Expr, error) {
	out := make([]ast.Expr, 0, len(types))
	for _, t := range types {
		e, err := f.convert(ctx, t)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

// convertOperator handles `readonly X[]` and `readonly X`.
func (f *File) convertOperator(ctx context.Context, t *ast.OperatorType) (ast.Expr, error) {
	if t.Op != "readonly" {
		return nil, f.unsupported(t, ErrUnsupportedType)
	}
	if arr, ok := t.Elem.(*ast.ArrayType); ok {
		elem, err := f.convert(ctx, arr.Elem)
		if err != nil {
			return nil, err
		}
		return f.validators().call("readonlyArray", elem), nil
	}
	elem, err := f.convert(ctx, t.Elem)
	if err != nil {
		return nil, err
	}
	return f.validators().call("readonly", elem), nil
}

package convert

import (
	"context"

	"github.com/leapstack-labs/valgen/pkg/ast"
)

type utility struct {
	fn    string // validator combinator, "" for the identity
	arity int
}

var flowUtilities = map[string]utility{
	"Array":          {fn: "array", arity: 1},
	"$ReadOnlyArray": {fn: "readonlyArray", arity: 1},
	"$ReadOnly":      {fn: "readonly", arity: 1},
	"$Exact":         {arity: 1},
}

var tsUtilities = map[string]utility{
	"Array":         {fn: "array", arity: 1},
	"ReadonlyArray": {fn: "readonlyArray", arity: 1},
	"Readonly":      {fn: "readonly", arity: 1},
	"Record":        {fn: "record", arity: 2},
}

func (f *File) utilityFor(t *ast.TypeRef) (utility, bool) {
	name, ok := t.Name.(*ast.Ident)
	if !ok {
		return utility{}, false
	}
	table := tsUtilities
	if f.Dialect == ast.Flow {
		table = flowUtilities
	}
	u, ok := table[name.Name]
	return u, ok
}

// isUtility reports whether t names a builtin generic converted
// structurally rather than resolved.
func (f *File) isUtility(t *ast.TypeRef) bool {
	_, ok := f.utilityFor(t)
	return ok
}

func (f *File) convertUtility(ctx context.Context, t *ast.TypeRef) (ast.Expr, error) {
	u, _ := f.utilityFor(t)
	if len(t.TypeArgs) != u.arity {
		return nil, f.nodeError(t, ErrMissingTypeParams)
	}
	args, err := f.convertAll(ctx, t.TypeArgs)
	if err != nil {
		return nil, err
	}
	if u.fn == "" {
		return args[0], nil
	}
	return f.validators().call(u.fn, args...), nil
}

// exactArgument unwraps Flow's $Exact<X> to X.
func (f *File) exactArgument(t ast.Type) ast.Type {
	ref, ok := t.(*ast.TypeRef)
	if !ok || f.Dialect != ast.Flow || len(ref.TypeArgs) != 1 {
		return t
	}
	if name, ok := ref.Name.(*ast.Ident); ok && name.Name == "$Exact" {
		return ref.TypeArgs[0]
	}
	return t
}

package convert

import (
	"context"

	"github.com/leapstack-labs/valgen/pkg/ast"
)

// objectMembers is an object body split by member kind.
type objectMembers struct {
	props    []*ast.PropertySig
	indexers []*ast.IndexSig
	spreads  []ast.Type
	// marker is set when a TypeScript `[k: string]: any` indexer next to
	// declared properties marks the object inexact.
	marker bool
}

func (f *File) partition(obj *ast.ObjectType) (*objectMembers, error) {
	m := &objectMembers{}
	for _, member := range obj.Members {
		switch mem := member.(type) {
		case *ast.PropertySig:
			if mem.Value == nil {
				return nil, f.nodeError(mem, ErrMissingAnnotation)
			}
			m.props = append(m.props, mem)
		case *ast.IndexSig:
			m.indexers = append(m.indexers, mem)
		case *ast.SpreadMember:
			m.spreads = append(m.spreads, mem.Type)
		default:
			return nil, f.unsupported(member, ErrUnsupportedProperty)
		}
	}

	if f.Dialect == ast.TypeScript && len(m.props) > 0 {
		for i, ix := range m.indexers {
			if isInexactIndexer(ix) {
				m.marker = true
				m.indexers = append(m.indexers[:i:i], m.indexers[i+1:]...)
				break
			}
		}
	}
	return m, nil
}

// isInexactIndexer matches `[k: string]: any`, also keyed by any or
// string | symbol.
func isInexactIndexer(ix *ast.IndexSig) bool {
	if !isKeyword(ix.Value, "any") {
		return false
	}
	switch key := ix.Key.(type) {
	case *ast.KeywordType:
		return key.Name == "any" || key.Name == "string"
	case *ast.UnionType:
		if len(key.Types) != 2 {
			return false
		}
		return (isKeyword(key.Types[0], "string") && isKeyword(key.Types[1], "symbol")) ||
			(isKeyword(key.Types[0], "symbol") && isKeyword(key.Types[1], "string"))
	}
	return false
}

func isKeyword(t ast.Type, name string) bool {
	k, ok := t.(*ast.KeywordType)
	return ok && k.Name == name
}

// ownInexact reports whether an object body itself admits extra keys,
// ignoring what its spreads contribute.
func (f *File) ownInexact(obj *ast.ObjectType) bool {
	switch {
	case obj.Exact:
		return false
	case obj.Inexact:
		return true
	}
	if f.Dialect == ast.TypeScript {
		props := 0
		var marker bool
		for _, member := range obj.Members {
			switch mem := member.(type) {
			case *ast.PropertySig:
				props++
			case *ast.IndexSig:
				marker = marker || isInexactIndexer(mem)
			}
		}
		if props > 0 && marker {
			return true
		}
	}
	return !f.config().DefaultExact
}

// convertObject converts an object type or interface body. extends are the
// interface's heritage types; forceInexact merges them with mergeInexact.
// It also reports whether the resulting shape is inexact.
func (f *File) convertObject(ctx context.Context, obj *ast.ObjectType, extends []ast.Type, forceInexact bool) (ast.Expr, bool, error) {
	m, err := f.partition(obj)
	if err != nil {
		return nil, false, err
	}

	if len(m.props) == 0 && len(m.indexers) == 1 {
		return f.convertRecord(ctx, m.indexers[0])
	}
	switch {
	case len(m.indexers) > 1:
		return nil, false, f.nodeError(m.indexers[1], ErrMultipleIndexers)
	case len(m.indexers) == 1:
		return nil, false, f.nodeError(m.indexers[0], ErrMixedIndexers)
	}

	var required, optional []ast.ObjectProp
	for _, p := range m.props {
		key, err := f.convertKey(p.Key, p.Computed)
		if err != nil {
			return nil, false, err
		}
		value, err := f.convert(ctx, p.Value)
		if err != nil {
			return nil, false, err
		}
		prop := &ast.Property{Key: key, Computed: p.Computed, Value: value}
		if p.Optional {
			optional = append(optional, prop)
		} else {
			required = append(required, prop)
		}
	}

	exact := !f.ownInexact(obj)
	v := f.validators()
	var body ast.Expr
	if exact && len(optional) == 0 {
		body = v.object(&ast.ObjectExpr{Props: required})
	} else {
		var props []ast.ObjectProp
		if !exact {
			props = append(props, &ast.Property{Key: ast.NewIdent("exact"), Value: &ast.BoolLit{Value: false}})
		}
		if len(required) > 0 {
			props = append(props, &ast.Property{Key: ast.NewIdent("required"), Value: &ast.ObjectExpr{Props: required}})
		}
		if len(optional) > 0 {
			props = append(props, &ast.Property{Key: ast.NewIdent("optional"), Value: &ast.ObjectExpr{Props: optional}})
		}
		body = v.object(&ast.ObjectExpr{Props: props})
	}

	pieces := append(append([]ast.Type(nil), extends...), m.spreads...)
	if len(pieces) == 0 {
		return body, !exact, nil
	}

	inexact := !exact || forceInexact
	var merged []ast.Expr
	for _, piece := range pieces {
		e, pieceInexact, err := f.convertPiece(ctx, piece)
		if err != nil {
			return nil, false, err
		}
		merged = append(merged, e)
		inexact = inexact || pieceInexact
	}
	if len(m.props) > 0 {
		merged = append(merged, body)
	}
	if inexact {
		return v.call("mergeInexact", merged...), true, nil
	}
	return v.call("merge", merged...), false, nil
}

// convertPiece converts a spread or extended type and reports whether it
// is inexact.
func (f *File) convertPiece(ctx context.Context, t ast.Type) (ast.Expr, bool, error) {
	t = f.exactArgument(t)
	switch t := t.(type) {
	case *ast.ObjectType:
		return f.convertObject(ctx, t, nil, false)
	case *ast.TypeRef:
		if f.isUtility(t) {
			break
		}
		ref, err := f.convertTypeReference(ctx, t.Name)
		if err != nil {
			return nil, false, err
		}
		return f.validators().wrap(ref), ref.Inexact, nil
	}
	e, err := f.convert(ctx, t)
	return e, false, err
}

func (f *File) convertRecord(ctx context.Context, ix *ast.IndexSig) (ast.Expr, bool, error) {
	key, err := f.convert(ctx, ix.Key)
	if err != nil {
		return nil, false, err
	}
	value, err := f.convert(ctx, ix.Value)
	if err != nil {
		return nil, false, err
	}
	return f.validators().call("record", key, value), false, nil
}

// convertInterface converts an interface declaration: its body merged with
// the interfaces it extends. Flow interfaces are inexact, so their
// heritage always merges with mergeInexact.
func (f *File) convertInterface(ctx context.Context, decl *ast.InterfaceDecl) (ast.Expr, bool, error) {
	extends := make([]ast.Type, len(decl.Extends))
	for i, ref := range decl.Extends {
		extends[i] = ref
	}
	return f.convertObject(ctx, decl.Body, extends, f.Dialect == ast.Flow && len(extends) > 0)
}

package convert

import (
	"context"
	"regexp"

	"github.com/leapstack-labs/valgen/pkg/ast"
	"github.com/leapstack-labs/valgen/pkg/token"
)

// overridePattern matches `@gen-typed-validators type: Name` comments.
var overridePattern = regexp.MustCompile(`^\s*@gen-typed-validators\s+type:\s+([_a-zA-Z][_a-zA-Z0-9]*)`)

// convertTypeReference resolves a type name, an *ast.Ident or a qualified
// *ast.MemberExpr. Results are cached per name node.
func (f *File) convertTypeReference(ctx context.Context, name ast.Expr) (*ResolvedReference, error) {
	if ref, ok := f.cache[name]; ok {
		return ref, nil
	}
	var ref *ResolvedReference
	var err error
	switch n := name.(type) {
	case *ast.Ident:
		ref, err = f.resolveIdent(ctx, n)
	case *ast.MemberExpr:
		ref, err = f.resolveQualified(ctx, n)
	default:
		err = f.nodeError(name, ErrUnsupportedType)
	}
	if err != nil {
		return nil, err
	}
	f.cache[name] = ref
	return ref, nil
}

func (f *File) resolveIdent(ctx context.Context, id *ast.Ident) (*ResolvedReference, error) {
	b := f.scope.LookupType(id.Name)
	if b == nil {
		if isBuiltinClass(id.Name) {
			return &ResolvedReference{Handle: ast.NewIdent(id.Name), Kind: RefClass}, nil
		}
		return nil, f.nodeError(id, ErrNotBound, id.Name)
	}
	return f.resolveBinding(ctx, b)
}

func (f *File) resolveBinding(ctx context.Context, b *ast.Binding) (*ResolvedReference, error) {
	switch b.Kind {
	case ast.BindClass:
		return &ResolvedReference{Handle: ast.NewIdent(b.Name), Kind: RefClass}, nil
	case ast.BindTypeAlias, ast.BindInterface:
		return f.declareValidator(ctx, b)
	case ast.BindImport:
		return f.resolveImport(ctx, b)
	}
	return nil, f.nodeError(b.Node, ErrUnsupportedType)
}

// override returns the name from an override directive above a declaration.
func override(b *ast.Binding) string {
	var comments []*token.Comment
	comments = append(comments, b.Stmt.Info().LeadingComments...)
	if stmt, ok := b.Node.(ast.Statement); ok && stmt != b.Stmt {
		comments = append(comments, stmt.Info().LeadingComments...)
	}
	name := ""
	for _, c := range comments {
		if m := overridePattern.FindStringSubmatch(c.Value()); m != nil {
			name = m[1]
		}
	}
	return name
}

// declareValidator makes sure a type alias or interface has a validator
// declaration and returns a reference to it. The first call synthesizes the
// declaration; the cache entry is reserved before the body is converted so
// recursive types refer back to the validator being built.
func (f *File) declareValidator(ctx context.Context, b *ast.Binding) (*ResolvedReference, error) {
	if ref, ok := f.cache[b.Node]; ok {
		return ref, nil
	}

	if name := override(b); name != "" {
		var ref *ResolvedReference
		if name == "any" {
			ref = &ResolvedReference{Kind: RefAny}
		} else {
			id := &ast.Ident{NodeInfo: ast.NodeInfo{Span: b.Node.GetSpan()}, Name: name}
			var err error
			if ref, err = f.resolveIdent(ctx, id); err != nil {
				return nil, err
			}
		}
		f.cache[b.Node] = ref
		return ref, nil
	}

	var typeParams string
	var inexact bool
	switch d := b.Node.(type) {
	case *ast.TypeAliasDecl:
		typeParams = d.TypeParams
		if obj, ok := d.Type.(*ast.ObjectType); ok {
			inexact = f.ownInexact(obj)
		}
	case *ast.InterfaceDecl:
		typeParams = d.TypeParams
		inexact = f.ownInexact(d.Body) || (f.Dialect == ast.Flow && len(d.Extends) > 0)
	}
	if typeParams != "" {
		return nil, f.unsupported(b.Node, ErrParameterized)
	}

	id, err := f.validatorName(b.Node, b.Name)
	if err != nil {
		return nil, err
	}
	if err := f.checkNamespace(); err != nil {
		return nil, err
	}
	ref := &ResolvedReference{Handle: ast.NewIdent(id), Kind: RefAlias, Inexact: inexact}
	f.cache[b.Node] = ref

	body, err := f.convertDeclBody(ctx, b.Node)
	if err != nil {
		delete(f.cache, b.Node)
		return nil, err
	}

	v := f.validators()
	if existing := f.scope.LookupValue(id); existing != nil && existing.Kind == ast.BindVar {
		d := existing.Node.(*ast.VarDeclarator)
		f.replaceDeclarator(d, v.aliasType(b.Name), v.alias(b.Name, body), existing.Stmt)
		return ref, nil
	}

	var stmt ast.Statement = v.aliasDecl(id, b.Name, body)
	if _, ok := b.Stmt.(*ast.ExportNamedDecl); ok {
		stmt = &ast.ExportNamedDecl{Decl: stmt}
	}
	f.logger.Debug("declaring validator", "type", b.Name, "validator", id)
	f.insertAfter(b.Stmt, stmt)
	return ref, nil
}

func (f *File) convertDeclBody(ctx context.Context, decl ast.Node) (ast.Expr, error) {
	switch d := decl.(type) {
	case *ast.TypeAliasDecl:
		return f.convert(ctx, d.Type)
	case *ast.InterfaceDecl:
		e, _, err := f.convertInterface(ctx, d)
		return e, err
	}
	return nil, f.nodeError(decl, ErrUnsupportedType)
}

// resolveQualified resolves ns.Name where ns is a namespace import of a
// local module.
func (f *File) resolveQualified(ctx context.Context, name *ast.MemberExpr) (*ResolvedReference, error) {
	ns, ok := name.X.(*ast.Ident)
	if !ok {
		return nil, f.nodeError(name, ErrQualifiedName)
	}
	b := f.scope.LookupType(ns.Name)
	if b == nil || b.Kind != ast.BindImport {
		return nil, f.nodeError(name, ErrQualifiedName)
	}
	if _, ok := b.Node.(*ast.ImportNamespaceSpec); !ok {
		return nil, f.nodeError(name, ErrQualifiedName)
	}
	decl := b.Decl.(*ast.ImportDecl)
	if !isRelative(decl.Source.Value) {
		f.logger.Warn("import from dependencies will be typed as any", "source", decl.Source.Value)
		return &ResolvedReference{Kind: RefAny}, nil
	}

	other, err := f.importedFile(ctx, decl.Source)
	if err != nil {
		return nil, err
	}
	exported, err := other.convertExport(ctx, name.Name.Name)
	if err != nil {
		return nil, err
	}

	ref := &ResolvedReference{Kind: exported.Kind, Inexact: exported.Inexact}
	switch exported.Kind {
	case RefAny:
		return ref, nil
	case RefClass:
		ref.Handle = ast.Select(ast.NewIdent(ns.Name), name.Name.Name)
	default:
		ref.Handle = ast.Select(ast.NewIdent(ns.Name), ast.ModuleName(exported.Handle))
	}
	if decl.Kind != ast.ImportValue {
		decl.Kind = ast.ImportValue
		f.markChanged(b.Stmt)
	}
	return ref, nil
}

package convert

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/leapstack-labs/valgen/pkg/ast"
)

// convertExport resolves the declaration behind an export of this file.
// Exports that resolve to a generated validator get a companion named
// export, so the validator is importable the same way as the type.
func (f *File) convertExport(ctx context.Context, name string) (*ResolvedReference, error) {
	if name == "*" {
		return nil, f.nodeError(nil, ErrExportAll)
	}
	for _, stmt := range f.Working.Body {
		switch s := stmt.(type) {
		case *ast.ExportDefaultDecl:
			if name == "default" {
				return f.convertDefaultExport(ctx, s)
			}
		case *ast.ExportNamedDecl:
			if s.Decl != nil {
				if b := declBinding(s.Decl, s); b != nil && b.Name == name {
					return f.resolveBinding(ctx, b)
				}
				continue
			}
			for _, spec := range s.Specifiers {
				if ast.ModuleName(spec.Exported) == name {
					return f.convertExportSpecifier(ctx, s, spec)
				}
			}
		}
	}
	return nil, errors.Newf(ErrExportNotFound, name, f.Path)
}

// declBinding describes a declaration the way a scope lookup would.
func declBinding(decl, top ast.Statement) *ast.Binding {
	switch d := decl.(type) {
	case *ast.TypeAliasDecl:
		return &ast.Binding{Kind: ast.BindTypeAlias, Name: d.Name.Name, Node: d, Stmt: top}
	case *ast.InterfaceDecl:
		return &ast.Binding{Kind: ast.BindInterface, Name: d.Name.Name, Node: d, Stmt: top}
	case *ast.ClassDecl:
		if d.Name != nil {
			return &ast.Binding{Kind: ast.BindClass, Name: d.Name.Name, Node: d, Stmt: top}
		}
	}
	return nil
}

func (f *File) convertDefaultExport(ctx context.Context, s *ast.ExportDefaultDecl) (*ResolvedReference, error) {
	var ref *ResolvedReference
	var err error
	switch {
	case s.Decl != nil:
		b := declBinding(s.Decl, s)
		if b == nil {
			return nil, f.unsupported(s.Decl, ErrUnsupportedType)
		}
		ref, err = f.resolveBinding(ctx, b)
	default:
		id, ok := s.Expr.(*ast.Ident)
		if !ok {
			return nil, f.unsupported(s.Expr, ErrUnsupportedType)
		}
		ref, err = f.convertTypeReference(ctx, id)
	}
	if err != nil {
		return nil, err
	}
	if ref.Kind != RefAlias {
		return ref, nil
	}

	exported, err := f.validatorName(s, "default")
	if err != nil {
		return nil, err
	}
	f.addCompanionExport(s, nil, ref.Handle, exported)
	return &ResolvedReference{Handle: ast.NewIdent(exported), Kind: RefAlias, Inexact: ref.Inexact}, nil
}

// convertExportSpecifier resolves `export { Local as Exported }`, following
// the module of a re-export.
func (f *File) convertExportSpecifier(ctx context.Context, s *ast.ExportNamedDecl, spec *ast.ExportSpecifier) (*ResolvedReference, error) {
	var ref *ResolvedReference
	if s.Source != nil {
		other, err := f.importedFile(ctx, s.Source)
		if err != nil {
			return nil, err
		}
		if ref, err = other.convertExport(ctx, ast.ModuleName(spec.Local)); err != nil {
			return nil, err
		}
	} else {
		local, ok := spec.Local.(*ast.Ident)
		if !ok {
			return nil, f.nodeError(spec.Local, ErrUnsupportedKey)
		}
		var err error
		if ref, err = f.convertTypeReference(ctx, local); err != nil {
			return nil, err
		}
	}
	if ref.Kind != RefAlias {
		return ref, nil
	}

	exported := ast.ModuleName(ref.Handle)
	if ast.ModuleName(spec.Exported) == "default" {
		name, err := f.validatorName(spec, "default")
		if err != nil {
			return nil, err
		}
		exported = name
	}
	f.addCompanionExport(s, s.Source, ref.Handle, exported)
	if exported == ast.ModuleName(ref.Handle) {
		return ref, nil
	}
	return &ResolvedReference{Handle: ast.NewIdent(exported), Kind: RefAlias, Inexact: ref.Inexact}, nil
}

// addCompanionExport inserts `export { local as exported } [from source]`
// after anchor unless the file already has that export.
func (f *File) addCompanionExport(anchor ast.Statement, source *ast.StringLit, local ast.Expr, exported string) {
	if f.hasExport(source, local, exported) {
		return
	}
	decl := &ast.ExportNamedDecl{
		Specifiers: []*ast.ExportSpecifier{{Local: cloneHandle(local), Exported: ast.NewIdent(exported)}},
	}
	if source != nil {
		decl.Source = ast.NewString(source.Value)
	}
	f.insertAfter(anchor, decl)
}

func (f *File) hasExport(source *ast.StringLit, local ast.Expr, exported string) bool {
	for _, stmt := range f.Working.Body {
		s, ok := stmt.(*ast.ExportNamedDecl)
		if !ok || s.Decl != nil || s.Kind != ast.ImportValue || (s.Source == nil) != (source == nil) {
			continue
		}
		if source != nil && s.Source.Value != source.Value {
			continue
		}
		for _, spec := range s.Specifiers {
			if referencesEqual(spec.Local, local) && ast.ModuleName(spec.Exported) == exported {
				return true
			}
		}
	}
	return false
}

package convert

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/leapstack-labs/valgen/pkg/ast"
)

func isRelative(source string) bool {
	return strings.HasPrefix(source, ".")
}

// resolveImportSource maps a relative module specifier to a file path.
// Bare specifiers name dependencies and are rejected.
func (f *File) resolveImportSource(ctx context.Context, source *ast.StringLit) (string, error) {
	if !isRelative(source.Value) {
		return "", f.nodeError(source, ErrBareSpecifier, source.Value)
	}
	path, err := f.project.resolve(ctx, source.Value, f.dir())
	if err != nil {
		return "", errors.Wrapf(err, "resolving %q from %s", source.Value, f.Path)
	}
	return path, nil
}

// importedFile returns the File a relative module specifier refers to and
// records the dependency in the project graph.
func (f *File) importedFile(ctx context.Context, source *ast.StringLit) (*File, error) {
	path, err := f.resolveImportSource(ctx, source)
	if err != nil {
		return nil, err
	}
	other, err := f.project.forFileLocked(ctx, path)
	if err != nil {
		return nil, err
	}
	f.project.addEdge(other.Path, f.Path)
	return other, nil
}

// resolveImport follows an imported type to the file that declares it and
// makes the resulting validator importable here.
func (f *File) resolveImport(ctx context.Context, b *ast.Binding) (*ResolvedReference, error) {
	if ref, ok := f.cache[b.Node]; ok {
		return ref, nil
	}
	decl := b.Decl.(*ast.ImportDecl)

	var imported string
	var local *ast.Ident
	kind := ast.ImportValue
	switch spec := b.Node.(type) {
	case *ast.ImportDefaultSpec:
		imported, local = "default", spec.Local
	case *ast.ImportSpecifier:
		imported, local, kind = ast.ModuleName(spec.Imported), spec.Local, spec.Kind
	default:
		return nil, f.nodeError(b.Node, ErrUnsupportedType)
	}
	if kind == ast.ImportValue {
		kind = decl.Kind
	}

	if !isRelative(decl.Source.Value) {
		f.logger.Warn("import from dependencies will be typed as any", "source", decl.Source.Value, "name", local.Name)
		ref := &ResolvedReference{Kind: RefAny}
		f.cache[b.Node] = ref
		return ref, nil
	}

	other, err := f.importedFile(ctx, decl.Source)
	if err != nil {
		return nil, err
	}
	exported, err := other.convertExport(ctx, imported)
	if err != nil {
		return nil, err
	}
	if exported.Kind == RefAny {
		f.cache[b.Node] = exported
		return exported, nil
	}
	converted := ast.ModuleName(exported.Handle)
	if converted == "" {
		return nil, f.nodeError(b.Node, ErrQualifiedName)
	}

	id := local.Name
	if exported.Kind != RefClass {
		if id, err = f.validatorName(b.Node, local.Name); err != nil {
			return nil, err
		}
	}
	ref := &ResolvedReference{Handle: ast.NewIdent(id), Kind: exported.Kind, Inexact: exported.Inexact}

	if kind == ast.ImportType || imported != converted {
		spec := b.Node.(ast.ImportSpec)
		if def, ok := spec.(*ast.ImportDefaultSpec); ok && exported.Kind != RefClass {
			named := &ast.ImportSpecifier{Imported: ast.NewIdent("default"), Local: def.Local}
			replaceSpecifier(decl, def, named)
			f.cache[named] = ref
			spec = named
			f.markChanged(b.Stmt)
		}
		if moveImportKindToSpecifiers(decl) {
			f.markChanged(b.Stmt)
		}
		if exported.Kind == RefClass {
			if s, ok := spec.(*ast.ImportSpecifier); ok && s.Kind != ast.ImportValue {
				s.Kind = ast.ImportValue
				f.markChanged(b.Stmt)
			}
		} else if !hasImportSpecifier(decl, exported.Handle, id) {
			insertSpecifierAfter(decl, spec, &ast.ImportSpecifier{
				Imported: cloneHandle(exported.Handle),
				Local:    ast.NewIdent(id),
			})
			f.markChanged(b.Stmt)
		}
	}

	f.cache[b.Node] = ref
	return ref, nil
}

// moveImportKindToSpecifiers turns `import type { A, B }` into
// `import { type A, type B }` so specifiers can be added without changing
// the kind of the existing ones. It reports whether decl changed.
func moveImportKindToSpecifiers(decl *ast.ImportDecl) bool {
	if decl.Kind == ast.ImportValue {
		return false
	}
	kind := decl.Kind
	decl.Kind = ast.ImportValue
	for _, spec := range decl.Specifiers {
		if s, ok := spec.(*ast.ImportSpecifier); ok && s.Kind == ast.ImportValue {
			s.Kind = kind
		}
	}
	return true
}

func hasImportSpecifier(decl *ast.ImportDecl, imported ast.Expr, local string) bool {
	for _, spec := range decl.Specifiers {
		s, ok := spec.(*ast.ImportSpecifier)
		if ok && referencesEqual(s.Imported, imported) && s.Local.Name == local {
			return true
		}
	}
	return false
}

func replaceSpecifier(decl *ast.ImportDecl, old, repl ast.ImportSpec) {
	for i, spec := range decl.Specifiers {
		if spec == old {
			decl.Specifiers[i] = repl
			return
		}
	}
}

func insertSpecifierAfter(decl *ast.ImportDecl, anchor, spec ast.ImportSpec) {
	for i, s := range decl.Specifiers {
		if s == anchor {
			specs := make([]ast.ImportSpec, 0, len(decl.Specifiers)+1)
			specs = append(specs, decl.Specifiers[:i+1]...)
			specs = append(specs, spec)
			specs = append(specs, decl.Specifiers[i+1:]...)
			decl.Specifiers = specs
			return
		}
	}
	decl.Specifiers = append(decl.Specifiers, spec)
}

package convert

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/leapstack-labs/valgen/pkg/ast"
	"github.com/leapstack-labs/valgen/pkg/token"
)

// File holds the conversion state of one source file. All methods expect
// the owning project's lock to be held.
type File struct {
	project *Project
	logger  *slog.Logger

	Path    string
	Dialect ast.Dialect
	// Original is the tree as parsed. It is never mutated.
	Original *ast.File
	// Working is the tree conversion rewrites.
	Working *ast.File

	scope     *ast.Scope
	changed   bool
	processed bool
	cache     map[ast.Node]*ResolvedReference
	namespace once[string]
}

func newFile(p *Project, path string, original, working *ast.File) *File {
	return &File{
		project:  p,
		logger:   p.logger.With("file", path),
		Path:     path,
		Dialect:  working.Dialect,
		Original: original,
		Working:  working,
		scope:    ast.NewScope(working),
		cache:    make(map[ast.Node]*ResolvedReference),
	}
}

// Changed reports whether conversion has modified the working tree.
func (f *File) Changed() bool {
	f.project.mu.Lock()
	defer f.project.mu.Unlock()
	return f.changed
}

func (f *File) result() *Result {
	return &Result{FilePath: f.Path, Tree: f.Working, Changed: f.changed}
}

func (f *File) dir() string {
	return filepath.Dir(f.Path)
}

func (f *File) config() *Config {
	return &f.project.cfg
}

// process converts every reification site: cast sites first, then
// declarator sites. The legacy runtime import is dropped afterwards.
func (f *File) process(ctx context.Context) error {
	if f.processed {
		return nil
	}
	casts, decls, err := f.findSites()
	if err != nil {
		return err
	}
	if len(casts)+len(decls) > 0 {
		if err := f.checkNamespace(); err != nil {
			return err
		}
	}
	f.logger.Debug("found reification sites", "casts", len(casts), "declarators", len(decls))

	for _, s := range casts {
		if err := f.processCast(ctx, s); err != nil {
			return err
		}
	}
	for _, s := range decls {
		if err := f.processDeclarator(ctx, s); err != nil {
			return err
		}
	}
	f.removeLegacyRuntime()
	f.processed = true
	return nil
}

// validators returns the template builder, adding the namespace import of
// the validator library on first use.
func (f *File) validators() validators {
	ns, _ := f.namespace.Do(func() (string, error) {
		if local := f.findNamespaceImport(); local != "" {
			return local, nil
		}
		ns := f.config().Namespace
		f.insertImport(&ast.ImportDecl{
			Specifiers: []ast.ImportSpec{&ast.ImportNamespaceSpec{Local: ast.NewIdent(ns)}},
			Source:     ast.NewString(f.config().Library),
		})
		return ns, nil
	})
	return validators{ns: ns}
}

// checkNamespace fails when the identifier a new namespace import would bind
// is already declared in the file.
func (f *File) checkNamespace() error {
	if _, ok := f.namespace.Peek(); ok || f.findNamespaceImport() != "" {
		return nil
	}
	ns := f.config().Namespace
	for _, b := range f.scope.Bindings() {
		if b.Name == ns {
			return errors.WithHint(f.nodeError(b.Node, ErrNamespaceShadowed, ns), namespaceHint)
		}
	}
	return nil
}

func (f *File) findNamespaceImport() string {
	for _, stmt := range f.Working.Body {
		imp, ok := stmt.(*ast.ImportDecl)
		if !ok || imp.Source.Value != f.config().Library || imp.Kind != ast.ImportValue {
			continue
		}
		for _, spec := range imp.Specifiers {
			if ns, ok := spec.(*ast.ImportNamespaceSpec); ok {
				return ns.Local.Name
			}
		}
	}
	return ""
}

// validatorName derives the validator identifier for typeName, declared
// at n.
func (f *File) validatorName(n ast.Node, typeName string) (string, error) {
	name, err := f.config().ValidatorName(typeName)
	if err != nil {
		return "", f.nodeError(n, "%v", err)
	}
	return name, nil
}

// ---------- Mutation ----------

// markChanged records a structural change inside the top-level statement
// stmt, which is reprinted from its tree from now on.
func (f *File) markChanged(stmt ast.Statement) {
	if stmt != nil {
		stmt.Info().Touch()
	}
	f.changed = true
	if debugEqualEnabled() {
		f.logger.Debug("working tree diverged", "first_mismatch", FirstMismatch(f.Original, f.Working))
	}
}

// replaceExpr stores x in slot unless it already holds an equal tree.
func (f *File) replaceExpr(slot *ast.Expr, x ast.Expr, stmt ast.Statement) {
	if *slot != nil && NodesEqual(*slot, x) {
		return
	}
	*slot = x
	f.markChanged(stmt)
}

// replaceDeclarator rewrites an existing declarator into a validator
// declaration.
func (f *File) replaceDeclarator(d *ast.VarDeclarator, typ ast.Type, init ast.Expr, stmt ast.Statement) {
	same := d.Init != nil && NodesEqual(d.Init, init) &&
		d.Type != nil && NodesEqual(d.Type, typ)
	if same {
		return
	}
	d.Type = typ
	d.Init = init
	f.markChanged(stmt)
}

// insertAfter adds stmt on its own line after anchor.
func (f *File) insertAfter(anchor, stmt ast.Statement) {
	stmt.Info().Leading = "\n"
	f.Working.InsertAfter(anchor, stmt)
	f.markChanged(nil)
}

// insertImport adds an import after the last import of the file, or at the
// top when there is none. A header comment, separated from the first
// statement by a blank line, stays above the new import, and so do pragma
// comments such as `// @flow` directly above it. Other comments directly
// above the first statement stay with it.
func (f *File) insertImport(decl *ast.ImportDecl) {
	var last ast.Statement
	for _, stmt := range f.Working.Body {
		if _, ok := stmt.(*ast.ImportDecl); ok {
			last = stmt
		}
	}
	if last != nil {
		f.insertAfter(last, decl)
		return
	}

	body := f.Working.Body
	if len(body) > 0 {
		first := body[0].Info()
		header, rest := splitHeader(first.Leading)
		n := headerComments(header, first.LeadingComments)
		for ; n < len(first.LeadingComments) && isPragma(first.LeadingComments[n]); n++ {
			text := first.LeadingComments[n].Text
			i := strings.Index(rest, text)
			if i < 0 {
				break
			}
			cut := i + len(text)
			switch {
			case strings.HasPrefix(rest[cut:], "\r\n"):
				cut += 2
			case strings.HasPrefix(rest[cut:], "\n"):
				cut++
			}
			header, rest = header+rest[:cut], rest[cut:]
			if !strings.HasSuffix(header, "\n") {
				header += "\n"
			}
		}
		decl.Leading = header
		decl.LeadingComments = first.LeadingComments[:n:n]
		first.Leading = "\n" + rest
		first.LeadingComments = first.LeadingComments[n:]
	}
	f.Working.Body = append([]ast.Statement{decl}, body...)
	f.markChanged(nil)
}

// pragmas mark comments that belong to the top of a file.
var pragmas = []string{"@flow", "@noflow", "@jsx", "@license", "@preserve", "@format", "@ts-check", "@ts-nocheck", "eslint-disable", "copyright"}

func isPragma(c *token.Comment) bool {
	value := strings.ToLower(c.Value())
	for _, p := range pragmas {
		if strings.Contains(value, p) {
			return true
		}
	}
	return false
}

// splitHeader splits leading text after its last blank line.
func splitHeader(leading string) (header, rest string) {
	i := -1
	if k := strings.LastIndex(leading, "\n\n"); k >= 0 {
		i = k + 2
	}
	if k := strings.LastIndex(leading, "\n\r\n"); k >= 0 && k+3 > i {
		i = k + 3
	}
	if i < 0 {
		return "", leading
	}
	return leading[:i], leading[i:]
}

// headerComments counts the comments, in order, whose text lies in header.
func headerComments(header string, comments []*token.Comment) int {
	pos := 0
	for i, c := range comments {
		j := strings.Index(header[pos:], c.Text)
		if j < 0 {
			return i
		}
		pos += j + len(c.Text)
	}
	return len(comments)
}

// removeStatement deletes stmt. Its comments move to the next statement, or
// to the end of the file when it was the last one.
func (f *File) removeStatement(stmt ast.Statement) {
	i := f.Working.Index(stmt)
	if i < 0 {
		return
	}
	info := stmt.Info()
	comment := strings.TrimSpace(info.Trailing)
	moved := info.Leading + comment

	f.Working.Remove(stmt)
	if i < len(f.Working.Body) {
		next := f.Working.Body[i].Info()
		next.Leading = moved + dropNewline(next.Leading, comment == "")
		next.LeadingComments = append(append(info.LeadingComments, info.TrailingComments...), next.LeadingComments...)
	} else {
		f.Working.Tail = moved + dropNewline(f.Working.Tail, comment == "")
		f.Working.Comments = append(append(info.LeadingComments, info.TrailingComments...), f.Working.Comments...)
	}
	f.markChanged(nil)
}

// dropNewline removes the line break that ended a removed statement's line.
func dropNewline(s string, drop bool) string {
	if !drop {
		return s
	}
	if strings.HasPrefix(s, "\r\n") {
		return s[2:]
	}
	return strings.TrimPrefix(s, "\n")
}

// removeLegacyRuntime drops imports of the legacy runtime module. An
// imported Validation type is re-imported from the validator library.
func (f *File) removeLegacyRuntime() {
	legacy := f.config().LegacyRuntime
	for _, stmt := range append([]ast.Statement(nil), f.Working.Body...) {
		imp, ok := stmt.(*ast.ImportDecl)
		if !ok || imp.Source.Value != legacy {
			continue
		}
		for _, spec := range imp.Specifiers {
			s, ok := spec.(*ast.ImportSpecifier)
			if !ok || ast.ModuleName(s.Imported) != "Validation" {
				continue
			}
			kind := s.Kind
			if kind == ast.ImportValue {
				kind = imp.Kind
			}
			f.insertAfter(imp, &ast.ImportDecl{
				Kind: kind,
				Specifiers: []ast.ImportSpec{&ast.ImportSpecifier{
					Imported: ast.NewIdent("Validation"),
					Local:    ast.NewIdent(s.Local.Name),
				}},
				Source: ast.NewString(f.config().Library),
			})
			break
		}
		f.logger.Debug("removing legacy runtime import", "source", legacy)
		f.removeStatement(imp)
	}
}

package format

import (
	"github.com/leapstack-labs/valgen/pkg/ast"
)

func (p *Printer) statement(stmt ast.Statement) {
	p.stmtBody(stmt)
	if p.opts.Semicolons && needsSemicolon(stmt) {
		p.write(";")
	}
}

// needsSemicolon reports whether stmt ends with an ASI-terminated part.
func needsSemicolon(stmt ast.Statement) bool {
	switch s := stmt.(type) {
	case *ast.ImportDecl, *ast.ExportAllDecl, *ast.TypeAliasDecl, *ast.VarDecl, *ast.ExprStmt:
		return true
	case *ast.ExportNamedDecl:
		if s.Decl != nil {
			return needsSemicolon(s.Decl)
		}
		return true
	case *ast.ExportDefaultDecl:
		return s.Expr != nil
	}
	return false
}

func (p *Printer) stmtBody(stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.ImportDecl:
		p.formatImport(s)
	case *ast.ExportNamedDecl:
		p.formatExportNamed(s)
	case *ast.ExportDefaultDecl:
		p.write("export default ")
		if s.Decl != nil {
			p.stmtBody(s.Decl)
		} else {
			p.expr(s.Expr)
		}
	case *ast.ExportAllDecl:
		p.write("export *")
		if s.Exported != nil {
			p.write(" as ")
			p.write(s.Exported.Name)
		}
		p.write(" from ")
		p.expr(s.Source)
	case *ast.TypeAliasDecl:
		p.write("type ")
		p.write(s.Name.Name)
		p.write(s.TypeParams)
		p.write(" = ")
		p.typ(s.Type)
	case *ast.InterfaceDecl:
		p.formatInterface(s)
	case *ast.ClassDecl:
		p.write(s.Text)
	case *ast.VarDecl:
		p.formatVarDecl(s)
	case *ast.ExprStmt:
		p.expr(s.X)
	case *ast.RawStmt:
		p.write(s.Text)
	}
}

func (p *Printer) formatImport(s *ast.ImportDecl) {
	p.write("import ")
	if s.Kind != ast.ImportValue {
		p.write(string(s.Kind))
		p.space()
	}
	if len(s.Specifiers) == 0 {
		p.expr(s.Source)
		return
	}

	var named []*ast.ImportSpecifier
	wrote := false
	for _, spec := range s.Specifiers {
		switch spec := spec.(type) {
		case *ast.ImportDefaultSpec:
			p.write(spec.Local.Name)
			wrote = true
		case *ast.ImportNamespaceSpec:
			if wrote {
				p.write(", ")
			}
			p.write("* as ")
			p.write(spec.Local.Name)
			wrote = true
		case *ast.ImportSpecifier:
			named = append(named, spec)
		}
	}
	if len(named) > 0 {
		if wrote {
			p.write(", ")
		}
		p.group(list{
			open: "{", close: "}", sep: ",", count: len(named), pad: true, trailing: true,
			item: func(q *Printer, i int) { q.formatImportSpecifier(named[i]) },
		})
	}
	p.write(" from ")
	p.expr(s.Source)
}

func (p *Printer) formatImportSpecifier(spec *ast.ImportSpecifier) {
	if spec.Kind != ast.ImportValue {
		p.write(string(spec.Kind))
		p.space()
	}
	p.expr(spec.Imported)
	if ast.ModuleName(spec.Imported) != spec.Local.Name {
		p.write(" as ")
		p.write(spec.Local.Name)
	}
}

func (p *Printer) formatExportNamed(s *ast.ExportNamedDecl) {
	p.write("export ")
	if s.Decl != nil {
		p.stmtBody(s.Decl)
		return
	}
	if s.Kind != ast.ImportValue {
		p.write(string(s.Kind))
		p.space()
	}
	p.group(list{
		open: "{", close: "}", sep: ",", count: len(s.Specifiers), pad: true, trailing: true,
		item: func(q *Printer, i int) {
			spec := s.Specifiers[i]
			q.expr(spec.Local)
			if ast.ModuleName(spec.Local) != ast.ModuleName(spec.Exported) {
				q.write(" as ")
				q.expr(spec.Exported)
			}
		},
	})
	if s.Source != nil {
		p.write(" from ")
		p.expr(s.Source)
	}
}

func (p *Printer) formatInterface(s *ast.InterfaceDecl) {
	p.write("interface ")
	p.write(s.Name.Name)
	p.write(s.TypeParams)
	if len(s.Extends) > 0 {
		p.write(" extends ")
		p.formatList(len(s.Extends), func(i int) { p.typ(s.Extends[i]) }, ", ")
	}
	p.space()
	p.typ(s.Body)
}

func (p *Printer) formatVarDecl(s *ast.VarDecl) {
	p.write(s.Kind)
	p.space()
	p.formatList(len(s.Declarators), func(i int) {
		d := s.Declarators[i]
		p.write(d.Name.Name)
		if d.Type != nil {
			p.write(": ")
			p.typ(d.Type)
		}
		if d.Init != nil {
			p.write(" = ")
			p.expr(d.Init)
		}
	}, ", ")
}

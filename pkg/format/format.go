package format

import (
	"strings"

	"github.com/leapstack-labs/valgen/pkg/ast"
)

// FileOptions returns the printing style detected for f.
func FileOptions(f *ast.File) Options {
	return Options{
		Dialect:     f.Dialect,
		SingleQuote: f.SingleQuote,
		Semicolons:  f.Semicolons,
	}
}

// Source renders f. Statements that still carry their source text are
// emitted verbatim along with the text around them.
func Source(f *ast.File) string {
	opts := FileOptions(f)
	var sb strings.Builder
	for _, stmt := range f.Body {
		info := stmt.Info()
		sb.WriteString(info.Leading)
		if info.Raw != "" {
			sb.WriteString(info.Raw)
		} else {
			sb.WriteString(Statement(stmt, opts))
		}
		sb.WriteString(info.Trailing)
	}
	sb.WriteString(f.Tail)
	return sb.String()
}

// Normalize renders f canonically: every statement is reprinted, literals
// lose their source spelling and statements are separated by single
// newlines. Two files that differ only in layout normalize identically.
func Normalize(f *ast.File) string {
	opts := Options{Dialect: f.Dialect, Canonical: true}
	p := newPrinter(opts)
	for _, stmt := range f.Body {
		info := stmt.Info()
		p.formatComments(info.LeadingComments)
		p.statement(stmt)
		p.formatTrailingComments(info.TrailingComments)
		p.writeln()
	}
	for _, c := range f.Comments {
		p.write(c.Text)
		p.writeln()
	}
	return p.String()
}

// Statement renders a single statement.
func Statement(stmt ast.Statement, opts Options) string {
	p := newPrinter(opts)
	p.statement(stmt)
	return p.String()
}

// Expr renders an expression on one line.
func Expr(e ast.Expr) string {
	p := newPrinter(Options{})
	p.flat = true
	p.expr(e)
	return p.String()
}

// Type renders a type on one line.
func Type(t ast.Type) string {
	p := newPrinter(Options{})
	p.flat = true
	p.typ(t)
	return p.String()
}

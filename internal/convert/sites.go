package convert

import (
	"context"

	"github.com/cockroachdb/errors"

	"github.com/leapstack-labs/valgen/pkg/ast"
	"github.com/leapstack-labs/valgen/pkg/parser"
	"github.com/leapstack-labs/valgen/pkg/token"
)

type siteKind int

const (
	castSite siteKind = iota // reify as Type<X>, (reify: Type<X>)
	declSite                 // const V: T.TypeAlias<X> = ...
)

// site is a place in the working tree where a type must become a validator.
type site struct {
	kind siteKind
	// slot holds node for cast sites.
	slot *ast.Expr
	node ast.Expr
	// decl is the declarator of a declarator site.
	decl   *ast.VarDeclarator
	target ast.Type
	// stmt is the top-level statement containing the site.
	stmt ast.Statement
}

// siteSet accumulates the sites found by a walk over the working tree.
type siteSet struct {
	casts, decls []*site
	err          error
}

func (s *siteSet) add(x *site) {
	if x.kind == castSite {
		s.casts = append(s.casts, x)
	} else {
		s.decls = append(s.decls, x)
	}
}

func (s *siteSet) fail(err error) {
	if s.err == nil {
		s.err = err
	}
}

// findSites collects the reification sites of the working tree in source
// order. The subtree of a matched site is not searched. Source kept as raw
// text is scanned for sites, which fail the file since they cannot be
// rewritten.
func (f *File) findSites() (casts, decls []*site, err error) {
	set := &siteSet{}
	for _, stmt := range f.Working.Body {
		f.walkStmt(stmt, stmt, set)
	}
	return set.casts, set.decls, set.err
}

func (f *File) walkStmt(stmt, top ast.Statement, set *siteSet) {
	switch s := stmt.(type) {
	case *ast.ExportNamedDecl:
		if s.Decl != nil {
			f.walkStmt(s.Decl, top, set)
		}
	case *ast.ExportDefaultDecl:
		if s.Decl != nil {
			f.walkStmt(s.Decl, top, set)
		} else {
			f.walkExpr(&s.Expr, top, set)
		}
	case *ast.VarDecl:
		for _, d := range s.Declarators {
			if target := f.aliasTarget(d.Type); target != nil {
				set.add(&site{kind: declSite, decl: d, target: target, stmt: top})
				continue
			}
			if d.Init != nil {
				f.walkExpr(&d.Init, top, set)
			}
		}
	case *ast.ExprStmt:
		f.walkExpr(&s.X, top, set)
	case *ast.ClassDecl:
		f.scanRaw(s.Span.Start, s.Text, set)
	case *ast.RawStmt:
		f.scanRaw(s.Span.Start, s.Text, set)
	}
}

func (f *File) walkExpr(slot *ast.Expr, top ast.Statement, set *siteSet) {
	switch e := (*slot).(type) {
	case *ast.AsExpr:
		if target := f.castTarget(e.X, e.Type); target != nil {
			set.add(&site{kind: castSite, slot: slot, node: e, target: target, stmt: top})
			return
		}
		f.walkExpr(&e.X, top, set)
	case *ast.TypeCastExpr:
		if target := f.castTarget(e.X, e.Type); target != nil {
			set.add(&site{kind: castSite, slot: slot, node: e, target: target, stmt: top})
			return
		}
		f.walkExpr(&e.X, top, set)
	case *ast.ParenExpr:
		f.walkExpr(&e.X, top, set)
	case *ast.MemberExpr:
		f.walkExpr(&e.X, top, set)
	case *ast.CallExpr:
		f.walkExpr(&e.Fun, top, set)
		for i := range e.Args {
			f.walkExpr(&e.Args[i], top, set)
		}
	case *ast.ArrowFunc:
		f.walkExpr(&e.Body, top, set)
	case *ast.ArrayExpr:
		for i := range e.Elems {
			f.walkExpr(&e.Elems[i], top, set)
		}
	case *ast.ObjectExpr:
		for _, prop := range e.Props {
			switch p := prop.(type) {
			case *ast.Property:
				f.walkExpr(&p.Value, top, set)
			case *ast.SpreadElement:
				f.walkExpr(&p.X, top, set)
			}
		}
	case *ast.RawExpr:
		f.scanRaw(e.Span.Start, e.Text, set)
	}
}

// scanRaw looks for a reification site in source text the parser kept raw.
// A site whose type argument does not parse is an unsupported type; any
// other site sits where it cannot be rewritten.
func (f *File) scanRaw(at token.Position, text string, set *siteSet) {
	if set.err != nil {
		return
	}
	toks := parser.NewLexer(text).Tokenize()
	for i := range toks {
		open := f.rawSiteTypeArgs(toks, i)
		if open < 0 {
			continue
		}
		pos := offsetPosition(at, toks[i].Pos)
		typ, ok := typeArgText(text, toks, open)
		if !ok {
			set.fail(f.unsupportedAt(pos, ErrUnsupportedType))
			return
		}
		if _, err := parser.ParseType(typ, f.Dialect); err != nil {
			set.fail(f.unsupportedAt(pos, ErrUnsupportedType))
			return
		}
		set.fail(errors.WithHint(f.errorAt(pos, "%s", ErrNestedSite), nestedSiteHint))
		return
	}
}

// rawSiteTypeArgs matches `reify as Type<`, `reify: Type<` and the
// declarator annotations `const V: TypeAlias<` / `const V: T.TypeAlias<`
// at toks[i] and returns the index of the opening angle bracket, or -1.
func (f *File) rawSiteTypeArgs(toks []token.Token, i int) int {
	cfg := f.config()
	word := func(j int, lit string) bool {
		return j < len(toks) && token.IsWord(toks[j].Type) && toks[j].Literal == lit
	}
	is := func(j int, t token.TokenType) bool {
		return j >= 0 && j < len(toks) && toks[j].Type == t
	}

	if word(i, cfg.Sentinel) && (word(i+1, "as") || is(i+1, token.COLON)) &&
		word(i+2, cfg.MarkerType) && is(i+3, token.LT) {
		return i + 3
	}
	if is(i, token.COLON) && is(i-1, token.IDENT) && (is(i-2, token.CONST) || is(i-2, token.LET) || is(i-2, token.VAR)) {
		j := i + 1
		if is(j, token.IDENT) && is(j+1, token.DOT) {
			j += 2
		}
		if word(j, "TypeAlias") && is(j+1, token.LT) {
			return j + 1
		}
	}
	return -1
}

// typeArgText returns the source between the angle bracket at toks[open]
// and its match.
func typeArgText(text string, toks []token.Token, open int) (string, bool) {
	depth := 0
	for j := open; j < len(toks); j++ {
		switch toks[j].Type {
		case token.LT:
			depth++
		case token.GT:
			depth--
			if depth == 0 {
				return text[toks[open].End:toks[j].Pos.Offset], true
			}
		case token.SEMICOLON, token.EOF:
			return "", false
		}
	}
	return "", false
}

// offsetPosition maps a position inside text starting at base to a
// position in the file.
func offsetPosition(base, rel token.Position) token.Position {
	pos := token.Position{Line: base.Line + rel.Line - 1, Column: rel.Column, Offset: base.Offset + rel.Offset}
	if rel.Line == 1 {
		pos.Column = base.Column + rel.Column - 1
	}
	return pos
}

// castTarget returns X for `reify as Type<X>` and `(reify: Type<X>)`.
func (f *File) castTarget(x ast.Expr, t ast.Type) ast.Type {
	id, ok := x.(*ast.Ident)
	if !ok || id.Name != f.config().Sentinel {
		return nil
	}
	ref, ok := t.(*ast.TypeRef)
	if !ok || len(ref.TypeArgs) != 1 {
		return nil
	}
	if name, ok := ref.Name.(*ast.Ident); !ok || name.Name != f.config().MarkerType {
		return nil
	}
	return ref.TypeArgs[0]
}

// aliasTarget returns X for the annotations `TypeAlias<X>` and `T.TypeAlias<X>`.
func (f *File) aliasTarget(t ast.Type) ast.Type {
	ref, ok := t.(*ast.TypeRef)
	if !ok || len(ref.TypeArgs) != 1 {
		return nil
	}
	switch name := ref.Name.(type) {
	case *ast.Ident:
		if name.Name != "TypeAlias" {
			return nil
		}
	case *ast.MemberExpr:
		if _, ok := name.X.(*ast.Ident); !ok || name.Name.Name != "TypeAlias" {
			return nil
		}
	default:
		return nil
	}
	return ref.TypeArgs[0]
}

// processCast replaces a cast site with the validator of its type. When
// resolving the type already rewrote the declarator holding the cast, the
// site is gone and nothing is replaced.
func (f *File) processCast(ctx context.Context, s *site) error {
	expr, err := f.convert(ctx, s.target)
	if err != nil {
		return err
	}
	if *s.slot != s.node {
		return nil
	}
	f.replaceExpr(s.slot, expr, s.stmt)
	return nil
}

// processDeclarator handles `const V: T.TypeAlias<X> = ...`. A named X goes
// through reference resolution, which writes the alias declaration into V
// when V carries the derived validator name. Any other X replaces V's
// initializer.
func (f *File) processDeclarator(ctx context.Context, s *site) error {
	if ref, ok := s.target.(*ast.TypeRef); ok && !f.isUtility(ref) {
		_, err := f.convertTypeReference(ctx, ref.Name)
		return err
	}
	expr, err := f.convert(ctx, s.target)
	if err != nil {
		return err
	}
	f.replaceExpr(&s.decl.Init, expr, s.stmt)
	return nil
}

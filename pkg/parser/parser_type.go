package parser

// Type grammar:
//
//	type         → ["|"] intersection ("|" intersection)*
//	intersection → ["&"] prefix ("&" prefix)*
//	prefix       → "?" prefix | ("readonly"|"keyof"|"unique") prefix | postfix
//	postfix      → primary ("[" "]")*
//	primary      → keyword | literal | ref | object | tuple | function
//	             | "(" type ")" | "typeof" name
//	ref          → name ["<" type ("," type)* ">"]
//	object       → ("{" | "{|") (member | "..." [type]) ((","|";") ...)* ("}" | "|}")
//	member       → [variance] ["readonly"] key ["?"] ":" type
//	             | "[" IDENT ":" type "]" ":" type
//	             | "[" type "]" ":" type           (Flow indexer)
//	             | "[" expr "]" ["?"] ":" type     (TypeScript computed key)

import (
	"fmt"

	"github.com/leapstack-labs/valgen/pkg/ast"
	"github.com/leapstack-labs/valgen/pkg/token"
)

// typeKeywords are identifiers that name builtin types.
var typeKeywords = map[string]bool{
	"any":       true,
	"unknown":   true,
	"mixed":     true,
	"undefined": true,
	"number":    true,
	"string":    true,
	"boolean":   true,
	"symbol":    true,
	"bigint":    true,
	"never":     true,
	"object":    true,
	"empty":     true,
}

func (p *Parser) parseType() ast.Type {
	start := p.pos
	p.match(token.PIPE)
	first := p.parseIntersectionType()
	var t ast.Type = first
	if p.check(token.PIPE) {
		types := []ast.Type{first}
		for p.match(token.PIPE) {
			types = append(types, p.parseIntersectionType())
		}
		t = &ast.UnionType{NodeInfo: p.span(start), Types: types}
	}
	if p.check(token.EXTENDS) {
		p.addError("conditional types are not supported")
	}
	return t
}

func (p *Parser) parseIntersectionType() ast.Type {
	start := p.pos
	p.match(token.AMP)
	first := p.parsePrefixType()
	if !p.check(token.AMP) {
		return first
	}
	types := []ast.Type{first}
	for p.match(token.AMP) {
		types = append(types, p.parsePrefixType())
	}
	return &ast.IntersectionType{NodeInfo: p.span(start), Types: types}
}

func (p *Parser) parsePrefixType() ast.Type {
	start := p.pos
	switch {
	case p.match(token.QUESTION):
		elem := p.parsePrefixType()
		return &ast.NullableType{NodeInfo: p.span(start), Elem: elem}
	case (p.checkWord("readonly") || p.checkWord("keyof") || p.checkWord("unique")) && startsType(p.peek):
		op := p.token.Literal
		p.nextToken()
		elem := p.parsePrefixType()
		return &ast.OperatorType{NodeInfo: p.span(start), Op: op, Elem: elem}
	}
	return p.parsePostfixType()
}

func startsType(t token.Token) bool {
	switch t.Type {
	case token.STRING, token.NUMBER, token.LBRACKET, token.LBRACE, token.LBRACE_PIPE,
		token.LPAREN, token.QUESTION, token.MINUS:
		return true
	}
	return token.IsWord(t.Type)
}

func (p *Parser) parsePostfixType() ast.Type {
	start := p.pos
	t := p.parsePrimaryType()
	for p.check(token.LBRACKET) && !p.token.NewlineBefore {
		if !p.checkPeek(token.RBRACKET) {
			p.addError("indexed access types are not supported")
			return t
		}
		p.nextToken()
		p.nextToken()
		t = &ast.ArrayType{NodeInfo: p.span(start), Elem: t}
	}
	return t
}

func (p *Parser) parsePrimaryType() ast.Type {
	start := p.pos
	switch p.token.Type {
	case token.IDENT:
		if typeKeywords[p.token.Literal] && !p.checkPeek(token.DOT) {
			name := p.token.Literal
			p.nextToken()
			return &ast.KeywordType{NodeInfo: p.span(start), Name: name}
		}
		return p.parseTypeRef()
	case token.VOID, token.NULL, token.THIS:
		name := p.token.Literal
		p.nextToken()
		return &ast.KeywordType{NodeInfo: p.span(start), Name: name}
	case token.STAR:
		// Flow existential type
		p.nextToken()
		return &ast.KeywordType{NodeInfo: p.span(start), Name: "*"}
	case token.STRING:
		lit := p.parseStringLit()
		return &ast.LiteralType{NodeInfo: p.span(start), Lit: lit}
	case token.NUMBER:
		p.nextToken()
		lit := &ast.NumberLit{NodeInfo: p.span(start), Raw: p.textFrom(start)}
		return &ast.LiteralType{NodeInfo: p.span(start), Lit: lit}
	case token.MINUS:
		if !p.checkPeek(token.NUMBER) {
			break
		}
		p.nextToken()
		p.nextToken()
		lit := &ast.NumberLit{NodeInfo: p.span(start), Raw: p.textFrom(start)}
		return &ast.LiteralType{NodeInfo: p.span(start), Lit: lit}
	case token.TRUE, token.FALSE:
		lit := &ast.BoolLit{Value: p.check(token.TRUE)}
		p.nextToken()
		lit.NodeInfo = p.span(start)
		return &ast.LiteralType{NodeInfo: p.span(start), Lit: lit}
	case token.LBRACE, token.LBRACE_PIPE:
		return p.parseObjectType()
	case token.LBRACKET:
		return p.parseTupleType()
	case token.LT, token.NEW:
		return p.parseFunctionType()
	case token.LPAREN:
		isFunc := p.lookahead(func() bool {
			return p.skipBalanced() && p.check(token.ARROW)
		})
		if isFunc {
			return p.parseFunctionType()
		}
		p.nextToken()
		t := p.parseType()
		p.expect(token.RPAREN)
		return t
	case token.TYPEOF:
		p.nextToken()
		name := p.parseEntityName()
		ref := &ast.TypeRef{NodeInfo: p.span(start + 1), Name: name}
		return &ast.OperatorType{NodeInfo: p.span(start), Op: "typeof", Elem: ref}
	}
	p.addError(fmt.Sprintf(ErrExpectedType, p.token.Type))
	return nil
}

// parseFunctionType keeps a function or constructor type as source text.
func (p *Parser) parseFunctionType() ast.Type {
	start := p.pos
	p.match(token.NEW)
	if p.check(token.LT) && !p.skipAngles() {
		return nil
	}
	if !p.check(token.LPAREN) {
		p.addError(fmt.Sprintf(ErrUnexpectedToken, p.token.Type, token.LPAREN))
		return nil
	}
	if !p.skipBalanced() {
		return nil
	}
	p.expect(token.ARROW)
	p.parseType()
	return &ast.FunctionType{NodeInfo: p.span(start), Text: p.textFrom(start)}
}

// parseEntityName parses `a` or `a.b.c`.
func (p *Parser) parseEntityName() ast.Expr {
	start := p.pos
	var name ast.Expr = p.parseIdent()
	for p.check(token.DOT) {
		p.nextToken()
		sel := p.parseWordIdent()
		name = &ast.MemberExpr{NodeInfo: p.span(start), X: name, Name: sel}
	}
	return name
}

func (p *Parser) parseTypeRef() *ast.TypeRef {
	start := p.pos
	ref := &ast.TypeRef{Name: p.parseEntityName()}
	if p.check(token.LT) {
		ref.TypeArgs = p.parseTypeArgs()
	}
	ref.NodeInfo = p.span(start)
	return ref
}

// parseTypeArgs parses `<A, B>`. An empty list yields a non-nil slice.
func (p *Parser) parseTypeArgs() []ast.Type {
	p.expect(token.LT)
	args := []ast.Type{}
	for !p.check(token.GT) && !p.check(token.EOF) {
		args = append(args, p.parseType())
		if !p.match(token.COMMA) {
			break
		}
	}
	p.expect(token.GT)
	return args
}

func (p *Parser) parseTupleType() ast.Type {
	start := p.pos
	p.expect(token.LBRACKET)
	tt := &ast.TupleType{Elems: []ast.Type{}}
	for !p.check(token.RBRACKET) && !p.check(token.EOF) {
		estart := p.pos
		switch {
		case p.check(token.ELLIPSIS):
			p.addError("rest elements in tuples are not supported")
			return nil
		case p.check(token.IDENT) && (p.checkPeek(token.COLON) ||
			p.checkPeek(token.QUESTION) && p.peek2.Type == token.COLON):
			m := &ast.NamedTupleMember{Name: p.parseIdent()}
			m.Optional = p.match(token.QUESTION)
			p.expect(token.COLON)
			m.Elem = p.parseType()
			m.NodeInfo = p.span(estart)
			tt.Elems = append(tt.Elems, m)
		default:
			tt.Elems = append(tt.Elems, p.parseType())
			if p.check(token.QUESTION) {
				p.addError("optional tuple elements are not supported")
				return nil
			}
		}
		if !p.match(token.COMMA) {
			break
		}
	}
	p.expect(token.RBRACKET)
	tt.NodeInfo = p.span(start)
	return tt
}

// ---------- Object types ----------

// parseObjectType parses an object type literal or interface body.
func (p *Parser) parseObjectType() *ast.ObjectType {
	start := p.pos
	ot := &ast.ObjectType{Members: []ast.Member{}}
	closing := token.RBRACE
	if p.match(token.LBRACE_PIPE) {
		ot.Exact = true
		closing = token.PIPE_RBRACE
	} else {
		p.expect(token.LBRACE)
	}

	for !p.check(closing) && !p.check(token.EOF) {
		if p.check(token.ELLIPSIS) {
			switch p.peek.Type {
			case closing, token.COMMA, token.SEMICOLON:
				p.nextToken()
				ot.Inexact = true
			default:
				mstart := p.pos
				p.nextToken()
				t := p.parseType()
				ot.Members = append(ot.Members, &ast.SpreadMember{NodeInfo: p.span(mstart), Type: t})
			}
		} else {
			m := p.parseMember()
			if m == nil {
				return nil
			}
			ot.Members = append(ot.Members, m)
		}
		if !p.match(token.COMMA) && !p.match(token.SEMICOLON) &&
			!p.check(closing) && !p.token.NewlineBefore {
			p.addError(fmt.Sprintf(ErrUnexpectedToken, p.token.Type, closing))
			return nil
		}
	}
	p.expect(closing)
	ot.NodeInfo = p.span(start)
	return ot
}

func (p *Parser) parseMember() ast.Member {
	start := p.pos
	if p.check(token.LPAREN) || p.check(token.LT) ||
		p.check(token.NEW) && (p.checkPeek(token.LPAREN) || p.checkPeek(token.LT)) {
		return p.parseMethodSig(start)
	}

	prop := &ast.PropertySig{}
	if p.checkWord("readonly") && startsPropertyKey(p.peek) {
		prop.Readonly = true
		p.nextToken()
	}
	if p.check(token.PLUS) || p.check(token.MINUS) {
		prop.Variance = p.token.Literal
		p.nextToken()
	}
	if (p.checkWord("get") || p.checkWord("set")) && startsPropertyKey(p.peek) {
		return p.parseMethodSig(start)
	}

	switch {
	case p.check(token.LBRACKET):
		return p.parseBracketMember(start, prop)
	case p.check(token.STRING):
		prop.Key = p.parseStringLit()
	case p.check(token.NUMBER):
		kstart := p.pos
		p.nextToken()
		prop.Key = &ast.NumberLit{NodeInfo: p.span(kstart), Raw: p.textFrom(kstart)}
	case token.IsWord(p.token.Type):
		prop.Key = p.parseWordIdent()
	default:
		p.addError(fmt.Sprintf(ErrUnexpectedToken, p.token.Type, "property key"))
		return nil
	}

	prop.Optional = p.match(token.QUESTION)
	if p.check(token.LPAREN) || p.check(token.LT) {
		p.setPos(start)
		return p.parseMethodSig(start)
	}
	if p.match(token.COLON) {
		prop.Value = p.parseType()
	}
	prop.NodeInfo = p.span(start)
	return prop
}

func startsPropertyKey(t token.Token) bool {
	switch t.Type {
	case token.STRING, token.NUMBER, token.LBRACKET:
		return true
	}
	return token.IsWord(t.Type)
}

// parseBracketMember parses an indexer or, in TypeScript, a computed key.
func (p *Parser) parseBracketMember(start int, prop *ast.PropertySig) ast.Member {
	if p.peek.Type == token.IDENT && p.peek2.Type == token.IN {
		p.addError("mapped types are not supported")
		return nil
	}

	if p.peek.Type == token.IDENT && p.peek2.Type == token.COLON {
		p.nextToken() // [
		is := &ast.IndexSig{KeyName: p.parseIdent()}
		p.expect(token.COLON)
		is.Key = p.parseType()
		p.expect(token.RBRACKET)
		p.expect(token.COLON)
		is.Value = p.parseType()
		is.NodeInfo = p.span(start)
		return is
	}

	p.nextToken() // [
	if p.dialect == ast.Flow {
		is := &ast.IndexSig{Key: p.parseType()}
		p.expect(token.RBRACKET)
		p.expect(token.COLON)
		is.Value = p.parseType()
		is.NodeInfo = p.span(start)
		return is
	}

	prop.Key = p.parseExpr()
	prop.Computed = true
	p.expect(token.RBRACKET)
	prop.Optional = p.match(token.QUESTION)
	if p.check(token.LPAREN) || p.check(token.LT) {
		p.setPos(start)
		return p.parseMethodSig(start)
	}
	if p.match(token.COLON) {
		prop.Value = p.parseType()
	}
	prop.NodeInfo = p.span(start)
	return prop
}

// parseMethodSig keeps a method, accessor, call or construct signature as
// source text. It stops before the member separator.
func (p *Parser) parseMethodSig(start int) ast.Member {
	p.setPos(start)
	depth := 0
	for !p.check(token.EOF) {
		if depth == 0 && p.pos > start {
			switch p.token.Type {
			case token.COMMA, token.SEMICOLON, token.RBRACE, token.PIPE_RBRACE:
				return &ast.MethodSig{NodeInfo: p.span(start), Text: p.textFrom(start)}
			}
			if p.token.NewlineBefore && !continuesLine(p.tokenAt(p.pos-1), p.token) {
				return &ast.MethodSig{NodeInfo: p.span(start), Text: p.textFrom(start)}
			}
		}
		switch p.token.Type {
		case token.LBRACE, token.LBRACE_PIPE, token.LPAREN, token.LBRACKET:
			depth++
		case token.RBRACE, token.PIPE_RBRACE, token.RPAREN, token.RBRACKET:
			depth--
		}
		p.nextToken()
	}
	p.addError(fmt.Sprintf(ErrUnbalanced, "member"))
	return nil
}

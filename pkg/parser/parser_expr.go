package parser

// Expression grammar:
//
//	expr     → unary ("as" type)*
//	unary    → ["-"] NUMBER | postfix
//	postfix  → primary ("." word | [type_args] "(" args ")")*
//	primary  → IDENT | "this" | STRING | NUMBER | "true" | "false" | "null"
//	         | IDENT "=>" expr
//	         | "(" params ")" "=>" expr
//	         | "(" expr [":" type] ")"
//	         | "{" props "}" | "[" elems "]"
//
// Expressions outside the grammar become RawExpr nodes spanning the source
// up to the next ",", ";", closing bracket or statement-ending line break.

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/leapstack-labs/valgen/pkg/ast"
	"github.com/leapstack-labs/valgen/pkg/token"
)

// parseExpr parses an expression, falling back to raw source text.
func (p *Parser) parseExpr() ast.Expr {
	start := p.pos
	if x, ok := attempt(p, func() ast.Expr {
		x := p.parseStructuredExpr()
		if !p.atExprEnd() {
			p.addError(fmt.Sprintf(ErrUnexpectedToken, p.token.Type, "end of expression"))
		}
		return x
	}); ok {
		return x
	}
	p.setPos(start)
	return p.parseRawExpr()
}

// atExprEnd reports whether the current token can follow a complete
// expression.
func (p *Parser) atExprEnd() bool {
	switch p.token.Type {
	case token.COMMA, token.SEMICOLON, token.COLON, token.EOF, token.RPAREN,
		token.RBRACKET, token.RBRACE, token.PIPE_RBRACE:
		return true
	}
	return p.token.NewlineBefore && !continuesLine(p.tokenAt(p.pos-1), p.token)
}

func (p *Parser) parseRawExpr() ast.Expr {
	start := p.pos
	depth := 0
loop:
	for !p.check(token.EOF) {
		if depth == 0 && p.pos > start {
			switch p.token.Type {
			case token.COMMA, token.SEMICOLON:
				break loop
			}
			if p.token.NewlineBefore && !continuesLine(p.tokenAt(p.pos-1), p.token) {
				break
			}
		}
		switch p.token.Type {
		case token.LBRACE, token.LBRACE_PIPE, token.LPAREN, token.LBRACKET:
			depth++
		case token.RBRACE, token.PIPE_RBRACE, token.RPAREN, token.RBRACKET:
			if depth == 0 {
				break loop
			}
			depth--
		}
		p.nextToken()
	}
	if p.pos == start {
		p.addError(fmt.Sprintf(ErrExpectedExpr, p.token.Type))
	}
	return &ast.RawExpr{NodeInfo: p.span(start), Text: p.textFrom(start)}
}

// parseStructuredExpr parses an expression of the modelled subset.
func (p *Parser) parseStructuredExpr() ast.Expr {
	start := p.pos
	x := p.parseUnary()
	for p.checkWord("as") && !p.token.NewlineBefore {
		p.nextToken()
		t := p.parseType()
		x = &ast.AsExpr{NodeInfo: p.span(start), X: x, Type: t}
	}
	return x
}

func (p *Parser) parseUnary() ast.Expr {
	if p.check(token.MINUS) && p.checkPeek(token.NUMBER) {
		start := p.pos
		p.nextToken()
		p.nextToken()
		return &ast.NumberLit{NodeInfo: p.span(start), Raw: p.textFrom(start)}
	}
	start := p.pos
	return p.parsePostfix(start, p.parsePrimary())
}

func (p *Parser) parsePostfix(start int, x ast.Expr) ast.Expr {
	for {
		switch {
		case p.check(token.DOT):
			p.nextToken()
			name := p.parseWordIdent()
			x = &ast.MemberExpr{NodeInfo: p.span(start), X: x, Name: name}
		case p.check(token.LPAREN):
			args := p.parseArgs()
			x = &ast.CallExpr{NodeInfo: p.span(start), Fun: x, Args: args}
		case p.check(token.LT):
			fun := x
			call, ok := attempt(p, func() *ast.CallExpr {
				targs := p.parseTypeArgs()
				if !p.check(token.LPAREN) {
					p.addError(fmt.Sprintf(ErrUnexpectedToken, p.token.Type, token.LPAREN))
					return nil
				}
				args := p.parseArgs()
				return &ast.CallExpr{NodeInfo: p.span(start), Fun: fun, TypeArgs: targs, Args: args}
			})
			if !ok {
				return x
			}
			x = call
		default:
			return x
		}
	}
}

func (p *Parser) parsePrimary() ast.Expr {
	start := p.pos
	switch p.token.Type {
	case token.IDENT:
		if p.checkPeek(token.ARROW) {
			param := p.parseIdent()
			p.nextToken() // =>
			return p.parseArrowBody(start, []*ast.Ident{param})
		}
		return p.parseIdent()
	case token.THIS:
		p.nextToken()
		return &ast.Ident{NodeInfo: p.span(start), Name: "this"}
	case token.STRING:
		return p.parseStringLit()
	case token.NUMBER:
		p.nextToken()
		return &ast.NumberLit{NodeInfo: p.span(start), Raw: p.textFrom(start)}
	case token.TRUE, token.FALSE:
		v := p.check(token.TRUE)
		p.nextToken()
		return &ast.BoolLit{NodeInfo: p.span(start), Value: v}
	case token.NULL:
		p.nextToken()
		return &ast.NullLit{NodeInfo: p.span(start)}
	case token.LPAREN:
		return p.parseParenOrArrow()
	case token.LBRACE:
		return p.parseObjectExpr()
	case token.LBRACKET:
		return p.parseArrayExpr()
	}
	p.addError(fmt.Sprintf(ErrExpectedExpr, p.token.Type))
	return nil
}

func (p *Parser) parseParenOrArrow() ast.Expr {
	start := p.pos
	isArrow := p.lookahead(func() bool {
		return p.skipBalanced() && p.check(token.ARROW)
	})
	p.nextToken() // (

	if isArrow {
		var params []*ast.Ident
		for !p.check(token.RPAREN) && !p.check(token.EOF) {
			params = append(params, p.parseIdent())
			if !p.match(token.COMMA) {
				break
			}
		}
		p.expect(token.RPAREN)
		p.expect(token.ARROW)
		return p.parseArrowBody(start, params)
	}

	x := p.parseExpr()
	if p.match(token.COLON) {
		t := p.parseType()
		p.expect(token.RPAREN)
		return &ast.TypeCastExpr{NodeInfo: p.span(start), X: x, Type: t}
	}
	p.expect(token.RPAREN)
	return &ast.ParenExpr{NodeInfo: p.span(start), X: x}
}

func (p *Parser) parseArrowBody(start int, params []*ast.Ident) ast.Expr {
	if p.check(token.LBRACE) {
		// block bodies are only kept as raw text
		p.addError(fmt.Sprintf(ErrUnexpectedToken, p.token.Type, "expression body"))
		return nil
	}
	body := p.parseExpr()
	return &ast.ArrowFunc{NodeInfo: p.span(start), Params: params, Body: body}
}

func (p *Parser) parseArgs() []ast.Expr {
	p.expect(token.LPAREN)
	args := []ast.Expr{}
	for !p.check(token.RPAREN) && !p.check(token.EOF) {
		args = append(args, p.parseExpr())
		if !p.match(token.COMMA) {
			break
		}
	}
	p.expect(token.RPAREN)
	return args
}

func (p *Parser) parseObjectExpr() ast.Expr {
	start := p.pos
	p.expect(token.LBRACE)
	obj := &ast.ObjectExpr{}
	for !p.check(token.RBRACE) && !p.check(token.EOF) {
		pstart := p.pos
		if p.match(token.ELLIPSIS) {
			x := p.parseExpr()
			obj.Props = append(obj.Props, &ast.SpreadElement{NodeInfo: p.span(pstart), X: x})
		} else {
			prop := p.parseProperty()
			if prop == nil {
				return nil
			}
			obj.Props = append(obj.Props, prop)
		}
		if !p.match(token.COMMA) {
			break
		}
	}
	p.expect(token.RBRACE)
	obj.NodeInfo = p.span(start)
	return obj
}

func (p *Parser) parseProperty() *ast.Property {
	start := p.pos
	prop := &ast.Property{}
	switch {
	case p.check(token.LBRACKET):
		p.nextToken()
		prop.Key = p.parseExpr()
		prop.Computed = true
		p.expect(token.RBRACKET)
	case p.check(token.STRING):
		prop.Key = p.parseStringLit()
	case p.check(token.NUMBER):
		p.nextToken()
		prop.Key = &ast.NumberLit{NodeInfo: p.span(start), Raw: p.textFrom(start)}
	case token.IsWord(p.token.Type):
		prop.Key = p.parseWordIdent()
	default:
		p.addError(fmt.Sprintf(ErrUnexpectedToken, p.token.Type, "property key"))
		return nil
	}

	switch {
	case p.match(token.COLON):
		prop.Value = p.parseExpr()
	case p.check(token.COMMA) || p.check(token.RBRACE):
		id, ok := prop.Key.(*ast.Ident)
		if !ok || prop.Computed {
			p.addError(fmt.Sprintf(ErrUnexpectedToken, p.token.Type, token.COLON))
			return nil
		}
		prop.Shorthand = true
		prop.Value = &ast.Ident{NodeInfo: id.NodeInfo, Name: id.Name}
	default:
		// methods and accessors
		p.addError(fmt.Sprintf(ErrUnexpectedToken, p.token.Type, token.COLON))
		return nil
	}
	prop.NodeInfo = p.span(start)
	return prop
}

func (p *Parser) parseArrayExpr() ast.Expr {
	start := p.pos
	p.expect(token.LBRACKET)
	arr := &ast.ArrayExpr{Elems: []ast.Expr{}}
	for !p.check(token.RBRACKET) && !p.check(token.EOF) {
		if p.check(token.COMMA) {
			p.addError("array holes are not supported")
			return nil
		}
		arr.Elems = append(arr.Elems, p.parseExpr())
		if !p.match(token.COMMA) {
			break
		}
	}
	p.expect(token.RBRACKET)
	arr.NodeInfo = p.span(start)
	return arr
}

// ---------- Leaf helpers ----------

// parseIdent parses an identifier that is not a reserved word.
func (p *Parser) parseIdent() *ast.Ident {
	start := p.pos
	if !p.check(token.IDENT) {
		p.addError(fmt.Sprintf(ErrUnexpectedToken, p.token.Type, token.IDENT))
		return &ast.Ident{NodeInfo: p.span(start)}
	}
	name := p.token.Literal
	p.nextToken()
	return &ast.Ident{NodeInfo: p.span(start), Name: name}
}

// parseWordIdent parses any word, reserved or not, as an identifier. Member
// names and specifier names allow reserved words.
func (p *Parser) parseWordIdent() *ast.Ident {
	start := p.pos
	if !token.IsWord(p.token.Type) {
		p.addError(fmt.Sprintf(ErrUnexpectedToken, p.token.Type, token.IDENT))
		return &ast.Ident{NodeInfo: p.span(start)}
	}
	name := p.token.Literal
	p.nextToken()
	return &ast.Ident{NodeInfo: p.span(start), Name: name}
}

func (p *Parser) parseStringLit() *ast.StringLit {
	start := p.pos
	if !p.check(token.STRING) {
		p.addError(fmt.Sprintf(ErrUnexpectedToken, p.token.Type, token.STRING))
		return &ast.StringLit{NodeInfo: p.span(start)}
	}
	raw := p.token.Literal
	p.nextToken()
	return &ast.StringLit{NodeInfo: p.span(start), Value: Unquote(raw), Raw: raw}
}

// expectWord consumes the contextual keyword word or adds an error.
func (p *Parser) expectWord(word string) bool {
	if p.checkWord(word) {
		p.nextToken()
		return true
	}
	p.addError(fmt.Sprintf(ErrUnexpectedToken, p.token.Type, word))
	return false
}

// lookahead runs fn and then restores the cursor and error list.
func (p *Parser) lookahead(fn func() bool) bool {
	start, mark := p.pos, len(p.errors)
	ok := fn()
	p.errors = p.errors[:mark]
	p.setPos(start)
	return ok
}

// Unquote decodes a JavaScript string literal including its quotes.
// Malformed escapes decode to the escaped character.
func Unquote(raw string) string {
	if len(raw) < 2 {
		return ""
	}
	body := raw[1 : len(raw)-1]
	if raw[len(raw)-1] != raw[0] {
		body = raw[1:]
	}
	if !strings.ContainsRune(body, '\\') {
		return body
	}

	var sb strings.Builder
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '\\' || i+1 >= len(body) {
			sb.WriteByte(c)
			continue
		}
		i++
		switch e := body[i]; e {
		case 'n':
			sb.WriteByte('\n')
		case 'r':
			sb.WriteByte('\r')
		case 't':
			sb.WriteByte('\t')
		case 'b':
			sb.WriteByte('\b')
		case 'f':
			sb.WriteByte('\f')
		case 'v':
			sb.WriteByte('\v')
		case '0':
			sb.WriteByte(0)
		case '\r':
			if i+1 < len(body) && body[i+1] == '\n' {
				i++
			}
		case '\n':
			// line continuation
		case 'x':
			if r, n := decodeHex(body[i+1:], 2); n > 0 {
				sb.WriteRune(r)
				i += n
			} else {
				sb.WriteByte(e)
			}
		case 'u':
			rest := body[i+1:]
			if strings.HasPrefix(rest, "{") {
				if end := strings.IndexByte(rest, '}'); end > 1 {
					if r, n := decodeHex(rest[1:end], end-1); n == end-1 {
						sb.WriteRune(r)
						i += end + 1
						continue
					}
				}
			} else if r, n := decodeHex(rest, 4); n > 0 {
				sb.WriteRune(r)
				i += n
				continue
			}
			sb.WriteByte(e)
		default:
			r, size := utf8.DecodeRuneInString(body[i:])
			sb.WriteRune(r)
			i += size - 1
		}
	}
	return sb.String()
}

// decodeHex decodes exactly n hex digits from the front of s.
func decodeHex(s string, n int) (rune, int) {
	if len(s) < n || n == 0 {
		return 0, 0
	}
	v, err := strconv.ParseUint(s[:n], 16, 32)
	if err != nil {
		return 0, 0
	}
	return rune(v), n
}

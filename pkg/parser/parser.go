// Package parser provides parsing of TypeScript and Flow source files into the
// ast package's syntax tree.
//
// # Usage
//
//	file, err := parser.ParseFile("src/user.ts", src)
//	if err != nil {
//	    // handle error
//	}
//
// # Grammar Overview
//
// The parser implements a recursive descent parser for the declarations that
// carry type information:
//
//	statement   → import | export | type_alias | interface | class
//	              | var_decl | expr_stmt | raw
//	type_alias  → "type" IDENT [type_params] "=" type
//	interface   → "interface" IDENT [type_params] ["extends" refs] object_type
//	var_decl    → ("const"|"let"|"var") declarator ("," declarator)*
//	declarator  → IDENT [":" type] ["=" expr]
//
// Statements outside this grammar, and statements inside it that fail to
// parse, become RawStmt nodes holding their exact source text. Expressions
// the parser does not model become RawExpr nodes the same way. The printer
// reproduces both verbatim, so a parse never loses code.
//
// See each file for detailed grammar rules for that section.
package parser

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/leapstack-labs/valgen/pkg/ast"
	"github.com/leapstack-labs/valgen/pkg/token"
)

// Parser parses TypeScript or Flow source into an AST.
type Parser struct {
	src     string
	tokens  []token.Token
	pos     int
	token   token.Token // current token
	peek    token.Token // lookahead token
	peek2   token.Token // second lookahead token
	errors  []error
	dialect ast.Dialect

	// comments collected by the lexer, in source order
	comments []*token.Comment
}

// NewParser creates a new parser for the given source.
func NewParser(src string, d ast.Dialect) (*Parser, error) {
	l := NewLexer(src)
	tokens := l.Tokenize()
	if errs := l.Errors(); len(errs) > 0 {
		return nil, errs[0]
	}
	p := &Parser{
		src:      src,
		tokens:   tokens,
		dialect:  d,
		comments: l.Comments,
	}
	p.setPos(0)
	return p, nil
}

// DialectFor picks the dialect from a file extension.
func DialectFor(path string) ast.Dialect {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ts", ".tsx", ".mts", ".cts":
		return ast.TypeScript
	}
	return ast.Flow
}

// ParseFile parses a whole source file.
func ParseFile(path, src string) (*ast.File, error) {
	p, err := NewParser(src, DialectFor(path))
	if err != nil {
		return nil, &FileError{Path: path, Err: err}
	}
	f := p.parseFile()
	f.Path = path
	return f, nil
}

// ParseType parses a single type expression.
func ParseType(src string, d ast.Dialect) (ast.Type, error) {
	p, err := NewParser(src, d)
	if err != nil {
		return nil, err
	}
	t := p.parseType()
	if !p.check(token.EOF) {
		p.addError(fmt.Sprintf(ErrUnexpectedToken, p.token.Type, token.EOF))
	}
	if len(p.errors) > 0 {
		return nil, p.errors[0]
	}
	return t, nil
}

// ParseExpr parses a single expression.
func ParseExpr(src string, d ast.Dialect) (ast.Expr, error) {
	p, err := NewParser(src, d)
	if err != nil {
		return nil, err
	}
	e := p.parseStructuredExpr()
	if !p.check(token.EOF) {
		p.addError(fmt.Sprintf(ErrUnexpectedToken, p.token.Type, token.EOF))
	}
	if len(p.errors) > 0 {
		return nil, p.errors[0]
	}
	return e, nil
}

// ---------- Token Helpers ----------

// setPos moves the cursor to token index i.
func (p *Parser) setPos(i int) {
	p.pos = i
	p.token = p.tokenAt(i)
	p.peek = p.tokenAt(i + 1)
	p.peek2 = p.tokenAt(i + 2)
}

func (p *Parser) tokenAt(i int) token.Token {
	if i >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[i]
}

// nextToken advances to the next token.
func (p *Parser) nextToken() {
	if p.token.Type != token.EOF {
		p.setPos(p.pos + 1)
	}
}

// check returns true if the current token is of the given type.
func (p *Parser) check(t token.TokenType) bool {
	return p.token.Type == t
}

// checkPeek returns true if the peek token is of the given type.
func (p *Parser) checkPeek(t token.TokenType) bool {
	return p.peek.Type == t
}

// checkWord returns true if the current token is the identifier word.
func (p *Parser) checkWord(word string) bool {
	return p.token.Type == token.IDENT && p.token.Literal == word
}

// match consumes the current token if it matches and returns true.
func (p *Parser) match(t token.TokenType) bool {
	if p.check(t) {
		p.nextToken()
		return true
	}
	return false
}

// expect consumes the current token if it matches, otherwise adds an error.
func (p *Parser) expect(t token.TokenType) bool {
	if p.check(t) {
		p.nextToken()
		return true
	}
	p.addError(fmt.Sprintf(ErrUnexpectedToken, p.token.Type, t))
	return false
}

// addError adds a parse error.
func (p *Parser) addError(msg string) {
	p.errors = append(p.errors, &ParseError{
		Pos:     p.token.Pos,
		Message: msg,
	})
}

// failed reports whether errors were added since mark.
func (p *Parser) failed(mark int) bool {
	return len(p.errors) > mark
}

// attempt runs fn and rewinds both the cursor and the error list when fn
// reports an error.
func attempt[T any](p *Parser, fn func() T) (T, bool) {
	start, mark := p.pos, len(p.errors)
	v := fn()
	if p.failed(mark) {
		p.errors = p.errors[:mark]
		p.setPos(start)
		var zero T
		return zero, false
	}
	return v, true
}

// span returns node info covering tokens from start up to the last consumed token.
func (p *Parser) span(start int) ast.NodeInfo {
	first := p.tokenAt(start)
	end := first.Pos
	if p.pos > start {
		last := p.tokenAt(p.pos - 1)
		end = token.Position{
			Line:   last.Pos.Line,
			Column: last.Pos.Column + (last.End - last.Pos.Offset),
			Offset: last.End,
		}
	}
	return ast.NodeInfo{Span: token.Span{Start: first.Pos, End: end}}
}

// textFrom returns the source text of the tokens from start to the cursor.
func (p *Parser) textFrom(start int) string {
	if p.pos <= start {
		return ""
	}
	return p.src[p.tokenAt(start).Pos.Offset:p.tokenAt(p.pos-1).End]
}

// skipBalanced consumes a bracketed group starting at the current opening
// token, including the matching closing token.
func (p *Parser) skipBalanced() bool {
	depth := 0
	for !p.check(token.EOF) {
		switch p.token.Type {
		case token.LBRACE, token.LBRACE_PIPE, token.LPAREN, token.LBRACKET:
			depth++
		case token.RBRACE, token.PIPE_RBRACE, token.RPAREN, token.RBRACKET:
			depth--
		}
		p.nextToken()
		if depth <= 0 {
			return depth == 0
		}
	}
	p.addError(fmt.Sprintf(ErrUnbalanced, "brackets"))
	return false
}

// skipAngles consumes a <...> group, such as a type parameter list.
func (p *Parser) skipAngles() bool {
	depth := 0
	for !p.check(token.EOF) {
		switch p.token.Type {
		case token.LT:
			depth++
		case token.GT:
			depth--
		case token.LBRACE, token.LBRACE_PIPE, token.LPAREN, token.LBRACKET:
			if !p.skipBalanced() {
				return false
			}
			continue
		case token.SEMICOLON:
			p.addError(fmt.Sprintf(ErrUnbalanced, "<"))
			return false
		}
		p.nextToken()
		if depth <= 0 {
			return depth == 0
		}
	}
	p.addError(fmt.Sprintf(ErrUnbalanced, "<"))
	return false
}

// ---------- File ----------

func (p *Parser) parseFile() *ast.File {
	f := &ast.File{Dialect: p.dialect}
	semis, unterminated := 0, 0
	for !p.check(token.EOF) {
		start := p.pos
		stmt := p.parseStatement()
		info := stmt.Info()
		*info = mergeInfo(*info, p.span(start))
		info.Raw = p.textFrom(start)
		f.Body = append(f.Body, stmt)

		switch p.tokenAt(p.pos - 1).Type {
		case token.SEMICOLON:
			semis++
		case token.RBRACE:
			// blocks say nothing about semicolon style
		default:
			unterminated++
		}
	}
	f.Semicolons = semis > unterminated
	f.SingleQuote = p.prefersSingleQuotes()
	p.attachLayout(f)
	return f
}

// mergeInfo keeps the comments of a node while taking the span of outer.
func mergeInfo(n, outer ast.NodeInfo) ast.NodeInfo {
	outer.LeadingComments = n.LeadingComments
	outer.TrailingComments = n.TrailingComments
	return outer
}

func (p *Parser) prefersSingleQuotes() bool {
	single, double := 0, 0
	for _, t := range p.tokens {
		if t.Type != token.STRING || t.Literal == "" {
			continue
		}
		if t.Literal[0] == '\'' {
			single++
		} else {
			double++
		}
	}
	return single >= double
}

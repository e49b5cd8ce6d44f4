package parser

import (
	"strings"

	"github.com/leapstack-labs/valgen/pkg/token"
)

// Lexer tokenizes TypeScript and Flow source.
type Lexer struct {
	input     string
	pos       int  // current position in input
	readPos   int  // reading position (after current char)
	ch        byte // current char under examination
	line      int  // current line number (1-based)
	lineStart int  // offset of the first byte of the current line

	// prev is the last significant token, used to tell regex literals
	// from division.
	prev    token.TokenType
	newline bool

	errors []error

	// Comments collected during lexing (for comment attachment)
	Comments []*token.Comment
}

// NewLexer creates a new Lexer for the given input.
func NewLexer(input string) *Lexer {
	l := &Lexer{
		input: input,
		line:  1,
		prev:  token.ILLEGAL,
	}
	l.readChar()
	return l
}

// readChar advances to the next character.
func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.lineStart = l.readPos
	}
	if l.readPos >= len(l.input) {
		l.ch = 0 // ASCII NUL = EOF
	} else {
		l.ch = l.input[l.readPos]
	}
	l.pos = l.readPos
	l.readPos++
}

// peekChar returns the next character without advancing.
func (l *Lexer) peekChar() byte {
	if l.readPos >= len(l.input) {
		return 0
	}
	return l.input[l.readPos]
}

func (l *Lexer) peekCharN(n int) byte {
	i := l.pos + n
	if i >= len(l.input) {
		return 0
	}
	return l.input[i]
}

func (l *Lexer) atEOF() bool {
	return l.pos >= len(l.input)
}

// currentPos returns the current position.
func (l *Lexer) currentPos() token.Position {
	return token.Position{
		Line:   l.line,
		Column: l.pos - l.lineStart + 1,
		Offset: l.pos,
	}
}

// Tokenize returns all tokens up to and including EOF.
func (l *Lexer) Tokenize() []token.Token {
	var tokens []token.Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == token.EOF {
			return tokens
		}
	}
}

// Errors returns the lexical errors found so far.
func (l *Lexer) Errors() []error {
	return l.errors
}

// NextToken returns the next token.
func (l *Lexer) NextToken() token.Token {
	l.newline = false
	l.skipWhitespaceAndComments()

	pos := l.currentPos()
	start := l.pos
	tok := token.Token{Pos: pos, NewlineBefore: l.newline}

	switch {
	case l.atEOF():
		tok.Type = token.EOF
	case isIdentStart(l.ch):
		tok.Literal = l.readIdentifier()
		tok.Type = token.LookupIdent(tok.Literal)
	case isDigit(l.ch) || (l.ch == '.' && isDigit(l.peekChar())):
		tok.Type = token.NUMBER
		tok.Literal = l.readNumber()
	case l.ch == '\'' || l.ch == '"':
		lit, ok := l.readString()
		tok.Type = token.STRING
		if !ok {
			tok.Type = token.ILLEGAL
		}
		tok.Literal = lit
	case l.ch == '`':
		tok.Type = token.TEMPLATE
		tok.Literal = l.readTemplate(pos)
	case l.ch == '/' && l.regexAllowed():
		lit, ok := l.readRegex()
		tok.Type = token.REGEX
		if !ok {
			tok.Type = token.OPERATOR
		}
		tok.Literal = lit
	default:
		tok.Type = l.readPunct()
		tok.Literal = l.input[start:l.pos]
	}

	tok.End = l.pos
	if tok.Type != token.EOF {
		l.prev = tok.Type
	}
	return tok
}

// readPunct consumes one punctuation token and returns its type.
func (l *Lexer) readPunct() token.TokenType {
	ch := l.ch
	next := l.peekChar()
	l.readChar()

	switch ch {
	case '{':
		if next == '|' {
			l.readChar()
			return token.LBRACE_PIPE
		}
		return token.LBRACE
	case '}':
		return token.RBRACE
	case '(':
		return token.LPAREN
	case ')':
		return token.RPAREN
	case '[':
		return token.LBRACKET
	case ']':
		return token.RBRACKET
	case ';':
		return token.SEMICOLON
	case ',':
		return token.COMMA
	case ':':
		return token.COLON
	case '@':
		return token.AT
	case '#':
		return token.HASH
	case '~':
		return token.OPERATOR
	case '.':
		if next == '.' && l.peekChar() == '.' {
			l.readChar()
			l.readChar()
			return token.ELLIPSIS
		}
		return token.DOT
	case '?':
		switch {
		case next == '.' && !isDigit(l.peekCharN(1)):
			l.readChar()
			return token.QDOT
		case next == '?':
			l.readChar()
			if l.ch == '=' {
				l.readChar()
			}
			return token.OPERATOR
		}
		return token.QUESTION
	case '=':
		switch next {
		case '>':
			l.readChar()
			return token.ARROW
		case '=':
			l.readChar()
			if l.ch == '=' {
				l.readChar()
			}
			return token.OPERATOR
		}
		return token.ASSIGN
	case '|':
		switch next {
		case '}':
			l.readChar()
			return token.PIPE_RBRACE
		case '|', '=':
			l.readChar()
			if l.ch == '=' {
				l.readChar()
			}
			return token.OPERATOR
		}
		return token.PIPE
	case '&':
		if next == '&' || next == '=' {
			l.readChar()
			if l.ch == '=' {
				l.readChar()
			}
			return token.OPERATOR
		}
		return token.AMP
	case '<':
		// '<' is always a single token so generic argument lists parse.
		return token.LT
	case '>':
		// '>' is always a single token so `Array<Array<T>>` closes twice.
		return token.GT
	case '*':
		if next == '*' || next == '=' {
			l.readChar()
			if l.ch == '=' {
				l.readChar()
			}
			return token.OPERATOR
		}
		return token.STAR
	case '+':
		if next == '+' || next == '=' {
			l.readChar()
			return token.OPERATOR
		}
		return token.PLUS
	case '-':
		if next == '-' || next == '=' {
			l.readChar()
			return token.OPERATOR
		}
		return token.MINUS
	case '!':
		if next == '=' {
			l.readChar()
			if l.ch == '=' {
				l.readChar()
			}
			return token.OPERATOR
		}
		return token.BANG
	case '/', '%', '^':
		if next == '=' {
			l.readChar()
		}
		return token.OPERATOR
	}
	return token.ILLEGAL
}

// regexAllowed reports whether a '/' here starts a regular expression.
func (l *Lexer) regexAllowed() bool {
	if l.peekChar() == '/' || l.peekChar() == '*' {
		return false
	}
	switch l.prev {
	case token.IDENT, token.NUMBER, token.STRING, token.TEMPLATE, token.REGEX,
		token.RPAREN, token.RBRACKET, token.THIS, token.SUPER,
		token.TRUE, token.FALSE, token.NULL:
		return false
	}
	return true
}

// skipWhitespaceAndComments skips whitespace and collects comments.
func (l *Lexer) skipWhitespaceAndComments() {
	for {
		for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' || l.ch == '\f' || l.ch == '\v' {
			if l.ch == '\n' {
				l.newline = true
			}
			l.readChar()
		}
		if l.atEOF() {
			return
		}

		if l.ch == '/' && l.peekChar() == '/' {
			l.collectLineComment()
			continue
		}

		if l.ch == '/' && l.peekChar() == '*' {
			l.collectBlockComment()
			continue
		}

		return
	}
}

// collectLineComment collects a line comment.
func (l *Lexer) collectLineComment() {
	startPos := l.currentPos()
	startOffset := l.pos

	for l.ch != '\n' && !l.atEOF() {
		l.readChar()
	}

	text := strings.TrimRight(l.input[startOffset:l.pos], "\r")
	l.Comments = append(l.Comments, &token.Comment{
		Kind: token.LineComment,
		Text: text,
		Span: token.Span{Start: startPos, End: l.currentPos()},
	})
}

// collectBlockComment collects a block comment.
func (l *Lexer) collectBlockComment() {
	startPos := l.currentPos()
	startOffset := l.pos

	l.readChar() // skip '/'
	l.readChar() // skip '*'

	closed := false
	for !l.atEOF() {
		if l.ch == '\n' {
			l.newline = true
		}
		if l.ch == '*' && l.peekChar() == '/' {
			l.readChar() // skip '*'
			l.readChar() // skip '/'
			closed = true
			break
		}
		l.readChar()
	}
	if !closed {
		l.addError(startPos, ErrUnterminatedComment)
	}

	l.Comments = append(l.Comments, &token.Comment{
		Kind: token.BlockComment,
		Text: l.input[startOffset:l.pos],
		Span: token.Span{Start: startPos, End: l.currentPos()},
	})
}

// readString reads a quoted string literal and returns its source text,
// quotes included. A quote without a closing partner on the same line is
// returned alone and reported as not ok; apostrophes in JSX text look like
// that.
func (l *Lexer) readString() (string, bool) {
	quote := l.ch
	start := l.pos
	l.readChar() // skip opening quote

	for !l.atEOF() && l.ch != quote && l.ch != '\n' {
		if l.ch == '\\' {
			l.readChar()
		}
		l.readChar()
	}
	if l.ch != quote {
		l.rewind(start + 1)
		return l.input[start:l.pos], false
	}
	l.readChar() // skip closing quote
	return l.input[start:l.pos], true
}

// rewind moves the cursor back to offset on the current line.
func (l *Lexer) rewind(offset int) {
	l.ch = 0
	l.readPos = offset
	l.readChar()
}

// readTemplate reads a template literal including nested substitutions.
func (l *Lexer) readTemplate(pos token.Position) string {
	start := l.pos
	l.readChar() // skip opening backtick
	if !l.skipTemplateBody() {
		l.addError(pos, ErrUnterminatedTemplate)
	}
	return l.input[start:l.pos]
}

// skipTemplateBody consumes template characters up to and including the
// closing backtick.
func (l *Lexer) skipTemplateBody() bool {
	for !l.atEOF() {
		switch {
		case l.ch == '\\':
			l.readChar()
			l.readChar()
		case l.ch == '`':
			l.readChar()
			return true
		case l.ch == '$' && l.peekChar() == '{':
			l.readChar()
			l.readChar()
			if !l.skipSubstitution() {
				return false
			}
		default:
			l.readChar()
		}
	}
	return false
}

// skipSubstitution consumes the code of a ${...} substitution.
func (l *Lexer) skipSubstitution() bool {
	depth := 1
	for !l.atEOF() {
		switch l.ch {
		case '{':
			depth++
			l.readChar()
		case '}':
			depth--
			l.readChar()
			if depth == 0 {
				return true
			}
		case '\'', '"':
			l.readString()
		case '`':
			l.readChar()
			if !l.skipTemplateBody() {
				return false
			}
		default:
			l.readChar()
		}
	}
	return false
}

// readRegex reads a regular expression literal with its flags. A slash
// with no closing partner on the line is returned alone and reported as
// not ok.
func (l *Lexer) readRegex() (string, bool) {
	start := l.pos
	l.readChar() // skip '/'
	inClass := false
	for {
		if l.atEOF() || l.ch == '\n' {
			l.rewind(start + 1)
			return l.input[start:l.pos], false
		}
		if l.ch == '\\' {
			l.readChar()
			if l.ch != '\n' {
				l.readChar()
			}
			continue
		}
		if l.ch == '[' {
			inClass = true
		} else if l.ch == ']' {
			inClass = false
		} else if l.ch == '/' && !inClass {
			l.readChar()
			break
		}
		l.readChar()
	}
	for isIdentPart(l.ch) {
		l.readChar()
	}
	return l.input[start:l.pos], true
}

// readIdentifier reads an identifier or reserved word.
func (l *Lexer) readIdentifier() string {
	start := l.pos
	for isIdentPart(l.ch) {
		l.readChar()
	}
	return l.input[start:l.pos]
}

// readNumber reads a numeric literal (decimal, hex/octal/binary, bigint).
func (l *Lexer) readNumber() string {
	start := l.pos
	if l.ch == '0' && strings.ContainsRune("xXoObB", rune(l.peekChar())) {
		l.readChar()
		l.readChar()
		for isHexDigit(l.ch) || l.ch == '_' {
			l.readChar()
		}
	} else {
		for isDigit(l.ch) || l.ch == '_' {
			l.readChar()
		}
		if l.ch == '.' {
			l.readChar()
			for isDigit(l.ch) || l.ch == '_' {
				l.readChar()
			}
		}
		if l.ch == 'e' || l.ch == 'E' {
			l.readChar()
			if l.ch == '+' || l.ch == '-' {
				l.readChar()
			}
			for isDigit(l.ch) {
				l.readChar()
			}
		}
	}
	if l.ch == 'n' {
		l.readChar()
	}
	return l.input[start:l.pos]
}

func (l *Lexer) addError(pos token.Position, msg string) {
	l.errors = append(l.errors, &LexError{Pos: pos, Message: msg})
}

func isIdentStart(ch byte) bool {
	return ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z' || ch == '_' || ch == '$' || ch >= 0x80
}

func isIdentPart(ch byte) bool {
	return isIdentStart(ch) || isDigit(ch)
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isHexDigit(ch byte) bool {
	return isDigit(ch) || ch >= 'a' && ch <= 'f' || ch >= 'A' && ch <= 'F'
}

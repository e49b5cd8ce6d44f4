package parser

import (
	"testing"

	"github.com/leapstack-labs/valgen/pkg/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tokenTypes(src string) []token.TokenType {
	var types []token.TokenType
	for _, tok := range NewLexer(src).Tokenize() {
		types = append(types, tok.Type)
	}
	return types
}

func TestLexerPunctuation(t *testing.T) {
	tests := []struct {
		src  string
		want []token.TokenType
	}{
		{"{| a |}", []token.TokenType{token.LBRACE_PIPE, token.IDENT, token.PIPE_RBRACE, token.EOF}},
		{"a?.b", []token.TokenType{token.IDENT, token.QDOT, token.IDENT, token.EOF}},
		{"...x", []token.TokenType{token.ELLIPSIS, token.IDENT, token.EOF}},
		{"() => 1", []token.TokenType{token.LPAREN, token.RPAREN, token.ARROW, token.NUMBER, token.EOF}},
		{"A<B<C>>", []token.TokenType{token.IDENT, token.LT, token.IDENT, token.LT, token.IDENT, token.GT, token.GT, token.EOF}},
		{"a === b", []token.TokenType{token.IDENT, token.OPERATOR, token.IDENT, token.EOF}},
		{"?string", []token.TokenType{token.QUESTION, token.IDENT, token.EOF}},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			assert.Equal(t, tt.want, tokenTypes(tt.src))
		})
	}
}

func TestLexerLiterals(t *testing.T) {
	toks := NewLexer(`'a\'b' "c" .5 0x1F 10n` + "`x${y}z`").Tokenize()
	require.Len(t, toks, 7)
	assert.Equal(t, `'a\'b'`, toks[0].Literal)
	assert.Equal(t, token.STRING, toks[1].Type)
	assert.Equal(t, ".5", toks[2].Literal)
	assert.Equal(t, "0x1F", toks[3].Literal)
	assert.Equal(t, "10n", toks[4].Literal)
	assert.Equal(t, token.TEMPLATE, toks[5].Type)
	assert.Equal(t, "`x${y}z`", toks[5].Literal)
}

func TestLexerRegexVersusDivision(t *testing.T) {
	assert.Equal(t, []token.TokenType{token.IDENT, token.OPERATOR, token.IDENT, token.EOF}, tokenTypes("a / b"))
	assert.Equal(t, []token.TokenType{token.ASSIGN, token.REGEX, token.EOF}, tokenTypes("= /a+/g"))
}

func TestLexerUnclosedQuoteInText(t *testing.T) {
	toks := NewLexer("don't stop\nnext").Tokenize()
	require.Len(t, toks, 6)
	assert.Equal(t, token.ILLEGAL, toks[1].Type)
	assert.Equal(t, "'", toks[1].Literal)
	assert.Equal(t, "t", toks[2].Literal)
	assert.True(t, toks[4].NewlineBefore)
	assert.Equal(t, 2, toks[4].Pos.Line)
}

func TestLexerPositionsAndNewlines(t *testing.T) {
	toks := NewLexer("a\n  bb").Tokenize()
	require.Len(t, toks, 3)
	assert.Equal(t, token.Position{Line: 1, Column: 1, Offset: 0}, toks[0].Pos)
	assert.False(t, toks[0].NewlineBefore)
	assert.Equal(t, token.Position{Line: 2, Column: 3, Offset: 4}, toks[1].Pos)
	assert.True(t, toks[1].NewlineBefore)
	assert.Equal(t, 6, toks[1].End)
}

func TestLexerComments(t *testing.T) {
	l := NewLexer("// one\na /* two */ b")
	toks := l.Tokenize()
	require.Len(t, toks, 3)
	require.Len(t, l.Comments, 2)
	assert.True(t, l.Comments[0].IsLineComment())
	assert.Equal(t, " two ", l.Comments[1].Value())
	assert.True(t, toks[0].NewlineBefore)
	assert.False(t, toks[1].NewlineBefore)
}

func TestLexerUnterminatedComment(t *testing.T) {
	l := NewLexer("a /* b")
	l.Tokenize()
	require.Len(t, l.Errors(), 1)
	assert.Contains(t, l.Errors()[0].Error(), ErrUnterminatedComment)
}

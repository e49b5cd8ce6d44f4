package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookupIdent(t *testing.T) {
	tests := []struct {
		word string
		want TokenType
	}{
		{"import", IMPORT},
		{"export", EXPORT},
		{"null", NULL},
		{"void", VOID},
		{"type", IDENT},
		{"interface", IDENT},
		{"readonly", IDENT},
		{"$Exact", IDENT},
	}
	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			assert.Equal(t, tt.want, LookupIdent(tt.word))
		})
	}
}

func TestTokenTypeString(t *testing.T) {
	assert.Equal(t, "{|", LBRACE_PIPE.String())
	assert.Equal(t, "=>", ARROW.String())
	assert.Equal(t, "class", CLASS.String())
	assert.Equal(t, "TOKEN(-1)", TokenType(-1).String())
}

func TestIsWord(t *testing.T) {
	assert.True(t, IsWord(IDENT))
	assert.True(t, IsWord(DEFAULT))
	assert.True(t, IsWord(NULL))
	assert.False(t, IsWord(STRING))
	assert.False(t, IsWord(LBRACE))
}

func TestCommentValue(t *testing.T) {
	line := &Comment{Kind: LineComment, Text: "// @gen-typed-validators type: any"}
	block := &Comment{Kind: BlockComment, Text: "/* hello */"}
	assert.Equal(t, " @gen-typed-validators type: any", line.Value())
	assert.Equal(t, " hello ", block.Value())
	assert.True(t, line.IsLineComment())
	assert.True(t, block.IsBlockComment())
}

func TestSpan(t *testing.T) {
	s := Span{Start: Position{Line: 1, Column: 1, Offset: 0}, End: Position{Line: 1, Column: 5, Offset: 4}}
	assert.True(t, s.IsValid())
	assert.True(t, s.Contains(0))
	assert.False(t, s.Contains(4))
	assert.Equal(t, "1:5", s.End.String())
}

// Package token defines the token types for TypeScript and Flow source.
//
// Only reserved words get their own token type. Contextual words such as
// type, as, from, readonly or interface are lexed as IDENT and recognized
// by the parser from their literal.
package token

import "fmt"

// TokenType represents the type of a lexical token.
//
//nolint:revive // Accept stutter as token.TokenType is clear and widely used
type TokenType int32

const (
	// Special tokens
	EOF TokenType = iota
	ILLEGAL

	// Literals
	IDENT    // foo, $Exact, _bar
	NUMBER   // 123, 0x1f, 1_000, 4.5e3
	STRING   // 'hello', "hello"
	TEMPLATE // `hello ${name}`
	REGEX    // /ab+c/gi

	// Punctuation
	LBRACE      // {
	RBRACE      // }
	LBRACE_PIPE // {|
	PIPE_RBRACE // |}
	LPAREN      // (
	RPAREN      // )
	LBRACKET    // [
	RBRACKET    // ]
	SEMICOLON   // ;
	COMMA       // ,
	DOT         // .
	ELLIPSIS    // ...
	QUESTION    // ?
	QDOT        // ?.
	COLON       // :
	ASSIGN      // =
	ARROW       // =>
	PIPE        // |
	AMP         // &
	LT          // <
	GT          // >
	STAR        // *
	PLUS        // +
	MINUS       // -
	BANG        // !
	AT          // @
	HASH        // #
	OPERATOR    // any other operator, e.g. ==, &&, +=, /

	// Reserved words (alphabetical)
	BREAK
	CASE
	CATCH
	CLASS
	CONST
	CONTINUE
	DEBUGGER
	DEFAULT
	DELETE
	DO
	ELSE
	ENUM
	EXPORT
	EXTENDS
	FALSE
	FINALLY
	FOR
	FUNCTION
	IF
	IMPORT
	IN
	INSTANCEOF
	LET
	NEW
	NULL
	RETURN
	SUPER
	SWITCH
	THIS
	THROW
	TRUE
	TRY
	TYPEOF
	VAR
	VOID
	WHILE
	WITH
	YIELD
)

// String returns a human-readable representation of the token type.
func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TOKEN(%d)", t)
}

var tokenNames = map[TokenType]string{
	EOF:      "EOF",
	ILLEGAL:  "ILLEGAL",
	IDENT:    "IDENT",
	NUMBER:   "NUMBER",
	STRING:   "STRING",
	TEMPLATE: "TEMPLATE",
	REGEX:    "REGEX",

	LBRACE:      "{",
	RBRACE:      "}",
	LBRACE_PIPE: "{|",
	PIPE_RBRACE: "|}",
	LPAREN:      "(",
	RPAREN:      ")",
	LBRACKET:    "[",
	RBRACKET:    "]",
	SEMICOLON:   ";",
	COMMA:       ",",
	DOT:         ".",
	ELLIPSIS:    "...",
	QUESTION:    "?",
	QDOT:        "?.",
	COLON:       ":",
	ASSIGN:      "=",
	ARROW:       "=>",
	PIPE:        "|",
	AMP:         "&",
	LT:          "<",
	GT:          ">",
	STAR:        "*",
	PLUS:        "+",
	MINUS:       "-",
	BANG:        "!",
	AT:          "@",
	HASH:        "#",
	OPERATOR:    "OPERATOR",
}

// keywords maps reserved words to their token types.
var keywords = map[string]TokenType{
	"break":      BREAK,
	"case":       CASE,
	"catch":      CATCH,
	"class":      CLASS,
	"const":      CONST,
	"continue":   CONTINUE,
	"debugger":   DEBUGGER,
	"default":    DEFAULT,
	"delete":     DELETE,
	"do":         DO,
	"else":       ELSE,
	"enum":       ENUM,
	"export":     EXPORT,
	"extends":    EXTENDS,
	"false":      FALSE,
	"finally":    FINALLY,
	"for":        FOR,
	"function":   FUNCTION,
	"if":         IF,
	"import":     IMPORT,
	"in":         IN,
	"instanceof": INSTANCEOF,
	"let":        LET,
	"new":        NEW,
	"null":       NULL,
	"return":     RETURN,
	"super":      SUPER,
	"switch":     SWITCH,
	"this":       THIS,
	"throw":      THROW,
	"true":       TRUE,
	"try":        TRY,
	"typeof":     TYPEOF,
	"var":        VAR,
	"void":       VOID,
	"while":      WHILE,
	"with":       WITH,
	"yield":      YIELD,
}

func init() {
	for word, t := range keywords {
		tokenNames[t] = word
	}
}

// LookupIdent returns the token type for the given identifier.
// If the identifier is a reserved word, the keyword token type is returned.
// Otherwise, IDENT is returned.
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}

// IsKeyword returns true if the token type is a reserved word.
func IsKeyword(t TokenType) bool {
	return t >= BREAK && t <= YIELD
}

// IsWord returns true for identifiers and reserved words. Property names
// and member names accept any word.
func IsWord(t TokenType) bool {
	return t == IDENT || IsKeyword(t)
}

// Token represents a lexical token with position information.
type Token struct {
	Type    TokenType
	Literal string
	Pos     Position
	// End is the byte offset just past the token.
	End int
	// NewlineBefore reports a line break between this token and the previous one.
	NewlineBefore bool
}

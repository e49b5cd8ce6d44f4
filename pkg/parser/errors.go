package parser

import (
	"fmt"

	"github.com/leapstack-labs/valgen/pkg/token"
)

// ParseError represents a parsing error with position information.
type ParseError struct {
	Pos     token.Position
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at line %d, column %d: %s", e.Pos.Line, e.Pos.Column, e.Message)
}

// LexError represents a lexical analysis error.
type LexError struct {
	Pos     token.Position
	Message string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("lexer error at line %d, column %d: %s", e.Pos.Line, e.Pos.Column, e.Message)
}

// FileError attaches a file path to a parse or lex error.
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

// Common error messages
const (
	ErrUnexpectedToken      = "unexpected token %s, expected %s"
	ErrUnterminatedTemplate = "unterminated template literal"
	ErrUnterminatedComment  = "unterminated block comment"
	ErrUnbalanced           = "unbalanced %s"
	ErrExpectedType         = "expected a type, got %s"
	ErrExpectedExpr         = "expected an expression, got %s"
	ErrMissingSemicolon     = "missing semicolon before %s"
)

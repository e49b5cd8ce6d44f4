// Package ast defines the syntax tree for the TypeScript and Flow subset that
// valgen reads and rewrites.
//
// Statements that the parser understands are modelled structurally. Anything
// else is kept as a RawStmt or RawExpr holding its exact source text, so files
// round-trip through the printer without losing code the engine never touches.
package ast

import "github.com/leapstack-labs/valgen/pkg/token"

// Dialect selects between TypeScript and Flow syntax rules.
type Dialect int

// Supported dialects.
const (
	TypeScript Dialect = iota
	Flow
)

func (d Dialect) String() string {
	if d == Flow {
		return "flow"
	}
	return "typescript"
}

// Node is implemented by every syntax tree node.
type Node interface {
	GetSpan() token.Span
}

// Statement represents a top-level statement.
type Statement interface {
	Node
	Info() *NodeInfo
	stmtNode()
}

// Expr represents an expression.
type Expr interface {
	Node
	exprNode()
}

// Type represents a type expression.
type Type interface {
	Node
	typeNode()
}

// Member represents a member of an object type or interface body.
type Member interface {
	Node
	memberNode()
}

// ImportSpec represents one specifier of an import declaration.
type ImportSpec interface {
	Node
	importSpecNode()
}

// NodeInfo provides common fields for all AST nodes.
// Embed this in node types that need position/comment tracking.
type NodeInfo struct {
	Span             token.Span
	LeadingComments  []*token.Comment
	TrailingComments []*token.Comment

	// Raw is the original source text of a top-level statement. The printer
	// emits it verbatim while it is non-empty; Touch clears it.
	Raw string
	// Leading is the source text between the previous statement and this
	// one: whitespace and leading comments.
	Leading string
	// Trailing is the whitespace and comments following the statement on
	// its last line.
	Trailing string
}

// GetSpan returns the node's source span.
func (n *NodeInfo) GetSpan() token.Span {
	return n.Span
}

// Info returns the node info itself. Statements use it to reach shared fields.
func (n *NodeInfo) Info() *NodeInfo {
	return n
}

// AddLeadingComment adds a leading comment to the node.
func (n *NodeInfo) AddLeadingComment(c *token.Comment) {
	n.LeadingComments = append(n.LeadingComments, c)
}

// AddTrailingComment adds a trailing comment to the node.
func (n *NodeInfo) AddTrailingComment(c *token.Comment) {
	n.TrailingComments = append(n.TrailingComments, c)
}

// Touch marks the node as modified so the printer re-renders it.
func (n *NodeInfo) Touch() {
	n.Raw = ""
}

// File is a parsed source file.
type File struct {
	NodeInfo
	Path    string
	Dialect Dialect
	Body    []Statement
	// Comments holds comments after the last statement.
	Comments []*token.Comment
	// Tail is the source text after the last statement.
	Tail string

	// Semicolons and SingleQuote record the file's dominant style so new code
	// matches it.
	Semicolons  bool
	SingleQuote bool
}

// Index returns the position of stmt in the file body, or -1.
func (f *File) Index(stmt Statement) int {
	for i, s := range f.Body {
		if s == stmt {
			return i
		}
	}
	return -1
}

// InsertAfter inserts stmts right after anchor. If anchor is not part of the
// body, the statements are appended.
func (f *File) InsertAfter(anchor Statement, stmts ...Statement) {
	i := f.Index(anchor)
	if i < 0 {
		f.Body = append(f.Body, stmts...)
		return
	}
	body := make([]Statement, 0, len(f.Body)+len(stmts))
	body = append(body, f.Body[:i+1]...)
	body = append(body, stmts...)
	body = append(body, f.Body[i+1:]...)
	f.Body = body
}

// Remove deletes stmt from the body and reports whether it was present.
func (f *File) Remove(stmt Statement) bool {
	i := f.Index(stmt)
	if i < 0 {
		return false
	}
	f.Body = append(f.Body[:i:i], f.Body[i+1:]...)
	return true
}

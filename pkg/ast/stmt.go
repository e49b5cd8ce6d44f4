package ast

// ImportKind is the type-only flag of an import or export.
type ImportKind string

// Import kinds.
const (
	ImportValue  ImportKind = ""
	ImportType   ImportKind = "type"
	ImportTypeof ImportKind = "typeof"
)

// ---------- Statements ----------

// ImportDecl represents an import declaration.
//
//	import type { A as B, type C } from './x'
type ImportDecl struct {
	NodeInfo
	Kind       ImportKind
	Specifiers []ImportSpec
	Source     *StringLit
}

func (*ImportDecl) stmtNode() {}

// ImportDefaultSpec is the default binding of an import: `import Foo from`.
type ImportDefaultSpec struct {
	NodeInfo
	Local *Ident
}

func (*ImportDefaultSpec) importSpecNode() {}

// ImportNamespaceSpec is a namespace binding: `import * as ns from`.
type ImportNamespaceSpec struct {
	NodeInfo
	Local *Ident
}

func (*ImportNamespaceSpec) importSpecNode() {}

// ImportSpecifier is a named binding: `{ type Imported as Local }`.
type ImportSpecifier struct {
	NodeInfo
	Kind     ImportKind
	Imported Expr // *Ident or *StringLit
	Local    *Ident
}

func (*ImportSpecifier) importSpecNode() {}

// ExportNamedDecl represents `export <decl>` or `export { a as b } [from 'x']`.
type ExportNamedDecl struct {
	NodeInfo
	Kind       ImportKind
	Decl       Statement
	Specifiers []*ExportSpecifier
	Source     *StringLit
}

func (*ExportNamedDecl) stmtNode() {}

// ExportSpecifier is one entry of an export list.
type ExportSpecifier struct {
	NodeInfo
	Local    Expr // *Ident or *StringLit
	Exported Expr // *Ident or *StringLit
}

// ExportDefaultDecl represents `export default ...`. Exactly one of Decl and
// Expr is set.
type ExportDefaultDecl struct {
	NodeInfo
	Decl Statement
	Expr Expr
}

func (*ExportDefaultDecl) stmtNode() {}

// ExportAllDecl represents `export * [as ns] from 'x'`.
type ExportAllDecl struct {
	NodeInfo
	Exported *Ident
	Source   *StringLit
}

func (*ExportAllDecl) stmtNode() {}

// TypeAliasDecl represents `type Name<T> = Type`.
type TypeAliasDecl struct {
	NodeInfo
	Name *Ident
	// TypeParams is the source text of the type parameter list, e.g. "<T>".
	TypeParams string
	Type       Type
}

func (*TypeAliasDecl) stmtNode() {}

// InterfaceDecl represents `interface Name extends A, B { ... }`.
type InterfaceDecl struct {
	NodeInfo
	Name       *Ident
	TypeParams string
	Extends    []*TypeRef
	Body       *ObjectType
}

func (*InterfaceDecl) stmtNode() {}

// ClassDecl represents a class declaration. Only the name is modelled; the
// rest is kept as source text.
type ClassDecl struct {
	NodeInfo
	Name *Ident
	Text string
}

func (*ClassDecl) stmtNode() {}

// VarDecl represents `const|let|var a: T = x, b = y`.
type VarDecl struct {
	NodeInfo
	Kind        string
	Declarators []*VarDeclarator
}

func (*VarDecl) stmtNode() {}

// VarDeclarator is one binding of a VarDecl.
type VarDeclarator struct {
	NodeInfo
	Name *Ident
	Type Type
	Init Expr
}

// ExprStmt is an expression statement.
type ExprStmt struct {
	NodeInfo
	X Expr
}

func (*ExprStmt) stmtNode() {}

// RawStmt is a statement kept as source text.
type RawStmt struct {
	NodeInfo
	Text string
}

func (*RawStmt) stmtNode() {}

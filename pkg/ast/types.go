package ast

// ---------- Types ----------

// KeywordType is a builtin type keyword such as number, mixed or void.
type KeywordType struct {
	NodeInfo
	Name string
}

func (*KeywordType) typeNode() {}

// LiteralType is a string, number or boolean literal type.
type LiteralType struct {
	NodeInfo
	Lit Expr // *StringLit, *NumberLit or *BoolLit
}

func (*LiteralType) typeNode() {}

// NullableType is the Flow `?Elem` type.
type NullableType struct {
	NodeInfo
	Elem Type
}

func (*NullableType) typeNode() {}

// ArrayType is `Elem[]`.
type ArrayType struct {
	NodeInfo
	Elem Type
}

func (*ArrayType) typeNode() {}

// OperatorType is a prefix type operator such as `readonly Elem` or `keyof Elem`.
type OperatorType struct {
	NodeInfo
	Op   string
	Elem Type
}

func (*OperatorType) typeNode() {}

// TupleType is `[A, B]`.
type TupleType struct {
	NodeInfo
	Elems []Type
}

func (*TupleType) typeNode() {}

// NamedTupleMember is a labelled tuple element `name?: Elem`.
type NamedTupleMember struct {
	NodeInfo
	Name     *Ident
	Optional bool
	Elem     Type
}

func (*NamedTupleMember) typeNode() {}

// UnionType is `A | B`.
type UnionType struct {
	NodeInfo
	Types []Type
}

func (*UnionType) typeNode() {}

// IntersectionType is `A & B`.
type IntersectionType struct {
	NodeInfo
	Types []Type
}

func (*IntersectionType) typeNode() {}

// TypeRef is a named type reference with optional type arguments. Name is an
// *Ident or a *MemberExpr for qualified names. TypeArgs is nil when no
// argument list was written.
type TypeRef struct {
	NodeInfo
	Name     Expr
	TypeArgs []Type
}

func (*TypeRef) typeNode() {}

// FunctionType is a function type; only its source text is kept.
type FunctionType struct {
	NodeInfo
	Text string
}

func (*FunctionType) typeNode() {}

// ObjectType is an object type literal or an interface body.
type ObjectType struct {
	NodeInfo
	Exact   bool // {| ... |}
	Inexact bool // { ..., ... }
	Members []Member
}

func (*ObjectType) typeNode() {}

// PropertySig is a property member `readonly key?: Value`. Value is nil when
// the property has no annotation.
type PropertySig struct {
	NodeInfo
	Key      Expr
	Computed bool
	Optional bool
	Readonly bool
	Variance string // Flow "+" or "-"
	Value    Type
}

func (*PropertySig) memberNode() {}

// IndexSig is an indexer `[KeyName: Key]: Value`. KeyName is nil for the Flow
// shorthand `[Key]: Value`.
type IndexSig struct {
	NodeInfo
	KeyName *Ident
	Key     Type
	Value   Type
}

func (*IndexSig) memberNode() {}

// SpreadMember is a Flow object type spread `...Type`.
type SpreadMember struct {
	NodeInfo
	Type Type
}

func (*SpreadMember) memberNode() {}

// MethodSig is a method, call or construct signature kept as source text.
type MethodSig struct {
	NodeInfo
	Text string
}

func (*MethodSig) memberNode() {}

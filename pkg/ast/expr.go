package ast

// ---------- Expressions ----------

// Ident is an identifier.
type Ident struct {
	NodeInfo
	Name string
}

func (*Ident) exprNode() {}

// StringLit is a string literal. Raw keeps the source spelling, including
// quotes, and is empty for synthesized literals.
type StringLit struct {
	NodeInfo
	Value string
	Raw   string
}

func (*StringLit) exprNode() {}

// NumberLit is a numeric literal kept in source spelling.
type NumberLit struct {
	NodeInfo
	Raw string
}

func (*NumberLit) exprNode() {}

// BoolLit is true or false.
type BoolLit struct {
	NodeInfo
	Value bool
}

func (*BoolLit) exprNode() {}

// NullLit is null.
type NullLit struct {
	NodeInfo
}

func (*NullLit) exprNode() {}

// MemberExpr is a non-computed member access `X.Name`.
type MemberExpr struct {
	NodeInfo
	X    Expr
	Name *Ident
}

func (*MemberExpr) exprNode() {}

// CallExpr is a call `Fun<TypeArgs>(Args)`.
type CallExpr struct {
	NodeInfo
	Fun      Expr
	TypeArgs []Type
	Args     []Expr
}

func (*CallExpr) exprNode() {}

// ArrowFunc is an arrow function with an expression body.
type ArrowFunc struct {
	NodeInfo
	Params []*Ident
	Body   Expr
}

func (*ArrowFunc) exprNode() {}

// ObjectExpr is an object literal.
type ObjectExpr struct {
	NodeInfo
	Props []ObjectProp
}

func (*ObjectExpr) exprNode() {}

// ObjectProp is a property of an object literal.
type ObjectProp interface {
	Node
	objectPropNode()
}

// Property is `Key: Value`, `[Key]: Value` or the shorthand `Key`.
type Property struct {
	NodeInfo
	Key       Expr
	Computed  bool
	Shorthand bool
	Value     Expr
}

func (*Property) objectPropNode() {}

// SpreadElement is `...X` inside an object literal.
type SpreadElement struct {
	NodeInfo
	X Expr
}

func (*SpreadElement) objectPropNode() {}

// ArrayExpr is an array literal.
type ArrayExpr struct {
	NodeInfo
	Elems []Expr
}

func (*ArrayExpr) exprNode() {}

// AsExpr is a TypeScript cast `X as Type`.
type AsExpr struct {
	NodeInfo
	X    Expr
	Type Type
}

func (*AsExpr) exprNode() {}

// TypeCastExpr is a Flow cast `(X: Type)`.
type TypeCastExpr struct {
	NodeInfo
	X    Expr
	Type Type
}

func (*TypeCastExpr) exprNode() {}

// ParenExpr is a parenthesized expression.
type ParenExpr struct {
	NodeInfo
	X Expr
}

func (*ParenExpr) exprNode() {}

// RawExpr is an expression kept as source text.
type RawExpr struct {
	NodeInfo
	Text string
}

func (*RawExpr) exprNode() {}

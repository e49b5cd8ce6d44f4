package format

import (
	"github.com/leapstack-labs/valgen/pkg/ast"
)

func (p *Printer) typ(t ast.Type) {
	switch t := t.(type) {
	case nil:
	case *ast.KeywordType:
		p.write(t.Name)
	case *ast.LiteralType:
		p.expr(t.Lit)
	case *ast.NullableType:
		p.write("?")
		p.operand(t.Elem)
	case *ast.ArrayType:
		p.operand(t.Elem)
		p.write("[]")
	case *ast.OperatorType:
		p.write(t.Op)
		p.space()
		p.operand(t.Elem)
	case *ast.TupleType:
		p.group(list{
			open: "[", close: "]", sep: ",", count: len(t.Elems), trailing: true,
			item: func(q *Printer, i int) { q.typ(t.Elems[i]) },
		})
	case *ast.NamedTupleMember:
		p.write(t.Name.Name)
		if t.Optional {
			p.write("?")
		}
		p.write(": ")
		p.typ(t.Elem)
	case *ast.UnionType:
		p.formatLeveled(t.Types, "|")
	case *ast.IntersectionType:
		p.formatLeveled(t.Types, "&")
	case *ast.TypeRef:
		p.expr(t.Name)
		if t.TypeArgs != nil {
			p.group(list{
				open: "<", close: ">", sep: ",", count: len(t.TypeArgs),
				item: func(q *Printer, i int) { q.typ(t.TypeArgs[i]) },
			})
		}
	case *ast.FunctionType:
		p.write(t.Text)
	case *ast.ObjectType:
		p.formatObjectType(t)
	}
}

// operand prints a type that binds tighter than unions and functions.
func (p *Printer) operand(t ast.Type) {
	switch t.(type) {
	case *ast.UnionType, *ast.IntersectionType, *ast.FunctionType, *ast.NullableType:
		p.write("(")
		p.typ(t)
		p.write(")")
	default:
		p.typ(t)
	}
}

// formatLeveled prints union or intersection members, one per line with a
// leading operator when they do not fit.
func (p *Printer) formatLeveled(types []ast.Type, op string) {
	elem := func(q *Printer, t ast.Type) {
		if _, ok := t.(*ast.FunctionType); ok {
			q.operand(t)
			return
		}
		if u, ok := t.(*ast.UnionType); ok && op == "&" {
			q.operand(u)
			return
		}
		q.typ(t)
	}
	flat := p.flatString(func(q *Printer) {
		q.formatList(len(types), func(i int) { elem(q, types[i]) }, " "+op+" ")
	})
	if p.flat || p.fits(flat) {
		p.write(flat)
		return
	}
	p.trimSpace()
	p.indent()
	for _, t := range types {
		p.writeln()
		p.write(op + " ")
		elem(p, t)
	}
	p.dedent()
}

func (p *Printer) formatObjectType(t *ast.ObjectType) {
	open, close := "{", "}"
	if t.Exact {
		open, close = "{|", "|}"
	}
	sep := ","
	if p.opts.Dialect == ast.TypeScript {
		sep = ";"
	}
	count := len(t.Members)
	if t.Inexact {
		count++
	}
	p.group(list{
		open: open, close: close, sep: sep, count: count, pad: true, trailing: true,
		item: func(q *Printer, i int) {
			if i == len(t.Members) {
				q.write("...")
				return
			}
			q.formatMember(t.Members[i])
		},
	})
}

func (p *Printer) formatMember(m ast.Member) {
	switch m := m.(type) {
	case *ast.PropertySig:
		p.write(m.Variance)
		if m.Readonly {
			p.write("readonly ")
		}
		p.formatKey(m.Key, m.Computed)
		if m.Optional {
			p.write("?")
		}
		if m.Value != nil {
			p.write(": ")
			p.typ(m.Value)
		}
	case *ast.IndexSig:
		p.write("[")
		if m.KeyName != nil {
			p.write(m.KeyName.Name)
			p.write(": ")
		}
		p.typ(m.Key)
		p.write("]: ")
		p.typ(m.Value)
	case *ast.SpreadMember:
		p.write("...")
		p.typ(m.Type)
	case *ast.MethodSig:
		p.write(m.Text)
	}
}

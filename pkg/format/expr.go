package format

import (
	"strconv"

	"github.com/leapstack-labs/valgen/pkg/ast"
)

func (p *Printer) expr(e ast.Expr) {
	switch e := e.(type) {
	case nil:
	case *ast.Ident:
		p.write(e.Name)
	case *ast.StringLit:
		if e.Raw != "" && !p.opts.Canonical {
			p.write(e.Raw)
		} else {
			p.write(p.quote(e.Value))
		}
	case *ast.NumberLit:
		p.write(e.Raw)
	case *ast.BoolLit:
		p.write(strconv.FormatBool(e.Value))
	case *ast.NullLit:
		p.write("null")
	case *ast.MemberExpr:
		p.expr(e.X)
		p.write(".")
		p.write(e.Name.Name)
	case *ast.CallExpr:
		p.formatCall(e)
	case *ast.ArrowFunc:
		p.formatArrow(e)
	case *ast.ObjectExpr:
		p.group(list{
			open: "{", close: "}", sep: ",", count: len(e.Props), pad: true, trailing: true,
			item: func(q *Printer, i int) { q.formatObjectProp(e.Props[i]) },
		})
	case *ast.ArrayExpr:
		p.group(list{
			open: "[", close: "]", sep: ",", count: len(e.Elems), trailing: true,
			item: func(q *Printer, i int) { q.expr(e.Elems[i]) },
		})
	case *ast.AsExpr:
		p.expr(e.X)
		p.write(" as ")
		p.typ(e.Type)
	case *ast.TypeCastExpr:
		p.write("(")
		p.expr(e.X)
		p.write(": ")
		p.typ(e.Type)
		p.write(")")
	case *ast.ParenExpr:
		p.write("(")
		p.expr(e.X)
		p.write(")")
	case *ast.RawExpr:
		p.write(e.Text)
	}
}

func (p *Printer) formatCall(e *ast.CallExpr) {
	p.expr(e.Fun)
	if e.TypeArgs != nil {
		p.group(list{
			open: "<", close: ">", sep: ",", count: len(e.TypeArgs),
			item: func(q *Printer, i int) { q.typ(e.TypeArgs[i]) },
		})
	}
	if len(e.Args) == 1 && huggable(e.Args[0]) {
		// f({ ... }) keeps the brackets of its only argument on the call line
		p.write("(")
		p.expr(e.Args[0])
		p.write(")")
		return
	}
	p.group(list{
		open: "(", close: ")", sep: ",", count: len(e.Args),
		item: func(q *Printer, i int) { q.expr(e.Args[i]) },
	})
}

func huggable(e ast.Expr) bool {
	switch e := e.(type) {
	case *ast.ObjectExpr, *ast.ArrayExpr:
		return true
	case *ast.ArrowFunc:
		return len(e.Params) == 0
	}
	return false
}

func (p *Printer) formatArrow(e *ast.ArrowFunc) {
	p.write("(")
	p.formatList(len(e.Params), func(i int) { p.write(e.Params[i].Name) }, ", ")
	p.write(") => ")
	p.expr(e.Body)
}

func (p *Printer) formatObjectProp(prop ast.ObjectProp) {
	switch prop := prop.(type) {
	case *ast.SpreadElement:
		p.write("...")
		p.expr(prop.X)
	case *ast.Property:
		if prop.Shorthand {
			p.expr(prop.Key)
			return
		}
		p.formatKey(prop.Key, prop.Computed)
		p.write(": ")
		p.expr(prop.Value)
	}
}

func (p *Printer) formatKey(key ast.Expr, computed bool) {
	if computed {
		p.write("[")
		p.expr(key)
		p.write("]")
		return
	}
	p.expr(key)
}

// Package format renders syntax trees back to TypeScript or Flow source.
//
// Source reuses the original text of every statement the engine did not
// modify, so rewriting a file leaves untouched code byte-for-byte intact.
// Modified and new statements are printed in the file's quote and
// semicolon style, breaking lists that do not fit on one line.
package format

import (
	"bytes"
	"strings"

	"github.com/leapstack-labs/valgen/pkg/ast"
	"github.com/leapstack-labs/valgen/pkg/token"
)

const (
	indentSize = 2
	lineWidth  = 80
)

// Options control how nodes are printed.
type Options struct {
	Dialect     ast.Dialect
	SingleQuote bool
	Semicolons  bool
	// Canonical ignores source spellings of literals so that trees parsed
	// from differently formatted sources print identically.
	Canonical bool
}

// Printer handles indentation, line width and style while printing nodes.
type Printer struct {
	opts        Options
	output      *bytes.Buffer
	depth       int
	col         int
	atLineStart bool
	flat        bool
}

func newPrinter(opts Options) *Printer {
	return &Printer{
		opts:        opts,
		output:      &bytes.Buffer{},
		atLineStart: true,
	}
}

// String returns the printed output.
func (p *Printer) String() string {
	return p.output.String()
}

func (p *Printer) write(s string) {
	if s == "" {
		return
	}
	if p.atLineStart && s[0] != '\n' {
		p.writeIndent()
	}
	p.output.WriteString(s)
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		p.col = len(s) - i - 1
	} else {
		p.col += len(s)
	}
	p.atLineStart = false
}

func (p *Printer) writeln() {
	p.output.WriteByte('\n')
	p.col = 0
	p.atLineStart = true
}

// trimSpace drops a space written just before a line break.
func (p *Printer) trimSpace() {
	b := p.output.Bytes()
	if len(b) > 0 && b[len(b)-1] == ' ' {
		p.output.Truncate(len(b) - 1)
		p.col--
	}
}

func (p *Printer) writeIndent() {
	n := p.depth * indentSize
	p.output.WriteString(strings.Repeat(" ", n))
	p.col += n
	p.atLineStart = false
}

func (p *Printer) indent() {
	p.depth++
}

func (p *Printer) dedent() {
	if p.depth > 0 {
		p.depth--
	}
}

func (p *Printer) space() {
	p.write(" ")
}

func (p *Printer) formatComments(comments []*token.Comment) {
	for _, c := range comments {
		p.write(c.Text)
		p.writeln()
	}
}

func (p *Printer) formatTrailingComments(comments []*token.Comment) {
	for _, c := range comments {
		p.space()
		p.write(c.Text)
	}
}

// formatList prints a list of items with separators.
func (p *Printer) formatList(count int, format func(i int), sep string) {
	for i := 0; i < count; i++ {
		format(i)
		if i < count-1 {
			p.write(sep)
		}
	}
}

// flatString renders fn on a single-line printer.
func (p *Printer) flatString(fn func(q *Printer)) string {
	q := newPrinter(p.opts)
	q.flat = true
	q.atLineStart = false
	fn(q)
	return q.String()
}

// fits reports whether s can be written at the current column.
func (p *Printer) fits(s string) bool {
	if strings.ContainsRune(s, '\n') {
		return false
	}
	col := p.col
	if p.atLineStart {
		col = p.depth * indentSize
	}
	return col+len(s) <= lineWidth
}

// list describes a bracketed, separated list of items.
type list struct {
	open, close string
	sep         string
	count       int
	item        func(q *Printer, i int)
	// pad puts spaces inside the brackets when the list fits on one line.
	pad bool
	// trailing adds a separator after the last item when broken.
	trailing bool
}

// group prints l on one line when it fits and one item per line otherwise.
func (p *Printer) group(l list) {
	if l.count == 0 {
		p.write(l.open + l.close)
		return
	}
	flat := p.flatString(func(q *Printer) {
		q.write(l.open)
		if l.pad {
			q.space()
		}
		q.formatList(l.count, func(i int) { l.item(q, i) }, l.sep+" ")
		if l.pad {
			q.space()
		}
		q.write(l.close)
	})
	if p.flat || p.fits(flat) {
		p.write(flat)
		return
	}

	p.write(l.open)
	p.indent()
	for i := 0; i < l.count; i++ {
		p.writeln()
		l.item(p, i)
		if i < l.count-1 || l.trailing {
			p.write(l.sep)
		}
	}
	p.dedent()
	p.writeln()
	p.write(l.close)
}

// quote renders a string literal in the configured quote style.
func (p *Printer) quote(s string) string {
	q := byte('"')
	if p.opts.SingleQuote && !p.opts.Canonical {
		q = '\''
	}
	var sb strings.Builder
	sb.WriteByte(q)
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case q, '\\':
			sb.WriteByte('\\')
			sb.WriteByte(c)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			sb.WriteByte(c)
		}
	}
	sb.WriteByte(q)
	return sb.String()
}

package parser

import (
	"strings"

	"github.com/leapstack-labs/valgen/pkg/ast"
)

// attachLayout records the source text around each top-level statement and
// attaches comments outside statements as leading or trailing comments.
// Concatenating Leading, Raw and Trailing of every statement followed by the
// file Tail reproduces the source exactly.
func (p *Parser) attachLayout(f *ast.File) {
	prevEnd, ci := 0, 0
	for _, stmt := range f.Body {
		info := stmt.Info()
		start, end := info.Span.Start.Offset, info.Span.End.Offset

		info.Leading = p.src[prevEnd:start]
		for ; ci < len(p.comments) && p.comments[ci].Span.Start.Offset < start; ci++ {
			if p.comments[ci].Span.Start.Offset >= prevEnd {
				info.AddLeadingComment(p.comments[ci])
			}
		}

		trailEnd := p.scanTrailing(end)
		info.Trailing = p.src[end:trailEnd]
		for ; ci < len(p.comments) && p.comments[ci].Span.Start.Offset < trailEnd; ci++ {
			if p.comments[ci].Span.Start.Offset >= end {
				info.AddTrailingComment(p.comments[ci])
			}
		}
		prevEnd = trailEnd
	}

	f.Tail = p.src[prevEnd:]
	for ; ci < len(p.comments); ci++ {
		if p.comments[ci].Span.Start.Offset >= prevEnd {
			f.Comments = append(f.Comments, p.comments[ci])
		}
	}
}

// scanTrailing returns the end of the spaces and comments that follow offset
// on the same line. A carriage return before the newline stays with the
// next statement's leading text.
func (p *Parser) scanTrailing(offset int) int {
	src := p.src
	i := offset
	for i < len(src) {
		rest := src[i:]
		switch {
		case src[i] == ' ' || src[i] == '\t':
			i++
		case strings.HasPrefix(rest, "//"):
			j := strings.IndexByte(rest, '\n')
			if j < 0 {
				return len(src)
			}
			return i + len(strings.TrimRight(rest[:j], "\r"))
		case strings.HasPrefix(rest, "/*"):
			j := strings.Index(rest[2:], "*/")
			if j < 0 {
				return i
			}
			closeAt := i + 2 + j + 2
			if strings.Contains(src[i:closeAt], "\n") {
				return i
			}
			i = closeAt
		default:
			return i
		}
	}
	return i
}

// Package loc provides source location records shared by the AST and the
// diagnostic model. Positions use 0-based rows and columns (the convention of
// the CST provider); converting to 1-based display coordinates is the
// consumer's job.
package loc

import "fmt"

// Position is a single point in a source file.
type Position struct {
	Line   int // 0-based row
	Column int // 0-based column
	Offset int // byte offset into the source
}

// Span covers a half-open region [Start, End) of a source file.
type Span struct {
	Start Position
	End   Position
}

// String returns a human-readable 1-based "line:column" form.
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line+1, p.Column+1)
}

// Before reports whether p comes before q in the source.
func (p Position) Before(q Position) bool {
	if p.Line != q.Line {
		return p.Line < q.Line
	}
	return p.Column < q.Column
}

// String returns the span's start position in 1-based form.
func (s Span) String() string { return s.Start.String() }

// IsValid reports whether the span describes a real region.
func (s Span) IsValid() bool {
	return s.End.Offset > s.Start.Offset || s.End.Line > s.Start.Line ||
		(s.End.Line == s.Start.Line && s.End.Column > s.Start.Column)
}

// Contains reports whether the position falls inside the span. The end
// position is treated as exclusive.
func (s Span) Contains(p Position) bool {
	if p.Before(s.Start) {
		return false
	}
	return p.Before(s.End)
}

// ContainsOffset reports whether the byte offset falls inside the span.
func (s Span) ContainsOffset(offset int) bool {
	return offset >= s.Start.Offset && offset < s.End.Offset
}

// Merge returns the smallest span covering both a and b.
func Merge(a, b Span) Span {
	merged := a
	if b.Start.Before(a.Start) {
		merged.Start = b.Start
	}
	if a.End.Before(b.End) {
		merged.End = b.End
	}
	return merged
}

// PositionFor computes the Position of a byte offset within source.
func PositionFor(source string, offset int) Position {
	if offset > len(source) {
		offset = len(source)
	}
	pos := Position{Offset: offset}
	for i := 0; i < offset; i++ {
		if source[i] == '\n' {
			pos.Line++
			pos.Column = 0
		} else {
			pos.Column++
		}
	}
	return pos
}

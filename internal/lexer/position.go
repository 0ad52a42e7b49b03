// Package lexer turns BrasilScript source text into a token stream.
//
// Every token category is described by a small NFA; the categories are
// combined into one NFA, converted to a DFA by subset construction and
// optionally minimized. The Lexer then drives that single DFA with a
// maximal-munch loop, so no per-category dispatch happens while scanning.
package lexer

import "strconv"

// Position represents a location in the source code.
//
// DESIGN CHOICE: Position is a small value type. It is copied into every
// token and error, never shared, and the zero value means "no position".
type Position struct {
	// Filename is the name of the source file, if any.
	Filename string

	// Line is the 1-based line number.
	Line int

	// Column is the 1-based column, counted in runes from the start of the
	// line so that non-ASCII text inside strings and comments does not skew
	// the columns of later tokens.
	Column int

	// Offset is the 0-based byte offset from the start of the input.
	Offset int
}

// String returns "filename:line:column", the format editors and CI
// systems recognize as a clickable location.
func (p Position) String() string {
	return p.Filename + ":" + strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
}

// IsValid reports whether the position has a line number.
func (p Position) IsValid() bool {
	return p.Line > 0
}

// Before reports whether p comes before other. Offsets are the source of
// truth; line and column are derived from them.
func (p Position) Before(other Position) bool {
	return p.Offset < other.Offset
}

// After reports whether p comes after other.
func (p Position) After(other Position) bool {
	return p.Offset > other.Offset
}

// Span is a range of source text from Start to End.
type Span struct {
	Start Position
	End   Position
}

// String returns "file:line:col-col" for single-line spans and
// "file:line:col-line:col" otherwise.
func (s Span) String() string {
	if s.Start.Line == s.End.Line {
		return s.Start.String() + "-" + strconv.Itoa(s.End.Column)
	}
	return s.Start.String() + "-" + strconv.Itoa(s.End.Line) + ":" + strconv.Itoa(s.End.Column)
}

// IsValid reports whether both ends are valid and correctly ordered.
func (s Span) IsValid() bool {
	return s.Start.IsValid() && s.End.IsValid() && !s.End.Before(s.Start)
}

// Contains reports whether pos lies within the span, inclusive.
func (s Span) Contains(pos Position) bool {
	return !pos.Before(s.Start) && !pos.After(s.End)
}

// Length returns the number of bytes covered by the span.
func (s Span) Length() int {
	if !s.IsValid() {
		return 0
	}
	return s.End.Offset - s.Start.Offset
}

package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hassan/brasilscript/internal/automaton"
)

// accepts compiles a single category automaton and reports whether it
// accepts s as a whole.
func accepts(n *automaton.NFA, s string) bool {
	d := automaton.ToDFA(n, automaton.NewPriority())
	_, ok := automaton.Simulate(d, s)
	return ok
}

func TestCategoryBuilders(t *testing.T) {
	tests := []struct {
		name   string
		build  func(*automaton.Allocator) *automaton.NFA
		accept []string
		reject []string
	}{
		{
			name:   "number",
			build:  func(a *automaton.Allocator) *automaton.NFA { return NumberNFA(a, TokenNumber) },
			accept: []string{"0", "42", "3.14", "1e10", "1E+3", "2.5e-3"},
			reject: []string{"", ".5", "1.", "1e", "1e+", "-1", "1.2.3", "1a"},
		},
		{
			name:   "identifier",
			build:  func(a *automaton.Allocator) *automaton.NFA { return IdentNFA(a, TokenIdent) },
			accept: []string{"x", "_", "_x1", "Nome", "senao_se"},
			reject: []string{"", "1x", "a-b", "olá"},
		},
		{
			name:   "invalid identifier",
			build:  func(a *automaton.Allocator) *automaton.NFA { return InvalidIdentNFA(a, TokenInvalidIdent) },
			accept: []string{"1abc", "1", "9_", "12ab34"},
			reject: []string{"", "abc", "_1"},
		},
		{
			name:   "string",
			build:  func(a *automaton.Allocator) *automaton.NFA { return StringNFA(a, TokenString) },
			accept: []string{`""`, `''`, `"a b"`, `"\""`, `'\''`, `"it's"`, `'"'`, `"\\"`, "\"\t\"", `"olá"`},
			reject: []string{`"`, `"a`, `"a'`, `"\"`, "\"a\nb\"", "\"\x01\"", `'a"`},
		},
		{
			name:   "keyword",
			build:  func(a *automaton.Allocator) *automaton.NFA { return KeywordNFA(a, TokenKeyword) },
			accept: Keywords,
			reject: []string{"", "s", "declara", "declarars", "Se"},
		},
		{
			name:   "bool",
			build:  func(a *automaton.Allocator) *automaton.NFA { return BoolNFA(a, TokenBool) },
			accept: []string{"verdadeiro", "falso"},
			reject: []string{"verdade", "true", ""},
		},
		{
			name:   "operator",
			build:  func(a *automaton.Allocator) *automaton.NFA { return OperatorNFA(a, TokenOp) },
			accept: Operators,
			reject: []string{"!", "==", "=>", "++", ""},
		},
		{
			name:   "comment",
			build:  func(a *automaton.Allocator) *automaton.NFA { return CommentNFA(a, TokenComment) },
			accept: []string{"#", "# texto", "#\"não fechada"},
			reject: []string{"", "x#", "# a\n", "# a\r"},
		},
		{
			name:   "whitespace",
			build:  func(a *automaton.Allocator) *automaton.NFA { return WhitespaceNFA(a, TokenWhitespace) },
			accept: []string{" ", "\t", " \t  "},
			reject: []string{"", "\n", " x"},
		},
		{
			name:   "newline",
			build:  func(a *automaton.Allocator) *automaton.NFA { return NewlineNFA(a, TokenNewline, false) },
			accept: []string{"\n", "\r\n"},
			reject: []string{"", "\r", "\n\n", "\n\r"},
		},
		{
			name:   "newline with bare CR",
			build:  func(a *automaton.Allocator) *automaton.NFA { return NewlineNFA(a, TokenNewline, true) },
			accept: []string{"\n", "\r\n", "\r"},
			reject: []string{"", "\r\r"},
		},
		{
			name:   "char",
			build:  func(a *automaton.Allocator) *automaton.NFA { return CharNFA(a, TokenSemicolon, ';') },
			accept: []string{";"},
			reject: []string{"", ";;", ":"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := tt.build(automaton.NewAllocator())
			for _, s := range tt.accept {
				assert.True(t, accepts(n, s), "should accept %q", s)
			}
			for _, s := range tt.reject {
				assert.False(t, accepts(n, s), "should reject %q", s)
			}
		})
	}
}

func TestBuilders_LabelTheirKind(t *testing.T) {
	alloc := automaton.NewAllocator()
	n := NumberNFA(alloc, TokenNumber)
	d := automaton.ToDFA(n, automaton.NewPriority())

	l, ok := automaton.Simulate(d, "12")
	assert.True(t, ok)
	assert.Equal(t, TokenNumber, kindOf(l))
}

func TestCategories_DisjointStates(t *testing.T) {
	alloc := automaton.NewAllocator()
	cats := Categories(alloc, false)

	// Ten categories plus one per delimiter.
	assert.Len(t, cats, 10+len(Delimiters))

	seen := map[automaton.StateID]TokenKind{}
	for _, c := range cats {
		for _, s := range c.NFA.States() {
			prev, dup := seen[s]
			assert.False(t, dup, "state %d shared by %v and %v", s, prev, c.Kind)
			seen[s] = c.Kind
		}
	}

	combined := Combine(alloc, cats)
	assert.Equal(t, len(seen)+1, combined.NumStates())
}

package lexer

import "github.com/hassan/brasilscript/internal/automaton"

// Token-category builders.
//
// Each builder returns a small NFA recognizing exactly the lexemes of one
// token kind, with every accepting state labelled by that kind. Builders only
// draw fresh states from the allocator they are given, so calling the same
// builder twice in one session yields two automata with disjoint states.

func isDigit(c byte) bool  { return c >= '0' && c <= '9' }
func isLetter(c byte) bool { return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_' }
func isWord(c byte) bool   { return isLetter(c) || isDigit(c) }

// isTextByte reports whether c may appear raw inside a string literal:
// printable ASCII, tab, and bytes of multi-byte UTF-8 sequences. Line
// breaks and other control characters may not.
func isTextByte(c byte) bool {
	return c >= 0x20 && c != 0x7f || c == '\t'
}

// NumberNFA recognizes digit+ ('.' digit+)? ([eE] [+-]? digit+)?.
func NumberNFA(alloc *automaton.Allocator, kind TokenKind) *automaton.NFA {
	b := automaton.NewBuilder(alloc)
	start := b.State()
	intPart := b.State()
	dot := b.State()
	fracPart := b.State()
	exp := b.State()
	expSign := b.State()
	expPart := b.State()

	b.EdgesFunc(start, intPart, isDigit)
	b.EdgesFunc(intPart, intPart, isDigit)
	b.Edge(intPart, automaton.Sym('.'), dot)
	b.EdgesFunc(dot, fracPart, isDigit)
	b.EdgesFunc(fracPart, fracPart, isDigit)
	b.Edges(intPart, "eE", exp)
	b.Edges(fracPart, "eE", exp)
	b.Edges(exp, "+-", expSign)
	b.EdgesFunc(exp, expPart, isDigit)
	b.EdgesFunc(expSign, expPart, isDigit)
	b.EdgesFunc(expPart, expPart, isDigit)

	b.Accept(intPart, kind.label())
	b.Accept(fracPart, kind.label())
	b.Accept(expPart, kind.label())
	return b.Build(start)
}

// IdentNFA recognizes (letter | '_') (letter | digit | '_')*.
func IdentNFA(alloc *automaton.Allocator, kind TokenKind) *automaton.NFA {
	b := automaton.NewBuilder(alloc)
	start, rest := b.State(), b.State()
	b.EdgesFunc(start, rest, isLetter)
	b.EdgesFunc(rest, rest, isWord)
	b.Accept(rest, kind.label())
	return b.Build(start)
}

// InvalidIdentNFA recognizes digit (letter | digit | '_')*, the shape of a
// name that wrongly starts with a digit.
func InvalidIdentNFA(alloc *automaton.Allocator, kind TokenKind) *automaton.NFA {
	b := automaton.NewBuilder(alloc)
	start, rest := b.State(), b.State()
	b.EdgesFunc(start, rest, isDigit)
	b.EdgesFunc(rest, rest, isWord)
	b.Accept(rest, kind.label())
	return b.Build(start)
}

// StringNFA recognizes double- and single-quoted strings. Inside the quotes
// any text byte other than the quote and the backslash may appear, and a
// backslash escapes the text byte that follows it. Raw line breaks are not
// allowed, so an unclosed quote is reported on its own line.
func StringNFA(alloc *automaton.Allocator, kind TokenKind) *automaton.NFA {
	b := automaton.NewBuilder(alloc)
	start := b.State()
	for _, quote := range []byte{'"', '\''} {
		q := quote
		body, escape, end := b.State(), b.State(), b.State()
		b.Edge(start, automaton.Sym(q), body)
		b.EdgesFunc(body, body, func(c byte) bool { return isTextByte(c) && c != q && c != '\\' })
		b.Edge(body, automaton.Sym('\\'), escape)
		b.EdgesFunc(escape, body, isTextByte)
		b.Edge(body, automaton.Sym(q), end)
		b.Accept(end, kind.label())
	}
	return b.Build(start)
}

// WordsNFA recognizes exactly the given words. Every word is a chain of
// states hanging off one shared start state; words sharing a prefix make
// the start nondeterministic, which subset construction resolves.
func WordsNFA(alloc *automaton.Allocator, kind TokenKind, words ...string) *automaton.NFA {
	b := automaton.NewBuilder(alloc)
	start := b.State()
	for _, w := range words {
		cur := start
		for i := 0; i < len(w); i++ {
			next := b.State()
			b.Edge(cur, automaton.Sym(w[i]), next)
			cur = next
		}
		if cur != start {
			b.Accept(cur, kind.label())
		}
	}
	return b.Build(start)
}

// KeywordNFA recognizes the reserved words.
func KeywordNFA(alloc *automaton.Allocator, kind TokenKind) *automaton.NFA {
	return WordsNFA(alloc, kind, Keywords...)
}

// BoolNFA recognizes the boolean literals.
func BoolNFA(alloc *automaton.Allocator, kind TokenKind) *automaton.NFA {
	return WordsNFA(alloc, kind, TrueWord, FalseWord)
}

// Operators is the operator set, multi-character operators first.
var Operators = []string{"!=", "<=", ">=", "=", "<", ">", "+", "-", "*", "/", "%"}

// OperatorNFA recognizes the operators.
func OperatorNFA(alloc *automaton.Allocator, kind TokenKind) *automaton.NFA {
	return WordsNFA(alloc, kind, Operators...)
}

// CommentNFA recognizes '#' followed by anything up to the end of the line.
func CommentNFA(alloc *automaton.Allocator, kind TokenKind) *automaton.NFA {
	b := automaton.NewBuilder(alloc)
	start, text := b.State(), b.State()
	b.Edge(start, automaton.Sym('#'), text)
	b.EdgesFunc(text, text, func(c byte) bool { return c != '\r' && c != '\n' })
	b.Accept(text, kind.label())
	return b.Build(start)
}

// WhitespaceNFA recognizes runs of spaces and tabs.
func WhitespaceNFA(alloc *automaton.Allocator, kind TokenKind) *automaton.NFA {
	b := automaton.NewBuilder(alloc)
	start, run := b.State(), b.State()
	b.Edges(start, " \t", run)
	b.Edges(run, " \t", run)
	b.Accept(run, kind.label())
	return b.Build(start)
}

// NewlineNFA recognizes "\n" and "\r\n". With bareCR a lone "\r" is
// accepted too, for sources written with old Mac line endings.
func NewlineNFA(alloc *automaton.Allocator, kind TokenKind, bareCR bool) *automaton.NFA {
	b := automaton.NewBuilder(alloc)
	start, cr, done := b.State(), b.State(), b.State()
	b.Edge(start, automaton.Sym('\n'), done)
	b.Edge(start, automaton.Sym('\r'), cr)
	b.Edge(cr, automaton.Sym('\n'), done)
	b.Accept(done, kind.label())
	if bareCR {
		b.Accept(cr, kind.label())
	}
	return b.Build(start)
}

// CharNFA recognizes the single character c.
func CharNFA(alloc *automaton.Allocator, kind TokenKind, c byte) *automaton.NFA {
	b := automaton.NewBuilder(alloc)
	start, end := b.State(), b.State()
	b.Edge(start, automaton.Sym(c), end)
	b.Accept(end, kind.label())
	return b.Build(start)
}

// Delimiters maps each delimiter character to its token kind.
var Delimiters = []struct {
	Char byte
	Kind TokenKind
}{
	{'(', TokenLParen},
	{')', TokenRParen},
	{'[', TokenLBracket},
	{']', TokenRBracket},
	{'{', TokenLBrace},
	{'}', TokenRBrace},
	{',', TokenComma},
	{';', TokenSemicolon},
	{':', TokenColon},
	{'.', TokenDot},
}

// Category pairs a token kind with the automaton recognizing it.
type Category struct {
	Kind TokenKind
	NFA  *automaton.NFA
}

// Categories builds one automaton per token category of the language,
// drawing all states from alloc.
func Categories(alloc *automaton.Allocator, bareCR bool) []Category {
	cats := []Category{
		{TokenNewline, NewlineNFA(alloc, TokenNewline, bareCR)},
		{TokenComment, CommentNFA(alloc, TokenComment)},
		{TokenWhitespace, WhitespaceNFA(alloc, TokenWhitespace)},
		{TokenNumber, NumberNFA(alloc, TokenNumber)},
		{TokenInvalidIdent, InvalidIdentNFA(alloc, TokenInvalidIdent)},
		{TokenString, StringNFA(alloc, TokenString)},
		{TokenBool, BoolNFA(alloc, TokenBool)},
		{TokenKeyword, KeywordNFA(alloc, TokenKeyword)},
		{TokenIdent, IdentNFA(alloc, TokenIdent)},
		{TokenOp, OperatorNFA(alloc, TokenOp)},
	}
	for _, d := range Delimiters {
		cats = append(cats, Category{d.Kind, CharNFA(alloc, d.Kind, d.Char)})
	}
	return cats
}

// Combine unions the category automata under one fresh start state.
func Combine(alloc *automaton.Allocator, cats []Category) *automaton.NFA {
	nfas := make([]*automaton.NFA, len(cats))
	for i, c := range cats {
		nfas[i] = c.NFA
	}
	return automaton.Union(alloc, nfas...)
}

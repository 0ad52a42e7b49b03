package lexer

import (
	"math/rand"
	"regexp"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/d4l3k/messagediff"
	"github.com/stretchr/testify/require"
)

// referenceRule is one token category written as a regular expression.
type referenceRule struct {
	kind TokenKind
	re   *regexp.Regexp
}

func alternation(words []string) string {
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = regexp.QuoteMeta(w)
	}
	return strings.Join(quoted, "|")
}

// referenceRules describes every category independently of the automaton
// builders, in default priority order.
func referenceRules() []referenceRule {
	// Any text byte except the quote and the backslash, or an escape.
	body := func(q string) string {
		return `(?:[^` + q + `\\\x00-\x08\x0a-\x1f\x7f]|\\[^\x00-\x08\x0a-\x1f\x7f])*`
	}
	patterns := []struct {
		kind TokenKind
		expr string
	}{
		{TokenNewline, `\r\n|\n`},
		{TokenComment, `#[^\r\n]*`},
		{TokenWhitespace, `[ \t]+`},
		{TokenNumber, `[0-9]+(?:\.[0-9]+)?(?:[eE][+-]?[0-9]+)?`},
		{TokenInvalidIdent, `[0-9][A-Za-z0-9_]*`},
		{TokenString, `"` + body(`"`) + `"|'` + body(`'`) + `'`},
		{TokenBool, alternation([]string{TrueWord, FalseWord})},
		{TokenKeyword, alternation(Keywords)},
		{TokenIdent, `[A-Za-z_][A-Za-z0-9_]*`},
		{TokenOp, alternation(Operators)},
	}
	for _, d := range Delimiters {
		patterns = append(patterns, struct {
			kind TokenKind
			expr string
		}{d.Kind, regexp.QuoteMeta(string(d.Char))})
	}

	rules := make([]referenceRule, len(patterns))
	for i, p := range patterns {
		re := regexp.MustCompile(`^(?:` + p.expr + `)`)
		re.Longest()
		rules[i] = referenceRule{p.kind, re}
	}
	return rules
}

type kindAndLexeme struct {
	Kind   string
	Lexeme string
}

// referenceTokenize tries every rule at each offset, keeps the longest
// match and breaks ties by rule order. Unmatched characters become
// MISMATCH tokens. Trivia is kept.
func referenceTokenize(rules []referenceRule, src string) []kindAndLexeme {
	var out []kindAndLexeme
	for pos := 0; pos < len(src); {
		bestLen, bestKind := 0, TokenMismatch
		for _, r := range rules {
			if m := r.re.FindStringIndex(src[pos:]); m != nil && m[1] > bestLen {
				bestLen, bestKind = m[1], r.kind
			}
		}
		if bestLen == 0 {
			_, bestLen = utf8.DecodeRuneInString(src[pos:])
		}
		out = append(out, kindAndLexeme{bestKind.String(), src[pos : pos+bestLen]})
		pos += bestLen
	}
	return out
}

func dfaTokenize(t *testing.T, src string) []kindAndLexeme {
	t.Helper()
	tokens, err := New(Default().DFA, src, "ref.bs", WithPolicy(Lenient), WithTrivia(true)).Tokenize()
	require.NoError(t, err)

	var out []kindAndLexeme
	for _, tok := range tokens {
		out = append(out, kindAndLexeme{tok.Kind.String(), tok.Lexeme})
	}
	return out
}

func TestReferenceEquivalence_Examples(t *testing.T) {
	rules := referenceRules()

	want := []kindAndLexeme{
		{"LPAREN", "("},
		{"IDENTIFICADOR", "a"},
		{"WHITESPACE", " "},
		{"OP", "+"},
		{"WHITESPACE", " "},
		{"IDENTIFICADOR", "b"},
		{"RPAREN", ")"},
		{"WHITESPACE", " "},
		{"OP", "!="},
		{"WHITESPACE", " "},
		{"IDENTIFICADOR", "c"},
		{"SEMICOLON", ";"},
	}
	if diff, equal := messagediff.PrettyDiff(want, referenceTokenize(rules, "(a + b) != c;")); !equal {
		t.Fatalf("reference tokenizer disagrees with the documented example:\n%s", diff)
	}

	sources := append([]string{
		"@",
		"1abc 1e 1e+ 1.x",
		"\"aberta\nfechada\"",
		"'\\'' \"\\q\" \"a\\",
		"é! ~ ^ & |",
	}, programs...)
	for _, src := range sources {
		got := dfaTokenize(t, src)
		want := referenceTokenize(rules, src)
		if diff, equal := messagediff.PrettyDiff(want, got); !equal {
			t.Errorf("source %q:\n%s", src, diff)
		}
	}
}

// TestReferenceEquivalence_Random compares both tokenizers on random
// sources drawn from fragments that exercise every category and their
// boundaries.
func TestReferenceEquivalence_Random(t *testing.T) {
	rules := referenceRules()
	fragments := []string{
		"a", "z", "_", "Q", "0", "7", ".", "e", "E", "+", "-", "x1",
		" ", "\t", "\n", "\r", "\r\n", "#", "\"", "'", "\\", "n",
		"se", "senao", "_se", "fim", "declarar", "verdadeiro", "falso", "nao",
		"!", "=", "<", ">", "*", "/", "%", "(", ")", "[", "]", "{", "}",
		",", ";", ":", "@", "$", "é", "ã",
	}
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 500; i++ {
		var sb strings.Builder
		for n := rng.Intn(24); n >= 0; n-- {
			sb.WriteString(fragments[rng.Intn(len(fragments))])
		}
		src := sb.String()

		got := dfaTokenize(t, src)
		want := referenceTokenize(rules, src)
		if diff, equal := messagediff.PrettyDiff(want, got); !equal {
			t.Fatalf("source %q:\n%s", src, diff)
		}
	}
}

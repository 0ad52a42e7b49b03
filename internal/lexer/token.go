package lexer

import (
	"fmt"
	"strconv"
	"unicode/utf8"

	"github.com/hassan/brasilscript/internal/automaton"
)

// TokenKind represents the kind of a token.
//
// DESIGN CHOICE: The declaration order of the recognizable kinds (from
// TokenNewline to TokenDot) is also the default tie-break priority used when
// one lexeme is accepted by several token automata. Keeping the two in one
// place means adding a kind forces a decision about where it ranks.
type TokenKind int

const (
	// TokenEOF marks the end of the input. It is never produced by the DFA.
	TokenEOF TokenKind = iota

	// TokenMismatch is a single character no token automaton accepts,
	// emitted only by the lenient error policy.
	TokenMismatch

	// Trivia: produced by the DFA, filtered from the stream by default.
	TokenNewline
	TokenComment
	TokenWhitespace

	// Literals and names.
	TokenNumber       // NUMERO_LITERAL
	TokenInvalidIdent // IDENTIFICADOR_INVALIDO: a name starting with a digit
	TokenString       // STRING_LITERAL
	TokenBool         // LOGICO_LITERAL
	TokenKeyword      // PALAVRA_CHAVE
	TokenIdent        // IDENTIFICADOR
	TokenOp           // OP

	// Delimiters, one kind per character.
	TokenLParen
	TokenRParen
	TokenLBracket
	TokenRBracket
	TokenLBrace
	TokenRBrace
	TokenComma
	TokenSemicolon
	TokenColon
	TokenDot

	numKinds
)

var kindNames = [...]string{
	TokenEOF:          "EOF",
	TokenMismatch:     "MISMATCH",
	TokenNewline:      "NEWLINE",
	TokenComment:      "COMMENT",
	TokenWhitespace:   "WHITESPACE",
	TokenNumber:       "NUMERO_LITERAL",
	TokenInvalidIdent: "IDENTIFICADOR_INVALIDO",
	TokenString:       "STRING_LITERAL",
	TokenBool:         "LOGICO_LITERAL",
	TokenKeyword:      "PALAVRA_CHAVE",
	TokenIdent:        "IDENTIFICADOR",
	TokenOp:           "OP",
	TokenLParen:       "LPAREN",
	TokenRParen:       "RPAREN",
	TokenLBracket:     "LBRACKET",
	TokenRBracket:     "RBRACKET",
	TokenLBrace:       "LBRACE",
	TokenRBrace:       "RBRACE",
	TokenComma:        "COMMA",
	TokenSemicolon:    "SEMICOLON",
	TokenColon:        "COLON",
	TokenDot:          "DOT",
}

// String returns the kind name used by the language documentation,
// e.g. "NUMERO_LITERAL" or "LPAREN".
func (k TokenKind) String() string {
	if k >= 0 && k < numKinds {
		return kindNames[k]
	}
	return "UNKNOWN"
}

// ParseTokenKind returns the kind whose String form is name.
func ParseTokenKind(name string) (TokenKind, bool) {
	for k, n := range kindNames {
		if n == name {
			return TokenKind(k), true
		}
	}
	return 0, false
}

// MarshalText implements encoding.TextMarshaler so kinds serialize by name.
func (k TokenKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *TokenKind) UnmarshalText(text []byte) error {
	kind, ok := ParseTokenKind(string(text))
	if !ok {
		return fmt.Errorf("unknown token kind %q", text)
	}
	*k = kind
	return nil
}

// Recognizable reports whether k is produced by a token automaton.
func (k TokenKind) Recognizable() bool {
	return k >= TokenNewline && k < numKinds
}

// IsSkippable reports whether k is trivia the parser never sees.
func (k TokenKind) IsSkippable() bool {
	return k == TokenNewline || k == TokenComment || k == TokenWhitespace
}

// IsLiteral reports whether k carries a decoded literal value.
func (k TokenKind) IsLiteral() bool {
	return k == TokenNumber || k == TokenString || k == TokenBool
}

// IsDelimiter reports whether k is one of the single-character delimiters.
func (k TokenKind) IsDelimiter() bool {
	return k >= TokenLParen && k <= TokenDot
}

// label converts k to the accept label stored in the automaton.
func (k TokenKind) label() automaton.Label {
	return automaton.Label(k)
}

// kindOf converts an accept label back into a token kind.
func kindOf(l automaton.Label) TokenKind {
	return TokenKind(l)
}

// DefaultPriority returns the built-in tie-break order, highest first:
// trivia, numbers before the invalid-identifier look-alike, strings,
// booleans and keywords before plain identifiers, then operators and
// delimiters.
func DefaultPriority() []TokenKind {
	out := make([]TokenKind, 0, numKinds-TokenNewline)
	for k := TokenNewline; k < numKinds; k++ {
		out = append(out, k)
	}
	return out
}

// Keywords is the closed set of reserved words.
var Keywords = []string{
	"declarar", "como", "mostrar", "perguntar", "guardar_em",
	"se", "entao", "senao", "senao_se", "fim_se",
	"repetir", "vezes", "enquanto", "faca", "fim_enquanto", "fim_repetir",
	"funcao", "fim_funcao", "retornar",
	"para_cada", "em", "fim_para_cada", "parar",
	"e", "ou", "nao",
	"lista", "texto", "numero", "logico",
}

// Boolean literal spellings.
const (
	TrueWord  = "verdadeiro"
	FalseWord = "falso"
)

// Token represents a single lexical token.
//
// DESIGN CHOICE: Token is a value type. It is small, never mutated after
// the lexer emits it, and ownership passes to whoever consumes the stream.
type Token struct {
	// Kind is the token kind.
	Kind TokenKind

	// Lexeme is the exact source text of the token, quotes and all.
	Lexeme string

	// Value is the decoded literal: int64 or float64 for NUMERO_LITERAL
	// (the lexeme itself when it overflows float64),
	// the unescaped string for STRING_LITERAL, bool for LOGICO_LITERAL and
	// the text after '#' for COMMENT. It is nil for every other kind.
	Value any

	// Position is where the token starts.
	Position Position

	// Length is the length of the lexeme in bytes.
	Length int
}

// String returns a human-readable representation of the token.
// Example: "IDENTIFICADOR(nome) at main.bs:3:9"
//
// Control characters in the lexeme are escaped so NEWLINE tokens stay on
// one line.
func (t Token) String() string {
	q := strconv.Quote(t.Lexeme)
	return t.Kind.String() + "(" + q[1:len(q)-1] + ") at " + t.Position.String()
}

// Span returns the source span covered by this token.
func (t Token) Span() Span {
	end := t.Position
	end.Offset += t.Length
	if t.Kind == TokenNewline {
		end.Line++
		end.Column = 1
	} else {
		end.Column += utf8.RuneCountInString(t.Lexeme)
	}
	return Span{Start: t.Position, End: end}
}

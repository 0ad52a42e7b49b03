package lexer

import (
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/hassan/brasilscript/internal/automaton"
)

// ErrorPolicy selects what the Lexer does with input no token matches.
type ErrorPolicy int

const (
	// Strict stops at the first lexical error. Every later call returns
	// the same error.
	Strict ErrorPolicy = iota

	// Lenient turns each unmatched character into a TokenMismatch token,
	// records the error and keeps going.
	Lenient
)

func (p ErrorPolicy) String() string {
	switch p {
	case Strict:
		return "strict"
	case Lenient:
		return "lenient"
	default:
		return fmt.Sprintf("ErrorPolicy(%d)", int(p))
	}
}

// ParseErrorPolicy parses "strict" or "lenient", ignoring case.
func ParseErrorPolicy(s string) (ErrorPolicy, error) {
	switch strings.ToLower(s) {
	case "strict", "":
		return Strict, nil
	case "lenient":
		return Lenient, nil
	default:
		return Strict, fmt.Errorf("unknown error policy %q", s)
	}
}

// Option configures a Lexer.
type Option func(*Lexer)

// WithPolicy sets the error policy. The default is Strict.
func WithPolicy(p ErrorPolicy) Option {
	return func(l *Lexer) { l.policy = p }
}

// WithTrivia makes the Lexer return WHITESPACE, COMMENT and NEWLINE tokens
// instead of filtering them out.
func WithTrivia(keep bool) Option {
	return func(l *Lexer) { l.keepTrivia = keep }
}

// Lexer turns source text into a stream of tokens by running a lexer DFA
// with maximal munch.
//
// DESIGN PHILOSOPHY:
// All knowledge of what a token looks like lives in the DFA. The Lexer only:
// 1. Runs the DFA from the current offset as far as it will go
// 2. Remembers the last accepting state it passed through (the checkpoint)
// 3. Emits the lexeme up to the checkpoint and resumes right after it
// 4. Keeps line and column bookkeeping for every consumed character
//
// The DFA is never written, so any number of Lexers may share one. All scan
// state below is private to a single Lexer, which is not itself safe for
// concurrent use.
type Lexer struct {
	dfa *automaton.DFA

	// source is the complete source being lexed.
	source string

	// filename is used in positions and error messages.
	filename string

	// start is the byte offset of the token being scanned and current the
	// offset just past the last consumed byte.
	start   int
	current int

	// line and column are the 1-based position of start. Columns count
	// runes, not bytes.
	//
	// DESIGN CHOICE: We advance the column by the rune count of each
	// emitted lexeme rather than recounting from the start of the line, so
	// very long lines stay linear.
	line   int
	column int

	policy     ErrorPolicy
	keepTrivia bool

	// err is the sticky error of a Strict lexer.
	err error

	// errors holds every lexical error met so far.
	errors []*LexError
}

// New creates a Lexer for source driven by dfa.
func New(dfa *automaton.DFA, source, filename string, opts ...Option) *Lexer {
	l := &Lexer{
		dfa:      dfa,
		source:   source,
		filename: filename,
		line:     1,
		column:   1,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Reset rewinds the Lexer to the beginning of its source and forgets any
// errors. The token sequence that follows is identical to the first one.
func (l *Lexer) Reset() {
	l.start, l.current = 0, 0
	l.line, l.column = 1, 1
	l.err = nil
	l.errors = nil
}

// Errors returns the lexical errors met so far, in source order.
func (l *Lexer) Errors() []*LexError {
	return l.errors
}

// NextToken returns the next token that is not filtered out. At the end of
// the input it returns a TokenEOF token, repeatedly.
//
// On a lexical error a Strict Lexer returns a TokenMismatch token for the
// offending character together with a *LexError, and keeps returning that
// error. A Lenient Lexer returns the TokenMismatch token with a nil error
// and continues after the character; the error is available from Errors.
func (l *Lexer) NextToken() (Token, error) {
	for {
		if l.err != nil {
			return l.makeToken(TokenMismatch, l.start+l.mismatchLen()), l.err
		}

		l.start = l.current
		if l.isAtEnd() {
			return l.makeToken(TokenEOF, l.start), nil
		}

		kind, end, ok := l.munch()
		if !ok {
			return l.mismatch()
		}
		if !kind.Recognizable() {
			lexErr := l.newError(ErrInternalInvariant, fmt.Sprintf("accept label %d", int(kind)))
			l.fail(lexErr)
			return l.makeToken(TokenMismatch, end), lexErr
		}

		tok := l.makeToken(kind, end)
		l.consume(kind, end)
		metricTokensTotal.WithLabelValues(kind.String()).Inc()

		if kind.IsSkippable() && !l.keepTrivia {
			continue
		}
		return tok, nil
	}
}

// Tokenize returns the remaining tokens up to, but not including, TokenEOF.
// In Strict mode it stops at the first error and returns the tokens read
// before it together with the error.
func (l *Lexer) Tokenize() ([]Token, error) {
	var tokens []Token
	for {
		tok, err := l.NextToken()
		if err != nil {
			return tokens, err
		}
		if tok.Kind == TokenEOF {
			return tokens, nil
		}
		tokens = append(tokens, tok)
	}
}

// Tokenize lexes source with the default machine.
func Tokenize(source, filename string, opts ...Option) ([]Token, error) {
	return New(Default().DFA, source, filename, opts...).Tokenize()
}

// munch runs the DFA from start and returns the kind and end offset of the
// longest accepted prefix.
//
// DESIGN CHOICE: The checkpoint is only updated after consuming a byte, so
// an accepting start state could never yield an empty token and stall the
// scanner.
func (l *Lexer) munch() (TokenKind, int, bool) {
	state := l.dfa.Start()
	end := -1
	var label automaton.Label

	for i := l.start; i < len(l.source); i++ {
		state = l.dfa.StepByte(state, l.source[i])
		if state == automaton.NoState {
			break
		}
		if lb, ok := l.dfa.Accept(state); ok {
			end, label = i+1, lb
		}
	}
	if end < 0 {
		return 0, 0, false
	}
	return kindOf(label), end, true
}

// mismatch handles a position where no token matches.
func (l *Lexer) mismatch() (Token, error) {
	kind, reason := ErrInvalidCharacter, ""
	if c := l.source[l.start]; c == '"' || c == '\'' {
		kind, reason = ErrUnterminatedLiteral, "missing closing quote"
	}
	lexErr := l.newError(kind, reason)
	end := l.start + l.mismatchLen()
	tok := l.makeToken(TokenMismatch, end)

	if l.policy == Strict {
		l.fail(lexErr)
		return tok, lexErr
	}

	l.errors = append(l.errors, lexErr)
	metricErrorsTotal.WithLabelValues(errorLabel(kind), l.policy.String()).Inc()
	slog.Debug("Skipping unmatched character", slog.String("pos", lexErr.Pos.String()), slog.Any("error", lexErr))
	l.consume(TokenMismatch, end)
	return tok, nil
}

// mismatchLen is the byte length of the character at start. Invalid UTF-8
// counts as a one-byte character.
func (l *Lexer) mismatchLen() int {
	if l.isAtEnd() {
		return 0
	}
	_, size := utf8.DecodeRuneInString(l.source[l.start:])
	return size
}

func (l *Lexer) fail(err *LexError) {
	l.err = err
	l.errors = append(l.errors, err)
	metricErrorsTotal.WithLabelValues(errorLabel(err.Kind), l.policy.String()).Inc()
}

// consume moves past source[start:end] and updates line and column.
func (l *Lexer) consume(kind TokenKind, end int) {
	if kind == TokenNewline {
		l.line++
		l.column = 1
	} else {
		l.column += utf8.RuneCountInString(l.source[l.start:end])
	}
	l.current = end
}

func (l *Lexer) isAtEnd() bool {
	return l.current >= len(l.source)
}

// makeToken creates a token for source[start:end] at the current position.
func (l *Lexer) makeToken(kind TokenKind, end int) Token {
	lexeme := l.source[l.start:end]
	return Token{
		Kind:     kind,
		Lexeme:   lexeme,
		Value:    decodeValue(kind, lexeme),
		Position: l.position(),
		Length:   end - l.start,
	}
}

func (l *Lexer) position() Position {
	return Position{
		Filename: l.filename,
		Line:     l.line,
		Column:   l.column,
		Offset:   l.start,
	}
}

func (l *Lexer) newError(kind error, reason string) *LexError {
	var ch rune
	if !l.isAtEnd() {
		ch, _ = utf8.DecodeRuneInString(l.source[l.start:])
	}
	return &LexError{Kind: kind, Pos: l.position(), Char: ch, Reason: reason}
}

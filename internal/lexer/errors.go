package lexer

import (
	"errors"
	"fmt"
)

// Sentinel errors for the lexical error taxonomy. Use errors.Is to classify
// an error returned by the Lexer.
var (
	// ErrInvalidCharacter: no token automaton accepts any prefix of the
	// input at the reported position.
	ErrInvalidCharacter = errors.New("invalid character")

	// ErrUnterminatedLiteral: a string literal was opened but never
	// reached its closing quote. It is a special case of
	// ErrInvalidCharacter and matches both sentinels.
	ErrUnterminatedLiteral = errors.New("unterminated string literal")

	// ErrInternalInvariant: the DFA reached an accepting state whose label
	// is not a token kind. Automata built by this package never do this.
	ErrInternalInvariant = errors.New("internal invariant violation")
)

// LexError describes a lexical error at an exact source position.
type LexError struct {
	// Kind is one of the sentinel errors above.
	Kind error

	// Pos is where the offending token starts.
	Pos Position

	// Char is the offending character.
	Char rune

	// Reason adds detail to the message, if any.
	Reason string
}

func (e *LexError) Error() string {
	msg := fmt.Sprintf("%s: %v %q", e.Pos, e.Kind, e.Char)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

// Unwrap returns the sentinel error for the error kind.
func (e *LexError) Unwrap() error {
	return e.Kind
}

// Is lets an unterminated literal also match ErrInvalidCharacter.
func (e *LexError) Is(target error) bool {
	return target == ErrInvalidCharacter && e.Kind == ErrUnterminatedLiteral
}

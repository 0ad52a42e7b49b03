// Package automaton provides the finite-automaton machinery behind the
// table-driven lexer: NFA and DFA values, the union of several NFAs under a
// fresh start state, subset construction with label priorities, and
// label-aware minimization.
//
// Automata are built once and never mutated afterwards, so a single DFA can
// be shared by any number of goroutines that only read from it.
package automaton

import (
	"math/bits"
	"strconv"
)

// Symbol is a single input character, or the epsilon sentinel.
//
// DESIGN CHOICE: Input symbols are bytes (0-255) widened to an int, and
// epsilon is the negative sentinel Epsilon. This keeps epsilon a distinct
// value of the symbol type that can never collide with a real character,
// while real symbols still index directly into 256-entry tables.
type Symbol int16

// Epsilon is the no-input transition symbol. It is legal only in NFAs.
const Epsilon Symbol = -1

// Sym returns the Symbol for the input byte b.
func Sym(b byte) Symbol {
	return Symbol(b)
}

// IsEpsilon reports whether s is the epsilon sentinel.
func (s Symbol) IsEpsilon() bool {
	return s == Epsilon
}

// Byte returns the input byte for a non-epsilon symbol.
func (s Symbol) Byte() byte {
	return byte(s)
}

// String returns a printable form of the symbol, used in table dumps.
func (s Symbol) String() string {
	if s == Epsilon {
		return "ε"
	}
	return strconv.QuoteRune(rune(s))
}

// Alphabet is a set of input symbols. Epsilon is never a member.
//
// DESIGN CHOICE: A fixed 256-bit set rather than a map because alphabets are
// restricted to single bytes; union and membership become word operations and
// iteration order is naturally sorted, which keeps state numbering stable.
type Alphabet struct {
	words [4]uint64
}

// AlphabetOf returns an alphabet containing every byte of chars.
func AlphabetOf(chars string) Alphabet {
	var a Alphabet
	for i := 0; i < len(chars); i++ {
		a.Add(Sym(chars[i]))
	}
	return a
}

// Add inserts s into the alphabet. Epsilon is ignored.
func (a *Alphabet) Add(s Symbol) {
	if s < 0 || s > 255 {
		return
	}
	a.words[s>>6] |= 1 << (uint(s) & 63)
}

// Has reports whether s is a member of the alphabet.
func (a Alphabet) Has(s Symbol) bool {
	if s < 0 || s > 255 {
		return false
	}
	return a.words[s>>6]&(1<<(uint(s)&63)) != 0
}

// Union returns the union of a and other.
func (a Alphabet) Union(other Alphabet) Alphabet {
	for i := range a.words {
		a.words[i] |= other.words[i]
	}
	return a
}

// Len returns the number of symbols in the alphabet.
func (a Alphabet) Len() int {
	n := 0
	for _, w := range a.words {
		n += bits.OnesCount64(w)
	}
	return n
}

// Symbols returns the members of the alphabet in ascending order.
func (a Alphabet) Symbols() []Symbol {
	out := make([]Symbol, 0, a.Len())
	for i, w := range a.words {
		for w != 0 {
			b := bits.TrailingZeros64(w)
			out = append(out, Symbol(i*64+b))
			w &= w - 1
		}
	}
	return out
}

package automaton

import (
	"errors"
	"fmt"
)

// Structural errors reported by NewDFA.
var (
	ErrStateOutOfRange  = errors.New("state out of range")
	ErrEpsilonInDFA     = errors.New("epsilon transition in DFA")
	ErrNondeterministic = errors.New("nondeterministic transition")
)

// DFA is a deterministic finite automaton with a partial transition
// function: a missing transition means reject. States are numbered
// 0..NumStates()-1 and each state carries at most one accept label.
//
// DESIGN CHOICE: The transition function is a dense table with one row per
// state and one column per alphabet symbol, plus a 256-entry map from input
// byte to column. Scanning is then two array lookups per character with no
// hashing, and the table is never written after construction, which makes a
// DFA safe to share between concurrent scanners.
type DFA struct {
	start     StateID
	n         int
	alphabet  Alphabet
	symbols   []Symbol
	col       [256]int16
	table     []StateID
	accept    []Label
	accepting []bool
}

// newDFA returns a DFA with n states and no transitions or accept labels.
func newDFA(n int, start StateID, alphabet Alphabet) *DFA {
	d := &DFA{
		start:     start,
		n:         n,
		alphabet:  alphabet,
		symbols:   alphabet.Symbols(),
		accept:    make([]Label, n),
		accepting: make([]bool, n),
	}
	for i := range d.col {
		d.col[i] = -1
	}
	for i, s := range d.symbols {
		d.col[s] = int16(i)
	}
	d.table = make([]StateID, n*len(d.symbols))
	for i := range d.table {
		d.table[i] = NoState
	}
	return d
}

// NewDFA builds a DFA from an explicit transition table over states
// 0..numStates-1. Only structural well-formedness is checked: every state is
// in range, no edge is epsilon and no (state, symbol) pair has two targets.
// Unreachable states are permitted.
func NewDFA(numStates int, start StateID, edges []Edge, accept map[StateID]Label) (*DFA, error) {
	inRange := func(s StateID) bool { return s >= 0 && int(s) < numStates }
	if !inRange(start) {
		return nil, fmt.Errorf("start state %d: %w", start, ErrStateOutOfRange)
	}

	var alphabet Alphabet
	for _, e := range edges {
		if e.Sym.IsEpsilon() {
			return nil, fmt.Errorf("edge %d -> %d: %w", e.From, e.To, ErrEpsilonInDFA)
		}
		if !inRange(e.From) || !inRange(e.To) {
			return nil, fmt.Errorf("edge %d -> %d: %w", e.From, e.To, ErrStateOutOfRange)
		}
		alphabet.Add(e.Sym)
	}

	d := newDFA(numStates, start, alphabet)
	for _, e := range edges {
		if prev := d.Step(e.From, e.Sym); prev != NoState && prev != e.To {
			return nil, fmt.Errorf("state %d on %v goes to %d and %d: %w", e.From, e.Sym, prev, e.To, ErrNondeterministic)
		}
		d.set(e.From, e.Sym, e.To)
	}
	for s, l := range accept {
		if !inRange(s) {
			return nil, fmt.Errorf("accept state %d: %w", s, ErrStateOutOfRange)
		}
		d.setAccept(s, l)
	}
	return d, nil
}

func (d *DFA) set(from StateID, sym Symbol, to StateID) {
	d.table[int(from)*len(d.symbols)+int(d.col[sym])] = to
}

func (d *DFA) setAccept(s StateID, l Label) {
	d.accept[s] = l
	d.accepting[s] = true
}

// Start returns the start state.
func (d *DFA) Start() StateID { return d.start }

// NumStates returns the number of states.
func (d *DFA) NumStates() int { return d.n }

// Alphabet returns the input alphabet.
func (d *DFA) Alphabet() Alphabet { return d.alphabet }

// Step returns the state reached from s on sym, or NoState when there is no
// transition (including when sym is not in the alphabet).
func (d *DFA) Step(s StateID, sym Symbol) StateID {
	if s < 0 || int(s) >= d.n || sym < 0 || sym > 255 {
		return NoState
	}
	c := d.col[sym]
	if c < 0 {
		return NoState
	}
	return d.table[int(s)*len(d.symbols)+int(c)]
}

// StepByte is Step for a raw input byte. It is the scanner's hot path.
func (d *DFA) StepByte(s StateID, b byte) StateID {
	c := d.col[b]
	if c < 0 {
		return NoState
	}
	return d.table[int(s)*len(d.symbols)+int(c)]
}

// Accept returns the label of s and whether s is accepting.
func (d *DFA) Accept(s StateID) (Label, bool) {
	if s < 0 || int(s) >= d.n || !d.accepting[s] {
		return 0, false
	}
	return d.accept[s], true
}

// Edges returns every transition, ordered by source state then symbol.
func (d *DFA) Edges() []Edge {
	var out []Edge
	for s := 0; s < d.n; s++ {
		for i, sym := range d.symbols {
			if t := d.table[s*len(d.symbols)+i]; t != NoState {
				out = append(out, Edge{From: StateID(s), Sym: sym, To: t})
			}
		}
	}
	return out
}

// Restrict returns a copy of d containing only the states for which keep is
// true, renumbered in ascending order. Transitions into dropped states are
// removed. The start state is always kept.
func (d *DFA) Restrict(keep []bool) *DFA {
	renum := make([]StateID, d.n)
	n := 0
	for s := 0; s < d.n; s++ {
		if keep[s] || StateID(s) == d.start {
			renum[s] = StateID(n)
			n++
		} else {
			renum[s] = NoState
		}
	}

	out := newDFA(n, renum[d.start], d.alphabet)
	for s := 0; s < d.n; s++ {
		ns := renum[s]
		if ns == NoState {
			continue
		}
		if l, ok := d.Accept(StateID(s)); ok {
			out.setAccept(ns, l)
		}
		for _, sym := range d.symbols {
			t := d.Step(StateID(s), sym)
			if t != NoState && renum[t] != NoState {
				out.set(ns, sym, renum[t])
			}
		}
	}
	return out
}

// Stats summarizes the size of a DFA.
type Stats struct {
	States      int `json:"states"`
	Accepting   int `json:"accepting"`
	Transitions int `json:"transitions"`
	Symbols     int `json:"symbols"`
}

// Stats returns size information about d.
func (d *DFA) Stats() Stats {
	st := Stats{States: d.n, Symbols: len(d.symbols)}
	for s := 0; s < d.n; s++ {
		if d.accepting[s] {
			st.Accepting++
		}
	}
	for _, t := range d.table {
		if t != NoState {
			st.Transitions++
		}
	}
	return st
}

// Simulate runs d over input from the start state and reports the accept
// label of the state reached after the whole input, if any.
func Simulate(d *DFA, input string) (Label, bool) {
	s := d.start
	for i := 0; i < len(input); i++ {
		s = d.StepByte(s, input[i])
		if s == NoState {
			return 0, false
		}
	}
	return d.Accept(s)
}

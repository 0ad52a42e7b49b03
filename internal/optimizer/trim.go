package optimizer

import (
	"github.com/hassan/brasilscript/internal/automaton"
)

// TrimPass removes states that cannot affect any scan.
//
// WHAT IS A USELESS STATE?
// A DFA state is useless when either:
//  1. It is unreachable: no input leads to it from the start state
//  2. It is dead: no input leads from it to an accepting state
//
// The maximal-munch scanner only ever records accepting states as
// checkpoints, so dropping dead states only makes it stop earlier on input
// it would have rejected anyway; the token stream does not change.
//
// DESIGN CHOICE: Two worklist sweeps, as for unreachable basic blocks:
// forward from the start state for reachability and backward from the
// accepting states for liveness. The start state is always kept so the
// result is a valid automaton even for the empty language.
type TrimPass struct{}

// Name returns the name of this pass.
func (p *TrimPass) Name() string {
	return "Trim"
}

// Run trims d.
func (p *TrimPass) Run(d *automaton.DFA) (*automaton.DFA, error) {
	reachable := p.reachable(d)
	live := p.live(d)

	keep := make([]bool, d.NumStates())
	removed := false
	for s := range keep {
		keep[s] = reachable[s] && live[s]
		if !keep[s] {
			removed = true
		}
	}
	if !removed {
		return d, nil
	}
	return d.Restrict(keep), nil
}

// reachable marks every state reachable from the start state.
func (p *TrimPass) reachable(d *automaton.DFA) []bool {
	symbols := d.Alphabet().Symbols()
	seen := make([]bool, d.NumStates())
	seen[d.Start()] = true
	worklist := []automaton.StateID{d.Start()}

	for len(worklist) > 0 {
		s := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]
		for _, sym := range symbols {
			t := d.Step(s, sym)
			if t != automaton.NoState && !seen[t] {
				seen[t] = true
				worklist = append(worklist, t)
			}
		}
	}
	return seen
}

// live marks every state from which an accepting state is reachable.
func (p *TrimPass) live(d *automaton.DFA) []bool {
	preds := make([][]automaton.StateID, d.NumStates())
	for _, e := range d.Edges() {
		preds[e.To] = append(preds[e.To], e.From)
	}

	seen := make([]bool, d.NumStates())
	var worklist []automaton.StateID
	for s := 0; s < d.NumStates(); s++ {
		if _, ok := d.Accept(automaton.StateID(s)); ok {
			seen[s] = true
			worklist = append(worklist, automaton.StateID(s))
		}
	}

	for len(worklist) > 0 {
		s := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]
		for _, pred := range preds[s] {
			if !seen[pred] {
				seen[pred] = true
				worklist = append(worklist, pred)
			}
		}
	}
	return seen
}

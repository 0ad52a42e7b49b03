package automaton

import "fmt"

// Union combines nfas into one NFA: a fresh start state taken from alloc has
// an epsilon transition to the start of every sub-automaton, and the
// transition tables and accept labels are merged side by side.
//
// The sub-automata must have been built from the same allocator (or otherwise
// have disjoint state sets); Union panics if two of them share a state, since
// merging them would silently change the recognized language.
func Union(alloc *Allocator, nfas ...*NFA) *NFA {
	start := alloc.New()

	owner := make(map[StateID]int)
	ids := []StateID{start}
	trans := map[StateID]map[Symbol]StateSet{}
	accept := map[StateID]Label{}
	var alphabet Alphabet
	var starts []StateID

	for i, n := range nfas {
		for _, s := range n.states {
			if j, dup := owner[s]; dup || s == start {
				panic(fmt.Sprintf("automaton: state %d shared by sub-automata %d and %d", s, j, i))
			}
			owner[s] = i
			ids = append(ids, s)
		}
		for s, m := range n.trans {
			trans[s] = m
		}
		for s, l := range n.accept {
			accept[s] = l
		}
		alphabet = alphabet.Union(n.alphabet)
		starts = append(starts, n.start)
	}
	if len(starts) > 0 {
		trans[start] = map[Symbol]StateSet{Epsilon: newStateSet(starts)}
	}

	return &NFA{
		start:    start,
		states:   newStateSet(ids),
		alphabet: alphabet,
		trans:    trans,
		accept:   accept,
	}
}

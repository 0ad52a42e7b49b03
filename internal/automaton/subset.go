package automaton

// EpsilonClosure returns every state reachable from states using only
// epsilon transitions, including the states themselves. The result does not
// depend on the order in which states are visited.
func EpsilonClosure(n *NFA, states StateSet) StateSet {
	seen := make(map[StateID]bool, len(states))
	stack := make([]StateID, 0, len(states))
	for _, s := range states {
		if !seen[s] {
			seen[s] = true
			stack = append(stack, s)
		}
	}
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, t := range n.Transitions(s, Epsilon) {
			if !seen[t] {
				seen[t] = true
				stack = append(stack, t)
			}
		}
	}

	out := make([]StateID, 0, len(seen))
	for s := range seen {
		out = append(out, s)
	}
	return newStateSet(out)
}

// Move returns the states reachable from any state of states on sym, without
// applying the epsilon closure.
func Move(n *NFA, states StateSet, sym Symbol) StateSet {
	var out []StateID
	for _, s := range states {
		out = append(out, n.Transitions(s, sym)...)
	}
	return newStateSet(out)
}

// ToDFA converts n into an equivalent DFA by subset construction.
//
// ALGORITHM:
//  1. The DFA start state is the epsilon closure of the NFA start.
//  2. For each unmarked DFA state T and each alphabet symbol a, the target
//     U = closure(move(T, a)) is recorded when non-empty, and queued the
//     first time it is seen.
//  3. A DFA state accepts when any of its NFA states accepts; when several
//     labels are present the one ranked highest by prio wins.
//
// States are numbered in the order they are discovered, with the worklist
// processed first-in first-out and symbols in ascending order, so the same
// NFA always yields the same numbering. The start state is 0.
//
// Subset construction cannot fail on a well-formed NFA; the state space is
// bounded by 2^|NFA states|.
func ToDFA(n *NFA, prio Priority) *DFA {
	symbols := n.alphabet.Symbols()

	startSet := EpsilonClosure(n, StateSet{n.start})
	index := map[string]StateID{startSet.key(): 0}
	sets := []StateSet{startSet}

	type edge struct {
		from StateID
		sym  Symbol
		to   StateID
	}
	var edges []edge

	for next := 0; next < len(sets); next++ {
		T := sets[next]
		for _, a := range symbols {
			U := EpsilonClosure(n, Move(n, T, a))
			if len(U) == 0 {
				continue
			}
			k := U.key()
			id, ok := index[k]
			if !ok {
				id = StateID(len(sets))
				index[k] = id
				sets = append(sets, U)
			}
			edges = append(edges, edge{from: StateID(next), sym: a, to: id})
		}
	}

	d := newDFA(len(sets), 0, n.alphabet)
	for _, e := range edges {
		d.set(e.from, e.sym, e.to)
	}
	for id, set := range sets {
		if l, ok := resolveLabel(n, set, prio); ok {
			d.setAccept(StateID(id), l)
		}
	}
	return d
}

// resolveLabel picks the accept label of a DFA state from the labels of the
// NFA states it contains.
func resolveLabel(n *NFA, set StateSet, prio Priority) (Label, bool) {
	var labels []Label
	for _, s := range set {
		if l, ok := n.accept[s]; ok {
			labels = append(labels, l)
		}
	}
	return prio.Best(labels)
}

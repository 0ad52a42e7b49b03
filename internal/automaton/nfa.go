package automaton

// Edge is one transition of an explicit transition table.
type Edge struct {
	From StateID
	Sym  Symbol
	To   StateID
}

// NFA is a nondeterministic finite automaton with epsilon transitions.
//
// An NFA is immutable once built. Every accessor returns data that callers
// must not modify.
type NFA struct {
	start    StateID
	states   StateSet
	alphabet Alphabet
	trans    map[StateID]map[Symbol]StateSet
	accept   map[StateID]Label
}

// NewNFA builds an NFA from an explicit transition table. The state set is
// every state mentioned by start, edges or accept; unreachable states are
// permitted. The alphabet is the set of non-epsilon edge symbols.
func NewNFA(start StateID, edges []Edge, accept map[StateID]Label) *NFA {
	ids := []StateID{start}
	raw := make(map[StateID]map[Symbol][]StateID)
	var alphabet Alphabet
	for _, e := range edges {
		ids = append(ids, e.From, e.To)
		if raw[e.From] == nil {
			raw[e.From] = make(map[Symbol][]StateID)
		}
		raw[e.From][e.Sym] = append(raw[e.From][e.Sym], e.To)
		alphabet.Add(e.Sym)
	}
	acc := make(map[StateID]Label, len(accept))
	for s, l := range accept {
		ids = append(ids, s)
		acc[s] = l
	}
	return &NFA{
		start:    start,
		states:   newStateSet(ids),
		alphabet: alphabet,
		trans:    freeze(raw),
		accept:   acc,
	}
}

// Start returns the start state.
func (n *NFA) Start() StateID { return n.start }

// States returns every state of the automaton in ascending order.
func (n *NFA) States() StateSet { return n.states }

// NumStates returns the number of states.
func (n *NFA) NumStates() int { return len(n.states) }

// Alphabet returns the input alphabet, which never contains Epsilon.
func (n *NFA) Alphabet() Alphabet { return n.alphabet }

// Transitions returns the states reached from s on sym, which may be Epsilon.
func (n *NFA) Transitions(s StateID, sym Symbol) StateSet {
	return n.trans[s][sym]
}

// Accept returns the label of s and whether s is accepting.
func (n *NFA) Accept(s StateID) (Label, bool) {
	l, ok := n.accept[s]
	return l, ok
}

// Builder assembles an NFA state by state. States come from the allocator
// shared by the construction session, so NFAs built by different builders
// of one session never share a state.
type Builder struct {
	alloc  *Allocator
	trans  map[StateID]map[Symbol][]StateID
	accept map[StateID]Label
}

// NewBuilder returns a builder drawing states from alloc.
func NewBuilder(alloc *Allocator) *Builder {
	return &Builder{
		alloc:  alloc,
		trans:  make(map[StateID]map[Symbol][]StateID),
		accept: make(map[StateID]Label),
	}
}

// State allocates a new state.
func (b *Builder) State() StateID {
	return b.alloc.New()
}

// Edge adds a transition from one state to another on sym.
func (b *Builder) Edge(from StateID, sym Symbol, to StateID) {
	m := b.trans[from]
	if m == nil {
		m = make(map[Symbol][]StateID)
		b.trans[from] = m
	}
	m[sym] = append(m[sym], to)
}

// Edges adds a transition on every byte of chars.
func (b *Builder) Edges(from StateID, chars string, to StateID) {
	for i := 0; i < len(chars); i++ {
		b.Edge(from, Sym(chars[i]), to)
	}
}

// EdgesFunc adds a transition on every byte for which match returns true.
func (b *Builder) EdgesFunc(from StateID, to StateID, match func(byte) bool) {
	for c := 0; c < 256; c++ {
		if match(byte(c)) {
			b.Edge(from, Sym(byte(c)), to)
		}
	}
}

// Accept marks s as accepting with label l.
func (b *Builder) Accept(s StateID, l Label) {
	b.accept[s] = l
}

// Build returns the NFA rooted at start. Only states reachable from start
// are kept.
func (b *Builder) Build(start StateID) *NFA {
	seen := map[StateID]bool{start: true}
	stack := []StateID{start}
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, targets := range b.trans[s] {
			for _, t := range targets {
				if !seen[t] {
					seen[t] = true
					stack = append(stack, t)
				}
			}
		}
	}

	ids := make([]StateID, 0, len(seen))
	raw := make(map[StateID]map[Symbol][]StateID)
	accept := make(map[StateID]Label)
	var alphabet Alphabet
	for s := range seen {
		ids = append(ids, s)
		if l, ok := b.accept[s]; ok {
			accept[s] = l
		}
		if len(b.trans[s]) == 0 {
			continue
		}
		m := make(map[Symbol][]StateID, len(b.trans[s]))
		for sym, targets := range b.trans[s] {
			m[sym] = append([]StateID(nil), targets...)
			alphabet.Add(sym)
		}
		raw[s] = m
	}

	return &NFA{
		start:    start,
		states:   newStateSet(ids),
		alphabet: alphabet,
		trans:    freeze(raw),
		accept:   accept,
	}
}

// freeze converts raw target lists into sorted state sets.
func freeze(raw map[StateID]map[Symbol][]StateID) map[StateID]map[Symbol]StateSet {
	out := make(map[StateID]map[Symbol]StateSet, len(raw))
	for s, m := range raw {
		fm := make(map[Symbol]StateSet, len(m))
		for sym, targets := range m {
			fm[sym] = newStateSet(targets)
		}
		out[s] = fm
	}
	return out
}

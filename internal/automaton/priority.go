package automaton

// Priority is a total order over labels used to resolve DFA states whose
// underlying NFA states accept with more than one label.
//
// Labels listed earlier win. Labels that are not listed rank after every
// listed label, and among themselves the smaller label value wins, so the
// order stays total whatever the caller passes in.
type Priority struct {
	rank map[Label]int
}

// NewPriority returns a priority order, highest priority first.
// A label repeated later in the list keeps its first position.
func NewPriority(labels ...Label) Priority {
	rank := make(map[Label]int, len(labels))
	for i, l := range labels {
		if _, ok := rank[l]; !ok {
			rank[l] = i
		}
	}
	return Priority{rank: rank}
}

// Less reports whether a has higher priority than b.
func (p Priority) Less(a, b Label) bool {
	ra, oka := p.rank[a]
	rb, okb := p.rank[b]
	switch {
	case oka && okb:
		return ra < rb
	case oka != okb:
		return oka
	default:
		return a < b
	}
}

// Best returns the highest-priority label among labels.
// The second result is false when labels is empty.
func (p Priority) Best(labels []Label) (Label, bool) {
	if len(labels) == 0 {
		return 0, false
	}
	best := labels[0]
	for _, l := range labels[1:] {
		if p.Less(l, best) {
			best = l
		}
	}
	return best, true
}

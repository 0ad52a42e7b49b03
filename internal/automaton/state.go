package automaton

import "sort"

// StateID identifies a state within one automaton.
type StateID int32

// NoState is returned by DFA lookups when no transition exists.
const NoState StateID = -1

// Label tags an accepting state with the token kind it recognizes.
// The automaton package treats labels as opaque; the lexer maps them to
// its token kinds.
type Label int

// Allocator hands out fresh, monotonically increasing state identifiers.
//
// DESIGN CHOICE: An explicit allocator passed to every builder rather than a
// package-level counter. One allocator is scoped to one construction session,
// so two sessions never leak identifiers into each other and builders can be
// called repeatedly without colliding.
type Allocator struct {
	next StateID
}

// NewAllocator returns an allocator whose first state is 0.
func NewAllocator() *Allocator {
	return &Allocator{}
}

// New returns a fresh state identifier.
func (a *Allocator) New() StateID {
	id := a.next
	a.next++
	return id
}

// Allocated returns how many identifiers have been handed out.
func (a *Allocator) Allocated() int {
	return int(a.next)
}

// StateSet is a sorted, duplicate-free set of states.
type StateSet []StateID

// newStateSet sorts and deduplicates ids in place.
func newStateSet(ids []StateID) StateSet {
	if len(ids) == 0 {
		return nil
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := ids[:1]
	for _, id := range ids[1:] {
		if id != out[len(out)-1] {
			out = append(out, id)
		}
	}
	return StateSet(out)
}

// Contains reports whether id is in the set.
func (s StateSet) Contains(id StateID) bool {
	i := sort.Search(len(s), func(i int) bool { return s[i] >= id })
	return i < len(s) && s[i] == id
}

// key returns a string usable as a map key for the frozen set.
func (s StateSet) key() string {
	buf := make([]byte, 0, len(s)*4)
	for _, id := range s {
		buf = append(buf, byte(id>>24), byte(id>>16), byte(id>>8), byte(id))
	}
	return string(buf)
}

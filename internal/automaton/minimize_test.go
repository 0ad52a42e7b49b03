package automaton

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	letters = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ_"
	digits  = "0123456789"
)

func edgesOn(from StateID, chars string, to StateID) []Edge {
	out := make([]Edge, 0, len(chars))
	for i := 0; i < len(chars); i++ {
		out = append(out, Edge{from, Sym(chars[i]), to})
	}
	return out
}

func mustDFA(t *testing.T, n int, start StateID, edges []Edge, accept map[StateID]Label) *DFA {
	t.Helper()
	d, err := NewDFA(n, start, edges, accept)
	require.NoError(t, err)
	return d
}

// identifierDFA recognizes [A-Za-z_][A-Za-z0-9_]*.
func identifierDFA(t *testing.T) *DFA {
	var edges []Edge
	edges = append(edges, edgesOn(0, letters, 1)...)
	edges = append(edges, edgesOn(1, letters+digits, 1)...)
	return mustDFA(t, 2, 0, edges, map[StateID]Label{1: labelA})
}

// numberDFA recognizes digit+ ('.' digit*)? with one label.
func numberDFA(t *testing.T) *DFA {
	var edges []Edge
	edges = append(edges, edgesOn(0, digits, 1)...)
	edges = append(edges, edgesOn(1, digits, 1)...)
	edges = append(edges, edgesOn(2, digits, 2)...)
	edges = append(edges, Edge{1, Sym('.'), 2})
	return mustDFA(t, 3, 0, edges, map[StateID]Label{1: labelA, 2: labelA})
}

// redundantDFA recognizes "ab" and "cb" through duplicated paths.
func redundantDFA(t *testing.T) *DFA {
	return mustDFA(t, 5, 0, []Edge{
		{0, Sym('a'), 1},
		{0, Sym('c'), 2},
		{1, Sym('b'), 3},
		{2, Sym('b'), 4},
	}, map[StateID]Label{3: labelA, 4: labelA})
}

// twoLabelDFA accepts "a" with one label and "b" with another. The two
// accepting states have identical (empty) futures.
func twoLabelDFA(t *testing.T) *DFA {
	return mustDFA(t, 3, 0, []Edge{
		{0, Sym('a'), 1},
		{0, Sym('b'), 2},
	}, map[StateID]Label{1: labelA, 2: labelB})
}

func assertSameBehaviour(t *testing.T, want, got *DFA, samples []string) {
	t.Helper()
	for _, s := range samples {
		wl, wok := Simulate(want, s)
		gl, gok := Simulate(got, s)
		assert.Equal(t, wok, gok, "accept mismatch on %q", s)
		assert.Equal(t, wl, gl, "label mismatch on %q", s)
	}
}

func TestMinimize_PreservesLanguage(t *testing.T) {
	tests := []struct {
		name    string
		dfa     *DFA
		samples []string
		states  int
	}{
		{
			name:    "identifier",
			dfa:     identifierDFA(t),
			samples: []string{"a", "abc", "a1_2", "1abc", "_", "", "a-b"},
			states:  2,
		},
		{
			name:    "number",
			dfa:     numberDFA(t),
			samples: []string{"0", "123", "3.14", "12.", ".5", "1.2.3", ""},
			states:  3,
		},
		{
			name:    "redundant paths",
			dfa:     redundantDFA(t),
			samples: []string{"ab", "cb", "a", "c", "b", "abb", ""},
			states:  3,
		},
		{
			name:    "distinct labels",
			dfa:     twoLabelDFA(t),
			samples: []string{"a", "b", "ab", ""},
			states:  3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Minimize(tt.dfa)

			assertSameBehaviour(t, tt.dfa, m, tt.samples)
			assert.LessOrEqual(t, m.NumStates(), tt.dfa.NumStates())
			assert.Equal(t, tt.states, m.NumStates())
			assert.Equal(t, StateID(0), m.Start())
		})
	}
}

func TestMinimize_KeepsLabelsApart(t *testing.T) {
	m := Minimize(twoLabelDFA(t))

	l, ok := Simulate(m, "a")
	require.True(t, ok)
	assert.Equal(t, labelA, l)

	l, ok = Simulate(m, "b")
	require.True(t, ok)
	assert.Equal(t, labelB, l)
}

func TestMinimize_DropsDeadStates(t *testing.T) {
	// State 2 can never reach acceptance and state 3 is unreachable.
	d := mustDFA(t, 4, 0, []Edge{
		{0, Sym('a'), 1},
		{0, Sym('b'), 2},
		{2, Sym('b'), 2},
		{3, Sym('a'), 1},
	}, map[StateID]Label{1: labelA})

	m := Minimize(d)

	assertSameBehaviour(t, d, m, []string{"a", "b", "bb", "ba", ""})
	assert.Equal(t, NoState, m.Step(m.Start(), Sym('b')))
	assert.LessOrEqual(t, m.NumStates(), 3)
}

func TestMinimize_DropsUnreachableStates(t *testing.T) {
	// States 2 and 3 are unreachable and distinguishable from 0 and 1, so
	// refinement alone keeps them in blocks of their own.
	d := mustDFA(t, 4, 0, []Edge{
		{0, Sym('a'), 1},
		{2, Sym('b'), 3},
		{3, Sym('b'), 2},
	}, map[StateID]Label{1: labelA, 3: labelB})

	m := Minimize(d)

	assert.Equal(t, 2, m.NumStates())
	assertSameBehaviour(t, d, m, []string{"", "a", "b", "ab", "bb"})
	assert.Equal(t, []Edge{{0, Sym('a'), 1}}, m.Edges())
}

func TestMinimize_EmptyLanguage(t *testing.T) {
	d := mustDFA(t, 2, 1, []Edge{{1, Sym('a'), 0}, {0, Sym('a'), 1}}, nil)

	m := Minimize(d)

	assert.Equal(t, 1, m.NumStates())
	assert.Empty(t, m.Edges())
	_, ok := Simulate(m, "aa")
	assert.False(t, ok)
}

func TestMinimize_NonZeroStart(t *testing.T) {
	d := mustDFA(t, 3, 2, []Edge{{2, Sym('x'), 0}, {0, Sym('y'), 1}}, map[StateID]Label{1: labelC})

	m := Minimize(d)

	assert.Equal(t, StateID(0), m.Start())
	l, ok := Simulate(m, "xy")
	require.True(t, ok)
	assert.Equal(t, labelC, l)
}

func TestMinimize_Idempotent(t *testing.T) {
	once := Minimize(redundantDFA(t))
	twice := Minimize(once)

	assert.Equal(t, once.NumStates(), twice.NumStates())
	assert.Equal(t, once.Edges(), twice.Edges())
}

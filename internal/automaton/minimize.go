package automaton

import "sort"

// Minimize returns the DFA with the fewest states that accepts the same
// strings as d with the same accept label for each string.
//
// ALGORITHM: Hopcroft-style partition refinement.
//   - The transition function is completed with an explicit sink state so
//     every (state, symbol) pair has a target.
//   - The initial partition groups states by accept label. Non-accepting
//     states (and the sink) form one block, and every distinct label gets
//     its own block. Grouping all accepting states together would be correct
//     only for single-label automata; for a token DFA it would merge, say, a
//     keyword state with an identifier state and change tokenization.
//   - Every initial block is queued as a splitter. For a splitter A and a
//     symbol c, each block Y is split into the states that move into A on c
//     and those that do not. When Y was queued both halves stay queued,
//     otherwise only the smaller half is pushed.
//   - Each final block reachable from the start block becomes one state,
//     with the transitions and label of any member. The block holding the
//     sink is dropped (its states can never accept), so transitions into it
//     become missing transitions. Unreachable blocks are dropped too.
//
// The result never has more states than d.
func Minimize(d *DFA) *DFA {
	n := d.n
	k := len(d.symbols)
	sink := n
	total := n + 1

	delta := func(s, c int) int {
		if s == sink {
			return sink
		}
		if t := d.table[s*k+c]; t != NoState {
			return int(t)
		}
		return sink
	}

	// inv[c][t] lists the states that move to t on symbol column c.
	inv := make([][][]int, k)
	for c := 0; c < k; c++ {
		inv[c] = make([][]int, total)
		for s := 0; s < total; s++ {
			t := delta(s, c)
			inv[c][t] = append(inv[c][t], s)
		}
	}

	blockOf := make([]int, total)
	blocks := initialPartition(d, blockOf)

	work := make([]int, 0, len(blocks))
	inWork := make([]bool, len(blocks))
	for b := range blocks {
		work = append(work, b)
		inWork[b] = true
	}
	push := func(b int) {
		work = append(work, b)
		inWork[b] = true
	}

	marked := make([][]int, len(blocks))
	flag := make([]bool, total)
	var touched []int

	for len(work) > 0 {
		a := work[len(work)-1]
		work = work[:len(work)-1]
		inWork[a] = false
		splitter := append([]int(nil), blocks[a]...)

		for c := 0; c < k; c++ {
			touched = touched[:0]
			for _, q := range splitter {
				for _, p := range inv[c][q] {
					b := blockOf[p]
					if len(marked[b]) == 0 {
						touched = append(touched, b)
					}
					marked[b] = append(marked[b], p)
				}
			}

			for _, y := range touched {
				in := marked[y]
				marked[y] = nil
				if len(in) == len(blocks[y]) {
					continue
				}

				for _, p := range in {
					flag[p] = true
				}
				rest := make([]int, 0, len(blocks[y])-len(in))
				for _, p := range blocks[y] {
					if !flag[p] {
						rest = append(rest, p)
					}
				}
				for _, p := range in {
					flag[p] = false
				}

				nb := len(blocks)
				blocks = append(blocks, in)
				blocks[y] = rest
				for _, p := range in {
					blockOf[p] = nb
				}
				marked = append(marked, nil)
				inWork = append(inWork, false)

				switch {
				case inWork[y]:
					push(nb)
				case len(in) <= len(rest):
					push(nb)
				default:
					push(y)
				}
			}
		}
	}

	return collapse(d, blocks, blockOf, sink)
}

// initialPartition groups the states of d, plus the sink, by accept label.
// Block 0 holds the non-accepting states; labelled blocks follow in
// ascending label order.
func initialPartition(d *DFA, blockOf []int) [][]int {
	var labels []Label
	byLabel := map[Label][]int{}
	var rejecting []int
	for s := 0; s < d.n; s++ {
		if !d.accepting[s] {
			rejecting = append(rejecting, s)
			continue
		}
		l := d.accept[s]
		if _, ok := byLabel[l]; !ok {
			labels = append(labels, l)
		}
		byLabel[l] = append(byLabel[l], s)
	}
	rejecting = append(rejecting, d.n)
	sort.Slice(labels, func(i, j int) bool { return labels[i] < labels[j] })

	blocks := [][]int{rejecting}
	for _, l := range labels {
		blocks = append(blocks, byLabel[l])
	}
	for b, members := range blocks {
		for _, s := range members {
			blockOf[s] = b
		}
	}
	return blocks
}

// collapse builds the quotient automaton of d under the final partition.
func collapse(d *DFA, blocks [][]int, blockOf []int, sink int) *DFA {
	sinkBlock := blockOf[sink]
	startBlock := blockOf[d.start]

	// Representative of each block: its smallest real state.
	rep := make([]int, len(blocks))
	for b, members := range blocks {
		rep[b] = -1
		for _, s := range members {
			if s != sink && (rep[b] < 0 || s < rep[b]) {
				rep[b] = s
			}
		}
	}

	k := len(d.symbols)
	reachable := make([]bool, len(blocks))
	reachable[startBlock] = true
	stack := []int{startBlock}
	for len(stack) > 0 {
		b := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for c := 0; c < k; c++ {
			t := d.table[rep[b]*k+c]
			if t == NoState {
				continue
			}
			if tb := blockOf[t]; tb != sinkBlock && !reachable[tb] {
				reachable[tb] = true
				stack = append(stack, tb)
			}
		}
	}

	var order []int
	for b := range blocks {
		if reachable[b] && b != startBlock && b != sinkBlock {
			order = append(order, b)
		}
	}
	sort.Slice(order, func(i, j int) bool { return rep[order[i]] < rep[order[j]] })
	order = append([]int{startBlock}, order...)

	newID := make([]StateID, len(blocks))
	for i := range newID {
		newID[i] = NoState
	}
	for i, b := range order {
		newID[b] = StateID(i)
	}

	out := newDFA(len(order), 0, d.alphabet)
	for _, b := range order {
		r := rep[b]
		if l, ok := d.Accept(StateID(r)); ok {
			out.setAccept(newID[b], l)
		}
		for c, sym := range d.symbols {
			t := d.table[r*k+c]
			if t == NoState || blockOf[t] == sinkBlock {
				continue
			}
			out.set(newID[b], sym, newID[blockOf[t]])
		}
	}
	return out
}

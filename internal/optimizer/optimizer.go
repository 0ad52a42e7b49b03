package optimizer

import (
	"fmt"
	"log/slog"

	"github.com/hassan/brasilscript/internal/automaton"
)

// Pass is one transformation of a DFA that must not change which strings
// are accepted or the accept label of any string.
//
// DESIGN CHOICE: Passes return a new DFA instead of editing one in place.
// DFAs are shared read-only by every lexer using them, so a pass must never
// mutate its input.
type Pass interface {
	// Name returns a human-readable name for this pass.
	Name() string

	// Run returns the transformed automaton.
	Run(d *automaton.DFA) (*automaton.DFA, error)
}

// Optimizer runs a sequence of passes over a DFA.
type Optimizer struct {
	passes []Pass
	logger *slog.Logger
}

// NewOptimizer creates an optimizer with the default passes:
//  1. Trim - drops unreachable states and states that can never accept
//  2. Minimize - merges indistinguishable states, keeping labels apart
//
// Trimming first shrinks the table minimization has to refine.
func NewOptimizer() *Optimizer {
	return &Optimizer{
		passes: []Pass{
			&TrimPass{},
			&MinimizePass{},
		},
		logger: slog.Default(),
	}
}

// AddPass appends a custom pass.
func (o *Optimizer) AddPass(pass Pass) {
	o.passes = append(o.passes, pass)
}

// SetLogger replaces the logger used for per-pass debug output.
func (o *Optimizer) SetLogger(l *slog.Logger) {
	o.logger = l
}

// Optimize runs every pass in order and returns the final automaton along
// with statistics about what changed.
func (o *Optimizer) Optimize(d *automaton.DFA) (*automaton.DFA, *OptimizationStats, error) {
	stats := NewOptimizationStats()
	stats.StatesBefore = d.NumStates()

	for _, pass := range o.passes {
		before := d.NumStates()
		next, err := pass.Run(d)
		if err != nil {
			return nil, nil, fmt.Errorf("pass %s failed: %w", pass.Name(), err)
		}
		d = next
		stats.PassExecutions[pass.Name()]++
		stats.StatesRemoved[pass.Name()] += before - d.NumStates()
		o.logger.Debug("DFA pass finished",
			slog.String("pass", pass.Name()),
			slog.Int("before", before),
			slog.Int("after", d.NumStates()))
	}

	stats.StatesAfter = d.NumStates()
	return d, stats, nil
}

// MinimizePass merges equivalent states by partition refinement.
type MinimizePass struct{}

// Name returns the name of this pass.
func (p *MinimizePass) Name() string {
	return "Minimize"
}

// Run minimizes d.
func (p *MinimizePass) Run(d *automaton.DFA) (*automaton.DFA, error) {
	return automaton.Minimize(d), nil
}

// OptimizationStats tracks what the passes did.
type OptimizationStats struct {
	// StatesBefore and StatesAfter are the state counts around the whole run.
	StatesBefore int
	StatesAfter  int

	// StatesRemoved is the number of states each pass eliminated.
	StatesRemoved map[string]int

	// PassExecutions tracks how many times each pass ran.
	PassExecutions map[string]int
}

// NewOptimizationStats creates a new stats tracker.
func NewOptimizationStats() *OptimizationStats {
	return &OptimizationStats{
		StatesRemoved:  make(map[string]int),
		PassExecutions: make(map[string]int),
	}
}

// String returns a human-readable summary.
func (s *OptimizationStats) String() string {
	return fmt.Sprintf("Optimization Stats:\n"+
		"  States before: %d\n"+
		"  States after: %d\n"+
		"  Removed by trim: %d\n"+
		"  Removed by minimize: %d\n",
		s.StatesBefore,
		s.StatesAfter,
		s.StatesRemoved["Trim"],
		s.StatesRemoved["Minimize"])
}

package lexer

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/hassan/brasilscript/internal/automaton"
	"github.com/hassan/brasilscript/internal/optimizer"
)

// Options selects how the lexer automaton is built.
type Options struct {
	// Priority is the tie-break order between token kinds, highest first.
	// Empty means DefaultPriority. Kinds left out rank below every listed
	// kind, in declaration order.
	Priority []TokenKind

	// Minimize runs the DFA optimizer (trim and minimization) after subset
	// construction. It never changes the token stream.
	Minimize bool

	// AllowBareCR accepts a lone "\r" as a NEWLINE.
	AllowBareCR bool
}

// DefaultOptions returns the built-in priority with minimization enabled.
func DefaultOptions() Options {
	return Options{Priority: DefaultPriority(), Minimize: true}
}

func (o Options) priority() []TokenKind {
	if len(o.Priority) == 0 {
		return DefaultPriority()
	}
	return o.Priority
}

// Validate reports priority lists naming kinds the DFA cannot produce.
func (o Options) Validate() error {
	for _, k := range o.Priority {
		if !k.Recognizable() {
			return fmt.Errorf("priority: %v is not a token category", k)
		}
	}
	return nil
}

// key fingerprints the options for the DFA cache.
func (o Options) key() string {
	var sb strings.Builder
	for _, k := range o.priority() {
		sb.WriteString(k.String())
		sb.WriteByte(',')
	}
	fmt.Fprintf(&sb, "min=%t,cr=%t", o.Minimize, o.AllowBareCR)
	return sb.String()
}

// Machine is a built lexer automaton together with facts about how it was
// built. A Machine is immutable and may be shared by any number of lexers.
type Machine struct {
	// DFA drives the scanner.
	DFA *automaton.DFA

	// Options are the options the machine was built with.
	Options Options

	// NFAStates is the size of the combined NFA.
	NFAStates int

	// SubsetStates is the size of the DFA straight out of subset
	// construction, before any optimization.
	SubsetStates int

	// Optimization is nil unless Options.Minimize was set.
	Optimization *optimizer.OptimizationStats

	// BuildTime is how long construction took.
	BuildTime time.Duration
}

// Build runs the whole construction pipeline: category builders, NFA union,
// subset construction with the requested priority and, optionally, the DFA
// optimizer.
func Build(opts Options) (*Machine, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	t0 := time.Now()

	alloc := automaton.NewAllocator()
	nfa := Combine(alloc, Categories(alloc, opts.AllowBareCR))

	order := opts.priority()
	labels := make([]automaton.Label, len(order))
	for i, k := range order {
		labels[i] = k.label()
	}
	dfa := automaton.ToDFA(nfa, automaton.NewPriority(labels...))

	m := &Machine{
		Options:      opts,
		NFAStates:    nfa.NumStates(),
		SubsetStates: dfa.NumStates(),
	}

	if opts.Minimize {
		out, stats, err := optimizer.NewOptimizer().Optimize(dfa)
		if err != nil {
			return nil, fmt.Errorf("optimizing lexer DFA: %w", err)
		}
		dfa = out
		m.Optimization = stats
	}

	m.DFA = dfa
	m.BuildTime = time.Since(t0)

	metricBuildSeconds.Observe(m.BuildTime.Seconds())
	metricStates.WithLabelValues(stageNFA).Set(float64(m.NFAStates))
	metricStates.WithLabelValues(stageDFA).Set(float64(m.SubsetStates))
	metricStates.WithLabelValues(stageOptimized).Set(float64(dfa.NumStates()))

	slog.Debug("Built lexer DFA",
		slog.Int("nfaStates", m.NFAStates),
		slog.Int("dfaStates", m.SubsetStates),
		slog.Int("finalStates", dfa.NumStates()),
		slog.Bool("minimized", opts.Minimize),
		slog.Duration("took", m.BuildTime))

	return m, nil
}

// machineCache holds recently built machines keyed by their options, so
// callers creating many lexers with the same options build the DFA once.
var machineCache = mustCache(16)

func mustCache(size int) *lru.Cache[string, *Machine] {
	c, err := lru.New[string, *Machine](size)
	if err != nil {
		panic(err)
	}
	return c
}

// CachedBuild is Build backed by a process-wide LRU cache. Two goroutines
// missing the cache at the same time may both build; either result is
// equivalent.
func CachedBuild(opts Options) (*Machine, error) {
	key := opts.key()
	if m, ok := machineCache.Get(key); ok {
		return m, nil
	}
	m, err := Build(opts)
	if err != nil {
		return nil, err
	}
	machineCache.Add(key, m)
	return m, nil
}

// Default returns the machine for DefaultOptions.
func Default() *Machine {
	m, err := CachedBuild(DefaultOptions())
	if err != nil {
		// DefaultOptions only lists recognizable kinds.
		panic(err)
	}
	return m
}

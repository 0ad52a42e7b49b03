package lexer

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	metricTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "brasilscript",
			Subsystem: "lexer",
			Name:      "tokens_total",
			Help:      "Number of tokens recognized, by kind, including filtered trivia.",
		}, []string{"kind"})
	metricErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "brasilscript",
			Subsystem: "lexer",
			Name:      "errors_total",
			Help:      "Number of lexical errors, by error kind and policy.",
		}, []string{"error", "policy"})
	metricBuildSeconds = prometheus.NewSummary(
		prometheus.SummaryOpts{
			Namespace:  "brasilscript",
			Subsystem:  "lexer",
			Name:       "dfa_build_seconds",
			Help:       "Time spent building a lexer DFA from the token automata.",
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		})
	metricStates = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "brasilscript",
			Subsystem: "lexer",
			Name:      "automaton_states",
			Help:      "Number of states in the most recently built automaton, by construction stage.",
		}, []string{"stage"})
)

const (
	stageNFA       = "nfa"
	stageDFA       = "dfa"
	stageOptimized = "optimized"
)

func init() {
	prometheus.MustRegister(metricTokensTotal, metricErrorsTotal,
		metricBuildSeconds, metricStates)
}

// errorLabel returns the metric label for a lexical error kind.
func errorLabel(kind error) string {
	switch kind {
	case ErrUnterminatedLiteral:
		return "unterminated_literal"
	case ErrInternalInvariant:
		return "internal_invariant"
	default:
		return "invalid_character"
	}
}

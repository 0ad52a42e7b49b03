// Package main provides the brasilscript command.
//
// It exposes the lexer pipeline:
// 1. Token automata for every category, combined into one NFA
// 2. Subset construction into a DFA
// 3. Optional trimming and minimization
// 4. Maximal-munch tokenization driven by the DFA
//
// Subcommands print the tokens of a file, describe the automaton, or serve
// tokenization over HTTP.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/pkg/errors"

	"github.com/hassan/brasilscript/internal/automaton"
	"github.com/hassan/brasilscript/internal/config"
	"github.com/hassan/brasilscript/internal/lexer"
)

type CLI struct {
	Config   string `placeholder:"PATH" env:"BRASILSCRIPT_CONFIG" help:"YAML lexer configuration"`
	LogLevel string `name:"log-level" placeholder:"LEVEL" help:"Log level (debug, info, warn, error); overrides the configuration"`

	Tokens tokensCommand `cmd:"" help:"Print the tokens of a source file"`
	DFA    dfaCommand    `cmd:"" name:"dfa" help:"Describe the lexer automaton"`
	Serve  serveCommand  `cmd:"" help:"Serve tokenization over HTTP"`
}

// runtime is what every subcommand needs, bound by AfterApply.
type runtime struct {
	cfg  config.Config
	opts lexer.Options
	out  io.Writer
}

func (cli CLI) AfterApply(kongCtx *kong.Context) error {
	cfg := config.Default()
	if cli.Config != "" {
		var err error
		if cfg, err = config.Load(cli.Config); err != nil {
			return err
		}
	}
	if cli.LogLevel != "" {
		cfg.LogLevel = cli.LogLevel
	}

	lvl, err := cfg.SlogLevel()
	if err != nil {
		return errors.Wrap(err, "command line options")
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))

	opts, err := cfg.LexerOptions()
	if err != nil {
		return err
	}
	kongCtx.Bind(&runtime{cfg: cfg, opts: opts, out: os.Stdout})
	return nil
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("brasilscript"),
		kong.Description("Table-driven lexer for BrasilScript."),
		kong.UsageOnError(),
	)
	ctx.FatalIfErrorf(ctx.Run())
}

// settings returns the per-lexer options from the configuration, with the
// command line flags applied on top. A nil flag leaves the configured value
// in place.
func (rt *runtime) settings(lenient, trivia *bool) ([]lexer.Option, error) {
	opts, err := rt.cfg.LexerSettings()
	if err != nil {
		return nil, err
	}
	if lenient != nil {
		policy := lexer.Strict
		if *lenient {
			policy = lexer.Lenient
		}
		opts = append(opts, lexer.WithPolicy(policy))
	}
	if trivia != nil {
		opts = append(opts, lexer.WithTrivia(*trivia))
	}
	return opts, nil
}

type tokensCommand struct {
	File    string `arg:"" default:"-" help:"Source file, or - for standard input"`
	Lenient *bool  `negatable:"" help:"Report every unmatched character instead of stopping at the first (default from configuration)"`
	Trivia  *bool  `negatable:"" help:"Also print whitespace, comment and newline tokens (default from configuration)"`
	JSON    bool   `name:"json" help:"Print tokens as JSON"`
}

func (c *tokensCommand) Run(rt *runtime) error {
	source, filename, err := readSource(c.File)
	if err != nil {
		return err
	}

	m, err := lexer.CachedBuild(rt.opts)
	if err != nil {
		return errors.Wrap(err, "building lexer")
	}
	settings, err := rt.settings(c.Lenient, c.Trivia)
	if err != nil {
		return err
	}

	l := lexer.New(m.DFA, source, filename, settings...)
	tokens, lexErr := l.Tokenize()

	if c.JSON {
		enc := json.NewEncoder(rt.out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(newTokenizeResponse(tokens, l.Errors())); err != nil {
			return err
		}
	} else {
		for _, tok := range tokens {
			fmt.Fprintln(rt.out, tok)
		}
		printSummary(rt.out, filename, tokens)
	}

	if errs := l.Errors(); len(errs) > 0 {
		fmt.Fprintf(os.Stderr, "\nLexical errors:\n")
		for _, e := range errs {
			fmt.Fprintf(os.Stderr, "  %v\n", e)
		}
	}
	if lexErr != nil {
		return errors.New("lexing failed")
	}
	return nil
}

func readSource(file string) (source, filename string, err error) {
	if file == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", "", errors.Wrap(err, "reading standard input")
		}
		return string(data), "<stdin>", nil
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return "", "", errors.Wrap(err, "reading source")
	}
	return string(data), file, nil
}

func printSummary(w io.Writer, filename string, tokens []lexer.Token) {
	counts := map[lexer.TokenKind]int{}
	for _, tok := range tokens {
		counts[tok.Kind]++
	}
	kinds := make([]lexer.TokenKind, 0, len(counts))
	for k := range counts {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })

	fmt.Fprintf(w, "\n=== Token Summary ===\n")
	fmt.Fprintf(w, "File: %s\n", filename)
	fmt.Fprintf(w, "Tokens: %d\n", len(tokens))
	for _, k := range kinds {
		fmt.Fprintf(w, "  %-24s %d\n", k, counts[k])
	}
}

type dfaCommand struct {
	Table bool `help:"Print the transition table"`
}

func (c *dfaCommand) Run(rt *runtime) error {
	m, err := lexer.Build(rt.opts)
	if err != nil {
		return errors.Wrap(err, "building lexer")
	}
	describeMachine(rt.out, m)
	if c.Table {
		fmt.Fprintf(rt.out, "\n=== Transition Table ===\n\n")
		printTable(rt.out, m.DFA)
	}
	return nil
}

func describeMachine(w io.Writer, m *lexer.Machine) {
	st := m.DFA.Stats()
	fmt.Fprintf(w, "=== Lexer Automaton ===\n")
	fmt.Fprintf(w, "NFA states: %d\n", m.NFAStates)
	fmt.Fprintf(w, "DFA states (subset construction): %d\n", m.SubsetStates)
	fmt.Fprintf(w, "DFA states (final): %d\n", st.States)
	fmt.Fprintf(w, "Accepting states: %d\n", st.Accepting)
	fmt.Fprintf(w, "Transitions: %d\n", st.Transitions)
	fmt.Fprintf(w, "Alphabet size: %d\n", st.Symbols)
	fmt.Fprintf(w, "Build time: %v\n", m.BuildTime)
	if m.Optimization != nil {
		fmt.Fprintf(w, "\n%s", m.Optimization)
	}
}

// printTable prints one line per state: its accept label, if any, and its
// transitions with consecutive symbols leading to the same state folded
// into ranges.
func printTable(w io.Writer, d *automaton.DFA) {
	out := make([][]automaton.Edge, d.NumStates())
	for _, e := range d.Edges() {
		out[e.From] = append(out[e.From], e)
	}

	for s := 0; s < d.NumStates(); s++ {
		id := automaton.StateID(s)
		label := ""
		if l, ok := d.Accept(id); ok {
			label = " [" + lexer.TokenKind(l).String() + "]"
		}
		marker := " "
		if id == d.Start() {
			marker = ">"
		}
		fmt.Fprintf(w, "%s%4d%s:%s\n", marker, s, label, foldEdges(out[s]))
	}
}

func foldEdges(edges []automaton.Edge) string {
	var sb strings.Builder
	for i := 0; i < len(edges); {
		j := i
		for j+1 < len(edges) && edges[j+1].To == edges[i].To && edges[j+1].Sym == edges[j].Sym+1 {
			j++
		}
		if j == i {
			fmt.Fprintf(&sb, " %v->%d", edges[i].Sym, edges[i].To)
		} else {
			fmt.Fprintf(&sb, " %v-%v->%d", edges[i].Sym, edges[j].Sym, edges[i].To)
		}
		i = j + 1
	}
	return sb.String()
}

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hassan/brasilscript/internal/automaton"
	"github.com/hassan/brasilscript/internal/lexer"
)

const maxRequestSize = 1 << 20 // 1 MiB

type serveCommand struct {
	Listen string `default:":8080" env:"BRASILSCRIPT_LISTEN" help:"HTTP listen address"`
}

func (c *serveCommand) Run(rt *runtime) error {
	m, err := lexer.CachedBuild(rt.opts)
	if err != nil {
		return err
	}
	settings, err := rt.settings(nil, nil)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              c.Listen,
		Handler:           newServer(m, settings).router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	slog.Info("Serving tokenization", slog.String("address", c.Listen), slog.Int("dfaStates", m.DFA.NumStates()))
	return srv.ListenAndServe()
}

// server answers tokenization requests with one shared machine. Every
// request gets its own Lexer.
type server struct {
	machine  *lexer.Machine
	settings []lexer.Option
}

func newServer(m *lexer.Machine, settings []lexer.Option) *server {
	return &server{machine: m, settings: settings}
}

func (s *server) router() *httprouter.Router {
	r := httprouter.New()
	r.POST("/tokenize", s.postTokenize)
	r.GET("/dfa", s.getDFA)
	r.Handler(http.MethodGet, "/metrics", promhttp.Handler())
	return r
}

type tokenizeRequest struct {
	Source   string `json:"source"`
	Filename string `json:"filename"`

	// Policy and Trivia override the server defaults when set.
	Policy string `json:"policy,omitempty"`
	Trivia *bool  `json:"trivia,omitempty"`
}

type tokenJSON struct {
	Kind   lexer.TokenKind `json:"kind"`
	Lexeme string          `json:"lexeme"`
	Value  any             `json:"value,omitempty"`
	Line   int             `json:"line"`
	Column int             `json:"column"`
	Offset int             `json:"offset"`
}

type errorJSON struct {
	Message string `json:"message"`
	Line    int    `json:"line"`
	Column  int    `json:"column"`
	Offset  int    `json:"offset"`
}

type tokenizeResponse struct {
	Tokens []tokenJSON `json:"tokens"`
	Errors []errorJSON `json:"errors"`
}

func newTokenizeResponse(tokens []lexer.Token, errs []*lexer.LexError) tokenizeResponse {
	resp := tokenizeResponse{
		Tokens: make([]tokenJSON, 0, len(tokens)),
		Errors: make([]errorJSON, 0, len(errs)),
	}
	for _, t := range tokens {
		resp.Tokens = append(resp.Tokens, tokenJSON{
			Kind:   t.Kind,
			Lexeme: t.Lexeme,
			Value:  t.Value,
			Line:   t.Position.Line,
			Column: t.Position.Column,
			Offset: t.Position.Offset,
		})
	}
	for _, e := range errs {
		resp.Errors = append(resp.Errors, errorJSON{
			Message: e.Error(),
			Line:    e.Pos.Line,
			Column:  e.Pos.Column,
			Offset:  e.Pos.Offset,
		})
	}
	return resp
}

func (s *server) postTokenize(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	bs, err := io.ReadAll(io.LimitReader(r.Body, maxRequestSize))
	r.Body.Close()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	var req tokenizeRequest
	if err := json.Unmarshal(bs, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	opts := append([]lexer.Option(nil), s.settings...)
	if req.Policy != "" {
		policy, err := lexer.ParseErrorPolicy(req.Policy)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		opts = append(opts, lexer.WithPolicy(policy))
	}
	if req.Trivia != nil {
		opts = append(opts, lexer.WithTrivia(*req.Trivia))
	}

	l := lexer.New(s.machine.DFA, req.Source, req.Filename, opts...)
	tokens, lexErr := l.Tokenize()

	status := http.StatusOK
	if lexErr != nil {
		status = http.StatusUnprocessableEntity
	}
	sendJSON(w, status, newTokenizeResponse(tokens, l.Errors()))
}

type dfaJSON struct {
	automaton.Stats
	NFAStates    int    `json:"nfaStates"`
	SubsetStates int    `json:"subsetStates"`
	Minimized    bool   `json:"minimized"`
	BuildTime    string `json:"buildTime"`
}

func (s *server) getDFA(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	m := s.machine
	sendJSON(w, http.StatusOK, dfaJSON{
		Stats:        m.DFA.Stats(),
		NFAStates:    m.NFAStates,
		SubsetStates: m.SubsetStates,
		Minimized:    m.Options.Minimize,
		BuildTime:    m.BuildTime.String(),
	})
}

func sendJSON(w http.ResponseWriter, status int, jsonObject any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	bs, err := json.MarshalIndent(jsonObject, "", "  ")
	if err != nil {
		bs, _ = json.Marshal(map[string]string{"error": err.Error()})
		http.Error(w, string(bs), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(status)
	fmt.Fprintf(w, "%s\n", bs)
}

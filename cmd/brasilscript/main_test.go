package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hassan/brasilscript/internal/automaton"
	"github.com/hassan/brasilscript/internal/config"
	"github.com/hassan/brasilscript/internal/lexer"
)

func testRuntime(t *testing.T) (*runtime, *bytes.Buffer) {
	t.Helper()
	cfg := config.Default()
	opts, err := cfg.LexerOptions()
	require.NoError(t, err)
	var buf bytes.Buffer
	return &runtime{cfg: cfg, opts: opts, out: &buf}, &buf
}

func writeSource(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "prog.bs")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

func TestTokensCommand(t *testing.T) {
	rt, out := testRuntime(t)
	cmd := &tokensCommand{File: writeSource(t, "mostrar x + 1\n")}

	require.NoError(t, cmd.Run(rt))
	text := out.String()
	assert.Contains(t, text, "PALAVRA_CHAVE(mostrar) at ")
	assert.Contains(t, text, "NUMERO_LITERAL(1)")
	assert.Contains(t, text, "Tokens: 4")
}

func TestTokensCommand_JSON(t *testing.T) {
	rt, out := testRuntime(t)
	cmd := &tokensCommand{File: writeSource(t, "x = verdadeiro"), JSON: true}

	require.NoError(t, cmd.Run(rt))
	var resp tokenizeResponse
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	require.Len(t, resp.Tokens, 3)
	assert.Equal(t, true, resp.Tokens[2].Value)
	assert.Empty(t, resp.Errors)
}

func TestTokensCommand_Errors(t *testing.T) {
	rt, _ := testRuntime(t)
	path := writeSource(t, "x @ y")

	yes, no := true, false
	assert.Error(t, (&tokensCommand{File: path}).Run(rt))
	assert.NoError(t, (&tokensCommand{File: path, Lenient: &yes}).Run(rt))
	assert.Error(t, (&tokensCommand{File: path, Lenient: &no}).Run(rt))
}

func TestTokensCommand_FlagsOverrideConfig(t *testing.T) {
	rt, out := testRuntime(t)
	rt.cfg.ErrorPolicy = "lenient"
	rt.cfg.KeepTrivia = true
	path := writeSource(t, "x @ y")
	no := false

	// Unset flags keep the configured behaviour.
	require.NoError(t, (&tokensCommand{File: path}).Run(rt))
	assert.Contains(t, out.String(), "WHITESPACE(")

	out.Reset()
	assert.Error(t, (&tokensCommand{File: path, Lenient: &no, Trivia: &no}).Run(rt))
	assert.NotContains(t, out.String(), "WHITESPACE(")
}

func TestDFACommand(t *testing.T) {
	rt, out := testRuntime(t)

	require.NoError(t, (&dfaCommand{Table: true}).Run(rt))
	text := out.String()
	assert.Contains(t, text, "NFA states: ")
	assert.Contains(t, text, "Removed by minimize: ")
	assert.Contains(t, text, "=== Transition Table ===")
	assert.Contains(t, text, "[PALAVRA_CHAVE]")
	assert.Contains(t, text, ">   0:")
}

func TestFoldEdges(t *testing.T) {
	edges := []automaton.Edge{
		{From: 0, Sym: 'a', To: 1},
		{From: 0, Sym: 'b', To: 1},
		{From: 0, Sym: 'c', To: 1},
		{From: 0, Sym: 'd', To: 2},
		{From: 0, Sym: 'f', To: 2},
	}
	assert.Equal(t, " 'a'-'c'->1 'd'->2 'f'->2", foldEdges(edges))
	assert.Equal(t, "", foldEdges(nil))
}

func testServer(t *testing.T) http.Handler {
	t.Helper()
	m, err := lexer.CachedBuild(lexer.DefaultOptions())
	require.NoError(t, err)
	return newServer(m, nil).router()
}

func post(t *testing.T, h http.Handler, body string) (*httptest.ResponseRecorder, tokenizeResponse) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/tokenize", strings.NewReader(body)))
	var resp tokenizeResponse
	if rec.Code != http.StatusBadRequest {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	}
	return rec, resp
}

func TestServer_Tokenize(t *testing.T) {
	h := testServer(t)

	rec, resp := post(t, h, `{"source": "(a + b) != c;", "filename": "req.bs"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, resp.Tokens, 8)
	assert.Equal(t, lexer.TokenLParen, resp.Tokens[0].Kind)
	assert.Equal(t, "!=", resp.Tokens[5].Lexeme)
	assert.Equal(t, 9, resp.Tokens[5].Column)
}

func TestServer_TokenizeErrors(t *testing.T) {
	h := testServer(t)

	rec, resp := post(t, h, `{"source": "a @"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, 2, resp.Errors[0].Offset)

	rec, resp = post(t, h, `{"source": "a @", "policy": "lenient", "trivia": true}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, resp.Tokens, 3)
	assert.Equal(t, lexer.TokenMismatch, resp.Tokens[2].Kind)
	assert.Len(t, resp.Errors, 1)

	rec, resp = post(t, h, `{"source": "x = 1e999 + 1e-999"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, resp.Tokens, 5)
	assert.Equal(t, "1e999", resp.Tokens[2].Value)
	assert.Equal(t, 0.0, resp.Tokens[4].Value)

	rec, _ = post(t, h, `{"source": "a", "policy": "loose"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = post(t, h, `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_DFAAndMetrics(t *testing.T) {
	h := testServer(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dfa", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var info map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
	assert.Equal(t, true, info["minimized"])
	assert.Greater(t, info["states"], 0.0)

	// Lex something so the counters have samples.
	post(t, h, `{"source": "x"}`)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "brasilscript_lexer_tokens_total")
}

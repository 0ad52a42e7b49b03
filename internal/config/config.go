// Package config loads the lexer configuration from YAML.
package config

import (
	"log/slog"
	"os"
	"strings"

	"github.com/pkg/errors"
	"sigs.k8s.io/yaml"

	"github.com/hassan/brasilscript/internal/lexer"
)

// Config is the on-disk lexer configuration.
//
// Example:
//
//	priority: [NEWLINE, COMMENT, WHITESPACE, NUMERO_LITERAL, ...]
//	minimize: true
//	errorPolicy: lenient
//	allowBareCR: false
//	keepTrivia: false
//	logLevel: info
type Config struct {
	// Priority lists token kind names, highest priority first. Empty
	// means the built-in order.
	Priority []string `json:"priority,omitempty"`

	// Minimize runs the DFA optimizer before lexing.
	Minimize bool `json:"minimize"`

	// ErrorPolicy is "strict" or "lenient".
	ErrorPolicy string `json:"errorPolicy,omitempty"`

	// AllowBareCR treats a lone carriage return as a line break.
	AllowBareCR bool `json:"allowBareCR,omitempty"`

	// KeepTrivia emits whitespace, comment and newline tokens.
	KeepTrivia bool `json:"keepTrivia,omitempty"`

	// LogLevel is one of debug, info, warn or error.
	LogLevel string `json:"logLevel,omitempty"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	prio := lexer.DefaultPriority()
	names := make([]string, len(prio))
	for i, k := range prio {
		names[i] = k.String()
	}
	return Config{
		Priority:    names,
		Minimize:    true,
		ErrorPolicy: lexer.Strict.String(),
		LogLevel:    "info",
	}
}

// Load reads and validates the configuration at path. Fields missing from
// the file keep their default values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(err, "reading config")
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, errors.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}

// Parse decodes YAML on top of Default and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.UnmarshalStrict(data, &cfg); err != nil {
		return Config{}, errors.Wrap(err, "decoding yaml")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Marshal encodes the configuration as YAML.
func (c Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// Validate reports unknown or duplicated kinds, unknown policies and
// unknown log levels.
func (c Config) Validate() error {
	if _, err := c.priority(); err != nil {
		return err
	}
	if _, err := lexer.ParseErrorPolicy(c.ErrorPolicy); err != nil {
		return errors.Wrap(err, "errorPolicy")
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	return nil
}

func (c Config) priority() ([]lexer.TokenKind, error) {
	kinds := make([]lexer.TokenKind, 0, len(c.Priority))
	seen := make(map[lexer.TokenKind]bool, len(c.Priority))
	for _, name := range c.Priority {
		k, ok := lexer.ParseTokenKind(strings.ToUpper(strings.TrimSpace(name)))
		if !ok || !k.Recognizable() {
			return nil, errors.Errorf("priority: unknown token kind %q", name)
		}
		if seen[k] {
			return nil, errors.Errorf("priority: %v listed twice", k)
		}
		seen[k] = true
		kinds = append(kinds, k)
	}
	return kinds, nil
}

// LexerOptions converts the configuration into build options.
func (c Config) LexerOptions() (lexer.Options, error) {
	prio, err := c.priority()
	if err != nil {
		return lexer.Options{}, err
	}
	return lexer.Options{
		Priority:    prio,
		Minimize:    c.Minimize,
		AllowBareCR: c.AllowBareCR,
	}, nil
}

// LexerSettings returns the per-lexer options: error policy and trivia.
func (c Config) LexerSettings() ([]lexer.Option, error) {
	policy, err := lexer.ParseErrorPolicy(c.ErrorPolicy)
	if err != nil {
		return nil, errors.Wrap(err, "errorPolicy")
	}
	return []lexer.Option{lexer.WithPolicy(policy), lexer.WithTrivia(c.KeepTrivia)}, nil
}

// SlogLevel parses LogLevel. Empty means info.
func (c Config) SlogLevel() (slog.Level, error) {
	var lvl slog.Level
	if c.LogLevel == "" {
		return slog.LevelInfo, nil
	}
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, errors.Wrapf(err, "logLevel %q", c.LogLevel)
	}
	return lvl, nil
}

// Package verbosity turns parsed flag state and environment variables into a
// single effective log level.
//
// Precedence, highest first:
//
//  1. the first listed environment variable that holds a valid level name
//  2. an explicit --loglevel value when no -v/-q flag was given
//  3. the base level shifted by the -v and -q counts
//
// Malformed environment values are skipped with a warning; they never fail
// resolution.
package verbosity

import (
	"log/slog"
	"os"

	"github.com/cockroachdb/errors"

	"github.com/thoreinstein/clilog/pkg/level"
)

// ErrInvalidLevel indicates a level value that is not in the level table.
// Flag values are validated by the parser, so this points at a flag
// definition bug rather than bad user input.
var ErrInvalidLevel = errors.New("invalid log level")

// Request is the raw input to a resolution. It is built from parsed flags
// each time logging is initialized.
type Request struct {
	// Base is the explicit --loglevel value, or the flag default.
	Base level.Level
	// Explicit is true when the user supplied Base on the command line.
	Explicit bool
	// Increments is the number of -v occurrences.
	Increments uint64
	// Decrements is the number of -q occurrences.
	Decrements uint64
	// EnvVars are consulted in order; the first valid value wins.
	EnvVars []string
}

// LookupFunc reads an environment variable.
type LookupFunc func(key string) (string, bool)

// Resolver resolves Requests against an environment.
type Resolver struct {
	lookup LookupFunc
	logger *slog.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLookup replaces os.LookupEnv, mostly for tests.
func WithLookup(fn LookupFunc) Option {
	return func(r *Resolver) {
		if fn != nil {
			r.lookup = fn
		}
	}
}

// WithLogger sets where diagnostics about ignored environment values go.
// A nil logger discards them.
func WithLogger(l *slog.Logger) Option {
	return func(r *Resolver) {
		r.logger = l
	}
}

// NewResolver returns a Resolver reading the process environment and
// reporting diagnostics to slog.Default().
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{
		lookup: os.LookupEnv,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve resolves req against the process environment.
func Resolve(req Request) (level.Level, error) {
	return NewResolver().Resolve(req)
}

// Source names where a resolved level came from.
type Source string

const (
	SourceDefault  Source = "default"
	SourceExplicit Source = "explicit"
	SourceFlags    Source = "flags"
	SourceEnv      Source = "env"
)

// Resolution is a resolved level and its origin.
type Resolution struct {
	Level  level.Level
	Source Source
	// EnvVar is set when Source is SourceEnv.
	EnvVar string
}

// Resolve returns the effective level for req.
func (r *Resolver) Resolve(req Request) (level.Level, error) {
	res, err := r.Explain(req)
	return res.Level, err
}

// Explain is like Resolve but also reports which input decided the level.
func (r *Resolver) Explain(req Request) (Resolution, error) {
	resolved, err := FromFlags(req)
	if err != nil {
		return Resolution{Level: level.Off}, err
	}

	if env, name, ok := r.fromEnv(req.EnvVars); ok {
		return Resolution{Level: env, Source: SourceEnv, EnvVar: name}, nil
	}

	src := SourceDefault
	switch {
	case req.Increments > 0 || req.Decrements > 0:
		src = SourceFlags
	case req.Explicit:
		src = SourceExplicit
	}
	return Resolution{Level: resolved, Source: src}, nil
}

// FromFlags applies only the flag-derived part of the precedence rules:
// the base level shifted by the occurrence counts, or the explicit value
// when no occurrence flag was given.
func FromFlags(req Request) (level.Level, error) {
	start, err := level.IndexOf(req.Base)
	if err != nil {
		return level.Off, errors.Mark(errors.Wrap(err, "resolving base level"), ErrInvalidLevel)
	}

	if req.Explicit && req.Increments == 0 && req.Decrements == 0 {
		return req.Base, nil
	}

	// Counts are unbounded user input; nothing beyond the table height can
	// change the outcome, so clamp before doing signed arithmetic.
	up := clampCount(req.Increments)
	down := clampCount(req.Decrements)

	return level.At(start + up - down), nil
}

// ParseBase parses a flag value into a base level.
func ParseBase(value string) (level.Level, error) {
	l, err := level.Parse(value)
	if err != nil {
		return level.Off, errors.Mark(errors.Wrap(err, "parsing log level flag"), ErrInvalidLevel)
	}
	return l, nil
}

func (r *Resolver) fromEnv(names []string) (level.Level, string, bool) {
	for _, name := range names {
		if name == "" {
			continue
		}
		value, ok := r.lookup(name)
		if !ok {
			continue
		}
		l, err := level.Parse(value)
		if err != nil {
			if r.logger != nil {
				r.logger.Warn("ignoring invalid log level from environment",
					"var", name, "value", value)
			}
			continue
		}
		return l, name, true
	}
	return level.Off, "", false
}

func clampCount(n uint64) int {
	if n >= level.Count-1 {
		return level.Count - 1
	}
	return int(n)
}

package logflags

import (
	"github.com/cockroachdb/errors"

	"github.com/thoreinstein/clilog/pkg/level"
	"github.com/thoreinstein/clilog/pkg/logsetup"
	"github.com/thoreinstein/clilog/pkg/verbosity"
)

type options struct {
	env      []string
	resolver *verbosity.Resolver
}

// Option configures level resolution.
type Option func(*options)

// WithEnv lists environment variables that override the flags, first
// valid value wins.
func WithEnv(names ...string) Option {
	return func(o *options) {
		o.env = append(o.env, names...)
	}
}

// WithResolver replaces the resolver, which otherwise reads the process
// environment.
func WithResolver(r *verbosity.Resolver) Option {
	return func(o *options) {
		o.resolver = r
	}
}

func newOptions(opts []Option) *options {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.resolver == nil {
		o.resolver = verbosity.NewResolver()
	}
	return o
}

// NewRequest builds the resolver input from parsed flags.
func NewRequest(m Matches, env ...string) (verbosity.Request, error) {
	raw, ok := m.Value(FlagLevel)
	if !ok {
		return verbosity.Request{}, ErrLevelFlagMissing
	}
	base, err := verbosity.ParseBase(raw)
	if err != nil {
		return verbosity.Request{}, errors.Wrapf(err, "--%s", FlagLevel)
	}
	return verbosity.Request{
		Base:       base,
		Explicit:   m.Occurrences(FlagLevel) > 0,
		Increments: m.Occurrences(FlagVerbose),
		Decrements: m.Occurrences(FlagQuiet),
		EnvVars:    env,
	}, nil
}

// ResolveLevel returns the effective console level for m.
func ResolveLevel(m Matches, opts ...Option) (level.Level, error) {
	o := newOptions(opts)
	req, err := NewRequest(m, o.env...)
	if err != nil {
		return level.Off, err
	}
	return o.resolver.Resolve(req)
}

// ResolveFileLevel returns the file-loglevel value. ok is false when the
// flag is not registered. The value is not shifted by -v or -q.
func ResolveFileLevel(m Matches) (l level.Level, ok bool, err error) {
	raw, ok := m.Value(FlagFileLevel)
	if !ok {
		return level.Off, false, nil
	}
	l, err = verbosity.ParseBase(raw)
	if err != nil {
		return level.Off, true, errors.Wrapf(err, "--%s", FlagFileLevel)
	}
	return l, true, nil
}

// InitLogging resolves the level and installs a console-only logger.
func InitLogging(m Matches, opts ...Option) (*logsetup.Handle, error) {
	return BuildLogging(m, nil, opts...)
}

// BuildLogging resolves the level, lets customize add sinks to the builder
// and installs the result. A nil customize adds the default console sink.
// The file-loglevel flag, when registered, becomes the builder's file level.
func BuildLogging(m Matches, customize func(*logsetup.Builder) *logsetup.Builder, opts ...Option) (*logsetup.Handle, error) {
	l, err := ResolveLevel(m, opts...)
	if err != nil {
		return nil, err
	}

	b := logsetup.New(l)
	fileLevel, ok, err := ResolveFileLevel(m)
	if err != nil {
		return nil, err
	}
	if ok {
		b.WithFileLevel(fileLevel)
	}

	if customize == nil {
		b.WithConsole()
	} else {
		if b = customize(b); b == nil {
			return nil, errors.New("logging customization returned no builder")
		}
	}
	return b.Build()
}

package logflags

import (
	"fmt"
	"strings"

	"github.com/thoreinstein/clilog/pkg/level"
)

// Flag names registered by the argument surface.
const (
	FlagLevel     = "loglevel"
	FlagVerbose   = "verbose"
	FlagQuiet     = "quiet"
	FlagFileLevel = "file-loglevel"
)

// Kind is the shape of a flag.
type Kind int

const (
	// KindLevel takes one value, a level name.
	KindLevel Kind = iota
	// KindCount takes no value and counts its occurrences.
	KindCount
)

func (k Kind) String() string {
	switch k {
	case KindLevel:
		return "level"
	case KindCount:
		return "count"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Descriptor describes one flag independently of the parser.
type Descriptor struct {
	Name      string
	Shorthand string
	Usage     string
	Kind      Kind
	// Default is a level name for KindLevel and empty for KindCount.
	Default string
	Hidden  bool
}

func levelUsage(what string) string {
	return fmt.Sprintf("%s (%s)", what, strings.Join(level.Names(), ", "))
}

func levelDescriptor(def level.Level) Descriptor {
	return Descriptor{
		Name:    FlagLevel,
		Usage:   levelUsage("Log level"),
		Kind:    KindLevel,
		Default: def.Name(),
	}
}

func verboseDescriptor() Descriptor {
	return Descriptor{
		Name:      FlagVerbose,
		Shorthand: "v",
		Usage:     "Increase log verbosity (repeatable: -vv)",
		Kind:      KindCount,
	}
}

func quietDescriptor() Descriptor {
	return Descriptor{
		Name:      FlagQuiet,
		Shorthand: "q",
		Usage:     "Decrease log verbosity (repeatable: -qq)",
		Kind:      KindCount,
	}
}

func fileLevelDescriptor(def level.Level) Descriptor {
	return Descriptor{
		Name:    FlagFileLevel,
		Usage:   levelUsage("Log level for the log file"),
		Kind:    KindLevel,
		Default: def.Name(),
	}
}

// ArgsBuilder customizes the logging flags as a group before they are
// registered. Modify hooks may change usage text, shorthands and
// visibility; the name, kind and default of every flag are restored
// afterwards so the resolver can always find them.
type ArgsBuilder struct {
	level     Descriptor
	verbose   Descriptor
	quiet     Descriptor
	fileLevel *Descriptor
	global    bool
}

// NewArgs returns the level, verbose and quiet flags with def as the
// level default.
func NewArgs(def level.Level) *ArgsBuilder {
	return &ArgsBuilder{
		level:   levelDescriptor(def),
		verbose: verboseDescriptor(),
		quiet:   quietDescriptor(),
	}
}

// Global makes the flags persistent so subcommands inherit them.
func (a *ArgsBuilder) Global() *ArgsBuilder {
	a.global = true
	return a
}

// Persistent reports whether Global was called.
func (a *ArgsBuilder) Persistent() bool {
	return a.global
}

// ChangeDefault replaces the level default.
func (a *ArgsBuilder) ChangeDefault(l level.Level) *ArgsBuilder {
	a.level.Default = l.Name()
	return a
}

// ModifyLevel applies fn to the level flag.
func (a *ArgsBuilder) ModifyLevel(fn func(Descriptor) Descriptor) *ArgsBuilder {
	a.level = modify(a.level, fn)
	return a
}

// ModifyVerbose applies fn to the verbose flag.
func (a *ArgsBuilder) ModifyVerbose(fn func(Descriptor) Descriptor) *ArgsBuilder {
	a.verbose = modify(a.verbose, fn)
	return a
}

// ModifyQuiet applies fn to the quiet flag.
func (a *ArgsBuilder) ModifyQuiet(fn func(Descriptor) Descriptor) *ArgsBuilder {
	a.quiet = modify(a.quiet, fn)
	return a
}

// WithFileLevel adds the file-loglevel flag with def as its default.
func (a *ArgsBuilder) WithFileLevel(def level.Level) *ArgsBuilder {
	d := fileLevelDescriptor(def)
	a.fileLevel = &d
	return a
}

// ModifyFileLevel applies fn to the file-loglevel flag, if present.
func (a *ArgsBuilder) ModifyFileLevel(fn func(Descriptor) Descriptor) *ArgsBuilder {
	if a.fileLevel != nil {
		d := modify(*a.fileLevel, fn)
		a.fileLevel = &d
	}
	return a
}

// Export returns the descriptors in registration order.
func (a *ArgsBuilder) Export() []Descriptor {
	out := []Descriptor{a.level, a.verbose, a.quiet}
	if a.fileLevel != nil {
		out = append(out, *a.fileLevel)
	}
	return out
}

func modify(d Descriptor, fn func(Descriptor) Descriptor) Descriptor {
	if fn == nil {
		return d
	}
	out := fn(d)
	out.Name = d.Name
	out.Kind = d.Kind
	out.Default = d.Default
	return out
}

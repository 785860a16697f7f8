package logflags

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Matches is the parsed-argument state the resolver reads.
type Matches interface {
	// Value returns the flag's current value, which is its default when the
	// flag was not given. ok is false if the flag is not defined.
	Value(name string) (value string, ok bool)
	// Occurrences returns how often the flag was given. Value flags count
	// at most once.
	Occurrences(name string) uint64
}

type flagSetMatches struct {
	fs *pflag.FlagSet
}

// FromFlagSet adapts a parsed pflag.FlagSet.
func FromFlagSet(fs *pflag.FlagSet) Matches {
	return flagSetMatches{fs: fs}
}

// FromCommand adapts the flags of an executing cobra command, including
// persistent flags inherited from its parents.
func FromCommand(cmd *cobra.Command) Matches {
	return flagSetMatches{fs: cmd.Flags()}
}

func (m flagSetMatches) Value(name string) (string, bool) {
	f := m.fs.Lookup(name)
	if f == nil {
		return "", false
	}
	return f.Value.String(), true
}

func (m flagSetMatches) Occurrences(name string) uint64 {
	f := m.fs.Lookup(name)
	if f == nil || !f.Changed {
		return 0
	}
	if f.Value.Type() == "count" {
		n, err := m.fs.GetCount(name)
		if err != nil || n < 0 {
			return 0
		}
		return uint64(n)
	}
	return 1
}

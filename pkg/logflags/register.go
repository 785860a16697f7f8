package logflags

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/thoreinstein/clilog/pkg/level"
)

// Validate checks a descriptor group before registration. Registering a
// name twice would either panic in pflag or split occurrence counts
// between two flags.
func Validate(descs []Descriptor) error {
	names := make(map[string]bool, len(descs))
	shorts := make(map[string]bool, len(descs))
	for _, d := range descs {
		if d.Name == "" {
			return errors.Wrap(ErrMissingFlag, "descriptor without a name")
		}
		if names[d.Name] {
			return errors.Wrapf(ErrDuplicateFlag, "--%s", d.Name)
		}
		names[d.Name] = true

		if len(d.Shorthand) > 1 {
			return errors.Newf("shorthand %q for --%s must be a single character", d.Shorthand, d.Name)
		}
		if d.Shorthand != "" {
			if shorts[d.Shorthand] {
				return errors.Wrapf(ErrDuplicateFlag, "-%s", d.Shorthand)
			}
			shorts[d.Shorthand] = true
		}
		if d.Kind == KindLevel {
			if _, err := level.Parse(d.Default); err != nil {
				return errors.Wrapf(err, "default for --%s", d.Name)
			}
		}
	}

	for _, required := range []string{FlagLevel, FlagVerbose, FlagQuiet} {
		if !names[required] {
			return errors.Wrapf(ErrMissingFlag, "--%s", required)
		}
	}
	return nil
}

// Register validates descs and defines them on fs. Names or shorthands
// already present on fs are reported as ErrDuplicateFlag; nothing is
// defined in that case.
func Register(fs *pflag.FlagSet, descs []Descriptor) error {
	if err := Validate(descs); err != nil {
		return err
	}
	for _, d := range descs {
		if err := checkFree(fs, d); err != nil {
			return err
		}
	}
	for _, d := range descs {
		define(fs, d)
	}
	return nil
}

func checkFree(fs *pflag.FlagSet, d Descriptor) error {
	if fs.Lookup(d.Name) != nil {
		return errors.Wrapf(ErrDuplicateFlag, "--%s already defined", d.Name)
	}
	if len(d.Shorthand) == 1 && fs.ShorthandLookup(d.Shorthand) != nil {
		return errors.Wrapf(ErrDuplicateFlag, "-%s already defined", d.Shorthand)
	}
	return nil
}

func define(fs *pflag.FlagSet, d Descriptor) {
	switch d.Kind {
	case KindCount:
		fs.CountP(d.Name, d.Shorthand, d.Usage)
	default:
		fs.VarP(newLevelValue(level.MustParse(d.Default)), d.Name, d.Shorthand, d.Usage)
	}
	if d.Hidden {
		_ = fs.MarkHidden(d.Name)
	}
}

// levelValue is a pflag.Value restricted to level names.
type levelValue struct {
	l level.Level
}

func newLevelValue(def level.Level) *levelValue {
	return &levelValue{l: def}
}

func (v *levelValue) String() string { return v.l.Name() }

func (v *levelValue) Set(s string) error {
	l, err := level.Parse(s)
	if err != nil {
		return errors.Newf("must be one of: %s", strings.Join(level.Names(), ", "))
	}
	v.l = l
	return nil
}

func (v *levelValue) Type() string { return "level" }

// AddLoggingFlags registers the level, verbose and quiet flags on cmd.
func AddLoggingFlags(cmd *cobra.Command, def level.Level) (*cobra.Command, error) {
	return BuildLoggingFlags(cmd, def, nil)
}

// AddLoggingFlagsWithFile also registers the file-loglevel flag.
func AddLoggingFlagsWithFile(cmd *cobra.Command, def, fileDef level.Level) (*cobra.Command, error) {
	return BuildLoggingFlags(cmd, def, func(a *ArgsBuilder) *ArgsBuilder {
		return a.WithFileLevel(fileDef)
	})
}

// BuildLoggingFlags registers the logging flags on cmd after customize has
// adjusted them. Level flags complete to the level names.
func BuildLoggingFlags(cmd *cobra.Command, def level.Level, customize func(*ArgsBuilder) *ArgsBuilder) (*cobra.Command, error) {
	args := NewArgs(def)
	if customize != nil {
		args = customize(args)
	}
	descs := args.Export()

	fs := cmd.Flags()
	if args.Persistent() {
		fs = cmd.PersistentFlags()
	}
	// cobra keeps local and persistent flags in separate sets until it
	// parses; a name in either one would collide.
	for _, other := range []*pflag.FlagSet{cmd.Flags(), cmd.PersistentFlags()} {
		for _, d := range descs {
			if err := checkFree(other, d); err != nil {
				return cmd, err
			}
		}
	}
	if err := Register(fs, descs); err != nil {
		return cmd, err
	}

	for _, d := range descs {
		if d.Kind != KindLevel {
			continue
		}
		if err := cmd.RegisterFlagCompletionFunc(d.Name, completeLevels); err != nil {
			return cmd, errors.Wrapf(err, "registering completion for --%s", d.Name)
		}
	}
	return cmd, nil
}

func completeLevels(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	var out []string
	for _, l := range level.All() {
		if strings.HasPrefix(l.Name(), strings.ToLower(toComplete)) {
			out = append(out, l.Name()+"\t"+l.Description())
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}

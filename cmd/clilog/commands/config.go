package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/thoreinstein/clilog/internal/cli/prompt"
	"github.com/thoreinstein/clilog/internal/config"
	clierrors "github.com/thoreinstein/clilog/internal/errors"
	"github.com/thoreinstein/clilog/internal/paths"
	"github.com/thoreinstein/clilog/pkg/level"
)

func newConfigCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage clilog settings",
		Long: `Manage clilog settings stored in ~/.config/clilog/config.yaml.

Without a subcommand, shows the effective settings.`,
		Example: `  # Show the effective settings
  clilog config

  # Create a settings file, picking the default level interactively
  clilog config init --interactive

See Also: clilog resolve`,
		Annotations: map[string]string{annotationConfigOptional: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigShow(cmd, opts, config.FormatYAML)
		},
	}

	cmd.AddCommand(newConfigShowCmd(opts), newConfigGetCmd(opts), newConfigInitCmd())
	return cmd
}

func newConfigShowCmd(opts *rootOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective settings",
		Long: `Print the settings after applying the config file and CLILOG_*
environment variables, as YAML or TOML.`,
		Example: `  clilog config show
  clilog config show --output toml`,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationConfigOptional: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigShow(cmd, opts, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", config.FormatYAML, "output format: yaml, toml")
	return cmd
}

func runConfigShow(cmd *cobra.Command, opts *rootOptions, format string) error {
	if opts.loadErr != nil {
		return clierrors.NewUserError(opts.loadErr, "Fix the file or run: clilog config init --force")
	}

	data, err := config.Marshal(opts.settings, format)
	if err != nil {
		return clierrors.NewUserError(err, "Use --output yaml or --output toml")
	}

	w := cmd.OutOrStdout()
	if used := config.Used(); used != "" {
		fmt.Fprintf(w, "# %s\n", used)
	} else {
		fmt.Fprintln(w, "# defaults (no config file)")
	}
	_, err = w.Write(data)
	return err
}

func newConfigGetCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Print one setting",
		Long: `Print a single setting by key. Nested keys use dot notation and list
values are printed one per line.`,
		Example: `  clilog config get default_level
  clilog config get rotation.size_kb`,
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{annotationConfigOptional: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.loadErr != nil {
				return clierrors.NewConfigError(opts.loadErr)
			}

			key := strings.ToLower(args[0])
			if !viper.IsSet(key) {
				return clierrors.NewUserError(
					errors.Wrapf(clierrors.ErrNotFound, "setting %q", key),
					"Run: clilog config show")
			}

			w := cmd.OutOrStdout()
			switch v := viper.Get(key).(type) {
			case []string:
				for _, s := range v {
					fmt.Fprintln(w, s)
				}
			case []any:
				for _, s := range v {
					fmt.Fprintln(w, s)
				}
			default:
				fmt.Fprintln(w, viper.GetString(key))
			}
			return nil
		},
	}
}

func newConfigInitCmd() *cobra.Command {
	var (
		interactive bool
		force       bool
		path        string
		defLevel    string
		logFile     string
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a settings file",
		Long: `Write a settings file with the defaults, optionally choosing the default
log level interactively. An existing file is only replaced with --force.`,
		Example: `  clilog config init
  clilog config init --interactive
  clilog config init --path ./config.toml --default-level info --force
  clilog config init --log-path              # log to the default state directory
  clilog config init --log-path=logs/app.log`,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationConfigOptional: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := config.Default()

			def, err := level.Parse(defLevel)
			if err != nil {
				return clierrors.NewUserError(err, "Use one of: "+strings.Join(level.Names(), ", "))
			}
			if interactive {
				def, err = newSelector(cmd).SelectLevel("Default log level", def)
				if err != nil {
					if errors.Is(err, prompt.ErrSelectionCancelled) {
						fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
						return nil
					}
					return clierrors.NewUserError(err, "")
				}
			}
			s.DefaultLevel = def.Name()
			s.LogFile = logFile

			if err := config.Write(path, s, force); err != nil {
				if errors.Is(err, clierrors.ErrExists) {
					return clierrors.NewUserError(err, "Use --force to overwrite")
				}
				return clierrors.NewSystemError(err, "")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "pick the default level interactively")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")
	cmd.Flags().StringVar(&path, "path", paths.ConfigFile(), "file to write (.yaml or .toml)")
	cmd.Flags().StringVar(&defLevel, "default-level", level.Warn.Name(), "default log level")
	cmd.Flags().StringVar(&logFile, "log-path", "",
		"log file to enable; without a value, "+paths.DefaultLogFile())
	cmd.Flags().Lookup("log-path").NoOptDefVal = paths.DefaultLogFile()
	return cmd
}

// newSelector uses the fuzzy finder on a terminal and a numbered prompt
// otherwise.
func newSelector(cmd *cobra.Command) *prompt.Selector {
	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return prompt.NewSelector()
	}
	return prompt.NewSelectorWithIO(in, cmd.OutOrStdout())
}

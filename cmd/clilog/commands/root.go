// Package commands implements the CLI commands for clilog.
package commands

import (
	"log/slog"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	clicmd "github.com/thoreinstein/clilog/cmd"
	"github.com/thoreinstein/clilog/internal/config"
	clierrors "github.com/thoreinstein/clilog/internal/errors"
	"github.com/thoreinstein/clilog/pkg/level"
	"github.com/thoreinstein/clilog/pkg/logflags"
	"github.com/thoreinstein/clilog/pkg/logsetup"
	"github.com/thoreinstein/clilog/pkg/verbosity"
)

// EnvLogLevel overrides every logging flag when set to a level name.
const EnvLogLevel = "CLILOG_LOGLEVEL"

// Command annotations read by the root PersistentPreRunE.
const (
	// annotationNoLogging skips installing the logger.
	annotationNoLogging = "clilog/no-logging"
	// annotationConfigOptional tolerates an unreadable config file.
	annotationConfigOptional = "clilog/config-optional"
)

// rootOptions holds the state shared by the command tree.
type rootOptions struct {
	configPath string
	logFile    string
	rotate     bool

	settings *config.Settings
	loadErr  error
	flagsErr error
}

// NewRootCmd builds the clilog command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "clilog",
		Short: "Command-line logging setup: levels, verbosity flags and sinks",
		Long: `clilog resolves a log level from --loglevel, repeated -v/-q flags and
environment variables, and installs a console logger with an optional
continuous or size-rotated log file.

Precedence, highest first: CLILOG_LOGLEVEL and the env_vars setting,
then -v/-q applied to the base level, then --loglevel, then the
default_level setting.`,
		Example: `  # Show which records get through at the default level
  clilog emit

  # Two steps more verbose, also logging to a rotated file
  clilog -vv --log-file logs/app.log --rotate emit

  # Explain the resolved level
  CLILOG_LOGLEVEL=trace clilog resolve

  See Also: clilog config init, clilog config show`,
		Version:       clicmd.Version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	rootCmd.SetVersionTemplate("clilog version {{.Version}}\n")

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", "",
		"config file (default: ./config.yaml, then ~/.config/clilog/config.yaml)")
	pf.StringVar(&opts.logFile, "log-file", "",
		"also write logs to this file")
	pf.BoolVar(&opts.rotate, "rotate", false,
		"roll the log file over by size (see the rotation settings)")

	_, opts.flagsErr = logflags.BuildLoggingFlags(rootCmd, level.Warn, func(a *logflags.ArgsBuilder) *logflags.ArgsBuilder {
		return a.Global().WithFileLevel(level.Warn)
	})

	rootCmd.AddCommand(
		newEmitCmd(),
		newResolveCmd(opts),
		newConfigCmd(opts),
		newVersionCmd(),
		newGenDocCmd(rootCmd),
	)
	return rootCmd
}

// setup loads settings and installs the logger for cmd.
func (o *rootOptions) setup(cmd *cobra.Command) error {
	if o.flagsErr != nil {
		return clierrors.NewSystemError(o.flagsErr, "")
	}

	config.Init()
	o.settings, o.loadErr = config.Load(o.configPath)
	if o.loadErr != nil {
		if cmd.Annotations[annotationConfigOptional] != "true" {
			return clierrors.NewConfigError(o.loadErr)
		}
		o.settings = config.Default()
	}

	if err := applySettingsDefaults(cmd, o.settings); err != nil {
		return clierrors.NewConfigError(err)
	}
	if cmd.Annotations[annotationNoLogging] == "true" {
		return nil
	}

	_, err := logflags.BuildLogging(logflags.FromCommand(cmd), o.sinks(cmd), o.resolveOptions(cmd)...)
	if err != nil {
		return classifyLoggingError(err)
	}
	slog.Debug("logging installed", "command", cmd.CommandPath())
	return nil
}

// applySettingsDefaults replaces flag defaults with configured ones. Values
// are set without marking the flags as given on the command line.
func applySettingsDefaults(cmd *cobra.Command, s *config.Settings) error {
	defaults := map[string]string{
		logflags.FlagLevel:     s.DefaultLevel,
		logflags.FlagFileLevel: s.FileLevel,
	}
	for name, value := range defaults {
		f := cmd.Flags().Lookup(name)
		if f == nil || f.Changed || value == "" {
			continue
		}
		if err := f.Value.Set(value); err != nil {
			return errors.Wrapf(err, "applying %s from settings", name)
		}
	}
	return nil
}

func (o *rootOptions) envVars() []string {
	return append([]string{EnvLogLevel}, o.settings.EnvVars...)
}

func (o *rootOptions) resolver(cmd *cobra.Command) *verbosity.Resolver {
	diag := slog.New(logsetup.NewHandler(cmd.ErrOrStderr(), &logsetup.HandlerOptions{
		Level:   slog.LevelWarn,
		NoColor: o.settings.Console.NoColor,
	}))
	return verbosity.NewResolver(verbosity.WithLogger(diag))
}

func (o *rootOptions) resolveOptions(cmd *cobra.Command) []logflags.Option {
	return []logflags.Option{
		logflags.WithEnv(o.envVars()...),
		logflags.WithResolver(o.resolver(cmd)),
	}
}

// effectiveLogFile returns --log-file, or the log_file setting.
func (o *rootOptions) effectiveLogFile(cmd *cobra.Command) string {
	if cmd.Flags().Changed("log-file") {
		return o.logFile
	}
	return o.settings.LogFile
}

func (o *rootOptions) effectiveRotate(cmd *cobra.Command) bool {
	if cmd.Flags().Changed("rotate") {
		return o.rotate
	}
	return o.settings.Rotate
}

// sinks adds the console and, if configured, the file sink.
func (o *rootOptions) sinks(cmd *cobra.Command) func(*logsetup.Builder) *logsetup.Builder {
	s := o.settings
	return func(b *logsetup.Builder) *logsetup.Builder {
		b.WithConsole(func(c logsetup.ConsoleSpec) logsetup.ConsoleSpec {
			c.Out = cmd.ErrOrStderr()
			c.Format = logsetup.Format(s.Console.Format)
			c.NoColor = s.Console.NoColor
			return c
		})

		path := o.effectiveLogFile(cmd)
		if path == "" {
			return b
		}

		// Without --file-loglevel or a file_level setting the file
		// follows the console level, -v and -q included.
		if !cmd.Flags().Changed(logflags.FlagFileLevel) && s.FileLevel == "" {
			b.WithFileLevel(b.Level())
		}

		withPath := func(f logsetup.FileSpec) logsetup.FileSpec {
			f.Path = path
			return f
		}
		if !o.effectiveRotate(cmd) {
			return b.WithFile(logsetup.Continuous, withPath)
		}
		return b.WithFile(logsetup.Rolling, withPath).
			WithRotationPolicy(s.Rotation.SizeKB, s.WindowPattern(path), s.Rotation.WindowCount)
	}
}

func classifyLoggingError(err error) error {
	switch {
	case errors.Is(err, logsetup.ErrBuildFailed):
		return clierrors.NewSystemError(err, "Check that the log file directory is writable")
	case errors.Is(err, logsetup.ErrInitFailed):
		return clierrors.NewSystemError(err, "")
	default:
		return clierrors.NewUserError(err, "Run: clilog --help")
	}
}

// Execute runs the root command and uninstalls the logger afterwards.
func Execute() error {
	defer func() { _ = logsetup.Shutdown() }()
	return NewRootCmd().Execute()
}

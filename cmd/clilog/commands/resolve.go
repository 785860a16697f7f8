package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	clierrors "github.com/thoreinstein/clilog/internal/errors"
	"github.com/thoreinstein/clilog/pkg/level"
	"github.com/thoreinstein/clilog/pkg/logflags"
	"github.com/thoreinstein/clilog/pkg/verbosity"
)

func newResolveCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve",
		Short: "Print the resolved log level and where it came from",
		Long: `Resolve the log level from the flags, environment and settings the same
way every other command does, and print it instead of installing a logger.`,
		Example: `  clilog resolve -vv
  CLILOG_LOGLEVEL=debug clilog resolve --file-loglevel trace`,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationNoLogging: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			m := logflags.FromCommand(cmd)
			req, err := logflags.NewRequest(m, opts.envVars()...)
			if err != nil {
				return clierrors.NewUserError(err, "Run: clilog --help")
			}
			res, err := opts.resolver(cmd).Explain(req)
			if err != nil {
				return clierrors.NewUserError(err, "Run: clilog --help")
			}

			// the file follows the console unless given its own level
			fileLevel := res.Level
			fl, ok, err := logflags.ResolveFileLevel(m)
			if err != nil {
				return clierrors.NewUserError(err, "Run: clilog --help")
			}
			if ok && (cmd.Flags().Changed(logflags.FlagFileLevel) || opts.settings.FileLevel != "") {
				fileLevel = fl
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "level:      %s (%s)\n", res.Level.Name(), describeSource(res))
			if path := opts.effectiveLogFile(cmd); path != "" {
				fmt.Fprintf(w, "file level: %s (%s)\n", fileLevel.Name(), path)
			} else {
				fmt.Fprintf(w, "file level: %s (no log file)\n", fileLevel.Name())
			}
			fmt.Fprintf(w, "enabled:    %s\n", enabledLevels(res.Level))
			return nil
		},
	}
}

func describeSource(res verbosity.Resolution) string {
	switch res.Source {
	case verbosity.SourceEnv:
		return "from $" + res.EnvVar
	case verbosity.SourceFlags:
		return "from -v/-q"
	case verbosity.SourceExplicit:
		return "from --" + logflags.FlagLevel
	default:
		return "default"
	}
}

func enabledLevels(threshold level.Level) string {
	var out string
	for _, l := range level.All() {
		if l == level.Off || !threshold.Enables(l) {
			continue
		}
		if out != "" {
			out += ", "
		}
		out += l.Name()
	}
	if out == "" {
		return "none"
	}
	return out
}

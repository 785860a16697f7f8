// Package logflags is the command-line surface of clilog.
//
// It registers --loglevel, -v/--verbose, -q/--quiet and optionally
// --file-loglevel on a cobra command, reads them back after parsing and
// turns them into an installed logger:
//
//	cmd, err := logflags.AddLoggingFlags(rootCmd, level.Warn)
//	...
//	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
//		_, err := logflags.InitLogging(logflags.FromCommand(cmd), logflags.WithEnv("APP_LOG"))
//		return err
//	}
//
// With the default above, "-v" logs at info, "-vv" at debug and "-q" at
// error; "--loglevel trace" alone selects trace.
package logflags

// Package errors provides error handling conventions for the clilog CLI.
//
// It defines sentinel errors, an ExitError type carrying an exit code and
// an optional suggestion, and exit code constants following standard Unix
// conventions:
//
//   - ExitSuccess (0): Command completed successfully
//   - ExitUser (1): Bad flags, unknown levels, invalid configuration
//   - ExitSystem (2): The log file or config file could not be written
//
// Commands return ExitErrors; main maps them to a process exit code:
//
//	if err := commands.Execute(); err != nil {
//	    if s := clierrors.Suggestion(err); s != "" {
//	        fmt.Fprintln(os.Stderr, s)
//	    }
//	    os.Exit(clierrors.Code(err))
//	}
package errors

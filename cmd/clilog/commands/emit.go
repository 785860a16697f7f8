package commands

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/clilog/pkg/level"
)

func newEmitCmd() *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "emit [message]",
		Short: "Log a record at every level",
		Long: `Log one record at each level from error to trace, so the effect of
--loglevel, -v, -q and the environment overrides is visible. With --count
the sequence repeats, which is handy for watching a log file roll over.`,
		Example: `  clilog emit
  clilog -vvv emit "hello"
  clilog --log-file app.log --rotate emit --count 500`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			msg := "sample record"
			if len(args) == 1 {
				msg = args[0]
			}

			ctx := cmd.Context()
			logger := slog.Default()
			for i := range count {
				for _, l := range level.All() {
					if l == level.Off {
						continue
					}
					logger.Log(ctx, l.Slog(), msg, "seq", i+1)
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 1, "number of times to repeat the sequence")
	return cmd
}

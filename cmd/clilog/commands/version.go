package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	clicmd "github.com/thoreinstein/clilog/cmd"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Print the version information",
		Long:        `Print the version, commit, and build date of clilog.`,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationNoLogging: "true", annotationConfigOptional: "true"},
		Run: func(cmd *cobra.Command, _ []string) {
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "clilog version %s\n", clicmd.Version)
			fmt.Fprintf(w, "  commit: %s\n", clicmd.Commit)
			fmt.Fprintf(w, "  built:  %s\n", clicmd.Date)
		},
	}
}

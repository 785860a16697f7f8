// Package main is the entry point for the clilog CLI.
package main

import (
	"fmt"
	"os"

	"github.com/thoreinstein/clilog/cmd/clilog/commands"
	clierrors "github.com/thoreinstein/clilog/internal/errors"
)

func main() {
	err := commands.Execute()
	if err == nil {
		return
	}

	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	if s := clierrors.Suggestion(err); s != "" {
		fmt.Fprintln(os.Stderr, s)
	}
	os.Exit(clierrors.Code(err))
}

package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
)

func newGenDocCmd(root *cobra.Command) *cobra.Command {
	cmd := &cobra.Command{
		Use:         "gen-doc",
		Short:       "Generate Markdown documentation for the CLI",
		Hidden:      true,
		Annotations: map[string]string{annotationNoLogging: "true", annotationConfigOptional: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			outputDir, _ := cmd.Flags().GetString("dir")
			if outputDir == "" {
				return errors.New("output directory is required")
			}

			if err := os.MkdirAll(outputDir, 0o755); err != nil {
				return errors.Wrap(err, "creating output directory")
			}

			// Front matter for the docs site is added per file.
			root.DisableAutoGenTag = true
			if err := doc.GenMarkdownTreeCustom(root, outputDir, filePrepender, linkHandler); err != nil {
				return errors.Wrap(err, "generating markdown")
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Documentation generated in %s\n", outputDir)
			return nil
		},
	}

	cmd.Flags().StringP("dir", "d", "", "Output directory for documentation")
	return cmd
}

func filePrepender(filename string) string {
	name := filepath.Base(filename)
	base := strings.TrimSuffix(name, filepath.Ext(name))
	// clilog_config_init.md -> clilog config init
	title := strings.ReplaceAll(base, "_", " ")

	return fmt.Sprintf(`---
title: "%s"
description: "Reference for %s"
draft: false
---
`, title, title)
}

func linkHandler(name string) string {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	return "/docs/reference/" + strings.ToLower(base) + "/"
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/litreview/internal/terms"
)

var expandCmd = &cobra.Command{
	Use:   "expand [text...]",
	Short: "Expand domain abbreviations in free text",
	Long: `Expand replaces known abbreviations with their full forms, keeping the
abbreviation in parentheses, using the configured dictionary. With no
dictionary present the text passes through unchanged.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := pipelineConfig()
		expander, err := terms.LoadExpander(cfg.DictionaryPath)
		if err != nil {
			return err
		}

		fmt.Println(expander.Expand(strings.Join(args, " ")))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(expandCmd)
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/litreview/internal/query"
	"github.com/pdiddy/litreview/internal/terms"
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Build and print the boolean PubMed query for given criteria",
	Long: `Query assembles the boolean PubMed query the pipeline would send, without
retrieving anything. Useful for checking field tags, MeSH substitution, and
abbreviation expansion before a full run.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		criteria, err := criteriaFromFlags(cmd)
		if err != nil {
			return err
		}

		cfg := pipelineConfig()
		expander, err := terms.LoadExpander(cfg.DictionaryPath)
		if err != nil {
			return err
		}

		builder := query.NewBuilder(expander)
		if len(cfg.MeSHTerms) > 0 {
			builder.MeSHMap = cfg.MeSHTerms
		}

		fmt.Println(builder.Build(criteria))
		return nil
	},
}

func init() {
	queryCmd.Flags().String("goal", "", "plain-language research goal (required)")
	queryCmd.Flags().StringSlice("include", nil, "terms each article must match")
	queryCmd.Flags().StringSlice("exclude", nil, "terms that disqualify an article")
	queryCmd.Flags().String("population", "", "target study population")
	queryCmd.Flags().String("outcome", "", "outcome of interest")
	queryCmd.Flags().Int("from", 0, "publication year range start")
	queryCmd.Flags().Int("to", 0, "publication year range end")
	queryCmd.Flags().StringSlice("study-types", nil, "publication types to filter by")
	queryCmd.Flags().Bool("mesh", true, "use MeSH controlled-vocabulary tags")
	queryCmd.Flags().Bool("strict-ta", false, "force explicit Title/Abstract clauses when MeSH is off")
	queryCmd.Flags().Bool("broad", false, "broad mode: drop all field tags")

	rootCmd.AddCommand(queryCmd)
}

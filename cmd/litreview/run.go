// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/litreview/internal/history"
	"github.com/pdiddy/litreview/internal/llm"
	"github.com/pdiddy/litreview/internal/mine"
	"github.com/pdiddy/litreview/internal/pipeline"
	"github.com/pdiddy/litreview/internal/query"
	"github.com/pdiddy/litreview/internal/report"
	"github.com/pdiddy/litreview/internal/retrieve"
	"github.com/pdiddy/litreview/internal/screen"
	"github.com/pdiddy/litreview/internal/terms"
	"github.com/pdiddy/litreview/pkg/types"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute the full literature-review pipeline",
	Long: `Run builds the PubMed query from the given criteria, retrieves candidate
articles (falling back to Europe PMC when PubMed returns nothing), screens
them for relevance, mines structured fields from each abstract, aggregates
the findings, and writes filtered.json, mined.json, and report.md.`,
	RunE: runPipeline,
}

func init() {
	runCmd.Flags().String("goal", "", "plain-language research goal (required)")
	runCmd.Flags().StringSlice("include", nil, "terms each article must match")
	runCmd.Flags().StringSlice("exclude", nil, "terms that disqualify an article")
	runCmd.Flags().String("population", "", "target study population (e.g. humans)")
	runCmd.Flags().String("outcome", "", "outcome of interest")
	runCmd.Flags().Int("from", 0, "publication year range start")
	runCmd.Flags().Int("to", 0, "publication year range end")
	runCmd.Flags().StringSlice("study-types", nil, "publication types to filter by")
	runCmd.Flags().Bool("mesh", true, "use MeSH controlled-vocabulary tags")
	runCmd.Flags().Bool("strict-ta", false, "force explicit Title/Abstract clauses when MeSH is off")
	runCmd.Flags().Bool("broad", false, "broad mode: drop all field tags to maximize recall")
	runCmd.Flags().Int("max-results", 0, "cap on retrieved articles (0 = no cap)")
	runCmd.Flags().Bool("dry-run", false, "build and print the query, then stop")

	rootCmd.AddCommand(runCmd)
}

func runPipeline(cmd *cobra.Command, args []string) error {
	criteria, err := criteriaFromFlags(cmd)
	if err != nil {
		return err
	}

	cfg := pipelineConfig()
	if mr, _ := cmd.Flags().GetInt("max-results"); mr > 0 {
		cfg.Retrieval.MaxResults = mr
	}

	expander, err := terms.LoadExpander(cfg.DictionaryPath)
	if err != nil {
		return err
	}
	if expander.Len() == 0 {
		fmt.Fprintln(os.Stderr, "warning: no abbreviation dictionary found, expansion disabled")
	}

	builder := query.NewBuilder(expander)
	if len(cfg.MeSHTerms) > 0 {
		builder.MeSHMap = cfg.MeSHTerms
	}

	if dry, _ := cmd.Flags().GetBool("dry-run"); dry {
		fmt.Println(builder.Build(criteria))
		return nil
	}

	ctx := context.Background()

	// A missing text-generation key is fatal before any stage runs.
	gen, err := llm.New(ctx, cfg.LLM)
	if err != nil {
		return err
	}
	if closer, ok := gen.(interface{ Close() error }); ok {
		defer closer.Close()
	}

	client := &http.Client{Timeout: cfg.Retrieval.Timeout}

	store, err := history.Open(cfg.Output.IndexDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: history store unavailable: %v\n", err)
		store = nil
	} else {
		defer store.Close()
	}

	deps := pipeline.Deps{
		Builder:     builder,
		Primary:     &retrieve.PubMedSource{Client: client, Progress: os.Stderr},
		Fallback:    &retrieve.EuropePMCSource{Client: client},
		Classifier:  &screen.Classifier{Gen: gen, Log: os.Stderr},
		Miner:       &mine.Miner{Gen: gen, Log: os.Stderr},
		Synthesizer: &report.Synthesizer{Gen: gen, Log: os.Stderr},
		History:     store,
	}

	res, err := pipeline.Run(ctx, criteria, cfg, deps, os.Stderr)
	if err != nil {
		return err
	}

	printSummary(res)
	return nil
}

func criteriaFromFlags(cmd *cobra.Command) (types.Criteria, error) {
	goal, _ := cmd.Flags().GetString("goal")
	if strings.TrimSpace(goal) == "" {
		return types.Criteria{}, fmt.Errorf("--goal is required")
	}

	include, _ := cmd.Flags().GetStringSlice("include")
	exclude, _ := cmd.Flags().GetStringSlice("exclude")
	population, _ := cmd.Flags().GetString("population")
	outcome, _ := cmd.Flags().GetString("outcome")
	studyTypes, _ := cmd.Flags().GetStringSlice("study-types")
	useMeSH, _ := cmd.Flags().GetBool("mesh")
	strictTA, _ := cmd.Flags().GetBool("strict-ta")
	broad, _ := cmd.Flags().GetBool("broad")

	c := types.Criteria{
		Goal:                goal,
		IncludeTerms:        include,
		ExcludeTerms:        exclude,
		Population:          population,
		Outcome:             outcome,
		StudyTypes:          studyTypes,
		UseMeSH:             useMeSH,
		StrictTitleAbstract: strictTA,
		BroadMode:           broad,
	}

	from, _ := cmd.Flags().GetInt("from")
	to, _ := cmd.Flags().GetInt("to")
	if from != 0 || to != 0 {
		r := types.YearRange{Start: from, End: to}
		if err := r.Validate(); err != nil {
			return types.Criteria{}, err
		}
		c.DateRange = &r
	}
	return c, nil
}

func printSummary(res *pipeline.Result) {
	fmt.Printf("retrieved %d, retained %d, mined %d\n",
		res.Retrieved, len(res.Filtered), len(res.Mined))
	fmt.Printf("total patients: %d\n", res.Aggregate.TotalPatients)

	if len(res.Aggregate.EndpointCounts) > 0 {
		names := make([]string, 0, len(res.Aggregate.EndpointCounts))
		for name := range res.Aggregate.EndpointCounts {
			names = append(names, name)
		}
		sort.Strings(names)
		fmt.Println("endpoints:")
		for _, name := range names {
			fmt.Printf("  %-40s %d\n", name, res.Aggregate.EndpointCounts[name])
		}
	}

	fmt.Printf("report: %s\n", res.ReportPath)
}

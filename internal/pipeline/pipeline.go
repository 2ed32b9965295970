// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline sequences the review stages: build query, retrieve,
// screen, mine, aggregate, synthesize, persist. Strictly sequential with
// no branching back; every stage degrades rather than aborting the run.
// Implements: prd007-pipeline (R1-R5);
//
//	docs/ARCHITECTURE § Pipeline.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/pdiddy/litreview/internal/aggregate"
	"github.com/pdiddy/litreview/internal/history"
	"github.com/pdiddy/litreview/internal/mine"
	"github.com/pdiddy/litreview/internal/query"
	"github.com/pdiddy/litreview/internal/report"
	"github.com/pdiddy/litreview/internal/retrieve"
	"github.com/pdiddy/litreview/internal/screen"
	"github.com/pdiddy/litreview/pkg/types"
)

// Deps bundles the stage implementations the orchestrator drives. History
// is optional; everything else is required.
type Deps struct {
	Builder     *query.Builder
	Primary     retrieve.Source
	Fallback    retrieve.Source
	Classifier  *screen.Classifier
	Miner       *mine.Miner
	Synthesizer *report.Synthesizer
	History     *history.Store
}

// Result holds everything one run produced.
type Result struct {
	Query     string
	Source    string
	Retrieved int
	Filtered  []types.Article
	Mined     []types.MinedRecord
	Aggregate types.Aggregate
	Report    string

	FilteredPath string
	MinedPath    string
	ReportPath   string
}

// Run executes the full pipeline for one set of criteria. The run always
// completes and always produces a report, even when every stage degrades
// to its neutral result (R5). The returned error is non-nil only when the
// final artifacts cannot be written.
func Run(ctx context.Context, criteria types.Criteria, cfg types.PipelineConfig, deps Deps, w io.Writer) (*Result, error) {
	res := &Result{}

	// Query construction never fails (prd001-query R1).
	res.Query = deps.Builder.Build(criteria)
	fmt.Fprintf(w, "query: %s\n", res.Query)

	// Retrieval: primary source first; a transient failure counts as zero
	// results. An empty primary result triggers the fallback with the
	// original free-text goal, since the fallback has no field-tag
	// grammar (R2).
	raws := searchPrimary(ctx, criteria, cfg, deps, w, res)
	if len(raws) == 0 && deps.Fallback != nil {
		fmt.Fprintf(w, "retrieve: no results from %s, falling back to %s\n",
			deps.Primary.Name(), deps.Fallback.Name())
		var err error
		raws, err = deps.Fallback.Search(ctx, criteria.Goal, cfg.Retrieval)
		if err != nil {
			fmt.Fprintf(w, "warning: retrieve: %s failed: %v\n", deps.Fallback.Name(), err)
			raws = nil
		}
		res.Source = deps.Fallback.Name()
	}
	res.Retrieved = len(raws)
	fmt.Fprintf(w, "retrieve: %d articles\n", len(raws))

	// Screening: normalize then judge each article, preserving input
	// order. Rejections and classifier failures drop the article (R3).
	for i, raw := range raws {
		article := retrieve.Normalize(raw)
		fmt.Fprintf(w, "screen: %d/%d %s\n", i+1, len(raws), article.PMID)
		if deps.Classifier.IsRelevant(ctx, article.Title, article.Abstract) {
			res.Filtered = append(res.Filtered, article)
		}
	}
	fmt.Fprintf(w, "screen: %d of %d retained\n", len(res.Filtered), len(raws))

	// Mining: one extraction per retained article; a failed extraction
	// yields the sentinel payload and the loop continues (R4).
	for i, article := range res.Filtered {
		fmt.Fprintf(w, "mine: %d/%d %s\n", i+1, len(res.Filtered), article.PMID)
		res.Mined = append(res.Mined, types.MinedRecord{
			PMID:      article.PMID,
			Year:      article.Year,
			Extracted: deps.Miner.Extract(ctx, article.Abstract),
		})
	}

	// Aggregation is pure and always succeeds.
	res.Aggregate = aggregate.Summarize(res.Mined, w)

	// Synthesis degrades to a fixed message on empty input or failure.
	res.Report = deps.Synthesizer.Generate(ctx, criteria.Goal, res.Mined)

	if err := persist(criteria, cfg, res, w); err != nil {
		return res, err
	}

	if deps.History != nil {
		run := history.Run{
			Timestamp:     time.Now(),
			Goal:          criteria.Goal,
			Query:         res.Query,
			Source:        res.Source,
			Retrieved:     res.Retrieved,
			Filtered:      len(res.Filtered),
			Mined:         len(res.Mined),
			TotalPatients: res.Aggregate.TotalPatients,
			ReportPath:    res.ReportPath,
		}
		if _, err := deps.History.Record(ctx, run); err != nil {
			fmt.Fprintf(w, "warning: history: could not record run: %v\n", err)
		}
	}

	return res, nil
}

func searchPrimary(ctx context.Context, criteria types.Criteria, cfg types.PipelineConfig, deps Deps, w io.Writer, res *Result) []types.RawArticle {
	res.Source = deps.Primary.Name()
	raws, err := deps.Primary.Search(ctx, res.Query, cfg.Retrieval)
	if err != nil {
		fmt.Fprintf(w, "warning: retrieve: %s failed: %v\n", deps.Primary.Name(), err)
		return nil
	}
	return raws
}

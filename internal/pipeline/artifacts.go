// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pdiddy/litreview/pkg/types"
)

const (
	filteredFile = "filtered.json"
	minedFile    = "mined.json"
	reportFile   = "report.md"
	runFile      = "run.yaml"
)

// persist writes the three run artifacts (the filtered article list, the
// mined record list, and the report) plus the run summary YAML (R5.2).
// The pipeline never reads these back.
func persist(criteria types.Criteria, cfg types.PipelineConfig, res *Result, w io.Writer) error {
	for _, dir := range []string{cfg.Output.ProcessedDir, cfg.Output.ReportDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output directory %s: %w", dir, err)
		}
	}

	res.FilteredPath = filepath.Join(cfg.Output.ProcessedDir, filteredFile)
	if err := writeJSON(res.FilteredPath, nonNilArticles(res.Filtered)); err != nil {
		return err
	}

	res.MinedPath = filepath.Join(cfg.Output.ProcessedDir, minedFile)
	if err := writeJSON(res.MinedPath, nonNilRecords(res.Mined)); err != nil {
		return err
	}

	res.ReportPath = filepath.Join(cfg.Output.ReportDir, reportFile)
	if err := os.WriteFile(res.ReportPath, []byte(res.Report), 0o644); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}

	runPath := filepath.Join(cfg.Output.ProcessedDir, runFile)
	if err := WriteRunFile(runPath, criteria, res); err != nil {
		return err
	}

	fmt.Fprintf(w, "persist: %s, %s, %s\n", res.FilteredPath, res.MinedPath, res.ReportPath)
	return nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// The artifacts are JSON arrays even when a run retained nothing.
func nonNilArticles(a []types.Article) []types.Article {
	if a == nil {
		return []types.Article{}
	}
	return a
}

func nonNilRecords(r []types.MinedRecord) []types.MinedRecord {
	if r == nil {
		return []types.MinedRecord{}
	}
	return r
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report synthesizes the narrative review from mined records.
// Implements: prd006-report (R1, R2);
//
//	docs/ARCHITECTURE § Report.
package report

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/pdiddy/litreview/internal/llm"
	"github.com/pdiddy/litreview/pkg/types"
)

const (
	// NoDataMessage is returned without calling the generator when there
	// is nothing to synthesize (R1.2).
	NoDataMessage = "No data available for the report."

	// FailureMessage replaces the report when the generator fails (R1.3).
	FailureMessage = "Report generation failed."
)

const systemPrompt = `You will receive a scientific research goal and a series of JSON records extracted from article abstracts.
Write a technical, concise report for researchers and practitioners. Include:
- Introduction to the goal
- Methodology (how the studies were selected and analyzed)
- Aggregated results
- Conclusions with strengths and limitations
Clear, technical, orderly style. No inventions, only what emerges from the data.`

// Synthesizer turns the goal plus mined records into narrative prose.
type Synthesizer struct {
	Gen llm.Generator
	// Log receives degradation notices; nil means silent.
	Log io.Writer
}

// Generate produces the report text. It always returns usable text: empty
// input short-circuits to NoDataMessage and a capability failure degrades
// to FailureMessage rather than propagating.
func (s *Synthesizer) Generate(ctx context.Context, goal string, records []types.MinedRecord) string {
	if len(records) == 0 {
		s.logf("report: no mined data, skipping synthesis\n")
		return NoDataMessage
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		s.logf("warning: report: could not serialize records: %v\n", err)
		return FailureMessage
	}

	prompt := fmt.Sprintf("GOAL: %s\n\nDATA:\n%s", goal, data)

	reply, err := s.Gen.Generate(ctx, systemPrompt, []llm.Message{llm.UserMessage(prompt)})
	if err != nil {
		s.logf("warning: report: synthesis call failed: %v\n", err)
		return FailureMessage
	}
	return reply
}

func (s *Synthesizer) logf(format string, args ...any) {
	if s.Log != nil {
		fmt.Fprintf(s.Log, format, args...)
	}
}

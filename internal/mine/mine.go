// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package mine extracts structured study fields from article abstracts.
// Implements: prd004-mining (R1-R3);
//
//	docs/ARCHITECTURE § Mining.
package mine

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/litreview/internal/llm"
)

const systemPrompt = `Extract the following fields from the scientific abstract as a JSON object:
 - patients (int): number of patients enrolled
 - study_type (string): the study design
 - endpoints (array of strings): the measured outcome variables
 - effect (string): one of "positive", "negative", "neutral", "uncertain"
Use only values deducible from the text. Write null for anything missing.
Respond with the JSON object alone, no surrounding text.`

// EmptySentinel is returned when extraction fails outright. Downstream
// aggregation treats it as a record with no usable fields (R3).
var EmptySentinel = json.RawMessage(`{}`)

// Miner asks a text generator for structured fields from an abstract.
type Miner struct {
	Gen llm.Generator
	// Log receives degradation notices; nil means silent.
	Log io.Writer
}

// Extract returns the mined payload for one abstract. The reply is kept as
// a JSON object when it parses; otherwise the raw reply is preserved as a
// JSON string so the artifact still records what the model said. A
// generator failure yields the empty-object sentinel; extraction never
// halts the pipeline (R2, R3).
func (m *Miner) Extract(ctx context.Context, abstract string) json.RawMessage {
	prompt := "ABSTRACT:\n" + abstract

	reply, err := m.Gen.Generate(ctx, systemPrompt, []llm.Message{llm.UserMessage(prompt)})
	if err != nil {
		m.logf("warning: mine: extraction call failed: %v\n", err)
		return EmptySentinel
	}

	cleaned := StripFences(reply)
	if json.Valid([]byte(cleaned)) && strings.HasPrefix(strings.TrimSpace(cleaned), "{") {
		return json.RawMessage(cleaned)
	}

	// Not a JSON object: wrap the raw reply as a JSON string.
	wrapped, err := json.Marshal(reply)
	if err != nil {
		return EmptySentinel
	}
	return json.RawMessage(wrapped)
}

// StripFences removes a surrounding Markdown code fence, with or without a
// language tag, from a model reply.
func StripFences(reply string) string {
	s := strings.TrimSpace(reply)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if idx := strings.Index(s, "\n"); idx >= 0 {
		// Drop the language tag line ("json", "" ...).
		s = s[idx+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func (m *Miner) logf(format string, args ...any) {
	if m.Log != nil {
		fmt.Fprintf(m.Log, format, args...)
	}
}

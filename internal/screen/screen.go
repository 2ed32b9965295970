// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package screen judges article relevance against the research goal.
// Implements: prd003-screening (R1-R3);
//
//	docs/ARCHITECTURE § Screening.
package screen

import (
	"context"
	"fmt"
	"io"
	"regexp"

	"github.com/pdiddy/litreview/internal/llm"
)

const systemPrompt = "Read the title and abstract. Answer only with 'yes' or 'no': " +
	"is the article relevant to the research goal?"

// The original reviewers answer in English or Italian; both affirmative
// forms count. Matching is whole-word so "no" inside a word does not
// trigger. "sì" gets no trailing \b: Go's word boundary is ASCII-only and
// would never match after the accented vowel.
var (
	affirmativeRe = regexp.MustCompile(`(?i)(\byes\b|\bsi\b|\bsì)`)
	negativeRe    = regexp.MustCompile(`(?i)\bno\b`)
)

// Classifier asks a text generator whether an article is relevant.
type Classifier struct {
	Gen llm.Generator
	// Log receives degradation notices; nil means silent.
	Log io.Writer
}

// IsRelevant returns the relevance judgment for a title and abstract.
// The policy is fail-closed (R2): an ambiguous reply or a generator error
// never admits an article, so false negatives are preferred over polluting
// downstream synthesis.
func (c *Classifier) IsRelevant(ctx context.Context, title, abstract string) bool {
	prompt := fmt.Sprintf("TITLE: %s\nABSTRACT: %s", title, abstract)

	reply, err := c.Gen.Generate(ctx, systemPrompt, []llm.Message{llm.UserMessage(prompt)})
	if err != nil {
		c.logf("warning: screen: classifier call failed, rejecting: %v\n", err)
		return false
	}

	switch {
	case affirmativeRe.MatchString(reply) && !negativeRe.MatchString(reply):
		return true
	case negativeRe.MatchString(reply):
		return false
	default:
		c.logf("warning: screen: ambiguous reply %q, rejecting\n", truncate(reply, 80))
		return false
	}
}

func (c *Classifier) logf(format string, args ...any) {
	if c.Log != nil {
		fmt.Fprintf(c.Log, format, args...)
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package llm abstracts the text-generation capability used by the
// screening, mining, and report stages. Each caller gets the same narrow
// contract (role-tagged messages in, one text reply out) so the concrete
// backend, whether Claude, Gemini, or a test stub, is substitutable.
// Implements: prd003-screening R4, prd004-mining R4, prd006-report R2;
//
//	docs/ARCHITECTURE § Text Generation.
package llm

import (
	"context"
	"fmt"

	"github.com/pdiddy/litreview/pkg/types"
)

// Message is a single role-tagged message in a generation request.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// UserMessage builds a user-role message.
func UserMessage(content string) Message {
	return Message{Role: "user", Content: content}
}

// Generator produces one text reply for a system instruction and a message
// list. Implementations may fail with an error; callers convert failures
// into component-local fallback behavior and never propagate them raw.
type Generator interface {
	Generate(ctx context.Context, system string, msgs []Message) (string, error)
}

// New selects and constructs the configured backend. A missing API key is
// a fatal configuration error, surfaced here before any pipeline stage
// runs.
func New(ctx context.Context, cfg types.LLMConfig) (Generator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("no API key configured for %s backend", cfg.Backend)
	}

	switch cfg.Backend {
	case types.BackendClaude, "":
		return NewClaude(cfg), nil
	case types.BackendGemini:
		return NewGemini(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown llm backend %q", cfg.Backend)
	}
}

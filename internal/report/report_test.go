// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/pdiddy/litreview/internal/llm"
	"github.com/pdiddy/litreview/pkg/types"
)

type stubGen struct {
	reply  string
	err    error
	called bool
	prompt string
}

func (s *stubGen) Generate(_ context.Context, _ string, msgs []llm.Message) (string, error) {
	s.called = true
	if len(msgs) > 0 {
		s.prompt = msgs[0].Content
	}
	return s.reply, s.err
}

func minedRecords() []types.MinedRecord {
	return []types.MinedRecord{
		{PMID: "1", Year: 2020, Extracted: json.RawMessage(`{"patients": 100}`)},
	}
}

func TestGenerateEmptyInput(t *testing.T) {
	gen := &stubGen{reply: "should not be used"}
	s := &Synthesizer{Gen: gen}

	got := s.Generate(context.Background(), "goal", nil)
	if got != NoDataMessage {
		t.Errorf("Generate() = %q, want %q", got, NoDataMessage)
	}
	if gen.called {
		t.Error("generator must not be called for empty input")
	}
}

func TestGenerateReturnsReply(t *testing.T) {
	gen := &stubGen{reply: "## Review\n\nFindings..."}
	s := &Synthesizer{Gen: gen}

	got := s.Generate(context.Background(), "vitamin d and diabetes", minedRecords())
	if got != "## Review\n\nFindings..." {
		t.Errorf("Generate() = %q", got)
	}
	if !strings.Contains(gen.prompt, "GOAL: vitamin d and diabetes") {
		t.Errorf("prompt missing goal: %q", gen.prompt)
	}
	if !strings.Contains(gen.prompt, `"patients": 100`) {
		t.Errorf("prompt missing record data: %q", gen.prompt)
	}
}

func TestGenerateFailure(t *testing.T) {
	var log strings.Builder
	s := &Synthesizer{Gen: &stubGen{err: errors.New("api down")}, Log: &log}

	got := s.Generate(context.Background(), "goal", minedRecords())
	if got != FailureMessage {
		t.Errorf("Generate() = %q, want %q", got, FailureMessage)
	}
	if !strings.Contains(log.String(), "warning:") {
		t.Errorf("expected warning in log, got %q", log.String())
	}
}

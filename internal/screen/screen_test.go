// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package screen

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/pdiddy/litreview/internal/llm"
)

// stubGen returns a canned reply or error.
type stubGen struct {
	reply string
	err   error
}

func (s *stubGen) Generate(_ context.Context, _ string, _ []llm.Message) (string, error) {
	return s.reply, s.err
}

func TestIsRelevantReplies(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  bool
	}{
		{"plain yes", "yes", true},
		{"uppercase yes", "YES", true},
		{"yes in sentence", "Yes, the article is relevant.", true},
		{"italian affirmative", "Sì, è rilevante", true},
		{"unaccented italian", "si", true},
		{"plain no", "no", false},
		{"no in sentence", "No, unrelated topic.", false},
		{"both yes and no", "yes and no", false},
		{"ambiguous", "Forse", false},
		{"empty", "", false},
		{"no inside word", "normal findings", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Classifier{Gen: &stubGen{reply: tt.reply}}
			got := c.IsRelevant(context.Background(), "T", "A")
			if got != tt.want {
				t.Errorf("IsRelevant() with reply %q = %v, want %v", tt.reply, got, tt.want)
			}
		})
	}
}

func TestIsRelevantGeneratorFailure(t *testing.T) {
	var log bytes.Buffer
	c := &Classifier{Gen: &stubGen{err: errors.New("api down")}, Log: &log}

	if c.IsRelevant(context.Background(), "T", "A") {
		t.Error("IsRelevant() = true on generator failure, want fail-closed false")
	}
	if !bytes.Contains(log.Bytes(), []byte("warning:")) {
		t.Errorf("expected warning in log, got %q", log.String())
	}
}

func TestIsRelevantLogsAmbiguousReply(t *testing.T) {
	var log bytes.Buffer
	c := &Classifier{Gen: &stubGen{reply: "maybe, hard to say"}, Log: &log}

	if c.IsRelevant(context.Background(), "T", "A") {
		t.Error("IsRelevant() = true for ambiguous reply, want false")
	}
	if !bytes.Contains(log.Bytes(), []byte("ambiguous")) {
		t.Errorf("expected ambiguity notice in log, got %q", log.String())
	}
}

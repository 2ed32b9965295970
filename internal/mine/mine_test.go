// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package mine

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/pdiddy/litreview/internal/llm"
)

type stubGen struct {
	reply string
	err   error
}

func (s *stubGen) Generate(_ context.Context, _ string, _ []llm.Message) (string, error) {
	return s.reply, s.err
}

func TestExtractValidJSON(t *testing.T) {
	reply := `{"patients": 120, "study_type": "RCT", "endpoints": ["HbA1c"], "effect": "positive"}`
	m := &Miner{Gen: &stubGen{reply: reply}}

	got := m.Extract(context.Background(), "some abstract")

	var fields map[string]any
	if err := json.Unmarshal(got, &fields); err != nil {
		t.Fatalf("payload is not JSON: %v", err)
	}
	if fields["patients"] != float64(120) {
		t.Errorf("patients = %v", fields["patients"])
	}
	if fields["study_type"] != "RCT" {
		t.Errorf("study_type = %v", fields["study_type"])
	}
}

func TestExtractFencedJSON(t *testing.T) {
	reply := "```json\n{\"patients\": 50}\n```"
	m := &Miner{Gen: &stubGen{reply: reply}}

	got := m.Extract(context.Background(), "abstract")

	var fields map[string]any
	if err := json.Unmarshal(got, &fields); err != nil {
		t.Fatalf("fenced payload did not parse: %v", err)
	}
	if fields["patients"] != float64(50) {
		t.Errorf("patients = %v", fields["patients"])
	}
}

func TestExtractNonJSONReplyPreserved(t *testing.T) {
	m := &Miner{Gen: &stubGen{reply: "I could not find any figures."}}

	got := m.Extract(context.Background(), "abstract")

	var s string
	if err := json.Unmarshal(got, &s); err != nil {
		t.Fatalf("payload should be a JSON string, got %s: %v", got, err)
	}
	if s != "I could not find any figures." {
		t.Errorf("preserved reply = %q", s)
	}
}

func TestExtractGeneratorFailure(t *testing.T) {
	var log bytes.Buffer
	m := &Miner{Gen: &stubGen{err: errors.New("timeout")}, Log: &log}

	got := m.Extract(context.Background(), "abstract")
	if string(got) != string(EmptySentinel) {
		t.Errorf("payload = %s, want empty sentinel", got)
	}
	if !bytes.Contains(log.Bytes(), []byte("warning:")) {
		t.Errorf("expected warning in log, got %q", log.String())
	}
}

func TestStripFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no fence", `{"a": 1}`, `{"a": 1}`},
		{"fence with tag", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"fence without tag", "```\n{\"a\": 1}\n```", `{"a": 1}`},
		{"surrounding whitespace", "  ```json\n{}\n```  ", "{}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripFences(tt.in); got != tt.want {
				t.Errorf("StripFences(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

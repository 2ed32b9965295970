// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package aggregate

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/pdiddy/litreview/pkg/types"
)

func record(pmid, payload string) types.MinedRecord {
	return types.MinedRecord{PMID: pmid, Extracted: json.RawMessage(payload)}
}

func TestPatientsEmptyInput(t *testing.T) {
	if got := Patients(nil, nil); got != 0 {
		t.Errorf("Patients(nil) = %d, want 0", got)
	}
}

func TestPatientsSumsWholeNumbers(t *testing.T) {
	records := []types.MinedRecord{
		record("1", `{"patients": 100}`),
		record("2", `{"patients": 250}`),
	}
	if got := Patients(records, nil); got != 350 {
		t.Errorf("Patients() = %d, want 350", got)
	}
}

func TestPatientsSkipsMalformedRecords(t *testing.T) {
	var log bytes.Buffer
	records := []types.MinedRecord{
		record("1", `{"patients": 100}`),
		record("2", `{"patients": "about 50"}`), // numeric string, not coerced
		record("3", `{"patients": 12.5}`),       // fractional
		record("4", `{"patients": null}`),
		record("5", `{}`),
		record("6", `"raw model text"`), // non-object payload
		record("7", `{"patients": 30}`),
	}
	if got := Patients(records, &log); got != 130 {
		t.Errorf("Patients() = %d, want 130", got)
	}
	if !bytes.Contains(log.Bytes(), []byte("skipping 2")) {
		t.Errorf("expected skip notice for record 2, got %q", log.String())
	}
	if !bytes.Contains(log.Bytes(), []byte("skipping 6")) {
		t.Errorf("expected skip notice for record 6, got %q", log.String())
	}
}

func TestEndpointCounts(t *testing.T) {
	records := []types.MinedRecord{
		record("1", `{"endpoints": ["A", "B"]}`),
		record("2", `{"endpoints": ["A"]}`),
		record("3", `{"endpoints": "not a list"}`),
		record("4", `{}`),
	}
	got := EndpointCounts(records, nil)
	if len(got) != 2 {
		t.Fatalf("len(counts) = %d, want 2: %v", len(got), got)
	}
	if got["A"] != 2 {
		t.Errorf("counts[A] = %d, want 2", got["A"])
	}
	if got["B"] != 1 {
		t.Errorf("counts[B] = %d, want 1", got["B"])
	}
}

func TestEndpointCountsIgnoresNonStringEntries(t *testing.T) {
	records := []types.MinedRecord{
		record("1", `{"endpoints": ["A", 42, null, ""]}`),
	}
	got := EndpointCounts(records, nil)
	if len(got) != 1 || got["A"] != 1 {
		t.Errorf("counts = %v, want only A:1", got)
	}
}

func TestEndpointCountsAllMalformed(t *testing.T) {
	records := []types.MinedRecord{
		record("1", `"just text"`),
		record("2", `{}`),
	}
	got := EndpointCounts(records, nil)
	if len(got) != 0 {
		t.Errorf("counts = %v, want empty map", got)
	}
}

func TestSummarize(t *testing.T) {
	records := []types.MinedRecord{
		record("1", `{"patients": 80, "endpoints": ["HbA1c"]}`),
		record("2", `{"patients": 20, "endpoints": ["HbA1c", "BMI"]}`),
	}
	agg := Summarize(records, nil)
	if agg.TotalPatients != 100 {
		t.Errorf("TotalPatients = %d, want 100", agg.TotalPatients)
	}
	if agg.EndpointCounts["HbA1c"] != 2 || agg.EndpointCounts["BMI"] != 1 {
		t.Errorf("EndpointCounts = %v", agg.EndpointCounts)
	}
}

func TestSummarizeDoesNotMutateInput(t *testing.T) {
	payload := `{"patients": 10, "endpoints": ["A"]}`
	records := []types.MinedRecord{record("1", payload)}
	Summarize(records, nil)
	if string(records[0].Extracted) != payload {
		t.Errorf("input mutated: %s", records[0].Extracted)
	}
}

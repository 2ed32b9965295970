// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package aggregate reduces mined records into summary statistics. Both
// reductions are pure functions over in-memory data: no I/O, no mutation
// of their inputs, tolerant of every record being malformed.
// Implements: prd005-aggregation (R1-R3);
//
//	docs/ARCHITECTURE § Aggregation.
package aggregate

import (
	"encoding/json"
	"fmt"
	"io"
	"math"

	"github.com/pdiddy/litreview/pkg/types"
)

// Summarize computes a fresh Aggregate over the full record collection.
func Summarize(records []types.MinedRecord, log io.Writer) types.Aggregate {
	return types.Aggregate{
		TotalPatients:  Patients(records, log),
		EndpointCounts: EndpointCounts(records, log),
	}
}

// Patients sums the patients field across records. Only records whose
// payload parses to a JSON object with a whole-number patients field count;
// everything else is logged and skipped, never raised (R1). Numeric strings
// are not coerced.
func Patients(records []types.MinedRecord, log io.Writer) int {
	total := 0
	counted := 0

	for _, rec := range records {
		fields, ok := payloadOf(rec)
		if !ok {
			logf(log, "aggregate: skipping %s: payload is not an object\n", rec.PMID)
			continue
		}
		n, ok := wholeNumber(fields["patients"])
		if !ok {
			logf(log, "aggregate: skipping %s: patients field not an integer\n", rec.PMID)
			continue
		}
		total += n
		counted++
	}

	logf(log, "aggregate: %d patients across %d records\n", total, counted)
	return total
}

// EndpointCounts tallies how often each endpoint appears across records.
// Records without a well-formed endpoints array are skipped (R2). Iteration
// order of the result is unspecified; keys are unique.
func EndpointCounts(records []types.MinedRecord, log io.Writer) map[string]int {
	counts := make(map[string]int)

	for _, rec := range records {
		fields, ok := payloadOf(rec)
		if !ok {
			continue
		}
		endpoints, ok := fields["endpoints"].([]any)
		if !ok {
			logf(log, "aggregate: skipping %s: endpoints field not a list\n", rec.PMID)
			continue
		}
		for _, e := range endpoints {
			if name, ok := e.(string); ok && name != "" {
				counts[name]++
			}
		}
	}
	return counts
}

// payloadOf re-parses the record's extracted payload into a field map.
// A payload that is not a JSON object (raw model text wrapped as a string,
// the empty sentinel still qualifies as an object) yields false.
func payloadOf(rec types.MinedRecord) (map[string]any, bool) {
	if len(rec.Extracted) == 0 {
		return nil, false
	}
	var fields map[string]any
	if err := json.Unmarshal(rec.Extracted, &fields); err != nil {
		return nil, false
	}
	return fields, true
}

// wholeNumber accepts a JSON number with no fractional part.
func wholeNumber(v any) (int, bool) {
	f, ok := v.(float64)
	if !ok || f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}

func logf(w io.Writer, format string, args ...any) {
	if w != nil {
		fmt.Fprintf(w, format, args...)
	}
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/litreview/pkg/types"
)

// RunFileData is the on-disk summary of one pipeline run: the criteria that
// drove it, the query it produced, and per-stage counts. It lets a
// researcher revisit what a past report was built from without re-running
// anything.
type RunFileData struct {
	Criteria types.Criteria `yaml:"criteria"`
	Query    string         `yaml:"query"`
	Source   string         `yaml:"source"`
	Summary  RunSummary     `yaml:"summary"`
}

// RunSummary stores stage counts, the aggregate, and a timestamp.
type RunSummary struct {
	Retrieved      int            `yaml:"retrieved"`
	Filtered       int            `yaml:"filtered"`
	Mined          int            `yaml:"mined"`
	TotalPatients  int            `yaml:"total_patients"`
	EndpointCounts map[string]int `yaml:"endpoint_counts,omitempty"`
	Timestamp      time.Time      `yaml:"timestamp"`
}

// WriteRunFile saves the run summary to a YAML file.
func WriteRunFile(path string, criteria types.Criteria, res *Result) error {
	rf := RunFileData{
		Criteria: criteria,
		Query:    res.Query,
		Source:   res.Source,
		Summary: RunSummary{
			Retrieved:      res.Retrieved,
			Filtered:       len(res.Filtered),
			Mined:          len(res.Mined),
			TotalPatients:  res.Aggregate.TotalPatients,
			EndpointCounts: res.Aggregate.EndpointCounts,
			Timestamp:      time.Now(),
		},
	}

	data, err := yaml.Marshal(&rf)
	if err != nil {
		return fmt.Errorf("marshaling run file: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadRunFile loads a previously saved run file from disk.
func ReadRunFile(path string) (*RunFileData, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading run file: %w", err)
	}
	var rf RunFileData
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("parsing run file: %w", err)
	}
	return &rf, nil
}

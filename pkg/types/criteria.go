// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the litreview pipeline.
// Implements: prd001-query (Criteria);
//
//	prd002-retrieval (RawArticle, Article);
//	prd004-mining (MinedRecord);
//	prd005-aggregation (Aggregate).
//
// See docs/ARCHITECTURE § Pipeline Interface, § Data Structures.
package types

import "fmt"

// YearRange restricts retrieval to a publication-year window, inclusive on
// both ends.
type YearRange struct {
	Start int `json:"start" yaml:"start"`
	End   int `json:"end" yaml:"end"`
}

// Validate reports whether the range is well-formed.
func (r YearRange) Validate() error {
	if r.Start > r.End {
		return fmt.Errorf("year range start %d after end %d", r.Start, r.End)
	}
	return nil
}

// Criteria holds the researcher's search parameters for one review run.
// Built once per run and consumed by the query builder; never mutated.
type Criteria struct {
	// Goal is the plain-language research objective (e.g. "vitamin D AND diabetes").
	Goal string `json:"goal" yaml:"goal"`

	// IncludeTerms are additional terms each article must match.
	IncludeTerms []string `json:"include_terms,omitempty" yaml:"include_terms,omitempty"`

	// ExcludeTerms are terms that disqualify an article.
	ExcludeTerms []string `json:"exclude_terms,omitempty" yaml:"exclude_terms,omitempty"`

	// Population is the target study population (e.g. "humans", "children").
	Population string `json:"population,omitempty" yaml:"population,omitempty"`

	// Outcome is the outcome of interest (e.g. "insulin sensitivity").
	Outcome string `json:"outcome,omitempty" yaml:"outcome,omitempty"`

	// DateRange limits publication years; nil means no date filter.
	DateRange *YearRange `json:"date_range,omitempty" yaml:"date_range,omitempty"`

	// StudyTypes filters by publication type (e.g. "Randomized Controlled Trial").
	StudyTypes []string `json:"study_types,omitempty" yaml:"study_types,omitempty"`

	// UseMeSH enables controlled-vocabulary tags in the structured query.
	UseMeSH bool `json:"use_mesh" yaml:"use_mesh"`

	// StrictTitleAbstract forces explicit [Title/Abstract] clauses when
	// MeSH tagging is off.
	StrictTitleAbstract bool `json:"strict_title_abstract" yaml:"strict_title_abstract"`

	// BroadMode drops all field tags to maximize recall. Takes priority
	// over every other query option.
	BroadMode bool `json:"broad_mode" yaml:"broad_mode"`
}

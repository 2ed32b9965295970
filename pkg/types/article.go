// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "encoding/json"

// RawArticle is a source-defined record as returned by a literature API.
// Key names vary by source (PubMed and Europe PMC disagree on identifier,
// abstract, and year keys) and any field may be absent. Opaque until
// normalized by the retrieval stage.
type RawArticle = map[string]any

// Article is a source-independent article record. Per prd002-retrieval R3:
// every field has a documented neutral default, and Year is always a
// non-negative integer after normalization, never a raw string.
type Article struct {
	// PMID is the PubMed identifier, or "N/A" when the source supplied none.
	PMID string `json:"pmid" yaml:"pmid"`

	// Title is the article title.
	Title string `json:"title" yaml:"title"`

	// Abstract is the article abstract text.
	Abstract string `json:"abstract" yaml:"abstract"`

	// Year is the publication year, 0 when unparseable.
	Year int `json:"year" yaml:"year"`

	// Journal is the journal title.
	Journal string `json:"journal" yaml:"journal"`

	// Authors lists the authors in source order.
	Authors []string `json:"authors" yaml:"authors"`
}

// MinedRecord pairs an article identifier with the payload extracted from
// its abstract. Extracted is a JSON object when the miner's reply parsed,
// otherwise the raw reply encoded as a JSON string. Presence of a record
// does not guarantee a well-formed payload: consumers re-parse defensively
// and skip on mismatch (prd005-aggregation R2).
type MinedRecord struct {
	PMID      string          `json:"pmid" yaml:"pmid"`
	Year      int             `json:"year" yaml:"year"`
	Extracted json.RawMessage `json:"extracted" yaml:"extracted"`
}

// Aggregate summarizes a collection of mined records. Recomputed fresh from
// the full record set; never mutated in place.
type Aggregate struct {
	// TotalPatients sums the patients field across records that report one.
	TotalPatients int `json:"total_patients" yaml:"total_patients"`

	// EndpointCounts maps each reported endpoint to its occurrence count.
	EndpointCounts map[string]int `json:"endpoint_counts" yaml:"endpoint_counts"`
}

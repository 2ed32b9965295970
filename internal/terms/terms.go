// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package terms expands domain abbreviations into their canonical full forms.
// Implements: prd001-query (R2);
//
//	docs/ARCHITECTURE § Term Expansion.
package terms

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"sort"
)

// DefaultDictionaryPath is the conventional location of the abbreviation
// dictionary relative to the working directory.
const DefaultDictionaryPath = "data/autocomplete_dict.json"

// Expander replaces abbreviations in free text with their expansions.
// An Expander with an empty dictionary is valid and acts as the identity,
// so a missing dictionary resource degrades silently (R2.4).
type Expander struct {
	dict map[string]string
	// keys holds the dictionary keys in sorted order so expansion is
	// deterministic regardless of map iteration.
	keys []string
}

// NewExpander builds an Expander from an explicit abbreviation dictionary.
func NewExpander(dict map[string]string) *Expander {
	keys := make([]string, 0, len(dict))
	for k := range dict {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return &Expander{dict: dict, keys: keys}
}

// LoadExpander reads the dictionary JSON at path. A missing file is not an
// error: it returns an identity Expander (R2.4). Malformed JSON is an error
// since a present-but-broken dictionary is a configuration mistake worth
// surfacing.
func LoadExpander(path string) (*Expander, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewExpander(nil), nil
		}
		return nil, fmt.Errorf("reading dictionary %s: %w", path, err)
	}

	var dict map[string]string
	if err := json.Unmarshal(data, &dict); err != nil {
		return nil, fmt.Errorf("parsing dictionary %s: %w", path, err)
	}
	return NewExpander(dict), nil
}

// Len returns the number of dictionary entries.
func (e *Expander) Len() int { return len(e.dict) }

// Expand replaces every whole-word, case-sensitive occurrence of a known
// abbreviation with "<expansion> (<abbreviation>)", keeping the original
// token for traceability (R2.1, R2.2). Substitutions happen in one pass over
// the dictionary keys in sorted order; if one abbreviation's expansion text
// itself contains another abbreviation token, a later key can still match
// inside the replacement. That overlap order is not a guaranteed behavior.
func (e *Expander) Expand(text string) string {
	for _, abbrev := range e.keys {
		pattern, err := regexp.Compile(`\b` + regexp.QuoteMeta(abbrev) + `\b`)
		if err != nil {
			continue
		}
		if !pattern.MatchString(text) {
			continue
		}
		replacement := e.dict[abbrev] + " (" + abbrev + ")"
		text = pattern.ReplaceAllLiteralString(text, replacement)
	}
	return text
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package retrieve

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/pdiddy/litreview/pkg/types"
)

// Candidate key orders for fields whose names differ between sources.
// Earlier keys win (R3.1).
var (
	pmidKeys     = []string{"pmid", "id"}
	abstractKeys = []string{"abstract", "abstractText"}
	yearKeys     = []string{"pubYear", "year", "publicationYear", "pubdate"}
	journalKeys  = []string{"journal", "journalTitle"}
)

// Normalize converts a raw source record into an Article. Every field falls
// back to a neutral default; Year is always a non-negative integer after
// this call (R3.2, R3.3).
func Normalize(raw types.RawArticle) types.Article {
	a := types.Article{
		PMID:     firstString(raw, pmidKeys),
		Title:    stringAt(raw, "title"),
		Abstract: firstString(raw, abstractKeys),
		Journal:  firstString(raw, journalKeys),
		Authors:  authorsOf(raw),
	}
	if a.PMID == "" {
		a.PMID = "N/A"
	}

	for _, key := range yearKeys {
		v, ok := raw[key]
		if !ok {
			continue
		}
		if y, ok := parseYear(v); ok {
			a.Year = y
			break
		}
	}
	return a
}

// NormalizeAll maps Normalize over a raw result set, preserving order.
func NormalizeAll(raws []types.RawArticle) []types.Article {
	out := make([]types.Article, 0, len(raws))
	for _, raw := range raws {
		out = append(out, Normalize(raw))
	}
	return out
}

// parseYear accepts a numeric year or a string with a leading 4-digit year
// ("2019 Jan" → 2019). Anything else fails and the caller keeps 0.
func parseYear(v any) (int, bool) {
	switch y := v.(type) {
	case int:
		return nonNegative(y)
	case float64:
		return nonNegative(int(y))
	case json.Number:
		n, err := y.Int64()
		if err != nil {
			return 0, false
		}
		return nonNegative(int(n))
	case string:
		s := strings.TrimSpace(y)
		if len(s) < 4 {
			return 0, false
		}
		n, err := strconv.Atoi(s[:4])
		if err != nil {
			return 0, false
		}
		return nonNegative(n)
	default:
		return 0, false
	}
}

func nonNegative(y int) (int, bool) {
	if y < 0 {
		return 0, false
	}
	return y, true
}

func stringAt(raw types.RawArticle, key string) string {
	s, _ := raw[key].(string)
	return s
}

func firstString(raw types.RawArticle, keys []string) string {
	for _, key := range keys {
		if s := stringAt(raw, key); s != "" {
			return s
		}
	}
	return ""
}

// authorsOf reads either a list of author names ("authors") or Europe PMC's
// single comma-joined "authorString".
func authorsOf(raw types.RawArticle) []string {
	switch v := raw["authors"].(type) {
	case []string:
		return v
	case []any:
		var out []string
		for _, e := range v {
			if s, ok := e.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		if len(out) > 0 {
			return out
		}
	}

	if s := stringAt(raw, "authorString"); s != "" {
		parts := strings.Split(s, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(strings.TrimSuffix(p, ".")); p != "" {
				out = append(out, p)
			}
		}
		return out
	}
	return nil
}

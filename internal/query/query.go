// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package query composes boolean PubMed queries from review criteria.
// Implements: prd001-query (R1, R3-R8);
//
//	docs/ARCHITECTURE § Query Planning.
package query

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pdiddy/litreview/internal/terms"
	"github.com/pdiddy/litreview/pkg/types"
)

// DefaultMeSHMap is the built-in controlled-vocabulary substitution table:
// a lowercase substring of a goal sub-term maps to the MeSH heading used in
// its place (R3.2). Treated as configuration data; litreview.yaml can
// supply additional mappings without code changes.
var DefaultMeSHMap = map[string]string{
	"vitamin d":       "Vitamin D",
	"cholecalciferol": "Vitamin D",
	"diabetes":        "Diabetes Mellitus",
}

// Builder assembles PubMed queries. The expander is consulted for every
// user-supplied term before it enters the query.
type Builder struct {
	Expander *terms.Expander
	// MeSHMap overrides DefaultMeSHMap when non-nil.
	MeSHMap map[string]string
}

// NewBuilder returns a Builder over the given expander and the default
// MeSH substitution table.
func NewBuilder(expander *terms.Expander) *Builder {
	return &Builder{Expander: expander}
}

func (b *Builder) meshMap() map[string]string {
	if b.MeSHMap != nil {
		return b.MeSHMap
	}
	return DefaultMeSHMap
}

// Build turns criteria into a PubMed query string. It never fails: sparse
// criteria yield a minimal query. Mode priority (R1):
//
//  1. Broad mode short-circuits everything: expanded goal plus at most a
//     date clause, no field tags.
//  2. With MeSH and strict title/abstract both off, the expanded goal is
//     returned as-is.
//  3. Otherwise a structured query is assembled clause by clause and
//     joined with AND.
func (b *Builder) Build(c types.Criteria) string {
	goal := b.Expander.Expand(c.Goal)

	if c.BroadMode {
		q := strings.TrimSpace(goal)
		if c.DateRange != nil {
			q += " AND " + dateClause(*c.DateRange)
		}
		return q
	}

	if !c.UseMeSH && !c.StrictTitleAbstract {
		return strings.TrimSpace(goal)
	}

	var parts []string

	if mt := b.mainTopicClause(goal, c.UseMeSH); mt != "" {
		parts = append(parts, mt)
	}

	for _, term := range c.IncludeTerms {
		if t := strings.TrimSpace(b.Expander.Expand(term)); t != "" {
			parts = append(parts, fmt.Sprintf("%q[Title/Abstract]", t))
		}
	}

	if c.Population != "" {
		pop := strings.TrimSpace(b.Expander.Expand(c.Population))
		// PubMed indexes species as a bare MeSH heading; "humans" gets
		// the literal clause rather than a quoted free-text fallback.
		if strings.EqualFold(pop, "humans") && c.UseMeSH {
			parts = append(parts, `"humans"[MeSH Terms]`)
		} else {
			parts = append(parts, fmt.Sprintf("%q[%s]", pop, fieldFor(c.UseMeSH)))
		}
	}

	if c.Outcome != "" {
		out := strings.TrimSpace(b.Expander.Expand(c.Outcome))
		parts = append(parts, fmt.Sprintf("%q[%s]", out, fieldFor(c.UseMeSH)))
	}

	if len(c.StudyTypes) > 0 {
		var clauses []string
		for _, st := range c.StudyTypes {
			if t := strings.TrimSpace(b.Expander.Expand(st)); t != "" {
				clauses = append(clauses, fmt.Sprintf("%q[Publication Type]", t))
			}
		}
		if len(clauses) > 0 {
			parts = append(parts, "("+strings.Join(clauses, " OR ")+")")
		}
	}

	if c.DateRange != nil {
		parts = append(parts, dateClause(*c.DateRange))
	}

	for _, term := range c.ExcludeTerms {
		if t := strings.TrimSpace(b.Expander.Expand(term)); t != "" {
			parts = append(parts, fmt.Sprintf("NOT %q[Title/Abstract]", t))
		}
	}

	return strings.Join(parts, " AND ")
}

// mainTopicClause renders the goal into the leading query clause (R3).
// In MeSH mode the goal splits on the AND conjunction and each sub-term is
// mapped through the controlled-vocabulary table, falling back to a
// Title/Abstract clause. Otherwise the goal splits on AND, OR, and commas
// into flat free-text clauses.
func (b *Builder) mainTopicClause(goal string, useMeSH bool) string {
	if useMeSH {
		var clauses []string
		for _, term := range strings.Split(goal, "AND") {
			term = strings.TrimSpace(term)
			if term == "" {
				continue
			}
			if heading, ok := b.meshHeading(term); ok {
				clauses = append(clauses, fmt.Sprintf("%q[MeSH Terms]", heading))
			} else {
				clauses = append(clauses, fmt.Sprintf("%q[Title/Abstract]", term))
			}
		}
		if len(clauses) == 0 {
			return ""
		}
		return "(" + strings.Join(clauses, " AND ") + ")"
	}

	flattened := strings.NewReplacer("AND", ",", "OR", ",").Replace(goal)
	var clauses []string
	for _, kw := range strings.Split(flattened, ",") {
		if kw = strings.TrimSpace(kw); kw != "" {
			clauses = append(clauses, fmt.Sprintf("%q[Title/Abstract]", kw))
		}
	}
	return strings.Join(clauses, " AND ")
}

// meshHeading looks the term up in the substitution table by lowercase
// substring match and returns the controlled heading. Substrings are tried
// in sorted order so the result does not depend on map iteration.
func (b *Builder) meshHeading(term string) (string, bool) {
	m := b.meshMap()
	substrs := make([]string, 0, len(m))
	for s := range m {
		substrs = append(substrs, s)
	}
	sort.Strings(substrs)

	lower := strings.ToLower(term)
	for _, substr := range substrs {
		if strings.Contains(lower, substr) {
			return m[substr], true
		}
	}
	return "", false
}

// fieldFor selects the field tag for population and outcome clauses (R5, R6).
func fieldFor(useMeSH bool) string {
	if useMeSH {
		return "MeSH Terms"
	}
	return "Title/Abstract"
}

// dateClause renders the publication-date range filter (R7).
func dateClause(r types.YearRange) string {
	return fmt.Sprintf("(%d:%d[dp])", r.Start, r.End)
}

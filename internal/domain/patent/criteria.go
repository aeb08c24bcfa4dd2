// Package patent holds the domain model of the extraction pipeline: search
// criteria and their CQL rendering, search-entry identifier resolution, the
// per-document field groups gathered from the remote sub-resources, and the
// assembly of those groups into one output record. All remote I/O lives in
// the infrastructure layer; everything here is pure and deterministic.
package patent

import (
	"fmt"
	"strings"
)

// SearchCriteria is the operator-supplied filter set for one run. Year is
// required and drives a fixed within-year date range; every other field is
// an optional comma-separated list.
type SearchCriteria struct {
	Year             int
	TitleKeywords    string
	AbstractKeywords string
	Applicants       string
	Inventors        string
	IPCCodes         string
	CPCCodes         string
	Countries        string
}

// cqlField describes how one criteria field renders into CQL: its index
// prefix and whether same-field tokens combine with AND (keyword fields,
// all must appear) or OR (identity and classification fields, any may
// match).
type cqlField struct {
	prefix   string
	operator string
}

// BuildQuery renders the criteria into a single CQL query string. The year
// clause is always present and always first; the remaining clauses follow
// in a fixed field order joined with AND. Token content is trimmed but not
// escaped; quoting of special characters is the caller's responsibility.
func (c SearchCriteria) BuildQuery() string {
	parts := []string{
		fmt.Sprintf(`pd within "%04d0101 %04d1231"`, c.Year, c.Year),
	}

	for _, fc := range []struct {
		raw   string
		field cqlField
	}{
		{c.TitleKeywords, cqlField{prefix: "ti", operator: " AND "}},
		{c.AbstractKeywords, cqlField{prefix: "ab", operator: " AND "}},
		{c.Applicants, cqlField{prefix: "pa", operator: " OR "}},
		{c.Inventors, cqlField{prefix: "in", operator: " OR "}},
		{c.IPCCodes, cqlField{prefix: "ic", operator: " OR "}},
		{c.CPCCodes, cqlField{prefix: "cpc", operator: " OR "}},
		{c.Countries, cqlField{prefix: "pn", operator: " OR "}},
	} {
		if clause := buildClause(fc.raw, fc.field); clause != "" {
			parts = append(parts, clause)
		}
	}

	return strings.Join(parts, " AND ")
}

// buildClause renders one multi-value field. A single token emits a bare
// comparison; multiple tokens emit a parenthesized joined clause.
func buildClause(raw string, field cqlField) string {
	tokens := splitTokens(raw)
	if len(tokens) == 0 {
		return ""
	}

	clauses := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		clauses = append(clauses, fmt.Sprintf(`%s="%s"`, field.prefix, tok))
	}

	if len(clauses) == 1 {
		return clauses[0]
	}
	return "(" + strings.Join(clauses, field.operator) + ")"
}

// splitTokens splits a comma-separated list, trims each token, and drops
// empties.
func splitTokens(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, tok := range strings.Split(raw, ",") {
		if tok = strings.TrimSpace(tok); tok != "" {
			out = append(out, tok)
		}
	}
	return out
}

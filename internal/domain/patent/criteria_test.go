package patent

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildQuery_YearOnly(t *testing.T) {
	q := SearchCriteria{Year: 2024}.BuildQuery()
	assert.Equal(t, `pd within "20240101 20241231"`, q)
}

func TestBuildQuery_YearClauseAlwaysFirst(t *testing.T) {
	q := SearchCriteria{Year: 2023, Applicants: "Siemens"}.BuildQuery()
	assert.True(t, strings.HasPrefix(q, `pd within "20230101 20231231" AND `))
	assert.Equal(t, 1, strings.Count(q, "pd within"))
}

func TestBuildQuery_SingleTokenNoParentheses(t *testing.T) {
	q := SearchCriteria{Year: 2024, TitleKeywords: "battery"}.BuildQuery()
	assert.Contains(t, q, `ti="battery"`)
	assert.NotContains(t, q, "(")
}

func TestBuildQuery_KeywordFieldsJoinWithAND(t *testing.T) {
	q := SearchCriteria{Year: 2024, TitleKeywords: "solid, state, battery"}.BuildQuery()
	assert.Contains(t, q, `(ti="solid" AND ti="state" AND ti="battery")`)

	q = SearchCriteria{Year: 2024, AbstractKeywords: "anode,cathode"}.BuildQuery()
	assert.Contains(t, q, `(ab="anode" AND ab="cathode")`)
}

func TestBuildQuery_IdentityFieldsJoinWithOR(t *testing.T) {
	q := SearchCriteria{
		Year:       2024,
		Applicants: "Siemens, Bosch",
		Inventors:  "Smith,Jones",
		IPCCodes:   "H04L, A01B",
		CPCCodes:   "G06N,H01M",
	}.BuildQuery()
	assert.Contains(t, q, `(pa="Siemens" OR pa="Bosch")`)
	assert.Contains(t, q, `(in="Smith" OR in="Jones")`)
	assert.Contains(t, q, `(ic="H04L" OR ic="A01B")`)
	assert.Contains(t, q, `(cpc="G06N" OR cpc="H01M")`)
}

func TestBuildQuery_CountryClause(t *testing.T) {
	q := SearchCriteria{Year: 2024, Countries: "EP"}.BuildQuery()
	assert.Contains(t, q, `pn="EP"`)
}

func TestBuildQuery_FixedFieldOrder(t *testing.T) {
	q := SearchCriteria{
		Year:             2024,
		TitleKeywords:    "ai",
		AbstractKeywords: "ml",
		Applicants:       "Acme",
		Inventors:        "Doe",
		IPCCodes:         "H04L",
		CPCCodes:         "G06N",
		Countries:        "US",
	}.BuildQuery()

	order := []string{"pd within", `ti="ai"`, `ab="ml"`, `pa="Acme"`, `in="Doe"`, `ic="H04L"`, `cpc="G06N"`, `pn="US"`}
	last := -1
	for _, marker := range order {
		idx := strings.Index(q, marker)
		assert.Greater(t, idx, last, "expected %q after previous clause in %q", marker, q)
		last = idx
	}
}

func TestBuildQuery_TrimsAndDropsEmptyTokens(t *testing.T) {
	q := SearchCriteria{Year: 2024, Applicants: " Siemens , , Bosch ,"}.BuildQuery()
	assert.Contains(t, q, `(pa="Siemens" OR pa="Bosch")`)

	// A field of only separators contributes no clause at all.
	q = SearchCriteria{Year: 2024, Inventors: " , ,"}.BuildQuery()
	assert.NotContains(t, q, "in=")
}

func TestBuildQuery_TokenContentNotEscaped(t *testing.T) {
	q := SearchCriteria{Year: 2024, TitleKeywords: `heat "pump"`}.BuildQuery()
	assert.Contains(t, q, `ti="heat "pump""`)
}

package patent

import "strings"

// cpcJoinDelimiter separates individual classification codes in the flat
// CPCFull column.
const cpcJoinDelimiter = ";"

// BiblioFields is the bibliographic detail for one document. Each field is
// independently optional; empty string means absent, never null.
type BiblioFields struct {
	PublicationDate  string
	ApplicantName    string
	ApplicantCountry string
}

// ClassificationFields is the cooperative-classification result for one
// document.
type ClassificationFields struct {
	// MainCode is the first 4 characters of the first resolved code of
	// length >= 4, or empty.
	MainCode string

	// FullCodes keeps every resolved code in discovery order.
	FullCodes []string
}

// RegisterFields carries the legal-status data from the three register
// sub-resources. The seven fields are independently optional; a failed
// sub-fetch leaves only its own fields empty.
type RegisterFields struct {
	RepresentativeName    string
	RepresentativeCountry string
	OpponentName          string
	OppositionFilingDate  string
	AppealNumber          string
	AppealResult          string
	AppealDate            string
}

// PatentRecord is one fully-assembled output row. Records are immutable
// after assembly; the run's output is an ordered sequence of them in
// discovery order. Every record has a non-empty DocNumber; entries that
// could not resolve an identifier never reach assembly.
type PatentRecord struct {
	OriginalID           string
	DocNumber            string
	PublicationDate      string
	ApplicantName        string
	ApplicantCountry     string
	CPCMain              string
	CPCFull              string
	RepresentativeName   string
	RepresentativeCountry string
	OpponentName         string
	OppositionFilingDate string
	AppealNumber         string
	AppealResult         string
	AppealDate           string
}

// RecordColumns is the ordered output schema. The header names match the
// historical export format consumed downstream.
var RecordColumns = []string{
	"OID",
	"DocNumber",
	"Publn_date",
	"ApplicantFiledName",
	"ApplicantCountry",
	"CPCMain",
	"CPCFull",
	"RepName",
	"RepCountry",
	"OpponentName",
	"OppositionFilingDate",
	"AppealNr",
	"AppealResult",
	"AppealDate",
}

// Row renders the record as one CSV row in RecordColumns order.
func (r PatentRecord) Row() []string {
	return []string{
		r.OriginalID,
		r.DocNumber,
		r.PublicationDate,
		r.ApplicantName,
		r.ApplicantCountry,
		r.CPCMain,
		r.CPCFull,
		r.RepresentativeName,
		r.RepresentativeCountry,
		r.OpponentName,
		r.OppositionFilingDate,
		r.AppealNumber,
		r.AppealResult,
		r.AppealDate,
	}
}

// Assemble merges the enrichment results for one document into a single
// record. Precedence per field is "first non-empty wins": the enrichment
// value when present, else the search-level fallback from the original
// entry (available for publication date and applicant name/country only),
// else empty. Classification and register fields have no search-level
// counterpart and are taken as-is.
func Assemble(id string, entry SearchEntry, biblio BiblioFields, cls ClassificationFields, reg RegisterFields) PatentRecord {
	return PatentRecord{
		OriginalID:            entry.OriginalID,
		DocNumber:             id,
		PublicationDate:       firstNonEmpty(biblio.PublicationDate, entry.FallbackPublicationDate),
		ApplicantName:         firstNonEmpty(biblio.ApplicantName, entry.FallbackApplicantName),
		ApplicantCountry:      firstNonEmpty(biblio.ApplicantCountry, entry.FallbackApplicantCountry),
		CPCMain:               cls.MainCode,
		CPCFull:               strings.Join(cls.FullCodes, cpcJoinDelimiter),
		RepresentativeName:    reg.RepresentativeName,
		RepresentativeCountry: reg.RepresentativeCountry,
		OpponentName:          reg.OpponentName,
		OppositionFilingDate:  reg.OppositionFilingDate,
		AppealNumber:          reg.AppealNumber,
		AppealResult:          reg.AppealResult,
		AppealDate:            reg.AppealDate,
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

package patent

// SearchEntry is the document-level view of one search-result node, already
// lifted out of the response XML by the search parser. It carries the
// identifier candidates in all the places the remote schema may put them,
// plus the search-level fallback fields the assembler uses when an
// enrichment call fails outright.
type SearchEntry struct {
	// OriginalID is the raw doc-id attribute carried verbatim into the
	// output table.
	OriginalID string

	// RawDocNumber is the doc-number attribute on the document node, when
	// present.
	RawDocNumber string

	// EpodocDocNumber is the doc-number of an epodoc-typed document-id
	// sub-element, the second place an identifier may appear.
	EpodocDocNumber string

	// PubCountry, PubNumber, and PubKind are the parts of the epodoc
	// publication reference. When country and number are both present a
	// composed identifier is derivable.
	PubCountry string
	PubNumber  string
	PubKind    string

	// Search-level fallback values. These are less complete than the
	// biblio sub-resource but survive when the per-document calls fail.
	FallbackPublicationDate  string
	FallbackApplicantName    string
	FallbackApplicantCountry string
}

// ResolveIdentifier returns the stable identifier for this entry and
// whether one exists. The direct doc-number attribute is preferred over the
// epodoc sub-element, but a composed country+number(+kind) form overrides
// both: a bare number is ambiguous across countries, so composition is a
// normalization rule, not a fallback. Entries with no resolvable
// identifier cannot be enriched or merged and are dropped by the caller.
func (e SearchEntry) ResolveIdentifier() (string, bool) {
	id := e.RawDocNumber
	if id == "" {
		id = e.EpodocDocNumber
	}

	if e.PubCountry != "" && e.PubNumber != "" {
		id = e.PubCountry + e.PubNumber + e.PubKind
	}

	return id, id != ""
}

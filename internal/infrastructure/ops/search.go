package ops

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/Sanaks-uk/EPO-data/internal/domain/patent"
	"github.com/Sanaks-uk/EPO-data/internal/infrastructure/monitoring/logging"
	"github.com/Sanaks-uk/EPO-data/pkg/errors"
)

// SearchCursor walks the result set of one CQL query in fixed-size windows.
type SearchCursor struct {
	client *Client
	logger logging.Logger
}

// NewSearchCursor builds a cursor over the published-data search service.
func NewSearchCursor(client *Client, logger logging.Logger) *SearchCursor {
	return &SearchCursor{client: client, logger: logger.Named("search")}
}

// Fetch retrieves the window [start, end] (1-based, inclusive) of the query
// result set. The total result count advertised by the response is returned
// alongside the window's document entries; the first window's count is
// authoritative for the run. A non-200 response or an unparsable body is a
// window-level failure the orchestrator may skip.
func (s *SearchCursor) Fetch(ctx context.Context, query string, start, end int) (int, []patent.SearchEntry, error) {
	searchURL := fmt.Sprintf("%s/rest-services/published-data/search/biblio?q=%s&Range=%d-%d",
		s.client.baseURL, url.QueryEscape(query), start, end)

	resp, err := s.client.get(ctx, searchURL, "search")
	if err != nil {
		return 0, nil, errors.Wrap(err, errors.CodeSearchFailed, "search request failed").
			WithDetail(fmt.Sprintf("range=%d-%d", start, end))
	}
	if !resp.ok() {
		return 0, nil, errors.Newf(errors.CodeSearchFailed, "search returned status %d", resp.Status).
			WithDetail(fmt.Sprintf("range=%d-%d", start, end))
	}

	root, err := ParseXML(resp.Body)
	if err != nil {
		return 0, nil, errors.Wrap(err, errors.CodeParse, "search response is not valid XML").
			WithDetail(fmt.Sprintf("range=%d-%d", start, end))
	}

	total := parseTotalCount(root)
	docs := root.FindAll("exchange-document")
	entries := make([]patent.SearchEntry, 0, len(docs))
	for _, doc := range docs {
		entries = append(entries, parseSearchEntry(doc))
	}

	s.logger.Debug("search window fetched",
		logging.String("range", fmt.Sprintf("%d-%d", start, end)),
		logging.Int("documents", len(entries)),
		logging.Int("total", total),
	)

	return total, entries, nil
}

// parseTotalCount reads the advertised total-result-count attribute from
// the biblio-search element; 0 when absent or malformed.
func parseTotalCount(root *Node) int {
	n := root.First("biblio-search")
	if n == nil {
		return 0
	}
	total, err := strconv.Atoi(n.Attr("total-result-count"))
	if err != nil {
		return 0
	}
	return total
}

// parseSearchEntry lifts one exchange-document node into the domain view:
// every place an identifier may live, plus the search-level fallback fields
// used when per-document enrichment fails.
func parseSearchEntry(doc *Node) patent.SearchEntry {
	entry := patent.SearchEntry{
		OriginalID:      doc.Attr("doc-id"),
		RawDocNumber:    doc.Attr("doc-number"),
		EpodocDocNumber: doc.First("document-id[@document-id-type='epodoc']").FirstText("doc-number"),
	}

	if pubRef := doc.First("publication-reference/document-id[@document-id-type='epodoc']"); pubRef != nil {
		entry.PubCountry = pubRef.FirstText("country")
		entry.PubNumber = pubRef.FirstText("doc-number")
		entry.PubKind = pubRef.FirstText("kind")
		entry.FallbackPublicationDate = pubRef.FirstText("date")
	}

	entry.FallbackApplicantName = doc.FirstText("applicant-name/name")
	entry.FallbackApplicantCountry = doc.FirstText("applicant/addressbook/address/country")

	return entry
}

package ops

import (
	"context"
	"fmt"

	"github.com/Sanaks-uk/EPO-data/internal/domain/patent"
	"github.com/Sanaks-uk/EPO-data/internal/infrastructure/monitoring/logging"
	"github.com/Sanaks-uk/EPO-data/pkg/errors"
)

// identifierSchemes are the per-document URL variants, in preference order.
// Composed identifiers resolve under epodoc; docdb catches documents the
// epodoc convention cannot address.
var identifierSchemes = []string{"epodoc", "docdb"}

// Candidate extraction paths per bibliographic field, narrowest first. The
// published-data schema places these values differently across document
// types and eras; probing specific paths before broad ones keeps an absent
// specific node from being papered over by an unrelated deeper one.
var (
	publicationDatePaths = []string{
		"publication-reference/document-id[@document-id-type='epodoc']/date",
		"publication-reference/document-id[@document-id-type='docdb']/date",
		"publication-reference/document-id/date",
		"document-id[@document-id-type='epodoc']/date",
		"document-id[@document-id-type='docdb']/date",
		"date",
	}

	applicantNamePaths = []string{
		"applicants/applicant/applicant-name/name",
		"applicants/applicant/name",
		"applicant/applicant-name/name",
		"applicant/name",
		"applicant-name/name",
		"applicant//name",
	}

	applicantCountryPaths = []string{
		"applicants/applicant/addressbook/address/country",
		"applicants/applicant/residence/country",
		"applicant/addressbook/address/country",
		"applicant/residence/country",
		"address/country",
		"residence/country",
		"country",
	}
)

// DetailEnricher fetches bibliographic detail for one document identifier.
type DetailEnricher struct {
	client *Client
	logger logging.Logger
}

// NewDetailEnricher builds an enricher over the published-data biblio
// sub-resource.
func NewDetailEnricher(client *Client, logger logging.Logger) *DetailEnricher {
	return &DetailEnricher{client: client, logger: logger.Named("biblio")}
}

// Enrich fetches BiblioFields for the identifier. URL variants are tried in
// order; the first returning a usable body supplies all three fields via
// their candidate path chains. A field no path can produce stays empty.
// The returned error is non-nil only when every variant failed, and is
// recoverable: the caller proceeds with empty fields.
func (e *DetailEnricher) Enrich(ctx context.Context, id string) (patent.BiblioFields, error) {
	var lastErr error
	for _, scheme := range identifierSchemes {
		url := fmt.Sprintf("%s/rest-services/published-data/publication/%s/%s/biblio",
			e.client.baseURL, scheme, id)

		resp, err := e.client.get(ctx, url, "biblio")
		if err != nil {
			lastErr = err
			continue
		}
		if !resp.ok() {
			lastErr = errors.Newf(errors.CodeDetailFetch, "biblio returned status %d", resp.Status)
			continue
		}

		root, err := ParseXML(resp.Body)
		if err != nil {
			lastErr = errors.Wrap(err, errors.CodeParse, "biblio response is not valid XML")
			continue
		}

		fields := patent.BiblioFields{
			PublicationDate:  firstTextOf(root, publicationDatePaths),
			ApplicantName:    firstTextOf(root, applicantNamePaths),
			ApplicantCountry: firstTextOf(root, applicantCountryPaths),
		}
		e.logger.Debug("biblio enriched",
			logging.String("doc", id),
			logging.String("scheme", scheme),
			logging.Bool("date", fields.PublicationDate != ""),
			logging.Bool("applicant", fields.ApplicantName != ""),
		)
		return fields, nil
	}

	return patent.BiblioFields{}, errors.Wrap(lastErr, errors.CodeDetailFetch, "all biblio variants failed").
		WithDetail("doc=" + id)
}

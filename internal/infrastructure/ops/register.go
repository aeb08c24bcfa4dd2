package ops

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Sanaks-uk/EPO-data/internal/domain/patent"
	"github.com/Sanaks-uk/EPO-data/internal/infrastructure/monitoring/logging"
	"github.com/Sanaks-uk/EPO-data/pkg/errors"
)

// Each register sub-resource wraps its list in an envelope object keyed by
// the resource name.
type registerRepresentatives struct {
	Representatives []struct {
		Name        string `json:"name"`
		CountryCode string `json:"countryCode"`
	} `json:"representatives"`
}

type registerOppositions struct {
	Oppositions []struct {
		Name      string `json:"name"`
		DateFiled string `json:"dateFiled"`
	} `json:"oppositions"`
}

type registerAppeals struct {
	Appeals []struct {
		Number     string `json:"number"`
		Result     string `json:"result"`
		ResultDate string `json:"resultDate"`
	} `json:"appeals"`
}

// RegisterEnricher fetches legal-status data for one document identifier
// from the register API's three sub-resources.
type RegisterEnricher struct {
	client *Client
	logger logging.Logger
}

// NewRegisterEnricher builds an enricher over the register publication
// sub-resources.
func NewRegisterEnricher(client *Client, logger logging.Logger) *RegisterEnricher {
	return &RegisterEnricher{client: client, logger: logger.Named("register")}
}

// Enrich fetches representatives, oppositions and appeals for the
// identifier. The three sub-fetches are independent: a failure in one is
// logged and leaves only its own fields empty, so a record still carries
// whatever the other sub-resources produced. Only the first element of each
// list is used. The returned error is non-nil only when all three
// sub-fetches failed, so callers can distinguish "no register data" from
// "register unreachable".
func (e *RegisterEnricher) Enrich(ctx context.Context, id string) (patent.RegisterFields, error) {
	var fields patent.RegisterFields
	failures := 0

	var reps registerRepresentatives
	if err := e.fetchList(ctx, id, "representatives", &reps); err != nil {
		failures++
		e.logger.Warn("representatives fetch failed",
			logging.String("doc", id), logging.Err(err))
	} else if len(reps.Representatives) > 0 {
		fields.RepresentativeName = reps.Representatives[0].Name
		fields.RepresentativeCountry = reps.Representatives[0].CountryCode
	}

	var opps registerOppositions
	if err := e.fetchList(ctx, id, "oppositions", &opps); err != nil {
		failures++
		e.logger.Warn("oppositions fetch failed",
			logging.String("doc", id), logging.Err(err))
	} else if len(opps.Oppositions) > 0 {
		fields.OpponentName = opps.Oppositions[0].Name
		fields.OppositionFilingDate = opps.Oppositions[0].DateFiled
	}

	var appeals registerAppeals
	if err := e.fetchList(ctx, id, "appeals", &appeals); err != nil {
		failures++
		e.logger.Warn("appeals fetch failed",
			logging.String("doc", id), logging.Err(err))
	} else if len(appeals.Appeals) > 0 {
		fields.AppealNumber = appeals.Appeals[0].Number
		fields.AppealResult = appeals.Appeals[0].Result
		fields.AppealDate = appeals.Appeals[0].ResultDate
	}

	if failures == 3 {
		return patent.RegisterFields{}, errors.New(errors.CodeRegisterFetch, "all register sub-resources failed").
			WithDetail("doc=" + id)
	}
	return fields, nil
}

// fetchList GETs one register sub-resource and decodes its JSON list.
func (e *RegisterEnricher) fetchList(ctx context.Context, id, resource string, out any) error {
	url := fmt.Sprintf("%s/publication/epodoc/%s/%s", e.client.registerBaseURL, id, resource)

	resp, err := e.client.get(ctx, url, "register-"+resource)
	if err != nil {
		return err
	}
	if !resp.ok() {
		return errors.Newf(errors.CodeRegisterFetch, "register %s returned status %d", resource, resp.Status)
	}
	if err := json.Unmarshal(resp.Body, out); err != nil {
		return errors.Wrap(err, errors.CodeParse, "register "+resource+" response is not valid JSON")
	}
	return nil
}

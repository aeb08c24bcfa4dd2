package ops

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sanaks-uk/EPO-data/internal/infrastructure/monitoring/logging"
	"github.com/Sanaks-uk/EPO-data/internal/testutil"
	"github.com/Sanaks-uk/EPO-data/pkg/errors"
)

// registerHandler serves the three sub-resources with canned bodies; an
// empty body means "fail with 500".
func registerHandler(t *testing.T, bodies map[string]string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.True(t, strings.HasPrefix(r.URL.Path, "/publication/epodoc/EP4000003/"))
		resource := strings.TrimPrefix(r.URL.Path, "/publication/epodoc/EP4000003/")
		body, found := bodies[resource]
		if !found || body == "" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	})
}

func TestRegisterEnrichTakesFirstElements(t *testing.T) {
	srv := httptest.NewServer(registerHandler(t, map[string]string{
		"representatives": `{"representatives":[{"name":"Huber & Partner","countryCode":"DE"},{"name":"Second Rep","countryCode":"FR"}]}`,
		"oppositions":     `{"oppositions":[{"name":"Rival Corp","dateFiled":"2023-06-01"}]}`,
		"appeals":         `{"appeals":[{"number":"T 0123/23","result":"dismissed","resultDate":"2024-02-15"}]}`,
	}))
	defer srv.Close()

	e := NewRegisterEnricher(newTestClient(srv), logging.NewNopLogger())
	fields, err := e.Enrich(context.Background(), "EP4000003")
	require.NoError(t, err)
	assert.Equal(t, "Huber & Partner", fields.RepresentativeName)
	assert.Equal(t, "DE", fields.RepresentativeCountry)
	assert.Equal(t, "Rival Corp", fields.OpponentName)
	assert.Equal(t, "2023-06-01", fields.OppositionFilingDate)
	assert.Equal(t, "T 0123/23", fields.AppealNumber)
	assert.Equal(t, "dismissed", fields.AppealResult)
	assert.Equal(t, "2024-02-15", fields.AppealDate)
}

func TestRegisterEnrichIsolatesSubFailures(t *testing.T) {
	srv := httptest.NewServer(registerHandler(t, map[string]string{
		"representatives": `{"representatives":[{"name":"Huber & Partner","countryCode":"DE"}]}`,
		"appeals":         `{"appeals":[{"number":"T 0001/24","result":"pending","resultDate":"2024-05-01"}]}`,
	}))
	defer srv.Close()

	recorder := testutil.NewMockLogger()
	e := NewRegisterEnricher(newTestClient(srv), recorder)
	fields, err := e.Enrich(context.Background(), "EP4000003")
	require.NoError(t, err, "a single failed sub-resource is tolerated")
	assert.True(t, recorder.HasEntry("warn", "oppositions fetch failed"))
	assert.Equal(t, "Huber & Partner", fields.RepresentativeName)
	assert.Empty(t, fields.OpponentName, "failed sub-resource leaves only its own fields empty")
	assert.Empty(t, fields.OppositionFilingDate)
	assert.Equal(t, "T 0001/24", fields.AppealNumber)
	assert.Equal(t, "pending", fields.AppealResult)
}

func TestRegisterEnrichAllSubResourcesFailed(t *testing.T) {
	srv := httptest.NewServer(registerHandler(t, nil))
	defer srv.Close()

	e := NewRegisterEnricher(newTestClient(srv), logging.NewNopLogger())
	fields, err := e.Enrich(context.Background(), "EP4000003")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeRegisterFetch))
	assert.Equal(t, "", fields.RepresentativeName)
}

func TestRegisterEnrichBadJSONIsAFailure(t *testing.T) {
	srv := httptest.NewServer(registerHandler(t, map[string]string{
		"representatives": `<xml>unexpected</xml>`,
		"oppositions":     `{"oppositions":[{"name":"Rival Corp","dateFiled":"2023-06-01"}]}`,
		"appeals":         `{"appeals":[]}`,
	}))
	defer srv.Close()

	e := NewRegisterEnricher(newTestClient(srv), logging.NewNopLogger())
	fields, err := e.Enrich(context.Background(), "EP4000003")
	require.NoError(t, err)
	assert.Empty(t, fields.RepresentativeName)
	assert.Equal(t, "Rival Corp", fields.OpponentName)
}

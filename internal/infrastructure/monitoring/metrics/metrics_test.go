package metrics

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilCollector_IsSafe(t *testing.T) {
	var c *Collector
	assert.NotPanics(t, func() {
		c.ObserveRequest("search", OutcomeOK)
		c.ObserveRecord()
		c.ObserveSkippedWindow()
	})
}

func TestCollector_CountsRequests(t *testing.T) {
	c := NewCollector()
	c.ObserveRequest("biblio", OutcomeOK)
	c.ObserveRequest("biblio", OutcomeOK)
	c.ObserveRequest("biblio", OutcomeError)

	families, err := c.Gather()
	require.NoError(t, err)

	var found bool
	for _, mf := range families {
		if mf.GetName() != "epodata_remote_requests_total" {
			continue
		}
		found = true
		for _, m := range mf.GetMetric() {
			labels := map[string]string{}
			for _, l := range m.GetLabel() {
				labels[l.GetName()] = l.GetValue()
			}
			switch labels["outcome"] {
			case OutcomeOK:
				assert.Equal(t, float64(2), m.GetCounter().GetValue())
			case OutcomeError:
				assert.Equal(t, float64(1), m.GetCounter().GetValue())
			}
		}
	}
	assert.True(t, found)
}

func TestCollector_IndependentRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		NewCollector()
		NewCollector()
	})
}

func TestCollector_HandlerServesScrape(t *testing.T) {
	c := NewCollector()
	c.ObserveRecord()

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	require.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), "epodata_records_assembled_total 1")
}

package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scoutgrid/jobharvest/internal/config"
	"github.com/scoutgrid/jobharvest/internal/model"
	"github.com/scoutgrid/jobharvest/internal/scrape"
	"github.com/scoutgrid/jobharvest/internal/store"
	"github.com/scoutgrid/jobharvest/pkg/jobboard"
)

// cannedScraper serves fixed jobs for any search term.
type cannedScraper struct {
	jobs []model.Job
}

func (c *cannedScraper) Name() string { return "canned" }

func (c *cannedScraper) Search(_ context.Context, _ jobboard.Query) ([]model.Job, error) {
	return c.jobs, nil
}

func newTestAPI(t *testing.T, jobs []model.Job, st store.Store) *apiServer {
	t.Helper()
	return &apiServer{
		agg: scrape.New(&cannedScraper{jobs: jobs}),
		st:  st,
		defaults: config.ScrapeConfig{
			Location:      "Remote",
			ResultsWanted: 50,
			HoursOld:      24,
		},
	}
}

func TestServe_Health(t *testing.T) {
	api := newTestAPI(t, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	api.routes().ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "application/json")

	var body map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
}

func TestServe_Scrape(t *testing.T) {
	jobs := []model.Job{
		{ID: "li-1", Site: "linkedin", Title: "Go Developer", Company: "Acme", Location: "Remote"},
		{ID: "in-2", Site: "indeed", Title: "Go Developer", Company: "Globex", Location: "Remote"},
	}
	api := newTestAPI(t, jobs, nil)

	req := httptest.NewRequest(http.MethodGet, "/scrape?keywords=Go+Developer&location=Remote", nil)
	rr := httptest.NewRecorder()
	api.routes().ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var env model.Envelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	assert.Equal(t, model.StatusSuccess, env.Status)
	assert.Equal(t, 2, env.TotalJobs)
	assert.Len(t, env.Jobs, env.TotalJobs)
	assert.Equal(t, []string{"Go Developer"}, env.Keywords)
	assert.Equal(t, "Remote", env.Location)
}

func TestServe_Scrape_MissingKeywords(t *testing.T) {
	api := newTestAPI(t, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/scrape", nil)
	rr := httptest.NewRecorder()
	api.routes().ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)

	var env model.Envelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	assert.Equal(t, model.StatusError, env.Status)
	assert.Empty(t, env.Jobs)
}

func TestServe_Scrape_BadResultsParam(t *testing.T) {
	api := newTestAPI(t, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/scrape?keywords=golang&results=bogus", nil)
	rr := httptest.NewRecorder()
	api.routes().ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestServe_Scrape_EmptyResultIsErrorEnvelope(t *testing.T) {
	// Board returned nothing: still HTTP 200, the envelope carries the status.
	api := newTestAPI(t, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/scrape?keywords=Cobol+Wizard", nil)
	rr := httptest.NewRecorder()
	api.routes().ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var env model.Envelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	assert.Equal(t, model.StatusError, env.Status)
	assert.Equal(t, 0, env.TotalJobs)
}

func TestServe_Runs_StoreDisabled(t *testing.T) {
	api := newTestAPI(t, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/runs", nil)
	rr := httptest.NewRecorder()
	api.routes().ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestServe_Runs_RecordsAndLists(t *testing.T) {
	st, err := store.NewSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	require.NoError(t, st.Migrate(context.Background()))

	jobs := []model.Job{{ID: "li-1", Site: "linkedin", Title: "Go Developer", Company: "Acme"}}
	api := newTestAPI(t, jobs, st)

	// A served scrape is recorded...
	req := httptest.NewRequest(http.MethodGet, "/scrape?keywords=golang", nil)
	rr := httptest.NewRecorder()
	api.routes().ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	// ...and shows up in /runs.
	req = httptest.NewRequest(http.MethodGet, "/runs", nil)
	rr = httptest.NewRecorder()
	api.routes().ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var runs []model.Run
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &runs))
	require.Len(t, runs, 1)
	assert.Equal(t, []string{"golang"}, runs[0].Keywords)
	assert.Equal(t, 1, runs[0].TotalJobs)
}

package jobboard

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func indeedPage(resultsJSON string) string {
	return fmt.Sprintf(`<!DOCTYPE html><html><head><script>
window.mosaic.providerData["mosaic-provider-jobcards"]={"metaData":{"mosaicProviderJobCardsModel":{"results":[%s]}}};
</script></head><body></body></html>`, resultsJSON)
}

const indeedResult = `{
	"jobkey": "abc123def456",
	"title": "Go Developer",
	"company": "Acme Corp",
	"companyOverviewLink": "/cmp/Acme-Corp",
	"formattedLocation": "Austin, TX",
	"pubDate": 1755907200000,
	"remoteLocation": true,
	"snippet": "<b>Build</b> backend services in <b>Go</b>.",
	"jobTypes": ["Full-time"],
	"extractedSalary": {"min": 120000, "max": 150000, "type": "yearly"}
}`

func TestIndeed_Search(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/jobs", r.URL.Path)
		assert.Equal(t, "Go Developer", r.URL.Query().Get("q"))
		assert.Equal(t, "Austin, TX", r.URL.Query().Get("l"))
		assert.Equal(t, "1", r.URL.Query().Get("fromage"))

		if r.URL.Query().Get("start") != "0" {
			fmt.Fprint(w, indeedPage(""))
			return
		}
		fmt.Fprint(w, indeedPage(indeedResult))
	}))
	defer srv.Close()

	client := NewIndeed(WithBaseURL(srv.URL))
	jobs, err := client.Search(context.Background(), Query{
		SearchTerm:    "Go Developer",
		Location:      "Austin, TX",
		ResultsWanted: 50,
		HoursOld:      24,
	})

	require.NoError(t, err)
	require.Len(t, jobs, 1)

	j := jobs[0]
	assert.Equal(t, "in-abc123def456", j.ID)
	assert.Equal(t, "indeed", j.Site)
	assert.Equal(t, srv.URL+"/viewjob?jk=abc123def456", j.JobURL)
	assert.Equal(t, "Go Developer", j.Title)
	assert.Equal(t, "Acme Corp", j.Company)
	assert.Equal(t, "Austin, TX", j.Location)
	require.NotNil(t, j.CompanyURL)
	assert.Equal(t, srv.URL+"/cmp/Acme-Corp", *j.CompanyURL)
	require.NotNil(t, j.DatePosted)
	assert.Equal(t, "2025-08-23", *j.DatePosted)
	require.NotNil(t, j.JobType)
	assert.Equal(t, "full-time", *j.JobType)
	require.NotNil(t, j.IsRemote)
	assert.True(t, *j.IsRemote)
	require.NotNil(t, j.Description)
	assert.Equal(t, "Build backend services in Go.", *j.Description)
	require.NotNil(t, j.MinAmount)
	assert.Equal(t, 120000.0, *j.MinAmount)
	require.NotNil(t, j.MaxAmount)
	assert.Equal(t, 150000.0, *j.MaxAmount)
	require.NotNil(t, j.Interval)
	assert.Equal(t, "yearly", *j.Interval)
	require.NotNil(t, j.Currency)
	assert.Equal(t, "USD", *j.Currency)
}

func TestIndeed_FromageRoundsUp(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2", r.URL.Query().Get("fromage"))
		fmt.Fprint(w, indeedPage(""))
	}))
	defer srv.Close()

	client := NewIndeed(WithBaseURL(srv.URL))
	_, err := client.Search(context.Background(), Query{
		SearchTerm:    "Go Developer",
		ResultsWanted: 10,
		HoursOld:      30,
	})
	require.NoError(t, err)
}

func TestIndeed_MissingMosaicBlob(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html><body>captcha</body></html>")
	}))
	defer srv.Close()

	client := NewIndeed(WithBaseURL(srv.URL))
	_, err := client.Search(context.Background(), Query{
		SearchTerm:    "Go Developer",
		ResultsWanted: 10,
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "mosaic-provider-jobcards")
}

func TestIndeed_SkipsResultsWithoutJobKey(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("start") != "0" {
			fmt.Fprint(w, indeedPage(""))
			return
		}
		fmt.Fprint(w, indeedPage(`{"title": "Ghost Listing", "company": "Nowhere"}`))
	}))
	defer srv.Close()

	client := NewIndeed(WithBaseURL(srv.URL))
	jobs, err := client.Search(context.Background(), Query{
		SearchTerm:    "Go Developer",
		ResultsWanted: 10,
	})

	require.NoError(t, err)
	assert.Empty(t, jobs)
}

func TestStripTags(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Build services in Go.", stripTags("<b>Build</b> services in <i>Go</i>."))
	assert.Equal(t, "plain", stripTags("plain"))
}

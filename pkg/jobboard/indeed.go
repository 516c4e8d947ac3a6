package jobboard

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/scoutgrid/jobharvest/internal/model"
)

const (
	indeedBaseURL  = "https://www.indeed.com"
	indeedPageSize = 10
)

// mosaicRe pulls the job cards JSON blob Indeed embeds in every search page.
var mosaicRe = regexp.MustCompile(`(?s)window\.mosaic\.providerData\["mosaic-provider-jobcards"\]=(\{.+?\});`)

// Indeed scrapes Indeed search result pages. Listings are read from the
// embedded mosaic-provider-jobcards JSON rather than the rendered HTML,
// which carries structured salary and remote data the markup does not.
type Indeed struct {
	cfg clientConfig
}

// NewIndeed creates an Indeed board client.
func NewIndeed(opts ...Option) *Indeed {
	cfg := newClientConfig(opts...)
	if cfg.baseURL == "" {
		cfg.baseURL = indeedBaseURL
	}
	return &Indeed{cfg: cfg}
}

func (i *Indeed) Name() string { return "indeed" }

type mosaicData struct {
	MetaData struct {
		MosaicProviderJobCardsModel struct {
			Results []mosaicResult `json:"results"`
		} `json:"mosaicProviderJobCardsModel"`
	} `json:"metaData"`
}

type mosaicResult struct {
	JobKey              string   `json:"jobkey"`
	Title               string   `json:"title"`
	Company             string   `json:"company"`
	CompanyOverviewLink string   `json:"companyOverviewLink"`
	FormattedLocation   string   `json:"formattedLocation"`
	PubDate             int64    `json:"pubDate"`
	RemoteLocation      bool     `json:"remoteLocation"`
	Snippet             string   `json:"snippet"`
	JobTypes            []string `json:"jobTypes"`
	ExtractedSalary     *struct {
		Min  float64 `json:"min"`
		Max  float64 `json:"max"`
		Type string  `json:"type"`
	} `json:"extractedSalary"`
}

// Search pages through search results until ResultsWanted listings are
// collected or a page comes back empty.
func (i *Indeed) Search(ctx context.Context, q Query) ([]model.Job, error) {
	var jobs []model.Job

	for start := 0; len(jobs) < q.ResultsWanted; start += indeedPageSize {
		pageURL := i.searchURL(q, start)

		body, status, err := i.cfg.get(ctx, pageURL, "indeed")
		if err != nil {
			return nil, err
		}
		if status != http.StatusOK {
			return nil, eris.Errorf("indeed: unexpected status %d", status)
		}

		page, err := i.parseCards(body)
		if err != nil {
			return nil, err
		}
		if len(page) == 0 {
			break
		}
		jobs = append(jobs, page...)

		zap.L().Debug("indeed: page scraped",
			zap.Int("start", start),
			zap.Int("cards", len(page)),
		)
	}

	if len(jobs) > q.ResultsWanted {
		jobs = jobs[:q.ResultsWanted]
	}
	return jobs, nil
}

func (i *Indeed) searchURL(q Query, start int) string {
	params := url.Values{}
	params.Set("q", q.SearchTerm)
	params.Set("l", q.Location)
	params.Set("start", fmt.Sprintf("%d", start))
	if q.HoursOld > 0 {
		// Indeed filters by whole days; round the hour window up.
		params.Set("fromage", fmt.Sprintf("%d", (q.HoursOld+23)/24))
	}
	return i.cfg.baseURL + "/jobs?" + params.Encode()
}

// parseCards extracts listings from the mosaic JSON embedded in a search page.
func (i *Indeed) parseCards(body []byte) ([]model.Job, error) {
	matches := mosaicRe.FindSubmatch(body)
	if len(matches) < 2 {
		return nil, eris.New("indeed: mosaic-provider-jobcards not found in page")
	}

	var data mosaicData
	if err := json.Unmarshal(matches[1], &data); err != nil {
		return nil, eris.Wrap(err, "indeed: parse mosaic json")
	}

	var jobs []model.Job
	for _, r := range data.MetaData.MosaicProviderJobCardsModel.Results {
		if r.JobKey == "" {
			continue
		}

		job := model.Job{
			ID:       "in-" + r.JobKey,
			Site:     "indeed",
			JobURL:   i.cfg.baseURL + "/viewjob?jk=" + r.JobKey,
			Title:    r.Title,
			Company:  r.Company,
			Location: r.FormattedLocation,
		}

		if r.CompanyOverviewLink != "" {
			cu := i.cfg.baseURL + r.CompanyOverviewLink
			job.CompanyURL = &cu
		}
		if r.PubDate > 0 {
			posted := time.UnixMilli(r.PubDate).UTC().Format("2006-01-02")
			job.DatePosted = &posted
		}
		if len(r.JobTypes) > 0 {
			jt := strings.ToLower(strings.Join(r.JobTypes, ", "))
			job.JobType = &jt
		}
		if r.RemoteLocation || isRemote(r.FormattedLocation, r.Title) {
			remote := true
			job.IsRemote = &remote
		}
		if snippet := strings.TrimSpace(stripTags(r.Snippet)); snippet != "" {
			job.Description = &snippet
		}
		if sal := r.ExtractedSalary; sal != nil {
			minAmt, maxAmt := sal.Min, sal.Max
			job.MinAmount = &minAmt
			job.MaxAmount = &maxAmt
			if sal.Type != "" {
				interval := sal.Type
				job.Interval = &interval
			}
			src := "direct_data"
			cur := "USD"
			job.SalarySource = &src
			job.Currency = &cur
		}

		jobs = append(jobs, job)
	}

	return jobs, nil
}

var tagRe = regexp.MustCompile(`<[^>]+>`)

// stripTags removes the markup Indeed leaves in snippet text.
func stripTags(s string) string {
	return tagRe.ReplaceAllString(s, "")
}

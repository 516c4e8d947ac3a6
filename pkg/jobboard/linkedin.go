package jobboard

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/scoutgrid/jobharvest/internal/model"
)

const (
	linkedinBaseURL  = "https://www.linkedin.com"
	linkedinPageSize = 25
)

// LinkedIn scrapes the LinkedIn guest jobs API. The guest endpoint returns
// HTML card fragments, 25 per page, no authentication required.
type LinkedIn struct {
	cfg clientConfig
}

// NewLinkedIn creates a LinkedIn board client.
func NewLinkedIn(opts ...Option) *LinkedIn {
	cfg := newClientConfig(opts...)
	if cfg.baseURL == "" {
		cfg.baseURL = linkedinBaseURL
	}
	return &LinkedIn{cfg: cfg}
}

func (l *LinkedIn) Name() string { return "linkedin" }

// Search pages through the guest API until ResultsWanted listings are
// collected or the board stops returning cards.
func (l *LinkedIn) Search(ctx context.Context, q Query) ([]model.Job, error) {
	var jobs []model.Job

	for start := 0; len(jobs) < q.ResultsWanted; start += linkedinPageSize {
		pageURL := l.searchURL(q, start)

		body, status, err := l.cfg.get(ctx, pageURL, "linkedin")
		if err != nil {
			return nil, err
		}
		// The guest API answers 400 for offsets past the end of results.
		if status == http.StatusBadRequest && start > 0 {
			break
		}
		if status != http.StatusOK {
			return nil, eris.Errorf("linkedin: unexpected status %d", status)
		}

		page, err := l.parseCards(body, q)
		if err != nil {
			return nil, err
		}
		if len(page) == 0 {
			break
		}
		jobs = append(jobs, page...)

		zap.L().Debug("linkedin: page scraped",
			zap.Int("start", start),
			zap.Int("cards", len(page)),
		)
	}

	if len(jobs) > q.ResultsWanted {
		jobs = jobs[:q.ResultsWanted]
	}
	return jobs, nil
}

func (l *LinkedIn) searchURL(q Query, start int) string {
	params := url.Values{}
	params.Set("keywords", q.SearchTerm)
	params.Set("location", q.Location)
	params.Set("start", fmt.Sprintf("%d", start))
	if q.HoursOld > 0 {
		// f_TPR filters by posting age in seconds.
		params.Set("f_TPR", fmt.Sprintf("r%d", q.HoursOld*3600))
	}
	return l.cfg.baseURL + "/jobs-guest/jobs/api/seeMoreJobPostings/search?" + params.Encode()
}

// parseCards extracts listings from a guest API HTML fragment.
func (l *LinkedIn) parseCards(body []byte, q Query) ([]model.Job, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, eris.Wrap(err, "linkedin: parse response")
	}

	var jobs []model.Job
	doc.Find("div.base-search-card").Each(func(_ int, card *goquery.Selection) {
		title := strings.TrimSpace(card.Find(".base-search-card__title").First().Text())
		company := strings.TrimSpace(card.Find(".base-search-card__subtitle").First().Text())
		location := strings.TrimSpace(card.Find(".job-search-card__location").First().Text())
		if title == "" && company == "" {
			return
		}

		job := model.Job{
			Site:     "linkedin",
			Title:    title,
			Company:  company,
			Location: location,
		}

		if urn, ok := card.Attr("data-entity-urn"); ok {
			if id := strings.TrimPrefix(urn, "urn:li:jobPosting:"); id != urn {
				job.ID = "li-" + id
				job.JobURL = l.cfg.baseURL + "/jobs/view/" + id
			}
		}
		if job.JobURL == "" {
			if href, ok := card.Find("a.base-card__full-link").First().Attr("href"); ok {
				job.JobURL = stripTracking(href)
			}
		}

		if href, ok := card.Find(".base-search-card__subtitle a").First().Attr("href"); ok {
			cu := stripTracking(href)
			job.CompanyURL = &cu
		}

		if dt, ok := card.Find("time[datetime]").First().Attr("datetime"); ok && dt != "" {
			job.DatePosted = &dt
		}

		if remote := isRemote(location, title, q.Location); remote {
			job.IsRemote = &remote
		}

		jobs = append(jobs, job)
	})

	return jobs, nil
}

// stripTracking drops the query string LinkedIn appends to outbound links.
func stripTracking(rawURL string) string {
	if i := strings.IndexByte(rawURL, '?'); i >= 0 {
		return rawURL[:i]
	}
	return rawURL
}

// isRemote reports whether any of the given fields marks the listing remote.
func isRemote(fields ...string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), "remote") {
			return true
		}
	}
	return false
}

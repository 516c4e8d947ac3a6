package jobboard

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

// Settings carries the client knobs the caller resolves from config.
type Settings struct {
	UserAgent   string
	TimeoutSecs int
	MaxRetries  int
	RatePerSec  float64
	Burst       int

	// Base URL overrides, used by tests and proxies. Empty means the
	// board's production URL.
	LinkedInBaseURL string
	IndeedBaseURL   string
}

// FromSites builds a Multi over the named boards. Site names are
// case-insensitive; unknown names are an error rather than silently
// skipped so a config typo cannot quietly halve the result set.
func FromSites(sites []string, maxConcurrent int, s Settings) (*Multi, error) {
	if len(sites) == 0 {
		return nil, eris.New("jobboard: no sites configured")
	}

	var scrapers []Scraper
	for _, site := range sites {
		switch strings.ToLower(strings.TrimSpace(site)) {
		case "linkedin":
			scrapers = append(scrapers, NewLinkedIn(s.options(s.LinkedInBaseURL)...))
		case "indeed":
			scrapers = append(scrapers, NewIndeed(s.options(s.IndeedBaseURL)...))
		default:
			return nil, eris.Errorf("jobboard: unknown site %q", site)
		}
	}
	return NewMulti(maxConcurrent, scrapers...), nil
}

func (s Settings) options(baseURL string) []Option {
	var opts []Option
	if baseURL != "" {
		opts = append(opts, WithBaseURL(baseURL))
	}
	if s.UserAgent != "" {
		opts = append(opts, WithUserAgent(s.UserAgent))
	}
	if s.TimeoutSecs > 0 {
		opts = append(opts, WithTimeout(time.Duration(s.TimeoutSecs)*time.Second))
	}
	if s.MaxRetries > 0 {
		opts = append(opts, WithMaxRetries(s.MaxRetries))
	}
	if s.RatePerSec > 0 {
		burst := s.Burst
		if burst < 1 {
			burst = 1
		}
		opts = append(opts, WithRateLimiter(rate.NewLimiter(rate.Limit(s.RatePerSec), burst)))
	}
	return opts
}

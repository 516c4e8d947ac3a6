// Package jobboard provides clients for job board search APIs and a
// multi-board fan-out scraper. Callers hand it a query and get back
// listing rows; pagination, rate limiting, and retry live here.
package jobboard

import (
	"context"

	"github.com/scoutgrid/jobharvest/internal/model"
)

// Query describes a single keyword search against a board.
type Query struct {
	// SearchTerm is the keyword phrase, e.g. "Software Engineer".
	SearchTerm string
	// Location filters listings by place; boards treat "Remote" specially.
	Location string
	// ResultsWanted caps how many listings to fetch from each board.
	ResultsWanted int
	// HoursOld restricts results to listings posted within this window.
	// Zero means no recency filter.
	HoursOld int
}

// Scraper fetches listings for a query from one board (or several, see Multi).
type Scraper interface {
	Search(ctx context.Context, q Query) ([]model.Job, error)
	Name() string
}

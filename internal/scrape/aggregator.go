// Package scrape is the translation layer between the CLI/HTTP surface and
// the board clients: it iterates keywords, merges and deduplicates rows,
// sanitizes them for JSON, and wraps the result in the output envelope.
package scrape

import (
	"context"

	"go.uber.org/zap"

	"github.com/scoutgrid/jobharvest/internal/model"
	"github.com/scoutgrid/jobharvest/pkg/jobboard"
)

// Params describes one scrape invocation.
type Params struct {
	Keywords      []string
	Location      string
	ResultsWanted int
	HoursOld      int
}

// Aggregator runs keyword searches against a board scraper and assembles
// the envelope. It holds no state between runs.
type Aggregator struct {
	scraper jobboard.Scraper
}

// New creates an Aggregator over the given scraper (usually a jobboard.Multi).
func New(s jobboard.Scraper) *Aggregator {
	return &Aggregator{scraper: s}
}

// Run executes the scrape. Keywords are processed sequentially so the merge
// order is deterministic; a failed keyword is logged and skipped, never
// fatal. The returned envelope is always safe to serialize: rows are
// deduplicated by derived identifier and sanitized, and status reflects
// whether anything survived the merge.
func (a *Aggregator) Run(ctx context.Context, p Params) *model.Envelope {
	var (
		merged []model.Job
		seen   = make(map[string]struct{})
	)

	for _, keyword := range p.Keywords {
		zap.L().Info("scraping jobs for keyword", zap.String("keyword", keyword))

		jobs, err := a.scraper.Search(ctx, jobboard.Query{
			SearchTerm:    keyword,
			Location:      p.Location,
			ResultsWanted: p.ResultsWanted,
			HoursOld:      p.HoursOld,
		})
		if err != nil {
			zap.L().Error("keyword scrape failed",
				zap.String("keyword", keyword),
				zap.Error(err),
			)
			continue
		}
		if len(jobs) == 0 {
			zap.L().Warn("no jobs found for keyword", zap.String("keyword", keyword))
			continue
		}

		added := 0
		for _, job := range jobs {
			id := job.DerivedID()
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}

			job.ID = id
			job.Sanitize()
			merged = append(merged, job)
			added++
		}

		zap.L().Info("keyword scrape complete",
			zap.String("keyword", keyword),
			zap.Int("found", len(jobs)),
			zap.Int("kept", added),
		)
	}

	return model.NewEnvelope(p.Keywords, p.Location, merged)
}

package jobboard

import (
	"context"
	"strings"
	"sync"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/scoutgrid/jobharvest/internal/model"
)

// Multi fans a query out to several board scrapers and concatenates the
// results in configured board order. A board failure is logged and skipped;
// Multi fails only when every board fails.
type Multi struct {
	scrapers []Scraper
	limit    int
}

// NewMulti creates a Multi over the given scrapers. maxConcurrent bounds
// how many boards are queried at once; values < 1 mean unbounded.
func NewMulti(maxConcurrent int, scrapers ...Scraper) *Multi {
	return &Multi{scrapers: scrapers, limit: maxConcurrent}
}

// Name returns the joined board names, e.g. "linkedin+indeed".
func (m *Multi) Name() string {
	names := make([]string, len(m.scrapers))
	for i, s := range m.scrapers {
		names[i] = s.Name()
	}
	return strings.Join(names, "+")
}

// Search queries every board for q and concatenates the per-board results
// in scraper order, not completion order, so output is deterministic.
func (m *Multi) Search(ctx context.Context, q Query) ([]model.Job, error) {
	if len(m.scrapers) == 0 {
		return nil, eris.New("jobboard: no scrapers configured")
	}

	var (
		mu      sync.Mutex
		perSite = make([][]model.Job, len(m.scrapers))
		errs    = make([]error, len(m.scrapers))
	)

	g, gCtx := errgroup.WithContext(ctx)
	if m.limit > 0 {
		g.SetLimit(m.limit)
	}

	for i, s := range m.scrapers {
		g.Go(func() error {
			jobs, err := s.Search(gCtx, q)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				zap.L().Warn("jobboard: board search failed",
					zap.String("board", s.Name()),
					zap.String("search_term", q.SearchTerm),
					zap.Error(err),
				)
				errs[i] = err
				return nil
			}
			perSite[i] = jobs
			return nil
		})
	}
	_ = g.Wait()

	var merged []model.Job
	failed := 0
	for i := range m.scrapers {
		if errs[i] != nil {
			failed++
			continue
		}
		merged = append(merged, perSite[i]...)
	}

	if failed == len(m.scrapers) {
		return nil, eris.Wrapf(errs[0], "jobboard: all %d boards failed", failed)
	}
	return merged, nil
}

// Package store persists scrape run history. Recording is opt-in and
// best-effort: the scrape path never fails because the store did.
package store

import (
	"context"

	"github.com/scoutgrid/jobharvest/internal/model"
)

// RunFilter specifies criteria for listing runs.
type RunFilter struct {
	Status  string `json:"status,omitempty"`
	Keyword string `json:"keyword,omitempty"`
	Limit   int    `json:"limit,omitempty"`
}

// Store defines the run-history persistence interface.
type Store interface {
	SaveRun(ctx context.Context, run *model.Run) error
	GetRun(ctx context.Context, runID string) (*model.Run, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error)

	Migrate(ctx context.Context) error
	Close() error
}

// defaultListLimit caps ListRuns when the filter gives no limit.
const defaultListLimit = 50

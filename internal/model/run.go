package model

import (
	"encoding/json"
	"time"
)

// Run is a recorded scrape invocation. Persisted only when run recording
// is enabled; the scrape path never depends on it.
type Run struct {
	ID        string          `json:"id"`
	Keywords  []string        `json:"keywords"`
	Location  string          `json:"location"`
	Status    string          `json:"status"`
	TotalJobs int             `json:"total_jobs"`
	Envelope  json.RawMessage `json:"envelope,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

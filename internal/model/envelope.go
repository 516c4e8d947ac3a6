package model

// Envelope statuses. The envelope is the output contract: callers branch
// on status, so only these two values are ever emitted.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Envelope is the top-level JSON document written to stdout.
type Envelope struct {
	Status    string   `json:"status"`
	TotalJobs int      `json:"total_jobs"`
	Keywords  []string `json:"keywords"`
	Location  string   `json:"location"`
	Jobs      []Job    `json:"jobs"`
}

// NewEnvelope wraps the merged job list, deriving status from the result.
// An empty merge is an error envelope: the caller asked for jobs and got
// none, whatever the reason.
func NewEnvelope(keywords []string, location string, jobs []Job) *Envelope {
	status := StatusSuccess
	if len(jobs) == 0 {
		status = StatusError
	}
	if jobs == nil {
		jobs = []Job{}
	}
	if keywords == nil {
		keywords = []string{}
	}
	return &Envelope{
		Status:    status,
		TotalJobs: len(jobs),
		Keywords:  keywords,
		Location:  location,
		Jobs:      jobs,
	}
}

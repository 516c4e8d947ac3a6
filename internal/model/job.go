// Package model defines the job listing row and the output envelope.
package model

import (
	"math"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// dedupNamespace scopes UUIDv5 identifiers derived from listing fields.
// Stable across releases so identifiers survive re-scrapes.
var dedupNamespace = uuid.MustParse("9b1deb4d-3b7d-4bad-9bdd-2b0d7b3dcb6d")

// Job is a single listing as returned by a board client. Optional fields
// are pointers so absent values are omitted from the JSON document rather
// than emitted as zero values.
type Job struct {
	ID           string   `json:"id"`
	Site         string   `json:"site"`
	JobURL       string   `json:"job_url"`
	JobURLDirect *string  `json:"job_url_direct,omitempty"`
	Title        string   `json:"title"`
	Company      string   `json:"company"`
	CompanyURL   *string  `json:"company_url,omitempty"`
	Location     string   `json:"location"`
	DatePosted   *string  `json:"date_posted,omitempty"`
	JobType      *string  `json:"job_type,omitempty"`
	SalarySource *string  `json:"salary_source,omitempty"`
	Interval     *string  `json:"interval,omitempty"`
	MinAmount    *float64 `json:"min_amount,omitempty"`
	MaxAmount    *float64 `json:"max_amount,omitempty"`
	Currency     *string  `json:"currency,omitempty"`
	IsRemote     *bool    `json:"is_remote,omitempty"`
	Description  *string  `json:"description,omitempty"`
}

// DerivedID returns the identifier used for cross-keyword deduplication.
// Board-assigned IDs win; listings without one get a UUIDv5 of the
// normalized (site, title, company, location) tuple so that case and
// width variants of the same listing collapse.
func (j *Job) DerivedID() string {
	if j.ID != "" {
		return j.ID
	}
	key := strings.Join([]string{
		foldKey(j.Site),
		foldKey(j.Title),
		foldKey(j.Company),
		foldKey(j.Location),
	}, "|")
	return uuid.NewSHA1(dedupNamespace, []byte(key)).String()
}

// foldKey case-folds and NFKC-normalizes a dedup key component.
func foldKey(s string) string {
	return cases.Fold().String(norm.NFKC.String(strings.TrimSpace(s)))
}

// Sanitize clears values that have no valid JSON representation.
// Non-finite floats (NaN, ±Inf) would make encoding/json fail the whole
// document, so they become absent fields instead.
func (j *Job) Sanitize() {
	j.MinAmount = finiteOrNil(j.MinAmount)
	j.MaxAmount = finiteOrNil(j.MaxAmount)
	if j.Description != nil && strings.TrimSpace(*j.Description) == "" {
		j.Description = nil
	}
}

func finiteOrNil(v *float64) *float64 {
	if v == nil {
		return nil
	}
	if math.IsNaN(*v) || math.IsInf(*v, 0) {
		return nil
	}
	return v
}

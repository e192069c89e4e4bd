// Define the job record every listing source returns
// Derive the identity used to deduplicate notifications

package listing

import (
	"context"
	"strings"
)

// Job is one job card as seen on a listing page during this run.
type Job struct {
	Title    string
	Type     string
	Duration string
	Pay      string
	Location string
	URL      string
	Category string
}

// Source fetches the jobs currently shown on one listing page.
type Source interface {
	// Fetch renders locator and returns its jobs, tagging each with label.
	Fetch(ctx context.Context, locator, label string) ([]Job, error)
}

const identitySep = "|"

// Identity is the dedup key of a job: title, location and pay joined by "|".
// Type, duration, category and URL do not take part, so the same posting
// found under two searches is one job.
func Identity(job Job) string {
	return strings.Join([]string{job.Title, job.Location, job.Pay}, identitySep)
}

package vagas

import (
	"context"
	"strings"
	"time"
)

// JobPosting is an immutable snapshot of a vacancy fetched from the ATS.
type JobPosting struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	City         string     `json:"city,omitempty"`
	State        string     `json:"state,omitempty"`
	Remote       bool       `json:"remote"`
	Modality     string     `json:"modality,omitempty"`
	Department   string     `json:"department,omitempty"`
	ContractType string     `json:"contract_type,omitempty"`
	PublishedAt  *time.Time `json:"published_at,omitempty"`
	ApplyURL     string     `json:"url_apply,omitempty"`
	Description  string     `json:"description,omitempty"`
	Summary      string     `json:"summary,omitempty"`
}

// Headline returns the title without the trailing " - City" segment many
// postings carry.
func (j JobPosting) Headline() string {
	head, _, _ := strings.Cut(j.Title, " - ")
	return strings.TrimSpace(head)
}

// PublishedDate returns the UTC calendar date of the posting, or "" when the
// posting has no publish timestamp.
func (j JobPosting) PublishedDate() string {
	if j.PublishedAt == nil {
		return ""
	}
	return j.PublishedAt.UTC().Format(time.DateOnly)
}

// JobDirectory is a read-only source of job postings.
type JobDirectory interface {
	ListJobs(ctx context.Context) ([]JobPosting, error)
	GetJob(ctx context.Context, id string) (*JobPosting, error)
}

// FindJob returns the posting with the given ID from jobs, or nil.
func FindJob(jobs []JobPosting, id string) *JobPosting {
	for i := range jobs {
		if jobs[i].ID == id {
			return &jobs[i]
		}
	}
	return nil
}

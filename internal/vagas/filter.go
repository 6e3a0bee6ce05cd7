package vagas

import (
	"sort"
	"strings"
)

// RemoteLocation is the location label that selects remote jobs.
const RemoteLocation = "Trabalho Remoto"

// PageSize is the number of jobs revealed per "load more" step.
const PageSize = 9

// FilterState holds the four independent job list criteria.
type FilterState struct {
	Keyword      string `json:"keyword"`
	Location     string `json:"location"`
	JobCode      string `json:"job_code"`
	SpecificDate string `json:"specific_date"` // YYYY-MM-DD
}

// Clear resets every criterion.
func (f *FilterState) Clear() { *f = FilterState{} }

// IsZero reports whether no criterion is set.
func (f FilterState) IsZero() bool { return f == FilterState{} }

// ActiveCount returns how many criteria are set.
func (f FilterState) ActiveCount() int {
	n := 0
	for _, v := range []string{f.Keyword, f.Location, f.JobCode, f.SpecificDate} {
		if v != "" {
			n++
		}
	}
	return n
}

// Filter returns the jobs matching every criterion, in input order.
func Filter(jobs []JobPosting, criteria FilterState) []JobPosting {
	out := make([]JobPosting, 0, len(jobs))
	for _, j := range jobs {
		if Matches(j, criteria) {
			out = append(out, j)
		}
	}
	return out
}

// Matches reports whether a single job passes all criteria.
func Matches(job JobPosting, c FilterState) bool {
	if c.Keyword != "" && !strings.Contains(strings.ToLower(job.Title), strings.ToLower(c.Keyword)) {
		return false
	}

	if c.Location != "" {
		if c.Location == RemoteLocation {
			if !job.Remote {
				return false
			}
		} else if job.City == "" || !strings.Contains(c.Location, job.City) {
			return false
		}
	}

	if c.JobCode != "" && !strings.Contains(strings.ToLower(job.ID), strings.ToLower(c.JobCode)) {
		return false
	}

	// Jobs without a publish timestamp are never excluded by date.
	if c.SpecificDate != "" && job.PublishedAt != nil && job.PublishedDate() != c.SpecificDate {
		return false
	}

	return true
}

// LocationLabel is the label a job contributes to the location picker.
func LocationLabel(job JobPosting) string {
	switch {
	case job.Remote:
		return RemoteLocation
	case job.City != "" && job.State != "":
		return job.City + " - " + job.State
	default:
		return job.City
	}
}

// Locations returns the sorted, de-duplicated location labels of jobs.
func Locations(jobs []JobPosting) []string {
	seen := make(map[string]bool)
	var out []string
	for _, j := range jobs {
		label := LocationLabel(j)
		if label == "" || seen[label] {
			continue
		}
		seen[label] = true
		out = append(out, label)
	}
	sort.Strings(out)
	return out
}

// Window is the paged view of a filtered job list. Changing the criteria
// resets it to the first page.
type Window struct {
	jobs     []JobPosting
	criteria FilterState
	filtered []JobPosting
	visible  int
}

// NewWindow creates a window over jobs with no criteria applied.
func NewWindow(jobs []JobPosting) *Window {
	w := &Window{jobs: jobs}
	w.apply()
	return w
}

// SetJobs replaces the underlying list wholesale, keeping the criteria.
func (w *Window) SetJobs(jobs []JobPosting) {
	w.jobs = jobs
	w.apply()
}

// SetCriteria applies new criteria. The window returns to the first page
// whenever the criteria differ from the current ones.
func (w *Window) SetCriteria(c FilterState) {
	if c == w.criteria {
		return
	}
	w.criteria = c
	w.apply()
}

// Criteria returns the active criteria.
func (w *Window) Criteria() FilterState { return w.criteria }

// LoadMore reveals one more page.
func (w *Window) LoadMore() {
	w.visible = min(w.visible+PageSize, len(w.filtered))
}

// Visible returns the currently revealed jobs.
func (w *Window) Visible() []JobPosting { return w.filtered[:w.visible] }

// Total returns the number of jobs matching the criteria.
func (w *Window) Total() int { return len(w.filtered) }

// HasMore reports whether LoadMore would reveal anything.
func (w *Window) HasMore() bool { return w.visible < len(w.filtered) }

func (w *Window) apply() {
	w.filtered = Filter(w.jobs, w.criteria)
	w.visible = min(PageSize, len(w.filtered))
}

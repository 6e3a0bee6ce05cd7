package compose

import (
	"errors"
	"slices"

	"vagas-go/internal/vagas"
)

// MaxSelection is the largest number of jobs a carousel can hold. With the
// cover and back slides a full carousel has twenty slides.
const MaxSelection = 18

// ErrSelectionLimit is returned when adding beyond MaxSelection.
var ErrSelectionLimit = errors.New("selecione no máximo 18 vagas para o carrossel")

// Selection is an ordered set of jobs picked for a carousel.
type Selection struct {
	jobs []vagas.JobPosting
}

// Add appends job unless it is already selected.
func (s *Selection) Add(job vagas.JobPosting) error {
	if s.Contains(job.ID) {
		return nil
	}
	if len(s.jobs) >= MaxSelection {
		return ErrSelectionLimit
	}
	s.jobs = append(s.jobs, job)
	return nil
}

// Remove drops the job with id and reports whether it was selected.
func (s *Selection) Remove(id string) bool {
	i := s.index(id)
	if i < 0 {
		return false
	}
	s.jobs = slices.Delete(s.jobs, i, i+1)
	return true
}

// Toggle adds job when absent and removes it when present. It reports
// whether job is selected afterwards.
func (s *Selection) Toggle(job vagas.JobPosting) (bool, error) {
	if s.Remove(job.ID) {
		return false, nil
	}
	if err := s.Add(job); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Selection) Contains(id string) bool { return s.index(id) >= 0 }

// Jobs returns the selected jobs in selection order.
func (s *Selection) Jobs() []vagas.JobPosting { return slices.Clone(s.jobs) }

func (s *Selection) Len() int { return len(s.jobs) }

func (s *Selection) Clear() { s.jobs = nil }

func (s *Selection) index(id string) int {
	return slices.IndexFunc(s.jobs, func(j vagas.JobPosting) bool { return j.ID == id })
}

package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"vagas-go/internal/vagas"
)

// AnalistaFinanceiro is the reference posting used across composer and
// caption tests. It has no department and no apply URL.
func AnalistaFinanceiro() vagas.JobPosting {
	published := time.Date(2025, 11, 3, 10, 0, 0, 0, time.UTC)
	return vagas.JobPosting{
		ID:           "42",
		Title:        "Analista Financeiro",
		City:         "São Paulo",
		State:        "SP",
		ContractType: "CLT",
		PublishedAt:  &published,
	}
}

// Jobs returns n distinct postings alternating remote and on-site.
func Jobs(n int) []vagas.JobPosting {
	jobs := make([]vagas.JobPosting, 0, n)
	for i := 1; i <= n; i++ {
		j := vagas.JobPosting{
			ID:           fmt.Sprintf("%d", 1000+i),
			Title:        fmt.Sprintf("Vaga Teste %d", i),
			Department:   "Operações",
			ContractType: "CLT (Efetivo)",
		}
		if i%2 == 0 {
			j.Remote = true
			j.Modality = "Remoto"
		} else {
			j.City = "Campinas"
			j.State = "SP"
		}
		jobs = append(jobs, j)
	}
	return jobs
}

// FakeDirectory is an in-memory vagas.JobDirectory.
type FakeDirectory struct {
	mu    sync.Mutex
	Jobs  []vagas.JobPosting
	Err   error
	Calls int
}

var _ vagas.JobDirectory = (*FakeDirectory)(nil)

func NewFakeDirectory(jobs ...vagas.JobPosting) *FakeDirectory {
	return &FakeDirectory{Jobs: jobs}
}

func (d *FakeDirectory) ListJobs(_ context.Context) ([]vagas.JobPosting, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Calls++
	if d.Err != nil {
		return nil, d.Err
	}
	return append([]vagas.JobPosting(nil), d.Jobs...), nil
}

func (d *FakeDirectory) GetJob(_ context.Context, id string) (*vagas.JobPosting, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.Err != nil {
		return nil, d.Err
	}
	if j := vagas.FindJob(d.Jobs, id); j != nil {
		cp := *j
		return &cp, nil
	}
	return nil, fmt.Errorf("job %s: %w", id, vagas.ErrNotFound)
}

// SetJobs replaces the directory contents.
func (d *FakeDirectory) SetJobs(jobs []vagas.JobPosting) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Jobs = jobs
}

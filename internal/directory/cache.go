// Package directory keeps an in-memory snapshot of the job directory for
// server mode, refreshed on a cron schedule.
package directory

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"vagas-go/internal/vagas"
)

// Cache is a vagas.JobDirectory that serves the last fetched job list. A
// refresh replaces the whole list; a failed refresh keeps the old one.
type Cache struct {
	source vagas.JobDirectory
	clock  vagas.Clock
	logger vagas.Logger

	mu        sync.RWMutex
	jobs      []vagas.JobPosting
	loaded    bool
	fetchedAt time.Time
	lastErr   error
}

var _ vagas.JobDirectory = (*Cache)(nil)

func NewCache(source vagas.JobDirectory, clock vagas.Clock, logger vagas.Logger) *Cache {
	return &Cache{source: source, clock: clock, logger: logger}
}

// Refresh fetches the job list from the source.
func (c *Cache) Refresh(ctx context.Context) error {
	jobs, err := c.source.ListJobs(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		c.lastErr = err
		c.logger.Warn("job refresh failed, keeping previous list", "jobs", len(c.jobs), "error", err)
		return fmt.Errorf("refreshing jobs: %w", err)
	}

	c.jobs = jobs
	c.loaded = true
	c.fetchedAt = c.clock.Now()
	c.lastErr = nil
	c.logger.Info("jobs refreshed", "jobs", len(jobs))
	return nil
}

// ListJobs returns the cached list, fetching it first if the cache has
// never been loaded.
func (c *Cache) ListJobs(ctx context.Context) ([]vagas.JobPosting, error) {
	c.mu.RLock()
	loaded := c.loaded
	c.mu.RUnlock()

	if !loaded {
		if err := c.Refresh(ctx); err != nil {
			return nil, err
		}
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.jobs), nil
}

// GetJob returns the cached posting, or asks the source when the ID is not
// in the current snapshot.
func (c *Cache) GetJob(ctx context.Context, id string) (*vagas.JobPosting, error) {
	c.mu.RLock()
	j := vagas.FindJob(c.jobs, id)
	var found vagas.JobPosting
	if j != nil {
		found = *j
	}
	c.mu.RUnlock()

	if j != nil {
		return &found, nil
	}
	return c.source.GetJob(ctx, id)
}

// Status reports when the list was last fetched and the last refresh error.
func (c *Cache) Status() (fetchedAt time.Time, count int, lastErr error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.fetchedAt, len(c.jobs), c.lastErr
}

package directory

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"

	"vagas-go/internal/vagas"
)

// Scheduler refreshes a Cache on a cron spec such as "@every 30m".
type Scheduler struct {
	cron   *cron.Cron
	cache  *Cache
	spec   string
	logger vagas.Logger
}

func NewScheduler(cache *Cache, spec string, logger vagas.Logger) *Scheduler {
	return &Scheduler{
		cron:   cron.New(),
		cache:  cache,
		spec:   spec,
		logger: logger,
	}
}

// Start registers the refresh job and starts the scheduler. One refresh
// also runs immediately so the list is populated without waiting for the
// first tick.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		s.refresh(ctx)
	})
	if err != nil {
		return fmt.Errorf("scheduling job refresh %q: %w", s.spec, err)
	}

	s.cron.Start()
	s.logger.Info("job refresh scheduled", "spec", s.spec)

	go s.refresh(ctx)
	return nil
}

// Stop halts the scheduler and waits for a running refresh to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("job refresh stopped")
}

func (s *Scheduler) refresh(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	// Errors are logged by the cache.
	_ = s.cache.Refresh(ctx)
}

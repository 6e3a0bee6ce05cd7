// Package stats keeps the images-generated counter: a local store written
// on every increment and an optional shared remote mirror.
package stats

import (
	"context"
	"fmt"
	"sync"

	"vagas-go/internal/vagas"
)

// LocalStore persists the counter on this machine.
type LocalStore interface {
	LoadCount(ctx context.Context) (int64, error)
	SaveCount(ctx context.Context, count int64) error
}

// Mirror is the shared remote copy of the counter.
type Mirror interface {
	Get(ctx context.Context) (int64, error)
	// Set overwrites the remote count.
	Set(ctx context.Context, count int64) error
	// Add increments the remote count and returns the new value.
	Add(ctx context.Context, delta int64) (int64, error)
	Close() error
}

// Policy decides how increments reach the mirror.
type Policy string

const (
	// LastWriteWins overwrites the remote count with the local total.
	// Concurrent writers can lose each other's updates.
	LastWriteWins Policy = "last_write_wins"
	// Atomic increments the remote count in place.
	Atomic Policy = "atomic"
)

// ParsePolicy validates a policy name; "" means LastWriteWins.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case "", LastWriteWins:
		return LastWriteWins, nil
	case Atomic:
		return Atomic, nil
	default:
		return "", fmt.Errorf("unknown counter policy: %s", s)
	}
}

// Counter is the usage counter. Increments are serialized.
type Counter struct {
	mu     sync.Mutex
	local  LocalStore
	mirror Mirror // may be nil
	policy Policy
	logger vagas.Logger

	count  int64
	loaded bool
}

// NewCounter creates a Counter. mirror may be nil.
func NewCounter(local LocalStore, mirror Mirror, policy Policy, logger vagas.Logger) *Counter {
	if policy == "" {
		policy = LastWriteWins
	}
	return &Counter{
		local:  local,
		mirror: mirror,
		policy: policy,
		logger: logger,
	}
}

// Increment adds amount to the counter, persists it locally and then
// pushes it to the mirror. Mirror failures are logged, not returned.
func (c *Counter) Increment(ctx context.Context, amount int64) (vagas.UsageStats, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.loaded {
		n, err := c.local.LoadCount(ctx)
		if err != nil {
			return vagas.UsageStats{}, fmt.Errorf("loading usage count: %w", err)
		}
		c.count = n
		c.loaded = true
	}

	c.count += amount
	if err := c.local.SaveCount(ctx, c.count); err != nil {
		return vagas.NewUsageStats(c.count), fmt.Errorf("saving usage count: %w", err)
	}

	if c.mirror != nil {
		c.push(ctx, amount)
	}
	return vagas.NewUsageStats(c.count), nil
}

func (c *Counter) push(ctx context.Context, amount int64) {
	switch c.policy {
	case Atomic:
		remote, err := c.mirror.Add(ctx, amount)
		if err != nil {
			c.logger.Warn("failed to mirror usage count", "policy", c.policy, "error", err)
			return
		}
		c.logger.Debug("usage count mirrored", "remote", remote)
	default:
		if err := c.mirror.Set(ctx, c.count); err != nil {
			c.logger.Warn("failed to mirror usage count", "policy", c.policy, "error", err)
			return
		}
		c.logger.Debug("usage count mirrored", "remote", c.count)
	}
}

// Read returns the mirror's count when it is reachable and the local
// count otherwise.
func (c *Counter) Read(ctx context.Context) (vagas.UsageStats, error) {
	if c.mirror != nil {
		n, err := c.mirror.Get(ctx)
		if err == nil {
			return vagas.NewUsageStats(n), nil
		}
		c.logger.Warn("usage mirror unreachable, reading local count", "error", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	n, err := c.local.LoadCount(ctx)
	if err != nil {
		return vagas.UsageStats{}, fmt.Errorf("loading usage count: %w", err)
	}
	c.count = n
	c.loaded = true
	return vagas.NewUsageStats(n), nil
}

// Close releases the mirror connection.
func (c *Counter) Close() error {
	if c.mirror == nil {
		return nil
	}
	return c.mirror.Close()
}

package testutil

import (
	"context"
	"sync"
)

// FakeMirror is an in-memory remote usage counter. When Err is set every
// call fails with it, simulating an unreachable remote.
type FakeMirror struct {
	mu    sync.Mutex
	Value int64
	Err   error
	Sets  int
	Adds  int
}

func (m *FakeMirror) Get(context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return 0, m.Err
	}
	return m.Value, nil
}

func (m *FakeMirror) Set(_ context.Context, n int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Sets++
	m.Value = n
	return nil
}

func (m *FakeMirror) Add(_ context.Context, delta int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return 0, m.Err
	}
	m.Adds++
	m.Value += delta
	return m.Value, nil
}

func (m *FakeMirror) Close() error { return nil }

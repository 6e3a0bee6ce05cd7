package directory

import (
	"context"
	"testing"
	"time"

	"vagas-go/internal/testutil"
	"vagas-go/internal/vagas"
)

func TestScheduler_RefreshesOnStart(t *testing.T) {
	src := testutil.NewFakeDirectory(testutil.Jobs(4)...)
	c := NewCache(src, testutil.FixedClock(), vagas.NewNopLogger())
	s := NewScheduler(c, "@every 1h", vagas.NewNopLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := s.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer s.Stop()

	deadline := time.Now().Add(2 * time.Second)
	for {
		if _, count, _ := c.Status(); count == 4 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("cache was not refreshed on start")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestScheduler_InvalidSpec(t *testing.T) {
	c := NewCache(testutil.NewFakeDirectory(), testutil.FixedClock(), vagas.NewNopLogger())
	s := NewScheduler(c, "every now and then", vagas.NewNopLogger())
	if err := s.Start(context.Background()); err == nil {
		t.Error("Start() expected error for invalid spec")
	}
}

package app

import (
	"errors"
	"testing"
	"time"
)

func TestNewOperation(t *testing.T) {
	op := NewOperation("Carousel")

	if op.Name != "Carousel" {
		t.Errorf("Name = %q, want %q", op.Name, "Carousel")
	}
	if op.Status != "success" {
		t.Errorf("Status = %q, want %q", op.Status, "success")
	}
	if len(op.ID) != 8 {
		t.Errorf("ID = %q, want 8 hex characters", op.ID)
	}
	if op.Done() {
		t.Error("new operation should not be done")
	}
}

func TestOperation_IDsAreUnique(t *testing.T) {
	a, b := NewOperation("x"), NewOperation("x")
	if a.ID == b.ID {
		t.Errorf("two operations share ID %q", a.ID)
	}
}

func TestOperation_Fail(t *testing.T) {
	op := NewOperation("Card")

	op.Fail(nil)
	if op.Status != "success" {
		t.Errorf("Fail(nil) changed status to %q", op.Status)
	}

	op.Fail(errors.New("chrome crashed"))
	if op.Status != "error" {
		t.Errorf("Status = %q, want %q", op.Status, "error")
	}
}

func TestOperation_Finish(t *testing.T) {
	op := NewOperation("Serve")
	op.Started = time.Now().Add(-2 * time.Second)

	op.Finish()
	if !op.Done() {
		t.Fatal("Done() = false after Finish")
	}
	first := op.Finished

	op.Finish()
	if !op.Finished.Equal(first) {
		t.Error("second Finish moved the end time")
	}
	if d := op.Duration(); d < 2*time.Second {
		t.Errorf("Duration() = %v, want at least 2s", d)
	}
}

func TestOperation_SetParameters(t *testing.T) {
	op := NewOperation("Carousel")
	op.SetParameters("42", "1001", "--format", "pdf")
	if op.Parameters != "42 1001 --format pdf" {
		t.Errorf("Parameters = %q", op.Parameters)
	}
}

package compose

import (
	"errors"
	"testing"

	"vagas-go/internal/testutil"
)

func TestSelection_Cap(t *testing.T) {
	jobs := testutil.Jobs(MaxSelection + 2)
	var sel Selection

	rejected := 0
	for _, j := range jobs {
		err := sel.Add(j)
		switch {
		case errors.Is(err, ErrSelectionLimit):
			rejected++
		case err != nil:
			t.Fatalf("Add(%s) error = %v", j.ID, err)
		}
	}
	if rejected != 2 {
		t.Errorf("rejected %d adds, want the 19th and 20th", rejected)
	}
	if sel.Len() != MaxSelection {
		t.Errorf("Len() = %d, want %d", sel.Len(), MaxSelection)
	}
	for _, j := range jobs[MaxSelection:] {
		if sel.Contains(j.ID) {
			t.Errorf("job %s selected beyond the cap", j.ID)
		}
	}

	// A full carousel is the cover, eighteen jobs and the back slide.
	slides := BuildSlides(sel.Jobs(), NewPicker(1), nil)
	if len(slides) != 20 {
		t.Errorf("BuildSlides() = %d slides, want 20", len(slides))
	}
}

func TestSelection_AddIsIdempotent(t *testing.T) {
	job := testutil.AnalistaFinanceiro()
	var sel Selection
	_ = sel.Add(job)
	_ = sel.Add(job)
	if sel.Len() != 1 {
		t.Errorf("Len() = %d, want 1", sel.Len())
	}
}

func TestSelection_ToggleAndOrder(t *testing.T) {
	jobs := testutil.Jobs(3)
	var sel Selection
	for _, j := range jobs {
		if on, err := sel.Toggle(j); err != nil || !on {
			t.Fatalf("Toggle(%s) = %v, %v", j.ID, on, err)
		}
	}

	if on, err := sel.Toggle(jobs[1]); err != nil || on {
		t.Fatalf("Toggle() on selected job = %v, %v; want false", on, err)
	}
	if sel.Contains(jobs[1].ID) {
		t.Error("Contains() after toggle off = true")
	}

	got := sel.Jobs()
	if len(got) != 2 || got[0].ID != jobs[0].ID || got[1].ID != jobs[2].ID {
		t.Errorf("Jobs() = %v, want selection order kept", got)
	}

	if sel.Remove("missing") {
		t.Error("Remove(missing) = true")
	}
	sel.Clear()
	if sel.Len() != 0 {
		t.Error("Clear() left jobs selected")
	}
}

func TestSelection_ToggleAtCap(t *testing.T) {
	jobs := testutil.Jobs(MaxSelection + 1)
	var sel Selection
	for _, j := range jobs[:MaxSelection] {
		_ = sel.Add(j)
	}
	on, err := sel.Toggle(jobs[MaxSelection])
	if !errors.Is(err, ErrSelectionLimit) || on {
		t.Errorf("Toggle() at cap = %v, %v; want false, ErrSelectionLimit", on, err)
	}
}

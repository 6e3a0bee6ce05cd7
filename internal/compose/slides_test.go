package compose

import (
	"slices"
	"testing"
	"time"

	"vagas-go/internal/testutil"
	"vagas-go/internal/vagas"
)

func libraryImage(id string, tags ...vagas.Tag) vagas.LibraryImage {
	return vagas.LibraryImage{
		ID:        id,
		URL:       "https://x/" + id + ".jpg",
		Tags:      tags,
		Custom:    true,
		CreatedAt: time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestBuildSlides_Order(t *testing.T) {
	jobs := testutil.Jobs(3)
	images := []vagas.LibraryImage{libraryImage("a", vagas.TagWoman)}

	slides := BuildSlides(jobs, NewPicker(7), images)

	want := []string{"slide-cover", "slide-job-1001", "slide-job-1002", "slide-job-1003", "slide-back"}
	if len(slides) != len(want) {
		t.Fatalf("BuildSlides() = %d slides, want %d", len(slides), len(want))
	}
	for i, s := range slides {
		if s.ID != want[i] {
			t.Errorf("slides[%d].ID = %q, want %q", i, s.ID, want[i])
		}
	}
	for _, s := range slides[1:4] {
		if s.PhotoURL != "https://x/a.jpg" {
			t.Errorf("%s photo = %q, want the only tagged image", s.ID, s.PhotoURL)
		}
	}
}

func TestPicker_SkipsUntaggedImages(t *testing.T) {
	p := NewPicker(3)
	images := []vagas.LibraryImage{libraryImage("untagged")}

	for range 20 {
		got := p.Pick(images, nil)
		if !slices.Contains(vagas.StockPhotos, got) {
			t.Fatalf("Pick() = %q, want a stock photo", got)
		}
	}
}

func TestPicker_FiltersByTags(t *testing.T) {
	p := NewPicker(11)
	images := []vagas.LibraryImage{
		libraryImage("man", vagas.TagMan),
		libraryImage("woman", vagas.TagWoman),
		libraryImage("woman-50", vagas.TagWoman, vagas.TagOver50),
	}

	for range 20 {
		got := p.Pick(images, []vagas.Tag{vagas.TagWoman, vagas.TagOver50})
		if got != "https://x/woman-50.jpg" {
			t.Fatalf("Pick() = %q, want the only image with both tags", got)
		}
	}
}

func TestPicker_FallsBackToAnyTaggedImage(t *testing.T) {
	p := NewPicker(5)
	images := []vagas.LibraryImage{libraryImage("man", vagas.TagMan)}

	if got := p.Pick(images, []vagas.Tag{vagas.TagIndigenous}); got != "https://x/man.jpg" {
		t.Errorf("Pick() = %q, want the tagged fallback", got)
	}
}

func TestPicker_Reproducible(t *testing.T) {
	images := []vagas.LibraryImage{
		libraryImage("a", vagas.TagMan),
		libraryImage("b", vagas.TagMan),
		libraryImage("c", vagas.TagMan),
	}
	a, b := NewPicker(42), NewPicker(42)
	for i := range 10 {
		if x, y := a.Pick(images, nil), b.Pick(images, nil); x != y {
			t.Fatalf("draw %d differs: %q vs %q", i, x, y)
		}
	}
}

func TestPicker_PickForAffirmative(t *testing.T) {
	p := NewPicker(9)
	images := []vagas.LibraryImage{
		libraryImage("man", vagas.TagMan),
		libraryImage("pcd", vagas.TagDisability),
	}
	slide := vagas.JobSlide(testutil.AnalistaFinanceiro(), "")
	slide.Overrides = vagas.Overrides{Affirmative: vagas.Ptr(true), Audience: vagas.Ptr("PCD")}

	for range 10 {
		if got := p.PickFor(slide, images); got != "https://x/pcd.jpg" {
			t.Fatalf("PickFor() = %q, want the PCD image", got)
		}
	}
}

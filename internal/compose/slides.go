package compose

import (
	"math/rand/v2"
	"sync"

	"vagas-go/internal/vagas"
)

// Picker draws slide photos at random from the image library.
type Picker struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewPicker returns a Picker whose draws are reproducible for seed.
func NewPicker(seed uint64) *Picker {
	return &Picker{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Pick returns the URL of a random image carrying every active tag. When
// none matches it falls back to any tagged image, then to the stock photos.
func (p *Picker) Pick(images []vagas.LibraryImage, active []vagas.Tag) string {
	candidates := vagas.FilterByTags(images, active)
	if len(candidates) == 0 && len(active) > 0 {
		candidates = vagas.FilterByTags(images, nil)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if len(candidates) == 0 {
		return vagas.StockPhotos[p.rng.IntN(len(vagas.StockPhotos))]
	}
	return candidates[p.rng.IntN(len(candidates))].URL
}

// PickFor draws a photo suited to slide: affirmative slides prefer images
// tagged with their audience.
func (p *Picker) PickFor(slide vagas.SlideConfig, images []vagas.LibraryImage) string {
	var active []vagas.Tag
	if slide.Overrides.IsAffirmative() && slide.Overrides.Audience != nil {
		if tag, ok := AudienceTag(*slide.Overrides.Audience); ok {
			active = []vagas.Tag{tag}
		}
	}
	return p.Pick(images, active)
}

// BuildSlides lays out a carousel: the cover, one slide per job in order
// and the back slide.
func BuildSlides(jobs []vagas.JobPosting, picker *Picker, images []vagas.LibraryImage) []vagas.SlideConfig {
	slides := make([]vagas.SlideConfig, 0, len(jobs)+2)
	slides = append(slides, vagas.CoverSlide())
	for _, job := range jobs {
		slides = append(slides, vagas.JobSlide(job, picker.Pick(images, nil)))
	}
	slides = append(slides, vagas.BackSlide())
	return slides
}

package compose

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"vagas-go/internal/vagas"
)

// Brand colors shared by the layouts.
const (
	ColorPurple        = "#481468"
	ColorVibrantPurple = "#aa3ffe"
	ColorPink          = "#F42C9F"
	ColorGreen         = "#a3e635"
	ColorOrange        = "#ff6b00"
)

// DefaultScale is the supersampling factor of carousel slides.
const DefaultScale = 1.5

//go:embed templates/*.html
var templateFiles embed.FS

// Assets are the shared images every slide may reference. Values are URLs
// or data URIs.
type Assets struct {
	Background string
	Logo       string
	Cover      string
	Back       string
}

// Renderer turns resolved slides into self-contained HTML documents.
type Renderer struct {
	tmpl  *template.Template
	Scale float64
}

// NewRenderer parses the embedded layouts.
func NewRenderer() (*Renderer, error) {
	tmpl, err := template.ParseFS(templateFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing slide templates: %w", err)
	}
	return &Renderer{tmpl: tmpl, Scale: DefaultScale}, nil
}

type view struct {
	Slide      ResolvedSlide
	Width      int
	Height     int
	Background template.URL
	Logo       template.URL
	Image      template.URL
}

// Render produces the document for s. The slide's root element carries s.ID.
func (r *Renderer) Render(s ResolvedSlide, assets Assets) (vagas.Document, error) {
	v := view{
		Slide:      s,
		Width:      vagas.CanvasWidth,
		Height:     vagas.CanvasHeight,
		Background: template.URL(assets.Background),
		Logo:       template.URL(assets.Logo),
	}

	var layout string
	switch s.Kind {
	case vagas.SlideCover:
		layout = "cover"
		v.Image = template.URL(assets.Cover)
	case vagas.SlideBack:
		layout = "back"
		v.Image = template.URL(assets.Back)
	case vagas.SlideJob:
		layout = "standard"
		if s.Affirmative {
			layout = "affirmative"
		}
		v.Image = template.URL(s.PhotoURL)
	default:
		return vagas.Document{}, fmt.Errorf("slide %s has unknown kind %q: %w", s.ID, s.Kind, vagas.ErrSlideUnavailable)
	}

	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, layout, v); err != nil {
		return vagas.Document{}, fmt.Errorf("rendering slide %s: %w", s.ID, err)
	}

	return vagas.Document{
		HTML:   buf.String(),
		Width:  vagas.CanvasWidth,
		Height: vagas.CanvasHeight,
		Scale:  r.Scale,
		NodeID: s.ID,
	}, nil
}

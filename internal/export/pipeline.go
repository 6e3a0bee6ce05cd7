// Package export rasterizes composed slides and packages them as a ZIP
// for Instagram, a PDF for LinkedIn or a single PNG card.
package export

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"vagas-go/internal/assets"
	"vagas-go/internal/compose"
	"vagas-go/internal/vagas"
)

// State is the pipeline lifecycle state.
type State string

const (
	StateReview     State = "review"
	StateGenerating State = "generating"
)

// Format selects the carousel package.
type Format string

const (
	FormatZIP Format = "zip"
	FormatPDF Format = "pdf"
)

// ParseFormat validates s, defaulting to ZIP.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "", FormatZIP:
		return FormatZIP, nil
	case FormatPDF:
		return FormatPDF, nil
	}
	return "", fmt.Errorf("unknown export format %q", s)
}

const (
	DefaultCampaignName   = "Vagas da Semana"
	DefaultCardFilePrefix = "vaga-metarh"
	CardScale             = 2.0
)

var (
	// ErrBusy is returned while another export is generating.
	ErrBusy = errors.New("an export is already in progress")

	// ErrAssetsNotReady is returned until the shared brand images are loaded.
	ErrAssetsNotReady = errors.New("brand assets are not loaded yet")

	// ErrNothingExported is returned when every slide was skipped.
	ErrNothingExported = errors.New("no slide could be exported")
)

// Progress is reported as the export advances.
type Progress struct {
	Percent int
	Status  string
}

// PhotoInliner replaces slide photo URLs with embeddable data.
type PhotoInliner interface {
	InlinePhotos(ctx context.Context, slides []vagas.SlideConfig) []vagas.SlideConfig
}

// Options tune a Pipeline. Every field is optional.
type Options struct {
	Brand          compose.Brand
	CardFilePrefix string
	Photos         PhotoInliner
	Clock          vagas.Clock
	// OnProgress is called synchronously on every progress step.
	OnProgress func(Progress)
	// OnSuccess receives the number of jobs exported.
	OnSuccess func(jobs int)
}

// Pipeline runs one export at a time.
type Pipeline struct {
	renderer *compose.Renderer
	raster   vagas.Rasterizer
	logger   vagas.Logger
	opts     Options

	mu     sync.Mutex
	state  State
	assets assets.Set
}

// NewPipeline creates a Pipeline in the review state.
func NewPipeline(renderer *compose.Renderer, raster vagas.Rasterizer, logger vagas.Logger, opts Options) *Pipeline {
	if logger == nil {
		logger = vagas.NewNopLogger()
	}
	if opts.CardFilePrefix == "" {
		opts.CardFilePrefix = DefaultCardFilePrefix
	}
	if opts.Clock == nil {
		opts.Clock = vagas.RealClock{}
	}
	return &Pipeline{
		renderer: renderer,
		raster:   raster,
		logger:   logger,
		opts:     opts,
		state:    StateReview,
	}
}

// SetAssets installs the shared brand images.
func (p *Pipeline) SetAssets(set assets.Set) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.assets = set
}

// State returns the current lifecycle state.
func (p *Pipeline) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Export rasterizes slides in order and packages them as format. Slides
// that are unavailable or whose node is missing are skipped; any other
// failure aborts without an artifact.
func (p *Pipeline) Export(ctx context.Context, slides []vagas.SlideConfig, format Format, name string) (*Artifact, error) {
	set, err := p.begin(func(s assets.Set) bool { return s.Ready() })
	if err != nil {
		return nil, err
	}
	defer p.finish()

	if name == "" {
		name = DefaultCampaignName
	}
	p.progress(5, "Preparando renderizador...")

	if p.opts.Photos != nil {
		slides = p.opts.Photos.InlinePhotos(ctx, slides)
	}

	var images []slideImage
	jobPos := 0
	n := len(slides)
	for i, s := range slides {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("export cancelled: %w", err)
		}
		if s.Kind == vagas.SlideJob {
			jobPos++
		}
		p.progress(5+i*60/n, "Renderizando "+statusLabel(s, i))

		png, err := p.rasterize(ctx, s, set, compose.DefaultScale)
		if errors.Is(err, vagas.ErrSlideUnavailable) || errors.Is(err, vagas.ErrNodeMissing) {
			p.logger.Warn("skipping slide", "slide", s.ID, "error", err)
			continue
		}
		if err != nil {
			p.logger.Error("export failed", "slide", s.ID, "error", err)
			return nil, fmt.Errorf("exporting slide %s: %w", s.ID, err)
		}
		images = append(images, slideImage{role: role(s, jobPos), png: png, job: s.Kind == vagas.SlideJob})
	}
	if len(images) == 0 {
		return nil, ErrNothingExported
	}

	art := &Artifact{Images: len(images)}
	for _, img := range images {
		if img.job {
			art.JobSlides++
		}
	}

	switch format {
	case FormatPDF:
		p.progress(80, "Criando arquivo PDF para LinkedIn...")
		html, err := pdfDocument(images)
		if err != nil {
			return nil, err
		}
		data, err := p.raster.PrintPDF(ctx, html, vagas.CanvasWidth, vagas.CanvasHeight)
		if err != nil {
			return nil, fmt.Errorf("printing pdf: %w", err)
		}
		art.Name, art.Data, art.ContentType = fileName(name)+".pdf", data, "application/pdf"
	default:
		p.progress(80, "Criando arquivo ZIP para Instagram...")
		data, err := buildZIP(images, p.opts.Clock.Now())
		if err != nil {
			return nil, err
		}
		art.Name, art.Data, art.ContentType = fileName(name)+".zip", data, "application/zip"
	}

	p.progress(100, "Concluído!")
	p.logger.Info("export complete", "artifact", art.Name, "images", art.Images, "jobs", art.JobSlides)
	if p.opts.OnSuccess != nil {
		p.opts.OnSuccess(art.JobSlides)
	}
	return art, nil
}

// ExportCard rasterizes a single job slide as a PNG at CardScale.
func (p *Pipeline) ExportCard(ctx context.Context, slide vagas.SlideConfig) (*Artifact, error) {
	set, err := p.begin(func(s assets.Set) bool { return s.Background != "" && s.Logo != "" })
	if err != nil {
		return nil, err
	}
	defer p.finish()

	if p.opts.Photos != nil {
		slide = p.opts.Photos.InlinePhotos(ctx, []vagas.SlideConfig{slide})[0]
	}

	png, err := p.rasterize(ctx, slide, set, CardScale)
	if err != nil {
		p.logger.Error("card export failed", "slide", slide.ID, "error", err)
		return nil, fmt.Errorf("exporting card %s: %w", slide.ID, err)
	}

	id := slide.ID
	if slide.Job != nil {
		id = slide.Job.ID
	}
	art := &Artifact{
		Name:        fileName(p.opts.CardFilePrefix+"-"+id) + ".png",
		Data:        png,
		ContentType: "image/png",
		Images:      1,
		JobSlides:   1,
	}
	p.logger.Info("card exported", "artifact", art.Name)
	if p.opts.OnSuccess != nil {
		p.opts.OnSuccess(1)
	}
	return art, nil
}

func (p *Pipeline) begin(ready func(assets.Set) bool) (assets.Set, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !ready(p.assets) {
		return assets.Set{}, ErrAssetsNotReady
	}
	if p.state == StateGenerating {
		return assets.Set{}, ErrBusy
	}
	p.state = StateGenerating
	return p.assets, nil
}

func (p *Pipeline) finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state = StateReview
}

func (p *Pipeline) rasterize(ctx context.Context, s vagas.SlideConfig, set assets.Set, scale float64) ([]byte, error) {
	resolved, err := compose.Resolve(s, p.opts.Brand)
	if err != nil {
		return nil, err
	}
	doc, err := p.renderer.Render(resolved, set.Assets())
	if err != nil {
		return nil, err
	}
	doc.Scale = scale
	return p.raster.Rasterize(ctx, doc)
}

func (p *Pipeline) progress(percent int, status string) {
	p.logger.Debug("export progress", "percent", percent, "status", status)
	if p.opts.OnProgress != nil {
		p.opts.OnProgress(Progress{Percent: percent, Status: status})
	}
}

func statusLabel(s vagas.SlideConfig, index int) string {
	switch s.Kind {
	case vagas.SlideCover:
		return "Capa"
	case vagas.SlideBack:
		return "Contra-Capa"
	default:
		return "Vaga " + strconv.Itoa(index)
	}
}

func role(s vagas.SlideConfig, jobPos int) string {
	switch s.Kind {
	case vagas.SlideCover:
		return "Capa"
	case vagas.SlideBack:
		return "Contra-Capa"
	default:
		return "Vaga_" + strconv.Itoa(jobPos)
	}
}

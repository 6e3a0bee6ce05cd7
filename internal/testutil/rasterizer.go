package testutil

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"strings"
	"sync"

	"vagas-go/internal/vagas"
)

// FakeRasterizer records documents and returns a tiny PNG for each.
// Documents whose HTML contains a string in Missing fail with
// vagas.ErrNodeMissing; those containing a key of Fail fail with its error.
type FakeRasterizer struct {
	mu      sync.Mutex
	Docs    []vagas.Document
	PDFs    []string
	Missing []string
	Fail    map[string]error
	Closed  bool
}

var _ vagas.Rasterizer = (*FakeRasterizer)(nil)

func NewFakeRasterizer() *FakeRasterizer {
	return &FakeRasterizer{Fail: map[string]error{}}
}

func (r *FakeRasterizer) Rasterize(ctx context.Context, doc vagas.Document) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, m := range r.Missing {
		if strings.Contains(doc.HTML, m) {
			return nil, fmt.Errorf("rasterizing %s: %w", doc.NodeID, vagas.ErrNodeMissing)
		}
	}
	for marker, err := range r.Fail {
		if strings.Contains(doc.HTML, marker) {
			return nil, err
		}
	}

	r.Docs = append(r.Docs, doc)
	return TinyPNG(), nil
}

func (r *FakeRasterizer) PrintPDF(_ context.Context, html string, _, _ int) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.PDFs = append(r.PDFs, html)
	return []byte("%PDF-1.4\n%fake\n"), nil
}

func (r *FakeRasterizer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Closed = true
	return nil
}

// Rendered returns a copy of the rasterized documents.
func (r *FakeRasterizer) Rendered() []vagas.Document {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]vagas.Document(nil), r.Docs...)
}

// TinyPNG returns a valid 2x2 PNG.
func TinyPNG() []byte {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{0x48, 0x14, 0x68, 0xff})
	var buf bytes.Buffer
	_ = png.Encode(&buf, img)
	return buf.Bytes()
}

package vagas

import "context"

// Canvas dimensions of every slide, in CSS pixels.
const (
	CanvasWidth  = 1080
	CanvasHeight = 1350
)

// Document is a self-contained HTML page ready for rasterization.
type Document struct {
	HTML   string
	Width  int
	Height int
	// Scale is the device pixel ratio used for supersampling.
	Scale float64
	// NodeID is the element that must be captured.
	NodeID string
}

// Rasterizer turns documents into images and image sequences into PDFs.
type Rasterizer interface {
	// Rasterize returns a PNG of doc.NodeID once the document signals that
	// rendering is complete. It returns ErrNodeMissing when the node does
	// not exist.
	Rasterize(ctx context.Context, doc Document) ([]byte, error)
	// PrintPDF prints html to a PDF whose pages are width x height pixels.
	PrintPDF(ctx context.Context, html string, width, height int) ([]byte, error)
	Close() error
}

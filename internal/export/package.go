package export

import (
	"archive/zip"
	"bytes"
	"fmt"
	"html/template"
	"time"

	"vagas-go/internal/assets"
	"vagas-go/internal/vagas"
)

// slideImage is one rasterized slide awaiting packaging.
type slideImage struct {
	role string
	png  []byte
	job  bool
}

func (s slideImage) entryName(seq int) string {
	return fmt.Sprintf("%02d_%s.png", seq, s.role)
}

func buildZIP(images []slideImage, modified time.Time) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for i, img := range images {
		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:     img.entryName(i + 1),
			Method:   zip.Deflate,
			Modified: modified,
		})
		if err != nil {
			return nil, fmt.Errorf("adding %s: %w", img.entryName(i+1), err)
		}
		if _, err := w.Write(img.png); err != nil {
			return nil, fmt.Errorf("writing %s: %w", img.entryName(i+1), err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("closing zip: %w", err)
	}
	return buf.Bytes(), nil
}

var pdfTemplate = template.Must(template.New("pdf").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
  @page { size: {{.Width}}px {{.Height}}px; margin: 0; }
  html, body { margin: 0; padding: 0; }
  .page { width: {{.Width}}px; height: {{.Height}}px; overflow: hidden; break-after: page; }
  .page:last-child { break-after: auto; }
  .page img { display: block; width: 100%; height: 100%; object-fit: cover; }
</style>
</head>
<body>
{{range .Pages}}<div class="page"><img src="{{.}}" alt=""></div>
{{end}}</body>
</html>
`))

// pdfDocument lays out one full-bleed page per image.
func pdfDocument(images []slideImage) (string, error) {
	pages := make([]template.URL, len(images))
	for i, img := range images {
		pages[i] = template.URL(assets.Encode(img.png, "image/png"))
	}

	var buf bytes.Buffer
	err := pdfTemplate.Execute(&buf, struct {
		Width, Height int
		Pages         []template.URL
	}{vagas.CanvasWidth, vagas.CanvasHeight, pages})
	if err != nil {
		return "", fmt.Errorf("building pdf document: %w", err)
	}
	return buf.String(), nil
}

package library

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"
)

func pngImage(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for x := range w {
		img.Set(x, 0, color.NRGBA{0xaa, 0x3f, 0xfe, 0xff})
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode() error = %v", err)
	}
	return buf.Bytes()
}

func TestCompress(t *testing.T) {
	tests := []struct {
		name  string
		w, h  int
		wantW int
		wantH int
	}{
		{name: "wide image is scaled down", w: 2160, h: 2700, wantW: 1080, wantH: 1350},
		{name: "small image keeps size", w: 640, h: 480, wantW: 640, wantH: 480},
		{name: "exact width", w: 1080, h: 100, wantW: 1080, wantH: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Compress(bytes.NewReader(pngImage(t, tt.w, tt.h)))
			if err != nil {
				t.Fatalf("Compress() error = %v", err)
			}

			cfg, err := jpeg.DecodeConfig(bytes.NewReader(out))
			if err != nil {
				t.Fatalf("output is not a jpeg: %v", err)
			}
			if cfg.Width != tt.wantW || cfg.Height != tt.wantH {
				t.Errorf("Compress() size = %dx%d, want %dx%d", cfg.Width, cfg.Height, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestCompress_RejectsNonImage(t *testing.T) {
	if _, err := Compress(strings.NewReader("not an image")); err == nil {
		t.Error("Compress() expected error for non-image input")
	}
}

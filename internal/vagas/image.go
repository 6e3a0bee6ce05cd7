package vagas

import (
	"context"
	"fmt"
	"io"
	"slices"
	"time"
)

// Tag is a demographic or category label on a library image.
type Tag string

const (
	TagMan        Tag = "Homem"
	TagWoman      Tag = "Mulher"
	TagBlack      Tag = "Negros"
	TagOver50     Tag = "50+"
	TagLGBTQIAPN  Tag = "LGBTQIAPN+"
	TagDisability Tag = "PCD"
	TagIndigenous Tag = "Indígenas"
	TagYoung      Tag = "Jovem"
)

// AllTags lists the fixed tag enumeration in display order.
var AllTags = []Tag{TagMan, TagWoman, TagBlack, TagOver50, TagLGBTQIAPN, TagDisability, TagIndigenous, TagYoung}

// ParseTag validates s against the tag enumeration.
func ParseTag(s string) (Tag, error) {
	for _, t := range AllTags {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown tag %q", s)
}

// ParseTags validates every entry of ss and drops duplicates.
func ParseTags(ss []string) ([]Tag, error) {
	var out []Tag
	for _, s := range ss {
		t, err := ParseTag(s)
		if err != nil {
			return nil, err
		}
		if !slices.Contains(out, t) {
			out = append(out, t)
		}
	}
	return out, nil
}

// LibraryImage is a photo available for job slides.
type LibraryImage struct {
	ID        string    `json:"id"`
	URL       string    `json:"url"`
	BlobKey   string    `json:"blob_key,omitempty"`
	Tags      []Tag     `json:"tags"`
	Custom    bool      `json:"isCustom"`
	CreatedAt time.Time `json:"created_at"`
}

// NeedsCategorization reports whether the image has no tags yet.
func (i LibraryImage) NeedsCategorization() bool { return len(i.Tags) == 0 }

// HasTags reports whether the image carries every tag in want.
func (i LibraryImage) HasTags(want []Tag) bool {
	for _, t := range want {
		if !slices.Contains(i.Tags, t) {
			return false
		}
	}
	return true
}

// FilterByTags returns the images carrying every active tag. Images with
// no tags are never returned, even when active is empty.
func FilterByTags(images []LibraryImage, active []Tag) []LibraryImage {
	var out []LibraryImage
	for _, img := range images {
		if img.NeedsCategorization() || !img.HasTags(active) {
			continue
		}
		out = append(out, img)
	}
	return out
}

// ImageRecords persists library image metadata.
type ImageRecords interface {
	ListImages(ctx context.Context) ([]LibraryImage, error)
	GetImage(ctx context.Context, id string) (*LibraryImage, error)
	InsertImage(ctx context.Context, img LibraryImage) error
	UpdateImageTags(ctx context.Context, id string, tags []Tag) error
	DeleteImage(ctx context.Context, id string) error
}

// BlobStore holds the bytes behind library images.
type BlobStore interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Get(ctx context.Context, key string, w io.Writer) error
	Delete(ctx context.Context, key string) error
	// URL returns the address slides use to reference the stored object.
	URL(key string) string
}

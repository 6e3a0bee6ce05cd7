// Package library manages the photo library used on job slides: records
// in SQLite (or the local JSON fallback) and image bytes in a blob store.
package library

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"vagas-go/internal/vagas"
)

// ErrNotConfigured is returned when the library has no record backend.
var ErrNotConfigured = errors.New("image library not configured")

// Library is the image library service.
type Library struct {
	records vagas.ImageRecords
	blobs   vagas.BlobStore // nil stores uploads as data URIs
	clock   vagas.Clock
	ids     vagas.IDGenerator
	logger  vagas.Logger
}

// New creates a Library. blobs may be nil.
func New(records vagas.ImageRecords, blobs vagas.BlobStore, clock vagas.Clock, ids vagas.IDGenerator, logger vagas.Logger) *Library {
	return &Library{
		records: records,
		blobs:   blobs,
		clock:   clock,
		ids:     ids,
		logger:  logger,
	}
}

// List returns every image in insertion order.
func (l *Library) List(ctx context.Context) ([]vagas.LibraryImage, error) {
	if l.records == nil {
		return nil, ErrNotConfigured
	}
	images, err := l.records.ListImages(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing library: %w", err)
	}
	return images, nil
}

// Upload compresses one image and adds it to the library as a custom,
// untagged photo.
func (l *Library) Upload(ctx context.Context, name string, r io.Reader) (*vagas.LibraryImage, error) {
	if l.records == nil {
		return nil, ErrNotConfigured
	}

	data, err := Compress(r)
	if err != nil {
		return nil, fmt.Errorf("compressing %s: %w", name, err)
	}

	img := vagas.LibraryImage{
		ID:        l.ids.New(),
		Custom:    true,
		CreatedAt: l.clock.Now().UTC(),
	}

	if l.blobs != nil {
		img.BlobKey = "library/" + img.ID + ".jpg"
		if err := l.blobs.Put(ctx, img.BlobKey, bytes.NewReader(data), int64(len(data)), "image/jpeg"); err != nil {
			return nil, fmt.Errorf("storing %s: %w", name, err)
		}
		img.URL = l.blobs.URL(img.BlobKey)
	} else {
		img.URL = "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(data)
	}

	if err := l.records.InsertImage(ctx, img); err != nil {
		if img.BlobKey != "" {
			if delErr := l.blobs.Delete(ctx, img.BlobKey); delErr != nil {
				l.logger.Warn("failed to remove orphaned blob", "key", img.BlobKey, "error", delErr)
			}
		}
		return nil, fmt.Errorf("saving %s: %w", name, err)
	}

	l.logger.Info("image uploaded", "id", img.ID, "name", name, "bytes", len(data))
	return &img, nil
}

// File is one entry of a batch upload.
type File struct {
	Name   string
	Reader io.Reader
}

// FileError records why one file of a batch was rejected.
type FileError struct {
	Name string
	Err  error
}

func (e FileError) Error() string { return e.Name + ": " + e.Err.Error() }

// BatchResult is the outcome of UploadBatch.
type BatchResult struct {
	Added  []vagas.LibraryImage
	Failed []FileError
}

// UploadBatch uploads every file, collecting per-file failures instead of
// stopping at the first one.
func (l *Library) UploadBatch(ctx context.Context, files []File) BatchResult {
	var res BatchResult
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			res.Failed = append(res.Failed, FileError{Name: f.Name, Err: err})
			continue
		}
		img, err := l.Upload(ctx, f.Name, f.Reader)
		if err != nil {
			l.logger.Warn("upload failed", "name", f.Name, "error", err)
			res.Failed = append(res.Failed, FileError{Name: f.Name, Err: err})
			continue
		}
		res.Added = append(res.Added, *img)
	}
	return res
}

// SetTags replaces the tags of an image.
func (l *Library) SetTags(ctx context.Context, id string, tags []vagas.Tag) error {
	if l.records == nil {
		return ErrNotConfigured
	}
	if err := l.records.UpdateImageTags(ctx, id, tags); err != nil {
		return fmt.Errorf("tagging image: %w", err)
	}
	return nil
}

// Remove deletes an image record, then its blob. A blob that cannot be
// deleted is logged and left behind.
func (l *Library) Remove(ctx context.Context, id string) error {
	if l.records == nil {
		return ErrNotConfigured
	}

	img, err := l.records.GetImage(ctx, id)
	if err != nil {
		return fmt.Errorf("loading image: %w", err)
	}
	if img == nil {
		return fmt.Errorf("image %s: %w", id, vagas.ErrNotFound)
	}

	if err := l.records.DeleteImage(ctx, id); err != nil {
		return fmt.Errorf("removing image: %w", err)
	}

	if img.BlobKey != "" && l.blobs != nil {
		if err := l.blobs.Delete(ctx, img.BlobKey); err != nil {
			l.logger.Warn("failed to delete image blob", "id", id, "key", img.BlobKey, "error", err)
		}
	}
	l.logger.Info("image removed", "id", id)
	return nil
}

// Seed adds the built-in stock photos that are not in the library yet and
// returns how many were inserted.
func (l *Library) Seed(ctx context.Context) (int, error) {
	existing, err := l.List(ctx)
	if err != nil {
		return 0, err
	}
	have := make(map[string]bool, len(existing))
	for _, img := range existing {
		have[img.URL] = true
	}

	now := l.clock.Now().UTC()
	added := 0
	for i, url := range vagas.StockPhotos {
		if have[url] {
			continue
		}
		img := vagas.LibraryImage{
			ID:        fmt.Sprintf("stock-%02d", i+1),
			URL:       url,
			CreatedAt: now,
		}
		if err := l.records.InsertImage(ctx, img); err != nil {
			return added, fmt.Errorf("seeding %s: %w", img.ID, err)
		}
		added++
	}
	if added > 0 {
		l.logger.Info("library seeded", "added", added)
	}
	return added, nil
}

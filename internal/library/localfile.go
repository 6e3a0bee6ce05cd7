package library

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"vagas-go/internal/vagas"
)

// localState is the on-disk layout of the fallback file.
type localState struct {
	CustomImages []vagas.LibraryImage `json:"custom_images"`
	UsageCount   int64                `json:"usage_count"`
}

// LocalFile keeps library records and the usage counter in a single JSON
// file. It is the fallback when no database is configured. An empty path
// keeps everything in memory.
type LocalFile struct {
	mu    sync.Mutex
	path  string
	state localState
}

var _ Store = (*LocalFile)(nil)

// OpenLocalFile loads path, starting empty when the file does not exist.
func OpenLocalFile(path string) (*LocalFile, error) {
	lf := &LocalFile{path: path}
	if path == "" {
		return lf, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return lf, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if len(data) == 0 {
		return lf, nil
	}
	if err := json.Unmarshal(data, &lf.state); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return lf, nil
}

func (l *LocalFile) ListImages(_ context.Context) ([]vagas.LibraryImage, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]vagas.LibraryImage, len(l.state.CustomImages))
	for i, img := range l.state.CustomImages {
		img.Tags = slices.Clone(img.Tags)
		out[i] = img
	}
	return out, nil
}

func (l *LocalFile) GetImage(_ context.Context, id string) (*vagas.LibraryImage, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.index(id)
	if i < 0 {
		return nil, nil
	}
	img := l.state.CustomImages[i]
	img.Tags = slices.Clone(img.Tags)
	return &img, nil
}

func (l *LocalFile) InsertImage(_ context.Context, img vagas.LibraryImage) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.index(img.ID) >= 0 {
		return fmt.Errorf("image %s already exists", img.ID)
	}
	for _, existing := range l.state.CustomImages {
		if existing.URL == img.URL {
			return fmt.Errorf("image with url %s already exists", img.URL)
		}
	}

	img.Tags = slices.Clone(img.Tags)
	l.state.CustomImages = append(l.state.CustomImages, img)
	return l.save()
}

func (l *LocalFile) UpdateImageTags(_ context.Context, id string, tags []vagas.Tag) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.index(id)
	if i < 0 {
		return fmt.Errorf("image %s: %w", id, vagas.ErrNotFound)
	}
	l.state.CustomImages[i].Tags = slices.Clone(tags)
	return l.save()
}

func (l *LocalFile) DeleteImage(_ context.Context, id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.index(id)
	if i < 0 {
		return fmt.Errorf("image %s: %w", id, vagas.ErrNotFound)
	}
	l.state.CustomImages = slices.Delete(l.state.CustomImages, i, i+1)
	return l.save()
}

// LoadCount returns the stored usage count.
func (l *LocalFile) LoadCount(_ context.Context) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state.UsageCount, nil
}

// SaveCount overwrites the stored usage count.
func (l *LocalFile) SaveCount(_ context.Context, count int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.state.UsageCount = count
	return l.save()
}

// Path returns the backing file, or "" for a memory-only store.
func (l *LocalFile) Path() string { return l.path }

func (l *LocalFile) Close() error { return nil }

func (l *LocalFile) index(id string) int {
	return slices.IndexFunc(l.state.CustomImages, func(img vagas.LibraryImage) bool {
		return img.ID == id
	})
}

// save writes the state atomically. Callers hold l.mu.
func (l *LocalFile) save() error {
	if l.path == "" {
		return nil
	}

	data, err := json.MarshalIndent(l.state, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding local library: %w", err)
	}

	dir := filepath.Dir(l.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing local library: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, l.path); err != nil {
		return fmt.Errorf("replacing %s: %w", l.path, err)
	}
	success = true
	return nil
}

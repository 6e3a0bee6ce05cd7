package library

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"vagas-go/internal/vagas"
)

func TestLocalFile_PersistsImagesAndCount(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "local.json")

	lf, err := OpenLocalFile(path)
	if err != nil {
		t.Fatalf("OpenLocalFile() error = %v", err)
	}

	img := vagas.LibraryImage{ID: "a", URL: "https://x/a.jpg", Custom: true, CreatedAt: time.Date(2025, 11, 3, 0, 0, 0, 0, time.UTC)}
	if err := lf.InsertImage(ctx, img); err != nil {
		t.Fatalf("InsertImage() error = %v", err)
	}
	if err := lf.UpdateImageTags(ctx, "a", []vagas.Tag{vagas.TagWoman}); err != nil {
		t.Fatalf("UpdateImageTags() error = %v", err)
	}
	if err := lf.SaveCount(ctx, 12); err != nil {
		t.Fatalf("SaveCount() error = %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading file: %v", err)
	}
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(raw, &keys); err != nil {
		t.Fatalf("file is not JSON: %v", err)
	}
	for _, k := range []string{"custom_images", "usage_count"} {
		if _, ok := keys[k]; !ok {
			t.Errorf("file is missing key %q", k)
		}
	}

	reopened, err := OpenLocalFile(path)
	if err != nil {
		t.Fatalf("OpenLocalFile() reopen error = %v", err)
	}
	got, err := reopened.GetImage(ctx, "a")
	if err != nil || got == nil {
		t.Fatalf("GetImage() = %v, %v", got, err)
	}
	if len(got.Tags) != 1 || got.Tags[0] != vagas.TagWoman || !got.Custom {
		t.Errorf("GetImage() = %+v", got)
	}
	count, err := reopened.LoadCount(ctx)
	if err != nil || count != 12 {
		t.Errorf("LoadCount() = %d, %v, want 12", count, err)
	}
}

func TestLocalFile_Errors(t *testing.T) {
	ctx := context.Background()
	lf, err := OpenLocalFile("")
	if err != nil {
		t.Fatalf("OpenLocalFile() error = %v", err)
	}

	if img, err := lf.GetImage(ctx, "missing"); img != nil || err != nil {
		t.Errorf("GetImage(missing) = %v, %v, want nil, nil", img, err)
	}
	if err := lf.UpdateImageTags(ctx, "missing", nil); !errors.Is(err, vagas.ErrNotFound) {
		t.Errorf("UpdateImageTags(missing) error = %v, want ErrNotFound", err)
	}
	if err := lf.DeleteImage(ctx, "missing"); !errors.Is(err, vagas.ErrNotFound) {
		t.Errorf("DeleteImage(missing) error = %v, want ErrNotFound", err)
	}

	if err := lf.InsertImage(ctx, vagas.LibraryImage{ID: "a", URL: "u"}); err != nil {
		t.Fatalf("InsertImage() error = %v", err)
	}
	if err := lf.InsertImage(ctx, vagas.LibraryImage{ID: "b", URL: "u"}); err == nil {
		t.Error("InsertImage() expected error for duplicate url")
	}
}

func TestOpenLocalFile_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "local.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := OpenLocalFile(path); err == nil {
		t.Error("OpenLocalFile() expected error for corrupt file")
	}
}

package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Artifact is the downloadable result of an export.
type Artifact struct {
	Name        string
	Data        []byte
	ContentType string
	// Images is the number of slide images packaged.
	Images int
	// JobSlides is the number of job slides among them.
	JobSlides int
}

// Save writes the artifact into dir and returns its path. The file is
// written to a temporary name first and renamed into place.
func (a *Artifact) Save(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".export-*")
	if err != nil {
		return "", fmt.Errorf("creating temporary file: %w", err)
	}
	tmpPath := tmp.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(a.Data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("writing %s: %w", a.Name, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("closing %s: %w", a.Name, err)
	}

	path := filepath.Join(dir, a.Name)
	if err := os.Rename(tmpPath, path); err != nil {
		return "", fmt.Errorf("moving %s into place: %w", a.Name, err)
	}
	success = true
	return path, nil
}

// fileName makes name safe to use as a single path element.
func fileName(name string) string {
	name = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '-'
		}
		return r
	}, strings.TrimSpace(name))
	if name == "" || name == "." || name == ".." {
		return DefaultCampaignName
	}
	return name
}

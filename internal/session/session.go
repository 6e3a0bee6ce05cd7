// Package session reads carousel definitions from YAML or JSON files.
package session

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	"vagas-go/internal/compose"
	"vagas-go/internal/vagas"
)

//go:embed session.schema.json
var schema string

var schemaLoader = gojsonschema.NewStringLoader(schema)

// Job is one carousel entry.
type Job struct {
	ID        string          `yaml:"id" json:"id"`
	Photo     string          `yaml:"photo,omitempty" json:"photo,omitempty"`
	Overrides vagas.Overrides `yaml:"overrides,omitempty" json:"overrides,omitempty"`
}

// Session describes a carousel to export.
type Session struct {
	Name   string `yaml:"name,omitempty" json:"name,omitempty"`
	Format string `yaml:"format,omitempty" json:"format,omitempty"`
	Jobs   []Job  `yaml:"jobs" json:"jobs"`
}

// ValidationError lists every schema violation of a session document.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid session: " + strings.Join(e.Problems, "; ")
}

// Parse validates data against the session schema and decodes it. JSON
// documents are accepted as YAML.
func Parse(data []byte) (*Session, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding session: %w", err)
	}
	if doc == nil {
		return nil, &ValidationError{Problems: []string{"document is empty"}}
	}
	if err := Validate(doc); err != nil {
		return nil, err
	}

	var s Session
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decoding session: %w", err)
	}
	return &s, nil
}

// Validate checks a decoded document against the session schema.
func Validate(doc any) error {
	res, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewGoLoader(doc))
	if err != nil {
		return fmt.Errorf("validating session: %w", err)
	}
	if res.Valid() {
		return nil
	}
	verr := &ValidationError{}
	for _, e := range res.Errors() {
		verr.Problems = append(verr.Problems, e.String())
	}
	return verr
}

// Load reads and parses the session file at path.
func Load(path string) (*Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading session: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Slides resolves the session jobs against dir and lays out the carousel.
// Jobs missing from the directory keep a slide without a posting, which
// exports skip. Jobs without a photo get one from picker.
func (s *Session) Slides(ctx context.Context, dir vagas.JobDirectory, picker *compose.Picker, images []vagas.LibraryImage) ([]vagas.SlideConfig, error) {
	var sel compose.Selection
	entries := make(map[string]Job, len(s.Jobs))
	missing := make(map[string]bool)
	for _, j := range s.Jobs {
		posting, err := dir.GetJob(ctx, j.ID)
		if err != nil && !errors.Is(err, vagas.ErrNotFound) {
			return nil, fmt.Errorf("fetching job %s: %w", j.ID, err)
		}
		if posting == nil {
			missing[j.ID] = true
			posting = &vagas.JobPosting{ID: j.ID}
		}
		if err := sel.Add(*posting); err != nil {
			return nil, err
		}
		entries[j.ID] = j
	}

	slides := compose.BuildSlides(sel.Jobs(), picker, images)
	for i := range slides {
		if slides[i].Kind != vagas.SlideJob {
			continue
		}
		j := entries[slides[i].Job.ID]
		if missing[j.ID] {
			slides[i].Job = nil
		}
		slides[i].Overrides = j.Overrides
		switch {
		case j.Photo != "":
			slides[i].PhotoURL = j.Photo
		case j.Overrides.IsAffirmative():
			slides[i].PhotoURL = picker.PickFor(slides[i], images)
		}
	}
	return slides, nil
}

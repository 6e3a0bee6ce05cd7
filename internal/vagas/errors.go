package vagas

import "errors"

var (
	// ErrNotFound is returned when a job or library image does not exist.
	ErrNotFound = errors.New("not found")

	// ErrSlideUnavailable marks a slide that cannot be composed, such as a
	// job slide whose posting is missing. Exports skip these slides.
	ErrSlideUnavailable = errors.New("slide unavailable")

	// ErrNodeMissing is returned by a Rasterizer when the slide node is not
	// present in the rendered document.
	ErrNodeMissing = errors.New("slide node missing from document")

	// ErrHostNotAllowed is returned when a remote image lives on a host
	// outside the configured allowlist.
	ErrHostNotAllowed = errors.New("host not allowed")
)

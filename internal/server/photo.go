package server

import (
	"net/url"
	"slices"
	"strings"

	"github.com/gofiber/fiber/v2"

	"vagas-go/internal/vagas"
)

// checkPhoto rejects photo references a client may not make the server
// load. Accepted: data URIs, blob store URLs, library and stock photo
// URLs, and http(s) URLs on an allowed host. Local paths and file URLs
// are never accepted.
func (s *Server) checkPhoto(ref string, images []vagas.LibraryImage) error {
	if ref == "" || strings.HasPrefix(ref, "data:") {
		return nil
	}
	if s.underBlobURL(ref) || slices.Contains(vagas.StockPhotos, ref) {
		return nil
	}
	for _, img := range images {
		if img.URL == ref {
			return nil
		}
	}
	if u, err := url.Parse(ref); err == nil && vagas.URLAllowed(u, s.deps.AllowedHosts) {
		return nil
	}
	return fiber.NewError(fiber.StatusBadRequest, "photo not allowed: "+ref)
}

func (s *Server) underBlobURL(ref string) bool {
	prefix := s.deps.BlobURL
	if !strings.Contains(prefix, "://") || !strings.HasPrefix(ref, prefix) {
		return false
	}
	return !strings.Contains(ref, "..")
}

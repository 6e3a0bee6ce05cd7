// Package server exposes the job directory, captions, the image library
// and the export pipeline as a JSON API.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"vagas-go/internal/caption"
	"vagas-go/internal/compose"
	"vagas-go/internal/export"
	"vagas-go/internal/library"
	"vagas-go/internal/session"
	"vagas-go/internal/vagas"
)

// ImageSource lists the photo library.
type ImageSource interface {
	List(ctx context.Context) ([]vagas.LibraryImage, error)
}

// StatsSource reads the usage counter.
type StatsSource interface {
	Read(ctx context.Context) (vagas.UsageStats, error)
}

// Exporter renders carousels and single cards.
type Exporter interface {
	Export(ctx context.Context, slides []vagas.SlideConfig, format export.Format, name string) (*export.Artifact, error)
	ExportCard(ctx context.Context, slide vagas.SlideConfig) (*export.Artifact, error)
}

// Deps are the services behind the routes.
type Deps struct {
	Jobs     vagas.JobDirectory
	Library  ImageSource
	Stats    StatsSource
	Exporter Exporter
	Captions caption.Generator
	Picker   *compose.Picker
	// AllowedHosts limits the image proxy and remote export photos to
	// these hosts and their subdomains, redirects included.
	AllowedHosts []string
	// BlobURL is the public prefix of the blob store. Photos under it are
	// accepted for export.
	BlobURL string
	// ProxyClient fetches proxied images. Defaults to a 30s client. Its
	// redirect policy is replaced by the allowlist.
	ProxyClient *http.Client
	// Status reports extra fields for GET /api/status.
	Status func() fiber.Map
	Logger vagas.Logger
}

// Server is the HTTP API.
type Server struct {
	app  *fiber.App
	deps Deps
}

// New builds the fiber app and registers every route.
func New(deps Deps) *Server {
	if deps.Logger == nil {
		deps.Logger = vagas.NewNopLogger()
	}
	proxy := &http.Client{Timeout: 30 * time.Second}
	if deps.ProxyClient != nil {
		copied := *deps.ProxyClient
		proxy = &copied
	}
	proxy.CheckRedirect = vagas.RedirectPolicy(deps.AllowedHosts)
	deps.ProxyClient = proxy
	if deps.Picker == nil {
		deps.Picker = compose.NewPicker(uint64(time.Now().UnixNano()))
	}

	s := &Server{deps: deps}
	s.app = fiber.New(fiber.Config{
		AppName:               "vagas",
		DisableStartupMessage: true,
		BodyLimit:             8 << 20,
		ErrorHandler:          s.handleError,
	})
	s.app.Use(s.logRequests)

	api := s.app.Group("/api")
	api.Get("/status", s.status)
	api.Get("/jobs", s.listJobs)
	api.Get("/jobs/locations", s.listLocations)
	api.Get("/jobs/:id", s.getJob)
	api.Get("/jobs/:id/caption", s.jobCaption)
	api.Post("/captions/carousel", s.carouselCaptions)
	api.Get("/stats", s.stats)
	api.Get("/library", s.listLibrary)
	api.Post("/export/card/:id", s.exportCard)
	api.Post("/export/carousel", s.exportCarousel)
	api.Get("/image", s.proxyImage)
	api.Options("/image", s.proxyPreflight)
	return s
}

// App exposes the fiber app, mainly for tests.
func (s *Server) App() *fiber.App { return s.app }

// Listen serves until Shutdown is called.
func (s *Server) Listen(addr string) error {
	s.deps.Logger.Info("server listening", "addr", addr)
	return s.app.Listen(addr)
}

// Shutdown stops accepting requests and waits for running ones.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func (s *Server) logRequests(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	s.deps.Logger.Debug("request",
		"method", c.Method(),
		"path", c.Path(),
		"status", c.Response().StatusCode(),
		"duration", time.Since(start).String())
	return err
}

// statusFor maps domain errors onto HTTP statuses.
func statusFor(err error) int {
	var fe *fiber.Error
	var verr *session.ValidationError
	switch {
	case errors.As(err, &fe):
		return fe.Code
	case errors.As(err, &verr), errors.Is(err, compose.ErrSelectionLimit):
		return fiber.StatusBadRequest
	case errors.Is(err, vagas.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, export.ErrBusy):
		return fiber.StatusConflict
	case errors.Is(err, export.ErrAssetsNotReady):
		return fiber.StatusPreconditionFailed
	case errors.Is(err, library.ErrNotConfigured):
		return fiber.StatusServiceUnavailable
	case errors.Is(err, vagas.ErrSlideUnavailable), errors.Is(err, export.ErrNothingExported):
		return fiber.StatusUnprocessableEntity
	default:
		return fiber.StatusBadGateway
	}
}

func (s *Server) handleError(c *fiber.Ctx, err error) error {
	code := statusFor(err)
	if code >= 500 {
		s.deps.Logger.Error("request failed", "path", c.Path(), "error", err)
	}
	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}

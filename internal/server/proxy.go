package server

import (
	"errors"
	"io"
	"net/http"
	"net/url"

	"github.com/gofiber/fiber/v2"

	"vagas-go/internal/vagas"
)

// maxProxySize bounds a proxied image.
const maxProxySize = 20 << 20

func setCORS(c *fiber.Ctx) {
	c.Set(fiber.HeaderAccessControlAllowOrigin, "*")
	c.Set(fiber.HeaderAccessControlAllowMethods, "GET, OPTIONS")
}

func (s *Server) proxyPreflight(c *fiber.Ctx) error {
	setCORS(c)
	return c.SendStatus(fiber.StatusNoContent)
}

// proxyImage relays an image from an allowed host with CORS headers.
func (s *Server) proxyImage(c *fiber.Ctx) error {
	setCORS(c)

	raw := c.Query("url")
	if raw == "" {
		return c.Status(fiber.StatusBadRequest).SendString("Missing url parameter")
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return c.Status(fiber.StatusBadRequest).SendString("Invalid url parameter")
	}
	if !vagas.URLAllowed(u, s.deps.AllowedHosts) {
		return c.Status(fiber.StatusForbidden).SendString("Host not allowed")
	}

	req, err := http.NewRequestWithContext(c.UserContext(), http.MethodGet, u.String(), nil)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).SendString("Invalid url parameter")
	}
	resp, err := s.deps.ProxyClient.Do(req)
	if errors.Is(err, vagas.ErrHostNotAllowed) {
		s.deps.Logger.Warn("image proxy redirect refused", "url", raw, "error", err)
		return c.Status(fiber.StatusForbidden).SendString("Host not allowed")
	}
	if err != nil {
		s.deps.Logger.Warn("image proxy failed", "url", raw, "error", err)
		return c.Status(fiber.StatusBadGateway).SendString("Proxy error")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.Status(resp.StatusCode).SendString("Upstream error")
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxProxySize+1))
	if err != nil {
		return c.Status(fiber.StatusBadGateway).SendString("Proxy error")
	}
	if len(body) > maxProxySize {
		return c.Status(fiber.StatusBadGateway).SendString("Upstream image too large")
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderCacheControl, "public, max-age=3600")
	return c.Status(fiber.StatusOK).Send(body)
}

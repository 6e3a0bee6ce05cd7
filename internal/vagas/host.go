package vagas

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// maxRedirects matches the net/http default.
const maxRedirects = 10

// HostAllowed reports whether host is one of allowed or a subdomain of one.
func HostAllowed(host string, allowed []string) bool {
	host = strings.ToLower(host)
	if host == "" {
		return false
	}
	for _, h := range allowed {
		h = strings.ToLower(h)
		if h == "" {
			continue
		}
		if host == h || strings.HasSuffix(host, "."+h) {
			return true
		}
	}
	return false
}

// URLAllowed reports whether u is an http(s) URL on an allowed host.
func URLAllowed(u *url.URL, allowed []string) bool {
	if u == nil || (u.Scheme != "http" && u.Scheme != "https") {
		return false
	}
	return HostAllowed(u.Hostname(), allowed)
}

// RedirectPolicy is an http.Client CheckRedirect that only follows
// redirects to allowed hosts.
func RedirectPolicy(allowed []string) func(*http.Request, []*http.Request) error {
	return func(req *http.Request, via []*http.Request) error {
		if len(via) >= maxRedirects {
			return fmt.Errorf("stopped after %d redirects", maxRedirects)
		}
		if !URLAllowed(req.URL, allowed) {
			return fmt.Errorf("redirect to %s: %w", req.URL.Host, ErrHostNotAllowed)
		}
		return nil
	}
}

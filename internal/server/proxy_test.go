package server

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vagas-go/internal/testutil"
)

func TestProxyImage(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing.png" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Write(testutil.TinyPNG())
	}))
	defer upstream.Close()

	f := newFixture(t)

	resp, body := f.do(t, http.MethodGet, "/api/image?url="+url.QueryEscape(upstream.URL+"/a.png"), "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, testutil.TinyPNG(), body)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
	assert.Equal(t, "public, max-age=3600", resp.Header.Get("Cache-Control"))
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))

	resp, _ = f.do(t, http.MethodGet, "/api/image?url="+url.QueryEscape(upstream.URL+"/missing.png"), "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestProxyImage_Rejections(t *testing.T) {
	f := newFixture(t)
	tests := []struct {
		name   string
		target string
		want   int
	}{
		{"missing url", "/api/image", http.StatusBadRequest},
		{"invalid url", "/api/image?url=" + url.QueryEscape("::not a url"), http.StatusBadRequest},
		{"ftp scheme", "/api/image?url=" + url.QueryEscape("ftp://metarh.com.br/a.png"), http.StatusBadRequest},
		{"host outside allowlist", "/api/image?url=" + url.QueryEscape("https://example.com/a.png"), http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, _ := f.do(t, http.MethodGet, tt.target, "")
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestProxyImage_RedirectOutsideAllowlist(t *testing.T) {
	var upstream *httptest.Server
	upstream = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/inside":
			http.Redirect(w, r, upstream.URL+"/a.png", http.StatusFound)
		case "/outside":
			// localhost resolves to the same server but is not allowlisted.
			u, _ := url.Parse(upstream.URL)
			http.Redirect(w, r, "http://localhost:"+u.Port()+"/a.png", http.StatusFound)
		default:
			w.Header().Set("Content-Type", "image/png")
			w.Write(testutil.TinyPNG())
		}
	}))
	defer upstream.Close()

	f := newFixture(t)

	resp, body := f.do(t, http.MethodGet, "/api/image?url="+url.QueryEscape(upstream.URL+"/inside"), "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, testutil.TinyPNG(), body)

	resp, _ = f.do(t, http.MethodGet, "/api/image?url="+url.QueryEscape(upstream.URL+"/outside"), "")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

// Package assets loads brand images and slide photos as data URIs so that
// rendered documents are self-contained.
package assets

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"slices"
	"strings"
	"time"

	"vagas-go/internal/compose"
	"vagas-go/internal/config"
	"vagas-go/internal/vagas"
)

// MaxAssetSize bounds a single downloaded or read asset.
const MaxAssetSize = 20 << 20

// ErrTooLarge is returned for assets above MaxAssetSize.
var ErrTooLarge = errors.New("asset too large")

// ErrPhotoNotAllowed is returned by a restricted loader for photos outside
// the blob store and the allowed hosts.
var ErrPhotoNotAllowed = errors.New("photo not allowed")

// Set holds the four shared slide images as data URIs.
type Set struct {
	Background string
	Logo       string
	Cover      string
	Back       string
}

// Ready reports whether every shared asset is loaded.
func (s Set) Ready() bool {
	return s.Background != "" && s.Logo != "" && s.Cover != "" && s.Back != ""
}

// Assets converts the set for the slide renderer.
func (s Set) Assets() compose.Assets {
	return compose.Assets{Background: s.Background, Logo: s.Logo, Cover: s.Cover, Back: s.Back}
}

// Loader fetches images from http(s) URLs, file:// URLs, local paths and
// the blob store. After RestrictPhotos, slide photos are limited to the
// blob store and allowed hosts; shared assets from config are not.
type Loader struct {
	client *http.Client
	blobs  vagas.BlobStore
	logger vagas.Logger

	photoHosts  []string
	photoClient *http.Client // nil while unrestricted
}

// NewLoader creates a Loader. blobs may be nil.
func NewLoader(timeout time.Duration, blobs vagas.BlobStore, logger vagas.Logger) *Loader {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if logger == nil {
		logger = vagas.NewNopLogger()
	}
	return &Loader{
		client: &http.Client{Timeout: timeout},
		blobs:  blobs,
		logger: logger,
	}
}

// Load fetches all four shared assets. Assets that fail stay empty and
// their errors are joined, so callers can check Set.Ready.
func (l *Loader) Load(ctx context.Context, cfg config.AssetsConfig) (Set, error) {
	var set Set
	var errs []error
	for _, a := range []struct {
		name string
		ref  string
		dst  *string
	}{
		{"background", cfg.Background, &set.Background},
		{"logo", cfg.Logo, &set.Logo},
		{"cover", cfg.Cover, &set.Cover},
		{"back", cfg.Back, &set.Back},
	} {
		uri, err := l.DataURI(ctx, a.ref)
		if err != nil {
			l.logger.Warn("failed to load asset", "asset", a.name, "ref", a.ref, "error", err)
			errs = append(errs, fmt.Errorf("asset %s: %w", a.name, err))
			continue
		}
		*a.dst = uri
	}
	return set, errors.Join(errs...)
}

// RestrictPhotos limits InlinePhotos to blob store URLs and http(s) URLs
// on hosts or their subdomains, redirects included. The stock photo host
// is always allowed. Call it before the loader is shared.
func (l *Loader) RestrictPhotos(hosts []string) {
	l.photoHosts = append(append([]string(nil), hosts...), stockHosts()...)
	l.photoClient = &http.Client{
		Timeout:       l.client.Timeout,
		CheckRedirect: vagas.RedirectPolicy(l.photoHosts),
	}
}

func stockHosts() []string {
	var hosts []string
	for _, ref := range vagas.StockPhotos {
		u, err := url.Parse(ref)
		if err != nil || slices.Contains(hosts, u.Hostname()) {
			continue
		}
		hosts = append(hosts, u.Hostname())
	}
	return hosts
}

// InlinePhotos returns a copy of slides whose photo URLs are replaced by
// data URIs. Photos that cannot be loaded keep their URL; photos refused
// by a restricted loader are dropped.
func (l *Loader) InlinePhotos(ctx context.Context, slides []vagas.SlideConfig) []vagas.SlideConfig {
	out := make([]vagas.SlideConfig, len(slides))
	cache := make(map[string]string)
	for i, s := range slides {
		out[i] = s
		ref := s.PhotoURL
		if ref == "" || strings.HasPrefix(ref, "data:") {
			continue
		}
		if uri, ok := cache[ref]; ok {
			out[i].PhotoURL = uri
			continue
		}
		uri, err := l.photoURI(ctx, ref)
		if errors.Is(err, ErrPhotoNotAllowed) {
			l.logger.Warn("refusing photo", "slide", s.ID, "url", ref, "error", err)
			out[i].PhotoURL = ""
			continue
		}
		if err != nil {
			l.logger.Warn("failed to inline photo", "slide", s.ID, "url", ref, "error", err)
			continue
		}
		cache[ref] = uri
		out[i].PhotoURL = uri
	}
	return out
}

// DataURI loads ref and encodes it as a base64 data URI.
func (l *Loader) DataURI(ctx context.Context, ref string) (string, error) {
	if ref == "" {
		return "", fmt.Errorf("empty asset reference")
	}
	if strings.HasPrefix(ref, "data:") {
		return ref, nil
	}

	data, contentType, err := l.fetch(ctx, ref)
	if err != nil {
		return "", err
	}
	return Encode(data, contentType), nil
}

func (l *Loader) photoURI(ctx context.Context, ref string) (string, error) {
	if l.photoClient == nil {
		return l.DataURI(ctx, ref)
	}
	if _, ok := l.blobKey(ref); ok && strings.Contains(l.blobs.URL(""), "://") {
		return l.DataURI(ctx, ref)
	}
	u, err := url.Parse(ref)
	if err != nil || !vagas.URLAllowed(u, l.photoHosts) {
		return "", fmt.Errorf("%s: %w", ref, ErrPhotoNotAllowed)
	}
	data, contentType, err := l.download(ctx, l.photoClient, ref)
	if errors.Is(err, vagas.ErrHostNotAllowed) {
		return "", fmt.Errorf("%s: %w", ref, ErrPhotoNotAllowed)
	}
	if err != nil {
		return "", err
	}
	return Encode(data, contentType), nil
}

// Encode builds a data URI, sniffing the content type when it is empty.
func Encode(data []byte, contentType string) string {
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = strings.TrimSpace(contentType[:i])
	}
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

func (l *Loader) fetch(ctx context.Context, ref string) ([]byte, string, error) {
	if key, ok := l.blobKey(ref); ok {
		var buf bytes.Buffer
		if err := l.blobs.Get(ctx, key, &buf); err != nil {
			return nil, "", fmt.Errorf("reading blob %s: %w", key, err)
		}
		return buf.Bytes(), "", nil
	}

	u, err := url.Parse(ref)
	if err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		return l.download(ctx, l.client, ref)
	}
	path := ref
	if err == nil && u.Scheme == "file" {
		path = u.Path
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("opening asset: %w", err)
	}
	defer f.Close()
	data, err := readLimited(f)
	return data, "", err
}

func (l *Loader) blobKey(ref string) (string, bool) {
	if l.blobs == nil {
		return "", false
	}
	prefix := l.blobs.URL("")
	if prefix == "" || !strings.HasPrefix(ref, prefix) {
		return "", false
	}
	key := strings.TrimLeft(strings.TrimPrefix(ref, prefix), "/")
	return key, key != ""
}

func (l *Loader) download(ctx context.Context, client *http.Client, ref string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
	if err != nil {
		return nil, "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", "vagas-go/1.0")

	resp, err := client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("downloading %s: %w", ref, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("downloading %s: unexpected status %d", ref, resp.StatusCode)
	}
	data, err := readLimited(resp.Body)
	if err != nil {
		return nil, "", err
	}
	return data, resp.Header.Get("Content-Type"), nil
}

func readLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxAssetSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading asset: %w", err)
	}
	if len(data) > MaxAssetSize {
		return nil, ErrTooLarge
	}
	return data, nil
}

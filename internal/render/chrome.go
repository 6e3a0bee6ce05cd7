// Package render rasterizes slide documents with headless Chrome.
package render

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"

	"vagas-go/internal/vagas"
)

// ReadySelector matches documents that finished loading fonts and images.
const ReadySelector = `body[data-render-complete="true"]`

// ErrUnknownType is returned by the factory for unsupported renderer types.
var ErrUnknownType = errors.New("unknown renderer type")

// cssPixelsPerInch converts canvas sizes into PDF paper sizes.
const cssPixelsPerInch = 96.0

// waitForAssets resolves once fonts and images of an arbitrary page loaded.
const waitForAssets = `(async () => {
  try { await document.fonts.ready; } catch (e) {}
  await Promise.all(Array.from(document.images).map(img => img.complete ? null :
    new Promise(done => { img.addEventListener('load', done); img.addEventListener('error', done); })));
  return true;
})()`

// ChromeRasterizer drives one headless Chrome process and opens a tab per
// request.
type ChromeRasterizer struct {
	browser       context.Context
	cancelBrowser context.CancelFunc
	cancelAlloc   context.CancelFunc
	timeout       time.Duration
	logger        vagas.Logger
}

var _ vagas.Rasterizer = (*ChromeRasterizer)(nil)

// NewChromeRasterizer starts Chrome. execPath may be empty to use the
// CHROME_PATH environment variable or the default lookup.
func NewChromeRasterizer(execPath string, timeout time.Duration, logger vagas.Logger) (*ChromeRasterizer, error) {
	if logger == nil {
		logger = vagas.NewNopLogger()
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("hide-scrollbars", true),
	)
	if execPath == "" {
		execPath = os.Getenv("CHROME_PATH")
	}
	if execPath != "" {
		opts = append(opts, chromedp.ExecPath(execPath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), opts...)
	browser, cancelBrowser := chromedp.NewContext(allocCtx)

	// The first Run launches the browser process.
	if err := chromedp.Run(browser); err != nil {
		cancelBrowser()
		cancelAlloc()
		return nil, fmt.Errorf("starting chrome: %w", err)
	}
	logger.Debug("chrome started")

	return &ChromeRasterizer{
		browser:       browser,
		cancelBrowser: cancelBrowser,
		cancelAlloc:   cancelAlloc,
		timeout:       timeout,
		logger:        logger,
	}, nil
}

// Rasterize loads doc in a fresh tab, waits for the render-complete signal
// and captures doc.NodeID at doc.Scale.
func (r *ChromeRasterizer) Rasterize(ctx context.Context, doc vagas.Document) ([]byte, error) {
	tab, done, err := r.openTab(ctx, doc.HTML)
	if err != nil {
		return nil, err
	}
	defer done()

	scale := doc.Scale
	if scale <= 0 {
		scale = 1
	}
	selector := nodeSelector(doc.NodeID)

	var nodes []*cdp.Node
	err = chromedp.Run(tab.ctx,
		chromedp.EmulateViewport(int64(doc.Width), int64(doc.Height), chromedp.EmulateScale(scale)),
		chromedp.Navigate(tab.url),
		chromedp.WaitVisible(ReadySelector, chromedp.ByQuery),
		chromedp.Nodes(selector, &nodes, chromedp.ByQuery, chromedp.AtLeast(0)),
	)
	if err != nil {
		return nil, fmt.Errorf("loading document %s: %w", doc.NodeID, err)
	}
	if len(nodes) == 0 {
		return nil, fmt.Errorf("node %s: %w", doc.NodeID, vagas.ErrNodeMissing)
	}

	// The emulated device scale already multiplies the output size, so the
	// capture itself stays at 1.
	var png []byte
	if err := chromedp.Run(tab.ctx, chromedp.Screenshot(selector, &png, chromedp.ByQuery)); err != nil {
		return nil, fmt.Errorf("capturing node %s: %w", doc.NodeID, err)
	}
	r.logger.Debug("node rasterized", "node", doc.NodeID, "bytes", len(png))
	return png, nil
}

// PrintPDF prints html with every page sized width x height CSS pixels and
// no margins.
func (r *ChromeRasterizer) PrintPDF(ctx context.Context, html string, width, height int) ([]byte, error) {
	tab, done, err := r.openTab(ctx, html)
	if err != nil {
		return nil, err
	}
	defer done()

	var pdf []byte
	err = chromedp.Run(tab.ctx,
		chromedp.Navigate(tab.url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Evaluate(waitForAssets, nil, func(p *runtime.EvaluateParams) *runtime.EvaluateParams {
			return p.WithAwaitPromise(true)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			pdf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(float64(width) / cssPixelsPerInch).
				WithPaperHeight(float64(height) / cssPixelsPerInch).
				WithMarginTop(0).
				WithMarginBottom(0).
				WithMarginLeft(0).
				WithMarginRight(0).
				WithPreferCSSPageSize(true).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("printing pdf: %w", err)
	}
	return pdf, nil
}

// Close stops the browser.
func (r *ChromeRasterizer) Close() error {
	r.cancelBrowser()
	r.cancelAlloc()
	return nil
}

type tab struct {
	ctx context.Context
	url string
}

// openTab writes html to a temporary file and opens a tab bounded by the
// rasterizer timeout and by ctx.
func (r *ChromeRasterizer) openTab(ctx context.Context, html string) (tab, func(), error) {
	dir, err := os.MkdirTemp("", "vagas-render-")
	if err != nil {
		return tab{}, nil, fmt.Errorf("creating render directory: %w", err)
	}
	path := filepath.Join(dir, "index.html")
	if err := os.WriteFile(path, []byte(html), 0o644); err != nil {
		os.RemoveAll(dir)
		return tab{}, nil, fmt.Errorf("writing document: %w", err)
	}

	tabCtx, cancelTab := chromedp.NewContext(r.browser)
	timeoutCtx, cancelTimeout := context.WithTimeout(tabCtx, r.timeout)
	stop := context.AfterFunc(ctx, cancelTimeout)

	done := func() {
		stop()
		cancelTimeout()
		cancelTab()
		os.RemoveAll(dir)
	}
	if err := ctx.Err(); err != nil {
		done()
		return tab{}, nil, err
	}
	return tab{ctx: timeoutCtx, url: "file://" + path}, done, nil
}

func nodeSelector(id string) string {
	return fmt.Sprintf("[id=%q]", id)
}

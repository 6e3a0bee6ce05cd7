package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"vagas-go/internal/assets"
	"vagas-go/internal/assist"
	"vagas-go/internal/blob"
	"vagas-go/internal/caption"
	"vagas-go/internal/compose"
	"vagas-go/internal/config"
	"vagas-go/internal/directory"
	"vagas-go/internal/export"
	"vagas-go/internal/library"
	"vagas-go/internal/render"
	"vagas-go/internal/secrets"
	"vagas-go/internal/selecty"
	"vagas-go/internal/stats"
	"vagas-go/internal/vagas"
)

// Options are the process-level inputs that do not live in the config file.
type Options struct {
	// Passphrase unlocks the secrets file. It is only called when a config
	// value references a secret.
	Passphrase func() (string, error)
	// Rasterizer replaces the configured renderer. Tests use it to avoid
	// launching Chrome.
	Rasterizer vagas.Rasterizer
	// Source replaces the Selecty client.
	Source vagas.JobDirectory
	// Completer replaces the Gemini client.
	Completer assist.Completer
	// Quiet keeps log output out of stderr.
	Quiet bool
}

// VagasApp is the application layer between the CLI and the services.
// It constructs all dependencies from config, exposes them to commands and
// releases them on Close.
type VagasApp struct {
	cfg     *config.Config
	op      *Operation
	logger  vagas.Logger
	logFile *os.File

	secrets  *secrets.Resolver
	store    library.Store
	blobs    vagas.BlobStore
	library  *library.Library
	counter  *stats.Counter
	jobs     *directory.Cache
	raster   *lazyRasterizer
	renderer *compose.Renderer
	loader   *assets.Loader
	pipeline *export.Pipeline
	picker   *compose.Picker
	assist   *assist.Assistant

	assetsMu     sync.Mutex
	assetsLoaded bool
}

// NewVagasApp creates a fully wired VagasApp from the given config.
// operation identifies the CLI command being run (e.g. "Carousel", "Serve").
// The caller must call Close when done.
func NewVagasApp(ctx context.Context, cfg *config.Config, operation string, opts Options) (*VagasApp, error) {
	op := NewOperation(operation)
	log, logFile, err := newLogger(cfg.LogDir, op.ID, parseLevel(cfg.LogLevel), opts.Quiet)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	logger := &slogAdapter{l: log}

	a := &VagasApp{
		cfg:     cfg,
		op:      op,
		logger:  logger,
		logFile: logFile,
	}

	passphrase := opts.Passphrase
	if passphrase == nil {
		passphrase = envPassphrase
	}
	a.secrets = secrets.NewResolver(secrets.NewStore(cfg.Secrets.Path), passphrase)

	if err := a.build(ctx, opts); err != nil {
		a.Close()
		return nil, err
	}

	logger.Debug("app started", "operation", operation, "params", op.Parameters)
	return a, nil
}

func (a *VagasApp) build(ctx context.Context, opts Options) error {
	cfg := a.cfg

	blobCfg := cfg.Blobs
	if err := a.resolve(&blobCfg.AccessKey, &blobCfg.SecretKey); err != nil {
		return fmt.Errorf("resolving blob credentials: %w", err)
	}
	blobs, err := blob.NewBlobStoreFromConfig(ctx, blobCfg)
	if err != nil {
		return fmt.Errorf("creating blob store: %w", err)
	}
	a.blobs = blobs

	store, err := library.OpenStore(cfg.Database, a.logger)
	if err != nil {
		return err
	}
	a.store = store
	a.library = library.New(store, blobs, vagas.RealClock{}, vagas.UUIDGenerator{}, a.logger)

	mirrorCfg := cfg.Mirror
	if err := a.resolve(&mirrorCfg.RedisURL, &mirrorCfg.PostgresURL); err != nil {
		return fmt.Errorf("resolving mirror url: %w", err)
	}
	policy, err := stats.ParsePolicy(mirrorCfg.Policy)
	if err != nil {
		return err
	}
	mirror, err := stats.NewMirrorFromConfig(ctx, mirrorCfg)
	if err != nil {
		// The local count keeps working without the shared one.
		a.logger.Warn("usage mirror unavailable, counting locally", "type", mirrorCfg.Type, "error", err)
		mirror = nil
	}
	a.counter = stats.NewCounter(store, mirror, policy, a.logger)

	source := opts.Source
	if source == nil {
		atsCfg := cfg.ATS
		if err := a.resolve(&atsCfg.Token); err != nil {
			return fmt.Errorf("resolving ATS token: %w", err)
		}
		source = selecty.New(atsCfg, a.logger)
	}
	a.jobs = directory.NewCache(source, vagas.RealClock{}, a.logger)

	a.renderer, err = compose.NewRenderer()
	if err != nil {
		return fmt.Errorf("creating renderer: %w", err)
	}
	a.raster = &lazyRasterizer{cfg: cfg.Renderer, logger: a.logger, r: opts.Rasterizer}
	a.loader = assets.NewLoader(cfg.ATS.Timeout.Duration, blobs, a.logger)
	a.picker = compose.NewPicker(uint64(time.Now().UnixNano()))

	a.pipeline = export.NewPipeline(a.renderer, a.raster, a.logger, export.Options{
		Brand:          compose.Brand{FooterURL: cfg.Brand.FooterURL},
		CardFilePrefix: cfg.Brand.CardFilePrefix,
		Photos:         a.loader,
		OnProgress: func(p export.Progress) {
			a.logger.Debug("export progress", "percent", p.Percent, "status", p.Status)
		},
		OnSuccess: func(jobs int) {
			// The counter outlives the request that triggered the export.
			if _, err := a.counter.Increment(context.WithoutCancel(ctx), int64(jobs)); err != nil {
				a.logger.Warn("failed to record usage", "jobs", jobs, "error", err)
			}
		},
	})

	completer := opts.Completer
	if completer == nil {
		apiKey := cfg.Assist.APIKey
		if err := a.resolve(&apiKey); err != nil {
			return fmt.Errorf("resolving assist api key: %w", err)
		}
		completer, err = assist.NewGeminiCompleter(ctx, apiKey, cfg.Assist.Model)
		if err != nil && !errors.Is(err, assist.ErrDisabled) {
			a.logger.Warn("assist unavailable", "error", err)
		}
	}
	if completer != nil {
		a.assist = assist.New(completer, a.logger)
	}
	return nil
}

// resolve expands secret references in place.
func (a *VagasApp) resolve(values ...*string) error {
	for _, v := range values {
		if !strings.HasPrefix(*v, secrets.Prefix) {
			continue
		}
		resolved, err := a.secrets.Resolve(*v)
		if err != nil {
			return err
		}
		*v = resolved
	}
	return nil
}

func (a *VagasApp) Config() *config.Config { return a.cfg }
func (a *VagasApp) Logger() vagas.Logger { return a.logger }
func (a *VagasApp) Operation() *Operation { return a.op }
func (a *VagasApp) Jobs() *directory.Cache { return a.jobs }
func (a *VagasApp) Library() *library.Library { return a.library }
func (a *VagasApp) Counter() *stats.Counter { return a.counter }
func (a *VagasApp) Picker() *compose.Picker { return a.picker }
func (a *VagasApp) Pipeline() *export.Pipeline { return a.pipeline }
func (a *VagasApp) Blobs() vagas.BlobStore { return a.blobs }
func (a *VagasApp) Captions() caption.Generator { return caption.Generator{FooterURL: a.cfg.Brand.FooterURL} }
func (a *VagasApp) Rasterizer() vagas.Rasterizer { return a.raster }
func (a *VagasApp) Assistant() *assist.Assistant { return a.assist }
func (a *VagasApp) Loader() *assets.Loader { return a.loader }
func (a *VagasApp) Secrets() *secrets.Resolver { return a.secrets }
func (a *VagasApp) Store() library.Store { return a.store }
func (a *VagasApp) Renderer() *compose.Renderer { return a.renderer }

// BlobURL returns the public URL prefix of the blob store, or "" when no
// store is configured.
func (a *VagasApp) BlobURL() string {
	if a.blobs == nil {
		return ""
	}
	return a.blobs.URL("")
}

// LoadAssets fetches the shared slide assets and installs them in the
// export pipeline. Only a complete load is kept: after a failure the next
// call fetches again.
func (a *VagasApp) LoadAssets(ctx context.Context) error {
	a.assetsMu.Lock()
	defer a.assetsMu.Unlock()
	if a.assetsLoaded {
		return nil
	}

	set, err := a.loader.Load(ctx, a.cfg.Assets)
	a.pipeline.SetAssets(set)
	if err != nil {
		return fmt.Errorf("loading slide assets: %w", err)
	}
	a.assetsLoaded = true
	a.logger.Info("slide assets loaded")
	return nil
}

// Export loads missing slide assets, then runs the carousel export.
func (a *VagasApp) Export(ctx context.Context, slides []vagas.SlideConfig, format export.Format, name string) (*export.Artifact, error) {
	a.ensureAssets(ctx)
	return a.pipeline.Export(ctx, slides, format, name)
}

// ExportCard loads missing slide assets, then renders a single card.
func (a *VagasApp) ExportCard(ctx context.Context, slide vagas.SlideConfig) (*export.Artifact, error) {
	a.ensureAssets(ctx)
	return a.pipeline.ExportCard(ctx, slide)
}

// ensureAssets retries a failed asset load. The pipeline reports
// ErrAssetsNotReady if the assets are still incomplete.
func (a *VagasApp) ensureAssets(ctx context.Context) {
	if err := a.LoadAssets(ctx); err != nil {
		a.logger.Warn("slide assets incomplete", "error", err)
	}
}

// LibraryImages lists the photo library. A library that cannot be read
// yields no images so slides fall back to stock photos.
func (a *VagasApp) LibraryImages(ctx context.Context) []vagas.LibraryImage {
	images, err := a.library.List(ctx)
	if err != nil {
		a.logger.Warn("library unavailable, using stock photos", "error", err)
		return nil
	}
	return images
}

// Fail marks the operation as failed so Close records it.
func (a *VagasApp) Fail(err error) {
	a.op.Fail(err)
}

// Close finalizes the operation and closes all resources.
func (a *VagasApp) Close() error {
	if a.op.Done() {
		return nil
	}
	a.op.Finish()

	var errs []error

	if a.raster != nil {
		if err := a.raster.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing renderer: %w", err))
		}
	}
	if a.counter != nil {
		if err := a.counter.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing usage mirror: %w", err))
		}
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing database: %w", err))
		}
	}

	a.logger.Info("operation finished",
		"operation", a.op.Name, "status", a.op.Status, "duration", a.op.Duration().Round(time.Millisecond))
	if a.logFile != nil {
		a.logFile.Close()
	}

	return errors.Join(errs...)
}

// envPassphrase reads the secrets passphrase from VAGAS_PASSPHRASE.
func envPassphrase() (string, error) {
	if p := os.Getenv("VAGAS_PASSPHRASE"); p != "" {
		return p, nil
	}
	return "", fmt.Errorf("secrets passphrase required: set VAGAS_PASSPHRASE")
}

// lazyRasterizer starts the configured renderer on first use, so commands
// that never export do not launch a browser.
type lazyRasterizer struct {
	cfg    config.RendererConfig
	logger vagas.Logger

	mu sync.Mutex
	r  vagas.Rasterizer
}

var _ vagas.Rasterizer = (*lazyRasterizer)(nil)

func (l *lazyRasterizer) get() (vagas.Rasterizer, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.r == nil {
		r, err := render.NewRasterizerFromConfig(l.cfg, l.logger)
		if err != nil {
			return nil, fmt.Errorf("starting renderer: %w", err)
		}
		l.r = r
	}
	return l.r, nil
}

func (l *lazyRasterizer) Rasterize(ctx context.Context, doc vagas.Document) ([]byte, error) {
	r, err := l.get()
	if err != nil {
		return nil, err
	}
	return r.Rasterize(ctx, doc)
}

func (l *lazyRasterizer) PrintPDF(ctx context.Context, html string, width, height int) ([]byte, error) {
	r, err := l.get()
	if err != nil {
		return nil, err
	}
	return r.PrintPDF(ctx, html, width, height)
}

func (l *lazyRasterizer) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.r == nil {
		return nil
	}
	err := l.r.Close()
	l.r = nil
	return err
}

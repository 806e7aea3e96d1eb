package pipeline

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/benchdraw/pkg/cache"
	"github.com/matzehuels/benchdraw/pkg/catalog"
	"github.com/matzehuels/benchdraw/pkg/compiler"
	"github.com/matzehuels/benchdraw/pkg/diagram"
	"github.com/matzehuels/benchdraw/pkg/document"
	"github.com/matzehuels/benchdraw/pkg/errors"
	"github.com/matzehuels/benchdraw/pkg/observability"
)

// Runner runs generation, parsing and export with caching.
//
// The Runner holds no per-diagram state; diagrams are passed in. It is
// safe to share between goroutines as long as each diagram has a single
// owner.
type Runner struct {
	Catalog    *catalog.Catalog
	Typesetter Typesetter
	Engine     string // engine name, part of the artifact cache key
	Cache      cache.Cache
	TTL        time.Duration // artifact lifetime in the cache
	Logger     *log.Logger
}

// NewRunner creates a runner. A nil catalog uses [catalog.Default], a nil
// typesetter uses xelatex, and a nil cache disables caching.
func NewRunner(cat *catalog.Catalog, tex *compiler.TeX, c cache.Cache, logger *log.Logger) *Runner {
	if cat == nil {
		cat = catalog.Default()
	}
	if tex == nil {
		tex = &compiler.TeX{}
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	engine := tex.Engine
	if engine == "" {
		engine = compiler.DefaultEngine
	}
	return &Runner{
		Catalog:    cat,
		Typesetter: tex,
		Engine:     engine,
		Cache:      c,
		TTL:        TTLArtifact,
		Logger:     logger,
	}
}

// Generate renders d as a document.
func (r *Runner) Generate(ctx context.Context, d *diagram.Diagram) (string, error) {
	hooks := observability.Pipeline()
	hooks.OnGenerateStart(ctx, d.Len())

	start := time.Now()
	doc, err := document.Generate(d.Components)
	hooks.OnGenerateComplete(ctx, d.Len(), len(doc), time.Since(start), err)
	if err != nil {
		return "", err
	}

	r.Logger.Debug("generated document",
		"components", d.Len(),
		"bytes", len(doc),
		"duration", time.Since(start))
	return doc, nil
}

// Parse reconstructs components from document text.
func (r *Runner) Parse(ctx context.Context, text string) ([]diagram.Component, error) {
	hooks := observability.Pipeline()
	hooks.OnParseStart(ctx, len(text))

	start := time.Now()
	cs, err := document.Parse(text, r.Catalog)
	hooks.OnParseComplete(ctx, len(cs), time.Since(start), err)
	if err != nil {
		return nil, err
	}

	r.Logger.Debug("parsed document", "components", len(cs), "duration", time.Since(start))
	return cs, nil
}

// Apply parses text and replaces d's components with the result. When the
// text cannot be parsed, d is left untouched and the PARSE_FAILURE error
// is returned.
func (r *Runner) Apply(ctx context.Context, d *diagram.Diagram, text string) (int, error) {
	cs, err := r.Parse(ctx, text)
	if err != nil {
		return 0, err
	}
	d.Replace(cs)
	r.Logger.Info("applied document", "components", len(cs))
	return len(cs), nil
}

// ExportDiagram generates d and exports the resulting document.
func (r *Runner) ExportDiagram(ctx context.Context, d *diagram.Diagram, opts Options) (*Result, error) {
	doc, err := r.Generate(ctx, d)
	if err != nil {
		return nil, err
	}
	return r.Export(ctx, doc, opts)
}

// Export typesets doc into the requested format, consulting the cache
// first. Compilation failures are never retried.
func (r *Runner) Export(ctx context.Context, doc string, opts Options) (*Result, error) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if err := opts.SetDefaults(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "export options")
	}
	logger := opts.Logger

	key := cache.ArtifactKey(doc, cache.ArtifactOpts{Engine: r.Engine, Format: opts.Format, DPI: r.dpiKey(opts)})
	if !opts.NoCache {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, "artifact")
			logger.Debug("artifact cache hit", "format", opts.Format)
			return &Result{Format: opts.Format, Artifact: data, CacheHit: true}, nil
		} else if err != nil {
			logger.Warn("artifact cache read failed", "error", err)
		}
		observability.Cache().OnCacheMiss(ctx, "artifact")
	}

	res := &Result{Format: opts.Format}
	hooks := observability.Pipeline()
	hooks.OnCompileStart(ctx, r.Engine, opts.Format)

	start := time.Now()
	out, err := r.Typesetter.Compile(ctx, doc)
	res.Stats.CompileTime = time.Since(start)
	if err != nil {
		hooks.OnCompileComplete(ctx, r.Engine, opts.Format, res.Stats.CompileTime, err)
		return nil, err
	}
	logger.Info("compiled document", "engine", r.Engine, "duration", res.Stats.CompileTime)
	res.Artifact = out.PDF

	if opts.Format == FormatPNG {
		convStart := time.Now()
		png, err := r.Typesetter.ToPNG(ctx, out.PDF, opts.DPI)
		res.Stats.ConvertTime = time.Since(convStart)
		if err != nil {
			hooks.OnCompileComplete(ctx, r.Engine, opts.Format, time.Since(start), err)
			return nil, err
		}
		logger.Debug("rasterized PDF", "dpi", opts.DPI, "duration", res.Stats.ConvertTime)
		res.Artifact = png
	}
	hooks.OnCompileComplete(ctx, r.Engine, opts.Format, time.Since(start), nil)

	if !opts.NoCache {
		if err := r.Cache.Set(ctx, key, res.Artifact, r.TTL); err != nil {
			logger.Warn("artifact cache write failed", "error", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "artifact", len(res.Artifact))
		}
	}
	return res, nil
}

// ClearCache drops every cached artifact when the backend supports it.
func (r *Runner) ClearCache(ctx context.Context) error {
	cl, ok := r.Cache.(cache.Clearer)
	if !ok {
		return errors.New(errors.ErrCodeUnsupported, "cache backend cannot be cleared")
	}
	return cl.Clear(ctx)
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// dpiKey keeps PDF keys independent of the DPI setting.
func (r *Runner) dpiKey(opts Options) int {
	if opts.Format == FormatPNG {
		return opts.DPI
	}
	return 0
}

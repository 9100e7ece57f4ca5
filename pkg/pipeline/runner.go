package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/justgrid/pkg/cache"
	"github.com/matzehuels/justgrid/pkg/errors"
	"github.com/matzehuels/justgrid/pkg/httputil"
	"github.com/matzehuels/justgrid/pkg/layout"
	"github.com/matzehuels/justgrid/pkg/observability"
	"github.com/matzehuels/justgrid/pkg/render"
	"github.com/matzehuels/justgrid/pkg/source"
)

// Cache entry kinds reported to observability hooks.
const (
	kindLayout   = "layout"
	kindArtifact = "artifact"
)

// Runner executes pipeline stages against a shared cache. The CLI and the
// HTTP server both drive one. It keeps no per-call state, so a single
// Runner may serve concurrent requests.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL overrides the per-kind cache TTLs when positive.
	TTL time.Duration

	// Fetcher downloads remote manifests. Nil uses httputil defaults.
	Fetcher *httputil.Fetcher
}

// NewRunner returns a Runner. Nil arguments fall back to a disabled cache,
// the default keyer and the default logger.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	r := &Runner{Cache: c, Keyer: keyer, Logger: logger}
	if r.Cache == nil {
		r.Cache = cache.NewNullCache()
	}
	if r.Keyer == nil {
		r.Keyer = cache.NewDefaultKeyer()
	}
	if r.Logger == nil {
		r.Logger = log.Default()
	}
	return r
}

// Execute probes opts.Input, lays out its frames and renders every
// requested format.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	res := &Result{}
	mark := time.Now()
	lap := func() time.Duration {
		d := time.Since(mark)
		mark = time.Now()
		return d
	}

	frames, err := r.Probe(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("probe: %w", err)
	}
	res.Stats.FrameCount, res.Stats.ProbeTime = len(frames), lap()
	r.Logger.Info("probed frames", "input", opts.Input, "frames", len(frames), "took", res.Stats.ProbeTime)

	doc, hash, hit, err := r.layout(ctx, frames, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	res.Document, res.FramesHash, res.CacheInfo.LayoutHit = doc, hash, hit
	res.Stats.RowCount, res.Stats.LayoutTime = len(doc.Rows), lap()
	r.Logger.Info("laid out gallery", "rows", len(doc.Rows), "height", doc.Height,
		"cached", hit, "took", res.Stats.LayoutTime)

	res.Artifacts, res.CacheInfo.RenderHit, err = r.RenderWithCacheInfo(ctx, doc, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	res.Stats.RenderTime = lap()
	r.Logger.Info("rendered gallery", "formats", opts.Formats,
		"cached", res.CacheInfo.RenderHit, "took", res.Stats.RenderTime)

	return res, nil
}

// Probe reads the frames of opts.Input.
func (r *Runner) Probe(ctx context.Context, opts Options) (frames []layout.Frame[source.Item], err error) {
	if opts.Input == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "input is required")
	}
	finish := observability.Begin(ctx, observability.StageProbe)
	defer func() {
		finish(observability.StageEvent{Input: opts.Input, Frames: len(frames), Err: err})
	}()

	frames, err = source.LoadWith(ctx, opts.Input, r.Fetcher)
	if err != nil {
		return nil, err
	}
	if len(frames) > MaxFrames {
		return nil, errors.New(errors.ErrCodeInvalidInput, "too many frames: %d (max %d)", len(frames), MaxFrames)
	}
	return frames, nil
}

// LayoutWithCacheInfo computes and places a layout with caching and returns
// cache hit info.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, frames []layout.Frame[source.Item], opts Options) (*render.Document, bool, error) {
	doc, _, hit, err := r.layout(ctx, frames, opts)
	return doc, hit, err
}

// Layout is LayoutWithCacheInfo without the hit flag.
func (r *Runner) Layout(ctx context.Context, frames []layout.Frame[source.Item], opts Options) (*render.Document, error) {
	doc, _, err := r.LayoutWithCacheInfo(ctx, frames, opts)
	return doc, err
}

func (r *Runner) layout(ctx context.Context, frames []layout.Frame[source.Item], opts Options) (*render.Document, string, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLayout(); err != nil {
		return nil, "", false, err
	}

	framesHash, err := cache.HashJSON(frames)
	if err != nil {
		// NaN and Inf cannot be encoded; let the engine report the frame.
		framesHash = ""
	}
	cacheKey := ""
	if framesHash != "" {
		cacheKey = r.Keyer.LayoutKey(framesHash, opts.LayoutKeyOpts())
	}

	if cacheKey != "" && !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if doc, err := render.ReadDocument(bytes.NewReader(data)); err == nil {
				observability.RecordCache(ctx, kindLayout, observability.CacheHit, 0)
				doc.Title = opts.Title
				return doc, framesHash, true, nil
			}
			// Undecodable entry falls through to recompute.
		} else if err != nil {
			opts.Logger.Warn("layout cache read failed", "error", err)
		}
		observability.RecordCache(ctx, kindLayout, observability.CacheMiss, 0)
	}

	doc, err := ComputeDocument(ctx, frames, opts)
	if err != nil {
		return nil, "", false, err
	}

	if cacheKey != "" {
		var buf bytes.Buffer
		if err := render.WriteDocument(&buf, doc); err == nil {
			if err := r.Cache.Set(ctx, cacheKey, buf.Bytes(), r.ttl(cache.TTLLayout)); err != nil {
				opts.Logger.Warn("layout cache write failed", "error", err)
			} else {
				observability.RecordCache(ctx, kindLayout, observability.CacheSet, buf.Len())
			}
		}
	}

	doc.Title = opts.Title
	return doc, framesHash, false, nil
}

// ComputeDocument runs the layout engine and places the result, without
// caching.
func ComputeDocument(ctx context.Context, frames []layout.Frame[source.Item], opts Options) (doc *render.Document, err error) {
	if err := opts.ValidateForLayout(); err != nil {
		return nil, err
	}

	rows := 0
	finish := observability.Begin(ctx, observability.StageLayout)
	defer func() {
		finish(observability.StageEvent{Frames: len(frames), Rows: rows, Err: err})
	}()

	var l layout.Layout[source.Item]
	if opts.Parallel {
		l, err = layout.ComputeParallel(ctx, frames, opts.Params())
	} else {
		l, err = layout.Compute(frames, opts.Params())
	}
	if err != nil {
		return nil, err
	}
	rows = len(l.Rows)

	doc = render.NewDocument(l, opts.Params())
	doc.Title = opts.Title
	return doc, nil
}

// RenderWithCacheInfo renders doc in every format of opts. Artifacts come
// from the cache only when all formats hit; otherwise all are re-rendered.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, doc *render.Document, opts Options) (artifacts map[string][]byte, allHit bool, err error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	var buf bytes.Buffer
	if err := render.WriteDocument(&buf, doc); err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	layoutHash := cache.Hash(buf.Bytes())

	if !opts.Refresh {
		if cached, ok := r.cachedArtifacts(ctx, layoutHash, opts); ok {
			return cached, true, nil
		}
	}

	finish := observability.Begin(ctx, observability.StageRender)
	rendered, err := Render(doc, opts)
	finish(observability.StageEvent{Formats: opts.Formats, Err: err})
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, r.ttl(cache.TTLArtifact)); err != nil {
			opts.Logger.Warn("artifact cache write failed", "format", format, "error", err)
			continue
		}
		observability.RecordCache(ctx, kindArtifact, observability.CacheSet, len(data))
	}

	return rendered, false, nil
}

// cachedArtifacts looks up every format, stopping at the first miss.
func (r *Runner) cachedArtifacts(ctx context.Context, layoutHash string, opts Options) (map[string][]byte, bool) {
	found := make(map[string][]byte, len(opts.Formats))
	for _, f := range opts.Formats {
		data, hit, err := r.Cache.Get(ctx, r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(f)))
		if err != nil || !hit {
			observability.RecordCache(ctx, kindArtifact, observability.CacheMiss, 0)
			return nil, false
		}
		observability.RecordCache(ctx, kindArtifact, observability.CacheHit, 0)
		found[f] = data
	}
	return found, true
}

// Render is RenderWithCacheInfo without the hit flag.
func (r *Runner) Render(ctx context.Context, doc *render.Document, opts Options) (map[string][]byte, error) {
	out, _, err := r.RenderWithCacheInfo(ctx, doc, opts)
	return out, err
}

// Close closes the cache.
func (r *Runner) Close() error {
	if r.Cache == nil {
		return nil
	}
	return r.Cache.Close()
}

func (r *Runner) ttl(def time.Duration) time.Duration {
	if r.TTL > 0 {
		return r.TTL
	}
	return def
}

func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

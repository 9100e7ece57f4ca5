// Package observability lets a binary attach instrumentation to the gallery
// pipeline, the cache and the HTTP server without those packages importing
// a metrics backend.
//
// Library code emits events; main installs a [Hooks] implementation once at
// startup with [Set]. Until then every event goes to a no-op sink. The
// Prometheus implementation lives in internal/metrics.
//
//	m := metrics.New(nil)
//	observability.Set(m)
//
// Instrumenting a stage:
//
//	finish := observability.Begin(ctx, observability.StageLayout)
//	l, err := layout.Compute(frames, params)
//	finish(observability.StageEvent{Frames: len(frames), Rows: len(l.Rows), Err: err})
package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// Stage names a pipeline step.
type Stage string

const (
	StageProbe  Stage = "probe"
	StageLayout Stage = "layout"
	StageRender Stage = "render"
)

// StageEvent describes a finished pipeline stage. Fields that do not apply
// to the stage are zero.
type StageEvent struct {
	Stage    Stage
	Input    string   // probe
	Frames   int      // probe, layout
	Rows     int      // layout
	Formats  []string // render
	Duration time.Duration
	Err      error
}

// CacheResult is the outcome of a cache operation.
type CacheResult string

const (
	CacheHit  CacheResult = "hit"
	CacheMiss CacheResult = "miss"
	CacheSet  CacheResult = "set"
)

// CacheEvent describes one cache lookup or write. Kind is the entry kind,
// e.g. "layout" or "artifact". Bytes is set for writes.
type CacheEvent struct {
	Kind   string
	Result CacheResult
	Bytes  int
}

// RequestEvent describes a served HTTP request. Route is the matched
// pattern, not the raw path. Code is the error code of a failed request.
type RequestEvent struct {
	Method   string
	Route    string
	Status   int
	Duration time.Duration
	Code     string
}

// Hooks receives instrumentation events. Implementations must be safe for
// concurrent use.
type Hooks interface {
	Stage(ctx context.Context, ev StageEvent)
	Cache(ctx context.Context, ev CacheEvent)
	RequestStarted(ctx context.Context, method string)
	Request(ctx context.Context, ev RequestEvent)
}

// Funcs adapts optional callbacks to [Hooks]. Nil fields are skipped.
type Funcs struct {
	OnStage          func(context.Context, StageEvent)
	OnCache          func(context.Context, CacheEvent)
	OnRequestStarted func(context.Context, string)
	OnRequest        func(context.Context, RequestEvent)
}

func (f Funcs) Stage(ctx context.Context, ev StageEvent) {
	if f.OnStage != nil {
		f.OnStage(ctx, ev)
	}
}

func (f Funcs) Cache(ctx context.Context, ev CacheEvent) {
	if f.OnCache != nil {
		f.OnCache(ctx, ev)
	}
}

func (f Funcs) RequestStarted(ctx context.Context, method string) {
	if f.OnRequestStarted != nil {
		f.OnRequestStarted(ctx, method)
	}
}

func (f Funcs) Request(ctx context.Context, ev RequestEvent) {
	if f.OnRequest != nil {
		f.OnRequest(ctx, ev)
	}
}

// Fanout delivers every event to each of hs in order.
func Fanout(hs ...Hooks) Hooks { return fanout(hs) }

type fanout []Hooks

func (f fanout) Stage(ctx context.Context, ev StageEvent) {
	for _, h := range f {
		h.Stage(ctx, ev)
	}
}

func (f fanout) Cache(ctx context.Context, ev CacheEvent) {
	for _, h := range f {
		h.Cache(ctx, ev)
	}
}

func (f fanout) RequestStarted(ctx context.Context, method string) {
	for _, h := range f {
		h.RequestStarted(ctx, method)
	}
}

func (f fanout) Request(ctx context.Context, ev RequestEvent) {
	for _, h := range f {
		h.Request(ctx, ev)
	}
}

// =============================================================================
// Registry
// =============================================================================

type holder struct{ h Hooks }

var current atomic.Pointer[holder]

func init() { Reset() }

// Set installs h as the process-wide hooks. A nil h is ignored.
func Set(h Hooks) {
	if h != nil {
		current.Store(&holder{h})
	}
}

// Current returns the installed hooks.
func Current() Hooks { return current.Load().h }

// Reset restores the no-op hooks.
func Reset() { current.Store(&holder{Funcs{}}) }

// Begin starts timing stage and returns a function that stamps the stage
// and elapsed time onto ev and emits it.
func Begin(ctx context.Context, stage Stage) func(ev StageEvent) {
	start := time.Now()
	return func(ev StageEvent) {
		ev.Stage = stage
		ev.Duration = time.Since(start)
		Current().Stage(ctx, ev)
	}
}

// RecordCache emits a cache event to the installed hooks.
func RecordCache(ctx context.Context, kind string, result CacheResult, bytes int) {
	Current().Cache(ctx, CacheEvent{Kind: kind, Result: result, Bytes: bytes})
}

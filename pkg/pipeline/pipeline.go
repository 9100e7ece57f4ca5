// Package pipeline runs probe, layout and render as one cached unit, so the
// CLI and the HTTP API produce byte-identical output for the same input.
//
// A [Runner] owns the cache. Each stage is also available on its own:
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	opts := pipeline.DefaultOptions()
//	opts.Input = "gallery.yaml"
//	frames, err := runner.Probe(ctx, opts)
//	doc, err := runner.Layout(ctx, frames, opts)
//	artifacts, err := runner.Render(ctx, doc, opts)
//
// or all at once with [Runner.Execute]. Layouts are keyed by the hash of
// the probed frames plus the layout parameters; artifacts by the hash of
// the layout document plus the render options.
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/justgrid/pkg/cache"
	"github.com/matzehuels/justgrid/pkg/errors"
	"github.com/matzehuels/justgrid/pkg/layout"
	"github.com/matzehuels/justgrid/pkg/render"
	"github.com/matzehuels/justgrid/pkg/render/styles"
)

// Defaults shared by the CLI, the config file and the API.
const (
	DefaultContainerWidth = 1200
	DefaultMaxRowHeight   = 320
	// DefaultSpacing is used by the CLI and config when no spacing is given.
	// Options never default spacing.
	DefaultSpacing = 8
	DefaultStyle   = "simple"

	// MaxFrames bounds a single layout request.
	MaxFrames = 100_000
)

// Output formats.
const (
	FormatSVG  = "svg"
	FormatHTML = "html"
	FormatJSON = "json"
)

// Options configures a pipeline run. It doubles as the JSON body of the
// API's render endpoint.
type Options struct {
	Input string `json:"input,omitempty"`

	ContainerWidth  int    `json:"container_width,omitempty"`
	MaxRowHeight    int    `json:"max_row_height,omitempty"`
	Spacing         int    `json:"spacing"`
	JustifyTrailing bool   `json:"justify_trailing,omitempty"`
	Parallel        bool   `json:"parallel,omitempty"`
	Title           string `json:"title,omitempty"`
	Refresh         bool   `json:"refresh,omitempty"` // skip cache reads

	Formats   []string `json:"formats,omitempty"`
	Style     string   `json:"style,omitempty"`
	Captions  bool     `json:"captions,omitempty"`
	Images    bool     `json:"images,omitempty"` // embed source image references
	ImageBase string   `json:"image_base,omitempty"`

	Logger *log.Logger `json:"-"`
}

// Result is the output of [Runner.Execute].
type Result struct {
	Document   *render.Document
	FramesHash string
	Artifacts  map[string][]byte // keyed by format
	Stats      Stats
	CacheInfo  CacheInfo
}

// Stats records sizes and per-stage wall time.
type Stats struct {
	FrameCount int
	RowCount   int
	ProbeTime  time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo records which stages were served from the cache. RenderHit is
// set only when every requested format was cached.
type CacheInfo struct {
	LayoutHit bool
	RenderHit bool
}

// ValidateFormats checks every entry of formats.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := errors.ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateStyle checks that style names a registered style.
func ValidateStyle(style string) error {
	_, err := styles.ByName(style)
	return err
}

// DefaultOptions returns the built-in layout and render settings.
func DefaultOptions() Options {
	return Options{
		ContainerWidth: DefaultContainerWidth,
		MaxRowHeight:   DefaultMaxRowHeight,
		Spacing:        DefaultSpacing,
		Formats:        []string{FormatSVG},
		Style:          DefaultStyle,
	}
}

// ApplyDefaults fills unset formats, style and logger. Layout numbers are
// never touched: a zero width or height is an explicit value and fails
// validation. Start from [DefaultOptions] to get the built-in geometry.
func (o *Options) ApplyDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Style == "" {
		o.Style = DefaultStyle
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Validate applies defaults and checks the options of every stage. Input
// is required.
func (o *Options) Validate() error {
	if o.Input == "" {
		return errors.New(errors.ErrCodeInvalidInput, "input is required")
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	return o.ValidateForRender()
}

// ValidateForLayout checks the layout parameters. Zero widths and heights
// are rejected, not defaulted.
func (o *Options) ValidateForLayout() error {
	o.ApplyDefaults()
	return o.Params().Validate()
}

// ValidateForRender applies defaults and checks formats, style and the
// image base URL.
func (o *Options) ValidateForRender() error {
	o.ApplyDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if err := ValidateStyle(o.Style); err != nil {
		return err
	}
	return errors.ValidateURL(o.ImageBase)
}

// Params returns the layout engine parameters.
func (o *Options) Params() layout.Params {
	return layout.Params{
		ContainerWidth:  o.ContainerWidth,
		MaxRowHeight:    o.MaxRowHeight,
		Spacing:         o.Spacing,
		JustifyTrailing: o.JustifyTrailing,
	}
}

// LayoutKeyOpts returns the part of o that identifies a cached layout.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	p := o.Params()
	return cache.LayoutKeyOpts{
		ContainerWidth:  p.ContainerWidth,
		MaxRowHeight:    p.MaxRowHeight,
		Spacing:         p.Spacing,
		JustifyTrailing: p.JustifyTrailing,
	}
}

// ArtifactKeyOpts returns the part of o that identifies a cached artifact
// of the given format. Setting ImageBase implies Images.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:    format,
		Style:     o.Style,
		Captions:  o.Captions,
		Images:    o.Images || o.ImageBase != "",
		ImageBase: o.ImageBase,
	}
}

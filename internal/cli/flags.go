package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/justgrid/pkg/pipeline"
)

// layoutFlags are shared by every command that computes a layout. A flag
// only overrides the config file when it is set explicitly.
type layoutFlags struct {
	width           int
	maxHeight       int
	spacing         int
	justifyTrailing bool
	parallel        bool
	title           string
	noCache         bool
	refresh         bool
}

func (f *layoutFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&f.width, "width", "w", pipeline.DefaultContainerWidth, "container width in pixels")
	cmd.Flags().IntVarP(&f.maxHeight, "max-height", "H", pipeline.DefaultMaxRowHeight, "maximum row height in pixels")
	cmd.Flags().IntVarP(&f.spacing, "spacing", "s", pipeline.DefaultSpacing, "gap between frames and rows in pixels")
	cmd.Flags().BoolVar(&f.justifyTrailing, "justify-trailing", false, "stretch the last row to the full width")
	cmd.Flags().BoolVar(&f.parallel, "parallel", false, "justify rows concurrently")
	cmd.Flags().StringVar(&f.title, "title", "", "gallery title")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "recompute even when cached")
}

func (f *layoutFlags) apply(cmd *cobra.Command, opts *pipeline.Options) {
	flags := cmd.Flags()
	if flags.Changed("width") {
		opts.ContainerWidth = f.width
	}
	if flags.Changed("max-height") {
		opts.MaxRowHeight = f.maxHeight
	}
	if flags.Changed("spacing") {
		opts.Spacing = f.spacing
	}
	if flags.Changed("justify-trailing") {
		opts.JustifyTrailing = f.justifyTrailing
	}
	opts.Parallel = f.parallel
	opts.Title = f.title
	opts.Refresh = f.refresh
}

// renderFlags are shared by commands that write artifacts.
type renderFlags struct {
	formats   string
	style     string
	captions  bool
	images    bool
	imageBase string
}

func (f *renderFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.formats, "format", "f", "", "output format(s): svg (default), html, json (comma-separated)")
	cmd.Flags().StringVar(&f.style, "style", pipeline.DefaultStyle, "visual style: simple, filled")
	cmd.Flags().BoolVar(&f.captions, "captions", false, "draw captions")
	cmd.Flags().BoolVar(&f.images, "images", false, "reference source images in SVG output")
	cmd.Flags().StringVar(&f.imageBase, "image-base", "", "URL prefix for image references")
}

func (f *renderFlags) apply(cmd *cobra.Command, opts *pipeline.Options) {
	flags := cmd.Flags()
	if flags.Changed("format") {
		opts.Formats = parseFormats(f.formats)
	}
	if flags.Changed("style") {
		opts.Style = f.style
	}
	if flags.Changed("captions") {
		opts.Captions = f.captions
	}
	if flags.Changed("image-base") {
		opts.ImageBase = f.imageBase
	}
	opts.Images = f.images
}

// options returns pipeline options from the config file with explicit flags
// applied on top.
func (c *CLI) options(cmd *cobra.Command, lf *layoutFlags, rf *renderFlags) pipeline.Options {
	opts := c.Config.Options()
	opts.Logger = c.Logger
	if lf != nil {
		lf.apply(cmd, &opts)
	}
	if rf != nil {
		rf.apply(cmd, &opts)
	}
	return opts
}

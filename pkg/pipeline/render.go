package pipeline

import (
	"fmt"

	"github.com/matzehuels/justgrid/pkg/errors"
	"github.com/matzehuels/justgrid/pkg/render"
	"github.com/matzehuels/justgrid/pkg/render/sink"
	"github.com/matzehuels/justgrid/pkg/render/styles"
)

// Render generates output artifacts in the requested formats.
func Render(doc *render.Document, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			var svgOpts []sink.SVGOption
			svgOpts, err = buildSVGOptions(opts)
			if err == nil {
				data = sink.RenderSVG(doc, svgOpts...)
			}
		case FormatHTML:
			data, err = sink.RenderHTML(doc, buildHTMLOptions(opts)...)
		case FormatJSON:
			data, err = sink.RenderJSON(doc)
		default:
			return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

func buildSVGOptions(opts Options) ([]sink.SVGOption, error) {
	style, err := styles.ByName(opts.Style)
	if err != nil {
		return nil, err
	}
	svgOpts := []sink.SVGOption{sink.WithStyle(style)}
	if opts.Captions {
		svgOpts = append(svgOpts, sink.WithCaptions())
	}
	if opts.Images || opts.ImageBase != "" {
		svgOpts = append(svgOpts, sink.WithImages(opts.ImageBase))
	}
	return svgOpts, nil
}

func buildHTMLOptions(opts Options) []sink.HTMLOption {
	var htmlOpts []sink.HTMLOption
	if opts.Captions {
		htmlOpts = append(htmlOpts, sink.WithHTMLCaptions())
	}
	if opts.ImageBase != "" {
		htmlOpts = append(htmlOpts, sink.WithHTMLBaseURL(opts.ImageBase))
	}
	return htmlOpts
}

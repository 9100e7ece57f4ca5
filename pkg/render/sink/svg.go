package sink

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/matzehuels/justgrid/pkg/render"
	"github.com/matzehuels/justgrid/pkg/render/styles"
)

// SVGOption configures SVG rendering via [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	style    styles.Style
	captions bool
	images   bool
	baseURL  string
}

func WithStyle(s styles.Style) SVGOption { return func(r *svgRenderer) { r.style = s } }
func WithCaptions() SVGOption            { return func(r *svgRenderer) { r.captions = true } }

// WithImages embeds an <image> reference for every frame with a path. The
// reference is base joined with the frame path; an empty base keeps paths
// relative to the output file.
func WithImages(base string) SVGOption {
	return func(r *svgRenderer) { r.images = true; r.baseURL = base }
}

// RenderSVG draws every frame of doc.
func RenderSVG(doc *render.Document, opts ...SVGOption) []byte {
	r := svgRenderer{style: styles.Simple{}}
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" width="%d" height="%d">`+"\n",
		doc.Width, doc.Height, doc.Width, doc.Height)
	if doc.Title != "" {
		fmt.Fprintf(&buf, "  <title>%s</title>\n", styles.EscapeXML(doc.Title))
	}

	r.style.RenderDefs(&buf, doc.Width, doc.Height)

	frames := r.frames(doc)
	for _, f := range frames {
		r.style.RenderFrame(&buf, f)
	}
	if r.captions {
		for _, f := range frames {
			r.style.RenderCaption(&buf, f)
		}
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func (r *svgRenderer) frames(doc *render.Document) []styles.Frame {
	boxes := doc.Boxes()
	out := make([]styles.Frame, len(boxes))
	for i, b := range boxes {
		f := styles.Frame{
			ID:      b.ID,
			Caption: b.Caption,
			URL:     b.URL,
			X:       float64(b.X),
			Y:       float64(b.Y),
			W:       float64(b.Width),
			H:       float64(b.Height),
			Row:     b.Row,
		}
		if r.images {
			f.Href = imageRef(r.baseURL, b.Path)
		}
		out[i] = f
	}
	return out
}

func imageRef(base, path string) string {
	if path == "" || base == "" {
		return path
	}
	return strings.TrimSuffix(base, "/") + "/" + strings.TrimPrefix(path, "/")
}

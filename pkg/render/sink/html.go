package sink

import (
	"bytes"
	"html/template"

	"github.com/matzehuels/justgrid/pkg/render"
)

// HTMLOption configures HTML rendering via [RenderHTML].
type HTMLOption func(*htmlRenderer)

type htmlRenderer struct {
	baseURL  string
	captions bool
}

// WithHTMLBaseURL resolves frame paths against base.
func WithHTMLBaseURL(base string) HTMLOption { return func(r *htmlRenderer) { r.baseURL = base } }

// WithHTMLCaptions renders captions as <figcaption> elements.
func WithHTMLCaptions() HTMLOption { return func(r *htmlRenderer) { r.captions = true } }

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{if .Title}}{{.Title}}{{else}}Gallery{{end}}</title>
<style>
  body { margin: 0; padding: 16px; background: #fafafa; font-family: sans-serif; }
  .gallery { position: relative; width: {{.Width}}px; height: {{.Height}}px; margin: 0 auto; }
  .gallery figure { position: absolute; margin: 0; overflow: hidden; background: #e8e8e8; }
  .gallery img { width: 100%; height: 100%; object-fit: cover; display: block; }
  .gallery figcaption { position: absolute; left: 0; right: 0; bottom: 0; padding: 4px 6px; font-size: 12px; color: white; background: rgba(0,0,0,.45); }
</style>
</head>
<body>
<div class="gallery">
{{- range .Frames}}
  <figure id="frame-{{.ID}}" data-row="{{.Row}}" style="left:{{.X}}px;top:{{.Y}}px;width:{{.Width}}px;height:{{.Height}}px">
    {{- if .URL}}<a href="{{.URL}}">{{end}}
    {{- if .Src}}<img src="{{.Src}}" alt="{{.Caption}}" loading="lazy">{{end}}
    {{- if .URL}}</a>{{end}}
    {{- if and $.Captions .Caption}}<figcaption>{{.Caption}}</figcaption>{{end}}
  </figure>
{{- end}}
</div>
</body>
</html>
`))

type htmlFrame struct {
	render.Box
	Src string
}

type htmlPage struct {
	Title    string
	Width    int
	Height   int
	Captions bool
	Frames   []htmlFrame
}

// RenderHTML writes a static page that positions every frame of doc.
func RenderHTML(doc *render.Document, opts ...HTMLOption) ([]byte, error) {
	var r htmlRenderer
	for _, opt := range opts {
		opt(&r)
	}

	page := htmlPage{
		Title:    doc.Title,
		Width:    doc.Width,
		Height:   doc.Height,
		Captions: r.captions,
	}
	for _, b := range doc.Boxes() {
		page.Frames = append(page.Frames, htmlFrame{Box: b, Src: imageRef(r.baseURL, b.Path)})
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, page); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

package render

import (
	"encoding/json"
	"io"

	"github.com/matzehuels/justgrid/pkg/errors"
	"github.com/matzehuels/justgrid/pkg/layout"
	"github.com/matzehuels/justgrid/pkg/source"
)

// DocumentVersion is the current layout document schema version.
const DocumentVersion = 1

// Document is the serialized form of a placed layout.
type Document struct {
	Version         int      `json:"version"`
	Title           string   `json:"title,omitempty"`
	ContainerWidth  int      `json:"container_width"`
	MaxRowHeight    int      `json:"max_row_height"`
	Spacing         int      `json:"spacing"`
	JustifyTrailing bool     `json:"justify_trailing,omitempty"`
	Width           int      `json:"width"`
	Height          int      `json:"height"`
	Rows            []DocRow `json:"rows"`
}

// DocRow is one placed row.
type DocRow struct {
	Index         int   `json:"index"`
	Justified     bool  `json:"justified"`
	WorkingHeight int   `json:"working_height"`
	Y             int   `json:"y"`
	Height        int   `json:"height"`
	Frames        []Box `json:"frames"`
}

// NewDocument places l and records the parameters it was computed with.
func NewDocument(l layout.Layout[source.Item], p layout.Params) *Document {
	doc := &Document{
		Version:         DocumentVersion,
		ContainerWidth:  p.ContainerWidth,
		MaxRowHeight:    p.MaxRowHeight,
		Spacing:         p.Spacing,
		JustifyTrailing: p.JustifyTrailing,
		Width:           p.ContainerWidth,
		Height:          l.Height(p.Spacing),
		Rows:            make([]DocRow, len(l.Rows)),
	}

	boxes := Place(l, p.Spacing)
	for i, row := range l.Rows {
		doc.Rows[i] = DocRow{
			Index:         i,
			Justified:     row.Justified,
			WorkingHeight: row.WorkingHeight,
			Height:        row.Height(),
			Frames:        boxes[:row.Len():row.Len()],
		}
		if row.Len() > 0 {
			doc.Rows[i].Y = boxes[0].Y
		}
		boxes = boxes[row.Len():]
	}

	// A trailing row that was not justified can overflow the container.
	for _, row := range doc.Rows {
		for _, b := range row.Frames {
			doc.Width = max(doc.Width, b.X+b.Width)
		}
	}
	return doc
}

// Params returns the layout parameters recorded in the document.
func (d *Document) Params() layout.Params {
	return layout.Params{
		ContainerWidth:  d.ContainerWidth,
		MaxRowHeight:    d.MaxRowHeight,
		Spacing:         d.Spacing,
		JustifyTrailing: d.JustifyTrailing,
	}
}

// Boxes returns every placed frame in row-major order.
func (d *Document) Boxes() []Box {
	var out []Box
	for _, r := range d.Rows {
		out = append(out, r.Frames...)
	}
	return out
}

// Frames reconstructs layout input from the placed boxes. Widths include
// the leading gap removed during justification, which recovers each
// frame's aspect ratio to within rounding.
func (d *Document) Frames() []layout.Frame[source.Item] {
	var out []layout.Frame[source.Item]
	for _, r := range d.Rows {
		for i, b := range r.Frames {
			w := b.Width
			if r.Justified {
				w += layout.LeadingGap(i, d.Spacing)
			}
			out = append(out, layout.Frame[source.Item]{
				Width:   float64(w),
				Height:  float64(b.Height),
				Payload: b.Item,
			})
		}
	}
	return out
}

// Validate checks the document header and box geometry.
func (d *Document) Validate() error {
	if d.Version != DocumentVersion {
		return errors.New(errors.ErrCodeInvalidInput, "unsupported document version %d", d.Version)
	}
	if err := d.Params().Validate(); err != nil {
		return err
	}
	for _, r := range d.Rows {
		for _, b := range r.Frames {
			if b.Width < 0 || b.Height < 0 || b.X < 0 || b.Y < 0 {
				return errors.New(errors.ErrCodeInvalidInput, "frame %q in row %d has negative geometry", b.ID, r.Index)
			}
		}
	}
	return nil
}

// WriteDocument encodes doc as indented JSON.
func WriteDocument(w io.Writer, doc *Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// ReadDocument decodes and validates a document written by WriteDocument.
func ReadDocument(r io.Reader) (*Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode layout document")
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

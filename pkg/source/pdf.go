package source

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/gen2brain/go-fitz"

	"github.com/matzehuels/justgrid/pkg/errors"
	"github.com/matzehuels/justgrid/pkg/layout"
)

// PDFSource yields one frame per page, sized by the page bounds.
type PDFSource struct {
	doc  *fitz.Document
	path string
}

// NewPDFSource opens the document at path.
func NewPDFSource(path string) (*PDFSource, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "open pdf %s", filepath.Base(path))
	}
	return &PDFSource{doc: doc, path: path}, nil
}

// Frames implements Source.
func (s *PDFSource) Frames(ctx context.Context) ([]layout.Frame[Item], error) {
	n := s.doc.NumPage()
	id := itemID(s.path)
	frames := make([]layout.Frame[Item], 0, n)
	for i := range n {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rect, err := s.doc.Bound(i)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i+1, err)
		}
		frames = append(frames, layout.Frame[Item]{
			Width:  float64(rect.Dx()),
			Height: float64(rect.Dy()),
			Payload: Item{
				ID:      fmt.Sprintf("%s-p%d", id, i+1),
				Path:    s.path,
				Caption: fmt.Sprintf("Page %d", i+1),
			},
		})
	}
	return frames, nil
}

// Close releases the document.
func (s *PDFSource) Close() error {
	return s.doc.Close()
}

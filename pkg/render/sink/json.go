package sink

import (
	"bytes"

	"github.com/matzehuels/justgrid/pkg/render"
)

// RenderJSON encodes doc as an indented layout document.
func RenderJSON(doc *render.Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := render.WriteDocument(&buf, doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

package styles

import (
	"bytes"
	"fmt"
)

// rowPalette tints rows in turn so row boundaries are easy to spot.
var rowPalette = []string{"#4e79a7", "#f28e2b", "#59a14f", "#e15759", "#76b7b2", "#edc948", "#b07aa1"}

// Filled draws solid blocks tinted by row on a dark background.
type Filled struct{}

func (Filled) Name() string { return "filled" }

func (Filled) RenderDefs(buf *bytes.Buffer, width, height int) {
	buf.WriteString("  <defs>\n    <style>.caption { font-family: sans-serif; font-weight: bold; }</style>\n  </defs>\n")
	fmt.Fprintf(buf, `  <rect width="%d" height="%d" fill="#1e1e1e"/>`+"\n", width, height)
}

func (Filled) RenderFrame(buf *bytes.Buffer, f Frame) {
	WrapURL(buf, f.URL, func() {
		fmt.Fprintf(buf, `  <rect id="frame-%s" class="frame" x="%.0f" y="%.0f" width="%.0f" height="%.0f" rx="3" fill="%s"/>`+"\n",
			EscapeXML(f.ID), f.X, f.Y, f.W, f.H, RowColor(f.Row))
		renderImage(buf, f)
	})
}

func (Filled) RenderCaption(buf *bytes.Buffer, f Frame) {
	renderCaption(buf, f, "white")
}

// RowColor returns the fill used for row.
func RowColor(row int) string {
	return rowPalette[row%len(rowPalette)]
}

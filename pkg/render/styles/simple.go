package styles

import (
	"bytes"
	"fmt"
)

// Simple draws outlined placeholders on a white background.
type Simple struct{}

func (Simple) Name() string { return "simple" }

func (Simple) RenderDefs(buf *bytes.Buffer, width, height int) {
	buf.WriteString("  <defs>\n    <style>.frame { fill: #f4f4f4; stroke: #333; stroke-width: 1; } .caption { font-family: sans-serif; }</style>\n  </defs>\n")
	fmt.Fprintf(buf, `  <rect width="%d" height="%d" fill="white"/>`+"\n", width, height)
}

func (Simple) RenderFrame(buf *bytes.Buffer, f Frame) {
	WrapURL(buf, f.URL, func() {
		fmt.Fprintf(buf, `  <rect id="frame-%s" class="frame" x="%.0f" y="%.0f" width="%.0f" height="%.0f"/>`+"\n",
			EscapeXML(f.ID), f.X, f.Y, f.W, f.H)
		renderImage(buf, f)
	})
}

func (Simple) RenderCaption(buf *bytes.Buffer, f Frame) {
	renderCaption(buf, f, "#333")
}

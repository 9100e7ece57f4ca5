package render

import (
	"github.com/matzehuels/justgrid/pkg/layout"
	"github.com/matzehuels/justgrid/pkg/source"
)

// Box is a frame at its final position on the canvas.
type Box struct {
	source.Item
	Row    int `json:"row"`
	Index  int `json:"index"`
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Place assigns canvas coordinates to every frame of l. Frames are returned
// in row-major order.
func Place(l layout.Layout[source.Item], spacing int) []Box {
	boxes := make([]Box, 0, l.Len())
	y := 0
	for ri, row := range l.Rows {
		if ri > 0 {
			y += spacing
		}
		x := 0
		for i, f := range row.Frames {
			x += layout.LeadingGap(i, spacing)
			boxes = append(boxes, Box{
				Item:   f.Payload,
				Row:    ri,
				Index:  i,
				X:      x,
				Y:      y,
				Width:  f.Width,
				Height: f.Height,
			})
			x += f.Width
		}
		y += row.Height()
	}
	return boxes
}

package layout

// Row is a left-to-right group of frames.
type Row[P any] struct {
	Frames []ScaledFrame[P]

	// Justified is true when the row was rescaled to span the container.
	Justified bool

	// WorkingHeight is the height shared by every frame after accumulation
	// and before justification. It never exceeds Params.MaxRowHeight.
	WorkingHeight int
}

// Len returns the number of frames in the row.
func (r Row[P]) Len() int { return len(r.Frames) }

// Height returns the tallest frame height in the row.
func (r Row[P]) Height() int {
	h := 0
	for _, f := range r.Frames {
		h = max(h, f.Height)
	}
	return h
}

// ContentWidth returns the drawn width of the row: every frame width plus
// the leading gap of each frame.
func (r Row[P]) ContentWidth(spacing int) int {
	w := 0
	for i, f := range r.Frames {
		w += f.Width + LeadingGap(i, spacing)
	}
	return w
}

// Layout is the ordered, top-to-bottom sequence of rows computed for one
// input.
type Layout[P any] struct {
	Rows []Row[P]
}

// Len returns the total number of frames across all rows.
func (l Layout[P]) Len() int {
	n := 0
	for _, r := range l.Rows {
		n += len(r.Frames)
	}
	return n
}

// Frames flattens the layout in row-major order.
func (l Layout[P]) Frames() []ScaledFrame[P] {
	out := make([]ScaledFrame[P], 0, l.Len())
	for _, r := range l.Rows {
		out = append(out, r.Frames...)
	}
	return out
}

// Height returns the stacked height of all rows with spacing between
// consecutive rows.
func (l Layout[P]) Height(spacing int) int {
	h := 0
	for i, r := range l.Rows {
		if i > 0 {
			h += spacing
		}
		h += r.Height()
	}
	return h
}

// Package layout computes justified, row-based gallery layouts.
//
// # Overview
//
// Given an ordered sequence of [Frame] values (width, height and an opaque
// payload) and a set of [Params], [Compute] packs the frames into rows that
// fill a fixed container width without cropping. Every frame keeps its
// aspect ratio; every row except possibly the last spans the container
// exactly (within integer rounding); no row is taller than MaxRowHeight.
//
// # Algorithm
//
// The engine makes a single left-to-right pass over the input:
//
//  1. Row accumulation. The first frame of a row is scaled to MaxRowHeight;
//     every following frame is scaled to the height of that first frame.
//     Scaled widths are summed until the sum reaches ContainerWidth, at
//     which point the row is full.
//
//  2. Row justification. A full row is rescaled by
//     ContainerWidth / rowWidth so that it spans the container, and the
//     spacing between frames is carved out of the frame widths (see
//     [LeadingGap]).
//
// Frames left over after the last full row form the trailing row. It keeps
// its accumulation geometry unless [Params.JustifyTrailing] is set, so that
// two or three leftover images are not blown up to the full width.
//
// Both stages round to the nearest integer with [math.Round].
//
// # Spacing
//
// Spacing is realized by removing pixels from frame widths rather than by
// adding gaps. [LeadingGap] returns the number of pixels taken from a frame
// during justification and, equally, the left margin a renderer must place
// in front of it. The first frame of a row never has a gap.
//
//	l, err := layout.Compute(frames, layout.Params{
//	    ContainerWidth: 800,
//	    MaxRowHeight:   360,
//	    Spacing:        10,
//	})
//	for _, row := range l.Rows {
//	    x := 0
//	    for i, f := range row.Frames {
//	        x += layout.LeadingGap(i, 10)
//	        draw(f.Payload, x, f.Width, f.Height)
//	        x += f.Width
//	    }
//	}
//
// # Errors
//
// Invalid parameters fail with code INVALID_PARAMETERS and a frame with
// non-positive or non-finite geometry fails with INVALID_FRAME (see
// [github.com/matzehuels/justgrid/pkg/errors]). A failure aborts the
// whole computation; there are no partial results.
//
// # Concurrency
//
// [Compute] is pure and holds no state. Justification of a finished row
// does not depend on any other row, so [ComputeParallel] spreads that stage
// across goroutines. Its output is identical to [Compute].
package layout

package layout

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Compute packs frames into justified rows.
//
// Frames are validated as they are visited, so an invalid frame aborts the
// computation before any arithmetic is done with it. An empty input yields
// a Layout with no rows.
func Compute[P any](frames []Frame[P], p Params) (Layout[P], error) {
	pending, err := accumulate(frames, p)
	if err != nil {
		return Layout[P]{}, err
	}

	l := Layout[P]{Rows: make([]Row[P], len(pending))}
	for i, pr := range pending {
		l.Rows[i] = pr.finish(p)
	}
	return l, nil
}

// ComputeParallel is Compute with the justification stage of finished rows
// spread across goroutines. Accumulation stays sequential because each
// frame's target height depends on the current row.
func ComputeParallel[P any](ctx context.Context, frames []Frame[P], p Params) (Layout[P], error) {
	pending, err := accumulate(frames, p)
	if err != nil {
		return Layout[P]{}, err
	}

	l := Layout[P]{Rows: make([]Row[P], len(pending))}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, pr := range pending {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			l.Rows[i] = pr.finish(p)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Layout[P]{}, err
	}
	return l, nil
}

// pendingRow is an accumulated row awaiting justification.
type pendingRow[P any] struct {
	frames  []ScaledFrame[P]
	width   int // pre-correction sum of frame widths, without spacing
	justify bool
}

func (pr pendingRow[P]) finish(p Params) Row[P] {
	if pr.justify {
		return justify(pr.frames, pr.width, p)
	}
	return Row[P]{Frames: pr.frames, WorkingHeight: pr.frames[0].Height}
}

// accumulate runs the row accumulation pass and returns the rows in input
// order. Full rows are marked for justification; the trailing row only if
// p.JustifyTrailing is set.
func accumulate[P any](frames []Frame[P], p Params) ([]pendingRow[P], error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	var (
		rows []pendingRow[P]
		buf  []ScaledFrame[P]
		acc  int
	)
	for i, f := range frames {
		if err := ValidateFrame(i, f); err != nil {
			return nil, err
		}

		target := p.MaxRowHeight
		if len(buf) > 0 {
			target = buf[0].Height
		}
		w, err := scaledWidth(i, f, target)
		if err != nil {
			return nil, err
		}
		buf = append(buf, ScaledFrame[P]{Width: w, Height: target, Payload: f.Payload})
		acc += w

		if acc >= p.ContainerWidth {
			rows = append(rows, pendingRow[P]{frames: buf, width: acc, justify: true})
			buf, acc = nil, 0
		}
	}
	if len(buf) > 0 {
		rows = append(rows, pendingRow[P]{frames: buf, width: acc, justify: p.JustifyTrailing})
	}
	return rows, nil
}

// justify rescales a row so that its frames plus their leading gaps span
// p.ContainerWidth. width is the accumulated width of frames.
func justify[P any](frames []ScaledFrame[P], width int, p Params) Row[P] {
	row := Row[P]{WorkingHeight: frames[0].Height}
	if width <= 0 {
		// Only reachable for a trailing row of frames that rounded to zero width.
		row.Frames = frames
		return row
	}

	scale := float64(p.ContainerWidth) / float64(width)
	row.Frames = make([]ScaledFrame[P], len(frames))
	for i, f := range frames {
		w := round(float64(f.Width)*scale) - LeadingGap(i, p.Spacing)
		row.Frames[i] = ScaledFrame[P]{
			Width:   max(0, w),
			Height:  round(float64(f.Height) * scale),
			Payload: f.Payload,
		}
	}
	row.Justified = true
	return row
}

package layout

import (
	"math"

	"github.com/matzehuels/justgrid/pkg/errors"
)

// Frame is an input rectangle. Payload is carried through to the output
// untouched.
type Frame[P any] struct {
	Width   float64
	Height  float64
	Payload P
}

// Aspect returns the width-to-height ratio of the frame.
func (f Frame[P]) Aspect() float64 { return f.Width / f.Height }

// ScaledFrame is a frame with its final pixel geometry.
type ScaledFrame[P any] struct {
	Width   int
	Height  int
	Payload P
}

// Params configures a layout computation.
type Params struct {
	// ContainerWidth is the width every full row must span.
	ContainerWidth int
	// MaxRowHeight bounds the working height of every row.
	MaxRowHeight int
	// Spacing is the gap in pixels between adjacent frames of a row.
	Spacing int
	// JustifyTrailing also stretches the last, partially filled row.
	JustifyTrailing bool
}

// Validate checks the parameters against their domain constraints.
func (p Params) Validate() error {
	if p.ContainerWidth <= 0 {
		return errors.New(errors.ErrCodeInvalidParameters, "container width must be positive, got %d", p.ContainerWidth)
	}
	if p.MaxRowHeight <= 0 {
		return errors.New(errors.ErrCodeInvalidParameters, "max row height must be positive, got %d", p.MaxRowHeight)
	}
	if p.Spacing < 0 {
		return errors.New(errors.ErrCodeInvalidParameters, "spacing must not be negative, got %d", p.Spacing)
	}
	return nil
}

// ValidateFrame reports an INVALID_FRAME error for a frame whose geometry
// makes its aspect ratio undefined. index is the frame's input position.
func ValidateFrame[P any](index int, f Frame[P]) error {
	if validDim(f.Width) && validDim(f.Height) {
		return nil
	}
	return errors.Wrap(errors.ErrCodeInvalidFrame,
		&errors.FrameError{Index: index, Width: f.Width, Height: f.Height},
		"width and height must be positive")
}

// maxScaledWidth bounds a frame's width at its row height. Anything wider
// cannot be represented as pixel geometry.
const maxScaledWidth = math.MaxInt32

// scaledWidth returns the rounded width of f at height target, or an
// INVALID_FRAME error when the aspect ratio pushes it out of range.
func scaledWidth[P any](index int, f Frame[P], target int) (int, error) {
	w := float64(target) * f.Width / f.Height
	if math.IsNaN(w) || w > maxScaledWidth {
		return 0, errors.Wrap(errors.ErrCodeInvalidFrame,
			&errors.FrameError{Index: index, Width: f.Width, Height: f.Height},
			"aspect ratio too extreme to lay out")
	}
	return round(w), nil
}

func validDim(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

// LeadingGap returns the spacing owned by the frame at index within a row.
//
// During justification this many pixels are subtracted from the frame's
// width; when drawing, the same amount is placed as a left margin before
// it. The first frame owns no gap, so a justified row of n frames draws
// exactly (n-1)*spacing pixels of gaps.
func LeadingGap(index, spacing int) int {
	if index == 0 {
		return 0
	}
	return spacing
}

func round(v float64) int { return int(math.Round(v)) }

package layout_test

import (
	"fmt"

	"github.com/matzehuels/justgrid/pkg/layout"
)

func ExampleCompute() {
	frames := []layout.Frame[string]{
		{Width: 1000, Height: 360, Payload: "panorama"},
		{Width: 400, Height: 600, Payload: "portrait"},
		{Width: 600, Height: 400, Payload: "beach"},
		{Width: 600, Height: 400, Payload: "harbour"},
		{Width: 300, Height: 400, Payload: "door"},
		{Width: 300, Height: 400, Payload: "window"},
	}

	l, err := layout.Compute(frames, layout.Params{
		ContainerWidth: 800,
		MaxRowHeight:   360,
		Spacing:        10,
	})
	if err != nil {
		panic(err)
	}

	for i, row := range l.Rows {
		fmt.Printf("row %d (justified=%v):", i, row.Justified)
		for _, f := range row.Frames {
			fmt.Printf(" %s=%dx%d", f.Payload, f.Width, f.Height)
		}
		fmt.Println()
	}
	// Output:
	// row 0 (justified=true): panorama=800x288
	// row 1 (justified=true): portrait=145x218 beach=317x218 harbour=317x218
	// row 2 (justified=false): door=270x360 window=270x360
}

func ExampleLeadingGap() {
	widths := []int{145, 317, 317}
	x := 0
	for i, w := range widths {
		x += layout.LeadingGap(i, 10)
		fmt.Printf("frame %d at x=%d\n", i, x)
		x += w
	}
	fmt.Println("right edge:", x)
	// Output:
	// frame 0 at x=0
	// frame 1 at x=155
	// frame 2 at x=482
	// right edge: 799
}

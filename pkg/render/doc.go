// Package render places a computed gallery layout on a canvas and defines
// the layout document exchanged between commands and services.
//
// # Overview
//
// [Place] converts the rows of a [layout.Layout] into absolute boxes. Frames
// within a row are separated by [layout.LeadingGap], so a justified row
// spans exactly the container width; rows are stacked top to bottom with
// the same spacing between them.
//
// [NewDocument] bundles the boxes with the parameters that produced them.
// A [Document] is what `justgrid layout` writes and what `justgrid render`
// and the HTTP API consume:
//
//	l, _ := layout.Compute(frames, params)
//	doc := render.NewDocument(l, params)
//	render.WriteDocument(w, doc)
//
// The output formats themselves live in the sink subpackage and the visual
// styles in the styles subpackage.
package render

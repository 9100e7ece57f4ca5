// Package sink provides output format renderers for gallery layouts.
//
// # Overview
//
// A "sink" transforms a placed [render.Document] into a final output
// format:
//
//   - SVG: vector preview with placeholder or linked images
//   - HTML: a static page of absolutely positioned figures
//   - JSON: the layout document itself, for other tools
//
// # SVG Output
//
//	svg := sink.RenderSVG(doc,
//	    sink.WithStyle(styles.Filled{}),
//	    sink.WithCaptions(),
//	    sink.WithImages("https://cdn.example.com/"),
//	)
//
// # SVG Options
//
//   - [WithStyle]: visual style ([styles.Simple] by default)
//   - [WithCaptions]: draw frame captions
//   - [WithImages]: reference the source images, resolved against a base
//
// # HTML Output
//
// [RenderHTML] writes a self-contained page. Each frame becomes a
// <figure> with the same geometry as in the SVG so that both outputs
// agree pixel for pixel.
package sink

// Package pkg provides the core libraries for justgrid gallery layouts.
//
// # Overview
//
// justgrid packs frames (images, PDF pages or manifest entries) into rows of
// equal height that exactly fill a container width. The pkg directory is
// organized into three areas:
//
//  1. Domain logic: [layout] (the row packing engine) and [render] (placement
//     and output)
//  2. Inputs: [source] (directories, PDFs, manifests, remote manifests)
//  3. Plumbing: [pipeline], [cache], [config], [server], [httputil],
//     [observability], [errors] and [buildinfo]
//
// # Architecture
//
// The typical data flow through justgrid:
//
//	Directory / PDF / Manifest / URL
//	         ↓
//	    [source] package (probe frame dimensions)
//	         ↓
//	    [layout] package (partition into justified rows)
//	         ↓
//	    [render] package (place boxes, write SVG/HTML/JSON)
//
// [pipeline.Runner] ties the stages together and caches layouts and
// artifacts. Both the CLI and [server] use it.
//
// # Quick Start
//
//	frames, _ := source.Load(ctx, "photos/")
//	l, _ := layout.Compute(frames, layout.Params{
//	    ContainerWidth: 1200,
//	    MaxRowHeight:   320,
//	    Spacing:        8,
//	})
//	doc := render.NewDocument(l, params)
//	svg := sink.RenderSVG(doc)
//
// See the individual package documentation for details.
//
// [layout]: github.com/matzehuels/justgrid/pkg/layout
// [render]: github.com/matzehuels/justgrid/pkg/render
// [source]: github.com/matzehuels/justgrid/pkg/source
// [pipeline]: github.com/matzehuels/justgrid/pkg/pipeline
// [pipeline.Runner]: github.com/matzehuels/justgrid/pkg/pipeline#Runner
// [cache]: github.com/matzehuels/justgrid/pkg/cache
// [config]: github.com/matzehuels/justgrid/pkg/config
// [server]: github.com/matzehuels/justgrid/pkg/server
// [httputil]: github.com/matzehuels/justgrid/pkg/httputil
// [observability]: github.com/matzehuels/justgrid/pkg/observability
// [errors]: github.com/matzehuels/justgrid/pkg/errors
// [buildinfo]: github.com/matzehuels/justgrid/pkg/buildinfo
package pkg

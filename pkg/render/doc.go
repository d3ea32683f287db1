// Package render turns positioned attack trees into images.
//
// # Overview
//
// Rendering has two stages:
//
//   - Tree drawing (in the [nodelink] subpackage): a [graph.Layout] becomes
//     Graphviz DOT with every node pinned at its computed position, then SVG
//   - Format conversion (this package): SVG to PDF or PNG
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg).
//
//	svg, err := nodelink.RenderSVG(ctx, nodelink.ToDOT(l, nodelink.DefaultStyle()))
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0) // 2x scale
//
// [nodelink]: github.com/matzehuels/argviz/pkg/render/nodelink
// [graph.Layout]: github.com/matzehuels/argviz/pkg/graph.Layout
package render

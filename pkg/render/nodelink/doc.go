// Package nodelink draws positioned attack trees with Graphviz.
//
// # Overview
//
// Node positions come from [layout.Hierarchy]; Graphviz only draws. [ToDOT]
// pins every node with pos="x,y!" and selects the neato engine, which keeps
// pinned nodes where they are and routes the edges between them.
//
// # Usage
//
//	dot := nodelink.ToDOT(l, nodelink.DefaultStyle())
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// For PDF or PNG output, use the render functions:
//
//	pdf, err := nodelink.RenderPDF(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot, 2.0) // 2x scale
//
// # Styling
//
// The root is filled with the accept or reject color depending on whether
// the query holds; all other arguments use the node color. Each node's
// description becomes its SVG tooltip, so hovering a node in a browser shows
// what the engine printed for it. With [Style.Compact] only the first
// description line is kept.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG additionally need rsvg-convert.
//
// [layout.Hierarchy]: github.com/matzehuels/argviz/pkg/layout.Hierarchy
package nodelink

// Package nodelink renders a weighted hierarchy as a node-link diagram.
//
// # Overview
//
// Where the treemap sinks show containment through nested rectangles, this
// package draws the same tree as boxes connected by arrows, using Graphviz.
// It is useful for checking the structure and weights the aggregator built
// before looking at the layout.
//
// # Usage
//
// Convert a tree to DOT format, then render to SVG:
//
//	dot := nodelink.ToDOT(root, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(dot)
//
// For PDF or PNG output, use the render functions:
//
//	pdf, err := nodelink.RenderPDF(dot)
//	png, err := nodelink.RenderPNG(dot, 2.0)  // 2x scale
//
// # Options
//
// The [Options] struct controls diagram generation:
//
//   - Detailed: node labels include size, value and, for laid-out nodes,
//     area and rectangle
//   - MaxDepth: stop descending after this many levels (0 = unlimited)
//
// Nodes that a layout pass did not place are drawn dashed.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink

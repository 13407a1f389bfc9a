// Package render turns laid-out treemaps into visual output.
//
// # Overview
//
// Rendering is split into subpackages:
//
//   - [sink]: treemap outputs (HTML, SVG, JSON, terminal text, PDF, PNG)
//   - [nodelink]: the hierarchy as a Graphviz node-link diagram
//
// This package holds the format conversion both of them share.
//
// # Format Conversion
//
// [ToPDF] and [ToPNG] convert any SVG to other formats using the external
// rsvg-convert tool (from librsvg):
//
//	svg := sink.RenderSVG(res)
//	pdf, err := render.ToPDF(svg)
//	png, err := render.ToPNG(svg, 2.0)  // 2x scale
//
// When rsvg-convert is not installed the conversion fails with an
// UNSUPPORTED error.
//
// [sink]: https://pkg.go.dev/github.com/matzehuels/treemap/pkg/render/sink
// [nodelink]: https://pkg.go.dev/github.com/matzehuels/treemap/pkg/render/nodelink
package render

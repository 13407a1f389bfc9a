// Package sink renders laid-out treemaps into output formats.
//
// Every renderer takes a [layout.Result] and either writes to an io.Writer
// or returns bytes. Renderers keep no state between calls and may be used
// concurrently.
//
// # Formats
//
//   - [RenderHTML]: nested, percent-positioned div elements. Each level is
//     positioned relative to its parent; deeper levels stay hidden until
//     their parent is hovered.
//   - [RenderSVG]: absolute rectangles with a depth-based palette.
//   - [RenderJSON]: the annotated tree in the layout JSON codec.
//   - [RenderText]: a character raster for terminals, colored with lipgloss.
//   - [RenderPDF], [RenderPNG]: SVG converted through rsvg-convert.
//
// # Usage
//
//	res, _ := layout.Layout(root, tree.Rect{Width: 100, Height: 100})
//	var buf bytes.Buffer
//	if err := sink.RenderHTML(&buf, res, sink.WithCaption("Home")); err != nil {
//	    return err
//	}
package sink

package sink

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/matzehuels/treemap/pkg/layout"
	"github.com/matzehuels/treemap/pkg/tree"
)

const svgCSS = `
    .block { stroke: #fff; stroke-width: 1; transition: opacity 0.2s ease; }
    .block:hover { opacity: 0.8; }
    .block-text { font-family: -apple-system, "Segoe UI", Helvetica, sans-serif; fill: #fff; pointer-events: none; }`

// SVGOption configures SVG rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	width, height  float64
	palette        []string
	minLabelWidth  float64
	minLabelHeight float64
	fontSize       float64
}

// WithFrame sets the pixel size of the drawing.
func WithFrame(width, height float64) SVGOption {
	return func(r *svgRenderer) { r.width, r.height = width, height }
}

// WithPalette sets the fill colors used per depth.
func WithPalette(colors ...string) SVGOption {
	return func(r *svgRenderer) { r.palette = colors }
}

// WithMinLabel sets the smallest block that still receives a label.
func WithMinLabel(width, height float64) SVGOption {
	return func(r *svgRenderer) { r.minLabelWidth, r.minLabelHeight = width, height }
}

func newSVGRenderer(opts ...SVGOption) svgRenderer {
	r := svgRenderer{
		width:          1200,
		height:         800,
		palette:        DefaultPalette,
		minLabelWidth:  40,
		minLabelHeight: 16,
		fontSize:       12,
	}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// RenderSVG draws every laid-out block as a rectangle filled by depth.
// Blocks whose children were laid out are drawn beneath their children;
// only the innermost blocks carry a text label.
func RenderSVG(res *layout.Result, opts ...SVGOption) []byte {
	r := newSVGRenderer(opts...)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		r.width, r.height, r.width, r.height)
	fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", svgCSS)

	blocks := res.Blocks(tree.Rect{Width: r.width, Height: r.height})
	for _, b := range blocks {
		fmt.Fprintf(&buf, `  <rect class="block" x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s"><title>%s (%s)</title></rect>`+"\n",
			b.X, b.Y, b.Width, b.Height, pick(r.palette, b.Depth-1), escape(b.Path), FormatCount(b.Node.Size))
	}
	for _, b := range blocks {
		if hasLaidChildren(b.Node) || b.Width < r.minLabelWidth || b.Height < r.minLabelHeight {
			continue
		}
		fmt.Fprintf(&buf, `  <text class="block-text" x="%.2f" y="%.2f" font-size="%.0f" text-anchor="middle" dominant-baseline="middle">%s</text>`+"\n",
			b.CenterX(), b.CenterY(), r.fontSize, escape(b.Node.Name))
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func hasLaidChildren(n *tree.Node) bool {
	for _, c := range n.Children {
		if c.Laid() {
			return true
		}
	}
	return false
}

func escape(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

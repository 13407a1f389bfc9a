package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/treemap/pkg/render"
	"github.com/matzehuels/treemap/pkg/tree"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed includes weights and layout output in node labels.
	// When false, only the node name is shown.
	Detailed bool

	// MaxDepth limits the number of levels below the root that are drawn.
	// Zero draws the whole tree.
	MaxDepth int
}

// ToDOT converts a tree to Graphviz DOT format for node-link visualization.
// The resulting DOT string can be rendered using [RenderSVG], [RenderPDF], or [RenderPNG].
//
// Node identifiers are assigned in pre-order ("n0" is the root), so the
// output is stable for a given tree.
func ToDOT(root *tree.Node, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=24, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	var edges []string
	ids := make(map[*tree.Node]string)
	parents := make([]*tree.Node, 0, 8)
	root.Walk(func(n *tree.Node, depth int) bool {
		id := "n" + strconv.Itoa(len(ids))
		ids[n] = id

		parents = parents[:depth]
		if depth > 0 {
			edges = append(edges, fmt.Sprintf("  %q -> %q;\n", ids[parents[depth-1]], id))
		}
		parents = append(parents, n)

		attrs := fmtAttrs(n, depth, fmtLabel(n, opts.Detailed))
		fmt.Fprintf(&buf, "  %q [%s];\n", id, strings.Join(attrs, ", "))
		return opts.MaxDepth <= 0 || depth < opts.MaxDepth
	})

	buf.WriteString("\n")
	for _, e := range edges {
		buf.WriteString(e)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n *tree.Node, detailed bool) string {
	name := n.Name
	if name == "" {
		name = "(unnamed)"
	}
	if !detailed {
		return name
	}

	parts := []string{
		"size: " + fmtFloat(n.Size),
		"value: " + fmtFloat(n.Value),
	}
	if n.Rect != nil {
		parts = append(parts,
			"area: "+fmtFloat(n.Area),
			fmt.Sprintf("rect: %s,%s %sx%s", fmtFloat(n.Rect.X), fmtFloat(n.Rect.Y), fmtFloat(n.Rect.Width), fmtFloat(n.Rect.Height)),
		)
	}
	return name + "\n" + strings.Join(parts, "\n")
}

func fmtAttrs(n *tree.Node, depth int, label string) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if depth > 0 && !n.Laid() {
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey", "fontcolor=black")
	}
	return attrs
}

func fmtFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with [render.ToPDF] or [render.ToPNG].
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's point-based svg header with one whose
// width and height match the viewBox.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	header := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(header))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(dot string) ([]byte, error) {
	svg, err := RenderSVG(dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
// A scale of 2.0 produces a 2x resolution image suitable for high-DPI displays.
func RenderPNG(dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(svg, scale)
}

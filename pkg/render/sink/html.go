package sink

import (
	"bufio"
	"fmt"
	"html"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/treemap/pkg/layout"
	"github.com/matzehuels/treemap/pkg/tree"
)

const htmlCSS = `
    body { margin: 0; font-family: -apple-system, "Segoe UI", Helvetica, sans-serif; }
    .caption { position: fixed; top: 0; left: 0; right: 0; height: 2em; line-height: 2em; padding: 0 0.5em; background: #222; color: #eee; }
    .treemap { position: fixed; top: 2em; left: 0; right: 0; bottom: 0; }
    .node { position: absolute; box-sizing: border-box; border: 1px solid #fff; overflow: hidden; background: rgba(78, 121, 167, 0.35); }
    .node:hover > .text-wrapper > .node,
    .node:hover > .text-wrapper-medium > .node,
    .node:hover > .text-wrapper-small > .node,
    .node:hover > .text-wrapper-tiny > .node { visibility: visible !important; }
    .text-wrapper { font-size: 1.2em; }
    .text-wrapper-medium { font-size: 1em; }
    .text-wrapper-small { font-size: 0.8em; }
    .text-wrapper-tiny { font-size: 0.6em; }
    .stats { position: absolute; bottom: 0.2em; left: 0.3em; font-size: 0.8em; color: #333; }`

// HTMLOption configures HTML rendering.
type HTMLOption func(*htmlRenderer)

type htmlRenderer struct {
	caption    string
	statsLabel string
	document   bool
}

// WithCaption sets the caption shown above the treemap.
func WithCaption(s string) HTMLOption { return func(r *htmlRenderer) { r.caption = s } }

// WithStatsLabel sets the label of the size line shown in tall blocks.
func WithStatsLabel(s string) HTMLOption { return func(r *htmlRenderer) { r.statsLabel = s } }

// WithFragment omits the surrounding html, head and body elements.
func WithFragment() HTMLOption { return func(r *htmlRenderer) { r.document = false } }

// RenderHTML writes the treemap as nested div elements positioned in
// percent of their parent. Top-level blocks are visible; deeper levels are
// hidden until their parent is hovered.
func RenderHTML(w io.Writer, res *layout.Result, opts ...HTMLOption) error {
	r := htmlRenderer{statsLabel: "Size", document: true}
	for _, opt := range opts {
		opt(&r)
	}

	bw := bufio.NewWriter(w)
	if r.document {
		bw.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
		if r.caption != "" {
			fmt.Fprintf(bw, "<title>%s</title>\n", html.EscapeString(r.caption))
		}
		fmt.Fprintf(bw, "<style>%s\n</style>\n</head>\n<body>\n", htmlCSS)
	}
	if r.caption != "" {
		fmt.Fprintf(bw, "<div class=\"caption\">%s</div>\n", html.EscapeString(r.caption))
	}
	bw.WriteString("<div class=\"treemap\">\n")
	if res != nil && res.Root != nil {
		r.plot(bw, res.Root.Children, res.Region, res.Canonical, 0)
	}
	bw.WriteString("</div>\n")
	if r.document {
		bw.WriteString("</body>\n</html>\n")
	}
	return bw.Flush()
}

func (r *htmlRenderer) plot(w *bufio.Writer, nodes []*tree.Node, from, canonical tree.Rect, level int) {
	for _, n := range nodes {
		if n.Rect == nil {
			continue
		}
		rc := percent(*n.Rect, from)
		vis := "visible"
		if level > 0 {
			vis = "hidden"
		}
		fmt.Fprintf(w, "<div class=\"node\" style=\"visibility: %s; top: %s%%; left: %s%%; width: %s%%; height: %s%%;\">\n",
			vis, pct(rc.Y), pct(rc.X), pct(rc.Width), pct(rc.Height))
		fmt.Fprintf(w, "<div class=\"text-wrapper%s\">%s\n", sizeClass(rc.Width), html.EscapeString(n.Name))
		if len(n.Children) > 0 {
			r.plot(w, n.Children, canonical, canonical, level+1)
		}
		if rc.Height > 20 {
			fmt.Fprintf(w, "<div class=\"stats\">%s: %s</div>\n", html.EscapeString(r.statsLabel), FormatCount(n.Size))
		}
		w.WriteString("</div>\n</div>\n")
	}
}

// percent expresses r relative to the container rectangle in percent.
func percent(r, container tree.Rect) tree.Rect {
	if container.IsEmpty() {
		return tree.Rect{}
	}
	return tree.Rect{
		X:      (r.X - container.X) / container.Width * 100,
		Y:      (r.Y - container.Y) / container.Height * 100,
		Width:  r.Width / container.Width * 100,
		Height: r.Height / container.Height * 100,
	}
}

// sizeClass picks the label size class for a block of the given percent
// width.
func sizeClass(width float64) string {
	switch {
	case width > 50:
		return ""
	case width > 30:
		return "-medium"
	case width < 20:
		return "-tiny"
	default:
		return "-small"
	}
}

func pct(v float64) string {
	return strconv.FormatFloat(math.Round(v*1000)/1000, 'f', -1, 64)
}

// FormatCount formats v rounded to an integer with thousands separators.
func FormatCount(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	s := strconv.FormatFloat(math.Abs(math.Round(v)), 'f', 0, 64)
	var b strings.Builder
	if v <= -0.5 {
		b.WriteByte('-')
	}
	for i, c := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	return b.String()
}

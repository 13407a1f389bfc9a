package sink

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/treemap/pkg/layout"
	"github.com/matzehuels/treemap/pkg/tree"
)

// TextOption configures terminal rendering.
type TextOption func(*textRenderer)

type textRenderer struct {
	palette  []string
	fill     rune
	maxDepth int
	color    bool
}

// WithTextPalette sets the background colors cycled through per block.
func WithTextPalette(colors ...string) TextOption {
	return func(r *textRenderer) { r.palette = colors }
}

// WithFill sets the rune painted in cells that carry no label.
func WithFill(c rune) TextOption { return func(r *textRenderer) { r.fill = c } }

// WithMaxDepth limits how many levels are drawn. Zero draws every level.
func WithMaxDepth(d int) TextOption { return func(r *textRenderer) { r.maxDepth = d } }

// WithoutColor disables lipgloss styling.
func WithoutColor() TextOption { return func(r *textRenderer) { r.color = false } }

// cell is one character of the raster. owner indexes the block painted
// there, -1 when no block covers the cell.
type cell struct {
	owner int
	ch    rune
}

// RenderText rasterizes the treemap into width columns and height lines.
// Every cell takes the innermost block whose rectangle contains the cell's
// center; block names are written into the first line of their block.
func RenderText(res *layout.Result, width, height int, opts ...TextOption) string {
	r := textRenderer{palette: DefaultPalette, fill: ' ', color: true}
	for _, opt := range opts {
		opt(&r)
	}
	if width <= 0 || height <= 0 {
		return ""
	}

	grid := make([][]cell, height)
	for y := range grid {
		grid[y] = make([]cell, width)
		for x := range grid[y] {
			grid[y][x] = cell{owner: -1, ch: r.fill}
		}
	}

	var blocks []layout.Block
	for _, b := range res.Blocks(tree.Rect{Width: float64(width), Height: float64(height)}) {
		if r.maxDepth > 0 && b.Depth > r.maxDepth {
			continue
		}
		blocks = append(blocks, b)
	}

	// Parents come before children, so later blocks overwrite earlier ones.
	for i, b := range blocks {
		x0, x1 := span(b.X, b.Width, width)
		y0, y1 := span(b.Y, b.Height, height)
		for y := y0; y < y1; y++ {
			for x := x0; x < x1; x++ {
				grid[y][x] = cell{owner: i, ch: r.fill}
			}
		}
	}
	for i, b := range blocks {
		x0, x1 := span(b.X, b.Width, width)
		y0, y1 := span(b.Y, b.Height, height)
		if y0 >= y1 {
			continue
		}
		x := x0
		for _, c := range b.Node.Name {
			if x >= x1 || grid[y0][x].owner != i {
				break
			}
			grid[y0][x].ch = c
			x++
		}
	}

	var out strings.Builder
	for y, row := range grid {
		if y > 0 {
			out.WriteByte('\n')
		}
		r.writeRow(&out, row)
	}
	return out.String()
}

// writeRow emits one raster line, styling runs of cells with the same owner.
func (r *textRenderer) writeRow(out *strings.Builder, row []cell) {
	for start := 0; start < len(row); {
		end := start
		var run strings.Builder
		for end < len(row) && row[end].owner == row[start].owner {
			run.WriteRune(row[end].ch)
			end++
		}
		if r.color && row[start].owner >= 0 {
			style := lipgloss.NewStyle().
				Background(lipgloss.Color(pick(r.palette, row[start].owner))).
				Foreground(lipgloss.Color("#ffffff"))
			out.WriteString(style.Render(run.String()))
		} else {
			out.WriteString(run.String())
		}
		start = end
	}
}

// span converts a block extent into the half-open range of cells whose
// centers it contains, clamped to [0, limit).
func span(pos, size float64, limit int) (int, int) {
	lo := int(math.Ceil(pos - 0.5))
	hi := int(math.Ceil(pos + size - 0.5))
	lo = max(0, min(lo, limit))
	hi = max(lo, min(hi, limit))
	return lo, hi
}

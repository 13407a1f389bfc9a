package squarify

import (
	"math"

	"github.com/matzehuels/treemap/pkg/tree"
)

// DefaultMinArea is the default minimum-recursion threshold, in canonical
// area units.
const DefaultMinArea = 9000

// DefaultCanonical returns the default per-level coordinate space.
func DefaultCanonical() tree.Rect {
	return tree.Rect{Width: 100, Height: 100}
}

// Options configures an [Engine].
type Options struct {
	// MinArea is the area a node must receive before its own children are
	// laid out. Nodes below it are treated as opaque leaves.
	MinArea float64

	// Canonical is the rectangle every nested level is laid out in.
	Canonical tree.Rect
}

// DefaultOptions returns the options used when none are configured.
func DefaultOptions() Options {
	return Options{MinArea: DefaultMinArea, Canonical: DefaultCanonical()}
}

// Engine lays out sibling lists recursively. An Engine holds no state besides
// its options and may be shared between goroutines, as long as each
// goroutine lays out its own nodes.
type Engine struct {
	opts Options
}

// New creates an engine. An empty Canonical rectangle is replaced by
// [DefaultCanonical] and a negative MinArea by zero.
func New(opts Options) *Engine {
	if opts.Canonical.IsEmpty() {
		opts.Canonical = DefaultCanonical()
	}
	if opts.MinArea < 0 || math.IsNaN(opts.MinArea) {
		opts.MinArea = 0
	}
	return &Engine{opts: opts}
}

// Options returns the effective options of the engine.
func (e *Engine) Options() Options { return e.opts }

// Squarify assigns every sibling a rectangle inside r, then recurses into
// every sibling that has children and received at least MinArea, laying its
// children out in the canonical rectangle.
//
// Nothing is placed when r has no area or the siblings' total size is not
// positive.
func (e *Engine) Squarify(r tree.Rect, siblings []*tree.Node) {
	if !Place(r, siblings) {
		return
	}
	for _, n := range siblings {
		if n.IsLeaf() || n.Area < e.opts.MinArea {
			continue
		}
		e.Squarify(e.opts.Canonical, n.Children)
	}
}

// Place lays out one level: it assigns each sibling a rectangle inside r with
// area proportional to its Size and does not descend into children. It
// reports whether anything was placed; an empty sibling list, an empty
// rectangle or a non-positive total size place nothing.
//
// After Place returns true every sibling's Area is the area of its Rect
// truncated to a whole number.
func Place(r tree.Rect, siblings []*tree.Node) bool {
	if len(siblings) == 0 || r.IsEmpty() {
		return false
	}
	var total float64
	for _, n := range siblings {
		total += weight(n)
	}
	if !(total > 0) || math.IsInf(total, 0) {
		return false
	}

	scale := r.Area() / total
	for _, n := range siblings {
		n.Area = weight(n) * scale
		n.Rect = nil
	}

	free := r
	side := free.ShortSide()
	var row rowStats
	start := 0
	for i := 0; i < len(siblings); {
		a := siblings[i].Area
		if row.count == 0 || row.with(a).worst(side) <= row.worst(side) {
			row = row.with(a)
			i++
			continue
		}
		free = layoutRow(free, siblings[start:i])
		side = free.ShortSide()
		row = rowStats{}
		start = i
	}
	if row.count > 0 {
		layoutRow(free, siblings[start:])
	}

	for _, n := range siblings {
		n.Area = truncArea(n.Rect.Area())
	}
	return true
}

// truncArea truncates a rect area to a whole number. Rect arithmetic can land
// a hair below an exact product, so a relative tolerance is added first.
func truncArea(a float64) float64 {
	return math.Trunc(a + a*1e-12)
}

// weight clamps a node's size to a usable layout weight.
func weight(n *tree.Node) float64 {
	if n.Size > 0 {
		return n.Size
	}
	return 0
}

// rowStats tracks the area figures Worst needs for a growing row.
type rowStats struct {
	count    int
	sum      float64
	min, max float64
}

func (s rowStats) with(a float64) rowStats {
	if s.count == 0 {
		return rowStats{count: 1, sum: a, min: a, max: a}
	}
	s.count++
	s.sum += a
	s.min = math.Min(s.min, a)
	s.max = math.Max(s.max, a)
	return s
}

func (s rowStats) worst(side float64) float64 {
	if s.count == 0 {
		return 0
	}
	return worst(s.sum, s.min, s.max, side)
}

// Worst returns the worst aspect ratio of a row of rectangles with the given
// areas laid against a side of the given length:
//
//	max(side²·max(a) / sum², sum² / (side²·min(a)))
//
// An empty row scores 0. A row containing a zero area, or laid against a
// zero side, scores +Inf.
func Worst(areas []float64, side float64) float64 {
	var s rowStats
	for _, a := range areas {
		s = s.with(a)
	}
	return s.worst(side)
}

func worst(sum, lo, hi, side float64) float64 {
	if !(sum > 0) || !(lo > 0) || !(side > 0) {
		return math.Inf(1)
	}
	s2 := side * side
	sum2 := sum * sum
	return math.Max(s2*hi/sum2, sum2/(s2*lo))
}

// layoutRow places row as a strip along the longer side of free and returns
// the free rectangle that remains. When free is wider than tall the strip
// spans the full height at the left edge and members stack top to bottom;
// otherwise it spans the full width at the top edge and members run left to
// right.
func layoutRow(free tree.Rect, row []*tree.Node) tree.Rect {
	var used float64
	for _, n := range row {
		used += n.Area
	}

	if free.Width > free.Height {
		w := ratio(used, free.Height)
		y := free.Y
		for _, n := range row {
			h := ratio(n.Area*free.Height, used)
			n.Rect = &tree.Rect{X: free.X, Y: y, Width: w, Height: h}
			y += h
		}
		return tree.Rect{X: free.X + w, Y: free.Y, Width: math.Max(0, free.Width-w), Height: free.Height}
	}

	h := ratio(used, free.Width)
	x := free.X
	for _, n := range row {
		w := ratio(n.Area*free.Width, used)
		n.Rect = &tree.Rect{X: x, Y: free.Y, Width: w, Height: h}
		x += w
	}
	return tree.Rect{X: free.X, Y: free.Y + h, Width: free.Width, Height: math.Max(0, free.Height-h)}
}

// ratio divides a by b, yielding 0 for a non-positive divisor.
func ratio(a, b float64) float64 {
	if b <= 0 {
		return 0
	}
	return a / b
}

package layout

import (
	"math"

	"github.com/matzehuels/treemap/pkg/errors"
	"github.com/matzehuels/treemap/pkg/ordering"
	"github.com/matzehuels/treemap/pkg/squarify"
	"github.com/matzehuels/treemap/pkg/tree"
)

// Result is a laid-out copy of a tree.
type Result struct {
	// Root is the annotated copy. Every laid-out node below it carries Area
	// and Rect; Root itself does not.
	Root *tree.Node

	// Region is the rectangle the root's children tile.
	Region tree.Rect

	// Canonical is the rectangle every nested level is laid out in.
	Canonical tree.Rect

	// MinArea is the recursion threshold the engine applied.
	MinArea float64
}

// Option configures [Layout].
type Option func(*squarify.Options)

// WithMinArea sets the area a node must receive before its children are laid
// out.
func WithMinArea(area float64) Option {
	return func(o *squarify.Options) { o.MinArea = area }
}

// WithCanonical sets the rectangle nested levels are laid out in.
func WithCanonical(r tree.Rect) Option {
	return func(o *squarify.Options) { o.Canonical = r }
}

// WithEngineOptions replaces all engine options at once.
func WithEngineOptions(opts squarify.Options) Option {
	return func(o *squarify.Options) { *o = opts }
}

// Layout lays out a copy of root inside region and returns the annotated
// copy. The input tree is not modified.
//
// Layout returns an error with code INVALID_INPUT for a nil root,
// INVALID_REGION when region has no positive finite area, and EMPTY_TREE when
// root has no children or its children weigh nothing in total.
func Layout(root *tree.Node, region tree.Rect, opts ...Option) (*Result, error) {
	if root == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no tree to lay out")
	}
	if region.IsEmpty() || math.IsInf(region.Area(), 0) || math.IsNaN(region.Area()) {
		return nil, errors.New(errors.ErrCodeInvalidRegion, "region %gx%g has no area", region.Width, region.Height)
	}
	if root.IsLeaf() {
		return nil, errors.New(errors.ErrCodeEmptyTree, "node %q has no children to lay out", root.Name)
	}
	if !(root.ChildrenSize() > 0) {
		return nil, errors.New(errors.ErrCodeEmptyTree, "children of %q have zero total size", root.Name)
	}

	cfg := squarify.DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}
	engine := squarify.New(cfg)

	work := root.Clone()
	ordering.Sort(work)
	engine.Squarify(region, work.Children)

	eff := engine.Options()
	return &Result{
		Root:      work,
		Region:    region,
		Canonical: eff.Canonical,
		MinArea:   eff.MinArea,
	}, nil
}

package pipeline

import (
	"github.com/matzehuels/treemap/pkg/layout"
	"github.com/matzehuels/treemap/pkg/tree"
)

// ComputeLayout lays out root with the layout options in opts.
func ComputeLayout(root *tree.Node, opts Options) (*layout.Result, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return nil, err
	}
	return layout.Layout(root, opts.Region(), layout.WithMinArea(opts.EffectiveMinArea()))
}

// blockCount returns the number of laid-out nodes below the root.
func blockCount(res *layout.Result) int {
	if res == nil || res.Root == nil {
		return 0
	}
	n := 0
	res.Root.Walk(func(node *tree.Node, depth int) bool {
		if depth > 0 && node.Laid() {
			n++
		}
		return true
	})
	return n
}

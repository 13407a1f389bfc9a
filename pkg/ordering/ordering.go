// Package ordering sorts sibling nodes before layout.
//
// Sibling order drives row packing in the squarify engine, so a deterministic
// order makes layouts reproducible. Siblings are ordered by Size descending;
// equal sizes are ordered by Name descending (byte-wise).
package ordering

import (
	"cmp"
	"slices"
	"strings"

	"github.com/matzehuels/treemap/pkg/tree"
)

// Compare orders two nodes: larger Size first, then greater Name first.
// It returns a negative number when a sorts before b, positive when after,
// and zero when they are interchangeable.
func Compare(a, b *tree.Node) int {
	if c := cmp.Compare(b.Size, a.Size); c != 0 {
		return c
	}
	return strings.Compare(b.Name, a.Name)
}

// Sort reorders the children of every node in the subtree rooted at n,
// depth-first, using [Compare]. The sort is stable, so applying it twice
// yields the same order as applying it once.
func Sort(n *tree.Node) {
	if n == nil {
		return
	}
	slices.SortStableFunc(n.Children, Compare)
	for _, c := range n.Children {
		Sort(c)
	}
}

// IsSorted reports whether every node's children in the subtree rooted at n
// are already in [Compare] order.
func IsSorted(n *tree.Node) bool {
	sorted := true
	n.Walk(func(node *tree.Node, _ int) bool {
		if !slices.IsSortedFunc(node.Children, Compare) {
			sorted = false
		}
		return sorted
	})
	return sorted
}

package tree

import "math"

// Rect is an axis-aligned rectangle. Width and Height are non-negative after
// any valid layout.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Area returns Width × Height.
func (r Rect) Area() float64 { return r.Width * r.Height }

// ShortSide returns the smaller of Width and Height.
func (r Rect) ShortSide() float64 { return math.Min(r.Width, r.Height) }

// IsEmpty reports whether the rectangle has no positive area.
func (r Rect) IsEmpty() bool { return !(r.Width > 0 && r.Height > 0) }

// Right returns the X coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.Width }

// Bottom returns the Y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// Node is one entity of the weighted hierarchy.
//
// Size is the aggregate weight (own attribute plus all descendants) and is
// never negative. Value follows the identical aggregation rule.
//
// Area and Rect are layout output: Rect is nil until a layout pass places the
// node, and Rect coordinates live in whatever coordinate space the parent's
// layout pass used.
type Node struct {
	Name     string
	Size     float64
	Value    float64
	Children []*Node

	Area float64
	Rect *Rect
}

// IsLeaf reports whether the node has no children.
func (n *Node) IsLeaf() bool { return len(n.Children) == 0 }

// Laid reports whether a layout pass assigned the node a rectangle.
func (n *Node) Laid() bool { return n.Rect != nil }

// ChildrenSize returns the sum of the children's sizes.
func (n *Node) ChildrenSize() float64 {
	var total float64
	for _, c := range n.Children {
		total += c.Size
	}
	return total
}

// Clone returns a deep copy of the subtree rooted at n. Name, Size, Value and
// children are copied recursively; layout output (Area, Rect) is reset on
// every copied node. Clone of a nil node is nil.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	c := &Node{
		Name:  n.Name,
		Size:  n.Size,
		Value: n.Value,
	}
	if len(n.Children) > 0 {
		c.Children = make([]*Node, len(n.Children))
		for i, child := range n.Children {
			c.Children[i] = child.Clone()
		}
	}
	return c
}

// Walk visits the subtree rooted at n in pre-order, passing each node and its
// depth (0 for n). Returning false from fn skips that node's children.
func (n *Node) Walk(fn func(n *Node, depth int) bool) {
	n.walk(fn, 0)
}

func (n *Node) walk(fn func(*Node, int) bool, depth int) {
	if n == nil || !fn(n, depth) {
		return
	}
	for _, c := range n.Children {
		c.walk(fn, depth+1)
	}
}

// Count returns the number of nodes in the subtree, n included.
func (n *Node) Count() int {
	count := 0
	n.Walk(func(*Node, int) bool {
		count++
		return true
	})
	return count
}

// Depth returns the number of levels below n (0 for a leaf).
func (n *Node) Depth() int {
	deepest := 0
	n.Walk(func(_ *Node, d int) bool {
		if d > deepest {
			deepest = d
		}
		return true
	})
	return deepest
}

// Find descends from n following child names and returns the node reached.
// An empty path returns n itself. When several siblings share a name, the
// first in child order wins.
func (n *Node) Find(path ...string) (*Node, bool) {
	cur := n
	for _, name := range path {
		var next *Node
		for _, c := range cur.Children {
			if c.Name == name {
				next = c
				break
			}
		}
		if next == nil {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

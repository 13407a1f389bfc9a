package layout

import (
	"strings"

	"github.com/matzehuels/treemap/pkg/tree"
)

// Block is a laid-out node in absolute frame coordinates.
type Block struct {
	Node  *tree.Node
	Path  string // slash-joined names from the root's child down to Node
	Depth int    // 1 for the root's children

	X, Y, Width, Height float64
}

// Rect returns the block's absolute rectangle.
func (b Block) Rect() tree.Rect {
	return tree.Rect{X: b.X, Y: b.Y, Width: b.Width, Height: b.Height}
}

// CenterX returns the horizontal center point of the block.
func (b Block) CenterX() float64 { return b.X + b.Width/2 }

// CenterY returns the vertical center point of the block.
func (b Block) CenterY() float64 { return b.Y + b.Height/2 }

// Blocks returns every laid-out node as a block positioned inside frame.
// The first level is scaled from Region to frame; each nested level is
// scaled from Canonical into its parent's block. Blocks are returned
// depth-first, parents before their children, siblings in layout order.
func (r *Result) Blocks(frame tree.Rect) []Block {
	if r == nil || r.Root == nil {
		return nil
	}
	var out []Block
	collect(&out, r.Root.Children, r.Region, frame, nil, 1, r.Canonical)
	return out
}

func collect(out *[]Block, nodes []*tree.Node, from, to tree.Rect, path []string, depth int, canonical tree.Rect) {
	sx := scale(to.Width, from.Width)
	sy := scale(to.Height, from.Height)
	for _, n := range nodes {
		if n.Rect == nil {
			continue
		}
		b := Block{
			Node:   n,
			Depth:  depth,
			X:      to.X + (n.Rect.X-from.X)*sx,
			Y:      to.Y + (n.Rect.Y-from.Y)*sy,
			Width:  n.Rect.Width * sx,
			Height: n.Rect.Height * sy,
		}
		p := append(path[:len(path):len(path)], n.Name)
		b.Path = strings.Join(p, "/")
		*out = append(*out, b)
		if len(n.Children) > 0 {
			collect(out, n.Children, canonical, b.Rect(), p, depth+1, canonical)
		}
	}
}

func scale(to, from float64) float64 {
	if from == 0 {
		return 0
	}
	return to / from
}

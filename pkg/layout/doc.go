// Package layout computes squarified treemap layouts for weighted trees.
//
// # Overview
//
// [Layout] is the entry point: it deep-copies the input tree, sorts every
// level with package ordering, and runs the squarify engine with the root's
// children as the first level. The root itself receives no rectangle; its
// children tile the requested region. The caller's tree is never modified,
// so the same pristine tree can be laid out repeatedly, for different
// regions or subtrees, from several goroutines at once.
//
//	res, err := layout.Layout(root, tree.Rect{Width: 100, Height: 100})
//	if err != nil {
//	    return err
//	}
//	for _, b := range res.Blocks(tree.Rect{Width: 1200, Height: 800}) {
//	    fmt.Println(b.Path, b.X, b.Y, b.Width, b.Height)
//	}
//
// # Coordinates
//
// The first level is laid out in the region passed to Layout. Every deeper
// level is laid out in the engine's canonical rectangle and is relative to
// its parent's rectangle. [Result.Blocks] composes the levels into absolute
// coordinates inside a target frame, which is what most renderers need.
//
// # Serialization
//
// [MarshalLayout] and [UnmarshalLayout] convert a [Result] to and from JSON,
// so a layout can be computed once and rendered later (or cached, or stored).
package layout

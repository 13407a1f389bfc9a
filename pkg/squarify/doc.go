// Package squarify implements the squarified treemap algorithm of Bruls,
// Huizing and van Wijk.
//
// # Algorithm
//
// Given a rectangle and an ordered list of weighted siblings, every sibling
// first receives a target area proportional to its Size. Siblings are then
// packed greedily into rows laid against the shorter side of the remaining
// free rectangle. A sibling joins the current row as long as doing so does
// not worsen the row's worst aspect ratio (see [Worst]); otherwise the row is
// closed, laid out as a strip along the longer side, and subtracted from the
// free rectangle. The engine never reorders siblings; callers sort them first
// (package ordering).
//
// # Levels
//
// Each nesting level is laid out in the same canonical coordinate space
// ([Options.Canonical], 0–100 on both axes by default). A child rectangle is
// therefore relative to its parent's rectangle, and renderers compound the
// levels when they draw. Children of a node are only laid out when the node
// received at least [Options.MinArea] units of area in its own level;
// smaller nodes are drawn as opaque leaves.
//
// # Usage
//
//	e := squarify.New(squarify.DefaultOptions())
//	e.Squarify(tree.Rect{Width: 100, Height: 100}, root.Children)
//
// The engine mutates only Area and Rect of the nodes it is given. Use
// package layout to lay out a tree without touching the caller's copy.
package squarify

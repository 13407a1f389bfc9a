// Package tree provides the weighted hierarchy that treemap layouts are
// computed from.
//
// # Overview
//
// A [Node] carries two independently aggregated scalars: Size, which drives
// the area a node receives in a layout, and Value, which is carried through
// layout untouched for renderers to use (coloring, tooltips, statistics).
// Both follow the same rule: a node's scalar is its own attribute plus the
// sum of its children's scalars.
//
// # Building Trees
//
// Trees are normally built by [Aggregate] from any hierarchical attributed
// document that implements [Element] (see package source for XML, JSON,
// YAML and TOML readers):
//
//	doc, _ := source.ReadFile("disk.xml")
//	root := tree.Aggregate(doc, tree.Keys{Name: "Name", Size: "Size", Value: "Files"})
//
// Attribute values that cannot be parsed as non-negative numbers count as
// zero; a malformed document degrades rather than failing the load.
//
// # Layout Fields
//
// [Node.Area] and [Node.Rect] are written by the layout engine. A pristine
// tree produced by Aggregate never carries them; layouts operate on a
// [Node.Clone], so one pristine tree can be laid out many times, including
// concurrently.
package tree

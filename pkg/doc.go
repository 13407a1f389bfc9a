// Package pkg provides the core libraries for treemap layout and rendering.
//
// # Overview
//
// Treemap turns a weighted hierarchy into a squarified treemap: every node
// gets a rectangle whose area is proportional to its size, and children are
// nested inside their parent's rectangle. The pkg directory is organized
// into three areas:
//
//  1. Core: [tree], [ordering], [squarify] and [layout]
//  2. Collaborators: [source] for ingestion and [render] for output
//  3. Infrastructure: [cache], [store], [httputil], [observability], [pipeline] and [server]
//
// # Architecture
//
// The typical data flow:
//
//	XML / JSON / YAML / TOML document
//	         ↓
//	    [source] package (decode into elements)
//	         ↓
//	    [tree] package (aggregate sizes bottom-up)
//	         ↓
//	    [layout] package (sort, clone, squarify every level)
//	         ↓
//	    [render] package (HTML, SVG, JSON, text, DOT, PDF, PNG)
//
// # Quick Start
//
//	import (
//	    "os"
//
//	    "github.com/matzehuels/treemap/pkg/layout"
//	    "github.com/matzehuels/treemap/pkg/render/sink"
//	    "github.com/matzehuels/treemap/pkg/source"
//	    "github.com/matzehuels/treemap/pkg/tree"
//	)
//
//	// 1. Read the document
//	doc, _ := source.ReadFile("disk.xml")
//
//	// 2. Aggregate sizes
//	root := tree.Aggregate(doc, tree.DefaultKeys())
//
//	// 3. Compute the layout
//	res, _ := layout.Layout(root, tree.Rect{Width: 100, Height: 100})
//
//	// 4. Render
//	sink.RenderHTML(os.Stdout, res)
//
// For cached, multi-format runs use [pipeline.Runner], which is what the CLI
// and the HTTP service are built on.
//
// # Main Packages
//
// [tree] - Node and Rect, deep clone, walk and path lookup, plus the
// aggregator that turns any [tree.Element] document into sized nodes.
//
// [ordering] - Descending size order with a descending-name tie-break.
//
// [squarify] - The squarified layout engine. Rows grow while the worst
// aspect ratio does not get worse; nested levels recurse while a node's area
// reaches the minimum-area threshold.
//
// [layout] - The layout driver: input guards, the annotated copy, absolute
// blocks for renderers and the layout.json codec.
//
// [render/sink] - Treemap renderers. [render/nodelink] draws the hierarchy
// as a Graphviz diagram instead.
//
// [cache] - Tree, layout and artifact caching (file, Redis, null).
//
// [store] - Persisted layouts for the HTTP service (memory, file, MongoDB).
package pkg

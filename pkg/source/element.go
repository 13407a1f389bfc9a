package source

import (
	"github.com/matzehuels/treemap/pkg/tree"
)

// Element is one decoded document node. It implements [tree.Element].
type Element struct {
	// Tag is the XML element name. It is empty for other formats.
	Tag string

	// Attrs holds the node's scalar attributes.
	Attrs map[string]string

	// Nested holds the child elements in document order.
	Nested []*Element
}

// NewElement returns an element with an empty attribute map.
func NewElement(tag string) *Element {
	return &Element{Tag: tag, Attrs: make(map[string]string)}
}

// Attr returns the attribute stored under key.
func (e *Element) Attr(key string) (string, bool) {
	if e == nil {
		return "", false
	}
	v, ok := e.Attrs[key]
	return v, ok
}

// Children returns the nested elements as tree elements.
func (e *Element) Children() []tree.Element {
	if e == nil || len(e.Nested) == 0 {
		return nil
	}
	out := make([]tree.Element, len(e.Nested))
	for i, c := range e.Nested {
		out[i] = c
	}
	return out
}

// Count returns the number of elements in the subtree rooted at e.
func (e *Element) Count() int {
	if e == nil {
		return 0
	}
	n := 1
	for _, c := range e.Nested {
		n += c.Count()
	}
	return n
}

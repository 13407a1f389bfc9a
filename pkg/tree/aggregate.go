package tree

import (
	"math"
	"strconv"
	"strings"
)

// Element is a node of a hierarchical attributed document: named attributes
// plus ordered child elements.
type Element interface {
	// Attr returns the raw value of the named attribute and whether it is present.
	Attr(key string) (string, bool)
	// Children returns the child elements in document order.
	Children() []Element
}

// Keys names the attributes Aggregate reads from each element.
type Keys struct {
	Name  string // display label
	Size  string // weight driving area allocation
	Value string // secondary scalar carried through layout
}

// DefaultKeys returns the attribute names used when none are configured.
func DefaultKeys() Keys {
	return Keys{Name: "Name", Size: "Size", Value: "Value"}
}

// Aggregate builds a Node tree from src. For every element, Size is the
// parsed Size attribute plus the sum of its children's sizes, and Value
// likewise for the Value attribute. Children keep document order.
//
// Aggregate never fails: missing or malformed numbers count as zero.
func Aggregate(src Element, keys Keys) *Node {
	if src == nil {
		return nil
	}
	kids := src.Children()
	n := &Node{}
	if len(kids) > 0 {
		n.Children = make([]*Node, 0, len(kids))
	}
	if name, ok := src.Attr(keys.Name); ok {
		n.Name = name
	}
	n.Size = attrWeight(src, keys.Size)
	n.Value = attrWeight(src, keys.Value)

	for _, e := range kids {
		child := Aggregate(e, keys)
		if child == nil {
			continue
		}
		n.Size += child.Size
		n.Value += child.Value
		n.Children = append(n.Children, child)
	}
	return n
}

func attrWeight(e Element, key string) float64 {
	if key == "" {
		return 0
	}
	raw, ok := e.Attr(key)
	if !ok {
		return 0
	}
	return ParseWeight(raw)
}

// ParseWeight parses an attribute value as a weight. Surrounding whitespace
// is ignored. Values that are not numbers, are negative, or are not finite
// yield 0.
func ParseWeight(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

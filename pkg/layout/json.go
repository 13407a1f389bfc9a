package layout

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/treemap/pkg/tree"
)

// =============================================================================
// Serialization Types
// =============================================================================

// Document is the serialized form of a [Result].
type Document struct {
	Region    tree.Rect `json:"region" bson:"region"`
	Canonical tree.Rect `json:"canonical" bson:"canonical"`
	MinArea   float64   `json:"min_area" bson:"min_area"`
	Root      NodeDoc   `json:"root" bson:"root"`
}

// NodeDoc is the serialized form of an annotated node. Rect is omitted for
// nodes that were not laid out.
type NodeDoc struct {
	Name     string     `json:"name,omitempty" bson:"name,omitempty"`
	Size     float64    `json:"size" bson:"size"`
	Value    float64    `json:"value" bson:"value"`
	Area     float64    `json:"area,omitempty" bson:"area,omitempty"`
	Rect     *tree.Rect `json:"rect,omitempty" bson:"rect,omitempty"`
	Children []NodeDoc  `json:"children,omitempty" bson:"children,omitempty"`
}

// Export converts a Result into its serialized form.
func (r *Result) Export() Document {
	return Document{
		Region:    r.Region,
		Canonical: r.Canonical,
		MinArea:   r.MinArea,
		Root:      exportNode(r.Root),
	}
}

func exportNode(n *tree.Node) NodeDoc {
	if n == nil {
		return NodeDoc{}
	}
	d := NodeDoc{
		Name:  n.Name,
		Size:  n.Size,
		Value: n.Value,
		Area:  n.Area,
	}
	if n.Rect != nil {
		rc := *n.Rect
		d.Rect = &rc
	}
	if len(n.Children) > 0 {
		d.Children = make([]NodeDoc, len(n.Children))
		for i, c := range n.Children {
			d.Children[i] = exportNode(c)
		}
	}
	return d
}

// Import converts a serialized document back into a Result.
func (d Document) Import() *Result {
	return &Result{
		Region:    d.Region,
		Canonical: d.Canonical,
		MinArea:   d.MinArea,
		Root:      importNode(d.Root),
	}
}

func importNode(d NodeDoc) *tree.Node {
	n := &tree.Node{
		Name:  d.Name,
		Size:  d.Size,
		Value: d.Value,
		Area:  d.Area,
	}
	if d.Rect != nil {
		rc := *d.Rect
		n.Rect = &rc
	}
	if len(d.Children) > 0 {
		n.Children = make([]*tree.Node, len(d.Children))
		for i, c := range d.Children {
			n.Children[i] = importNode(c)
		}
	}
	return n
}

// =============================================================================
// Layout Serialization API
// =============================================================================

// MarshalLayout serializes a Result to pretty-printed JSON bytes.
func MarshalLayout(r *Result) ([]byte, error) {
	return json.MarshalIndent(r.Export(), "", "  ")
}

// UnmarshalLayout deserializes JSON bytes into a Result.
// It rejects documents without a region.
func UnmarshalLayout(data []byte) (*Result, error) {
	var d Document
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("unmarshal layout: %w", err)
	}
	if d.Region.IsEmpty() {
		return nil, fmt.Errorf("layout must contain a region")
	}
	return d.Import(), nil
}

// WriteLayout encodes r as JSON to w.
func WriteLayout(w io.Writer, r *Result) error {
	data, err := MarshalLayout(r)
	if err != nil {
		return err
	}
	_, err = w.Write(append(data, '\n'))
	return err
}

// ReadLayout decodes a Result from JSON read from rd.
func ReadLayout(rd io.Reader) (*Result, error) {
	data, err := io.ReadAll(rd)
	if err != nil {
		return nil, fmt.Errorf("read layout: %w", err)
	}
	return UnmarshalLayout(data)
}

// WriteLayoutFile writes a Result to a JSON file.
func WriteLayoutFile(r *Result, path string) error {
	data, err := MarshalLayout(r)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadLayoutFile reads a Result from a JSON file.
func ReadLayoutFile(path string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalLayout(data)
}

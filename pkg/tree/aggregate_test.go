package tree

import (
	"math"
	"testing"
)

// elem is a minimal in-memory Element.
type elem struct {
	attrs map[string]string
	kids  []*elem
}

func (e *elem) Attr(key string) (string, bool) {
	v, ok := e.attrs[key]
	return v, ok
}

func (e *elem) Children() []Element {
	out := make([]Element, len(e.kids))
	for i, k := range e.kids {
		out[i] = k
	}
	return out
}

func el(attrs map[string]string, kids ...*elem) *elem {
	return &elem{attrs: attrs, kids: kids}
}

func TestAggregate(t *testing.T) {
	src := el(map[string]string{"Name": "root", "Size": "1", "Value": "10"},
		el(map[string]string{"Name": "a", "Size": "4", "Value": "1"},
			el(map[string]string{"Name": "a1", "Size": "2", "Value": "2"}),
			el(map[string]string{"Name": "a2", "Size": "3"}),
		),
		el(map[string]string{"Name": "b", "Size": "bogus", "Value": "7"}),
		el(nil),
	)

	root := Aggregate(src, DefaultKeys())

	if root.Name != "root" {
		t.Errorf("Name = %q, want root", root.Name)
	}
	if root.Size != 10 {
		t.Errorf("root Size = %v, want 10", root.Size)
	}
	if root.Value != 20 {
		t.Errorf("root Value = %v, want 20", root.Value)
	}
	if len(root.Children) != 3 {
		t.Fatalf("len(Children) = %d, want 3", len(root.Children))
	}

	a := root.Children[0]
	if a.Size != 9 || a.Value != 3 {
		t.Errorf("a = size %v value %v, want 9 and 3", a.Size, a.Value)
	}
	if a.Children[0].Name != "a1" || a.Children[1].Name != "a2" {
		t.Error("children should keep document order")
	}

	b := root.Children[1]
	if b.Size != 0 || b.Value != 7 {
		t.Errorf("b = size %v value %v, want 0 and 7", b.Size, b.Value)
	}

	if anon := root.Children[2]; anon.Name != "" || anon.Size != 0 {
		t.Errorf("attribute-less element = %+v, want empty node", anon)
	}
}

func TestAggregateInvariant(t *testing.T) {
	src := el(map[string]string{"Size": "2"},
		el(map[string]string{"Size": "1.5"},
			el(map[string]string{"Size": "0.25"}),
			el(map[string]string{"Size": "-3"}),
		),
		el(map[string]string{"Size": "5"},
			el(map[string]string{"Size": "1e2"}),
		),
	)
	own := map[*Node]float64{}
	var collect func(e *elem, n *Node)
	collect = func(e *elem, n *Node) {
		own[n] = ParseWeight(e.attrs["Size"])
		for i, k := range e.kids {
			collect(k, n.Children[i])
		}
	}
	root := Aggregate(src, DefaultKeys())
	collect(src, root)

	root.Walk(func(n *Node, _ int) bool {
		want := own[n] + n.ChildrenSize()
		if math.Abs(n.Size-want) > 1e-9 {
			t.Errorf("%v: Size = %v, want own %v + children %v", n.Name, n.Size, own[n], n.ChildrenSize())
		}
		if n.Size < 0 {
			t.Errorf("negative size %v", n.Size)
		}
		for _, c := range n.Children {
			if c.Size > n.Size {
				t.Errorf("child size %v exceeds parent size %v", c.Size, n.Size)
			}
		}
		return true
	})
}

func TestAggregateCustomKeys(t *testing.T) {
	src := el(map[string]string{"label": "disk", "bytes": "3", "files": "1"},
		el(map[string]string{"label": "tmp", "bytes": "5", "files": "2"}),
	)
	root := Aggregate(src, Keys{Name: "label", Size: "bytes", Value: "files"})
	if root.Name != "disk" || root.Size != 8 || root.Value != 3 {
		t.Errorf("root = %+v", root)
	}
}

func TestAggregateNil(t *testing.T) {
	if Aggregate(nil, DefaultKeys()) != nil {
		t.Error("Aggregate(nil) should return nil")
	}
}

func TestParseWeight(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"42", 42},
		{" 7 ", 7},
		{"2.5", 2.5},
		{"1e3", 1000},
		{"", 0},
		{"abc", 0},
		{"-4", 0},
		{"NaN", 0},
		{"Inf", 0},
		{"12abc", 0},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseWeight(tt.in); got != tt.want {
				t.Errorf("ParseWeight(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

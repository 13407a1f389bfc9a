package tree

import "testing"

func sampleTree() *Node {
	return &Node{
		Name: "root", Size: 10, Value: 4,
		Children: []*Node{
			{Name: "a", Size: 6, Value: 1, Children: []*Node{
				{Name: "a1", Size: 4, Value: 1},
				{Name: "a2", Size: 2},
			}},
			{Name: "b", Size: 3, Value: 2},
			{Name: "c", Size: 1, Value: 1},
		},
	}
}

func TestRect(t *testing.T) {
	r := Rect{X: 10, Y: 5, Width: 20, Height: 8}
	if got := r.Area(); got != 160 {
		t.Errorf("Area() = %v, want 160", got)
	}
	if got := r.ShortSide(); got != 8 {
		t.Errorf("ShortSide() = %v, want 8", got)
	}
	if got := r.Right(); got != 30 {
		t.Errorf("Right() = %v, want 30", got)
	}
	if got := r.Bottom(); got != 13 {
		t.Errorf("Bottom() = %v, want 13", got)
	}
	if r.IsEmpty() {
		t.Error("IsEmpty() = true for a positive rect")
	}
}

func TestRectIsEmpty(t *testing.T) {
	tests := []struct {
		name string
		r    Rect
		want bool
	}{
		{"zero", Rect{}, true},
		{"zero width", Rect{Width: 0, Height: 10}, true},
		{"negative height", Rect{Width: 10, Height: -1}, true},
		{"positive", Rect{Width: 1, Height: 1}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.r.IsEmpty(); got != tt.want {
				t.Errorf("IsEmpty() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCloneIsDeep(t *testing.T) {
	orig := sampleTree()
	orig.Children[0].Rect = &Rect{Width: 1, Height: 1}
	orig.Children[0].Area = 1

	c := orig.Clone()
	if c == orig {
		t.Fatal("Clone returned the same pointer")
	}
	if c.Count() != orig.Count() {
		t.Fatalf("Count() = %d, want %d", c.Count(), orig.Count())
	}

	a := c.Children[0]
	if a == orig.Children[0] {
		t.Fatal("child pointer shared between clone and original")
	}
	if a.Rect != nil || a.Area != 0 {
		t.Errorf("clone kept layout output: rect=%v area=%v", a.Rect, a.Area)
	}
	if a.Name != "a" || a.Size != 6 || a.Value != 1 {
		t.Errorf("clone lost attributes: %+v", a)
	}

	a.Children[0].Name = "changed"
	a.Children = append(a.Children, &Node{Name: "extra"})
	if orig.Children[0].Children[0].Name != "a1" {
		t.Error("mutating clone changed original grandchild")
	}
	if len(orig.Children[0].Children) != 2 {
		t.Error("appending to clone changed original children")
	}
}

func TestCloneNil(t *testing.T) {
	var n *Node
	if n.Clone() != nil {
		t.Error("Clone of nil should be nil")
	}
}

func TestWalk(t *testing.T) {
	var names []string
	var depths []int
	sampleTree().Walk(func(n *Node, d int) bool {
		names = append(names, n.Name)
		depths = append(depths, d)
		return true
	})

	wantNames := []string{"root", "a", "a1", "a2", "b", "c"}
	wantDepths := []int{0, 1, 2, 2, 1, 1}
	if len(names) != len(wantNames) {
		t.Fatalf("visited %v, want %v", names, wantNames)
	}
	for i := range names {
		if names[i] != wantNames[i] || depths[i] != wantDepths[i] {
			t.Errorf("visit %d = %s@%d, want %s@%d", i, names[i], depths[i], wantNames[i], wantDepths[i])
		}
	}
}

func TestWalkSkipsChildren(t *testing.T) {
	var names []string
	sampleTree().Walk(func(n *Node, _ int) bool {
		names = append(names, n.Name)
		return n.Name != "a"
	})
	for _, name := range names {
		if name == "a1" || name == "a2" {
			t.Errorf("visited %s below a pruned node", name)
		}
	}
}

func TestCountDepth(t *testing.T) {
	n := sampleTree()
	if got := n.Count(); got != 6 {
		t.Errorf("Count() = %d, want 6", got)
	}
	if got := n.Depth(); got != 2 {
		t.Errorf("Depth() = %d, want 2", got)
	}
	if got := (&Node{}).Depth(); got != 0 {
		t.Errorf("leaf Depth() = %d, want 0", got)
	}
}

func TestChildrenSize(t *testing.T) {
	if got := sampleTree().ChildrenSize(); got != 10 {
		t.Errorf("ChildrenSize() = %v, want 10", got)
	}
	if got := (&Node{Size: 3}).ChildrenSize(); got != 0 {
		t.Errorf("leaf ChildrenSize() = %v, want 0", got)
	}
}

func TestFind(t *testing.T) {
	root := sampleTree()
	tests := []struct {
		name   string
		path   []string
		want   string
		wantOK bool
	}{
		{"empty path", nil, "root", true},
		{"child", []string{"b"}, "b", true},
		{"grandchild", []string{"a", "a2"}, "a2", true},
		{"missing", []string{"z"}, "", false},
		{"missing below leaf", []string{"b", "x"}, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := root.Find(tt.path...)
			if ok != tt.wantOK {
				t.Fatalf("Find(%v) ok = %v, want %v", tt.path, ok, tt.wantOK)
			}
			if ok && got.Name != tt.want {
				t.Errorf("Find(%v) = %s, want %s", tt.path, got.Name, tt.want)
			}
		})
	}
}

package ordering

import (
	"testing"

	"github.com/matzehuels/treemap/pkg/tree"
)

func names(nodes []*tree.Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Name
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestCompare(t *testing.T) {
	tests := []struct {
		name string
		a, b *tree.Node
		want int // sign only
	}{
		{"larger first", &tree.Node{Size: 5}, &tree.Node{Size: 3}, -1},
		{"smaller last", &tree.Node{Size: 1}, &tree.Node{Size: 3}, 1},
		{"tie by descending name", &tree.Node{Name: "b", Size: 2}, &tree.Node{Name: "a", Size: 2}, -1},
		{"tie by descending name reversed", &tree.Node{Name: "a", Size: 2}, &tree.Node{Name: "b", Size: 2}, 1},
		{"identical", &tree.Node{Name: "x", Size: 2}, &tree.Node{Name: "x", Size: 2}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compare(tt.a, tt.b)
			if sign(got) != tt.want {
				t.Errorf("Compare() = %d, want sign %d", got, tt.want)
			}
		})
	}
}

func sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	}
	return 0
}

func TestSortRecursive(t *testing.T) {
	root := &tree.Node{Children: []*tree.Node{
		{Name: "small", Size: 1},
		{Name: "big", Size: 9, Children: []*tree.Node{
			{Name: "alpha", Size: 3},
			{Name: "gamma", Size: 5},
			{Name: "beta", Size: 3},
		}},
		{Name: "mid", Size: 4},
	}}

	Sort(root)

	if got, want := names(root.Children), []string{"big", "mid", "small"}; !equal(got, want) {
		t.Errorf("top level = %v, want %v", got, want)
	}
	if got, want := names(root.Children[0].Children), []string{"gamma", "beta", "alpha"}; !equal(got, want) {
		t.Errorf("nested = %v, want %v", got, want)
	}
	if !IsSorted(root) {
		t.Error("IsSorted() = false after Sort")
	}
}

func TestSortIdempotent(t *testing.T) {
	build := func() *tree.Node {
		return &tree.Node{Children: []*tree.Node{
			{Name: "c", Size: 2},
			{Name: "a", Size: 2},
			{Name: "d", Size: 7, Children: []*tree.Node{{Name: "x", Size: 1}, {Name: "y", Size: 1}}},
			{Name: "b", Size: 2},
		}}
	}
	once := build()
	Sort(once)
	twice := build()
	Sort(twice)
	Sort(twice)

	var a, b []string
	once.Walk(func(n *tree.Node, _ int) bool { a = append(a, n.Name); return true })
	twice.Walk(func(n *tree.Node, _ int) bool { b = append(b, n.Name); return true })
	if !equal(a, b) {
		t.Errorf("Sort twice = %v, once = %v", b, a)
	}
}

func TestIsSorted(t *testing.T) {
	unsorted := &tree.Node{Children: []*tree.Node{
		{Size: 9},
		{Size: 1, Children: []*tree.Node{{Size: 1}, {Size: 2}}},
	}}
	if IsSorted(unsorted) {
		t.Error("IsSorted() = true for an unsorted grandchild list")
	}
}

func TestSortNil(t *testing.T) {
	Sort(nil)
}

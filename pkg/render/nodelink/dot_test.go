package nodelink

import (
	"bytes"
	"strings"
	"testing"

	"github.com/matzehuels/treemap/pkg/tree"
)

func sample() *tree.Node {
	return &tree.Node{Name: "root", Size: 10, Value: 2, Children: []*tree.Node{
		{Name: "a", Size: 7, Value: 2, Area: 70, Rect: &tree.Rect{Width: 10, Height: 7}, Children: []*tree.Node{
			{Name: "a1", Size: 7, Value: 2},
		}},
		{Name: "b", Size: 3, Area: 30, Rect: &tree.Rect{Y: 7, Width: 10, Height: 3}},
	}}
}

func TestToDOT_Basic(t *testing.T) {
	dot := ToDOT(sample(), Options{})

	if !strings.Contains(dot, "digraph G") {
		t.Error("ToDOT() output missing digraph declaration")
	}
	for _, want := range []string{
		`"n0" [label="root"]`,
		`"n1" [label="a"]`,
		`"n3" [label="b"]`,
		`"n0" -> "n1";`,
		`"n1" -> "n2";`,
		`"n0" -> "n3";`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() output missing %s", want)
		}
	}
}

func TestToDOT_Unplaced(t *testing.T) {
	dot := ToDOT(sample(), Options{})
	// a1 was never laid out.
	if !strings.Contains(dot, `"n2" [label="a1", style="rounded,filled,dashed"`) {
		t.Errorf("unplaced node not dashed:\n%s", dot)
	}
	if strings.Contains(dot, `"n0" [label="root", style`) {
		t.Error("root should never be dashed")
	}
}

func TestToDOT_MaxDepth(t *testing.T) {
	dot := ToDOT(sample(), Options{MaxDepth: 1})
	if strings.Contains(dot, "a1") {
		t.Error("ToDOT() should stop at depth 1")
	}
	if !strings.Contains(dot, `"n0" -> "n2";`) {
		t.Errorf("ids should stay dense when pruning:\n%s", dot)
	}
}

func TestFmtLabel_Simple(t *testing.T) {
	if got := fmtLabel(&tree.Node{Name: "node"}, false); got != "node" {
		t.Errorf("fmtLabel() = %q, want %q", got, "node")
	}
	if got := fmtLabel(&tree.Node{}, false); got != "(unnamed)" {
		t.Errorf("fmtLabel() = %q, want (unnamed)", got)
	}
}

func TestFmtLabel_Detailed(t *testing.T) {
	label := fmtLabel(sample().Children[0], true)
	for _, want := range []string{"a\n", "size: 7", "value: 2", "area: 70", "rect: 0,0 10x7"} {
		if !strings.Contains(label, want) {
			t.Errorf("fmtLabel() detailed = %q, missing %q", label, want)
		}
	}
	if strings.Contains(fmtLabel(&tree.Node{Name: "x"}, true), "rect") {
		t.Error("unplaced node should not show a rect")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="62pt" height="44pt" viewBox="0.00 0.00 62.00 44.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := normalizeViewBox(in)
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 62.00 44.00" width="62" height="44"><g/>`
	if !bytes.HasPrefix(out, []byte(want)) {
		t.Errorf("normalizeViewBox() = %s", out)
	}

	plain := []byte(`<svg><g/></svg>`)
	if !bytes.Equal(normalizeViewBox(plain), plain) {
		t.Error("svg without viewBox should be unchanged")
	}
}

func TestRenderSVG(t *testing.T) {
	svg, err := RenderSVG(ToDOT(sample(), Options{Detailed: true}))
	if err != nil {
		t.Fatalf("RenderSVG() error: %v", err)
	}
	if !bytes.Contains(svg, []byte("<svg")) {
		t.Error("RenderSVG() output is not SVG")
	}
	if !bytes.Contains(svg, []byte("a1")) {
		t.Error("RenderSVG() output missing node label")
	}
}

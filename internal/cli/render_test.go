package cli

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/treemap/pkg/cache"
	"github.com/matzehuels/treemap/pkg/layout"
	"github.com/matzehuels/treemap/pkg/pipeline"
)

const diskJSON = `{
  "Name": "disk",
  "children": [
    {"Name": "home", "Size": 60},
    {"Name": "usr", "Size": 30, "children": [{"Name": "lib", "Size": 5}]},
    {"Name": "tmp", "Size": 5}
  ]
}`

func writeSource(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func testCLI() *CLI {
	return New(io.Discard, log.InfoLevel)
}

func renderOptions(t *testing.T, input string, formats ...string) pipeline.Options {
	t.Helper()
	opts := pipeline.Options{Input: input, Formats: formats}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults: %v", err)
	}
	return opts
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		name   string
		output string
		input  string
		want   string
	}{
		{"stdin", "", "-", "layout"},
		{"no input", "", "", "layout"},
		{"source extension", "", "data/disk.xml", "data/disk"},
		{"layout suffix", "", "data/disk.layout.json", "data/disk"},
		{"output with format ext", "out/map.svg", "disk.xml", "out/map"},
		{"output with txt ext", "out/map.txt", "disk.xml", "out/map"},
		{"output without ext", "out/map", "disk.xml", "out/map"},
		{"output with other ext", "out/map.v2", "disk.xml", "out/map.v2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := basePath(tt.output, tt.input); got != tt.want {
				t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
			}
		})
	}
}

func TestWriteArtifactsSingle(t *testing.T) {
	out := filepath.Join(t.TempDir(), "map.html")
	artifacts := map[string][]byte{"html": []byte("<html></html>")}

	paths, err := writeArtifacts(artifacts, []string{"html"}, "disk.xml", out)
	if err != nil {
		t.Fatalf("writeArtifacts: %v", err)
	}
	if len(paths) != 1 || paths[0] != out {
		t.Fatalf("paths = %v, want [%s]", paths, out)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "<html></html>" {
		t.Errorf("content = %q", data)
	}
}

func TestWriteArtifactsMultiple(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "disk.json")
	artifacts := map[string][]byte{
		"svg":  []byte("<svg/>"),
		"text": []byte("disk"),
	}

	paths, err := writeArtifacts(artifacts, []string{"svg", "text"}, input, "")
	if err != nil {
		t.Fatalf("writeArtifacts: %v", err)
	}
	want := []string{filepath.Join(dir, "disk.svg"), filepath.Join(dir, "disk.txt")}
	if len(paths) != len(want) {
		t.Fatalf("paths = %v, want %v", paths, want)
	}
	for i, p := range paths {
		if p != want[i] {
			t.Errorf("paths[%d] = %q, want %q", i, p, want[i])
		}
		if _, err := os.Stat(p); err != nil {
			t.Errorf("stat %s: %v", p, err)
		}
	}
}

func TestWriteArtifactsBadDir(t *testing.T) {
	out := filepath.Join(t.TempDir(), "missing", "map.svg")
	_, err := writeArtifacts(map[string][]byte{"svg": nil}, []string{"svg"}, "disk.xml", out)
	if err == nil {
		t.Fatal("expected error writing into a missing directory")
	}
}

func TestRenderOnceFromSource(t *testing.T) {
	input := writeSource(t, "disk.json", diskJSON)
	opts := renderOptions(t, input, "json", "text")

	dir := t.TempDir()
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		t.Fatal(err)
	}
	runner := pipeline.NewRunner(fc, nil, nil)
	defer runner.Close()

	c := testCLI()
	ctx := context.Background()
	base := filepath.Join(t.TempDir(), "map")
	req := renderRequest{opts: opts, output: base}

	paths, cached, err := c.renderOnce(ctx, runner, req)
	if err != nil {
		t.Fatalf("renderOnce: %v", err)
	}
	if cached {
		t.Error("first render reported cached")
	}
	if len(paths) != 2 || paths[0] != base+".json" || paths[1] != base+".txt" {
		t.Fatalf("paths = %v, want %s.json and %s.txt", paths, base, base)
	}

	res, err := layout.ReadLayoutFile(paths[0])
	if err != nil {
		t.Fatalf("rendered json does not read back as a layout: %v", err)
	}
	if got := len(res.Root.Children); got != 3 {
		t.Errorf("layout has %d top-level nodes, want 3", got)
	}

	_, cached, err = c.renderOnce(ctx, runner, req)
	if err != nil {
		t.Fatalf("second renderOnce: %v", err)
	}
	if !cached {
		t.Error("second render should be served from cache")
	}
}

func TestRenderOnceFromLayout(t *testing.T) {
	input := writeSource(t, "disk.json", diskJSON)
	opts := renderOptions(t, input, "text")

	runner := pipeline.NewRunner(nil, nil, nil)
	c := testCLI()
	ctx := context.Background()

	root, _, err := c.loadSource(ctx, runner, opts)
	if err != nil {
		t.Fatal(err)
	}
	res, _, err := runner.Layout(ctx, root, opts)
	if err != nil {
		t.Fatal(err)
	}
	layoutPath := filepath.Join(t.TempDir(), "disk.layout.json")
	if err := layout.WriteLayoutFile(res, layoutPath); err != nil {
		t.Fatal(err)
	}

	opts.Input = layoutPath
	paths, _, err := c.renderOnce(ctx, runner, renderRequest{opts: opts, fromLayout: true})
	if err != nil {
		t.Fatalf("renderOnce: %v", err)
	}
	want := strings.TrimSuffix(layoutPath, ".layout.json") + ".txt"
	if len(paths) != 1 || paths[0] != want {
		t.Fatalf("paths = %v, want [%s]", paths, want)
	}
	data, err := os.ReadFile(want)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "home") {
		t.Errorf("text output missing the largest block:\n%s", data)
	}
}

func TestRenderOnceMissingLayout(t *testing.T) {
	opts := renderOptions(t, filepath.Join(t.TempDir(), "nope.layout.json"), "text")
	runner := pipeline.NewRunner(nil, nil, nil)

	_, _, err := testCLI().renderOnce(context.Background(), runner, renderRequest{opts: opts, fromLayout: true})
	if err == nil {
		t.Fatal("expected error for a missing layout file")
	}
}

func TestLoadSourceURL(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(diskJSON))
	}))
	defer srv.Close()

	opts := pipeline.Options{Input: srv.URL + "/trees/disk.json?rev=1"}
	if err := opts.ValidateForLoad(); err != nil {
		t.Fatal(err)
	}

	root, _, err := testCLI().loadSource(context.Background(), pipeline.NewRunner(nil, nil, nil), opts)
	if err != nil {
		t.Fatalf("loadSource: %v", err)
	}
	if root.Name != "disk" || root.Size != 100 {
		t.Errorf("root = %q size %g, want disk 100", root.Name, root.Size)
	}
}

package source

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/treemap/pkg/errors"
	"github.com/matzehuels/treemap/pkg/tree"
)

const diskXML = `<?xml version="1.0"?>
<Node Name="disk">
  some text that is ignored
  <Node Name="home" Size="6" Value="2"/>
  <Node Name="usr">
    <Node Name="bin" Size="2"/>
    <Node Name="lib" Size="1" Value="5"/>
  </Node>
  <Node Name="tmp" Size="junk"/>
</Node>
<!-- trailing -->`

const diskJSON = `{
  "Name": "disk",
  "children": [
    {"Name": "home", "Size": 6, "Value": "2"},
    {"Name": "usr", "tags": ["a"], "meta": {"x": 1}, "children": [
      {"Name": "bin", "Size": 2},
      {"Name": "lib", "Size": 1, "Value": 5}
    ]},
    {"Name": "tmp", "Size": "junk"}
  ]
}`

const diskYAML = `Name: disk
children:
  - Name: home
    Size: 6
    Value: 2
  - Name: usr
    children:
      - {Name: bin, Size: 2}
      - {Name: lib, Size: 1, Value: 5}
  - Name: tmp
    Size: junk
`

const diskTOML = `Name = "disk"

[[children]]
Name = "home"
Size = 6
Value = 2

[[children]]
Name = "usr"
children = [
  { Name = "bin", Size = 2 },
  { Name = "lib", Size = 1, Value = 5 },
]

[[children]]
Name = "tmp"
Size = "junk"
`

func TestDecodeFormats(t *testing.T) {
	tests := []struct {
		format Format
		doc    string
	}{
		{FormatXML, diskXML},
		{FormatJSON, diskJSON},
		{FormatYAML, diskYAML},
		{FormatTOML, diskTOML},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			el, err := Decode(strings.NewReader(tt.doc), tt.format)
			if err != nil {
				t.Fatalf("Decode() error: %v", err)
			}
			if el.Count() != 6 {
				t.Errorf("Count() = %d, want 6", el.Count())
			}

			root := tree.Aggregate(el, tree.DefaultKeys())
			if root.Name != "disk" {
				t.Errorf("root name = %q, want disk", root.Name)
			}
			if root.Size != 9 {
				t.Errorf("root size = %v, want 9", root.Size)
			}
			if root.Value != 7 {
				t.Errorf("root value = %v, want 7", root.Value)
			}

			names := []string{}
			for _, c := range root.Children {
				names = append(names, c.Name)
			}
			if strings.Join(names, ",") != "home,usr,tmp" {
				t.Errorf("children = %v, want document order", names)
			}

			usr, ok := root.Find("usr")
			if !ok {
				t.Fatal("usr not found")
			}
			if usr.Size != 3 || len(usr.Children) != 2 {
				t.Errorf("usr = size %v with %d children", usr.Size, len(usr.Children))
			}
			if tmp, _ := root.Find("tmp"); tmp.Size != 0 {
				t.Errorf("tmp size = %v, want 0", tmp.Size)
			}
		})
	}
}

func TestDecodeJSONIgnoresComposites(t *testing.T) {
	el, err := Decode(strings.NewReader(diskJSON), FormatJSON)
	if err != nil {
		t.Fatal(err)
	}
	usr := el.Nested[1]
	if _, ok := usr.Attr("tags"); ok {
		t.Error("array attribute should be ignored")
	}
	if _, ok := usr.Attr("meta"); ok {
		t.Error("object attribute should be ignored")
	}
}

func TestDecodeXMLAttributes(t *testing.T) {
	doc := `<r:root xmlns:r="urn:x" r:Name="ns" Size="1.5"><leaf/></r:root>`
	el, err := Decode(strings.NewReader(doc), FormatXML)
	if err != nil {
		t.Fatal(err)
	}
	if el.Tag != "root" {
		t.Errorf("Tag = %q, want root", el.Tag)
	}
	if v, _ := el.Attr("Name"); v != "ns" {
		t.Errorf("Name = %q, want ns", v)
	}
	if v, _ := el.Attr("Size"); v != "1.5" {
		t.Errorf("Size = %q, want 1.5", v)
	}
	if len(el.Nested) != 1 || el.Nested[0].Tag != "leaf" {
		t.Errorf("Nested = %+v", el.Nested)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		doc    string
	}{
		{"xml syntax", FormatXML, `<a><b></a>`},
		{"xml empty", FormatXML, ``},
		{"json syntax", FormatJSON, `{"Name":`},
		{"json array root", FormatJSON, `[1,2]`},
		{"json children not array", FormatJSON, `{"children": 3}`},
		{"json child not object", FormatJSON, `{"children": [1]}`},
		{"json trailing garbage", FormatJSON, `{"Size": 1} garbage`},
		{"json second object", FormatJSON, `{"Size": 1} {"Size": 2}`},
		{"json stray brace", FormatJSON, `{"Size": 1}}`},
		{"yaml empty", FormatYAML, ``},
		{"yaml two documents", FormatYAML, "Size: 1\n---\nSize: 2\n"},
		{"yaml scalar", FormatYAML, `hello`},
		{"toml syntax", FormatTOML, `Name = `},
		{"unknown format", Format("csv"), `a,b`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.doc), tt.format)
			if !errors.Is(err, errors.ErrCodeInvalidFormat) {
				t.Errorf("Decode() error = %v, want INVALID_FORMAT", err)
			}
		})
	}
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		path string
		want Format
		ok   bool
	}{
		{"disk.xml", FormatXML, true},
		{"DISK.XML", FormatXML, true},
		{"a/b/disk.json", FormatJSON, true},
		{"disk.yaml", FormatYAML, true},
		{"disk.yml", FormatYAML, true},
		{"disk.toml", FormatTOML, true},
		{"disk.csv", "", false},
		{"disk", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := DetectFormat(tt.path)
			if (err == nil) != tt.ok {
				t.Fatalf("DetectFormat(%q) error = %v", tt.path, err)
			}
			if got != tt.want {
				t.Errorf("DetectFormat(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	for _, s := range []string{"xml", "JSON", " yml ", "toml"} {
		if _, err := ParseFormat(s); err != nil {
			t.Errorf("ParseFormat(%q) error: %v", s, err)
		}
	}
	if _, err := ParseFormat("ini"); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("ParseFormat(ini) error = %v", err)
	}
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "disk.yml")
	if err := os.WriteFile(path, []byte(diskYAML), 0644); err != nil {
		t.Fatal(err)
	}

	el, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}
	if v, _ := el.Attr("Name"); v != "disk" {
		t.Errorf("Name = %q, want disk", v)
	}

	_, err = ReadFile(filepath.Join(dir, "missing.xml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing file error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestElementNil(t *testing.T) {
	var el *Element
	if _, ok := el.Attr("x"); ok {
		t.Error("nil element has no attributes")
	}
	if el.Children() != nil || el.Count() != 0 {
		t.Error("nil element has no children")
	}
}

func TestExampleDocumentsAgree(t *testing.T) {
	var roots []*tree.Node
	for _, name := range []string{"disk.xml", "disk.yaml"} {
		doc, err := ReadFile(filepath.Join("..", "..", "examples", name))
		if err != nil {
			t.Fatalf("ReadFile(%s): %v", name, err)
		}
		roots = append(roots, tree.Aggregate(doc, tree.DefaultKeys()))
	}

	xml, yml := roots[0], roots[1]
	if xml.Size != yml.Size || xml.Value != yml.Value {
		t.Errorf("xml = %g/%g, yaml = %g/%g", xml.Size, xml.Value, yml.Size, yml.Value)
	}
	if xml.Count() != yml.Count() || xml.Depth() != yml.Depth() {
		t.Errorf("shape differs: xml %d nodes depth %d, yaml %d nodes depth %d",
			xml.Count(), xml.Depth(), yml.Count(), yml.Depth())
	}
	if xml.Size != 26196 {
		t.Errorf("total size = %g, want 26196", xml.Size)
	}
}

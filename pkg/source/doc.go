// Package source decodes hierarchical documents into generic elements that
// the tree aggregator consumes.
//
// # Formats
//
// Four document formats are supported:
//
//   - XML: every element is a node, attributes become node attributes
//     (matched by local name) and child elements become children in
//     document order. Text content is ignored.
//   - JSON, YAML and TOML: every object is a node. The "children" key holds
//     an array of child objects; every other scalar key becomes an attribute.
//     Nested objects and arrays under other keys are ignored.
//
// A JSON document describing a small disk:
//
//	{
//	  "Name": "disk",
//	  "children": [
//	    {"Name": "home", "Size": 6},
//	    {"Name": "usr", "Size": 3, "Value": 12}
//	  ]
//	}
//
// # Usage
//
// Use [ReadFile] to decode a file whose format is detected from its
// extension, or [Decode] for any io.Reader:
//
//	root, err := source.ReadFile("disk.xml")
//	if err != nil {
//	    return err
//	}
//	t := tree.Aggregate(root, tree.DefaultKeys())
//
// Decoding fails only for documents that cannot be parsed. Attribute values
// are kept as strings; interpreting them is left to [tree.ParseWeight].
package source

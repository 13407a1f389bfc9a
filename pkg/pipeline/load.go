package pipeline

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"

	"github.com/matzehuels/treemap/pkg/cache"
	"github.com/matzehuels/treemap/pkg/errors"
	"github.com/matzehuels/treemap/pkg/source"
	"github.com/matzehuels/treemap/pkg/tree"
)

// SourceFormat resolves the source format from opts.Format, falling back to
// the extension of opts.Input.
func SourceFormat(opts Options) (source.Format, error) {
	if opts.Format != "" {
		return source.ParseFormat(opts.Format)
	}
	if opts.Input == "" || opts.Input == "-" {
		return "", errors.New(errors.ErrCodeInvalidFormat, "source format is required when reading from stdin")
	}
	return source.DetectFormat(opts.Input)
}

// LoadTree decodes a source document, aggregates it with the configured keys
// and selects the configured subtree.
func LoadTree(data []byte, format source.Format, opts Options) (*tree.Node, error) {
	return loadTree(bytes.NewReader(data), format, opts)
}

func loadTree(r io.Reader, format source.Format, opts Options) (*tree.Node, error) {
	doc, err := source.Decode(r, format)
	if err != nil {
		return nil, err
	}
	root := tree.Aggregate(doc, opts.Keys())
	return SelectSubtree(root, opts.Subtree)
}

// SelectSubtree returns the node reached by following path from root. An
// empty path returns root.
func SelectSubtree(root *tree.Node, path []string) (*tree.Node, error) {
	if root == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no tree loaded")
	}
	n, ok := root.Find(path...)
	if !ok {
		return nil, errors.New(errors.ErrCodeSubtreeNotFound, "subtree %q not found", strings.Join(path, "/"))
	}
	return n, nil
}

// HashTree returns the content hash of an aggregated tree.
func HashTree(root *tree.Node) string {
	data, _ := json.Marshal(root)
	return cache.Hash(data)
}

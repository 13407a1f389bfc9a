package source

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/treemap/pkg/errors"
)

// Format names a document format.
type Format string

const (
	FormatXML  Format = "xml"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// Formats lists every supported format.
var Formats = []Format{FormatXML, FormatJSON, FormatYAML, FormatTOML}

var extensions = map[string]Format{
	".xml":  FormatXML,
	".json": FormatJSON,
	".yaml": FormatYAML,
	".yml":  FormatYAML,
	".toml": FormatTOML,
}

// ParseFormat converts a format name such as "yaml" or "yml" into a Format.
func ParseFormat(s string) (Format, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if f, ok := extensions["."+name]; ok {
		return f, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unknown source format %q", s)
}

// DetectFormat infers a document's format from its file extension.
func DetectFormat(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if f, ok := extensions[ext]; ok {
		return f, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "cannot detect format of %s", path)
}

// Decode reads a document of the given format from r and returns its root
// element. Decode does not close r.
func Decode(r io.Reader, format Format) (*Element, error) {
	var (
		root *Element
		err  error
	)
	switch format {
	case FormatXML:
		root, err = decodeXML(r)
	case FormatJSON:
		root, err = decodeJSON(r)
	case FormatYAML:
		root, err = decodeYAML(r)
	case FormatTOML:
		root, err = decodeTOML(r)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown source format %q", format)
	}
	if err != nil {
		if errors.GetCode(err) != "" {
			return nil, err
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode %s", format)
	}
	return root, nil
}

// ReadFile opens path, detects its format from the extension and decodes it.
func ReadFile(path string) (*Element, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}
	return ReadFileAs(path, format)
}

// ReadFileAs decodes the file at path using an explicit format.
func ReadFileAs(path string, format Format) (*Element, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "open %s", path)
	}
	defer f.Close()
	return Decode(bufio.NewReader(f), format)
}

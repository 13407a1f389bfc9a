package source

import (
	"encoding/xml"
	"io"

	"github.com/matzehuels/treemap/pkg/errors"
)

// decodeXML builds the element tree of the first element in the document.
// Everything after the root element closes is ignored.
func decodeXML(r io.Reader) (*Element, error) {
	dec := xml.NewDecoder(r)
	dec.Strict = true

	var (
		root  *Element
		stack []*Element
	)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			el := NewElement(t.Name.Local)
			for _, a := range t.Attr {
				el.Attrs[a.Name.Local] = a.Value
			}
			if len(stack) == 0 {
				root = el
			} else {
				parent := stack[len(stack)-1]
				parent.Nested = append(parent.Nested, el)
			}
			stack = append(stack, el)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				return root, nil
			}
		}
	}

	if root == nil {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "xml document has no root element")
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "xml element %q is not closed", root.Tag)
}

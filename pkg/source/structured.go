package source

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/treemap/pkg/errors"
)

// ChildrenKey is the object key that holds child nodes in JSON, YAML and
// TOML documents.
const ChildrenKey = "children"

func decodeJSON(r io.Reader) (*Element, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	var extra any
	if err := dec.Decode(&extra); err != io.EOF {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "json: unexpected content after the root object")
	}
	return fromValue(doc, "$")
}

// decodeYAML reads a single YAML document. A stream with more than one
// document is rejected.
func decodeYAML(r io.Reader) (*Element, error) {
	dec := yaml.NewDecoder(r)
	var doc any
	if err := dec.Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "yaml document is empty")
		}
		return nil, err
	}
	var extra any
	if err := dec.Decode(&extra); err != io.EOF {
		if err != nil {
			return nil, err
		}
		return nil, errors.New(errors.ErrCodeInvalidFormat, "yaml: expected one document, found more")
	}
	return fromValue(doc, "$")
}

func decodeTOML(r io.Reader) (*Element, error) {
	var doc map[string]any
	if _, err := toml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, err
	}
	return fromValue(doc, "$")
}

// fromValue converts a decoded object into an element. path locates the
// object in the document for error messages.
func fromValue(v any, path string) (*Element, error) {
	obj, ok := asObject(v)
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "%s: expected an object, got %s", path, kind(v))
	}

	el := NewElement("")
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		val := obj[k]
		if k == ChildrenKey {
			kids, ok := asList(val)
			if !ok {
				return nil, errors.New(errors.ErrCodeInvalidFormat, "%s.%s: expected an array, got %s", path, k, kind(val))
			}
			for i, kid := range kids {
				c, err := fromValue(kid, fmt.Sprintf("%s.%s[%d]", path, k, i))
				if err != nil {
					return nil, err
				}
				el.Nested = append(el.Nested, c)
			}
			continue
		}
		if s, ok := scalar(val); ok {
			el.Attrs[k] = s
		}
	}
	return el, nil
}

func asObject(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			out[fmt.Sprint(k)] = val
		}
		return out, true
	}
	return nil, false
}

func asList(v any) ([]any, bool) {
	switch l := v.(type) {
	case nil:
		return nil, true
	case []any:
		return l, true
	case []map[string]any:
		out := make([]any, len(l))
		for i, m := range l {
			out[i] = m
		}
		return out, true
	}
	return nil, false
}

// scalar formats a decoded scalar as an attribute value. Composite values
// report false.
func scalar(v any) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, true
	case json.Number:
		return s.String(), true
	case bool:
		return strconv.FormatBool(s), true
	case int:
		return strconv.Itoa(s), true
	case int64:
		return strconv.FormatInt(s, 10), true
	case uint64:
		return strconv.FormatUint(s, 10), true
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64), true
	case time.Time:
		return s.Format(time.RFC3339), true
	}
	return "", false
}

func kind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case []any, []map[string]any:
		return "array"
	case map[string]any, map[any]any:
		return "object"
	}
	if _, ok := scalar(v); ok {
		return "scalar"
	}
	return fmt.Sprintf("%T", v)
}

package sink

import (
	"github.com/matzehuels/treemap/pkg/layout"
)

// RenderJSON serializes the annotated tree using the layout JSON codec, so
// the output can be read back with [layout.UnmarshalLayout].
func RenderJSON(res *layout.Result) ([]byte, error) {
	return layout.MarshalLayout(res)
}

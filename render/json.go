package render

import (
	"encoding/json"
	"io"
	"reflect"
)

// JSONRenderer writes results (documents, tokens, matches) as JSON to a writer.
type JSONRenderer struct {
	W io.Writer

	Indent bool
}

// NewJSONRenderer creates a JSONRenderer writing to w.
func NewJSONRenderer(w io.Writer) *JSONRenderer {
	return &JSONRenderer{W: w}
}

// Render serializes v. A nil slice is written as an empty array.
func (r *JSONRenderer) Render(v any) error {
	enc := json.NewEncoder(r.W)
	if r.Indent {
		enc.SetIndent("", "  ")
	}

	if v == nil {
		v = []any{}
	} else if rv := reflect.ValueOf(v); rv.Kind() == reflect.Slice && rv.IsNil() {
		v = []any{}
	}
	return enc.Encode(v)
}

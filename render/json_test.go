package render

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/revelaction/saf/passive"
	"github.com/revelaction/saf/saf"
)

func TestJSONRendererRenderEmpty(t *testing.T) {
	var buf bytes.Buffer
	r := NewJSONRenderer(&buf)
	if err := r.Render(nil); err != nil {
		t.Fatalf("failed to render: %v", err)
	}

	var results []passive.Match
	if err := json.Unmarshal(buf.Bytes(), &results); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}

	if len(results) != 0 {
		t.Fatalf("expected 0 results, got %d", len(results))
	}
}

func TestJSONRendererRenderMatches(t *testing.T) {
	var buf bytes.Buffer
	r := NewJSONRenderer(&buf)
	if err := r.Render([]passive.Match{{Aux: 1, Verb: 2, Prep: 3, Agent: 4}}); err != nil {
		t.Fatalf("failed to render: %v", err)
	}

	var results []passive.Match
	if err := json.Unmarshal(buf.Bytes(), &results); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}

	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}

	if results[0].Agent != 4 {
		t.Errorf("expected agent 4, got %d", results[0].Agent)
	}
}

// TestJSONRendererRenderDocument verifies resolved tokens keep their unknown keys.
func TestJSONRendererRenderDocument(t *testing.T) {
	doc := &saf.Document{
		Tokens: []*saf.Token{{Id: 1, Sentence: 1, Word: "Jan", Lemma: "Jan", Pos: "name", Coref: 1,
			Extra: map[string]json.RawMessage{"begin": json.RawMessage("0")}}},
		Dependencies: []saf.Dependency{},
	}

	var buf bytes.Buffer
	r := &JSONRenderer{W: &buf, Indent: true}
	if err := r.Render(doc); err != nil {
		t.Fatalf("failed to render: %v", err)
	}

	var got struct {
		Tokens []map[string]any `json:"tokens"`
	}
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}

	if len(got.Tokens) != 1 {
		t.Fatalf("expected 1 token, got %d", len(got.Tokens))
	}
	if got.Tokens[0]["begin"] != float64(0) {
		t.Errorf("expected begin 0, got %v", got.Tokens[0]["begin"])
	}
	if got.Tokens[0]["coref"] != float64(1) {
		t.Errorf("expected coref 1, got %v", got.Tokens[0]["coref"])
	}
}

func TestJSONRendererRenderNilSlice(t *testing.T) {
	var buf bytes.Buffer
	r := NewJSONRenderer(&buf)

	var matches []passive.Match
	if err := r.Render(matches); err != nil {
		t.Fatalf("failed to render: %v", err)
	}

	if got := buf.String(); got != "[]\n" {
		t.Fatalf("expected an empty array, got %q", got)
	}
}

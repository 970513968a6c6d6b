package saf

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const documentJSON = `{
  "header": {"format": "SAF", "processed": [{"module": "alpino"}]},
  "tokens": [
    {"id": 1, "sentence": 1, "offset": 0, "word": "Jan", "lemma": "Jan", "pos": "name", "pos1": "M", "begin": 0},
    {"id": 2, "sentence": 1, "offset": 1, "word": "slaapt", "lemma": "slaap", "pos": "verb", "pos1": "V", "begin": 4}
  ],
  "dependencies": [{"parent": 2, "child": 1, "relation": "su"}],
  "entities": []
}`

func TestDocument_Unmarshal(t *testing.T) {
	var doc Document
	require.NoError(t, json.Unmarshal([]byte(documentJSON), &doc))

	require.Len(t, doc.Tokens, 2)
	assert.Equal(t, "slaapt", doc.Tokens[1].Word)
	assert.Equal(t, "V", doc.Tokens[1].Pos1)
	assert.JSONEq(t, `4`, string(doc.Tokens[1].Extra["begin"]))

	require.NotNil(t, doc.Entities)
	assert.Empty(t, *doc.Entities)
	assert.Nil(t, doc.Coreferences)
	assert.Nil(t, doc.Clauses)

	v, ok := doc.Tokens[1].Field("begin")
	assert.True(t, ok)
	assert.Equal(t, "4", v)
}

// TestDocument_RoundTrip verifies unknown keys and present empty layers survive.
func TestDocument_RoundTrip(t *testing.T) {
	var doc Document
	require.NoError(t, json.Unmarshal([]byte(documentJSON), &doc))

	data, err := json.Marshal(doc)
	require.NoError(t, err)

	var got map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &got))

	assert.JSONEq(t, `{"format": "SAF", "processed": [{"module": "alpino"}]}`, string(got["header"]))
	assert.JSONEq(t, `[]`, string(got["entities"]))
	assert.NotContains(t, got, "clauses")

	var tokens []map[string]any
	require.NoError(t, json.Unmarshal(got["tokens"], &tokens))
	assert.Equal(t, float64(4), tokens[1]["begin"])
	assert.NotContains(t, tokens[0], "coref")
}

// TestDocument_Derive verifies derived documents share layers and unknown keys.
func TestDocument_Derive(t *testing.T) {
	var doc Document
	require.NoError(t, json.Unmarshal([]byte(documentJSON), &doc))

	nd := doc.Derive(doc.Tokens[:1], nil)
	assert.Len(t, nd.Tokens, 1)
	assert.Len(t, doc.Tokens, 2)
	assert.Same(t, doc.Entities, nd.Entities)

	data, err := json.Marshal(nd)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"header"`)
}

func TestToken_Field(t *testing.T) {
	tk := &Token{Word: "door", Lemma: "door", Pos: "prep", ClauseRole: RolePredicate}

	v, ok := tk.Field("lemma")
	assert.True(t, ok)
	assert.Equal(t, "door", v)

	v, ok = tk.Field("clause_role")
	assert.True(t, ok)
	assert.Equal(t, "predicate", v)

	_, ok = tk.Field("gender")
	assert.False(t, ok)
}

// TestToken_Field_Int verifies integer fields are formatted in decimal and
// unset ids are absent.
func TestToken_Field_Int(t *testing.T) {
	clause := 0
	tk := &Token{Id: 12, Sentence: 3, Offset: 40, Coref: 7, ClauseId: &clause}

	for name, want := range map[string]string{
		"id":        "12",
		"sentence":  "3",
		"offset":    "40",
		"coref":     "7",
		"clause_id": "0",
	} {
		v, ok := tk.Field(name)
		assert.True(t, ok, name)
		assert.Equal(t, want, v, name)
	}

	_, ok := tk.Field("source_id")
	assert.False(t, ok)
}

func TestDocument_Key(t *testing.T) {
	var doc Document
	require.NoError(t, json.Unmarshal([]byte(documentJSON), &doc))

	v, ok := doc.Key("header")
	require.True(t, ok)
	assert.Contains(t, string(v), "alpino")

	_, ok = doc.Key("tokens")
	assert.False(t, ok)

	doc.SetKey("labels", json.RawMessage(`["news"]`))
	data, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"labels":["news"]`)
}

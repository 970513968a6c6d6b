package zombiezen

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/revelaction/saf/passive"
	"github.com/revelaction/saf/saf"
	"github.com/revelaction/saf/storage"
)

func newPool(t *testing.T) *sqlitex.Pool {
	t.Helper()
	pool, err := NewPool(filepath.Join(t.TempDir(), "saf.db"))
	require.NoError(t, err)
	t.Cleanup(func() { pool.Close() })
	return pool
}

func document(t *testing.T, data string) *saf.Document {
	t.Helper()
	var doc saf.Document
	require.NoError(t, json.Unmarshal([]byte(data), &doc))
	return &doc
}

const passiveJSON = `{
  "header": {"format": "SAF"},
  "tokens": [
    {"id": 1, "sentence": 1, "offset": 0, "word": "werd", "lemma": "word", "pos": "verb"},
    {"id": 2, "sentence": 1, "offset": 3, "word": "gegeten", "lemma": "eet", "pos": "verb"},
    {"id": 3, "sentence": 1, "offset": 1, "word": "door", "lemma": "door", "pos": "prep"},
    {"id": 4, "sentence": 1, "offset": 2, "word": "Jan", "lemma": "Jan", "pos": "name"}
  ],
  "dependencies": [
    {"parent": 1, "child": 2, "relation": "vc"},
    {"parent": 2, "child": 3, "relation": "mod"},
    {"parent": 3, "child": 4, "relation": "obj1"}
  ]
}`

const activeJSON = `{
  "tokens": [
    {"id": 1, "sentence": 1, "offset": 0, "word": "Jan", "lemma": "Jan", "pos": "name"},
    {"id": 2, "sentence": 1, "offset": 1, "word": "eet", "lemma": "eet", "pos": "verb"}
  ],
  "dependencies": [{"parent": 2, "child": 1, "relation": "su"}]
}`

// TestDocStore_WriteRead verifies documents round trip through the docs table.
func TestDocStore_WriteRead(t *testing.T) {
	ds := NewDocStore(newPool(t), zerolog.Nop())

	require.NoError(t, ds.Write(storage.Doc{Title: "a", Labels: []string{"news", "nl"}, Document: document(t, passiveJSON)}))
	require.NoError(t, ds.Write(storage.Doc{Title: "b", Document: document(t, activeJSON)}))

	docs, err := ds.List("")
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "a", docs[0].Title)
	assert.Equal(t, []string{"news", "nl"}, docs[0].Labels)
	assert.Len(t, docs[0].Hash, 64)
	assert.Nil(t, docs[0].Document)

	doc, err := ds.Read(docs[0].Id)
	require.NoError(t, err)
	require.NotNil(t, doc.Document)
	assert.Len(t, doc.Document.Tokens, 4)

	header, ok := doc.Document.Key("header")
	require.True(t, ok)
	assert.JSONEq(t, `{"format": "SAF"}`, string(header))

	_, err = ds.Read(99)
	assert.Error(t, err)

	docs, err = ds.List("nl")
	require.NoError(t, err)
	assert.Len(t, docs, 1)
}

// TestDocStore_Duplicate verifies equal content is stored once.
func TestDocStore_Duplicate(t *testing.T) {
	ds := NewDocStore(newPool(t), zerolog.Nop())

	require.NoError(t, ds.Write(storage.Doc{Title: "a", Document: document(t, activeJSON)}))
	require.NoError(t, ds.Write(storage.Doc{Title: "again", Document: document(t, activeJSON)}))

	docs, err := ds.List("")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "a", docs[0].Title)

	assert.Error(t, ds.Write(storage.Doc{Title: "empty"}))
}

func TestDocStore_FindCandidates(t *testing.T) {
	ds := NewDocStore(newPool(t), zerolog.Nop())

	require.NoError(t, ds.Write(storage.Doc{Title: "a", Document: document(t, passiveJSON)}))
	require.NoError(t, ds.Write(storage.Doc{Title: "b", Document: document(t, activeJSON)}))

	docs, err := ds.List("")
	require.NoError(t, err)

	ids, err := ds.FindCandidates(passive.DefaultRule().LemmaSets())
	require.NoError(t, err)
	assert.Equal(t, []int{docs[0].Id}, ids)

	ids, err = ds.FindCandidates([][]string{{"Jan"}, {"eet", "slaap"}})
	require.NoError(t, err)
	assert.Equal(t, []int{docs[0].Id, docs[1].Id}, ids)

	ids, err = ds.FindCandidates(nil)
	require.NoError(t, err)
	assert.Len(t, ids, 2)

	ids, err = ds.FindCandidates([][]string{{"Jan"}, {}})
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestRuleStore(t *testing.T) {
	rs := NewRuleStore(newPool(t))

	require.NoError(t, rs.Write(passive.DefaultRule()))

	r := passive.DefaultRule()
	r.Auxiliaries = []string{"word"}
	require.NoError(t, rs.Write(r))

	got, err := rs.Read(passive.DefaultRuleName)
	require.NoError(t, err)
	assert.Equal(t, []string{"word"}, got.Auxiliaries)

	lib, err := rs.ReadAll()
	require.NoError(t, err)
	assert.Equal(t, []string{passive.DefaultRuleName}, lib.Names())

	_, err = rs.Read("english")
	assert.Error(t, err)
}

package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revelaction/saf/config"
	"github.com/revelaction/saf/passive"
	"github.com/revelaction/saf/saf"
	"github.com/revelaction/saf/search"
	"github.com/revelaction/saf/stat"
	"github.com/revelaction/saf/storage/filesystem"
)

const passiveJSON = `{
  "labels": ["news", "nl"],
  "tokens": [
    {"id": 1, "sentence": 1, "offset": 1, "word": "werd", "lemma": "word", "pos": "verb"},
    {"id": 2, "sentence": 1, "offset": 5, "word": "gegeten", "lemma": "eet", "pos": "verb"},
    {"id": 3, "sentence": 1, "offset": 3, "word": "door", "lemma": "door", "pos": "prep"},
    {"id": 4, "sentence": 1, "offset": 4, "word": "Jan", "lemma": "Jan", "pos": "name"},
    {"id": 5, "sentence": 1, "offset": 2, "word": "brood", "lemma": "brood", "pos": "noun"},
    {"id": 6, "sentence": 1, "offset": 0, "word": "Gisteren", "lemma": "gisteren", "pos": "adv"}
  ],
  "dependencies": [
    {"parent": 1, "child": 2, "relation": "vc"},
    {"parent": 2, "child": 3, "relation": "mod"},
    {"parent": 3, "child": 4, "relation": "obj1"},
    {"parent": 1, "child": 5, "relation": "su"},
    {"parent": 1, "child": 6, "relation": "mod"}
  ]
}`

const activeJSON = `{
  "tokens": [
    {"id": 1, "sentence": 1, "offset": 0, "word": "Jan", "lemma": "Jan", "pos": "name"},
    {"id": 2, "sentence": 1, "offset": 1, "word": "eet", "lemma": "eet", "pos": "verb"}
  ],
  "dependencies": [{"parent": 2, "child": 1, "relation": "su"}]
}`

const englishYAML = `name: english
auxiliaries: [be]
complement: xcomp
modifier: prep
preposition: by
object: pobj
agent: agent
subject: nsubjpass
`

type testRepo struct {
	dir     string
	docDir  string
	cfgPath string
}

func newTestRepo(t *testing.T) testRepo {
	t.Helper()
	dir := t.TempDir()
	docDir := filepath.Join(dir, "docs")
	require.NoError(t, os.Mkdir(docDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(docDir, "a.json"), []byte(passiveJSON), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(docDir, "b.json"), []byte(activeJSON), 0644))

	return testRepo{dir: dir, docDir: docDir, cfgPath: filepath.Join(dir, "saf.yaml")}
}

// run executes the app with the repo as doc path and returns stdout.
func (tr testRepo) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	ui := UI{Out: &out, Err: &errOut}

	full := append([]string{"saf", "--config", tr.cfgPath, "--doc-path", tr.docDir, "--log-level", "disabled"}, args...)
	err := newApp(ui).Run(full)
	return out.String(), err
}

func TestFprintErr(t *testing.T) {
	var buf bytes.Buffer
	fprintErr(&buf, assert.AnError)
	assert.Equal(t, "saf: "+assert.AnError.Error()+"\n", buf.String())
}

func TestTokens_JSON(t *testing.T) {
	tr := newTestRepo(t)

	out, err := tr.run(t, "tokens", "--json", "0")
	require.NoError(t, err)

	var tokens []*saf.Token
	require.NoError(t, json.Unmarshal([]byte(out), &tokens))
	require.Len(t, tokens, 6)
	assert.Equal(t, "Gisteren", tokens[0].Word)
	assert.Equal(t, "gegeten", tokens[5].Word)
}

func TestTokens_File(t *testing.T) {
	tr := newTestRepo(t)

	out, err := tr.run(t, "tokens", "--no-color", filepath.Join(tr.docDir, "b.json"))
	require.NoError(t, err)
	assert.Contains(t, out, "Jan")
	assert.Contains(t, out, "eet")
}

func TestTokens_Errors(t *testing.T) {
	tr := newTestRepo(t)

	_, err := tr.run(t, "tokens")
	assert.Error(t, err)

	_, err = tr.run(t, "tokens", "x")
	assert.ErrorContains(t, err, "invalid doc id")

	_, err = tr.run(t, "tokens", "--sentence", "9", "0")
	assert.ErrorContains(t, err, "sentence 9 not found")

	_, err = tr.run(t, "tokens", "--format", "upos", "0")
	assert.ErrorContains(t, err, "unsupported format")
}

func TestRoots(t *testing.T) {
	tr := newTestRepo(t)

	out, err := tr.run(t, "roots", "--json", "0")
	require.NoError(t, err)

	var roots []sentenceRoots
	require.NoError(t, json.Unmarshal([]byte(out), &roots))
	assert.Equal(t, []sentenceRoots{{Sentence: 1, Roots: []int{1}}}, roots)

	_, err = tr.run(t, "roots", "--strict", "0")
	assert.NoError(t, err)
}

func TestDescendants(t *testing.T) {
	tr := newTestRepo(t)

	out, err := tr.run(t, "descendants", "--json", "--exclude", "3", "0", "1")
	require.NoError(t, err)

	var tokens []*saf.Token
	require.NoError(t, json.Unmarshal([]byte(out), &tokens))

	var got []int
	for _, tk := range tokens {
		got = append(got, tk.Id)
	}
	assert.Equal(t, []int{1, 2, 5, 6}, got)

	_, err = tr.run(t, "descendants", "0")
	assert.ErrorContains(t, err, "usage")
}

func TestClauses_Absent(t *testing.T) {
	tr := newTestRepo(t)

	_, err := tr.run(t, "clauses", "0")
	assert.ErrorContains(t, err, "no clauses")
}

func TestDot(t *testing.T) {
	tr := newTestRepo(t)

	out, err := tr.run(t, "dot", "1")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "digraph"))
	assert.Contains(t, out, "->")
}

func TestPassive(t *testing.T) {
	tr := newTestRepo(t)
	outFile := filepath.Join(tr.dir, "active.json")

	out, err := tr.run(t, "passive", "--json", "--out", outFile, "0")
	require.NoError(t, err)

	var matches []passive.Match
	require.NoError(t, json.Unmarshal([]byte(out), &matches))
	assert.Equal(t, []passive.Match{{Aux: 1, Verb: 2, Prep: 3, Agent: 4}}, matches)

	doc, err := filesystem.ReadDoc(outFile)
	require.NoError(t, err)
	assert.Len(t, doc.Tokens, 4)
	assert.Contains(t, doc.Dependencies, saf.Dependency{Parent: 2, Child: 4, Relation: "agent"})
	assert.Contains(t, doc.Dependencies, saf.Dependency{Parent: 2, Child: 6, Relation: "mod"})
}

func TestPassive_Text(t *testing.T) {
	tr := newTestRepo(t)

	out, err := tr.run(t, "passive", "--no-color", "0")
	require.NoError(t, err)
	assert.Contains(t, out, "Gisteren werd brood door Jan gegeten")
	assert.Contains(t, out, "agent Jan")

	out, err = tr.run(t, "passive", "1")
	require.NoError(t, err)
	assert.Equal(t, "no passive constructions\n", out)
}

func TestPassive_UnknownRule(t *testing.T) {
	tr := newTestRepo(t)

	_, err := tr.run(t, "--rule", "english", "passive", "0")
	assert.Error(t, err)
}

func TestSearch(t *testing.T) {
	tr := newTestRepo(t)

	out, err := tr.run(t, "search", "--json")
	require.NoError(t, err)

	var results []search.Result
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 1)
	assert.Equal(t, 0, results[0].DocId)
	assert.Equal(t, "a.json", results[0].Title)
	assert.Len(t, results[0].Matches, 1)
}

func TestStat(t *testing.T) {
	tr := newTestRepo(t)

	out, err := tr.run(t, "stat", "--json")
	require.NoError(t, err)

	var stats stat.Stats
	require.NoError(t, json.Unmarshal([]byte(out), &stats))
	assert.Equal(t, 2, stats.NumDocs)
	assert.Equal(t, 2, stats.NumSentences)
	assert.Equal(t, 8, stats.NumTokens)
	assert.Equal(t, 0, stats.MalformedSentences)

	out, err = tr.run(t, "stat", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Num docs 1, num sentences 1, num tokens 2")
}

func TestLs(t *testing.T) {
	tr := newTestRepo(t)

	out, err := tr.run(t, "ls", "--label", "news")
	require.NoError(t, err)
	assert.Equal(t, "📖 0 a.json [news,nl]\n", out)
}

func TestImportExport(t *testing.T) {
	tr := newTestRepo(t)
	db := filepath.Join(tr.dir, "saf.db")

	out, err := tr.run(t, "import", "--from", tr.docDir, "--to", db, "--label", "corpus")
	require.NoError(t, err)
	assert.Contains(t, out, "Successfully imported 2 docs")

	// same content is stored once
	_, err = tr.run(t, "import", "--from", tr.docDir, "--to", db)
	require.NoError(t, err)

	sqlite := tr
	sqlite.docDir = db
	out, err = sqlite.run(t, "ls", "--label", "corpus")
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(out, "📖"))
	assert.Contains(t, out, "a.json [news,nl,corpus]")

	exported := filepath.Join(tr.dir, "exported")
	out, err = tr.run(t, "export", "--from", db, "--to", exported)
	require.NoError(t, err)
	assert.Contains(t, out, "Successfully exported 2 docs")

	doc, err := filesystem.ReadDoc(filepath.Join(exported, "a.json"))
	require.NoError(t, err)
	assert.Len(t, doc.Tokens, 6)
}

func TestRules(t *testing.T) {
	tr := newTestRepo(t)
	ruleDir := filepath.Join(tr.dir, "rules")
	require.NoError(t, os.Mkdir(ruleDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(ruleDir, "english.yaml"), []byte(englishYAML), 0644))

	cfg := config.Default()
	cfg.RulePath = ruleDir
	require.NoError(t, cfg.Write(tr.cfgPath))

	out, err := tr.run(t, "rules", "ls")
	require.NoError(t, err)
	assert.Contains(t, out, "* dutch")
	assert.Contains(t, out, "  english")

	_, err = tr.run(t, "--rule", "english", "passive", "0")
	assert.NoError(t, err)

	db := filepath.Join(tr.dir, "rules.db")
	out, err = tr.run(t, "rules", "import", "--from", ruleDir, "--to", db)
	require.NoError(t, err)
	assert.Contains(t, out, "Successfully imported 1 rules")

	exported := filepath.Join(tr.dir, "exported")
	_, err = tr.run(t, "rules", "export", "--from", db, "--to", exported)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(exported, "english.yaml"))
}

func TestInit(t *testing.T) {
	tr := newTestRepo(t)

	out, err := tr.run(t, "--workers", "2", "init")
	require.NoError(t, err)
	assert.Contains(t, out, tr.cfgPath)

	cfg, err := config.Load(tr.cfgPath)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, tr.docDir, cfg.DocPath)
	assert.Equal(t, []string{passive.DefaultRuleName}, cfg.Rules.Names())

	_, err = tr.run(t, "init")
	assert.ErrorContains(t, err, "--force")
}

func TestVersion(t *testing.T) {
	tr := newTestRepo(t)

	out, err := tr.run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "saf version dev (commit: none)\n", out)
}

func TestBash(t *testing.T) {
	tr := newTestRepo(t)

	out, err := tr.run(t, "bash")
	require.NoError(t, err)
	assert.Contains(t, out, "complete -o default -F _saf_autocomplete saf")
}

package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/revelaction/saf/saf"
)

// Graph is what a graph drawing needs from a store: node labels come from
// the tokens, edge labels from the dependencies.
type Graph interface {
	Token(id int) (*saf.Token, error)
	Dependencies() []saf.Dependency
	EdgeTokenIds() []int
}

var _ Graph = (*saf.Store)(nil)

// Dot writes the dependency graph in the Graphviz dot language. Nodes are
// labeled "id: word" over "lemma / pos1" (pos if pos1 is empty).
func Dot(w io.Writer, g Graph) error {
	var b strings.Builder
	b.WriteString("digraph saf {\n")
	b.WriteString("\tnode [shape=box];\n")

	for _, id := range g.EdgeTokenIds() {
		t, err := g.Token(id)
		if err != nil {
			return err
		}

		pos := t.Pos1
		if pos == "" {
			pos = t.Pos
		}

		label := fmt.Sprintf("%d: %s\\n%s / %s", t.Id, t.Word, t.Lemma, pos)
		fmt.Fprintf(&b, "\tn%d [label=%s];\n", t.Id, quote(label))
	}

	for _, d := range g.Dependencies() {
		fmt.Fprintf(&b, "\tn%d -> n%d [label=%s];\n", d.Parent, d.Child, quote(d.Relation))
	}

	b.WriteString("}\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// quote makes a dot string literal. The label escape \n is kept.
func quote(s string) string {
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}

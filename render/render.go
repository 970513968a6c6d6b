package render

import (
	"cmp"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/revelaction/saf/passive"
	"github.com/revelaction/saf/saf"
)

const (
	treeIndent    = "  "
	Defaultformat = "word"
)

var (
	Black   = "\033[1;30m"
	Red     = "\033[1;31m"
	Green   = "\033[1;32m"
	Yellow  = "\033[0;33m"
	Purple  = "\033[1;34m"
	Magenta = "\033[1;35m"
	Teal    = "\033[1;36m"
	Gray    = "\033[0;37m"
	White   = "\033[1;37m"
	Off     = "\033[0m"
	//Yellow256  = "\033[1;38;5;202m"
	Yellow256 = "\033[1;38;5;130m"
	Grey256   = "\033[1;38;5;145m"
	Green256  = "\033[1;38;5;70m"
	ClearLine = "\033[K"
)

// SupportedFormats are the token fields a sentence can be rendered with.
func SupportedFormats() []string {
	return []string{"word", "lemma", "pos"}
}

type Renderer struct {
	W io.Writer

	HasColor bool

	HasPrefix bool

	// Format determines the format of the sentence
	//
	// word: the words of the sentence
	// lemma: the lemmas
	// pos: the part of speech tags
	Format string

	DocNames map[int]string
}

func NewRenderer(w io.Writer) *Renderer {
	return &Renderer{W: w, Format: Defaultformat, DocNames: map[int]string{}}
}

func (r *Renderer) AddDocName(docId int, name string) {
	r.DocNames[docId] = name
}

// Sentence writes the tokens in reading order, one line.
func (r *Renderer) Sentence(tokens []*saf.Token, prefix string) {
	fmt.Fprintf(r.W, "%s%s\n", prefix, r.SentenceString(tokens))
}

// SentenceString joins the tokens with spaces, highlighting the tokens with
// the given ids.
func (r *Renderer) SentenceString(tokens []*saf.Token, highlight ...int) string {
	words := make([]string, 0, len(tokens))
	for _, t := range tokens {
		words = append(words, r.colorToken(t, highlight))
	}

	return strings.Join(words, " ")
}

func (r *Renderer) text(t *saf.Token) string {
	switch r.Format {
	case "lemma":
		return t.Lemma
	case "pos":
		return t.Pos
	}
	return t.Word
}

func (r *Renderer) colorToken(t *saf.Token, highlight []int) string {
	text := r.text(t)
	if !r.HasColor {
		return text
	}

	if slices.Contains(highlight, t.Id) {
		return Green256 + text + Off
	}

	return text
}

// Tree writes the dependency tree of the sentence, one token per line
// indented under its parent and labeled with the relation that reaches it.
// Malformed sentences are written from each of their roots.
func (r *Renderer) Tree(s *saf.Store, sentence int) {
	visited := map[int]bool{}
	for _, root := range s.Roots(sentence) {
		r.tree(s, root, "", 0, visited)
	}
}

func (r *Renderer) tree(s *saf.Store, t *saf.Token, relation string, depth int, visited map[int]bool) {
	if visited[t.Id] {
		return
	}
	visited[t.Id] = true

	label := relation
	if r.HasColor && label != "" {
		label = Yellow256 + label + Off
	}
	if label != "" {
		label += " "
	}

	info := t.Lemma + "/" + t.Pos
	if r.HasColor {
		info = Grey256 + info + Off
	}

	fmt.Fprintf(r.W, "%s%s%s %s\n", strings.Repeat(treeIndent, depth), label, t.Word, info)

	for _, c := range s.Children(t.Id) {
		r.tree(s, c.Token, c.Relation, depth+1, visited)
	}
}

// Tokens writes a table of the tokens with their enrichment fields.
func (r *Renderer) Tokens(tokens []*saf.Token) {
	fmt.Fprintf(r.W, "%4s %3s %3s %-15s %-15s %-6s %-8s %5s %-12s %-12s %s\n",
		"id", "s", "off", "word", "lemma", "pos", "entity", "coref", "source", "clause", "codes")

	for _, t := range tokens {
		coref := ""
		if t.Coref > 0 {
			coref = strconv.Itoa(t.Coref)
		}

		fmt.Fprintf(r.W, "%4d %3d %3d %-15s %-15s %-6s %-8s %5s %-12s %-12s %s\n",
			t.Id, t.Sentence, t.Offset, t.Word, t.Lemma, t.Pos, t.Entity, coref,
			role(string(t.SourceRole), t.SourceId), role(string(t.ClauseRole), t.ClauseId),
			strings.Join(t.Codes, ","))
	}
}

func role(name string, id *int) string {
	if id == nil {
		return ""
	}
	return name + ":" + strconv.Itoa(*id)
}

// Depths writes each token of the sentence with its depth.
func (r *Renderer) Depths(s *saf.Store, sentence int) {
	depths := s.NodeDepths(sentence)
	for _, t := range s.SentenceTokens(sentence) {
		d, ok := depths[t.Id]
		depth := "-"
		if ok {
			depth = strconv.Itoa(d)
		}
		fmt.Fprintf(r.W, "%4d %-15s %s\n", t.Id, r.text(t), depth)
	}
}

// Chains writes one coreference chain per line.
func (r *Renderer) Chains(s *saf.Store, chains [][]int) error {
	for i, chain := range chains {
		words := make([]string, 0, len(chain))
		for _, id := range chain {
			t, err := s.Token(id)
			if err != nil {
				return err
			}
			words = append(words, fmt.Sprintf("%s(%d)", r.text(t), id))
		}

		fmt.Fprintf(r.W, "%3d %s\n", i+1, strings.Join(words, " "))
	}
	return nil
}

// Clauses writes the subject, predicate and source of each clause.
func (r *Renderer) Clauses(s *saf.Store, clauses []saf.Clause) error {
	for i, c := range clauses {
		subject, err := r.span(s, c.Subject)
		if err != nil {
			return err
		}
		predicate, err := r.span(s, c.Predicate)
		if err != nil {
			return err
		}

		line := fmt.Sprintf("%3d [%s] [%s]", i, subject, predicate)
		if len(c.Source) > 0 {
			source, err := r.span(s, c.Source)
			if err != nil {
				return err
			}
			line += " ← " + source
		}

		fmt.Fprintln(r.W, line)
	}
	return nil
}

// span renders the tokens with the given ids in reading order.
func (r *Renderer) span(s *saf.Store, ids []int) (string, error) {
	tokens := make([]*saf.Token, 0, len(ids))
	for _, id := range ids {
		t, err := s.Token(id)
		if err != nil {
			return "", err
		}
		tokens = append(tokens, t)
	}

	slices.SortStableFunc(tokens, func(a, b *saf.Token) int {
		return cmp.Or(cmp.Compare(a.Sentence, b.Sentence), cmp.Compare(a.Offset, b.Offset))
	})

	return r.SentenceString(tokens), nil
}

// Matches writes the sentence of each passive match, highlighting the
// tokens of the construction.
func (r *Renderer) Matches(docId int, s *saf.Store, matches []passive.Match) error {
	for _, m := range matches {
		aux, err := s.Token(m.Aux)
		if err != nil {
			return err
		}

		text := r.SentenceString(s.SentenceTokens(aux.Sentence), m.Aux, m.Verb, m.Prep, m.Agent)
		fmt.Fprintf(r.W, "%s%s\n", r.buildPrefixDoc(docId, aux.Sentence), text)
	}
	return nil
}

func (r *Renderer) buildPrefixDoc(docId, sentence int) string {
	if !r.HasPrefix {
		return ""
	}

	return fmt.Sprintf("[%s %2d %5d] ✍  ", r.title(docId), docId, sentence)
}

func (r *Renderer) title(docId int) string {
	title := r.DocNames[docId]
	l := len(title)
	var part string
	if l <= 20 {
		part = fmt.Sprintf("%-20s", title)
	} else {
		part = title[:20]
	}

	if !r.HasColor {
		return part
	}
	return Grey256 + part + Off
}

// NextFormat sets the Renderer Format option to a different one, following
// the SupportedFormats() order.
func (r *Renderer) NextFormat() {

	supported := SupportedFormats()
	for i, format := range supported {
		if format == r.Format {
			switch i {
			case len(supported) - 1:
				r.Format = supported[0]
			default:
				r.Format = supported[i+1]
			}

			break
		}
	}
}

func (r *Renderer) NextPrefix() {

	// toggle
	r.HasPrefix = !r.HasPrefix
}

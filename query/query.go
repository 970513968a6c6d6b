package query

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/c-bata/go-prompt"

	"github.com/revelaction/saf/passive"
	"github.com/revelaction/saf/render"
	"github.com/revelaction/saf/saf"
)

type command struct {
	name        string
	args        string
	description string
}

var commands = []command{
	{"tokens", "[sentence]", "tokens of the document or of a sentence"},
	{"token", "id", "one token"},
	{"children", "id", "children of a token with their relation"},
	{"parent", "id", "parent of a token"},
	{"roots", "sentence", "roots of a sentence"},
	{"root", "sentence", "the single root of a sentence"},
	{"depths", "sentence", "depth of each token of a sentence"},
	{"desc", "id [exclude...]", "descendants of a token"},
	{"corefs", "", "coreference chains"},
	{"clauses", "", "reduced clauses"},
	{"resolve", "[id...]", "tokens enriched with all layers"},
	{"passive", "", "passive constructions and their rewrite"},
	{"tree", "[sentence]", "dependency tree"},
	{"dot", "", "dependency graph in dot"},
	{"help", "", "this help"},
	{"quit", "", "leave"},
}

var errUsage = errors.New("usage")

type Handler struct {
	Store    *saf.Store
	Rewriter *passive.Rewriter
	Renderer *render.Renderer
}

func NewHandler(s *saf.Store, rw *passive.Rewriter, r *render.Renderer) *Handler {
	return &Handler{
		Store:    s,
		Rewriter: rw,
		Renderer: r,
	}
}

func (h *Handler) out() io.Writer {
	return h.Renderer.W
}

func (h *Handler) Run() error {

	fmt.Fprintln(h.out(), "🔑 Ctrl+F: next Format, help, 🔧 quit")

	// initialize prompt history
	history := []string{}

	for {

		in := prompt.Input("      🔖 ", h.completer,
			prompt.OptionTitle("saf query"),
			prompt.OptionPrefixTextColor(prompt.Yellow),
			prompt.OptionPreviewSuggestionTextColor(prompt.Blue),
			prompt.OptionSelectedSuggestionBGColor(prompt.LightGray),
			prompt.OptionMaxSuggestion(12),
			prompt.OptionSuggestionBGColor(prompt.DarkGray),
			prompt.OptionHistory(history),
			prompt.OptionAddKeyBind(prompt.KeyBind{
				Key: prompt.ControlF,
				Fn: func(buf *prompt.Buffer) {
					h.Renderer.NextFormat()
					fmt.Fprintln(h.out(), "Format set to: "+h.Renderer.Format)
				}}),
		)

		history = append(history, in)

		quit, err := h.Exec(in)
		if err != nil {
			fmt.Fprintf(h.out(), "%v\n", err)
		}

		if quit {
			return nil
		}
	}
}

// Exec runs one command line. quit is true for the quit command.
func (h *Handler) Exec(line string) (quit bool, err error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}

	name, args := fields[0], fields[1:]
	ints, err := atois(args)
	if err != nil {
		return false, err
	}

	switch name {
	case "quit", "exit":
		return true, nil
	case "help":
		h.help()
	case "tokens":
		if len(ints) == 0 {
			h.Renderer.Tokens(h.Store.Tokens())
			break
		}
		h.Renderer.Tokens(h.Store.SentenceTokens(ints[0]))
	case "token":
		if len(ints) != 1 {
			return false, h.usage(name)
		}
		t, err := h.Store.Token(ints[0])
		if err != nil {
			return false, err
		}
		h.Renderer.Tokens([]*saf.Token{t})
	case "children":
		if len(ints) != 1 {
			return false, h.usage(name)
		}
		if _, err := h.Store.Token(ints[0]); err != nil {
			return false, err
		}
		for _, c := range h.Store.Children(ints[0]) {
			fmt.Fprintf(h.out(), "%-8s %4d %s\n", c.Relation, c.Token.Id, c.Token.Word)
		}
	case "parent":
		if len(ints) != 1 {
			return false, h.usage(name)
		}
		rel, p := h.Store.Parent(ints[0])
		if p == nil {
			fmt.Fprintln(h.out(), "no parent")
			break
		}
		fmt.Fprintf(h.out(), "%-8s %4d %s\n", rel, p.Id, p.Word)
	case "roots":
		if len(ints) != 1 {
			return false, h.usage(name)
		}
		h.Renderer.Tokens(h.Store.Roots(ints[0]))
	case "root":
		if len(ints) != 1 {
			return false, h.usage(name)
		}
		root, err := h.Store.Root(ints[0])
		if err != nil {
			return false, err
		}
		h.Renderer.Tokens([]*saf.Token{root})
	case "depths":
		if len(ints) != 1 {
			return false, h.usage(name)
		}
		h.Renderer.Depths(h.Store, ints[0])
	case "desc":
		if len(ints) == 0 {
			return false, h.usage(name)
		}
		desc, err := h.Store.Descendants(ints[0], ints[1:]...)
		if err != nil {
			return false, err
		}
		h.Renderer.Tokens(slices.Collect(desc))
	case "corefs":
		return false, h.Renderer.Chains(h.Store, h.Store.CorefChains())
	case "clauses":
		clauses, ok := h.Store.ReducedClauses()
		if !ok {
			fmt.Fprintln(h.out(), "no clauses")
			break
		}
		return false, h.Renderer.Clauses(h.Store, clauses)
	case "resolve":
		tokens, err := h.Store.Resolve(ints...)
		if err != nil {
			return false, err
		}
		h.Renderer.Tokens(tokens)
	case "passive":
		return false, h.passive()
	case "tree":
		sentences := h.Store.Sentences()
		if len(ints) > 0 {
			sentences = ints[:1]
		}
		for _, s := range sentences {
			h.Renderer.Tree(h.Store, s)
		}
	case "dot":
		return false, render.Dot(h.out(), h.Store)
	default:
		return false, fmt.Errorf("unknown command %q, try help", name)
	}

	return false, nil
}

func (h *Handler) passive() error {
	matches := h.Rewriter.Matches(h.Store)
	if len(matches) == 0 {
		fmt.Fprintln(h.out(), "no passive constructions")
		return nil
	}

	if err := h.Renderer.Matches(0, h.Store, matches); err != nil {
		return err
	}

	rewritten, err := h.Rewriter.Rewrite(h.Store)
	if err != nil {
		return err
	}

	var sentences []int
	for _, m := range matches {
		t, err := h.Store.Token(m.Verb)
		if err != nil {
			return err
		}
		if !slices.Contains(sentences, t.Sentence) {
			sentences = append(sentences, t.Sentence)
		}
	}

	for _, s := range sentences {
		h.Renderer.Tree(rewritten, s)
	}
	return nil
}

func (h *Handler) help() {
	for _, c := range commands {
		fmt.Fprintf(h.out(), "%-9s %-16s %s\n", c.name, c.args, c.description)
	}
}

func (h *Handler) usage(name string) error {
	for _, c := range commands {
		if c.name == name {
			return fmt.Errorf("%w: %s %s", errUsage, c.name, c.args)
		}
	}
	return errUsage
}

func atois(args []string) ([]int, error) {
	ints := make([]int, 0, len(args))
	for _, a := range args {
		n, err := strconv.Atoi(a)
		if err != nil {
			return nil, fmt.Errorf("not a number: %q", a)
		}
		ints = append(ints, n)
	}
	return ints, nil
}

func (h *Handler) completer(in prompt.Document) []prompt.Suggest {
	return h.complete(in.TextBeforeCursor())
}

// complete suggests commands for the first word of the line and sentence
// numbers or token ids for their arguments.
func (h *Handler) complete(befCursor string) []prompt.Suggest {
	s := []prompt.Suggest{}

	if "" == befCursor {
		return s
	}

	tokens := strings.Split(befCursor, " ")
	if len(tokens) == 1 {
		for _, c := range commands {
			if strings.HasPrefix(c.name, tokens[0]) {
				s = append(s, prompt.Suggest{Text: c.name, Description: c.description})
			}
		}
		return s
	}

	last := tokens[len(tokens)-1]
	switch tokens[0] {
	case "tokens", "roots", "root", "depths", "tree":
		if len(tokens) != 2 {
			return s
		}
		for _, sentence := range h.Store.Sentences() {
			n := strconv.Itoa(sentence)
			if strings.HasPrefix(n, last) {
				s = append(s, prompt.Suggest{Text: n, Description: "sentence"})
			}
		}
	case "token", "children", "parent", "desc", "resolve":
		for _, t := range h.Store.Tokens() {
			n := strconv.Itoa(t.Id)
			if last != "" && strings.HasPrefix(n, last) {
				s = append(s, prompt.Suggest{Text: n, Description: t.Word})
			}
		}
	}

	return s
}

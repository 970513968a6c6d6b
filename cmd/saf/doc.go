package main

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/revelaction/saf/render"
	"github.com/revelaction/saf/saf"
)

const docUsage = "<doc.json | doc id>"

func sentenceFlag() cli.Flag {
	return &cli.IntFlag{Name: "sentence", Aliases: []string{"s"}, Usage: "only this sentence"}
}

// sentences returns the sentence given by the --sentence flag, or every
// sentence of the document.
func sentences(c *cli.Context, s *saf.Store) ([]int, error) {
	if !c.IsSet("sentence") {
		return s.Sentences(), nil
	}

	n := c.Int("sentence")
	if !slices.Contains(s.Sentences(), n) {
		return nil, fmt.Errorf("sentence %d not found", n)
	}
	return []int{n}, nil
}

func tokenIds(args []string) ([]int, error) {
	ids := make([]int, 0, len(args))
	for _, a := range args {
		id, err := strconv.Atoi(a)
		if err != nil {
			return nil, fmt.Errorf("invalid token id %q", a)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func tokensCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:      "tokens",
		Usage:     "list the tokens of a document in reading order",
		ArgsUsage: docUsage,
		Flags:     append(renderFlags(), sentenceFlag()),
		Action: func(c *cli.Context) error {
			s, _, err := e.store(c.Args().First())
			if err != nil {
				return err
			}

			sents, err := sentences(c, s)
			if err != nil {
				return err
			}

			var tokens []*saf.Token
			for _, n := range sents {
				tokens = append(tokens, s.SentenceTokens(n)...)
			}

			if c.Bool("json") {
				return e.jsonRenderer().Render(tokens)
			}

			r, err := e.renderer(c)
			if err != nil {
				return err
			}
			r.Tokens(tokens)
			return nil
		},
	}
}

func treeCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:      "tree",
		Usage:     "print the dependency tree of each sentence",
		ArgsUsage: docUsage,
		Flags:     append(renderFlags(), sentenceFlag()),
		Action: func(c *cli.Context) error {
			s, _, err := e.store(c.Args().First())
			if err != nil {
				return err
			}

			sents, err := sentences(c, s)
			if err != nil {
				return err
			}

			r, err := e.renderer(c)
			if err != nil {
				return err
			}
			for _, n := range sents {
				r.Tree(s, n)
			}
			return nil
		},
	}
}

type sentenceRoots struct {
	Sentence int   `json:"sentence"`
	Roots    []int `json:"roots"`
}

func rootsCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:      "roots",
		Usage:     "print the roots of each sentence",
		ArgsUsage: docUsage,
		Flags: append(renderFlags(), sentenceFlag(),
			&cli.BoolFlag{Name: "strict", Usage: "fail on sentences without exactly one root"},
		),
		Action: func(c *cli.Context) error {
			s, _, err := e.store(c.Args().First())
			if err != nil {
				return err
			}

			sents, err := sentences(c, s)
			if err != nil {
				return err
			}

			var all []sentenceRoots
			for _, n := range sents {
				if c.Bool("strict") {
					if _, err := s.Root(n); err != nil {
						return err
					}
				}

				sr := sentenceRoots{Sentence: n, Roots: []int{}}
				for _, t := range s.Roots(n) {
					sr.Roots = append(sr.Roots, t.Id)
				}
				all = append(all, sr)
			}

			if c.Bool("json") {
				return e.jsonRenderer().Render(all)
			}

			for _, sr := range all {
				fmt.Fprintf(e.ui.Out, "%4d %v\n", sr.Sentence, sr.Roots)
			}
			return nil
		},
	}
}

func depthsCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:      "depths",
		Usage:     "print the depth of each token",
		ArgsUsage: docUsage,
		Flags:     append(renderFlags(), sentenceFlag()),
		Action: func(c *cli.Context) error {
			s, _, err := e.store(c.Args().First())
			if err != nil {
				return err
			}

			sents, err := sentences(c, s)
			if err != nil {
				return err
			}

			if c.Bool("json") {
				depths := map[int]int{}
				for _, n := range sents {
					for id, d := range s.NodeDepths(n) {
						depths[id] = d
					}
				}
				return e.jsonRenderer().Render(depths)
			}

			r, err := e.renderer(c)
			if err != nil {
				return err
			}
			for _, n := range sents {
				r.Depths(s, n)
			}
			return nil
		},
	}
}

func descendantsCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:      "descendants",
		Usage:     "list a token and its descendants in pre-order",
		ArgsUsage: docUsage + " <token id>",
		Flags: append(renderFlags(),
			&cli.IntSliceFlag{Name: "exclude", Aliases: []string{"x"}, Usage: "skip these tokens and their subtrees"},
		),
		Action: func(c *cli.Context) error {
			if c.NArg() != 2 {
				return fmt.Errorf("usage: saf descendants %s <token id>", docUsage)
			}

			s, _, err := e.store(c.Args().First())
			if err != nil {
				return err
			}

			ids, err := tokenIds(c.Args().Tail())
			if err != nil {
				return err
			}

			desc, err := s.Descendants(ids[0], c.IntSlice("exclude")...)
			if err != nil {
				return err
			}
			tokens := slices.Collect(desc)

			if c.Bool("json") {
				return e.jsonRenderer().Render(tokens)
			}

			r, err := e.renderer(c)
			if err != nil {
				return err
			}
			r.Tokens(tokens)
			return nil
		},
	}
}

func resolveCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:      "resolve",
		Usage:     "list tokens enriched with the entity, coref, code, source and clause layers",
		ArgsUsage: docUsage + " [token id...]",
		Flags:     renderFlags(),
		Action: func(c *cli.Context) error {
			s, _, err := e.store(c.Args().First())
			if err != nil {
				return err
			}

			ids, err := tokenIds(c.Args().Tail())
			if err != nil {
				return err
			}

			tokens, err := s.Resolve(ids...)
			if err != nil {
				return err
			}

			if c.Bool("json") {
				return e.jsonRenderer().Render(tokens)
			}

			r, err := e.renderer(c)
			if err != nil {
				return err
			}
			r.Tokens(tokens)
			return nil
		},
	}
}

func corefsCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:      "corefs",
		Usage:     "print the merged coreference chains",
		ArgsUsage: docUsage,
		Flags:     renderFlags(),
		Action: func(c *cli.Context) error {
			s, _, err := e.store(c.Args().First())
			if err != nil {
				return err
			}

			chains := s.CorefChains()
			if c.Bool("json") {
				return e.jsonRenderer().Render(chains)
			}

			r, err := e.renderer(c)
			if err != nil {
				return err
			}
			return r.Chains(s, chains)
		},
	}
}

func clausesCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:      "clauses",
		Usage:     "print the clauses that are not nested in another clause",
		ArgsUsage: docUsage,
		Flags:     renderFlags(),
		Action: func(c *cli.Context) error {
			s, _, err := e.store(c.Args().First())
			if err != nil {
				return err
			}

			clauses, ok := s.ReducedClauses()
			if !ok {
				return fmt.Errorf("document has no clauses")
			}

			if c.Bool("json") {
				return e.jsonRenderer().Render(clauses)
			}

			r, err := e.renderer(c)
			if err != nil {
				return err
			}
			return r.Clauses(s, clauses)
		},
	}
}

func dotCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:      "dot",
		Usage:     "write the dependency graph in Graphviz dot format",
		ArgsUsage: docUsage,
		Action: func(c *cli.Context) error {
			s, _, err := e.store(c.Args().First())
			if err != nil {
				return err
			}
			return render.Dot(e.ui.Out, s)
		},
	}
}

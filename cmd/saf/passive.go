package main

import (
	"fmt"
	"slices"

	"github.com/urfave/cli/v2"

	"github.com/revelaction/saf/passive"
	"github.com/revelaction/saf/saf"
	"github.com/revelaction/saf/storage/filesystem"
)

func passiveCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:      "passive",
		Usage:     "find passive constructions and rewrite them to active voice",
		ArgsUsage: docUsage,
		Flags: append(renderFlags(),
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "write the rewritten document to this json file"},
		),
		Action: func(c *cli.Context) error {
			s, title, err := e.store(c.Args().First())
			if err != nil {
				return err
			}

			rule, err := e.rule()
			if err != nil {
				return err
			}

			rw := passive.NewRewriter(rule)
			matches := rw.Matches(s)
			e.log.Debug().Str("doc", title).Str("rule", rule.Name).Int("matches", len(matches)).Msg("passive matched")

			rewritten, err := rw.Rewrite(s)
			if err != nil {
				return err
			}

			if out := c.String("out"); out != "" {
				if err := filesystem.WriteDoc(out, rewritten.Document()); err != nil {
					return fmt.Errorf("failed to write %s: %w", out, err)
				}
			}

			if c.Bool("json") {
				return e.jsonRenderer().Render(matches)
			}

			if len(matches) == 0 {
				_, _ = fmt.Fprintln(e.ui.Out, "no passive constructions")
				return nil
			}

			r, err := e.renderer(c)
			if err != nil {
				return err
			}
			r.AddDocName(0, title)
			if err := r.Matches(0, s, matches); err != nil {
				return err
			}

			for _, n := range matchSentences(s, matches) {
				r.Tree(rewritten, n)
			}
			return nil
		},
	}
}

// matchSentences returns the sentences of the matches, in match order.
func matchSentences(s *saf.Store, matches []passive.Match) []int {
	var sents []int
	for _, m := range matches {
		t, err := s.Token(m.Verb)
		if err != nil {
			continue
		}
		if !slices.Contains(sents, t.Sentence) {
			sents = append(sents, t.Sentence)
		}
	}
	return sents
}

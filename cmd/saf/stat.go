package main

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/revelaction/saf/saf"
	"github.com/revelaction/saf/stat"
)

func statCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:      "stat",
		Usage:     "print statistics of one document or of the whole repository",
		ArgsUsage: "[" + docUsage + "]",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "json", Usage: "json output"},
			&cli.BoolFlag{Name: "dis", Usage: "print the sentence length distribution"},
		},
		Action: func(c *cli.Context) error {
			hdl := stat.NewHandler()

			if c.NArg() > 0 {
				s, _, err := e.store(c.Args().First())
				if err != nil {
					return err
				}
				hdl.Aggregate(s)
			} else if err := e.aggregateAll(hdl); err != nil {
				return err
			}

			stats := hdl.Get()
			if c.Bool("json") {
				return e.jsonRenderer().Render(stats)
			}

			fmt.Fprintf(e.ui.Out, "Num docs %d, num sentences %d, num tokens %d, num dependencies %d\n",
				stats.NumDocs, stats.NumSentences, stats.NumTokens, stats.NumDependencies)
			fmt.Fprintf(e.ui.Out, "Num tokens per sentence %d, max depth %d, malformed sentences %d\n",
				stats.TokensPerSentenceMean, stats.MaxDepth, stats.MalformedSentences)

			layers := make([]string, 0, len(stats.Layers))
			for _, l := range []string{"entities", "coreferences", "codes", "sources", "clauses"} {
				if n, ok := stats.Layers[l]; ok {
					layers = append(layers, fmt.Sprintf("%s %d", l, n))
				}
			}
			if len(layers) > 0 {
				fmt.Fprintf(e.ui.Out, "Layers: %s\n", strings.Join(layers, ", "))
			}

			if c.Bool("dis") {
				for _, l := range stats.Distribution() {
					fmt.Fprintf(e.ui.Out, "%4d %d\n", l, stats.TokensPerSentenceDis[l])
				}
			}
			return nil
		},
	}
}

func (e *env) aggregateAll(hdl *stat.Handler) error {
	repo, err := e.docRepository()
	if err != nil {
		return err
	}
	if err := e.preload(repo); err != nil {
		return err
	}

	docs, err := repo.List("")
	if err != nil {
		return err
	}

	for _, meta := range docs {
		doc, err := repo.Read(meta.Id)
		if err != nil {
			return err
		}
		s, err := saf.NewStore(doc.Document)
		if err != nil {
			return fmt.Errorf("doc %d (%s): %w", doc.Id, doc.Title, err)
		}
		hdl.Aggregate(s)
	}
	return nil
}

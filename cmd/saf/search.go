package main

import (
	"github.com/urfave/cli/v2"

	"github.com/revelaction/saf/logger"
	"github.com/revelaction/saf/search"
)

func searchCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:  "search",
		Usage: "find passive constructions in the documents of the repository",
		Flags: append(renderFlags(),
			&cli.IntFlag{Name: "doc", Usage: "only this doc id"},
			&cli.BoolFlag{Name: "no-prefix", Usage: "do not prefix matches with the doc"},
		),
		Action: func(c *cli.Context) error {
			repo, err := e.docRepository()
			if err != nil {
				return err
			}

			if err := e.preload(repo); err != nil {
				return err
			}

			rule, err := e.rule()
			if err != nil {
				return err
			}

			srch := search.New(rule, repo).
				WithWorkers(e.cfg.Workers).
				WithLogger(logger.Component(e.log, "search"))
			if c.IsSet("doc") {
				srch = srch.WithDocID(c.Int("doc"))
			}

			if c.Bool("json") {
				var results []search.Result
				err := srch.Run(c.Context, func(res search.Result) error {
					results = append(results, res)
					return nil
				})
				if err != nil {
					return err
				}
				return e.jsonRenderer().Render(results)
			}

			r, err := e.renderer(c)
			if err != nil {
				return err
			}

			return srch.Run(c.Context, func(res search.Result) error {
				r.AddDocName(res.DocId, res.Title)
				return r.Matches(res.DocId, res.Store, res.Matches)
			})
		},
	}
}

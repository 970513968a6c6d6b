package main

import (
	"github.com/urfave/cli/v2"

	"github.com/revelaction/saf/passive"
	"github.com/revelaction/saf/query"
)

// Query command
func queryCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:      "query",
		Usage:     "explore a document in an interactive prompt",
		ArgsUsage: docUsage,
		Flags:     renderFlags(),
		Action: func(c *cli.Context) error {
			s, title, err := e.store(c.Args().First())
			if err != nil {
				return err
			}

			rule, err := e.rule()
			if err != nil {
				return err
			}

			r, err := e.renderer(c)
			if err != nil {
				return err
			}
			r.AddDocName(0, title)

			// now present the REPL
			h := query.NewHandler(s, passive.NewRewriter(rule), r)
			return h.Run()
		},
	}
}

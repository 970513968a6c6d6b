package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/revelaction/saf/logger"
	"github.com/revelaction/saf/storage/filesystem"
	"github.com/revelaction/saf/storage/sqlite/zombiezen"
)

func exportDocCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "export the documents of a SQLite file as json files",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "from", Usage: "SQLite file", Required: true},
			&cli.StringFlag{Name: "to", Usage: "directory of json documents", Required: true},
			&cli.StringFlag{Name: "label", Aliases: []string{"l"}, Usage: "only documents with a label containing this string"},
		},
		Action: func(c *cli.Context) error {
			from, to := c.String("from"), c.String("to")

			if _, err := os.Stat(from); err != nil {
				return fmt.Errorf("repository not found: %s", from)
			}
			pool, err := e.pool.Open(from)
			if err != nil {
				return err
			}
			src := zombiezen.NewDocStore(pool, logger.Component(e.log, "storage"))

			if err := os.MkdirAll(to, 0755); err != nil {
				return err
			}
			dst, err := filesystem.NewDocStore(to)
			if err != nil {
				return err
			}

			docs, err := src.List(c.String("label"))
			if err != nil {
				return err
			}

			count, err := e.copyDocs(src, dst, docs, nil)
			if err != nil {
				return err
			}

			fmt.Fprintf(e.ui.Out, "Successfully exported %d docs from %s to %s\n", count, from, to)
			return nil
		},
	}
}

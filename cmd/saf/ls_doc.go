package main

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"
)

func lsDocCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:  "ls",
		Usage: "list the documents of the repository",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "label", Aliases: []string{"l"}, Usage: "only documents with a label containing this string"},
		},
		Action: func(c *cli.Context) error {
			repo, err := e.docRepository()
			if err != nil {
				return err
			}

			docs, err := repo.List(c.String("label"))
			if err != nil {
				return err
			}

			for _, doc := range docs {
				line := fmt.Sprintf("📖 %d %s", doc.Id, doc.Title)
				if len(doc.Labels) > 0 {
					line += " [" + strings.Join(doc.Labels, ",") + "]"
				}
				fmt.Fprintln(e.ui.Out, line)
			}

			return nil
		},
	}
}

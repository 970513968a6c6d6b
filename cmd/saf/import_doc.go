package main

import (
	"fmt"
	"slices"

	"github.com/gosuri/uiprogress"
	"github.com/urfave/cli/v2"

	"github.com/revelaction/saf/logger"
	"github.com/revelaction/saf/storage"
	"github.com/revelaction/saf/storage/filesystem"
	"github.com/revelaction/saf/storage/sqlite/zombiezen"
)

func importDocCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:  "import",
		Usage: "import the json documents of a directory into a SQLite file",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "from", Usage: "directory of json documents", Required: true},
			&cli.StringFlag{Name: "to", Usage: "SQLite file", Required: true},
			&cli.StringSliceFlag{Name: "label", Aliases: []string{"l"}, Usage: "add this label to every document"},
		},
		Action: func(c *cli.Context) error {
			from, to := c.String("from"), c.String("to")

			src, err := filesystem.NewDocStore(from)
			if err != nil {
				return err
			}

			pool, err := e.pool.Open(to)
			if err != nil {
				return err
			}
			dst := zombiezen.NewDocStore(pool, logger.Component(e.log, "storage"))

			fmt.Fprintf(e.ui.Out, "Reading docs from %s...\n", from)
			docs, err := src.List("")
			if err != nil {
				return err
			}

			count, err := e.copyDocs(src, dst, docs, c.StringSlice("label"))
			if err != nil {
				return err
			}

			fmt.Fprintf(e.ui.Out, "Successfully imported %d docs from %s to %s\n", count, from, to)
			return nil
		},
	}
}

// copyDocs writes the listed docs of src to dst, adding labels to each.
func (e *env) copyDocs(src storage.DocReader, dst storage.DocWriter, docs []storage.Doc, labels []string) (int, error) {
	var bar *uiprogress.Bar
	if p := e.newProgress(); p != nil {
		p.Start()
		defer p.Stop()
		bar = p.AddBar(len(docs))
		bar.AppendCompleted()
		bar.PrependElapsed()
	}

	count := 0
	for _, meta := range docs {
		doc, err := src.Read(meta.Id)
		if err != nil {
			return count, fmt.Errorf("failed to read doc %s: %w", meta.Title, err)
		}

		for _, l := range labels {
			if !slices.Contains(doc.Labels, l) {
				doc.Labels = append(doc.Labels, l)
			}
		}

		if err := dst.Write(doc); err != nil {
			return count, fmt.Errorf("failed to write doc %s: %w", meta.Title, err)
		}
		count++
		if bar != nil {
			bar.Incr()
		}
	}
	return count, nil
}

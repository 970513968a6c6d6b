package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/revelaction/saf/passive"
	"github.com/revelaction/saf/storage/filesystem"
	"github.com/revelaction/saf/storage/sqlite/zombiezen"
)

func rulesCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:  "rules",
		Usage: "list and move passive rules",
		Subcommands: []*cli.Command{
			{
				Name:  "ls",
				Usage: "list the configured and stored rules",
				Flags: []cli.Flag{&cli.BoolFlag{Name: "json", Usage: "json output"}},
				Action: func(c *cli.Context) error {
					lib, err := e.library()
					if err != nil {
						return err
					}

					if c.Bool("json") {
						return e.jsonRenderer().Render(lib)
					}

					for _, r := range lib {
						mark := " "
						if r.Name == e.cfg.Rule {
							mark = "*"
						}
						fmt.Fprintf(e.ui.Out, "%s %-10s aux %s, %s %s\n", mark, r.Name,
							strings.Join(r.Auxiliaries, ","), r.Modifier, r.Preposition)
					}
					return nil
				},
			},
			{
				Name:  "import",
				Usage: "import the yaml rules of a directory into a SQLite file",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "from", Usage: "directory of <name>.yaml rules", Required: true},
					&cli.StringFlag{Name: "to", Usage: "SQLite file", Required: true},
				},
				Action: func(c *cli.Context) error {
					from, to := c.String("from"), c.String("to")

					pool, err := e.pool.Open(to)
					if err != nil {
						return err
					}

					n, err := copyRules(filesystem.NewRuleStore(from), zombiezen.NewRuleStore(pool))
					if err != nil {
						return err
					}

					fmt.Fprintf(e.ui.Out, "Successfully imported %d rules from %s to %s\n", n, from, to)
					return nil
				},
			},
			{
				Name:  "export",
				Usage: "export the rules of a SQLite file as yaml files",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "from", Usage: "SQLite file", Required: true},
					&cli.StringFlag{Name: "to", Usage: "directory of <name>.yaml rules", Required: true},
				},
				Action: func(c *cli.Context) error {
					from, to := c.String("from"), c.String("to")

					src, err := NewRuleRepository(e.pool, from)
					if err != nil {
						return err
					}
					if err := os.MkdirAll(to, 0755); err != nil {
						return err
					}

					n, err := copyRules(src, filesystem.NewRuleStore(to))
					if err != nil {
						return err
					}

					fmt.Fprintf(e.ui.Out, "Successfully exported %d rules from %s to %s\n", n, from, to)
					return nil
				},
			},
		},
	}
}

func copyRules(src passive.RuleReader, dst passive.RuleWriter) (int, error) {
	rules, err := src.ReadAll()
	if err != nil {
		return 0, err
	}

	for _, r := range rules {
		if err := dst.Write(r); err != nil {
			return 0, fmt.Errorf("failed to copy rule %s: %w", r.Name, err)
		}
	}
	return len(rules), nil
}

package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/revelaction/saf/passive"
)

func initCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "write a config file with the current settings",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "force", Usage: "replace an existing file"},
		},
		Action: func(c *cli.Context) error {
			path := e.configPath
			if _, err := os.Stat(path); err == nil && !c.Bool("force") {
				return fmt.Errorf("config file %s exists, use --force to replace it", path)
			} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return err
			}

			cfg := e.cfg
			if len(cfg.Rules) == 0 {
				cfg.Rules = passive.Library{passive.DefaultRule()}
			}

			if err := cfg.Write(path); err != nil {
				return err
			}
			fmt.Fprintf(e.ui.Out, "Config written to %s\n", path)
			return nil
		},
	}
}

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"
)

// UI contains the output streams for the application.
// Used for injecting buffers during testing.
type UI struct {
	Out io.Writer
	Err io.Writer
}

func main() {
	ui := UI{Out: os.Stdout, Err: os.Stderr}

	if err := newApp(ui).Run(os.Args); err != nil {
		fprintErr(ui.Err, err)
		os.Exit(1)
	}
}

func fprintErr(w io.Writer, err error) {
	_, _ = fmt.Fprintf(w, "saf: %v\n", err)
}

func newApp(ui UI) *cli.App {
	e := &env{ui: ui, pool: &Pool{}}

	return &cli.App{
		Name:                 "saf",
		Usage:                "query and rewrite SAF annotation graphs",
		HideVersion:          true,
		EnableBashCompletion: true,
		Writer:               ui.Out,
		ErrWriter:            ui.Err,
		// errors are printed by main
		ExitErrHandler: func(*cli.Context, error) {},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "config file (default $HOME/.saf/saf.yaml)",
				EnvVars: []string{"SAF_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "doc-path",
				Aliases: []string{"d"},
				Usage:   "directory of json documents or SQLite file",
				EnvVars: []string{"SAF_DOC_PATH"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "debug, info, warn, error or disabled",
				EnvVars: []string{"SAF_LOG_LEVEL"},
			},
			&cli.IntFlag{
				Name:    "workers",
				Usage:   "documents processed concurrently",
				EnvVars: []string{"SAF_WORKERS"},
			},
			&cli.StringFlag{
				Name:    "rule",
				Aliases: []string{"r"},
				Usage:   "name of the passive rule",
				EnvVars: []string{"SAF_RULE"},
			},
		},
		Before: e.setup,
		After: func(*cli.Context) error {
			return e.pool.Close()
		},
		Commands: []*cli.Command{
			tokensCommand(e),
			treeCommand(e),
			rootsCommand(e),
			depthsCommand(e),
			descendantsCommand(e),
			resolveCommand(e),
			corefsCommand(e),
			clausesCommand(e),
			dotCommand(e),
			passiveCommand(e),
			searchCommand(e),
			queryCommand(e),
			statCommand(e),
			lsDocCommand(e),
			importDocCommand(e),
			exportDocCommand(e),
			rulesCommand(e),
			initCommand(e),
			versionCommand(e),
			bashCommand(e),
		},
	}
}

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"github.com/revelaction/saf/config"
	"github.com/revelaction/saf/logger"
	"github.com/revelaction/saf/passive"
	"github.com/revelaction/saf/render"
	"github.com/revelaction/saf/saf"
	"github.com/revelaction/saf/storage"
	"github.com/revelaction/saf/storage/filesystem"
)

// env is the state shared by the commands of one run.
type env struct {
	ui         UI
	cfg        config.Config
	configPath string
	log        zerolog.Logger
	pool       *Pool
}

// setup loads the config file and applies the global flags over it.
func (e *env) setup(c *cli.Context) error {
	path := c.String("config")
	if path == "" {
		p, err := config.Path()
		if err != nil {
			return err
		}
		path = p
	}
	e.configPath = path

	cfg, err := config.Load(path)
	if err != nil {
		return err
	}

	if c.IsSet("doc-path") {
		cfg.DocPath = c.String("doc-path")
	}
	if c.IsSet("log-level") {
		cfg.Log.Level = c.String("log-level")
	}
	if c.IsSet("workers") {
		cfg.Workers = c.Int("workers")
	}
	if c.IsSet("rule") {
		cfg.Rule = c.String("rule")
	}

	if err := cfg.Validate(); err != nil {
		return err
	}
	e.cfg = cfg

	lc := logger.Config{Level: cfg.Log.Level, Output: e.ui.Err}
	if f, ok := e.ui.Err.(*os.File); ok {
		lc.Pretty = logger.IsTerminal(f)
	}
	if cfg.Log.Pretty != nil {
		lc.Pretty = *cfg.Log.Pretty
	}
	e.log = logger.New(lc)

	return nil
}

func (e *env) docRepository() (storage.DocRepository, error) {
	return NewDocRepository(e.pool, e.cfg.DocPath, logger.Component(e.log, "storage"))
}

// library returns the configured rules and those of the rule repository.
// Configured rules win over stored rules with the same name.
func (e *env) library() (passive.Library, error) {
	lib := e.cfg.Library()
	if e.cfg.RulePath == "" {
		return lib, nil
	}

	repo, err := NewRuleRepository(e.pool, e.cfg.RulePath)
	if err != nil {
		return nil, err
	}
	stored, err := repo.ReadAll()
	if err != nil {
		return nil, err
	}

	for _, r := range stored {
		if _, err := lib.Rule(r.Name); err != nil {
			lib = append(lib, r)
		}
	}
	return lib, nil
}

func (e *env) rule() (passive.Rule, error) {
	lib, err := e.library()
	if err != nil {
		return passive.Rule{}, err
	}
	return lib.Rule(e.cfg.Rule)
}

// store indexes the document named by arg: a path to a json file, or the id
// of a document in the repository.
func (e *env) store(arg string) (*saf.Store, string, error) {
	if arg == "" {
		return nil, "", fmt.Errorf("missing document, give a json file or a doc id")
	}

	if filepath.Ext(arg) == ".json" {
		doc, err := filesystem.ReadDoc(arg)
		if err != nil {
			absPath, _ := filepath.Abs(arg)
			return nil, "", fmt.Errorf("filesystem document %q: %w", absPath, err)
		}
		s, err := saf.NewStore(doc)
		if err != nil {
			return nil, "", fmt.Errorf("document %s: %w", arg, err)
		}
		return s, filepath.Base(arg), nil
	}

	id, err := strconv.Atoi(arg)
	if err != nil {
		return nil, "", fmt.Errorf("invalid doc id %q", arg)
	}

	repo, err := e.docRepository()
	if err != nil {
		return nil, "", err
	}
	doc, err := repo.Read(id)
	if err != nil {
		return nil, "", err
	}

	s, err := saf.NewStore(doc.Document)
	if err != nil {
		return nil, "", fmt.Errorf("doc %d (%s): %w", id, doc.Title, err)
	}
	return s, doc.Title, nil
}

func (e *env) renderer(c *cli.Context) (*render.Renderer, error) {
	r := render.NewRenderer(e.ui.Out)
	r.HasColor = !c.Bool("no-color")
	r.HasPrefix = !c.Bool("no-prefix")
	if f := c.String("format"); f != "" {
		if !slices.Contains(render.SupportedFormats(), f) {
			return nil, fmt.Errorf("unsupported format %q", f)
		}
		r.Format = f
	}
	return r, nil
}

func (e *env) jsonRenderer() *render.JSONRenderer {
	r := render.NewJSONRenderer(e.ui.Out)
	r.Indent = true
	return r
}

// renderFlags are the flags of the commands writing tokens.
func renderFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "token field to show: word, lemma or pos",
			Value:   render.Defaultformat,
		},
		&cli.BoolFlag{Name: "no-color", Usage: "plain output"},
		&cli.BoolFlag{Name: "json", Usage: "json output"},
	}
}

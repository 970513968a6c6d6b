package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/revelaction/saf/passive"
	"github.com/revelaction/saf/storage"
	"github.com/revelaction/saf/storage/filesystem"
	"github.com/revelaction/saf/storage/sqlite/zombiezen"
)

// NewRuleRepository returns the rules of a directory of yaml files or of a
// SQLite file.
func NewRuleRepository(p *Pool, path string) (passive.RuleRepository, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("repository not found: %s", path)
	}

	if info.IsDir() {
		return filesystem.NewRuleStore(path), nil
	}

	pool, err := p.Open(path)
	if err != nil {
		return nil, err
	}
	return zombiezen.NewRuleStore(pool), nil
}

// NewDocRepository returns the documents of a directory of json files or of
// a SQLite file.
func NewDocRepository(p *Pool, path string, log zerolog.Logger) (storage.DocRepository, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("repository not found: %s", path)
	}

	if info.IsDir() {
		return filesystem.NewDocStore(path)
	}

	pool, err := p.Open(path)
	if err != nil {
		return nil, err
	}
	return zombiezen.NewDocStore(pool, log), nil
}

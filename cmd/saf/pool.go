package main

import (
	"errors"

	"github.com/revelaction/saf/storage/sqlite/zombiezen"
	"zombiezen.com/go/sqlite/sqlitex"
)

// Pool opens each SQLite file of a run once, so that the doc and the rule
// repositories can share it.
type Pool struct {
	pools map[string]*sqlitex.Pool
}

func (p *Pool) Open(path string) (*sqlitex.Pool, error) {
	if pool, ok := p.pools[path]; ok {
		return pool, nil
	}

	pool, err := zombiezen.NewPool(path)
	if err != nil {
		return nil, err
	}

	if p.pools == nil {
		p.pools = map[string]*sqlitex.Pool{}
	}
	p.pools[path] = pool
	return pool, nil
}

func (p *Pool) Close() error {
	var errs []error
	for path, pool := range p.pools {
		errs = append(errs, pool.Close())
		delete(p.pools, path)
	}
	return errors.Join(errs...)
}

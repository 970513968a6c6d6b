package zombiezen

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"runtime"

	"zombiezen.com/go/sqlite/sqlitex"
)

//go:embed sql/*.sql
var sqlFiles embed.FS

// NewPool opens (or creates) the SQLite file at dbPath, one connection per
// CPU, and creates the saf tables.
func NewPool(dbPath string) (*sqlitex.Pool, error) {
	// default flags open read-write, create and WAL
	pool, err := sqlitex.NewPool("file:"+dbPath, sqlitex.PoolOptions{
		PoolSize: runtime.NumCPU(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite file %s: %w", dbPath, err)
	}

	if err := CreateSchemas(pool); err != nil {
		pool.Close()
		return nil, err
	}

	return pool, nil
}

// CreateSchemas runs the embedded sql/*.sql scripts in name order, in one
// transaction. The scripts only create what is missing.
func CreateSchemas(pool *sqlitex.Pool) (err error) {
	names, err := fs.Glob(sqlFiles, "sql/*.sql")
	if err != nil {
		return err
	}

	conn, err := pool.Take(context.TODO())
	if err != nil {
		return err
	}
	defer pool.Put(conn)

	defer sqlitex.Save(conn)(&err)

	for _, name := range names {
		script, err := sqlFiles.ReadFile(name)
		if err != nil {
			return fmt.Errorf("failed to read embedded sql file %s: %w", name, err)
		}

		if err := sqlitex.ExecuteScript(conn, string(script), nil); err != nil {
			return fmt.Errorf("failed to execute script %s: %w", path.Base(name), err)
		}
	}

	return nil
}

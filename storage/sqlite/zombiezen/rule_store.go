package zombiezen

import (
	"context"
	"encoding/json"
	"fmt"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/revelaction/saf/passive"
)

// RuleStore keeps passive rules as json in the rules table.
type RuleStore struct {
	pool *sqlitex.Pool
}

var _ passive.RuleRepository = (*RuleStore)(nil)

func NewRuleStore(pool *sqlitex.Pool) *RuleStore {
	return &RuleStore{pool: pool}
}

func (h *RuleStore) ReadAll() (passive.Library, error) {
	conn, err := h.pool.Take(context.TODO())
	if err != nil {
		return nil, err
	}
	defer h.pool.Put(conn)

	rules := passive.Library{}
	err = sqlitex.Execute(conn, "SELECT data FROM rules ORDER BY name", &sqlitex.ExecOptions{
		ResultFunc: func(stmt *sqlite.Stmt) error {
			var r passive.Rule
			if err := json.Unmarshal([]byte(stmt.ColumnText(0)), &r); err != nil {
				return err
			}

			rules = append(rules, r)
			return nil
		},
	})

	if err != nil {
		return nil, err
	}

	return rules, nil
}

func (h *RuleStore) Read(name string) (passive.Rule, error) {
	conn, err := h.pool.Take(context.TODO())
	if err != nil {
		return passive.Rule{}, err
	}
	defer h.pool.Put(conn)

	var r passive.Rule
	found := false
	err = sqlitex.Execute(conn, "SELECT data FROM rules WHERE name = ? LIMIT 1", &sqlitex.ExecOptions{
		Args: []interface{}{name},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			if err := json.Unmarshal([]byte(stmt.ColumnText(0)), &r); err != nil {
				return err
			}

			found = true
			return nil
		},
	})

	if err != nil {
		return passive.Rule{}, err
	}

	if !found {
		return passive.Rule{}, fmt.Errorf("rule not found: %s", name)
	}

	return r, nil
}

func (h *RuleStore) Write(r passive.Rule) error {
	if err := r.Validate(); err != nil {
		return err
	}

	conn, err := h.pool.Take(context.TODO())
	if err != nil {
		return err
	}
	defer h.pool.Put(conn)

	data, err := json.Marshal(r)
	if err != nil {
		return err
	}

	err = sqlitex.Execute(conn, `
		INSERT INTO rules (name, data, updated)
		VALUES (?, ?, strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
		ON CONFLICT(name) DO UPDATE SET
			data = excluded.data,
			updated = excluded.updated
	`, &sqlitex.ExecOptions{
		Args: []interface{}{r.Name, string(data)},
	})

	return err
}

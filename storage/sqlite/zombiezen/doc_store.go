package zombiezen

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/zeebo/blake3"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/revelaction/saf/saf"
	"github.com/revelaction/saf/storage"
)

// DocStore keeps SAF documents as json in the docs table. Each document is
// identified by the blake3 hash of its content: writing the same content
// twice stores it once.
type DocStore struct {
	pool *sqlitex.Pool
	log  zerolog.Logger
}

var _ storage.DocRepository = (*DocStore)(nil)

func NewDocStore(pool *sqlitex.Pool, log zerolog.Logger) *DocStore {
	return &DocStore{pool: pool, log: log}
}

func (h *DocStore) List(labelMatch string) ([]storage.Doc, error) {
	conn, err := h.pool.Take(context.TODO())
	if err != nil {
		return nil, err
	}
	defer h.pool.Put(conn)

	var docs []storage.Doc
	err = sqlitex.Execute(conn, "SELECT id, title, labels, hash FROM docs ORDER BY id", &sqlitex.ExecOptions{
		ResultFunc: func(stmt *sqlite.Stmt) error {
			doc := storage.Doc{
				Id:     stmt.ColumnInt(0),
				Title:  stmt.ColumnText(1),
				Labels: splitLabels(stmt.ColumnText(2)),
				Hash:   stmt.ColumnText(3),
			}
			if storage.MatchLabel(doc.Labels, labelMatch) {
				docs = append(docs, doc)
			}
			return nil
		},
	})
	if err != nil {
		return nil, err
	}
	return docs, nil
}

func (h *DocStore) Read(id int) (storage.Doc, error) {
	conn, err := h.pool.Take(context.TODO())
	if err != nil {
		return storage.Doc{}, err
	}
	defer h.pool.Put(conn)

	doc := storage.Doc{Id: id}
	found := false

	err = sqlitex.Execute(conn, "SELECT title, labels, hash, data FROM docs WHERE id = ?", &sqlitex.ExecOptions{
		Args: []interface{}{id},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			found = true
			doc.Title = stmt.ColumnText(0)
			doc.Labels = splitLabels(stmt.ColumnText(1))
			doc.Hash = stmt.ColumnText(2)

			var d saf.Document
			if err := json.Unmarshal([]byte(stmt.ColumnText(3)), &d); err != nil {
				return fmt.Errorf("doc %d: JSON decoding error: %w", id, err)
			}
			doc.Document = &d
			return nil
		},
	})
	if err != nil {
		return storage.Doc{}, err
	}
	if !found {
		return storage.Doc{}, fmt.Errorf("doc not found: %d", id)
	}

	return doc, nil
}

// FindCandidates intersects, for each lemma set, the documents holding any of
// its lemmas.
func (h *DocStore) FindCandidates(lemmaSets [][]string) ([]int, error) {
	conn, err := h.pool.Take(context.TODO())
	if err != nil {
		return nil, err
	}
	defer h.pool.Put(conn)

	var queryBuilder strings.Builder
	var args []interface{}

	if len(lemmaSets) == 0 {
		queryBuilder.WriteString("SELECT id FROM docs")
	}

	for i, lemmas := range lemmaSets {
		if i > 0 {
			queryBuilder.WriteString(" INTERSECT ")
		}

		if len(lemmas) == 0 {
			// an empty set can not be satisfied
			return nil, nil
		}

		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(lemmas)), ",")
		queryBuilder.WriteString("SELECT doc_id FROM doc_lemmas WHERE lemma IN (" + placeholders + ")")
		for _, l := range lemmas {
			args = append(args, l)
		}
	}
	queryBuilder.WriteString(" ORDER BY 1")

	var ids []int
	err = sqlitex.Execute(conn, queryBuilder.String(), &sqlitex.ExecOptions{
		Args: args,
		ResultFunc: func(stmt *sqlite.Stmt) error {
			ids = append(ids, stmt.ColumnInt(0))
			return nil
		},
	})
	if err != nil {
		return nil, err
	}

	return ids, nil
}

// Write stores the document and its lemmas. A document whose content is
// already stored is skipped.
func (h *DocStore) Write(doc storage.Doc) (err error) {
	if doc.Document == nil {
		return fmt.Errorf("doc %q has no content", doc.Title)
	}

	data, err := json.Marshal(doc.Document)
	if err != nil {
		return err
	}

	sum := blake3.Sum256(data)
	hash := hex.EncodeToString(sum[:])

	conn, err := h.pool.Take(context.TODO())
	if err != nil {
		return err
	}
	defer h.pool.Put(conn)

	// Start Transaction
	defer sqlitex.Save(conn)(&err)

	labels := strings.Join(doc.Labels, ",")
	err = sqlitex.Execute(conn, "INSERT OR IGNORE INTO docs (title, labels, hash, data) VALUES (?, ?, ?, ?)", &sqlitex.ExecOptions{
		Args: []interface{}{doc.Title, labels, hash, string(data)},
	})
	if err != nil {
		return fmt.Errorf("failed to insert doc: %w", err)
	}

	if conn.Changes() == 0 {
		h.log.Debug().Str("title", doc.Title).Str("hash", hash).Msg("duplicate doc skipped")
		return nil
	}
	docID := conn.LastInsertRowID()

	for _, lemma := range storage.Lemmas(doc.Document) {
		err = sqlitex.Execute(conn, "INSERT INTO doc_lemmas (lemma, doc_id) VALUES (?, ?)", &sqlitex.ExecOptions{
			Args: []interface{}{lemma, docID},
		})
		if err != nil {
			return fmt.Errorf("failed to insert lemma: %w", err)
		}
	}

	h.log.Debug().Str("title", doc.Title).Int64("id", docID).Msg("doc stored")
	return nil
}

func splitLabels(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

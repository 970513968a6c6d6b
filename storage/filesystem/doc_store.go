package filesystem

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/revelaction/saf/saf"
	"github.com/revelaction/saf/storage"
)

// DocStore is a directory of SAF json documents. Document ids are the
// positions of the files in the sorted directory listing.
type DocStore struct {
	docDir string

	// In-memory cache
	docs   []storage.Doc
	loaded bool
}

var _ storage.DocRepository = (*DocStore)(nil)
var _ storage.Preloader = (*DocStore)(nil)

// NewDocStore creates a filesystem document handler.
func NewDocStore(docDir string) (*DocStore, error) {
	files, err := os.ReadDir(docDir)
	if err != nil {
		return nil, err
	}

	docs := make([]storage.Doc, 0, len(files))

	idx := 0
	for _, file := range files {
		if file.IsDir() || filepath.Ext(file.Name()) != ".json" {
			continue
		}

		docs = append(docs, storage.Doc{
			Id:    idx,
			Title: file.Name(),
		})
		idx++
	}

	return &DocStore{
		docDir: docDir,
		docs:   docs,
	}, nil
}

// Preload reads all docs into memory.
// The callback is called for each file loaded (current, total, name).
func (h *DocStore) Preload(cb func(current, total int, name string)) error {
	if h.loaded {
		return nil
	}

	total := len(h.docs)
	for i := range h.docs {
		doc := &h.docs[i] // pointer to modify in place

		if cb != nil {
			cb(i+1, total, doc.Title)
		}

		if err := h.load(doc); err != nil {
			return err
		}
	}

	h.loaded = true
	return nil
}

func (h *DocStore) load(doc *storage.Doc) error {
	if doc.Document != nil {
		return nil
	}

	d, err := ReadDoc(filepath.Join(h.docDir, doc.Title))
	if err != nil {
		return fmt.Errorf("%s: %w", doc.Title, err)
	}

	doc.Document = d
	doc.Labels = storage.DocLabels(d)
	return nil
}

func (h *DocStore) List(labelMatch string) ([]storage.Doc, error) {
	var docs []storage.Doc
	for i := range h.docs {
		if labelMatch != "" {
			if err := h.load(&h.docs[i]); err != nil {
				return nil, err
			}
		}

		doc := h.docs[i]
		if !storage.MatchLabel(doc.Labels, labelMatch) {
			continue
		}

		doc.Document = nil
		docs = append(docs, doc)
	}

	return docs, nil
}

func (h *DocStore) Read(id int) (storage.Doc, error) {
	if id < 0 || id >= len(h.docs) {
		return storage.Doc{}, fmt.Errorf("doc id out of range: %d", id)
	}

	if err := h.load(&h.docs[id]); err != nil {
		return storage.Doc{}, err
	}
	return h.docs[id], nil
}

// FindCandidates checks the lemmas of every document, loading them.
func (h *DocStore) FindCandidates(lemmaSets [][]string) ([]int, error) {
	var ids []int
	for i := range h.docs {
		if err := h.load(&h.docs[i]); err != nil {
			return nil, err
		}

		if storage.HasLemmas(storage.Lemmas(h.docs[i].Document), lemmaSets) {
			ids = append(ids, h.docs[i].Id)
		}
	}
	return ids, nil
}

// Write writes the document to <title>.json in the directory. An existing
// file with the same name is replaced. Labels are stored in the document
// itself, under storage.LabelsKey.
func (h *DocStore) Write(doc storage.Doc) error {
	if doc.Document == nil {
		return fmt.Errorf("doc %q has no content", doc.Title)
	}

	name := doc.Title
	if filepath.Ext(name) != ".json" {
		name += ".json"
	}
	if name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return fmt.Errorf("invalid doc title %q", doc.Title)
	}

	if len(doc.Labels) > 0 {
		if err := storage.SetDocLabels(doc.Document, doc.Labels); err != nil {
			return err
		}
	}

	if err := WriteDoc(filepath.Join(h.docDir, name), doc.Document); err != nil {
		return err
	}

	for i := range h.docs {
		if h.docs[i].Title == name {
			h.docs[i].Document = doc.Document
			h.docs[i].Labels = doc.Labels
			return nil
		}
	}

	h.docs = append(h.docs, storage.Doc{
		Id:       len(h.docs),
		Title:    name,
		Labels:   doc.Labels,
		Document: doc.Document,
	})
	return nil
}

// ReadDoc reads a SAF document JSON from the given path and unmarshals it.
func ReadDoc(path string) (*saf.Document, error) {
	f, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("IO error: %w", err)
	}

	var doc saf.Document
	err = json.Unmarshal(f, &doc)
	if err != nil {
		return nil, fmt.Errorf("JSON decoding error: %w", err)
	}

	return &doc, nil
}

// WriteDoc writes the document as indented JSON to path.
func WriteDoc(path string, doc *saf.Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("JSON encoding error: %w", err)
	}

	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("IO error: %w", err)
	}
	return nil
}

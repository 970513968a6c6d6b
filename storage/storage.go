package storage

import (
	"encoding/json"
	"strings"

	"github.com/revelaction/saf/saf"
)

// LabelsKey is the document key holding the labels of a stored document.
const LabelsKey = "labels"

// Doc is a stored SAF document with its metadata.
type Doc struct {
	Id int

	Title string

	Labels []string

	// Hash is the hex blake3 hash of the json content, if the storage
	// computes one.
	Hash string

	// Document is nil in the results of List.
	Document *saf.Document
}

// DocReader defines read operations for document storage
type DocReader interface {
	// List returns the metadata (Id, Title, Labels) of documents.
	// If labelMatch is not empty, only documents with at least one label containing the string are returned.
	// Content (Document) is not loaded.
	List(labelMatch string) ([]Doc, error)

	// Read returns a document by ID
	Read(id int) (Doc, error)

	// FindCandidates returns the ids of the documents that contain, for every
	// set, at least one of its lemmas. An empty lemmaSets selects every document.
	FindCandidates(lemmaSets [][]string) ([]int, error)
}

// DocWriter defines write operations for document storage
type DocWriter interface {
	// Write persists a document and its lemmas to storage
	Write(doc Doc) error
}

// DocRepository combines read and write operations
type DocRepository interface {
	DocReader
	DocWriter
}

// Preloader defines an optional capability for repositories that require
// or support eager loading of data into memory.
type Preloader interface {
	Preload(cb func(current, total int, name string)) error
}

// Lemmas returns the distinct non empty lemmas of a document.
func Lemmas(doc *saf.Document) []string {
	seen := map[string]bool{}
	var lemmas []string
	for _, t := range doc.Tokens {
		if t.Lemma != "" && !seen[t.Lemma] {
			seen[t.Lemma] = true
			lemmas = append(lemmas, t.Lemma)
		}
	}
	return lemmas
}

// HasLemmas reports whether lemmas has at least one lemma of every set.
func HasLemmas(lemmas []string, lemmaSets [][]string) bool {
	set := make(map[string]bool, len(lemmas))
	for _, l := range lemmas {
		set[l] = true
	}

	for _, ls := range lemmaSets {
		found := false
		for _, l := range ls {
			if set[l] {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// DocLabels returns the labels of a document, read from its LabelsKey key.
func DocLabels(doc *saf.Document) []string {
	raw, ok := doc.Key(LabelsKey)
	if !ok {
		return nil
	}

	var labels []string
	if err := json.Unmarshal(raw, &labels); err != nil {
		return nil
	}
	return labels
}

// SetDocLabels writes labels to the LabelsKey key of the document.
func SetDocLabels(doc *saf.Document, labels []string) error {
	data, err := json.Marshal(labels)
	if err != nil {
		return err
	}
	doc.SetKey(LabelsKey, data)
	return nil
}

// MatchLabel reports whether one of the labels contains labelMatch. An
// empty labelMatch matches everything.
func MatchLabel(labels []string, labelMatch string) bool {
	if labelMatch == "" {
		return true
	}
	for _, l := range labels {
		if strings.Contains(l, labelMatch) {
			return true
		}
	}
	return false
}

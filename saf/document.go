package saf

import (
	"encoding/json"
	"maps"
)

// Dependency is a labeled, directed parent -> child edge.
type Dependency struct {
	Parent   int    `json:"parent"`
	Child    int    `json:"child"`
	Relation string `json:"relation"`
}

// Entity is a named entity spanning a set of tokens.
type Entity struct {
	Type   string `json:"type"`
	Tokens []int  `json:"tokens"`
}

// Coreference is a raw coreference group: a list of mention places, each
// place a list of token ids.
type Coreference [][]int

// Ids flattens the mention places of the group.
func (c Coreference) Ids() []int {
	var ids []int
	for _, place := range c {
		ids = append(ids, place...)
	}
	return ids
}

// Code attaches a code value to a token.
type Code struct {
	Token int    `json:"token"`
	Code  string `json:"code"`
}

// Source links a reporting phrase (Source) to the reported span (Quote).
type Source struct {
	Source []int `json:"source"`
	Quote  []int `json:"quote"`
}

// Clause is a subject/predicate token grouping.
type Clause struct {
	Subject   []int `json:"subject"`
	Predicate []int `json:"predicate"`

	// Source is only set on reduced clauses of documents that carry
	// source annotations.
	Source []int `json:"source,omitempty"`
}

// Document is a parsed SAF document.
//
// The optional layers are pointers: nil means the layer is absent from the
// document, a pointer to an empty slice means it is present but empty.
type Document struct {
	Tokens       []*Token     `json:"tokens"`
	Dependencies []Dependency `json:"dependencies"`

	Entities     *[]Entity      `json:"entities,omitempty"`
	Coreferences *[]Coreference `json:"coreferences,omitempty"`
	Codes        *[]Code        `json:"codes,omitempty"`
	Sources      *[]Source      `json:"sources,omitempty"`
	Clauses      *[]Clause      `json:"clauses,omitempty"`

	// keys of the document not modelled above (header, ...)
	extra map[string]json.RawMessage
}

// Layer returns a present optional layer holding items.
func Layer[T any](items ...T) *[]T {
	if items == nil {
		items = []T{}
	}
	return &items
}

// documentFields has the fields of Document without its json methods.
type documentFields Document

var documentKeys = []string{
	"tokens", "dependencies", "entities", "coreferences", "codes", "sources", "clauses",
}

func (d *Document) UnmarshalJSON(data []byte) error {
	var f documentFields
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}

	extra, err := unknownKeys(data, documentKeys)
	if err != nil {
		return err
	}

	*d = Document(f)
	d.extra = extra
	return nil
}

func (d Document) MarshalJSON() ([]byte, error) {
	data, err := json.Marshal(documentFields(d))
	if err != nil {
		return nil, err
	}

	return withKeys(data, d.extra)
}

// Derive returns a document with the given tokens and dependencies that
// shares the optional layers of d and copies its unknown keys.
func (d *Document) Derive(tokens []*Token, deps []Dependency) *Document {
	nd := *d
	nd.Tokens = tokens
	nd.Dependencies = deps
	nd.extra = maps.Clone(d.extra)
	return &nd
}

// Key returns the raw value of a document key not modelled by Document, like
// the header.
func (d *Document) Key(name string) (json.RawMessage, bool) {
	v, ok := d.extra[name]
	return v, ok
}

// SetKey sets a document key not modelled by Document. It is written back on
// marshal unless name is a known key.
func (d *Document) SetKey(name string, value json.RawMessage) {
	if d.extra == nil {
		d.extra = map[string]json.RawMessage{}
	}
	d.extra[name] = value
}

// unknownKeys returns the keys of the json object data that are not in known.
func unknownKeys(data []byte, known []string) (map[string]json.RawMessage, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	for _, k := range known {
		delete(raw, k)
	}

	if len(raw) == 0 {
		return nil, nil
	}

	return raw, nil
}

// withKeys adds the extra keys to the json object data. Keys already in data
// take precedence.
func withKeys(data []byte, extra map[string]json.RawMessage) ([]byte, error) {
	if len(extra) == 0 {
		return data, nil
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, err
	}

	for k, v := range extra {
		if _, ok := obj[k]; !ok {
			obj[k] = v
		}
	}

	return json.Marshal(obj)
}

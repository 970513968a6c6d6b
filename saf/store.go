// Package saf indexes SAF (Simple Annotation Framework) documents and provides
// graph queries over their dependency trees.
//
// # Lifecycle
//
// A Store is built once from a parsed Document with NewStore. Query methods
// never mutate the store. Resolve writes enrichment fields into the tokens in
// place. Structural edits to the document after the first query are not
// seen by the children cache until RebuildChildren is called.
//
// # Thread Safety
//
// Queries may run concurrently: the children cache is built at most once,
// under a lock. Resolve mutates shared tokens and must not run concurrently
// with other calls on the same store.
package saf

import (
	"fmt"
	"math"
	"slices"
	"sync"

	"github.com/tidwall/btree"
)

// Child is a child token together with the relation of the edge that
// reaches it.
type Child struct {
	Relation string
	Token    *Token
}

// positioned is the item of the reading order index.
type positioned struct {
	sentence int
	offset   int
	// seq is the index of the token in the document, for ties
	seq   int
	token *Token
}

func positionLess(a, b positioned) bool {
	if a.sentence != b.sentence {
		return a.sentence < b.sentence
	}
	if a.offset != b.offset {
		return a.offset < b.offset
	}
	return a.seq < b.seq
}

// Store indexes the tokens and dependencies of a Document.
type Store struct {
	doc *Document

	tokens map[int]*Token
	order  *btree.BTreeG[positioned]

	mu       sync.Mutex
	children map[int][]Child
	// parents is the insertion order of the children map keys
	parents []int
}

// NewStore indexes doc. It fails if two tokens share an id or if a dependency
// references a token that is not in the document.
func NewStore(doc *Document) (*Store, error) {
	s := &Store{
		doc:    doc,
		tokens: make(map[int]*Token, len(doc.Tokens)),
		order:  btree.NewBTreeG[positioned](positionLess),
	}

	for i, t := range doc.Tokens {
		if _, ok := s.tokens[t.Id]; ok {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateToken, t.Id)
		}

		s.tokens[t.Id] = t
		s.order.Set(positioned{sentence: t.Sentence, offset: t.Offset, seq: i, token: t})
	}

	for _, d := range doc.Dependencies {
		if _, ok := s.tokens[d.Parent]; !ok {
			return nil, missingToken(d.Parent)
		}
		if _, ok := s.tokens[d.Child]; !ok {
			return nil, missingToken(d.Child)
		}
	}

	return s, nil
}

// Document returns the indexed document.
func (s *Store) Document() *Document {
	return s.doc
}

// Token returns the token with the given id.
func (s *Store) Token(id int) (*Token, error) {
	t, ok := s.tokens[id]
	if !ok {
		return nil, missingToken(id)
	}
	return t, nil
}

// Tokens returns all tokens ordered by sentence and offset.
func (s *Store) Tokens() []*Token {
	tokens := make([]*Token, 0, s.order.Len())
	s.order.Scan(func(p positioned) bool {
		tokens = append(tokens, p.token)
		return true
	})
	return tokens
}

// SentenceTokens returns the tokens of a sentence ordered by offset.
func (s *Store) SentenceTokens(sentence int) []*Token {
	var tokens []*Token
	pivot := positioned{sentence: sentence, offset: math.MinInt, seq: math.MinInt}
	s.order.Ascend(pivot, func(p positioned) bool {
		if p.sentence != sentence {
			return false
		}
		tokens = append(tokens, p.token)
		return true
	})
	return tokens
}

// Sentences returns the distinct sentence ids of the document, sorted.
func (s *Store) Sentences() []int {
	var ids []int
	s.order.Scan(func(p positioned) bool {
		if len(ids) == 0 || ids[len(ids)-1] != p.sentence {
			ids = append(ids, p.sentence)
		}
		return true
	})
	return ids
}

// Dependencies returns the raw edge list of the document.
func (s *Store) Dependencies() []Dependency {
	return s.doc.Dependencies
}

// EdgeTokenIds returns the sorted ids of all tokens referenced by an edge.
func (s *Store) EdgeTokenIds() []int {
	seen := map[int]bool{}
	var ids []int
	for _, d := range s.doc.Dependencies {
		for _, id := range []int{d.Parent, d.Child} {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}

	slices.Sort(ids)
	return ids
}

// Entities returns the entity layer, ok is false if the document has none.
func (s *Store) Entities() ([]Entity, bool) {
	return layer(s.doc.Entities)
}

// Coreferences returns the raw coreference groups, ok is false if the
// document has none. See CorefChains for the merged chains.
func (s *Store) Coreferences() ([]Coreference, bool) {
	return layer(s.doc.Coreferences)
}

// Codes returns the code layer, ok is false if the document has none.
func (s *Store) Codes() ([]Code, bool) {
	return layer(s.doc.Codes)
}

// Sources returns the source layer, ok is false if the document has none.
func (s *Store) Sources() ([]Source, bool) {
	return layer(s.doc.Sources)
}

// Clauses returns the raw clause layer, ok is false if the document has
// none. See ReducedClauses.
func (s *Store) Clauses() ([]Clause, bool) {
	return layer(s.doc.Clauses)
}

func layer[T any](l *[]T) ([]T, bool) {
	if l == nil {
		return nil, false
	}
	return *l, true
}

// Children returns the (relation, child) pairs of the token, in dependency
// order.
func (s *Store) Children(id int) []Child {
	children, _ := s.childIndex()
	return children[id]
}

// Child returns the first child of the token reached by one of relations
// (any relation if none given) whose fields satisfy criteria. It returns
// nil if no child matches.
func (s *Store) Child(id int, criteria Criteria, relations ...string) *Token {
	for _, c := range s.Children(id) {
		if len(relations) > 0 && !slices.Contains(relations, c.Relation) {
			continue
		}

		if criteria.Match(c.Token) {
			return c.Token
		}
	}

	return nil
}

// Parent returns the relation and the parent of the token, or ("", nil) if
// the token has no parent.
//
// There is no reverse index: the children cache is scanned, which is
// O(edges) per call.
func (s *Store) Parent(id int) (string, *Token) {
	children, parents := s.childIndex()
	for _, p := range parents {
		for _, c := range children[p] {
			if c.Token.Id == id {
				return c.Relation, s.tokens[p]
			}
		}
	}

	return "", nil
}

// RebuildChildren drops the children cache. The next query rebuilds it from
// the current dependencies.
func (s *Store) RebuildChildren() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.children = nil
	s.parents = nil
}

func (s *Store) childIndex() (map[int][]Child, []int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.children != nil {
		return s.children, s.parents
	}

	children := make(map[int][]Child)
	var parents []int
	for _, d := range s.doc.Dependencies {
		child, ok := s.tokens[d.Child]
		if !ok {
			// edge added after NewStore to an unknown token
			continue
		}

		if _, ok := children[d.Parent]; !ok {
			parents = append(parents, d.Parent)
		}
		children[d.Parent] = append(children[d.Parent], Child{Relation: d.Relation, Token: child})
	}

	s.children = children
	s.parents = parents
	return children, parents
}

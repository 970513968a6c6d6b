package saf

import (
	"slices"
)

// ReducedClauses returns the clauses of the document with nested clauses and
// sources removed from their predicates. See ReduceClauses. ok is false if
// the document has no clause layer.
func (s *Store) ReducedClauses() ([]Clause, bool) {
	clauses, ok := s.Clauses()
	if !ok {
		return nil, false
	}

	return ReduceClauses(clauses, s.doc.Sources), true
}

// SourceTokens returns the source tokens of every source whose quote is
// contained in ids, in source order.
func (s *Store) SourceTokens(ids []int) []int {
	sources, _ := s.Sources()
	return sourceTokens(sources, ids)
}

// ReduceClauses removes from the predicate of each clause the tokens of the
// clauses nested in it and of the sources it contains.
//
// A clause is nested in C when its subject and predicate together form a
// strict subset of the predicate of C (reported speech). A source is
// contained in C when its source tokens are a subset of the predicate of C.
// Subjects are unchanged and predicates keep their order. If sources is not
// nil, each reduced clause gets the source tokens attributed to its reduced
// predicate (see Store.SourceTokens).
//
// Reducing the output again changes nothing.
func ReduceClauses(clauses []Clause, sources *[]Source) []Clause {
	var srcs []Source
	if sources != nil {
		srcs = *sources
	}

	reduced := make([]Clause, 0, len(clauses))
	for _, c := range clauses {
		reduced = append(reduced, Clause{
			Subject:   slices.Clone(c.Subject),
			Predicate: slices.Clone(c.Predicate),
		})
	}

	// a reduced predicate can become nested in another predicate
	for reducePass(reduced, srcs) {
	}

	if sources != nil {
		for i := range reduced {
			reduced[i].Source = distinctSorted(sourceTokens(srcs, reduced[i].Predicate))
		}
	}

	return reduced
}

// reducePass reduces every predicate against the clauses as they are before
// the pass. It reports whether a predicate lost tokens.
func reducePass(clauses []Clause, srcs []Source) bool {
	changed := false
	predicates := make([][]int, len(clauses))

	for i, c := range clauses {
		pred := setOf(c.Predicate)

		contained := map[int]bool{}
		for _, c2 := range clauses {
			inner := setOf(c2.Predicate)
			for id := range setOf(c2.Subject) {
				inner[id] = true
			}

			if len(inner) < len(pred) && isSubset(inner, pred) {
				for id := range inner {
					contained[id] = true
				}
			}
		}

		for _, src := range srcs {
			if isSubset(setOf(src.Source), pred) {
				for _, id := range src.Source {
					contained[id] = true
				}
			}
		}

		predicate := []int{}
		for _, id := range c.Predicate {
			if !contained[id] {
				predicate = append(predicate, id)
			}
		}

		if len(predicate) != len(c.Predicate) {
			changed = true
		}
		predicates[i] = predicate
	}

	for i := range clauses {
		clauses[i].Predicate = predicates[i]
	}
	return changed
}

func sourceTokens(sources []Source, ids []int) []int {
	set := setOf(ids)

	var tokens []int
	for _, src := range sources {
		if isSubset(setOf(src.Quote), set) {
			tokens = append(tokens, src.Source...)
		}
	}
	return tokens
}

func setOf(ids []int) map[int]bool {
	set := make(map[int]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

func isSubset(a, b map[int]bool) bool {
	for id := range a {
		if !b[id] {
			return false
		}
	}
	return true
}

func distinctSorted(ids []int) []int {
	out := slices.Clone(ids)
	slices.Sort(out)
	return slices.Compact(out)
}

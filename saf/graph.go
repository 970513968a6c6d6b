package saf

import (
	"cmp"
	"iter"
	"slices"
)

// sentenceDependencies returns the dependencies whose child lies in sentence.
func (s *Store) sentenceDependencies(sentence int) []Dependency {
	var deps []Dependency
	for _, d := range s.doc.Dependencies {
		if t, ok := s.tokens[d.Child]; ok && t.Sentence == sentence {
			deps = append(deps, d)
		}
	}
	return deps
}

// Roots returns the roots of a sentence: the parents that are not the child
// of any edge of the sentence. A well formed sentence has exactly one root;
// Roots does not fail on malformed ones. Roots are in reading order.
func (s *Store) Roots(sentence int) []*Token {
	parents := map[int]int{}
	for _, d := range s.sentenceDependencies(sentence) {
		parents[d.Child] = d.Parent
	}

	seen := map[int]bool{}
	var roots []*Token
	for _, p := range parents {
		if _, isChild := parents[p]; isChild || seen[p] {
			continue
		}

		seen[p] = true
		roots = append(roots, s.tokens[p])
	}

	slices.SortFunc(roots, func(a, b *Token) int {
		return cmp.Or(
			cmp.Compare(a.Sentence, b.Sentence),
			cmp.Compare(a.Offset, b.Offset),
			cmp.Compare(a.Id, b.Id),
		)
	})

	return roots
}

// Root returns the single root of a sentence. It fails with a
// *MalformedSentenceError if the sentence has zero or several roots.
func (s *Store) Root(sentence int) (*Token, error) {
	roots := s.Roots(sentence)
	if len(roots) != 1 {
		ids := make([]int, 0, len(roots))
		for _, r := range roots {
			ids = append(ids, r.Id)
		}
		return nil, &MalformedSentenceError{Sentence: sentence, Roots: ids}
	}

	return roots[0], nil
}

// NodeDepths returns the depth of each node of the sentence reachable from a
// root. Roots have depth 0.
//
// The edges of the sentence are scanned repeatedly, labeling a child when
// its parent is labeled, until a pass labels nothing. The result does not
// depend on the order of the edges.
func (s *Store) NodeDepths(sentence int) map[int]int {
	deps := s.sentenceDependencies(sentence)

	depths := map[int]int{}
	for _, r := range s.Roots(sentence) {
		depths[r.Id] = 0
	}

	changed := true
	for changed {
		changed = false
		for _, d := range deps {
			if _, ok := depths[d.Child]; ok {
				continue
			}

			if pd, ok := depths[d.Parent]; ok {
				depths[d.Child] = pd + 1
				changed = true
			}
		}
	}

	return depths
}

// Descendants returns the token and all its descendants, in pre-order.
//
// Tokens in exclude are not yielded and their subtrees are not entered, so
// seeding exclude with the id of X yields the descendants minus the subtree
// rooted at X. Visited tokens are added to a copy of exclude, which guards
// against cycles in malformed input. Each iteration of the sequence starts
// afresh.
func (s *Store) Descendants(id int, exclude ...int) (iter.Seq[*Token], error) {
	start, err := s.Token(id)
	if err != nil {
		return nil, err
	}

	return func(yield func(*Token) bool) {
		visited := make(map[int]bool, len(exclude))
		for _, e := range exclude {
			visited[e] = true
		}

		stack := []*Token{start}
		for len(stack) > 0 {
			t := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			if visited[t.Id] {
				continue
			}
			visited[t.Id] = true

			if !yield(t) {
				return
			}

			// reversed, so that the first child is popped first
			children := s.Children(t.Id)
			for i := len(children) - 1; i >= 0; i-- {
				if !visited[children[i].Token.Id] {
					stack = append(stack, children[i].Token)
				}
			}
		}
	}, nil
}

// IsDescendant reports whether id is ancestor itself or one of its
// descendants.
func (s *Store) IsDescendant(id, ancestor int) (bool, error) {
	desc, err := s.Descendants(ancestor)
	if err != nil {
		return false, err
	}

	for t := range desc {
		if t.Id == id {
			return true, nil
		}
	}

	return false, nil
}

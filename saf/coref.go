package saf

import (
	"slices"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// CorefChains merges the coreference groups of the document into chains.
//
// Two groups sharing a token id refer to the same entity, so the chains are
// the connected components of the graph linking the ids of each group. Each
// chain is sorted, and chains are ordered by their member ids. A document
// without coreferences has no chains.
func (s *Store) CorefChains() [][]int {
	groups, _ := s.Coreferences()
	return mergeCoreferences(groups)
}

// CorefMap maps every token id of a chain to its full chain.
func (s *Store) CorefMap() map[int][]int {
	m := map[int][]int{}
	for _, chain := range s.CorefChains() {
		for _, id := range chain {
			m[id] = chain
		}
	}
	return m
}

func mergeCoreferences(groups []Coreference) [][]int {
	g := simple.NewUndirectedGraph()

	for _, group := range groups {
		ids := group.Ids()
		if len(ids) == 0 {
			continue
		}

		first := int64(ids[0])
		if g.Node(first) == nil {
			g.AddNode(simple.Node(first))
		}

		// a star around the first id connects the group
		for _, id := range ids[1:] {
			n := int64(id)
			if g.Node(n) == nil {
				g.AddNode(simple.Node(n))
			}
			if n != first {
				g.SetEdge(simple.Edge{F: simple.Node(first), T: simple.Node(n)})
			}
		}
	}

	var chains [][]int
	for _, component := range topo.ConnectedComponents(g) {
		chain := make([]int, 0, len(component))
		for _, n := range component {
			chain = append(chain, int(n.ID()))
		}
		slices.Sort(chain)
		chains = append(chains, chain)
	}

	slices.SortFunc(chains, func(a, b []int) int {
		return slices.Compare(a, b)
	})
	return chains
}

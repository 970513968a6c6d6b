// Package passive rewrites passive voice constructions of a dependency graph
// into their active form: the auxiliary and the agent preposition are
// removed and the agent is attached directly to the main verb.
package passive

import (
	"maps"
	"slices"

	"github.com/revelaction/saf/saf"
)

// Match is one passive construction found in a document.
type Match struct {
	// Aux is the auxiliary verb ("werd")
	Aux int `json:"aux"`
	// Verb is the main verb, the complement of Aux ("gegeten")
	Verb int `json:"verb"`
	// Prep is the preposition introducing the agent ("door")
	Prep int `json:"prep"`
	// Agent is the object of Prep ("Jan")
	Agent int `json:"agent"`
}

// Rewriter finds and rewrites the passive constructions described by a Rule.
// It is safe for concurrent use.
type Rewriter struct {
	rule Rule
	aux  map[string]bool
}

// NewRewriter returns a Rewriter for rule. The rule is not validated.
func NewRewriter(rule Rule) *Rewriter {
	aux := make(map[string]bool, len(rule.Auxiliaries))
	for _, l := range rule.Auxiliaries {
		aux[l] = true
	}

	return &Rewriter{rule: rule, aux: aux}
}

// Rule returns the rule the rewriter was built with.
func (r *Rewriter) Rule() Rule {
	return r.rule
}

// Matches returns the passive constructions of the store, in document order
// of their auxiliary.
func (r *Rewriter) Matches(s *saf.Store) []Match {
	var matches []Match
	for _, t := range s.Document().Tokens {
		if m, ok := r.match(s, t); ok {
			matches = append(matches, m)
		}
	}
	return matches
}

func (r *Rewriter) match(s *saf.Store, t *saf.Token) (Match, bool) {
	if !r.aux[t.Lemma] {
		return Match{}, false
	}

	verb := s.Child(t.Id, nil, r.rule.Complement)
	if verb == nil {
		return Match{}, false
	}

	prep := s.Child(verb.Id, saf.Criteria{"lemma": {r.rule.Preposition}}, r.rule.Modifier)
	if prep == nil {
		return Match{}, false
	}

	if len(s.Children(prep.Id)) != 1 {
		return Match{}, false
	}

	agent := s.Child(prep.Id, nil, r.rule.Object)
	if agent == nil {
		return Match{}, false
	}

	return Match{Aux: t.Id, Verb: verb.Id, Prep: prep.Id, Agent: agent.Id}, true
}

// Rewrite returns s itself when it has no passive construction. Otherwise it
// returns a new store without the auxiliaries and prepositions of the
// matches, where the agent hangs from the main verb and the children of the
// auxiliary (other than its subject and complement) are moved to the main
// verb. Tokens of the new store are copies; s is never modified.
func (r *Rewriter) Rewrite(s *saf.Store) (*saf.Store, error) {
	matches := r.Matches(s)
	if len(matches) == 0 {
		return s, nil
	}

	removed := map[int]bool{}
	var added []saf.Dependency
	for _, m := range matches {
		removed[m.Aux] = true
		removed[m.Prep] = true

		added = append(added, saf.Dependency{Parent: m.Verb, Child: m.Agent, Relation: r.rule.Agent})
		for _, c := range s.Children(m.Aux) {
			if c.Relation == r.rule.Subject || c.Relation == r.rule.Complement {
				continue
			}
			added = append(added, saf.Dependency{Parent: m.Verb, Child: c.Token.Id, Relation: c.Relation})
		}
	}

	doc := s.Document()

	tokens := make([]*saf.Token, 0, len(doc.Tokens))
	for _, t := range doc.Tokens {
		if removed[t.Id] {
			continue
		}
		tokens = append(tokens, cloneToken(t))
	}

	keep := func(d saf.Dependency) bool {
		return !removed[d.Parent] && !removed[d.Child]
	}

	deps := []saf.Dependency{}
	for _, d := range doc.Dependencies {
		if keep(d) {
			deps = append(deps, d)
		}
	}

	// chained constructions can re-attach a removed token
	for _, d := range added {
		if keep(d) {
			deps = append(deps, d)
		}
	}

	return saf.NewStore(doc.Derive(tokens, deps))
}

func cloneToken(t *saf.Token) *saf.Token {
	c := *t
	c.Codes = slices.Clone(t.Codes)
	c.Extra = maps.Clone(t.Extra)
	if t.SourceId != nil {
		id := *t.SourceId
		c.SourceId = &id
	}
	if t.ClauseId != nil {
		id := *t.ClauseId
		c.ClauseId = &id
	}
	return &c
}

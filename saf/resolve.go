package saf

import (
	"cmp"
	"slices"
)

// Resolve returns the tokens with the given ids (all tokens if none given),
// ordered by sentence and offset, after writing into them the information of
// the optional layers of the document:
//
//   - entities: Entity, for every token the entity spans
//   - coreferences: Coref, the number (from 1) of the chain of the token
//   - codes: Codes, the sorted set of codes attached to the token
//   - sources: SourceRole and SourceId (index of the source)
//   - clauses: ClauseRole and ClauseId (index of the reduced clause)
//
// Entities and codes are written for the whole document, the other layers
// only for the selected tokens. Absent layers are skipped. Resolve mutates
// the tokens of the store in place.
func (s *Store) Resolve(ids ...int) ([]*Token, error) {
	var tokens []*Token
	if len(ids) == 0 {
		tokens = s.Tokens()
	} else {
		for _, id := range ids {
			t, err := s.Token(id)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, t)
		}

		slices.SortStableFunc(tokens, func(a, b *Token) int {
			return cmp.Or(cmp.Compare(a.Sentence, b.Sentence), cmp.Compare(a.Offset, b.Offset))
		})
	}

	if entities, ok := s.Entities(); ok {
		for _, e := range entities {
			for _, id := range e.Tokens {
				t, err := s.Token(id)
				if err != nil {
					return nil, err
				}
				t.Entity = e.Type
			}
		}
	}

	if _, ok := s.Coreferences(); ok {
		chainIds := map[int]int{}
		for i, chain := range s.CorefChains() {
			for _, id := range chain {
				chainIds[id] = i + 1
			}
		}

		for _, t := range tokens {
			if n, ok := chainIds[t.Id]; ok {
				t.Coref = n
			}
		}
	}

	if codes, ok := s.Codes(); ok {
		for _, c := range codes {
			t, err := s.Token(c.Token)
			if err != nil {
				return nil, err
			}

			if !slices.Contains(t.Codes, c.Code) {
				t.Codes = append(t.Codes, c.Code)
				slices.Sort(t.Codes)
			}
		}
	}

	if sources, ok := s.Sources(); ok {
		type sourceRole struct {
			role SourceRole
			id   int
		}

		roles := map[int]sourceRole{}
		for i, src := range sources {
			for _, id := range src.Source {
				roles[id] = sourceRole{RoleSource, i}
			}
			for _, id := range src.Quote {
				roles[id] = sourceRole{RoleQuote, i}
			}
		}

		for _, t := range tokens {
			if r, ok := roles[t.Id]; ok {
				t.SourceRole = r.role
				t.SourceId = &r.id
			}
		}
	}

	if clauses, ok := s.ReducedClauses(); ok {
		type clauseRole struct {
			role ClauseRole
			id   int
		}

		roles := map[int]clauseRole{}
		for i, c := range clauses {
			for _, id := range c.Subject {
				roles[id] = clauseRole{RoleSubject, i}
			}
			for _, id := range c.Predicate {
				roles[id] = clauseRole{RolePredicate, i}
			}
		}

		for _, t := range tokens {
			if r, ok := roles[t.Id]; ok {
				t.ClauseRole = r.role
				t.ClauseId = &r.id
			}
		}
	}

	return tokens, nil
}

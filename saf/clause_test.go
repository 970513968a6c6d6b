package saf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clauseDoc(clauses []Clause, sources *[]Source) *Document {
	doc := &Document{}
	for i := 1; i <= 10; i++ {
		doc.Tokens = append(doc.Tokens, tok(i, 1, i, "w", "w", "x"))
	}
	doc.Clauses = Layer(clauses...)
	doc.Sources = sources
	return doc
}

// TestReduceClauses_Nested verifies reported speech is cut from the outer predicate.
func TestReduceClauses_Nested(t *testing.T) {
	clauses := []Clause{
		{Subject: []int{1}, Predicate: []int{2, 3, 4, 5, 6}},
		{Subject: []int{3}, Predicate: []int{4, 5}},
	}

	got := ReduceClauses(clauses, nil)
	require.Len(t, got, 2)

	assert.Equal(t, []int{1}, got[0].Subject)
	assert.Equal(t, []int{2, 6}, got[0].Predicate)
	assert.Nil(t, got[0].Source)

	// the inner clause has nothing nested
	assert.Equal(t, []int{4, 5}, got[1].Predicate)
}

// TestReduceClauses_StrictSubset verifies a clause is not nested in itself or a twin.
func TestReduceClauses_StrictSubset(t *testing.T) {
	clauses := []Clause{
		{Subject: []int{}, Predicate: []int{1, 2}},
		{Subject: []int{2}, Predicate: []int{1}},
	}

	got := ReduceClauses(clauses, nil)
	assert.Equal(t, []int{1, 2}, got[0].Predicate)
	assert.Equal(t, []int{1}, got[1].Predicate)
}

// TestReduceClauses_Sources verifies sources are removed and attributed.
func TestReduceClauses_Sources(t *testing.T) {
	clauses := []Clause{{Subject: []int{1}, Predicate: []int{2, 3, 4, 5}}}
	sources := Layer(Source{Source: []int{2}, Quote: []int{4, 5}})

	got := ReduceClauses(clauses, sources)
	require.Len(t, got, 1)

	assert.Equal(t, []int{3, 4, 5}, got[0].Predicate)
	assert.Equal(t, []int{2}, got[0].Source)
}

// TestReduceClauses_EmptyPredicate verifies a fully nested predicate becomes empty.
func TestReduceClauses_EmptyPredicate(t *testing.T) {
	clauses := []Clause{
		{Subject: []int{7}, Predicate: []int{1, 2, 3}},
		{Subject: []int{1}, Predicate: []int{2}},
	}
	sources := Layer(Source{Source: []int{3}, Quote: []int{9}})

	got := ReduceClauses(clauses, sources)
	assert.NotNil(t, got[0].Predicate)
	assert.Empty(t, got[0].Predicate)
	assert.Empty(t, got[0].Source)
}

// TestReduceClauses_Idempotent verifies reducing twice equals reducing once.
func TestReduceClauses_Idempotent(t *testing.T) {
	clauses := []Clause{
		{Subject: []int{1}, Predicate: []int{2, 3, 4, 5, 6, 7}},
		{Subject: []int{3}, Predicate: []int{4, 5}},
		{Subject: []int{8}, Predicate: []int{9, 10}},
	}
	sources := Layer(Source{Source: []int{7}, Quote: []int{9}})

	once := ReduceClauses(clauses, sources)
	twice := ReduceClauses(once, sources)

	assert.Equal(t, once, twice)
}

// TestReduceClauses_Overlapping verifies a predicate that is only nested once
// reduced is removed in the same call.
func TestReduceClauses_Overlapping(t *testing.T) {
	clauses := []Clause{
		{Subject: []int{}, Predicate: []int{1, 2, 3}},
		{Subject: []int{}, Predicate: []int{2, 9}},
		{Subject: []int{}, Predicate: []int{9}},
	}

	once := ReduceClauses(clauses, nil)
	assert.Equal(t, []int{1, 3}, once[0].Predicate)
	assert.Equal(t, []int{2}, once[1].Predicate)
	assert.Equal(t, []int{9}, once[2].Predicate)

	assert.Equal(t, once, ReduceClauses(once, nil))
}

// TestReduceClauses_KeepsInput verifies the input clauses are not modified.
func TestReduceClauses_KeepsInput(t *testing.T) {
	clauses := []Clause{
		{Subject: []int{1}, Predicate: []int{2, 3, 4}},
		{Subject: []int{3}, Predicate: []int{4}},
	}

	ReduceClauses(clauses, nil)
	assert.Equal(t, []int{2, 3, 4}, clauses[0].Predicate)
}

func TestStore_ReducedClauses(t *testing.T) {
	s := newStore(t, clauseDoc(
		[]Clause{{Subject: []int{1}, Predicate: []int{2, 3, 4, 5}}},
		Layer(Source{Source: []int{2}, Quote: []int{4, 5}}),
	))

	got, ok := s.ReducedClauses()
	require.True(t, ok)
	assert.Equal(t, []Clause{{Subject: []int{1}, Predicate: []int{3, 4, 5}, Source: []int{2}}}, got)

	_, ok = newStore(t, sentenceDoc()).ReducedClauses()
	assert.False(t, ok)
}

// TestStore_SourceTokens verifies a source counts when its whole quote is in ids.
func TestStore_SourceTokens(t *testing.T) {
	s := newStore(t, clauseDoc(nil, Layer(
		Source{Source: []int{1}, Quote: []int{4, 5}},
		Source{Source: []int{2, 3}, Quote: []int{6}},
		Source{Source: []int{7}, Quote: []int{8, 9}},
	)))

	assert.Equal(t, []int{1, 2, 3}, s.SourceTokens([]int{4, 5, 6, 8}))
	assert.Empty(t, s.SourceTokens([]int{10}))

	assert.Empty(t, newStore(t, sentenceDoc()).SourceTokens([]int{1}))
}

package saf

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingToken is returned when a token id is not present in the store.
	// Anything that dereferences an id (dependencies, entities, codes) wraps it
	// with the offending id.
	ErrMissingToken = errors.New("missing token")

	// ErrDuplicateToken is returned by NewStore when two tokens share an id.
	ErrDuplicateToken = errors.New("duplicate token id")

	// ErrMalformedSentence is returned when a sentence does not have exactly one
	// root. The concrete error is a *MalformedSentenceError.
	ErrMalformedSentence = errors.New("malformed sentence")
)

// MalformedSentenceError lists the roots found in a sentence that was
// expected to form a single rooted tree.
type MalformedSentenceError struct {
	Sentence int
	Roots    []int
}

func (e *MalformedSentenceError) Error() string {
	return fmt.Sprintf("sentence %d has roots %v", e.Sentence, e.Roots)
}

func (e *MalformedSentenceError) Unwrap() error {
	return ErrMalformedSentence
}

func missingToken(id int) error {
	return fmt.Errorf("%w: %d", ErrMissingToken, id)
}

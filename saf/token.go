package saf

import (
	"encoding/json"
	"strconv"
)

// SourceRole is the place a token takes in a source annotation.
type SourceRole string

const (
	RoleSource SourceRole = "source"
	RoleQuote  SourceRole = "quote"
)

// ClauseRole is the place a token takes in a (reduced) clause.
type ClauseRole string

const (
	RoleSubject   ClauseRole = "subject"
	RolePredicate ClauseRole = "predicate"
)

// Token represents a word of a sentence, with POS and enrichment data.
//
// Tokens are owned by the Store that indexes them. Resolve writes the
// enrichment fields (Entity, Coref, Codes, Source*, Clause*) in place.
type Token struct {
	Id       int `json:"id"`
	Sentence int `json:"sentence"`

	// Offset orders the tokens of a sentence (reading order).
	Offset int `json:"offset"`

	// The unmodified word
	Word string `json:"word"`

	Lemma string `json:"lemma"`
	Pos   string `json:"pos"`

	// Pos1 is the coarse, one letter, part of speech.
	Pos1 string `json:"pos1,omitempty"`

	Entity string `json:"entity,omitempty"`

	// Coref is the 1-based coreference chain number, 0 if none.
	Coref int `json:"coref,omitempty"`

	Codes []string `json:"codes,omitempty"`

	SourceRole SourceRole `json:"source_role,omitempty"`
	SourceId   *int       `json:"source_id,omitempty"`

	ClauseRole ClauseRole `json:"clause_role,omitempty"`
	ClauseId   *int       `json:"clause_id,omitempty"`

	// Extra holds the document keys of the token not modelled above. They
	// are written back unchanged on marshal.
	Extra map[string]json.RawMessage `json:"-"`
}

// tokenFields has the fields of Token without its json methods.
type tokenFields Token

var tokenKeys = []string{
	"id", "sentence", "offset", "word", "lemma", "pos", "pos1", "entity",
	"coref", "codes", "source_role", "source_id", "clause_role", "clause_id",
}

func (t *Token) UnmarshalJSON(data []byte) error {
	var f tokenFields
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}

	extra, err := unknownKeys(data, tokenKeys)
	if err != nil {
		return err
	}

	*t = Token(f)
	t.Extra = extra
	return nil
}

func (t Token) MarshalJSON() ([]byte, error) {
	data, err := json.Marshal(tokenFields(t))
	if err != nil {
		return nil, err
	}

	return withKeys(data, t.Extra)
}

// Field returns the string value of the named token field. Names are the
// json keys of the token; keys only present in Extra are looked up there.
func (t *Token) Field(name string) (string, bool) {
	switch name {
	case "word":
		return t.Word, true
	case "lemma":
		return t.Lemma, true
	case "pos":
		return t.Pos, true
	case "pos1":
		return t.Pos1, true
	case "entity":
		return t.Entity, true
	case "source_role":
		return string(t.SourceRole), true
	case "clause_role":
		return string(t.ClauseRole), true
	case "id":
		return strconv.Itoa(t.Id), true
	case "sentence":
		return strconv.Itoa(t.Sentence), true
	case "offset":
		return strconv.Itoa(t.Offset), true
	case "coref":
		return strconv.Itoa(t.Coref), true
	case "source_id":
		return intField(t.SourceId)
	case "clause_id":
		return intField(t.ClauseId)
	}

	raw, ok := t.Extra[name]
	if !ok {
		return "", false
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		// not a json string (number, bool): compare on the literal
		return string(raw), true
	}

	return s, true
}

func intField(p *int) (string, bool) {
	if p == nil {
		return "", false
	}
	return strconv.Itoa(*p), true
}

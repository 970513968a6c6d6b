package saf

import (
	"fmt"
	"slices"
	"strings"
)

// Criteria restricts token fields to sets of values. A token matches when,
// for every field, its value is one of the listed values. A field with a
// single value is an equality test.
//
//	saf.Criteria{"lemma": {"door"}, "pos1": {"N", "R"}}
type Criteria map[string][]string

// Match reports whether t satisfies all criteria. Empty criteria match any
// token; a field the token does not carry never matches.
func (c Criteria) Match(t *Token) bool {
	for field, values := range c {
		v, ok := t.Field(field)
		if !ok {
			return false
		}

		if !slices.Contains(values, v) {
			return false
		}
	}

	return true
}

// ParseCriteria parses field=value arguments. Alternative values are
// separated by "|":
//
//	lemma=door|van pos1=R
func ParseCriteria(args []string) (Criteria, error) {
	c := Criteria{}
	for _, arg := range args {
		field, values, ok := strings.Cut(arg, "=")
		if !ok || field == "" {
			return nil, fmt.Errorf("criterion %q is not in field=value form", arg)
		}

		c[field] = append(c[field], strings.Split(values, "|")...)
	}

	return c, nil
}

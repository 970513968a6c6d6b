package passive

import (
	"errors"
	"fmt"
	"slices"

	"gopkg.in/yaml.v3"
)

// DefaultRuleName is the name of the rule returned by DefaultRule.
const DefaultRuleName = "dutch"

// Rule describes the passive construction of a language in terms of lemmas
// and dependency relations.
type Rule struct {
	// the rule name
	Name string `yaml:"name" json:"name"`

	// Auxiliaries are the lemmas of the passive auxiliary verbs.
	Auxiliaries []string `yaml:"auxiliaries" json:"auxiliaries"`

	// Complement is the relation from the auxiliary to the main verb.
	Complement string `yaml:"complement" json:"complement"`

	// Modifier is the relation from the main verb to the preposition.
	Modifier string `yaml:"modifier" json:"modifier"`

	// Preposition is the lemma introducing the agent.
	Preposition string `yaml:"preposition" json:"preposition"`

	Object  string `yaml:"object" json:"object"`
	Agent   string `yaml:"agent" json:"agent"`
	Subject string `yaml:"subject" json:"subject"`
}

// DefaultRule is the rule for Dutch as parsed by Alpino: "het boek werd door
// Jan gelezen".
func DefaultRule() Rule {
	return Rule{
		Name:        DefaultRuleName,
		Auxiliaries: []string{"word", "ben"},
		Complement:  "vc",
		Modifier:    "mod",
		Preposition: "door",
		Object:      "obj1",
		Agent:       "agent",
		Subject:     "su",
	}
}

// Validate checks that every field of the rule is set.
func (r Rule) Validate() error {
	if r.Name == "" {
		return errors.New("rule without name")
	}

	if len(r.Auxiliaries) == 0 {
		return fmt.Errorf("rule %s: no auxiliaries", r.Name)
	}

	fields := []struct{ name, value string }{
		{"complement", r.Complement},
		{"modifier", r.Modifier},
		{"preposition", r.Preposition},
		{"object", r.Object},
		{"agent", r.Agent},
		{"subject", r.Subject},
	}
	for _, f := range fields {
		if f.value == "" {
			return fmt.Errorf("rule %s: empty %s", r.Name, f.name)
		}
	}

	return nil
}

// LemmaSets returns the lemmas a document must contain to hold a match of
// the rule: one of the auxiliaries, and the preposition. Storage uses them to
// select candidate documents.
func (r Rule) LemmaSets() [][]string {
	return [][]string{slices.Clone(r.Auxiliaries), {r.Preposition}}
}

// Library is a collection of rules
type Library []Rule

// Names returns a list of all rule names in the library
func (l Library) Names() []string {
	var names []string
	for _, r := range l {
		names = append(names, r.Name)
	}
	return names
}

// Rule returns the rule with the given name.
func (l Library) Rule(name string) (Rule, error) {
	i := slices.IndexFunc(l, func(r Rule) bool { return r.Name == name })
	if i < 0 {
		return Rule{}, fmt.Errorf("unknown passive rule %q", name)
	}
	return l[i], nil
}

// Validate validates every rule and checks that names are unique.
func (l Library) Validate() error {
	seen := map[string]bool{}
	for _, r := range l {
		if err := r.Validate(); err != nil {
			return err
		}

		if seen[r.Name] {
			return fmt.Errorf("duplicate passive rule %q", r.Name)
		}
		seen[r.Name] = true
	}
	return nil
}

// ParseRules parses a YAML list of rules.
func ParseRules(data []byte) (Library, error) {
	var lib Library
	if err := yaml.Unmarshal(data, &lib); err != nil {
		return nil, fmt.Errorf("parse passive rules: %w", err)
	}

	if err := lib.Validate(); err != nil {
		return nil, err
	}

	return lib, nil
}

package filesystem

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/revelaction/saf/passive"
)

// RuleStore is a directory of passive rules, one <name>.yaml file per rule.
type RuleStore struct {
	root string
}

var _ passive.RuleRepository = (*RuleStore)(nil)

func NewRuleStore(root string) *RuleStore {
	return &RuleStore{root: root}
}

func (rs *RuleStore) ReadAll() (passive.Library, error) {
	names, err := rs.names()
	if err != nil {
		return nil, err
	}

	rules := passive.Library{}
	for _, n := range names {
		r, err := rs.Read(n)
		if err != nil {
			return nil, err
		}

		rules = append(rules, r)
	}

	return rules, nil
}

func (rs *RuleStore) names() ([]string, error) {
	files, err := os.ReadDir(rs.root)
	if err != nil {
		return nil, err
	}

	names := []string{}
	for _, file := range files {
		if filepath.Ext(file.Name()) != ".yaml" {
			continue
		}

		names = append(names, strings.TrimSuffix(file.Name(), filepath.Ext(file.Name())))
	}

	return names, nil
}

// Read reads the rule in <name>.yaml. The file name is the rule name.
func (rs *RuleStore) Read(name string) (passive.Rule, error) {
	data, err := os.ReadFile(filepath.Join(rs.root, name+".yaml"))
	if err != nil {
		return passive.Rule{}, err
	}

	var r passive.Rule
	if err := yaml.Unmarshal(data, &r); err != nil {
		return passive.Rule{}, fmt.Errorf("rule %s: %w", name, err)
	}
	r.Name = name

	if err := r.Validate(); err != nil {
		return passive.Rule{}, err
	}

	return r, nil
}

func (rs *RuleStore) Write(r passive.Rule) error {
	if err := r.Validate(); err != nil {
		return err
	}

	data, err := yaml.Marshal(r)
	if err != nil {
		return err
	}

	return os.WriteFile(filepath.Join(rs.root, r.Name+".yaml"), data, 0644)
}

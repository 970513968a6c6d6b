// Package config loads the saf configuration from a YAML file.
//
// A missing file is not an error: Load returns Default. Values given on the
// command line or through SAF_* environment variables are applied by the
// caller on top of the loaded configuration.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/revelaction/saf/passive"
)

// DefaultFile is the config file looked up when no path is given.
const DefaultFile = "saf.yaml"

type Log struct {
	Level  string `yaml:"level"`
	Pretty *bool  `yaml:"pretty,omitempty"`
}

type Config struct {
	// DocPath is a directory of json documents or a SQLite file
	DocPath string `yaml:"doc_path"`

	Log Log `yaml:"log"`

	// Workers bounds the documents processed concurrently by batch commands.
	Workers int `yaml:"workers"`

	// Rule is the name of the passive rule to apply.
	Rule string `yaml:"rule"`

	Rules passive.Library `yaml:"rules,omitempty"`

	// RulePath is an optional directory of <name>.yaml rules or a SQLite
	// file holding rules, read in addition to Rules.
	RulePath string `yaml:"rule_path,omitempty"`
}

func Default() Config {
	return Config{
		DocPath: ".",
		Log:     Log{Level: "info"},
		Workers: 4,
		Rule:    passive.DefaultRuleName,
	}
}

// Path returns the default config file location, $HOME/.saf/saf.yaml.
func Path() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not find the user's home directory: %w", err)
	}
	return filepath.Join(home, ".saf", DefaultFile), nil
}

// Load reads the config file at path over the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("failed to read the config file: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse the config file %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks the values of the config.
func (c Config) Validate() error {
	switch c.Log.Level {
	case "debug", "info", "warn", "error", "disabled":
	default:
		return fmt.Errorf("invalid log level %q", c.Log.Level)
	}

	if c.Workers < 1 {
		return fmt.Errorf("workers must be positive, got %d", c.Workers)
	}

	if err := c.Rules.Validate(); err != nil {
		return err
	}

	// rules of RulePath are only known once the repository is opened
	if c.RulePath == "" {
		if _, err := c.PassiveRule(); err != nil {
			return err
		}
	}

	return nil
}

// Library returns the configured passive rules, with the default rule added
// unless a rule with its name is configured.
func (c Config) Library() passive.Library {
	lib := append(passive.Library{}, c.Rules...)
	for _, r := range lib {
		if r.Name == passive.DefaultRuleName {
			return lib
		}
	}
	return append(lib, passive.DefaultRule())
}

// PassiveRule returns the rule named by Rule.
func (c Config) PassiveRule() (passive.Rule, error) {
	return c.Library().Rule(c.Rule)
}

// Write saves the config to path, creating its directory.
func (c Config) Write(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create the config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// Policy carries operator-tunable answer-quality settings that do not belong
// in environment variables, currently the phrases treated as model refusals.
type Policy struct {
	RefusalPhrases []string `yaml:"refusal_phrases"`
}

// LoadPolicy reads the policy file at path. An empty path or a missing file
// yields a zero policy, so built-in defaults apply; a malformed file is a
// startup error.
func LoadPolicy(path string) (Policy, error) {
	if path == "" {
		return Policy{}, nil
	}

	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Policy{}, nil
	}
	if err != nil {
		return Policy{}, fmt.Errorf("read policy file: %w", err)
	}

	var policy Policy
	if err := yaml.Unmarshal(raw, &policy); err != nil {
		return Policy{}, fmt.Errorf("parse policy file: %w", err)
	}
	return policy, nil
}

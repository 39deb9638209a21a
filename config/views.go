package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// View selects one trending listing view. An empty language means the
// default (all-languages) view; otherwise the language is appended to the
// listing URL as a path segment, e.g. "go" or "korean".
type View struct {
	Language string `yaml:"language"`
}

// Name returns a human-readable label for logging.
func (v View) Name() string {
	if v.Language == "" {
		return "default"
	}
	return v.Language
}

type viewsFile struct {
	Views []View `yaml:"views"`
}

// LoadViews reads a YAML views file of the form:
//
//	views:
//	  - language: ""
//	  - language: korean
//	  - language: go
func LoadViews(path string) ([]View, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading views file: %w", err)
	}

	var f viewsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing views file: %w", err)
	}
	return f.Views, nil
}

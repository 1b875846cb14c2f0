package importer

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// BatchFile is a task batch on disk. JSON files parse too, since JSON is a
// subset of YAML.
//
//	defaults:
//	  importance: 3
//	tasks:
//	  - title: Ship report
//	    due: 2025-03-15T17:00:00Z
//	    estimated_minutes: 45
//	    importance: 5
type BatchFile struct {
	Defaults *DefaultsImport `yaml:"defaults,omitempty"`
	Tasks    []TaskImport    `yaml:"tasks"`
}

// DefaultsImport applies to every task that leaves the field unset.
type DefaultsImport struct {
	Importance       int  `yaml:"importance,omitempty"`
	EstimatedMinutes *int `yaml:"estimated_minutes,omitempty"`
}

// TaskImport is one task in a batch file. Due accepts RFC 3339, "YYYY-MM-DD
// HH:MM" or a bare date meaning the end of that day.
type TaskImport struct {
	Title            string `yaml:"title"`
	Description      string `yaml:"description,omitempty"`
	Due              string `yaml:"due,omitempty"`
	EstimatedMinutes *int   `yaml:"estimated_minutes,omitempty"`
	Importance       int    `yaml:"importance,omitempty"`
}

// LoadBatch reads and parses a batch file.
func LoadBatch(path string) (*BatchFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseBatch(data)
}

// ParseBatch accepts either a document with a tasks key or a bare list of
// tasks. Unknown keys are rejected so typos do not silently drop fields.
func ParseBatch(data []byte) (*BatchFile, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing batch file: %w", err)
	}
	if len(doc.Content) == 0 {
		return &BatchFile{}, nil
	}

	var batch BatchFile
	if doc.Content[0].Kind == yaml.SequenceNode {
		if err := decodeStrict(data, &batch.Tasks); err != nil {
			return nil, fmt.Errorf("parsing batch file: %w", err)
		}
		return &batch, nil
	}
	if err := decodeStrict(data, &batch); err != nil {
		return nil, fmt.Errorf("parsing batch file: %w", err)
	}
	return &batch, nil
}

func decodeStrict(data []byte, out any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	return dec.Decode(out)
}

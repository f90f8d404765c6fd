package validator

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

type schemaFile struct {
	Constraints []constraintSpec `yaml:"constraints"`
}

type constraintSpec struct {
	Path      string         `yaml:"path"`
	Kind      Kind           `yaml:"kind"`
	Params    map[string]any `yaml:"params"`
	Groups    []Group        `yaml:"groups"`
	Message   string         `yaml:"message"`
	Sensitive bool           `yaml:"sensitive"`
}

// Load registers every constraint of a YAML schema document:
//
//	constraints:
//	  - path: age
//	    kind: numeric-range
//	    params: {min: 18}
//	    groups: [create]
//	    message: "must be at least {min}"
//
// Custom kinds may be referenced before their rule is registered; NewExecutor
// checks that every kind is known.
func (s *Schema) Load(r io.Reader) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var file schemaFile
	if err := dec.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("validator: decode schema: %w", err)
	}

	for i, item := range file.Constraints {
		c := Constraint{
			Kind:      item.Kind,
			Params:    item.Params,
			Groups:    item.Groups,
			Message:   item.Message,
			Sensitive: item.Sensitive,
		}
		if err := s.RegisterConstraint(item.Path, c); err != nil {
			return fmt.Errorf("validator: schema constraint #%d (%s): %w", i, item.Path, err)
		}
	}

	return nil
}

// LoadSchema returns a new Schema populated from a YAML document.
func LoadSchema(r io.Reader) (*Schema, error) {
	s := NewSchema()
	if err := s.Load(r); err != nil {
		return nil, err
	}
	return s, nil
}

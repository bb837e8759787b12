package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type TonePattern struct {
	Name        string `yaml:"name" toml:"name"`
	Instruction string `yaml:"instruction" toml:"instruction"`
}

// TonePatterns keeps declaration order. In YAML it accepts either a mapping
// of name to instruction or a list of {name, instruction}.
type TonePatterns []TonePattern

func (p *TonePatterns) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.MappingNode:
		out := make(TonePatterns, 0, len(node.Content)/2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			var name, instruction string
			if err := node.Content[i].Decode(&name); err != nil {
				return fmt.Errorf("line %d: tone pattern name: %w", node.Content[i].Line, err)
			}
			if err := node.Content[i+1].Decode(&instruction); err != nil {
				return fmt.Errorf("line %d: tone pattern %q: %w", node.Content[i+1].Line, name, err)
			}
			out = append(out, TonePattern{Name: name, Instruction: instruction})
		}
		*p = out
		return nil
	case yaml.SequenceNode:
		var list []TonePattern
		if err := node.Decode(&list); err != nil {
			return err
		}
		*p = list
		return nil
	default:
		return fmt.Errorf("line %d: tone_patterns must be a mapping or a list", node.Line)
	}
}

func (p TonePatterns) Names() []string {
	names := make([]string, len(p))
	for i, tp := range p {
		names[i] = tp.Name
	}
	return names
}

// LoadTonePatterns reads a JSON or YAML mapping of tone name to instruction.
func LoadTonePatterns(path string) (TonePatterns, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading tone patterns %s: %w", path, err)
	}
	var patterns TonePatterns
	if err := yaml.Unmarshal(data, &patterns); err != nil {
		return nil, fmt.Errorf("parsing tone patterns %s: %w", path, err)
	}
	return patterns, nil
}

package scenario

import (
	"bytes"
	"fmt"

	"github.com/vk/transitionsim/internal/config"
	"gopkg.in/yaml.v3"
)

// document is the on-disk YAML layout of one scenario.
type document struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description,omitempty"`
	Overrides   map[string]any `yaml:"overrides"`
}

// EncodeYAML renders s as a YAML document.
func EncodeYAML(s Scenario) ([]byte, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	overrides := map[string]any(config.Clone(s.Overrides))
	if overrides == nil {
		overrides = map[string]any{}
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(document{Name: s.Name, Description: s.Description, Overrides: overrides}); err != nil {
		return nil, fmt.Errorf("encode scenario %q: %w", s.Name, err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode scenario %q: %w", s.Name, err)
	}
	return buf.Bytes(), nil
}

// DecodeYAML parses a YAML scenario document.
func DecodeYAML(data []byte) (Scenario, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Scenario{}, fmt.Errorf("%w: %v", ErrInvalidScenario, err)
	}
	return New(doc.Name, doc.Description, config.Config(doc.Overrides))
}

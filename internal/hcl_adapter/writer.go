package hcl_adapter

import (
	"fmt"
	"io"

	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/vk/transitionsim/internal/scenario"
	"github.com/zclconf/go-cty/cty"
)

// WriteScenario renders s as a scenario block that Load reads back into an
// equivalent ScenarioSpec.
func WriteScenario(w io.Writer, s scenario.Scenario) error {
	if err := s.Validate(); err != nil {
		return err
	}
	overrides, err := NewConverter().ToCtyValue(map[string]any(s.Overrides))
	if err != nil {
		return fmt.Errorf("scenario %q: overrides: %w", s.Name, err)
	}

	f := hclwrite.NewEmptyFile()
	block := f.Body().AppendNewBlock("scenario", []string{s.Name})
	if s.Description != "" {
		block.Body().SetAttributeValue("description", cty.StringVal(s.Description))
	}
	block.Body().SetAttributeValue("overrides", overrides)

	_, err = f.WriteTo(w)
	return err
}

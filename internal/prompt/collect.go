package prompt

import (
	"context"
	"fmt"

	"github.com/a3tai/mcp-pdf-form-filler/internal/pdf/acroform"
)

// Collector builds a record by asking for every inspected field in order.
// Current field values are offered as defaults.
type Collector struct {
	driver Driver
}

// NewCollector creates a collector on top of a prompt driver
func NewCollector(driver Driver) *Collector {
	return &Collector{driver: driver}
}

// Collect prompts for each descriptor and returns the answers. Text fields
// left empty without a current value are not included.
func (c *Collector) Collect(ctx context.Context, descriptors []acroform.Descriptor) (acroform.Record, error) {
	record := acroform.Record{}

	for _, desc := range descriptors {
		value, include, err := c.ask(ctx, desc)
		if err != nil {
			return nil, fmt.Errorf("failed to read value for %q: %w", desc.Name, err)
		}
		if include {
			record[desc.Name] = value
		}
	}

	return record, nil
}

func (c *Collector) ask(ctx context.Context, desc acroform.Descriptor) (interface{}, bool, error) {
	message := fmt.Sprintf("%s (%s)", desc.Name, desc.Type)

	switch desc.Type {
	case acroform.FieldTypeCheckbox:
		current, _ := desc.Value.(bool)
		on, err := c.driver.Confirm(ctx, ConfirmConfig{Message: message, Default: current})
		return on, err == nil, err

	case acroform.FieldTypeRadio, acroform.FieldTypeCombo:
		if len(desc.Choices) == 0 {
			return nil, false, nil
		}
		current, _ := desc.Value.(string)
		idx, err := c.driver.Select(ctx, SelectConfig{
			Message:      message,
			Options:      desc.Choices,
			DefaultIndex: indexOf(desc.Choices, current),
		})
		if err != nil {
			return nil, false, err
		}
		if idx < 0 || idx >= len(desc.Choices) {
			return nil, false, nil
		}
		return desc.Choices[idx], true, nil

	case acroform.FieldTypeList:
		current, _ := desc.Value.([]string)
		indices, err := c.driver.MultiSelect(ctx, SelectConfig{
			Message:  message,
			Options:  desc.Choices,
			Defaults: indicesOf(desc.Choices, current),
		})
		if err != nil {
			return nil, false, err
		}
		values := make([]string, 0, len(indices))
		for _, idx := range indices {
			if idx >= 0 && idx < len(desc.Choices) {
				values = append(values, desc.Choices[idx])
			}
		}
		return values, true, nil

	default:
		current, _ := desc.Value.(string)
		text, err := c.driver.Input(ctx, InputConfig{Message: message, Default: current})
		if err != nil {
			return nil, false, err
		}
		return text, text != "" || current != "", nil
	}
}

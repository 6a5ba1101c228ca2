package acroform

import (
	"fmt"
	"log"
)

// Descriptor describes one logical field of a document. Value and Choices
// are omitted when empty.
type Descriptor struct {
	Name    string      `json:"name" yaml:"name"`
	Type    FieldType   `json:"type" yaml:"type"`
	Value   interface{} `json:"value,omitempty" yaml:"value,omitempty"`
	Choices []string    `json:"choices,omitempty" yaml:"choices,omitempty"`
}

// Inspector lists the fields of a document with their current values
type Inspector struct {
	debugMode bool
}

// NewInspector creates a new form inspector
func NewInspector(debugMode bool) *Inspector {
	return &Inspector{debugMode: debugMode}
}

// Inspect returns one descriptor per distinct field in document order
func (i *Inspector) Inspect(doc *Document) ([]Descriptor, error) {
	fields, err := doc.Fields()
	if err != nil {
		return nil, err
	}

	descriptors := make([]Descriptor, 0, len(fields))
	for _, field := range fields {
		desc, err := i.describe(doc, field)
		if err != nil {
			return nil, fmt.Errorf("failed to inspect field %q: %w", field.Name, err)
		}
		descriptors = append(descriptors, desc)
	}

	if i.debugMode {
		log.Printf("Inspected %d fields on %d pages", len(descriptors), doc.PageCount())
	}

	return descriptors, nil
}

func (i *Inspector) describe(doc *Document, field *Field) (Descriptor, error) {
	desc := Descriptor{Name: field.Name, Type: field.Type}

	c, ok := codecFor(field.Type)
	if !ok {
		return desc, nil
	}

	value, err := c.decode(doc, field)
	if err != nil {
		return desc, err
	}
	desc.Value = omitEmpty(value)

	choices, err := c.choices(doc, field)
	if err != nil {
		return desc, err
	}
	if len(choices) > 0 {
		desc.Choices = choices
	}

	return desc, nil
}

func omitEmpty(value interface{}) interface{} {
	switch v := value.(type) {
	case string:
		if v == "" {
			return nil
		}
	case []string:
		if len(v) == 0 {
			return nil
		}
	}
	return value
}

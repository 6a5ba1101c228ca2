package acroform

import (
	"fmt"
	"log"
	"sort"
)

// Record maps field names to application values
type Record map[string]interface{}

// FillResult reports what a fill pass did
type FillResult struct {
	// Filled lists the field names that received a value, in document order
	Filled []string `json:"filled"`
	// Unmatched lists data keys that named no field, sorted
	Unmatched []string `json:"unmatched,omitempty"`
	// Renamed is the number of fields whose partial name got the suffix
	Renamed int `json:"renamed,omitempty"`
}

// Filler writes record values into a document's fields
type Filler struct {
	debugMode bool
}

// NewFiller creates a new form filler
func NewFiller(debugMode bool) *Filler {
	return &Filler{debugMode: debugMode}
}

// Fill writes data into doc and returns the same document. With a non-empty
// suffix every field is renamed to name+suffix after it has been filled.
func (f *Filler) Fill(doc *Document, data Record, suffix string) (*Document, error) {
	if _, err := f.FillWithResult(doc, data, suffix); err != nil {
		return nil, err
	}
	return doc, nil
}

// FillWithResult is Fill that also reports the matched and unmatched keys
func (f *Filler) FillWithResult(doc *Document, data Record, suffix string) (*FillResult, error) {
	fields, err := doc.Fields()
	if err != nil {
		return nil, err
	}

	result := &FillResult{}
	matched := make(map[string]bool)

	for _, field := range fields {
		if value, ok := data[field.Name]; ok {
			c, _ := codecFor(field.Type)
			if err := c.encode(doc, field, value); err != nil {
				return nil, fmt.Errorf("failed to fill field %q: %w", field.Name, err)
			}
			matched[field.Name] = true
			result.Filled = append(result.Filled, field.Name)

			if f.debugMode {
				log.Printf("Filled %s field %q on page %d", field.Type, field.Name, field.Page)
			}
		}

		if suffix != "" {
			field.Dict["T"] = encodeText(field.Name + suffix)
			result.Renamed++
		}
	}

	if err := doc.SetNeedAppearances(true); err != nil {
		return nil, err
	}

	for key := range data {
		if !matched[key] {
			result.Unmatched = append(result.Unmatched, key)
		}
	}
	sort.Strings(result.Unmatched)

	return result, nil
}

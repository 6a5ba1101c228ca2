// Package records loads field values for form filling from JSON, YAML and
// CSV files.
package records

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/a3tai/mcp-pdf-form-filler/internal/pdf/acroform"
)

// Format is the encoding of a records file
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatCSV  Format = "csv"
)

// FormatFromPath picks the format from a file extension. Unknown extensions
// are treated as JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".csv":
		return FormatCSV
	default:
		return FormatJSON
	}
}

// envelope is the object form of a records document
type envelope struct {
	Records []map[string]interface{} `json:"records" yaml:"records"`
}

// LoadFile reads a list of records from path
func LoadFile(path string) ([]acroform.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read records file: %w", err)
	}
	return Parse(data, FormatFromPath(path))
}

// LoadRecordFile reads a single record from path. A file holding a list
// must contain exactly one record.
func LoadRecordFile(path string) (acroform.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read data file: %w", err)
	}
	return ParseRecord(data, FormatFromPath(path))
}

// Parse decodes a list of records. JSON and YAML accept a list of objects, an
// object with a "records" list, or a single object.
func Parse(data []byte, format Format) ([]acroform.Record, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("records input is empty")
	}

	switch format {
	case FormatCSV:
		return parseCSV(bytes.NewReader(data))
	case FormatYAML:
		return parseStructured(data, yaml.Unmarshal)
	case FormatJSON:
		return parseStructured(data, json.Unmarshal)
	default:
		return nil, fmt.Errorf("unsupported records format: %s", format)
	}
}

// ParseRecord decodes exactly one record
func ParseRecord(data []byte, format Format) (acroform.Record, error) {
	list, err := Parse(data, format)
	if err != nil {
		return nil, err
	}
	if len(list) != 1 {
		return nil, fmt.Errorf("expected a single record, got %d", len(list))
	}
	return list[0], nil
}

func parseStructured(data []byte, unmarshal func([]byte, interface{}) error) ([]acroform.Record, error) {
	var list []map[string]interface{}
	if err := unmarshal(data, &list); err == nil {
		return toRecords(list), nil
	}

	var wrapped envelope
	if err := unmarshal(data, &wrapped); err == nil && wrapped.Records != nil {
		return toRecords(wrapped.Records), nil
	}

	var single map[string]interface{}
	if err := unmarshal(data, &single); err != nil {
		return nil, fmt.Errorf("failed to decode records: %w", err)
	}
	return []acroform.Record{acroform.Record(single)}, nil
}

func toRecords(list []map[string]interface{}) []acroform.Record {
	result := make([]acroform.Record, len(list))
	for i, m := range list {
		if m == nil {
			m = map[string]interface{}{}
		}
		result[i] = acroform.Record(m)
	}
	return result
}

// parseCSV reads a header row of field names followed by one record per row.
// Empty cells are left out of the record.
func parseCSV(r io.Reader) ([]acroform.Record, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	for i, name := range header {
		header[i] = strings.TrimSpace(name)
	}

	var result []acroform.Record
	for line := 2; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV line %d: %w", line, err)
		}

		record := acroform.Record{}
		for i, cell := range row {
			if i >= len(header) || header[i] == "" || cell == "" {
				continue
			}
			record[header[i]] = cell
		}
		result = append(result, record)
	}

	return result, nil
}

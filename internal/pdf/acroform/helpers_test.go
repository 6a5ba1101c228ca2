package acroform

import (
	"testing"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, data []byte) *Document {
	t.Helper()
	doc, err := Parse(data)
	require.NoError(t, err)
	return doc
}

func mustInspect(t *testing.T, doc *Document) []Descriptor {
	t.Helper()
	descriptors, err := NewInspector(false).Inspect(doc)
	require.NoError(t, err)
	return descriptors
}

func mustField(t *testing.T, doc *Document, name string) *Field {
	t.Helper()
	fields, err := doc.Fields()
	require.NoError(t, err)
	for _, f := range fields {
		if f.Name == name {
			return f
		}
	}
	t.Fatalf("field %q not found", name)
	return nil
}

func descriptorByName(descriptors []Descriptor, name string) (Descriptor, bool) {
	for _, d := range descriptors {
		if d.Name == name {
			return d, true
		}
	}
	return Descriptor{}, false
}

// kidStates returns the AS entry of every widget of f, "" when absent
func kidStates(t *testing.T, doc *Document, f *Field) []string {
	t.Helper()
	kids, err := doc.widgets(f)
	require.NoError(t, err)

	states := make([]string, 0, len(kids))
	for _, kid := range kids {
		state, _ := doc.nameEntry(kid, "AS")
		states = append(states, state)
	}
	return states
}

func hasKey(dict types.Dict, key string) bool {
	_, found := dict.Find(key)
	return found
}

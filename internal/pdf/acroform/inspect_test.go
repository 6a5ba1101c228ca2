package acroform

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/a3tai/mcp-pdf-form-filler/internal/pdf/pdftest"
)

var sampleChoices = []string{"One", "Two", "Three"}

func TestInspector_Inspect(t *testing.T) {
	doc := mustParse(t, pdftest.SampleForm(2))

	want := []Descriptor{
		{Name: "n", Type: FieldTypeText},
		{Name: "c", Type: FieldTypeCheckbox},
		{Name: "r", Type: FieldTypeRadio, Choices: []string{"A", "B", "C"}},
		{Name: "x", Type: FieldTypeCombo, Choices: sampleChoices},
		{Name: "l", Type: FieldTypeList, Choices: sampleChoices},
	}

	got := mustInspect(t, doc)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Inspect() mismatch (-want +got):\n%s", diff)
	}
}

func TestInspector_Idempotent(t *testing.T) {
	doc := mustParse(t, pdftest.SampleForm(1))
	_, err := NewFiller(false).Fill(doc, Record{"n": "v", "r": "B", "l": []string{"One"}}, "")
	require.NoError(t, err)

	inspector := NewInspector(true)
	first, err := inspector.Inspect(doc)
	require.NoError(t, err)
	second, err := inspector.Inspect(doc)
	require.NoError(t, err)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("second Inspect() differs (-first +second):\n%s", diff)
	}
}

func TestInspector_FilledValues(t *testing.T) {
	doc := mustParse(t, pdftest.SampleForm(1))
	_, err := NewFiller(false).Fill(doc, Record{
		"n": "hello",
		"c": true,
		"r": "C",
		"x": "Three",
		"l": []string{"Two", "One"},
	}, "")
	require.NoError(t, err)

	want := []Descriptor{
		{Name: "n", Type: FieldTypeText, Value: "hello"},
		{Name: "c", Type: FieldTypeCheckbox, Value: true},
		{Name: "r", Type: FieldTypeRadio, Value: "C", Choices: []string{"A", "B", "C"}},
		{Name: "x", Type: FieldTypeCombo, Value: "Three", Choices: sampleChoices},
		{Name: "l", Type: FieldTypeList, Value: []string{"One", "Two"}, Choices: sampleChoices},
	}

	if diff := cmp.Diff(want, mustInspect(t, doc)); diff != "" {
		t.Errorf("Inspect() mismatch (-want +got):\n%s", diff)
	}
}

func TestInspector_EmptyTextIsOmitted(t *testing.T) {
	doc := mustParse(t, pdftest.TextForm(1, "n"))
	_, err := NewFiller(false).Fill(doc, Record{"n": ""}, "")
	require.NoError(t, err)

	got := mustInspect(t, doc)
	require.Len(t, got, 1)
	assert.Nil(t, got[0].Value)
}

func TestInspector_NoForm(t *testing.T) {
	doc := mustParse(t, pdftest.Blank(2))

	got := mustInspect(t, doc)
	assert.Empty(t, got)
}

func TestDescriptor_OmitsEmptyKeys(t *testing.T) {
	desc := Descriptor{Name: "city", Type: FieldTypeText}

	data, err := json.Marshal(desc)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"city","type":"text"}`, string(data))

	out, err := yaml.Marshal(desc)
	require.NoError(t, err)
	assert.Equal(t, "name: city\ntype: text\n", string(out))

	// n and y are YAML 1.1 booleans and must survive as strings
	out, err = yaml.Marshal(Descriptor{Name: "n", Type: FieldTypeText})
	require.NoError(t, err)
	var decoded map[string]interface{}
	require.NoError(t, yaml.Unmarshal(out, &decoded))
	assert.Equal(t, map[string]interface{}{"name": "n", "type": "text"}, decoded)

	desc.Value = "v"
	desc.Choices = []string{"a"}
	data, err = json.Marshal(desc)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"city","type":"text","value":"v","choices":["a"]}`, string(data))
}

package acroform

import (
	"testing"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a3tai/mcp-pdf-form-filler/internal/pdf/errors"
	"github.com/a3tai/mcp-pdf-form-filler/internal/pdf/pdftest"
)

func TestTextCodec(t *testing.T) {
	tests := []struct {
		name  string
		value interface{}
		want  string
	}{
		{"ascii", "hello", "hello"},
		{"delimiters", `a (b) c\d`, `a (b) c\d`},
		{"newline", "line1\nline2", "line1\nline2"},
		{"non ascii", "Grüße, 東京", "Grüße, 東京"},
		{"integer", 42, "42"},
		{"float", 2.5, "2.5"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := mustParse(t, pdftest.SampleForm(1))
			f := mustField(t, doc, "n")

			require.NoError(t, textCodec{}.encode(doc, f, tt.value))

			got, err := textCodec{}.decode(doc, f)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			as, ok := doc.textEntry(f.Dict, "AS")
			assert.True(t, ok)
			assert.Equal(t, tt.want, as)
		})
	}
}

func TestTextCodec_Unset(t *testing.T) {
	doc := mustParse(t, pdftest.SampleForm(1))

	got, err := textCodec{}.decode(doc, mustField(t, doc, "n"))
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestTextCodec_InvalidValue(t *testing.T) {
	doc := mustParse(t, pdftest.SampleForm(1))
	f := mustField(t, doc, "n")

	err := textCodec{}.encode(doc, f, []int{1, 2})
	assert.ErrorIs(t, err, errors.ErrInvalidValue)
	assert.False(t, hasKey(f.Dict, "V"))
}

func TestCheckboxCodec(t *testing.T) {
	tests := []struct {
		name      string
		value     interface{}
		wantState string
	}{
		{"bool true", true, "Yes"},
		{"bool false", false, ""},
		{"yes string", "yes", "Yes"},
		{"off string", "Off", ""},
		{"export override", Check{On: true, Export: "/On"}, "On"},
		{"override without slash", &Check{On: true, Export: "Ja"}, "Ja"},
		{"map value", map[string]interface{}{"value": true, "export": "Si"}, "Si"},
		{"map on key", map[string]interface{}{"on": "true"}, "Yes"},
		{"override ignored when off", Check{On: false, Export: "On"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := mustParse(t, pdftest.SampleForm(1))
			f := mustField(t, doc, "c")

			require.NoError(t, checkboxCodec{}.encode(doc, f, tt.value))

			v, hasV := doc.nameEntry(f.Dict, "V")
			as, hasAS := doc.nameEntry(f.Dict, "AS")
			got, err := checkboxCodec{}.decode(doc, f)
			require.NoError(t, err)

			if tt.wantState == "" {
				assert.False(t, hasV)
				assert.False(t, hasAS)
				assert.Nil(t, got)
				return
			}
			assert.Equal(t, tt.wantState, v)
			assert.Equal(t, tt.wantState, as)
			assert.Equal(t, true, got)
		})
	}
}

func TestCheckboxCodec_InvalidValue(t *testing.T) {
	doc := mustParse(t, pdftest.SampleForm(1))
	f := mustField(t, doc, "c")

	for _, value := range []interface{}{3.5, "maybe", map[string]interface{}{"export": "Yes"}} {
		err := checkboxCodec{}.encode(doc, f, value)
		assert.ErrorIs(t, err, errors.ErrInvalidValue, "value %v", value)
	}
	assert.False(t, hasKey(f.Dict, "V"))
}

func TestCheckboxCodec_InferredExportIsFirstNonOffState(t *testing.T) {
	d := pdftest.NewDocument(1)
	on, off := d.AddStream("<<>>", ""), d.AddStream("<<>>", "")
	cb := d.Addf("<< /Type /Annot /Subtype /Widget /FT /Btn /T (multi) /Rect [0 0 10 10] /AP << /N << /Zulu %s /Alpha %s /Off %s >> >> >>",
		pdftest.Ref(on), pdftest.Ref(on), pdftest.Ref(off))
	d.Annotate(1, cb)
	d.AddField(cb)
	doc := mustParse(t, d.Bytes())
	f := mustField(t, doc, "multi")

	assert.Equal(t, []string{"Alpha", "Off", "Zulu"}, doc.appearanceStates(f.Dict))

	require.NoError(t, checkboxCodec{}.encode(doc, f, true))
	v, _ := doc.nameEntry(f.Dict, "V")
	assert.Equal(t, "Alpha", v, "states are enumerated in ascending order")
}

func TestCheckboxCodec_NoOnState(t *testing.T) {
	d := pdftest.NewDocument(1)
	cb := d.Add("<< /Type /Annot /Subtype /Widget /FT /Btn /T (bare) /Rect [0 0 10 10] >>")
	d.Annotate(1, cb)
	d.AddField(cb)
	doc := mustParse(t, d.Bytes())
	f := mustField(t, doc, "bare")

	err := checkboxCodec{}.encode(doc, f, true)
	assert.ErrorIs(t, err, errors.ErrMalformedDocument)

	require.NoError(t, checkboxCodec{}.encode(doc, f, false), "unchecking needs no export name")
}

func TestRadioCodec(t *testing.T) {
	tests := []struct {
		value      interface{}
		wantStates []string
	}{
		{"A", []string{"A", "Off", "Off"}},
		{"B", []string{"Off", "B", "Off"}},
		{"/C", []string{"Off", "Off", "C"}},
		{"Z", []string{"Off", "Off", "Off"}},
	}

	for _, tt := range tests {
		t.Run(tt.value.(string), func(t *testing.T) {
			doc := mustParse(t, pdftest.SampleForm(1))
			f := mustField(t, doc, "r")

			require.NoError(t, radioCodec{}.encode(doc, f, tt.value))
			assert.Equal(t, tt.wantStates, kidStates(t, doc, f))

			got, err := radioCodec{}.decode(doc, f)
			require.NoError(t, err)
			want := tt.value.(string)
			if want[0] == '/' {
				want = want[1:]
			}
			assert.Equal(t, want, got)
		})
	}
}

func TestRadioCodec_Choices(t *testing.T) {
	d := pdftest.NewDocument(1)
	d.RadioGroup("size", nil, "M", "S", "M", "L")
	doc := mustParse(t, d.Bytes())

	choices, err := radioCodec{}.choices(doc, mustField(t, doc, "size"))
	require.NoError(t, err)
	assert.Equal(t, []string{"M", "S", "L"}, choices)
}

func TestRadioCodec_Kidless(t *testing.T) {
	d := pdftest.NewDocument(1)
	solo := d.Addf("<< /Type /Annot /Subtype /Widget /FT /Btn /Ff 49152 /T (solo) /Rect [0 0 10 10] /AP %s >>", d.AP("On"))
	d.Annotate(1, solo)
	d.AddField(solo)
	doc := mustParse(t, d.Bytes())
	f := mustField(t, doc, "solo")

	require.NoError(t, radioCodec{}.encode(doc, f, "On"))
	as, _ := doc.nameEntry(f.Dict, "AS")
	assert.Equal(t, "On", as)

	choices, err := radioCodec{}.choices(doc, f)
	require.NoError(t, err)
	assert.Equal(t, []string{"On"}, choices)
}

func TestComboCodec(t *testing.T) {
	doc := mustParse(t, pdftest.SampleForm(1))
	f := mustField(t, doc, "x")

	got, err := comboCodec{}.decode(doc, f)
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, comboCodec{}.encode(doc, f, "Two"))
	stored, _ := doc.textEntry(f.Dict, "V")
	assert.Equal(t, "ex2", stored)
	as, _ := doc.textEntry(f.Dict, "AS")
	assert.Equal(t, "ex2", as)

	got, err = comboCodec{}.decode(doc, f)
	require.NoError(t, err)
	assert.Equal(t, "Two", got)

	choices, err := comboCodec{}.choices(doc, f)
	require.NoError(t, err)
	assert.Equal(t, []string{"One", "Two", "Three"}, choices)
}

func TestComboCodec_ValueNotFound(t *testing.T) {
	doc := mustParse(t, pdftest.SampleForm(1))
	f := mustField(t, doc, "x")
	require.NoError(t, comboCodec{}.encode(doc, f, "One"))

	err := comboCodec{}.encode(doc, f, "not-an-option")
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrValueNotFound)
	assert.Contains(t, err.Error(), "not-an-option")

	got, err := comboCodec{}.decode(doc, f)
	require.NoError(t, err)
	assert.Equal(t, "One", got, "prior value is unchanged")
}

func TestComboCodec_MatchIsExactOnDisplay(t *testing.T) {
	doc := mustParse(t, pdftest.SampleForm(1))
	f := mustField(t, doc, "x")

	for _, value := range []string{"ex1", "one", " One"} {
		err := comboCodec{}.encode(doc, f, value)
		assert.ErrorIs(t, err, errors.ErrValueNotFound, "value %q", value)
	}
}

func TestComboCodec_UnmatchedStoredValue(t *testing.T) {
	doc := mustParse(t, pdftest.SampleForm(1))
	f := mustField(t, doc, "x")
	f.Dict["V"] = types.StringLiteral("custom")

	got, err := comboCodec{}.decode(doc, f)
	require.NoError(t, err)
	assert.Equal(t, "custom", got)
}

func TestListCodec(t *testing.T) {
	tests := []struct {
		name        string
		value       interface{}
		wantExports []string
		want        interface{}
	}{
		{"strings", []string{"Three", "One"}, []string{"ex3", "ex1"}, []string{"One", "Three"}},
		{"interfaces", []interface{}{"Two"}, []string{"ex2"}, []string{"Two"}},
		{"single string", "Three", []string{"ex3"}, []string{"Three"}},
		{"empty", []string{}, []string{}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := mustParse(t, pdftest.SampleForm(1))
			f := mustField(t, doc, "l")

			require.NoError(t, listCodec{}.encode(doc, f, tt.value))

			arr, err := doc.arrayEntry(f.Dict, "V")
			require.NoError(t, err)
			exports := make([]string, 0, len(arr))
			for _, obj := range arr {
				s, _ := doc.text(obj)
				exports = append(exports, s)
			}
			assert.Equal(t, tt.wantExports, exports)

			got, err := listCodec{}.decode(doc, f)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestListCodec_FailFast(t *testing.T) {
	doc := mustParse(t, pdftest.SampleForm(1))
	f := mustField(t, doc, "l")
	require.NoError(t, listCodec{}.encode(doc, f, []string{"Two"}))

	err := listCodec{}.encode(doc, f, []string{"One", "Four", "Five"})
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrValueNotFound)
	assert.Contains(t, err.Error(), `"Four"`)
	assert.NotContains(t, err.Error(), "Five")

	got, err := listCodec{}.decode(doc, f)
	require.NoError(t, err)
	assert.Equal(t, []string{"Two"}, got, "no partial update")
}

func TestListCodec_InvalidValue(t *testing.T) {
	doc := mustParse(t, pdftest.SampleForm(1))
	err := listCodec{}.encode(doc, mustField(t, doc, "l"), []interface{}{"One", true})
	assert.ErrorIs(t, err, errors.ErrInvalidValue)
}

func TestLookupExport_LastMatchWins(t *testing.T) {
	opts := []option{
		{Export: "a", Display: "Same"},
		{Export: "b", Display: "Other"},
		{Export: "c", Display: "Same"},
	}

	export, found := lookupExport(opts, "Same")
	assert.True(t, found)
	assert.Equal(t, "c", export)

	_, found = lookupExport(opts, "Missing")
	assert.False(t, found)
}

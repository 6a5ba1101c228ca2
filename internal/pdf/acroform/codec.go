package acroform

import (
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/a3tai/mcp-pdf-form-filler/internal/pdf/errors"
)

// codec encodes application values into a field's dictionaries and decodes
// the stored state back. encode computes the complete new state before it
// touches the document, so a failing encode leaves the field unchanged.
type codec interface {
	encode(d *Document, f *Field, value interface{}) error
	decode(d *Document, f *Field) (interface{}, error)
	choices(d *Document, f *Field) ([]string, error)
}

var codecs = map[FieldType]codec{
	FieldTypeText:     textCodec{},
	FieldTypeCheckbox: checkboxCodec{},
	FieldTypeRadio:    radioCodec{},
	FieldTypeCombo:    comboCodec{},
	FieldTypeList:     listCodec{},
}

func codecFor(t FieldType) (codec, bool) {
	c, ok := codecs[t]
	return c, ok
}

type textCodec struct{}

func (textCodec) encode(d *Document, f *Field, value interface{}) error {
	s, ok := textValue(value)
	if !ok {
		return errors.NewInvalidValue(f.Name, string(f.Type), value)
	}

	f.Dict["V"] = encodeText(s)
	f.Dict["AS"] = encodeText(s)
	return nil
}

func (textCodec) decode(d *Document, f *Field) (interface{}, error) {
	s, ok := d.textEntry(f.Dict, "V")
	if !ok {
		return nil, nil
	}
	return s, nil
}

func (textCodec) choices(*Document, *Field) ([]string, error) {
	return nil, nil
}

type checkboxCodec struct{}

func (checkboxCodec) encode(d *Document, f *Field, value interface{}) error {
	check, ok := checkValue(value)
	if !ok {
		return errors.NewInvalidValue(f.Name, string(f.Type), value)
	}

	widgets, err := d.widgets(f)
	if err != nil {
		return err
	}

	export := strings.TrimPrefix(check.Export, "/")
	if export == "" && check.On {
		export = d.onState(f.Dict)
		for _, w := range widgets {
			if export != "" {
				break
			}
			export = d.onState(w)
		}
		if export == "" {
			return errors.NewMalformedDocument("checkbox has no on appearance state", nil).WithField(f.Name)
		}
	}

	if !check.On {
		delete(f.Dict, "V")
		delete(f.Dict, "AS")
		for _, w := range widgets {
			delete(w, "AS")
		}
		return nil
	}

	states := make([]types.Name, len(widgets))
	for i, w := range widgets {
		states[i] = types.Name(stateOff)
		if d.hasState(w, export) {
			states[i] = types.Name(export)
		}
	}

	for i, w := range widgets {
		w["AS"] = states[i]
	}
	f.Dict["V"] = types.Name(export)
	f.Dict["AS"] = types.Name(export)
	return nil
}

func (checkboxCodec) decode(d *Document, f *Field) (interface{}, error) {
	v, ok := d.nameEntry(f.Dict, "V")
	if !ok || v == stateOff {
		return nil, nil
	}
	return true, nil
}

func (checkboxCodec) choices(*Document, *Field) ([]string, error) {
	return nil, nil
}

type radioCodec struct{}

func (radioCodec) encode(d *Document, f *Field, value interface{}) error {
	s, ok := textValue(value)
	if !ok {
		return errors.NewInvalidValue(f.Name, string(f.Type), value)
	}
	s = strings.TrimPrefix(s, "/")

	kids, err := d.widgets(f)
	if err != nil {
		return err
	}

	states := make([]types.Name, len(kids))
	for i, kid := range kids {
		states[i] = types.Name(stateOff)
		if d.onState(kid) == s {
			states[i] = types.Name(s)
		}
	}

	for i, kid := range kids {
		kid["AS"] = states[i]
	}
	f.Dict["V"] = types.Name(s)
	return nil
}

func (radioCodec) decode(d *Document, f *Field) (interface{}, error) {
	v, ok := d.nameEntry(f.Dict, "V")
	if !ok {
		return nil, nil
	}
	return strings.TrimPrefix(v, "/"), nil
}

func (radioCodec) choices(d *Document, f *Field) ([]string, error) {
	kids, err := d.widgets(f)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var result []string
	for _, kid := range kids {
		export := d.onState(kid)
		if export == "" || seen[export] {
			continue
		}
		seen[export] = true
		result = append(result, export)
	}
	return result, nil
}

type comboCodec struct{}

func (comboCodec) encode(d *Document, f *Field, value interface{}) error {
	s, ok := textValue(value)
	if !ok {
		return errors.NewInvalidValue(f.Name, string(f.Type), value)
	}

	opts, err := d.options(f)
	if err != nil {
		return err
	}

	export, found := lookupExport(opts, s)
	if !found {
		return errors.NewValueNotFound(f.Name, s)
	}

	f.Dict["V"] = encodeText(export)
	f.Dict["AS"] = encodeText(export)
	return nil
}

func (comboCodec) decode(d *Document, f *Field) (interface{}, error) {
	stored, ok := d.textEntry(f.Dict, "V")
	if !ok {
		return nil, nil
	}

	opts, err := d.options(f)
	if err != nil {
		return nil, err
	}
	for _, opt := range opts {
		if opt.Export == stored {
			return opt.Display, nil
		}
	}
	return stored, nil
}

func (comboCodec) choices(d *Document, f *Field) ([]string, error) {
	return displayValues(d, f)
}

type listCodec struct{}

func (listCodec) encode(d *Document, f *Field, value interface{}) error {
	values, ok := listValue(value)
	if !ok {
		return errors.NewInvalidValue(f.Name, string(f.Type), value)
	}

	opts, err := d.options(f)
	if err != nil {
		return err
	}

	exports := make([]string, 0, len(values))
	for _, v := range values {
		export, found := lookupExport(opts, v)
		if !found {
			return errors.NewValueNotFound(f.Name, v)
		}
		exports = append(exports, export)
	}

	f.Dict["V"] = encodeTexts(exports)
	f.Dict["AS"] = encodeTexts(exports)
	return nil
}

func (listCodec) decode(d *Document, f *Field) (interface{}, error) {
	obj, found := f.Dict.Find("V")
	if !found || obj == nil {
		return nil, nil
	}

	selected := make(map[string]bool)
	if s, ok := d.text(obj); ok {
		selected[s] = true
	} else {
		arr, err := d.ctx.DereferenceArray(obj)
		if err != nil {
			return nil, errors.NewMalformedDocument("failed to dereference list value", err).WithField(f.Name)
		}
		for _, item := range arr {
			if s, ok := d.text(item); ok {
				selected[s] = true
			}
		}
	}

	opts, err := d.options(f)
	if err != nil {
		return nil, err
	}

	var result []string
	for _, opt := range opts {
		if selected[opt.Export] {
			result = append(result, opt.Display)
		}
	}
	if len(result) == 0 {
		return nil, nil
	}
	return result, nil
}

func (listCodec) choices(d *Document, f *Field) ([]string, error) {
	return displayValues(d, f)
}

// lookupExport maps a display value to its export value. When several rows
// share the display value the last one wins.
func lookupExport(opts []option, display string) (string, bool) {
	export, found := "", false
	for _, opt := range opts {
		if opt.Display == display {
			export, found = opt.Export, true
		}
	}
	return export, found
}

func displayValues(d *Document, f *Field) ([]string, error) {
	opts, err := d.options(f)
	if err != nil {
		return nil, err
	}

	result := make([]string, 0, len(opts))
	for _, opt := range opts {
		result = append(result, opt.Display)
	}
	return result, nil
}

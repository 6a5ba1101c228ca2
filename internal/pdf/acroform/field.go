package acroform

import (
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/a3tai/mcp-pdf-form-filler/internal/pdf/errors"
)

// FieldType is the derived type of a logical field
type FieldType string

const (
	FieldTypeText     FieldType = "text"
	FieldTypeCombo    FieldType = "combo"
	FieldTypeList     FieldType = "list"
	FieldTypeCheckbox FieldType = "checkbox"
	FieldTypeRadio    FieldType = "radio"
	FieldTypeUnknown  FieldType = ""
)

// Field flag bits consumed by the resolver
const (
	flagRadio = 1 << 15
	flagCombo = 1 << 17
)

const stateOff = "Off"

// Field is the logical field a widget annotation belongs to. Dict is the
// field's own dictionary inside the document; mutating it mutates the
// document.
type Field struct {
	Name string
	Type FieldType
	Page int
	Ref  *types.IndirectRef
	Dict types.Dict
}

// key identifies the field object for deduplication
func (f *Field) key() string {
	if f.Ref != nil {
		return fmt.Sprintf("obj:%d", f.Ref.ObjectNumber)
	}
	return fmt.Sprintf("dict:%p", f.Dict)
}

// Resolve returns the logical field of a widget annotation. An annotation
// without a partial name stands for its parent, which must carry one.
func Resolve(doc *Document, annot Annotation) (*Field, error) {
	field := &Field{Page: annot.Page, Ref: annot.Ref, Dict: annot.Dict}

	name, _ := doc.textEntry(annot.Dict, "T")
	if name == "" {
		parent, parentRef, err := doc.dictEntry(annot.Dict, "Parent")
		if err != nil {
			return nil, errors.NewMalformedDocument("failed to dereference widget parent", err).WithPage(annot.Page)
		}
		if parent == nil {
			return nil, errors.NewUnresolvedField(annot.Page, "widget has neither a partial name nor a parent")
		}

		name, _ = doc.textEntry(parent, "T")
		if name == "" {
			return nil, errors.NewUnresolvedField(annot.Page, "widget parent has no partial name")
		}
		field.Ref = parentRef
		field.Dict = parent
	}

	field.Name = name
	field.Type = doc.classify(field.Dict)
	return field, nil
}

// classify derives the field type from FT and Ff, both inheritable
func (d *Document) classify(dict types.Dict) FieldType {
	var ft string
	if obj, ok := d.inherited(dict, "FT"); ok {
		ft, _ = d.name(obj)
	}

	flags := 0
	if obj, ok := d.inherited(dict, "Ff"); ok {
		flags, _ = d.integer(obj)
	}

	switch ft {
	case "Tx":
		return FieldTypeText
	case "Ch":
		if flags&flagCombo != 0 {
			return FieldTypeCombo
		}
		return FieldTypeList
	case "Btn":
		if flags&flagRadio != 0 {
			return FieldTypeRadio
		}
		return FieldTypeCheckbox
	}
	return FieldTypeUnknown
}

// Fields returns every distinct classified field in document order. Widgets
// sharing a field yield it once; fields of unknown type are skipped.
func (d *Document) Fields() ([]*Field, error) {
	widgets, err := d.Widgets()
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var fields []*Field
	for _, widget := range widgets {
		field, err := Resolve(d, widget)
		if err != nil {
			return nil, err
		}
		if field.Type == FieldTypeUnknown {
			continue
		}

		key := field.key()
		if seen[key] {
			continue
		}
		seen[key] = true
		fields = append(fields, field)
	}
	return fields, nil
}

// widgets returns the widget dictionaries of a field: its Kids, or the field
// itself when it has none
func (d *Document) widgets(f *Field) ([]types.Dict, error) {
	kids, err := d.arrayEntry(f.Dict, "Kids")
	if err != nil {
		return nil, errors.NewMalformedDocument("failed to dereference Kids", err).WithField(f.Name)
	}
	if len(kids) == 0 {
		return []types.Dict{f.Dict}, nil
	}

	result := make([]types.Dict, 0, len(kids))
	for _, obj := range kids {
		kid, _, err := d.dict(obj)
		if err != nil {
			return nil, errors.NewMalformedDocument("failed to dereference kid", err).WithField(f.Name)
		}
		if kid != nil {
			result = append(result, kid)
		}
	}
	return result, nil
}

// option is one row of a choice field's options table
type option struct {
	Export  string
	Display string
}

// options reads the Opt table. Entries are [export display] pairs or a
// single text string used for both.
func (d *Document) options(f *Field) ([]option, error) {
	opt, err := d.arrayEntry(f.Dict, "Opt")
	if err != nil {
		return nil, errors.NewMalformedDocument("failed to dereference Opt", err).WithField(f.Name)
	}

	result := make([]option, 0, len(opt))
	for _, entry := range opt {
		if s, ok := d.text(entry); ok {
			result = append(result, option{Export: s, Display: s})
			continue
		}

		pair, err := d.ctx.DereferenceArray(entry)
		if err != nil || len(pair) < 2 {
			return nil, errors.NewMalformedDocument("invalid Opt entry", err).WithField(f.Name)
		}
		export, _ := d.text(pair[0])
		display, _ := d.text(pair[1])
		result = append(result, option{Export: export, Display: display})
	}
	return result, nil
}

// Package acroform fills, inspects and replicates AcroForm fields on top of
// the pdfcpu object model. Documents are mutated in place; a batch parses a
// fresh Document from the template bytes for every record instead of
// copying object graphs.
package acroform

import (
	"bytes"
	"fmt"
	"io"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/a3tai/mcp-pdf-form-filler/internal/pdf/errors"
)

// Document is a parsed PDF whose object graph is read and written in place
type Document struct {
	ctx *model.Context
}

// Annotation is one entry of a page's Annots array
type Annotation struct {
	Page int
	Ref  *types.IndirectRef
	Dict types.Dict
}

// newConfiguration returns the pdfcpu configuration used for every document
func newConfiguration() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}

// Open parses a PDF document from an io.ReadSeeker
func Open(rs io.ReadSeeker) (*Document, error) {
	ctx, err := api.ReadContext(rs, newConfiguration())
	if err != nil {
		return nil, fmt.Errorf("failed to read PDF context: %w", err)
	}

	if err := ctx.EnsurePageCount(); err != nil {
		return nil, fmt.Errorf("failed to ensure page count: %w", err)
	}

	return &Document{ctx: ctx}, nil
}

// Parse parses a PDF document from raw bytes. The bytes are not retained
// after parsing beyond what pdfcpu keeps for stream data.
func Parse(data []byte) (*Document, error) {
	return Open(bytes.NewReader(data))
}

// Context exposes the underlying pdfcpu context
func (d *Document) Context() *model.Context {
	return d.ctx
}

// PageCount returns the number of pages in the document
func (d *Document) PageCount() int {
	return d.ctx.PageCount
}

// Write serializes the document
func (d *Document) Write(w io.Writer) error {
	if err := api.WriteContext(d.ctx, w); err != nil {
		return fmt.Errorf("failed to write PDF: %w", err)
	}
	return nil
}

// Bytes serializes the document into memory
func (d *Document) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// page returns the page dictionary for a 1-based page number
func (d *Document) page(pageNr int) (types.Dict, *types.IndirectRef, error) {
	pageDict, pageRef, _, err := d.ctx.PageDict(pageNr, false)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get page %d: %w", pageNr, err)
	}
	if pageDict == nil {
		return nil, nil, errors.NewMalformedDocument(fmt.Sprintf("page %d not found", pageNr), nil)
	}
	return pageDict, pageRef, nil
}

// Annotations returns the annotations of a page in Annots order
func (d *Document) Annotations(pageNr int) ([]Annotation, error) {
	pageDict, _, err := d.page(pageNr)
	if err != nil {
		return nil, err
	}

	annots, err := d.arrayEntry(pageDict, "Annots")
	if err != nil {
		return nil, errors.NewMalformedDocument("failed to dereference Annots", err).WithPage(pageNr)
	}

	result := make([]Annotation, 0, len(annots))
	for _, obj := range annots {
		dict, ref, err := d.dict(obj)
		if err != nil {
			return nil, errors.NewMalformedDocument("failed to dereference annotation", err).WithPage(pageNr)
		}
		if dict == nil {
			continue
		}
		result = append(result, Annotation{Page: pageNr, Ref: ref, Dict: dict})
	}

	return result, nil
}

// Widgets returns every Widget annotation of the document in page order
func (d *Document) Widgets() ([]Annotation, error) {
	var widgets []Annotation
	for pageNr := 1; pageNr <= d.ctx.PageCount; pageNr++ {
		annots, err := d.Annotations(pageNr)
		if err != nil {
			return nil, err
		}
		for _, annot := range annots {
			if subtype, _ := d.nameEntry(annot.Dict, "Subtype"); subtype == "Widget" {
				widgets = append(widgets, annot)
			}
		}
	}
	return widgets, nil
}

// registry returns the catalog's AcroForm dictionary. With create set, a
// missing registry is added to the catalog.
func (d *Document) registry(create bool) (types.Dict, error) {
	catalog, err := d.ctx.Catalog()
	if err != nil {
		return nil, fmt.Errorf("failed to get catalog: %w", err)
	}

	acroForm, _, err := d.dictEntry(catalog, "AcroForm")
	if err != nil {
		return nil, errors.NewMalformedDocument("failed to dereference AcroForm", err)
	}

	if acroForm == nil && create {
		acroForm = types.Dict{"Fields": types.Array{}}
		catalog["AcroForm"] = acroForm
	}

	return acroForm, nil
}

// SetNeedAppearances sets the registry flag telling viewers to regenerate
// field appearances
func (d *Document) SetNeedAppearances(need bool) error {
	acroForm, err := d.registry(true)
	if err != nil {
		return err
	}
	acroForm["NeedAppearances"] = types.Boolean(need)
	return nil
}

// NeedAppearances reports the registry's regenerate-appearances flag
func (d *Document) NeedAppearances() bool {
	acroForm, err := d.registry(false)
	if err != nil || acroForm == nil {
		return false
	}

	obj, found := acroForm.Find("NeedAppearances")
	if !found {
		return false
	}
	obj, err = d.ctx.Dereference(obj)
	if err != nil {
		return false
	}
	b, ok := obj.(types.Boolean)
	return ok && bool(b)
}

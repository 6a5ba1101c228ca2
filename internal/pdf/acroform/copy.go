package acroform

import (
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/a3tai/mcp-pdf-form-filler/internal/pdf/errors"
)

// inheritablePageAttrs are resolved through the page tree and written onto
// each copied page, since copies are re-parented under a new Pages node
var inheritablePageAttrs = []string{"MediaBox", "CropBox", "Resources", "Rotate"}

// merger collects pages and fields of filled copies into the output
// document, whose original pages it replaces
type merger struct {
	out      *Document
	pages    types.Dict
	pagesRef types.IndirectRef
	kids     types.Array
	fields   types.Array
}

func newMerger(out *Document) (*merger, error) {
	catalog, err := out.ctx.Catalog()
	if err != nil {
		return nil, fmt.Errorf("failed to get catalog: %w", err)
	}

	pagesObj, found := catalog.Find("Pages")
	pagesRef, ok := pagesObj.(types.IndirectRef)
	if !found || !ok {
		return nil, errors.NewMalformedDocument("catalog has no indirect Pages reference", nil)
	}

	pages, err := out.ctx.DereferenceDict(pagesRef)
	if err != nil || pages == nil {
		return nil, errors.NewMalformedDocument("failed to dereference page tree root", err)
	}

	return &merger{out: out, pages: pages, pagesRef: pagesRef}, nil
}

// add copies the pages of src listed in layout, blankPage included, and the
// form fields of src
func (m *merger) add(src *Document, layout []int) error {
	c := &copier{
		src:    src,
		dst:    m.out,
		memo:   make(map[int]types.IndirectRef),
		parent: m.pagesRef,
	}

	included := make(map[int]bool)
	for _, pageNr := range layout {
		if pageNr != blankPage {
			included[pageNr] = true
		}
	}

	// Register every page up front so annotations and destinations that
	// point at pages resolve to the copies; skipped pages are dropped.
	type pageCopy struct {
		dict types.Dict
		ref  types.IndirectRef
	}
	copies := make(map[int]pageCopy)
	for pageNr := 1; pageNr <= src.PageCount(); pageNr++ {
		dict, ref, err := src.page(pageNr)
		if err != nil {
			return err
		}
		if ref == nil {
			return errors.NewMalformedDocument(fmt.Sprintf("page %d is not an indirect object", pageNr), nil)
		}

		if !included[pageNr] {
			c.skip(*ref)
			continue
		}

		newRef, err := c.reserve(*ref)
		if err != nil {
			return err
		}
		copies[pageNr] = pageCopy{dict: dict, ref: newRef}
	}

	for _, pageNr := range layout {
		if pageNr == blankPage {
			ref, err := m.blank()
			if err != nil {
				return err
			}
			m.kids = append(m.kids, ref)
			continue
		}

		pc := copies[pageNr]
		if err := c.copyPage(pc.dict, pc.ref); err != nil {
			return fmt.Errorf("failed to copy page %d: %w", pageNr, err)
		}
		m.kids = append(m.kids, pc.ref)
	}

	registry, err := src.registry(false)
	if err != nil {
		return err
	}
	if registry == nil {
		return nil
	}

	fields, err := src.arrayEntry(registry, "Fields")
	if err != nil {
		return errors.NewMalformedDocument("failed to dereference Fields", err)
	}
	for _, obj := range fields {
		copied, err := c.copy(obj)
		if err != nil {
			return err
		}
		if copied != nil {
			m.fields = append(m.fields, copied)
		}
	}
	return nil
}

func (m *merger) blank() (types.IndirectRef, error) {
	page := types.Dict{
		"Type":   types.Name("Page"),
		"Parent": m.pagesRef,
		"MediaBox": types.Array{
			types.Integer(0), types.Integer(0),
			types.Float(blankPageWidth), types.Float(blankPageHeight),
		},
		"Resources": types.Dict{},
	}

	ref, err := m.out.ctx.IndRefForNewObject(page)
	if err != nil {
		return types.IndirectRef{}, fmt.Errorf("failed to add blank page: %w", err)
	}
	return *ref, nil
}

// staleCatalogKeys point at template pages, which the merged page tree no
// longer contains
var staleCatalogKeys = []string{"Outlines", "Dests", "OpenAction"}

// finish installs the collected pages and fields. The registry is the one
// parsed with the output document, with its Fields replaced, its calculation
// order dropped and NeedAppearances forced on.
func (m *merger) finish() error {
	m.pages["Kids"] = m.kids
	m.pages["Count"] = types.Integer(len(m.kids))
	m.out.ctx.PageCount = len(m.kids)

	if err := m.dropTemplateDestinations(); err != nil {
		return err
	}

	registry, err := m.out.registry(true)
	if err != nil {
		return err
	}
	registry["Fields"] = m.fields
	registry["NeedAppearances"] = types.Boolean(true)
	delete(registry, "CO")
	return nil
}

func (m *merger) dropTemplateDestinations() error {
	catalog, err := m.out.ctx.Catalog()
	if err != nil {
		return fmt.Errorf("failed to get catalog: %w", err)
	}
	for _, key := range staleCatalogKeys {
		delete(catalog, key)
	}
	delete(m.out.ctx.Names, "Dests")

	namesObj, found := catalog.Find("Names")
	if !found {
		return nil
	}
	names, err := m.out.ctx.DereferenceDict(namesObj)
	if err != nil {
		return errors.NewMalformedDocument("failed to dereference name dictionary", err)
	}
	if names != nil {
		delete(names, "Dests")
	}
	return nil
}

// copier deep-copies objects of one source document into the output
// document. memo maps source object numbers to their copies, which keeps
// shared objects shared and terminates on cycles.
type copier struct {
	src     *Document
	dst     *Document
	memo    map[int]types.IndirectRef
	dropped map[int]bool
	parent  types.IndirectRef
}

func (c *copier) skip(ref types.IndirectRef) {
	if c.dropped == nil {
		c.dropped = make(map[int]bool)
	}
	c.dropped[ref.ObjectNumber.Value()] = true
}

// reserve allocates the output object for ref ahead of copying it
func (c *copier) reserve(ref types.IndirectRef) (types.IndirectRef, error) {
	newRef, err := c.dst.ctx.IndRefForNewObject(types.Dict{})
	if err != nil {
		return types.IndirectRef{}, fmt.Errorf("failed to allocate object: %w", err)
	}
	c.memo[ref.ObjectNumber.Value()] = *newRef
	return *newRef, nil
}

func (c *copier) set(ref types.IndirectRef, obj types.Object) error {
	entry, found := c.dst.ctx.Table[ref.ObjectNumber.Value()]
	if !found || entry == nil {
		return errors.NewMalformedDocument(fmt.Sprintf("object %d was not allocated", ref.ObjectNumber.Value()), nil)
	}
	entry.Object = obj
	return nil
}

func (c *copier) copyPage(page types.Dict, ref types.IndirectRef) error {
	copied, err := c.copyDict(page, "Parent")
	if err != nil {
		return err
	}

	for _, key := range inheritablePageAttrs {
		if _, found := copied[key]; found {
			continue
		}
		obj, ok := c.src.inherited(page, key)
		if !ok {
			continue
		}
		value, err := c.copy(obj)
		if err != nil {
			return err
		}
		if value != nil {
			copied[key] = value
		}
	}

	copied["Parent"] = c.parent
	return c.set(ref, copied)
}

// copy returns a copy of obj valid in the output document. References to
// dropped pages and to page tree nodes yield nil.
func (c *copier) copy(obj types.Object) (types.Object, error) {
	switch v := obj.(type) {
	case types.IndirectRef:
		return c.copyRef(v)
	case types.Dict:
		return c.copyDict(v)
	case types.StreamDict:
		return c.copyStream(v)
	case types.Array:
		return c.copyArray(v)
	default:
		// names, strings, numbers and booleans are immutable values
		return obj, nil
	}
}

func (c *copier) copyRef(ref types.IndirectRef) (types.Object, error) {
	nr := ref.ObjectNumber.Value()
	if newRef, found := c.memo[nr]; found {
		return newRef, nil
	}
	if c.dropped[nr] {
		return nil, nil
	}

	target, err := c.src.ctx.Dereference(ref)
	if err != nil {
		return nil, errors.NewMalformedDocument(fmt.Sprintf("failed to dereference object %d", nr), err)
	}
	if target == nil {
		return nil, nil
	}
	if dict, ok := target.(types.Dict); ok {
		if t, _ := c.src.nameEntry(dict, "Type"); t == "Pages" {
			return nil, nil
		}
	}

	newRef, err := c.reserve(ref)
	if err != nil {
		return nil, err
	}

	copied, err := c.copy(target)
	if err != nil {
		return nil, err
	}
	if err := c.set(newRef, copied); err != nil {
		return nil, err
	}
	return newRef, nil
}

func (c *copier) copyDict(dict types.Dict, exclude ...string) (types.Dict, error) {
	copied := types.Dict{}
	for key, value := range dict {
		if contains(exclude, key) {
			continue
		}
		v, err := c.copy(value)
		if err != nil {
			return nil, err
		}
		if v != nil {
			copied[key] = v
		}
	}
	return copied, nil
}

func (c *copier) copyArray(arr types.Array) (types.Array, error) {
	copied := make(types.Array, 0, len(arr))
	for _, value := range arr {
		v, err := c.copy(value)
		if err != nil {
			return nil, err
		}
		if v == nil && value != nil {
			continue
		}
		copied = append(copied, v)
	}
	return copied, nil
}

// copyStream shares the encoded stream bytes and writes a direct Length
func (c *copier) copyStream(sd types.StreamDict) (types.StreamDict, error) {
	dict, err := c.copyDict(sd.Dict, "Length")
	if err != nil {
		return sd, err
	}

	length := int64(len(sd.Raw))
	dict["Length"] = types.Integer(length)

	copied := sd
	copied.Dict = dict
	copied.StreamLength = &length
	copied.StreamLengthObjNr = nil
	return copied, nil
}

func contains(keys []string, key string) bool {
	for _, k := range keys {
		if k == key {
			return true
		}
	}
	return false
}

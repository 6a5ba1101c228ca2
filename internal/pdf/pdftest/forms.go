package pdftest

import (
	"fmt"
	"strings"
)

// Radio flags: Radio | NoToggleToOff
const radioFlags = 1<<15 | 1<<14

const comboFlags = 1 << 17

// Options used by the sample choice fields
const SampleOptions = "[[(ex1) (One)] [(ex2) (Two)] [(ex3) (Three)]]"

// Document assembles pages, annotations and an AcroForm registry
type Document struct {
	*Builder

	catalog int
	pages   []int
	annots  [][]int
	fields  []int
	content int
	on, off int

	// NoRegistry omits the catalog's AcroForm entry
	NoRegistry bool
	// CalculationOrder lists all fields in the registry's CO array
	CalculationOrder bool
	// Outline adds a catalog outline and a named destination for page 1
	Outline bool
	// PageMediaBox puts the MediaBox on every page instead of the Pages node
	PageMediaBox bool
}

// NewDocument creates a document with pageCount empty pages
func NewDocument(pageCount int) *Document {
	d := &Document{Builder: New()}
	d.catalog = d.Reserve()
	for i := 0; i < pageCount; i++ {
		d.pages = append(d.pages, d.Reserve())
		d.annots = append(d.annots, nil)
	}
	d.content = d.AddStream("<<>>", "0 g 72 72 144 144 re f")
	return d
}

// PageRef returns the object number of page 1..n
func (d *Document) PageRef(page int) int {
	return d.pages[page-1]
}

// Annotate places annotation nr on a page
func (d *Document) Annotate(page, nr int) {
	d.annots[page-1] = append(d.annots[page-1], nr)
}

// AddField registers nr as a top-level field
func (d *Document) AddField(nr int) {
	d.fields = append(d.fields, nr)
}

func (d *Document) appearances() (int, int) {
	if d.on == 0 {
		d.on = d.AddStream("<< /Type /XObject /Subtype /Form /BBox [0 0 12 12] >>", "0 g 2 2 8 8 re f")
		d.off = d.AddStream("<< /Type /XObject /Subtype /Form /BBox [0 0 12 12] >>", "")
	}
	return d.on, d.off
}

// AP returns a normal appearance dictionary with the given on state and Off
func (d *Document) AP(onState string) string {
	on, off := d.appearances()
	return fmt.Sprintf("<< /N << /%s %s /Off %s >> >>", onState, Ref(on), Ref(off))
}

// TextField adds a text widget on page
func (d *Document) TextField(page int, name string) int {
	nr := d.Addf("<< /Type /Annot /Subtype /Widget /FT /Tx /T (%s) /Rect [72 700 272 720] /P %s >>",
		name, Ref(d.PageRef(page)))
	d.Annotate(page, nr)
	d.AddField(nr)
	return nr
}

// Checkbox adds a checkbox widget whose on state is onState
func (d *Document) Checkbox(page int, name, onState string) int {
	nr := d.Addf("<< /Type /Annot /Subtype /Widget /FT /Btn /T (%s) /Rect [72 660 84 672] /AP %s /P %s >>",
		name, d.AP(onState), Ref(d.PageRef(page)))
	d.Annotate(page, nr)
	d.AddField(nr)
	return nr
}

// RadioGroup adds a radio field with one unnamed kid per export. Kid i is
// placed on pages[i] when given, else on page 1.
func (d *Document) RadioGroup(name string, pages []int, exports ...string) (int, []int) {
	group := d.Reserve()
	kids := make([]int, len(exports))
	for i, export := range exports {
		page := 1
		if i < len(pages) {
			page = pages[i]
		}
		kids[i] = d.Addf("<< /Type /Annot /Subtype /Widget /Parent %s /Rect [%d 620 %d 632] /AP %s /AS /Off /P %s >>",
			Ref(group), 72+i*20, 84+i*20, d.AP(export), Ref(d.PageRef(page)))
		d.Annotate(page, kids[i])
	}
	d.Setf(group, "<< /FT /Btn /Ff %d /T (%s) /Kids %s >>", radioFlags, name, Refs(kids...))
	d.AddField(group)
	return group, kids
}

// Choice adds a combo or list widget with the given Opt array
func (d *Document) Choice(page int, name string, combo bool, opt string) int {
	flags := 0
	if combo {
		flags = comboFlags
	}
	nr := d.Addf("<< /Type /Annot /Subtype /Widget /FT /Ch /Ff %d /T (%s) /Rect [72 580 272 600] /Opt %s /P %s >>",
		flags, name, opt, Ref(d.PageRef(page)))
	d.Annotate(page, nr)
	d.AddField(nr)
	return nr
}

// Bytes writes the page tree, registry and catalog and serializes the file
func (d *Document) Bytes() []byte {
	pagesNode := d.Reserve()

	for i, page := range d.pages {
		var parts []string
		parts = append(parts, "/Type /Page", "/Parent "+Ref(pagesNode), "/Resources << >>", "/Contents "+Ref(d.content))
		if d.PageMediaBox {
			parts = append(parts, "/MediaBox [0 0 612 792]")
		}
		if len(d.annots[i]) > 0 {
			parts = append(parts, "/Annots "+Refs(d.annots[i]...))
		}
		d.Set(page, "<< "+strings.Join(parts, " ")+" >>")
	}

	mediaBox := " /MediaBox [0 0 612 792]"
	if d.PageMediaBox {
		mediaBox = ""
	}
	d.Setf(pagesNode, "<< /Type /Pages /Kids %s /Count %d%s >>", Refs(d.pages...), len(d.pages), mediaBox)

	var extra string
	if d.Outline {
		outlines := d.Reserve()
		item := d.Addf("<< /Title (Start) /Parent %s /Dest [%s /Fit] >>", Ref(outlines), Ref(d.pages[0]))
		d.Setf(outlines, "<< /Type /Outlines /First %s /Last %s /Count 1 >>", Ref(item), Ref(item))
		dests := d.Addf("<< /Names [(start) [%s /Fit]] >>", Ref(d.pages[0]))
		extra = fmt.Sprintf(" /Outlines %s /Names << /Dests %s >>", Ref(outlines), Ref(dests))
	}

	if d.NoRegistry {
		d.Setf(d.catalog, "<< /Type /Catalog /Pages %s%s >>", Ref(pagesNode), extra)
	} else {
		co := ""
		if d.CalculationOrder {
			co = " /CO " + Refs(d.fields...)
		}
		acroForm := d.Addf("<< /Fields %s /DA (/Helv 0 Tf 0 g)%s >>", Refs(d.fields...), co)
		d.Setf(d.catalog, "<< /Type /Catalog /Pages %s /AcroForm %s%s >>", Ref(pagesNode), Ref(acroForm), extra)
	}

	return d.Builder.Bytes(d.catalog)
}

// SampleForm returns a document with one field of every type on page 1:
// text "n", checkbox "c" (on state Yes), radio "r" (A, B, C), combo "x" and
// list "l" over SampleOptions, plus a link annotation and a signature field.
// With more than one page, radio kid C sits on the last page.
func SampleForm(pages int) []byte {
	d := NewDocument(pages)
	d.TextField(1, "n")
	d.Checkbox(1, "c", "Yes")
	d.RadioGroup("r", []int{1, 1, pages}, "A", "B", "C")
	d.Choice(1, "x", true, SampleOptions)
	d.Choice(1, "l", false, SampleOptions)

	link := d.Add("<< /Type /Annot /Subtype /Link /Rect [72 500 172 520] /Border [0 0 0] >>")
	d.Annotate(1, link)

	sig := d.Addf("<< /Type /Annot /Subtype /Widget /FT /Sig /T (s) /Rect [72 400 272 440] /P %s >>", Ref(d.PageRef(1)))
	d.Annotate(1, sig)
	d.AddField(sig)

	return d.Bytes()
}

// TextForm returns a document with a single text field on page 1
func TextForm(pages int, name string) []byte {
	d := NewDocument(pages)
	d.TextField(1, name)
	return d.Bytes()
}

// UnnamedWidgetForm returns a document with a widget whose parent carries no
// partial name
func UnnamedWidgetForm() []byte {
	d := NewDocument(1)
	parent := d.Reserve()
	widget := d.Addf("<< /Type /Annot /Subtype /Widget /Parent %s /Rect [72 700 272 720] >>", Ref(parent))
	d.Setf(parent, "<< /FT /Tx /Kids %s >>", Refs(widget))
	d.Annotate(1, widget)
	d.AddField(parent)
	return d.Bytes()
}

// Blank returns a document with pages and no annotations or registry
func Blank(pages int) []byte {
	d := NewDocument(pages)
	d.NoRegistry = true
	return d.Bytes()
}

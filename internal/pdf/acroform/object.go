package acroform

import (
	"sort"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// maxInheritanceDepth bounds Parent walks so cyclic field trees terminate
const maxInheritanceDepth = 32

// dict dereferences obj into a dictionary, keeping the indirect reference
// when obj is one. A nil or missing object yields a nil dictionary.
func (d *Document) dict(obj types.Object) (types.Dict, *types.IndirectRef, error) {
	if obj == nil {
		return nil, nil, nil
	}

	var ref *types.IndirectRef
	if ir, ok := obj.(types.IndirectRef); ok {
		ref = &ir
	}

	dict, err := d.ctx.DereferenceDict(obj)
	if err != nil {
		return nil, nil, err
	}
	return dict, ref, nil
}

// dictEntry dereferences dict[key] into a dictionary
func (d *Document) dictEntry(dict types.Dict, key string) (types.Dict, *types.IndirectRef, error) {
	obj, found := dict.Find(key)
	if !found {
		return nil, nil, nil
	}
	return d.dict(obj)
}

// arrayEntry dereferences dict[key] into an array
func (d *Document) arrayEntry(dict types.Dict, key string) (types.Array, error) {
	obj, found := dict.Find(key)
	if !found || obj == nil {
		return nil, nil
	}
	return d.ctx.DereferenceArray(obj)
}

// nameEntry returns dict[key] as a name. Text strings are accepted too since
// some producers write names as strings.
func (d *Document) nameEntry(dict types.Dict, key string) (string, bool) {
	obj, found := dict.Find(key)
	if !found || obj == nil {
		return "", false
	}
	return d.name(obj)
}

func (d *Document) name(obj types.Object) (string, bool) {
	obj, err := d.ctx.Dereference(obj)
	if err != nil || obj == nil {
		return "", false
	}

	switch v := obj.(type) {
	case types.Name:
		return string(v), true
	case types.StringLiteral, types.HexLiteral:
		return d.text(v)
	}
	return "", false
}

// textEntry returns dict[key] decoded as a text string
func (d *Document) textEntry(dict types.Dict, key string) (string, bool) {
	obj, found := dict.Find(key)
	if !found || obj == nil {
		return "", false
	}
	return d.text(obj)
}

// text decodes a string or hex literal (PDFDocEncoding or UTF-16BE) into
// UTF-8. Names are returned as their plain value.
func (d *Document) text(obj types.Object) (string, bool) {
	obj, err := d.ctx.Dereference(obj)
	if err != nil || obj == nil {
		return "", false
	}

	switch v := obj.(type) {
	case types.Name:
		return string(v), true
	case types.StringLiteral, types.HexLiteral:
		s, err := d.ctx.DereferenceStringOrHexLiteral(v, model.V10, nil)
		if err != nil {
			return "", false
		}
		return s, true
	}
	return "", false
}

// intEntry returns dict[key] as an integer
func (d *Document) intEntry(dict types.Dict, key string) (int, bool) {
	obj, found := dict.Find(key)
	if !found || obj == nil {
		return 0, false
	}
	return d.integer(obj)
}

func (d *Document) integer(obj types.Object) (int, bool) {
	obj, err := d.ctx.Dereference(obj)
	if err != nil {
		return 0, false
	}

	switch v := obj.(type) {
	case types.Integer:
		return int(v), true
	case types.Float:
		return int(v), true
	}
	return 0, false
}

// inherited looks key up on dict and then on its Parent chain. FT and Ff are
// inheritable field attributes.
func (d *Document) inherited(dict types.Dict, key string) (types.Object, bool) {
	visited := make(map[int]bool)
	for depth := 0; dict != nil && depth < maxInheritanceDepth; depth++ {
		if obj, found := dict.Find(key); found && obj != nil {
			return obj, true
		}

		parentObj, found := dict.Find("Parent")
		if !found {
			return nil, false
		}
		if ref, ok := parentObj.(types.IndirectRef); ok {
			nr := int(ref.ObjectNumber)
			if visited[nr] {
				return nil, false
			}
			visited[nr] = true
		}

		parent, err := d.ctx.DereferenceDict(parentObj)
		if err != nil {
			return nil, false
		}
		dict = parent
	}
	return nil, false
}

// appearanceStates returns the names of the normal appearance dictionary
// (AP /N) in ascending byte order. pdfcpu keeps dictionaries as Go maps, so
// file order is gone by the time we see them; sorting keeps the "first
// state" rules deterministic.
func (d *Document) appearanceStates(dict types.Dict) []string {
	ap, _, err := d.dictEntry(dict, "AP")
	if err != nil || ap == nil {
		return nil
	}

	normal, _, err := d.dictEntry(ap, "N")
	if err != nil || normal == nil {
		return nil
	}

	states := make([]string, 0, len(normal))
	for k := range normal {
		states = append(states, k)
	}
	sort.Strings(states)
	return states
}

// onState returns the first appearance state other than Off, or "" when the
// widget has none
func (d *Document) onState(dict types.Dict) string {
	for _, state := range d.appearanceStates(dict) {
		if state != stateOff {
			return state
		}
	}
	return ""
}

func (d *Document) hasState(dict types.Dict, state string) bool {
	for _, s := range d.appearanceStates(dict) {
		if s == state {
			return true
		}
	}
	return false
}

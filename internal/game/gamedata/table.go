package gamedata

import (
	"fmt"

	"github.com/cory-johannsen/ruins/internal/game/chara"
)

// Templates is the read-only template lookup used by generation.
type Templates interface {
	// Len returns the number of templates.
	Len() int
	// Get returns the template at idx, or (nil, false) if idx is out of range.
	Get(idx chara.TemplateIdx) (*Template, bool)
}

// Table is an ordered, immutable template table. Index order is the order
// templates were supplied in and is the order generation walks them.
type Table struct {
	templates []*Template
	byID      map[string]chara.TemplateIdx
}

// NewTable builds a Table from templates.
//
// Precondition: every template must be non-nil.
// Postcondition: Returns a Table or an error on a nil entry or duplicate id.
func NewTable(templates []*Template) (*Table, error) {
	t := &Table{
		templates: make([]*Template, 0, len(templates)),
		byID:      make(map[string]chara.TemplateIdx, len(templates)),
	}
	for i, tmpl := range templates {
		if tmpl == nil {
			return nil, fmt.Errorf("template table: entry %d is nil", i)
		}
		if _, dup := t.byID[tmpl.ID]; dup {
			return nil, fmt.Errorf("template table: duplicate id %q", tmpl.ID)
		}
		t.byID[tmpl.ID] = chara.TemplateIdx(len(t.templates))
		t.templates = append(t.templates, tmpl)
	}
	return t, nil
}

// Len implements Templates.
func (t *Table) Len() int {
	return len(t.templates)
}

// Get implements Templates.
func (t *Table) Get(idx chara.TemplateIdx) (*Template, bool) {
	if int(idx) >= len(t.templates) {
		return nil, false
	}
	return t.templates[idx], true
}

// IndexOf returns the index of the template with the given id.
func (t *Table) IndexOf(id string) (chara.TemplateIdx, bool) {
	idx, ok := t.byID[id]
	return idx, ok
}

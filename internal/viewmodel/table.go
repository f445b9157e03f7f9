// Package viewmodel holds the in-memory projection of the persons table that
// the front ends display.
package viewmodel

import (
	"context"
	"fmt"

	"github.com/leapstack-labs/dossier/internal/person"
)

// Column positions of a displayed row.
const (
	ColID = iota
	ColName
	ColRank
	ColMobile
)

// NoSelection is the selected index when no row is selected.
const NoSelection = -1

// Lister is the read side of the record repository.
type Lister interface {
	ListAll(ctx context.Context) ([]person.Person, error)
}

// Table mirrors the rows of the last refresh in store order, together with
// the current selection and the rows highlighted by the last search.
// It is never the source of truth; every Refresh rebuilds it.
type Table struct {
	source      Lister
	rows        []person.Person
	selected    int
	highlighted map[int64]bool
}

// New returns an empty table backed by source. Call Refresh to load it.
func New(source Lister) *Table {
	return &Table{
		source:      source,
		selected:    NoSelection,
		highlighted: map[int64]bool{},
	}
}

// Refresh replaces the rows with a fresh ListAll, in store order.
// Highlights are cleared. The selection follows the selected person's id
// and is dropped when that person is gone. On error the table is unchanged.
func (t *Table) Refresh(ctx context.Context) error {
	rows, err := t.source.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to refresh table: %w", err)
	}

	var selectedID int64
	hadSelection := false
	if p, ok := t.Selected(); ok {
		selectedID, hadSelection = p.ID, true
	}

	t.rows = rows
	t.highlighted = map[int64]bool{}
	t.selected = NoSelection
	if hadSelection {
		t.selected = t.IndexOf(selectedID)
	}
	return nil
}

// Len returns the number of displayed rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Rows returns a copy of the displayed rows.
func (t *Table) Rows() []person.Person {
	out := make([]person.Person, len(t.rows))
	copy(out, t.rows)
	return out
}

// Row returns the row at index i.
func (t *Table) Row(i int) (person.Person, bool) {
	if i < 0 || i >= len(t.rows) {
		return person.Person{}, false
	}
	return t.rows[i], true
}

// Cell returns the display text at row i, column col.
func (t *Table) Cell(i, col int) (string, bool) {
	p, ok := t.Row(i)
	if !ok || col < ColID || col > ColMobile {
		return "", false
	}
	return p.Cells()[col], true
}

// IndexOf returns the row index holding id, or NoSelection.
func (t *Table) IndexOf(id int64) int {
	for i, p := range t.rows {
		if p.ID == id {
			return i
		}
	}
	return NoSelection
}

// Select makes row i the current selection.
func (t *Table) Select(i int) error {
	if i < 0 || i >= len(t.rows) {
		return fmt.Errorf("row %d out of range (%d rows)", i, len(t.rows))
	}
	t.selected = i
	return nil
}

// ClearSelection drops the current selection.
func (t *Table) ClearSelection() {
	t.selected = NoSelection
}

// SelectedIndex returns the selected row index, or NoSelection.
func (t *Table) SelectedIndex() int {
	return t.selected
}

// Selected returns the selected row as currently displayed.
func (t *Table) Selected() (person.Person, bool) {
	return t.Row(t.selected)
}

// Highlight marks the displayed rows whose id is in ids, replacing any
// previous highlight, and selects the first of them. Ids that are not
// displayed are ignored. It returns the matched row indexes in display order.
func (t *Table) Highlight(ids []int64) []int {
	want := make(map[int64]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}

	t.highlighted = map[int64]bool{}
	var matched []int
	for i, p := range t.rows {
		if want[p.ID] {
			t.highlighted[p.ID] = true
			matched = append(matched, i)
		}
	}
	if len(matched) > 0 {
		t.selected = matched[0]
	}
	return matched
}

// Highlighted reports whether row i is highlighted.
func (t *Table) Highlighted(i int) bool {
	p, ok := t.Row(i)
	return ok && t.highlighted[p.ID]
}

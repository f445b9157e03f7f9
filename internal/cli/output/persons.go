package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/leapstack-labs/dossier/internal/person"
)

// PersonsOutput is the JSON shape of a list of persons.
type PersonsOutput struct {
	Persons []person.Person `json:"persons"`
	Count   int             `json:"count"`
}

// PersonOutput is the JSON shape of a single mutation result.
type PersonOutput struct {
	Action string        `json:"action"`
	Person person.Person `json:"person"`
}

// Persons writes people as a table in the effective mode.
func (r *Renderer) Persons(people []person.Person) error {
	mode := r.EffectiveMode()
	switch mode {
	case ModeJSON:
		if people == nil {
			people = []person.Person{}
		}
		return r.JSON(PersonsOutput{Persons: people, Count: len(people)})
	case ModeCSV:
		return r.personsCSV(people)
	}

	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	header := make(table.Row, len(person.Columns))
	for i, col := range person.Columns {
		header[i] = col
	}
	t.AppendHeader(header)
	for _, p := range people {
		cells := p.Cells()
		row := make(table.Row, len(cells))
		for i, c := range cells {
			row[i] = c
		}
		t.AppendRow(row)
	}

	switch mode {
	case ModeMarkdown:
		if len(people) == 0 {
			r.Println("_No persons._")
			return nil
		}
		t.RenderMarkdown()
		r.Println("")
		r.Println(fmt.Sprintf("%d persons", len(people)))
	default:
		if len(people) == 0 {
			r.Muted("(0 persons)")
			return nil
		}
		t.SetStyle(table.StyleLight)
		t.Render()
		r.Muted(fmt.Sprintf("(%d persons)", len(people)))
	}
	return nil
}

// JSON writes v as indented JSON.
func (r *Renderer) JSON(v any) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// personsCSV writes RFC 4180 CSV. go-pretty's RenderCSV escapes commas
// with a backslash inside quoted fields, which CSV readers keep verbatim.
func (r *Renderer) personsCSV(people []person.Person) error {
	w := csv.NewWriter(r.out)
	if err := w.Write(person.Columns); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, p := range people {
		if err := w.Write(p.Cells()); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}

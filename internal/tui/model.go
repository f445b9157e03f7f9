// Package tui is the full-screen terminal front end: a bubbletea program
// that renders the view model and forwards keys to the controller.
package tui

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/leapstack-labs/dossier/internal/controller"
	"github.com/leapstack-labs/dossier/internal/person"
	"github.com/leapstack-labs/dossier/internal/viewmodel"
)

// WindowTitle is set on the terminal while the program runs.
const WindowTitle = "Dossier"

// chromeHeight is the number of lines around the table: title, menu,
// toolbar, status bar and help.
const chromeHeight = 12

type field int

const (
	fieldName field = iota
	fieldRank
	fieldMobile
	fieldCount
)

// Model is the bubbletea model.
type Model struct {
	ctx  context.Context
	ctrl *controller.Controller
	view *viewmodel.Table

	keys   keyMap
	help   help.Model
	styles styles

	table  table.Model
	name   textinput.Model
	mobile textinput.Model
	query  textinput.Model
	rank   string
	focus  field
	yes    bool

	formErr string
	status  string
	width   int
	height  int
}

// New returns a model over a loaded controller and its view model.
func New(ctx context.Context, ctrl *controller.Controller, view *viewmodel.Table) Model {
	t := table.New(
		table.WithColumns(columns()),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	t.KeyMap = tableKeyMap()
	ts := table.DefaultStyles()
	ts.Selected = ts.Selected.Bold(true)
	t.SetStyles(ts)

	m := Model{
		ctx:    ctx,
		ctrl:   ctrl,
		view:   view,
		keys:   defaultKeyMap(),
		help:   help.New(),
		styles: defaultStyles(),
		table:  t,
		name:   newInput("Full name"),
		mobile: newInput("Mobile number"),
		query:  newInput("Exact name"),
	}
	m.syncTable()
	return m
}

func newInput(placeholder string) textinput.Model {
	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = placeholder
	ti.CharLimit = 128
	ti.Width = 32
	return ti
}

func columns() []table.Column {
	cols := []table.Column{{Title: " ", Width: 2}}
	widths := []int{6, 24, 18, 16}
	for i, title := range person.Columns {
		cols = append(cols, table.Column{Title: title, Width: widths[i]})
	}
	return cols
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.SetWindowTitle(WindowTitle)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.table.SetHeight(max(msg.Height-chromeHeight, 3))
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if _, ok := m.ctrl.Notice(); ok {
			return m.updateNotice(msg)
		}
		switch m.ctrl.State() {
		case controller.StateIdle:
			return m.updateIdle(msg)
		case controller.StateAddPerson, controller.StateEditPerson:
			return m.updateForm(msg)
		case controller.StateDeletePerson:
			return m.updateConfirm(msg)
		case controller.StateSearch:
			return m.updateSearch(msg)
		case controller.StateAbout:
			return m.updateAbout(msg)
		}
	}

	// Cursor blink and other input housekeeping.
	var cmd tea.Cmd
	switch m.ctrl.State() {
	case controller.StateAddPerson, controller.StateEditPerson:
		m.name, cmd = m.name.Update(msg)
		var cmd2 tea.Cmd
		m.mobile, cmd2 = m.mobile.Update(msg)
		return m, tea.Batch(cmd, cmd2)
	case controller.StateSearch:
		m.query, cmd = m.query.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) updateIdle(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Add):
		return m.dispatch(controller.CommandAdd)
	case key.Matches(msg, m.keys.Search):
		return m.dispatch(controller.CommandSearch)
	case key.Matches(msg, m.keys.About):
		return m.dispatch(controller.CommandAbout)
	case key.Matches(msg, m.keys.Edit):
		return m.dispatch(controller.CommandEdit)
	case key.Matches(msg, m.keys.Delete):
		return m.dispatch(controller.CommandDelete)
	case key.Matches(msg, m.keys.Select):
		if m.view.Len() == 0 {
			return m, nil
		}
		if err := m.ctrl.SelectRow(m.table.Cursor()); err != nil {
			m.status = err.Error()
		} else {
			m.status = ""
		}
		m.syncTable()
		return m, nil
	}

	var cmd tea.Cmd
	cursor := m.table.Cursor()
	m.table, cmd = m.table.Update(msg)
	// Leaving the selected row drops the selection.
	if moved := m.table.Cursor(); moved != cursor && moved != m.view.SelectedIndex() &&
		m.view.SelectedIndex() != viewmodel.NoSelection {
		m.ctrl.ClearSelection()
		m.syncTable()
	}
	return m, cmd
}

func (m Model) dispatch(cmd controller.Command) (tea.Model, tea.Cmd) {
	if err := m.ctrl.Dispatch(cmd); err != nil {
		if errors.Is(err, controller.ErrNoSelection) {
			m.status = "Select a row first (enter)."
		} else {
			m.status = err.Error()
		}
		return m, nil
	}
	m.status = ""
	return m, m.openDialog()
}

// openDialog primes the inputs for the dialog the controller just opened.
func (m *Model) openDialog() tea.Cmd {
	d, ok := m.ctrl.Dialog()
	if !ok {
		return nil
	}
	m.formErr = ""
	m.table.Blur()

	switch d.State {
	case controller.StateAddPerson, controller.StateEditPerson:
		m.name.SetValue(d.Form.Name)
		m.mobile.SetValue(d.Form.Mobile)
		m.rank = d.Form.Rank
		m.focus = fieldName
		return m.focusField()
	case controller.StateSearch:
		m.query.SetValue("")
		return m.query.Focus()
	case controller.StateDeletePerson:
		m.yes = false
	}
	return nil
}

// closeDialog restores the idle screen after the controller closed a dialog.
func (m *Model) closeDialog() {
	m.name.Blur()
	m.mobile.Blur()
	m.query.Blur()
	m.formErr = ""
	m.table.Focus()
	m.syncTable()
}

func (m *Model) focusField() tea.Cmd {
	m.name.Blur()
	m.mobile.Blur()
	switch m.focus {
	case fieldName:
		return m.name.Focus()
	case fieldMobile:
		return m.mobile.Focus()
	}
	return nil
}

func (m Model) form() person.Form {
	return person.Form{Name: m.name.Value(), Rank: m.rank, Mobile: m.mobile.Value()}
}

func (m *Model) cycleRank(step int) {
	n := len(person.Ranks)
	i := person.RankIndex(m.rank)
	if i < 0 {
		i = 0
		if step < 0 {
			i = n - 1
		}
		m.rank = person.Ranks[i]
		return
	}
	m.rank = person.Ranks[(i+step+n)%n]
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		_ = m.ctrl.Cancel()
		m.closeDialog()
		return m, nil

	case key.Matches(msg, m.keys.Submit):
		err := m.ctrl.SubmitPerson(m.ctx, m.form())
		if errors.Is(err, controller.ErrInvalidForm) {
			var fe person.FormErrors
			if errors.As(err, &fe) {
				m.formErr = fe.Error()
			} else {
				m.formErr = err.Error()
			}
			return m, nil
		}
		// Store failures arrive as a notice.
		m.closeDialog()
		return m, nil

	case key.Matches(msg, m.keys.Next):
		m.focus = (m.focus + 1) % fieldCount
		return m, m.focusField()

	case key.Matches(msg, m.keys.Prev):
		m.focus = (m.focus + fieldCount - 1) % fieldCount
		return m, m.focusField()

	case m.focus == fieldRank && key.Matches(msg, m.keys.RankNext):
		m.cycleRank(1)
		return m, nil

	case m.focus == fieldRank && key.Matches(msg, m.keys.RankPrev):
		m.cycleRank(-1)
		return m, nil
	}

	var cmd tea.Cmd
	switch m.focus {
	case fieldName:
		m.name, cmd = m.name.Update(msg)
	case fieldMobile:
		m.mobile, cmd = m.mobile.Update(msg)
	}
	return m, cmd
}

func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var answer, answered bool
	switch {
	case key.Matches(msg, m.keys.Yes):
		answer, answered = true, true
	case key.Matches(msg, m.keys.No), key.Matches(msg, m.keys.Cancel):
		answer, answered = false, true
	case key.Matches(msg, m.keys.Submit):
		answer, answered = m.yes, true
	case key.Matches(msg, m.keys.RankPrev), key.Matches(msg, m.keys.RankNext), key.Matches(msg, m.keys.Next):
		m.yes = !m.yes
	}
	if !answered {
		return m, nil
	}

	_ = m.ctrl.ConfirmDelete(m.ctx, answer)
	m.closeDialog()
	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		_ = m.ctrl.Cancel()
		m.closeDialog()
		return m, nil
	case key.Matches(msg, m.keys.Submit):
		matched, err := m.ctrl.SubmitSearch(m.ctx, m.query.Value())
		m.closeDialog()
		if err == nil && len(matched) > 0 {
			m.status = fmt.Sprintf("%d matching %s highlighted.", len(matched), plural(len(matched), "row", "rows"))
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.query, cmd = m.query.Update(msg)
	return m, cmd
}

func (m Model) updateAbout(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Submit) || key.Matches(msg, m.keys.Cancel) || key.Matches(msg, m.keys.Select) {
		_ = m.ctrl.Cancel()
		m.closeDialog()
	}
	return m, nil
}

func (m Model) updateNotice(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Submit) || key.Matches(msg, m.keys.Cancel) || key.Matches(msg, m.keys.Select) {
		m.ctrl.DismissNotice()
	}
	return m, nil
}

// syncTable copies the view model into the table widget.
func (m *Model) syncTable() {
	people := m.view.Rows()
	rows := make([]table.Row, 0, len(people))
	for i, p := range people {
		rows = append(rows, append(table.Row{m.marker(i)}, p.Cells()...))
	}
	m.table.SetRows(rows)
	if sel := m.view.SelectedIndex(); sel != viewmodel.NoSelection {
		m.table.SetCursor(sel)
	}
}

func (m Model) marker(i int) string {
	switch {
	case m.view.Highlighted(i):
		return "*"
	case m.view.SelectedIndex() == i:
		return ">"
	default:
		return ""
	}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

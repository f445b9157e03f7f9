package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/leapstack-labs/dossier/internal/controller"
	"github.com/leapstack-labs/dossier/internal/person"
)

// View implements tea.Model.
func (m Model) View() string {
	sections := []string{
		m.styles.title.Render(WindowTitle),
		m.menuBar(),
		m.toolbar(),
		m.body(),
		m.statusBar(),
		m.help.View(m.helpKeys()),
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) menuBar() string {
	var parts []string
	for _, menu := range m.ctrl.MenuBar() {
		var entries []string
		for _, a := range menu.Actions {
			entries = append(entries, fmt.Sprintf("%s (%s)", a.Label, a.Key))
		}
		parts = append(parts, m.styles.menuTitle.Render(menu.Title)+" "+strings.Join(entries, ", "))
	}
	return m.styles.menu.Render(strings.Join(parts, "   "))
}

func (m Model) button(a controller.Action) string {
	label := fmt.Sprintf("%s (%s)", a.Label, a.Key)
	if !m.ctrl.Available(a.Command) {
		return m.styles.disabled.Render(label)
	}
	return m.styles.button.Render(label)
}

func (m Model) toolbar() string {
	var buttons []string
	for _, a := range m.ctrl.Toolbar() {
		buttons = append(buttons, m.button(a))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, buttons...)
}

func (m Model) statusBar() string {
	var parts []string
	actions := m.ctrl.StatusActions()
	if len(actions) == 0 {
		parts = append(parts, m.styles.muted.Render("Select a row with enter to edit or delete it."))
	} else {
		var buttons []string
		for _, a := range actions {
			buttons = append(buttons, m.button(a))
		}
		parts = append(parts, lipgloss.JoinHorizontal(lipgloss.Center, buttons...))
	}
	if m.status != "" {
		parts = append(parts, "  "+m.styles.muted.Render(m.status))
	}
	return m.styles.statusBar.Render(lipgloss.JoinHorizontal(lipgloss.Center, parts...))
}

func (m Model) body() string {
	if n, ok := m.ctrl.Notice(); ok {
		return m.place(m.noticeBox(n))
	}
	if d, ok := m.ctrl.Dialog(); ok {
		return m.place(m.dialogBox(d))
	}
	return m.table.View()
}

func (m Model) place(box string) string {
	if m.width == 0 {
		return box
	}
	return lipgloss.PlaceHorizontal(m.width, lipgloss.Center, box)
}

func (m Model) noticeBox(n controller.Notice) string {
	text := n.Text
	switch n.Kind {
	case controller.NoticeError:
		text = m.styles.errText.Render(text)
	case controller.NoticeSuccess:
		text = m.styles.success.Render(text)
	}
	return m.styles.dialog.Render(lipgloss.JoinVertical(lipgloss.Left,
		m.styles.menuTitle.Render(n.Title),
		"",
		text,
		"",
		m.styles.active.Render("OK"),
	))
}

func (m Model) dialogBox(d controller.Dialog) string {
	lines := []string{m.styles.menuTitle.Render(d.Title), ""}

	switch d.State {
	case controller.StateAddPerson, controller.StateEditPerson:
		if d.State == controller.StateEditPerson {
			lines = append(lines, m.styles.label.Render("Record")+targetLabel(d.Target), "")
		}
		rank := "‹ " + m.rank + " ›"
		if m.focus == fieldRank {
			rank = m.styles.success.Render(rank)
		}
		lines = append(lines,
			m.styles.label.Render("Name")+m.name.View(),
			m.styles.label.Render("Rank")+rank,
			m.styles.label.Render("Mobile")+m.mobile.View(),
			"",
			m.styles.active.Render(d.Submit),
		)
		if m.formErr != "" {
			lines = append(lines, m.styles.errText.Render(m.formErr))
		}

	case controller.StateDeletePerson:
		yes, no := m.styles.button, m.styles.active
		if m.yes {
			yes, no = m.styles.active, m.styles.button
		}
		lines = append(lines,
			d.Message,
			targetLabel(d.Target),
			"",
			lipgloss.JoinHorizontal(lipgloss.Top, yes.Render("Yes"), no.Render("No")),
		)

	case controller.StateSearch:
		lines = append(lines,
			m.styles.label.Render("Name")+m.query.View(),
			"",
			m.styles.active.Render(d.Submit),
		)

	case controller.StateAbout:
		lines = append(lines, d.Message, "", m.styles.active.Render("OK"))
	}

	return m.styles.dialog.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// targetLabel names the row an edit or delete dialog acts on.
func targetLabel(p person.Person) string {
	return fmt.Sprintf("#%d %s", p.ID, p.Name)
}

func (m Model) helpKeys() helpKeys {
	if _, ok := m.ctrl.Notice(); ok {
		return helpKeys{m.keys.Submit}
	}
	switch m.ctrl.State() {
	case controller.StateAddPerson, controller.StateEditPerson:
		return helpKeys{m.keys.Submit, m.keys.Cancel, m.keys.Next, m.keys.RankPrev, m.keys.RankNext}
	case controller.StateDeletePerson:
		return helpKeys{m.keys.Yes, m.keys.No, m.keys.Submit}
	case controller.StateSearch, controller.StateAbout:
		return helpKeys{m.keys.Submit, m.keys.Cancel}
	}

	keys := helpKeys{m.keys.Up, m.keys.Down, m.keys.Select, m.keys.Add, m.keys.Search}
	if len(m.ctrl.StatusActions()) > 0 {
		keys = append(keys, m.keys.Edit, m.keys.Delete)
	}
	return append(keys, m.keys.About, m.keys.Quit)
}

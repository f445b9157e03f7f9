package tui

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title     lipgloss.Style
	menu      lipgloss.Style
	menuTitle lipgloss.Style
	button    lipgloss.Style
	active    lipgloss.Style
	disabled  lipgloss.Style
	statusBar lipgloss.Style
	dialog    lipgloss.Style
	label     lipgloss.Style
	errText   lipgloss.Style
	success   lipgloss.Style
	muted     lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		title:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).Padding(0, 1),
		menu:      lipgloss.NewStyle().Padding(0, 1),
		menuTitle: lipgloss.NewStyle().Bold(true).Underline(true),
		button:    lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1),
		active:    lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("12")).Bold(true).Padding(0, 1),
		disabled:  lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Foreground(lipgloss.Color("8")).BorderForeground(lipgloss.Color("8")).Padding(0, 1),
		statusBar: lipgloss.NewStyle().Padding(0, 1),
		dialog:    lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).BorderForeground(lipgloss.Color("12")).Padding(1, 2),
		label:     lipgloss.NewStyle().Bold(true).Width(8),
		errText:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		success:   lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		muted:     lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
)

type keyMap struct {
	Add    key.Binding
	Search key.Binding
	About  key.Binding
	Edit   key.Binding
	Delete key.Binding
	Select key.Binding
	Up     key.Binding
	Down   key.Binding
	Quit   key.Binding

	Submit   key.Binding
	Cancel   key.Binding
	Next     key.Binding
	Prev     key.Binding
	RankPrev key.Binding
	RankNext key.Binding
	Yes      key.Binding
	No       key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Add:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add person")),
		Search: key.NewBinding(key.WithKeys("s", "/"), key.WithHelp("s", "search")),
		About:  key.NewBinding(key.WithKeys("h", "?"), key.WithHelp("h", "about")),
		Edit:   key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit record")),
		Delete: key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "delete record")),
		Select: key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "select row")),
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),

		Submit:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "submit")),
		Cancel:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		Next:     key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next field")),
		Prev:     key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "previous field")),
		RankPrev: key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "previous rank")),
		RankNext: key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "next rank")),
		Yes:      key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "yes")),
		No:       key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "no")),
	}
}

// tableKeyMap keeps cursor movement but frees "d" and space for the app.
func tableKeyMap() table.KeyMap {
	km := table.DefaultKeyMap()
	km.PageDown = key.NewBinding(key.WithKeys("f", "pgdown"), key.WithHelp("f/pgdn", "page down"))
	km.HalfPageDown = key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("ctrl+d", "½ page down"))
	return km
}

// helpKeys adapts a binding list to help.KeyMap.
type helpKeys []key.Binding

func (h helpKeys) ShortHelp() []key.Binding  { return h }
func (h helpKeys) FullHelp() [][]key.Binding { return [][]key.Binding{h} }

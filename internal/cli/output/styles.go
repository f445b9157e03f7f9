package output

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Styles are the lipgloss styles used for text output.
type Styles struct {
	Header1   lipgloss.Style
	Header2   lipgloss.Style
	Success   lipgloss.Style
	Error     lipgloss.Style
	Warning   lipgloss.Style
	Muted     lipgloss.Style
	Label     lipgloss.Style
	Highlight lipgloss.Style
}

// NewStyles builds styles bound to w. Without a terminal the ASCII profile
// is forced so no escape codes reach files or pipes.
func NewStyles(w io.Writer, isTTY bool) *Styles {
	r := lipgloss.NewRenderer(w)
	if !isTTY {
		r.SetColorProfile(termenv.Ascii)
	}

	return &Styles{
		Header1:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		Header2:   r.NewStyle().Bold(true),
		Success:   r.NewStyle().Foreground(lipgloss.Color("10")),
		Error:     r.NewStyle().Foreground(lipgloss.Color("9")),
		Warning:   r.NewStyle().Foreground(lipgloss.Color("11")),
		Muted:     r.NewStyle().Foreground(lipgloss.Color("8")),
		Label:     r.NewStyle().Bold(true),
		Highlight: r.NewStyle().Reverse(true),
	}
}

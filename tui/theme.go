package tui

import "github.com/charmbracelet/lipgloss"

// Theme is the palette of the client. Colors are ANSI 256 codes.
type Theme struct {
	NormalText lipgloss.Color
	FaintText  lipgloss.Color
	Accent     lipgloss.Color
	Online     lipgloss.Color
	Offline    lipgloss.Color
	Alert      lipgloss.Color
	Border     lipgloss.Color
	Selected   lipgloss.Color
}

var DefaultTheme = Theme{
	NormalText: lipgloss.Color("252"),
	FaintText:  lipgloss.Color("243"),
	Accent:     lipgloss.Color("214"),
	Online:     lipgloss.Color("42"),
	Offline:    lipgloss.Color("241"),
	Alert:      lipgloss.Color("196"),
	Border:     lipgloss.Color("238"),
	Selected:   lipgloss.Color("236"),
}

type styles struct {
	title    lipgloss.Style
	faint    lipgloss.Style
	accent   lipgloss.Style
	online   lipgloss.Style
	offline  lipgloss.Style
	card     lipgloss.Style
	modal    lipgloss.Style
	alert    lipgloss.Style
	selected lipgloss.Style
	help     lipgloss.Style
}

func newStyles(theme Theme) styles {
	return styles{
		title:    lipgloss.NewStyle().Bold(true).Foreground(theme.Accent),
		faint:    lipgloss.NewStyle().Foreground(theme.FaintText),
		accent:   lipgloss.NewStyle().Foreground(theme.Accent),
		online:   lipgloss.NewStyle().Foreground(theme.Online),
		offline:  lipgloss.NewStyle().Foreground(theme.Offline),
		card:     lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(theme.Border).Padding(1, 2).Width(48),
		modal:    lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).BorderForeground(theme.Accent).Padding(1, 3),
		alert:    lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(theme.Alert).Foreground(theme.Alert).Padding(0, 2),
		selected: lipgloss.NewStyle().Background(theme.Selected).Foreground(theme.NormalText).Bold(true),
		help:     lipgloss.NewStyle().Foreground(theme.FaintText).MarginTop(1),
	}
}

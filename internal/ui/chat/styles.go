package chat

import "github.com/charmbracelet/lipgloss"

var (
	accent = lipgloss.Color("#FF6B00")
	muted  = lipgloss.Color("#8A8F98")
	danger = lipgloss.Color("#E53935")

	headerStyle    = lipgloss.NewStyle().Bold(true).Foreground(accent).Padding(0, 1)
	userStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Background(accent).Padding(0, 1)
	assistantStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#101F38")).Background(lipgloss.Color("#F2F2F2")).Padding(0, 1)
	statusStyle    = lipgloss.NewStyle().Foreground(muted).Italic(true)
	alertStyle     = lipgloss.NewStyle().Foreground(danger).Bold(true)
	helpStyle      = lipgloss.NewStyle().Foreground(muted)
)

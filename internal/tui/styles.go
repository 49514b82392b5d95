package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jask/jaskcalc/internal/app"
)

var (
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(app.ColorAccent)
	mutedStyle     = lipgloss.NewStyle().Foreground(app.ColorMuted)
	errorStyle     = lipgloss.NewStyle().Foreground(app.ColorError)
	resultStyle    = lipgloss.NewStyle().Bold(true).Foreground(app.ColorSuccess)
	selectedStyle  = lipgloss.NewStyle().Bold(true).Foreground(app.ColorFocus)
	footerStyle    = lipgloss.NewStyle().Foreground(app.ColorText).Background(app.ColorSurface1).Padding(0, 1)
	statusBarStyle = lipgloss.NewStyle().Foreground(app.ColorSubtext0).Background(app.ColorSurface0).Padding(0, 1)
	modalStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(app.ColorWarning).Padding(0, 1)

	panelStyle        = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(app.ColorSurface1).Padding(0, 1)
	focusedPanelStyle = panelStyle.BorderForeground(app.ColorFocus)

	tabStyle       = lipgloss.NewStyle().Foreground(app.ColorSubtext0).Padding(0, 1)
	activeTabStyle = lipgloss.NewStyle().Bold(true).Foreground(app.ColorBase).Background(app.ColorAccent).Padding(0, 1)
)

func panel(focused bool) lipgloss.Style {
	if focused {
		return focusedPanelStyle
	}
	return panelStyle
}

package app

import "github.com/charmbracelet/lipgloss"

// Catppuccin Mocha palette, true-color hex values.
// https://catppuccin.com/palette
const (
	ColorPink     lipgloss.Color = "#f5c2e7"
	ColorMauve    lipgloss.Color = "#cba6f7"
	ColorRed      lipgloss.Color = "#f38ba8"
	ColorPeach    lipgloss.Color = "#fab387"
	ColorYellow   lipgloss.Color = "#f9e2af"
	ColorGreen    lipgloss.Color = "#a6e3a1"
	ColorTeal     lipgloss.Color = "#94e2d5"
	ColorBlue     lipgloss.Color = "#89b4fa"
	ColorLavender lipgloss.Color = "#b4befe"

	ColorText     lipgloss.Color = "#cdd6f4"
	ColorSubtext0 lipgloss.Color = "#a6adc8"
	ColorOverlay1 lipgloss.Color = "#7f849c"
	ColorSurface1 lipgloss.Color = "#45475a"
	ColorSurface0 lipgloss.Color = "#313244"
	ColorBase     lipgloss.Color = "#1e1e2e"
)

// Semantic aliases.
const (
	ColorAccent  = ColorPink
	ColorFocus   = ColorLavender
	ColorSuccess = ColorGreen
	ColorError   = ColorRed
	ColorWarning = ColorYellow
	ColorInfo    = ColorTeal
	ColorMuted   = ColorOverlay1
)

// namedStyles are the styles scripts can ask for by name.
func namedStyles() map[string]lipgloss.Style {
	base := lipgloss.NewStyle()
	return map[string]lipgloss.Style{
		"bold":      base.Bold(true),
		"italic":    base.Italic(true),
		"underline": base.Underline(true),
		"title":     base.Bold(true).Foreground(ColorAccent),
		"accent":    base.Foreground(ColorAccent),
		"success":   base.Foreground(ColorSuccess),
		"error":     base.Foreground(ColorError),
		"warning":   base.Foreground(ColorWarning),
		"info":      base.Foreground(ColorInfo),
		"muted":     base.Foreground(ColorMuted),
		"code":      base.Foreground(ColorPeach).Background(ColorSurface0),
	}
}

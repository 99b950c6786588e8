package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Catppuccin Mocha subset.
const (
	colorPink     lipgloss.Color = "#f5c2e7"
	colorRed      lipgloss.Color = "#f38ba8"
	colorPeach    lipgloss.Color = "#fab387"
	colorGreen    lipgloss.Color = "#a6e3a1"
	colorTeal     lipgloss.Color = "#94e2d5"
	colorLavender lipgloss.Color = "#b4befe"
	colorText     lipgloss.Color = "#cdd6f4"
	colorSubtext0 lipgloss.Color = "#a6adc8"
	colorOverlay1 lipgloss.Color = "#7f849c"
	colorSurface1 lipgloss.Color = "#45475a"
	colorSurface0 lipgloss.Color = "#313244"
)

const (
	colorBrand   = colorPink
	colorFocus   = colorLavender
	colorSuccess = colorGreen
	colorError   = colorRed
	colorInfo    = colorTeal
)

var (
	titleStyle        = lipgloss.NewStyle().Bold(true).Foreground(colorBrand)
	sectionTitleStyle = lipgloss.NewStyle().Foreground(colorPeach)
	metaStyle         = lipgloss.NewStyle().Foreground(colorSubtext0)
	mutedStyle        = lipgloss.NewStyle().Foreground(colorOverlay1)
	labelStyle        = lipgloss.NewStyle().Foreground(colorText)
	statusStyle       = lipgloss.NewStyle().Foreground(colorInfo)
	errorStyle        = lipgloss.NewStyle().Foreground(colorError)
	footerStyle       = lipgloss.NewStyle().Foreground(colorSubtext0).Background(colorSurface0).Padding(0, 1)

	paneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSurface1).
			Padding(0, 1)
	focusedPaneStyle = paneStyle.BorderForeground(colorFocus)
)

// rowStyle picks the background for a list row.
func rowStyle(selected, cursor bool) lipgloss.Style {
	style := lipgloss.NewStyle()
	switch {
	case cursor && selected:
		style = style.Background(colorSurface1).Foreground(colorSuccess).Bold(true)
	case cursor:
		style = style.Background(colorSurface1).Bold(true)
	case selected:
		style = style.Foreground(colorSuccess)
	}
	return style
}

func padStyledLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	w := lipgloss.Width(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}

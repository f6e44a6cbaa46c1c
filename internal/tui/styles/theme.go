// Package styles holds the lipgloss styles shared by the browse TUI.
package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/allbin/go-mode"
)

// Catppuccin Mocha palette, the subset the TUI draws with.
var (
	Base     = lipgloss.Color("#1e1e2e")
	Surface0 = lipgloss.Color("#313244")
	Surface1 = lipgloss.Color("#45475a")
	Surface2 = lipgloss.Color("#585b70")
	Overlay0 = lipgloss.Color("#6c7086")
	Subtext0 = lipgloss.Color("#a6adc8")
	Subtext1 = lipgloss.Color("#bac2de")
	Text     = lipgloss.Color("#cdd6f4")

	Blue   = lipgloss.Color("#89b4fa")
	Teal   = lipgloss.Color("#94e2d5")
	Green  = lipgloss.Color("#a6e3a1")
	Yellow = lipgloss.Color("#f9e2af")
	Peach  = lipgloss.Color("#fab387")
	Red    = lipgloss.Color("#f38ba8")
	Mauve  = lipgloss.Color("#cba6f7")
)

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Mauve).
			Background(Surface0).
			Padding(0, 1)

	// PanelStyle frames the device list and the status report.
	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Surface1).
			Padding(0, 1)

	ContentBorderStyle = lipgloss.NewStyle().
				BorderTop(true).
				BorderStyle(lipgloss.NormalBorder()).
				BorderForeground(Surface1)

	InputStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Surface2).
			Padding(0, 1)

	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Red)

	InfoStyle = lipgloss.NewStyle().
			Foreground(Subtext0)

	HighlightStyle = lipgloss.NewStyle().
			Foreground(Text).
			Background(Surface1)
)

// KindColor returns the accent used for a device kind.
func KindColor(kind mode.DeviceKind) lipgloss.Color {
	switch kind {
	case mode.DeviceSerial:
		return Green
	case mode.DevicePrinter:
		return Peach
	case mode.DeviceParallel:
		return Yellow
	default:
		return Overlay0
	}
}

// KindStyle renders a device kind label in its accent color.
func KindStyle(kind mode.DeviceKind) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(KindColor(kind)).Bold(true)
}

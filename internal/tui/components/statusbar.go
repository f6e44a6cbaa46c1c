package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/allbin/go-mode"
	"github.com/allbin/go-mode/internal/tui/styles"
)

// StatusBar is the bottom line of the browser.
type StatusBar struct {
	device  string
	kind    mode.DeviceKind
	message string
	err     error
	width   int
}

func NewStatusBar() *StatusBar {
	return &StatusBar{message: "Scanning devices..."}
}

func (sb *StatusBar) SetWidth(width int) {
	sb.width = width
}

func (sb *StatusBar) SetDevice(name string, kind mode.DeviceKind) {
	sb.device = name
	sb.kind = kind
}

// SetResult records the outcome of the last command.
func (sb *StatusBar) SetResult(message string, err error) {
	sb.message = message
	sb.err = err
}

// View renders mode, device, outcome and clock in nvim statusline order.
func (sb *StatusBar) View(inputMode, timestamp string) string {
	terminalWidth := sb.width
	if terminalWidth <= 0 {
		terminalWidth = 80
	}

	modeBackground := styles.Blue
	if inputMode == "INSERT" {
		modeBackground = styles.Green
	}
	modeLabel := lipgloss.NewStyle().
		Foreground(styles.Base).
		Background(modeBackground).
		Bold(true).
		Padding(0, 1).
		Render(inputMode)

	device := lipgloss.NewStyle().
		Foreground(styles.Mauve).
		Bold(true).
		Padding(0, 1).
		Render(sb.device)

	kind := styles.KindStyle(sb.kind).Render(sb.kind.String())

	var indicator string
	if sb.err != nil {
		indicator = lipgloss.NewStyle().Foreground(styles.Red).Render("✗")
	} else {
		indicator = lipgloss.NewStyle().Foreground(styles.Green).Render("●")
	}

	message := lipgloss.NewStyle().
		Foreground(styles.Subtext0).
		Padding(0, 1).
		Render(sb.message)

	divider := lipgloss.NewStyle().
		Foreground(styles.Surface2).
		Padding(0, 1).
		Render("│")

	clock := lipgloss.NewStyle().
		Foreground(styles.Subtext1).
		Padding(0, 1).
		Render(timestamp)

	leftSide := lipgloss.JoinHorizontal(lipgloss.Left, modeLabel, device, kind, divider)
	rightSide := lipgloss.JoinHorizontal(lipgloss.Left, indicator, message, divider, clock)

	spacerWidth := max(terminalWidth-lipgloss.Width(leftSide)-lipgloss.Width(rightSide), 1)
	spacer := lipgloss.NewStyle().Width(spacerWidth).Render("")

	return lipgloss.NewStyle().
		Foreground(styles.Text).
		Background(styles.Surface0).
		Width(terminalWidth).
		Render(lipgloss.JoinHorizontal(lipgloss.Left, leftSide, spacer, rightSide))
}

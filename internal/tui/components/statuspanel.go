package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/allbin/go-mode/internal/tui/styles"
)

// StatusPanel shows the report printed by the last MODE command.
type StatusPanel struct {
	viewport viewport.Model
	title    string
	command  string
	failed   bool
}

func NewStatusPanel(width, height int) *StatusPanel {
	return &StatusPanel{viewport: viewport.New(width, height)}
}

func (p *StatusPanel) SetSize(width, height int) {
	p.viewport.Width = width
	// Leave lines for the title and the rule under it.
	p.viewport.Height = max(height-2, 1)
}

// SetReport shows the output of command run against device.
func (p *StatusPanel) SetReport(device, command, output string, ok bool) {
	p.title = device
	p.command = command
	p.failed = !ok

	content := strings.Trim(output, "\n")
	if !ok {
		content = styles.ErrorStyle.Render(content)
	}
	p.viewport.SetContent(content)
	p.viewport.GotoTop()
}

// Clear empties the panel while devices are rescanned.
func (p *StatusPanel) Clear() {
	p.title = ""
	p.command = ""
	p.failed = false
	p.viewport.SetContent("")
}

func (p *StatusPanel) Update(msg tea.Msg) tea.Cmd {
	// Only pass scrolling messages so the panel does not consume key bindings.
	switch msg.(type) {
	case tea.WindowSizeMsg, tea.MouseMsg:
		var cmd tea.Cmd
		p.viewport, cmd = p.viewport.Update(msg)
		return cmd
	}
	return nil
}

func (p *StatusPanel) View() string {
	titleStyle := styles.TitleStyle
	if p.failed {
		titleStyle = titleStyle.Foreground(styles.Red)
	}
	title := titleStyle.Render(p.title)
	if p.command != "" {
		title = lipgloss.JoinHorizontal(lipgloss.Left, title, " ", styles.InfoStyle.Render("mode "+p.command))
	}
	body := styles.ContentBorderStyle.Width(p.viewport.Width).Render(p.viewport.View())
	return lipgloss.JoinVertical(lipgloss.Left, title, body)
}

/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/allbin/go-mode"
	"github.com/allbin/go-mode/internal/sysdev"
	"github.com/allbin/go-mode/internal/tui/components"
	"github.com/allbin/go-mode/internal/tui/keys"
	"github.com/allbin/go-mode/internal/tui/models"
	"github.com/allbin/go-mode/internal/tui/styles"
)

// browseCmd represents the browse command
var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse and configure devices interactively",
	Long: `Browse serial, printer and parallel devices in a terminal interface.

The left panel lists the console and every device found. The right panel
shows the MODE status report of the highlighted device. Press 'i' to type
settings for it; Enter runs them as if they followed the device name on the
mode command line, e.g. "BAUD=9600 DATA=8" for COM1.`,
	Run: func(cmd *cobra.Command, args []string) {
		env, err := setup()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error initializing: %v\n", err)
			os.Exit(1)
		}
		defer env.close()

		if err := runBrowseTUI(env); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(browseCmd)
}

// browseModel represents the Bubble Tea model for the browse command
type browseModel struct {
	*models.BrowserModel
	table     *components.DeviceTable
	panel     *components.StatusPanel
	statusBar *components.StatusBar
	input     *components.Input
	help      help.Model
	keys      keys.BrowseKeys
	width     int
}

func runBrowseTUI(env *environment) error {
	run := func(line string) (string, bool) {
		var buf bytes.Buffer
		runner := env.devices.Runner(env.logger)
		runner.Out = &buf
		code := runner.Run(strings.Fields(line))
		return buf.String(), code == 0
	}

	list := func() ([]sysdev.DeviceInfo, error) {
		describer, ok := env.devices.Registry.(sysdev.DeviceDescriber)
		if !ok {
			return nil, mode.ErrUnsupported
		}
		return describer.Describe()
	}

	m := browseModel{
		BrowserModel: models.NewBrowserModel(run, list),
		table:        components.NewDeviceTable(0, 0),
		panel:        components.NewStatusPanel(0, 0),
		statusBar:    components.NewStatusBar(),
		input:        components.NewInput("settings, e.g. BAUD=9600 PARITY=N DATA=8"),
		help:         help.New(),
		keys:         keys.NewBrowseKeys(),
	}

	p := tea.NewProgram(&m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()

	m.Cancel()
	return err
}

func (m *browseModel) Init() tea.Cmd {
	return m.LoadDevices()
}

// selectHighlighted queries the highlighted row when it changed.
func (m *browseModel) selectHighlighted() tea.Cmd {
	name := m.table.Selected()
	if name == "" || !m.Select(name) {
		return nil
	}
	kind := mode.DeviceOther
	if d, ok := m.Device(name); ok {
		kind = d.Kind
	}
	m.statusBar.SetDevice(name, kind)
	return m.QueryStatus(name)
}

func (m *browseModel) layout(width, height int) {
	m.width = width
	inputHeight := 3
	statusBarHeight := 1
	body := max(height-inputHeight-statusBarHeight, 3)

	tableWidth := width / 2
	m.table.SetSize(tableWidth, body)
	m.panel.SetSize(width-tableWidth-4, body-2)
	m.input.SetWidth(width)
	m.statusBar.SetWidth(width)
	m.help.Width = width
}

func (m *browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout(msg.Width, msg.Height)
		m.SetReady(true)

	case models.DevicesMsg:
		if msg.Err != nil {
			m.SetError(msg.Err)
			m.statusBar.SetResult("device scan failed", msg.Err)
		} else {
			m.SetError(nil)
			m.statusBar.SetResult(fmt.Sprintf("%d device(s)", len(msg.Devices)), nil)
		}
		m.SetDevices(msg.Devices)
		m.table.SetDevices(msg.Devices)
		// Force a fresh report for whatever is highlighted now.
		m.Select("")
		cmds = append(cmds, m.selectHighlighted())

	case models.StatusMsg:
		if msg.Device != m.Selected() {
			break
		}
		m.panel.SetReport(msg.Device, msg.Line, msg.Output, msg.OK)
		if msg.OK {
			m.statusBar.SetResult("ok", nil)
		} else {
			m.statusBar.SetResult("failed", fmt.Errorf("%s", strings.TrimSpace(msg.Output)))
		}

	case tea.KeyMsg:
		if m.IsInInsertMode() {
			switch {
			case key.Matches(msg, m.keys.Escape):
				m.SetInputMode(models.InputModeNormal)
				m.input.Blur()
				m.table.Focus(true)
				return m, nil
			case key.Matches(msg, m.keys.Enter):
				settings := strings.TrimSpace(m.input.Value())
				if settings == "" {
					return m, nil
				}
				name := m.Selected()
				m.input.AddToHistory(settings)
				m.input.SetValue("")
				return m, m.Execute(name, models.CommandLine(name, settings))
			case msg.Type == tea.KeyUp:
				m.input.NavigateHistoryUp()
				return m, nil
			case msg.Type == tea.KeyDown:
				m.input.NavigateHistoryDown()
				return m, nil
			}
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}

		switch {
		case key.Matches(msg, m.keys.Quit):
			m.Cancel()
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.InsertMode):
			m.SetInputMode(models.InputModeInsert)
			m.table.Focus(false)
			m.input.Focus()
			return m, nil
		case key.Matches(msg, m.keys.Refresh):
			m.panel.Clear()
			m.statusBar.SetResult("Scanning devices...", nil)
			return m, m.LoadDevices()
		case key.Matches(msg, m.keys.Console):
			m.Select(models.ConsoleDevice)
			m.statusBar.SetDevice(models.ConsoleDevice, mode.DeviceOther)
			return m, m.QueryStatus(models.ConsoleDevice)
		}

		cmds = append(cmds, m.table.Update(msg), m.selectHighlighted())
		return m, tea.Batch(cmds...)
	}

	cmds = append(cmds, m.panel.Update(msg))
	return m, tea.Batch(cmds...)
}

func (m *browseModel) View() string {
	if !m.IsReady() {
		return "Initializing..."
	}

	panel := styles.PanelStyle.Render(m.panel.View())
	body := lipgloss.JoinHorizontal(lipgloss.Top, m.table.View(), panel)
	if err := m.GetError(); err != nil {
		body = lipgloss.JoinVertical(lipgloss.Left, body, styles.ErrorStyle.Render("Device scan failed: "+err.Error()))
	}

	input := m.input.ViewWithMode(m.Selected(), m.IsInInsertMode())
	statusBar := m.statusBar.View(m.GetInputMode().String(), time.Now().Format("15:04:05"))

	view := lipgloss.JoinVertical(lipgloss.Left, body, input, statusBar)
	if m.help.ShowAll {
		view = lipgloss.JoinVertical(lipgloss.Left, view, m.help.View(m.keys))
	}
	return view
}

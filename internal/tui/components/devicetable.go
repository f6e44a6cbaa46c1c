package components

import (
	"github.com/charmbracelet/lipgloss"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/evertras/bubble-table/table"

	"github.com/allbin/go-mode"
	"github.com/allbin/go-mode/internal/sysdev"
	"github.com/allbin/go-mode/internal/tui/styles"
)

const (
	columnKeyName = "name"
	columnKeyPath = "path"
	columnKeyKind = "kind"
	columnKeyDesc = "description"
)

// DeviceTable lists devices with the console pinned as the first row.
type DeviceTable struct {
	table table.Model
	names []string
}

func NewDeviceTable(width, height int) *DeviceTable {
	columns := []table.Column{
		table.NewColumn(columnKeyName, "Name", 8),
		table.NewFlexColumn(columnKeyPath, "Path", 2),
		table.NewColumn(columnKeyKind, "Type", 9),
		table.NewFlexColumn(columnKeyDesc, "Description", 3),
	}

	t := table.New(columns).
		Focused(true).
		BorderRounded().
		HeaderStyle(lipgloss.NewStyle().Bold(true).Foreground(styles.Text)).
		HighlightStyle(styles.HighlightStyle).
		WithBaseStyle(lipgloss.NewStyle().Foreground(styles.Subtext1).BorderForeground(styles.Surface1))

	dt := &DeviceTable{table: t}
	dt.SetSize(width, height)
	dt.SetDevices(nil)
	return dt
}

// SetSize fits the table into width columns and height lines.
func (dt *DeviceTable) SetSize(width, height int) {
	if width < 40 {
		width = 40
	}
	// Header, its rule, the borders and the footer take five lines.
	page := height - 5
	if page < 1 {
		page = 1
	}
	dt.table = dt.table.WithTargetWidth(width).WithPageSize(page)
}

// SetDevices replaces the rows, keeping the console first.
func (dt *DeviceTable) SetDevices(devices []sysdev.DeviceInfo) {
	rows := make([]table.Row, 0, len(devices)+1)
	names := make([]string, 0, len(devices)+1)

	rows = append(rows, table.NewRow(table.RowData{
		columnKeyName: "CON",
		columnKeyPath: "",
		columnKeyKind: table.NewStyledCell("console", styles.KindStyle(mode.DeviceOther)),
		columnKeyDesc: "Console",
	}))
	names = append(names, "CON")

	for _, d := range devices {
		rows = append(rows, table.NewRow(table.RowData{
			columnKeyName: d.Name,
			columnKeyPath: d.Path,
			columnKeyKind: table.NewStyledCell(d.Kind.String(), styles.KindStyle(d.Kind)),
			columnKeyDesc: d.Description,
		}))
		names = append(names, d.Name)
	}

	dt.names = names
	dt.table = dt.table.WithRows(rows)
}

// Selected returns the name of the highlighted device.
func (dt *DeviceTable) Selected() string {
	i := dt.table.GetHighlightedRowIndex()
	if i < 0 || i >= len(dt.names) {
		return ""
	}
	return dt.names[i]
}

func (dt *DeviceTable) Focus(focused bool) {
	dt.table = dt.table.Focused(focused)
}

func (dt *DeviceTable) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	dt.table, cmd = dt.table.Update(msg)
	return cmd
}

func (dt *DeviceTable) View() string {
	return dt.table.View()
}

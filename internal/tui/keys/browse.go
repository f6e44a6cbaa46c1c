package keys

import "github.com/charmbracelet/bubbles/key"

// BrowseKeys drive the device browser. Row movement is handled by the
// device table itself.
type BrowseKeys struct {
	CommonKeys
	Up      key.Binding
	Down    key.Binding
	Enter   key.Binding
	Refresh key.Binding
	Console key.Binding
}

func NewBrowseKeys() BrowseKeys {
	return BrowseKeys{
		CommonKeys: NewCommonKeys(),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "apply settings"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "rescan devices"),
		),
		Console: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "console status"),
		),
	}
}

func (k BrowseKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.InsertMode, k.Refresh, k.Quit}
}

func (k BrowseKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Console, k.Refresh},
		{k.InsertMode, k.Enter, k.Escape},
		{k.Help, k.Quit},
	}
}

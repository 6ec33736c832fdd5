package main

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all keybindings for codedeck
type KeyMap struct {
	Save         key.Binding
	Run          key.Binding
	Palette      key.Binding
	Search       key.Binding
	NewFile      key.Binding
	NewProject   key.Binding
	DeleteFile   key.Binding
	SetMainFile  key.Binding
	CloseTab     key.Binding
	NextTab      key.Binding
	PrevTab      key.Binding
	ToggleOutput key.Binding
	FocusNext    key.Binding
	Back         key.Binding
	Help         key.Binding
	Quit         key.Binding
}

// DefaultKeyMap provides the default keybindings
var DefaultKeyMap = KeyMap{
	Save: key.NewBinding(
		key.WithKeys("ctrl+s"),
		key.WithHelp("C-s", "save"),
	),
	Run: key.NewBinding(
		key.WithKeys("ctrl+e"),
		key.WithHelp("C-e", "run"),
	),
	Palette: key.NewBinding(
		key.WithKeys("ctrl+p"),
		key.WithHelp("C-p", "commands"),
	),
	Search: key.NewBinding(
		key.WithKeys("ctrl+f"),
		key.WithHelp("C-f", "find"),
	),
	NewFile: key.NewBinding(
		key.WithKeys("ctrl+n", "n"),
		key.WithHelp("C-n", "new file"),
	),
	NewProject: key.NewBinding(
		key.WithKeys("N"),
		key.WithHelp("N", "new project"),
	),
	DeleteFile: key.NewBinding(
		key.WithKeys("d", "delete"),
		key.WithHelp("d", "delete file"),
	),
	SetMainFile: key.NewBinding(
		key.WithKeys("m"),
		key.WithHelp("m", "set main file"),
	),
	CloseTab: key.NewBinding(
		key.WithKeys("ctrl+w"),
		key.WithHelp("C-w", "close tab"),
	),
	NextTab: key.NewBinding(
		key.WithKeys("ctrl+pgdown"),
		key.WithHelp("C-pgdn", "next tab"),
	),
	PrevTab: key.NewBinding(
		key.WithKeys("ctrl+pgup"),
		key.WithHelp("C-pgup", "prev tab"),
	),
	ToggleOutput: key.NewBinding(
		key.WithKeys("ctrl+o"),
		key.WithHelp("C-o", "output"),
	),
	FocusNext: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "cycle focus"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "back"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c", "ctrl+q"),
		key.WithHelp("C-c", "quit"),
	),
}

// ShortHelp returns keybindings for the short help view
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Save, k.Run, k.Palette, k.Search, k.Help, k.Quit}
}

// FullHelp returns keybindings for the full help view
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Save, k.Run, k.Palette, k.Search},
		{k.NewFile, k.NewProject, k.DeleteFile, k.SetMainFile},
		{k.CloseTab, k.NextTab, k.PrevTab, k.ToggleOutput},
		{k.FocusNext, k.Back, k.Help, k.Quit},
	}
}

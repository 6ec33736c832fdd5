package main

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Command is a named action reachable from the palette and, optionally, a
// keyboard shortcut. Enabled gates both: a disabled command is inert in the
// palette and its shortcut does nothing.
type Command struct {
	Name    string
	Help    string
	Key     key.Binding
	Enabled func(m *Model) bool
	Run     func(m *Model) tea.Cmd
}

func always(*Model) bool { return true }

func hasProject(m *Model) bool { return m.session.CurrentProject != "" }

func hasOpenFile(m *Model) bool { return m.session.CurrentFile != "" }

func hasFileTarget(m *Model) bool { return m.fileTarget() != "" }

func hasRunTarget(m *Model) bool { return hasProject(m) && m.runTarget() != "" }

// buildCommands assembles the command registry. Palette order follows this
// slice.
func buildCommands(keys KeyMap) []Command {
	return []Command{
		{
			Name: "save file", Help: "save the current file",
			Key: keys.Save, Enabled: hasOpenFile,
			Run: func(m *Model) tea.Cmd { return m.saveFile(m.session.CurrentFile) },
		},
		{
			Name: "run", Help: "execute the project's main file",
			Key: keys.Run, Enabled: hasRunTarget,
			Run: func(m *Model) tea.Cmd { return m.promptRunInput() },
		},
		{
			Name: "find", Help: "search in the current file",
			Key: keys.Search, Enabled: hasOpenFile,
			Run: func(m *Model) tea.Cmd { m.openSearch(); return nil },
		},
		{
			Name: "new file", Help: "create a file in the current project",
			Key: keys.NewFile, Enabled: hasProject,
			Run: func(m *Model) tea.Cmd { m.promptNewFile(); return nil },
		},
		{
			Name: "delete file", Help: "delete the selected file",
			Key: keys.DeleteFile, Enabled: hasFileTarget,
			Run: func(m *Model) tea.Cmd { m.promptDeleteFile(m.fileTarget()); return nil },
		},
		{
			Name: "set main file", Help: "mark the selected file as the run target",
			Key: keys.SetMainFile, Enabled: hasFileTarget,
			Run: func(m *Model) tea.Cmd { return m.setMainFile(m.fileTarget()) },
		},
		{
			Name: "new project", Help: "create a project",
			Key: keys.NewProject, Enabled: always,
			Run: func(m *Model) tea.Cmd { m.promptNewProject(); return nil },
		},
		{
			Name: "delete project", Help: "delete the current project and all its files",
			Enabled: hasProject,
			Run:     func(m *Model) tea.Cmd { m.promptDeleteProject(); return nil },
		},
		{
			Name: "close tab", Help: "close the current editor tab",
			Key: keys.CloseTab, Enabled: hasOpenFile,
			Run: func(m *Model) tea.Cmd { m.closeCurrentTab(); return nil },
		},
		{
			Name: "next tab", Help: "switch to the next open tab",
			Key: keys.NextTab, Enabled: hasOpenFile,
			Run: func(m *Model) tea.Cmd { m.cycleTab(1); return nil },
		},
		{
			Name: "prev tab", Help: "switch to the previous open tab",
			Key: keys.PrevTab, Enabled: hasOpenFile,
			Run: func(m *Model) tea.Cmd { m.cycleTab(-1); return nil },
		},
		{
			Name: "toggle output", Help: "show or hide the output pane",
			Key: keys.ToggleOutput, Enabled: always,
			Run: func(m *Model) tea.Cmd { m.toggleOutput(); return nil },
		},
		{
			Name: "toggle autosave", Help: "enable or disable autosave",
			Enabled: always,
			Run:     func(m *Model) tea.Cmd { return m.toggleAutosave() },
		},
		{
			Name: "toggle theme", Help: "switch between dark and light themes",
			Enabled: always,
			Run:     func(m *Model) tea.Cmd { return m.toggleTheme() },
		},
		{
			Name: "switch project", Help: "go back to the project list",
			Enabled: hasProject,
			Run:     func(m *Model) tea.Cmd { return m.leaveProject() },
		},
		{
			Name: "log out", Help: "end the session and return to login",
			Enabled: always,
			Run:     func(m *Model) tea.Cmd { return m.logout("") },
		},
		{
			Name: "quit", Help: "exit codedeck",
			Key: keys.Quit, Enabled: always,
			Run: func(m *Model) tea.Cmd { return tea.Quit },
		},
	}
}

// matchCommand finds the first enabled command whose shortcut matches the
// key. While an editable control has focus only chorded shortcuts fire, so
// plain letters still insert text.
func (m *Model) matchCommand(msg tea.KeyMsg) (Command, bool) {
	editable := m.editableFocus()
	for _, c := range m.commands {
		if !key.Matches(msg, c.Key) {
			continue
		}
		if editable && !chordedKey(msg) {
			continue
		}
		if c.Enabled != nil && !c.Enabled(m) {
			return Command{}, false
		}
		return c, true
	}
	return Command{}, false
}

// commandByName looks up a palette entry
func (m *Model) commandByName(name string) (Command, bool) {
	for _, c := range m.commands {
		if c.Name == name {
			return c, true
		}
	}
	return Command{}, false
}

// chordedKey reports whether the keypress carries a modifier and is
// therefore safe to dispatch while the user is typing
func chordedKey(msg tea.KeyMsg) bool {
	s := msg.String()
	return strings.HasPrefix(s, "ctrl+") || strings.HasPrefix(s, "alt+")
}

package main

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestShortcutSuppressionWhileTyping(t *testing.T) {
	m := newTestModel(t)
	openProject(&m, "demo")
	m.session.SeedFile("notes.txt", "")
	m.editor.SyncTab("")

	// "n" opens the new-file prompt from the explorer...
	m.focus = focusExplorer
	if _, ok := m.matchCommand(runeKey('n')); !ok {
		t.Error("plain-letter shortcut should fire outside the editor")
	}

	// ...but types a letter in the editor.
	m.focus = focusEditor
	if _, ok := m.matchCommand(runeKey('n')); ok {
		t.Error("plain-letter shortcut must not fire while editing")
	}
	m2, _ := update(t, m, runeKey('n'))
	if m2.session.CurrentContent() != "n" {
		t.Errorf("content = %q, want the typed letter", m2.session.CurrentContent())
	}

	// Chorded shortcuts work everywhere.
	if _, ok := m.matchCommand(tea.KeyMsg{Type: tea.KeyCtrlN}); !ok {
		t.Error("ctrl shortcut should fire in the editor")
	}
}

func TestDisabledCommandShortcutInert(t *testing.T) {
	m := newTestModel(t)
	// No project open: new-file is disabled, its shortcut does nothing.
	if _, ok := m.matchCommand(tea.KeyMsg{Type: tea.KeyCtrlN}); ok {
		t.Error("disabled command dispatched")
	}
	// Save with no open file is likewise inert.
	if _, ok := m.matchCommand(tea.KeyMsg{Type: tea.KeyCtrlS}); ok {
		t.Error("save dispatched with no file open")
	}
}

func TestPaletteFilterAndEnabledState(t *testing.T) {
	m := newTestModel(t)
	p := NewCommandPalette(&m)

	// With nothing open, project-scoped commands are listed but disabled.
	var newFile, newProject *paletteEntry
	for i := range p.entries {
		switch p.entries[i].Name {
		case "new file":
			newFile = &p.entries[i]
		case "new project":
			newProject = &p.entries[i]
		}
	}
	if newFile == nil || newProject == nil {
		t.Fatal("expected registry entries in the palette")
	}
	if newFile.Enabled {
		t.Error("new file should be disabled without a project")
	}
	if !newProject.Enabled {
		t.Error("new project should always be enabled")
	}

	// Filtering matches name and help text, case-insensitively.
	for _, r := range "THEME" {
		p.HandleKey(runeKey(r))
	}
	if len(p.filtered) != 1 || p.filtered[0].Name != "toggle theme" {
		t.Errorf("filtered = %+v", p.filtered)
	}

	// Backspace widens the filter again.
	for range "THEME" {
		p.HandleKey(tea.KeyMsg{Type: tea.KeyBackspace})
	}
	if len(p.filtered) != len(p.entries) {
		t.Errorf("filter not reset: %d of %d", len(p.filtered), len(p.entries))
	}
}

func TestPaletteEnterOnDisabledDoesNothing(t *testing.T) {
	m := newTestModel(t)
	p := NewCommandPalette(&m)

	for _, r := range "new file" {
		if r == ' ' {
			p.HandleKey(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
			continue
		}
		p.HandleKey(runeKey(r))
	}
	if len(p.filtered) == 0 || p.filtered[0].Name != "new file" {
		t.Fatalf("filtered = %+v", p.filtered)
	}

	p.HandleKey(tea.KeyMsg{Type: tea.KeyEnter})
	if p.SelectedAction != "" {
		t.Error("enter on a disabled command selected it")
	}
}

func TestCommandDispatchOpensOverlay(t *testing.T) {
	m := newTestModel(t)
	openProject(&m, "demo")

	m2, _ := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlN})
	if m2.overlays.Get("new-file") == nil {
		t.Error("ctrl+n should open the new-file prompt")
	}
}

package main

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"codedeck/workspace"
)

func newTestEditor(content string) (*workspace.Session, *EditorView) {
	s := workspace.NewSession()
	s.ResetProject("demo")
	s.SeedFile("main.py", content)
	e := NewEditorView(s)
	e.SyncTab("")
	return s, e
}

func TestEditorTypingMarksEdited(t *testing.T) {
	s, e := newTestEditor("")

	for _, r := range "hi" {
		if !e.HandleKey(runeKey(r)) {
			t.Fatal("rune key not consumed")
		}
	}
	if s.CurrentContent() != "hi" {
		t.Errorf("content = %q, want hi", s.CurrentContent())
	}
	if !e.Edited {
		t.Error("Edited flag not set")
	}
	if !s.Dirty("main.py") {
		t.Error("typed file should be dirty")
	}
}

func TestEditorAutoIndentOnEnter(t *testing.T) {
	_, e := newTestEditor("def f():")
	e.SetCursor(len("def f():"))

	e.HandleKey(tea.KeyMsg{Type: tea.KeyEnter})
	want := "def f():\n    "
	if got := e.doc(); got != want {
		t.Errorf("doc = %q, want %q", got, want)
	}
	if e.Cursor() != len(want) {
		t.Errorf("cursor = %d, want %d", e.Cursor(), len(want))
	}
}

func TestEditorTabIndentsSelection(t *testing.T) {
	_, e := newTestEditor("one\ntwo")
	e.SelectRange(1, 5)

	e.HandleKey(tea.KeyMsg{Type: tea.KeyTab})
	want := "    one\n    two"
	if got := e.doc(); got != want {
		t.Errorf("doc = %q, want %q", got, want)
	}

	// Shift+tab undoes it.
	e.HandleKey(tea.KeyMsg{Type: tea.KeyShiftTab})
	if got := e.doc(); got != "one\ntwo" {
		t.Errorf("after outdent doc = %q", got)
	}
}

func TestEditorTabWithoutSelectionInsertsUnit(t *testing.T) {
	_, e := newTestEditor("ab")
	e.SetCursor(1)

	e.HandleKey(tea.KeyMsg{Type: tea.KeyTab})
	if got := e.doc(); got != "a    b" {
		t.Errorf("doc = %q, want %q", got, "a    b")
	}
}

func TestEditorBackspaceDeletesSelection(t *testing.T) {
	_, e := newTestEditor("hello world")
	e.SelectRange(5, 11)

	e.HandleKey(tea.KeyMsg{Type: tea.KeyBackspace})
	if got := e.doc(); got != "hello" {
		t.Errorf("doc = %q, want hello", got)
	}
	if e.Cursor() != 5 {
		t.Errorf("cursor = %d, want 5", e.Cursor())
	}
}

func TestEditorVerticalMovementKeepsColumn(t *testing.T) {
	_, e := newTestEditor("alpha\nbé\ngamma")
	e.SetCursor(4) // Inside "alpha", column 4

	e.HandleKey(tea.KeyMsg{Type: tea.KeyDown})
	// Second line has two runes; the column clamps to its end.
	if e.Cursor() != len("alpha\nbé") {
		t.Errorf("cursor = %d, want end of second line", e.Cursor())
	}

	e.HandleKey(tea.KeyMsg{Type: tea.KeyDown})
	lines := "alpha\nbé\n"
	if e.Cursor() != len(lines)+2 {
		t.Errorf("cursor = %d, want column 2 on third line", e.Cursor())
	}
}

func TestEditorCursorPerFile(t *testing.T) {
	s, e := newTestEditor("first file content")
	e.SetCursor(5)

	prev := s.CurrentFile
	s.SeedFile("other.py", "short")
	e.SyncTab(prev)
	if e.Cursor() != 0 {
		t.Errorf("new file cursor = %d, want 0", e.Cursor())
	}

	prev = s.CurrentFile
	s.OpenCached("main.py")
	e.SyncTab(prev)
	if e.Cursor() != 5 {
		t.Errorf("restored cursor = %d, want 5", e.Cursor())
	}
}

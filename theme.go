package main

import (
	"image/color"

	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/lipgloss/v2"
)

// Theme holds the colors used across the UI. Two built-in themes exist; the
// active one is part of persisted UI state.
type Theme struct {
	Name string

	Accent    color.Color // Borders of the focused region, highlights
	Border    color.Color // Borders of unfocused regions
	Dim       color.Color // Help text, line numbers, placeholders
	Text      color.Color
	Dirty     color.Color // Unsaved-changes marker
	ErrorText color.Color
	Selection color.Color // Search match / selected text background
}

var darkTheme = Theme{
	Name:      "dark",
	Accent:    lipgloss.Color("63"),
	Border:    lipgloss.Color("240"),
	Dim:       lipgloss.Color("245"),
	Text:      lipgloss.Color("252"),
	Dirty:     lipgloss.Color("214"),
	ErrorText: lipgloss.Color("196"),
	Selection: lipgloss.Color("24"),
}

var lightTheme = Theme{
	Name:      "light",
	Accent:    lipgloss.Color("26"),
	Border:    lipgloss.Color("250"),
	Dim:       lipgloss.Color("244"),
	Text:      lipgloss.Color("235"),
	Dirty:     lipgloss.Color("166"),
	ErrorText: lipgloss.Color("124"),
	Selection: lipgloss.Color("153"),
}

// basic 4-bit fallbacks for terminals without 256-color support
var basicTheme = Theme{
	Name:      "dark",
	Accent:    lipgloss.Color("4"),
	Border:    lipgloss.Color("8"),
	Dim:       lipgloss.Color("7"),
	Text:      lipgloss.Color("15"),
	Dirty:     lipgloss.Color("3"),
	ErrorText: lipgloss.Color("1"),
	Selection: lipgloss.Color("4"),
}

// ThemeFor returns the named theme, degraded to basic ANSI colors when the
// terminal can't do better.
func ThemeFor(name string, profile colorprofile.Profile) Theme {
	if profile < colorprofile.ANSI256 {
		t := basicTheme
		t.Name = name
		return t
	}
	if name == "light" {
		return lightTheme
	}
	return darkTheme
}

// NextTheme cycles dark -> light -> dark.
func NextTheme(name string) string {
	if name == "light" {
		return "dark"
	}
	return "light"
}

func (t Theme) cursorStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Background(lipgloss.Color("255")).
		Foreground(lipgloss.Color("0"))
}

func (t Theme) dimStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Dim)
}

func (t Theme) accentStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Accent)
}

func (t Theme) errorStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.ErrorText)
}

func (t Theme) dirtyStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Dirty)
}

func (t Theme) selectionStyle() lipgloss.Style {
	return lipgloss.NewStyle().Background(t.Selection)
}

func (t Theme) highlightStyle() lipgloss.Style {
	return lipgloss.NewStyle().Background(t.Accent).Foreground(lipgloss.Color("0"))
}

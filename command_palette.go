package main

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss/v2"
)

// paletteEntry is one row in the command palette
type paletteEntry struct {
	Name     string
	Help     string
	Shortcut string
	Enabled  bool
}

// CommandPalette is a searchable list over the command registry
type CommandPalette struct {
	entries        []paletteEntry
	filtered       []paletteEntry
	query          string
	selected       int
	scrollOffset   int    // First visible item index
	SelectedAction string // Set when Enter pressed on an enabled command
}

// NewCommandPalette builds a palette snapshot from the registry. Enabled
// state is evaluated once, at open time.
func NewCommandPalette(m *Model) *CommandPalette {
	var entries []paletteEntry
	for _, c := range m.commands {
		shortcut := ""
		if c.Key.Enabled() {
			shortcut = c.Key.Help().Key
		}
		enabled := c.Enabled == nil || c.Enabled(m)
		entries = append(entries, paletteEntry{
			Name:     c.Name,
			Help:     c.Help,
			Shortcut: shortcut,
			Enabled:  enabled,
		})
	}
	return &CommandPalette{entries: entries, filtered: entries}
}

func (c *CommandPalette) filter() {
	if c.query == "" {
		c.filtered = c.entries
	} else {
		q := strings.ToLower(c.query)
		c.filtered = nil
		for _, e := range c.entries {
			if strings.Contains(strings.ToLower(e.Name), q) ||
				strings.Contains(strings.ToLower(e.Help), q) {
				c.filtered = append(c.filtered, e)
			}
		}
	}

	// Reset selection and scroll if out of bounds
	if c.selected >= len(c.filtered) {
		c.selected = len(c.filtered) - 1
	}
	if c.selected < 0 {
		c.selected = 0
	}
	c.scrollOffset = 0
}

func (c *CommandPalette) Title() string {
	return "commands"
}

func (c *CommandPalette) Render(w, h int, th Theme) string {
	var sb strings.Builder

	// Query line
	sb.WriteString(th.accentStyle().Render(": "))
	sb.WriteString(c.query)
	sb.WriteString(th.cursorStyle().Render(" "))
	sb.WriteString("\n")

	// Separator
	sb.WriteString(strings.Repeat("─", w))
	sb.WriteString("\n")

	selectedStyle := th.highlightStyle()
	helpStyle := th.dimStyle()
	disabledStyle := lipgloss.NewStyle().Foreground(th.Border)

	listH := h - 2 // Account for query line and separator
	if listH < 1 {
		listH = 1
	}
	c.AdjustScroll(listH)

	nameW := w / 3
	if nameW < 12 {
		nameW = 12
	}

	visibleCount := 0
	for i := c.scrollOffset; i < len(c.filtered) && visibleCount < listH; i++ {
		e := c.filtered[i]
		name := e.Name
		nameRunes := []rune(name)
		if len(nameRunes) > nameW {
			name = string(nameRunes[:nameW-1]) + "…"
		}

		detail := e.Help
		if e.Shortcut != "" {
			detail = e.Shortcut + "  " + detail
		}

		var line string
		switch {
		case !e.Enabled:
			line = disabledStyle.Render(padRight(name, nameW) + " " + detail)
		case i == c.selected:
			line = selectedStyle.Render(padRight(name, nameW)) + " " + helpStyle.Render(detail)
		default:
			line = padRight(name, nameW) + " " + helpStyle.Render(detail)
		}

		if lipgloss.Width(line) > w {
			lineRunes := []rune(line)
			if len(lineRunes) > w {
				line = string(lineRunes[:w])
			}
		}

		sb.WriteString(line)
		visibleCount++
		if visibleCount < listH {
			sb.WriteString("\n")
		}
	}

	// Pad remaining lines if needed
	for visibleCount < listH {
		sb.WriteString(strings.Repeat(" ", w))
		visibleCount++
		if visibleCount < listH {
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

func (c *CommandPalette) HandleKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	switch msg.Type {
	case tea.KeyUp:
		if c.selected > 0 {
			c.selected--
			if c.selected < c.scrollOffset {
				c.scrollOffset = c.selected
			}
		}
		return true, nil

	case tea.KeyDown:
		if c.selected < len(c.filtered)-1 {
			c.selected++
		}
		return true, nil

	case tea.KeyEnter:
		if c.selected >= 0 && c.selected < len(c.filtered) && c.filtered[c.selected].Enabled {
			c.SelectedAction = c.filtered[c.selected].Name
		}
		return true, nil

	case tea.KeyBackspace:
		if len(c.query) > 0 {
			c.query = c.query[:len(c.query)-1]
			c.filter()
		}
		return true, nil

	case tea.KeyEscape:
		// Let parent handle escape
		return false, nil

	default:
		if len(msg.Runes) > 0 {
			c.query += string(msg.Runes)
			c.filter()
			return true, nil
		}
	}

	return false, nil
}

// AdjustScroll ensures selected item is visible given the list height
func (c *CommandPalette) AdjustScroll(listH int) {
	if listH < 1 {
		listH = 1
	}
	if c.selected >= c.scrollOffset+listH {
		c.scrollOffset = c.selected - listH + 1
	}
	if c.selected < c.scrollOffset {
		c.scrollOffset = c.selected
	}
}

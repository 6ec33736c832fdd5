package main

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss/v2"
)

// renderStatusBar draws the one-line footer: project and file on the left,
// save and autosave state on the right. Transient messages replace the left
// side until they expire.
func (m *Model) renderStatusBar(w int) string {
	th := m.theme

	left := ""
	switch {
	case m.statusMsg != "" && m.statusIsErr:
		left = th.errorStyle().Render(" " + m.statusMsg)
	case m.statusMsg != "":
		left = th.dimStyle().Render(" " + m.statusMsg)
	case m.session.CurrentProject == "":
		left = th.dimStyle().Render(" select a project")
	default:
		left = " " + m.session.CurrentProject
		if m.session.CurrentFile != "" {
			left += th.dimStyle().Render(" › ") + m.session.CurrentFile
			if m.session.Dirty(m.session.CurrentFile) {
				left += th.dirtyStyle().Render(" ●")
			}
		}
	}

	var parts []string
	if len(m.saving) > 0 {
		parts = append(parts, "saving…")
	} else if !m.lastSavedAt.IsZero() {
		parts = append(parts, "saved "+m.lastSavedAt.Format("15:04:05"))
	}
	if m.state.Autosave {
		parts = append(parts, "autosave on")
	} else {
		parts = append(parts, "autosave off")
	}
	parts = append(parts, m.theme.Name)
	right := th.dimStyle().Render(strings.Join(parts, " · ") + " ")

	gap := w - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}

// setStatus shows a transient message in the status bar
func (m *Model) setStatus(msg string, isErr bool) {
	m.statusMsg = msg
	m.statusIsErr = isErr
	m.statusGen++
}

const statusLifetime = 4 * time.Second

package main

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// autosaveTickMsg fires when the autosave debounce window elapses. Each edit
// bumps the generation; a tick whose generation is stale is ignored, so only
// the timer armed by the last edit in a burst actually saves. The tick also
// carries the file it was armed for: switching tabs before it fires cancels
// the save rather than committing whatever file is current by then.
type autosaveTickMsg struct {
	gen  int
	path string
}

// scheduleAutosave arms the debounce timer for the given generation and file
func scheduleAutosave(gen int, path string, delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return autosaveTickMsg{gen: gen, path: path}
	})
}

// statusExpireMsg clears a transient status bar message
type statusExpireMsg struct {
	gen int
}

func expireStatus(gen int, after time.Duration) tea.Cmd {
	return tea.Tick(after, func(time.Time) tea.Msg {
		return statusExpireMsg{gen: gen}
	})
}

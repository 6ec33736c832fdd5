package main

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// UIState is the small slice of state that survives restarts: cosmetic
// preferences and the auth token. Everything else lives on the server.
type UIState struct {
	Theme    string `json:"theme"`
	Autosave bool   `json:"autosave"`
	Token    string `json:"token,omitempty"`
}

func defaultUIState() UIState {
	return UIState{Theme: "dark", Autosave: true}
}

func statePath() string {
	return filepath.Join(os.Getenv("HOME"), ".config", "codedeck", "state.json")
}

// LoadUIState reads persisted state, falling back to defaults on any error.
func LoadUIState() UIState {
	data, err := os.ReadFile(statePath())
	if err != nil {
		return defaultUIState()
	}
	st := defaultUIState()
	if err := json.Unmarshal(data, &st); err != nil {
		return defaultUIState()
	}
	if st.Theme != "dark" && st.Theme != "light" {
		st.Theme = "dark"
	}
	return st
}

// SaveUIState writes state to disk, creating the config directory if needed.
// Failures are non-fatal; the caller may log them.
func SaveUIState(st UIState) error {
	path := statePath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

package main

import (
	_ "embed"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/charmbracelet/bubbles/key"
)

//go:embed codedeck.default.json
var defaultConfigJSON []byte

// Config holds all codedeck configuration
type Config struct {
	ServerURL       string       `json:"server_url"`
	AutosaveDelayMs int          `json:"autosave_delay_ms"`
	Keys            KeyMapConfig `json:"keys"`
}

// KeyMapConfig defines key bindings in config file format. An empty list
// disables the binding.
type KeyMapConfig struct {
	Save         []string `json:"save"`
	Run          []string `json:"run"`
	Palette      []string `json:"command_palette"`
	Search       []string `json:"search"`
	NewFile      []string `json:"new_file"`
	NewProject   []string `json:"new_project"`
	DeleteFile   []string `json:"delete_file"`
	SetMainFile  []string `json:"set_main_file"`
	CloseTab     []string `json:"close_tab"`
	NextTab      []string `json:"next_tab"`
	PrevTab      []string `json:"prev_tab"`
	ToggleOutput []string `json:"toggle_output"`
	FocusNext    []string `json:"focus_next"`
	Back         []string `json:"back"`
	Help         []string `json:"help"`
	Quit         []string `json:"quit"`
}

// LoadConfig loads configuration from first found config file
func LoadConfig() Config {
	paths := []string{
		"codedeck.json",
		filepath.Join(os.Getenv("HOME"), ".config", "codedeck", "codedeck.json"),
	}

	for _, path := range paths {
		if cfg, err := loadConfigFile(path); err == nil {
			return cfg
		}
	}

	// Fall back to embedded default config
	var cfg Config
	if err := json.Unmarshal(defaultConfigJSON, &cfg); err != nil {
		panic("embedded default config is invalid: " + err.Error())
	}
	return cfg
}

func loadConfigFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}

	if cfg.AutosaveDelayMs <= 0 {
		cfg.AutosaveDelayMs = 1500
	}
	return cfg, nil
}

// ToKeyMap converts config to KeyMap. Bindings absent from the config keep
// their defaults.
func (c *Config) ToKeyMap() KeyMap {
	km := DefaultKeyMap
	override(&km.Save, c.Keys.Save, "save")
	override(&km.Run, c.Keys.Run, "run")
	override(&km.Palette, c.Keys.Palette, "commands")
	override(&km.Search, c.Keys.Search, "find")
	override(&km.NewFile, c.Keys.NewFile, "new file")
	override(&km.NewProject, c.Keys.NewProject, "new project")
	override(&km.DeleteFile, c.Keys.DeleteFile, "delete file")
	override(&km.SetMainFile, c.Keys.SetMainFile, "set main file")
	override(&km.CloseTab, c.Keys.CloseTab, "close tab")
	override(&km.NextTab, c.Keys.NextTab, "next tab")
	override(&km.PrevTab, c.Keys.PrevTab, "prev tab")
	override(&km.ToggleOutput, c.Keys.ToggleOutput, "output")
	override(&km.FocusNext, c.Keys.FocusNext, "cycle focus")
	override(&km.Back, c.Keys.Back, "back")
	override(&km.Help, c.Keys.Help, "help")
	override(&km.Quit, c.Keys.Quit, "quit")
	return km
}

func override(b *key.Binding, keys []string, help string) {
	if len(keys) == 0 {
		return
	}
	*b = key.NewBinding(
		key.WithKeys(keys...),
		key.WithHelp(keys[0], help),
	)
}

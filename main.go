package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/colorprofile"

	"codedeck/api"
)

func main() {
	cfg := LoadConfig()

	server := flag.String("server", cfg.ServerURL, "backend server URL")
	logPath := flag.String("log", "", "debug log file (disabled when empty)")
	flag.Parse()
	cfg.ServerURL = *server

	logger, err := newLogger(*logPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()

	profile := colorprofile.Detect(os.Stdout, os.Environ())
	logger.Infow("starting", "server", cfg.ServerURL, "colors", profile.String())

	client := api.New(cfg.ServerURL)
	model := NewModel(client, cfg, LoadUIState(), profile, logger)

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

package main

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// OutputPane displays execution output in a scrollable viewport
type OutputPane struct {
	viewport viewport.Model
	content  string
	running  bool
	lastFile string // File whose run produced the content
}

// NewOutputPane creates an empty output pane
func NewOutputPane() *OutputPane {
	vp := viewport.New(0, 0)
	vp.MouseWheelEnabled = true
	return &OutputPane{viewport: vp}
}

// SetRunning marks a run as in flight for the given file
func (o *OutputPane) SetRunning(file string) {
	o.running = true
	o.lastFile = file
	o.content = ""
}

// SetOutput installs the run result and scrolls to the top
func (o *OutputPane) SetOutput(output string) {
	o.running = false
	o.content = output
	o.viewport.GotoTop()
}

// SetError shows a failed run
func (o *OutputPane) SetError(message string) {
	o.running = false
	o.content = message
}

// Clear empties the pane
func (o *OutputPane) Clear() {
	o.running = false
	o.content = ""
	o.lastFile = ""
}

func (o *OutputPane) Title() string {
	if o.lastFile == "" {
		return "output"
	}
	return "output · " + o.lastFile
}

func (o *OutputPane) Render(w, h int, th Theme) string {
	o.viewport.Width = w
	o.viewport.Height = h

	switch {
	case o.running:
		o.viewport.SetContent(th.dimStyle().Render("running " + o.lastFile + "…"))
	case o.content == "":
		o.viewport.SetContent(th.dimStyle().Render("no output yet"))
	default:
		o.viewport.SetContent(strings.TrimRight(o.content, "\n"))
	}

	return o.viewport.View()
}

func (o *OutputPane) HandleKey(msg tea.KeyMsg) bool {
	var cmd tea.Cmd
	o.viewport, cmd = o.viewport.Update(msg)
	return cmd != nil || msg.Type == tea.KeyUp || msg.Type == tea.KeyDown ||
		msg.Type == tea.KeyPgUp || msg.Type == tea.KeyPgDown
}

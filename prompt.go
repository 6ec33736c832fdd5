package main

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// PromptOverlay asks for a single line of input, validating before accept.
// The parent reads Submitted/Value after each key.
type PromptOverlay struct {
	title    string
	label    string
	input    textinput.Model
	validate func(string) error
	errText  string

	Submitted bool
	Value     string
}

// NewPromptOverlay creates a prompt. validate may be nil.
func NewPromptOverlay(title, label, initial string, validate func(string) error) *PromptOverlay {
	ti := textinput.New()
	ti.SetValue(initial)
	ti.CursorEnd()
	ti.Focus()
	ti.Prompt = "> "
	return &PromptOverlay{
		title:    title,
		label:    label,
		input:    ti,
		validate: validate,
	}
}

func (p *PromptOverlay) Title() string {
	return p.title
}

func (p *PromptOverlay) Render(w, h int, th Theme) string {
	var sb strings.Builder
	sb.WriteString(th.dimStyle().Render(p.label))
	sb.WriteString("\n")
	p.input.Width = w - 4
	sb.WriteString(p.input.View())
	if p.errText != "" {
		sb.WriteString("\n")
		sb.WriteString(th.errorStyle().Render(p.errText))
	}
	return sb.String()
}

func (p *PromptOverlay) HandleKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		value := strings.TrimSpace(p.input.Value())
		if p.validate != nil {
			if err := p.validate(value); err != nil {
				p.errText = err.Error()
				return true, nil
			}
		}
		p.Value = value
		p.Submitted = true
		return true, nil

	case tea.KeyEscape:
		// Let parent close the overlay
		return false, nil
	}

	p.errText = ""
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return true, cmd
}

// ConfirmOverlay asks a yes/no question. Destructive commands route through
// it; only an explicit "y" confirms.
type ConfirmOverlay struct {
	title    string
	question string

	Confirmed bool
	Dismissed bool
}

func NewConfirmOverlay(title, question string) *ConfirmOverlay {
	return &ConfirmOverlay{title: title, question: question}
}

func (c *ConfirmOverlay) Title() string {
	return c.title
}

func (c *ConfirmOverlay) Render(w, h int, th Theme) string {
	return c.question + "\n" + th.dimStyle().Render("y to confirm, n or esc to cancel")
}

func (c *ConfirmOverlay) HandleKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		c.Confirmed = true
		return true, nil
	case "n", "N":
		c.Dismissed = true
		return true, nil
	case "esc":
		return false, nil
	}
	return true, nil
}

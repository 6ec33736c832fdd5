package main

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss/v2"

	"codedeck/workspace"
)

// LoginForm is the full-screen auth form. It covers both login and account
// registration; ctrl+r flips between the two.
type LoginForm struct {
	username textinput.Model
	password textinput.Model
	confirm  textinput.Model

	registerMode bool
	field        int // 0 username, 1 password, 2 confirm (register only)
	errText      string
	busy         bool

	// Submitted is set when the form passes validation on enter. The model
	// reads the values, clears the flag, and issues the API call.
	Submitted bool
}

// NewLoginForm creates the form with the username field focused
func NewLoginForm() *LoginForm {
	user := textinput.New()
	user.Prompt = "username: "
	user.Focus()

	pass := textinput.New()
	pass.Prompt = "password: "
	pass.EchoMode = textinput.EchoPassword

	conf := textinput.New()
	conf.Prompt = " confirm: "
	conf.EchoMode = textinput.EchoPassword

	return &LoginForm{username: user, password: pass, confirm: conf}
}

// Values returns the trimmed username and the password
func (f *LoginForm) Values() (string, string) {
	return strings.TrimSpace(f.username.Value()), f.password.Value()
}

// RegisterMode reports whether the form is in registration mode
func (f *LoginForm) RegisterMode() bool {
	return f.registerMode
}

// SetBusy blocks input while an auth request is in flight
func (f *LoginForm) SetBusy(busy bool) {
	f.busy = busy
}

// SetError shows a failure from the backend and re-enables the form
func (f *LoginForm) SetError(msg string) {
	f.errText = msg
	f.busy = false
}

// fieldCount returns how many inputs the current mode shows
func (f *LoginForm) fieldCount() int {
	if f.registerMode {
		return 3
	}
	return 2
}

func (f *LoginForm) focusField(i int) {
	f.field = i
	inputs := []*textinput.Model{&f.username, &f.password, &f.confirm}
	for j, in := range inputs {
		if j == i {
			in.Focus()
		} else {
			in.Blur()
		}
	}
}

// HandleKey processes form input
func (f *LoginForm) HandleKey(msg tea.KeyMsg) {
	if f.busy {
		return
	}

	switch msg.String() {
	case "tab", "down", "enter":
		if msg.String() == "enter" && f.field == f.fieldCount()-1 {
			f.submit()
			return
		}
		f.focusField((f.field + 1) % f.fieldCount())
		return
	case "shift+tab", "up":
		f.focusField((f.field - 1 + f.fieldCount()) % f.fieldCount())
		return
	case "ctrl+r":
		f.registerMode = !f.registerMode
		f.errText = ""
		if f.field >= f.fieldCount() {
			f.focusField(0)
		}
		return
	}

	f.errText = ""
	var cmd tea.Cmd
	switch f.field {
	case 0:
		f.username, cmd = f.username.Update(msg)
	case 1:
		f.password, cmd = f.password.Update(msg)
	case 2:
		f.confirm, cmd = f.confirm.Update(msg)
	}
	_ = cmd
}

func (f *LoginForm) submit() {
	username, password := f.Values()
	confirm := password
	if f.registerMode {
		confirm = f.confirm.Value()
	}
	if err := workspace.ValidateCredentials(username, password, confirm); err != nil {
		f.errText = err.Error()
		return
	}
	f.Submitted = true
	f.busy = true
}

// Render draws the form centered on the screen
func (f *LoginForm) Render(w, h int, th Theme, serverURL string) string {
	title := "codedeck · log in"
	action := "enter to log in · ctrl+r to register"
	if f.registerMode {
		title = "codedeck · register"
		action = "enter to register · ctrl+r to log in"
	}

	var sb strings.Builder
	sb.WriteString(th.accentStyle().Bold(true).Render(title))
	sb.WriteString("\n\n")
	sb.WriteString(f.username.View())
	sb.WriteString("\n")
	sb.WriteString(f.password.View())
	if f.registerMode {
		sb.WriteString("\n")
		sb.WriteString(f.confirm.View())
	}
	sb.WriteString("\n\n")

	switch {
	case f.busy:
		sb.WriteString(th.dimStyle().Render("contacting " + serverURL + "…"))
	case f.errText != "":
		sb.WriteString(th.errorStyle().Render(f.errText))
	default:
		sb.WriteString(th.dimStyle().Render(action))
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(th.Accent).
		Padding(1, 3).
		Render(sb.String())

	return lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center, box)
}

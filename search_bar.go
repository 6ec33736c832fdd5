package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// searchAction tells the parent what the user asked the search bar to do
type searchAction int

const (
	searchNone searchAction = iota
	searchFindNext
	searchReplaceNext
	searchReplaceAll
)

// SearchBar is the find/replace overlay. Tab moves between the two fields;
// enter finds, ctrl+r replaces the current match, ctrl+a replaces all. The
// parent reads Action and the field values after each key.
type SearchBar struct {
	query   textinput.Model
	replace textinput.Model
	onQuery bool // True when the query field has focus

	Action  searchAction
	Status  string // e.g. "no matches", set by the parent
}

func NewSearchBar(initialQuery string) *SearchBar {
	q := textinput.New()
	q.Prompt = "find: "
	q.SetValue(initialQuery)
	q.CursorEnd()
	q.Focus()

	r := textinput.New()
	r.Prompt = "repl: "

	return &SearchBar{query: q, replace: r, onQuery: true}
}

func (s *SearchBar) Title() string {
	return "find / replace"
}

func (s *SearchBar) Query() string {
	return s.query.Value()
}

func (s *SearchBar) Replacement() string {
	return s.replace.Value()
}

func (s *SearchBar) Render(w, h int, th Theme) string {
	s.query.Width = w - 8
	s.replace.Width = w - 8

	var sb strings.Builder
	sb.WriteString(s.query.View())
	sb.WriteString("\n")
	sb.WriteString(s.replace.View())
	sb.WriteString("\n")
	if s.Status != "" {
		sb.WriteString(th.dimStyle().Render(s.Status))
	} else {
		sb.WriteString(th.dimStyle().Render("enter next · C-r replace · C-a all"))
	}
	return sb.String()
}

func (s *SearchBar) HandleKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	s.Action = searchNone

	switch msg.String() {
	case "enter":
		s.Action = searchFindNext
		return true, nil
	case "ctrl+r":
		s.Action = searchReplaceNext
		return true, nil
	case "ctrl+a":
		s.Action = searchReplaceAll
		return true, nil
	case "tab", "down", "up":
		s.onQuery = !s.onQuery
		if s.onQuery {
			s.replace.Blur()
			return true, s.query.Focus()
		}
		s.query.Blur()
		return true, s.replace.Focus()
	case "esc":
		return false, nil
	}

	s.Status = ""
	var cmd tea.Cmd
	if s.onQuery {
		s.query, cmd = s.query.Update(msg)
	} else {
		s.replace, cmd = s.replace.Update(msg)
	}
	return true, cmd
}

// matchStatus formats the status line after a find
func matchStatus(found bool) string {
	if found {
		return ""
	}
	return "no matches"
}

// replaceAllStatus formats the status line after replace-all
func replaceAllStatus(count int) string {
	if count == 0 {
		return "no matches"
	}
	return fmt.Sprintf("replaced %d", count)
}

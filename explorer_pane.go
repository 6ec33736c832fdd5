package main

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"codedeck/workspace"
)

// explorerRow is one visible line in the explorer: a project, a folder, or a
// file
type explorerRow struct {
	label    string
	path     string // File path, folder path, or project name
	depth    int
	isFolder bool
	isFile   bool
	expanded bool
}

// ExplorerPane shows the project list until a project is opened, then that
// project's file tree. Folder expansion is view state and survives refreshes
// of the file list.
type ExplorerPane struct {
	session  *workspace.Session
	projects []string
	expanded map[string]bool // Overrides ExpandedByDefault, keyed by folder path
	cursor   int
	scrollY  int
	rows     []explorerRow

	// Set by HandleKey for the model to act on, then cleared
	OpenedFile    string
	OpenedProject string
}

// NewExplorerPane creates an explorer over the session
func NewExplorerPane(session *workspace.Session) *ExplorerPane {
	return &ExplorerPane{
		session:  session,
		expanded: make(map[string]bool),
	}
}

// SetProjects installs the project list and rebuilds rows
func (p *ExplorerPane) SetProjects(projects []string) {
	p.projects = projects
	p.Rebuild()
}

// ResetTree clears per-project view state, for project switches
func (p *ExplorerPane) ResetTree() {
	p.expanded = make(map[string]bool)
	p.cursor = 0
	p.scrollY = 0
	p.Rebuild()
}

// Rebuild recomputes visible rows from the session. Call after the file
// list, the project list, or expansion state changes.
func (p *ExplorerPane) Rebuild() {
	p.rows = p.rows[:0]

	if p.session.CurrentProject == "" {
		for _, name := range p.projects {
			p.rows = append(p.rows, explorerRow{label: name, path: name})
		}
	} else {
		tree := workspace.BuildTree(p.session.Files)
		p.appendNodes(tree, 0)
	}

	if p.cursor >= len(p.rows) {
		p.cursor = len(p.rows) - 1
	}
	if p.cursor < 0 {
		p.cursor = 0
	}
}

func (p *ExplorerPane) appendNodes(n *workspace.Node, depth int) {
	for _, child := range n.SortedChildren() {
		if child.Kind == workspace.NodeFolder {
			open := p.isExpanded(child.Path, depth)
			p.rows = append(p.rows, explorerRow{
				label:    child.Name,
				path:     child.Path,
				depth:    depth,
				isFolder: true,
				expanded: open,
			})
			if open {
				p.appendNodes(child, depth+1)
			}
		} else {
			p.rows = append(p.rows, explorerRow{
				label:  child.Name,
				path:   child.Path,
				depth:  depth,
				isFile: true,
			})
		}
	}
}

func (p *ExplorerPane) isExpanded(path string, depth int) bool {
	if v, ok := p.expanded[path]; ok {
		return v
	}
	return workspace.ExpandedByDefault(depth)
}

// SelectedFile returns the file under the cursor, or ""
func (p *ExplorerPane) SelectedFile() string {
	if p.cursor >= 0 && p.cursor < len(p.rows) && p.rows[p.cursor].isFile {
		return p.rows[p.cursor].path
	}
	return ""
}

// RevealFile moves the cursor to the given file if visible
func (p *ExplorerPane) RevealFile(path string) {
	for i, row := range p.rows {
		if row.isFile && row.path == path {
			p.cursor = i
			return
		}
	}
}

// HandleKey processes navigation while the explorer has focus. Returns
// false for keys the explorer does not own.
func (p *ExplorerPane) HandleKey(msg tea.KeyMsg) bool {
	p.OpenedFile = ""
	p.OpenedProject = ""

	switch msg.Type {
	case tea.KeyUp:
		if p.cursor > 0 {
			p.cursor--
		}
		return true

	case tea.KeyDown:
		if p.cursor < len(p.rows)-1 {
			p.cursor++
		}
		return true

	case tea.KeyHome:
		p.cursor = 0
		return true

	case tea.KeyEnd:
		p.cursor = len(p.rows) - 1
		if p.cursor < 0 {
			p.cursor = 0
		}
		return true

	case tea.KeyLeft:
		if row, ok := p.rowAt(p.cursor); ok && row.isFolder && row.expanded {
			p.expanded[row.path] = false
			p.Rebuild()
		}
		return true

	case tea.KeyRight:
		if row, ok := p.rowAt(p.cursor); ok && row.isFolder && !row.expanded {
			p.expanded[row.path] = true
			p.Rebuild()
		}
		return true

	case tea.KeyEnter, tea.KeySpace:
		row, ok := p.rowAt(p.cursor)
		if !ok {
			return true
		}
		switch {
		case row.isFolder:
			p.expanded[row.path] = !row.expanded
			p.Rebuild()
		case row.isFile:
			p.OpenedFile = row.path
		default:
			p.OpenedProject = row.path
		}
		return true
	}

	return false
}

func (p *ExplorerPane) rowAt(i int) (explorerRow, bool) {
	if i < 0 || i >= len(p.rows) {
		return explorerRow{}, false
	}
	return p.rows[i], true
}

// Render draws the explorer region
func (p *ExplorerPane) Render(w, h int, th Theme, focused bool) string {
	var out []string

	if len(p.rows) == 0 {
		hint := "no projects · N to create one"
		if p.session.CurrentProject != "" {
			hint = "empty project · n to add a file"
		}
		out = append(out, th.dimStyle().Render(" "+hint))
	}

	// Keep cursor visible
	if p.cursor < p.scrollY {
		p.scrollY = p.cursor
	}
	if p.cursor >= p.scrollY+h {
		p.scrollY = p.cursor - h + 1
	}

	for i := p.scrollY; i < len(p.rows) && len(out) < h; i++ {
		row := p.rows[i]
		indent := strings.Repeat("  ", row.depth)

		marker := "  "
		switch {
		case row.isFolder && row.expanded:
			marker = "▾ "
		case row.isFolder:
			marker = "▸ "
		case row.isFile && row.path == p.session.RunConfigFile:
			marker = "▶ "
		}

		label := row.label
		if row.isFile && p.session.Dirty(row.path) {
			label += " ●"
		}

		line := " " + indent + marker + label
		lineRunes := []rune(line)
		if len(lineRunes) > w {
			line = string(lineRunes[:w])
		} else {
			line += strings.Repeat(" ", w-len(lineRunes))
		}

		switch {
		case i == p.cursor && focused:
			line = th.highlightStyle().Render(line)
		case i == p.cursor:
			line = th.selectionStyle().Render(line)
		case row.isFolder:
			line = th.dimStyle().Render(line)
		}

		out = append(out, line)
	}

	for len(out) < h {
		out = append(out, strings.Repeat(" ", w))
	}
	return strings.Join(out[:h], "\n")
}

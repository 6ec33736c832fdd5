package main

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/cellbuf"
)

// OverlayContent defines what a modal overlay can display
type OverlayContent interface {
	// Render returns the content string to display within the overlay
	// borders. w, h are the content area dimensions (inside borders)
	Render(w, h int, th Theme) string

	// HandleKey processes keyboard input while the overlay is open.
	// Returns whether the key was consumed and any command the content
	// needs run (text inputs produce cursor-blink commands).
	HandleKey(msg tea.KeyMsg) (bool, tea.Cmd)

	// Title returns the overlay's title
	Title() string
}

// Overlay is a bordered modal floating over the main layout, centered
// horizontally and placed in the upper third of the screen.
type Overlay struct {
	ID      string
	Width   int // Including borders
	Height  int
	Content OverlayContent
}

// NewOverlay creates an overlay with the given preferred size
func NewOverlay(id string, content OverlayContent, w, h int) *Overlay {
	return &Overlay{ID: id, Width: w, Height: h, Content: content}
}

// position returns the overlay's top-left corner for the given screen size
func (o *Overlay) position(screenW, screenH int) (int, int) {
	w, h := o.size(screenW, screenH)
	x := (screenW - w) / 2
	y := (screenH - h) / 3
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	return x, y
}

// size clamps the preferred size to the screen
func (o *Overlay) size(screenW, screenH int) (int, int) {
	w, h := o.Width, o.Height
	if w > screenW-2 {
		w = screenW - 2
	}
	if h > screenH-2 {
		h = screenH - 2
	}
	if w < 10 {
		w = 10
	}
	if h < 3 {
		h = 3
	}
	return w, h
}

// render draws the overlay box with its title in the top border
func (o *Overlay) render(screenW, screenH int, th Theme) string {
	w, h := o.size(screenW, screenH)
	contentW := w - 2
	contentH := h - 2

	content := ""
	if o.Content != nil {
		content = o.Content.Render(contentW, contentH, th)
	}
	contentLines := strings.Split(content, "\n")

	title := ""
	if o.Content != nil {
		title = o.Content.Title()
	}
	titleRunes := []rune(title)
	if len(titleRunes) > contentW-2 {
		title = string(titleRunes[:contentW-2])
		titleRunes = []rune(title)
	}
	padding := contentW - len(titleRunes) - 2
	if padding < 0 {
		padding = 0
	}

	var lines []string
	lines = append(lines, "╭ "+title+" "+strings.Repeat("─", padding)+"╮")

	for i := 0; i < contentH; i++ {
		line := ""
		if i < len(contentLines) {
			line = contentLines[i]
		}
		visible := visibleWidth(line)
		if visible < contentW {
			line += strings.Repeat(" ", contentW-visible)
		}
		lines = append(lines, "│"+line+"│")
	}

	lines = append(lines, "╰"+strings.Repeat("─", contentW)+"╯")
	return strings.Join(lines, "\n")
}

// OverlayStack manages modal overlays. Only the topmost overlay receives
// input; Update composites all of them over the base view in order.
type OverlayStack struct {
	overlays []*Overlay
	screenW  int
	screenH  int
}

// NewOverlayStack creates an overlay stack
func NewOverlayStack(screenW, screenH int) *OverlayStack {
	return &OverlayStack{screenW: screenW, screenH: screenH}
}

// Push opens an overlay on top of the stack
func (s *OverlayStack) Push(o *Overlay) {
	s.overlays = append(s.overlays, o)
}

// Pop closes the topmost overlay
func (s *OverlayStack) Pop() {
	if len(s.overlays) > 0 {
		s.overlays = s.overlays[:len(s.overlays)-1]
	}
}

// Remove closes the overlay with the given id
func (s *OverlayStack) Remove(id string) {
	for i, o := range s.overlays {
		if o.ID == id {
			s.overlays = append(s.overlays[:i], s.overlays[i+1:]...)
			return
		}
	}
}

// Top returns the topmost overlay, or nil
func (s *OverlayStack) Top() *Overlay {
	if len(s.overlays) == 0 {
		return nil
	}
	return s.overlays[len(s.overlays)-1]
}

// Get returns the overlay with the given id, or nil
func (s *OverlayStack) Get(id string) *Overlay {
	for _, o := range s.overlays {
		if o.ID == id {
			return o
		}
	}
	return nil
}

// Any reports whether any overlay is open
func (s *OverlayStack) Any() bool {
	return len(s.overlays) > 0
}

// UpdateSize updates the screen dimensions
func (s *OverlayStack) UpdateSize(w, h int) {
	s.screenW = w
	s.screenH = h
}

// Render composites all overlays over the base content, bottom first
func (s *OverlayStack) Render(base string, th Theme) string {
	if len(s.overlays) == 0 {
		return base
	}

	baseLines := strings.Split(base, "\n")
	baseH := len(baseLines)
	baseW := s.screenW

	buf := cellbuf.NewBuffer(baseW, baseH)
	cellbuf.SetContent(buf, base)

	for _, o := range s.overlays {
		x0, y0 := o.position(baseW, baseH)
		ow, oh := o.size(baseW, baseH)

		// Parse the overlay through its own buffer so styling survives
		// the copy.
		obuf := cellbuf.NewBuffer(ow, oh)
		cellbuf.SetContent(obuf, o.render(baseW, baseH, th))

		for dy := 0; dy < oh; dy++ {
			y := y0 + dy
			if y < 0 || y >= baseH {
				continue
			}
			for dx := 0; dx < ow; dx++ {
				x := x0 + dx
				if x < 0 || x >= baseW {
					continue
				}
				if cell := obuf.Cell(dx, dy); cell != nil {
					buf.SetCell(x, y, cell)
				}
			}
		}
	}

	return cellbuf.Render(buf)
}

// visibleWidth counts runes ignoring ANSI escape sequences
func visibleWidth(s string) int {
	n := 0
	inEscape := false
	for _, r := range s {
		if inEscape {
			if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
				inEscape = false
			}
			continue
		}
		if r == '\x1b' {
			inEscape = true
			continue
		}
		n++
	}
	return n
}

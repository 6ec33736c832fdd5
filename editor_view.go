package main

import (
	"fmt"
	"strings"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"

	"codedeck/workspace"
)

// EditorView renders and edits the current file of a session. The document
// is a single string owned by the session; cursor and selection are byte
// offsets into it, so the text operations in workspace apply directly.
type EditorView struct {
	session *workspace.Session

	cursor  int // Byte offset into the current document
	anchor  int // Selection anchor offset, -1 when no selection
	scrollY int // First visible line

	cursors map[string]int // Remembered cursor per file path

	// Edited is set when the last handled key changed the buffer. The
	// model reads and clears it to drive dirty tracking and autosave.
	Edited bool
}

// NewEditorView creates an editor over the session's current file
func NewEditorView(session *workspace.Session) *EditorView {
	return &EditorView{
		session: session,
		anchor:  -1,
		cursors: make(map[string]int),
	}
}

func (e *EditorView) doc() string {
	return e.session.CurrentContent()
}

// SyncTab re-reads cursor state after the current file changed. The old
// file's cursor is remembered under its path.
func (e *EditorView) SyncTab(prevPath string) {
	if prevPath != "" {
		e.cursors[prevPath] = e.cursor
	}
	e.cursor = e.cursors[e.session.CurrentFile]
	e.anchor = -1
	e.scrollY = 0
	e.clampCursor()
}

// Forget drops remembered state for a closed or deleted file
func (e *EditorView) Forget(path string) {
	delete(e.cursors, path)
}

// Cursor returns the current byte offset
func (e *EditorView) Cursor() int {
	return e.cursor
}

// SelectRange sets the selection and moves the cursor to its end, scrolling
// it into view on the next render. Used to jump to search matches.
func (e *EditorView) SelectRange(start, end int) {
	doc := e.doc()
	start = clampInt(start, 0, len(doc))
	end = clampInt(end, start, len(doc))
	e.anchor = start
	e.cursor = end
}

// SetCursor places the cursor and drops any selection
func (e *EditorView) SetCursor(offset int) {
	e.cursor = clampInt(offset, 0, len(e.doc()))
	e.anchor = -1
}

// selection returns the ordered selection bounds and whether one exists
func (e *EditorView) selection() (int, int, bool) {
	if e.anchor < 0 || e.anchor == e.cursor {
		return e.cursor, e.cursor, false
	}
	if e.anchor < e.cursor {
		return e.anchor, e.cursor, true
	}
	return e.cursor, e.anchor, true
}

func (e *EditorView) clampCursor() {
	e.cursor = clampInt(e.cursor, 0, len(e.doc()))
}

// apply writes the new document through the session and repositions the
// cursor
func (e *EditorView) apply(text string, cursor int) {
	e.session.Edit(e.session.CurrentFile, text)
	e.cursor = clampInt(cursor, 0, len(text))
	e.anchor = -1
	e.Edited = true
}

// HandleKey processes a key while the editor has focus. Returns false for
// keys the editor does not own so the model can act on them.
func (e *EditorView) HandleKey(msg tea.KeyMsg) bool {
	if e.session.CurrentFile == "" {
		return false
	}
	doc := e.doc()
	selStart, selEnd, hasSel := e.selection()

	switch msg.Type {
	case tea.KeyRunes, tea.KeySpace:
		text := string(msg.Runes)
		if msg.Type == tea.KeySpace {
			text = " "
		}
		next, cursor := workspace.InsertAt(doc, selStart, selEnd, text)
		e.apply(next, cursor)
		return true

	case tea.KeyEnter:
		next, cursor := workspace.InsertNewline(doc, selStart, selEnd)
		e.apply(next, cursor)
		return true

	case tea.KeyTab:
		if hasSel {
			next, newStart, newEnd := workspace.ApplyIndent(doc, selStart, selEnd, false)
			e.session.Edit(e.session.CurrentFile, next)
			e.anchor = newStart
			e.cursor = newEnd
			e.Edited = true
		} else {
			next, cursor := workspace.InsertAt(doc, e.cursor, e.cursor, workspace.IndentUnit)
			e.apply(next, cursor)
		}
		return true

	case tea.KeyShiftTab:
		next, newStart, newEnd := workspace.ApplyIndent(doc, selStart, selEnd, true)
		e.session.Edit(e.session.CurrentFile, next)
		if hasSel {
			e.anchor = newStart
			e.cursor = newEnd
		} else {
			e.anchor = -1
			e.cursor = newEnd
		}
		e.Edited = true
		return true

	case tea.KeyBackspace:
		if hasSel {
			next, cursor := workspace.InsertAt(doc, selStart, selEnd, "")
			e.apply(next, cursor)
		} else if e.cursor > 0 {
			_, size := utf8.DecodeLastRuneInString(doc[:e.cursor])
			next, cursor := workspace.InsertAt(doc, e.cursor-size, e.cursor, "")
			e.apply(next, cursor)
		}
		return true

	case tea.KeyDelete:
		if hasSel {
			next, cursor := workspace.InsertAt(doc, selStart, selEnd, "")
			e.apply(next, cursor)
		} else if e.cursor < len(doc) {
			_, size := utf8.DecodeRuneInString(doc[e.cursor:])
			next, cursor := workspace.InsertAt(doc, e.cursor, e.cursor+size, "")
			e.apply(next, cursor)
		}
		return true

	case tea.KeyLeft:
		e.moveLeft(false)
		return true
	case tea.KeyRight:
		e.moveRight(false)
		return true
	case tea.KeyShiftLeft:
		e.moveLeft(true)
		return true
	case tea.KeyShiftRight:
		e.moveRight(true)
		return true

	case tea.KeyUp:
		e.moveVertical(-1, false)
		return true
	case tea.KeyDown:
		e.moveVertical(1, false)
		return true
	case tea.KeyShiftUp:
		e.moveVertical(-1, true)
		return true
	case tea.KeyShiftDown:
		e.moveVertical(1, true)
		return true

	case tea.KeyHome:
		e.cursor = workspace.LineStart(doc, e.cursor)
		e.anchor = -1
		return true
	case tea.KeyEnd:
		e.cursor = workspace.LineEnd(doc, e.cursor)
		e.anchor = -1
		return true

	case tea.KeyPgUp:
		e.moveVertical(-20, false)
		return true
	case tea.KeyPgDown:
		e.moveVertical(20, false)
		return true

	case tea.KeyEscape:
		if hasSel {
			e.anchor = -1
			return true
		}
		return false
	}

	return false
}

func (e *EditorView) moveLeft(extend bool) {
	e.beforeMove(extend)
	doc := e.doc()
	if e.cursor > 0 {
		_, size := utf8.DecodeLastRuneInString(doc[:e.cursor])
		e.cursor -= size
	}
}

func (e *EditorView) moveRight(extend bool) {
	e.beforeMove(extend)
	doc := e.doc()
	if e.cursor < len(doc) {
		_, size := utf8.DecodeRuneInString(doc[e.cursor:])
		e.cursor += size
	}
}

// moveVertical moves the cursor by delta lines, preserving the column where
// possible
func (e *EditorView) moveVertical(delta int, extend bool) {
	e.beforeMove(extend)
	doc := e.doc()
	lines := strings.Split(doc, "\n")
	row, col := e.rowCol(lines)

	row += delta
	if row < 0 {
		row = 0
	}
	if row >= len(lines) {
		row = len(lines) - 1
	}

	lineRunes := []rune(lines[row])
	if col > len(lineRunes) {
		col = len(lineRunes)
	}
	e.cursor = offsetAt(lines, row, col)
}

// beforeMove starts or clears selection depending on whether shift is held
func (e *EditorView) beforeMove(extend bool) {
	if extend {
		if e.anchor < 0 {
			e.anchor = e.cursor
		}
	} else {
		e.anchor = -1
	}
}

// rowCol converts the cursor offset to a line index and rune column
func (e *EditorView) rowCol(lines []string) (int, int) {
	offset := e.cursor
	for i, line := range lines {
		lineBytes := len(line)
		if offset <= lineBytes {
			return i, utf8.RuneCountInString(line[:offset])
		}
		offset -= lineBytes + 1 // +1 for the newline
	}
	last := len(lines) - 1
	return last, utf8.RuneCountInString(lines[last])
}

// offsetAt converts a line index and rune column back to a byte offset
func offsetAt(lines []string, row, col int) int {
	offset := 0
	for i := 0; i < row; i++ {
		offset += len(lines[i]) + 1
	}
	runes := []rune(lines[row])
	if col > len(runes) {
		col = len(runes)
	}
	return offset + len(string(runes[:col]))
}

// Render draws the editor region
func (e *EditorView) Render(w, h int, th Theme) string {
	if e.session.CurrentFile == "" {
		empty := th.dimStyle().Render("  no file open · enter on a file in the explorer")
		lines := []string{empty}
		for len(lines) < h {
			lines = append(lines, "")
		}
		return strings.Join(lines[:h], "\n")
	}

	doc := e.doc()
	lines := strings.Split(doc, "\n")
	row, col := e.rowCol(lines)
	selStart, selEnd, hasSel := e.selection()

	// Line number gutter
	numWidth := len(fmt.Sprintf("%d", len(lines)))
	contentW := w - numWidth - 2
	if contentW < 1 {
		contentW = 1
	}

	// Keep cursor visible
	if row < e.scrollY {
		e.scrollY = row
	}
	if row >= e.scrollY+h {
		e.scrollY = row - h + 1
	}

	lineNumStyle := th.dimStyle()

	var out []string
	lineOffset := 0
	for i := 0; i < e.scrollY; i++ {
		lineOffset += len(lines[i]) + 1
	}

	for i := 0; i < h; i++ {
		lineIdx := e.scrollY + i
		if lineIdx >= len(lines) {
			out = append(out, strings.Repeat(" ", w))
			continue
		}

		line := lines[lineIdx]
		num := lineNumStyle.Render(fmt.Sprintf("%*d", numWidth, lineIdx+1))

		var body string
		if hasSel {
			body = renderSelectedLine(line, lineOffset, selStart, selEnd, contentW, th)
		} else if lineIdx == row {
			body = renderLineWithCursor([]rune(line), col, contentW, th)
		} else {
			body = renderPlainLine([]rune(line), contentW)
		}

		out = append(out, num+" "+body)
		lineOffset += len(line) + 1
	}

	return strings.Join(out, "\n")
}

// renderPlainLine pads or truncates a line to width
func renderPlainLine(runes []rune, w int) string {
	if len(runes) >= w {
		return string(runes[:w])
	}
	return string(runes) + strings.Repeat(" ", w-len(runes))
}

// renderLineWithCursor highlights the cursor cell
func renderLineWithCursor(runes []rune, col, w int, th Theme) string {
	if col > len(runes) {
		col = len(runes)
	}

	before := string(runes[:col])
	var cursorChar string
	if col < len(runes) {
		cursorChar = th.cursorStyle().Render(string(runes[col]))
	} else {
		cursorChar = th.cursorStyle().Render(" ")
	}
	var after string
	if col+1 < len(runes) {
		after = string(runes[col+1:])
	}

	line := before + cursorChar + after
	visibleLen := len(runes)
	if col == len(runes) {
		visibleLen++
	}
	if visibleLen < w {
		return line + strings.Repeat(" ", w-visibleLen)
	}
	return line
}

// renderSelectedLine highlights the slice of the selection that falls on
// this line. lineOffset is the line's starting byte offset in the document.
func renderSelectedLine(line string, lineOffset, selStart, selEnd, w int, th Theme) string {
	lineEnd := lineOffset + len(line)

	from := clampInt(selStart-lineOffset, 0, len(line))
	to := clampInt(selEnd-lineOffset, 0, len(line))
	if selStart > lineEnd || selEnd < lineOffset || from == to {
		return renderPlainLine([]rune(line), w)
	}

	styled := line[:from] + th.selectionStyle().Render(line[from:to]) + line[to:]
	visibleLen := utf8.RuneCountInString(line)
	if visibleLen < w {
		return styled + strings.Repeat(" ", w-visibleLen)
	}
	return styled
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

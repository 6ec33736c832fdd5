package workspace

import "strings"

// IndentUnit is the fixed indent inserted by Tab and block indent.
const IndentUnit = "    "

// LineStart returns the offset of the first character of the line containing
// index.
func LineStart(text string, index int) int {
	if index > len(text) {
		index = len(text)
	}
	start := strings.LastIndexByte(text[:index], '\n')
	return start + 1
}

// LineEnd returns the offset of the newline terminating the line containing
// index, or len(text) for the last line.
func LineEnd(text string, index int) int {
	if index > len(text) {
		return len(text)
	}
	end := strings.IndexByte(text[index:], '\n')
	if end < 0 {
		return len(text)
	}
	return index + end
}

// ApplyIndent indents (or outdents) every line covered by the selection
// [selStart, selEnd) and returns the new text plus adjusted offsets.
//
// Indent prepends IndentUnit to each covered line. Outdent removes per line
// at most one indent step: an exact leading IndentUnit, else a single leading
// tab, else up to len(IndentUnit) leading spaces. The start offset only moves
// when the original selection start sat at or after the block start, and the
// end offset shifts by the total inserted or removed length.
func ApplyIndent(text string, selStart, selEnd int, outdent bool) (string, int, int) {
	selStart = clampOffset(selStart, len(text))
	selEnd = clampOffset(selEnd, len(text))
	blockStart := LineStart(text, selStart)
	blockEnd := LineEnd(text, selEnd)
	lines := strings.Split(text[blockStart:blockEnd], "\n")

	deltaStart, deltaEnd := 0, 0
	for i, line := range lines {
		if !outdent {
			if i == 0 && selStart >= blockStart {
				deltaStart += len(IndentUnit)
			}
			deltaEnd += len(IndentUnit)
			lines[i] = IndentUnit + line
			continue
		}

		removed := 0
		switch {
		case strings.HasPrefix(line, IndentUnit):
			removed = len(IndentUnit)
		case strings.HasPrefix(line, "\t"):
			removed = 1
		default:
			for removed < len(IndentUnit) && removed < len(line) && line[removed] == ' ' {
				removed++
			}
		}
		if i == 0 && selStart >= blockStart {
			deltaStart -= removed
		}
		deltaEnd -= removed
		lines[i] = line[removed:]
	}

	newText := text[:blockStart] + strings.Join(lines, "\n") + text[blockEnd:]
	newStart := selStart + deltaStart
	if newStart < blockStart {
		newStart = blockStart
	}
	newEnd := selEnd + deltaEnd
	if newEnd < newStart {
		newEnd = newStart
	}
	return newText, newStart, newEnd
}

// InsertNewline replaces the selection with a newline followed by the current
// line's leading whitespace, plus one extra IndentUnit when the text up to the
// cursor ends with an opening bracket or a colon. Returns the new text and
// cursor offset.
func InsertNewline(text string, selStart, selEnd int) (string, int) {
	selStart = clampOffset(selStart, len(text))
	selEnd = clampOffset(selEnd, len(text))
	lineStart := LineStart(text, selStart)
	current := text[lineStart:selStart]

	base := leadingWhitespace(current)
	extra := ""
	if opensBlock(current) {
		extra = IndentUnit
	}
	insert := "\n" + base + extra

	newText := text[:selStart] + insert + text[selEnd:]
	return newText, selStart + len(insert)
}

// InsertAt replaces the selection with s, placing the cursor just after the
// inserted text.
func InsertAt(text string, selStart, selEnd int, s string) (string, int) {
	selStart = clampOffset(selStart, len(text))
	selEnd = clampOffset(selEnd, len(text))
	newText := text[:selStart] + s + text[selEnd:]
	return newText, selStart + len(s)
}

func leadingWhitespace(line string) string {
	for i := 0; i < len(line); i++ {
		if line[i] != ' ' && line[i] != '\t' {
			return line[:i]
		}
	}
	return line
}

// opensBlock reports whether the line fragment ends (ignoring trailing
// whitespace) with a block-opening bracket or a colon.
func opensBlock(line string) bool {
	trimmed := strings.TrimRight(line, " \t")
	if trimmed == "" {
		return false
	}
	switch trimmed[len(trimmed)-1] {
	case '{', '(', '[', ':':
		return true
	}
	return false
}

func clampOffset(i, max int) int {
	if i < 0 {
		return 0
	}
	if i > max {
		return max
	}
	return i
}

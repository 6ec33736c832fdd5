package workspace

import "strings"

// Range is a byte range [Start, End) within a document.
type Range struct {
	Start, End int
}

// SearchEngine provides find-next, replace-next and replace-all over one
// document at a time. It tracks the last found range explicitly rather than
// inferring it from selection equality, so a replace never double-fires on
// overlapping matches. Match state resets whenever the query or the document
// under edit changes.
type SearchEngine struct {
	query     string
	lastMatch Range
	hasMatch  bool
}

// NewSearchEngine returns an engine with no query and no match state.
func NewSearchEngine() *SearchEngine {
	return &SearchEngine{}
}

// SetQuery updates the search query, resetting match state when it changes.
func (e *SearchEngine) SetQuery(q string) {
	if q != e.query {
		e.query = q
		e.Reset()
	}
}

// Query returns the current query.
func (e *SearchEngine) Query() string {
	return e.query
}

// Reset forgets the last match. Call when the current file changes.
func (e *SearchEngine) Reset() {
	e.lastMatch = Range{}
	e.hasMatch = false
}

// FindNext scans doc for the next occurrence of the query. from is the
// preferred start offset (typically the selection end); pass a negative value
// to continue from the last match instead. The scan wraps to the start of the
// document once. Returns the match range and whether one was found; an empty
// query never matches.
func (e *SearchEngine) FindNext(doc string, from int) (Range, bool) {
	if e.query == "" {
		return Range{}, false
	}
	start := from
	if start < 0 {
		if e.hasMatch {
			start = e.lastMatch.Start + 1
		} else {
			start = 0
		}
	}
	if start > len(doc) {
		start = len(doc)
	}

	idx := strings.Index(doc[start:], e.query)
	if idx >= 0 {
		idx += start
	} else if start > 0 {
		idx = strings.Index(doc, e.query)
	}
	if idx < 0 {
		return Range{}, false
	}

	e.lastMatch = Range{Start: idx, End: idx + len(e.query)}
	e.hasMatch = true
	return e.lastMatch, true
}

// ReplaceNext replaces the tracked match with repl, finding one first if
// needed. Returns the new document, the cursor offset just after the inserted
// text, and whether a replacement happened. The document is untouched when
// nothing matches.
func (e *SearchEngine) ReplaceNext(doc, repl string) (string, int, bool) {
	if !e.matchValid(doc) {
		if _, ok := e.FindNext(doc, -1); !ok {
			return doc, 0, false
		}
	}
	m := e.lastMatch
	newDoc := doc[:m.Start] + repl + doc[m.End:]
	cursor := m.Start + len(repl)
	// The replaced region is no longer a match; the next find resumes after
	// the inserted text.
	e.lastMatch = Range{Start: cursor - 1, End: cursor}
	e.hasMatch = cursor > 0
	return newDoc, cursor, true
}

// matchValid reports whether the tracked range still denotes the query within
// doc. Edits elsewhere in the document invalidate it by shifting offsets.
func (e *SearchEngine) matchValid(doc string) bool {
	if !e.hasMatch || e.query == "" {
		return false
	}
	m := e.lastMatch
	if m.Start < 0 || m.End > len(doc) || m.End-m.Start != len(e.query) {
		return false
	}
	return doc[m.Start:m.End] == e.query
}

// ReplaceAll substitutes every non-overlapping occurrence of the query with
// repl in a single left-to-right pass over the original document, so a
// replacement containing the query is never re-scanned. Returns the new
// document, the number of substitutions, and whether any occurred.
func (e *SearchEngine) ReplaceAll(doc, repl string) (string, int, bool) {
	if e.query == "" {
		return doc, 0, false
	}
	count := strings.Count(doc, e.query)
	if count == 0 {
		return doc, 0, false
	}
	e.Reset()
	return strings.ReplaceAll(doc, e.query, repl), count, true
}

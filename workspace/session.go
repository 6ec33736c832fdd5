// Package workspace holds the client-side workspace state: which project is
// selected, which files are open, their buffered and last-saved contents, and
// the pure text engines (path tree, search, indent ops) that operate on them.
// Nothing in this package touches the network; the TUI layer calls into it on
// user input and on API completion messages.
package workspace

// MaxSaveBytes is the per-file payload ceiling. Saves above this are rejected
// locally before any request is made.
const MaxSaveBytes = 1_000_000

// Session is the in-memory state for one logged-in workspace. It is created
// at login, reset on project switch, and torn down at logout.
type Session struct {
	CurrentProject string
	CurrentFile    string

	// OpenFiles is the tab bar: insertion-ordered, no duplicates.
	OpenFiles []string

	// Files is the flat server-side file list for the current project,
	// as last fetched. The explorer tree is derived from it.
	Files []string

	// Contents is the authoritative buffer per cached file. Entries survive
	// tab close so a file can be re-opened without a refetch.
	Contents map[string]string

	// LastSaved holds each file's content as of its last successful save or
	// initial read. A missing key means the file was never saved this session.
	LastSaved map[string]string

	// RunConfigFile, when non-empty, is executed instead of CurrentFile.
	RunConfigFile string
}

// NewSession returns an empty session with no project selected.
func NewSession() *Session {
	return &Session{
		Contents:  make(map[string]string),
		LastSaved: make(map[string]string),
	}
}

// ResetProject switches the session to the given project and clears all
// per-project state so nothing leaks across projects.
func (s *Session) ResetProject(project string) {
	s.CurrentProject = project
	s.CurrentFile = ""
	s.OpenFiles = nil
	s.Files = nil
	s.Contents = make(map[string]string)
	s.LastSaved = make(map[string]string)
	s.RunConfigFile = ""
}

// Reset clears everything, including the project selection. Used at logout.
func (s *Session) Reset() {
	s.ResetProject("")
}

// IsOpen reports whether path has a tab.
func (s *Session) IsOpen(path string) bool {
	for _, f := range s.OpenFiles {
		if f == path {
			return true
		}
	}
	return false
}

func (s *Session) appendOpen(path string) {
	if !s.IsOpen(path) {
		s.OpenFiles = append(s.OpenFiles, path)
	}
}

// OpenCached switches to path if its content is already cached, appending a
// tab if needed. Returns false when the file must be fetched first.
func (s *Session) OpenCached(path string) bool {
	if _, ok := s.Contents[path]; !ok {
		return false
	}
	s.appendOpen(path)
	s.CurrentFile = path
	return true
}

// CacheFile installs freshly fetched content for path without touching the
// tab bar or the selection. Used when a read completes for a file the user
// has since navigated away from.
func (s *Session) CacheFile(path, content string) {
	s.Contents[path] = content
	s.LastSaved[path] = content
}

// SeedFile installs freshly fetched content for path, seeding both the buffer
// and the saved snapshot, and makes it the current file.
func (s *Session) SeedFile(path, content string) {
	s.CacheFile(path, content)
	s.appendOpen(path)
	s.CurrentFile = path
}

// CloseTab removes path from the tab bar. The cached content is kept. If the
// closed tab was current, the most recently opened remaining file becomes
// current, or nothing if the bar is now empty.
func (s *Session) CloseTab(path string) {
	remaining := s.OpenFiles[:0]
	for _, f := range s.OpenFiles {
		if f != path {
			remaining = append(remaining, f)
		}
	}
	s.OpenFiles = remaining
	if path == s.CurrentFile {
		if len(remaining) > 0 {
			s.CurrentFile = remaining[len(remaining)-1]
		} else {
			s.CurrentFile = ""
		}
	}
}

// Edit sets the buffer for path. This is the single write path for both
// typing and programmatic edits, so dirty tracking and autosave observe every
// change uniformly.
func (s *Session) Edit(path, text string) {
	s.Contents[path] = text
}

// MarkSaved records sent as the saved snapshot for path. The caller must pass
// exactly the content that was pushed to the backend, not the current buffer,
// so a save completing after further edits leaves the file dirty.
func (s *Session) MarkSaved(path, sent string) {
	s.LastSaved[path] = sent
}

// PurgeFile removes every trace of path after a backend delete. Returns true
// when path was the run-config file, in which case the caller should persist
// the cleared run config.
func (s *Session) PurgeFile(path string) (wasRunConfig bool) {
	delete(s.Contents, path)
	delete(s.LastSaved, path)
	remaining := s.OpenFiles[:0]
	for _, f := range s.OpenFiles {
		if f != path {
			remaining = append(remaining, f)
		}
	}
	s.OpenFiles = remaining
	if s.CurrentFile == path {
		s.CurrentFile = ""
	}
	if s.RunConfigFile == path {
		s.RunConfigFile = ""
		wasRunConfig = true
	}
	return wasRunConfig
}

// Dirty reports whether path's buffer differs from its last saved snapshot.
// Missing entries compare as empty, so an unsaved empty buffer is clean.
func (s *Session) Dirty(path string) bool {
	return s.Contents[path] != s.LastSaved[path]
}

// CurrentContent returns the buffer for the current file, or "" when no file
// is selected.
func (s *Session) CurrentContent() string {
	return s.Contents[s.CurrentFile]
}

// HasFile reports whether path is in the server file list.
func (s *Session) HasFile(path string) bool {
	for _, f := range s.Files {
		if f == path {
			return true
		}
	}
	return false
}

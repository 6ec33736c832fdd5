package workspace

import "testing"

func TestDirtyTracking(t *testing.T) {
	s := NewSession()
	s.ResetProject("demo")
	s.SeedFile("main.py", "print(1)\n")

	if s.Dirty("main.py") {
		t.Error("freshly seeded file should be clean")
	}

	s.Edit("main.py", "print(2)\n")
	if !s.Dirty("main.py") {
		t.Error("edited file should be dirty")
	}

	s.Edit("main.py", "print(1)\n")
	if s.Dirty("main.py") {
		t.Error("reverting to saved content should be clean again")
	}

	// A file never saved this session is dirty once it has content.
	s.Edit("scratch.txt", "x")
	if !s.Dirty("scratch.txt") {
		t.Error("unsaved file with content should be dirty")
	}
	if s.Dirty("never-opened.txt") {
		t.Error("unknown file should not be dirty")
	}
}

func TestMarkSavedUsesSentSnapshot(t *testing.T) {
	s := NewSession()
	s.ResetProject("demo")
	s.SeedFile("a.go", "v1")

	s.Edit("a.go", "v2")
	sent := s.Contents["a.go"]

	// Another edit lands while the save is in flight.
	s.Edit("a.go", "v3")
	s.MarkSaved("a.go", sent)

	if !s.Dirty("a.go") {
		t.Error("file edited after save snapshot must stay dirty")
	}
	if s.LastSaved["a.go"] != "v2" {
		t.Errorf("LastSaved = %q, want the sent payload %q", s.LastSaved["a.go"], "v2")
	}
}

func TestOpenCachedAndTabs(t *testing.T) {
	s := NewSession()
	s.ResetProject("demo")

	if s.OpenCached("a.txt") {
		t.Fatal("OpenCached must fail for unfetched file")
	}

	s.SeedFile("a.txt", "aaa")
	s.SeedFile("b.txt", "bbb")
	s.SeedFile("c.txt", "ccc")

	if got := len(s.OpenFiles); got != 3 {
		t.Fatalf("open tabs = %d, want 3", got)
	}

	// Re-opening does not duplicate the tab.
	if !s.OpenCached("a.txt") {
		t.Fatal("OpenCached should succeed for cached file")
	}
	if got := len(s.OpenFiles); got != 3 {
		t.Errorf("open tabs after reopen = %d, want 3", got)
	}
	if s.CurrentFile != "a.txt" {
		t.Errorf("current file = %q, want a.txt", s.CurrentFile)
	}
}

func TestCloseTab(t *testing.T) {
	s := NewSession()
	s.ResetProject("demo")
	s.SeedFile("a.txt", "aaa")
	s.SeedFile("b.txt", "bbb")
	s.SeedFile("c.txt", "ccc")

	// Closing the current tab selects the most recently opened remaining file.
	s.CloseTab("c.txt")
	if s.CurrentFile != "b.txt" {
		t.Errorf("current after close = %q, want b.txt", s.CurrentFile)
	}

	// Closing a background tab leaves the selection alone.
	s.CloseTab("a.txt")
	if s.CurrentFile != "b.txt" {
		t.Errorf("current after background close = %q, want b.txt", s.CurrentFile)
	}

	// Content cache survives tab close.
	if _, ok := s.Contents["a.txt"]; !ok {
		t.Error("closing a tab must not evict the content cache")
	}
	if !s.OpenCached("a.txt") {
		t.Error("closed file should reopen from cache")
	}
	s.CloseTab("a.txt")

	// Closing the only open tab clears the selection entirely.
	s.CloseTab("b.txt")
	if s.CurrentFile != "" {
		t.Errorf("current after last close = %q, want empty", s.CurrentFile)
	}
	if s.CurrentContent() != "" {
		t.Errorf("buffer after last close = %q, want empty", s.CurrentContent())
	}
}

func TestResetProjectClearsState(t *testing.T) {
	s := NewSession()
	s.ResetProject("one")
	s.Files = []string{"a.txt"}
	s.SeedFile("a.txt", "aaa")
	s.RunConfigFile = "a.txt"

	s.ResetProject("two")

	if s.CurrentProject != "two" {
		t.Errorf("project = %q, want two", s.CurrentProject)
	}
	if s.CurrentFile != "" || len(s.OpenFiles) != 0 || len(s.Files) != 0 {
		t.Error("file state leaked across project switch")
	}
	if len(s.Contents) != 0 || len(s.LastSaved) != 0 {
		t.Error("content caches leaked across project switch")
	}
	if s.RunConfigFile != "" {
		t.Error("run config leaked across project switch")
	}
}

func TestPurgeFile(t *testing.T) {
	s := NewSession()
	s.ResetProject("demo")
	s.SeedFile("main.py", "x")
	s.RunConfigFile = "main.py"

	wasRunConfig := s.PurgeFile("main.py")

	if !wasRunConfig {
		t.Error("PurgeFile should report that the run config pointed here")
	}
	if s.CurrentFile != "" {
		t.Errorf("current = %q, want empty after purge", s.CurrentFile)
	}
	if _, ok := s.Contents["main.py"]; ok {
		t.Error("purged file still cached")
	}
	if _, ok := s.LastSaved["main.py"]; ok {
		t.Error("purged file still has saved snapshot")
	}
	if s.IsOpen("main.py") {
		t.Error("purged file still has a tab")
	}

	s.SeedFile("other.py", "y")
	if s.PurgeFile("other.py") {
		t.Error("PurgeFile should not flag run config for unrelated file")
	}
}

package workspace

import "testing"

func TestFindNextWraps(t *testing.T) {
	doc := "xfooxfoox"
	e := NewSearchEngine()
	e.SetQuery("foo")

	m, ok := e.FindNext(doc, 0)
	if !ok || m.Start != 1 {
		t.Fatalf("first find = %+v, %v; want match at 1", m, ok)
	}

	m, ok = e.FindNext(doc, m.End)
	if !ok || m.Start != 5 {
		t.Fatalf("second find = %+v, %v; want match at 5", m, ok)
	}

	// No further occurrence ahead: wrap to the first match.
	m, ok = e.FindNext(doc, m.End)
	if !ok || m.Start != 1 {
		t.Fatalf("wrapped find = %+v, %v; want match at 1", m, ok)
	}
}

func TestFindNextNoSelection(t *testing.T) {
	doc := "abcabc"
	e := NewSearchEngine()
	e.SetQuery("abc")

	// Without selection info the engine continues past its last match.
	m, ok := e.FindNext(doc, -1)
	if !ok || m.Start != 0 {
		t.Fatalf("find = %+v, %v; want match at 0", m, ok)
	}
	m, ok = e.FindNext(doc, -1)
	if !ok || m.Start != 3 {
		t.Fatalf("find = %+v, %v; want match at 3", m, ok)
	}
}

func TestFindNextMisses(t *testing.T) {
	e := NewSearchEngine()

	e.SetQuery("")
	if _, ok := e.FindNext("anything", 0); ok {
		t.Error("empty query must not match")
	}

	e.SetQuery("zzz")
	if _, ok := e.FindNext("abc", 0); ok {
		t.Error("absent query must not match")
	}
}

func TestSetQueryResetsMatchState(t *testing.T) {
	doc := "aba"
	e := NewSearchEngine()
	e.SetQuery("a")
	if _, ok := e.FindNext(doc, -1); !ok {
		t.Fatal("expected a match")
	}

	e.SetQuery("b")
	m, ok := e.FindNext(doc, -1)
	if !ok || m.Start != 1 {
		t.Fatalf("after query change find = %+v, %v; want match at 1", m, ok)
	}
}

func TestReplaceNext(t *testing.T) {
	e := NewSearchEngine()
	e.SetQuery("foo")

	doc := "say foo and foo"
	doc, cursor, ok := e.ReplaceNext(doc, "bar")
	if !ok {
		t.Fatal("expected replacement")
	}
	if doc != "say bar and foo" {
		t.Errorf("doc = %q, want %q", doc, "say bar and foo")
	}
	if cursor != len("say bar") {
		t.Errorf("cursor = %d, want %d", cursor, len("say bar"))
	}

	doc, _, ok = e.ReplaceNext(doc, "bar")
	if !ok || doc != "say bar and bar" {
		t.Errorf("second replace: doc = %q, ok = %v", doc, ok)
	}

	// Nothing left to replace.
	if _, _, ok := e.ReplaceNext(doc, "bar"); ok {
		t.Error("replace with no remaining match must not mutate")
	}
}

func TestReplaceNextStaleRange(t *testing.T) {
	e := NewSearchEngine()
	e.SetQuery("foo")

	doc := "foo bar"
	if _, ok := e.FindNext(doc, 0); !ok {
		t.Fatal("expected a match")
	}

	// The document changed underneath the tracked range; the engine must
	// re-find rather than splice blindly.
	doc = "xx foo bar"
	doc, cursor, ok := e.ReplaceNext(doc, "yy")
	if !ok || doc != "xx yy bar" {
		t.Fatalf("doc = %q, ok = %v; want %q", doc, ok, "xx yy bar")
	}
	if cursor != len("xx yy") {
		t.Errorf("cursor = %d, want %d", cursor, len("xx yy"))
	}
}

func TestReplaceAll(t *testing.T) {
	e := NewSearchEngine()
	e.SetQuery("a")

	// Replacement contains the query: single pass, no iterative growth.
	doc, count, ok := e.ReplaceAll("aaa", "bb")
	if !ok || count != 3 {
		t.Fatalf("count = %d, ok = %v; want 3 substitutions", count, ok)
	}
	if doc != "bbbbbb" {
		t.Errorf("doc = %q, want %q", doc, "bbbbbb")
	}

	e.SetQuery("missing")
	if _, _, ok := e.ReplaceAll("aaa", "x"); ok {
		t.Error("replace-all with no matches must report none")
	}
}

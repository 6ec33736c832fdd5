package workspace

import "testing"

func TestBuildTree(t *testing.T) {
	root := BuildTree([]string{"a/b.txt", "a/c.txt", "d.txt"})

	top := root.SortedChildren()
	if len(top) != 2 {
		t.Fatalf("top-level entries = %d, want 2", len(top))
	}

	// Folders sort before files.
	if top[0].Name != "a" || top[0].Kind != NodeFolder {
		t.Errorf("first entry = %q (%v), want folder a", top[0].Name, top[0].Kind)
	}
	if top[1].Name != "d.txt" || top[1].Kind != NodeFile {
		t.Errorf("second entry = %q (%v), want file d.txt", top[1].Name, top[1].Kind)
	}

	inside := top[0].SortedChildren()
	if len(inside) != 2 {
		t.Fatalf("children of a = %d, want 2", len(inside))
	}
	if inside[0].Name != "b.txt" || inside[1].Name != "c.txt" {
		t.Errorf("children of a = %q, %q; want b.txt, c.txt", inside[0].Name, inside[1].Name)
	}
	if inside[0].Path != "a/b.txt" {
		t.Errorf("path = %q, want a/b.txt", inside[0].Path)
	}
}

func TestBuildTreeOrdering(t *testing.T) {
	root := BuildTree([]string{
		"zebra.txt",
		"src/main.go",
		"alpha.txt",
		"docs/readme.md",
		"src/util/helpers.go",
	})

	var names []string
	for _, c := range root.SortedChildren() {
		names = append(names, c.Name)
	}
	want := []string{"docs", "src", "alpha.txt", "zebra.txt"}
	if len(names) != len(want) {
		t.Fatalf("top entries = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("entry %d = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestBuildTreeEdgeCases(t *testing.T) {
	// Empty segments are discarded.
	root := BuildTree([]string{"//a//b.txt", ""})
	top := root.SortedChildren()
	if len(top) != 1 || top[0].Name != "a" {
		t.Fatalf("unexpected top level: %+v", top)
	}
	kids := top[0].SortedChildren()
	if len(kids) != 1 || kids[0].Path != "a/b.txt" {
		t.Fatalf("unexpected children: %+v", kids)
	}

	// Duplicate paths: last write wins, no duplicate nodes.
	root = BuildTree([]string{"x.txt", "x.txt"})
	if n := len(root.SortedChildren()); n != 1 {
		t.Errorf("duplicate path produced %d nodes, want 1", n)
	}
}

func TestExpandedByDefault(t *testing.T) {
	if !ExpandedByDefault(0) {
		t.Error("depth 0 should default to expanded")
	}
	if ExpandedByDefault(1) || ExpandedByDefault(3) {
		t.Error("deeper folders should default to collapsed")
	}
}

package workspace

import "testing"

func TestApplyIndentBlock(t *testing.T) {
	// Two-line selection: both lines gain the indent unit and both offsets
	// shift by its length.
	text := "one\ntwo\nthree"
	selStart, selEnd := 1, 6 // inside "one" .. inside "two"

	got, start, end := ApplyIndent(text, selStart, selEnd, false)

	want := "    one\n    two\nthree"
	if got != want {
		t.Errorf("text = %q, want %q", got, want)
	}
	if start != selStart+len(IndentUnit) {
		t.Errorf("selStart = %d, want %d", start, selStart+len(IndentUnit))
	}
	if end != selEnd+2*len(IndentUnit) {
		t.Errorf("selEnd = %d, want %d", end, selEnd+2*len(IndentUnit))
	}
}

func TestApplyOutdent(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"exact unit", "    code", "code"},
		{"single tab", "\tcode", "code"},
		{"partial spaces", "  code", "code"},
		{"more than unit", "      code", "  code"},
		{"no leading whitespace", "code", "code"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _, _ := ApplyIndent(tt.text, 0, len(tt.text), true)
			if got != tt.want {
				t.Errorf("ApplyIndent(%q, outdent) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestApplyOutdentOffsets(t *testing.T) {
	text := "    a\n    b"
	got, start, end := ApplyIndent(text, 4, len(text), true)
	if got != "a\nb" {
		t.Fatalf("text = %q, want %q", got, "a\nb")
	}
	if start != 0 {
		t.Errorf("selStart = %d, want 0", start)
	}
	if end != len("a\nb") {
		t.Errorf("selEnd = %d, want %d", end, len("a\nb"))
	}
}

func TestInsertNewline(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		cursor int
		want   string
	}{
		{"plain line", "hello", 5, "hello\n"},
		{"copies indent", "    hello", 9, "    hello\n    "},
		{"extra after brace", "if x {", 6, "if x {\n    "},
		{"extra after colon", "def f():", 8, "def f():\n    "},
		{"extra after bracket with indent", "    items [", 11, "    items [\n        "},
		{"no extra mid line", "if x { y", 8, "if x { y\n"},
		{"trailing space after colon", "loop:  ", 7, "loop:  \n    "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, cursor := InsertNewline(tt.text, tt.cursor, tt.cursor)
			if got != tt.want {
				t.Errorf("text = %q, want %q", got, tt.want)
			}
			if cursor != len(tt.want) {
				t.Errorf("cursor = %d, want %d", cursor, len(tt.want))
			}
		})
	}
}

func TestInsertNewlineReplacesSelection(t *testing.T) {
	got, cursor := InsertNewline("abXYcd", 2, 4)
	if got != "ab\ncd" {
		t.Errorf("text = %q, want %q", got, "ab\ncd")
	}
	if cursor != 3 {
		t.Errorf("cursor = %d, want 3", cursor)
	}
}

func TestInsertAt(t *testing.T) {
	got, cursor := InsertAt("abcd", 2, 2, IndentUnit)
	if got != "ab    cd" {
		t.Errorf("text = %q, want %q", got, "ab    cd")
	}
	if cursor != 6 {
		t.Errorf("cursor = %d, want 6", cursor)
	}

	// Selection is replaced.
	got, cursor = InsertAt("abcd", 1, 3, "-")
	if got != "a-d" {
		t.Errorf("text = %q, want %q", got, "a-d")
	}
	if cursor != 2 {
		t.Errorf("cursor = %d, want 2", cursor)
	}
}

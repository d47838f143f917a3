package log

import (
	"fmt"
	"testing"
)

func TestLogBuffer(t *testing.T) {
	b := NewLogBuffer(3)
	if got := b.Entries(0); len(got) != 0 {
		t.Fatalf("empty buffer returned %d entries", len(got))
	}

	for i := 0; i < 5; i++ {
		b.AddEntry(HTTPLogEntry{Path: fmt.Sprintf("/%d", i)})
	}

	got := b.Entries(0)
	expected := []string{"/4", "/3", "/2"}
	if len(got) != len(expected) {
		t.Fatalf("got %d entries, expected %d", len(got), len(expected))
	}
	for i, e := range got {
		if e.Path != expected[i] {
			t.Errorf("entry %d = %q, expected %q", i, e.Path, expected[i])
		}
	}

	if got := b.Entries(1); len(got) != 1 || got[0].Path != "/4" {
		t.Errorf("Entries(1) = %v", got)
	}
}

func TestLogBufferPartial(t *testing.T) {
	b := NewLogBuffer(10)
	b.AddEntry(HTTPLogEntry{Path: "/a"})
	b.AddEntry(HTTPLogEntry{Path: "/b"})

	got := b.Entries(5)
	if len(got) != 2 || got[0].Path != "/b" || got[1].Path != "/a" {
		t.Errorf("Entries(5) = %v", got)
	}
}

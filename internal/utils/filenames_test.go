package utils

import (
	"path/filepath"
	"testing"
)

func TestStorageNameKeepsExtension(t *testing.T) {
	name := StorageName("Lecture Notes.PDF")
	if filepath.Ext(name) != ".PDF" {
		t.Fatalf("expected original extension, got %q", name)
	}
	if name == "Lecture Notes.PDF" {
		t.Fatal("storage name must differ from the original name")
	}
}

func TestStorageNamesAreUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		name := StorageName("notes.pdf")
		if seen[name] {
			t.Fatalf("duplicate storage name %q", name)
		}
		seen[name] = true
	}
}

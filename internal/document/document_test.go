package document

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLanguageFromPath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"intro.en.tex", "en"},
		{"notes/kapitel.de.md", "de"},
		{"plain.tex", "en"},
		{"archive.backup.tex", "en"},
		{"a.fr-FR.md", "en"},
		{"noext", "en"},
	}
	for _, tt := range tests {
		if got := LanguageFromPath(tt.path); got != tt.want {
			t.Errorf("LanguageFromPath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"intro.en.tex", "tex"},
		{"readme.MD", "md"},
		{"noext", "txt"},
	}
	for _, tt := range tests {
		if got := FormatFromPath(tt.path); got != tt.want {
			t.Errorf("FormatFromPath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestContentLazyLoadAndWriteThrough(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.en.txt")
	if err := os.WriteFile(path, []byte("original"), 0o644); err != nil {
		t.Fatal(err)
	}
	d := New(path)

	got, err := d.Content()
	if err != nil {
		t.Fatalf("content: %v", err)
	}
	if got != "original" {
		t.Errorf("content = %q", got)
	}

	if err := d.SetContent("changed"); err != nil {
		t.Fatalf("set content: %v", err)
	}
	onDisk, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(onDisk) != "changed" {
		t.Errorf("on disk = %q, want write-through", onDisk)
	}
}

func TestFreshContentSeesExternalEdit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.txt")
	if err := os.WriteFile(path, []byte("v1"), 0o644); err != nil {
		t.Fatal(err)
	}
	d := New(path)
	if _, err := d.Content(); err != nil {
		t.Fatal(err)
	}

	// Simulate an external editor.
	if err := os.WriteFile(path, []byte("v2"), 0o644); err != nil {
		t.Fatal(err)
	}

	fresh, err := d.FreshContent()
	if err != nil {
		t.Fatalf("fresh content: %v", err)
	}
	if fresh != "v2" {
		t.Errorf("fresh = %q, want %q", fresh, "v2")
	}
}

func TestMemoryDocument(t *testing.T) {
	d := NewMemory("scratch", "txt", "en", "hello")
	got, err := d.Content()
	if err != nil {
		t.Fatalf("content: %v", err)
	}
	if got != "hello" {
		t.Errorf("content = %q", got)
	}
	if err := d.SetContent("bye"); err != nil {
		t.Fatalf("set content: %v", err)
	}
	if fresh, _ := d.FreshContent(); fresh != "bye" {
		t.Errorf("fresh = %q", fresh)
	}
}

func TestCloneIndependentSnapshot(t *testing.T) {
	d := NewMemory("scratch", "txt", "en", "one")
	c := d.Clone()

	if err := c.SetContent("two"); err != nil {
		t.Fatal(err)
	}
	got, _ := d.Content()
	if got != "one" {
		t.Errorf("original content = %q, want unchanged", got)
	}
}

func TestFromPaths(t *testing.T) {
	dir := t.TempDir()
	files := []string{"b.en.tex", "a.en.tex", ".hidden.tex"}
	for _, name := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	sub := filepath.Join(dir, ".git")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(sub, "config"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	docs, err := FromPaths([]string{dir})
	if err != nil {
		t.Fatalf("from paths: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("got %d documents, want 2", len(docs))
	}
	if filepath.Base(docs[0].Path) != "a.en.tex" || filepath.Base(docs[1].Path) != "b.en.tex" {
		t.Errorf("order = %s, %s", docs[0].Path, docs[1].Path)
	}
}

func TestFromPathsMissing(t *testing.T) {
	if _, err := FromPaths([]string{filepath.Join(t.TempDir(), "absent")}); err == nil {
		t.Error("expected error for missing path")
	}
}

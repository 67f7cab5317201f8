package learningfiles

import (
	"os"
	"path/filepath"
	"testing"
)

func TestReaderListOnlyMarkdown(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.md", "b.md", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "sub.md"), 0755); err != nil {
		t.Fatal(err)
	}

	files, err := NewReader(dir).List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("expected 2 markdown files, got %d", len(files))
	}
	for _, f := range files {
		if f.Name != "a.md" && f.Name != "b.md" {
			t.Errorf("unexpected file %q", f.Name)
		}
	}
}

func TestReaderListMissingDir(t *testing.T) {
	files, err := NewReader(filepath.Join(t.TempDir(), "nope")).List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(files) != 0 {
		t.Fatalf("expected empty list, got %d", len(files))
	}
}

func TestReaderRead(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "lesson.md"), []byte("# lesson"), 0644); err != nil {
		t.Fatal(err)
	}
	r := NewReader(dir)

	raw, err := r.Read("lesson.md")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(raw) != "# lesson" {
		t.Errorf("unexpected content %q", raw)
	}

	if _, err := r.Read("missing.md"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestReaderRejectsBadNames(t *testing.T) {
	r := NewReader(t.TempDir())
	for _, name := range []string{
		"",
		"notes.txt",
		"../secret.md",
		"..\\secret.md",
		"a/b.md",
		"..md/.../x.md",
	} {
		if _, err := r.Read(name); err == nil {
			t.Errorf("expected rejection of %q", name)
		}
	}
}

package assets

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeFile(t *testing.T, dir, name string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestCatalog_Scan_filters_and_sorts(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.jpg")
	writeFile(t, dir, "a.mp4")
	writeFile(t, dir, "notes.txt")
	writeFile(t, dir, "clip.MOV")
	if err := os.Mkdir(filepath.Join(dir, "sub"), 0o755); err != nil {
		t.Fatal(err)
	}

	c := NewCatalog(dir, discardLogger())
	if err := c.Scan(); err != nil {
		t.Fatalf("Scan: %v", err)
	}

	got := c.List()
	want := []string{"a.mp4", "b.jpg", "clip.MOV"}
	if len(got) != len(want) {
		t.Fatalf("List = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("List[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestCatalog_empty_dir_disabled(t *testing.T) {
	c := NewCatalog("", discardLogger())
	if err := c.Scan(); err != nil {
		t.Errorf("disabled catalog Scan should be a no-op: %v", err)
	}
	if got := c.List(); got != nil {
		t.Errorf("disabled catalog should list nothing, got %v", got)
	}
}

func TestCatalog_Scan_missing_dir(t *testing.T) {
	c := NewCatalog(filepath.Join(t.TempDir(), "nope"), discardLogger())
	if err := c.Scan(); err == nil {
		t.Error("scanning a missing directory should error")
	}
}

func TestCatalog_List_copies(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.png")

	c := NewCatalog(dir, discardLogger())
	if err := c.Scan(); err != nil {
		t.Fatal(err)
	}

	got := c.List()
	got[0] = "mutated"
	if c.List()[0] != "a.png" {
		t.Error("List must not expose the internal slice")
	}
}

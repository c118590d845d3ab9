package store

import (
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "quill.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSetGet(t *testing.T) {
	s := openTestStore(t)

	if _, _, ok := s.Get("/tmp/absent.go"); ok {
		t.Fatal("unexpected hit for unknown path")
	}

	s.Set("/tmp/a.go", 41, 7)
	line, col, ok := s.Get("/tmp/a.go")
	if !ok || line != 41 || col != 7 {
		t.Fatalf("Get = (%d,%d,%v), want (41,7,true)", line, col, ok)
	}

	// Overwrite replaces rather than duplicates.
	s.Set("/tmp/a.go", 2, 0)
	line, col, ok = s.Get("/tmp/a.go")
	if !ok || line != 2 || col != 0 {
		t.Fatalf("Get after overwrite = (%d,%d,%v), want (2,0,true)", line, col, ok)
	}
}

func TestRelativePathsShareEntry(t *testing.T) {
	s := openTestStore(t)
	s.Set("notes.txt", 5, 1)
	if _, _, ok := s.Get("./notes.txt"); !ok {
		t.Fatal("relative spelling of the same path missed")
	}
}

func TestNilStoreIsInert(t *testing.T) {
	var s *Store
	s.Set("/tmp/x", 1, 1)
	if _, _, ok := s.Get("/tmp/x"); ok {
		t.Fatal("nil store returned a hit")
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close on nil store: %v", err)
	}
}

func TestReopenPersists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "quill.db")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	s.Set("/tmp/keep.go", 12, 3)
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	s2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()
	line, col, ok := s2.Get("/tmp/keep.go")
	if !ok || line != 12 || col != 3 {
		t.Fatalf("Get after reopen = (%d,%d,%v), want (12,3,true)", line, col, ok)
	}
}

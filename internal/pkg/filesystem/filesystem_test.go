package filesystem

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestExpandPath(t *testing.T) {
	home := UserHomeDir()
	tests := map[string]string{
		"~":             home,
		"~/data/x.json": filepath.Join(home, "data", "x.json"),
		"data/x.json":   "data/x.json",
		"/abs/~/x.json": "/abs/~/x.json",
	}
	for in, want := range tests {
		if got := ExpandPath(in); got != want {
			t.Errorf("ExpandPath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestWriteFileAtomic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out.json")

	err := WriteFileAtomic(path, 0o644, func(w io.Writer) error {
		_, err := io.WriteString(w, "first")
		return err
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	failure := errors.New("encode failed")
	err = WriteFileAtomic(path, 0o644, func(w io.Writer) error {
		_, _ = io.WriteString(w, "partial")
		return failure
	})
	if !errors.Is(err, failure) {
		t.Fatalf("expected write error, got %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "first" {
		t.Errorf("content = %q, want previous content kept", data)
	}

	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Errorf("expected temp files to be cleaned up, found %d entries", len(entries))
	}
}

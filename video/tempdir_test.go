package video

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewTempDir(t *testing.T) {
	dir, err := NewTempDir("test")
	if err != nil {
		t.Fatalf("NewTempDir() error = %v", err)
	}
	defer dir.Cleanup()

	fi, err := os.Stat(dir.Path())
	if err != nil {
		t.Fatalf("temp directory does not exist: %v", err)
	}
	if !fi.IsDir() {
		t.Error("temp path is not a directory")
	}
}

func TestNewTempDirUnique(t *testing.T) {
	a, err := NewTempDir("test")
	if err != nil {
		t.Fatalf("NewTempDir() error = %v", err)
	}
	defer a.Cleanup()

	b, err := NewTempDir("test")
	if err != nil {
		t.Fatalf("NewTempDir() error = %v", err)
	}
	defer b.Cleanup()

	if a.Path() == b.Path() {
		t.Errorf("two temp directories share a path: %s", a.Path())
	}
}

func TestTempDirJoin(t *testing.T) {
	dir, err := NewTempDir("test")
	if err != nil {
		t.Fatalf("NewTempDir() error = %v", err)
	}
	defer dir.Cleanup()

	want := filepath.Join(dir.Path(), "frame_0001.jpg")
	if got := dir.Join("frame_0001.jpg"); got != want {
		t.Errorf("Join() = %q, expected %q", got, want)
	}
}

func TestTempDirCleanup(t *testing.T) {
	dir, err := NewTempDir("test")
	if err != nil {
		t.Fatalf("NewTempDir() error = %v", err)
	}

	if err := os.WriteFile(dir.Join("scratch.txt"), []byte("data"), 0o644); err != nil {
		t.Fatalf("failed to write into temp dir: %v", err)
	}

	dir.Cleanup()

	if _, err := os.Stat(dir.Path()); !os.IsNotExist(err) {
		t.Errorf("Cleanup() left the directory behind: %v", err)
	}
}

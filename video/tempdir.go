package video

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// TempDir is a scoped scratch directory for extracted frames and downloaded
// videos. It prefers RAM-backed storage and is removed by Cleanup; callers
// defer Cleanup immediately after creation so removal happens on every exit
// path, including panics.
type TempDir struct {
	path string
}

// NewTempDir creates a uniquely named scratch directory under the fastest
// available base location.
func NewTempDir(prefix string) (*TempDir, error) {
	name := fmt.Sprintf("%s_%s", prefix, uuid.NewString())
	path := filepath.Join(tempBaseDir(), name)

	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create temp directory: %w", err)
	}
	return &TempDir{path: path}, nil
}

// Path returns the directory's absolute path.
func (d *TempDir) Path() string { return d.path }

// Join returns a path for a file inside the directory.
func (d *TempDir) Join(name string) string { return filepath.Join(d.path, name) }

// Cleanup removes the directory and everything in it. Removal failures are
// best-effort and never fail the surrounding computation.
func (d *TempDir) Cleanup() {
	if d.path != "" {
		_ = os.RemoveAll(d.path)
	}
}

// tempBaseDir picks a RAM-backed mount when one exists, falling back to the
// platform temp directory.
func tempBaseDir() string {
	if fi, err := os.Stat("/dev/shm"); err == nil && fi.IsDir() {
		return "/dev/shm"
	}
	return os.TempDir()
}

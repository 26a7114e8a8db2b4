package workspace

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Workspace is a per-request scratch directory. Every pipeline invocation
// gets its own uuid-keyed directory under the configured base, so concurrent
// requests can never collide on video or frame filenames. The directory is
// removed when the request finishes, whatever the outcome.
type Workspace struct {
	ID   string
	Root string
}

// New creates a fresh workspace directory under baseDir.
func New(baseDir string) (*Workspace, error) {
	id := uuid.NewString()
	root := filepath.Join(baseDir, id)
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create workspace %s: %w", root, err)
	}
	return &Workspace{ID: id, Root: root}, nil
}

// Path returns the absolute path for a file inside the workspace.
func (w *Workspace) Path(name string) string {
	return filepath.Join(w.Root, name)
}

// Remove deletes the workspace and everything in it.
func (w *Workspace) Remove() error {
	return os.RemoveAll(w.Root)
}

package workspace

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewCreatesUniqueDirectories(t *testing.T) {
	base := t.TempDir()

	a, err := New(base)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := New(base)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if a.Root == b.Root {
		t.Fatalf("two workspaces share the same root %q", a.Root)
	}
	for _, ws := range []*Workspace{a, b} {
		info, err := os.Stat(ws.Root)
		if err != nil {
			t.Fatalf("stat %s: %v", ws.Root, err)
		}
		if !info.IsDir() {
			t.Fatalf("%s is not a directory", ws.Root)
		}
		if filepath.Dir(ws.Root) != base {
			t.Fatalf("workspace %s created outside base %s", ws.Root, base)
		}
	}
}

func TestPath(t *testing.T) {
	ws, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := filepath.Join(ws.Root, "video.mp4")
	if got := ws.Path("video.mp4"); got != want {
		t.Fatalf("Path = %q, want %q", got, want)
	}
}

func TestRemoveDeletesContents(t *testing.T) {
	ws, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := os.WriteFile(ws.Path("frame_45s.jpg"), []byte("jpeg-bytes"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	if err := ws.Remove(); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := os.Stat(ws.Root); !os.IsNotExist(err) {
		t.Fatalf("workspace root still exists after Remove (stat err: %v)", err)
	}
}

package repo

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestRestoreFromIndex(t *testing.T) {
	r := initTestRepo(t)

	stageFile(t, r, "f.txt", "staged content")
	writeWorkFile(t, r, "f.txt", "local edits")

	if err := r.RestoreFromIndex("f.txt"); err != nil {
		t.Fatalf("RestoreFromIndex: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(r.RootDir, "f.txt"))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "staged content" {
		t.Errorf("restored = %q, want staged content", data)
	}
}

func TestRestoreFromIndexRecreatesDeleted(t *testing.T) {
	r := initTestRepo(t)

	stageFile(t, r, "dir/f.txt", "staged")
	if err := os.RemoveAll(filepath.Join(r.RootDir, "dir")); err != nil {
		t.Fatalf("remove: %v", err)
	}

	if err := r.RestoreFromIndex("dir/f.txt"); err != nil {
		t.Fatalf("RestoreFromIndex: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(r.RootDir, "dir", "f.txt"))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "staged" {
		t.Errorf("restored = %q", data)
	}
}

func TestRestoreFromIndexNotStaged(t *testing.T) {
	r := initTestRepo(t)

	err := r.RestoreFromIndex("missing.txt")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

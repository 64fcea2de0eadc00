package repo

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mamba-vcs/mamba/pkg/object"
)

func initTestRepo(t *testing.T) *Repo {
	t.Helper()
	r, err := Init(t.TempDir())
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	return r
}

func writeWorkFile(t *testing.T, r *Repo, rel, content string) string {
	t.Helper()
	p := filepath.Join(r.RootDir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", rel, err)
	}
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", rel, err)
	}
	return p
}

func stageFile(t *testing.T, r *Repo, rel, content string) object.Hash {
	t.Helper()
	p := writeWorkFile(t, r, rel, content)
	info, err := os.Stat(p)
	if err != nil {
		t.Fatalf("stat %s: %v", rel, err)
	}
	h, err := r.Add(p, FileStatFromInfo(info))
	if err != nil {
		t.Fatalf("Add %s: %v", rel, err)
	}
	return h
}

func commitAll(t *testing.T, r *Repo, msg string) object.Hash {
	t.Helper()
	h, err := r.Commit(msg)
	if err != nil {
		t.Fatalf("Commit %q: %v", msg, err)
	}
	return h
}

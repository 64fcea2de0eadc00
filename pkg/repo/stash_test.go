package repo

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestStashReverseAddressing(t *testing.T) {
	r := initTestRepo(t)

	writeWorkFile(t, r, "f.txt", "first")
	h0, err := r.CreateStash("")
	if err != nil {
		t.Fatalf("CreateStash: %v", err)
	}

	writeWorkFile(t, r, "f.txt", "second")
	h1, err := r.CreateStash("")
	if err != nil {
		t.Fatalf("CreateStash: %v", err)
	}

	// stash@{0} is the newest entry.
	newest, err := r.GetStash("stash@{0}")
	if err != nil {
		t.Fatalf("GetStash(stash@{0}): %v", err)
	}
	if newest.Hash != h1 {
		t.Errorf("stash@{0} = %s, want newest %s", newest.Hash, h1)
	}

	oldest, err := r.GetStash("stash@{1}")
	if err != nil {
		t.Fatalf("GetStash(stash@{1}): %v", err)
	}
	if oldest.Hash != h0 {
		t.Errorf("stash@{1} = %s, want oldest %s", oldest.Hash, h0)
	}

	list, err := r.ListStashes()
	if err != nil {
		t.Fatalf("ListStashes: %v", err)
	}
	if len(list) != 2 || list[0].Hash != h1 || list[1].Hash != h0 {
		t.Errorf("list = %+v, want newest first [%s %s]", list, h1, h0)
	}
}

func TestStashMessage(t *testing.T) {
	r := initTestRepo(t)

	writeWorkFile(t, r, "f.txt", "v1")
	h, err := r.CreateStash("before refactor")
	if err != nil {
		t.Fatalf("CreateStash: %v", err)
	}
	commit, err := r.Store.ReadCommit(h)
	if err != nil {
		t.Fatalf("ReadCommit: %v", err)
	}
	if commit.Message != "before refactor" {
		t.Errorf("Message = %q, want before refactor", commit.Message)
	}

	// Empty message falls back to the WIP default.
	writeWorkFile(t, r, "f.txt", "v2")
	h, err = r.CreateStash("")
	if err != nil {
		t.Fatalf("CreateStash: %v", err)
	}
	commit, err = r.Store.ReadCommit(h)
	if err != nil {
		t.Fatalf("ReadCommit: %v", err)
	}
	if commit.Message != "WIP on main" {
		t.Errorf("Message = %q, want WIP on main", commit.Message)
	}
}

func TestGetStashByRawHash(t *testing.T) {
	r := initTestRepo(t)
	writeWorkFile(t, r, "f.txt", "content")
	h, err := r.CreateStash("")
	if err != nil {
		t.Fatalf("CreateStash: %v", err)
	}

	entry, err := r.GetStash(string(h))
	if err != nil {
		t.Fatalf("GetStash(raw): %v", err)
	}
	if entry.Hash != h {
		t.Errorf("got %s, want %s", entry.Hash, h)
	}
}

func TestGetStashOutOfRangeIsNil(t *testing.T) {
	r := initTestRepo(t)

	// Empty log: a well-formed index resolves to nothing, not an error.
	entry, err := r.GetStash("stash@{0}")
	if err != nil {
		t.Fatalf("GetStash on empty log: %v", err)
	}
	if entry != nil {
		t.Errorf("empty log resolved to %+v, want nil", entry)
	}

	writeWorkFile(t, r, "f.txt", "content")
	if _, err := r.CreateStash(""); err != nil {
		t.Fatalf("CreateStash: %v", err)
	}

	entry, err = r.GetStash("stash@{5}")
	if err != nil {
		t.Fatalf("GetStash(stash@{5}): %v", err)
	}
	if entry != nil {
		t.Errorf("out-of-range index resolved to %+v, want nil", entry)
	}
}

func TestGetStashMalformedRef(t *testing.T) {
	r := initTestRepo(t)

	if _, err := r.GetStash("bogus"); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("malformed ref: err = %v, want ErrInvalidArgument", err)
	}
}

func TestDropStash(t *testing.T) {
	r := initTestRepo(t)

	writeWorkFile(t, r, "f.txt", "first")
	h0, err := r.CreateStash("")
	if err != nil {
		t.Fatalf("CreateStash: %v", err)
	}
	writeWorkFile(t, r, "f.txt", "second")
	if _, err := r.CreateStash(""); err != nil {
		t.Fatalf("CreateStash: %v", err)
	}

	// Drop the newest; the older entry becomes stash@{0}.
	if err := r.DropStash("stash@{0}"); err != nil {
		t.Fatalf("DropStash(stash@{0}): %v", err)
	}
	entry, err := r.GetStash("stash@{0}")
	if err != nil {
		t.Fatalf("GetStash: %v", err)
	}
	if entry == nil || entry.Hash != h0 {
		t.Errorf("after drop, stash@{0} = %+v, want %s", entry, h0)
	}

	// Dropping the last entry removes the log file.
	if err := r.DropStash("stash@{0}"); err != nil {
		t.Fatalf("DropStash(stash@{0}): %v", err)
	}
	if _, err := os.Stat(filepath.Join(r.MetaDir, "refs", "stash")); !os.IsNotExist(err) {
		t.Errorf("stash log file should be removed when emptied, stat err = %v", err)
	}
}

func TestDropStashErrors(t *testing.T) {
	r := initTestRepo(t)

	if err := r.DropStash("bogus"); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("malformed ref: err = %v, want ErrInvalidArgument", err)
	}

	writeWorkFile(t, r, "f.txt", "content")
	if _, err := r.CreateStash(""); err != nil {
		t.Fatalf("CreateStash: %v", err)
	}

	if err := r.DropStash("stash@{5}"); !errors.Is(err, ErrNotFound) {
		t.Errorf("out-of-range drop: err = %v, want ErrNotFound", err)
	}
	if list, _ := r.ListStashes(); len(list) != 1 {
		t.Errorf("failed drop changed the log: %d entries", len(list))
	}
}

func TestApplyStashRestoresWorkspace(t *testing.T) {
	r := initTestRepo(t)

	writeWorkFile(t, r, "f.txt", "stashed content")
	writeWorkFile(t, r, "dir/g.txt", "nested")
	if _, err := r.CreateStash(""); err != nil {
		t.Fatalf("CreateStash: %v", err)
	}

	// Mutate and delete, then apply on a workspace matching neither side.
	if err := os.Remove(filepath.Join(r.RootDir, "f.txt")); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := os.RemoveAll(filepath.Join(r.RootDir, "dir")); err != nil {
		t.Fatalf("remove dir: %v", err)
	}

	if err := r.ApplyStash("stash@{0}"); err != nil {
		t.Fatalf("ApplyStash: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(r.RootDir, "f.txt"))
	if err != nil {
		t.Fatalf("read restored file: %v", err)
	}
	if string(data) != "stashed content" {
		t.Errorf("f.txt = %q", data)
	}
	data, err = os.ReadFile(filepath.Join(r.RootDir, "dir", "g.txt"))
	if err != nil {
		t.Fatalf("read restored nested file: %v", err)
	}
	if string(data) != "nested" {
		t.Errorf("dir/g.txt = %q", data)
	}
}

func TestApplyStashMissingEntry(t *testing.T) {
	r := initTestRepo(t)

	err := r.ApplyStash("stash@{0}")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("apply on empty log: err = %v, want ErrNotFound", err)
	}
}

func TestApplyStashConflict(t *testing.T) {
	r := initTestRepo(t)

	writeWorkFile(t, r, "f.txt", "stashed")
	if _, err := r.CreateStash(""); err != nil {
		t.Fatalf("CreateStash: %v", err)
	}

	writeWorkFile(t, r, "f.txt", "diverged")

	err := r.ApplyStash("stash@{0}")
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("err = %v, want ErrConflict", err)
	}

	var ce *ConflictError
	if !errors.As(err, &ce) {
		t.Fatalf("error does not carry ConflictError: %v", err)
	}
	if len(ce.Paths) != 1 || ce.Paths[0] != "f.txt" {
		t.Errorf("conflict paths = %v, want [f.txt]", ce.Paths)
	}

	// Nothing was written.
	data, err := os.ReadFile(filepath.Join(r.RootDir, "f.txt"))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "diverged" {
		t.Errorf("workspace overwritten despite conflict: %q", data)
	}
}

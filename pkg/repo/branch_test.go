package repo

import (
	"errors"
	"testing"
)

func TestCreateBranchFromCurrentCommit(t *testing.T) {
	r := initTestRepo(t)
	stageFile(t, r, "f.txt", "hello")
	c := commitAll(t, r, "first")

	if err := r.CreateBranch("feature"); err != nil {
		t.Fatalf("CreateBranch: %v", err)
	}

	h, exists, err := r.ReadRef("refs/heads/feature")
	if err != nil {
		t.Fatalf("ReadRef: %v", err)
	}
	if !exists || h != c {
		t.Errorf("feature = (%q, %v), want (%s, true)", h, exists, c)
	}
}

func TestCreateBranchAlreadyExists(t *testing.T) {
	r := initTestRepo(t)

	// The unborn main ref file counts as existing.
	err := r.CreateBranch("main")
	if !errors.Is(err, ErrAlreadyExists) {
		t.Errorf("CreateBranch(main): err = %v, want ErrAlreadyExists", err)
	}
}

func TestCreateBranchBeforeFirstCommit(t *testing.T) {
	r := initTestRepo(t)

	if err := r.CreateBranch("feature"); err != nil {
		t.Fatalf("CreateBranch: %v", err)
	}
	h, exists, err := r.ReadRef("refs/heads/feature")
	if err != nil {
		t.Fatalf("ReadRef: %v", err)
	}
	if !exists || h != "" {
		t.Errorf("branch from unborn HEAD = (%q, %v), want (\"\", true)", h, exists)
	}
}

func TestSwitchBranch(t *testing.T) {
	r := initTestRepo(t)
	stageFile(t, r, "f.txt", "hello")
	commitAll(t, r, "first")

	if err := r.CreateBranch("feature"); err != nil {
		t.Fatalf("CreateBranch: %v", err)
	}
	if err := r.SwitchBranch("feature"); err != nil {
		t.Fatalf("SwitchBranch: %v", err)
	}

	head, err := r.Head()
	if err != nil {
		t.Fatalf("Head: %v", err)
	}
	if head.Branch != "feature" {
		t.Errorf("Branch = %q, want feature", head.Branch)
	}
}

func TestSwitchBranchMissing(t *testing.T) {
	r := initTestRepo(t)
	err := r.SwitchBranch("nope")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("SwitchBranch(nope): err = %v, want ErrNotFound", err)
	}
}

func TestDeleteBranch(t *testing.T) {
	r := initTestRepo(t)
	stageFile(t, r, "f.txt", "hello")
	commitAll(t, r, "first")

	if err := r.CreateBranch("feature"); err != nil {
		t.Fatalf("CreateBranch: %v", err)
	}
	if err := r.DeleteBranch("feature"); err != nil {
		t.Fatalf("DeleteBranch: %v", err)
	}
	if _, exists, _ := r.ReadRef("refs/heads/feature"); exists {
		t.Error("feature ref still exists after delete")
	}
}

func TestDeleteBranchGuards(t *testing.T) {
	r := initTestRepo(t)

	if err := r.DeleteBranch("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("delete missing: err = %v, want ErrNotFound", err)
	}
	if err := r.DeleteBranch("main"); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("delete current: err = %v, want ErrInvalidArgument", err)
	}
}

func TestListBranches(t *testing.T) {
	r := initTestRepo(t)
	stageFile(t, r, "f.txt", "hello")
	c := commitAll(t, r, "first")

	if err := r.CreateBranch("feature"); err != nil {
		t.Fatalf("CreateBranch: %v", err)
	}

	branches, err := r.ListBranches()
	if err != nil {
		t.Fatalf("ListBranches: %v", err)
	}

	byName := make(map[string]Branch)
	for _, b := range branches {
		byName[b.Name] = b
	}
	if len(byName) != 2 {
		t.Fatalf("got %d branches, want 2: %+v", len(byName), branches)
	}
	if byName["main"].Hash != c || byName["feature"].Hash != c {
		t.Errorf("branches = %+v, want both at %s", byName, c)
	}
}

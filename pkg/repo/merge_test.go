package repo

import (
	"errors"
	"testing"
)

func TestMergeBranch(t *testing.T) {
	r := initTestRepo(t)
	stageFile(t, r, "f.txt", "base")
	base := commitAll(t, r, "base")

	if err := r.CreateBranch("feature"); err != nil {
		t.Fatalf("CreateBranch: %v", err)
	}
	if err := r.SwitchBranch("feature"); err != nil {
		t.Fatalf("SwitchBranch: %v", err)
	}
	stageFile(t, r, "g.txt", "feature work")
	theirs := commitAll(t, r, "feature work")

	if err := r.SwitchBranch("main"); err != nil {
		t.Fatalf("SwitchBranch: %v", err)
	}
	stageFile(t, r, "f.txt", "main work")
	ours := commitAll(t, r, "main work")

	mergeHash, err := r.MergeBranch("feature")
	if err != nil {
		t.Fatalf("MergeBranch: %v", err)
	}

	merge, err := r.Store.ReadCommit(mergeHash)
	if err != nil {
		t.Fatalf("ReadCommit: %v", err)
	}
	if len(merge.Parents) != 2 || merge.Parents[0] != ours || merge.Parents[1] != theirs {
		t.Errorf("parents = %v, want [%s %s]", merge.Parents, ours, theirs)
	}

	// The merge keeps the current side's tree.
	oursCommit, err := r.Store.ReadCommit(ours)
	if err != nil {
		t.Fatalf("ReadCommit: %v", err)
	}
	if merge.Tree != oursCommit.Tree {
		t.Errorf("merge tree = %s, want current tree %s", merge.Tree, oursCommit.Tree)
	}

	tip, _, err := r.ReadRef("refs/heads/main")
	if err != nil {
		t.Fatalf("ReadRef: %v", err)
	}
	if tip != mergeHash {
		t.Errorf("main = %s, want %s", tip, mergeHash)
	}
	_ = base
}

func TestMergeBranchMissing(t *testing.T) {
	r := initTestRepo(t)
	stageFile(t, r, "f.txt", "base")
	commitAll(t, r, "base")

	_, err := r.MergeBranch("nope")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestMergeBranchNoOp(t *testing.T) {
	r := initTestRepo(t)
	stageFile(t, r, "f.txt", "base")
	commitAll(t, r, "base")

	if err := r.CreateBranch("same"); err != nil {
		t.Fatalf("CreateBranch: %v", err)
	}

	_, err := r.MergeBranch("same")
	if !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("merging identical tips: err = %v, want ErrInvalidArgument", err)
	}
}

func TestMergeUnbornSides(t *testing.T) {
	r := initTestRepo(t)

	if err := r.CreateBranch("empty"); err != nil {
		t.Fatalf("CreateBranch: %v", err)
	}

	// Target branch exists but has no commits.
	_, err := r.MergeBranch("empty")
	if !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("merge of unborn target: err = %v, want ErrInvalidArgument", err)
	}
}

func TestRebase(t *testing.T) {
	r := initTestRepo(t)
	stageFile(t, r, "f.txt", "base")
	commitAll(t, r, "base")

	if err := r.CreateBranch("feature"); err != nil {
		t.Fatalf("CreateBranch: %v", err)
	}
	stageFile(t, r, "f.txt", "main moved on")
	mainTip := commitAll(t, r, "main moved on")

	if err := r.SwitchBranch("feature"); err != nil {
		t.Fatalf("SwitchBranch: %v", err)
	}
	stageFile(t, r, "g.txt", "feature work")
	featureTip := commitAll(t, r, "feature work")

	rebased, err := r.Rebase("main")
	if err != nil {
		t.Fatalf("Rebase: %v", err)
	}

	commit, err := r.Store.ReadCommit(rebased)
	if err != nil {
		t.Fatalf("ReadCommit: %v", err)
	}
	if len(commit.Parents) != 1 || commit.Parents[0] != mainTip {
		t.Errorf("parents = %v, want [%s]", commit.Parents, mainTip)
	}

	featureCommit, err := r.Store.ReadCommit(featureTip)
	if err != nil {
		t.Fatalf("ReadCommit: %v", err)
	}
	if commit.Tree != featureCommit.Tree {
		t.Errorf("rebased tree = %s, want %s", commit.Tree, featureCommit.Tree)
	}

	tip, _, err := r.ReadRef("refs/heads/feature")
	if err != nil {
		t.Fatalf("ReadRef: %v", err)
	}
	if tip != rebased {
		t.Errorf("feature = %s, want %s", tip, rebased)
	}
}

func TestRebaseGuards(t *testing.T) {
	r := initTestRepo(t)
	stageFile(t, r, "f.txt", "base")
	commitAll(t, r, "base")

	if _, err := r.Rebase("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("rebase onto missing: err = %v, want ErrNotFound", err)
	}

	if err := r.CreateBranch("same"); err != nil {
		t.Fatalf("CreateBranch: %v", err)
	}
	if _, err := r.Rebase("same"); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("rebase onto identical tip: err = %v, want ErrInvalidArgument", err)
	}
}

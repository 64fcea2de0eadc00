package repo

import (
	"fmt"

	"github.com/mamba-vcs/mamba/pkg/object"
)

// MergeBranch records a merge of the named branch into the current one as a
// single commit with two parents: the current HEAD commit first, then the
// tip of the merged branch. The merge commit keeps the current commit's
// tree. Both sides must have at least one commit.
func (r *Repo) MergeBranch(name string) (object.Hash, error) {
	theirs, exists, err := r.ReadRef("refs/heads/" + name)
	if err != nil {
		return "", fmt.Errorf("merge %q: %w", name, err)
	}
	if !exists {
		return "", fmt.Errorf("merge %q: %w", name, ErrNotFound)
	}
	if theirs == "" {
		return "", fmt.Errorf("merge %q: branch has no commits: %w", name, ErrInvalidArgument)
	}

	ours, err := r.CurrentCommit()
	if err != nil {
		return "", fmt.Errorf("merge %q: %w", name, err)
	}
	if ours == "" {
		return "", fmt.Errorf("merge %q: current branch has no commits: %w", name, ErrInvalidArgument)
	}

	if ours == theirs {
		return "", fmt.Errorf("merge %q: already up to date: %w", name, ErrInvalidArgument)
	}

	oursCommit, err := r.Store.ReadCommit(ours)
	if err != nil {
		return "", fmt.Errorf("merge %q: %w", name, err)
	}

	sig, err := r.authorSignature()
	if err != nil {
		return "", fmt.Errorf("merge %q: %w", name, err)
	}

	commit := &object.Commit{
		Tree:      oursCommit.Tree,
		Parents:   []object.Hash{ours, theirs},
		Author:    sig,
		Committer: sig,
		Message:   fmt.Sprintf("Merge branch '%s'", name),
	}
	hash, err := r.Store.WriteCommit(commit)
	if err != nil {
		return "", fmt.Errorf("merge %q: %w", name, err)
	}

	if err := r.advanceHead(hash, fmt.Sprintf("merge %s", name)); err != nil {
		return "", fmt.Errorf("merge %q: %w", name, err)
	}
	return hash, nil
}

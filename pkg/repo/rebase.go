package repo

import (
	"fmt"

	"github.com/mamba-vcs/mamba/pkg/object"
)

// Rebase replays the current branch onto the named branch as a single new
// commit: its sole parent is the target's tip and its tree is the current
// commit's tree, so the result is a linear history ending in the rebased
// content. Both sides must have at least one commit.
func (r *Repo) Rebase(onto string) (object.Hash, error) {
	target, exists, err := r.ReadRef("refs/heads/" + onto)
	if err != nil {
		return "", fmt.Errorf("rebase onto %q: %w", onto, err)
	}
	if !exists {
		return "", fmt.Errorf("rebase onto %q: %w", onto, ErrNotFound)
	}
	if target == "" {
		return "", fmt.Errorf("rebase onto %q: branch has no commits: %w", onto, ErrInvalidArgument)
	}

	cur, err := r.CurrentCommit()
	if err != nil {
		return "", fmt.Errorf("rebase onto %q: %w", onto, err)
	}
	if cur == "" {
		return "", fmt.Errorf("rebase onto %q: current branch has no commits: %w", onto, ErrInvalidArgument)
	}

	if cur == target {
		return "", fmt.Errorf("rebase onto %q: already at target: %w", onto, ErrInvalidArgument)
	}

	curCommit, err := r.Store.ReadCommit(cur)
	if err != nil {
		return "", fmt.Errorf("rebase onto %q: %w", onto, err)
	}

	sig, err := r.authorSignature()
	if err != nil {
		return "", fmt.Errorf("rebase onto %q: %w", onto, err)
	}

	commit := &object.Commit{
		Tree:      curCommit.Tree,
		Parents:   []object.Hash{target},
		Author:    sig,
		Committer: sig,
		Message:   fmt.Sprintf("Rebase onto '%s'", onto),
	}
	hash, err := r.Store.WriteCommit(commit)
	if err != nil {
		return "", fmt.Errorf("rebase onto %q: %w", onto, err)
	}

	if err := r.advanceHead(hash, fmt.Sprintf("rebase onto %s", onto)); err != nil {
		return "", fmt.Errorf("rebase onto %q: %w", onto, err)
	}
	return hash, nil
}

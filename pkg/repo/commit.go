package repo

import (
	"errors"
	"fmt"

	"github.com/mamba-vcs/mamba/pkg/object"
)

// Commit writes the index as a tree, records a commit pointing at it, and
// advances HEAD. The parent list is the current HEAD commit, or empty for
// the first commit. An empty index is allowed and produces an empty root
// tree. The message is stored verbatim.
func (r *Repo) Commit(message string) (object.Hash, error) {
	idx, err := r.LoadIndex()
	if err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}

	treeHash, err := r.BuildTree(idx)
	if err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}

	var parents []object.Hash
	if parent, err := r.CurrentCommit(); err == nil {
		if parent != "" {
			parents = append(parents, parent)
		}
	} else if !errors.Is(err, ErrNotFound) {
		return "", fmt.Errorf("commit: %w", err)
	}

	sig, err := r.authorSignature()
	if err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}

	commit := &object.Commit{
		Tree:      treeHash,
		Parents:   parents,
		Author:    sig,
		Committer: sig,
		Message:   message,
	}
	hash, err := r.Store.WriteCommit(commit)
	if err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}

	if err := r.advanceHead(hash, fmt.Sprintf("commit: %s", firstLine(message))); err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	return hash, nil
}

func firstLine(s string) string {
	for i, c := range s {
		if c == '\n' {
			return s[:i]
		}
	}
	return s
}

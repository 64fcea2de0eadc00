package repo

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/mamba-vcs/mamba/pkg/object"
)

const stashRefPath = "refs/stash"

var stashRefRe = regexp.MustCompile(`^stash@\{(\d+)\}$`)

// StashEntry is one saved workspace snapshot. Index 0 is always the most
// recently created stash.
type StashEntry struct {
	Index  int
	Hash   object.Hash
	Commit *object.Commit
}

// CreateStash snapshots the current workspace as a commit (its tree is the
// workspace content, its parent the current HEAD commit if any) and pushes
// it onto the stash log. An empty message defaults to "WIP on <branch>".
// The workspace itself is left untouched.
func (r *Repo) CreateStash(message string) (object.Hash, error) {
	ws, err := r.CaptureWorkspace()
	if err != nil {
		return "", fmt.Errorf("stash: %w", err)
	}

	treeHash, err := r.TreeFromWorkspace(ws)
	if err != nil {
		return "", fmt.Errorf("stash: %w", err)
	}

	var parents []object.Hash
	label := "detached HEAD"
	head, err := r.Head()
	if err != nil {
		return "", fmt.Errorf("stash: %w", err)
	}
	if !head.Detached() {
		label = head.Branch
	}
	if parent, err := r.CurrentCommit(); err == nil {
		if parent != "" {
			parents = append(parents, parent)
		}
	} else if !errors.Is(err, ErrNotFound) {
		return "", fmt.Errorf("stash: %w", err)
	}

	sig, err := r.authorSignature()
	if err != nil {
		return "", fmt.Errorf("stash: %w", err)
	}

	if message == "" {
		message = fmt.Sprintf("WIP on %s", label)
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
		return "", fmt.Errorf("stash: %w", err)
	}

	if err := r.appendStash(hash); err != nil {
		return "", fmt.Errorf("stash: %w", err)
	}
	return hash, nil
}

// ListStashes returns the stash log newest first: index 0 is the latest
// snapshot. An absent log yields an empty list.
func (r *Repo) ListStashes() ([]StashEntry, error) {
	hashes, err := r.readStashLog()
	if err != nil {
		return nil, fmt.Errorf("stash list: %w", err)
	}

	entries := make([]StashEntry, 0, len(hashes))
	for i := len(hashes) - 1; i >= 0; i-- {
		commit, err := r.Store.ReadCommit(hashes[i])
		if err != nil {
			return nil, fmt.Errorf("stash list: read %s: %w", hashes[i], err)
		}
		entries = append(entries, StashEntry{
			Index:  len(hashes) - 1 - i,
			Hash:   hashes[i],
			Commit: commit,
		})
	}
	return entries, nil
}

// GetStash resolves a stash reference. Accepted forms are "stash@{N}"
// (N counted from the newest snapshot) and a raw 40-hex commit hash. A
// well-formed index past the end of the log resolves to nil with no error.
func (r *Repo) GetStash(ref string) (*StashEntry, error) {
	if m := stashRefRe.FindStringSubmatch(ref); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return nil, fmt.Errorf("stash ref %q: %w", ref, ErrInvalidArgument)
		}
		hashes, err := r.readStashLog()
		if err != nil {
			return nil, fmt.Errorf("stash ref %q: %w", ref, err)
		}
		if n >= len(hashes) {
			return nil, nil
		}
		hash := hashes[len(hashes)-1-n]
		commit, err := r.Store.ReadCommit(hash)
		if err != nil {
			return nil, fmt.Errorf("stash ref %q: %w", ref, err)
		}
		return &StashEntry{Index: n, Hash: hash, Commit: commit}, nil
	}

	if len(ref) == 40 {
		hash := object.Hash(strings.ToLower(ref))
		commit, err := r.Store.ReadCommit(hash)
		if err != nil {
			return nil, fmt.Errorf("stash ref %q: %w", ref, err)
		}
		return &StashEntry{Index: -1, Hash: hash, Commit: commit}, nil
	}

	return nil, fmt.Errorf("stash ref %q: %w", ref, ErrInvalidArgument)
}

// ApplyStash restores the workspace from the referenced stash. Paths whose
// live content differs from the snapshot are reported as a ConflictError
// and nothing is written.
func (r *Repo) ApplyStash(ref string) error {
	entry, err := r.GetStash(ref)
	if err != nil {
		return fmt.Errorf("stash apply: %w", err)
	}
	if entry == nil {
		return fmt.Errorf("stash apply %q: %w", ref, ErrNotFound)
	}

	ws, err := r.WorkspaceFromTree(entry.Commit.Tree)
	if err != nil {
		return fmt.Errorf("stash apply: %w", err)
	}

	conflicts, err := r.CheckConflicts(ws)
	if err != nil {
		return fmt.Errorf("stash apply: %w", err)
	}
	if len(conflicts) > 0 {
		return fmt.Errorf("stash apply: %w", &ConflictError{Paths: conflicts})
	}

	if err := r.ApplyWorkspace(ws); err != nil {
		return fmt.Errorf("stash apply: %w", err)
	}
	return nil
}

// DropStash removes the snapshot named by a "stash@{N}" reference.
// Malformed syntax fails with ErrInvalidArgument, an index past the end
// with ErrNotFound. Dropping the last entry removes the log file itself.
func (r *Repo) DropStash(ref string) error {
	m := stashRefRe.FindStringSubmatch(ref)
	if m == nil {
		return fmt.Errorf("stash drop %q: %w", ref, ErrInvalidArgument)
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return fmt.Errorf("stash drop %q: %w", ref, ErrInvalidArgument)
	}

	hashes, err := r.readStashLog()
	if err != nil {
		return fmt.Errorf("stash drop: %w", err)
	}
	if n >= len(hashes) {
		return fmt.Errorf("stash drop %q: %w", ref, ErrNotFound)
	}

	i := len(hashes) - 1 - n
	hashes = append(hashes[:i], hashes[i+1:]...)

	path := filepath.Join(r.MetaDir, stashRefPath)
	if len(hashes) == 0 {
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("stash drop: %w", err)
		}
		return nil
	}

	var sb strings.Builder
	for _, h := range hashes {
		sb.WriteString(string(h))
		sb.WriteByte('\n')
	}
	if err := writeFileAtomic(path, []byte(sb.String())); err != nil {
		return fmt.Errorf("stash drop: %w", err)
	}
	return nil
}

// appendStash appends a commit hash to the stash log in creation order.
func (r *Repo) appendStash(hash object.Hash) error {
	path := filepath.Join(r.MetaDir, stashRefPath)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(f, "%s\n", hash); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// readStashLog returns the stash hashes in creation order, oldest first.
func (r *Repo) readStashLog() ([]object.Hash, error) {
	data, err := os.ReadFile(filepath.Join(r.MetaDir, stashRefPath))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var hashes []object.Hash
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		hashes = append(hashes, object.Hash(line))
	}
	return hashes, nil
}

package repo

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mamba-vcs/mamba/pkg/object"
)

// Branch pairs a branch name with its resolved tip hash. Unborn branches
// carry an empty hash.
type Branch struct {
	Name string
	Hash object.Hash
}

// CreateBranch creates refs/heads/<name> pointing at the commit HEAD
// currently resolves to (empty for a repository with no commits yet).
// Returns ErrAlreadyExists if the branch ref is already present.
func (r *Repo) CreateBranch(name string) error {
	refName := "refs/heads/" + name
	if _, ok, err := r.ReadRef(refName); err != nil {
		return fmt.Errorf("create branch %q: %w", name, err)
	} else if ok {
		return fmt.Errorf("create branch: branch %q: %w", name, ErrAlreadyExists)
	}

	current, err := r.CurrentCommit()
	if err != nil {
		return fmt.Errorf("create branch %q: %w", name, err)
	}

	if err := r.UpdateRef(refName, current); err != nil {
		return fmt.Errorf("create branch %q: %w", name, err)
	}
	return nil
}

// SwitchBranch rewrites HEAD to point symbolically at the named branch.
// The working tree is not touched. Returns ErrNotFound if the branch does
// not exist.
func (r *Repo) SwitchBranch(name string) error {
	if _, ok, err := r.ReadRef("refs/heads/" + name); err != nil {
		return fmt.Errorf("switch branch %q: %w", name, err)
	} else if !ok {
		return fmt.Errorf("switch branch: branch %q: %w", name, ErrNotFound)
	}
	if err := r.SetHeadBranch(name); err != nil {
		return fmt.Errorf("switch branch %q: %w", name, err)
	}
	return nil
}

// DeleteBranch removes refs/heads/<name>. Returns ErrNotFound if the branch
// does not exist and ErrInvalidArgument if it is the branch HEAD currently
// resolves to.
func (r *Repo) DeleteBranch(name string) error {
	if _, ok, err := r.ReadRef("refs/heads/" + name); err != nil {
		return fmt.Errorf("delete branch %q: %w", name, err)
	} else if !ok {
		return fmt.Errorf("delete branch: branch %q: %w", name, ErrNotFound)
	}

	head, err := r.Head()
	if err != nil {
		return fmt.Errorf("delete branch %q: %w", name, err)
	}
	if !head.Detached() && head.Branch == name {
		return fmt.Errorf("delete branch: cannot delete the current branch %q: %w", name, ErrInvalidArgument)
	}

	if err := os.Remove(filepath.Join(r.MetaDir, "refs", "heads", name)); err != nil {
		return fmt.Errorf("delete branch %q: %w", name, err)
	}
	return nil
}

// ListBranches enumerates refs/heads/*, pairing each name with its hash.
// Order follows directory enumeration; callers needing determinism sort.
func (r *Repo) ListBranches() ([]Branch, error) {
	headsDir := filepath.Join(r.MetaDir, "refs", "heads")
	entries, err := os.ReadDir(headsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list branches: %w", err)
	}

	var branches []Branch
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		h, ok, err := r.ReadRef("refs/heads/" + e.Name())
		if err != nil {
			return nil, fmt.Errorf("list branches: %w", err)
		}
		if !ok {
			continue
		}
		branches = append(branches, Branch{Name: e.Name(), Hash: h})
	}
	return branches, nil
}

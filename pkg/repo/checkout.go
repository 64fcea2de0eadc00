package repo

import (
	"fmt"
	"os"
	"path/filepath"
)

// RestoreFromIndex rematerializes a single file from its staged blob,
// overwriting whatever is in the workspace at that path. The path may be
// absolute or relative to the repository root.
func (r *Repo) RestoreFromIndex(path string) error {
	rel, err := r.repoRelPath(path)
	if err != nil {
		return fmt.Errorf("restore %q: %w", path, err)
	}

	idx, err := r.LoadIndex()
	if err != nil {
		return fmt.Errorf("restore %q: %w", path, err)
	}

	entry, ok := idx.Get(rel)
	if !ok {
		return fmt.Errorf("restore %q: not staged: %w", path, ErrNotFound)
	}

	blob, err := r.Store.ReadBlob(entry.Hash)
	if err != nil {
		return fmt.Errorf("restore %q: %w", path, err)
	}

	absPath := filepath.Join(r.RootDir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
		return fmt.Errorf("restore %q: %w", path, err)
	}
	perm := filePermFromMode(entry.Mode)
	if err := os.WriteFile(absPath, blob.Data, perm); err != nil {
		return fmt.Errorf("restore %q: %w", path, err)
	}
	if err := os.Chmod(absPath, perm); err != nil {
		return fmt.Errorf("restore %q: %w", path, err)
	}
	return nil
}

package repo

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mamba-vcs/mamba/pkg/object"
)

// FileMeta records the filesystem metadata captured with a workspace file.
type FileMeta struct {
	Mode    uint32
	ModTime int64
	Size    int64
}

// WorkspaceState is a captured snapshot of the working directory: every
// regular, non-hidden file outside the metadata directory, keyed by
// repo-relative path.
type WorkspaceState struct {
	Files map[string]object.Hash
	Meta  map[string]FileMeta
}

// CaptureWorkspace walks the working directory, blob-stores every regular
// file, and records the path→hash and path→metadata maps. The .mamba
// directory and any dot-prefixed file or directory are excluded.
func (r *Repo) CaptureWorkspace() (*WorkspaceState, error) {
	ws := &WorkspaceState{
		Files: make(map[string]object.Hash),
		Meta:  make(map[string]FileMeta),
	}

	err := filepath.WalkDir(r.RootDir, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if p == r.RootDir {
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(r.RootDir, p)
		if err != nil {
			return err
		}
		relPath := filepath.ToSlash(rel)

		content, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}

		hash := r.cachedBlobHash(relPath, content)
		if _, err := r.Store.WriteBlob(&object.Blob{Data: content}); err != nil {
			return err
		}

		ws.Files[relPath] = hash
		ws.Meta[relPath] = FileMeta{
			Mode:    fileModeBits(info.Mode()),
			ModTime: info.ModTime().Unix(),
			Size:    info.Size(),
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("capture workspace: %w", err)
	}
	return ws, nil
}

// TreeFromWorkspace writes the captured state as a hierarchy of tree
// objects and returns the root tree hash.
func (r *Repo) TreeFromWorkspace(ws *WorkspaceState) (object.Hash, error) {
	idx := NewIndex()
	paths := make([]string, 0, len(ws.Files))
	for p := range ws.Files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	for _, p := range paths {
		meta := ws.Meta[p]
		idx.Add(IndexEntry{
			Mode: meta.Mode,
			Size: uint64(meta.Size),
			Hash: ws.Files[p],
			Path: p,
		})
	}

	h, err := r.BuildTree(idx)
	if err != nil {
		return "", fmt.Errorf("workspace tree: %w", err)
	}
	return h, nil
}

// WorkspaceFromTree reconstructs a WorkspaceState from a stored tree,
// deriving metadata from the recorded entry modes.
func (r *Repo) WorkspaceFromTree(h object.Hash) (*WorkspaceState, error) {
	files, err := r.FlattenTree(h)
	if err != nil {
		return nil, fmt.Errorf("workspace from tree: %w", err)
	}

	ws := &WorkspaceState{
		Files: make(map[string]object.Hash, len(files)),
		Meta:  make(map[string]FileMeta, len(files)),
	}
	for _, f := range files {
		ws.Files[f.Path] = f.Hash
		ws.Meta[f.Path] = FileMeta{Mode: f.Mode}
	}
	return ws, nil
}

// CheckConflicts re-captures the live workspace and returns the sorted list
// of paths whose current content hash differs from the captured one. Paths
// absent from either side are not conflicts.
func (r *Repo) CheckConflicts(ws *WorkspaceState) ([]string, error) {
	current, err := r.CaptureWorkspace()
	if err != nil {
		return nil, fmt.Errorf("check conflicts: %w", err)
	}

	var conflicts []string
	for p, h := range ws.Files {
		if cur, ok := current.Files[p]; ok && cur != h {
			conflicts = append(conflicts, p)
		}
	}
	sort.Strings(conflicts)
	return conflicts, nil
}

// ApplyWorkspace replaces the working directory content with the captured
// state: all tracked non-internal files are removed (with empty directories
// pruned), then every path is rematerialized from its blob with its
// recorded mode bits.
func (r *Repo) ApplyWorkspace(ws *WorkspaceState) error {
	if err := r.cleanWorkspace(); err != nil {
		return fmt.Errorf("apply workspace: %w", err)
	}

	for p, h := range ws.Files {
		absPath := filepath.Join(r.RootDir, filepath.FromSlash(p))
		if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
			return fmt.Errorf("apply workspace: mkdir for %q: %w", p, err)
		}

		blob, err := r.Store.ReadBlob(h)
		if err != nil {
			return fmt.Errorf("apply workspace: read blob for %q: %w", p, err)
		}

		perm := fs.FileMode(0o644)
		if meta, ok := ws.Meta[p]; ok {
			perm = filePermFromMode(meta.Mode)
		}
		if err := os.WriteFile(absPath, blob.Data, perm); err != nil {
			return fmt.Errorf("apply workspace: write %q: %w", p, err)
		}
		// WriteFile perm is masked by umask for new files; re-apply.
		if err := os.Chmod(absPath, perm); err != nil {
			return fmt.Errorf("apply workspace: chmod %q: %w", p, err)
		}
	}
	return nil
}

// cleanWorkspace removes every non-hidden regular file outside .mamba, then
// prunes directories left empty.
func (r *Repo) cleanWorkspace() error {
	var files []string
	var dirs []string

	err := filepath.WalkDir(r.RootDir, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if p == r.RootDir {
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			dirs = append(dirs, p)
			return nil
		}
		if d.Type().IsRegular() {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return err
	}

	for _, f := range files {
		if err := os.Remove(f); err != nil {
			return err
		}
	}

	// Deepest first so emptied parents can be pruned too.
	sort.Slice(dirs, func(i, j int) bool { return len(dirs[i]) > len(dirs[j]) })
	for _, d := range dirs {
		entries, err := os.ReadDir(d)
		if err == nil && len(entries) == 0 {
			os.Remove(d)
		}
	}
	return nil
}

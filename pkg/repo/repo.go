package repo

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/mamba-vcs/mamba/pkg/object"
)

// MetaDirName is the repository-internal metadata directory.
const MetaDirName = ".mamba"

// Repo represents an opened mamba repository. The handle is threaded
// explicitly through all operations; there is no process-global state.
type Repo struct {
	RootDir string        // working directory root
	MetaDir string        // .mamba/ directory
	Store   *object.Store // content-addressed object store

	fpCacheMu sync.Mutex
	fpCache   map[string]fingerprintEntry
}

// Init creates a new mamba repository at path: the .mamba/ skeleton with
// objects/, refs/heads/ (holding an unborn main branch), a symbolic HEAD,
// and an empty staging index. Returns an error if .mamba/ already exists.
func Init(path string) (*Repo, error) {
	metaDir := filepath.Join(path, MetaDirName)

	if _, err := os.Stat(metaDir); err == nil {
		return nil, fmt.Errorf("init: repository already exists at %s: %w", metaDir, ErrAlreadyExists)
	}

	dirs := []string{
		filepath.Join(metaDir, "objects"),
		filepath.Join(metaDir, "refs", "heads"),
		filepath.Join(metaDir, "logs", "refs", "heads"),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return nil, fmt.Errorf("init: mkdir %s: %w", d, err)
		}
	}

	// Unborn main branch: an empty ref file, pointed at by symbolic HEAD.
	mainRef := filepath.Join(metaDir, "refs", "heads", "main")
	if err := os.WriteFile(mainRef, nil, 0o644); err != nil {
		return nil, fmt.Errorf("init: write main ref: %w", err)
	}
	headPath := filepath.Join(metaDir, "HEAD")
	if err := os.WriteFile(headPath, []byte("ref: refs/heads/main\n"), 0o644); err != nil {
		return nil, fmt.Errorf("init: write HEAD: %w", err)
	}

	r := &Repo{
		RootDir: path,
		MetaDir: metaDir,
		Store:   object.NewStore(metaDir),
		fpCache: make(map[string]fingerprintEntry),
	}

	if err := r.SaveIndex(NewIndex()); err != nil {
		return nil, fmt.Errorf("init: %w", err)
	}
	return r, nil
}

// Open searches upward from path for a .mamba/ directory and opens the
// repository. Returns an error if none is found.
func Open(path string) (*Repo, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("open: abs path: %w", err)
	}

	cur := abs
	for {
		metaDir := filepath.Join(cur, MetaDirName)
		info, err := os.Stat(metaDir)
		if err == nil && info.IsDir() {
			return &Repo{
				RootDir: cur,
				MetaDir: metaDir,
				Store:   object.NewStore(metaDir),
				fpCache: make(map[string]fingerprintEntry),
			}, nil
		}

		parent := filepath.Dir(cur)
		if parent == cur {
			return nil, fmt.Errorf("open: not a mamba repository (or any parent up to /): %w", ErrNotFound)
		}
		cur = parent
	}
}

// repoRelPath converts a path (absolute, or relative to the repo root) into
// a slash-separated path relative to the repository root.
func (r *Repo) repoRelPath(p string) (string, error) {
	if !filepath.IsAbs(p) {
		return filepath.ToSlash(filepath.Clean(p)), nil
	}
	rel, err := filepath.Rel(r.RootDir, p)
	if err != nil {
		return "", fmt.Errorf("path %q is not inside repository %q: %w", p, r.RootDir, err)
	}
	if rel == ".." || len(rel) >= 3 && rel[:3] == ".."+string(filepath.Separator) {
		return "", fmt.Errorf("path %q is outside repository %q: %w", p, r.RootDir, ErrInvalidArgument)
	}
	return filepath.ToSlash(rel), nil
}

package repo

import (
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/mamba-vcs/mamba/pkg/object"
)

// TreeFile is a single file in a flattened tree.
type TreeFile struct {
	Path string
	Mode uint32
	Hash object.Hash
}

// BuildTree converts the flat staging index into a hierarchy of tree
// objects, writing each through the object store bottom-up, and returns the
// hash of the root tree. Directories with no direct file entries (implicit
// ancestors) are synthesized. Entries within one directory are ordered
// lexicographically by name so the resulting hashes do not depend on
// staging order. An empty index yields a valid empty root tree.
func (r *Repo) BuildTree(idx *Index) (object.Hash, error) {
	byDir := make(map[string][]IndexEntry)
	byDir[""] = nil
	for _, e := range idx.Entries() {
		dir := parentDir(e.Path)
		byDir[dir] = append(byDir[dir], e)
		// Synthesize implicit ancestors so every directory on the path
		// materializes a tree, never a dangling entry.
		for d := dir; d != ""; d = parentDir(d) {
			if _, ok := byDir[d]; !ok {
				byDir[d] = nil
			}
		}
	}
	return r.writeTreeDir(byDir, "")
}

// writeTreeDir materializes the tree for one directory: its file entries
// plus one subtree entry per child directory, each child written first so
// its hash can be linked in.
func (r *Repo) writeTreeDir(byDir map[string][]IndexEntry, dir string) (object.Hash, error) {
	type child struct {
		entry IndexEntry
		isDir bool
		name  string
	}
	children := make(map[string]child)

	for _, e := range byDir[dir] {
		name := path.Base(e.Path)
		children[name] = child{entry: e, name: name}
	}
	for d := range byDir {
		if d != "" && parentDir(d) == dir {
			name := path.Base(d)
			// A staged file "x" alongside entries under "x/" cannot both
			// materialize; the index does not forbid it, so reject it here.
			if existing, ok := children[name]; ok && !existing.isDir {
				return "", fmt.Errorf("build tree: %q is staged as both a file and a directory: %w",
					existing.entry.Path, ErrInvalidArgument)
			}
			children[name] = child{isDir: true, name: name}
		}
	}

	names := make([]string, 0, len(children))
	for name := range children {
		names = append(names, name)
	}
	sort.Strings(names)

	tree := &object.Tree{}
	for _, name := range names {
		c := children[name]
		if c.isDir {
			childDir := name
			if dir != "" {
				childDir = dir + "/" + name
			}
			subHash, err := r.writeTreeDir(byDir, childDir)
			if err != nil {
				return "", err
			}
			tree.Entries = append(tree.Entries, object.TreeEntry{
				Mode: object.ModeDir,
				Name: name,
				Hash: subHash,
			})
		} else {
			tree.Entries = append(tree.Entries, object.TreeEntry{
				Mode: c.entry.Mode,
				Name: name,
				Hash: c.entry.Hash,
			})
		}
	}

	h, err := r.Store.WriteTree(tree)
	if err != nil {
		return "", fmt.Errorf("build tree %q: %w", dir, err)
	}
	return h, nil
}

// FlattenTree walks a tree object recursively, returning every file with
// its full slash-separated path.
func (r *Repo) FlattenTree(h object.Hash) ([]TreeFile, error) {
	return r.flattenTreeRec(h, "")
}

func (r *Repo) flattenTreeRec(h object.Hash, prefix string) ([]TreeFile, error) {
	tree, err := r.Store.ReadTree(h)
	if err != nil {
		return nil, fmt.Errorf("flatten tree %s: %w", h, err)
	}

	var files []TreeFile
	for _, e := range tree.Entries {
		fullPath := e.Name
		if prefix != "" {
			fullPath = prefix + "/" + e.Name
		}
		if e.IsDir() {
			sub, err := r.flattenTreeRec(e.Hash, fullPath)
			if err != nil {
				return nil, err
			}
			files = append(files, sub...)
		} else {
			files = append(files, TreeFile{Path: fullPath, Mode: e.Mode, Hash: e.Hash})
		}
	}
	return files, nil
}

func parentDir(p string) string {
	idx := strings.LastIndexByte(p, '/')
	if idx < 0 {
		return ""
	}
	return p[:idx]
}

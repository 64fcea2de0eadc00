package repo

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mamba-vcs/mamba/pkg/object"
)

const headRefPrefix = "ref: "

// HeadState is a tagged representation of HEAD. Exactly one of Branch and
// Commit is set: Branch when HEAD is a symbolic ref to a branch, Commit
// when HEAD is detached and holds a raw hash.
type HeadState struct {
	Branch string
	Commit object.Hash
}

// Detached reports whether HEAD holds a raw commit hash rather than a
// branch pointer.
func (h HeadState) Detached() bool {
	return h.Branch == ""
}

// Head reads and classifies .mamba/HEAD.
func (r *Repo) Head() (HeadState, error) {
	data, err := os.ReadFile(filepath.Join(r.MetaDir, "HEAD"))
	if err != nil {
		return HeadState{}, fmt.Errorf("head: %w", err)
	}
	content := strings.TrimSpace(string(data))

	if strings.HasPrefix(content, headRefPrefix) {
		target := strings.TrimPrefix(content, headRefPrefix)
		return HeadState{Branch: strings.TrimPrefix(target, "refs/heads/")}, nil
	}
	return HeadState{Commit: object.Hash(content)}, nil
}

// SetHeadBranch rewrites HEAD to the symbolic form pointing at a branch.
func (r *Repo) SetHeadBranch(name string) error {
	content := headRefPrefix + "refs/heads/" + name + "\n"
	if err := writeFileAtomic(filepath.Join(r.MetaDir, "HEAD"), []byte(content)); err != nil {
		return fmt.Errorf("set head: %w", err)
	}
	return nil
}

// SetHeadDetached rewrites HEAD to hold a raw commit hash.
func (r *Repo) SetHeadDetached(h object.Hash) error {
	if err := writeFileAtomic(filepath.Join(r.MetaDir, "HEAD"), []byte(string(h)+"\n")); err != nil {
		return fmt.Errorf("set head: %w", err)
	}
	return nil
}

// ReadRef reads the named ref file under .mamba/ (e.g. "refs/heads/main").
// The second return value reports whether the ref file exists; an unborn
// branch exists with an empty hash.
func (r *Repo) ReadRef(name string) (object.Hash, bool, error) {
	data, err := os.ReadFile(filepath.Join(r.MetaDir, filepath.FromSlash(name)))
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("read ref %q: %w", name, err)
	}
	return object.Hash(strings.TrimSpace(string(data))), true, nil
}

// UpdateRef writes a hash to the named ref file under .mamba/ with a
// temp-file + rename so concurrent readers never observe a partial write.
// Parent directories are created as needed, and the update is recorded in
// the ref's log.
func (r *Repo) UpdateRef(name string, h object.Hash) error {
	return r.updateRef(name, h, "update")
}

func (r *Repo) updateRef(name string, h object.Hash, reason string) error {
	refPath := filepath.Join(r.MetaDir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(refPath), 0o755); err != nil {
		return fmt.Errorf("update ref %q: mkdir: %w", name, err)
	}

	old, _, err := r.ReadRef(name)
	if err != nil {
		return fmt.Errorf("update ref %q: %w", name, err)
	}

	if err := writeFileAtomic(refPath, []byte(string(h)+"\n")); err != nil {
		return fmt.Errorf("update ref %q: %w", name, err)
	}

	if err := r.appendReflog(name, old, h, reason); err != nil {
		return fmt.Errorf("update ref %q: %w", name, err)
	}
	return nil
}

// CurrentCommit resolves the commit HEAD is acting on: the branch tip when
// attached (walking the symbolic indirection), the raw hash when detached.
// An unborn branch resolves to the empty hash. Returns ErrNotFound when
// HEAD names a branch whose ref file is missing.
func (r *Repo) CurrentCommit() (object.Hash, error) {
	head, err := r.Head()
	if err != nil {
		return "", err
	}
	if head.Detached() {
		return head.Commit, nil
	}

	h, ok, err := r.ReadRef("refs/heads/" + head.Branch)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("branch %q: %w", head.Branch, ErrNotFound)
	}
	return h, nil
}

// advanceHead moves the acting ref to the given commit: the current branch
// ref when HEAD is attached, HEAD itself when detached. The reason is
// recorded in the ref log.
func (r *Repo) advanceHead(h object.Hash, reason string) error {
	head, err := r.Head()
	if err != nil {
		return err
	}
	if head.Detached() {
		return r.SetHeadDetached(h)
	}
	return r.updateRef("refs/heads/"+head.Branch, h, reason)
}

// writeFileAtomic writes data to path via a temp file in the same directory
// followed by a rename.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-tmp-*")
	if err != nil {
		return fmt.Errorf("tmpfile: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}

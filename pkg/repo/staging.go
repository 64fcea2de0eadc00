package repo

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/mamba-vcs/mamba/pkg/object"
)

// FileStat carries the filesystem fingerprint recorded alongside a staged
// file. Capturing it (owner, device, inode, timestamps) is the caller's
// concern; the core only stores and round-trips the values. FileStatFromInfo
// fills the portably available fields.
type FileStat struct {
	Ctime uint64
	Mtime uint64
	Dev   uint32
	Ino   uint32
	Mode  uint32
	Uid   uint32
	Gid   uint32
	Size  uint64
}

// FileStatFromInfo derives a FileStat from an os.FileInfo using only
// portable fields. Mode is the octal-significant file mode (0o100644 or
// 0o100755); device, inode, owner, and ctime stay zero unless the caller
// fills them from platform-specific stat data.
func FileStatFromInfo(info fs.FileInfo) FileStat {
	return FileStat{
		Mtime: uint64(info.ModTime().Unix()),
		Mode:  fileModeBits(info.Mode()),
		Size:  uint64(info.Size()),
	}
}

// Add stages the file at path: the content is written to the object store
// as a blob and an index entry is recorded under the repo-relative path,
// replacing any previous entry for it. The updated index is persisted
// before returning.
func (r *Repo) Add(path string, st FileStat) (object.Hash, error) {
	relPath, err := r.repoRelPath(path)
	if err != nil {
		return "", fmt.Errorf("add: %w", err)
	}

	content, err := os.ReadFile(filepath.Join(r.RootDir, filepath.FromSlash(relPath)))
	if err != nil {
		return "", fmt.Errorf("add: read %q: %w", relPath, err)
	}

	hash, err := r.Store.WriteBlob(&object.Blob{Data: content})
	if err != nil {
		return "", fmt.Errorf("add: write blob %q: %w", relPath, err)
	}

	idx, err := r.LoadIndex()
	if err != nil {
		return "", fmt.Errorf("add: %w", err)
	}
	idx.Add(IndexEntry{
		Ctime: st.Ctime,
		Mtime: st.Mtime,
		Dev:   st.Dev,
		Ino:   st.Ino,
		Mode:  st.Mode,
		Uid:   st.Uid,
		Gid:   st.Gid,
		Size:  st.Size,
		Hash:  hash,
		Path:  relPath,
	})
	if err := r.SaveIndex(idx); err != nil {
		return "", fmt.Errorf("add: %w", err)
	}
	return hash, nil
}

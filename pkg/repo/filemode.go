package repo

import (
	"io/fs"

	"github.com/mamba-vcs/mamba/pkg/object"
)

// fileModeBits maps an fs.FileMode to the octal-significant mode stored in
// index entries and tree objects.
func fileModeBits(mode fs.FileMode) uint32 {
	if mode&0o111 != 0 {
		return object.ModeExec
	}
	return object.ModeFile
}

// filePermFromMode maps a stored mode back to the permission bits used when
// rematerializing a file in the workspace.
func filePermFromMode(mode uint32) fs.FileMode {
	if mode&0o111 != 0 {
		return 0o755
	}
	return 0o644
}

//go:build linux

package main

import (
	"io/fs"
	"syscall"

	"github.com/mamba-vcs/mamba/pkg/repo"
)

// fileStat captures the full inode fingerprint the index records. Falls
// back to the portable subset when the underlying stat is unavailable.
func fileStat(info fs.FileInfo) repo.FileStat {
	st := repo.FileStatFromInfo(info)
	sys, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return st
	}
	st.Ctime = uint64(sys.Ctim.Sec)
	st.Dev = uint32(sys.Dev)
	st.Ino = uint32(sys.Ino)
	st.Uid = sys.Uid
	st.Gid = sys.Gid
	return st
}

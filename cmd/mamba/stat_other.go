//go:build !linux

package main

import (
	"io/fs"

	"github.com/mamba-vcs/mamba/pkg/repo"
)

func fileStat(info fs.FileInfo) repo.FileStat {
	return repo.FileStatFromInfo(info)
}

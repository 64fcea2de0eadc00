package main

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/mamba-vcs/mamba/pkg/repo"
	"github.com/spf13/cobra"
)

func newAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <files...>",
		Short: "Stage files for the next commit",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(".")
			if err != nil {
				return err
			}

			for _, arg := range args {
				if err := addPath(r, arg); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

// addPath stages a single file, or every regular file under a directory.
func addPath(r *repo.Repo, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	if !info.IsDir() {
		_, err := r.Add(path, fileStat(info))
		return err
	}

	return filepath.WalkDir(path, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		_, err = r.Add(p, fileStat(info))
		return err
	})
}

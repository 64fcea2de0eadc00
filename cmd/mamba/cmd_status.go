package main

import (
	"fmt"

	"github.com/mamba-vcs/mamba/pkg/repo"
	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show working tree status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(".")
			if err != nil {
				return err
			}

			st, err := r.Status()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if st.Detached {
				fmt.Fprintf(out, "HEAD detached at %s\n", shortHash(st.Branch))
			} else {
				fmt.Fprintf(out, "on %s\n", st.Branch)
			}

			printSection := func(title, marker string, paths []string) {
				if len(paths) == 0 {
					return
				}
				fmt.Fprintln(out)
				fmt.Fprintf(out, "%s:\n", title)
				for _, p := range paths {
					fmt.Fprintf(out, "  %s %s\n", marker, p)
				}
			}

			printSection("staged", "+", st.Staged)
			printSection("modified", "~", st.Modified)
			printSection("deleted", "-", st.Deleted)

			if len(st.Untracked) > 0 {
				fmt.Fprintln(out)
				fmt.Fprintln(out, "untracked:")
				for _, p := range st.Untracked {
					fmt.Fprintf(out, "  %s\n", p)
				}
			}

			if st.Clean() && len(st.Untracked) == 0 {
				fmt.Fprintln(out, "nothing to commit, working tree clean")
			}
			return nil
		},
	}
}

func shortHash(h string) string {
	if len(h) > 8 {
		return h[:8]
	}
	return h
}

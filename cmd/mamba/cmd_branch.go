package main

import (
	"fmt"
	"sort"

	"github.com/mamba-vcs/mamba/pkg/repo"
	"github.com/spf13/cobra"
)

func newBranchCmd() *cobra.Command {
	var deleteBranch string
	var mergeBranch string

	cmd := &cobra.Command{
		Use:   "branch [name]",
		Short: "List, create, delete, or merge branches",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(".")
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if deleteBranch != "" {
				if err := r.DeleteBranch(deleteBranch); err != nil {
					return err
				}
				fmt.Fprintf(out, "deleted branch '%s'\n", deleteBranch)
				return nil
			}

			if mergeBranch != "" {
				hash, err := r.MergeBranch(mergeBranch)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "merged '%s' as %s\n", mergeBranch, shortHash(string(hash)))
				return nil
			}

			if len(args) == 1 {
				if err := r.CreateBranch(args[0]); err != nil {
					return err
				}
				fmt.Fprintf(out, "created branch '%s'\n", args[0])
				return nil
			}

			branches, err := r.ListBranches()
			if err != nil {
				return err
			}
			sort.Slice(branches, func(i, j int) bool { return branches[i].Name < branches[j].Name })

			head, err := r.Head()
			if err != nil {
				return err
			}
			for _, b := range branches {
				if !head.Detached() && b.Name == head.Branch {
					fmt.Fprintf(out, "* %s\n", b.Name)
				} else {
					fmt.Fprintf(out, "  %s\n", b.Name)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&deleteBranch, "delete", "d", "", "delete the named branch")
	cmd.Flags().StringVarP(&mergeBranch, "merge", "m", "", "merge the named branch into the current one")

	return cmd
}
